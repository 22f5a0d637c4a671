package config

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"reflect"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Manager owns the persisted Settings file (settings.json). It writes
// updates atomically and can watch the file so that edits made while the
// screener is running are picked up without a restart.
type Manager struct {
	path         string
	mu           sync.RWMutex
	settings     Settings
	watcher      *fsnotify.Watcher
	debounce     time.Duration
	onChange     func(Settings)
	suppressSelf atomic.Bool
}

type managerOptions struct {
	path            string
	initialSettings *Settings
	debounce        time.Duration
}

type ManagerOption func(*managerOptions)

func WithSettingsDir(dir string) ManagerOption {
	return func(o *managerOptions) {
		if dir != "" {
			o.path = filepath.Join(dir, "settings.json")
		}
	}
}

func WithSettingsPath(path string) ManagerOption {
	return func(o *managerOptions) {
		if path != "" {
			o.path = path
		}
	}
}

func WithDebounce(d time.Duration) ManagerOption {
	return func(o *managerOptions) {
		if d > 0 {
			o.debounce = d
		}
	}
}

func WithInitialSettings(s *Settings) ManagerOption {
	return func(o *managerOptions) {
		o.initialSettings = s
	}
}

func NewManager(opts ...ManagerOption) (*Manager, error) {
	options := managerOptions{
		debounce: 300 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(&options)
	}

	path := options.path
	if path == "" {
		var err error
		path, err = defaultSettingsPath()
		if err != nil {
			return nil, err
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create settings dir: %w", err)
	}

	settings, err := loadOrCreateSettings(path, options)
	if err != nil {
		return nil, err
	}

	return &Manager{
		path:     path,
		settings: settings,
		debounce: options.debounce,
	}, nil
}

func (m *Manager) Get() Settings {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.settings
}

func (m *Manager) Path() string {
	return m.path
}

// Update validates, persists and applies new settings. Writing through the
// manager suppresses the watcher for one debounce window so the process
// does not react to its own write.
func (m *Manager) Update(s Settings) error {
	if err := s.Validate(); err != nil {
		return err
	}

	m.mu.RLock()
	current := m.settings
	m.mu.RUnlock()
	if reflect.DeepEqual(current, s) {
		return nil
	}

	m.suppressSelf.Store(true)
	defer time.AfterFunc(m.debounce, func() { m.suppressSelf.Store(false) })

	if err := writeSettingsFile(m.path, s); err != nil {
		m.suppressSelf.Store(false)
		return err
	}

	m.apply(s)
	return nil
}

// Watch reloads the settings file on external edits, invoking onChange with
// each validated result.
func (m *Manager) Watch(ctx context.Context, onChange func(Settings)) error {
	m.mu.Lock()
	m.onChange = onChange
	if m.watcher != nil {
		m.mu.Unlock()
		return nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		m.mu.Unlock()
		return err
	}
	m.watcher = watcher
	debounce := m.debounce
	path := m.path
	m.mu.Unlock()

	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("watch settings dir: %w", err)
	}

	go m.watchLoop(ctx, watcher, path, debounce)
	return nil
}

func (m *Manager) watchLoop(ctx context.Context, watcher *fsnotify.Watcher, path string, debounce time.Duration) {
	defer watcher.Close()

	var timerMu sync.Mutex
	var timer *time.Timer
	trigger := func() {
		timerMu.Lock()
		if timer != nil {
			timer.Stop()
		}
		timer = time.AfterFunc(debounce, m.reloadFromDisk)
		timerMu.Unlock()
	}

	for {
		select {
		case evt, ok := <-watcher.Events:
			if !ok {
				return
			}
			if !isSettingsEvent(evt, path) {
				continue
			}
			if m.suppressSelf.Load() {
				continue
			}
			trigger()
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			if err != nil {
				log.Printf("settings watcher error: %v", err)
			}
		case <-ctx.Done():
			return
		}
	}
}

func isSettingsEvent(evt fsnotify.Event, path string) bool {
	if filepath.Clean(evt.Name) != filepath.Clean(path) {
		return false
	}
	return evt.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0
}

func (m *Manager) reloadFromDisk() {
	var s Settings
	if err := loadSettingsFile(m.path, &s); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			s = DefaultSettings()
			if err := writeSettingsFile(m.path, s); err != nil {
				log.Printf("settings recreate failed: %v", err)
				return
			}
		} else {
			log.Printf("settings reload failed: %v", err)
			return
		}
	}
	if err := s.Validate(); err != nil {
		log.Printf("settings validation failed: %v", err)
		return
	}

	m.mu.RLock()
	current := m.settings
	m.mu.RUnlock()
	if reflect.DeepEqual(current, s) {
		return
	}
	m.apply(s)
}

func (m *Manager) apply(s Settings) {
	m.mu.Lock()
	m.settings = s
	cb := m.onChange
	m.mu.Unlock()

	if cb != nil {
		cb(s)
	}
}

func loadOrCreateSettings(path string, options managerOptions) (Settings, error) {
	var s Settings
	if _, err := os.Stat(path); err == nil {
		if err := loadSettingsFile(path, &s); err != nil {
			return Settings{}, fmt.Errorf("load settings: %w", err)
		}
		if err := s.Validate(); err != nil {
			return Settings{}, err
		}
		return s, nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return Settings{}, fmt.Errorf("stat settings: %w", err)
	}

	if options.initialSettings != nil {
		s = *options.initialSettings
	} else {
		s = DefaultSettings()
	}

	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	if err := writeSettingsFile(path, s); err != nil {
		return Settings{}, fmt.Errorf("write initial settings: %w", err)
	}
	return s, nil
}

func defaultSettingsPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir, err = os.Getwd()
		if err != nil {
			return "", err
		}
	}
	return filepath.Join(dir, "poundfoolish", "settings.json"), nil
}

func loadSettingsFile(path string, s *Settings) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, s)
}

func writeSettingsFile(path string, s Settings) error {
	tmpFile, err := os.CreateTemp(filepath.Dir(path), "settings-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp settings: %w", err)
	}
	encoder := json.NewEncoder(tmpFile)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(&s); err != nil {
		tmpFile.Close()
		_ = os.Remove(tmpFile.Name())
		return fmt.Errorf("encode settings: %w", err)
	}
	if err := tmpFile.Sync(); err != nil {
		tmpFile.Close()
		_ = os.Remove(tmpFile.Name())
		return fmt.Errorf("flush settings: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		_ = os.Remove(tmpFile.Name())
		return fmt.Errorf("close temp settings: %w", err)
	}
	return os.Rename(tmpFile.Name(), path)
}
