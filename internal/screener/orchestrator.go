package screener

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/poundfoolish/poundfoolish/internal/config"
	"github.com/poundfoolish/poundfoolish/internal/models"
	"github.com/poundfoolish/poundfoolish/internal/provider"
)

// State is the orchestrator lifecycle state. Exactly one state is active at
// a time; the transitions are listed on Screener.
type State int

const (
	StateIdle State = iota
	StateLoading
	StateRetryScheduled
	StateCooldown
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	case StateRetryScheduled:
		return "retry-scheduled"
	case StateCooldown:
		return "cooldown"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Snapshot is a point-in-time copy of the orchestrator's observable state.
type Snapshot struct {
	State             State
	Stocks            []*models.Stock
	Promising         []*models.Stock
	Filters           models.FilterConfig
	LastError         string
	CooldownRemaining int
	LastRefreshed     time.Time
}

// Screener drives the sequential fetch pipeline and owns the retry and
// cooldown timers. Transitions:
//
//	Idle/RetryScheduled -> Loading    refresh invoked
//	Loading -> RetryScheduled         batch done, zero promising matches
//	any -> Cooldown                   rate limit observed during the batch
//	Cooldown -> Idle                  countdown reached zero
//
// At most one retry timer and one cooldown countdown exist at a time;
// arming either cancels its predecessor. A manual refresh, a non-empty
// promising set or a cooldown entry all cancel a pending retry.
type Screener struct {
	provider provider.Provider
	cfg      *config.Config
	logger   *zap.Logger

	mu                sync.Mutex
	state             State
	filters           models.FilterConfig
	stocks            []*models.Stock
	promising         []*models.Stock
	lastErr           string
	lastRefreshed     time.Time
	cooldownRemaining int
	cooldownGen       int
	retryTimer        *time.Timer
	onUpdate          func(Snapshot)

	rng          *rand.Rand
	cooldownTick time.Duration
}

// NewScreener creates a stopped orchestrator in the Idle state.
func NewScreener(p provider.Provider, cfg *config.Config, filters models.FilterConfig, logger *zap.Logger) *Screener {
	return &Screener{
		provider:     p,
		cfg:          cfg,
		logger:       logger,
		filters:      filters,
		rng:          rand.New(rand.NewSource(time.Now().UnixNano())),
		cooldownTick: time.Second,
	}
}

// SetOnUpdate registers a callback invoked (on its own goroutine) with a
// fresh snapshot after every observable state change.
func (s *Screener) SetOnUpdate(fn func(Snapshot)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onUpdate = fn
}

// Refresh runs one full fetch cycle: select up to maxSymbols symbols, fetch
// and normalize each in sequence with an inter-request delay, then publish
// the batch. Per-symbol failures are logged and skipped; only a symbol
// universe failure aborts the cycle. A refresh is rejected while one is
// already running or while cooling down.
func (s *Screener) Refresh(ctx context.Context, maxSymbols int) error {
	s.mu.Lock()
	switch s.state {
	case StateLoading:
		s.mu.Unlock()
		return errors.New("refresh already in progress")
	case StateCooldown:
		remaining := s.cooldownRemaining
		s.mu.Unlock()
		return fmt.Errorf("cooling down, %ds remaining", remaining)
	}
	s.cancelRetryLocked()
	s.state = StateLoading
	s.lastErr = ""
	withNews := s.filters.RequireRecentNews
	s.notifyLocked()
	s.mu.Unlock()

	symbols, err := SelectSymbols(ctx, s.provider, maxSymbols, s.rng)
	if err != nil {
		s.failRefresh(err)
		return err
	}

	delay := s.cfg.RequestDelay
	if withNews {
		delay = s.cfg.NewsRequestDelay
	}

	batch := make([]*models.Stock, 0, len(symbols))
	rateLimited := false
	for i, symbol := range symbols {
		stock, err := s.fetchStock(ctx, symbol, withNews)
		switch {
		case err != nil && errors.Is(err, provider.ErrRateLimited):
			s.logger.Warn("rate limit hit, entering cooldown", zap.String("symbol", symbol))
			rateLimited = true
		case err != nil && ctx.Err() != nil:
			s.failRefresh(ctx.Err())
			return ctx.Err()
		case err != nil:
			s.logger.Warn("skipping symbol", zap.String("symbol", symbol), zap.Error(err))
		case stock != nil:
			batch = append(batch, stock)
		}

		if rateLimited {
			break
		}
		if i < len(symbols)-1 {
			if err := sleepCtx(ctx, delay); err != nil {
				s.failRefresh(err)
				return err
			}
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.stocks = batch
	s.promising = FilterPromising(batch, s.filters)
	s.lastRefreshed = time.Now()

	if rateLimited {
		s.enterCooldownLocked()
	} else {
		s.state = StateIdle
		if len(batch) > 0 && len(s.promising) == 0 {
			s.armRetryLocked(maxSymbols)
		}
	}

	s.logger.Info("refresh complete",
		zap.Int("fetched", len(batch)),
		zap.Int("promising", len(s.promising)),
		zap.Stringer("state", s.state))
	s.notifyLocked()
	return nil
}

// UpdateFilters swaps the active filter configuration and reapplies it to
// the already fetched batch. A pending retry is cancelled when the new
// filters produce matches.
func (s *Screener) UpdateFilters(cfg models.FilterConfig) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.filters = cfg
	s.promising = FilterPromising(s.stocks, cfg)
	if len(s.promising) > 0 && s.state == StateRetryScheduled {
		s.cancelRetryLocked()
		s.state = StateIdle
	}
	s.notifyLocked()
}

// Snapshot returns a copy of the current observable state.
func (s *Screener) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Stop cancels any pending retry timer and cooldown countdown.
func (s *Screener) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cancelRetryLocked()
	s.cooldownGen++
	if s.state == StateRetryScheduled || s.state == StateCooldown {
		s.state = StateIdle
		s.cooldownRemaining = 0
	}
}

func (s *Screener) fetchStock(ctx context.Context, symbol string, withNews bool) (*models.Stock, error) {
	quote, err := s.provider.GetQuote(ctx, symbol)
	if err != nil {
		return nil, err
	}

	profile, err := s.provider.GetProfile(ctx, symbol)
	if err != nil {
		return nil, err
	}

	var news []*models.NewsArticle
	if withNews {
		news, err = s.provider.GetNews(ctx, symbol)
		if err != nil {
			if errors.Is(err, provider.ErrRateLimited) {
				return nil, err
			}
			s.logger.Debug("news fetch failed", zap.String("symbol", symbol), zap.Error(err))
			news = nil
		}
	}

	return Normalize(symbol, quote, profile, news, time.Now()), nil
}

func (s *Screener) failRefresh(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = StateIdle
	s.lastErr = err.Error()
	s.notifyLocked()
}

// armRetryLocked schedules an automatic refresh after the retry delay. Any
// previously armed timer is replaced, never doubled.
func (s *Screener) armRetryLocked(maxSymbols int) {
	s.cancelRetryLocked()
	s.state = StateRetryScheduled
	s.retryTimer = time.AfterFunc(s.cfg.RetryDelay, func() {
		s.mu.Lock()
		if s.state != StateRetryScheduled {
			s.mu.Unlock()
			return
		}
		s.state = StateIdle
		s.mu.Unlock()

		if err := s.Refresh(context.Background(), maxSymbols); err != nil {
			s.logger.Warn("scheduled retry failed", zap.Error(err))
		}
	})
}

func (s *Screener) cancelRetryLocked() {
	if s.retryTimer != nil {
		s.retryTimer.Stop()
		s.retryTimer = nil
	}
}

// enterCooldownLocked starts the once-per-second countdown. The generation
// counter invalidates any countdown goroutine from an earlier cooldown.
func (s *Screener) enterCooldownLocked() {
	s.cancelRetryLocked()
	s.state = StateCooldown
	s.cooldownRemaining = int(s.cfg.CooldownDuration.Round(time.Second) / time.Second)
	if s.cooldownRemaining <= 0 {
		s.cooldownRemaining = 1
	}
	s.cooldownGen++
	go s.runCooldown(s.cooldownGen)
}

func (s *Screener) runCooldown(gen int) {
	ticker := time.NewTicker(s.cooldownTick)
	defer ticker.Stop()

	for range ticker.C {
		s.mu.Lock()
		if gen != s.cooldownGen || s.state != StateCooldown {
			s.mu.Unlock()
			return
		}
		s.cooldownRemaining--
		if s.cooldownRemaining <= 0 {
			s.cooldownRemaining = 0
			s.state = StateIdle
			s.notifyLocked()
			s.mu.Unlock()
			return
		}
		s.notifyLocked()
		s.mu.Unlock()
	}
}

func (s *Screener) snapshotLocked() Snapshot {
	snap := Snapshot{
		State:             s.state,
		Stocks:            make([]*models.Stock, len(s.stocks)),
		Promising:         make([]*models.Stock, len(s.promising)),
		Filters:           s.filters,
		LastError:         s.lastErr,
		CooldownRemaining: s.cooldownRemaining,
		LastRefreshed:     s.lastRefreshed,
	}
	copy(snap.Stocks, s.stocks)
	copy(snap.Promising, s.promising)
	return snap
}

func (s *Screener) notifyLocked() {
	if s.onUpdate != nil {
		go s.onUpdate(s.snapshotLocked())
	}
}

// FetchDetail retrieves one symbol with price history attached, for the
// trade-plan and news views. days bounds the candle range.
func FetchDetail(ctx context.Context, p provider.Provider, symbol string, days int, withNews bool, logger *zap.Logger) (*models.Stock, error) {
	quote, err := p.GetQuote(ctx, symbol)
	if err != nil {
		return nil, err
	}

	profile, err := p.GetProfile(ctx, symbol)
	if err != nil {
		return nil, err
	}

	var news []*models.NewsArticle
	if withNews {
		news, err = p.GetNews(ctx, symbol)
		if err != nil {
			if errors.Is(err, provider.ErrRateLimited) {
				return nil, err
			}
			logger.Debug("news fetch failed", zap.String("symbol", symbol), zap.Error(err))
		}
	}

	stock := Normalize(symbol, quote, profile, news, time.Now())
	if stock == nil {
		return nil, fmt.Errorf("no data for symbol %s", symbol)
	}

	candles, err := p.GetCandles(ctx, symbol, days)
	if err != nil {
		if errors.Is(err, provider.ErrRateLimited) {
			return nil, err
		}
		logger.Debug("candle fetch failed", zap.String("symbol", symbol), zap.Error(err))
	} else {
		stock.Candles = candles
	}

	return stock, nil
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
