package cache

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

type payload struct {
	Symbol string `json:"symbol"`
	Count  int    `json:"count"`
}

func TestStoreRoundTrip(t *testing.T) {
	s := New(t.TempDir(), time.Hour, true)

	want := payload{Symbol: "SNDL", Count: 3}
	if err := s.Set("news_SNDL_2026-09-01", want); err != nil {
		t.Fatalf("Set: %v", err)
	}

	var got payload
	if !s.Get("news_SNDL_2026-09-01", &got) {
		t.Fatal("expected cache hit")
	}
	if got != want {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

func TestStoreMissOnUnknownKey(t *testing.T) {
	s := New(t.TempDir(), time.Hour, true)

	var got payload
	if s.Get("missing", &got) {
		t.Fatal("expected miss for unknown key")
	}
}

func TestStoreExpiry(t *testing.T) {
	dir := t.TempDir()
	s := New(dir, time.Hour, true)

	if err := s.Set("quote_ACB", payload{Symbol: "ACB"}); err != nil {
		t.Fatalf("Set: %v", err)
	}

	// Age the entry past the TTL.
	old := time.Now().Add(-2 * time.Hour)
	path := filepath.Join(dir, "quote_ACB.json")
	if err := os.Chtimes(path, old, old); err != nil {
		t.Fatalf("Chtimes: %v", err)
	}

	var got payload
	if s.Get("quote_ACB", &got) {
		t.Fatal("expected miss after expiry")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatal("expired entry should be removed")
	}
}

func TestStoreCorruptEntryIsMiss(t *testing.T) {
	dir := t.TempDir()
	s := New(dir, time.Hour, true)

	if err := os.WriteFile(filepath.Join(dir, "bad.json"), []byte("{not json"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	var got payload
	if s.Get("bad", &got) {
		t.Fatal("corrupt entry must degrade to a miss, not an error")
	}
}

func TestStoreDisabled(t *testing.T) {
	s := New(t.TempDir(), time.Hour, false)

	if err := s.Set("k", payload{Symbol: "X"}); err != nil {
		t.Fatalf("Set on disabled store: %v", err)
	}
	var got payload
	if s.Get("k", &got) {
		t.Fatal("disabled store must always miss")
	}
}

func TestStoreDelete(t *testing.T) {
	s := New(t.TempDir(), time.Hour, true)

	if err := s.Set("stock_TLRY", payload{Symbol: "TLRY"}); err != nil {
		t.Fatalf("Set: %v", err)
	}
	s.Delete("stock_TLRY")

	var got payload
	if s.Get("stock_TLRY", &got) {
		t.Fatal("expected miss after delete")
	}
}

func TestSanitizeKey(t *testing.T) {
	if got := sanitizeKey("news/BRK.B:2026"); got != "news_BRK.B_2026" {
		t.Fatalf("sanitizeKey: got %q", got)
	}
}
