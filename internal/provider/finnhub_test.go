package provider

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/poundfoolish/poundfoolish/internal/cache"
)

func newTestFinnhub(t *testing.T, handler http.Handler) (*FinnhubClient, *httptest.Server) {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	store := cache.New(t.TempDir(), 24*time.Hour, true)
	fc := NewFinnhubClient("test-key", newWindowLimiter(60, time.Minute), store, zap.NewNop())
	fc.client.SetBaseURL(srv.URL)
	return fc, srv
}

func TestFinnhubGetQuote(t *testing.T) {
	fc, _ := newTestFinnhub(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/quote" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.URL.Query().Get("token") != "test-key" {
			t.Error("missing API token")
		}
		if r.URL.Query().Get("symbol") != "SNDL" {
			t.Errorf("unexpected symbol %q", r.URL.Query().Get("symbol"))
		}
		w.Write([]byte(`{"c": 2.45, "d": 0.15, "dp": 6.52, "v": 1500000}`))
	}))

	q, err := fc.GetQuote(context.Background(), "SNDL")
	if err != nil {
		t.Fatalf("GetQuote: %v", err)
	}
	if q.Price != 2.45 || q.Change != 0.15 || q.PercentChange != 6.52 || q.Volume != 1500000 {
		t.Fatalf("quote mapping: %+v", q)
	}
}

func TestFinnhubGetQuoteUnknownSymbol(t *testing.T) {
	fc, _ := newTestFinnhub(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"c": 0, "d": 0, "dp": 0, "v": 0}`))
	}))

	q, err := fc.GetQuote(context.Background(), "NOPE")
	if err != nil {
		t.Fatalf("GetQuote: %v", err)
	}
	if q != nil {
		t.Fatalf("zeroed quote should map to nil, got %+v", q)
	}
}

func TestFinnhubGetProfileScalesMarketCap(t *testing.T) {
	fc, _ := newTestFinnhub(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/stock/profile2" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Write([]byte(`{"name": "Sundial Growers", "marketCapitalization": 150, "finnhubIndustry": "Pharmaceuticals"}`))
	}))

	p, err := fc.GetProfile(context.Background(), "SNDL")
	if err != nil {
		t.Fatalf("GetProfile: %v", err)
	}
	if p.MarketCap != 150_000_000 {
		t.Fatalf("market cap should be scaled to currency units, got %v", p.MarketCap)
	}
	if p.CompanyName != "Sundial Growers" || p.Sector != "Pharmaceuticals" {
		t.Fatalf("profile mapping: %+v", p)
	}
}

func TestFinnhubGetCandlesNoData(t *testing.T) {
	fc, _ := newTestFinnhub(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"s": "no_data"}`))
	}))

	c, err := fc.GetCandles(context.Background(), "THIN", 30)
	if err != nil {
		t.Fatalf("GetCandles: %v", err)
	}
	if c != nil {
		t.Fatalf("no_data should map to nil, got %+v", c)
	}
}

func TestFinnhubGetCandles(t *testing.T) {
	fc, _ := newTestFinnhub(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("resolution") != "D" {
			t.Errorf("unexpected resolution %q", r.URL.Query().Get("resolution"))
		}
		w.Write([]byte(`{"s": "ok", "c": [1.1, 1.2, 1.3], "v": [100, 200, 300], "t": [1000, 2000, 3000]}`))
	}))

	c, err := fc.GetCandles(context.Background(), "SNDL", 30)
	if err != nil {
		t.Fatalf("GetCandles: %v", err)
	}
	if len(c.Closes) != 3 || c.Closes[2] != 1.3 {
		t.Fatalf("closes mapping: %+v", c.Closes)
	}
	if len(c.Volumes) != 3 || c.Volumes[1] != 200 {
		t.Fatalf("volumes mapping: %+v", c.Volumes)
	}
}

func TestFinnhubErrorField(t *testing.T) {
	fc, _ := newTestFinnhub(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"error": "You don't have access to this resource."}`))
	}))

	_, err := fc.GetQuote(context.Background(), "SNDL")
	if err == nil {
		t.Fatal("expected error for API error field")
	}
	var reqErr *RequestError
	if !errors.As(err, &reqErr) {
		t.Fatalf("expected RequestError, got %T", err)
	}
	if reqErr.Endpoint != "/quote" {
		t.Fatalf("endpoint: got %q", reqErr.Endpoint)
	}
}

func TestFinnhubNon200Status(t *testing.T) {
	fc, _ := newTestFinnhub(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "too many requests", http.StatusTooManyRequests)
	}))

	_, err := fc.GetQuote(context.Background(), "SNDL")
	var reqErr *RequestError
	if !errors.As(err, &reqErr) {
		t.Fatalf("expected RequestError, got %v", err)
	}
}

func TestFinnhubLimiterBlocksBeforeRequest(t *testing.T) {
	requests := 0
	fc, _ := newTestFinnhub(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		w.Write([]byte(`{"c": 1, "d": 0, "dp": 0, "v": 1}`))
	}))
	fc.limiter = newWindowLimiter(1, time.Minute)

	if _, err := fc.GetQuote(context.Background(), "SNDL"); err != nil {
		t.Fatalf("first call: %v", err)
	}
	if _, err := fc.GetQuote(context.Background(), "SNDL"); !errors.Is(err, ErrRateLimited) {
		t.Fatalf("second call should be rate limited, got %v", err)
	}
	if requests != 1 {
		t.Fatalf("rate-limited call must not reach the server, saw %d requests", requests)
	}
}

func TestFinnhubNewsCachedPerDay(t *testing.T) {
	requests := 0
	fc, _ := newTestFinnhub(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		w.Write([]byte(`[
			{"datetime": 100, "headline": "old", "source": "wire", "summary": "s", "url": "u"},
			{"datetime": 200, "headline": "new", "source": "wire", "summary": "s", "url": "u"}
		]`))
	}))
	fc.today = func() time.Time { return time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC) }

	first, err := fc.GetNews(context.Background(), "SNDL")
	if err != nil {
		t.Fatalf("GetNews: %v", err)
	}
	if len(first) != 2 || first[0].Headline != "new" {
		t.Fatalf("news should be most recent first: %+v", first)
	}

	second, err := fc.GetNews(context.Background(), "SNDL")
	if err != nil {
		t.Fatalf("GetNews cached: %v", err)
	}
	if len(second) != 2 {
		t.Fatalf("cached news: got %d articles", len(second))
	}
	if requests != 1 {
		t.Fatalf("second fetch should hit the cache, saw %d requests", requests)
	}
}

func TestFinnhubGetSymbols(t *testing.T) {
	fc, _ := newTestFinnhub(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("exchange") != "US" {
			t.Errorf("unexpected exchange %q", r.URL.Query().Get("exchange"))
		}
		w.Write([]byte(`[
			{"symbol": "SNDL", "description": "SNDL INC", "type": "Common Stock"},
			{"symbol": "SPY", "description": "SPDR S&P 500 ETF TRUST", "type": "ETP"}
		]`))
	}))

	syms, err := fc.GetSymbols(context.Background())
	if err != nil {
		t.Fatalf("GetSymbols: %v", err)
	}
	if len(syms) != 2 || syms[0].Symbol != "SNDL" || syms[1].Type != "ETP" {
		t.Fatalf("symbol mapping: %+v", syms)
	}
}

func TestFinnhubMissingAPIKey(t *testing.T) {
	store := cache.New(t.TempDir(), time.Hour, false)
	fc := NewFinnhubClient("", newWindowLimiter(60, time.Minute), store, zap.NewNop())

	if _, err := fc.GetQuote(context.Background(), "SNDL"); err == nil {
		t.Fatal("expected error when API key is empty")
	}
}
