package provider

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/poundfoolish/poundfoolish/internal/cache"
	"github.com/poundfoolish/poundfoolish/internal/config"
	"github.com/poundfoolish/poundfoolish/internal/models"
)

// Provider is the normalized market-data boundary. Every call is remote and
// fallible; none of them retries internally — pacing and retry policy belong
// to the fetch orchestrator.
type Provider interface {
	// Name identifies the upstream, e.g. "finnhub".
	Name() string
	// GetQuote returns the latest trade snapshot for symbol.
	GetQuote(ctx context.Context, symbol string) (*models.Quote, error)
	// GetProfile returns company information for symbol.
	GetProfile(ctx context.Context, symbol string) (*models.Profile, error)
	// GetCandles returns daily candles covering the past days calendar days.
	GetCandles(ctx context.Context, symbol string, days int) (*models.Candles, error)
	// GetNews returns recent company news, most recent first.
	GetNews(ctx context.Context, symbol string) ([]*models.NewsArticle, error)
	// GetSymbols returns the tradable US symbol universe.
	GetSymbols(ctx context.Context) ([]*models.SymbolInfo, error)
}

// New selects the provider implementation once at construction from
// cfg.StockProvider.
func New(cfg *config.Config, logger *zap.Logger) (Provider, error) {
	limiter := newWindowLimiter(cfg.RateLimit, cfg.RateWindow)

	switch cfg.StockProvider {
	case config.ProviderFinnhub:
		newsCache := cache.New(filepath.Join(cfg.DataCacheDir, "news"), 24*time.Hour, cfg.CacheEnabled)
		return NewFinnhubClient(cfg.FinnhubAPIKey, limiter, newsCache, logger), nil
	case config.ProviderYahoo:
		return NewYahooClient(limiter, logger), nil
	default:
		return nil, fmt.Errorf("unknown stock provider %q", cfg.StockProvider)
	}
}
