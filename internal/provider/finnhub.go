package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/poundfoolish/poundfoolish/internal/cache"
	"github.com/poundfoolish/poundfoolish/internal/models"
)

const finnhubBaseURL = "https://finnhub.io/api/v1"

// FinnhubClient talks to the Finnhub REST API. Every endpoint consumes one
// limiter slot before the request goes out, so a tripped limiter never costs
// upstream quota. Company news is cached per symbol and calendar day.
type FinnhubClient struct {
	client    *resty.Client
	limiter   *windowLimiter
	newsCache *cache.Store
	apiKey    string
	logger    *zap.Logger
	today     func() time.Time
}

// NewFinnhubClient creates a Finnhub client. newsCache may be a disabled
// store; news fetches then always go upstream.
func NewFinnhubClient(apiKey string, limiter *windowLimiter, newsCache *cache.Store, logger *zap.Logger) *FinnhubClient {
	client := resty.New()
	client.SetBaseURL(finnhubBaseURL)
	client.SetTimeout(30 * time.Second)

	return &FinnhubClient{
		client:    client,
		limiter:   limiter,
		newsCache: newsCache,
		apiKey:    apiKey,
		logger:    logger,
		today:     time.Now,
	}
}

func (fc *FinnhubClient) Name() string { return "finnhub" }

// get performs one rate-limited GET against endpoint and unmarshals the body
// into out. A body carrying Finnhub's error field is treated as a failure
// even when the status is 200.
func (fc *FinnhubClient) get(ctx context.Context, endpoint string, params map[string]string, out interface{}) error {
	if fc.apiKey == "" {
		return &RequestError{Endpoint: endpoint, Err: fmt.Errorf("finnhub API key not configured")}
	}

	if err := fc.limiter.allow(); err != nil {
		return err
	}

	query := map[string]string{"token": fc.apiKey}
	for k, v := range params {
		query[k] = v
	}

	resp, err := fc.client.R().
		SetContext(ctx).
		SetQueryParams(query).
		Get(endpoint)
	if err != nil {
		return &RequestError{Endpoint: endpoint, Err: err}
	}

	if resp.StatusCode() != 200 {
		return &RequestError{Endpoint: endpoint, Err: fmt.Errorf("API error %d: %s", resp.StatusCode(), resp.String())}
	}

	var probe struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(resp.Body(), &probe) == nil && probe.Error != "" {
		return &RequestError{Endpoint: endpoint, Err: fmt.Errorf("API error: %s", probe.Error)}
	}

	if err := json.Unmarshal(resp.Body(), out); err != nil {
		return &RequestError{Endpoint: endpoint, Err: fmt.Errorf("failed to parse response: %w", err)}
	}

	return nil
}

type finnhubQuote struct {
	Current       float64 `json:"c"`
	Change        float64 `json:"d"`
	PercentChange float64 `json:"dp"`
	Volume        float64 `json:"v"`
}

// GetQuote returns the latest trade snapshot for symbol. A zeroed quote
// (Finnhub's answer for unknown symbols) comes back as nil without error.
func (fc *FinnhubClient) GetQuote(ctx context.Context, symbol string) (*models.Quote, error) {
	var raw finnhubQuote
	if err := fc.get(ctx, "/quote", map[string]string{"symbol": symbol}, &raw); err != nil {
		return nil, err
	}

	if raw.Current == 0 {
		return nil, nil
	}

	return &models.Quote{
		Price:         raw.Current,
		Change:        raw.Change,
		PercentChange: raw.PercentChange,
		Volume:        int64(raw.Volume),
	}, nil
}

type finnhubProfile struct {
	Name            string  `json:"name"`
	MarketCap       float64 `json:"marketCapitalization"`
	FinnhubIndustry string  `json:"finnhubIndustry"`
}

// GetProfile returns company information for symbol. Finnhub reports market
// cap in millions; the result carries currency units. An empty profile body
// comes back as nil without error.
func (fc *FinnhubClient) GetProfile(ctx context.Context, symbol string) (*models.Profile, error) {
	var raw finnhubProfile
	if err := fc.get(ctx, "/stock/profile2", map[string]string{"symbol": symbol}, &raw); err != nil {
		return nil, err
	}

	if raw.Name == "" && raw.MarketCap == 0 {
		return nil, nil
	}

	return &models.Profile{
		CompanyName: raw.Name,
		MarketCap:   raw.MarketCap * 1_000_000,
		Sector:      raw.FinnhubIndustry,
		Industry:    raw.FinnhubIndustry,
	}, nil
}

type finnhubCandles struct {
	Closes     []float64 `json:"c"`
	Volumes    []float64 `json:"v"`
	Timestamps []int64   `json:"t"`
	Status     string    `json:"s"`
}

// GetCandles returns daily candles covering the past days calendar days.
// Finnhub reports "no_data" for thinly traded symbols; that is nil without
// error.
func (fc *FinnhubClient) GetCandles(ctx context.Context, symbol string, days int) (*models.Candles, error) {
	to := fc.today()
	from := to.AddDate(0, 0, -days)

	var raw finnhubCandles
	err := fc.get(ctx, "/stock/candle", map[string]string{
		"symbol":     symbol,
		"resolution": "D",
		"from":       strconv.FormatInt(from.Unix(), 10),
		"to":         strconv.FormatInt(to.Unix(), 10),
	}, &raw)
	if err != nil {
		return nil, err
	}

	if raw.Status != "ok" || len(raw.Closes) == 0 {
		return nil, nil
	}

	volumes := make([]int64, len(raw.Volumes))
	for i, v := range raw.Volumes {
		volumes[i] = int64(v)
	}

	return &models.Candles{
		Closes:     raw.Closes,
		Volumes:    volumes,
		Timestamps: raw.Timestamps,
	}, nil
}

type finnhubNews struct {
	Datetime int64  `json:"datetime"`
	Headline string `json:"headline"`
	Source   string `json:"source"`
	Summary  string `json:"summary"`
	URL      string `json:"url"`
}

// GetNews returns the past week of company news, most recent first. Results
// are cached for a day keyed on symbol and the current date; cache write
// failures are logged and otherwise ignored.
func (fc *FinnhubClient) GetNews(ctx context.Context, symbol string) ([]*models.NewsArticle, error) {
	to := fc.today()
	from := to.AddDate(0, 0, -7)
	cacheKey := fmt.Sprintf("news_%s_%s", symbol, to.Format("2006-01-02"))

	var cached []*models.NewsArticle
	if fc.newsCache.Get(cacheKey, &cached) {
		return cached, nil
	}

	var raw []finnhubNews
	err := fc.get(ctx, "/company-news", map[string]string{
		"symbol": symbol,
		"from":   from.Format("2006-01-02"),
		"to":     to.Format("2006-01-02"),
	}, &raw)
	if err != nil {
		return nil, err
	}

	articles := make([]*models.NewsArticle, 0, len(raw))
	for _, n := range raw {
		articles = append(articles, &models.NewsArticle{
			Headline: n.Headline,
			Summary:  n.Summary,
			Source:   n.Source,
			URL:      n.URL,
			Datetime: n.Datetime,
		})
	}

	sort.SliceStable(articles, func(i, j int) bool {
		return articles[i].Datetime > articles[j].Datetime
	})

	if err := fc.newsCache.Set(cacheKey, articles); err != nil {
		fc.logger.Warn("failed to cache news", zap.String("symbol", symbol), zap.Error(err))
	}

	return articles, nil
}

type finnhubSymbol struct {
	Symbol      string `json:"symbol"`
	Description string `json:"description"`
	Type        string `json:"type"`
}

// GetSymbols returns the US exchange symbol universe.
func (fc *FinnhubClient) GetSymbols(ctx context.Context) ([]*models.SymbolInfo, error) {
	var raw []finnhubSymbol
	if err := fc.get(ctx, "/stock/symbol", map[string]string{"exchange": "US"}, &raw); err != nil {
		return nil, err
	}

	symbols := make([]*models.SymbolInfo, 0, len(raw))
	for _, s := range raw {
		symbols = append(symbols, &models.SymbolInfo{
			Symbol:      s.Symbol,
			Description: s.Description,
			Type:        s.Type,
		})
	}

	return symbols, nil
}
