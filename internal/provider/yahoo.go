package provider

import (
	"context"
	"fmt"
	"time"

	"github.com/piquette/finance-go/chart"
	"github.com/piquette/finance-go/datetime"
	"github.com/piquette/finance-go/equity"
	"github.com/piquette/finance-go/quote"
	"go.uber.org/zap"

	"github.com/poundfoolish/poundfoolish/internal/models"
)

// yahooUniverse is a curated low-priced symbol list. Yahoo has no public
// symbol-listing endpoint, so the universe is static.
var yahooUniverse = []*models.SymbolInfo{
	{Symbol: "SNDL", Description: "SNDL INC", Type: "Common Stock"},
	{Symbol: "NOK", Description: "NOKIA CORP", Type: "Common Stock"},
	{Symbol: "SIRI", Description: "SIRIUS XM HOLDINGS INC", Type: "Common Stock"},
	{Symbol: "PLUG", Description: "PLUG POWER INC", Type: "Common Stock"},
	{Symbol: "FCEL", Description: "FUELCELL ENERGY INC", Type: "Common Stock"},
	{Symbol: "BBIG", Description: "VINCO VENTURES INC", Type: "Common Stock"},
	{Symbol: "GEVO", Description: "GEVO INC", Type: "Common Stock"},
	{Symbol: "CIDM", Description: "CINEDIGM CORP", Type: "Common Stock"},
	{Symbol: "OCGN", Description: "OCUGEN INC", Type: "Common Stock"},
	{Symbol: "TELL", Description: "TELLURIAN INC", Type: "Common Stock"},
	{Symbol: "CTRM", Description: "CASTOR MARITIME INC", Type: "Common Stock"},
	{Symbol: "ZOM", Description: "ZOMEDICA CORP", Type: "Common Stock"},
	{Symbol: "IDEX", Description: "IDEANOMICS INC", Type: "Common Stock"},
	{Symbol: "XELA", Description: "EXELA TECHNOLOGIES INC", Type: "Common Stock"},
	{Symbol: "BNGO", Description: "BIONANO GENOMICS INC", Type: "Common Stock"},
	{Symbol: "EXPR", Description: "EXPRESS INC", Type: "Common Stock"},
	{Symbol: "WKHS", Description: "WORKHORSE GROUP INC", Type: "Common Stock"},
	{Symbol: "CLOV", Description: "CLOVER HEALTH INVESTMENTS", Type: "Common Stock"},
	{Symbol: "WISH", Description: "CONTEXTLOGIC INC", Type: "Common Stock"},
	{Symbol: "AMC", Description: "AMC ENTERTAINMENT HOLDINGS", Type: "Common Stock"},
}

// YahooClient serves quotes and candles from Yahoo Finance through the
// piquette client library. Yahoo carries no company-news feed here, so
// GetNews always returns an empty list.
type YahooClient struct {
	limiter *windowLimiter
	logger  *zap.Logger
}

func NewYahooClient(limiter *windowLimiter, logger *zap.Logger) *YahooClient {
	return &YahooClient{limiter: limiter, logger: logger}
}

func (yc *YahooClient) Name() string { return "yahoo" }

func (yc *YahooClient) GetQuote(ctx context.Context, symbol string) (*models.Quote, error) {
	if err := yc.limiter.allow(); err != nil {
		return nil, err
	}

	q, err := quote.Get(symbol)
	if err != nil {
		return nil, &RequestError{Endpoint: "/quote", Err: fmt.Errorf("failed to get quote for %s: %w", symbol, err)}
	}
	if q == nil || q.RegularMarketPrice == 0 {
		return nil, nil
	}

	return &models.Quote{
		Price:         q.RegularMarketPrice,
		Change:        q.RegularMarketChange,
		PercentChange: q.RegularMarketChangePercent,
		Volume:        int64(q.RegularMarketVolume),
	}, nil
}

func (yc *YahooClient) GetProfile(ctx context.Context, symbol string) (*models.Profile, error) {
	if err := yc.limiter.allow(); err != nil {
		return nil, err
	}

	q, err := equity.Get(symbol)
	if err != nil {
		return nil, &RequestError{Endpoint: "/quote", Err: fmt.Errorf("failed to get profile for %s: %w", symbol, err)}
	}
	if q == nil {
		return nil, nil
	}

	return &models.Profile{
		CompanyName: q.ShortName,
		MarketCap:   float64(q.MarketCap),
	}, nil
}

func (yc *YahooClient) GetCandles(ctx context.Context, symbol string, days int) (*models.Candles, error) {
	if err := yc.limiter.allow(); err != nil {
		return nil, err
	}

	end := time.Now()
	start := end.AddDate(0, 0, -days)

	iter := chart.Get(&chart.Params{
		Symbol:   symbol,
		Start:    datetime.New(&start),
		End:      datetime.New(&end),
		Interval: datetime.OneDay,
	})

	candles := &models.Candles{}
	for iter.Next() {
		bar := iter.Bar()
		closePrice, _ := bar.Close.Float64()
		candles.Closes = append(candles.Closes, closePrice)
		candles.Volumes = append(candles.Volumes, int64(bar.Volume))
		candles.Timestamps = append(candles.Timestamps, int64(bar.Timestamp))
	}
	if err := iter.Err(); err != nil {
		return nil, &RequestError{Endpoint: "/chart", Err: fmt.Errorf("failed to get candles for %s: %w", symbol, err)}
	}

	if len(candles.Closes) == 0 {
		return nil, nil
	}
	return candles, nil
}

func (yc *YahooClient) GetNews(ctx context.Context, symbol string) ([]*models.NewsArticle, error) {
	return []*models.NewsArticle{}, nil
}

func (yc *YahooClient) GetSymbols(ctx context.Context) ([]*models.SymbolInfo, error) {
	symbols := make([]*models.SymbolInfo, len(yahooUniverse))
	copy(symbols, yahooUniverse)
	return symbols, nil
}
