package screener

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/poundfoolish/poundfoolish/internal/models"
)

var oneMillion = decimal.NewFromInt(1_000_000)

// Normalize merges one symbol's quote, profile and optional news into a
// Stock. Either response missing means no record at all, never a partially
// filled one. news may be nil when the caller did not request it.
func Normalize(symbol string, quote *models.Quote, profile *models.Profile, news []*models.NewsArticle, now time.Time) *models.Stock {
	if quote == nil || profile == nil {
		return nil
	}

	return &models.Stock{
		Symbol:         symbol,
		Price:          quote.Price,
		Change:         quote.Change,
		PercentChange:  quote.PercentChange,
		Volume:         quote.Volume,
		RelativeVolume: relativeVolume(quote.Volume),
		MarketCap:      profile.MarketCap,
		CompanyName:    profile.CompanyName,
		Sector:         profile.Sector,
		Industry:       profile.Industry,
		HasRecentNews:  len(news) > 0,
		NewsCount:      len(news),
		News:           news,
		LastUpdated:    now,
	}
}

// relativeVolume is today's volume divided by one million, rendered with two
// decimals, or "N/A" when no volume traded. The divisor is a fixed scale,
// not a historical baseline.
func relativeVolume(volume int64) string {
	if volume <= 0 {
		return "N/A"
	}
	return decimal.NewFromInt(volume).Div(oneMillion).StringFixed(2)
}
