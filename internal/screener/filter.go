package screener

import (
	"math"
	"strconv"

	"github.com/poundfoolish/poundfoolish/internal/models"
)

// FilterPromising applies cfg to stocks and returns the order-preserving
// subset that passes every active clause. ShowAllStocks returns the input
// unchanged. A stock without a finite positive price never passes.
func FilterPromising(stocks []*models.Stock, cfg models.FilterConfig) []*models.Stock {
	if cfg.ShowAllStocks {
		return stocks
	}

	promising := make([]*models.Stock, 0, len(stocks))
	for _, s := range stocks {
		if matchesFilters(s, cfg) {
			promising = append(promising, s)
		}
	}
	return promising
}

func matchesFilters(s *models.Stock, cfg models.FilterConfig) bool {
	if s.Price <= 0 || math.IsNaN(s.Price) || math.IsInf(s.Price, 0) {
		return false
	}
	if cfg.MaxPrice > 0 && s.Price > cfg.MaxPrice {
		return false
	}
	if cfg.MinVolume > 0 && s.Volume < cfg.MinVolume {
		return false
	}
	if cfg.MinMarketCap > 0 && s.MarketCap < cfg.MinMarketCap {
		return false
	}
	if cfg.MaxMarketCap > 0 && s.MarketCap > cfg.MaxMarketCap {
		return false
	}
	if cfg.MinRelativeVolume > 0 {
		// "N/A" means relative volume is unknown; the clause does not
		// exclude those records.
		if rv, err := strconv.ParseFloat(s.RelativeVolume, 64); err == nil && rv < cfg.MinRelativeVolume {
			return false
		}
	}
	if cfg.MinPercentChange > 0 && s.PercentChange < cfg.MinPercentChange {
		return false
	}
	if cfg.RequireRecentNews && !s.HasRecentNews {
		return false
	}
	return true
}
