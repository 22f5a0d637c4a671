package models

// FilterConfig holds the screening thresholds. A zero value for any numeric
// threshold means "no constraint"; ShowAllStocks bypasses every clause.
type FilterConfig struct {
	MaxPrice          float64 `json:"max_price"`
	MinVolume         int64   `json:"min_volume"`
	MinMarketCap      float64 `json:"min_market_cap"`
	MaxMarketCap      float64 `json:"max_market_cap"`
	MinRelativeVolume float64 `json:"min_relative_volume"`
	MinPercentChange  float64 `json:"min_percent_change"`
	RequireRecentNews bool    `json:"require_recent_news"`
	ShowAllStocks     bool    `json:"show_all_stocks"`
}

// DefaultFilterConfig returns the stock screening defaults.
func DefaultFilterConfig() FilterConfig {
	return FilterConfig{
		MaxPrice:          5.00,
		MinVolume:         500_000,
		MinMarketCap:      20_000_000,
		MaxMarketCap:      300_000_000,
		MinRelativeVolume: 2.0,
		MinPercentChange:  5.0,
	}
}
