package models

import "time"

// Quote is the latest trade snapshot for a symbol, normalized across
// providers.
type Quote struct {
	Price         float64 `json:"price"`
	Change        float64 `json:"change"`
	PercentChange float64 `json:"percent_change"`
	Volume        int64   `json:"volume"`
}

// Profile holds company-level information for a symbol.
type Profile struct {
	CompanyName string  `json:"company_name"`
	MarketCap   float64 `json:"market_cap"` // currency units, not millions
	Sector      string  `json:"sector"`
	Industry    string  `json:"industry"`
}

// Candles holds daily close-derived series; that is all the screener
// consumes.
type Candles struct {
	Closes     []float64 `json:"closes"`
	Volumes    []int64   `json:"volumes"`
	Timestamps []int64   `json:"timestamps"`
}

// NewsArticle represents one company news item.
type NewsArticle struct {
	Headline string `json:"headline"`
	Summary  string `json:"summary"`
	Source   string `json:"source"`
	URL      string `json:"url"`
	Datetime int64  `json:"datetime"` // unix seconds
}

// SymbolInfo is one entry of the tradable-symbol universe.
type SymbolInfo struct {
	Symbol      string `json:"symbol"`
	Description string `json:"description"`
	Type        string `json:"type"`
}

// Stock is the normalized per-symbol record the screener operates on. A
// Stock is only built when both a quote and a profile were retrieved; it is
// immutable after construction and replaced wholesale on the next refresh.
type Stock struct {
	Symbol         string         `json:"symbol"`
	Price          float64        `json:"price"`
	Change         float64        `json:"change"`
	PercentChange  float64        `json:"percent_change"`
	Volume         int64          `json:"volume"`
	RelativeVolume string         `json:"relative_volume"` // 2dp string or "N/A"
	MarketCap      float64        `json:"market_cap"`
	CompanyName    string         `json:"company_name"`
	Sector         string         `json:"sector"`
	Industry       string         `json:"industry"`
	HasRecentNews  bool           `json:"has_recent_news"`
	NewsCount      int            `json:"news_count"`
	News           []*NewsArticle `json:"news,omitempty"`
	Candles        *Candles       `json:"candles,omitempty"`
	LastUpdated    time.Time      `json:"last_updated"`
}
