package screener

import (
	"testing"
	"time"

	"github.com/poundfoolish/poundfoolish/internal/models"
)

func TestNormalizeRequiresQuoteAndProfile(t *testing.T) {
	now := time.Now()
	quote := &models.Quote{Price: 2.5, Volume: 1_000_000}
	profile := &models.Profile{CompanyName: "Test Co", MarketCap: 50_000_000}

	if got := Normalize("AA", nil, profile, nil, now); got != nil {
		t.Fatalf("missing quote must yield no record, got %+v", got)
	}
	if got := Normalize("AA", quote, nil, nil, now); got != nil {
		t.Fatalf("missing profile must yield no record, got %+v", got)
	}
	if got := Normalize("AA", quote, profile, nil, now); got == nil {
		t.Fatal("both present must yield a record")
	}
}

func TestNormalizeFields(t *testing.T) {
	now := time.Now()
	news := []*models.NewsArticle{{Headline: "h1"}, {Headline: "h2"}}
	stock := Normalize("SNDL",
		&models.Quote{Price: 2.45, Change: 0.15, PercentChange: 6.52, Volume: 3_456_789},
		&models.Profile{CompanyName: "Sundial", MarketCap: 150_000_000, Sector: "Pharma"},
		news, now)

	if stock.Symbol != "SNDL" || stock.Price != 2.45 || stock.PercentChange != 6.52 {
		t.Fatalf("quote fields: %+v", stock)
	}
	if stock.MarketCap != 150_000_000 || stock.CompanyName != "Sundial" {
		t.Fatalf("profile fields: %+v", stock)
	}
	if stock.RelativeVolume != "3.46" {
		t.Fatalf("relative volume: got %q", stock.RelativeVolume)
	}
	if !stock.HasRecentNews || stock.NewsCount != 2 {
		t.Fatalf("news fields: %+v", stock)
	}
	if !stock.LastUpdated.Equal(now) {
		t.Fatalf("last updated: got %v", stock.LastUpdated)
	}
}

func TestRelativeVolume(t *testing.T) {
	cases := []struct {
		volume int64
		want   string
	}{
		{0, "N/A"},
		{500_000, "0.50"},
		{1_000_000, "1.00"},
		{12_345_678, "12.35"},
	}
	for _, tc := range cases {
		if got := relativeVolume(tc.volume); got != tc.want {
			t.Errorf("relativeVolume(%d) = %q, want %q", tc.volume, got, tc.want)
		}
	}
}

func TestNormalizeWithoutNews(t *testing.T) {
	stock := Normalize("AA",
		&models.Quote{Price: 1.5, Volume: 100},
		&models.Profile{CompanyName: "A"},
		nil, time.Now())

	if stock.HasRecentNews || stock.NewsCount != 0 {
		t.Fatalf("nil news should mean no recent news: %+v", stock)
	}
}
