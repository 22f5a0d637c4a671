package cli

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/poundfoolish/poundfoolish/internal/models"
	"github.com/poundfoolish/poundfoolish/internal/screener"
)

func TestFormatCount(t *testing.T) {
	cases := []struct {
		n    int64
		want string
	}{
		{950, "950"},
		{1_500, "1.5K"},
		{2_340_000, "2.34M"},
		{1_250_000_000, "1.25B"},
	}
	for _, tc := range cases {
		if got := formatCount(tc.n); got != tc.want {
			t.Errorf("formatCount(%d) = %q, want %q", tc.n, got, tc.want)
		}
	}
}

func TestFormatDollars(t *testing.T) {
	cases := []struct {
		v    float64
		want string
	}{
		{500, "$500"},
		{75_000, "$75.0K"},
		{150_000_000, "$150.0M"},
		{2_500_000_000, "$2.50B"},
	}
	for _, tc := range cases {
		if got := formatDollars(tc.v); got != tc.want {
			t.Errorf("formatDollars(%v) = %q, want %q", tc.v, got, tc.want)
		}
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 24); got != "short" {
		t.Errorf("truncate short: got %q", got)
	}
	long := strings.Repeat("x", 30)
	got := truncate(long, 24)
	if len(got) != 24 || !strings.HasSuffix(got, "...") {
		t.Errorf("truncate long: got %q", got)
	}
}

func TestRenderStockTableContainsRows(t *testing.T) {
	stocks := []*models.Stock{
		{Symbol: "SNDL", CompanyName: "Sundial Growers", Price: 2.45, PercentChange: 6.52,
			Volume: 1_500_000, RelativeVolume: "1.50", MarketCap: 150_000_000, HasRecentNews: true, NewsCount: 3},
		{Symbol: "NOK", CompanyName: "Nokia", Price: 4.10, PercentChange: -1.20,
			Volume: 20_000_000, RelativeVolume: "20.00", MarketCap: 23_000_000_000},
	}

	out := RenderStockTable(stocks)
	for _, want := range []string{"SNDL", "NOK", "Sundial Growers", "1.50"} {
		if !strings.Contains(out, want) {
			t.Errorf("table missing %q:\n%s", want, out)
		}
	}
}

func TestRenderTradePlanNotComputable(t *testing.T) {
	plan := &models.TradePlan{
		Symbol:       "SNDL",
		EntryPrice:   decimal.NewFromFloat(2.00),
		StopLoss:     decimal.NewFromFloat(1.76),
		Target:       decimal.NewFromFloat(2.40),
		Shares:       416,
		TotalCost:    decimal.NewFromFloat(832.00),
		RiskPerShare: decimal.NewFromFloat(0.24),
	}

	out := RenderTradePlan(plan)
	if !strings.Contains(out, "not computable") {
		t.Errorf("plan without candle bounds should suppress the ratio:\n%s", out)
	}
	if !strings.Contains(out, "832.00") {
		t.Errorf("plan missing total cost:\n%s", out)
	}
}

func TestRenderStatusCooldown(t *testing.T) {
	snap := screener.Snapshot{State: screener.StateCooldown, CooldownRemaining: 42}
	out := RenderStatus(snap)
	if !strings.Contains(out, "42") {
		t.Errorf("cooldown status should show remaining seconds:\n%s", out)
	}
}
