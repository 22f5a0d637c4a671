package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/poundfoolish/poundfoolish/internal/models"
	"github.com/poundfoolish/poundfoolish/internal/news"
	"github.com/poundfoolish/poundfoolish/internal/screener"
)

// UI styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#7C3AED")).
			Padding(0, 1)

	tableStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#3B82F6")).
			Padding(0, 1)

	planStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#10B981")).
			Padding(0, 1)

	gainStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#10B981"))

	lossStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#EF4444"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6B7280"))

	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F59E0B")).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#EF4444")).
			Bold(true)

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#3B82F6"))

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#10B981"))
)

// ClearScreen clears the terminal screen
func ClearScreen() {
	fmt.Print("\033[2J\033[H")
}

// RenderStatus renders one status line for the current orchestrator state.
func RenderStatus(snap screener.Snapshot) string {
	var parts []string

	switch snap.State {
	case screener.StateLoading:
		parts = append(parts, warnStyle.Render("fetching..."))
	case screener.StateRetryScheduled:
		parts = append(parts, warnStyle.Render("no matches, retry scheduled"))
	case screener.StateCooldown:
		parts = append(parts, errorStyle.Render(fmt.Sprintf("rate limited, cooling down %ds", snap.CooldownRemaining)))
	default:
		parts = append(parts, successStyle.Render("idle"))
	}

	parts = append(parts, fmt.Sprintf("fetched %d", len(snap.Stocks)))
	parts = append(parts, fmt.Sprintf("promising %d", len(snap.Promising)))
	if !snap.LastRefreshed.IsZero() {
		parts = append(parts, dimStyle.Render("as of "+snap.LastRefreshed.Format("15:04:05")))
	}
	if snap.LastError != "" {
		parts = append(parts, errorStyle.Render("error: "+snap.LastError))
	}

	return strings.Join(parts, dimStyle.Render(" | "))
}

// RenderStockTable renders the screened stocks as an aligned table.
func RenderStockTable(stocks []*models.Stock) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%-8s %-24s %9s %9s %11s %7s %10s %5s\n",
		"SYMBOL", "COMPANY", "PRICE", "CHANGE%", "VOLUME", "RELVOL", "MKT CAP", "NEWS")
	b.WriteString(strings.Repeat("─", 92))
	b.WriteString("\n")

	for _, s := range stocks {
		change := fmt.Sprintf("%+.2f%%", s.PercentChange)
		if s.PercentChange >= 0 {
			change = gainStyle.Render(change)
		} else {
			change = lossStyle.Render(change)
		}

		newsMark := "-"
		if s.HasRecentNews {
			newsMark = fmt.Sprintf("%d", s.NewsCount)
		}

		fmt.Fprintf(&b, "%-8s %-24s %9.2f %9s %11s %7s %10s %5s\n",
			s.Symbol,
			truncate(s.CompanyName, 24),
			s.Price,
			change,
			formatCount(s.Volume),
			s.RelativeVolume,
			formatDollars(s.MarketCap),
			newsMark,
		)
	}

	return tableStyle.Render(strings.TrimRight(b.String(), "\n"))
}

// RenderStockDetail renders a one-stock header block.
func RenderStockDetail(s *models.Stock) string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(fmt.Sprintf("%s  %s", s.Symbol, s.CompanyName)))
	b.WriteString("\n")

	change := fmt.Sprintf("%+.2f (%+.2f%%)", s.Change, s.PercentChange)
	if s.PercentChange >= 0 {
		change = gainStyle.Render(change)
	} else {
		change = lossStyle.Render(change)
	}

	fmt.Fprintf(&b, "Price: $%.2f  %s\n", s.Price, change)
	fmt.Fprintf(&b, "Volume: %s (relative %s)   Market Cap: %s\n",
		formatCount(s.Volume), s.RelativeVolume, formatDollars(s.MarketCap))
	if s.Sector != "" {
		fmt.Fprintf(&b, "Sector: %s\n", s.Sector)
	}

	return strings.TrimRight(b.String(), "\n")
}

// RenderTradePlan renders the trade plan block.
func RenderTradePlan(plan *models.TradePlan) string {
	var b strings.Builder

	b.WriteString("Trade Plan\n\n")
	fmt.Fprintf(&b, "Entry:          $%s\n", plan.EntryPrice.StringFixed(2))
	fmt.Fprintf(&b, "Stop Loss:      $%s %s\n", plan.StopLoss.StringFixed(2), boundOrigin(plan.StopFromCandle))
	fmt.Fprintf(&b, "Target:         $%s %s\n", plan.Target.StringFixed(2), boundOrigin(plan.TargetFromCandle))
	fmt.Fprintf(&b, "Shares:         %d\n", plan.Shares)
	fmt.Fprintf(&b, "Total Cost:     $%s\n", plan.TotalCost.StringFixed(2))
	fmt.Fprintf(&b, "Risk/Share:     $%s\n", plan.RiskPerShare.StringFixed(2))
	fmt.Fprintf(&b, "Reward/Share:   $%s\n", plan.RewardPerShare.StringFixed(2))
	if plan.RiskRewardOK {
		fmt.Fprintf(&b, "Risk/Reward:    1 : %s\n", plan.RiskReward.StringFixed(2))
	} else {
		fmt.Fprintf(&b, "Risk/Reward:    %s\n", dimStyle.Render("not computable"))
	}

	return planStyle.Render(strings.TrimRight(b.String(), "\n"))
}

func boundOrigin(fromCandle bool) string {
	if fromCandle {
		return dimStyle.Render("(from recent closes)")
	}
	return dimStyle.Render("(percentage)")
}

// RenderIndicators renders the technical indicator block for a close series.
func RenderIndicators(candles *models.Candles) string {
	var b strings.Builder
	b.WriteString("Indicators\n\n")

	if sma, ok := screener.SMA(candles.Closes, 20); ok {
		fmt.Fprintf(&b, "SMA(20):   %.3f\n", sma)
	}
	if ema, ok := screener.EMA(candles.Closes, 9); ok {
		fmt.Fprintf(&b, "EMA(9):    %.3f\n", ema)
	}
	if rsi, ok := screener.RSI(candles.Closes, 14); ok {
		line := fmt.Sprintf("RSI(14):   %.1f", rsi)
		switch {
		case rsi >= 70:
			line += "  " + warnStyle.Render("overbought")
		case rsi <= 30:
			line += "  " + warnStyle.Render("oversold")
		}
		b.WriteString(line + "\n")
	}
	if macd, ok := screener.MACD(candles.Closes); ok {
		trend := lossStyle.Render("bearish")
		if macd.Bullish {
			trend = gainStyle.Render("bullish")
		}
		fmt.Fprintf(&b, "MACD:      %.4f signal %.4f (%s)\n", macd.MACD, macd.Signal, trend)
	}
	if vwap, ok := screener.VWAP(candles.Closes, candles.Volumes); ok {
		fmt.Fprintf(&b, "VWAP:      %.3f\n", vwap)
	}

	return planStyle.Render(strings.TrimRight(b.String(), "\n"))
}

// RenderNewsList renders headlines with their list positions.
func RenderNewsList(symbol string, articles []*models.NewsArticle) string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(fmt.Sprintf("Recent news for %s", symbol)))
	b.WriteString("\n\n")

	for i, a := range articles {
		when := dimStyle.Render(time.Unix(a.Datetime, 0).Format("Jan 02 15:04"))
		fmt.Fprintf(&b, "%2d. [%s] %s %s\n", i+1, a.Source, a.Headline, when)
		if a.Summary != "" {
			fmt.Fprintf(&b, "    %s\n", dimStyle.Render(truncate(a.Summary, 100)))
		}
	}

	return strings.TrimRight(b.String(), "\n")
}

// RenderArticle renders one scraped article body.
func RenderArticle(article *news.Article) string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(article.Title))
	b.WriteString("\n")
	fmt.Fprintf(&b, "%s\n\n", dimStyle.Render(fmt.Sprintf("%s  %s  %s",
		article.Source, article.PublishedAt.Format("2006-01-02 15:04"), article.URL)))
	b.WriteString(article.Content)

	return strings.TrimRight(b.String(), "\n")
}

// DisplayError shows an error message
func DisplayError(err error) {
	fmt.Println(errorStyle.Render("Error: " + err.Error()))
}

// DisplayInfo shows an info message
func DisplayInfo(message string) {
	fmt.Println(infoStyle.Render(message))
}

// DisplaySuccess shows a success message
func DisplaySuccess(message string) {
	fmt.Println(successStyle.Render(message))
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

func formatCount(n int64) string {
	switch {
	case n >= 1_000_000_000:
		return fmt.Sprintf("%.2fB", float64(n)/1_000_000_000)
	case n >= 1_000_000:
		return fmt.Sprintf("%.2fM", float64(n)/1_000_000)
	case n >= 1_000:
		return fmt.Sprintf("%.1fK", float64(n)/1_000)
	default:
		return fmt.Sprintf("%d", n)
	}
}

func formatDollars(v float64) string {
	switch {
	case v >= 1_000_000_000:
		return fmt.Sprintf("$%.2fB", v/1_000_000_000)
	case v >= 1_000_000:
		return fmt.Sprintf("$%.1fM", v/1_000_000)
	case v >= 1_000:
		return fmt.Sprintf("$%.1fK", v/1_000)
	default:
		return fmt.Sprintf("$%.0f", v)
	}
}
