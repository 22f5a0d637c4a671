package screener

import (
	"math"

	"github.com/shopspring/decimal"

	"github.com/poundfoolish/poundfoolish/internal/models"
)

var hundred = decimal.NewFromInt(100)

// ComputeTradePlan derives entry, stop, target and position size for one
// stock. Returns nil when the stock has no usable price. The close window
// for auto bounds is the five daily closes preceding the most recent one,
// or fewer when history is short.
func ComputeTradePlan(stock *models.Stock, params models.PlanParams) *models.TradePlan {
	if stock == nil || stock.Price <= 0 || math.IsNaN(stock.Price) || math.IsInf(stock.Price, 0) {
		return nil
	}

	price := decimal.NewFromFloat(stock.Price)
	window := closeWindow(stock.Candles)

	stop, stopFromCandle := stopLoss(price, window, params)
	target, targetFromCandle := target(price, window, params)

	riskPerShare := price.Sub(stop)
	rewardPerShare := target.Sub(price)

	var shares int64
	if riskPerShare.IsPositive() {
		shares = decimal.NewFromFloat(params.MaxRisk).Div(riskPerShare).Floor().IntPart()
	}

	maxPosition := decimal.NewFromFloat(params.MaxPosition)
	totalCost := price.Mul(decimal.NewFromInt(shares))
	if totalCost.GreaterThan(maxPosition) {
		shares = maxPosition.Div(price).Floor().IntPart()
		totalCost = price.Mul(decimal.NewFromInt(shares))
	}

	plan := &models.TradePlan{
		Symbol:           stock.Symbol,
		EntryPrice:       price.Round(2),
		StopLoss:         stop.Round(2),
		Target:           target.Round(2),
		Shares:           shares,
		TotalCost:        totalCost.Round(2),
		RiskPerShare:     riskPerShare.Round(2),
		RewardPerShare:   rewardPerShare.Round(2),
		StopFromCandle:   stopFromCandle,
		TargetFromCandle: targetFromCandle,
	}

	// A ratio is only trustworthy when both bounds came from price history.
	if stopFromCandle && targetFromCandle && riskPerShare.IsPositive() && rewardPerShare.IsPositive() {
		plan.RiskReward = rewardPerShare.Div(riskPerShare).Round(2)
		plan.RiskRewardOK = true
	}

	return plan
}

// closeWindow returns the five closes preceding the most recent one.
func closeWindow(candles *models.Candles) []float64 {
	if candles == nil || len(candles.Closes) < 2 {
		return nil
	}
	closes := candles.Closes
	start := len(closes) - 6
	if start < 0 {
		start = 0
	}
	return closes[start : len(closes)-1]
}

// stopLoss picks the window minimum when it sits below the entry price,
// otherwise falls back to the percentage offset.
func stopLoss(price decimal.Decimal, window []float64, params models.PlanParams) (decimal.Decimal, bool) {
	if params.StopLossMode == models.PlanModeAuto && len(window) > 0 {
		low := decimal.NewFromFloat(minOf(window))
		if low.LessThan(price) {
			return low, true
		}
	}
	pct := decimal.NewFromFloat(params.StopLossPct).Div(hundred)
	return price.Mul(decimal.NewFromInt(1).Sub(pct)), false
}

// target picks the window maximum when it sits above the entry price,
// otherwise falls back to the percentage offset.
func target(price decimal.Decimal, window []float64, params models.PlanParams) (decimal.Decimal, bool) {
	if params.TargetMode == models.PlanModeAuto && len(window) > 0 {
		high := decimal.NewFromFloat(maxOf(window))
		if high.GreaterThan(price) {
			return high, true
		}
	}
	pct := decimal.NewFromFloat(params.TargetPct).Div(hundred)
	return price.Mul(decimal.NewFromInt(1).Add(pct)), false
}

func minOf(values []float64) float64 {
	m := values[0]
	for _, v := range values[1:] {
		if v < m {
			m = v
		}
	}
	return m
}

func maxOf(values []float64) float64 {
	m := values[0]
	for _, v := range values[1:] {
		if v > m {
			m = v
		}
	}
	return m
}
