package models

import "github.com/shopspring/decimal"

// Stop-loss and target modes for trade-plan computation.
const (
	PlanModeAuto   = "auto"
	PlanModeCustom = "custom"
)

// PlanParams are the sizing and stop/target inputs of a trade plan.
type PlanParams struct {
	MaxRisk      float64 `json:"max_risk"`      // max dollars risked on the trade
	MaxPosition  float64 `json:"max_position"`  // max dollars committed
	StopLossMode string  `json:"stop_loss_mode"`
	StopLossPct  float64 `json:"stop_loss_pct"`
	TargetMode   string  `json:"target_mode"`
	TargetPct    float64 `json:"target_pct"`
}

// DefaultPlanParams returns the trade-plan defaults.
func DefaultPlanParams() PlanParams {
	return PlanParams{
		MaxRisk:      100,
		MaxPosition:  2000,
		StopLossMode: PlanModeAuto,
		StopLossPct:  12,
		TargetMode:   PlanModeAuto,
		TargetPct:    20,
	}
}

// TradePlan is a derived entry/stop/target/sizing plan for one stock.
// Monetary fields are rounded to two decimals for display; the computation
// itself runs at full precision. RiskReward is only meaningful when
// RiskRewardOK is true: a ratio mixing a candle-derived bound with an
// arbitrary percentage bound is considered unreliable and suppressed.
type TradePlan struct {
	Symbol           string          `json:"symbol"`
	EntryPrice       decimal.Decimal `json:"entry_price"`
	StopLoss         decimal.Decimal `json:"stop_loss"`
	Target           decimal.Decimal `json:"target"`
	Shares           int64           `json:"shares"`
	TotalCost        decimal.Decimal `json:"total_cost"`
	RiskPerShare     decimal.Decimal `json:"risk_per_share"`
	RewardPerShare   decimal.Decimal `json:"reward_per_share"`
	RiskReward       decimal.Decimal `json:"risk_reward"`
	RiskRewardOK     bool            `json:"risk_reward_ok"`
	StopFromCandle   bool            `json:"stop_from_candle"`
	TargetFromCandle bool            `json:"target_from_candle"`
}
