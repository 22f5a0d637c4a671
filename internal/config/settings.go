package config

import (
	"fmt"

	"github.com/poundfoolish/poundfoolish/internal/models"
)

// Settings are the user-tunable screening thresholds and trade-plan
// defaults, persisted as JSON and hot-reloaded by the Manager.
type Settings struct {
	Filters models.FilterConfig `json:"filters"`
	Plan    models.PlanParams   `json:"plan"`
}

func DefaultSettings() Settings {
	return Settings{
		Filters: models.DefaultFilterConfig(),
		Plan:    models.DefaultPlanParams(),
	}
}

// Validate rejects threshold combinations the screener cannot act on.
func (s Settings) Validate() error {
	f := s.Filters
	if f.MaxPrice < 0 || f.MinVolume < 0 || f.MinMarketCap < 0 || f.MaxMarketCap < 0 ||
		f.MinRelativeVolume < 0 {
		return fmt.Errorf("filter thresholds must not be negative")
	}
	if f.MinMarketCap > 0 && f.MaxMarketCap > 0 && f.MinMarketCap > f.MaxMarketCap {
		return fmt.Errorf("min_market_cap %v exceeds max_market_cap %v", f.MinMarketCap, f.MaxMarketCap)
	}

	p := s.Plan
	if p.MaxRisk <= 0 || p.MaxPosition <= 0 {
		return fmt.Errorf("max_risk and max_position must be positive")
	}
	if err := validatePlanMode(p.StopLossMode); err != nil {
		return fmt.Errorf("stop_loss_mode: %w", err)
	}
	if err := validatePlanMode(p.TargetMode); err != nil {
		return fmt.Errorf("target_mode: %w", err)
	}
	if p.StopLossPct < 1 || p.StopLossPct > 99 {
		return fmt.Errorf("stop_loss_pct must be within 1..99, got %v", p.StopLossPct)
	}
	if p.TargetPct < 1 || p.TargetPct > 500 {
		return fmt.Errorf("target_pct must be within 1..500, got %v", p.TargetPct)
	}
	return nil
}

func validatePlanMode(mode string) error {
	switch mode {
	case models.PlanModeAuto, models.PlanModeCustom:
		return nil
	default:
		return fmt.Errorf("must be %q or %q, got %q", models.PlanModeAuto, models.PlanModeCustom, mode)
	}
}
