package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/AlecAivazis/survey/v2"

	"github.com/poundfoolish/poundfoolish/internal/models"
)

func floatValidator(allowZero bool) survey.Validator {
	return func(val interface{}) error {
		str := strings.TrimSpace(val.(string))
		if str == "" {
			return nil
		}
		f, err := strconv.ParseFloat(str, 64)
		if err != nil {
			return fmt.Errorf("enter a number")
		}
		if f < 0 || (!allowZero && f == 0) {
			return fmt.Errorf("enter a positive number")
		}
		return nil
	}
}

func askFloat(message string, current float64, allowZero bool) (float64, error) {
	var answer string
	prompt := &survey.Input{
		Message: message,
		Default: strconv.FormatFloat(current, 'f', -1, 64),
		Help:    "0 disables this filter",
	}
	if err := survey.AskOne(prompt, &answer, survey.WithValidator(floatValidator(allowZero))); err != nil {
		return 0, err
	}
	answer = strings.TrimSpace(answer)
	if answer == "" {
		return current, nil
	}
	return strconv.ParseFloat(answer, 64)
}

func askBool(message string, current bool) (bool, error) {
	var answer bool
	prompt := &survey.Confirm{Message: message, Default: current}
	if err := survey.AskOne(prompt, &answer); err != nil {
		return false, err
	}
	return answer, nil
}

func askMode(message, current string) (string, error) {
	var answer string
	prompt := &survey.Select{
		Message: message,
		Options: []string{models.PlanModeAuto, models.PlanModeCustom},
		Default: current,
		Help:    "auto derives the bound from recent daily closes when possible",
	}
	if err := survey.AskOne(prompt, &answer); err != nil {
		return "", err
	}
	return answer, nil
}

// promptFilterConfig walks through the screening thresholds.
func promptFilterConfig(current models.FilterConfig) (models.FilterConfig, error) {
	edited := current
	var err error

	if edited.MaxPrice, err = askFloat("Max price ($):", current.MaxPrice, true); err != nil {
		return current, err
	}

	minVolume, err := askFloat("Min volume (shares):", float64(current.MinVolume), true)
	if err != nil {
		return current, err
	}
	edited.MinVolume = int64(minVolume)

	if edited.MinMarketCap, err = askFloat("Min market cap ($):", current.MinMarketCap, true); err != nil {
		return current, err
	}
	if edited.MaxMarketCap, err = askFloat("Max market cap ($):", current.MaxMarketCap, true); err != nil {
		return current, err
	}
	if edited.MinRelativeVolume, err = askFloat("Min relative volume:", current.MinRelativeVolume, true); err != nil {
		return current, err
	}
	if edited.MinPercentChange, err = askFloat("Min percent change (%):", current.MinPercentChange, true); err != nil {
		return current, err
	}
	if edited.RequireRecentNews, err = askBool("Require recent news?", current.RequireRecentNews); err != nil {
		return current, err
	}

	return edited, nil
}

// promptPlanParams walks through the trade-plan defaults.
func promptPlanParams(current models.PlanParams) (models.PlanParams, error) {
	edited := current
	var err error

	if edited.MaxRisk, err = askFloat("Max risk per trade ($):", current.MaxRisk, false); err != nil {
		return current, err
	}
	if edited.MaxPosition, err = askFloat("Max position size ($):", current.MaxPosition, false); err != nil {
		return current, err
	}
	if edited.StopLossMode, err = askMode("Stop-loss mode:", current.StopLossMode); err != nil {
		return current, err
	}
	if edited.StopLossPct, err = askFloat("Stop-loss percent:", current.StopLossPct, false); err != nil {
		return current, err
	}
	if edited.TargetMode, err = askMode("Target mode:", current.TargetMode); err != nil {
		return current, err
	}
	if edited.TargetPct, err = askFloat("Target percent:", current.TargetPct, false); err != nil {
		return current, err
	}

	return edited, nil
}
