package screener

import (
	"context"
	"fmt"
	"math/rand"
	"strings"

	"github.com/poundfoolish/poundfoolish/internal/models"
	"github.com/poundfoolish/poundfoolish/internal/provider"
)

// SymbolFetchError means the tradable-symbol universe could not be obtained.
// It is the one error that aborts a whole refresh cycle.
type SymbolFetchError struct {
	Err error
}

func (e *SymbolFetchError) Error() string {
	return fmt.Sprintf("failed to fetch symbol universe: %v", e.Err)
}

func (e *SymbolFetchError) Unwrap() error {
	return e.Err
}

// Security types that are not plain common stock.
var excludedTypes = []string{
	"ETP", "ETF", "ADR", "PREFERRED", "WARRANT", "RIGHT", "UNIT",
	"RECEIPT", "CLOSED-END FUND", "OPEN-END FUND",
}

// Description words marking funds and derivative instruments. Matched as
// whole words so names like BRIGHT or UNITED survive.
var excludedDescWords = map[string]bool{
	"ETF":        true,
	"ETN":        true,
	"FUND":       true,
	"TRUST":      true,
	"ADR":        true,
	"ADS":        true,
	"PREFERRED":  true,
	"WARRANT":    true,
	"WARRANTS":   true,
	"RIGHT":      true,
	"RIGHTS":     true,
	"UNIT":       true,
	"UNITS":      true,
	"DEPOSITARY": true,
	"DEPOSITORY": true,
}

// SelectSymbols fetches the symbol universe, drops non-common-stock
// instruments and randomly samples up to maxCount entries without
// replacement. An empty universe after filtering yields an empty list.
func SelectSymbols(ctx context.Context, p provider.Provider, maxCount int, rng *rand.Rand) ([]string, error) {
	universe, err := p.GetSymbols(ctx)
	if err != nil {
		return nil, &SymbolFetchError{Err: err}
	}

	eligible := filterSymbols(universe)
	return sampleSymbols(eligible, maxCount, rng), nil
}

// filterSymbols keeps plain common-stock entries, excluding funds,
// preferred shares, warrants, rights, units and ADRs by type and
// description, plus symbols shorter than 2 characters or containing digits.
func filterSymbols(universe []*models.SymbolInfo) []*models.SymbolInfo {
	eligible := make([]*models.SymbolInfo, 0, len(universe))
	for _, info := range universe {
		if len(info.Symbol) < 2 || containsDigit(info.Symbol) {
			continue
		}
		if excludedType(info.Type) || excludedDescription(info.Description) {
			continue
		}
		eligible = append(eligible, info)
	}
	return eligible
}

// sampleSymbols draws up to maxCount symbols without replacement via a
// partial Fisher-Yates shuffle. The input slice is not modified.
func sampleSymbols(symbols []*models.SymbolInfo, maxCount int, rng *rand.Rand) []string {
	if maxCount <= 0 || len(symbols) == 0 {
		return []string{}
	}

	pool := make([]*models.SymbolInfo, len(symbols))
	copy(pool, symbols)

	n := maxCount
	if n > len(pool) {
		n = len(pool)
	}

	picked := make([]string, 0, n)
	for i := 0; i < n; i++ {
		j := i + rng.Intn(len(pool)-i)
		pool[i], pool[j] = pool[j], pool[i]
		picked = append(picked, pool[i].Symbol)
	}
	return picked
}

func containsDigit(s string) bool {
	for _, r := range s {
		if r >= '0' && r <= '9' {
			return true
		}
	}
	return false
}

func excludedType(typ string) bool {
	upper := strings.ToUpper(typ)
	for _, t := range excludedTypes {
		if strings.Contains(upper, t) {
			return true
		}
	}
	return false
}

func excludedDescription(desc string) bool {
	for _, word := range strings.FieldsFunc(strings.ToUpper(desc), func(r rune) bool {
		return !(r >= 'A' && r <= 'Z')
	}) {
		if excludedDescWords[word] {
			return true
		}
	}
	return false
}
