package screener

import (
	"math/rand"
	"testing"

	"github.com/poundfoolish/poundfoolish/internal/models"
)

func sym(symbol, description, typ string) *models.SymbolInfo {
	return &models.SymbolInfo{Symbol: symbol, Description: description, Type: typ}
}

func TestFilterSymbolsExcludesNonCommonStock(t *testing.T) {
	universe := []*models.SymbolInfo{
		sym("SNDL", "SNDL INC", "Common Stock"),
		sym("BRK.B", "BERKSHIRE HATHAWAY INC-CL B", "Common Stock"),
		sym("SPY", "SPDR S&P 500 ETF TRUST", "ETP"),
		sym("BABA", "ALIBABA GROUP HOLDING-SP ADR", "ADR"),
		sym("GRP.U", "GRANITE POINT UNITS", "Unit"),
		sym("XYZ.W", "XYZ CORP WARRANT", "Warrant"),
		sym("ABC.R", "ABC CORP RIGHTS", "Right"),
		sym("PFD.P", "SOMECO PREFERRED SERIES A", "Preferred"),
		sym("ABC1", "ABC ONE INC", "Common Stock"),
		sym("A", "AGILENT TECHNOLOGIES INC", "Common Stock"),
	}

	got := filterSymbols(universe)

	want := map[string]bool{"SNDL": true, "BRK.B": true}
	if len(got) != len(want) {
		t.Fatalf("got %d symbols, want %d: %+v", len(got), len(want), got)
	}
	for _, info := range got {
		if !want[info.Symbol] {
			t.Errorf("symbol %s should have been excluded", info.Symbol)
		}
	}
}

func TestFilterSymbolsExcludesDescriptionWordsNotSubstrings(t *testing.T) {
	universe := []*models.SymbolInfo{
		sym("BFAM", "BRIGHT HORIZONS FAMILY SOLUT", "Common Stock"),
		sym("UAL", "UNITED AIRLINES HOLDINGS INC", "Common Stock"),
		sym("VTI", "VANGUARD TOTAL STOCK MKT ETF", "ETP"),
	}

	got := filterSymbols(universe)
	if len(got) != 2 {
		t.Fatalf("word matching should keep BFAM and UAL: %+v", got)
	}
}

func TestSampleSymbolsBoundedWithoutReplacement(t *testing.T) {
	universe := []*models.SymbolInfo{
		sym("AA", "", ""), sym("BB", "", ""), sym("CC", "", ""),
		sym("DD", "", ""), sym("EE", "", ""),
	}
	rng := rand.New(rand.NewSource(42))

	got := sampleSymbols(universe, 3, rng)
	if len(got) != 3 {
		t.Fatalf("sample size: got %d", len(got))
	}
	seen := map[string]bool{}
	for _, s := range got {
		if seen[s] {
			t.Fatalf("symbol %s sampled twice", s)
		}
		seen[s] = true
	}
}

func TestSampleSymbolsSmallUniverse(t *testing.T) {
	universe := []*models.SymbolInfo{sym("AA", "", ""), sym("BB", "", "")}
	rng := rand.New(rand.NewSource(1))

	if got := sampleSymbols(universe, 10, rng); len(got) != 2 {
		t.Fatalf("should return whole universe when smaller than maxCount, got %d", len(got))
	}
	if got := sampleSymbols(nil, 10, rng); len(got) != 0 {
		t.Fatalf("empty universe should yield empty list, got %v", got)
	}
}
