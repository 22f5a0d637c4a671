package screener

import (
	"math"
	"testing"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestSMA(t *testing.T) {
	values := []float64{1, 2, 3, 4, 5}

	got, ok := SMA(values, 3)
	if !ok || !almostEqual(got, 4) {
		t.Fatalf("SMA(3): got %v ok=%v", got, ok)
	}
	if _, ok := SMA(values, 6); ok {
		t.Fatal("SMA over short series should report not ok")
	}
}

func TestEMAConstantSeries(t *testing.T) {
	values := []float64{3, 3, 3, 3, 3, 3}
	got, ok := EMA(values, 3)
	if !ok || !almostEqual(got, 3) {
		t.Fatalf("EMA of constant series: got %v ok=%v", got, ok)
	}
}

func TestEMAFollowsTrend(t *testing.T) {
	rising := []float64{1, 2, 3, 4, 5, 6, 7, 8}
	ema, ok := EMA(rising, 3)
	if !ok {
		t.Fatal("EMA should be computable")
	}
	sma, _ := SMA(rising, 8)
	if ema <= sma {
		t.Fatalf("EMA should weight recent values above the full mean: ema=%v sma=%v", ema, sma)
	}
}

func TestRSI(t *testing.T) {
	allGains := []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15}
	got, ok := RSI(allGains, 14)
	if !ok || got != 100 {
		t.Fatalf("RSI of monotonic gains: got %v ok=%v", got, ok)
	}

	flatThenMixed := []float64{10, 11, 10, 11, 10, 11, 10, 11, 10, 11, 10, 11, 10, 11, 10}
	got, ok = RSI(flatThenMixed, 14)
	if !ok {
		t.Fatal("RSI should be computable")
	}
	if got <= 0 || got >= 100 {
		t.Fatalf("mixed series RSI out of range: %v", got)
	}

	if _, ok := RSI([]float64{1, 2, 3}, 14); ok {
		t.Fatal("RSI over short series should report not ok")
	}
}

func TestMACD(t *testing.T) {
	rising := make([]float64, 60)
	for i := range rising {
		rising[i] = 1 + float64(i)*0.1
	}

	res, ok := MACD(rising)
	if !ok {
		t.Fatal("MACD should be computable over 60 closes")
	}
	if res.MACD <= 0 {
		t.Fatalf("steadily rising series should have positive MACD, got %v", res.MACD)
	}
	if !almostEqual(res.Histogram, res.MACD-res.Signal) {
		t.Fatalf("histogram must be MACD minus signal: %+v", res)
	}

	if _, ok := MACD(rising[:20]); ok {
		t.Fatal("MACD over short series should report not ok")
	}
}

func TestVWAP(t *testing.T) {
	closes := []float64{1, 2, 3}
	volumes := []int64{100, 100, 200}

	got, ok := VWAP(closes, volumes)
	if !ok || !almostEqual(got, 2.25) {
		t.Fatalf("VWAP: got %v ok=%v", got, ok)
	}

	if _, ok := VWAP(closes, []int64{0, 0, 0}); ok {
		t.Fatal("zero total volume should report not ok")
	}
	if _, ok := VWAP(nil, nil); ok {
		t.Fatal("empty series should report not ok")
	}
}
