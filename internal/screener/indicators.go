package screener

// Standard technical indicators over daily close series. All of them report
// ok=false when the series is too short rather than extrapolating.

// SMA is the simple moving average of the last period values.
func SMA(values []float64, period int) (float64, bool) {
	if period <= 0 || len(values) < period {
		return 0, false
	}
	sum := 0.0
	for _, v := range values[len(values)-period:] {
		sum += v
	}
	return sum / float64(period), true
}

// EMA is the exponential moving average over the full series, seeded with
// the SMA of the first period values.
func EMA(values []float64, period int) (float64, bool) {
	if period <= 0 || len(values) < period {
		return 0, false
	}

	seed := 0.0
	for _, v := range values[:period] {
		seed += v
	}
	ema := seed / float64(period)

	k := 2.0 / float64(period+1)
	for _, v := range values[period:] {
		ema = v*k + ema*(1-k)
	}
	return ema, true
}

// RSI is the relative strength index over the trailing period, using simple
// averages of gains and losses. 100 means no losing days in the window.
func RSI(closes []float64, period int) (float64, bool) {
	if period <= 0 || len(closes) < period+1 {
		return 0, false
	}

	gains, losses := 0.0, 0.0
	start := len(closes) - period - 1
	for i := start + 1; i < len(closes); i++ {
		delta := closes[i] - closes[i-1]
		if delta > 0 {
			gains += delta
		} else {
			losses -= delta
		}
	}

	if losses == 0 {
		return 100, true
	}
	rs := gains / losses
	return 100 - 100/(1+rs), true
}

// MACDResult carries the 12/26/9 moving average convergence divergence
// lines. Bullish is set when the MACD line sits above its signal line.
type MACDResult struct {
	MACD      float64
	Signal    float64
	Histogram float64
	Bullish   bool
}

// MACD computes the 12/26 EMA spread and its 9-period signal line. Needs at
// least 26+9 closes.
func MACD(closes []float64) (*MACDResult, bool) {
	const (
		fast   = 12
		slow   = 26
		signal = 9
	)
	if len(closes) < slow+signal {
		return nil, false
	}

	// The signal line is the EMA of the MACD series, so build that series
	// over the last stretch of closes.
	macdSeries := make([]float64, 0, len(closes)-slow+1)
	for i := slow; i <= len(closes); i++ {
		fastEMA, _ := EMA(closes[:i], fast)
		slowEMA, _ := EMA(closes[:i], slow)
		macdSeries = append(macdSeries, fastEMA-slowEMA)
	}

	signalLine, ok := EMA(macdSeries, signal)
	if !ok {
		return nil, false
	}

	macdLine := macdSeries[len(macdSeries)-1]
	return &MACDResult{
		MACD:      macdLine,
		Signal:    signalLine,
		Histogram: macdLine - signalLine,
		Bullish:   macdLine > signalLine,
	}, true
}

// VWAP is the volume-weighted average of closes. Zero total volume reports
// ok=false.
func VWAP(closes []float64, volumes []int64) (float64, bool) {
	n := len(closes)
	if len(volumes) < n {
		n = len(volumes)
	}
	if n == 0 {
		return 0, false
	}

	var weighted, total float64
	for i := 0; i < n; i++ {
		weighted += closes[i] * float64(volumes[i])
		total += float64(volumes[i])
	}
	if total == 0 {
		return 0, false
	}
	return weighted / total, true
}
