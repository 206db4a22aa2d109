package ta

import "math"

// Trailing-window indicator math over close prices (ascending time order).
// Every function reports ok=false instead of a NaN when the series is too
// short for its window, so callers are forced to handle the undefined case.

func SMA(closes []float64, n int) (float64, bool) {
	if n <= 0 || len(closes) < n {
		return 0, false
	}
	sum := 0.0
	for i := len(closes) - n; i < len(closes); i++ {
		sum += closes[i]
	}
	return sum / float64(n), true
}

// StdDev is the sample standard deviation (N-1) of the trailing n values.
func StdDev(vals []float64, n int) (float64, bool) {
	if n < 2 || len(vals) < n {
		return 0, false
	}
	m, _ := SMA(vals, n)
	s := 0.0
	for i := len(vals) - n; i < len(vals); i++ {
		d := vals[i] - m
		s += d * d
	}
	return math.Sqrt(s / float64(n-1)), true
}

// RSI computes the relative strength index from trailing simple averages of
// gains and losses over `period` price changes. When the average loss is
// zero the result is exactly 100 rather than a division by zero.
func RSI(closes []float64, period int) (float64, bool) {
	if period <= 0 || len(closes) < period+1 {
		return 0, false
	}
	gain, loss := 0.0, 0.0
	for i := len(closes) - period; i < len(closes); i++ {
		d := closes[i] - closes[i-1]
		if d > 0 {
			gain += d
		} else {
			loss -= d
		}
	}
	if loss == 0 {
		return 100.0, true
	}
	rs := (gain / float64(period)) / (loss / float64(period))
	return 100.0 - (100.0 / (1.0 + rs)), true
}

func Bollinger(closes []float64, n int, k float64) (mid, up, low float64, ok bool) {
	mid, ok = SMA(closes, n)
	if !ok {
		return 0, 0, 0, false
	}
	sd, ok := StdDev(closes, n)
	if !ok {
		return 0, 0, 0, false
	}
	return mid, mid + k*sd, mid - k*sd, true
}

// Returns converts closes into consecutive percentage returns
// (0.01 == +1%). len(result) == len(closes)-1.
func Returns(closes []float64) []float64 {
	if len(closes) < 2 {
		return nil
	}
	rets := make([]float64, 0, len(closes)-1)
	for i := 1; i < len(closes); i++ {
		if closes[i-1] == 0 {
			rets = append(rets, 0)
			continue
		}
		rets = append(rets, (closes[i]-closes[i-1])/closes[i-1])
	}
	return rets
}

// Volatility is the annualized volatility percentage: sample standard
// deviation of the trailing `period` returns, scaled by sqrt(252) trading
// days and expressed in percent, rounded to 2 decimals.
func Volatility(closes []float64, period int) (float64, bool) {
	rets := Returns(closes)
	sd, ok := StdDev(rets, period)
	if !ok {
		return 0, false
	}
	return Round2(sd * math.Sqrt(252) * 100), true
}

// minAlignedBetaObs is the smallest paired-return count Beta will accept
// before falling back to market-average sensitivity.
const minAlignedBetaObs = 10

// Beta computes covariance(stock, benchmark) / variance(benchmark) over the
// trailing `period` paired returns. It always yields a defined value:
// fewer than 10 aligned observations, or a flat benchmark, default to 1.0.
func Beta(closes, benchmark []float64, period int) float64 {
	sr := tail(Returns(closes), period)
	br := tail(Returns(benchmark), period)

	// Pairwise-align the trailing windows by index.
	n := len(sr)
	if len(br) < n {
		n = len(br)
	}
	if n < minAlignedBetaObs {
		return 1.0
	}
	sr = tail(sr, n)
	br = tail(br, n)

	var ms, mb float64
	for i := 0; i < n; i++ {
		ms += sr[i]
		mb += br[i]
	}
	ms /= float64(n)
	mb /= float64(n)

	var cov, varB float64
	for i := 0; i < n; i++ {
		cov += (sr[i] - ms) * (br[i] - mb)
		varB += (br[i] - mb) * (br[i] - mb)
	}
	cov /= float64(n - 1)
	varB /= float64(n - 1)

	if varB == 0 {
		return 1.0
	}
	return Round2(cov / varB)
}

// Round2 rounds to 2 decimal places for presentation-boundary values.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func tail(vals []float64, n int) []float64 {
	if len(vals) <= n {
		return vals
	}
	return vals[len(vals)-n:]
}
