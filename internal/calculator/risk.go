package calculator

import (
	"math"
	"time"

	"FundRadar/internal/model"
)

// Drawdown describes the worst peak-to-trough decline within a series.
type Drawdown struct {
	MaxDrawdown float64 // percent, negative
	PeakDate    time.Time
	TroughDate  time.Time
}

// MaxDrawdown scans a NAV series for its deepest drawdown relative to
// the running maximum. Requires at least two points.
func MaxDrawdown(series []model.PricePoint) (Drawdown, error) {
	if len(series) < 2 {
		return Drawdown{}, ErrInsufficientData
	}

	runningMax := series[0].Value
	peakDate := series[0].Date
	worst := 0.0
	result := Drawdown{PeakDate: peakDate, TroughDate: series[0].Date}

	for _, p := range series {
		if p.Value > runningMax {
			runningMax = p.Value
			peakDate = p.Date
		}
		dd := (p.Value - runningMax) / runningMax
		if dd < worst {
			worst = dd
			result.PeakDate = peakDate
			result.TroughDate = p.Date
		}
	}
	result.MaxDrawdown = worst * 100
	return result, nil
}

// DailyReturns converts a NAV series into consecutive percent changes
// (as fractions, not percent).
func DailyReturns(values []float64) []float64 {
	if len(values) < 2 {
		return nil
	}
	returns := make([]float64, 0, len(values)-1)
	for i := 1; i < len(values); i++ {
		if values[i-1] == 0 {
			continue
		}
		returns = append(returns, (values[i]-values[i-1])/values[i-1])
	}
	return returns
}

// Volatility computes the sample standard deviation of daily returns,
// annualized by sqrt(252) when requested, in percent.
func Volatility(returns []float64, annualize bool) (float64, error) {
	if len(returns) < 2 {
		return 0, ErrInsufficientData
	}
	mean := 0.0
	for _, r := range returns {
		mean += r
	}
	mean /= float64(len(returns))

	variance := 0.0
	for _, r := range returns {
		d := r - mean
		variance += d * d
	}
	variance /= float64(len(returns) - 1)

	std := math.Sqrt(variance)
	if annualize {
		std *= math.Sqrt(252)
	}
	return std * 100, nil
}
