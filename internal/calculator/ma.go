package calculator

import "errors"

// ErrInsufficientData is returned whenever a series is too short for the
// requested window. Callers treat it as "indicator unavailable", not as
// a failure.
var ErrInsufficientData = errors.New("not enough data")

// SMA computes the simple moving average of the trailing period values.
func SMA(values []float64, period int) (float64, error) {
	if period <= 0 {
		return 0, errors.New("period must be positive")
	}
	if len(values) < period {
		return 0, ErrInsufficientData
	}
	sum := 0.0
	for i := len(values) - period; i < len(values); i++ {
		sum += values[i]
	}
	return sum / float64(period), nil
}

// PeriodChange computes the trailing return over the given number of
// periods, in percent: (last - values[len-1-period]) / past * 100.
func PeriodChange(values []float64, period int) (float64, error) {
	if period <= 0 {
		return 0, errors.New("period must be positive")
	}
	if len(values) <= period {
		return 0, ErrInsufficientData
	}
	current := values[len(values)-1]
	past := values[len(values)-1-period]
	if past == 0 {
		return 0, errors.New("zero reference price")
	}
	return (current - past) / past * 100, nil
}

// MASlope computes the percent change of the window-period moving
// average between now and lookback periods ago.
func MASlope(values []float64, window, lookback int) (float64, error) {
	if len(values) < window+lookback {
		return 0, ErrInsufficientData
	}
	now, err := SMA(values, window)
	if err != nil {
		return 0, err
	}
	past, err := SMA(values[:len(values)-lookback], window)
	if err != nil {
		return 0, err
	}
	if past == 0 {
		return 0, errors.New("zero reference average")
	}
	return (now - past) / past * 100, nil
}

// DaysBelowMA counts consecutive bars, ending at the most recent one,
// whose close sits below the window-period moving average as of that
// bar. Counting stops at the first bar at or above its average, or when
// the average becomes undefined.
func DaysBelowMA(values []float64, window int) int {
	count := 0
	for end := len(values); end >= window; end-- {
		ma, err := SMA(values[:end], window)
		if err != nil {
			break
		}
		if values[end-1] >= ma {
			break
		}
		count++
	}
	return count
}
