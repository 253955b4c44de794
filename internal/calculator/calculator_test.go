package calculator

import (
	"errors"
	"math"
	"testing"
	"time"

	"FundRadar/internal/model"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestSMA(t *testing.T) {
	got, err := SMA([]float64{1, 2, 3, 4, 5}, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !almostEqual(got, 4) {
		t.Errorf("SMA = %v, want 4", got)
	}

	if _, err := SMA([]float64{1, 2}, 3); !errors.Is(err, ErrInsufficientData) {
		t.Errorf("short series: err = %v, want ErrInsufficientData", err)
	}
}

func TestPeriodChange(t *testing.T) {
	// 100 five periods back, 110 now.
	values := []float64{100, 101, 102, 103, 104, 110}
	got, err := PeriodChange(values, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !almostEqual(got, 10) {
		t.Errorf("PeriodChange = %v, want 10", got)
	}

	if _, err := PeriodChange(values, 6); !errors.Is(err, ErrInsufficientData) {
		t.Errorf("period == len: err = %v, want ErrInsufficientData", err)
	}
}

func TestMASlope(t *testing.T) {
	// MA3 now = (4+5+6)/3 = 5, MA3 two bars back = (2+3+4)/3 = 3.
	values := []float64{1, 2, 3, 4, 5, 6}
	got, err := MASlope(values, 3, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := (5.0 - 3.0) / 3.0 * 100
	if !almostEqual(got, want) {
		t.Errorf("MASlope = %v, want %v", got, want)
	}
}

func TestDaysBelowMA(t *testing.T) {
	cases := []struct {
		name   string
		values []float64
		want   int
	}{
		{"two closing bars below", []float64{10, 10, 10, 10, 9, 8}, 2},
		{"at or above average stops count", []float64{8, 9, 10, 11, 12}, 0},
		{"series shorter than window", []float64{10, 9}, 0},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := DaysBelowMA(c.values, 3); got != c.want {
				t.Errorf("DaysBelowMA = %d, want %d", got, c.want)
			}
		})
	}
}

func TestRSI(t *testing.T) {
	// Monotonic gains have no losses at all.
	rising := make([]float64, 20)
	for i := range rising {
		rising[i] = 100 + float64(i)
	}
	got, err := RSI(rising, 14)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 100 {
		t.Errorf("all-gains RSI = %v, want 100", got)
	}

	if _, err := RSI(rising[:14], 14); !errors.Is(err, ErrInsufficientData) {
		t.Errorf("14 points: err = %v, want ErrInsufficientData", err)
	}

	// Alternating equal gains and losses balance out to 50.
	flat := []float64{100, 101, 100, 101, 100, 101, 100, 101, 100, 101, 100, 101, 100, 101, 100}
	got, err = RSI(flat, 14)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !almostEqual(got, 50) {
		t.Errorf("balanced RSI = %v, want 50", got)
	}
}

func TestPercentileStrictLessThan(t *testing.T) {
	history := []float64{10, 12, 14, 14, 20}
	// Only 10 and 12 sit strictly below 14; the two ties do not count.
	got, err := Percentile(14, history)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !almostEqual(got, 40) {
		t.Errorf("Percentile = %v, want 40", got)
	}

	withNaN := []float64{10, math.NaN(), 20}
	got, err = Percentile(15, withNaN)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !almostEqual(got, 50) {
		t.Errorf("Percentile with NaN = %v, want 50", got)
	}

	if _, err := Percentile(1, nil); !errors.Is(err, ErrInsufficientData) {
		t.Errorf("empty history: err = %v, want ErrInsufficientData", err)
	}
}

func TestMaxDrawdown(t *testing.T) {
	day := func(d int) time.Time {
		return time.Date(2024, 3, d, 0, 0, 0, 0, time.Local)
	}
	series := []model.PricePoint{
		{Date: day(1), Value: 1.00},
		{Date: day(2), Value: 1.20},
		{Date: day(3), Value: 1.10},
		{Date: day(4), Value: 0.90},
		{Date: day(5), Value: 1.05},
	}
	dd, err := MaxDrawdown(series)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !almostEqual(dd.MaxDrawdown, -25) {
		t.Errorf("MaxDrawdown = %v, want -25", dd.MaxDrawdown)
	}
	if !dd.PeakDate.Equal(day(2)) || !dd.TroughDate.Equal(day(4)) {
		t.Errorf("peak/trough = %v/%v, want 03-02/03-04", dd.PeakDate, dd.TroughDate)
	}
}

func TestVolatility(t *testing.T) {
	returns := []float64{0.01, -0.01, 0.01, -0.01}
	got, err := Volatility(returns, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Sample std of {±0.01} around mean 0 is sqrt(4*1e-4/3).
	want := math.Sqrt(4 * 1e-4 / 3) * 100
	if !almostEqual(got, want) {
		t.Errorf("Volatility = %v, want %v", got, want)
	}

	annualized, err := Volatility(returns, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !almostEqual(annualized, want*math.Sqrt(252)) {
		t.Errorf("annualized = %v, want %v", annualized, want*math.Sqrt(252))
	}
}
