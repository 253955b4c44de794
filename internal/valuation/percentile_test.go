package valuation

import (
	"testing"
	"time"

	"FundRadar/internal/collector"
	"FundRadar/internal/model"
)

func valSeries(values ...float64) []model.PricePoint {
	series := make([]model.PricePoint, len(values))
	base := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, v := range values {
		series[i] = model.PricePoint{Date: base.AddDate(0, 0, i), Value: v}
	}
	return series
}

func TestAnalyzeIndexValuation(t *testing.T) {
	mock := &collector.MockFetcher{
		ValuationSeries: map[string][]model.PricePoint{
			// Current PE 15 is above 3 of 5 points → 60th percentile.
			"000300_pe": valSeries(10, 12, 14, 20, 15),
			// Current PB 1.0 is the minimum → 0th percentile.
			"000300_pb": valSeries(1.2, 1.5, 1.1, 1.3, 1.0),
		},
	}
	cache := collector.NewHistoryCache(mock)

	v := AnalyzeIndexValuation(cache, "000300", "沪深300")
	if v.PE == nil || *v.PE != 15 {
		t.Fatalf("pe = %v", v.PE)
	}
	if v.PEPercentile == nil || *v.PEPercentile != 60 {
		t.Errorf("pe percentile = %v, want 60", v.PEPercentile)
	}
	if v.PBPercentile == nil || *v.PBPercentile != 0 {
		t.Errorf("pb percentile = %v, want 0", v.PBPercentile)
	}
	if v.Percentile == nil || *v.Percentile != 30 {
		t.Errorf("composite = %v, want 30", v.Percentile)
	}
	if v.Level != model.ValuationUnder {
		t.Errorf("level = %s, want undervalued", v.Level)
	}
}

func TestAnalyzeIndexValuationPartialData(t *testing.T) {
	mock := &collector.MockFetcher{
		ValuationSeries: map[string][]model.PricePoint{
			// PE only; PB fetch fails. High percentile → overvalued.
			"000688_pe": valSeries(30, 35, 40, 45, 50),
		},
	}
	cache := collector.NewHistoryCache(mock)

	v := AnalyzeIndexValuation(cache, "000688", "科创50")
	if v.PB != nil || v.PBPercentile != nil {
		t.Error("pb should be absent")
	}
	if v.Percentile == nil || *v.Percentile != 80 {
		t.Errorf("composite = %v, want 80", v.Percentile)
	}
	if v.Level != model.ValuationOver {
		t.Errorf("level = %s, want overvalued", v.Level)
	}
}

func TestAnalyzeIndexValuationNoData(t *testing.T) {
	cache := collector.NewHistoryCache(&collector.MockFetcher{})
	v := AnalyzeIndexValuation(cache, "399006", "创业板指")
	if v.Percentile != nil {
		t.Errorf("percentile = %v, want nil", v.Percentile)
	}
	if v.Level != model.ValuationUnknown {
		t.Errorf("level = %s, want unknown", v.Level)
	}
}
