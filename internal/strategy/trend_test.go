package strategy

import (
	"math"
	"testing"
	"time"

	"FundRadar/internal/collector"
	"FundRadar/internal/model"
)

func series(values ...float64) []model.PricePoint {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	out := make([]model.PricePoint, len(values))
	for i, v := range values {
		out[i] = model.PricePoint{Date: base.AddDate(0, 0, i), Value: v}
	}
	return out
}

func TestAnalyzeIndex(t *testing.T) {
	closes := make([]float64, 0, 80)
	for i := 0; i < 80; i++ {
		closes = append(closes, 100+float64(i)*0.5)
	}
	mock := &collector.MockFetcher{
		IndexSeries: map[string][]model.PricePoint{
			"000300": series(closes...),
		},
		VolumeSeries: map[string][]model.PricePoint{
			"000300": series(100, 100, 100, 100, 100, 100, 150),
		},
	}
	a := NewAnalyzer(collector.NewHistoryCache(mock), 90)

	quote := &model.IndexQuote{Code: "000300", Name: "沪深300", Market: model.MarketAShare, Price: 140}
	snap := a.AnalyzeIndex(quote, nil)

	if snap.Err != "" {
		t.Fatalf("unexpected error: %s", snap.Err)
	}
	if snap.MAs.MA20 == nil || snap.MAs.MA60 == nil {
		t.Fatal("expected all MAs with 80 points")
	}
	if snap.Changes.D30 == nil {
		t.Error("expected 30d change with 80 points")
	}
	if snap.MA20Slope == nil || *snap.MA20Slope <= 0 {
		t.Errorf("rising series should have positive slope, got %v", snap.MA20Slope)
	}
	if snap.DaysBelowMA10 != 0 {
		t.Errorf("rising series should not sit below MA10, got %d", snap.DaysBelowMA10)
	}
	if snap.RSI == nil {
		t.Error("expected RSI with 80 points")
	}
	// Volume: today 150 vs trailing five days averaging 100.
	if snap.VolumeRatio == nil || math.Abs(*snap.VolumeRatio-150) > 1e-9 {
		t.Errorf("volume ratio = %v, want 150", snap.VolumeRatio)
	}
	if snap.Signal == nil {
		t.Fatal("expected a smart signal")
	}
}

func TestAnalyzeIndexNoHistory(t *testing.T) {
	mock := &collector.MockFetcher{NavSeries: map[string][]model.PricePoint{}}
	mock.IndexSeries = map[string][]model.PricePoint{"^GSPC": nil}
	a := NewAnalyzer(collector.NewHistoryCache(mock), 90)

	quote := &model.IndexQuote{Code: "^GSPC", Name: "标普500", Market: model.MarketUS, Price: 5000}
	snap := a.AnalyzeIndex(quote, nil)
	if snap.Err == "" {
		t.Error("expected an error marker without history")
	}
	if snap.Signal != nil {
		t.Error("no signal should be produced without history")
	}
}

func TestVolumeRatioOnlyForAShare(t *testing.T) {
	closes := make([]float64, 30)
	for i := range closes {
		closes[i] = 5000 + float64(i)
	}
	mock := &collector.MockFetcher{
		IndexSeries: map[string][]model.PricePoint{"^IXIC": series(closes...)},
	}
	a := NewAnalyzer(collector.NewHistoryCache(mock), 90)
	snap := a.AnalyzeIndex(&model.IndexQuote{Code: "^IXIC", Market: model.MarketUS, Price: 5030}, nil)
	if snap.VolumeRatio != nil {
		t.Error("US indices have no turnover data, ratio must stay nil")
	}
}
