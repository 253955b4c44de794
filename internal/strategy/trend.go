package strategy

import (
	"log"

	"FundRadar/internal/calculator"
	"FundRadar/internal/collector"
	"FundRadar/internal/model"
)

// Analyzer turns index quotes into trend snapshots with smart signals.
type Analyzer struct {
	Cache     *collector.HistoryCache
	TrendDays int
}

func NewAnalyzer(cache *collector.HistoryCache, trendDays int) *Analyzer {
	if trendDays <= 0 {
		trendDays = 90
	}
	return &Analyzer{Cache: cache, TrendDays: trendDays}
}

func maybe(v float64, err error) *float64 {
	if err != nil {
		return nil
	}
	return &v
}

// AnalyzeIndex computes the technical picture for one index. A missing
// history yields a snapshot with Err set instead of failing the run.
// breadthRatio applies to A-share indices only.
func (a *Analyzer) AnalyzeIndex(quote *model.IndexQuote, breadthRatio *float64) *model.TrendSnapshot {
	snap := &model.TrendSnapshot{
		Code:   quote.Code,
		Name:   quote.Name,
		Market: quote.Market,
		Price:  quote.Price,
	}

	history := a.Cache.IndexHistory(quote.Code, quote.Market, a.TrendDays)
	if len(history) == 0 {
		snap.Err = "无法获取历史数据"
		return snap
	}
	closes := model.Closes(history)

	snap.Changes = model.PeriodChanges{
		D5:  maybe(calculator.PeriodChange(closes, 5)),
		D10: maybe(calculator.PeriodChange(closes, 10)),
		D20: maybe(calculator.PeriodChange(closes, 20)),
		D30: maybe(calculator.PeriodChange(closes, 30)),
	}
	snap.MAs = model.MovingAverages{
		MA5:  maybe(calculator.SMA(closes, 5)),
		MA10: maybe(calculator.SMA(closes, 10)),
		MA20: maybe(calculator.SMA(closes, 20)),
		MA60: maybe(calculator.SMA(closes, 60)),
	}
	snap.MA20Slope = maybe(calculator.MASlope(closes, 20, 5))
	snap.DaysBelowMA10 = calculator.DaysBelowMA(closes, 10)
	snap.RSI = maybe(calculator.RSI(closes, 14))

	if quote.Market == model.MarketAShare {
		snap.VolumeRatio = a.volumeRatio(quote.Code)
	} else {
		breadthRatio = nil
	}

	snap.Signal = EvaluateSmartSignal(SignalInput{
		Price:         quote.Price,
		MAs:           snap.MAs,
		MA20Slope:     snap.MA20Slope,
		DaysBelowMA10: snap.DaysBelowMA10,
		RSI:           snap.RSI,
		VolumeRatio:   snap.VolumeRatio,
		BreadthRatio:  breadthRatio,
	})
	return snap
}

// volumeRatio compares today's traded amount with the trailing 5-day
// average excluding today, as a percentage.
func (a *Analyzer) volumeRatio(code string) *float64 {
	amounts := a.Cache.VolumeHistory(code, a.TrendDays)
	if len(amounts) < 6 {
		return nil
	}
	today := amounts[len(amounts)-1].Value
	var sum float64
	for _, p := range amounts[len(amounts)-6 : len(amounts)-1] {
		sum += p.Value
	}
	avg := sum / 5
	if avg <= 0 {
		return nil
	}
	ratio := today / avg * 100
	return &ratio
}

// AnalyzeAll runs the trend analysis over every fetched quote.
func (a *Analyzer) AnalyzeAll(quotes []*model.IndexQuote, breadthRatio *float64) []*model.TrendSnapshot {
	snaps := make([]*model.TrendSnapshot, 0, len(quotes))
	for _, quote := range quotes {
		log.Printf("[INFO] 分析指数: %s (%s)", quote.Name, quote.Code)
		snaps = append(snaps, a.AnalyzeIndex(quote, breadthRatio))
	}
	return snaps
}
