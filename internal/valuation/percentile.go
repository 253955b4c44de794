package valuation

import (
	"log"

	"FundRadar/internal/calculator"
	"FundRadar/internal/collector"
	"FundRadar/internal/model"
)

const valuationYears = 3

// classifyLevel maps a composite percentile to a valuation band.
// Below or at 30 is cheap, at or above 70 is expensive.
func classifyLevel(percentile *float64) model.ValuationLevel {
	if percentile == nil {
		return model.ValuationUnknown
	}
	switch {
	case *percentile <= 30:
		return model.ValuationUnder
	case *percentile >= 70:
		return model.ValuationOver
	}
	return model.ValuationFair
}

// AnalyzeIndexValuation ranks an index's current PE and PB against its
// trailing three-year history. Either indicator may be missing; the
// composite averages whatever is available.
func AnalyzeIndexValuation(cache *collector.HistoryCache, code, name string) *model.IndexValuation {
	result := &model.IndexValuation{Code: code, Name: name}

	indicatorPct := func(indicator string) (current, pct *float64) {
		series := cache.ValuationHistory(code, indicator, valuationYears)
		if len(series) == 0 {
			return nil, nil
		}
		cur := series[len(series)-1]
		p, err := calculator.Percentile(cur, series)
		if err != nil {
			log.Printf("[WARN] %s %s 百分位计算失败: %v", code, indicator, err)
			return &cur, nil
		}
		return &cur, &p
	}

	result.PE, result.PEPercentile = indicatorPct("pe")
	result.PB, result.PBPercentile = indicatorPct("pb")

	switch {
	case result.PEPercentile != nil && result.PBPercentile != nil:
		composite := (*result.PEPercentile + *result.PBPercentile) / 2
		result.Percentile = &composite
	case result.PEPercentile != nil:
		result.Percentile = result.PEPercentile
	case result.PBPercentile != nil:
		result.Percentile = result.PBPercentile
	}

	result.Level = classifyLevel(result.Percentile)
	return result
}
