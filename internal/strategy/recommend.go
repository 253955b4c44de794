package strategy

import (
	"fmt"

	"FundRadar/internal/model"
)

// Trend strength buckets derived from the smart-signal net score.
const (
	trendStrong = "strong"
	trendMedium = "medium"
	trendWeak   = "weak"
)

// Valuation buckets derived from the composite percentile.
const (
	valLow    = "low"
	valMedium = "medium"
	valHigh   = "high"
)

// Position weight buckets.
const (
	posHeavy  = "heavy"
	posMedium = "medium"
	posLight  = "light"
	posEmpty  = "empty"
)

func classifyTrend(netScore int) string {
	switch {
	case netScore >= 3:
		return trendStrong
	case netScore >= 0:
		return trendMedium
	}
	return trendWeak
}

func classifyValuation(percentile *float64) string {
	if percentile == nil {
		return valMedium
	}
	switch {
	case *percentile <= 30:
		return valLow
	case *percentile >= 70:
		return valHigh
	}
	return valMedium
}

func classifyPosition(weightPct float64) string {
	switch {
	case weightPct >= 30:
		return posHeavy
	case weightPct >= 15:
		return posMedium
	case weightPct > 0:
		return posLight
	}
	return posEmpty
}

var positionAdvice = map[model.RecAction]string{
	model.RecStrongBuy:     "可分2-3批建仓，单指数不超过总仓位30%",
	model.RecBuyDip:        "小额分批买入，控制节奏",
	model.RecAccumulate:    "定投或小额逢低加仓，不追跌",
	model.RecSmallPosition: "轻仓参与，设好止盈位",
	model.RecHold:          "维持现有仓位，暂不加减",
	model.RecWait:          "持币观望，等待更好的位置",
	model.RecTrim:          "减仓1-2成，落袋部分利润",
	model.RecReduce:        "减仓至轻仓，控制回撤",
	model.RecTakeProfit:    "分批止盈，保留底仓",
}

// decide applies the trend/valuation/position decision table. Unlisted
// combinations fall through to hold.
func decide(trend, valuation, position string) (model.RecAction, []string) {
	lightOrEmpty := position == posLight || position == posEmpty
	heavyOrMedium := position == posHeavy || position == posMedium

	switch {
	case trend == trendStrong && valuation == valLow && lightOrEmpty:
		return model.RecStrongBuy, []string{"趋势强劲且估值处于低位", "当前仓位较轻，有加仓空间"}
	case trend == trendStrong && valuation == valLow && position == posHeavy:
		return model.RecHold, []string{"趋势与估值俱佳", "但仓位已重，不宜继续加仓"}
	case trend == trendStrong && valuation == valHigh && heavyOrMedium:
		return model.RecTakeProfit, []string{"趋势尚强但估值已高", "仓位不轻，适合分批兑现"}
	case trend == trendStrong && valuation == valHigh && lightOrEmpty:
		return model.RecSmallPosition, []string{"趋势强但估值偏贵", "轻仓试探，严格止盈"}
	case trend == trendWeak && valuation == valLow:
		return model.RecAccumulate, []string{"趋势走弱但估值已具吸引力", "适合分批慢慢积累筹码"}
	case trend == trendWeak && valuation == valHigh && heavyOrMedium:
		return model.RecReduce, []string{"趋势转弱且估值偏高", "仓位偏重，优先控制风险"}
	case trend == trendWeak && valuation == valHigh && lightOrEmpty:
		return model.RecWait, []string{"趋势弱、估值高", "没有参与价值，等待机会"}
	case trend == trendMedium && valuation == valLow && lightOrEmpty:
		return model.RecBuyDip, []string{"估值低位，趋势中性", "可逢回调少量买入"}
	case trend == trendMedium && valuation == valHigh && heavyOrMedium:
		return model.RecTrim, []string{"估值偏高，趋势缺乏方向", "适度降低仓位"}
	}
	return model.RecHold, []string{"趋势、估值与仓位没有明确指向", "维持现状"}
}

func isBuyAction(a model.RecAction) bool {
	switch a {
	case model.RecStrongBuy, model.RecBuyDip, model.RecAccumulate, model.RecSmallPosition:
		return true
	}
	return false
}

// Recommend combines a trend snapshot, the index's valuation percentile
// and the holder's position weight into an action. Overrides run after
// the table lookup: an overbought RSI downgrades buy-type actions, and
// extreme sentiment appends warnings without changing the action.
func Recommend(snap *model.TrendSnapshot, val *model.IndexValuation, weightPct float64, sentimentScore *int) *model.Recommendation {
	netScore := 0
	confidence := 1
	if snap.Signal != nil {
		netScore = snap.Signal.NetScore
		confidence = snap.Signal.Confidence
	}

	var percentile *float64
	if val != nil {
		percentile = val.Percentile
	}

	trend := classifyTrend(netScore)
	valuation := classifyValuation(percentile)
	position := classifyPosition(weightPct)

	action, reasoning := decide(trend, valuation, position)
	rec := &model.Recommendation{
		IndexCode:  snap.Code,
		IndexName:  snap.Name,
		Action:     action,
		Confidence: confidence,
		Reasoning:  reasoning,
		Metrics: model.RecMetrics{
			TrendStrength:  trend,
			ValuationLevel: valuation,
			PositionBand:   position,
			NetScore:       netScore,
			Percentile:     percentile,
			WeightPct:      weightPct,
		},
	}

	if snap.RSI != nil && *snap.RSI > 75 && isBuyAction(rec.Action) {
		rec.Action = model.RecWait
		rec.RiskWarnings = append(rec.RiskWarnings,
			fmt.Sprintf("RSI=%.1f 超买，买入信号降级为观望", *snap.RSI))
	}
	if sentimentScore != nil {
		if *sentimentScore < -30 {
			rec.RiskWarnings = append(rec.RiskWarnings,
				fmt.Sprintf("市场情绪分%d，警惕系统性风险", *sentimentScore))
		} else if *sentimentScore > 30 {
			rec.RiskWarnings = append(rec.RiskWarnings,
				fmt.Sprintf("市场情绪分%d，情绪偏亢奋，注意追高风险", *sentimentScore))
		}
	}

	rec.PositionAdvice = positionAdvice[rec.Action]
	rec.Context = fmt.Sprintf("趋势%s（净分%d），估值%s，仓位%s（%.1f%%）",
		trendCN(trend), netScore, valuationCN(valuation), positionCN(position), weightPct)
	return rec
}

func trendCN(t string) string {
	switch t {
	case trendStrong:
		return "强"
	case trendWeak:
		return "弱"
	}
	return "中性"
}

func valuationCN(v string) string {
	switch v {
	case valLow:
		return "低位"
	case valHigh:
		return "高位"
	}
	return "中位"
}

func positionCN(p string) string {
	switch p {
	case posHeavy:
		return "重仓"
	case posMedium:
		return "中等"
	case posLight:
		return "轻仓"
	}
	return "空仓"
}
