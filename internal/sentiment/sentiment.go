package sentiment

import (
	"strings"

	"FundRadar/internal/model"
)

// AnalyzeBreadth scores the advance/decline picture. The score feeds
// both the breadth signal itself and the composite summary.
func AnalyzeBreadth(stats model.BreadthStats) *model.BreadthSignal {
	score := 0
	var notes []string

	switch ratio := stats.RiseRatio; {
	case ratio > 1.5:
		score += 2
		notes = append(notes, "涨跌比强势")
	case ratio > 1.0:
		score++
		notes = append(notes, "上涨家数占优")
	case ratio < 0.67 && ratio > 0:
		score -= 2
		notes = append(notes, "涨跌比弱势")
	case ratio < 1.0 && ratio > 0:
		score--
		notes = append(notes, "下跌家数占优")
	}

	if stats.LimitUp > stats.LimitDown*2 {
		score++
		notes = append(notes, "涨停多于跌停")
	} else if stats.LimitDown > stats.LimitUp*2 {
		score--
		notes = append(notes, "跌停多于涨停")
	}

	if stats.NetHighLow > 50 {
		score++
		notes = append(notes, "净新高较多")
	} else if stats.NetHighLow < -50 {
		score--
		notes = append(notes, "净新低较多")
	}

	signal := model.SentimentNeutral
	if score >= 2 {
		signal = model.SentimentBullish
	} else if score <= -2 {
		signal = model.SentimentBearish
	}

	description := "市场情绪中性"
	if len(notes) > 0 {
		description = strings.Join(notes, "，")
	}
	return &model.BreadthSignal{
		Stats:       stats,
		Score:       score,
		Signal:      signal,
		Description: description,
	}
}

// Inputs are the per-indicator signals feeding the composite score.
// Unset (neutral/empty) entries contribute nothing, so partial data
// degrades the score toward zero instead of failing. Every indicator
// accepts the full five-level scale; very_bullish and very_bearish
// weigh the same as their plain forms.
type Inputs struct {
	Margin     model.SentimentSignal
	Breadth    model.SentimentSignal
	EquityBond model.SentimentSignal
	VIX        model.SentimentSignal
	USD        model.SentimentSignal
}

const (
	weightMargin     = 25
	weightBreadth    = 30
	weightEquityBond = 20
	weightVIX        = 15
	weightUSD        = 10
)

// Summarize folds the indicator signals into one score in [-100, 100]
// and maps it onto the five-level signal scale at +-20/+-40.
func Summarize(in Inputs) *model.SentimentSummary {
	score := 0
	var notes []string

	switch in.Margin {
	case model.SentimentBullish, model.SentimentVeryBullish:
		score += weightMargin
		notes = append(notes, "杠杆资金流入")
	case model.SentimentBearish, model.SentimentVeryBearish:
		score -= weightMargin
		notes = append(notes, "杠杆资金流出")
	}

	switch in.Breadth {
	case model.SentimentBullish, model.SentimentVeryBullish:
		score += weightBreadth
		notes = append(notes, "市场广度强")
	case model.SentimentBearish, model.SentimentVeryBearish:
		score -= weightBreadth
		notes = append(notes, "市场广度弱")
	}

	switch in.EquityBond {
	case model.SentimentBullish, model.SentimentVeryBullish:
		score += weightEquityBond
		notes = append(notes, "股债性价比高")
	case model.SentimentBearish, model.SentimentVeryBearish:
		score -= weightEquityBond
		notes = append(notes, "股债性价比低")
	}

	switch in.VIX {
	case model.SentimentBullish, model.SentimentVeryBullish:
		score += weightVIX
	case model.SentimentBearish, model.SentimentVeryBearish:
		score -= weightVIX
		notes = append(notes, "VIX偏高")
	}

	switch in.USD {
	case model.SentimentBullish, model.SentimentVeryBullish:
		score += weightUSD
	case model.SentimentBearish, model.SentimentVeryBearish:
		score -= weightUSD
		notes = append(notes, "汇率承压")
	}

	var signal model.SentimentSignal
	switch {
	case score >= 40:
		signal = model.SentimentVeryBullish
	case score >= 20:
		signal = model.SentimentBullish
	case score > -20:
		signal = model.SentimentNeutral
	case score > -40:
		signal = model.SentimentBearish
	default:
		signal = model.SentimentVeryBearish
	}

	description := "市场情绪中性"
	if len(notes) > 0 {
		description = strings.Join(notes, "，")
	}
	return &model.SentimentSummary{
		Score:       score,
		Signal:      signal,
		Description: description,
	}
}
