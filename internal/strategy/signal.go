package strategy

import (
	"fmt"

	"FundRadar/internal/model"
)

// SignalInput carries everything the additive scoring consumes. Nil
// pointers mean the indicator could not be computed and its rules are
// skipped.
type SignalInput struct {
	Price         float64
	MAs           model.MovingAverages
	MA20Slope     *float64
	DaysBelowMA10 int
	RSI           *float64
	VolumeRatio   *float64 // percent, 100 = flat vs trailing 5d average
	BreadthRatio  *float64 // advancers / decliners, A-share only
}

// EvaluateSmartSignal runs the deterministic point system. Every
// triggered rule appends a reason so the report can show why a score
// moved. The bull-pullback adjustment may push SellScore negative.
func EvaluateSmartSignal(in SignalInput) *model.SmartSignal {
	s := &model.SmartSignal{}
	buy := func(points int, reason string) {
		s.BuyScore += points
		s.Reasons = append(s.Reasons, reason)
	}
	sell := func(points int, reason string) {
		s.SellScore += points
		s.Reasons = append(s.Reasons, reason)
	}

	price := in.Price
	belowMA10 := false

	if ma10 := in.MAs.MA10; ma10 != nil && *ma10 > 0 {
		dist := (price - *ma10) / *ma10 * 100
		belowMA10 = price < *ma10
		switch {
		case dist < -2:
			sell(3, fmt.Sprintf("跌破MA10超过2%%（距离%.2f%%）", dist))
		case dist < -1:
			sell(2, fmt.Sprintf("跌破MA10达1-2%%（距离%.2f%%）", dist))
		case dist < 0:
			sell(1, fmt.Sprintf("小幅跌破MA10（距离%.2f%%）", dist))
		case dist > 3:
			sell(1, fmt.Sprintf("高于MA10超过3%%，短期超涨（距离%.2f%%）", dist))
		}
	}

	if ma20 := in.MAs.MA20; ma20 != nil && *ma20 > 0 {
		dist := (price - *ma20) / *ma20 * 100
		if price > *ma20 {
			buy(2, "站上MA20，中期趋势向好")
		} else if dist < -2 {
			sell(2, fmt.Sprintf("跌破MA20超过2%%（距离%.2f%%）", dist))
		}
	}

	if ma60 := in.MAs.MA60; ma60 != nil && *ma60 > 0 {
		if price > *ma60 {
			buy(1, "站上MA60，长期趋势未破")
		} else {
			sell(1, "跌破MA60，长期趋势转弱")
		}
	}

	if slope := in.MA20Slope; slope != nil {
		switch {
		case *slope > 0.5:
			buy(2, fmt.Sprintf("MA20斜率%.2f%%，上升明显", *slope))
		case *slope >= 0:
			buy(1, fmt.Sprintf("MA20斜率%.2f%%，缓慢走平向上", *slope))
		case *slope < -0.5:
			sell(2, fmt.Sprintf("MA20斜率%.2f%%，下降明显", *slope))
		default:
			sell(1, fmt.Sprintf("MA20斜率%.2f%%，开始走弱", *slope))
		}
	}

	switch {
	case in.DaysBelowMA10 >= 3:
		sell(2, fmt.Sprintf("连续%d日收于MA10下方", in.DaysBelowMA10))
	case in.DaysBelowMA10 == 2:
		sell(1, "连续2日收于MA10下方")
	}

	if belowMA10 && in.VolumeRatio != nil {
		if *in.VolumeRatio > 120 {
			sell(2, fmt.Sprintf("放量下跌（量比%.0f%%），破位确认", *in.VolumeRatio))
		} else if *in.VolumeRatio < 80 {
			buy(1, fmt.Sprintf("缩量回调（量比%.0f%%），抛压有限", *in.VolumeRatio))
		}
	}

	if rsi := in.RSI; rsi != nil {
		switch {
		case *rsi > 80:
			sell(2, fmt.Sprintf("RSI=%.1f，严重超买", *rsi))
		case *rsi >= 70:
			sell(1, fmt.Sprintf("RSI=%.1f，超买", *rsi))
		case *rsi < 20:
			buy(2, fmt.Sprintf("RSI=%.1f，严重超卖", *rsi))
		case *rsi < 30:
			buy(1, fmt.Sprintf("RSI=%.1f，超卖", *rsi))
		case *rsi >= 40 && *rsi <= 60 && belowMA10:
			buy(1, fmt.Sprintf("RSI=%.1f，回调中企稳", *rsi))
		}
	}

	if ratio := in.BreadthRatio; ratio != nil {
		if *ratio > 1.2 {
			buy(1, fmt.Sprintf("市场广度偏强（涨跌比%.2f）", *ratio))
		} else if *ratio < 0.8 {
			sell(1, fmt.Sprintf("市场广度偏弱（涨跌比%.2f）", *ratio))
		}
	}

	// Bull pullback: below MA10 but still above a rising MA20 reads as
	// a dip inside an uptrend, not a breakdown.
	if belowMA10 && in.MAs.MA20 != nil && price > *in.MAs.MA20 &&
		in.MA20Slope != nil && *in.MA20Slope > 0 {
		s.BuyScore += 2
		s.SellScore -= 1
		s.Reasons = append(s.Reasons, "上升趋势中的回调，MA20仍向上")
	}

	s.NetScore = s.BuyScore - s.SellScore
	switch {
	case s.NetScore >= 4:
		s.Action = model.ActionBuy
	case s.NetScore >= 2:
		s.Action = model.ActionHold
	case s.NetScore >= 0:
		s.Action = model.ActionWatch
	case s.NetScore >= -2:
		s.Action = model.ActionReduce
	default:
		s.Action = model.ActionSell
	}
	s.Confidence = clamp(abs(s.NetScore), 1, 5)
	return s
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

func clamp(n, lo, hi int) int {
	if n < lo {
		return lo
	}
	if n > hi {
		return hi
	}
	return n
}
