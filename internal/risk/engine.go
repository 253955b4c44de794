package risk

import (
	"fmt"
	"log"
	"math"
	"sort"

	"FundRadar/internal/calculator"
	"FundRadar/internal/collector"
	"FundRadar/internal/model"
)

// Engine computes drawdown and volatility per fund over a trailing
// window of NAV history.
type Engine struct {
	Cache *collector.HistoryCache
	Days  int
}

func NewEngine(cache *collector.HistoryCache, days int) *Engine {
	if days <= 0 {
		days = 30
	}
	return &Engine{Cache: cache, Days: days}
}

// AnalyzeFund reports a fund's risk over the trailing window. Fewer
// points than half the window yields an "insufficient data" note
// instead of a misleading statistic.
func (e *Engine) AnalyzeFund(code, name string) model.FundRisk {
	result := model.FundRisk{Code: code, Name: name}
	if code == "" {
		result.Note = "缺少基金代码"
		return result
	}

	// Over-fetch by a month so the calendar window still yields enough
	// trading days.
	history := e.Cache.FundNavHistory(code, e.Days+30)
	if len(history) > e.Days {
		history = history[len(history)-e.Days:]
	}
	if len(history) < e.Days/2 {
		result.Note = fmt.Sprintf("净值数据不足（%d/%d天）", len(history), e.Days)
		return result
	}

	if dd, err := calculator.MaxDrawdown(history); err == nil {
		v := dd.MaxDrawdown
		result.MaxDrawdown = &v
		if v < 0 {
			result.DrawdownPeriod = fmt.Sprintf("%s ~ %s",
				dd.PeakDate.Format("01/02"), dd.TroughDate.Format("01/02"))
		}
	} else {
		log.Printf("[WARN] %s 回撤计算失败: %v", code, err)
	}

	returns := calculator.DailyReturns(model.Closes(history))
	if vol, err := calculator.Volatility(returns, true); err == nil {
		result.Volatility = &vol
	} else {
		log.Printf("[WARN] %s 波动率计算失败: %v", code, err)
	}
	return result
}

// AnalyzePortfolio runs the per-fund analysis and aggregates: average
// absolute drawdown, average volatility, and the single worst fund.
func (e *Engine) AnalyzePortfolio(p *model.Portfolio) *model.PortfolioRisk {
	out := &model.PortfolioRisk{}

	var ddSum, volSum float64
	var ddCount, volCount int
	worst := 0.0

	names := make([]string, 0, len(p.Funds))
	for name := range p.Funds {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		pos := p.Funds[name]
		fr := e.AnalyzeFund(pos.Code, pos.Name)
		out.Funds = append(out.Funds, fr)

		if fr.MaxDrawdown != nil {
			ddSum += math.Abs(*fr.MaxDrawdown)
			ddCount++
			if *fr.MaxDrawdown < worst {
				worst = *fr.MaxDrawdown
				out.Summary.MaxDrawdownFund = fr.Name
				out.Summary.MaxDrawdown = worst
			}
		}
		if fr.Volatility != nil {
			volSum += *fr.Volatility
			volCount++
		}
	}

	if ddCount > 0 {
		avg := ddSum / float64(ddCount)
		out.Summary.AvgDrawdown = &avg
	}
	if volCount > 0 {
		avg := volSum / float64(volCount)
		out.Summary.AvgVolatility = &avg
	}
	return out
}
