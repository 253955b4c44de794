package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"FundRadar/internal/model"
)

// Data bundles everything one daily report covers. Nil sections are
// simply omitted.
type Data struct {
	Date            time.Time
	Quotes          []*model.IndexQuote
	Valuation       *model.PortfolioValuation
	Trends          []*model.TrendSnapshot
	IndexValuations []*model.IndexValuation
	Risk            *model.PortfolioRisk
	Recommendations []*model.Recommendation
	Sentiment       *model.SentimentSummary
	Breadth         *model.BreadthSignal
}

func formatChange(v *float64) string {
	if v == nil {
		return "N/A"
	}
	return fmt.Sprintf("%+.2f%%", *v)
}

func formatChangeVal(v float64) string {
	return fmt.Sprintf("%+.2f%%", v)
}

// formatAmount renders a raw CNY turnover in 亿 or 万亿.
func formatAmount(v float64) string {
	if v == 0 {
		return "-"
	}
	yi := v / 1e8
	if yi >= 10000 || yi <= -10000 {
		return fmt.Sprintf("%.2f万亿", yi/10000)
	}
	return fmt.Sprintf("%.2f亿", yi)
}

func formatYuan(v float64) string {
	return "¥" + humanize.CommafWithDigits(v, 2)
}

var actionCN = map[model.RecAction]string{
	model.RecStrongBuy:     "积极买入",
	model.RecBuyDip:        "逢低买入",
	model.RecAccumulate:    "分批积累",
	model.RecSmallPosition: "轻仓参与",
	model.RecHold:          "持有",
	model.RecWait:          "观望",
	model.RecTrim:          "适度减仓",
	model.RecReduce:        "减仓",
	model.RecTakeProfit:    "分批止盈",
}

var signalActionCN = map[model.SignalAction]string{
	model.ActionBuy:    "买入",
	model.ActionHold:   "持有",
	model.ActionWatch:  "观望",
	model.ActionReduce: "减仓",
	model.ActionSell:   "卖出",
}

var sentimentCN = map[model.SentimentSignal]string{
	model.SentimentVeryBullish: "非常乐观",
	model.SentimentBullish:     "偏乐观",
	model.SentimentNeutral:     "中性",
	model.SentimentBearish:     "偏悲观",
	model.SentimentVeryBearish: "非常悲观",
}

var levelCN = map[model.ValuationLevel]string{
	model.ValuationUnder:   "低估",
	model.ValuationFair:    "合理",
	model.ValuationOver:    "高估",
	model.ValuationUnknown: "未知",
}

// Render builds the full Markdown report.
func Render(d *Data) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# 基金投资日报 %s\n\n", d.Date.Format("2006-01-02"))

	writeMarketSection(&b, d.Quotes)
	writeValuationSection(&b, d.Valuation)
	writeTrendSection(&b, d.Trends)
	writeIndexValuationSection(&b, d.IndexValuations)
	writeRiskSection(&b, d.Risk)
	writeRecommendationSection(&b, d.Recommendations)
	writeSentimentSection(&b, d.Sentiment, d.Breadth)

	return b.String()
}

func writeMarketSection(b *strings.Builder, quotes []*model.IndexQuote) {
	if len(quotes) == 0 {
		return
	}
	b.WriteString("## 市场指数\n\n")

	var aShare, us []*model.IndexQuote
	for _, q := range quotes {
		if q.Market == model.MarketUS {
			us = append(us, q)
		} else {
			aShare = append(aShare, q)
		}
	}

	if len(aShare) > 0 {
		b.WriteString("### A股指数\n\n")
		b.WriteString("| 指数 | 点位 | 涨跌幅 | 成交额 |\n")
		b.WriteString("|------|------|--------|--------|\n")
		for _, q := range aShare {
			fmt.Fprintf(b, "| %s | %.2f | %s | %s |\n",
				q.Name, q.Price, formatChangeVal(q.ChangePct), formatAmount(q.Amount))
		}
		b.WriteString("\n")
	}
	if len(us) > 0 {
		b.WriteString("### 美股指数\n\n")
		b.WriteString("| 指数 | 点位 | 涨跌幅 |\n")
		b.WriteString("|------|------|--------|\n")
		for _, q := range us {
			fmt.Fprintf(b, "| %s | %.2f | %s |\n", q.Name, q.Price, formatChangeVal(q.ChangePct))
		}
		b.WriteString("\n")
	}
}

func writeValuationSection(b *strings.Builder, v *model.PortfolioValuation) {
	if v == nil || len(v.Funds) == 0 {
		return
	}
	b.WriteString("## 持仓估值\n\n")
	fmt.Fprintf(b, "- 总投入: %s\n", formatYuan(v.Summary.TotalInvested))
	fmt.Fprintf(b, "- 估算市值: **%s**\n", formatYuan(v.Summary.TotalMarketValue))
	fmt.Fprintf(b, "- 浮动盈亏: **%s** (%s)\n",
		formatYuan(v.Summary.TotalProfit), formatChangeVal(v.Summary.TotalProfitPct))
	if v.Summary.TodayEstimatedProfit != nil {
		fmt.Fprintf(b, "- 今日估算: %s (%s)\n",
			formatYuan(*v.Summary.TodayEstimatedProfit), formatChange(v.Summary.TodayEstimatedPct))
	}
	b.WriteString("\n| 基金 | 方式 | 市值 | 盈亏 | 今日估算 |\n")
	b.WriteString("|------|------|------|------|----------|\n")
	for _, f := range v.Funds {
		method := "净值"
		if f.CalcMethod == model.CalcByIndex {
			method = "指数"
		}
		fmt.Fprintf(b, "| %s | %s | %s | %s | %s |\n",
			f.Name, method, formatYuan(f.MarketValue),
			formatChangeVal(f.ProfitPct), formatChange(f.TodayEstimatedPct))
	}
	b.WriteString("\n")
}

func writeTrendSection(b *strings.Builder, trends []*model.TrendSnapshot) {
	if len(trends) == 0 {
		return
	}
	b.WriteString("## 趋势信号\n\n")
	b.WriteString("| 指数 | 5日 | 20日 | RSI | 信号 | 净分 |\n")
	b.WriteString("|------|-----|------|-----|------|------|\n")
	for _, t := range trends {
		if t.Err != "" {
			fmt.Fprintf(b, "| %s | - | - | - | %s | - |\n", t.Name, t.Err)
			continue
		}
		rsi := "N/A"
		if t.RSI != nil {
			rsi = fmt.Sprintf("%.1f", *t.RSI)
		}
		signal, net := "-", "-"
		if t.Signal != nil {
			signal = signalActionCN[t.Signal.Action]
			net = fmt.Sprintf("%+d", t.Signal.NetScore)
		}
		fmt.Fprintf(b, "| %s | %s | %s | %s | %s | %s |\n",
			t.Name, formatChange(t.Changes.D5), formatChange(t.Changes.D20), rsi, signal, net)
	}
	b.WriteString("\n")
	for _, t := range trends {
		if t.Signal == nil || len(t.Signal.Reasons) == 0 {
			continue
		}
		fmt.Fprintf(b, "**%s**: %s\n\n", t.Name, strings.Join(t.Signal.Reasons, "；"))
	}
}

func writeIndexValuationSection(b *strings.Builder, vals []*model.IndexValuation) {
	if len(vals) == 0 {
		return
	}
	b.WriteString("## 估值百分位\n\n")
	b.WriteString("| 指数 | PE | PE分位 | PB | PB分位 | 综合 | 水位 |\n")
	b.WriteString("|------|----|--------|----|--------|------|------|\n")
	for _, v := range vals {
		fmt.Fprintf(b, "| %s | %s | %s | %s | %s | %s | %s |\n",
			v.Name, numOrNA(v.PE), pctOrNA(v.PEPercentile),
			numOrNA(v.PB), pctOrNA(v.PBPercentile),
			pctOrNA(v.Percentile), levelCN[v.Level])
	}
	b.WriteString("\n")
}

func writeRiskSection(b *strings.Builder, r *model.PortfolioRisk) {
	if r == nil || len(r.Funds) == 0 {
		return
	}
	b.WriteString("## 持仓风险\n\n")
	if r.Summary.AvgDrawdown != nil {
		fmt.Fprintf(b, "- 平均最大回撤: %.2f%%\n", *r.Summary.AvgDrawdown)
	}
	if r.Summary.AvgVolatility != nil {
		fmt.Fprintf(b, "- 平均年化波动率: %.2f%%\n", *r.Summary.AvgVolatility)
	}
	if r.Summary.MaxDrawdownFund != "" {
		fmt.Fprintf(b, "- 回撤最大: %s (%.2f%%)\n", r.Summary.MaxDrawdownFund, r.Summary.MaxDrawdown)
	}
	b.WriteString("\n| 基金 | 最大回撤 | 回撤区间 | 年化波动率 |\n")
	b.WriteString("|------|----------|----------|------------|\n")
	for _, f := range r.Funds {
		if f.Note != "" {
			fmt.Fprintf(b, "| %s | - | %s | - |\n", f.Name, f.Note)
			continue
		}
		fmt.Fprintf(b, "| %s | %s | %s | %s |\n",
			f.Name, pctOrNA(f.MaxDrawdown), orDash(f.DrawdownPeriod), pctOrNA(f.Volatility))
	}
	b.WriteString("\n")
}

func writeRecommendationSection(b *strings.Builder, recs []*model.Recommendation) {
	if len(recs) == 0 {
		return
	}
	b.WriteString("## 操作建议\n\n")
	for _, r := range recs {
		fmt.Fprintf(b, "### %s: %s（信心 %d/5）\n\n", r.IndexName, actionCN[r.Action], r.Confidence)
		fmt.Fprintf(b, "%s\n\n", r.Context)
		for _, reason := range r.Reasoning {
			fmt.Fprintf(b, "- %s\n", reason)
		}
		for _, warning := range r.RiskWarnings {
			fmt.Fprintf(b, "- ⚠ %s\n", warning)
		}
		if r.PositionAdvice != "" {
			fmt.Fprintf(b, "\n仓位建议: %s\n", r.PositionAdvice)
		}
		b.WriteString("\n")
	}
}

func writeSentimentSection(b *strings.Builder, s *model.SentimentSummary, breadth *model.BreadthSignal) {
	if s == nil && breadth == nil {
		return
	}
	b.WriteString("## 市场情绪\n\n")
	if s != nil {
		fmt.Fprintf(b, "- 综合评分: **%d** (%s)\n", s.Score, sentimentCN[s.Signal])
		fmt.Fprintf(b, "- %s\n", s.Description)
	}
	if breadth != nil {
		fmt.Fprintf(b, "- 涨跌家数: %d涨 / %d跌（涨停%d，跌停%d）\n",
			breadth.Stats.RiseCount, breadth.Stats.FallCount,
			breadth.Stats.LimitUp, breadth.Stats.LimitDown)
		fmt.Fprintf(b, "- 广度信号: %s（%s）\n", sentimentCN[breadth.Signal], breadth.Description)
	}
	b.WriteString("\n")
}

func numOrNA(v *float64) string {
	if v == nil {
		return "N/A"
	}
	return fmt.Sprintf("%.2f", *v)
}

func pctOrNA(v *float64) string {
	if v == nil {
		return "N/A"
	}
	return fmt.Sprintf("%.1f%%", *v)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// Write renders the report and saves it under dir as
// report_YYYY-MM-DD.md, returning the file path.
func Write(dir string, d *Data) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create report dir: %w", err)
	}
	path := filepath.Join(dir, fmt.Sprintf("report_%s.md", d.Date.Format("2006-01-02")))
	if err := os.WriteFile(path, []byte(Render(d)), 0644); err != nil {
		return "", fmt.Errorf("write report: %w", err)
	}
	return path, nil
}
