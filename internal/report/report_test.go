package report

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"FundRadar/internal/model"
)

func f(v float64) *float64 { return &v }

func sampleData() *Data {
	profit := 125.5
	pct := 1.2
	return &Data{
		Date: time.Date(2024, 3, 15, 18, 0, 0, 0, time.UTC),
		Quotes: []*model.IndexQuote{
			{Name: "上证指数", Code: "000001", Market: model.MarketAShare, Price: 3050.12, ChangePct: 0.85, Amount: 4.2e11},
			{Name: "标普500", Code: "^GSPC", Market: model.MarketUS, Price: 5123.4, ChangePct: -0.3},
		},
		Valuation: &model.PortfolioValuation{
			Funds: []*model.ValuationResult{
				{Name: "易方达沪深300ETF联接C", CalcMethod: model.CalcByNav, MarketValue: 10500, ProfitPct: 5.0},
			},
			Summary: model.ValuationSummary{
				TotalInvested:        10000,
				TotalMarketValue:     10500,
				TotalProfit:          500,
				TotalProfitPct:       5.0,
				TodayEstimatedProfit: &profit,
				TodayEstimatedPct:    &pct,
			},
		},
		Trends: []*model.TrendSnapshot{
			{
				Name:    "沪深300",
				Changes: model.PeriodChanges{D5: f(1.5), D20: f(-2.1)},
				RSI:     f(55.5),
				Signal: &model.SmartSignal{
					Action: model.ActionHold, NetScore: 3,
					Reasons: []string{"站上MA20，中期趋势向好"},
				},
			},
			{Name: "创业板指", Err: "无法获取历史数据"},
		},
		IndexValuations: []*model.IndexValuation{
			{Name: "沪深300", PE: f(12.3), PEPercentile: f(25), Percentile: f(25), Level: model.ValuationUnder},
		},
		Risk: &model.PortfolioRisk{
			Funds: []model.FundRisk{
				{Name: "激进", MaxDrawdown: f(-12.5), Volatility: f(22.1), DrawdownPeriod: "01/05 ~ 01/20"},
				{Name: "新基金", Note: "净值数据不足（5/30天）"},
			},
			Summary: model.RiskSummary{
				AvgDrawdown: f(12.5), AvgVolatility: f(22.1),
				MaxDrawdownFund: "激进", MaxDrawdown: -12.5,
			},
		},
		Recommendations: []*model.Recommendation{
			{
				IndexName: "沪深300", Action: model.RecStrongBuy, Confidence: 4,
				Context:        "趋势强（净分4），估值低位，仓位轻仓（5.0%）",
				Reasoning:      []string{"趋势强劲且估值处于低位"},
				PositionAdvice: "可分2-3批建仓",
			},
		},
		Sentiment: &model.SentimentSummary{Score: 35, Signal: model.SentimentBullish, Description: "市场广度强"},
		Breadth: &model.BreadthSignal{
			Stats:  model.BreadthStats{RiseCount: 3200, FallCount: 1500, LimitUp: 45, LimitDown: 3},
			Signal: model.SentimentBullish, Description: "上涨家数占优",
		},
	}
}

func TestRenderSections(t *testing.T) {
	md := Render(sampleData())

	for _, want := range []string{
		"# 基金投资日报 2024-03-15",
		"## 市场指数",
		"| 上证指数 | 3050.12 | +0.85% | 4200.00亿 |",
		"| 标普500 | 5123.40 | -0.30% |",
		"## 持仓估值",
		"¥10,500",
		"+5.00%",
		"## 趋势信号",
		"| 创业板指 | - | - | - | 无法获取历史数据 | - |",
		"站上MA20，中期趋势向好",
		"## 估值百分位",
		"| 沪深300 | 12.30 | 25.0% | N/A | N/A | 25.0% | 低估 |",
		"## 持仓风险",
		"01/05 ~ 01/20",
		"净值数据不足（5/30天）",
		"## 操作建议",
		"积极买入（信心 4/5）",
		"## 市场情绪",
		"综合评分: **35**",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("report missing %q", want)
		}
	}
}

func TestRenderOmitsEmptySections(t *testing.T) {
	md := Render(&Data{Date: time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)})
	for _, section := range []string{"## 持仓估值", "## 趋势信号", "## 持仓风险", "## 操作建议", "## 市场情绪"} {
		if strings.Contains(md, section) {
			t.Errorf("empty report should omit %q", section)
		}
	}
}

func TestFormatAmount(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{0, "-"},
		{4.2e11, "4200.00亿"},
		{1.5e12, "1.50万亿"},
	}
	for _, tc := range cases {
		if got := formatAmount(tc.in); got != tc.want {
			t.Errorf("formatAmount(%v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestWrite(t *testing.T) {
	dir := t.TempDir()
	path, err := Write(dir, sampleData())
	if err != nil {
		t.Fatalf("write: %v", err)
	}
	if filepath.Base(path) != "report_2024-03-15.md" {
		t.Errorf("path = %s", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if !strings.Contains(string(data), "# 基金投资日报") {
		t.Error("written file missing header")
	}
}
