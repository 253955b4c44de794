package model

// FundRisk holds drawdown and volatility figures for one fund over the
// analysis window. Note is set (and the numeric fields nil) when the NAV
// history is too short for a meaningful statistic.
type FundRisk struct {
	Code           string   `json:"code"`
	Name           string   `json:"name"`
	MaxDrawdown    *float64 `json:"max_drawdown,omitempty"` // percent, negative
	Volatility     *float64 `json:"volatility,omitempty"`   // annualized percent
	DrawdownPeriod string   `json:"drawdown_period,omitempty"`
	Note           string   `json:"note,omitempty"`
}

// RiskSummary aggregates fund risk across the portfolio.
type RiskSummary struct {
	AvgDrawdown     *float64 `json:"avg_drawdown,omitempty"` // mean |drawdown|, percent
	AvgVolatility   *float64 `json:"avg_volatility,omitempty"`
	MaxDrawdownFund string   `json:"max_drawdown_fund,omitempty"`
	MaxDrawdown     float64  `json:"max_drawdown,omitempty"`
}

// PortfolioRisk is the full risk report for one run.
type PortfolioRisk struct {
	Funds   []FundRisk  `json:"funds"`
	Summary RiskSummary `json:"summary"`
}
