package model

// CalcMethod records which valuation path produced a result.
type CalcMethod string

const (
	CalcByNav   CalcMethod = "nav"
	CalcByIndex CalcMethod = "index"
)

// CalcDetail is the per-transaction trace of a valuation. Fields that do
// not apply to the chosen method stay zero; Note explains any breakeven
// passthrough.
type CalcDetail struct {
	OrderTime      string  `json:"order_time"`
	ConfirmDate    string  `json:"confirm_date,omitempty"`
	Amount         float64 `json:"amount"`
	Nav            float64 `json:"nav,omitempty"`
	Shares         float64 `json:"shares,omitempty"`
	IndexBuy       float64 `json:"index_buy,omitempty"`
	IndexToday     float64 `json:"index_today,omitempty"`
	IndexChangePct float64 `json:"index_change_pct,omitempty"`
	FundChangePct  float64 `json:"fund_change_pct,omitempty"`
	MarketValue    float64 `json:"market_value,omitempty"`
	Note           string  `json:"note,omitempty"`
}

// ValuationResult is one fund position valued at "now". Recomputed from
// scratch every run, never persisted.
type ValuationResult struct {
	Name          string     `json:"name"`
	Code          string     `json:"code"`
	TotalInvested float64    `json:"total_invested"`
	CalcMethod    CalcMethod `json:"calc_method"`

	CurrentNav   float64  `json:"current_nav,omitempty"`
	NavDate      string   `json:"nav_date,omitempty"`
	DayChangePct *float64 `json:"day_change_pct,omitempty"`

	TotalShares       float64 `json:"total_shares,omitempty"`
	AvgCost           float64 `json:"avg_cost,omitempty"`
	MarketValue       float64 `json:"market_value"`
	Profit            float64 `json:"profit"`
	ProfitPct         float64 `json:"profit_pct"`
	UnconfirmedAmount float64 `json:"unconfirmed_amount,omitempty"`

	TrackingIndex string  `json:"tracking_index,omitempty"`
	TrackingRatio float64 `json:"tracking_ratio,omitempty"`
	IndexToday    float64 `json:"index_today,omitempty"`

	TodayEstimatedPct    *float64 `json:"today_estimated_pct,omitempty"`
	TodayEstimatedProfit *float64 `json:"today_estimated_profit,omitempty"`

	Note    string       `json:"note,omitempty"`
	Details []CalcDetail `json:"calc_details,omitempty"`
}

// ValuationSummary totals a whole portfolio valuation.
type ValuationSummary struct {
	TotalInvested        float64  `json:"total_invested"`
	TotalMarketValue     float64  `json:"total_market_value"`
	TotalProfit          float64  `json:"total_profit"`
	TotalProfitPct       float64  `json:"total_profit_pct"`
	FundCount            int      `json:"fund_count"`
	TodayEstimatedProfit *float64 `json:"today_estimated_profit,omitempty"`
	TodayEstimatedPct    *float64 `json:"today_estimated_pct,omitempty"`
}

// PortfolioValuation is the full valuation output of one run, funds
// sorted by market value descending.
type PortfolioValuation struct {
	Funds     []*ValuationResult `json:"funds"`
	Summary   ValuationSummary   `json:"summary"`
	UpdatedAt string             `json:"updated_at"`
}

// ValuationLevel classifies an index's PE/PB percentile.
type ValuationLevel string

const (
	ValuationUnder   ValuationLevel = "undervalued"
	ValuationFair    ValuationLevel = "fair"
	ValuationOver    ValuationLevel = "overvalued"
	ValuationUnknown ValuationLevel = "unknown"
)

// IndexValuation is the percentile analysis of one index against its
// trailing multi-year PE/PB history.
type IndexValuation struct {
	Code         string         `json:"code"`
	Name         string         `json:"name"`
	PE           *float64       `json:"pe,omitempty"`
	PB           *float64       `json:"pb,omitempty"`
	PEPercentile *float64       `json:"pe_percentile,omitempty"`
	PBPercentile *float64       `json:"pb_percentile,omitempty"`
	Percentile   *float64       `json:"percentile,omitempty"` // composite
	Level        ValuationLevel `json:"level"`
}
