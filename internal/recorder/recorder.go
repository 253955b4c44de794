package recorder

import "FundRadar/internal/model"

// RunSnapshot bundles the outputs of one daily analysis run.
type RunSnapshot struct {
	Valuation       *model.PortfolioValuation
	Trends          []*model.TrendSnapshot
	Recommendations []*model.Recommendation
	Risk            *model.PortfolioRisk
	Sentiment       *model.SentimentSummary
	ReportPath      string
}

// Recorder persists per-run history for later analysis.
type Recorder interface {
	RecordRun(snap *RunSnapshot) error
	Close() error
}
