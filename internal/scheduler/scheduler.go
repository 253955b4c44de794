package scheduler

import (
	"fmt"
	"log"
	"time"

	"FundRadar/internal/collector"
	"FundRadar/internal/config"
	"FundRadar/internal/model"
	"FundRadar/internal/portfolio"
	"FundRadar/internal/recorder"
	"FundRadar/internal/report"
	"FundRadar/internal/risk"
	"FundRadar/internal/sentiment"
	"FundRadar/internal/strategy"
	"FundRadar/internal/valuation"

	"github.com/robfig/cron/v3"
)

// Scheduler manages the daily analysis cron task.
type Scheduler struct {
	Cron     *cron.Cron
	Cfg      *config.Config
	Fetcher  collector.Fetcher
	Recorder recorder.Recorder
}

// NewScheduler creates a new Scheduler.
func NewScheduler(cfg *config.Config, fetcher collector.Fetcher, rec recorder.Recorder) *Scheduler {
	return &Scheduler{
		Cron:     cron.New(cron.WithSeconds()),
		Cfg:      cfg,
		Fetcher:  fetcher,
		Recorder: rec,
	}
}

// Register registers the daily analysis task.
func (s *Scheduler) Register() error {
	if _, err := s.Cron.AddFunc(s.Cfg.Schedule.DailyCron, s.runDaily); err != nil {
		return fmt.Errorf("register daily task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Println("[INFO] scheduler started")
}

// Stop stops the cron scheduler gracefully.
func (s *Scheduler) Stop() {
	s.Cron.Stop()
	log.Println("[INFO] scheduler stopped")
}

// RunNow executes the daily task immediately (for manual trigger / RUN_ON_START).
func (s *Scheduler) RunNow() {
	s.runDaily()
}

func (s *Scheduler) runDaily() {
	log.Println("[INFO] running daily analysis")
	cache := collector.NewHistoryCache(s.Fetcher)

	quotes := s.fetchQuotes()

	port, err := portfolio.Load(s.Cfg.Portfolio.File)
	if err != nil {
		log.Printf("[ERROR] load portfolio: %v", err)
		return
	}

	breadthSig, breadthRatio := s.breadth()

	analyzer := strategy.NewAnalyzer(cache, s.Cfg.History.TrendDays)
	trends := analyzer.AnalyzeAll(quotes, breadthRatio)

	valEngine := valuation.NewEngine(s.Fetcher, cache, s.Cfg.FundIndexMapping, s.Cfg.History.NavDays)
	portVal := valEngine.ValuatePortfolio(port, quotes)

	var indexVals []*model.IndexValuation
	for _, code := range s.Cfg.ValuationIndices {
		indexVals = append(indexVals, valuation.AnalyzeIndexValuation(cache, code, s.indexName(code)))
	}

	riskEngine := risk.NewEngine(cache, s.Cfg.History.RiskDays)
	portRisk := riskEngine.AnalyzePortfolio(port)

	summary := s.sentimentSummary(breadthSig)
	var sentimentScore *int
	if summary != nil {
		sentimentScore = &summary.Score
	}

	indexWeights := s.indexWeights(port)
	var recs []*model.Recommendation
	for _, snap := range trends {
		if snap.Err != "" {
			continue
		}
		recs = append(recs, strategy.Recommend(snap, findIndexValuation(indexVals, snap.Code), indexWeights[snap.Code], sentimentScore))
	}

	data := &report.Data{
		Date:            time.Now(),
		Quotes:          quotes,
		Valuation:       portVal,
		Trends:          trends,
		IndexValuations: indexVals,
		Risk:            portRisk,
		Recommendations: recs,
		Sentiment:       summary,
		Breadth:         breadthSig,
	}
	path, err := report.Write(s.Cfg.Report.OutputDir, data)
	if err != nil {
		log.Printf("[ERROR] write report: %v", err)
	} else {
		log.Printf("[INFO] report written: %s", path)
	}

	if err := s.Recorder.RecordRun(&recorder.RunSnapshot{
		Valuation:       portVal,
		Trends:          trends,
		Recommendations: recs,
		Risk:            portRisk,
		Sentiment:       summary,
		ReportPath:      path,
	}); err != nil {
		log.Printf("[ERROR] record run: %v", err)
	}
}

// fetchQuotes pulls live snapshots for every configured index. A failed
// index is logged and skipped so one dead feed does not abort the run.
func (s *Scheduler) fetchQuotes() []*model.IndexQuote {
	var quotes []*model.IndexQuote
	for _, ref := range s.Cfg.Indices.AShare {
		q, err := s.Fetcher.FetchIndexQuote(ref.Code, ref.Name, model.MarketAShare)
		if err != nil {
			log.Printf("[WARN] fetch quote %s: %v", ref.Code, err)
			continue
		}
		quotes = append(quotes, q)
	}
	for _, ref := range s.Cfg.Indices.US {
		q, err := s.Fetcher.FetchIndexQuote(ref.Code, ref.Name, model.MarketUS)
		if err != nil {
			log.Printf("[WARN] fetch quote %s: %v", ref.Code, err)
			continue
		}
		quotes = append(quotes, q)
	}
	return quotes
}

func (s *Scheduler) breadth() (*model.BreadthSignal, *float64) {
	in := s.Cfg.Sentiment.Breadth
	if in == nil {
		return nil, nil
	}
	stats := in.Stats()
	sig := sentiment.AnalyzeBreadth(stats)
	var ratio *float64
	if stats.RiseRatio > 0 {
		r := stats.RiseRatio
		ratio = &r
	}
	return sig, ratio
}

// sentimentSummary builds the composite score from configured indicator
// signals. With no inputs at all the section is omitted entirely.
func (s *Scheduler) sentimentSummary(breadthSig *model.BreadthSignal) *model.SentimentSummary {
	in := sentiment.Inputs{
		Margin:     s.Cfg.Sentiment.Margin,
		EquityBond: s.Cfg.Sentiment.EquityBond,
		VIX:        s.Cfg.Sentiment.VIX,
		USD:        s.Cfg.Sentiment.USD,
	}
	if breadthSig != nil {
		in.Breadth = breadthSig.Signal
	}
	if in.Margin == "" && in.EquityBond == "" && in.VIX == "" && in.USD == "" && breadthSig == nil {
		return nil
	}
	return sentiment.Summarize(in)
}

// indexWeights sums each fund's portfolio weight onto its tracked index,
// so a recommendation sees the true exposure behind that index.
func (s *Scheduler) indexWeights(port *model.Portfolio) map[string]float64 {
	weights := portfolio.Weights(port)
	out := make(map[string]float64)
	for name, pos := range port.Funds {
		m, ok := s.Cfg.FundIndexMapping[pos.Code]
		if !ok {
			continue
		}
		out[m.IndexCode] += weights[name]
	}
	return out
}

func (s *Scheduler) indexName(code string) string {
	for _, ref := range s.Cfg.Indices.AShare {
		if ref.Code == code {
			return ref.Name
		}
	}
	for _, ref := range s.Cfg.Indices.US {
		if ref.Code == code {
			return ref.Name
		}
	}
	return code
}

func findIndexValuation(vals []*model.IndexValuation, code string) *model.IndexValuation {
	for _, v := range vals {
		if v.Code == code {
			return v
		}
	}
	return nil
}
