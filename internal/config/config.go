package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"FundRadar/internal/model"
)

// IndexRef names one watched index.
type IndexRef struct {
	Code string `yaml:"code"`
	Name string `yaml:"name"`
}

// IndexMapping links a fund to the index it tracks, for estimation when
// NAV-based valuation is not possible.
type IndexMapping struct {
	IndexCode     string       `yaml:"index_code"`
	IndexName     string       `yaml:"index_name"`
	TrackingRatio float64      `yaml:"tracking_ratio"`
	Market        model.Market `yaml:"market"`
}

// Config holds all application configuration.
type Config struct {
	Indices struct {
		AShare []IndexRef `yaml:"a_share"`
		US     []IndexRef `yaml:"us_stock"`
	} `yaml:"indices"`
	// Broad A-share indices with published PE/PB series, analyzed for
	// valuation percentiles.
	ValuationIndices []string `yaml:"valuation_indices"`
	// fund code -> tracked index.
	FundIndexMapping map[string]IndexMapping `yaml:"fund_index_mapping"`
	// fund name -> fund code, for names the fund search cannot resolve.
	FundNameMapping map[string]string `yaml:"fund_name_mapping"`
	Portfolio       struct {
		File string `yaml:"file"`
	} `yaml:"portfolio"`
	Report struct {
		OutputDir string `yaml:"output_dir"`
	} `yaml:"report"`
	Schedule struct {
		DailyCron string `yaml:"daily_cron"`
	} `yaml:"schedule"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	History struct {
		TrendDays int `yaml:"trend_days"` // index history window for trend analysis
		NavDays   int `yaml:"nav_days"`   // fund NAV history window
		RiskDays  int `yaml:"risk_days"`  // risk analysis window
	} `yaml:"history"`
	// Sentiment indicator inputs. Each feed's score is supplied here
	// rather than fetched; unset entries read as neutral.
	Sentiment SentimentInputs `yaml:"sentiment"`
	Proxy     string          `yaml:"proxy"`
}

// SentimentInputs carries externally sourced indicator signals for the
// composite sentiment score, plus optional raw breadth counts.
type SentimentInputs struct {
	Margin     model.SentimentSignal `yaml:"margin"`
	EquityBond model.SentimentSignal `yaml:"equity_bond"`
	VIX        model.SentimentSignal `yaml:"vix"`
	USD        model.SentimentSignal `yaml:"usd"`
	Breadth    *BreadthInput         `yaml:"breadth"`
}

// BreadthInput is the raw advance/decline picture, entered manually or
// by a companion script.
type BreadthInput struct {
	RiseCount  int `yaml:"rise_count"`
	FallCount  int `yaml:"fall_count"`
	FlatCount  int `yaml:"flat_count"`
	LimitUp    int `yaml:"limit_up"`
	LimitDown  int `yaml:"limit_down"`
	NetHighLow int `yaml:"net_high_low"`
}

// Stats converts the input into model form, deriving the rise ratio.
func (b *BreadthInput) Stats() model.BreadthStats {
	stats := model.BreadthStats{
		RiseCount:  b.RiseCount,
		FallCount:  b.FallCount,
		FlatCount:  b.FlatCount,
		LimitUp:    b.LimitUp,
		LimitDown:  b.LimitDown,
		NetHighLow: b.NetHighLow,
	}
	if b.FallCount > 0 {
		stats.RiseRatio = float64(b.RiseCount) / float64(b.FallCount)
	}
	return stats
}

// Load reads config from a YAML file, then applies environment variable
// overrides and defaults. A missing file yields a default config.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}
	if v := os.Getenv("PORTFOLIO_FILE"); v != "" {
		cfg.Portfolio.File = v
	}
	if v := os.Getenv("REPORT_DIR"); v != "" {
		cfg.Report.OutputDir = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("CRON_DAILY"); v != "" {
		cfg.Schedule.DailyCron = v
	}

	// Defaults
	if len(cfg.Indices.AShare) == 0 {
		cfg.Indices.AShare = []IndexRef{
			{Code: "000001", Name: "上证指数"},
			{Code: "000300", Name: "沪深300"},
			{Code: "000905", Name: "中证500"},
			{Code: "399006", Name: "创业板指"},
			{Code: "000688", Name: "科创50"},
		}
	}
	if len(cfg.Indices.US) == 0 {
		cfg.Indices.US = []IndexRef{
			{Code: "^GSPC", Name: "标普500"},
			{Code: "^IXIC", Name: "纳斯达克"},
			{Code: "^NDX", Name: "纳斯达克100"},
		}
	}
	if len(cfg.ValuationIndices) == 0 {
		cfg.ValuationIndices = []string{"000300", "000905", "000688", "399006"}
	}
	if cfg.Portfolio.File == "" {
		cfg.Portfolio.File = "data/portfolio.json"
	}
	if cfg.Report.OutputDir == "" {
		cfg.Report.OutputDir = "data/reports"
	}
	if cfg.Schedule.DailyCron == "" {
		cfg.Schedule.DailyCron = "0 30 19 * * 1-5"
	}
	if cfg.Database.SQLitePath == "" {
		cfg.Database.SQLitePath = "data/fundradar.db"
	}
	if cfg.History.TrendDays == 0 {
		cfg.History.TrendDays = 90
	}
	if cfg.History.NavDays == 0 {
		cfg.History.NavDays = 60
	}
	if cfg.History.RiskDays == 0 {
		cfg.History.RiskDays = 30
	}
	for code, m := range cfg.FundIndexMapping {
		if m.TrackingRatio == 0 {
			m.TrackingRatio = 0.95
		}
		if m.Market == "" {
			m.Market = model.MarketAShare
		}
		cfg.FundIndexMapping[code] = m
	}

	return cfg, nil
}

// Validate checks that all required fields are set.
func (c *Config) Validate() error {
	if len(c.Indices.AShare) == 0 && len(c.Indices.US) == 0 {
		return fmt.Errorf("indices: at least one index is required")
	}
	if c.Portfolio.File == "" {
		return fmt.Errorf("portfolio.file is required")
	}
	if c.Report.OutputDir == "" {
		return fmt.Errorf("report.output_dir is required")
	}
	for code, m := range c.FundIndexMapping {
		if m.IndexCode == "" {
			return fmt.Errorf("fund_index_mapping[%s]: index_code is required", code)
		}
		if m.Market != model.MarketAShare && m.Market != model.MarketUS {
			return fmt.Errorf("fund_index_mapping[%s]: unknown market %q", code, m.Market)
		}
	}
	return nil
}
