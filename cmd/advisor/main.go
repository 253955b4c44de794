package main

import (
	"encoding/json"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"FundRadar/internal/collector"
	"FundRadar/internal/config"
	"FundRadar/internal/model"
	"FundRadar/internal/portfolio"
	"FundRadar/internal/recorder"
	"FundRadar/internal/scheduler"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	once := flag.Bool("once", false, "run one analysis immediately and exit")
	importFile := flag.String("import", "", "aggregate a JSON transaction-record file into the portfolio and exit")
	flag.Parse()

	log.Println("[INFO] FundRadar starting...")

	// Load config
	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("[FATAL] load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("[FATAL] config validation: %v", err)
	}

	if *importFile != "" {
		importTransactions(cfg, *importFile)
		return
	}

	// Init fetcher
	fetcher := collector.NewLiveFetcher(cfg.Proxy)
	log.Printf("[INFO] data source: %s", fetcher.Name())

	// Init recorder
	var rec recorder.Recorder
	if cfg.Database.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath)
		if err != nil {
			log.Printf("[WARN] init sqlite recorder failed, using noop: %v", err)
			rec = recorder.NewNoopRecorder()
		} else {
			rec = sr
			defer sr.Close()
		}
	} else {
		rec = recorder.NewNoopRecorder()
	}

	sched := scheduler.NewScheduler(cfg, fetcher, rec)

	if *once {
		sched.RunNow()
		return
	}

	if err := sched.Register(); err != nil {
		log.Fatalf("[FATAL] register cron tasks: %v", err)
	}
	sched.Start()
	defer sched.Stop()

	if os.Getenv("RUN_ON_START") == "true" {
		log.Println("[INFO] RUN_ON_START enabled, executing daily analysis now")
		go sched.RunNow()
	}

	log.Println("[INFO] FundRadar is running. Press Ctrl+C to stop.")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("[INFO] shutdown signal received, stopping...")
	log.Println("[INFO] FundRadar stopped")
}

func importTransactions(cfg *config.Config, path string) {
	raw, err := os.ReadFile(path)
	if err != nil {
		log.Fatalf("[FATAL] read transaction file: %v", err)
	}
	var records []model.TransactionRecord
	if err := json.Unmarshal(raw, &records); err != nil {
		log.Fatalf("[FATAL] parse transaction file: %v", err)
	}

	resolver := &portfolio.MapResolver{Mapping: cfg.FundNameMapping}
	port := portfolio.Aggregate(records, resolver)
	if err := portfolio.Save(cfg.Portfolio.File, port); err != nil {
		log.Fatalf("[FATAL] save portfolio: %v", err)
	}
	log.Printf("[INFO] imported %d records into %d positions: %s", len(records), len(port.Funds), cfg.Portfolio.File)
}
