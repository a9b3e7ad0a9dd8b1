package main

import (
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"StockAnalyzer/internal/analyzer"
	"StockAnalyzer/internal/chart"
	"StockAnalyzer/internal/collector"
	"StockAnalyzer/internal/config"
	"StockAnalyzer/internal/logging"
	"StockAnalyzer/internal/recorder"
)

var configPath = flag.String("config", "", "path to the YAML config (default $CONFIG_PATH or configs/config.yaml)")

// app holds the components shared by every subcommand.
type app struct {
	cfg      *config.Config
	logger   *zap.Logger
	recorder recorder.Recorder
	analyzer *analyzer.Analyzer
}

func loadApp() (*app, error) {
	path := *configPath
	if path == "" {
		path = "configs/config.yaml"
		if v := os.Getenv("CONFIG_PATH"); v != "" {
			path = v
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	logger := logging.New(cfg.Log.Level, cfg.Log.File)

	var fetcher collector.Fetcher
	switch cfg.DataSource.Provider {
	case "mock":
		fetcher = &collector.MockFetcher{Price: 100}
	default:
		fetcher = collector.NewYahooFetcher(cfg.Proxy, cfg.DataSource.Timeout)
	}
	logger.Info("data source", zap.String("provider", fetcher.Name()))

	var rec recorder.Recorder = recorder.NewNoopRecorder()
	if cfg.Database.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath, logger)
		if err != nil {
			logger.Warn("init sqlite recorder failed, using noop", zap.Error(err))
		} else {
			rec = sr
		}
	}

	col := collector.NewCollector(fetcher, cfg.DataSource.Concurrency, logger)
	return &app{
		cfg:      cfg,
		logger:   logger,
		recorder: rec,
		analyzer: analyzer.New(col, rec, logger),
	}, nil
}

func (a *app) chartOptions() chart.Options {
	return chart.Options{
		WidthInches:  a.cfg.Chart.WidthInches,
		HeightInches: a.cfg.Chart.HeightInches,
		Format:       a.cfg.Chart.Format,
	}
}

func (a *app) close() {
	if err := a.recorder.Close(); err != nil {
		a.logger.Warn("close recorder", zap.Error(err))
	}
	_ = a.logger.Sync()
}
