package collector

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"StockAnalyzer/internal/model"
)

// Collector fetches adjusted price series for a set of symbols.
type Collector struct {
	Fetcher     Fetcher
	Concurrency int
	Logger      *zap.Logger
}

// NewCollector creates a new Collector.
func NewCollector(fetcher Fetcher, concurrency int, logger *zap.Logger) *Collector {
	if concurrency <= 0 {
		concurrency = 4
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Collector{Fetcher: fetcher, Concurrency: concurrency, Logger: logger}
}

// Collect fetches every symbol of the request and returns one series per
// symbol, in request order. The first failing symbol cancels the others.
func (c *Collector) Collect(ctx context.Context, req model.AnalysisRequest) ([]model.PriceSeries, error) {
	out := make([]model.PriceSeries, len(req.Symbols))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(c.Concurrency)
	for i, symbol := range req.Symbols {
		i, symbol := i, symbol
		g.Go(func() error {
			began := time.Now()
			bars, err := c.Fetcher.FetchDailyBars(ctx, symbol, req.Start, req.End)
			if err != nil {
				return fmt.Errorf("fetch %s: %w", symbol, err)
			}
			c.Logger.Debug("fetched daily bars",
				zap.String("symbol", symbol),
				zap.String("source", c.Fetcher.Name()),
				zap.Int("bars", len(bars)),
				zap.Duration("took", time.Since(began)))
			out[i] = ToSeries(symbol, bars)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// ToSeries converts bars into an adjusted-price series.
func ToSeries(symbol string, bars []model.OHLCV) model.PriceSeries {
	points := make([]model.PricePoint, len(bars))
	for i, b := range bars {
		points[i] = model.PricePoint{Date: b.Time, Price: b.Adjusted()}
	}
	return model.PriceSeries{Symbol: symbol, Points: points}
}
