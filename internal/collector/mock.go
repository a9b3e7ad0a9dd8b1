package collector

import (
	"context"
	"fmt"
	"time"

	"StockAnalyzer/internal/model"
)

// MockFetcher returns controllable fixed data for development and testing.
// Symbols listed in Bars get exactly those bars; any other symbol gets a
// generated weekday series around Price, unless Price is zero.
type MockFetcher struct {
	Price float64
	Bars  map[string][]model.OHLCV
	Errs  map[string]error
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchDailyBars(ctx context.Context, symbol string, start, end time.Time) ([]model.OHLCV, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err, ok := m.Errs[symbol]; ok {
		return nil, err
	}
	if bars, ok := m.Bars[symbol]; ok {
		var out []model.OHLCV
		for _, b := range bars {
			if !b.Time.Before(start) && b.Time.Before(end) {
				out = append(out, b)
			}
		}
		if len(out) == 0 {
			return nil, fmt.Errorf("mock %s: %w", symbol, ErrNoData)
		}
		return out, nil
	}
	if m.Price == 0 {
		return nil, fmt.Errorf("mock %s: %w", symbol, ErrNoData)
	}
	bars := generateMockBars(symbol, m.Price, start, end)
	if len(bars) == 0 {
		return nil, fmt.Errorf("mock %s: %w", symbol, ErrNoData)
	}
	return bars, nil
}

// generateMockBars walks weekdays in [start, end) with a per-symbol drift so
// different symbols draw different lines.
func generateMockBars(symbol string, basePrice float64, start, end time.Time) []model.OHLCV {
	drift := 0.0
	for _, r := range symbol {
		drift += float64(r)
	}
	drift = (float64(int(drift)%7) - 3) * 0.0005

	var bars []model.OHLCV
	p := basePrice
	for d := start; d.Before(end); d = d.AddDate(0, 0, 1) {
		if wd := d.Weekday(); wd == time.Saturday || wd == time.Sunday {
			continue
		}
		p *= 1 + drift
		bars = append(bars, model.OHLCV{
			Time:     d,
			Open:     p * 0.999,
			High:     p * 1.005,
			Low:      p * 0.995,
			Close:    p,
			AdjClose: p,
			Volume:   1000000,
		})
	}
	return bars
}
