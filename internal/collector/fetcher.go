package collector

import (
	"context"
	"errors"
	"time"

	"StockAnalyzer/internal/model"
)

// ErrNoData is returned when the source has no bars for a symbol in the
// requested range: unknown or delisted symbol, or no trading days.
var ErrNoData = errors.New("no data")

// Fetcher defines the interface for fetching market data.
type Fetcher interface {
	// FetchDailyBars returns daily bars in [start, end), oldest first.
	FetchDailyBars(ctx context.Context, symbol string, start, end time.Time) ([]model.OHLCV, error)
	Name() string
}
