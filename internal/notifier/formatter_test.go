package notifier

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"StockAnalyzer/internal/analyzer"
	"StockAnalyzer/internal/config"
	"StockAnalyzer/internal/model"
)

func TestFormatSummary(t *testing.T) {
	res := &model.AnalysisResult{
		Request: model.AnalysisRequest{
			Symbols: []string{"AAPL", "VOO"},
			Start:   time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC),
			End:     time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		},
		Series: []model.NormalizedSeries{
			{Symbol: "AAPL", Points: make([]model.PricePoint, 3)},
			{Symbol: "VOO", Points: make([]model.PricePoint, 3)},
		},
		Initial: map[string]float64{"AAPL": 0.5, "VOO": 1.25},
		Source:  "mock",
	}

	msg := FormatSummary(res)
	assert.Contains(t, msg, "Normalized Performance (2020-01-01 to 2024-01-01)")
	assert.Contains(t, msg, "$0.5000 (+100.00%)")
	assert.Contains(t, msg, "$1.2500 (-20.00%)")
	assert.Contains(t, msg, "3 trading days | source: mock")
}

func TestFormatFailure(t *testing.T) {
	_, err := analyzer.ParseRequest("", "", "", 5, time.Now())
	msg := FormatFailure(err)
	assert.Contains(t, msg, "Input Error")
	assert.Contains(t, msg, "at least one valid stock symbol")

	msg = FormatFailure(fmt.Errorf("render: %w", errors.New("disk <full>")))
	assert.Contains(t, msg, "Unexpected Error")
	assert.Contains(t, msg, "disk &lt;full&gt;")
}

func TestFormatWatchlists(t *testing.T) {
	assert.Equal(t, "No watchlists configured.", FormatWatchlists(nil))

	msg := FormatWatchlists([]config.Watchlist{{
		Name: "megacaps", Symbols: []string{"AAPL", "MSFT"}, Cron: "0 0 18 * * 1-5", LookbackDays: 365,
	}})
	assert.Contains(t, msg, "<b>megacaps</b>: AAPL, MSFT")
	assert.Contains(t, msg, "<code>0 0 18 * * 1-5</code>, 365 days")
}
