package collector

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"StockAnalyzer/internal/calculator"
	"StockAnalyzer/internal/model"
)

const chartBody = `{"chart":{"result":[{
  "timestamp":[1704205800,1704292200,1704378600,1704465000],
  "indicators":{
    "quote":[{"open":[1,2,null,4],"high":[1,2,null,4],"low":[1,2,null,4],"close":[185.6,184.2,null,181.2],"volume":[10,20,null,40]}],
    "adjclose":[{"adjclose":[184.9,183.5,null,180.5]}]
  }}],"error":null}}`

func newTestYahoo(t *testing.T, h http.HandlerFunc) *YahooFetcher {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	f := NewYahooFetcher("", 5*time.Second)
	f.BaseURL = srv.URL
	return f
}

func TestYahooFetcher_FetchDailyBars(t *testing.T) {
	var gotPath, gotQuery string
	f := newTestYahoo(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		w.Write([]byte(chartBody))
	})

	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	bars, err := f.FetchDailyBars(context.Background(), "SPX", start, end)
	require.NoError(t, err)

	assert.Equal(t, "/v8/finance/chart/^GSPC", gotPath)
	assert.Contains(t, gotQuery, "period1=1703980800")
	assert.Contains(t, gotQuery, "period2=1706832000")
	assert.Contains(t, gotQuery, "interval=1d")

	require.Len(t, bars, 3, "null bar must be skipped")
	assert.Equal(t, 184.9, bars[0].AdjClose)
	assert.Equal(t, 185.6, bars[0].Close)
	assert.Equal(t, 180.5, bars[2].Adjusted())
	assert.True(t, bars[0].Time.Before(bars[1].Time))
}

func TestYahooFetcher_EndIsExclusive(t *testing.T) {
	f := newTestYahoo(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(chartBody))
	})
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)
	bars, err := f.FetchDailyBars(context.Background(), "AAPL", start, end)
	require.NoError(t, err)
	assert.Len(t, bars, 2)
}

const tokyoBody = `{"chart":{"result":[{
  "meta":{"gmtoffset":32400,"exchangeTimezoneName":"Asia/Tokyo"},
  "timestamp":[1704207600,1704294000,1704380400,1704726000],
  "indicators":{
    "quote":[{"close":[2500,2510,2520,2530]}],
    "adjclose":[{"adjclose":[2500,2510,2520,2530]}]
  }}],"error":null}}`

func TestYahooFetcher_UsesExchangeLocalDates(t *testing.T) {
	f := newTestYahoo(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(tokyoBody))
	})
	start := time.Date(2024, 1, 4, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 1, 9, 0, 0, 0, 0, time.UTC)

	bars, err := f.FetchDailyBars(context.Background(), "7203.T", start, end)
	require.NoError(t, err)
	require.Len(t, bars, 2, "the 01-03 bar is before start and the 01-09 bar is the exclusive end")
	assert.Equal(t, time.Date(2024, 1, 4, 0, 0, 0, 0, time.UTC), bars[0].Time)
	assert.Equal(t, 2510.0, bars[0].AdjClose)
	assert.Equal(t, time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC), bars[1].Time)
}

func TestYahooFetcher_MixedExchangesAlignBySessionDate(t *testing.T) {
	const nyBody = `{"chart":{"result":[{
  "meta":{"gmtoffset":-18000,"exchangeTimezoneName":"America/New_York"},
  "timestamp":[1704378600,1704465000,1704724200],
  "indicators":{"quote":[{"close":[181.9,181.2,185.6]}],"adjclose":[{"adjclose":[181.9,181.2,185.6]}]}}],"error":null}}`
	f := newTestYahoo(t, func(w http.ResponseWriter, r *http.Request) {
		if strings.Contains(r.URL.Path, "7203.T") {
			w.Write([]byte(tokyoBody))
			return
		}
		w.Write([]byte(nyBody))
	})
	req := model.AnalysisRequest{
		Symbols: []string{"AAPL", "7203.T"},
		Start:   time.Date(2024, 1, 4, 0, 0, 0, 0, time.UTC),
		End:     time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC),
	}

	raw, err := NewCollector(f, 2, nil).Collect(context.Background(), req)
	require.NoError(t, err)
	aligned, err := calculator.Align(raw)
	require.NoError(t, err)

	for _, s := range aligned {
		require.Len(t, s.Points, 2, s.Symbol)
		assert.Equal(t, "2024-01-04", s.Points[0].Date.Format(model.DateLayout), s.Symbol)
		assert.Equal(t, "2024-01-05", s.Points[1].Date.Format(model.DateLayout), s.Symbol)
	}
	assert.Equal(t, 2510.0, aligned[1].Points[0].Price)
}

func TestExchangeLocation(t *testing.T) {
	ts := int64(1704294000) // 2024-01-03 15:00 UTC
	assert.Equal(t, "2024-01-04", sessionDate(ts, exchangeLocation("Asia/Tokyo", 0)).Format("2006-01-02"))
	assert.Equal(t, "2024-01-04", sessionDate(ts, exchangeLocation("", 32400)).Format("2006-01-02"))
	assert.Equal(t, "2024-01-04", sessionDate(ts, exchangeLocation("Not/AZone", 32400)).Format("2006-01-02"))
	assert.Equal(t, "2024-01-03", sessionDate(ts, exchangeLocation("", 0)).Format("2006-01-02"))
	assert.Equal(t, "2024-01-03", sessionDate(ts, exchangeLocation("America/New_York", -18000)).Format("2006-01-02"))
}

func TestYahooFetcher_UnknownSymbol(t *testing.T) {
	f := newTestYahoo(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"chart":{"result":null,"error":{"code":"Not Found","description":"No data found, symbol may be delisted"}}}`))
	})
	_, err := f.FetchDailyBars(context.Background(), "NOPE", time.Now().AddDate(0, -1, 0), time.Now())
	assert.ErrorIs(t, err, ErrNoData)
}

func TestYahooFetcher_EmptyRange(t *testing.T) {
	f := newTestYahoo(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"chart":{"result":[{"timestamp":[],"indicators":{"quote":[{}]}}],"error":null}}`))
	})
	_, err := f.FetchDailyBars(context.Background(), "AAPL", time.Now().AddDate(0, 0, -2), time.Now())
	assert.ErrorIs(t, err, ErrNoData)
}

func TestYahooFetcher_ServerError(t *testing.T) {
	f := newTestYahoo(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	})
	_, err := f.FetchDailyBars(context.Background(), "AAPL", time.Now().AddDate(0, -1, 0), time.Now())
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNoData)
	assert.True(t, strings.Contains(err.Error(), "status 502"))
}
