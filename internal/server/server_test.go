package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"StockAnalyzer/internal/analyzer"
	"StockAnalyzer/internal/chart"
	"StockAnalyzer/internal/collector"
	"StockAnalyzer/internal/recorder"
)

func init() {
	gin.SetMode(gin.TestMode)
}

var testNow = time.Date(2024, 6, 3, 12, 0, 0, 0, time.UTC)

func newTestServer(t *testing.T, rec recorder.Recorder) (*Server, http.Handler) {
	t.Helper()
	f := &collector.MockFetcher{Price: 100, Errs: map[string]error{"ZZZZ": collector.ErrNoData}}
	an := analyzer.New(collector.NewCollector(f, 2, nil), rec, nil)
	an.Now = func() time.Time { return testNow }
	s := New(an, chart.Options{WidthInches: 4, HeightInches: 3}, Defaults{Symbols: "AAPL, MSFT, GOOG, VOO", LookbackYears: 5}, nil)
	s.Now = func() time.Time { return testNow }
	return s, s.Router()
}

func do(h http.Handler, method, target string, form url.Values) *httptest.ResponseRecorder {
	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func submit(h http.Handler, symbols, start, end string) *httptest.ResponseRecorder {
	return do(h, http.MethodPost, "/analyze", url.Values{"symbols": {symbols}, "start": {start}, "end": {end}})
}

func TestIndex_Defaults(t *testing.T) {
	_, h := newTestServer(t, nil)

	w := do(h, http.MethodGet, "/", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, `value="AAPL, MSFT, GOOG, VOO"`)
	assert.Contains(t, body, `value="2019-06-03"`)
	assert.Contains(t, body, `value="2024-06-03"`)
	assert.NotContains(t, body, "<img")

	assert.Equal(t, http.StatusNotFound, do(h, http.MethodGet, "/chart.png", nil).Code)
}

func TestSubmitForm_Success(t *testing.T) {
	_, h := newTestServer(t, nil)

	w := submit(h, "aapl, voo", "2024-01-01", "2024-03-01")
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))

	img := do(h, http.MethodGet, "/chart.png", nil)
	require.Equal(t, http.StatusOK, img.Code)
	assert.Equal(t, "image/png", img.Header().Get("Content-Type"))
	assert.Equal(t, "\x89PNG", img.Body.String()[:4])

	svg := do(h, http.MethodGet, "/chart.svg", nil)
	require.Equal(t, http.StatusOK, svg.Code)
	assert.Equal(t, "image/svg+xml", svg.Header().Get("Content-Type"))
	assert.Contains(t, svg.Body.String(), "<svg")

	body := do(h, http.MethodGet, "/", nil).Body.String()
	assert.Contains(t, body, "<img")
	assert.Contains(t, body, "Normalized Performance (2024-01-01 to 2024-03-01)")
	assert.Contains(t, body, "<td>AAPL</td>")
	assert.Contains(t, body, "<td>VOO</td>")
	assert.Contains(t, body, `value="aapl, voo"`)
}

func TestSubmitForm_FailureKeepsPriorChart(t *testing.T) {
	_, h := newTestServer(t, nil)

	require.Equal(t, http.StatusSeeOther, submit(h, "AAPL", "2024-01-01", "2024-03-01").Code)
	before := do(h, http.MethodGet, "/chart.png", nil).Body.Bytes()

	require.Equal(t, http.StatusSeeOther, submit(h, "AAPL", "2024-03-01", "2024-01-01").Code)
	body := do(h, http.MethodGet, "/", nil).Body.String()
	assert.Contains(t, body, "Input Error")
	assert.Contains(t, body, "start date must be before end date")
	assert.Contains(t, body, "<img")

	after := do(h, http.MethodGet, "/chart.png", nil)
	require.Equal(t, http.StatusOK, after.Code)
	assert.Equal(t, before, after.Body.Bytes())

	require.Equal(t, http.StatusSeeOther, submit(h, "ZZZZ", "2024-01-01", "2024-03-01").Code)
	body = do(h, http.MethodGet, "/", nil).Body.String()
	assert.Contains(t, body, "Data Not Found")
	assert.Equal(t, before, do(h, http.MethodGet, "/chart.png", nil).Body.Bytes())
}

func TestSubmitForm_Busy(t *testing.T) {
	s, h := newTestServer(t, nil)
	s.busy = true

	w := submit(h, "AAPL", "", "")
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "disabled")
	assert.Contains(t, w.Body.String(), "Analyzing...")

	assert.ErrorIs(t, s.Analyze(context.Background(), "AAPL", "", "", "TEST"), ErrBusy)
}

func TestWarmup(t *testing.T) {
	s, h := newTestServer(t, nil)
	s.Warmup(context.Background())

	assert.Equal(t, http.StatusOK, do(h, http.MethodGet, "/chart.png", nil).Code)
	body := do(h, http.MethodGet, "/", nil).Body.String()
	assert.Contains(t, body, "<td>GOOG</td>")
	assert.Contains(t, body, "2019-06-03 to 2024-06-03")
}

func TestAPIAnalyze(t *testing.T) {
	_, h := newTestServer(t, nil)

	w := do(h, http.MethodGet, "/api/analyze?symbols=AAPL,MSFT&start=2024-01-01&end=2024-02-01", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var res struct {
		ID      string             `json:"id"`
		Initial map[string]float64 `json:"initial"`
		Series  []struct {
			Symbol string `json:"symbol"`
		} `json:"series"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.NotEmpty(t, res.ID)
	require.Len(t, res.Series, 2)
	assert.Equal(t, "MSFT", res.Series[1].Symbol)
	assert.Contains(t, res.Initial, "AAPL")

	assert.Equal(t, http.StatusNotFound, do(h, http.MethodGet, "/chart.png", nil).Code, "API must not replace the form chart")

	tests := []struct {
		query string
		code  int
		kind  string
	}{
		{"symbols=", http.StatusBadRequest, "INVALID_INPUT"},
		{"symbols=AAPL&start=01/01/2024", http.StatusBadRequest, "INVALID_INPUT"},
		{"symbols=ZZZZ&start=2024-01-01&end=2024-02-01", http.StatusNotFound, "NO_DATA"},
	}
	for _, tt := range tests {
		w := do(h, http.MethodGet, "/api/analyze?"+tt.query, nil)
		assert.Equal(t, tt.code, w.Code, tt.query)
		var body map[string]string
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, tt.kind, body["kind"], tt.query)
		assert.NotEmpty(t, body["error"])
	}
}

func TestAPIRuns(t *testing.T) {
	rec, err := recorder.NewSQLiteRecorder(filepath.Join(t.TempDir(), "runs.db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { rec.Close() })
	_, h := newTestServer(t, rec)

	submit(h, "AAPL", "2024-01-01", "2024-02-01")
	do(h, http.MethodGet, "/api/analyze?symbols=", nil)

	w := do(h, http.MethodGet, "/api/runs?limit=5", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var runs []recorder.RunRecord
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &runs))
	require.Len(t, runs, 1, "invalid API input never reaches the analyzer")
	assert.Equal(t, "WEB", runs[0].Trigger)

	assert.Equal(t, http.StatusBadRequest, do(h, http.MethodGet, "/api/runs?limit=x", nil).Code)
}
