package recorder

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestRecorder(t *testing.T) *SQLiteRecorder {
	t.Helper()
	r, err := NewSQLiteRecorder(filepath.Join(t.TempDir(), "data", "runs.db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { r.Close() })
	return r
}

func TestSQLiteRecorder_RoundTrip(t *testing.T) {
	r := openTestRecorder(t)

	start := time.Date(2020, 1, 2, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)
	run := &RunRecord{
		ID:        "run-1",
		CreatedAt: time.Unix(1700000000, 0),
		Trigger:   "CLI",
		Symbols:   []string{"AAPL", "VOO"},
		Start:     start,
		End:       end,
		Source:    "mock",
		Status:    StatusOK,
		Series: []SeriesSummary{
			{Symbol: "AAPL", Points: 1258, Initial: 0.3012, FirstDate: start, LastDate: end.AddDate(0, 0, -1)},
			{Symbol: "VOO", Points: 1258, Initial: 0.5871, FirstDate: start, LastDate: end.AddDate(0, 0, -1)},
		},
	}
	require.NoError(t, r.RecordRun(run))

	failed := &RunRecord{
		ID: "run-2", CreatedAt: time.Unix(1700000100, 0), Trigger: "WEB",
		Symbols: []string{"NOPE"}, Start: start, End: end, Source: "mock",
		Status: StatusError, ErrorKind: "NO_DATA", Error: "fetch NOPE: no data",
	}
	require.NoError(t, r.RecordRun(failed))

	runs, err := r.RecentRuns(10)
	require.NoError(t, err)
	require.Len(t, runs, 2)

	assert.Equal(t, "run-2", runs[0].ID)
	assert.Equal(t, StatusError, runs[0].Status)
	assert.Equal(t, "NO_DATA", runs[0].ErrorKind)
	assert.Empty(t, runs[0].Series)

	got := runs[1]
	assert.Equal(t, []string{"AAPL", "VOO"}, got.Symbols)
	assert.True(t, got.Start.Equal(start))
	assert.True(t, got.End.Equal(end))
	require.Len(t, got.Series, 2)
	assert.Equal(t, "VOO", got.Series[1].Symbol)
	assert.InDelta(t, 0.5871, got.Series[1].Initial, 1e-9)
	assert.Equal(t, 1258, got.Series[0].Points)
}

func TestSQLiteRecorder_DuplicateID(t *testing.T) {
	r := openTestRecorder(t)
	run := &RunRecord{ID: "same", Status: StatusOK}
	require.NoError(t, r.RecordRun(run))
	assert.Error(t, r.RecordRun(run))
}

func TestSQLiteRecorder_Limit(t *testing.T) {
	r := openTestRecorder(t)
	for i, id := range []string{"a", "b", "c"} {
		require.NoError(t, r.RecordRun(&RunRecord{ID: id, CreatedAt: time.Unix(int64(1000+i), 0), Status: StatusOK}))
	}
	runs, err := r.RecentRuns(2)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "c", runs[0].ID)
	assert.Equal(t, "b", runs[1].ID)
}

func TestNoopRecorder(t *testing.T) {
	var r Recorder = NewNoopRecorder()
	assert.NoError(t, r.RecordRun(&RunRecord{}))
	runs, err := r.RecentRuns(5)
	assert.NoError(t, err)
	assert.Empty(t, runs)
}
