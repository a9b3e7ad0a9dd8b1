package analyzer

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2025, 6, 13, 15, 4, 5, 0, time.Local)

func TestParseRequest(t *testing.T) {
	req, err := ParseRequest(" aapl, VOO,,msft , aapl ", "2020-01-01", "2024-12-31", 5, now)
	require.NoError(t, err)
	assert.Equal(t, []string{"AAPL", "VOO", "MSFT"}, req.Symbols)
	assert.Equal(t, "2020-01-01", req.Start.Format("2006-01-02"))
	assert.Equal(t, "2024-12-31", req.End.Format("2006-01-02"))
}

func TestParseRequest_Defaults(t *testing.T) {
	req, err := ParseRequest("goog", "", "", 5, now)
	require.NoError(t, err)
	assert.Equal(t, "2025-06-13", req.End.Format("2006-01-02"))
	assert.Equal(t, "2020-06-13", req.Start.Format("2006-01-02"))
}

func TestParseRequest_Invalid(t *testing.T) {
	tests := []struct {
		name                string
		symbols, start, end string
	}{
		{"no symbols", " , ,", "2020-01-01", "2021-01-01"},
		{"bad start", "AAPL", "01/02/2020", "2021-01-01"},
		{"bad end", "AAPL", "2020-01-01", "tomorrow"},
		{"inverted", "AAPL", "2021-01-01", "2020-01-01"},
		{"same day", "AAPL", "2021-01-01", "2021-01-01"},
		{"spaces in symbol", "BRK B", "2020-01-01", "2021-01-01"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseRequest(tt.symbols, tt.start, tt.end, 5, now)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidInput), "got %v", err)
			var ae *Error
			require.ErrorAs(t, err, &ae)
			assert.Equal(t, KindInvalidInput, ae.Kind)
		})
	}
}

func TestNewRequest(t *testing.T) {
	req, err := NewRequest([]string{"voo", "qqq"}, 30, now)
	require.NoError(t, err)
	assert.Equal(t, []string{"VOO", "QQQ"}, req.Symbols)
	assert.Equal(t, "2025-05-14", req.Start.Format("2006-01-02"))
}
