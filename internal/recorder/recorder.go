package recorder

import "time"

// Run statuses.
const (
	StatusOK    = "OK"
	StatusError = "ERROR"
)

// SeriesSummary holds the per-symbol outcome of a run.
type SeriesSummary struct {
	Symbol    string    `json:"symbol"`
	Points    int       `json:"points"`
	Initial   float64   `json:"initial"` // first normalized value
	FirstDate time.Time `json:"first_date"`
	LastDate  time.Time `json:"last_date"`
}

// RunRecord is one analysis run, successful or not.
type RunRecord struct {
	ID        string          `json:"id"`
	CreatedAt time.Time       `json:"created_at"`
	Trigger   string          `json:"trigger"` // "CLI", "WEB", "API", "STARTUP", "SCHEDULE:<name>", "TELEGRAM"
	Symbols   []string        `json:"symbols"`
	Start     time.Time       `json:"start"`
	End       time.Time       `json:"end"`
	Source    string          `json:"source"`
	Status    string          `json:"status"`
	ErrorKind string          `json:"error_kind,omitempty"`
	Error     string          `json:"error,omitempty"`
	Series    []SeriesSummary `json:"series,omitempty"`
}

// Recorder persists the history of analysis runs.
type Recorder interface {
	RecordRun(run *RunRecord) error
	RecentRuns(limit int) ([]RunRecord, error)
	Close() error
}
