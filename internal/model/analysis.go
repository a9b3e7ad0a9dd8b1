package model

import "time"

// DateLayout is the date format accepted on input and shown on charts.
const DateLayout = "2006-01-02"

// AnalysisRequest is one user request: the symbols to compare over [Start, End).
type AnalysisRequest struct {
	Symbols []string  `json:"symbols"`
	Start   time.Time `json:"start"`
	End     time.Time `json:"end"`
}

// Title returns the chart title for the request.
func (r AnalysisRequest) Title() string {
	return "Normalized Performance (" + r.Start.Format(DateLayout) + " to " + r.End.Format(DateLayout) + ")"
}

// AnalysisResult is the output of one analysis run.
type AnalysisResult struct {
	ID        string             `json:"id"`
	Request   AnalysisRequest    `json:"request"`
	Series    []NormalizedSeries `json:"series"`
	Initial   map[string]float64 `json:"initial"` // first normalized value per symbol
	YMin      float64            `json:"y_min"`
	YMax      float64            `json:"y_max"`
	Source    string             `json:"source"`
	CreatedAt time.Time          `json:"created_at"`
}
