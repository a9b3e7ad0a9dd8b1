package analyzer

import (
	"strconv"
	"strings"
	"time"

	"StockAnalyzer/internal/model"
)

// ParseRequest validates the raw form input. Symbols are comma separated,
// trimmed, upper-cased and de-duplicated. A blank end means today; a blank
// start means lookbackYears before the end.
func ParseRequest(symbols, start, end string, lookbackYears int, now time.Time) (model.AnalysisRequest, error) {
	var req model.AnalysisRequest

	seen := make(map[string]bool)
	for _, s := range strings.Split(symbols, ",") {
		s = strings.ToUpper(strings.TrimSpace(s))
		if s == "" || seen[s] {
			continue
		}
		if strings.ContainsAny(s, " \t/?#&") {
			return req, invalid("invalid symbol "+strconv.Quote(s), nil)
		}
		seen[s] = true
		req.Symbols = append(req.Symbols, s)
	}
	if len(req.Symbols) == 0 {
		return req, invalid("please enter at least one valid stock symbol", nil)
	}

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	var err error
	if strings.TrimSpace(end) == "" {
		req.End = today
	} else if req.End, err = time.Parse(model.DateLayout, strings.TrimSpace(end)); err != nil {
		return req, invalid("end date must be YYYY-MM-DD", err)
	}
	if strings.TrimSpace(start) == "" {
		if lookbackYears <= 0 {
			lookbackYears = 5
		}
		req.Start = req.End.AddDate(-lookbackYears, 0, 0)
	} else if req.Start, err = time.Parse(model.DateLayout, strings.TrimSpace(start)); err != nil {
		return req, invalid("start date must be YYYY-MM-DD", err)
	}

	if !req.Start.Before(req.End) {
		return req, invalid("start date must be before end date", nil)
	}
	return req, nil
}

// NewRequest builds a request covering the lookbackDays before now.
func NewRequest(symbols []string, lookbackDays int, now time.Time) (model.AnalysisRequest, error) {
	end := now.Format(model.DateLayout)
	start := now.AddDate(0, 0, -lookbackDays).Format(model.DateLayout)
	return ParseRequest(strings.Join(symbols, ","), start, end, 0, now)
}
