package calculator

import (
	"errors"
	"math"
	"time"

	"StockAnalyzer/internal/model"
)

// ErrNoOverlap is returned when the series share no trading date.
var ErrNoOverlap = errors.New("no overlapping data found for all symbols")

// Align drops non-finite points and keeps only the calendar days present in
// every series, so all normalized lines end on the same date.
func Align(series []model.PriceSeries) ([]model.PriceSeries, error) {
	if len(series) == 0 {
		return nil, nil
	}

	cleaned := make([]model.PriceSeries, len(series))
	for i, s := range series {
		cleaned[i] = dropNonFinite(s)
	}
	if len(cleaned) == 1 {
		if cleaned[0].Len() == 0 {
			return nil, ErrNoOverlap
		}
		return cleaned, nil
	}

	counts := make(map[string]int)
	for _, s := range cleaned {
		seen := make(map[string]bool, s.Len())
		for _, p := range s.Points {
			k := dayKey(p.Date)
			if !seen[k] {
				seen[k] = true
				counts[k]++
			}
		}
	}

	out := make([]model.PriceSeries, len(cleaned))
	for i, s := range cleaned {
		kept := make([]model.PricePoint, 0, s.Len())
		seen := make(map[string]bool, s.Len())
		for _, p := range s.Points {
			k := dayKey(p.Date)
			if counts[k] == len(cleaned) && !seen[k] {
				seen[k] = true
				kept = append(kept, p)
			}
		}
		if len(kept) == 0 {
			return nil, ErrNoOverlap
		}
		out[i] = model.PriceSeries{Symbol: s.Symbol, Points: kept}
	}
	return out, nil
}

func dropNonFinite(s model.PriceSeries) model.PriceSeries {
	kept := make([]model.PricePoint, 0, s.Len())
	for _, p := range s.Points {
		if math.IsNaN(p.Price) || math.IsInf(p.Price, 0) {
			continue
		}
		kept = append(kept, p)
	}
	return model.PriceSeries{Symbol: s.Symbol, Points: kept}
}

// dayKey is the UTC date of t. Fetchers stamp bars with their exchange-local
// session date at midnight UTC, so keys match across exchanges.
func dayKey(t time.Time) string {
	return t.UTC().Format(model.DateLayout)
}
