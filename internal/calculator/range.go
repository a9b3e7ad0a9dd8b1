package calculator

import (
	"errors"
	"math"

	"StockAnalyzer/internal/model"
)

// YLimits returns the chart y-range across all normalized values: 5% below
// the lowest value (never below zero) and 5% above the highest.
func YLimits(series []model.NormalizedSeries) (low, high float64, err error) {
	low = math.Inf(1)
	high = math.Inf(-1)
	for _, s := range series {
		for _, p := range s.Points {
			if p.Price < low {
				low = p.Price
			}
			if p.Price > high {
				high = p.Price
			}
		}
	}
	if math.IsInf(low, 1) {
		return 0, 0, errors.New("no values to scale")
	}
	return math.Max(0, low*0.95), high * 1.05, nil
}

// InitialValues returns the first normalized value of each series: the amount
// that had to be invested at the start to hold $1.00 at the end.
func InitialValues(series []model.NormalizedSeries) map[string]float64 {
	out := make(map[string]float64, len(series))
	for _, s := range series {
		if len(s.Points) == 0 {
			continue
		}
		out[s.Symbol] = s.Points[0].Price
	}
	return out
}

// TotalReturn converts an initial normalized value into the fractional gain
// over the period (0.25 means +25%).
func TotalReturn(initial float64) (float64, error) {
	if initial <= 0 || math.IsNaN(initial) || math.IsInf(initial, 0) {
		return 0, errors.New("initial value must be positive")
	}
	return 1/initial - 1, nil
}
