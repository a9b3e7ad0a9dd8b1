package calculator

import (
	"errors"
	"fmt"
	"math"

	"StockAnalyzer/internal/model"
)

var (
	// ErrEmptySeries is returned when a series has no data points.
	ErrEmptySeries = errors.New("empty series")
	// ErrZeroFinalPrice is returned when the last price is zero.
	ErrZeroFinalPrice = errors.New("division by zero: final price is 0")
	// ErrNonFinitePrice is returned when the last price is NaN or infinite.
	ErrNonFinitePrice = errors.New("final price is not a finite number")
)

// Normalize rescales a series so that its last value equals 1.0.
// Every output point is input[i] / input[last]; the input is not modified.
func Normalize(series model.PriceSeries) (model.NormalizedSeries, error) {
	n := len(series.Points)
	if n == 0 {
		return model.NormalizedSeries{}, ErrEmptySeries
	}
	final := series.Points[n-1].Price
	if math.IsNaN(final) || math.IsInf(final, 0) {
		return model.NormalizedSeries{}, ErrNonFinitePrice
	}
	if final == 0 {
		return model.NormalizedSeries{}, ErrZeroFinalPrice
	}

	points := make([]model.PricePoint, n)
	for i, p := range series.Points {
		points[i] = model.PricePoint{Date: p.Date, Price: p.Price / final}
	}

	return model.NormalizedSeries{Symbol: series.Symbol, Points: points}, nil
}

// NormalizeAll normalizes each series independently. The first failure is
// returned wrapped with the offending symbol.
func NormalizeAll(series []model.PriceSeries) ([]model.NormalizedSeries, error) {
	out := make([]model.NormalizedSeries, 0, len(series))
	for _, s := range series {
		ns, err := Normalize(s)
		if err != nil {
			return nil, fmt.Errorf("normalize %s: %w", s.Symbol, err)
		}
		out = append(out, ns)
	}
	return out, nil
}
