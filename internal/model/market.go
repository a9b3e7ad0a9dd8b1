package model

import "time"

// OHLCV represents a single daily candlestick bar.
type OHLCV struct {
	Time     time.Time // exchange-local session date at midnight UTC
	Open     float64
	High     float64
	Low      float64
	Close    float64
	AdjClose float64 // dividend/split adjusted close, 0 when the source has none
	Volume   float64
}

// Adjusted returns the adjusted close when present, else the raw close.
func (b OHLCV) Adjusted() float64 {
	if b.AdjClose != 0 {
		return b.AdjClose
	}
	return b.Close
}

// PricePoint is one dated price.
type PricePoint struct {
	Date  time.Time `json:"date"`
	Price float64   `json:"price"`
}

// PriceSeries holds adjusted prices for one symbol, ordered by date ascending.
type PriceSeries struct {
	Symbol string       `json:"symbol"`
	Points []PricePoint `json:"points"`
}

// Len returns the number of points.
func (s PriceSeries) Len() int { return len(s.Points) }

// Prices returns the bare price values.
func (s PriceSeries) Prices() []float64 {
	out := make([]float64, len(s.Points))
	for i, p := range s.Points {
		out[i] = p.Price
	}
	return out
}

// NormalizedSeries has the shape of a PriceSeries, rescaled so that the
// last value is 1.0.
type NormalizedSeries PriceSeries

// Last returns the final point and false if the series is empty.
func (s NormalizedSeries) Last() (PricePoint, bool) {
	if len(s.Points) == 0 {
		return PricePoint{}, false
	}
	return s.Points[len(s.Points)-1], true
}
