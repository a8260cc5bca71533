package weather

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
)

// TemperatureSeries is an hourly outdoor air temperature series in °C.
// Values are indexed implicitly by row order.
type TemperatureSeries []float64

// Len returns the number of values.
func (s TemperatureSeries) Len() int { return len(s) }

// Head returns the first n values. Extra values are dropped.
func (s TemperatureSeries) Head(n int) (TemperatureSeries, error) {
	if n <= 0 {
		return nil, fmt.Errorf("%w: requested %d values", ErrSeriesTooShort, n)
	}
	if len(s) < n {
		return nil, fmt.Errorf("%w: have %d values, need %d", ErrSeriesTooShort, len(s), n)
	}
	out := make(TemperatureSeries, n)
	copy(out, s[:n])
	return out, nil
}

// Mean returns the arithmetic mean, or 0 for an empty series.
func (s TemperatureSeries) Mean() float64 {
	if len(s) == 0 {
		return 0
	}
	return floats.Sum(s) / float64(len(s))
}
