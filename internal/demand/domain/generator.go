package demand

import (
	"context"
	"fmt"
	"math"

	calendar "heatdemand/internal/calendar/domain"
	weather "heatdemand/internal/weather/domain"
)

// ProfileRequest carries everything a generator needs for one building.
// Temperature is aligned to Index by position.
type ProfileRequest struct {
	Index       HourlyIndex
	Holidays    calendar.HolidaySet
	Temperature weather.TemperatureSeries
	Building    Building
}

// Validate checks alignment, finite temperatures and building configuration.
func (r ProfileRequest) Validate() error {
	if len(r.Index) == 0 {
		return ErrEmptyIndex
	}
	if len(r.Temperature) < len(r.Index) {
		return fmt.Errorf("%w: %d values for %d hours", ErrTemperatureLength, len(r.Temperature), len(r.Index))
	}
	for i, t := range r.Temperature[:len(r.Index)] {
		if math.IsNaN(t) || math.IsInf(t, 0) {
			return fmt.Errorf("%w: hour %d is %v", weather.ErrNonNumeric, i, t)
		}
	}
	return r.Building.Validate()
}

// Generator produces an hourly heat demand sequence aligned to the request
// index. Implementations must be deterministic for identical requests.
type Generator interface {
	Name() string
	Generate(ctx context.Context, req ProfileRequest) ([]float64, error)
}
