package demand

import (
	"fmt"
	"time"
)

// HoursPerYear is the fixed length of a generated profile.
const HoursPerYear = 8760

// HourlyIndex is an ordered sequence of timestamps one hour apart.
type HourlyIndex []time.Time

// NewHourlyIndex builds periods timestamps starting at start.
func NewHourlyIndex(start time.Time, periods int) (HourlyIndex, error) {
	if start.IsZero() || periods <= 0 {
		return nil, ErrEmptyIndex
	}
	index := make(HourlyIndex, periods)
	for i := range index {
		index[i] = start.Add(time.Duration(i) * time.Hour)
	}
	return index, nil
}

// NewYearIndex builds the 8760 hour index starting at January 1st 00:00 UTC.
func NewYearIndex(year int) (HourlyIndex, error) {
	if year < 1 || year > 9999 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidYear, year)
	}
	return NewHourlyIndex(time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC), HoursPerYear)
}

// Start returns the first timestamp.
func (ix HourlyIndex) Start() time.Time {
	if len(ix) == 0 {
		return time.Time{}
	}
	return ix[0]
}

// End returns the exclusive end of the last hour.
func (ix HourlyIndex) End() time.Time {
	if len(ix) == 0 {
		return time.Time{}
	}
	return ix[len(ix)-1].Add(time.Hour)
}

// Len returns the number of hours.
func (ix HourlyIndex) Len() int { return len(ix) }
