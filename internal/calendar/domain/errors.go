package calendar

import (
	"errors"
	"fmt"
)

var (
	// ErrConfiguration is the root of calendar configuration failures.
	ErrConfiguration = errors.New("calendar: configuration error")
	// ErrUnsupportedCountry is returned for countries without holiday rules.
	ErrUnsupportedCountry = fmt.Errorf("%w: unsupported country", ErrConfiguration)
	// ErrInvalidYear is returned for years outside the Gregorian calendar.
	ErrInvalidYear = fmt.Errorf("%w: invalid year", ErrConfiguration)
	// ErrInvalidHolidayFile is returned when an extra holiday file cannot be parsed.
	ErrInvalidHolidayFile = fmt.Errorf("%w: invalid holiday file", ErrConfiguration)
)
