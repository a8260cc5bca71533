package weather

import (
	"errors"
	"fmt"
)

var (
	// ErrData is the root of every temperature input failure.
	ErrData = errors.New("weather: data error")
	// ErrDataFile is returned when the input cannot be opened or read.
	ErrDataFile = fmt.Errorf("%w: unreadable input", ErrData)
	// ErrMissingColumn is returned when a row does not contain the temperature column.
	ErrMissingColumn = fmt.Errorf("%w: missing temperature column", ErrData)
	// ErrNonNumeric is returned when a temperature cell cannot be parsed.
	ErrNonNumeric = fmt.Errorf("%w: non-numeric temperature", ErrData)
	// ErrEmptySeries is returned when no data rows follow the header.
	ErrEmptySeries = fmt.Errorf("%w: empty temperature series", ErrData)
	// ErrSeriesTooShort is returned when fewer values exist than hours requested.
	ErrSeriesTooShort = fmt.Errorf("%w: temperature series too short", ErrData)
)
