package demand

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidBuilding is the root of building configuration failures.
	ErrInvalidBuilding = errors.New("demand: invalid building")
	// ErrEmptyBuildingID is returned when a building has no identifier.
	ErrEmptyBuildingID = fmt.Errorf("%w: empty id", ErrInvalidBuilding)
	// ErrUnknownProfileType is returned for unsupported shlp type codes.
	ErrUnknownProfileType = fmt.Errorf("%w: unknown profile type", ErrInvalidBuilding)
	// ErrInvalidBuildingClass is returned when the building class is out of range.
	ErrInvalidBuildingClass = fmt.Errorf("%w: building class out of range", ErrInvalidBuilding)
	// ErrInvalidWindClass is returned when the wind class is not 0 or 1.
	ErrInvalidWindClass = fmt.Errorf("%w: wind class out of range", ErrInvalidBuilding)
	// ErrNegativeDemand is returned for a negative annual heat demand.
	ErrNegativeDemand = fmt.Errorf("%w: negative annual heat demand", ErrInvalidBuilding)

	// ErrInvalidYear is returned when an index cannot be built for the year.
	ErrInvalidYear = errors.New("demand: invalid year")
	// ErrEmptyIndex is returned when a table or request has no timestamps.
	ErrEmptyIndex = errors.New("demand: empty index")
	// ErrTemperatureLength is returned when temperatures do not cover the index.
	ErrTemperatureLength = errors.New("demand: temperature series does not cover index")
	// ErrLengthMismatch is returned when a sequence is not aligned to the index.
	ErrLengthMismatch = errors.New("demand: sequence length does not match index")
	// ErrDuplicateBuilding is returned when a building id is added twice.
	ErrDuplicateBuilding = errors.New("demand: duplicate building")
	// ErrBuildingNotFound is returned when a column is missing.
	ErrBuildingNotFound = errors.New("demand: building not found")
	// ErrDegenerateProfile is returned when a generator shape sums to zero.
	ErrDegenerateProfile = errors.New("demand: degenerate profile")
	// ErrRunNotFound is returned when a stored run cannot be found.
	ErrRunNotFound = errors.New("demand: run not found")
)
