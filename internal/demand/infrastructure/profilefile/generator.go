// Package profilefile scales pre-computed hourly profile fractions, read from
// a CSV with one column per profile type, to the annual demand.
package profilefile

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	demand "heatdemand/internal/demand/domain"
)

// Name identifies the generator in runs and configuration.
const Name = "profile-file"

var (
	// ErrInvalidProfileFile is returned when the CSV cannot be used.
	ErrInvalidProfileFile = errors.New("profilefile: invalid profile file")
	// ErrProfileNotFound is returned when no column exists for a profile type.
	ErrProfileNotFound = errors.New("profilefile: profile type not found")
)

// Generator implements demand.Generator from a fraction matrix.
type Generator struct {
	fractions *mat.Dense // hours x profile types
	columns   map[demand.ProfileType]int
}

// Load reads the profile file at path.
func Load(path string) (*Generator, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidProfileFile, err)
	}
	defer f.Close()

	return Parse(f)
}

// Parse reads a header row of profile type codes followed by one row of
// fractions per hour.
func Parse(r io.Reader) (*Generator, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = 0
	raw, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidProfileFile, err)
	}
	if len(raw) < 2 {
		return nil, fmt.Errorf("%w: no data rows", ErrInvalidProfileFile)
	}

	header := raw[0]
	columns := make(map[demand.ProfileType]int, len(header))
	for j, code := range header {
		profile, err := demand.ParseProfileType(code)
		if err != nil {
			return nil, fmt.Errorf("%w: header column %d: %v", ErrInvalidProfileFile, j+1, err)
		}
		if _, dup := columns[profile]; dup {
			return nil, fmt.Errorf("%w: duplicate column %s", ErrInvalidProfileFile, profile)
		}
		columns[profile] = j
	}

	rows := len(raw) - 1
	fractions := mat.NewDense(rows, len(header), nil)
	for i := 1; i < len(raw); i++ {
		for j, cell := range raw[i] {
			value, err := strconv.ParseFloat(strings.TrimSpace(cell), 64)
			if err != nil {
				return nil, fmt.Errorf("%w: row %d column %d: %v", ErrInvalidProfileFile, i+1, j+1, err)
			}
			if math.IsNaN(value) || math.IsInf(value, 0) {
				return nil, fmt.Errorf("%w: row %d column %d: non-finite fraction", ErrInvalidProfileFile, i+1, j+1)
			}
			if value < 0 {
				return nil, fmt.Errorf("%w: row %d column %d: negative fraction", ErrInvalidProfileFile, i+1, j+1)
			}
			fractions.Set(i-1, j, value)
		}
	}

	return &Generator{fractions: fractions, columns: columns}, nil
}

// Name returns the generator name.
func (g *Generator) Name() string { return Name }

// Hours returns the number of rows in the profile file.
func (g *Generator) Hours() int {
	rows, _ := g.fractions.Dims()
	return rows
}

// Generate normalises the column of the building's profile type over the
// index hours and scales it to the annual demand.
func (g *Generator) Generate(ctx context.Context, req demand.ProfileRequest) ([]float64, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	b := req.Building
	j, ok := g.columns[b.ProfileType]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrProfileNotFound, b.ProfileType)
	}
	hours := len(req.Index)
	if g.Hours() < hours {
		return nil, fmt.Errorf("%w: file has %d rows, need %d", demand.ErrLengthMismatch, g.Hours(), hours)
	}

	column := mat.Col(nil, j, g.fractions)[:hours]
	total := floats.Sum(column)
	if !(total > 0) || math.IsInf(total, 0) {
		return nil, fmt.Errorf("%w: %s column sums to %v", demand.ErrDegenerateProfile, b.ProfileType, total)
	}

	profile := mat.NewVecDense(hours, nil)
	profile.ScaleVec(b.AnnualHeatDemand/total, mat.NewVecDense(hours, column))
	return profile.RawVector().Data, nil
}
