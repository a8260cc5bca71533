// Package tryfile reads hourly temperatures from test reference year (TRY)
// weather files.
package tryfile

import (
	"bufio"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	weather "heatdemand/internal/weather/domain"
)

const (
	// DefaultSkipRows is the number of header lines in a TRY file.
	DefaultSkipRows = 34
	// DefaultColumn is the zero-based position of the air temperature.
	DefaultColumn = 5
)

// Loader reads a temperature series from a TRY file on disk.
type Loader struct {
	path     string
	skipRows int
	column   int
}

// Option configures the loader.
type Option func(*Loader)

// WithSkipRows overrides the number of header lines.
func WithSkipRows(rows int) Option {
	return func(l *Loader) {
		if rows >= 0 {
			l.skipRows = rows
		}
	}
}

// WithColumn overrides the temperature column position.
func WithColumn(column int) Option {
	return func(l *Loader) {
		if column >= 0 {
			l.column = column
		}
	}
}

// NewLoader constructs a Loader for the given file.
func NewLoader(path string, opts ...Option) (*Loader, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("%w: empty path", weather.ErrDataFile)
	}
	loader := &Loader{
		path:     path,
		skipRows: DefaultSkipRows,
		column:   DefaultColumn,
	}
	for _, opt := range opts {
		opt(loader)
	}
	return loader, nil
}

// Path returns the file path.
func (l *Loader) Path() string { return l.path }

// LoadTemperature reads the whole file. The window is ignored since TRY rows
// carry no year; callers trim the series to the hours they need.
func (l *Loader) LoadTemperature(ctx context.Context, _ time.Time, _ int) (weather.TemperatureSeries, error) {
	file, err := os.Open(l.path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", weather.ErrDataFile, err)
	}
	defer file.Close()

	return Parse(ctx, file, l.skipRows, l.column)
}

// Parse extracts one column of a tab separated, comma-decimal table after
// discarding skipRows header lines.
func Parse(ctx context.Context, r io.Reader, skipRows, column int) (weather.TemperatureSeries, error) {
	if column < 0 {
		return nil, fmt.Errorf("%w: column %d", weather.ErrMissingColumn, column)
	}

	buffered := bufio.NewReader(r)
	for i := 0; i < skipRows; i++ {
		if _, err := buffered.ReadString('\n'); err != nil {
			if errors.Is(err, io.EOF) {
				return nil, fmt.Errorf("%w: header ended after %d lines", weather.ErrEmptySeries, i)
			}
			return nil, fmt.Errorf("%w: %v", weather.ErrDataFile, err)
		}
	}

	reader := csv.NewReader(buffered)
	reader.Comma = '\t'
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	series := make(weather.TemperatureSeries, 0, 8760)
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", weather.ErrDataFile, err)
		}
		line, _ := reader.FieldPos(0)
		line += skipRows

		if len(series)%1024 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		if isBlank(record) {
			continue
		}
		if column >= len(record) {
			return nil, fmt.Errorf("%w: line %d has %d fields, need column %d", weather.ErrMissingColumn, line, len(record), column)
		}

		value, err := parseDecimal(record[column])
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %q", weather.ErrNonNumeric, line, record[column])
		}
		series = append(series, value)
	}

	if len(series) == 0 {
		return nil, weather.ErrEmptySeries
	}
	return series, nil
}

func parseDecimal(raw string) (float64, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return 0, errors.New("empty cell")
	}
	value = strings.Replace(value, ",", ".", 1)
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(parsed) || math.IsInf(parsed, 0) {
		return 0, errors.New("non-finite value")
	}
	return parsed, nil
}

func isBlank(record []string) bool {
	for _, field := range record {
		if strings.TrimSpace(field) != "" {
			return false
		}
	}
	return true
}
