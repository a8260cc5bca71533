package tryfile

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	weather "heatdemand/internal/weather/domain"
)

func writeTRY(t *testing.T, rows []string) string {
	t.Helper()
	var b strings.Builder
	for i := 0; i < DefaultSkipRows; i++ {
		fmt.Fprintf(&b, "header line %d\n", i+1)
	}
	for _, row := range rows {
		b.WriteString(row)
		b.WriteString("\n")
	}
	path := filepath.Join(t.TempDir(), "TRY2015_test_Jahr.dat")
	if err := os.WriteFile(path, []byte(b.String()), 0o600); err != nil {
		t.Fatalf("write file: %v", err)
	}
	return path
}

func row(temp string) string {
	return strings.Join([]string{"3936500", "2449500", "1", "1", "1", temp, "972", "180", "2,3"}, "\t")
}

func TestLoaderParsesCommaDecimal(t *testing.T) {
	path := writeTRY(t, []string{row("-1,5"), row(" 2,25 "), row("10")})
	loader, err := NewLoader(path)
	if err != nil {
		t.Fatalf("new loader: %v", err)
	}

	series, err := loader.LoadTemperature(context.Background(), time.Time{}, 0)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	want := []float64{-1.5, 2.25, 10}
	if len(series) != len(want) {
		t.Fatalf("expected %d values, got %d", len(want), len(series))
	}
	for i := range want {
		if series[i] != want[i] {
			t.Fatalf("value %d: expected %v, got %v", i, want[i], series[i])
		}
	}
}

func TestLoaderSkipsBlankLines(t *testing.T) {
	path := writeTRY(t, []string{row("1,0"), "", row("2,0")})
	loader, _ := NewLoader(path)

	series, err := loader.LoadTemperature(context.Background(), time.Time{}, 0)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(series) != 2 {
		t.Fatalf("expected 2 values, got %d", len(series))
	}
}

func TestLoaderMissingColumn(t *testing.T) {
	path := writeTRY(t, []string{row("1,0"), "3936500\t2449500\t1"})
	loader, _ := NewLoader(path)

	series, err := loader.LoadTemperature(context.Background(), time.Time{}, 0)
	if !errors.Is(err, weather.ErrMissingColumn) {
		t.Fatalf("expected ErrMissingColumn, got %v", err)
	}
	if !errors.Is(err, weather.ErrData) {
		t.Fatalf("expected data error, got %v", err)
	}
	if series != nil {
		t.Fatalf("expected no series on failure, got %v", series)
	}
}

func TestLoaderNonNumeric(t *testing.T) {
	path := writeTRY(t, []string{row("1,0"), row("warm")})
	loader, _ := NewLoader(path)

	_, err := loader.LoadTemperature(context.Background(), time.Time{}, 0)
	if !errors.Is(err, weather.ErrNonNumeric) {
		t.Fatalf("expected ErrNonNumeric, got %v", err)
	}
	if !strings.Contains(err.Error(), "line 36") {
		t.Fatalf("expected line number in error, got %v", err)
	}
}

func TestParseRejectsNonFiniteValues(t *testing.T) {
	for _, cell := range []string{"NaN", "+Inf", "-inf", "Infinity"} {
		input := "header\n1\t2,5\n2\t" + cell + "\n"
		series, err := Parse(context.Background(), strings.NewReader(input), 1, 1)
		if !errors.Is(err, weather.ErrNonNumeric) {
			t.Fatalf("%s: expected ErrNonNumeric, got %v (series %v)", cell, err, series)
		}
		if !strings.Contains(err.Error(), "line 3") {
			t.Fatalf("%s: expected line number in error, got %v", cell, err)
		}
	}
}

func TestLoaderEmptyCellIsNotZero(t *testing.T) {
	path := writeTRY(t, []string{row("")})
	loader, _ := NewLoader(path)

	_, err := loader.LoadTemperature(context.Background(), time.Time{}, 0)
	if !errors.Is(err, weather.ErrNonNumeric) {
		t.Fatalf("expected ErrNonNumeric, got %v", err)
	}
}

func TestLoaderMissingFile(t *testing.T) {
	loader, _ := NewLoader(filepath.Join(t.TempDir(), "missing.dat"))

	_, err := loader.LoadTemperature(context.Background(), time.Time{}, 0)
	if !errors.Is(err, weather.ErrDataFile) {
		t.Fatalf("expected ErrDataFile, got %v", err)
	}
}

func TestLoaderHeaderOnly(t *testing.T) {
	path := writeTRY(t, nil)
	loader, _ := NewLoader(path)

	_, err := loader.LoadTemperature(context.Background(), time.Time{}, 0)
	if !errors.Is(err, weather.ErrEmptySeries) {
		t.Fatalf("expected ErrEmptySeries, got %v", err)
	}
}

func TestParseCustomLayout(t *testing.T) {
	input := "skip\n1\t-3,5\n2\t4,5\n"
	series, err := Parse(context.Background(), strings.NewReader(input), 1, 1)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(series) != 2 || series[0] != -3.5 || series[1] != 4.5 {
		t.Fatalf("unexpected series: %v", series)
	}
}

func TestNewLoaderRejectsEmptyPath(t *testing.T) {
	if _, err := NewLoader("  "); !errors.Is(err, weather.ErrDataFile) {
		t.Fatalf("expected ErrDataFile, got %v", err)
	}
}
