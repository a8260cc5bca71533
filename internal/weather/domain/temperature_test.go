package weather

import (
	"errors"
	"testing"
)

func TestTemperatureSeriesHead(t *testing.T) {
	series := TemperatureSeries{1, 2, 3, 4}

	head, err := series.Head(3)
	if err != nil {
		t.Fatalf("head: %v", err)
	}
	if len(head) != 3 || head[2] != 3 {
		t.Fatalf("unexpected head: %v", head)
	}
	head[0] = 99
	if series[0] != 1 {
		t.Fatalf("head must not alias the source series")
	}

	if _, err := series.Head(5); !errors.Is(err, ErrSeriesTooShort) {
		t.Fatalf("expected ErrSeriesTooShort, got %v", err)
	}
	if _, err := series.Head(5); !errors.Is(err, ErrData) {
		t.Fatalf("expected data error, got %v", err)
	}
}

func TestTemperatureSeriesMean(t *testing.T) {
	if got := (TemperatureSeries{}).Mean(); got != 0 {
		t.Fatalf("expected 0 for empty series, got %v", got)
	}
	if got := (TemperatureSeries{-2, 4}).Mean(); got != 1 {
		t.Fatalf("expected 1, got %v", got)
	}
}
