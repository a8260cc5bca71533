package rules

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	calendar "heatdemand/internal/calendar/domain"
)

func TestEaster(t *testing.T) {
	cases := []struct {
		year  int
		month time.Month
		day   int
	}{
		{2000, time.April, 23},
		{2008, time.March, 23},
		{2010, time.April, 4},
		{2019, time.April, 21},
		{2024, time.March, 31},
		{2038, time.April, 25},
	}
	for _, tc := range cases {
		got := Easter(tc.year)
		want := calendar.Date{Year: tc.year, Month: tc.month, Day: tc.day}
		if got != want {
			t.Fatalf("easter %d: expected %v, got %v", tc.year, want, got)
		}
	}
}

func TestGermany2010(t *testing.T) {
	set, err := NewProvider().Holidays(context.Background(), "DE", 2010)
	if err != nil {
		t.Fatalf("holidays: %v", err)
	}

	want := map[string]string{
		"2010-01-01": "New year",
		"2010-04-02": "Good Friday",
		"2010-04-05": "Easter Monday",
		"2010-05-01": "Labour Day",
		"2010-05-13": "Ascension Thursday",
		"2010-05-24": "Whit Monday",
		"2010-10-03": "Day of German Unity",
		"2010-12-25": "Christmas Day",
		"2010-12-26": "Second Christmas Day",
	}
	if len(set) != len(want) {
		t.Fatalf("expected %d holidays, got %d: %v", len(want), len(set), set.Sorted())
	}
	for _, h := range set.Sorted() {
		if want[h.Date.String()] != h.Label {
			t.Fatalf("unexpected holiday %s %q", h.Date, h.Label)
		}
	}
}

func TestGermanySpecialYears(t *testing.T) {
	p := NewProvider()

	set2017, err := p.Holidays(context.Background(), "germany", 2017)
	if err != nil {
		t.Fatalf("holidays: %v", err)
	}
	if label, ok := set2017[calendar.NewDate(2017, time.October, 31)]; !ok || label != "Reformation Day" {
		t.Fatalf("expected Reformation Day in 2017")
	}

	set2018, _ := p.Holidays(context.Background(), "DE", 2018)
	if _, ok := set2018[calendar.NewDate(2018, time.October, 31)]; ok {
		t.Fatalf("did not expect Reformation Day in 2018")
	}

	set1985, _ := p.Holidays(context.Background(), "DE", 1985)
	if _, ok := set1985[calendar.NewDate(1985, time.October, 3)]; ok {
		t.Fatalf("did not expect Day of German Unity before 1990")
	}
}

func TestAustria(t *testing.T) {
	set, err := NewProvider().Holidays(context.Background(), " at ", 2010)
	if err != nil {
		t.Fatalf("holidays: %v", err)
	}
	if len(set) != 13 {
		t.Fatalf("expected 13 holidays, got %d", len(set))
	}
	if label := set[calendar.NewDate(2010, time.June, 3)]; label != "Corpus Christi" {
		t.Fatalf("expected Corpus Christi on 2010-06-03, got %q", label)
	}
}

func TestUnsupportedCountry(t *testing.T) {
	_, err := NewProvider().Holidays(context.Background(), "XX", 2010)
	if !errors.Is(err, calendar.ErrUnsupportedCountry) {
		t.Fatalf("expected ErrUnsupportedCountry, got %v", err)
	}
	if !errors.Is(err, calendar.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}

func TestInvalidYear(t *testing.T) {
	_, err := NewProvider().Holidays(context.Background(), "DE", 1200)
	if !errors.Is(err, calendar.ErrInvalidYear) {
		t.Fatalf("expected ErrInvalidYear, got %v", err)
	}
}

func TestSupported(t *testing.T) {
	codes := NewProvider().Supported()
	if len(codes) != 2 || codes[0] != "AT" || codes[1] != "DE" {
		t.Fatalf("unexpected codes: %v", codes)
	}
}

func TestExtraHolidays(t *testing.T) {
	path := filepath.Join(t.TempDir(), "holidays.txt")
	content := "# regional\n2010-06-03,Corpus Christi\n\n2010-11-17\n2011-06-23,Corpus Christi\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	extra, err := LoadExtraHolidays(path)
	if err != nil {
		t.Fatalf("load extra: %v", err)
	}
	if len(extra) != 3 {
		t.Fatalf("expected 3 extra holidays, got %d", len(extra))
	}

	set, err := NewProvider(WithExtraHolidays(extra)).Holidays(context.Background(), "DE", 2010)
	if err != nil {
		t.Fatalf("holidays: %v", err)
	}
	if len(set) != 11 {
		t.Fatalf("expected 11 holidays, got %d", len(set))
	}
	if label := set[calendar.NewDate(2010, time.November, 17)]; label != defaultExtraLabel {
		t.Fatalf("expected default label, got %q", label)
	}
}

func TestExtraHolidaysInvalidLine(t *testing.T) {
	path := filepath.Join(t.TempDir(), "holidays.txt")
	if err := os.WriteFile(path, []byte("17.11.2010\n"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := LoadExtraHolidays(path); !errors.Is(err, calendar.ErrInvalidHolidayFile) {
		t.Fatalf("expected ErrInvalidHolidayFile, got %v", err)
	}
}
