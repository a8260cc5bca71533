package calendar

import (
	"testing"
	"time"
)

func TestDateNormalisesOverflow(t *testing.T) {
	got := NewDate(2010, time.March, 32)
	want := Date{Year: 2010, Month: time.April, Day: 1}
	if got != want {
		t.Fatalf("expected %v, got %v", want, got)
	}
	if got.AddDays(-1).String() != "2010-03-31" {
		t.Fatalf("unexpected AddDays result: %s", got.AddDays(-1))
	}
}

func TestHolidaySetLookupIgnoresTimeOfDay(t *testing.T) {
	set := HolidaySet{NewDate(2010, time.December, 25): "Christmas Day"}

	if !set.IsHoliday(time.Date(2010, time.December, 25, 17, 0, 0, 0, time.UTC)) {
		t.Fatalf("expected Christmas afternoon to be a holiday")
	}
	if set.IsHoliday(time.Date(2010, time.December, 24, 23, 0, 0, 0, time.UTC)) {
		t.Fatalf("did not expect Christmas Eve to be a holiday")
	}
	label, ok := set.Label(time.Date(2010, time.December, 25, 0, 0, 0, 0, time.UTC))
	if !ok || label != "Christmas Day" {
		t.Fatalf("unexpected label %q (%v)", label, ok)
	}
}

func TestHolidaySetSortedAndMerge(t *testing.T) {
	base := HolidaySet{
		NewDate(2010, time.December, 25): "Christmas Day",
		NewDate(2010, time.January, 1):   "New year",
	}
	extra := HolidaySet{
		NewDate(2010, time.January, 1): "other label",
		NewDate(2010, time.June, 3):    "Corpus Christi",
		NewDate(2011, time.June, 23):   "Corpus Christi",
	}

	merged := base.Merge(extra).Year(2010)
	sorted := merged.Sorted()
	if len(sorted) != 3 {
		t.Fatalf("expected 3 holidays, got %d", len(sorted))
	}
	if sorted[0].Label != "New year" {
		t.Fatalf("expected base label to win, got %q", sorted[0].Label)
	}
	if sorted[1].Date.String() != "2010-06-03" || sorted[2].Date.String() != "2010-12-25" {
		t.Fatalf("unexpected order: %+v", sorted)
	}
}
