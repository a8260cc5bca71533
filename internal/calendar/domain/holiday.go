package calendar

import (
	"context"
	"sort"
	"time"
)

const dateLayout = "2006-01-02"

// Date is a civil calendar day without time of day or location.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// DateOf returns the civil date of t in its own location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// NewDate normalises overflowing values, e.g. March 32 becomes April 1.
func NewDate(year int, month time.Month, day int) Date {
	return DateOf(time.Date(year, month, day, 0, 0, 0, 0, time.UTC))
}

// ParseDate parses YYYY-MM-DD.
func ParseDate(value string) (Date, error) {
	t, err := time.Parse(dateLayout, value)
	if err != nil {
		return Date{}, err
	}
	return DateOf(t), nil
}

// Time returns midnight UTC of the date.
func (d Date) Time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

// AddDays shifts the date by n days.
func (d Date) AddDays(n int) Date {
	return NewDate(d.Year, d.Month, d.Day+n)
}

// Weekday returns the day of the week.
func (d Date) Weekday() time.Weekday { return d.Time().Weekday() }

// Before reports whether d is earlier than other.
func (d Date) Before(other Date) bool { return d.Time().Before(other.Time()) }

func (d Date) String() string { return d.Time().Format(dateLayout) }

// Holiday is a labelled non-working day.
type Holiday struct {
	Date  Date
	Label string
}

// HolidaySet maps dates to holiday labels.
type HolidaySet map[Date]string

// IsHoliday reports whether the civil date of t is a holiday.
func (s HolidaySet) IsHoliday(t time.Time) bool {
	_, ok := s[DateOf(t)]
	return ok
}

// Label returns the holiday label for the civil date of t.
func (s HolidaySet) Label(t time.Time) (string, bool) {
	label, ok := s[DateOf(t)]
	return label, ok
}

// Sorted returns the holidays in date order.
func (s HolidaySet) Sorted() []Holiday {
	out := make([]Holiday, 0, len(s))
	for date, label := range s {
		out = append(out, Holiday{Date: date, Label: label})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}

// Year returns the holidays falling in year.
func (s HolidaySet) Year(year int) HolidaySet {
	out := make(HolidaySet)
	for date, label := range s {
		if date.Year == year {
			out[date] = label
		}
	}
	return out
}

// Merge returns a new set with other added. Labels from s win on collisions.
func (s HolidaySet) Merge(other HolidaySet) HolidaySet {
	out := make(HolidaySet, len(s)+len(other))
	for date, label := range other {
		out[date] = label
	}
	for date, label := range s {
		out[date] = label
	}
	return out
}

// Provider computes public holidays for a country and year.
type Provider interface {
	Holidays(ctx context.Context, country string, year int) (HolidaySet, error)
}
