package rules

import (
	"time"

	calendar "heatdemand/internal/calendar/domain"
)

// Rule yields one holiday for a year, or false when it does not apply.
type Rule func(year int) (calendar.Date, string, bool)

// Country is a named set of holiday rules.
type Country struct {
	Code    string
	Name    string
	Aliases []string
	Rules   []Rule
}

func fixed(month time.Month, day int, label string) Rule {
	return func(year int) (calendar.Date, string, bool) {
		return calendar.NewDate(year, month, day), label, true
	}
}

func easterOffset(days int, label string) Rule {
	return func(year int) (calendar.Date, string, bool) {
		return Easter(year).AddDays(days), label, true
	}
}

func since(first int, rule Rule) Rule {
	return func(year int) (calendar.Date, string, bool) {
		if year < first {
			return calendar.Date{}, "", false
		}
		return rule(year)
	}
}

func only(target int, rule Rule) Rule {
	return func(year int) (calendar.Date, string, bool) {
		if year != target {
			return calendar.Date{}, "", false
		}
		return rule(year)
	}
}

// Germany lists the nationwide public holidays.
var Germany = Country{
	Code:    "DE",
	Name:    "Germany",
	Aliases: []string{"DEU", "GERMANY", "DEUTSCHLAND"},
	Rules: []Rule{
		fixed(time.January, 1, "New year"),
		easterOffset(-2, "Good Friday"),
		easterOffset(1, "Easter Monday"),
		fixed(time.May, 1, "Labour Day"),
		easterOffset(39, "Ascension Thursday"),
		easterOffset(50, "Whit Monday"),
		since(1990, fixed(time.October, 3, "Day of German Unity")),
		only(2017, fixed(time.October, 31, "Reformation Day")),
		fixed(time.December, 25, "Christmas Day"),
		fixed(time.December, 26, "Second Christmas Day"),
	},
}

// Austria lists the nationwide public holidays.
var Austria = Country{
	Code:    "AT",
	Name:    "Austria",
	Aliases: []string{"AUT", "AUSTRIA", "OESTERREICH"},
	Rules: []Rule{
		fixed(time.January, 1, "New year"),
		fixed(time.January, 6, "Epiphany"),
		easterOffset(1, "Easter Monday"),
		fixed(time.May, 1, "State Holiday"),
		easterOffset(39, "Ascension Thursday"),
		easterOffset(50, "Whit Monday"),
		easterOffset(60, "Corpus Christi"),
		fixed(time.August, 15, "Assumption of Mary to Heaven"),
		fixed(time.October, 26, "National Holiday"),
		fixed(time.November, 1, "All Saints Day"),
		fixed(time.December, 8, "Immaculate Conception"),
		fixed(time.December, 25, "Christmas Day"),
		fixed(time.December, 26, "St. Stephen's Day"),
	},
}
