package rules

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	calendar "heatdemand/internal/calendar/domain"
)

const defaultExtraLabel = "Extra holiday"

// LoadExtraHolidays reads one `YYYY-MM-DD[,label]` entry per line.
// Empty lines and lines starting with # are skipped.
func LoadExtraHolidays(path string) (calendar.HolidaySet, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", calendar.ErrInvalidHolidayFile, err)
	}
	defer f.Close()

	set := make(calendar.HolidaySet)
	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		rawDate, label, _ := strings.Cut(line, ",")
		date, err := calendar.ParseDate(strings.TrimSpace(rawDate))
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", calendar.ErrInvalidHolidayFile, lineNo, err)
		}
		label = strings.TrimSpace(label)
		if label == "" {
			label = defaultExtraLabel
		}
		set[date] = label
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", calendar.ErrInvalidHolidayFile, err)
	}
	return set, nil
}
