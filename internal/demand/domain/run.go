package demand

import (
	"time"

	calendar "heatdemand/internal/calendar/domain"
)

// Run is the result of one generation pipeline execution.
type Run struct {
	ID          string
	Year        int
	Country     string
	Generator   string
	GeneratedAt time.Time
	Buildings   []Building
	Holidays    calendar.HolidaySet
	Table       *Table
}

// RunTotal pairs a generated annual sum with the configured demand.
type RunTotal struct {
	Total
	ProfileType ProfileType
	Configured  float64
}

// Deviation returns the relative difference to the configured demand.
func (t RunTotal) Deviation() float64 {
	if t.Configured == 0 {
		return 0
	}
	return (t.AnnualDemand - t.Configured) / t.Configured
}

// Totals returns annual sums in building order.
func (r *Run) Totals() []RunTotal {
	if r == nil || r.Table == nil {
		return nil
	}
	configured := make(map[string]Building, len(r.Buildings))
	for _, b := range r.Buildings {
		configured[b.ID] = b
	}
	totals := r.Table.Totals()
	out := make([]RunTotal, 0, len(totals))
	for _, total := range totals {
		b := configured[total.BuildingID]
		out = append(out, RunTotal{
			Total:       total,
			ProfileType: b.ProfileType,
			Configured:  b.AnnualHeatDemand,
		})
	}
	return out
}

// Summary returns the run without its hourly table.
func (r *Run) Summary() RunSummary {
	return RunSummary{
		ID:          r.ID,
		Year:        r.Year,
		Country:     r.Country,
		Generator:   r.Generator,
		GeneratedAt: r.GeneratedAt,
		Totals:      r.Totals(),
	}
}

// RunSummary is the listing view of a run.
type RunSummary struct {
	ID          string
	Year        int
	Country     string
	Generator   string
	GeneratedAt time.Time
	Totals      []RunTotal
}
