// Package sigmoid generates heat demand profiles with a BDEW style sigmoid
// temperature dependency normalised to the annual demand.
package sigmoid

import (
	"context"
	"fmt"
	"math"
	"time"

	"gonum.org/v1/gonum/floats"

	calendar "heatdemand/internal/calendar/domain"
	demand "heatdemand/internal/demand/domain"
)

// Name identifies the generator in runs and configuration.
const Name = "bdew-sigmoid"

// allocation temperature weights for the current and three previous days
var allocationWeights = [4]float64{1, 0.5, 0.25, 0.125}

// Generator implements demand.Generator.
type Generator struct{}

// New constructs a Generator.
func New() *Generator { return &Generator{} }

// Name returns the generator name.
func (g *Generator) Name() string { return Name }

// Generate returns one value per index hour summing to the annual demand.
func (g *Generator) Generate(ctx context.Context, req demand.ProfileRequest) ([]float64, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	b := req.Building
	params, ok := ParametersFor(b.ProfileType, b.WindClass)
	if !ok {
		return nil, fmt.Errorf("%w: %s", demand.ErrUnknownProfileType, b.ProfileType)
	}

	dayOf, means := dailyMeans(req)
	alloc := allocationTemperatures(means)
	shape := intradayShape(b)

	profile := make([]float64, len(req.Index))
	for i, ts := range req.Index {
		weekday := ts.Weekday()
		if req.Holidays.IsHoliday(ts) {
			weekday = time.Sunday
		}
		daily := params.Value(alloc[dayOf[i]]) * weekdayFactor(b.ProfileType, weekday)
		profile[i] = daily * shape[ts.Hour()]
	}

	total := floats.Sum(profile)
	if !(total > 0) || math.IsInf(total, 0) {
		return nil, fmt.Errorf("%w: %s sums to %v", demand.ErrDegenerateProfile, b.ID, total)
	}
	floats.Scale(b.AnnualHeatDemand/total, profile)
	return profile, nil
}

// dailyMeans groups index hours by civil day and returns, per hour, the day
// number together with the mean temperature of every day.
func dailyMeans(req demand.ProfileRequest) ([]int, []float64) {
	dayOf := make([]int, len(req.Index))
	var sums []float64
	var counts []int
	var current calendar.Date
	for i, ts := range req.Index {
		date := calendar.DateOf(ts)
		if i == 0 || date != current {
			current = date
			sums = append(sums, 0)
			counts = append(counts, 0)
		}
		d := len(sums) - 1
		dayOf[i] = d
		sums[d] += req.Temperature[i]
		counts[d]++
	}

	means := make([]float64, len(sums))
	for d := range sums {
		means[d] = sums[d] / float64(counts[d])
	}
	return dayOf, means
}

// allocationTemperatures applies the geometric series over the current and
// previous three days. Days before the first one reuse the first day.
func allocationTemperatures(means []float64) []float64 {
	var norm float64
	for _, w := range allocationWeights {
		norm += w
	}

	alloc := make([]float64, len(means))
	for d := range means {
		var sum float64
		for k, w := range allocationWeights {
			src := d - k
			if src < 0 {
				src = 0
			}
			sum += w * means[src]
		}
		alloc[d] = sum / norm
	}
	return alloc
}
