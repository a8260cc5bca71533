package sigmoid

import (
	"math"
	"time"

	demand "heatdemand/internal/demand/domain"
)

const (
	referenceTemperature = 40.0
	maxAllocationTemp    = 35.0

	windyAmplitude = 1.08
	windyBaseLoad  = 0.92
)

// Parameters are the coefficients of h(T) = A / (1 + (B / (T - 40))^C) + D.
type Parameters struct {
	A float64
	B float64
	C float64
	D float64
}

// Value evaluates the daily heat demand factor at allocation temperature t.
func (p Parameters) Value(t float64) float64 {
	if t > maxAllocationTemp {
		t = maxAllocationTemp
	}
	return p.A/(1+math.Pow(p.B/(t-referenceTemperature), p.C)) + p.D
}

func (p Parameters) windy() Parameters {
	p.A *= windyAmplitude
	p.D *= windyBaseLoad
	return p
}

// calm location coefficients per profile type
var calmParameters = map[demand.ProfileType]Parameters{
	demand.ProfileEFH: {A: 1.6209544, B: -37.1833141, C: 5.6727847, D: 0.0716431},
	demand.ProfileMFH: {A: 1.2328655, B: -34.7213605, C: 5.8164304, D: 0.0873352},
	demand.ProfileGMK: {A: 1.4202419, B: -34.8806130, C: 6.2932405, D: 0.0246580},
	demand.ProfileGPD: {A: 1.4351000, B: -35.6000000, C: 6.1000000, D: 0.0300000},
	demand.ProfileGHA: {A: 1.8000000, B: -37.0000000, C: 6.0000000, D: 0.0300000},
	demand.ProfileGBD: {A: 1.7000000, B: -36.5000000, C: 6.3000000, D: 0.0250000},
	demand.ProfileGKO: {A: 1.9000000, B: -36.6000000, C: 6.5000000, D: 0.0200000},
	demand.ProfileGBH: {A: 1.5000000, B: -35.2000000, C: 6.0000000, D: 0.0550000},
	demand.ProfileGGA: {A: 1.3000000, B: -35.0000000, C: 5.8000000, D: 0.0800000},
	demand.ProfileGBA: {A: 0.9500000, B: -34.0000000, C: 5.5000000, D: 0.2000000},
	demand.ProfileGWA: {A: 0.8000000, B: -33.5000000, C: 5.3000000, D: 0.3000000},
	demand.ProfileGGB: {A: 1.9500000, B: -37.5000000, C: 6.4000000, D: 0.0200000},
	demand.ProfileGMF: {A: 1.5500000, B: -36.0000000, C: 6.0000000, D: 0.0400000},
	demand.ProfileGHD: {A: 1.3819663, B: -37.4124155, C: 6.1723179, D: 0.0396284},
}

// ParametersFor returns the coefficients for a profile type and wind class.
func ParametersFor(profile demand.ProfileType, windClass int) (Parameters, bool) {
	p, ok := calmParameters[profile]
	if !ok {
		return Parameters{}, false
	}
	if windClass > 0 {
		return p.windy(), true
	}
	return p, true
}

var commercialWeekday = map[time.Weekday]float64{
	time.Monday:    1.0358,
	time.Tuesday:   1.0232,
	time.Wednesday: 1.0252,
	time.Thursday:  1.0295,
	time.Friday:    1.0253,
	time.Saturday:  0.9675,
	time.Sunday:    0.8935,
}

func weekdayFactor(profile demand.ProfileType, day time.Weekday) float64 {
	if profile.IsResidential() {
		return 1
	}
	return commercialWeekday[day]
}

var residentialShape = [24]float64{
	0.62, 0.58, 0.56, 0.56, 0.62, 0.85, 1.25, 1.38, 1.30, 1.15, 1.05, 1.00,
	0.98, 0.95, 0.95, 0.98, 1.05, 1.18, 1.30, 1.32, 1.25, 1.10, 0.92, 0.75,
}

var commercialShape = [24]float64{
	0.55, 0.52, 0.52, 0.55, 0.65, 0.95, 1.35, 1.55, 1.50, 1.40, 1.32, 1.25,
	1.20, 1.20, 1.18, 1.15, 1.10, 1.00, 0.90, 0.80, 0.72, 0.65, 0.60, 0.57,
}

// intradayShape returns 24 hourly weights with mean 1. Residential shapes are
// flattened by 4% per building class step.
func intradayShape(b demand.Building) [24]float64 {
	base := commercialShape
	amplitude := 1.0
	if b.ProfileType.IsResidential() {
		base = residentialShape
		amplitude = 1 - 0.04*float64(b.BuildingClass)
	}

	var mean float64
	for _, w := range base {
		mean += w
	}
	mean /= 24

	var shape [24]float64
	for h, w := range base {
		shape[h] = 1 + amplitude*(w/mean-1)
	}
	return shape
}
