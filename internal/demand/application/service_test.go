package application

import (
	"context"
	"errors"
	"math"
	"strings"
	"testing"
	"time"

	calendar "heatdemand/internal/calendar/domain"
	"heatdemand/internal/calendar/infrastructure/rules"
	demand "heatdemand/internal/demand/domain"
	"heatdemand/internal/demand/infrastructure/sigmoid"
	weather "heatdemand/internal/weather/domain"
)

type stubTemperatures struct {
	series weather.TemperatureSeries
	err    error
	start  time.Time
	hours  int
}

func (s *stubTemperatures) LoadTemperature(ctx context.Context, start time.Time, hours int) (weather.TemperatureSeries, error) {
	s.start = start
	s.hours = hours
	return s.series, s.err
}

type stubRepo struct {
	saved []*demand.Run
}

func (r *stubRepo) Save(ctx context.Context, run *demand.Run) error {
	r.saved = append(r.saved, run)
	return nil
}

type failingGenerator struct {
	failOn string
	calls  int
}

func (g *failingGenerator) Name() string { return "failing" }

func (g *failingGenerator) Generate(ctx context.Context, req demand.ProfileRequest) ([]float64, error) {
	g.calls++
	if req.Building.ID == g.failOn {
		return nil, errors.New("boom")
	}
	return make([]float64, req.Index.Len()), nil
}

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

type fixedIDs struct{}

func (fixedIDs) NewRunID() string { return "run-1" }

type countingProgress struct {
	started, increments int
	finished            bool
	message             string
}

func (p *countingProgress) Start(total int) { p.started = total }
func (p *countingProgress) Increment()      { p.increments++ }
func (p *countingProgress) Finish(msg string) {
	p.finished = true
	p.message = msg
}

func seasonalSeries() weather.TemperatureSeries {
	series := make(weather.TemperatureSeries, demand.HoursPerYear)
	for i := range series {
		day := float64(i / 24)
		series[i] = 9 - 11*math.Cos(2*math.Pi*(day-15)/365)
	}
	return series
}

func referencePlan() Plan {
	return Plan{
		Year:    2010,
		Country: "DE",
		Buildings: []demand.Building{
			{ID: "efh", Name: "EFH", ProfileType: demand.ProfileEFH, BuildingClass: 1, WindClass: 1, AnnualHeatDemand: 25000},
			{ID: "mfh", Name: "MFH", ProfileType: demand.ProfileMFH, BuildingClass: 2, WindClass: 0, AnnualHeatDemand: 80000},
			{ID: "ghd", Name: "ghd", ProfileType: demand.ProfileGHD, BuildingClass: 0, WindClass: 0, AnnualHeatDemand: 140000},
		},
	}
}

func newTestService(t *testing.T, temps TemperatureSource, gen demand.Generator, opts ...Option) *Service {
	t.Helper()
	opts = append([]Option{
		WithClock(fixedClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}),
		WithIDFactory(fixedIDs{}),
	}, opts...)
	svc, err := NewService(temps, rules.NewProvider(), gen, opts...)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func TestRunProducesFullYearTable(t *testing.T) {
	temps := &stubTemperatures{series: seasonalSeries()}
	repo := &stubRepo{}
	progress := &countingProgress{}
	svc := newTestService(t, temps, sigmoid.New(), WithRepository(repo), WithProgress(progress))

	run, err := svc.Run(context.Background(), referencePlan())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if temps.hours != demand.HoursPerYear {
		t.Fatalf("expected %d hours requested, got %d", demand.HoursPerYear, temps.hours)
	}
	if !temps.start.Equal(time.Date(2010, 1, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected start %s", temps.start)
	}
	if run.Table.Len() != demand.HoursPerYear {
		t.Fatalf("expected %d rows, got %d", demand.HoursPerYear, run.Table.Len())
	}
	index := run.Table.Index()
	for i := 1; i < index.Len(); i++ {
		if index[i].Sub(index[i-1]) != time.Hour {
			t.Fatalf("index gap at %d", i)
		}
	}
	plan := referencePlan()
	for i, total := range run.Table.Totals() {
		want := plan.Buildings[i].AnnualHeatDemand
		if total.BuildingID != plan.Buildings[i].ID {
			t.Fatalf("column order: got %s want %s", total.BuildingID, plan.Buildings[i].ID)
		}
		if math.Abs(total.AnnualDemand-want) > want*1e-6 {
			t.Fatalf("%s: sum %.3f want %.3f", total.BuildingID, total.AnnualDemand, want)
		}
	}
	if run.ID != "run-1" || run.Generator != sigmoid.Name {
		t.Fatalf("unexpected run metadata %+v", run.Summary())
	}
	if len(run.Holidays) != 9 {
		t.Fatalf("expected 9 holidays, got %d", len(run.Holidays))
	}
	if len(repo.saved) != 1 {
		t.Fatalf("expected run to be saved once, got %d", len(repo.saved))
	}
	if progress.started != 3 || progress.increments != 3 || !progress.finished {
		t.Fatalf("unexpected progress %+v", progress)
	}
}

func TestRunIsDeterministic(t *testing.T) {
	svc := newTestService(t, &stubTemperatures{series: seasonalSeries()}, sigmoid.New())
	first, err := svc.Run(context.Background(), referencePlan())
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	second, err := svc.Run(context.Background(), referencePlan())
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if !first.Table.Equal(second.Table) {
		t.Fatalf("expected identical tables")
	}
}

func TestRunUnsupportedCountry(t *testing.T) {
	repo := &stubRepo{}
	svc := newTestService(t, &stubTemperatures{series: seasonalSeries()}, sigmoid.New(), WithRepository(repo))
	plan := referencePlan()
	plan.Country = "Atlantis"

	_, err := svc.Run(context.Background(), plan)
	if !errors.Is(err, calendar.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
	if len(repo.saved) != 0 {
		t.Fatalf("expected nothing saved")
	}
}

func TestRunPropagatesDataError(t *testing.T) {
	temps := &stubTemperatures{err: weather.ErrMissingColumn}
	svc := newTestService(t, temps, sigmoid.New())

	_, err := svc.Run(context.Background(), referencePlan())
	if !errors.Is(err, weather.ErrData) {
		t.Fatalf("expected data error, got %v", err)
	}
}

func TestRunShortSeries(t *testing.T) {
	temps := &stubTemperatures{series: seasonalSeries()[:100]}
	svc := newTestService(t, temps, sigmoid.New())

	_, err := svc.Run(context.Background(), referencePlan())
	if !errors.Is(err, weather.ErrSeriesTooShort) {
		t.Fatalf("expected short series error, got %v", err)
	}
}

func TestRunValidatesBeforeGenerating(t *testing.T) {
	gen := &failingGenerator{}
	svc := newTestService(t, &stubTemperatures{series: seasonalSeries()}, gen)
	plan := referencePlan()
	plan.Buildings[2].ProfileType = "XYZ"

	_, err := svc.Run(context.Background(), plan)
	if !errors.Is(err, demand.ErrInvalidBuilding) {
		t.Fatalf("expected invalid building, got %v", err)
	}
	if gen.calls != 0 {
		t.Fatalf("expected no generator calls, got %d", gen.calls)
	}
}

func TestRunDoesNotSaveOnGeneratorFailure(t *testing.T) {
	gen := &failingGenerator{failOn: "mfh"}
	repo := &stubRepo{}
	svc := newTestService(t, &stubTemperatures{series: seasonalSeries()}, gen, WithRepository(repo))

	if _, err := svc.Run(context.Background(), referencePlan()); err == nil {
		t.Fatalf("expected error")
	}
	if len(repo.saved) != 0 {
		t.Fatalf("expected nothing saved, got %d", len(repo.saved))
	}
}

func TestRunFinishesProgressOnGeneratorFailure(t *testing.T) {
	gen := &failingGenerator{failOn: "mfh"}
	progress := &countingProgress{}
	svc := newTestService(t, &stubTemperatures{series: seasonalSeries()}, gen, WithProgress(progress))

	if _, err := svc.Run(context.Background(), referencePlan()); err == nil {
		t.Fatalf("expected error")
	}
	if !progress.finished {
		t.Fatalf("expected progress to be finished after failure")
	}
	if progress.increments != 1 || !strings.Contains(progress.message, "failed") {
		t.Fatalf("unexpected progress %+v", progress)
	}
}

func TestRunRejectsNonFiniteTemperature(t *testing.T) {
	series := seasonalSeries()
	series[42] = math.NaN()
	repo := &stubRepo{}
	svc := newTestService(t, &stubTemperatures{series: series}, sigmoid.New(), WithRepository(repo))

	_, err := svc.Run(context.Background(), referencePlan())
	if !errors.Is(err, weather.ErrNonNumeric) || !errors.Is(err, weather.ErrData) {
		t.Fatalf("expected non-numeric data error, got %v", err)
	}
	if len(repo.saved) != 0 {
		t.Fatalf("expected nothing saved, got %d", len(repo.saved))
	}
}

func TestPlanValidate(t *testing.T) {
	plan := referencePlan()
	plan.Buildings[1].ID = "efh"
	if err := plan.Validate(); !errors.Is(err, demand.ErrDuplicateBuilding) {
		t.Fatalf("expected duplicate building, got %v", err)
	}
	if err := (Plan{Year: 2010, Country: "DE"}).Validate(); !errors.Is(err, ErrEmptyPlan) {
		t.Fatalf("expected empty plan, got %v", err)
	}
	if err := (Plan{Year: 2010, Buildings: referencePlan().Buildings}).Validate(); !errors.Is(err, ErrEmptyCountry) {
		t.Fatalf("expected empty country, got %v", err)
	}
}

func TestNewServiceRejectsNil(t *testing.T) {
	if _, err := NewService(nil, rules.NewProvider(), sigmoid.New()); err == nil {
		t.Fatalf("expected error for nil temperatures")
	}
	if _, err := NewService(&stubTemperatures{}, nil, sigmoid.New()); err == nil {
		t.Fatalf("expected error for nil holidays")
	}
	if _, err := NewService(&stubTemperatures{}, rules.NewProvider(), nil); err == nil {
		t.Fatalf("expected error for nil generator")
	}
}
