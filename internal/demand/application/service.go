package application

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	calendar "heatdemand/internal/calendar/domain"
	demand "heatdemand/internal/demand/domain"
	"heatdemand/internal/observability/metrics"
	weather "heatdemand/internal/weather/domain"
)

// TemperatureSource loads hourly temperatures covering [start, start+hours).
type TemperatureSource interface {
	LoadTemperature(ctx context.Context, start time.Time, hours int) (weather.TemperatureSeries, error)
}

// RunRepository persists completed runs.
type RunRepository interface {
	Save(ctx context.Context, run *demand.Run) error
}

// Progress reports per-building progress of a run.
type Progress interface {
	Start(total int)
	Increment()
	Finish(message string)
}

// Clock provides time.
type Clock interface {
	Now() time.Time
}

// IDFactory builds run identifiers.
type IDFactory interface {
	NewRunID() string
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now().UTC() }

type uuidFactory struct{}

func (uuidFactory) NewRunID() string { return uuid.NewString() }

// Plan is one generation request.
type Plan struct {
	Year      int
	Country   string
	Buildings []demand.Building
}

var (
	// ErrEmptyPlan is returned when a plan has no buildings.
	ErrEmptyPlan = errors.New("demand app: plan has no buildings")
	// ErrEmptyCountry is returned when a plan has no country.
	ErrEmptyCountry = errors.New("demand app: empty country")
)

// Validate checks every building before any work is done.
func (p Plan) Validate() error {
	if strings.TrimSpace(p.Country) == "" {
		return ErrEmptyCountry
	}
	if len(p.Buildings) == 0 {
		return ErrEmptyPlan
	}
	seen := make(map[string]struct{}, len(p.Buildings))
	for _, b := range p.Buildings {
		if err := b.Validate(); err != nil {
			return err
		}
		if _, dup := seen[b.ID]; dup {
			return fmt.Errorf("%w: %s", demand.ErrDuplicateBuilding, b.ID)
		}
		seen[b.ID] = struct{}{}
	}
	return nil
}

// Service runs the heat demand pipeline: temperatures, holidays, one
// generator call per building, aggregation into a table.
type Service struct {
	temperatures TemperatureSource
	holidays     calendar.Provider
	generator    demand.Generator
	repo         RunRepository
	progress     Progress
	clock        Clock
	ids          IDFactory
	logger       *log.Logger
}

// Option configures the service.
type Option func(*Service)

// WithRepository persists every successful run.
func WithRepository(repo RunRepository) Option {
	return func(s *Service) { s.repo = repo }
}

// WithProgress reports per-building progress.
func WithProgress(progress Progress) Option {
	return func(s *Service) { s.progress = progress }
}

// WithClock overrides the system clock.
func WithClock(clock Clock) Option {
	return func(s *Service) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// WithIDFactory overrides run id generation.
func WithIDFactory(ids IDFactory) Option {
	return func(s *Service) {
		if ids != nil {
			s.ids = ids
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *log.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

// NewService constructs a Service.
func NewService(temperatures TemperatureSource, holidays calendar.Provider, generator demand.Generator, opts ...Option) (*Service, error) {
	if temperatures == nil {
		return nil, errors.New("demand app: nil temperature source")
	}
	if holidays == nil {
		return nil, errors.New("demand app: nil holiday provider")
	}
	if generator == nil {
		return nil, errors.New("demand app: nil generator")
	}
	s := &Service{
		temperatures: temperatures,
		holidays:     holidays,
		generator:    generator,
		clock:        systemClock{},
		ids:          uuidFactory{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Run executes the pipeline. Nothing is persisted unless every building
// succeeds.
func (s *Service) Run(ctx context.Context, plan Plan) (*demand.Run, error) {
	started := time.Now()
	result := metrics.ResultSuccess
	defer func() {
		metrics.ObserveRun(s.generator.Name(), result, time.Since(started))
	}()

	run, err := s.run(ctx, plan)
	if err != nil {
		result = metrics.ResultError
		return nil, err
	}
	for _, total := range run.Totals() {
		metrics.SetAnnualDemand(total.BuildingID, total.AnnualDemand)
	}
	return run, nil
}

func (s *Service) run(ctx context.Context, plan Plan) (*demand.Run, error) {
	if err := plan.Validate(); err != nil {
		return nil, err
	}
	index, err := demand.NewYearIndex(plan.Year)
	if err != nil {
		return nil, err
	}

	series, err := s.temperatures.LoadTemperature(ctx, index.Start(), index.Len())
	if err != nil {
		return nil, fmt.Errorf("load temperature: %w", err)
	}
	series, err = series.Head(index.Len())
	if err != nil {
		return nil, fmt.Errorf("load temperature: %w", err)
	}

	holidays, err := s.holidays.Holidays(ctx, plan.Country, plan.Year)
	if err != nil {
		return nil, fmt.Errorf("holidays: %w", err)
	}
	s.logf("holidays %s %d: %d days", plan.Country, plan.Year, len(holidays))

	table, err := demand.NewTable(index)
	if err != nil {
		return nil, err
	}

	base := demand.ProfileRequest{Index: index, Holidays: holidays, Temperature: series}
	if err := s.fillTable(ctx, table, base, plan.Buildings); err != nil {
		return nil, err
	}

	buildings := make([]demand.Building, len(plan.Buildings))
	copy(buildings, plan.Buildings)
	run := &demand.Run{
		ID:          s.ids.NewRunID(),
		Year:        plan.Year,
		Country:     plan.Country,
		Generator:   s.generator.Name(),
		GeneratedAt: s.clock.Now(),
		Buildings:   buildings,
		Holidays:    holidays,
		Table:       table,
	}

	if s.repo != nil {
		if err := s.repo.Save(ctx, run); err != nil {
			return nil, fmt.Errorf("save run: %w", err)
		}
	}
	s.logf("run %s: %d buildings x %d hours with %s", run.ID, len(buildings), table.Len(), run.Generator)
	return run, nil
}

// fillTable generates one column per building. The progress reporter is
// finished on every return path.
func (s *Service) fillTable(ctx context.Context, table *demand.Table, base demand.ProfileRequest, buildings []demand.Building) (err error) {
	if s.progress != nil {
		s.progress.Start(len(buildings))
		defer func() {
			if err != nil {
				s.progress.Finish("\tProfile generation failed")
				return
			}
			s.progress.Finish("\tProfiles Generated")
		}()
	}
	for _, b := range buildings {
		req := base
		req.Building = b
		values, err := s.generator.Generate(ctx, req)
		if err != nil {
			return fmt.Errorf("generate %s: %w", b.ID, err)
		}
		if err := table.Add(b.ID, b.DisplayName(), values); err != nil {
			return fmt.Errorf("generate %s: %w", b.ID, err)
		}
		if s.progress != nil {
			s.progress.Increment()
		}
	}
	return nil
}

func (s *Service) logf(format string, args ...any) {
	if s.logger != nil {
		s.logger.Printf(format, args...)
	}
}
