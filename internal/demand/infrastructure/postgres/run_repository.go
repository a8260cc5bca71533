package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	calendar "heatdemand/internal/calendar/domain"
	demand "heatdemand/internal/demand/domain"
)

const (
	defaultBatchSize = 1000
	// Postgres accepts at most 65535 bind parameters per statement and each
	// hourly row uses four.
	maxBatchSize = 65535 / 4
)

// RunRepository persists runs with their hourly values.
type RunRepository struct {
	db        *sql.DB
	batchSize int
}

// RepositoryOption configures the repository.
type RepositoryOption func(*RunRepository)

// WithBatchSize sets how many hourly rows go into one INSERT. Sizes above
// the bind parameter limit are clamped.
func WithBatchSize(size int) RepositoryOption {
	return func(repo *RunRepository) {
		if size > 0 {
			repo.batchSize = min(size, maxBatchSize)
		}
	}
}

// NewRunRepository constructs a repository.
func NewRunRepository(db *sql.DB, opts ...RepositoryOption) *RunRepository {
	repo := &RunRepository{db: db, batchSize: defaultBatchSize}
	for _, opt := range opts {
		opt(repo)
	}
	return repo
}

// Save writes the run, its buildings, holidays and hourly values in one
// transaction.
func (r *RunRepository) Save(ctx context.Context, run *demand.Run) error {
	if r == nil || r.db == nil {
		return errors.New("run repo: nil db")
	}
	if run == nil || run.Table == nil {
		return errors.New("run repo: nil run")
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := r.save(ctx, tx, run); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

func (r *RunRepository) save(ctx context.Context, tx *sql.Tx, run *demand.Run) error {
	_, err := tx.ExecContext(ctx, `
INSERT INTO heat_demand_runs (
	id, year, country, generator, index_start, hours, generated_at
) VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		run.ID, run.Year, run.Country, run.Generator, run.Table.Index().Start(), run.Table.Len(), run.GeneratedAt.UTC())
	if err != nil {
		return err
	}

	names := make(map[string]string, len(run.Buildings))
	for _, col := range run.Table.Columns() {
		names[col.BuildingID] = col.Name
	}
	for i, b := range run.Buildings {
		name := names[b.ID]
		if name == "" {
			name = b.DisplayName()
		}
		_, err := tx.ExecContext(ctx, `
INSERT INTO heat_demand_buildings (
	run_id, position, building_id, name, shlp_type, building_class, wind_class, annual_heat_demand
) VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
			run.ID, i, b.ID, name, string(b.ProfileType), b.BuildingClass, b.WindClass, b.AnnualHeatDemand)
		if err != nil {
			return err
		}
	}

	for _, h := range run.Holidays.Sorted() {
		_, err := tx.ExecContext(ctx, `
INSERT INTO heat_demand_holidays (run_id, day, label) VALUES ($1,$2,$3)`,
			run.ID, h.Date.Time(), h.Label)
		if err != nil {
			return err
		}
	}

	for _, col := range run.Table.Columns() {
		for offset := 0; offset < len(col.Values); offset += r.batchSize {
			end := offset + r.batchSize
			if end > len(col.Values) {
				end = len(col.Values)
			}
			query, args := hourlyInsert(run.ID, col.BuildingID, offset, col.Values[offset:end])
			if _, err := tx.ExecContext(ctx, query, args...); err != nil {
				return fmt.Errorf("insert hourly %s: %w", col.BuildingID, err)
			}
		}
	}
	return nil
}

func hourlyInsert(runID, buildingID string, offset int, values []float64) (string, []any) {
	var b strings.Builder
	b.WriteString("INSERT INTO heat_demand_hourly (run_id, building_id, hour_index, demand_kwh) VALUES ")
	args := make([]any, 0, len(values)*4)
	for i, v := range values {
		if i > 0 {
			b.WriteString(",")
		}
		n := len(args)
		fmt.Fprintf(&b, "($%d,$%d,$%d,$%d)", n+1, n+2, n+3, n+4)
		args = append(args, runID, buildingID, offset+i, v)
	}
	return b.String(), args
}

// Get loads a run including its hourly table.
func (r *RunRepository) Get(ctx context.Context, id string) (*demand.Run, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("run repo: nil db")
	}
	run := &demand.Run{ID: id}
	var start time.Time
	var hours int
	err := r.db.QueryRowContext(ctx, `
SELECT year, country, generator, index_start, hours, generated_at
FROM heat_demand_runs
WHERE id = $1`, id).Scan(&run.Year, &run.Country, &run.Generator, &start, &hours, &run.GeneratedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, demand.ErrRunNotFound
	}
	if err != nil {
		return nil, err
	}
	run.GeneratedAt = run.GeneratedAt.UTC()

	if run.Buildings, err = r.listBuildings(ctx, id); err != nil {
		return nil, err
	}
	if run.Holidays, err = r.listHolidays(ctx, id); err != nil {
		return nil, err
	}

	index, err := demand.NewHourlyIndex(start.UTC(), hours)
	if err != nil {
		return nil, err
	}
	table, err := demand.NewTable(index)
	if err != nil {
		return nil, err
	}
	for _, b := range run.Buildings {
		values, err := r.listHourly(ctx, id, b.ID, hours)
		if err != nil {
			return nil, err
		}
		if err := table.Add(b.ID, b.DisplayName(), values); err != nil {
			return nil, err
		}
	}
	run.Table = table
	return run, nil
}

func (r *RunRepository) listBuildings(ctx context.Context, runID string) ([]demand.Building, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT building_id, name, shlp_type, building_class, wind_class, annual_heat_demand
FROM heat_demand_buildings
WHERE run_id = $1
ORDER BY position ASC`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []demand.Building
	for rows.Next() {
		var b demand.Building
		var profile string
		if err := rows.Scan(&b.ID, &b.Name, &profile, &b.BuildingClass, &b.WindClass, &b.AnnualHeatDemand); err != nil {
			return nil, err
		}
		b.ProfileType = demand.ProfileType(profile)
		result = append(result, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *RunRepository) listHolidays(ctx context.Context, runID string) (calendar.HolidaySet, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT day, label
FROM heat_demand_holidays
WHERE run_id = $1`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make(calendar.HolidaySet)
	for rows.Next() {
		var day time.Time
		var label string
		if err := rows.Scan(&day, &label); err != nil {
			return nil, err
		}
		result[calendar.NewDate(day.Year(), day.Month(), day.Day())] = label
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *RunRepository) listHourly(ctx context.Context, runID, buildingID string, hours int) ([]float64, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT demand_kwh
FROM heat_demand_hourly
WHERE run_id = $1 AND building_id = $2
ORDER BY hour_index ASC`, runID, buildingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	values := make([]float64, 0, hours)
	for rows.Next() {
		var v float64
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		values = append(values, v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return values, nil
}

// List returns run summaries, newest first. Totals are summed in SQL.
func (r *RunRepository) List(ctx context.Context) ([]demand.RunSummary, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("run repo: nil db")
	}
	rows, err := r.db.QueryContext(ctx, `
SELECT r.id, r.year, r.country, r.generator, r.generated_at,
	b.building_id, b.name, b.shlp_type, b.annual_heat_demand,
	COALESCE((SELECT SUM(h.demand_kwh) FROM heat_demand_hourly h
		WHERE h.run_id = r.id AND h.building_id = b.building_id), 0)
FROM heat_demand_runs r
JOIN heat_demand_buildings b ON b.run_id = r.id
ORDER BY r.generated_at DESC, r.id ASC, b.position ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []demand.RunSummary
	for rows.Next() {
		var s demand.RunSummary
		var t demand.RunTotal
		var profile string
		if err := rows.Scan(&s.ID, &s.Year, &s.Country, &s.Generator, &s.GeneratedAt,
			&t.BuildingID, &t.Name, &profile, &t.Configured, &t.AnnualDemand); err != nil {
			return nil, err
		}
		t.ProfileType = demand.ProfileType(profile)
		if n := len(result); n > 0 && result[n-1].ID == s.ID {
			result[n-1].Totals = append(result[n-1].Totals, t)
			continue
		}
		s.GeneratedAt = s.GeneratedAt.UTC()
		s.Totals = []demand.RunTotal{t}
		result = append(result, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
