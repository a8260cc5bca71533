package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	weather "heatdemand/internal/weather/domain"
)

const defaultWeatherTable = "weather_data"

// TemperatureRepository reads hourly temperatures stored per weather model.
type TemperatureRepository struct {
	db    *sqlx.DB
	table string
	model string
}

// RepositoryOption configures the repository.
type RepositoryOption func(*TemperatureRepository)

// WithTable overrides the default table name.
func WithTable(table string) RepositoryOption {
	return func(repo *TemperatureRepository) {
		if table != "" {
			repo.table = table
		}
	}
}

// NewTemperatureRepository wraps an open pgx-backed *sql.DB.
func NewTemperatureRepository(db *sql.DB, model string, opts ...RepositoryOption) (*TemperatureRepository, error) {
	if db == nil {
		return nil, errors.New("weather postgres: nil db")
	}
	if model == "" {
		return nil, errors.New("weather postgres: empty model name")
	}
	repo := &TemperatureRepository{
		db:    sqlx.NewDb(db, "pgx"),
		table: defaultWeatherTable,
		model: model,
	}
	for _, opt := range opts {
		opt(repo)
	}
	return repo, nil
}

type temperatureRow struct {
	Time        time.Time       `db:"m_time"`
	Temperature sql.NullFloat64 `db:"m_temperature"`
}

// LoadTemperature returns the hours in [start, start+hours) ordered by time.
func (r *TemperatureRepository) LoadTemperature(ctx context.Context, start time.Time, hours int) (weather.TemperatureSeries, error) {
	if start.IsZero() || hours <= 0 {
		return nil, fmt.Errorf("%w: invalid window", weather.ErrData)
	}
	end := start.Add(time.Duration(hours) * time.Hour)

	query := fmt.Sprintf(`
SELECT m_time, m_temperature
FROM %s
WHERE model_name = $1
	AND m_time >= $2
	AND m_time < $3
ORDER BY m_time`, r.table)

	var rows []temperatureRow
	if err := r.db.SelectContext(ctx, &rows, query, r.model, start.UTC(), end.UTC()); err != nil {
		return nil, fmt.Errorf("%w: %v", weather.ErrDataFile, err)
	}
	if len(rows) == 0 {
		return nil, weather.ErrEmptySeries
	}

	series := make(weather.TemperatureSeries, 0, len(rows))
	for _, row := range rows {
		if !row.Temperature.Valid {
			return nil, fmt.Errorf("%w: null temperature at %s", weather.ErrNonNumeric, row.Time.UTC().Format(time.RFC3339))
		}
		series = append(series, row.Temperature.Float64)
	}
	return series, nil
}
