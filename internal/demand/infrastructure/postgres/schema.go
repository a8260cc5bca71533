package postgres

import (
	"context"
	"database/sql"
	"errors"
)

// Schema creates the run tables.
const Schema = `
CREATE TABLE IF NOT EXISTS heat_demand_runs (
	id TEXT PRIMARY KEY,
	year INTEGER NOT NULL,
	country TEXT NOT NULL,
	generator TEXT NOT NULL,
	index_start TIMESTAMPTZ NOT NULL,
	hours INTEGER NOT NULL,
	generated_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS heat_demand_buildings (
	run_id TEXT NOT NULL REFERENCES heat_demand_runs(id) ON DELETE CASCADE,
	position INTEGER NOT NULL,
	building_id TEXT NOT NULL,
	name TEXT NOT NULL,
	shlp_type TEXT NOT NULL,
	building_class INTEGER NOT NULL,
	wind_class INTEGER NOT NULL,
	annual_heat_demand DOUBLE PRECISION NOT NULL,
	PRIMARY KEY (run_id, building_id)
);

CREATE TABLE IF NOT EXISTS heat_demand_hourly (
	run_id TEXT NOT NULL REFERENCES heat_demand_runs(id) ON DELETE CASCADE,
	building_id TEXT NOT NULL,
	hour_index INTEGER NOT NULL,
	demand_kwh DOUBLE PRECISION NOT NULL,
	PRIMARY KEY (run_id, building_id, hour_index)
);

CREATE TABLE IF NOT EXISTS heat_demand_holidays (
	run_id TEXT NOT NULL REFERENCES heat_demand_runs(id) ON DELETE CASCADE,
	day DATE NOT NULL,
	label TEXT NOT NULL,
	PRIMARY KEY (run_id, day)
);
`

// EnsureSchema applies Schema.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	if db == nil {
		return errors.New("run repo: nil db")
	}
	_, err := db.ExecContext(ctx, Schema)
	return err
}
