package postgres

import (
	"context"
	"database/sql"
	"math"
	"os"
	"strings"
	"testing"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	calendar "heatdemand/internal/calendar/domain"
	demand "heatdemand/internal/demand/domain"
)

func TestHourlyInsertPlaceholders(t *testing.T) {
	query, args := hourlyInsert("run-1", "efh", 1000, []float64{1.5, 2.5})
	want := "INSERT INTO heat_demand_hourly (run_id, building_id, hour_index, demand_kwh) VALUES ($1,$2,$3,$4),($5,$6,$7,$8)"
	if query != want {
		t.Fatalf("unexpected query:\n%s", query)
	}
	if len(args) != 8 || args[2] != 1000 || args[6] != 1001 || args[7] != 2.5 {
		t.Fatalf("unexpected args %v", args)
	}
}

func TestWithBatchSizeClampsToParameterLimit(t *testing.T) {
	cases := map[int]int{
		0:      defaultBatchSize,
		-5:     defaultBatchSize,
		500:    500,
		16383:  16383,
		16384:  maxBatchSize,
		100000: maxBatchSize,
	}
	for size, want := range cases {
		if got := NewRunRepository(nil, WithBatchSize(size)).batchSize; got != want {
			t.Fatalf("size %d: expected batch %d, got %d", size, want, got)
		}
	}
	query, args := hourlyInsert("run-1", "efh", 0, make([]float64, maxBatchSize))
	if len(args) > 65535 || !strings.Contains(query, "$65532") {
		t.Fatalf("expected %d args within the limit, got %d", maxBatchSize*4, len(args))
	}
}

func TestRunRepositoryNilDB(t *testing.T) {
	repo := NewRunRepository(nil)
	if err := repo.Save(context.Background(), &demand.Run{}); err == nil {
		t.Fatalf("expected nil db error")
	}
	if _, err := repo.List(context.Background()); err == nil {
		t.Fatalf("expected nil db error")
	}
}

func TestRunRepository_Postgres(t *testing.T) {
	dsn := os.Getenv("PG_DSN")
	if dsn == "" {
		t.Skip("PG_DSN not set")
	}
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	defer db.Close()

	ctx := context.Background()
	if err := EnsureSchema(ctx, db); err != nil {
		t.Fatalf("schema: %v", err)
	}
	runID := "run-it-" + strings.ReplaceAll(time.Now().UTC().Format("150405.000000"), ".", "")
	_, _ = db.ExecContext(ctx, "DELETE FROM heat_demand_runs WHERE id = $1", runID)

	index, err := demand.NewYearIndex(2010)
	if err != nil {
		t.Fatalf("index: %v", err)
	}
	table, err := demand.NewTable(index)
	if err != nil {
		t.Fatalf("table: %v", err)
	}
	values := make([]float64, index.Len())
	for i := range values {
		values[i] = float64(i%24) + 0.25
	}
	if err := table.Add("efh", "EFH", values); err != nil {
		t.Fatalf("add: %v", err)
	}
	run := &demand.Run{
		ID:          runID,
		Year:        2010,
		Country:     "DE",
		Generator:   "bdew-sigmoid",
		GeneratedAt: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC),
		Buildings:   []demand.Building{{ID: "efh", Name: "EFH", ProfileType: demand.ProfileEFH, BuildingClass: 1, WindClass: 1, AnnualHeatDemand: 25000}},
		Holidays:    calendar.HolidaySet{calendar.NewDate(2010, time.January, 1): "New year"},
		Table:       table,
	}

	repo := NewRunRepository(db, WithBatchSize(500))
	if err := repo.Save(ctx, run); err != nil {
		t.Fatalf("save: %v", err)
	}
	defer db.ExecContext(ctx, "DELETE FROM heat_demand_runs WHERE id = $1", runID)

	loaded, err := repo.Get(ctx, runID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !loaded.Table.Equal(table) {
		t.Fatalf("loaded table differs")
	}
	if loaded.Holidays[calendar.NewDate(2010, time.January, 1)] != "New year" {
		t.Fatalf("unexpected holidays %v", loaded.Holidays)
	}

	list, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	for _, s := range list {
		if s.ID != runID {
			continue
		}
		if math.Abs(s.Totals[0].AnnualDemand-table.Totals()[0].AnnualDemand) > 1e-6 {
			t.Fatalf("unexpected total %+v", s.Totals[0])
		}
		return
	}
	t.Fatalf("run %s not listed", runID)
}
