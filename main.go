package main

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"heatdemand/internal/auth"
	calendar "heatdemand/internal/calendar/domain"
	"heatdemand/internal/calendar/infrastructure/rules"
	demandapp "heatdemand/internal/demand/application"
	demand "heatdemand/internal/demand/domain"
	demandmemory "heatdemand/internal/demand/infrastructure/memory"
	demandrepo "heatdemand/internal/demand/infrastructure/postgres"
	"heatdemand/internal/demand/infrastructure/profilefile"
	"heatdemand/internal/demand/infrastructure/sigmoid"
	"heatdemand/internal/demand/interfaces/cli"
	demandhttp "heatdemand/internal/demand/interfaces/http"
	"heatdemand/internal/demand/interfaces/report"
	"heatdemand/internal/observability/metrics"
	weatherrepo "heatdemand/internal/weather/infrastructure/postgres"
	"heatdemand/internal/weather/infrastructure/tryfile"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	cfg := loadConfig()
	logger := log.New(os.Stdout, "", log.LstdFlags)

	mode := "run"
	if len(os.Args) > 1 {
		mode = os.Args[1]
	}

	if mode == "token" {
		issueToken(cfg, logger)
		return
	}

	runCfg, err := demandapp.LoadConfig()
	if err != nil {
		logger.Fatalf("config error: %v", err)
	}

	var db *sql.DB
	if cfg.DatabaseURL != "" {
		db, err = sql.Open("pgx", cfg.DatabaseURL)
		if err != nil {
			logger.Fatalf("db open error: %v", err)
		}
		defer db.Close()
		if err := db.Ping(); err != nil {
			logger.Fatalf("db ping error: %v", err)
		}
		if cfg.AutoMigrate {
			if err := demandrepo.EnsureSchema(context.Background(), db); err != nil {
				logger.Fatalf("db schema error: %v", err)
			}
		}
	}
	metrics.Init(db, logger)

	temperatures, err := buildTemperatureSource(cfg, runCfg, db)
	if err != nil {
		logger.Fatalf("temperature source error: %v", err)
	}
	holidays, err := buildHolidayProvider(runCfg)
	if err != nil {
		logger.Fatalf("holiday provider error: %v", err)
	}
	generator, err := buildGenerator(runCfg)
	if err != nil {
		logger.Fatalf("generator error: %v", err)
	}

	switch mode {
	case "run":
		runOnce(cfg, runCfg, db, temperatures, holidays, generator, logger)
	case "serve":
		serve(cfg, runCfg, db, temperatures, holidays, generator, logger)
	default:
		logger.Fatalf("unknown mode %q (use run, serve or token)", mode)
	}
}

func runOnce(cfg config, runCfg demandapp.Config, db *sql.DB, temperatures demandapp.TemperatureSource, holidays calendar.Provider, generator demand.Generator, logger *log.Logger) {
	opts := []demandapp.Option{
		demandapp.WithLogger(logger),
		demandapp.WithProgress(cli.NewProgress(os.Stderr)),
	}
	if db != nil {
		opts = append(opts, demandapp.WithRepository(demandrepo.NewRunRepository(db)))
	}
	service, err := demandapp.NewService(temperatures, holidays, generator, opts...)
	if err != nil {
		logger.Fatalf("run service error: %v", err)
	}
	plan, err := runCfg.Plan()
	if err != nil {
		logger.Fatalf("plan error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.RunTimeout)
	defer cancel()
	run, err := service.Run(ctx, plan)
	if err != nil {
		logger.Fatalf("run error: %v", err)
	}

	if err := exportRun(run, runCfg.Output, logger); err != nil {
		logger.Fatalf("export error: %v", err)
	}

	var renderer report.Renderer
	if runCfg.Output.ChartPath != "" {
		renderer = report.PDFChart{Path: runCfg.Output.ChartPath, Title: fmt.Sprintf("Heat demand %s %d", run.Country, run.Year)}
	}
	presenter, err := report.NewPresenter(renderer, os.Stdout, logger)
	if err != nil {
		logger.Fatalf("presenter error: %v", err)
	}
	if err := presenter.Present(ctx, run.Table); err != nil {
		logger.Fatalf("present error: %v", err)
	}
	if runCfg.Output.ChartPath != "" {
		logger.Printf("chart written to %s", runCfg.Output.ChartPath)
	}

	if runCfg.Output.MetricsTextfile != "" {
		if err := metrics.WriteTextfile(runCfg.Output.MetricsTextfile); err != nil {
			logger.Fatalf("metrics textfile error: %v", err)
		}
	}
}

func serve(cfg config, runCfg demandapp.Config, db *sql.DB, temperatures demandapp.TemperatureSource, holidays calendar.Provider, generator demand.Generator, logger *log.Logger) {
	if cfg.JWTSecret == "" {
		logger.Fatalf("AUTH_JWT_SECRET is required in serve mode")
	}
	var store demandhttp.RunStore
	var repo demandapp.RunRepository
	if db != nil {
		pgRepo := demandrepo.NewRunRepository(db)
		store, repo = pgRepo, pgRepo
	} else {
		memRepo := demandmemory.NewRunRepository()
		store, repo = memRepo, memRepo
	}
	service, err := demandapp.NewService(temperatures, holidays, generator,
		demandapp.WithLogger(logger),
		demandapp.WithRepository(repo),
	)
	if err != nil {
		logger.Fatalf("run service error: %v", err)
	}
	runHandler, err := demandhttp.NewHandler(service, store, runCfg, logger)
	if err != nil {
		logger.Fatalf("run handler error: %v", err)
	}

	policy := auth.NewDefaultPolicy([]string{"/healthz", "/metrics"}, nil)
	authMiddleware := auth.NewMiddleware([]byte(cfg.JWTSecret), policy, logger)

	mux := http.NewServeMux()
	mux.Handle("/api/v1/runs", runHandler)
	mux.Handle("/api/v1/runs/", runHandler)
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           loggingMiddleware(authMiddleware.Wrap(mux), logger),
		ReadHeaderTimeout: 10 * time.Second,
	}
	logger.Printf("http listening on %s", cfg.HTTPAddr)
	logger.Fatal(server.ListenAndServe())
}

func issueToken(cfg config, logger *log.Logger) {
	role := auth.RoleViewer
	if len(os.Args) > 2 {
		normalized, ok := auth.NormalizeRole(os.Args[2])
		if !ok {
			logger.Fatalf("unknown role %q", os.Args[2])
		}
		role = normalized
	}
	subject := "heatdemand-cli"
	if len(os.Args) > 3 {
		subject = os.Args[3]
	}
	token, err := auth.IssueJWT([]byte(cfg.JWTSecret), subject, role, cfg.TokenTTL)
	if err != nil {
		logger.Fatalf("token error: %v", err)
	}
	fmt.Println(token)
}

func buildTemperatureSource(cfg config, runCfg demandapp.Config, db *sql.DB) (demandapp.TemperatureSource, error) {
	switch cfg.TemperatureSource {
	case "postgres":
		return weatherrepo.NewTemperatureRepository(db, cfg.WeatherModel)
	case "", "try":
		return tryfile.NewLoader(runCfg.Weather.File,
			tryfile.WithSkipRows(runCfg.Weather.SkipRows),
			tryfile.WithColumn(runCfg.Weather.Column),
		)
	default:
		return nil, fmt.Errorf("unknown TEMPERATURE_SOURCE %q", cfg.TemperatureSource)
	}
}

func buildHolidayProvider(runCfg demandapp.Config) (*rules.Provider, error) {
	if runCfg.Holidays.ExtraFile == "" {
		return rules.NewProvider(), nil
	}
	extra, err := rules.LoadExtraHolidays(runCfg.Holidays.ExtraFile)
	if err != nil {
		return nil, err
	}
	return rules.NewProvider(rules.WithExtraHolidays(extra)), nil
}

func buildGenerator(runCfg demandapp.Config) (demand.Generator, error) {
	switch runCfg.Generator.Name {
	case "", sigmoid.Name:
		return sigmoid.New(), nil
	case profilefile.Name:
		if runCfg.Generator.ProfileFile == "" {
			return nil, fmt.Errorf("PROFILE_FILE is required for generator %s", profilefile.Name)
		}
		return profilefile.Load(runCfg.Generator.ProfileFile)
	default:
		return nil, fmt.Errorf("unknown generator %q", runCfg.Generator.Name)
	}
}

func exportRun(run *demand.Run, out demandapp.OutputConfig, logger *log.Logger) error {
	exports := []struct {
		format string
		path   string
		build  func() ([]byte, error)
	}{
		{format: "csv", path: out.CSVPath, build: func() ([]byte, error) {
			var buf bytes.Buffer
			err := report.WriteCSV(&buf, run.Table)
			return buf.Bytes(), err
		}},
		{format: "xlsx", path: out.XLSXPath, build: func() ([]byte, error) { return report.BuildXLSX(run) }},
		{format: "pdf", path: out.PDFPath, build: func() ([]byte, error) { return report.BuildSummaryPDF(run) }},
	}
	for _, export := range exports {
		if export.path == "" {
			continue
		}
		started := time.Now()
		data, err := export.build()
		if err == nil {
			err = os.WriteFile(export.path, data, 0o644)
		}
		if err != nil {
			metrics.ObserveExport(export.format, metrics.ResultError, time.Since(started))
			return fmt.Errorf("%s: %w", export.format, err)
		}
		metrics.ObserveExport(export.format, metrics.ResultSuccess, time.Since(started))
		logger.Printf("%s export written to %s", export.format, export.path)
	}
	return nil
}

type config struct {
	DatabaseURL       string
	HTTPAddr          string
	JWTSecret         string
	TokenTTL          time.Duration
	TemperatureSource string
	WeatherModel      string
	AutoMigrate       bool
	RunTimeout        time.Duration
}

func loadConfig() config {
	cfg := config{
		DatabaseURL:       getenvDefault("DATABASE_URL", getenvDefault("PG_DSN", "")),
		HTTPAddr:          getenvDefault("HTTP_ADDR", ":8080"),
		JWTSecret:         getenvDefault("AUTH_JWT_SECRET", getenvDefault("JWT_SECRET", "")),
		TokenTTL:          getenvDuration("AUTH_TOKEN_TTL", 24*time.Hour),
		TemperatureSource: getenvDefault("TEMPERATURE_SOURCE", "try"),
		WeatherModel:      getenvDefault("WEATHER_MODEL", ""),
		AutoMigrate:       getenvIntDefault("DB_AUTO_MIGRATE", 0) == 1,
		RunTimeout:        getenvDuration("RUN_TIMEOUT", 5*time.Minute),
	}
	if cfg.TemperatureSource == "postgres" && cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL or PG_DSN is required for TEMPERATURE_SOURCE=postgres")
	}
	return cfg
}

func getenvDefault(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}

func getenvIntDefault(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getenvDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func loggingMiddleware(next http.Handler, logger *log.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		resp := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(resp, r)
		metrics.IncHTTPRequest(r.Method+" "+routeOf(r.URL.Path), strconv.Itoa(resp.status))
		logger.Printf("http %s %s %d %s", r.Method, r.URL.Path, resp.status, time.Since(start))
	})
}

func routeOf(path string) string {
	switch {
	case path == "/api/v1/runs", path == "/metrics", path == "/healthz":
		return path
	case strings.HasPrefix(path, "/api/v1/runs/"):
		return "/api/v1/runs/{id}"
	default:
		return "other"
	}
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}
