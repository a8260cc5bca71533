package application

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	demand "heatdemand/internal/demand/domain"
)

// BuildingConfig is the YAML form of a building.
type BuildingConfig struct {
	ID               string  `yaml:"id" json:"id"`
	Name             string  `yaml:"name" json:"name"`
	ShlpType         string  `yaml:"shlp_type" json:"shlp_type"`
	BuildingClass    int     `yaml:"building_class" json:"building_class"`
	WindClass        int     `yaml:"wind_class" json:"wind_class"`
	AnnualHeatDemand float64 `yaml:"annual_heat_demand" json:"annual_heat_demand"`
}

// WeatherConfig locates the TRY file.
type WeatherConfig struct {
	File     string `yaml:"file"`
	SkipRows int    `yaml:"skip_rows"`
	Column   int    `yaml:"column"`
}

// HolidayConfig adds holidays on top of the country rules.
type HolidayConfig struct {
	ExtraFile string `yaml:"extra_file"`
}

// GeneratorConfig selects the demand generator.
type GeneratorConfig struct {
	Name        string `yaml:"name"`
	ProfileFile string `yaml:"profile_file"`
}

// OutputConfig lists the optional outputs of a run.
type OutputConfig struct {
	ChartPath       string `yaml:"chart_path"`
	XLSXPath        string `yaml:"xlsx_path"`
	CSVPath         string `yaml:"csv_path"`
	PDFPath         string `yaml:"pdf_path"`
	MetricsTextfile string `yaml:"metrics_textfile"`
}

// Config defines a heat demand run.
type Config struct {
	Year      int              `yaml:"year"`
	Country   string           `yaml:"country"`
	Weather   WeatherConfig    `yaml:"weather"`
	Holidays  HolidayConfig    `yaml:"holidays"`
	Generator GeneratorConfig  `yaml:"generator"`
	Buildings []BuildingConfig `yaml:"buildings"`
	Output    OutputConfig     `yaml:"output"`
}

const (
	DefaultYear        = 2010
	DefaultCountry     = "DE"
	DefaultWeatherFile = "TRY2015_541957091051_Jahr.dat"
	DefaultGenerator   = "bdew-sigmoid"
	defaultSkipRows    = 34
	defaultColumn      = 5
)

// ErrInvalidConfig is returned for configurations that cannot produce a plan.
var ErrInvalidConfig = errors.New("demand app: invalid config")

// DefaultConfig reproduces the reference run: three building types in
// Germany for 2010.
func DefaultConfig() Config {
	return Config{
		Year:    DefaultYear,
		Country: DefaultCountry,
		Weather: WeatherConfig{
			File:     DefaultWeatherFile,
			SkipRows: defaultSkipRows,
			Column:   defaultColumn,
		},
		Generator: GeneratorConfig{Name: DefaultGenerator},
		Buildings: []BuildingConfig{
			{ID: "efh", Name: "EFH", ShlpType: "EFH", BuildingClass: 1, WindClass: 1, AnnualHeatDemand: 25000},
			{ID: "mfh", Name: "MFH", ShlpType: "MFH", BuildingClass: 2, WindClass: 0, AnnualHeatDemand: 80000},
			{ID: "ghd", Name: "ghd", ShlpType: "GHD", BuildingClass: 0, WindClass: 0, AnnualHeatDemand: 140000},
		},
	}
}

// LoadConfig loads the run config from defaults, HEATDEMAND_CONFIG and env.
func LoadConfig() (Config, error) {
	cfg := DefaultConfig()

	if path := os.Getenv("HEATDEMAND_CONFIG"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, err
		}
		if cfg, err = ParseConfig(data); err != nil {
			return cfg, err
		}
	}

	cfg.Year = getenvIntDefault("HEATDEMAND_YEAR", cfg.Year)
	cfg.Country = getenvDefault("HEATDEMAND_COUNTRY", cfg.Country)
	cfg.Weather.File = getenvDefault("WEATHER_FILE", cfg.Weather.File)
	cfg.Holidays.ExtraFile = getenvDefault("EXTRA_HOLIDAYS", cfg.Holidays.ExtraFile)
	cfg.Generator.Name = getenvDefault("GENERATOR", cfg.Generator.Name)
	cfg.Generator.ProfileFile = getenvDefault("PROFILE_FILE", cfg.Generator.ProfileFile)
	cfg.Output.ChartPath = getenvDefault("CHART_PATH", cfg.Output.ChartPath)
	cfg.Output.XLSXPath = getenvDefault("EXPORT_XLSX", cfg.Output.XLSXPath)
	cfg.Output.CSVPath = getenvDefault("EXPORT_CSV", cfg.Output.CSVPath)
	cfg.Output.PDFPath = getenvDefault("EXPORT_PDF", cfg.Output.PDFPath)
	cfg.Output.MetricsTextfile = getenvDefault("METRICS_TEXTFILE", cfg.Output.MetricsTextfile)

	if _, err := cfg.Plan(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// ParseConfig overlays YAML onto the defaults. Keys present in the document
// win, including explicit zeros. A buildings list replaces the default list.
func ParseConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return DefaultConfig(), fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return cfg, nil
}

// Plan converts the config into a validated run plan.
func (c Config) Plan() (Plan, error) {
	buildings := make([]demand.Building, 0, len(c.Buildings))
	for i, bc := range c.Buildings {
		b, err := bc.Building()
		if err != nil {
			return Plan{}, fmt.Errorf("building %d: %w", i, err)
		}
		buildings = append(buildings, b)
	}
	plan := Plan{Year: c.Year, Country: c.Country, Buildings: buildings}
	if err := plan.Validate(); err != nil {
		return Plan{}, err
	}
	return plan, nil
}

// Building converts the YAML form into a validated building.
func (bc BuildingConfig) Building() (demand.Building, error) {
	profile, err := demand.ParseProfileType(bc.ShlpType)
	if err != nil {
		return demand.Building{}, err
	}
	id := strings.TrimSpace(bc.ID)
	if id == "" {
		id = strings.ToLower(string(profile))
	}
	b := demand.Building{
		ID:               id,
		Name:             bc.Name,
		ProfileType:      profile,
		BuildingClass:    bc.BuildingClass,
		WindClass:        bc.WindClass,
		AnnualHeatDemand: bc.AnnualHeatDemand,
	}
	if err := b.Validate(); err != nil {
		return demand.Building{}, err
	}
	return b, nil
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
