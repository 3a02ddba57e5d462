// =============================================================================
// Quarterly Sales Report - Configuration Module
// =============================================================================
//
// This module is responsible for loading and validating the application
// configuration file.
//
// CONFIGURATION FILE (config.yaml):
//   - report:    Ranking depth and display currency
//   - input:     Where sales records come from (generator or files)
//   - generator: Synthetic data settings
//   - catalog:   Department, site, size and color tables
//   - log:       Logger level, format and output
//   - metrics:   Optional Prometheus textfile
//
// Every section is optional. Missing values fall back to the defaults below,
// so an absent config file and an empty one behave the same.
//
// =============================================================================

package config

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/ginjaninja78/quarterly-sales-report/internal/aggregation"
	"github.com/ginjaninja78/quarterly-sales-report/internal/catalog"
)

// Input sources.
const (
	SourceGenerate = "generate"
	SourceFiles    = "files"
)

// DefaultConfigPath is used when --config is not given.
const DefaultConfigPath = "config.yaml"

// =============================================================================
// MAIN CONFIGURATION STRUCTURE
// =============================================================================

// MainConfig holds the application configuration.
type MainConfig struct {
	Report    ReportConfig    `yaml:"report"`
	Input     InputConfig     `yaml:"input"`
	Generator GeneratorConfig `yaml:"generator"`
	Catalog   catalog.Catalog `yaml:"catalog"`
	Log       LogConfig       `yaml:"log"`
	Metrics   MetricsConfig   `yaml:"metrics"`
}

// ReportConfig controls what the report shows.
type ReportConfig struct {
	// TopN is the number of top orders and product lines per quarter.
	// Default: 3
	TopN int `yaml:"top_n" validate:"min=1,max=100"`

	// Currency is the ISO 4217 code amounts are displayed in.
	// Default: "USD"
	Currency string `yaml:"currency" validate:"required,currency"`
}

// InputConfig selects the record source.
type InputConfig struct {
	// Source is "generate" (synthetic records) or "files".
	// Default: "generate"
	Source string `yaml:"source" validate:"oneof=generate files"`

	// Path is a CSV/XLSX file or a directory of them. Required for "files".
	Path string `yaml:"path" validate:"required_if=Source files"`

	// Sheet is the XLSX sheet to read. Empty means the first sheet.
	Sheet string `yaml:"sheet"`

	// CSVSettings contains settings for parsing CSV input.
	CSVSettings CSVSettings `yaml:"csv_settings"`
}

// GeneratorConfig controls the synthetic data generator.
type GeneratorConfig struct {
	// Records is the number of records to generate.
	// Default: 100000
	Records int `yaml:"records" validate:"min=0"`

	// Year is the calendar year generated records fall in.
	// Default: 2023
	Year int `yaml:"year" validate:"min=1,max=9999"`

	// Seed makes generation reproducible. 0 picks a random seed.
	Seed int64 `yaml:"seed"`
}

// LogConfig configures the zap logger.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	// Default: "info"
	Level string `yaml:"level" validate:"oneof=debug info warn warning error"`

	// Format is "console" or "json".
	// Default: "console"
	Format string `yaml:"format" validate:"oneof=console json"`

	// Output is stdout, stderr or a file path.
	// Default: "stderr"
	Output string `yaml:"output" validate:"required"`
}

// MetricsConfig configures run metrics.
type MetricsConfig struct {
	// Textfile is where metrics are written after a run, in the Prometheus
	// text exposition format. Empty disables it.
	Textfile string `yaml:"textfile"`
}

// =============================================================================
// CSV SETTINGS STRUCTURE
// =============================================================================

// CSVSettings contains settings for parsing CSV files.
type CSVSettings struct {
	// Delimiter is the character used to separate fields in the CSV.
	// Common values: "," (comma), "|" (pipe), "\t" (tab)
	// Default: ","
	Delimiter string `yaml:"delimiter" validate:"len=1"`

	// HeaderRows is the number of header rows in the CSV file.
	// Multi-row headers are joined with a space.
	// Default: 1
	HeaderRows int `yaml:"header_rows" validate:"min=1"`

	// DataStartRow is the row number where the actual data begins.
	// Row numbering starts at 1.
	// Default: HeaderRows + 1
	DataStartRow int `yaml:"data_start_row" validate:"gtfield=HeaderRows"`
}

// =============================================================================
// DEFAULTS
// =============================================================================

// Default returns the configuration used when no config file exists.
func Default() *MainConfig {
	cfg := &MainConfig{}
	applyMainConfigDefaults(cfg)
	return cfg
}

// applyMainConfigDefaults sets default values for any unset configuration options.
func applyMainConfigDefaults(config *MainConfig) {
	if config.Report.TopN == 0 {
		config.Report.TopN = aggregation.DefaultTopN
	}
	if config.Report.Currency == "" {
		config.Report.Currency = money.USD
	}
	config.Report.Currency = strings.ToUpper(config.Report.Currency)

	if config.Input.Source == "" {
		config.Input.Source = SourceGenerate
	}
	applyCSVDefaults(&config.Input.CSVSettings)

	if config.Generator.Records == 0 {
		config.Generator.Records = 100000
	}
	if config.Generator.Year == 0 {
		config.Generator.Year = 2023
	}

	// A partially specified catalog is filled table by table.
	defaults := catalog.Default()
	if len(config.Catalog.Departments) == 0 {
		config.Catalog.Departments = defaults.Departments
	}
	if len(config.Catalog.Sites) == 0 {
		config.Catalog.Sites = defaults.Sites
	}
	if len(config.Catalog.Sizes) == 0 {
		config.Catalog.Sizes = defaults.Sizes
	}
	if len(config.Catalog.Colors) == 0 {
		config.Catalog.Colors = defaults.Colors
	}

	if config.Log.Level == "" {
		config.Log.Level = "info"
	}
	if config.Log.Format == "" {
		config.Log.Format = "console"
	}
	if config.Log.Output == "" {
		config.Log.Output = "stderr"
	}
}

func applyCSVDefaults(s *CSVSettings) {
	if s.Delimiter == "" {
		s.Delimiter = ","
	}
	if s.HeaderRows == 0 {
		s.HeaderRows = 1
	}
	if s.DataStartRow == 0 {
		s.DataStartRow = s.HeaderRows + 1
	}
}

// =============================================================================
// CONFIGURATION LOADING FUNCTIONS
// =============================================================================

// LoadMainConfig loads the main configuration from a YAML file.
//
// PARAMETERS:
//   - configPath: The path to the main configuration file.
//
// RETURNS:
//   - A pointer to the MainConfig struct, with defaults applied.
//   - An error if the file cannot be read, parsed or validated.
func LoadMainConfig(configPath string) (*MainConfig, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return Parse(data)
}

// Parse builds a configuration from YAML bytes.
func Parse(data []byte) (*MainConfig, error) {
	var config MainConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	applyMainConfigDefaults(&config)

	if err := validateMainConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// Load resolves the configuration for a command run. A missing file is only
// an error when the path was given explicitly.
func Load(configPath string, explicit bool) (*MainConfig, error) {
	if _, err := os.Stat(configPath); errors.Is(err, os.ErrNotExist) && !explicit {
		return Default(), nil
	}
	return LoadMainConfig(configPath)
}

// =============================================================================
// VALIDATION
// =============================================================================

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()

	// Report YAML key names rather than Go field names.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = v.RegisterValidation("currency", func(fl validator.FieldLevel) bool {
		return money.GetCurrency(fl.Field().String()) != nil
	})

	return v
}

// Validate checks a configuration built outside LoadMainConfig, e.g. after
// command-line overrides.
func (c *MainConfig) Validate() error {
	return validateMainConfig(c)
}

// validateMainConfig validates the main configuration.
func validateMainConfig(config *MainConfig) error {
	if err := validate.Struct(config); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			return formatValidationErrors(verrs)
		}
		return err
	}

	return nil
}

// formatValidationErrors joins field errors into a single error.
func formatValidationErrors(verrs validator.ValidationErrors) error {
	msgs := make([]string, 0, len(verrs))
	for _, e := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s: %s", strings.TrimPrefix(e.Namespace(), "MainConfig."), validationMessage(e)))
	}
	return errors.New(strings.Join(msgs, "; "))
}

// validationMessage returns a human-readable validation message.
func validationMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "is required"
	case "required_if":
		return "is required when " + e.Param()
	case "min":
		if e.Kind() == reflect.Slice {
			return "needs at least " + e.Param() + " entries"
		}
		return "must be at least " + e.Param()
	case "max":
		if e.Kind() == reflect.Slice {
			return "allows at most " + e.Param() + " entries"
		}
		return "must be at most " + e.Param()
	case "len":
		return "must be exactly " + e.Param() + " character(s)"
	case "oneof":
		return "must be one of: " + e.Param()
	case "gtfield":
		return "must be greater than " + e.Param()
	case "unique":
		if e.Param() != "" {
			return "must have unique " + e.Param() + " values"
		}
		return "must not contain duplicates"
	case "excludes":
		return "must not contain '" + e.Param() + "'"
	case "currency":
		return fmt.Sprintf("unknown currency code '%v'", e.Value())
	default:
		return "is invalid"
	}
}
