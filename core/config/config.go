package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/hyperterse/covidcol/core/domain"
	apperrors "github.com/hyperterse/covidcol/core/shared/errors"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "COVIDCOL_"

// DefaultFile is looked up in the working directory when no file is given.
const DefaultFile = "covidcol.yaml"

var validate = validator.New()

// Config holds every tunable of the program. Zero values are never used
// directly; Default provides the baseline that files and env override.
type Config struct {
	// Domain is the Socrata portal host.
	Domain string `yaml:"domain" env:"DOMAIN" validate:"required,hostname|hostname_port"`
	// BaseURL overrides https://{Domain} when set. Used to point at mirrors.
	BaseURL string `yaml:"base_url" env:"BASE_URL" validate:"omitempty,url"`
	// Dataset is the SODA dataset identifier.
	Dataset string `yaml:"dataset" env:"DATASET" validate:"required"`
	// AppToken is sent as X-App-Token when non-empty.
	AppToken string        `yaml:"app_token" env:"APP_TOKEN"`
	Timeout  time.Duration `yaml:"timeout" env:"TIMEOUT" validate:"gt=0"`

	RegionField        string `yaml:"region_field" env:"REGION_FIELD" validate:"required"`
	ConfirmThreshold   int    `yaml:"confirm_threshold" env:"CONFIRM_THRESHOLD" validate:"gt=0"`
	FallbackSampleSize int    `yaml:"fallback_sample_size" env:"FALLBACK_SAMPLE_SIZE" validate:"gt=0"`
	RegionSampleSize   int    `yaml:"region_sample_size" env:"REGION_SAMPLE_SIZE" validate:"gt=0"`
	MaxColWidth        int    `yaml:"max_col_width" env:"MAX_COL_WIDTH" validate:"gte=4"`

	// Columns must name distinct attributes; each fills one CaseRecord slot.
	Columns []domain.Column `yaml:"columns" validate:"required,min=1,unique=Attribute,dive"`

	// LogLevel uses 1=ERROR..4=DEBUG; 0 leaves the CLI default in place.
	LogLevel int    `yaml:"log_level" env:"LOG_LEVEL" validate:"gte=0,lte=4"`
	LogTags  string `yaml:"log_tags" env:"LOG_TAGS"`

	Observability Observability `yaml:"observability" envPrefix:"OTEL_"`
}

// Observability configures OpenTelemetry export. Disabled by default.
type Observability struct {
	Enabled        bool    `yaml:"enabled" env:"ENABLED"`
	TracesEnabled  bool    `yaml:"traces" env:"TRACES_ENABLED"`
	MetricsEnabled bool    `yaml:"metrics" env:"METRICS_ENABLED"`
	Endpoint       string  `yaml:"endpoint" env:"ENDPOINT" validate:"required_if=Enabled true"`
	SamplingRatio  float64 `yaml:"sampling_ratio" env:"TRACE_SAMPLING_RATIO" validate:"gte=0,lte=1"`
	ServiceName    string  `yaml:"service_name" env:"SERVICE_NAME"`
	Environment    string  `yaml:"environment" env:"ENVIRONMENT"`
}

// Default returns the configuration used when nothing overrides it.
func Default() Config {
	return Config{
		Domain:             "www.datos.gov.co",
		Dataset:            "gt2j-8ykr",
		Timeout:            10 * time.Second,
		RegionField:        "departamento_nom",
		ConfirmThreshold:   500,
		FallbackSampleSize: 10,
		RegionSampleSize:   100,
		MaxColWidth:        25,
		Columns:            domain.DefaultColumns(),
		Observability: Observability{
			TracesEnabled:  true,
			MetricsEnabled: true,
			Endpoint:       "localhost:4317",
			SamplingRatio:  1.0,
			ServiceName:    "covidcol",
			Environment:    "development",
		},
	}
}

// Load resolves the configuration: defaults, then the YAML file at path (if
// any), then COVIDCOL_* environment variables. The result is validated.
// An empty path falls back to DefaultFile when it exists.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultFile
	}
	if err := LoadFile(path, &cfg); err != nil {
		if explicit || !errors.Is(err, os.ErrNotExist) {
			return Config{}, err
		}
	}

	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.expandSecrets(); err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadFile overlays the YAML file at path onto cfg.
func LoadFile(path string, cfg *Config) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("error reading file: %w", err)
	}
	if err := yaml.Unmarshal(content, cfg); err != nil {
		return apperrors.NewAppError(apperrors.ErrCodeInvalidConfig, fmt.Sprintf("config error in %s", path), err)
	}
	return nil
}

// ParseEnv overlays COVIDCOL_* environment variables onto cfg.
func ParseEnv(cfg *Config) error {
	if err := env.ParseWithOptions(cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return apperrors.NewAppError(apperrors.ErrCodeInvalidConfig, "parse env", err)
	}
	return nil
}

// Validate checks field constraints and reports every violation at once.
func (c Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return apperrors.NewAppError(apperrors.ErrCodeInvalidConfig, "invalid configuration", err)
	}

	messages := make([]string, 0, len(validationErrs))
	for _, fieldErr := range validationErrs {
		messages = append(messages, fmt.Sprintf("%s failed on '%s'", fieldErr.Namespace(), fieldErr.Tag()))
	}
	return apperrors.NewAppError(apperrors.ErrCodeInvalidConfig, strings.Join(messages, "; "), nil)
}

// SourceURL returns the SODA resource URL of the configured dataset.
func (c Config) SourceURL() string {
	base := c.BaseURL
	if base == "" {
		base = "https://" + c.Domain
	}
	return strings.TrimRight(base, "/") + "/resource/" + c.Dataset + ".json"
}
