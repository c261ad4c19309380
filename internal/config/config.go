package config

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"

	"ssicli/internal/ssi"
)

// Config represents the complete application configuration
type Config struct {
	Server   ServerConfig   `yaml:"server" envconfig:"SERVER"`
	Logging  LoggingConfig  `yaml:"logging" envconfig:"LOGGING"`
	Paths    PathsConfig    `yaml:"paths" envconfig:"PATHS"`
	Analysis AnalysisConfig `yaml:"analysis" envconfig:"ANALYSIS"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Port            int           `yaml:"port" envconfig:"PORT" validate:"min=1,max=65535"`
	ReadTimeout     time.Duration `yaml:"read_timeout" envconfig:"READ_TIMEOUT"`
	WriteTimeout    time.Duration `yaml:"write_timeout" envconfig:"WRITE_TIMEOUT"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" envconfig:"IDLE_TIMEOUT"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT"`
	RateLimitRPS    float64       `yaml:"rate_limit_rps" envconfig:"RATE_LIMIT_RPS" validate:"gt=0"`
	RateLimitBurst  int           `yaml:"rate_limit_burst" envconfig:"RATE_LIMIT_BURST" validate:"gt=0"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string `yaml:"level" envconfig:"LEVEL" validate:"oneof=debug info warn error"`
	Format string `yaml:"format" envconfig:"FORMAT" validate:"oneof=json text"`
}

// PathsConfig contains file system paths configuration
type PathsConfig struct {
	InputFile  string `yaml:"input_file" envconfig:"INPUT_FILE"`
	ReportsDir string `yaml:"reports_dir" envconfig:"REPORTS_DIR"`
}

// AnalysisConfig contains the analysis parameters passed into the core
type AnalysisConfig struct {
	VolumeFloor       int     `yaml:"volume_floor" envconfig:"VOLUME_FLOOR" validate:"min=0"`
	AlertSDMultiplier float64 `yaml:"alert_sd_multiplier" envconfig:"ALERT_SD_MULTIPLIER" validate:"gt=0"`
	Alpha             float64 `yaml:"alpha" envconfig:"ALPHA" validate:"gt=0,lt=1"`
	RollingWindow     int     `yaml:"rolling_window" envconfig:"ROLLING_WINDOW" validate:"min=1"`
	ParetoThreshold   float64 `yaml:"pareto_threshold" envconfig:"PARETO_THRESHOLD" validate:"gt=0,lte=1"`
}

// Params converts the analysis configuration into the core parameter set
func (a AnalysisConfig) Params() ssi.Params {
	return ssi.Params{
		VolumeFloor:       a.VolumeFloor,
		AlertSDMultiplier: a.AlertSDMultiplier,
		Alpha:             a.Alpha,
		RollingWindow:     a.RollingWindow,
		ParetoThreshold:   a.ParetoThreshold,
	}
}

// DefaultConfig returns the built-in defaults
func DefaultConfig() Config {
	return Config{
		Server: ServerConfig{
			Port:            8080,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    15 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 30 * time.Second,
			RateLimitRPS:    100,
			RateLimitBurst:  50,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Paths: PathsConfig{
			InputFile:  "data/raw/ssi_dataset.csv",
			ReportsDir: "reports",
		},
		Analysis: AnalysisConfig{
			VolumeFloor:       30,
			AlertSDMultiplier: 2.0,
			Alpha:             0.05,
			RollingWindow:     3,
			ParetoThreshold:   0.80,
		},
	}
}

// Load loads configuration in three layers: built-in defaults, an optional
// YAML config file, then environment variables with the SSI prefix.
// Later layers take precedence.
func Load(configFile string) (*Config, error) {
	cfg := DefaultConfig()

	if configFile != "" {
		if _, err := os.Stat(configFile); err == nil {
			if err := loadFromFile(configFile, &cfg); err != nil {
				return nil, fmt.Errorf("load config from file: %w", err)
			}
		}
	}

	if err := envconfig.Process("SSI", &cfg); err != nil {
		return nil, fmt.Errorf("load config from env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// loadFromFile loads configuration from a YAML file
func loadFromFile(filePath string, cfg *Config) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// Validate checks the configuration against the struct validation tags and
// the core parameter invariants
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return err
	}
	if !c.Analysis.Params().IsValid() {
		return fmt.Errorf("analysis parameters out of range")
	}
	return nil
}
