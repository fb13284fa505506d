package config

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"

	"ledgerlens/internal/ledger"
)

// Config is the complete application configuration. Values come from a
// YAML file when present, overridden by LEDGERLENS_* environment
// variables.
type Config struct {
	Server   ServerConfig   `yaml:"server" envconfig:"SERVER"`
	Logging  LoggingConfig  `yaml:"logging" envconfig:"LOGGING"`
	Analysis AnalysisConfig `yaml:"analysis" envconfig:"ANALYSIS"`
}

// ServerConfig contains HTTP server configuration.
type ServerConfig struct {
	Port            int           `yaml:"port" envconfig:"PORT" default:"8080" validate:"min=1,max=65535"`
	ReadTimeout     time.Duration `yaml:"read_timeout" envconfig:"READ_TIMEOUT" default:"30s"`
	WriteTimeout    time.Duration `yaml:"write_timeout" envconfig:"WRITE_TIMEOUT" default:"60s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" envconfig:"IDLE_TIMEOUT" default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT" default:"15s"`
	MaxUploadBytes  int64         `yaml:"max_upload_bytes" envconfig:"MAX_UPLOAD_BYTES" default:"52428800" validate:"min=1"`
	RateLimitRPS    float64       `yaml:"rate_limit_rps" envconfig:"RATE_LIMIT_RPS" default:"20"`
	RateLimitBurst  int           `yaml:"rate_limit_burst" envconfig:"RATE_LIMIT_BURST" default:"40"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" default:"info" validate:"oneof=debug info warn error"`
	Output   string `yaml:"output" envconfig:"OUTPUT" default:"console" validate:"oneof=console file both"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH" default:"logs/ledgerlens.log"`
}

// AnalysisConfig tunes the extraction engine.
type AnalysisConfig struct {
	// MaxParallelSheets caps concurrent per-sheet extraction; 0 means
	// one worker per CPU.
	MaxParallelSheets int `yaml:"max_parallel_sheets" envconfig:"MAX_PARALLEL_SHEETS" default:"0" validate:"min=0"`
	// KeywordsFile optionally points at a YAML vocabulary override.
	KeywordsFile string `yaml:"keywords_file" envconfig:"KEYWORDS_FILE"`
	// OutputDir is where the batch CLI writes CSV and Excel exports.
	OutputDir string `yaml:"output_dir" envconfig:"OUTPUT_DIR" default:"reports"`
}

// Load reads configuration from the optional YAML file and the
// environment, environment winning.
func Load(configFile string) (*Config, error) {
	var cfg Config

	if configFile != "" {
		if _, err := os.Stat(configFile); err == nil {
			data, err := os.ReadFile(configFile)
			if err != nil {
				return nil, fmt.Errorf("read config file: %w", err)
			}
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("parse config file: %w", err)
			}
		}
	}

	if err := envconfig.Process("LEDGERLENS", &cfg); err != nil {
		return nil, fmt.Errorf("load config from env: %w", err)
	}

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &cfg, nil
}

// Vocabulary returns the keyword configuration for the engine: the
// built-in defaults, with any lists present in KeywordsFile replacing
// their counterparts.
func (c *Config) Vocabulary() (ledger.Vocabulary, error) {
	vocab := ledger.DefaultVocabulary()
	if c.Analysis.KeywordsFile == "" {
		return vocab, nil
	}
	data, err := os.ReadFile(c.Analysis.KeywordsFile)
	if err != nil {
		return vocab, fmt.Errorf("read keywords file: %w", err)
	}
	var override ledger.Vocabulary
	if err := yaml.Unmarshal(data, &override); err != nil {
		return vocab, fmt.Errorf("parse keywords file: %w", err)
	}
	return vocab.Override(override), nil
}
