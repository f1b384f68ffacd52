package logger

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

// LoggerConfig describes how the service logger is built.
type LoggerConfig struct {
	Level          string `mapstructure:"level" validate:"omitempty,oneof=trace debug info warn error"`
	Format         string `mapstructure:"format" validate:"omitempty,oneof=json console"`
	TimeField      string `mapstructure:"time_field"`
	TimeFormat     string `mapstructure:"time_format"`
	ServiceName    string `mapstructure:"service_name"`
	ServiceVersion string `mapstructure:"service_version"`
	Env            string `mapstructure:"env" validate:"omitempty,oneof=dev staging prod"`
	WithCaller     bool   `mapstructure:"with_caller"`
}

// New builds the zerolog root logger: JSON to stdout in prod-like
// environments, human console output in dev.
func New(cfg *LoggerConfig) (logger zerolog.Logger, err error) {
	cfg.setDefaults()

	if err = validator.New().Struct(cfg); err != nil {
		return logger, fmt.Errorf("logger config validation error: %w", err)
	}

	zerolog.TimestampFieldName = cfg.TimeField
	zerolog.TimeFieldFormat = cfg.TimeFormat

	var out = zerolog.LevelWriter(zerolog.MultiLevelWriter(os.Stdout))
	if cfg.Format == "console" {
		out = zerolog.MultiLevelWriter(zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: cfg.TimeFormat,
		})
	}

	logger = zerolog.New(out).
		With().
		Timestamp().
		Str("service", cfg.ServiceName).
		Str("version", cfg.ServiceVersion).
		Str("env", cfg.Env).
		Logger()

	if cfg.WithCaller {
		logger = logger.With().Caller().Logger()
	}

	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		return logger, err
	}
	zerolog.SetGlobalLevel(level)

	return logger, nil
}

func (c *LoggerConfig) setDefaults() {
	if c.Env == "" {
		c.Env = "prod"
	}
	if c.Level == "" {
		if c.Env == "dev" {
			c.Level = "debug"
		} else {
			c.Level = "info"
		}
	}
	if c.Format == "" {
		if c.Env == "dev" {
			c.Format = "console"
		} else {
			c.Format = "json"
		}
	}
	if c.TimeField == "" {
		c.TimeField = "ts"
	}
	if c.TimeFormat == "" {
		c.TimeFormat = zerolog.TimeFormatUnixMs
	}
	if c.ServiceName == "" {
		c.ServiceName = "match-manager"
	}
	if c.ServiceVersion == "" {
		c.ServiceVersion = "2.0.0"
	}
	if !c.WithCaller && c.Env == "dev" {
		c.WithCaller = true
	}
}
