package config

import (
	"github.com/albertomarcenaro-code/match-manager-v2-sub000/internal/logger"
)

// ServerConfig holds HTTP listener settings.
type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port" validate:"gte=0,lte=65535"`
}

// StorageConfig locates the local blob store backing match and timer state.
type StorageConfig struct {
	Dir string `mapstructure:"dir" validate:"required"`
}

// MatchConfig seeds a fresh match before any configuration intent runs.
type MatchConfig struct {
	PeriodDuration int `mapstructure:"period_duration" validate:"gte=1,lte=90"`
	TotalPeriods   int `mapstructure:"total_periods" validate:"gte=1,lte=10"`
}

// PostgresConfig configures the optional cross-device tournament archive.
// With Enabled false the service runs in guest mode on local blobs only.
type PostgresConfig struct {
	Enabled         bool   `mapstructure:"enabled"`
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	User            string `mapstructure:"user"`
	Password        string `mapstructure:"password"`
	DBName          string `mapstructure:"dbname"`
	SSLMode         string `mapstructure:"sslmode"`
	MaxConns        int32  `mapstructure:"max_conns"`
	MinConns        int32  `mapstructure:"min_conns"`
	MaxConnLifetime int    `mapstructure:"max_conn_lifetime"` // seconds
	MaxConnIdleTime int    `mapstructure:"max_conn_idle_time"`
}

type Config struct {
	Server   ServerConfig        `mapstructure:"server"`
	Storage  StorageConfig       `mapstructure:"storage"`
	Match    MatchConfig         `mapstructure:"match"`
	Postgres PostgresConfig      `mapstructure:"postgres"`
	Logger   logger.LoggerConfig `mapstructure:"logger"`
}
