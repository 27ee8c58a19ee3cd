// Package config provides environment-based configuration for lattice.
//
// Configuration is loaded from environment variables using Viper, with
// sensible defaults for development.
//
// # Environment Variables
//
//   - DB_TYPE: Database type (sqlite, postgres, mysql). Default: sqlite
//   - DSN: Database connection string. Default: lattice.db
//   - SKIP_AUTO_MIGRATE: Skip automatic database migrations. Default: false
//   - REDIS_ADDR: Redis address for the decision cache. Empty disables Redis
//     and falls back to the in-memory key-value store.
//   - CACHE_TTL_MS: Decision cache validity window in milliseconds.
//     Default: 2000
//   - LOG_LEVEL: Logging level (debug, info, warn, error). Default: info
//
// # Example Usage
//
//	cfg, err := config.LoadConfig()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("Using %s database, cache TTL %v\n", cfg.DBType, cfg.CacheTTL())
package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	DBType          string `mapstructure:"DB_TYPE"` // sqlite, postgres, mysql
	DSN             string `mapstructure:"DSN"`
	SkipAutoMigrate bool   `mapstructure:"SKIP_AUTO_MIGRATE"`
	RedisAddr       string `mapstructure:"REDIS_ADDR"`
	CacheTTLMillis  int    `mapstructure:"CACHE_TTL_MS"`
	LogLevel        string `mapstructure:"LOG_LEVEL"`
}

// CacheTTL returns the configured decision cache window as a duration.
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLMillis) * time.Millisecond
}

func LoadConfig() (*Config, error) {
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("DB_TYPE", "sqlite")
	viper.SetDefault("DSN", "lattice.db") // Default to sqlite if not provided
	viper.SetDefault("SKIP_AUTO_MIGRATE", false)
	viper.SetDefault("REDIS_ADDR", "")
	viper.SetDefault("CACHE_TTL_MS", 2000)

	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}
