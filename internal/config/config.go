package config

import (
	"fmt"
	"os"

	"github.com/Lumos-Labs-HQ/addtx/internal/database/common"
	"github.com/spf13/viper"
)

type Config struct {
	Version   string    `json:"version" mapstructure:"version"`
	Database  Database  `json:"database" mapstructure:"database"`
	Tables    Tables    `json:"tables" mapstructure:"tables"`
	BatchSize int       `json:"batch_size" mapstructure:"batch_size"`
	Generator Generator `json:"generator" mapstructure:"generator"`
}

type Database struct {
	Provider string `json:"provider" mapstructure:"provider"`
	URLEnv   string `json:"url_env" mapstructure:"url_env"`
}

type Tables struct {
	Users        string `json:"users" mapstructure:"users"`
	Transactions string `json:"transactions" mapstructure:"transactions"`
}

type Generator struct {
	Profile string `json:"profile,omitempty" mapstructure:"profile"` // empty = embedded default catalog
	Seed    int64  `json:"seed,omitempty" mapstructure:"seed"`       // 0 = time based
}

func Load() (*Config, error) {
	var cfg Config

	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.applyDefaults()
	return &cfg, nil
}

func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	if c.Version == "" {
		c.Version = "1"
	}
	if c.Database.Provider == "" {
		c.Database.Provider = "postgresql"
	}
	if c.Database.URLEnv == "" {
		c.Database.URLEnv = "DATABASE_URL"
	}
	if c.Tables.Users == "" {
		c.Tables.Users = "users"
	}
	if c.Tables.Transactions == "" {
		c.Tables.Transactions = "transactions"
	}
	if c.BatchSize == 0 {
		c.BatchSize = 500
	}
}

func (c *Config) GetDatabaseURL() (string, error) {
	dbURL := os.Getenv(c.Database.URLEnv)
	if dbURL == "" {
		return "", fmt.Errorf("database URL not found in environment variable %s", c.Database.URLEnv)
	}
	return dbURL, nil
}

func (c *Config) Validate() error {
	supportedProviders := []string{"postgresql", "postgres", "mysql", "sqlite", "sqlite3"}
	supported := false
	for _, provider := range supportedProviders {
		if c.Database.Provider == provider {
			supported = true
			break
		}
	}
	if !supported {
		return fmt.Errorf("unsupported database provider: %s. Supported providers: %v", c.Database.Provider, supportedProviders)
	}

	if err := common.ValidateTables(c.Tables.Users, c.Tables.Transactions); err != nil {
		return err
	}

	if c.BatchSize < 1 {
		return fmt.Errorf("batch_size must be positive, got %d", c.BatchSize)
	}

	return nil
}

// Engine collapses provider aliases to one canonical name.
func (c *Config) Engine() string {
	switch c.Database.Provider {
	case "postgresql", "postgres":
		return "postgresql"
	case "mysql":
		return "mysql"
	case "sqlite", "sqlite3":
		return "sqlite"
	default:
		return "postgresql"
	}
}
