// Package config assembles runtime configuration for the CLI: environment
// variables (optionally from a .env file) for machine-local concerns, and
// an optional YAML defaults file for settings applied to fresh stores.
// Durable settings live inside the snapshot itself, not here.
package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/daftarhq/daftar/internal/ledger"
)

// Environment variables. A missing .env file is fine; explicit environment
// always wins over file contents.
const (
	EnvDBPath   = "DAFTAR_DB"
	EnvKey      = "DAFTAR_KEY"
	EnvDefaults = "DAFTAR_DEFAULTS"
)

// Config is the machine-local runtime configuration.
type Config struct {
	DBPath      string // SQLite database file
	SnapshotKey string // key the snapshot blob is stored under
	Defaults    string // optional YAML defaults file
}

// Load reads .env (if present) and the environment.
func Load() Config {
	_ = godotenv.Load()

	cfg := Config{
		DBPath:      os.Getenv(EnvDBPath),
		SnapshotKey: os.Getenv(EnvKey),
		Defaults:    os.Getenv(EnvDefaults),
	}
	if cfg.DBPath == "" {
		cfg.DBPath = "daftar.db"
	}
	if cfg.SnapshotKey == "" {
		cfg.SnapshotKey = "daftar"
	}
	return cfg
}

// defaultsFile mirrors ledger.Settings for the YAML defaults document.
type defaultsFile struct {
	Secret            *string `yaml:"secret"`
	LowStockThreshold *int    `yaml:"lowStockThreshold"`
	ContractAlertDays *int    `yaml:"contractAlertDays"`
	Alerts            *struct {
		Sales     *bool `yaml:"sales"`
		Stock     *bool `yaml:"stock"`
		Contracts *bool `yaml:"contracts"`
	} `yaml:"alerts"`
}

// Settings returns the settings for a fresh store: package defaults
// overlaid with the YAML defaults file, when one is configured and exists.
func (c Config) Settings() (ledger.Settings, error) {
	s := ledger.DefaultSettings()
	if c.Defaults == "" {
		return s, nil
	}
	data, err := os.ReadFile(c.Defaults)
	if os.IsNotExist(err) {
		return s, nil
	}
	if err != nil {
		return s, fmt.Errorf("read defaults file: %w", err)
	}
	var f defaultsFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return s, fmt.Errorf("parse defaults file %s: %w", c.Defaults, err)
	}
	if f.Secret != nil {
		s.Secret = *f.Secret
	}
	if f.LowStockThreshold != nil {
		s.LowStockThreshold = *f.LowStockThreshold
	}
	if f.ContractAlertDays != nil {
		s.ContractAlertDays = *f.ContractAlertDays
	}
	if f.Alerts != nil {
		if f.Alerts.Sales != nil {
			s.Alerts.Sales = *f.Alerts.Sales
		}
		if f.Alerts.Stock != nil {
			s.Alerts.Stock = *f.Alerts.Stock
		}
		if f.Alerts.Contracts != nil {
			s.Alerts.Contracts = *f.Alerts.Contracts
		}
	}
	return s, nil
}
