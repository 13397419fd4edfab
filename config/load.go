package config

import (
	"github.com/fox-one/pkg/config"
	"github.com/shopspring/decimal"
)

// Load load config file
func Load(cfgFile string, cfg *Config) error {
	config.AutomaticLoadEnv("LENDING")
	if err := config.LoadYaml(cfgFile, cfg); err != nil {
		return err
	}

	defaults(cfg)
	return nil
}

func defaults(cfg *Config) {
	if cfg.Storage == "" {
		cfg.Storage = StorageDB
	}

	if cfg.Oracle.Endpoint == "" {
		cfg.Oracle.Endpoint = "https://hermes.pyth.network"
	}

	if cfg.Oracle.MaxStaleness <= 0 {
		cfg.Oracle.MaxStaleness = 60
	}

	if !cfg.Oracle.MaxConfidenceRatio.IsPositive() {
		cfg.Oracle.MaxConfidenceRatio = decimal.New(1, -2)
	}

	if cfg.Cashier.Batch <= 0 {
		cfg.Cashier.Batch = 100
	}

	if cfg.Cashier.Capacity <= 0 {
		cfg.Cashier.Capacity = 1
	}

	if cfg.Cashier.Interval <= 0 {
		cfg.Cashier.Interval = 1
	}
}
