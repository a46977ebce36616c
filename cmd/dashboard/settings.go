package main

import (
	"github.com/hamed0406/statusdash/internal/config"
)

// loadSettings applies --config on top of the environment.
func loadSettings() config.Config {
	cfg := config.FromEnv()
	if configPath != "" {
		cfg.ConfigPath = configPath
	}
	return cfg
}
