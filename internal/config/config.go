// Package config reads saltmatch settings from the environment.
package config

import (
	"os"
	"time"
)

// Environment variable names.
const (
	EnvLogLevel      = "SALTMATCH_LOG_LEVEL"
	EnvRoster        = "SALTMATCH_ROSTER"
	EnvModuleTimeout = "SALTMATCH_MODULE_TIMEOUT"
)

type Config struct {
	LogLevel      string
	Roster        string
	ModuleTimeout time.Duration
}

func Load() *Config {
	return &Config{
		LogLevel:      getEnv(EnvLogLevel, "WARN"),
		Roster:        getEnv(EnvRoster, ""),
		ModuleTimeout: getDurationEnv(EnvModuleTimeout, 10*time.Second),
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getDurationEnv(key string, fallback time.Duration) time.Duration {
	if value, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}
