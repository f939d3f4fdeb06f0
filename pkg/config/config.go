// Package config loads process settings from the environment and an optional
// .env file.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// Config holds the application settings
type Config struct {
	LogLevel        string
	LogFormat       string
	HTTPAddr        string
	ScenarioFile    string
	DefaultScenario string
	SpendFile       string
	ConversionsFile string
	ShutdownTimeout time.Duration
}

// LoadConfig loads the given env files (.env when none are given) and reads
// SPORTSPROD_* variables. A missing env file is only a warning; variables
// already set in the environment win over the file.
func LoadConfig(envFiles ...string) (*Config, error) {
	if err := godotenv.Load(envFiles...); err != nil {
		logrus.WithField("files", envFiles).Debug("no .env file loaded")
	}

	timeout, err := time.ParseDuration(getEnv("SPORTSPROD_SHUTDOWN_TIMEOUT", "10s"))
	if err != nil {
		return nil, fmt.Errorf("invalid SPORTSPROD_SHUTDOWN_TIMEOUT: %w", err)
	}

	cfg := &Config{
		LogLevel:        getEnv("SPORTSPROD_LOG_LEVEL", "info"),
		LogFormat:       getEnv("SPORTSPROD_LOG_FORMAT", "text"),
		HTTPAddr:        getEnv("SPORTSPROD_HTTP_ADDR", ":8080"),
		ScenarioFile:    getEnv("SPORTSPROD_SCENARIO_FILE", "scenarios.yaml"),
		DefaultScenario: getEnv("SPORTSPROD_DEFAULT_SCENARIO", "moderate"),
		SpendFile:       os.Getenv("SPORTSPROD_SPEND_FILE"),
		ConversionsFile: os.Getenv("SPORTSPROD_CONVERSIONS_FILE"),
		ShutdownTimeout: timeout,
	}

	return cfg, nil
}

// getEnv returns the variable or a default when unset or empty
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
