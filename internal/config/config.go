// Package config provides configuration for the research engine.
package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds the engine configuration.
type Config struct {
	// Server settings
	HTTPPort int

	// Agent process
	AgentCommand    string
	ResearchTimeout time.Duration

	// Stream relay
	StreamPollInterval  time.Duration
	HeartbeatInterval   time.Duration
	StreamNotFoundLimit int

	// Registry retention
	RetentionWindow time.Duration
	SweepInterval   time.Duration

	// Logging
	LogLevel string
}

// Load loads configuration from environment variables.
func Load() *Config {
	cfg := &Config{
		HTTPPort:            getEnvInt("HTTP_PORT", 8080),
		AgentCommand:        getEnv("AGENT_COMMAND", "claude"),
		ResearchTimeout:     getEnvDuration("RESEARCH_TIMEOUT_MS", 300000),
		StreamPollInterval:  getEnvDuration("STREAM_POLL_MS", 100),
		HeartbeatInterval:   getEnvDuration("HEARTBEAT_MS", 15000),
		StreamNotFoundLimit: getEnvInt("STREAM_NOT_FOUND_LIMIT", 30),
		RetentionWindow:     getEnvDuration("EXECUTION_RETENTION_MS", 3600000),
		SweepInterval:       getEnvDuration("SWEEP_INTERVAL_MS", 600000),
		LogLevel:            getEnv("LOG_LEVEL", "info"),
	}
	return cfg
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if intVal, err := strconv.Atoi(val); err == nil {
			return intVal
		}
	}
	return defaultVal
}

func getEnvDuration(key string, defaultMs int) time.Duration {
	return time.Duration(getEnvInt(key, defaultMs)) * time.Millisecond
}
