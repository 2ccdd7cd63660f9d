// Package config reads the client's environment configuration. Callers load
// an optional .env first (godotenv in main), then Load picks everything up
// with sensible defaults.
package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	ServerURL            string
	ReconnectMaxAttempts int
	ReconnectDelay       time.Duration
	DataDir              string
	LogLevel             string
}

func Load() *Config {
	return &Config{
		ServerURL:            getEnv("PODIUM_SERVER_URL", "ws://localhost:8765/ws"),
		ReconnectMaxAttempts: getEnvInt("PODIUM_RECONNECT_MAX_ATTEMPTS", 5),
		ReconnectDelay:       time.Duration(getEnvInt("PODIUM_RECONNECT_DELAY_MS", 3000)) * time.Millisecond,
		DataDir:              getEnv("PODIUM_DATA_DIR", ".podium"),
		LogLevel:             getEnv("PODIUM_LOG_LEVEL", "info"),
	}
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			return n
		}
	}
	return defaultVal
}
