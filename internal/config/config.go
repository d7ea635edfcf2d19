// Package config reads runtime settings from the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Detector backends.
const (
	DetectorNative = "native"
	DetectorOpenCV = "opencv"
)

type Config struct {
	LogLevel      string
	LogFormat     string
	Detector      string        // DetectorNative or DetectorOpenCV
	WatchAddr     string        // listen address for the watch command's WebSocket feed
	FrameInterval time.Duration // replay interval between frames of a directory source
}

// Load builds a Config from the environment, falling back to defaults.
func Load() *Config {
	return &Config{
		LogLevel:      getEnv("SIGNAL_LOG_LEVEL", getEnv("IMAGE_MCP_LOG_LEVEL", "info")),
		LogFormat:     getEnv("SIGNAL_LOG_FORMAT", "console"),
		Detector:      getEnv("SIGNAL_DETECTOR", DetectorNative),
		WatchAddr:     getEnv("SIGNAL_WATCH_ADDR", ":8090"),
		FrameInterval: time.Duration(getEnvAsInt("SIGNAL_FRAME_INTERVAL_MS", 100)) * time.Millisecond,
	}
}

// Validate reports settings that cannot be used.
func (c *Config) Validate() error {
	switch c.Detector {
	case DetectorNative, DetectorOpenCV:
	default:
		return fmt.Errorf("unknown detector %q (want %s or %s)", c.Detector, DetectorNative, DetectorOpenCV)
	}
	if c.FrameInterval < 0 {
		return fmt.Errorf("frame interval must not be negative, got %s", c.FrameInterval)
	}
	return nil
}

// LoadEnvFile loads variables from a dotenv file into the process environment.
// Variables already set are left alone. A missing file is not an error.
func LoadEnvFile(path string) error {
	if path == "" {
		path = ".env"
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
