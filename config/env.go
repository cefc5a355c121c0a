package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
)

// Var returns an environment variable stripped of whitespace and quotes.
func Var(key string) string {
	return strings.Trim(strings.TrimSpace(os.Getenv(key)), "\"'")
}

// ConfigPath is the config file named by TAGSEG_CONFIG.
func ConfigPath() string {
	return Var("TAGSEG_CONFIG")
}

// ONNXLibrary is the runtime library named by TAGSEG_ONNX_LIB.
func ONNXLibrary() string {
	return Var("TAGSEG_ONNX_LIB")
}

// Host is the listen address named by TAGSEG_HOST.
func Host() string {
	return Var("TAGSEG_HOST")
}

// Debug reports whether TAGSEG_DEBUG enables debug logging.
func Debug() bool {
	s := Var("TAGSEG_DEBUG")
	if s == "" {
		return false
	}
	b, err := strconv.ParseBool(s)
	if err != nil {
		return true
	}
	return b
}

// LogLevel is the slog level selected by TAGSEG_DEBUG.
func LogLevel() slog.Level {
	if Debug() {
		return slog.LevelDebug
	}
	return slog.LevelInfo
}

// MaxBatchSize reads TAGSEG_MAX_BATCH_SIZE, falling back to defaultValue.
func MaxBatchSize(defaultValue int) int {
	return positiveInt("TAGSEG_MAX_BATCH_SIZE", defaultValue)
}

// MaxStringLength reads TAGSEG_MAX_STRING_LENGTH, falling back to defaultValue.
func MaxStringLength(defaultValue int) int {
	return positiveInt("TAGSEG_MAX_STRING_LENGTH", defaultValue)
}

func positiveInt(key string, defaultValue int) int {
	if s := Var(key); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n <= 0 {
			slog.Warn("invalid environment variable, using default", "key", key, "value", s, "default", defaultValue)
			return defaultValue
		}
		return n
	}
	return defaultValue
}
