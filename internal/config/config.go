package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/alexanderramin/trackscope/internal/domain"
)

type Config struct {
	DBPath         string
	Environment    string
	Port           string
	CORSOrigins    string
	LogLevel       slog.Level
	MappingPath    string
	RebuildWorkers int
	ProgressMode   domain.ProgressMode
}

func Load() *Config {
	env := getEnv("ENVIRONMENT", "dev")
	return &Config{
		DBPath:         getEnv("TRACKSCOPE_DB", defaultDBPath()),
		Environment:    env,
		Port:           getEnv("PORT", "8080"),
		CORSOrigins:    getEnv("CORS_ORIGINS", "http://localhost:3000"),
		LogLevel:       parseLevel(getEnv("TRACKSCOPE_LOG_LEVEL", ""), env),
		MappingPath:    getEnv("TRACKSCOPE_MAPPING", ""),
		RebuildWorkers: getEnvInt("TRACKSCOPE_REBUILD_WORKERS", 1),
		ProgressMode:   parseMode(getEnv("TRACKSCOPE_PROGRESS_MODE", string(domain.ModeAverage))),
	}
}

// Origins splits the comma-separated CORS origin list.
func (c *Config) Origins() []string {
	var out []string
	for _, o := range strings.Split(c.CORSOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "trackscope.db"
	}
	return filepath.Join(home, ".trackscope", "trackscope.db")
}

// parseLevel falls back to debug in dev and info elsewhere.
func parseLevel(raw, env string) slog.Level {
	var level slog.Level
	if raw != "" && level.UnmarshalText([]byte(raw)) == nil {
		return level
	}
	if env == "dev" {
		return slog.LevelDebug
	}
	return slog.LevelInfo
}

func parseMode(raw string) domain.ProgressMode {
	raw = strings.ToLower(strings.TrimSpace(raw))
	if domain.ValidProgressModes[raw] {
		return domain.ProgressMode(raw)
	}
	return domain.ModeAverage
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	n, err := strconv.Atoi(os.Getenv(key))
	if err != nil || n < 1 {
		return defaultValue
	}
	return n
}
