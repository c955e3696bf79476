package config

import (
	"os"
	"strconv"
)

// ============================================================
// Configuration
// ============================================================

type Config struct {
	Port         string
	Environment  string
	ReadTimeout  int
	WriteTimeout int

	// service addresses used by the gateway and the editor
	PlansURL  string
	EditorURL string

	// plans service persistence
	DataDir        string
	DBPath         string
	MigrationsPath string
}

// Load reads the configuration from environment variables.
func Load() *Config {
	return &Config{
		Port:         getEnv("PORT", "3000"),
		Environment:  getEnv("ENV", "development"),
		ReadTimeout:  getEnvAsInt("READ_TIMEOUT", 10),
		WriteTimeout: getEnvAsInt("WRITE_TIMEOUT", 10),

		PlansURL:  getEnv("PLANS_URL", "http://localhost:3001"),
		EditorURL: getEnv("EDITOR_URL", "http://localhost:3002"),

		DataDir:        getEnv("DATA_DIR", "./data/projects"),
		DBPath:         getEnv("DB_PATH", "./data/plans.db"),
		MigrationsPath: getEnv("MIGRATIONS_PATH", "./migrations/001_init_plans.sql"),
	}
}

func getEnv(key, defaultVal string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultVal
}

func getEnvAsInt(key string, defaultVal int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultVal
}
