package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config captures environment driven configuration values for the booking service.
type Config struct {
	HTTPPort      int
	SQLiteDSN     string
	Environment   string
	AdminUsername string
	AdminPassword string
}

// Load parses configuration values from the current process environment.
//
// Optional fields fall back to sensible defaults. The admin credentials are
// optional as a pair: setting only one of them is reported as invalid.
func Load() (Config, error) {
	cfg := Config{
		HTTPPort:    8080,
		SQLiteDSN:   "file:bookme.db?_foreign_keys=on",
		Environment: "dev",
	}

	missing := make([]string, 0, 1)
	invalid := make([]string, 0, 2)

	if portValue := strings.TrimSpace(os.Getenv("BOOKME_HTTP_PORT")); portValue != "" {
		port, err := strconv.Atoi(portValue)
		if err != nil || port <= 0 {
			invalid = append(invalid, "BOOKME_HTTP_PORT")
		} else {
			cfg.HTTPPort = port
		}
	}

	if dsn := strings.TrimSpace(os.Getenv("BOOKME_SQLITE_DSN")); dsn != "" {
		cfg.SQLiteDSN = dsn
	}

	if env := strings.TrimSpace(os.Getenv("BOOKME_ENV")); env != "" {
		cfg.Environment = env
	}

	cfg.AdminUsername = strings.TrimSpace(os.Getenv("BOOKME_ADMIN_USERNAME"))
	cfg.AdminPassword = os.Getenv("BOOKME_ADMIN_PASSWORD")
	if cfg.AdminUsername != "" && cfg.AdminPassword == "" {
		missing = append(missing, "BOOKME_ADMIN_PASSWORD")
	}
	if cfg.AdminUsername == "" && cfg.AdminPassword != "" {
		missing = append(missing, "BOOKME_ADMIN_USERNAME")
	}

	if len(missing) > 0 {
		return Config{}, fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}
	if len(invalid) > 0 {
		return Config{}, fmt.Errorf("invalid environment variable values: %s", strings.Join(invalid, ", "))
	}

	return cfg, nil
}
