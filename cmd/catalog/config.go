package main

import (
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

type config struct {
	Driver   string
	DSN      string
	LogLevel slog.Level
}

func loadEnvFiles() {
	// Do not override environment provided by the runtime.
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")
}

func loadConfig() config {
	loadEnvFiles()

	cfg := config{
		Driver: getEnv("CATALOG_DB_DRIVER", "sqlite3"),
		DSN:    getEnv("CATALOG_DB_DSN", "file:catalog.db?_foreign_keys=on"),
	}

	if err := cfg.LogLevel.UnmarshalText([]byte(getEnv("CATALOG_LOG_LEVEL", "info"))); err != nil {
		cfg.LogLevel = slog.LevelInfo
	}

	return cfg
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func redactDSN(dsn string) string {
	const marker = "://"
	start := strings.Index(dsn, marker)
	if start < 0 {
		return dsn
	}
	start += len(marker)
	end := strings.Index(dsn[start:], "@")
	if end < 0 {
		return dsn
	}
	return dsn[:start] + "***" + dsn[start+end:]
}
