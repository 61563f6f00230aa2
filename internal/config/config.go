package config

import (
	"log"
	"os"
)

const (
	defaultDBPath    = "./prodcalc.db"
	defaultPort      = "8080"
	defaultUploadDir = "./uploads"
	defaultEnv       = "dev"
)

// Config holds application configuration sourced from environment variables.
type Config struct {
	Env       string
	Port      string
	DBPath    string
	UploadDir string
	BaseURL   string
}

// Load reads environment variables and returns a populated Config.
func Load() Config {
	// Best-effort: load local dev environment variables.
	// We don't fail if the file is missing; production should use real env injection.
	_ = loadDotEnv(".env")

	cfg := Config{
		Env:       os.Getenv("APP_ENV"),
		Port:      os.Getenv("PORT"),
		DBPath:    os.Getenv("DB_PATH"),
		UploadDir: os.Getenv("UPLOAD_DIR"),
		BaseURL:   os.Getenv("BASE_URL"),
	}

	if cfg.Env == "" {
		cfg.Env = defaultEnv
	}
	if cfg.Port == "" {
		cfg.Port = defaultPort
	}
	if cfg.DBPath == "" {
		cfg.DBPath = defaultDBPath
	}
	if cfg.UploadDir == "" {
		cfg.UploadDir = defaultUploadDir
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "http://localhost:" + cfg.Port
		log.Printf("warning: BASE_URL is not set, using %s", cfg.BaseURL)
	}

	return cfg
}

// IsDev reports whether the app runs in local development mode.
func (c Config) IsDev() bool {
	return c.Env == "dev"
}
