package config

import (
	"errors"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	defaultDBPath   = "./payout.db"
	defaultPort     = "8080"
	defaultEnv      = "dev"
	defaultLogLevel = "info"
)

// Config holds application configuration sourced from the environment, an
// optional .env file and an optional payout.yaml.
type Config struct {
	Env           string
	AdminEmail    string
	AdminPassword string
	SessionSecret string
	DBPath        string
	Port          string
	LogLevel      string
	// MarkupEnabled controls whether business buffers are added to base cost
	// when deriving target settlements.
	MarkupEnabled bool
}

// Load reads configuration using ".env" in the working directory.
func Load() (Config, error) {
	return LoadFrom(".env")
}

// LoadFrom reads configuration, loading dotenvPath first when it exists.
// Variables already present in the environment are never overwritten.
func LoadFrom(dotenvPath string) (Config, error) {
	// Best-effort: production injects real environment variables.
	_ = godotenv.Load(dotenvPath)

	v := viper.New()
	v.SetConfigName("payout")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AutomaticEnv()

	v.SetDefault("ENV", defaultEnv)
	v.SetDefault("PORT", defaultPort)
	v.SetDefault("DB_PATH", defaultDBPath)
	v.SetDefault("LOG_LEVEL", defaultLogLevel)
	v.SetDefault("DEFAULT_MARKUP_ENABLED", true)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, err
		}
	}

	return Config{
		Env:           strings.ToLower(v.GetString("ENV")),
		AdminEmail:    v.GetString("ADMIN_EMAIL"),
		AdminPassword: v.GetString("ADMIN_PASSWORD"),
		SessionSecret: v.GetString("SESSION_SECRET"),
		DBPath:        v.GetString("DB_PATH"),
		Port:          strings.TrimPrefix(v.GetString("PORT"), ":"),
		LogLevel:      v.GetString("LOG_LEVEL"),
		MarkupEnabled: v.GetBool("DEFAULT_MARKUP_ENABLED"),
	}, nil
}

// IsDev reports whether the process runs in a development environment.
func (c Config) IsDev() bool {
	return c.Env == "" || c.Env == "dev" || c.Env == "development"
}

// Warnings lists settings that are missing but not fatal.
func (c Config) Warnings() []string {
	var warnings []string
	if c.AdminEmail == "" {
		warnings = append(warnings, "ADMIN_EMAIL is not set")
	}
	if c.AdminPassword == "" {
		warnings = append(warnings, "ADMIN_PASSWORD is not set")
	}
	if c.SessionSecret == "" {
		warnings = append(warnings, "SESSION_SECRET is not set")
	}
	return warnings
}
