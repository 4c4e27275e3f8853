package config

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	Addr             string `validate:"required"`
	DBPath           string `validate:"required"`
	LogLevel         string `validate:"required,oneof=DEBUG INFO WARN ERROR"`
	TokenSecret      string `validate:"required,min=16"`
	TokenTTLHours    int    `validate:"gt=0"`
	DevTokenEndpoint bool
}

// Load reads configuration from a .env file (if present) and environment
// variables, applying defaults when values are missing or invalid.
func Load() Config {
	// Ignore error so the app still starts when .env is absent in production.
	_ = godotenv.Load()

	return Config{
		Addr:             envOr("ADDR", ":8080"),
		DBPath:           envOr("DB_PATH", "linguaflash.db"),
		LogLevel:         envOr("LOG_LEVEL", "INFO"),
		TokenSecret:      envOr("TOKEN_SECRET", ""),
		TokenTTLHours:    envIntOr("TOKEN_TTL_HOURS", 720),
		DevTokenEndpoint: envBoolOr("DEV_TOKEN_ENDPOINT", false),
	}
}

// Validate checks the configuration and returns a descriptive error listing
// every offending environment variable.
func (c Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}
	msg := "invalid configuration:"
	for _, fe := range verrs {
		msg += fmt.Sprintf(" %s (%s)", envName(fe.Field()), fe.Tag())
	}
	return fmt.Errorf("%s", msg)
}

var validate = validator.New()

func envName(field string) string {
	switch field {
	case "Addr":
		return "ADDR"
	case "DBPath":
		return "DB_PATH"
	case "LogLevel":
		return "LOG_LEVEL"
	case "TokenSecret":
		return "TOKEN_SECRET"
	case "TokenTTLHours":
		return "TOKEN_TTL_HOURS"
	case "DevTokenEndpoint":
		return "DEV_TOKEN_ENDPOINT"
	}
	return field
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envIntOr(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
		log.Printf("invalid value for %s=%q, using default %d", key, v, def)
	}
	return def
}

func envBoolOr(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
		log.Printf("invalid value for %s=%q, using default %t", key, v, def)
	}
	return def
}
