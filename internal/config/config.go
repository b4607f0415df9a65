package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Explainer backends.
const (
	ExplainerAPI = "api"
	ExplainerLLM = "llm"
)

// Config holds application settings resolved from .env and the environment.
type Config struct {
	APIURL     string        `validate:"required,url"`
	Token      string
	APITimeout time.Duration `validate:"gt=0"`
	Explainer  string        `validate:"oneof=api llm"`

	RedisAddr     string
	RedisPassword string
	RedisDB       int           `validate:"gte=0"`
	CacheTTL      time.Duration `validate:"gte=0"`

	DBPath   string
	LogFile  string
	LogLevel string `validate:"omitempty,oneof=debug info warn warning error"`
}

// Default returns the settings used when nothing is configured.
func Default() Config {
	return Config{
		APIURL:     "http://localhost:8080",
		APITimeout: 15 * time.Second,
		Explainer:  ExplainerAPI,
		CacheTTL:   24 * time.Hour,
	}
}

// Load reads a .env file from the working directory when present, then the
// process environment. Environment values win over .env values.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}
	return FromEnv()
}

// FromEnv builds a Config from environment variables only.
func FromEnv() (Config, error) {
	def := Default()
	var errs []error

	cfg := Config{
		APIURL:        getEnv("TRAILHEAD_API_URL", def.APIURL),
		Token:         os.Getenv("TRAILHEAD_TOKEN"),
		Explainer:     getEnv("TRAILHEAD_EXPLAINER", def.Explainer),
		RedisAddr:     os.Getenv("TRAILHEAD_REDIS_ADDR"),
		RedisPassword: os.Getenv("TRAILHEAD_REDIS_PASSWORD"),
		DBPath:        os.Getenv("TRAILHEAD_DB"),
		LogFile:       os.Getenv("TRAILHEAD_LOG_FILE"),
		LogLevel:      os.Getenv("TRAILHEAD_LOG_LEVEL"),
	}

	var err error
	if cfg.APITimeout, err = getEnvDuration("TRAILHEAD_API_TIMEOUT", def.APITimeout); err != nil {
		errs = append(errs, err)
	}
	if cfg.CacheTTL, err = getEnvDuration("TRAILHEAD_CACHE_TTL", def.CacheTTL); err != nil {
		errs = append(errs, err)
	}
	if cfg.RedisDB, err = getEnvInt("TRAILHEAD_REDIS_DB", 0); err != nil {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return Config{}, errors.Join(errs...)
	}
	return cfg, cfg.Validate()
}

// Validate checks field constraints.
func (c Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// CacheEnabled reports whether a Redis address is configured.
func (c Config) CacheEnabled() bool {
	return c.RedisAddr != ""
}

func getEnv(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

func getEnvDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}
