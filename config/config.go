package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	DefaultAPIURL      = "http://localhost:8080/api"
	DefaultHTTPTimeout = 12 * time.Second
)

// Config holds runtime settings resolved from .env, the environment and flags.
type Config struct {
	APIURL      string
	AuthToken   string
	MaxSeats    int
	HTTPTimeout time.Duration
	LogLevel    string
	LogFormat   string
	LogFile     string
}

// Load reads an optional .env file from the working directory and then the
// process environment. Variables already set in the environment win over
// the file.
func Load() (Config, error) {
	return LoadFiles(".env")
}

// LoadFiles is Load with explicit dotenv paths. Missing files are ignored.
func LoadFiles(paths ...string) (Config, error) {
	for _, path := range paths {
		if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", path, err)
		}
	}
	return FromEnv()
}

// FromEnv builds a Config from CINEMA_* environment variables.
func FromEnv() (Config, error) {
	cfg := Config{
		APIURL:      envOr("CINEMA_API_URL", DefaultAPIURL),
		AuthToken:   strings.TrimSpace(os.Getenv("CINEMA_AUTH_TOKEN")),
		HTTPTimeout: DefaultHTTPTimeout,
		LogLevel:    envOr("CINEMA_LOG_LEVEL", "info"),
		LogFormat:   envOr("CINEMA_LOG_FORMAT", "text"),
		LogFile:     strings.TrimSpace(os.Getenv("CINEMA_LOG_FILE")),
	}

	if raw := strings.TrimSpace(os.Getenv("CINEMA_MAX_SEATS")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return Config{}, fmt.Errorf("invalid CINEMA_MAX_SEATS %q", raw)
		}
		cfg.MaxSeats = n
	}
	if raw := strings.TrimSpace(os.Getenv("CINEMA_HTTP_TIMEOUT")); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil || d <= 0 {
			return Config{}, fmt.Errorf("invalid CINEMA_HTTP_TIMEOUT %q", raw)
		}
		cfg.HTTPTimeout = d
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	u, err := url.Parse(c.APIURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid api url %q", c.APIURL)
	}
	if c.MaxSeats < 0 {
		return errors.New("max seats must not be negative")
	}
	return nil
}

func envOr(key string, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}
