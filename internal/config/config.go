// Package config loads vibe configuration from defaults, an optional YAML
// file and the environment, in that order of precedence (lowest first).
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// PathEnvVar names an explicit config file.
const PathEnvVar = "VIBE_CONFIG"

// DefaultPath is used when neither --config nor VIBE_CONFIG is given.
const DefaultPath = "vibe.yaml"

// Config is the full application configuration.
type Config struct {
	TMDB      TMDBConfig      `koanf:"tmdb"`
	Recommend RecommendConfig `koanf:"recommend"`
	Session   SessionConfig   `koanf:"session"`
	Log       LogConfig       `koanf:"log"`
}

// TMDBConfig configures the external catalog provider. An empty APIKey
// disables all network access; every lookup then comes back empty.
type TMDBConfig struct {
	APIKey          string        `koanf:"api_key"`
	BaseURL         string        `koanf:"base_url" validate:"required,url"`
	ImageBaseURL    string        `koanf:"image_base_url" validate:"required,url"`
	Language        string        `koanf:"language" validate:"required"`
	DiscoverTimeout time.Duration `koanf:"discover_timeout" validate:"gt=0"`
	LookupTimeout   time.Duration `koanf:"lookup_timeout" validate:"gt=0"`
	RatePerSecond   float64       `koanf:"rate_per_second" validate:"gt=0"`
	Burst           int           `koanf:"burst" validate:"min=1"`
	BreakerFailures uint32        `koanf:"breaker_failures" validate:"min=1"`
	BreakerTimeout  time.Duration `koanf:"breaker_timeout" validate:"gt=0"`
}

type RecommendConfig struct {
	Count        int `koanf:"count" validate:"min=1,max=50"`
	Oversample   int `koanf:"oversample" validate:"min=1"`
	MinVotes     int `koanf:"min_votes" validate:"min=0"`
	RefreshPages int `koanf:"refresh_pages" validate:"min=1"`
}

type SessionConfig struct {
	DSN string `koanf:"dsn" validate:"required"`
}

type LogConfig struct {
	Level  string `koanf:"level" validate:"oneof=trace debug info warn warning error disabled"`
	Format string `koanf:"format" validate:"oneof=json console"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		TMDB: TMDBConfig{
			BaseURL:         "https://api.themoviedb.org/3",
			ImageBaseURL:    "https://image.tmdb.org/t/p/w500",
			Language:        "ko-KR",
			DiscoverTimeout: 10 * time.Second,
			LookupTimeout:   5 * time.Second,
			RatePerSecond:   20,
			Burst:           5,
			BreakerFailures: 5,
			BreakerTimeout:  30 * time.Second,
		},
		Recommend: RecommendConfig{
			Count:        5,
			Oversample:   50,
			MinVotes:     50,
			RefreshPages: 5,
		},
		Session: SessionConfig{DSN: ":memory:"},
		Log:     LogConfig{Level: "warn", Format: "json"},
	}
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks field constraints.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// Load builds the configuration. path is the --config flag value; when empty
// VIBE_CONFIG and then ./vibe.yaml are tried. A missing default file is not an
// error, a missing explicit one is.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(Default(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}

	cfgPath, err := resolvePath(path)
	if err != nil {
		return nil, err
	}
	if cfgPath != "" {
		if err := k.Load(file.Provider(cfgPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", cfgPath, err)
		}
	}

	// TMDB_API_KEY first so VIBE_TMDB_API_KEY wins when both are set.
	if err := k.Load(env.Provider("", ".", legacyEnvKey), nil); err != nil {
		return nil, fmt.Errorf("load legacy env: %w", err)
	}
	if err := k.Load(env.Provider(envPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("load env: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func resolvePath(flag string) (string, error) {
	explicit := flag
	if explicit == "" {
		explicit = os.Getenv(PathEnvVar)
	}
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return "", fmt.Errorf("config file: %w", err)
		}
		return explicit, nil
	}
	if _, err := os.Stat(DefaultPath); err == nil {
		return DefaultPath, nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return "", fmt.Errorf("config file: %w", err)
	}
	return "", nil
}

const envPrefix = "VIBE_"

// sections maps the first env segment to its config section, so that
// VIBE_TMDB_API_KEY becomes tmdb.api_key rather than tmdb.api.key.
var sections = []string{"tmdb", "recommend", "session", "log"}

func envKey(key string) string {
	key = strings.ToLower(strings.TrimPrefix(key, envPrefix))
	if key == "config" {
		return ""
	}
	for _, s := range sections {
		if rest, ok := strings.CutPrefix(key, s+"_"); ok && rest != "" {
			return s + "." + rest
		}
	}
	return ""
}

func legacyEnvKey(key string) string {
	if key == "TMDB_API_KEY" {
		return "tmdb.api_key"
	}
	return ""
}
