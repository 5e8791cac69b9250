// Package config assembles runtime settings from defaults, an optional .env
// file, and ANKIQUIZ_* environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/cuongduong73/ankiquiz/internal/anki"
	"github.com/cuongduong73/ankiquiz/internal/llm"
	"github.com/cuongduong73/ankiquiz/internal/store"
)

// Config holds everything the commands need to wire the application.
type Config struct {
	// DBDriver is store.DriverSQLite or store.DriverPostgres.
	DBDriver string
	// DBPath is a SQLite file path or a Postgres DSN. Empty means
	// store.DefaultDBPath.
	DBPath string

	// AnkiURL is the AnkiConnect endpoint.
	AnkiURL string
	// AnkiTimeout bounds a single AnkiConnect request.
	AnkiTimeout time.Duration

	// Seed fixes presentation shuffles when non-nil.
	Seed *uint64

	// LLMEnabled reports whether explanations are available. It is set when
	// ANKIQUIZ_LLM_PROVIDER is given or a standard API key is discovered.
	LLMEnabled bool
	LLM        llm.Config
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		DBDriver:    store.DriverSQLite,
		AnkiURL:     anki.DefaultURL,
		AnkiTimeout: 10 * time.Second,
		LLM:         llm.DefaultConfig(),
	}
}

// LoadDotEnv loads variables from the given .env files, or ".env" when
// none are named. Missing files are ignored and existing variables win.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load %s: %w", p, err)
		}
	}
	return nil
}

// FromEnv builds a Config from environment variables, falling back to
// defaults for unset values.
func FromEnv() (Config, error) {
	cfg := DefaultConfig()

	if v := os.Getenv("ANKIQUIZ_DB_DRIVER"); v != "" {
		cfg.DBDriver = strings.ToLower(v)
	}
	if v := os.Getenv("ANKIQUIZ_DB"); v != "" {
		cfg.DBPath = v
	}
	if v := os.Getenv("ANKIQUIZ_ANKI_URL"); v != "" {
		cfg.AnkiURL = v
	}
	if v := os.Getenv("ANKIQUIZ_ANKI_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return cfg, fmt.Errorf("ANKIQUIZ_ANKI_TIMEOUT: %w", err)
		}
		cfg.AnkiTimeout = d
	}
	if v := os.Getenv("ANKIQUIZ_SEED"); v != "" {
		seed, err := ParseSeed(v)
		if err != nil {
			return cfg, err
		}
		cfg.Seed = &seed
	}

	if p := os.Getenv("ANKIQUIZ_LLM_PROVIDER"); p != "" {
		cfg.LLMEnabled = true
		cfg.LLM.Provider = strings.ToLower(p)
	} else if provider, ok := discoverProvider(); ok {
		cfg.LLMEnabled = true
		cfg.LLM.Provider = provider
	}
	applyLLMEnv(&cfg.LLM)

	return cfg, nil
}

// ParseSeed parses a shuffle seed given on the command line or in the
// environment.
func ParseSeed(s string) (uint64, error) {
	seed, err := strconv.ParseUint(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid seed %q: must be a non-negative integer", s)
	}
	return seed, nil
}

// standardKeys lists the vendor API key variables probed when no provider
// is configured explicitly, in priority order.
var standardKeys = []struct {
	env      string
	provider string
}{
	{"GEMINI_API_KEY", llm.ProviderGemini},
	{"OPENAI_API_KEY", llm.ProviderOpenAI},
	{"ANTHROPIC_API_KEY", llm.ProviderAnthropic},
	{"OPENROUTER_API_KEY", llm.ProviderOpenRouter},
}

func discoverProvider() (string, bool) {
	for _, k := range standardKeys {
		if os.Getenv(k.env) != "" {
			return k.provider, true
		}
	}
	for _, p := range []string{llm.ProviderAnthropic, llm.ProviderOpenAI, llm.ProviderGemini, llm.ProviderOpenRouter} {
		if os.Getenv(envName(p, "API_KEY")) != "" {
			return p, true
		}
	}
	return "", false
}

func envName(provider, suffix string) string {
	return "ANKIQUIZ_" + strings.ToUpper(provider) + "_" + suffix
}

// firstEnv returns the first non-empty value among names.
func firstEnv(names ...string) string {
	for _, n := range names {
		if v := os.Getenv(n); v != "" {
			return v
		}
	}
	return ""
}

func applyLLMEnv(c *llm.Config) {
	set := func(dst *string, names ...string) {
		if v := firstEnv(names...); v != "" {
			*dst = v
		}
	}

	set(&c.Anthropic.APIKey, envName(llm.ProviderAnthropic, "API_KEY"), "ANTHROPIC_API_KEY")
	set(&c.Anthropic.Model, envName(llm.ProviderAnthropic, "MODEL"))

	set(&c.OpenAI.APIKey, envName(llm.ProviderOpenAI, "API_KEY"), "OPENAI_API_KEY")
	set(&c.OpenAI.Model, envName(llm.ProviderOpenAI, "MODEL"))
	set(&c.OpenAI.BaseURL, envName(llm.ProviderOpenAI, "BASE_URL"))

	set(&c.Gemini.APIKey, envName(llm.ProviderGemini, "API_KEY"), "GEMINI_API_KEY")
	set(&c.Gemini.Model, envName(llm.ProviderGemini, "MODEL"))

	set(&c.OpenRouter.APIKey, envName(llm.ProviderOpenRouter, "API_KEY"), "OPENROUTER_API_KEY")
	set(&c.OpenRouter.Model, envName(llm.ProviderOpenRouter, "MODEL"))
	set(&c.OpenRouter.BaseURL, envName(llm.ProviderOpenRouter, "BASE_URL"))
}

// Validate checks the database driver and, when explanations are enabled,
// the LLM settings.
func (c Config) Validate() error {
	switch c.DBDriver {
	case store.DriverSQLite, store.DriverPostgres:
	default:
		return fmt.Errorf("unsupported database driver %q (want %s or %s)", c.DBDriver, store.DriverSQLite, store.DriverPostgres)
	}
	if c.DBDriver == store.DriverPostgres && c.DBPath == "" {
		return errors.New("ANKIQUIZ_DB must hold a connection string for the postgres driver")
	}
	if c.AnkiURL == "" {
		return errors.New("AnkiConnect URL must not be empty")
	}
	if c.AnkiTimeout <= 0 {
		return fmt.Errorf("AnkiConnect timeout must be positive, got %s", c.AnkiTimeout)
	}
	if c.LLMEnabled {
		if err := c.LLM.Validate(); err != nil {
			return fmt.Errorf("llm: %w", err)
		}
	}
	return nil
}

// ResolveDBPath returns DBPath, or the default SQLite location when unset.
func (c Config) ResolveDBPath() (string, error) {
	if c.DBPath != "" || c.DBDriver == store.DriverPostgres {
		return c.DBPath, nil
	}
	return store.DefaultDBPath()
}
