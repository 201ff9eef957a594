// internal/config/config.go
//
// Environment-driven configuration for the hangman server.
// main loads .env (godotenv) first, then calls Load.
//
// Environment variables (defaults in brackets):
//   PORT                 [8000]
//   LOG_LEVEL            [info]     zerolog level name
//   LOG_FORMAT           [json]     json | console
//   WORD_SOURCE          [remote]   remote | embedded
//   WORD_API_URL         [https://random-word-api.herokuapp.com/word]
//   WORD_API_TIMEOUT     [5s]
//   WORDS_FILE           []         word list for WORD_SOURCE=embedded
//   DEFAULT_MAX_ATTEMPTS [6]
//   REQUEST_TIMEOUT      [10s]
//   HISTORY_DB           []         SQLite path for finished games; empty disables

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/robalobadob/hangman/internal/game"
	"github.com/robalobadob/hangman/internal/words"
)

const (
	SourceRemote   = "remote"
	SourceEmbedded = "embedded"
)

type Config struct {
	Port               string
	LogLevel           string
	LogFormat          string
	WordSource         string
	WordAPIURL         string
	WordAPITimeout     time.Duration
	WordsFile          string
	DefaultMaxAttempts int
	RequestTimeout     time.Duration
	HistoryDB          string
}

// Load reads the configuration from the environment.
func Load() (Config, error) {
	c := Config{
		Port:               getEnv("PORT", "8000"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		LogFormat:          strings.ToLower(getEnv("LOG_FORMAT", "json")),
		WordSource:         strings.ToLower(getEnv("WORD_SOURCE", SourceRemote)),
		WordAPIURL:         getEnv("WORD_API_URL", words.DefaultURL),
		WordsFile:          os.Getenv("WORDS_FILE"),
		HistoryDB:          os.Getenv("HISTORY_DB"),
		DefaultMaxAttempts: game.DefaultMaxAttempts,
		WordAPITimeout:     words.DefaultTimeout,
		RequestTimeout:     10 * time.Second,
	}

	var err error
	if c.DefaultMaxAttempts, err = envInt("DEFAULT_MAX_ATTEMPTS", c.DefaultMaxAttempts); err != nil {
		return Config{}, err
	}
	if c.WordAPITimeout, err = envDuration("WORD_API_TIMEOUT", c.WordAPITimeout); err != nil {
		return Config{}, err
	}
	if c.RequestTimeout, err = envDuration("REQUEST_TIMEOUT", c.RequestTimeout); err != nil {
		return Config{}, err
	}
	return c, c.validate()
}

func (c Config) validate() error {
	switch c.WordSource {
	case SourceRemote, SourceEmbedded:
	default:
		return fmt.Errorf("config: WORD_SOURCE must be %q or %q, got %q", SourceRemote, SourceEmbedded, c.WordSource)
	}
	switch c.LogFormat {
	case "json", "console":
	default:
		return fmt.Errorf("config: LOG_FORMAT must be json or console, got %q", c.LogFormat)
	}
	if c.DefaultMaxAttempts < 1 {
		return fmt.Errorf("config: DEFAULT_MAX_ATTEMPTS must be at least 1")
	}
	if c.WordAPITimeout <= 0 || c.RequestTimeout <= 0 {
		return fmt.Errorf("config: timeouts must be positive")
	}
	return nil
}

// Addr is the listen address derived from Port.
func (c Config) Addr() string { return ":" + c.Port }

// getEnv returns the value of k or def if unset/empty.
func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func envInt(k string, def int) (int, error) {
	v := os.Getenv(k)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("config: %s: %w", k, err)
	}
	return n, nil
}

func envDuration(k string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(k)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("config: %s: %w", k, err)
	}
	return d, nil
}
