// Package config loads dialog-cli settings from the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds the batch settings. Command-line flags override it.
type Config struct {
	LinesPath         string
	ConversationsPath string
	CharactersPath    string
	Encoding          string
	Format            string
	OutPath           string
	DBPath            string
	LogLevel          string
	Validate          bool
	Stats             bool
}

// LoadEnvFile loads KEY=VALUE pairs from path into the environment.
// Variables already set win. A missing file is not an error.
func LoadEnvFile(path string) error {
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("loading %s: %w", path, err)
	}
	return nil
}

// Load reads configuration from DIALOG_* environment variables.
func Load() (Config, error) {
	cfg := Config{
		LinesPath:         envOrDefault("DIALOG_LINES", "movie_lines.txt"),
		ConversationsPath: envOrDefault("DIALOG_CONVERSATIONS", "movie_conversations.txt"),
		CharactersPath:    envOrDefault("DIALOG_CHARACTERS", ""),
		Encoding:          envOrDefault("DIALOG_ENCODING", "latin1"),
		Format:            envOrDefault("DIALOG_FORMAT", "text"),
		OutPath:           envOrDefault("DIALOG_OUT", ""),
		DBPath:            envOrDefault("DIALOG_DB", ""),
		LogLevel:          envOrDefault("LOG_LEVEL", "info"),
		Validate:          envBoolOrDefault("DIALOG_VALIDATE", true),
		Stats:             envBoolOrDefault("DIALOG_STATS", false),
	}

	if _, err := ParseLevel(cfg.LogLevel); err != nil {
		return Config{}, fmt.Errorf("LOG_LEVEL: %w", err)
	}
	return cfg, nil
}

// ParseLevel parses a slog level name such as "debug" or "warn".
func ParseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo, err
	}
	return level, nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envBoolOrDefault(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return v == "1" || strings.EqualFold(v, "true")
}
