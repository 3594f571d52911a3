package config

import (
	"crypto/rand"
	"errors"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds everything read at process start. There is no hot reload.
type Config struct {
	Port            string
	DocID           string // Google Doc holding the question text
	CredentialsFile string // service account credentials
	QuestionCount   int    // questions drawn per quiz
	DurationSeconds int    // time allowed per quiz attempt
	SessionSecret   []byte
}

// Load reads configuration from the environment, after loading a .env file if
// one exists.
func Load() (*Config, error) {
	if err := godotenv.Load(); err == nil {
		slog.Info("Loaded environment from .env file")
	}

	cfg := &Config{
		Port:            getEnv("PORT", "8080"),
		DocID:           os.Getenv("QUIZ_DOC_ID"),
		CredentialsFile: getEnv("GOOGLE_APPLICATION_CREDENTIALS", "credentials.json"),
		QuestionCount:   getEnvInt("QUIZ_QUESTION_COUNT", 15),
		DurationSeconds: getEnvInt("QUIZ_DURATION_SECONDS", 3600),
	}

	if cfg.DocID == "" {
		return nil, errors.New("QUIZ_DOC_ID is required")
	}
	if cfg.QuestionCount <= 0 {
		return nil, errors.New("QUIZ_QUESTION_COUNT must be positive")
	}
	if cfg.DurationSeconds <= 0 {
		return nil, errors.New("QUIZ_DURATION_SECONDS must be positive")
	}

	if secret := os.Getenv("SESSION_SECRET"); secret != "" {
		cfg.SessionSecret = []byte(secret)
	} else {
		// Sessions won't survive a restart without a configured secret.
		slog.Warn("SESSION_SECRET not set, using a random per-process secret")
		cfg.SessionSecret = make([]byte, 32)
		if _, err := rand.Read(cfg.SessionSecret); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

// Duration returns the per-quiz time limit.
func (c *Config) Duration() time.Duration {
	return time.Duration(c.DurationSeconds) * time.Second
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		slog.Warn("Invalid integer in environment, using default", "key", key, "value", value, "default", fallback)
		return fallback
	}
	return n
}
