package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server        ServerConfig
	Database      DatabaseConfig
	Redis         RedisConfig
	Transcription TranscriptionConfig
}

type ServerConfig struct {
	Port int
	Env  string
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
}

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Database, d.SSLMode,
	)
}

// RedisConfig holds configuration for the call view cache.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	// Enabled controls whether the cache layer is wired at all
	Enabled bool
	// TTL for cached call views
	TTL time.Duration
}

// TranscriptionConfig holds configuration for the speech-to-text provider.
type TranscriptionConfig struct {
	// APIKey is the provider credential; transcription fails when unset
	APIKey string
	// BaseURL of the transcription API
	BaseURL string
	// Model requested from the provider
	Model string
	// Timeout for a single transcription attempt (no retries are performed)
	Timeout time.Duration
	// RateLimitPerSecond caps transcription requests per client IP
	RateLimitPerSecond int
	RateLimitBurst     int
}

func Load() (*Config, error) {
	// Best effort; real env vars win over .env contents
	_ = godotenv.Load()

	return &Config{
		Server: ServerConfig{
			Port: getEnvInt("SERVER_PORT", 8080),
			Env:  getEnv("ENV", "development"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "callsight"),
			Password: getEnv("DB_PASSWORD", "callsight"),
			Database: getEnv("DB_NAME", "callsight"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
			Enabled:  getEnvBool("REDIS_ENABLED", true),
			TTL:      time.Duration(getEnvInt("REDIS_TTL_SECONDS", 300)) * time.Second,
		},
		Transcription: TranscriptionConfig{
			APIKey:             getEnv("OPENAI_API_KEY", ""),
			BaseURL:            getEnv("TRANSCRIPTION_BASE_URL", "https://api.openai.com/v1"),
			Model:              getEnv("TRANSCRIPTION_MODEL", "whisper-1"),
			Timeout:            time.Duration(getEnvInt("TRANSCRIPTION_TIMEOUT_SECONDS", 60)) * time.Second,
			RateLimitPerSecond: getEnvInt("TRANSCRIPTION_RATE_LIMIT_RPS", 1),
			RateLimitBurst:     getEnvInt("TRANSCRIPTION_RATE_LIMIT_BURST", 3),
		},
	}, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}
