package config

import (
	"os"
	"strconv"
)

// Config holds all runtime settings, loaded once at startup from the
// environment
type Config struct {
	Port     string
	MongoURI string
	MongoDB  string
	RedisURI string

	AuthUsername string
	AuthPassword string
	JWTSecret    string

	// DefaultGoal is the target mean used when a request carries none
	DefaultGoal float64

	// Optional YAML files replacing the built-in question catalogs
	SchemaBase20Path string
	SchemaBase8Path  string

	// MaxUploadBytes caps the accepted survey file size
	MaxUploadBytes int64
}

// Load reads configuration from the environment, falling back to
// development defaults.
func Load() *Config {
	return &Config{
		Port:             getEnvOrDefault("PORT", "8080"),
		MongoURI:         getEnvOrDefault("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:          getEnvOrDefault("MONGO_DB", "qualidash"),
		RedisURI:         getEnvOrDefault("REDIS_URI", "localhost:6379"),
		AuthUsername:     getEnvOrDefault("AUTH_USERNAME", "admin"),
		AuthPassword:     getEnvOrDefault("AUTH_PASSWORD", "password123"),
		JWTSecret:        getEnvOrDefault("JWT_SECRET", "super-secret-key-change-in-production"),
		DefaultGoal:      getEnvFloat("DEFAULT_GOAL", 4.0),
		SchemaBase20Path: os.Getenv("SCHEMA_BASE20_PATH"),
		SchemaBase8Path:  os.Getenv("SCHEMA_BASE8_PATH"),
		MaxUploadBytes:   getEnvInt64("MAX_UPLOAD_BYTES", 10<<20),
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.ParseInt(value, 10, 64); err == nil {
			return n
		}
	}
	return defaultValue
}
