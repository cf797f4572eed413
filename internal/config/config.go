// internal/config/config.go
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Environment string
	Server      ServerConfig
	Session     SessionConfig
	Storage     StorageConfig
	Catalog     CatalogConfig
	RateLimit   RateLimitConfig
}

type ServerConfig struct {
	Port           string
	Host           string
	ReadTimeout    int
	WriteTimeout   int
	IdleTimeout    int
	AllowedOrigins []string
}

type SessionConfig struct {
	Secret       string
	CookieName   string
	CookieSecure bool
	TTLHours     int
	IdleMinutes  int
}

// StorageConfig selects and configures the snapshot persistence backend.
// Backend is one of: memory, file, redis, postgres, s3.
type StorageConfig struct {
	Backend  string
	FileDir  string
	TTLHours int
	Redis    RedisConfig
	Database DatabaseConfig
	AWS      AWSConfig
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Database string
	SSLMode  string
}

type AWSConfig struct {
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	S3Bucket        string
	S3Prefix        string
}

type CatalogConfig struct {
	BaseURL        string
	TimeoutSeconds int
}

type RateLimitConfig struct {
	RequestsPerSecond float64
	Burst             int
}

func Load() (*Config, error) {
	// Load .env file if it exists
	godotenv.Load()

	config := &Config{
		Environment: getEnv("ENVIRONMENT", "development"),
		Server: ServerConfig{
			Port:           getEnv("SERVER_PORT", "8080"),
			Host:           getEnv("SERVER_HOST", "localhost"),
			ReadTimeout:    getEnvAsInt("SERVER_READ_TIMEOUT", 15),
			WriteTimeout:   getEnvAsInt("SERVER_WRITE_TIMEOUT", 15),
			IdleTimeout:    getEnvAsInt("SERVER_IDLE_TIMEOUT", 60),
			AllowedOrigins: strings.Split(getEnv("ALLOWED_ORIGINS", "http://localhost:3000"), ","),
		},
		Session: SessionConfig{
			Secret:       getEnv("SESSION_SECRET", "uzagro-dev-secret-change-in-production"),
			CookieName:   getEnv("SESSION_COOKIE_NAME", "uzagro_session"),
			CookieSecure: getEnvAsBool("SESSION_COOKIE_SECURE", false),
			TTLHours:     getEnvAsInt("SESSION_TTL_HOURS", 720), // 30 days
			IdleMinutes:  getEnvAsInt("SESSION_IDLE_MINUTES", 30),
		},
		Storage: StorageConfig{
			Backend:  getEnv("STORAGE_BACKEND", "memory"),
			FileDir:  getEnv("STORAGE_FILE_DIR", "./data/snapshots"),
			TTLHours: getEnvAsInt("STORAGE_TTL_HOURS", 720),
			Redis: RedisConfig{
				Host:     getEnv("REDIS_HOST", "localhost"),
				Port:     getEnv("REDIS_PORT", "6379"),
				Password: getEnv("REDIS_PASSWORD", ""),
				DB:       getEnvAsInt("REDIS_DB", 0),
			},
			Database: DatabaseConfig{
				Host:     getEnv("DB_HOST", "localhost"),
				Port:     getEnv("DB_PORT", "5432"),
				User:     getEnv("DB_USER", "postgres"),
				Password: getEnv("DB_PASSWORD", ""),
				Database: getEnv("DB_NAME", "uzagro_storefront"),
				SSLMode:  getEnv("DB_SSL_MODE", "disable"),
			},
			AWS: AWSConfig{
				Region:          getEnv("AWS_REGION", "us-east-1"),
				AccessKeyID:     getEnv("AWS_ACCESS_KEY_ID", ""),
				SecretAccessKey: getEnv("AWS_SECRET_ACCESS_KEY", ""),
				S3Bucket:        getEnv("AWS_S3_BUCKET", "uzagro-storefront-state"),
				S3Prefix:        getEnv("AWS_S3_PREFIX", "snapshots"),
			},
		},
		Catalog: CatalogConfig{
			BaseURL:        getEnv("CATALOG_BASE_URL", "http://localhost:9000"),
			TimeoutSeconds: getEnvAsInt("CATALOG_TIMEOUT_SECONDS", 10),
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: getEnvAsFloat("RATE_LIMIT_RPS", 10),
			Burst:             getEnvAsInt("RATE_LIMIT_BURST", 20),
		},
	}

	return config, config.Validate()
}

func (c *Config) Validate() error {
	if c.Session.Secret == "uzagro-dev-secret-change-in-production" && c.Environment == "production" {
		return fmt.Errorf("session secret must be changed in production")
	}

	switch c.Storage.Backend {
	case "memory", "file", "redis", "postgres", "s3":
	default:
		return fmt.Errorf("unknown storage backend %q", c.Storage.Backend)
	}

	if c.Storage.Backend == "postgres" && c.Storage.Database.Password == "" && c.Environment == "production" {
		return fmt.Errorf("database password is required in production")
	}

	return nil
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(strings.ToLower(value)); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
