package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the storyhub server
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Session  SessionConfig
	Cache    CacheConfig
	GitHub   GitHubConfig
	MinIO    MinIOConfig
	LogLevel string
}

type ServerConfig struct {
	Port    string
	SiteURL string
	GinMode string
}

type DatabaseConfig struct {
	Driver string // postgres, mysql or sqlite
	URL    string
}

type SessionConfig struct {
	Secret string
	Store  string // auto, cookie or postgres
}

// CacheConfig selects Redis when RedisURL is set, the in-process LRU otherwise.
type CacheConfig struct {
	RedisURL string
	Size     int
}

type GitHubConfig struct {
	ClientID     string
	ClientSecret string
}

// Enabled reports whether GitHub login can be offered.
func (g GitHubConfig) Enabled() bool {
	return g.ClientID != "" && g.ClientSecret != ""
}

type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
	PublicURL string
}

func (m MinIOConfig) Enabled() bool {
	return m.Endpoint != "" && m.AccessKey != "" && m.SecretKey != ""
}

// Load reads .env when present and then the process environment. It reports
// whether a .env file was found so the caller can log it.
func Load() (*Config, bool) {
	found := godotenv.Load() == nil
	return FromEnv(), found
}

// FromEnv builds a Config from the process environment only.
func FromEnv() *Config {
	return &Config{
		Server: ServerConfig{
			Port:    getEnv("PORT", "8080"),
			SiteURL: strings.TrimRight(getEnv("SITE_URL", "http://localhost:8080"), "/"),
			GinMode: getEnv("GIN_MODE", "release"),
		},
		Database: DatabaseConfig{
			Driver: getEnv("DB_DRIVER", "postgres"),
			URL:    os.Getenv("DATABASE_URL"),
		},
		Session: SessionConfig{
			Secret: getEnv("SESSION_SECRET", "secret_key_change_me"),
			Store:  getEnv("SESSION_STORE", "auto"),
		},
		Cache: CacheConfig{
			RedisURL: os.Getenv("REDIS_URL"),
			Size:     getEnvInt("CACHE_SIZE", 500),
		},
		GitHub: GitHubConfig{
			ClientID:     os.Getenv("GITHUB_CLIENT_ID"),
			ClientSecret: os.Getenv("GITHUB_CLIENT_SECRET"),
		},
		MinIO: MinIOConfig{
			Endpoint:  os.Getenv("MINIO_ENDPOINT"),
			AccessKey: os.Getenv("MINIO_ACCESS_KEY"),
			SecretKey: os.Getenv("MINIO_SECRET_KEY"),
			Bucket:    getEnv("MINIO_BUCKET", "storyhub"),
			UseSSL:    getEnvBool("MINIO_USE_SSL", false),
			PublicURL: strings.TrimRight(os.Getenv("MINIO_PUBLIC_URL"), "/"),
		},
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if n, err := strconv.Atoi(os.Getenv(key)); err == nil && n > 0 {
		return n
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if b, err := strconv.ParseBool(os.Getenv(key)); err == nil {
		return b
	}
	return defaultValue
}
