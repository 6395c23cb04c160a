// internal/config/config.go
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// ServerConfig holds all server-related settings
type ServerConfig struct {
	Port           int
	Host           string
	MetricsEnabled bool
}

// DatabaseConfig holds the document-store connection settings
type DatabaseConfig struct {
	URI  string
	Name string
}

// AuthConfig holds identity-provider and token settings
type AuthConfig struct {
	JWTSecret          string
	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURL  string
}

// FeedConfig holds feed assembly defaults
type FeedConfig struct {
	PageSize         int
	SecretsPerPerson int
}

// Config holds the complete application configuration
type Config struct {
	Server          *ServerConfig
	Database        *DatabaseConfig
	Auth            *AuthConfig
	Feed            *FeedConfig
	VoteMaxAttempts int
	AllowedOrigins  []string
	Debug           bool
}

// DefaultConfig provides default server settings
func DefaultConfig() *ServerConfig {
	return &ServerConfig{
		Port:           8080,
		Host:           "0.0.0.0",
		MetricsEnabled: true,
	}
}

// DefaultDatabaseConfig provides default database settings
func DefaultDatabaseConfig() *DatabaseConfig {
	return &DatabaseConfig{
		URI:  "mongodb://localhost:27017",
		Name: "secretreels",
	}
}

// DefaultFeedConfig provides default feed assembly settings
func DefaultFeedConfig() *FeedConfig {
	return &FeedConfig{
		PageSize:         10,
		SecretsPerPerson: 3,
	}
}

// LoadConfig loads configuration from environment variables and applies defaults
func LoadConfig() (*Config, error) {
	// Try to load .env from the usual run locations before falling back
	// to the process environment.
	envLocations := []string{
		".env",
		"../../.env",
	}

	envLoaded := false
	for _, location := range envLocations {
		if err := godotenv.Load(location); err == nil {
			envLoaded = true
			break
		}
	}
	if !envLoaded {
		// Silent failure if no .env exists, which is fine.
		_ = godotenv.Load()
	}

	serverConfig := DefaultConfig()

	if portStr := os.Getenv("PORT"); portStr != "" {
		if port, err := strconv.Atoi(portStr); err == nil {
			serverConfig.Port = port
		}
	}
	if host := os.Getenv("HOST"); host != "" {
		serverConfig.Host = host
	}
	if metricsEnabled := os.Getenv("METRICS_ENABLED"); metricsEnabled != "" {
		serverConfig.MetricsEnabled = metricsEnabled == "true"
	}

	dbConfig := DefaultDatabaseConfig()
	if uri := os.Getenv("MONGODB_URI"); uri != "" {
		dbConfig.URI = uri
	}
	if name := os.Getenv("MONGODB_DATABASE"); name != "" {
		dbConfig.Name = name
	}

	authConfig := &AuthConfig{
		JWTSecret:          os.Getenv("JWT_SECRET"),
		GoogleClientID:     os.Getenv("GOOGLE_CLIENT_ID"),
		GoogleClientSecret: os.Getenv("GOOGLE_CLIENT_SECRET"),
		GoogleRedirectURL:  os.Getenv("GOOGLE_REDIRECT_URL"),
	}
	if authConfig.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET must be set")
	}

	feedConfig := DefaultFeedConfig()
	if sizeStr := os.Getenv("FEED_PAGE_SIZE"); sizeStr != "" {
		if size, err := strconv.Atoi(sizeStr); err == nil && size > 0 {
			feedConfig.PageSize = size
		}
	}
	if nStr := os.Getenv("FEED_SECRETS_PER_PERSON"); nStr != "" {
		if n, err := strconv.Atoi(nStr); err == nil && n >= 0 {
			feedConfig.SecretsPerPerson = n
		}
	}

	voteMaxAttempts := 3
	if attemptsStr := os.Getenv("VOTE_MAX_ATTEMPTS"); attemptsStr != "" {
		if attempts, err := strconv.Atoi(attemptsStr); err == nil && attempts > 0 {
			voteMaxAttempts = attempts
		}
	}

	allowedOrigins := []string{"*"}
	if originsStr := os.Getenv("ALLOWED_ORIGINS"); originsStr != "" {
		allowedOrigins = strings.Split(originsStr, ",")
		for i := range allowedOrigins {
			allowedOrigins[i] = strings.TrimSpace(allowedOrigins[i])
		}
	}

	return &Config{
		Server:          serverConfig,
		Database:        dbConfig,
		Auth:            authConfig,
		Feed:            feedConfig,
		VoteMaxAttempts: voteMaxAttempts,
		AllowedOrigins:  allowedOrigins,
		Debug:           os.Getenv("DEBUG") == "true",
	}, nil
}
