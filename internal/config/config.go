package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	Database   DatabaseConfig
	Server     ServerConfig
	App        AppConfig
	Submission SubmissionConfig
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
}

// ServerConfig holds server settings
type ServerConfig struct {
	Port string
}

// AppConfig holds application-specific settings
type AppConfig struct {
	JWTSecret string
	Timezone  string
}

// SubmissionConfig holds the monthly submission constraints
type SubmissionConfig struct {
	MaxPerMonth       int
	MinImageDimension int
	MaxImageDimension int
	MaxFileSizeMB     int
	OpenDay           int
	CloseDay          int
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	_ = godotenv.Load()

	config := &Config{
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			DBName:   getEnv("DB_NAME", "wellyonfilm"),
		},
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "8080"),
		},
		App: AppConfig{
			JWTSecret: getEnv("JWT_SECRET", ""),
			Timezone:  getEnv("APP_TIMEZONE", "Pacific/Auckland"),
		},
		Submission: SubmissionConfig{
			MaxPerMonth:       getEnvInt("SUBMISSION_MAX_PER_MONTH", 3),
			MinImageDimension: getEnvInt("SUBMISSION_MIN_DIMENSION", 1500),
			MaxImageDimension: getEnvInt("SUBMISSION_MAX_DIMENSION", 8000),
			MaxFileSizeMB:     getEnvInt("SUBMISSION_MAX_FILE_SIZE_MB", 50),
			OpenDay:           getEnvInt("SUBMISSIONS_OPEN_DAY", 1),
			CloseDay:          getEnvInt("SUBMISSIONS_CLOSE_DAY", 25),
		},
	}

	// Validate required fields
	if config.App.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	return config, nil
}

// GetDSN returns the PostgreSQL connection string
func (c *Config) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.DBName,
	)
}

// getEnv gets an environment variable with a fallback default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvInt gets an integer environment variable with a fallback default value
func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return n
}
