package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Database     DatabaseConfig
	JWT          JWTConfig
	App          AppConfig
	Admin        AdminConfig
	SMTP         SMTPConfig
	Storage      StorageConfig
	Redis        RedisConfig
	Notification NotificationConfig
	Visitor      VisitorConfig
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret           string
	AccessExpiration string
}

// AppConfig holds application configuration
type AppConfig struct {
	Port      int
	Env       string
	LogLevel  string
	ClientURL string
}

// AdminConfig holds the credentials of the single admin principal.
// PasswordHash is a bcrypt hash; admin login is disabled when either field is empty.
type AdminConfig struct {
	Email        string
	PasswordHash string
}

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	FromName string
}

type StorageConfig struct {
	Type     string
	BasePath string
	BaseURL  string
}

type RedisConfig struct {
	URL     string
	Channel string
}

// NotificationConfig sizes the background side-effect dispatcher
type NotificationConfig struct {
	Workers   int
	QueueSize int
}

// VisitorConfig selects the workflow variant
type VisitorConfig struct {
	RequireHost       bool
	RequireTimeSlot   bool
	StrictTransitions bool
	StatsInterval     time.Duration
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	config := &Config{}

	// Database configuration
	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}

	config.Database = DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     dbPort,
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "visitor_management"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
	}

	// Application configuration
	appPort, err := strconv.Atoi(getEnv("APP_PORT", "5000"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}

	config.App = AppConfig{
		Port:      appPort,
		Env:       getEnv("APP_ENV", "development"),
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		ClientURL: getEnv("CLIENT_URL", "http://localhost:5173"),
	}

	// JWT configuration
	accessExpiration := getEnv("JWT_ACCESS_EXPIRATION_TIME", "2h")
	if _, err := time.ParseDuration(accessExpiration); err != nil {
		return nil, fmt.Errorf("invalid JWT_ACCESS_EXPIRATION_TIME: %w", err)
	}

	config.JWT = JWTConfig{
		Secret:           getEnv("JWT_SECRET_KEY", ""),
		AccessExpiration: accessExpiration,
	}

	config.Admin = AdminConfig{
		Email:        getEnv("ADMIN_EMAIL", ""),
		PasswordHash: getEnv("ADMIN_PASSWORD_HASH", ""),
	}

	// SMTP configuration
	smtpPort, err := strconv.Atoi(getEnv("SMTP_PORT", "587"))
	if err != nil {
		return nil, fmt.Errorf("invalid SMTP_PORT: %w", err)
	}

	config.SMTP = SMTPConfig{
		Host:     getEnv("SMTP_HOST", ""),
		Port:     smtpPort,
		Username: getEnv("SMTP_USERNAME", ""),
		Password: getEnv("SMTP_PASSWORD", ""),
		From:     getEnv("SMTP_FROM", ""),
		FromName: getEnv("SMTP_FROM_NAME", "Visitor Management"),
	}

	config.Storage = StorageConfig{
		Type:     getEnv("STORAGE_TYPE", "local"),
		BasePath: getEnv("STORAGE_BASE_PATH", "./uploads"),
		BaseURL:  strings.TrimRight(getEnv("STORAGE_BASE_URL", "/uploads"), "/"),
	}

	config.Redis = RedisConfig{
		URL:     getEnv("REDIS_URL", ""),
		Channel: getEnv("REDIS_CHANNEL", "vms:visitor-events"),
	}

	workers, err := getEnvInt("NOTIFY_WORKERS", 2)
	if err != nil {
		return nil, err
	}
	queueSize, err := getEnvInt("NOTIFY_QUEUE_SIZE", 256)
	if err != nil {
		return nil, err
	}
	config.Notification = NotificationConfig{
		Workers:   workers,
		QueueSize: queueSize,
	}

	statsInterval, err := time.ParseDuration(getEnv("VISITOR_STATS_INTERVAL", "1m"))
	if err != nil {
		return nil, fmt.Errorf("invalid VISITOR_STATS_INTERVAL: %w", err)
	}

	config.Visitor = VisitorConfig{
		RequireHost:       getEnvBool("VISITOR_REQUIRE_HOST", false),
		RequireTimeSlot:   getEnvBool("VISITOR_REQUIRE_TIME_SLOT", false),
		StrictTransitions: getEnvBool("VISITOR_STRICT_TRANSITIONS", false),
		StatsInterval:     statsInterval,
	}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Database.Password == "" {
		return fmt.Errorf("DB_PASSWORD is required")
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}
	if c.Storage.Type != "local" {
		return fmt.Errorf("unsupported STORAGE_TYPE: %s", c.Storage.Type)
	}
	// Photos are served under the base URL path, so it cannot be the site root
	if u, err := url.Parse(c.Storage.BaseURL); err != nil || strings.Trim(u.Path, "/") == "" {
		return fmt.Errorf("STORAGE_BASE_URL must include a path, e.g. /uploads: %q", c.Storage.BaseURL)
	}
	if c.Notification.Workers < 1 {
		return fmt.Errorf("NOTIFY_WORKERS must be at least 1")
	}
	if c.Notification.QueueSize < 1 {
		return fmt.Errorf("NOTIFY_QUEUE_SIZE must be at least 1")
	}
	if c.Visitor.StatsInterval <= 0 {
		return fmt.Errorf("VISITOR_STATS_INTERVAL must be positive")
	}
	return nil
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// AdminEnabled reports whether admin credentials are configured
func (c *Config) AdminEnabled() bool {
	return c.Admin.Email != "" && c.Admin.PasswordHash != ""
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func getEnvBool(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return b
}
