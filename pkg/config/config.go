package config

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds application configuration
type Config struct {
	Server   ServerConfig   `envconfig:"SERVER"`
	Database DatabaseConfig `envconfig:"DB"`
	Redis    RedisConfig    `envconfig:"REDIS"`
	OAuth    OAuthConfig    `envconfig:"OAUTH"`
	JWT      JWTConfig      `envconfig:"JWT"`
	Storage  StorageConfig  `envconfig:"STORAGE"`
	Analysis AnalysisConfig `envconfig:"ANALYSIS"`
	Calendar CalendarConfig `envconfig:"CALENDAR"`
	LiveKit  LiveKitConfig  `envconfig:"LIVEKIT"`
	Webhook  WebhookConfig  `envconfig:"WEBHOOK"`
	Intake   IntakeConfig   `envconfig:"INTAKE"`
	Workflow WorkflowConfig `envconfig:"WORKFLOW"`
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port            string        `split_words:"true" default:"8080"`
	Host            string        `split_words:"true" default:"0.0.0.0"`
	Environment     string        `split_words:"true" default:"development"`
	AllowedOrigins  []string      `split_words:"true" default:"http://localhost:5173"`
	FrontendURL     string        `split_words:"true" default:"http://localhost:5173"`
	ShutdownTimeout time.Duration `split_words:"true" default:"10s"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string `split_words:"true" default:"localhost"`
	Port     string `split_words:"true" default:"5432"`
	User     string `split_words:"true" default:"postgres"`
	Password string `split_words:"true" default:"postgres"`
	Name     string `split_words:"true" default:"teachconnect"`
	SSLMode  string `split_words:"true" default:"disable"`
	MaxConns int    `split_words:"true" default:"25"`
	MinConns int    `split_words:"true" default:"5"`
}

// RedisConfig holds Redis configuration. When disabled an in-process store is used.
type RedisConfig struct {
	Enabled  bool   `split_words:"true" default:"true"`
	Host     string `split_words:"true" default:"localhost"`
	Port     string `split_words:"true" default:"6379"`
	Password string `split_words:"true"`
	DB       int    `split_words:"true" default:"0"`
}

// OAuthConfig holds OAuth configuration
type OAuthConfig struct {
	Google GoogleOAuthConfig `envconfig:"GOOGLE"`
}

// GoogleOAuthConfig holds Google OAuth configuration
type GoogleOAuthConfig struct {
	ClientID     string `split_words:"true"`
	ClientSecret string `split_words:"true"`
	RedirectURL  string `split_words:"true" default:"http://localhost:8080/v1/auth/google/callback"`
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	AccessSecret  string        `split_words:"true"`
	RefreshSecret string        `split_words:"true"`
	AccessExpiry  time.Duration `split_words:"true" default:"15m"`
	RefreshExpiry time.Duration `split_words:"true" default:"168h"`
}

// StorageConfig holds object storage configuration
type StorageConfig struct {
	Endpoint        string `split_words:"true" default:"localhost:9000"`
	AccessKeyID     string `split_words:"true" default:"minioadmin"`
	SecretAccessKey string `split_words:"true" default:"minioadmin"`
	BucketName      string `split_words:"true" default:"teachconnect"`
	UseSSL          bool   `split_words:"true" default:"false"`
	PublicURL       string `split_words:"true"`
}

// AnalysisConfig configures the chat-completions endpoint used for transcripts
type AnalysisConfig struct {
	APIKey          string        `split_words:"true"`
	BaseURL         string        `split_words:"true" default:"https://api.perplexity.ai"`
	Model           string        `split_words:"true" default:"llama-3.1-sonar-small-128k-online"`
	Temperature     float64       `split_words:"true" default:"0.2"`
	MaxTokens       int           `split_words:"true" default:"2000"`
	Timeout         time.Duration `split_words:"true" default:"45s"`
	MinArticleWords int           `split_words:"true" default:"300"`
}

// CalendarConfig holds the Google Calendar service account
type CalendarConfig struct {
	CredentialsJSON string `split_words:"true"`
	ID              string `split_words:"true" default:"primary"`
}

// LiveKitConfig holds LiveKit configuration
type LiveKitConfig struct {
	URL       string `split_words:"true" default:"ws://localhost:7880"`
	APIKey    string `split_words:"true" default:"devkey"`
	APISecret string `split_words:"true" default:"secret"`
	UseMock   bool   `split_words:"true" default:"true"`
}

// WebhookConfig holds the identity provider signing secret
type WebhookConfig struct {
	Secret string `split_words:"true"`
}

// IntakeConfig limits uploaded transcripts
type IntakeConfig struct {
	MaxBytes int64 `split_words:"true" default:"1048576"`
}

// WorkflowConfig controls pending suggestion sets
type WorkflowConfig struct {
	PendingTTL time.Duration `split_words:"true" default:"24h"`
	ConfirmTTL time.Duration `split_words:"true" default:"30s"`
}

// Load loads configuration from .env and environment variables
func Load() (*Config, error) {
	// Load .env file if exists (ignore error if file doesn't exist)
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found, using environment variables or defaults")
	}

	cfg := &Config{}
	if err := envconfig.Process("", cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// IsDevelopment reports whether the server runs in development mode
func (c *Config) IsDevelopment() bool {
	return c.Server.Environment == "development"
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if !c.IsDevelopment() {
		if c.JWT.AccessSecret == "" || c.JWT.RefreshSecret == "" {
			return errors.New("JWT_ACCESS_SECRET and JWT_REFRESH_SECRET are required")
		}
	}
	if c.JWT.AccessSecret == "" {
		c.JWT.AccessSecret = "dev-access-secret"
	}
	if c.JWT.RefreshSecret == "" {
		c.JWT.RefreshSecret = "dev-refresh-secret"
	}
	if c.Analysis.Timeout <= 0 {
		return errors.New("ANALYSIS_TIMEOUT must be positive")
	}
	if c.Intake.MaxBytes <= 0 {
		return errors.New("INTAKE_MAX_BYTES must be positive")
	}
	return nil
}

// GetDatabaseDSN returns the database connection string
func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// GetRedisAddr returns the Redis address
func (c *Config) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", c.Redis.Host, c.Redis.Port)
}
