package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Store drivers
const (
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
	DriverMongo    = "mongo"
)

// Email providers
const (
	EmailProviderNone     = "none"
	EmailProviderSMTP     = "smtp"
	EmailProviderSendGrid = "sendgrid"
)

// Config structure represents the application configuration
type Config struct {
	Server struct {
		Port        string `yaml:"port" env:"SERVER_PORT"`
		Mode        string `yaml:"mode" env:"SERVER_MODE"`
		BaseURL     string `yaml:"base_url" env:"SERVER_BASE_URL"`
		StoragePath string `yaml:"storage_path" env:"SERVER_STORAGE_PATH"`
	} `yaml:"server"`

	Store struct {
		Driver string `yaml:"driver" env:"STORE_DRIVER"`

		Postgres struct {
			Host            string `yaml:"host" env:"DB_HOST"`
			Port            string `yaml:"port" env:"DB_PORT"`
			User            string `yaml:"user" env:"DB_USER"`
			Password        string `yaml:"password" env:"DB_PASSWORD"`
			DBName          string `yaml:"dbname" env:"DB_NAME"`
			SSLMode         string `yaml:"sslmode" env:"DB_SSLMODE"`
			MaxIdleConns    int    `yaml:"max_idle_conns" env:"DB_MAX_IDLE_CONNS"`
			MaxOpenConns    int    `yaml:"max_open_conns" env:"DB_MAX_OPEN_CONNS"`
			ConnMaxLifetime string `yaml:"conn_max_lifetime" env:"DB_CONN_MAX_LIFETIME"`
		} `yaml:"postgres"`

		Mongo struct {
			URI            string `yaml:"uri" env:"MONGO_URI"`
			Database       string `yaml:"database" env:"MONGO_DATABASE"`
			ConnectTimeout string `yaml:"connect_timeout" env:"MONGO_CONNECT_TIMEOUT"`
		} `yaml:"mongo"`

		Memory struct {
			// CompositeIndexes false makes the memory store reject compound
			// range queries like a hosted store without indexes.
			CompositeIndexes bool `yaml:"composite_indexes" env:"STORE_MEMORY_COMPOSITE_INDEXES"`
		} `yaml:"memory"`
	} `yaml:"store"`

	JWT struct {
		Secret                string `yaml:"secret" env:"JWT_SECRET"`
		AccessTokenExpiration string `yaml:"access_token_expiration" env:"JWT_ACCESS_TOKEN_EXPIRATION"`
		Issuer                string `yaml:"issuer" env:"JWT_ISSUER"`
	} `yaml:"jwt"`

	Auth struct {
		CookieName   string `yaml:"cookie_name" env:"AUTH_COOKIE_NAME"`
		CookieSecure bool   `yaml:"cookie_secure" env:"AUTH_COOKIE_SECURE"`
		AllowSignup  bool   `yaml:"allow_signup" env:"AUTH_ALLOW_SIGNUP"`
	} `yaml:"auth"`

	Email struct {
		Provider       string `yaml:"provider" env:"EMAIL_PROVIDER"`
		From           string `yaml:"from" env:"EMAIL_FROM"`
		FromName       string `yaml:"from_name" env:"EMAIL_FROM_NAME"`
		ResetURL       string `yaml:"reset_url" env:"EMAIL_RESET_URL"`
		SendGridAPIKey string `yaml:"sendgrid_api_key" env:"SENDGRID_API_KEY"`

		SMTP struct {
			Host     string `yaml:"host" env:"SMTP_HOST"`
			Port     int    `yaml:"port" env:"SMTP_PORT"`
			Username string `yaml:"username" env:"SMTP_USERNAME"`
			Password string `yaml:"password" env:"SMTP_PASSWORD"`
		} `yaml:"smtp"`
	} `yaml:"email"`

	Notifications struct {
		RotationInterval string `yaml:"rotation_interval" env:"NOTIFICATIONS_ROTATION_INTERVAL"`
	} `yaml:"notifications"`

	Images struct {
		MaxWidth       int    `yaml:"max_width" env:"IMAGES_MAX_WIDTH"`
		MaxHeight      int    `yaml:"max_height" env:"IMAGES_MAX_HEIGHT"`
		MaxUploadBytes int64  `yaml:"max_upload_bytes" env:"IMAGES_MAX_UPLOAD_BYTES"`
		DownloadDir    string `yaml:"download_dir" env:"IMAGES_DOWNLOAD_DIR"`
	} `yaml:"images"`

	Logging struct {
		Level  string `yaml:"level" env:"LOG_LEVEL"`
		Format string `yaml:"format" env:"LOG_FORMAT"`
	} `yaml:"logging"`
}

// LoadDotEnv loads variables from .env files into the process environment.
// Missing files are ignored; variables already set win.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to load %s: %w", p, err)
		}
	}
	return nil
}

// LoadConfig loads configuration from a file and environment variables
func LoadConfig(configPath string) (*Config, error) {
	config := &Config{}
	setDefaults(config)

	if _, err := os.Stat(configPath); err == nil {
		file, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(file, config); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	if err := processStructFields(config); err != nil {
		return nil, fmt.Errorf("failed to load from environment: %w", err)
	}

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

func setDefaults(config *Config) {
	config.Server.Port = "8080"
	config.Server.Mode = "development"
	config.Server.BaseURL = "http://localhost:8080"
	config.Server.StoragePath = "./storage"

	config.Store.Driver = DriverPostgres
	config.Store.Postgres.Host = "localhost"
	config.Store.Postgres.Port = "5432"
	config.Store.Postgres.User = "postgres"
	config.Store.Postgres.Password = "postgres"
	config.Store.Postgres.DBName = "deptportal"
	config.Store.Postgres.SSLMode = "disable"
	config.Store.Postgres.MaxIdleConns = 5
	config.Store.Postgres.MaxOpenConns = 20
	config.Store.Postgres.ConnMaxLifetime = "1h"
	config.Store.Mongo.Database = "deptportal"
	config.Store.Mongo.ConnectTimeout = "10s"
	config.Store.Memory.CompositeIndexes = true

	config.JWT.AccessTokenExpiration = "12h"
	config.JWT.Issuer = "deptportal"

	config.Auth.CookieName = "session"
	config.Auth.AllowSignup = true

	config.Email.Provider = EmailProviderNone
	config.Email.FromName = "CS Department"

	config.Notifications.RotationInterval = "5s"

	config.Images.MaxWidth = 800
	config.Images.MaxHeight = 800
	config.Images.MaxUploadBytes = 10 << 20
	config.Images.DownloadDir = "public/faculty/images"

	config.Logging.Level = "info"
	config.Logging.Format = "json"
}

// validateConfig checks what every binary needs: a usable store and
// well-formed durations.
func validateConfig(config *Config) error {
	switch config.Store.Driver {
	case DriverMemory:
	case DriverPostgres:
		if config.Store.Postgres.Host == "" {
			return fmt.Errorf("database host is required")
		}
		if _, err := time.ParseDuration(config.Store.Postgres.ConnMaxLifetime); err != nil {
			return fmt.Errorf("invalid connection max lifetime: %w", err)
		}
	case DriverMongo:
		if config.Store.Mongo.URI == "" {
			return fmt.Errorf("mongo uri is required")
		}
		if config.Store.Mongo.Database == "" {
			return fmt.Errorf("mongo database is required")
		}
		if _, err := time.ParseDuration(config.Store.Mongo.ConnectTimeout); err != nil {
			return fmt.Errorf("invalid mongo connect timeout: %w", err)
		}
	default:
		return fmt.Errorf("unknown store driver %q", config.Store.Driver)
	}

	if _, err := time.ParseDuration(config.JWT.AccessTokenExpiration); err != nil {
		return fmt.Errorf("invalid JWT access token expiration format: %w", err)
	}
	if d, err := time.ParseDuration(config.Notifications.RotationInterval); err != nil || d <= 0 {
		return fmt.Errorf("invalid notification rotation interval %q", config.Notifications.RotationInterval)
	}

	switch config.Email.Provider {
	case EmailProviderNone, EmailProviderSMTP, EmailProviderSendGrid:
	default:
		return fmt.Errorf("unknown email provider %q", config.Email.Provider)
	}
	return nil
}

// ValidateServer adds the checks only the HTTP server needs.
func (c *Config) ValidateServer() error {
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT secret is required")
	}
	if len(c.JWT.Secret) < 16 {
		return fmt.Errorf("JWT secret must be at least 16 characters")
	}
	if c.Email.Provider == EmailProviderSendGrid && c.Email.SendGridAPIKey == "" {
		return fmt.Errorf("sendgrid api key is required for the sendgrid provider")
	}
	return nil
}

// GetPostgresConnectionString returns postgres connection string
func (c *Config) GetPostgresConnectionString() string {
	pg := c.Store.Postgres
	sslMode := pg.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}

	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		pg.User,
		pg.Password,
		pg.Host,
		pg.Port,
		pg.DBName,
		sslMode,
	)
}

// AccessTokenTTL is the parsed JWT lifetime; LoadConfig guarantees it parses.
func (c *Config) AccessTokenTTL() time.Duration {
	d, _ := time.ParseDuration(c.JWT.AccessTokenExpiration)
	return d
}

// RotationInterval is the parsed notification rotation interval.
func (c *Config) RotationInterval() time.Duration {
	d, _ := time.ParseDuration(c.Notifications.RotationInterval)
	return d
}

// IsProduction reports whether the server runs in release mode.
func (c *Config) IsProduction() bool {
	mode := strings.ToLower(c.Server.Mode)
	return mode == "production" || mode == "release"
}
