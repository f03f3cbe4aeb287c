package utils

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	JWT      JWTConfig
	Storage  StorageConfig
	Auth     AuthConfig
}

type AppConfig struct {
	Name      string
	Env       string
	Port      string
	Debug     bool
	LogPath   string
	PublicURL string
	// CORSOrigins lists allowed browser origins; "*" allows any.
	CORSOrigins []string
}

type DatabaseConfig struct {
	URL         string
	Host        string
	Port        string
	Name        string
	User        string
	Password    string
	MaxConns    int32
	AutoMigrate bool
}

type JWTConfig struct {
	Secret         string
	SessionTTL     time.Duration
	TransactionTTL time.Duration
}

type StorageConfig struct {
	Driver      string
	UploadDir   string
	MaxUploadMB int64
	S3          S3Config
}

type S3Config struct {
	Region    string
	Bucket    string
	Endpoint  string
	AccessKey string
	SecretKey string
	PublicURL string
}

type AuthConfig struct {
	LoginRatePerSecond     int
	LoginRateBurst         int
	AllowAdminRegistration bool
	AdminUsername          string
	AdminEmail             string
	AdminPassword          string
}

const (
	StorageLocal = "local"
	StorageS3    = "s3"
)

// LoadConfig reads .env style configuration from path and the process environment.
// A missing file is not an error; environment variables alone are enough.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("env")

	// Set defaults
	v.SetDefault("APP_NAME", "loyalty-rewards")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("PORT", "8080")
	v.SetDefault("DEBUG", false)
	v.SetDefault("LOG_PATH", "logs/")
	v.SetDefault("PUBLIC_URL", "http://localhost:8080")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "*")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_MAX_CONNS", 10)
	v.SetDefault("DB_AUTO_MIGRATE", true)
	v.SetDefault("JWT_SESSION_TTL_MINUTES", 60)
	v.SetDefault("JWT_TRANSACTION_TTL_MINUTES", 15)
	v.SetDefault("STORAGE_DRIVER", StorageLocal)
	v.SetDefault("UPLOAD_DIR", "uploads")
	v.SetDefault("UPLOAD_MAX_MB", 5)
	v.SetDefault("LOGIN_RATE_PER_SECOND", 5)
	v.SetDefault("LOGIN_RATE_BURST", 10)
	v.SetDefault("ALLOW_ADMIN_REGISTRATION", false)

	if err := v.ReadInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	v.AutomaticEnv()

	env := strings.ToLower(v.GetString("APP_ENV"))
	dbURL := v.GetString("DATABASE_URL_DEV")
	if env == "production" {
		dbURL = v.GetString("DATABASE_URL_PROD")
	}

	config := &Config{
		App: AppConfig{
			Name:        v.GetString("APP_NAME"),
			Env:         env,
			Port:        v.GetString("PORT"),
			Debug:       v.GetBool("DEBUG"),
			LogPath:     v.GetString("LOG_PATH"),
			PublicURL:   strings.TrimRight(v.GetString("PUBLIC_URL"), "/"),
			CORSOrigins: splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
		},
		Database: DatabaseConfig{
			URL:         dbURL,
			Host:        v.GetString("DB_HOST"),
			Port:        v.GetString("DB_PORT"),
			Name:        v.GetString("DB_NAME"),
			User:        v.GetString("DB_USER"),
			Password:    v.GetString("DB_PASS"),
			MaxConns:    v.GetInt32("DB_MAX_CONNS"),
			AutoMigrate: v.GetBool("DB_AUTO_MIGRATE"),
		},
		JWT: JWTConfig{
			Secret:         v.GetString("JWT_SECRET"),
			SessionTTL:     time.Duration(v.GetInt("JWT_SESSION_TTL_MINUTES")) * time.Minute,
			TransactionTTL: time.Duration(v.GetInt("JWT_TRANSACTION_TTL_MINUTES")) * time.Minute,
		},
		Storage: StorageConfig{
			Driver:      strings.ToLower(v.GetString("STORAGE_DRIVER")),
			UploadDir:   v.GetString("UPLOAD_DIR"),
			MaxUploadMB: v.GetInt64("UPLOAD_MAX_MB"),
			S3: S3Config{
				Region:    v.GetString("S3_REGION"),
				Bucket:    v.GetString("S3_BUCKET"),
				Endpoint:  v.GetString("S3_ENDPOINT"),
				AccessKey: v.GetString("S3_ACCESS_KEY"),
				SecretKey: v.GetString("S3_SECRET_KEY"),
				PublicURL: strings.TrimRight(v.GetString("S3_PUBLIC_URL"), "/"),
			},
		},
		Auth: AuthConfig{
			LoginRatePerSecond:     v.GetInt("LOGIN_RATE_PER_SECOND"),
			LoginRateBurst:         v.GetInt("LOGIN_RATE_BURST"),
			AllowAdminRegistration: v.GetBool("ALLOW_ADMIN_REGISTRATION"),
			AdminUsername:          v.GetString("ADMIN_USERNAME"),
			AdminEmail:             v.GetString("ADMIN_EMAIL"),
			AdminPassword:          v.GetString("ADMIN_PASSWORD"),
		},
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate reports operator mistakes that would otherwise surface per request.
func (c *Config) Validate() error {
	if c.JWT.Secret == "" {
		return errors.New("JWT_SECRET is required")
	}
	if c.JWT.SessionTTL <= 0 || c.JWT.TransactionTTL <= 0 {
		return errors.New("token lifetimes must be positive")
	}

	switch c.Storage.Driver {
	case StorageLocal:
		if c.Storage.UploadDir == "" {
			return errors.New("UPLOAD_DIR is required for local storage")
		}
	case StorageS3:
		if c.Storage.S3.Bucket == "" || c.Storage.S3.Region == "" {
			return errors.New("S3_BUCKET and S3_REGION are required for s3 storage")
		}
	default:
		return fmt.Errorf("unknown STORAGE_DRIVER %q", c.Storage.Driver)
	}

	return nil
}

// DSN returns the connection string for the active environment.
func (c DatabaseConfig) DSN() string {
	if c.URL != "" {
		return c.URL
	}
	return fmt.Sprintf("user=%s password=%s dbname=%s sslmode=disable host=%s port=%s",
		c.User, c.Password, c.Name, c.Host, c.Port)
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
