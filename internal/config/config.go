package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type RuntimeConfig struct {
	Dev bool
}

type ServerConfig struct {
	Port           int           `yaml:"port"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
	PublicBaseURL  string        `yaml:"public_base_url"`
}

type LogConfig struct {
	Level    string `yaml:"level"`    // trace|debug|info|warn|error
	Format   string `yaml:"format"`   // json|console
	Sampling bool   `yaml:"sampling"` // enable sampling in prod
}

type DatabaseConfig struct {
	URL      string `yaml:"url"`
	MaxConns int32  `yaml:"max_conns"`
}

type RedisConfig struct {
	URL      string        `yaml:"url"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	TTL      time.Duration `yaml:"ttl"`
}

type AuthConfig struct {
	JWTSecret   string        `yaml:"jwt_secret"`
	TokenTTL    time.Duration `yaml:"token_ttl"`
	AdminAPIKey string        `yaml:"admin_api_key"`
	LoginLimit  int           `yaml:"login_limit"`  // attempts per window per mobile
	LoginWindow time.Duration `yaml:"login_window"` // rate limit window
}

type UPIConfig struct {
	PayeeID   string `yaml:"payee_id"`   // receiving VPA, e.g. shop@okaxis
	PayeeName string `yaml:"payee_name"` // shown in the UPI app
}

type PaymentConfig struct {
	UPI UPIConfig `yaml:"upi"`
}

type SMSConfig struct {
	Enabled    bool   `yaml:"enabled"`
	AccountSID string `yaml:"account_sid"`
	AuthToken  string `yaml:"auth_token"`
	From       string `yaml:"from"`
	BaseURL    string `yaml:"base_url"`
	Language   string `yaml:"language"` // locale used for SMS templates
}

type StorageConfig struct {
	Type      string `yaml:"type"` // local | s3 | r2
	BasePath  string `yaml:"base_path"`
	BaseURL   string `yaml:"base_url"`
	Bucket    string `yaml:"bucket"`
	Region    string `yaml:"region"`
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
	MaxBytes  int64  `yaml:"max_bytes"`
}

type SchedulerConfig struct {
	StorySweepInterval time.Duration `yaml:"story_sweep_interval"`
	OccasionHour       *int          `yaml:"occasion_hour"` // 0-23 local hour, unset selects noon
	TimeZone           string        `yaml:"time_zone"`
	LockTTL            time.Duration `yaml:"lock_ttl"`
}

type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Log       LogConfig       `yaml:"log"`
	Database  DatabaseConfig  `yaml:"database"`
	Redis     RedisConfig     `yaml:"redis"`
	Auth      AuthConfig      `yaml:"auth"`
	Payment   PaymentConfig   `yaml:"payment"`
	SMS       SMSConfig       `yaml:"sms"`
	Storage   StorageConfig   `yaml:"storage"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
	Metrics   MetricsConfig   `yaml:"metrics"`

	Runtime RuntimeConfig `yaml:"-"`
}

// LoadConfig reads the YAML file at path, applies defaults and validates the
// settings the server cannot start without.
func LoadConfig(path string, dev bool) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return Parse(b, dev)
}

// Parse is LoadConfig without the file read.
func Parse(b []byte, dev bool) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.Database.URL = v
	}
	applyDefaults(&cfg)

	// Minimal validation
	if cfg.Database.URL == "" {
		return nil, errors.New("database.url is required")
	}
	if cfg.Redis.URL == "" {
		return nil, errors.New("redis.url is required")
	}
	if cfg.Payment.UPI.PayeeID == "" {
		return nil, errors.New("payment.upi.payee_id is required")
	}
	if h := *cfg.Scheduler.OccasionHour; h < 0 || h > 23 {
		return nil, fmt.Errorf("scheduler.occasion_hour out of range: %d", h)
	}
	if _, err := time.LoadLocation(cfg.Scheduler.TimeZone); err != nil {
		return nil, fmt.Errorf("scheduler.time_zone: %w", err)
	}

	cfg.Runtime.Dev = dev
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 6000
	}
	if cfg.Server.RequestTimeout <= 0 {
		cfg.Server.RequestTimeout = 15 * time.Second
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "json"
	}
	if cfg.Database.MaxConns <= 0 {
		cfg.Database.MaxConns = 10
	}
	cfg.Redis.TTL = normalizeTTL(cfg.Redis.TTL)
	if cfg.Auth.TokenTTL <= 0 {
		cfg.Auth.TokenTTL = time.Hour
	}
	if cfg.Auth.LoginLimit <= 0 {
		cfg.Auth.LoginLimit = 5
	}
	if cfg.Auth.LoginWindow <= 0 {
		cfg.Auth.LoginWindow = time.Minute
	}
	if cfg.Payment.UPI.PayeeName == "" {
		cfg.Payment.UPI.PayeeName = "Poster Shop"
	}
	if cfg.SMS.BaseURL == "" {
		cfg.SMS.BaseURL = "https://api.twilio.com"
	}
	if cfg.SMS.Language == "" {
		cfg.SMS.Language = "en"
	}
	if cfg.Storage.Type == "" {
		cfg.Storage.Type = "local"
	}
	if cfg.Storage.BasePath == "" {
		cfg.Storage.BasePath = "./uploads"
	}
	if cfg.Storage.MaxBytes <= 0 {
		cfg.Storage.MaxBytes = 10 << 20
	}
	if cfg.Scheduler.StorySweepInterval <= 0 {
		cfg.Scheduler.StorySweepInterval = time.Hour
	}
	if cfg.Scheduler.OccasionHour == nil {
		noon := 12
		cfg.Scheduler.OccasionHour = &noon
	}
	if cfg.Scheduler.TimeZone == "" {
		cfg.Scheduler.TimeZone = "Asia/Kolkata"
	}
	if cfg.Scheduler.LockTTL <= 0 {
		cfg.Scheduler.LockTTL = 10 * time.Minute
	}
}

func normalizeTTL(d time.Duration) time.Duration {
	if d <= 0 {
		return time.Hour
	}
	return d
}
