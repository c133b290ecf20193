package config

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

const defaultConfigPath = "./config/local.yaml"

type HTTPServer struct {
	Addr           string   `yaml:"address" env:"HTTP_ADDRESS" env-default:":8080"`
	AllowedOrigins []string `yaml:"allowed_origins" env:"ALLOWED_ORIGINS" env-default:"*"`
}

type Database struct {
	// "postgres" or "memory"; memory keeps everything in process and is meant for local runs.
	Driver          string        `yaml:"DRIVER" env:"DB_DRIVER" env-default:"postgres"`
	Host            string        `yaml:"PG_HOST" env:"PG_HOST" env-default:"localhost"`
	Port            string        `yaml:"PG_PORT" env:"PG_PORT" env-default:"5432"`
	User            string        `yaml:"PG_USER" env:"PG_USER" env-required:"true"`
	Password        string        `yaml:"PG_PASSWORD" env:"PG_PASSWORD" env-required:"true"`
	Name            string        `yaml:"PG_DBNAME" env:"PG_DBNAME" env-required:"true"`
	SSLMode         string        `yaml:"PG_SSLMODE" env:"PG_SSLMODE" env-default:"require"`
	MaxOpenConns    int           `yaml:"MAX_OPEN_CONNS" env:"PG_MAX_OPEN_CONNS" env-default:"25"`
	MaxIdleConns    int           `yaml:"MAX_IDLE_CONNS" env:"PG_MAX_IDLE_CONNS" env-default:"25"`
	ConnMaxLifetime time.Duration `yaml:"CONN_MAX_LIFETIME" env:"PG_CONN_MAX_LIFETIME" env-default:"5m"`
	ConnMaxIdleTime time.Duration `yaml:"CONN_MAX_IDLE_TIME" env:"PG_CONN_MAX_IDLE_TIME" env-default:"1m"`
	AutoMigrate     bool          `yaml:"AUTO_MIGRATE" env:"PG_AUTO_MIGRATE" env-default:"true"`
}

type RedisConnect struct {
	Host     string `yaml:"REDIS_HOST" env:"REDIS_HOST" env-default:"localhost"`
	Port     string `yaml:"REDIS_PORT" env:"REDIS_PORT" env-default:"6379"`
	Username string `yaml:"REDIS_USER" env:"REDIS_USER" env-required:"true"`
	Password string `yaml:"REDIS_PASSWORD" env:"REDIS_PASSWORD" env-required:"true"`
	DB       int    `yaml:"REDIS_DB" env:"REDIS_DB" env-default:"0"`
}

type RateConfig struct {
	MaxAttempts int64         `yaml:"MAX_ATTEMPTS" env:"MAX_ATTEMPTS" env-default:"5"`
	WindowSize  time.Duration `yaml:"WINDOW_SIZE" env:"WINDOW_SIZE" env-default:"15s"`
}

type SendGrid struct {
	APIKey                string `yaml:"API_KEY" env:"SENDGRID_API_KEY"`
	FromEmail             string `yaml:"FROM_EMAIL" env:"SENDGRID_FROM_EMAIL" env-default:"no-reply@bookstore.local"`
	FromName              string `yaml:"FROM_NAME" env:"SENDGRID_FROM_NAME" env-default:"Bookstore"`
	CheckoutTemplate      string `yaml:"CHECKOUT_TEMPLATE_ID" env:"SENDGRID_CHECKOUT_TEMPLATE_ID"`
	PasswordResetTemplate string `yaml:"PASSWORD_RESET_TEMPLATE_ID" env:"SENDGRID_PASSWORD_RESET_TEMPLATE_ID"`
}

// Templates maps the template names services use onto SendGrid dynamic template ids.
func (s *SendGrid) Templates() map[string]string {
	return map[string]string{
		"checkout":       s.CheckoutTemplate,
		"password-reset": s.PasswordResetTemplate,
	}
}

type Security struct {
	JWTKey         string        `yaml:"JWT_KEY" env:"JWT_KEY" env-required:"true"`
	JWTExpiryHours int           `yaml:"JWT_EXPIRY_HOURS" env:"JWT_EXPIRY_HOURS" env-default:"24"`
	AdminEmail     string        `yaml:"ADMIN_EMAIL" env:"ADMIN_EMAIL"`
	ResetKeyTTL    time.Duration `yaml:"RESET_KEY_TTL" env:"RESET_KEY_TTL" env-default:"2m"`
}

type Storage struct {
	Bucket          string `yaml:"BUCKET" env:"S3_BUCKET" env-default:"bookstore"`
	Region          string `yaml:"REGION" env:"S3_REGION" env-default:"us-east-1"`
	Endpoint        string `yaml:"ENDPOINT" env:"S3_ENDPOINT"`
	AccessKeyID     string `yaml:"ACCESS_KEY_ID" env:"S3_ACCESS_KEY_ID"`
	SecretAccessKey string `yaml:"SECRET_ACCESS_KEY" env:"S3_SECRET_ACCESS_KEY"`
	PublicBaseURL   string `yaml:"PUBLIC_BASE_URL" env:"S3_PUBLIC_BASE_URL"`
	MaxUploadSize   int64  `yaml:"MAX_UPLOAD_SIZE" env:"MAX_UPLOAD_SIZE" env-default:"5242880"`
}

type OTel struct {
	ServiceName      string  `yaml:"SERVICE_NAME" env:"OTEL_SERVICE_NAME" env-default:"bookstore-platform"`
	ExporterEndpoint string  `yaml:"EXPORTER_ENDPOINT" env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	SamplerRatio     float64 `yaml:"SAMPLER_RATIO" env:"OTEL_SAMPLER_RATIO" env-default:"1"`
}

type Cache struct {
	DefaultTTL time.Duration `yaml:"default_ttl" env:"CACHE_DEFAULT_TTL" env-default:"5m"`
}

type Config struct {
	Env          string `yaml:"env" env:"ENV" env-required:"true"`
	HTTPServer   `yaml:"http_server"`
	Database     Database     `yaml:"database"`
	RedisConnect RedisConnect `yaml:"redis"`
	RateConfig   RateConfig   `yaml:"rateConfig"`
	SendGrid     SendGrid     `yaml:"sendgrid"`
	Security     Security     `yaml:"security"`
	Storage      Storage      `yaml:"storage"`
	OTel         OTel         `yaml:"otel"`
	Cache        Cache        `yaml:"cache"`
}

func LoadConfigFromPath(configPath string) (*Config, error) {
	if _, err := os.Stat(configPath); errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("config file does not exist: %s", configPath)
	}

	var cfg Config

	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		return nil, fmt.Errorf("can not read config file: %w", err)
	}

	return &cfg, nil
}

func MustLoad() *Config {
	configPath := os.Getenv("CONFIG_PATH")

	if configPath == "" {
		flags := flag.String("config", "", "path to the config file")
		flag.Parse()

		configPath = *flags
	}

	if configPath == "" {
		configPath = defaultConfigPath
	}

	cfg, err := LoadConfigFromPath(configPath)
	if err != nil {
		log.Fatal(err)
	}

	return cfg
}

func (d *Database) GetDSN() string {
	return fmt.Sprintf("postgresql://%s:%s@%s:%s/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode)
}

func (r *RedisConnect) GetDSN() string {
	return fmt.Sprintf("redis://%s:%s@%s:%s", r.Username, r.Password, r.Host, r.Port)
}
