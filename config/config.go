package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

const (
	EnvDev  = "DEV"
	EnvProd = "PROD"

	jwtSecretMinLen = 32
)

const (
	StoreDynamoDB = "dynamodb"
	StoreSQLite   = "sqlite"
	StorePostgres = "postgres"
)

type GoogleConfig struct {
	ClientID     string        `env:"GOOGLE_CLIENT_ID"`
	ClientSecret string        `env:"GOOGLE_CLIENT_SECRET"`
	ExchangeURL  string        `env:"GOOGLE_TOKEN_URL" envDefault:"https://oauth2.googleapis.com/token"`
	UserInfoURL  string        `env:"GOOGLE_USERINFO_URL" envDefault:"https://www.googleapis.com/oauth2/v2/userinfo"`
	Timeout      time.Duration `env:"GOOGLE_HTTP_TIMEOUT" envDefault:"10s"`
}

type JWTConfig struct {
	SecretKey        string        `env:"JWT_SECRET_KEY"`
	RefreshSecretKey string        `env:"JWT_REFRESH_SECRET_KEY"`
	AccessTTL        time.Duration `env:"JWT_ACCESS_TTL" envDefault:"15m"`
	RefreshTTL       time.Duration `env:"JWT_REFRESH_TTL" envDefault:"168h"`
}

type AWSConfig struct {
	Region   string `env:"AWS_REGION" envDefault:"eu-central-1"`
	Endpoint string `env:"DYNAMODB_ENDPOINT"`
}

type DynamoDBConfig struct {
	UsersTableName string `env:"DYNAMODB_USERS_TABLE" envDefault:"users"`
	TasksTableName string `env:"DYNAMODB_TASKS_TABLE" envDefault:"tasks"`
}

type StoreConfig struct {
	Driver      string `env:"STORE_DRIVER" envDefault:"dynamodb"`
	SQLitePath  string `env:"SQLITE_PATH" envDefault:"taskflow.db"`
	PostgresURL string `env:"DATABASE_URL"`
}

type RedisConfig struct {
	HOST     string        `env:"REDIS_HOST"`
	UserTTL  time.Duration `env:"REDIS_USER_CACHE_TTL" envDefault:"1h"`
	Password string        `env:"REDIS_PASSWORD"`
}

type CorsConfig struct {
	Origins string `env:"CORS_ORIGINS" envDefault:"http://localhost:3000"`
}

type RateLimitConfig struct {
	Limit  int           `env:"RATE_LIMIT" envDefault:"100"`
	Window time.Duration `env:"RATE_LIMIT_WINDOW" envDefault:"1m"`
}

type TracingConfig struct {
	Enabled     bool   `env:"TRACING" envDefault:"false"`
	Endpoint    string `env:"OTEL_EXPORTER_OTLP_ENDPOINT" envDefault:"http://localhost:4318"`
	ServiceName string `env:"OTEL_SERVICE_NAME" envDefault:"taskflow-gateway"`
}

type Config struct {
	Env         string `env:"ENV" envDefault:"DEV"`
	GatewayAddr string `env:"GATEWAY_ADDR" envDefault:":8080"`

	GoogleConfig    GoogleConfig
	JWTConfig       JWTConfig
	AWSConfig       AWSConfig
	DynamoDBConfig  DynamoDBConfig
	StoreConfig     StoreConfig
	RedisConfig     RedisConfig
	CorsConfig      CorsConfig
	RateLimitConfig RateLimitConfig
	TracingConfig   TracingConfig
}

// LoadConfig parses the process environment. A .env file, when present,
// is loaded by the godotenv autoload import in main before this runs.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	cfg.StoreConfig.Driver = strings.ToLower(strings.TrimSpace(cfg.StoreConfig.Driver))
	return cfg, nil
}

func (c Config) IsProduction() bool {
	return c.Env == EnvProd
}

// ValidateAllSecrets checks everything the gateway cannot start without.
func (c Config) ValidateAllSecrets() error {
	var errs []error

	if c.GoogleConfig.ClientID == "" {
		errs = append(errs, errors.New("GOOGLE_CLIENT_ID is required"))
	}
	if c.GoogleConfig.ClientSecret == "" {
		errs = append(errs, errors.New("GOOGLE_CLIENT_SECRET is required"))
	}
	if len(c.JWTConfig.SecretKey) < jwtSecretMinLen {
		errs = append(errs, fmt.Errorf("JWT_SECRET_KEY must be at least %d characters", jwtSecretMinLen))
	}
	if len(c.JWTConfig.RefreshSecretKey) < jwtSecretMinLen {
		errs = append(errs, fmt.Errorf("JWT_REFRESH_SECRET_KEY must be at least %d characters", jwtSecretMinLen))
	}
	if c.JWTConfig.SecretKey != "" && c.JWTConfig.SecretKey == c.JWTConfig.RefreshSecretKey {
		errs = append(errs, errors.New("JWT_SECRET_KEY and JWT_REFRESH_SECRET_KEY must differ"))
	}

	switch c.StoreConfig.Driver {
	case StoreDynamoDB, StoreSQLite:
	case StorePostgres:
		if c.StoreConfig.PostgresURL == "" {
			errs = append(errs, errors.New("DATABASE_URL is required when STORE_DRIVER=postgres"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown STORE_DRIVER %q", c.StoreConfig.Driver))
	}

	return errors.Join(errs...)
}

// LogValue keeps secrets out of structured logs.
func (c Config) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("env", c.Env),
		slog.String("addr", c.GatewayAddr),
		slog.String("store", c.StoreConfig.Driver),
		slog.Bool("redis", c.RedisConfig.HOST != ""),
		slog.Bool("tracing", c.TracingConfig.Enabled),
		slog.Bool("google_configured", c.GoogleConfig.ClientID != "" && c.GoogleConfig.ClientSecret != ""),
	)
}
