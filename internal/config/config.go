package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
	EnvTest        = "test"
)

type Config struct {
	Env          string
	FrontendURLs []string
	Server       ServerConfig
	Database     DatabaseConfig
	Redis        RedisConfig
	Clerk        ClerkConfig
	Stripe       StripeConfig
	Kafka        KafkaConfig
	Storage      StorageConfig
	Health       HealthConfig
}

type ServerConfig struct {
	Host         string
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

type DatabaseConfig struct {
	URL string
}

type RedisConfig struct {
	URL          string
	MaxRetries   int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	PoolSize     int
	MinIdleConns int
}

// Enabled reports whether a Redis URL was configured. Redis is optional:
// without it rate limiting is skipped and balance updates stay process-local.
func (c RedisConfig) Enabled() bool {
	return c.URL != ""
}

type ClerkConfig struct {
	SecretKey      string
	PublishableKey string
	JWTPublicKey   string
	WebhookSecret  string
	DevUserID      string
}

type StripeConfig struct {
	SecretKey          string
	WebhookSecret      string
	ConnectedAccountID string
}

type KafkaConfig struct {
	Brokers      []string
	BalanceTopic string
}

func (c KafkaConfig) Enabled() bool {
	return len(c.Brokers) > 0
}

type StorageConfig struct {
	Endpoint  string
	Region    string
	Bucket    string
	AccessKey string
	SecretKey string
	UseSSL    bool
	ArtFolder string
}

func (c StorageConfig) Enabled() bool {
	return c.Bucket != "" && c.AccessKey != "" && c.SecretKey != ""
}

// CDNBase is the public URL prefix objects are served from.
func (c StorageConfig) CDNBase() string {
	if c.Region == "" {
		return fmt.Sprintf("https://%s/%s", c.Endpoint, c.Bucket)
	}
	return fmt.Sprintf("https://%s.%s.cdn.digitaloceanspaces.com", c.Bucket, c.Region)
}

type HealthConfig struct {
	Secret string
}

var requiredKeys = []string{
	"CLERK_SECRET_KEY",
	"CLERK_PUBLISHABLE_KEY",
	"CLERK_JWK_PUBLIC_KEY",
	"DATABASE_URL",
}

// LoadConfig reads .env (when present) and the process environment.
// It fails when a required key is missing or NODE_ENV has an unknown value.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("No .env file found, using environment variables")
	}

	v := viper.New()
	v.SetDefault("NODE_ENV", EnvDevelopment)
	v.SetDefault("HOST", "")
	v.SetDefault("PORT", "3000")
	v.SetDefault("FRONTEND_URL", "http://localhost:5173")
	v.SetDefault("SERVER_READ_TIMEOUT", 30*time.Second)
	v.SetDefault("SERVER_WRITE_TIMEOUT", 30*time.Second)
	v.SetDefault("SERVER_IDLE_TIMEOUT", 60*time.Second)
	v.SetDefault("REDIS_MAX_RETRIES", 3)
	v.SetDefault("REDIS_POOL_SIZE", 100)
	v.SetDefault("REDIS_MIN_IDLE_CONNS", 10)
	v.SetDefault("REDIS_DIAL_TIMEOUT", 5*time.Second)
	v.SetDefault("REDIS_READ_TIMEOUT", 3*time.Second)
	v.SetDefault("REDIS_WRITE_TIMEOUT", 3*time.Second)
	v.SetDefault("KAFKA_BALANCE_TOPIC", "token-balance-events")
	v.SetDefault("SPACES_USE_SSL", true)
	v.SetDefault("SPACES_ART_FOLDER", "card-images-staging")
	v.AutomaticEnv()

	var missing []string
	for _, key := range requiredKeys {
		if strings.TrimSpace(v.GetString(key)) == "" {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required configuration: %s", strings.Join(missing, ", "))
	}

	env := v.GetString("NODE_ENV")
	switch env {
	case EnvDevelopment, EnvProduction, EnvTest:
	default:
		return nil, fmt.Errorf("invalid NODE_ENV %q: must be one of development, production, test", env)
	}

	region := v.GetString("SPACES_REGION")
	endpoint := v.GetString("SPACES_ENDPOINT")
	if endpoint == "" && region != "" {
		endpoint = fmt.Sprintf("%s.digitaloceanspaces.com", region)
	}

	return &Config{
		Env:          env,
		FrontendURLs: splitList(v.GetString("FRONTEND_URL")),
		Server: ServerConfig{
			Host:         v.GetString("HOST"),
			Port:         v.GetString("PORT"),
			ReadTimeout:  v.GetDuration("SERVER_READ_TIMEOUT"),
			WriteTimeout: v.GetDuration("SERVER_WRITE_TIMEOUT"),
			IdleTimeout:  v.GetDuration("SERVER_IDLE_TIMEOUT"),
		},
		Database: DatabaseConfig{
			URL: v.GetString("DATABASE_URL"),
		},
		Redis: RedisConfig{
			URL:          v.GetString("REDIS_URL"),
			MaxRetries:   v.GetInt("REDIS_MAX_RETRIES"),
			DialTimeout:  v.GetDuration("REDIS_DIAL_TIMEOUT"),
			ReadTimeout:  v.GetDuration("REDIS_READ_TIMEOUT"),
			WriteTimeout: v.GetDuration("REDIS_WRITE_TIMEOUT"),
			PoolSize:     v.GetInt("REDIS_POOL_SIZE"),
			MinIdleConns: v.GetInt("REDIS_MIN_IDLE_CONNS"),
		},
		Clerk: ClerkConfig{
			SecretKey:      v.GetString("CLERK_SECRET_KEY"),
			PublishableKey: v.GetString("CLERK_PUBLISHABLE_KEY"),
			JWTPublicKey:   v.GetString("CLERK_JWK_PUBLIC_KEY"),
			WebhookSecret:  v.GetString("CLERK_WEBHOOK_SECRET"),
			DevUserID:      v.GetString("DEV_CLERK_USER_ID"),
		},
		Stripe: StripeConfig{
			SecretKey:          v.GetString("STRIPE_SECRET_KEY"),
			WebhookSecret:      v.GetString("STRIPE_WEBHOOK_SECRET"),
			ConnectedAccountID: v.GetString("STRIPE_CONNECTED_ACCOUNT_ID"),
		},
		Kafka: KafkaConfig{
			Brokers:      splitList(v.GetString("KAFKA_BROKERS")),
			BalanceTopic: v.GetString("KAFKA_BALANCE_TOPIC"),
		},
		Storage: StorageConfig{
			Endpoint:  endpoint,
			Region:    region,
			Bucket:    v.GetString("SPACES_BUCKET"),
			AccessKey: v.GetString("SPACES_ACCESS_KEY_ID"),
			SecretKey: v.GetString("SPACES_SECRET_KEY"),
			UseSSL:    v.GetBool("SPACES_USE_SSL"),
			ArtFolder: v.GetString("SPACES_ART_FOLDER"),
		},
		Health: HealthConfig{
			Secret: v.GetString("HEALTH_SECRET"),
		},
	}, nil
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%s", c.Server.Host, c.Server.Port)
}

func (c *Config) IsDevelopment() bool {
	return c.Env == EnvDevelopment
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
