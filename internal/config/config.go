package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"dario.cat/mergo"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/tair/inventory-dashboard/pkg/database"
)

// Snapshot store backends
const (
	BackendMemory   = "memory"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
)

// Config holds the dashboard service configuration
type Config struct {
	ServiceName string `yaml:"service_name"`
	Environment string `yaml:"environment"`
	LogLevel    string `yaml:"log_level"`
	InstanceID  string `yaml:"instance_id"`

	Server    ServerConfig    `yaml:"server"`
	Upstream  UpstreamConfig  `yaml:"upstream"`
	Snapshot  SnapshotConfig  `yaml:"snapshot"`
	PageSizes PageSizeConfig  `yaml:"page_sizes"`
	Redis     RedisConfig     `yaml:"redis"`
	Database  database.Config `yaml:"database"`
	Kafka     KafkaConfig     `yaml:"kafka"`
	Tracing   TracingConfig   `yaml:"tracing"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
}

// ServerConfig holds listener settings
type ServerConfig struct {
	HTTPPort       string        `yaml:"http_port"`
	OpsPort        string        `yaml:"ops_port"`
	GRPCPort       string        `yaml:"grpc_port"`
	ReadTimeout    time.Duration `yaml:"read_timeout"`
	WriteTimeout   time.Duration `yaml:"write_timeout"`
	AllowedOrigins string        `yaml:"allowed_origins"`
	HealthInterval time.Duration `yaml:"health_interval"`
}

// UpstreamConfig configures the catalog REST client
type UpstreamConfig struct {
	BaseURL         string        `yaml:"base_url"`
	Timeout         time.Duration `yaml:"timeout"`
	ForecastTimeout time.Duration `yaml:"forecast_timeout"`
	MaxFailures     int           `yaml:"max_failures"`
	OpenTimeout     time.Duration `yaml:"open_timeout"`
}

// SnapshotConfig selects the snapshot store and fingerprint mode
type SnapshotConfig struct {
	Backend         string        `yaml:"backend"`
	TTL             time.Duration `yaml:"ttl"`
	FingerprintMode string        `yaml:"fingerprint_mode"`
}

// PageSizeConfig holds the page size of each paginated view
type PageSizeConfig struct {
	Dashboard int `yaml:"dashboard"`
	Inventory int `yaml:"inventory"`
	Forecast  int `yaml:"forecast"`
}

// RedisConfig holds the Redis connection settings
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// KafkaConfig holds the event bus settings
type KafkaConfig struct {
	Enabled bool     `yaml:"enabled"`
	Brokers []string `yaml:"brokers"`
	GroupID string   `yaml:"group_id"`
}

// TracingConfig holds the Jaeger exporter settings
type TracingConfig struct {
	JaegerEndpoint string  `yaml:"jaeger_endpoint"`
	SampleRatio    float64 `yaml:"sample_ratio"`
}

// RateLimitConfig configures the public API rate limiter
type RateLimitConfig struct {
	Enabled     bool          `yaml:"enabled"`
	MaxRequests int           `yaml:"max_requests"`
	Window      time.Duration `yaml:"window"`
}

// Default returns the built-in configuration
func Default() Config {
	return Config{
		ServiceName: "inventory-dashboard",
		Environment: "development",
		LogLevel:    "info",
		Server: ServerConfig{
			HTTPPort:       "8090",
			OpsPort:        "9100",
			GRPCPort:       "9190",
			ReadTimeout:    10 * time.Second,
			WriteTimeout:   90 * time.Second,
			AllowedOrigins: "*",
			HealthInterval: 15 * time.Second,
		},
		Upstream: UpstreamConfig{
			BaseURL:         "http://localhost:8080/api",
			Timeout:         5 * time.Second,
			ForecastTimeout: 60 * time.Second,
			MaxFailures:     5,
			OpenTimeout:     30 * time.Second,
		},
		Snapshot: SnapshotConfig{
			Backend:         BackendMemory,
			TTL:             24 * time.Hour,
			FingerprintMode: "boundary",
		},
		PageSizes: PageSizeConfig{Dashboard: 10, Inventory: 10, Forecast: 10},
		Redis:     RedisConfig{Addr: "localhost:6379"},
		Database: database.Config{
			Host:    "localhost",
			Port:    "5432",
			User:    "postgres",
			DBName:  "dashboarddb",
			SSLMode: "disable",
		},
		Kafka: KafkaConfig{
			Brokers: []string{"localhost:9092"},
			GroupID: "inventory-dashboard",
		},
		Tracing: TracingConfig{
			JaegerEndpoint: "http://localhost:14268/api/traces",
			SampleRatio:    1,
		},
		RateLimit: RateLimitConfig{
			Enabled:     true,
			MaxRequests: 100,
			Window:      time.Minute,
		},
	}
}

// Load builds the configuration from defaults, the YAML file named by
// DASHBOARD_CONFIG, .env.local when ENVIRONMENT=local and the environment
func Load() (*Config, error) {
	cfg := Default()

	if path := os.Getenv("DASHBOARD_CONFIG"); path != "" {
		fileCfg, err := LoadFile(path)
		if err != nil {
			return nil, err
		}
		if err := mergo.Merge(&cfg, fileCfg, mergo.WithOverride); err != nil {
			return nil, fmt.Errorf("failed to merge config file %s: %w", path, err)
		}
	}

	if os.Getenv("ENVIRONMENT") == "local" {
		// A missing .env.local is fine; the process environment still applies
		_ = godotenv.Load(".env.local")
	}

	applyEnv(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadFile parses a YAML config file. ${VAR} references are expanded.
func LoadFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config file: %w", err)
	}
	data = []byte(os.ExpandEnv(string(data)))

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config file: %w", err)
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	cfg.ServiceName = getEnv("OTEL_SERVICE_NAME", cfg.ServiceName)
	cfg.Environment = getEnv("ENVIRONMENT", cfg.Environment)
	cfg.LogLevel = getEnv("LOG_LEVEL", cfg.LogLevel)
	cfg.InstanceID = getEnv("INSTANCE_ID", cfg.InstanceID)
	if cfg.InstanceID == "" {
		if host, err := os.Hostname(); err == nil {
			cfg.InstanceID = host
		}
	}

	cfg.Server.HTTPPort = getEnv("HTTP_PORT", cfg.Server.HTTPPort)
	cfg.Server.OpsPort = getEnv("OPS_PORT", cfg.Server.OpsPort)
	cfg.Server.GRPCPort = getEnv("GRPC_PORT", cfg.Server.GRPCPort)
	cfg.Server.AllowedOrigins = getEnv("CORS_ALLOWED_ORIGINS", cfg.Server.AllowedOrigins)

	cfg.Upstream.BaseURL = getEnv("UPSTREAM_BASE_URL", cfg.Upstream.BaseURL)
	cfg.Upstream.Timeout = getEnvDuration("UPSTREAM_TIMEOUT", cfg.Upstream.Timeout)
	cfg.Upstream.ForecastTimeout = getEnvDuration("FORECAST_TIMEOUT", cfg.Upstream.ForecastTimeout)

	cfg.Snapshot.Backend = getEnv("SNAPSHOT_BACKEND", cfg.Snapshot.Backend)
	cfg.Snapshot.FingerprintMode = getEnv("FINGERPRINT_MODE", cfg.Snapshot.FingerprintMode)

	cfg.Redis.Addr = getEnv("REDIS_ADDR", cfg.Redis.Addr)
	cfg.Redis.Password = getEnv("REDIS_PASSWORD", cfg.Redis.Password)

	cfg.Database.Host = getEnv("DB_HOST", cfg.Database.Host)
	cfg.Database.Port = getEnv("DB_PORT", cfg.Database.Port)
	cfg.Database.User = getEnv("DB_USER", cfg.Database.User)
	cfg.Database.Password = getEnv("DB_PASSWORD", cfg.Database.Password)
	cfg.Database.DBName = getEnv("DB_NAME", cfg.Database.DBName)
	cfg.Database.SSLMode = getEnv("DB_SSLMODE", cfg.Database.SSLMode)

	cfg.Kafka.Enabled = getEnvBool("KAFKA_ENABLED", cfg.Kafka.Enabled)
	if brokers := os.Getenv("KAFKA_BROKERS"); brokers != "" {
		cfg.Kafka.Brokers = strings.Split(brokers, ",")
	}

	cfg.Tracing.JaegerEndpoint = getEnv("JAEGER_ENDPOINT", cfg.Tracing.JaegerEndpoint)
	cfg.RateLimit.Enabled = getEnvBool("RATE_LIMIT_ENABLED", cfg.RateLimit.Enabled)
}

// Validate rejects settings the service cannot start with
func (c *Config) Validate() error {
	switch c.Snapshot.Backend {
	case BackendMemory, BackendRedis, BackendPostgres:
	default:
		return fmt.Errorf("unknown snapshot backend %q", c.Snapshot.Backend)
	}
	if c.Upstream.BaseURL == "" {
		return fmt.Errorf("upstream base url is required")
	}
	if c.Kafka.Enabled && len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("kafka is enabled but no brokers are configured")
	}
	return nil
}

// IsDevelopment reports whether console logging should be used
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development" || c.Environment == "local"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value, err := strconv.ParseBool(os.Getenv(key)); err == nil {
		return value
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value, err := time.ParseDuration(os.Getenv(key)); err == nil {
		return value
	}
	return defaultValue
}
