package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Env         string            `mapstructure:"env"`
	Log         LogConfig         `mapstructure:"log"`
	Server      ServerConfig      `mapstructure:"server"`
	Database    DatabaseConfig    `mapstructure:"database"`
	Storage     StorageConfig     `mapstructure:"storage"`
	Auth        AuthConfig        `mapstructure:"auth"`
	Redis       RedisConfig       `mapstructure:"redis"`
	RateLimit   RateLimitConfig   `mapstructure:"rate_limit"`
	Events      EventsConfig      `mapstructure:"events"`
	Maintenance MaintenanceConfig `mapstructure:"maintenance"`
	Telemetry   TelemetryConfig   `mapstructure:"telemetry"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type ServerConfig struct {
	Port            string   `mapstructure:"port"`
	ReadTimeout     int      `mapstructure:"read_timeout_seconds"`
	WriteTimeout    int      `mapstructure:"write_timeout_seconds"`
	IdleTimeout     int      `mapstructure:"idle_timeout_seconds"`
	ShutdownTimeout int      `mapstructure:"shutdown_timeout_seconds"`
	CORSOrigins     []string `mapstructure:"cors_origins"`
}

type DatabaseConfig struct {
	Host            string `mapstructure:"host"`
	Port            string `mapstructure:"port"`
	User            string `mapstructure:"user"`
	Password        string `mapstructure:"password"`
	DBName          string `mapstructure:"name"`
	SSLMode         string `mapstructure:"ssl_mode"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime_seconds"`
	ConnMaxIdleTime int    `mapstructure:"conn_max_idle_time_seconds"`
}

const (
	StoragePostgres = "postgres"
	StorageMemory   = "memory"
)

type StorageConfig struct {
	Driver string `mapstructure:"driver"`
	// Seed loads the demo fixtures into the memory store
	Seed bool `mapstructure:"seed"`
}

type AuthConfig struct {
	AccessSecret  string        `mapstructure:"access_secret"`
	RefreshSecret string        `mapstructure:"refresh_secret"`
	AccessTTL     time.Duration `mapstructure:"access_ttl"`
	RefreshTTL    time.Duration `mapstructure:"refresh_ttl"`
	BcryptCost    int           `mapstructure:"bcrypt_cost"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type RateLimitConfig struct {
	Enabled       bool          `mapstructure:"enabled"`
	LoginLimit    int           `mapstructure:"login_limit"`
	LoginWindow   time.Duration `mapstructure:"login_window"`
	ApplyLimit    int           `mapstructure:"apply_limit"`
	ApplyWindow   time.Duration `mapstructure:"apply_window"`
	RedisKeyspace string        `mapstructure:"redis_keyspace"`

	// TrustForwarded reads the client IP from X-Forwarded-For
	TrustForwarded bool `mapstructure:"trust_forwarded"`
}

const (
	EventsNoop  = "noop"
	EventsNATS  = "nats"
	EventsKafka = "kafka"
)

type EventsConfig struct {
	Driver string      `mapstructure:"driver"`
	NATS   NATSConfig  `mapstructure:"nats"`
	Kafka  KafkaConfig `mapstructure:"kafka"`
}

type NATSConfig struct {
	URL     string `mapstructure:"url"`
	Subject string `mapstructure:"subject"`
}

type KafkaConfig struct {
	Brokers []string `mapstructure:"brokers"`
	Topic   string   `mapstructure:"topic"`
}

type MaintenanceConfig struct {
	DisabledWrites []string `mapstructure:"disabled_writes"`
	Message        string   `mapstructure:"message"`
	// DemoDefaults disables the writes the public demo keeps closed
	DemoDefaults bool `mapstructure:"demo_defaults"`
}

type TelemetryConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Endpoint string        `mapstructure:"endpoint"`
	Interval time.Duration `mapstructure:"interval"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("env", "local")
	v.SetDefault("log.level", "")
	v.SetDefault("log.format", "")

	v.SetDefault("server.port", "5000")
	v.SetDefault("server.read_timeout_seconds", 15)
	v.SetDefault("server.write_timeout_seconds", 15)
	v.SetDefault("server.idle_timeout_seconds", 60)
	v.SetDefault("server.shutdown_timeout_seconds", 10)
	v.SetDefault("server.cors_origins", []string{"http://localhost:3000"})

	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", "5432")
	v.SetDefault("database.name", "apt")
	v.SetDefault("database.ssl_mode", "disable")

	v.SetDefault("storage.driver", StoragePostgres)
	v.SetDefault("storage.seed", false)

	v.SetDefault("auth.access_ttl", 15*time.Minute)
	v.SetDefault("auth.refresh_ttl", 7*24*time.Hour)
	v.SetDefault("auth.bcrypt_cost", 12)

	v.SetDefault("rate_limit.enabled", true)
	v.SetDefault("rate_limit.login_limit", 10)
	v.SetDefault("rate_limit.login_window", time.Minute)
	v.SetDefault("rate_limit.apply_limit", 5)
	v.SetDefault("rate_limit.apply_window", time.Minute)
	v.SetDefault("rate_limit.redis_keyspace", "apt:ratelimit")
	v.SetDefault("rate_limit.trust_forwarded", false)

	v.SetDefault("events.driver", EventsNoop)
	v.SetDefault("events.nats.url", "nats://localhost:4222")
	v.SetDefault("events.nats.subject", "apt.events")
	v.SetDefault("events.kafka.brokers", []string{"localhost:9092"})
	v.SetDefault("events.kafka.topic", "apt-events")

	v.SetDefault("maintenance.message", "Sorry, we are currently experiencing high traffic.")

	v.SetDefault("telemetry.enabled", false)
	v.SetDefault("telemetry.endpoint", "otel-collector.infra.svc.cluster.local:4317")
	v.SetDefault("telemetry.interval", 10*time.Second)
}

// Load reads config.<ENV>.yaml (optional) and applies environment overrides.
func Load() (*Config, error) {
	env := os.Getenv("ENV")
	if env == "" {
		env = "local"
	}

	v := viper.New()
	setDefaults(v)
	v.Set("env", env)

	v.SetConfigName(fmt.Sprintf("config.%s", env))
	v.SetConfigType("yaml")
	v.AddConfigPath("/configs")   // Kubernetes mount
	v.AddConfigPath("./configs")  // from repo root
	v.AddConfigPath("../configs") // from cmd/
	v.AddConfigPath("../../configs")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	return build(v)
}

func build(v *viper.Viper) (*Config, error) {
	// Env vars take precedence over the file, e.g. SERVER_PORT or STORAGE_DRIVER
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	binds := map[string]string{
		"database.user":       "DB_USER",
		"database.password":   "DB_PASSWORD",
		"auth.access_secret":  "JWT_ACCESS_SECRET",
		"auth.refresh_secret": "JWT_REFRESH_SECRET",
		"redis.addr":          "REDIS_ADDR",
		"server.port":         "PORT",
	}
	for key, envVar := range binds {
		if err := v.BindEnv(key, envVar); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", envVar, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	var errs []error

	if c.Auth.AccessSecret == "" {
		errs = append(errs, errors.New("auth.access_secret is required"))
	}
	if c.Auth.RefreshSecret == "" {
		errs = append(errs, errors.New("auth.refresh_secret is required"))
	}
	if c.Auth.AccessSecret != "" && c.Auth.AccessSecret == c.Auth.RefreshSecret {
		errs = append(errs, errors.New("auth.access_secret and auth.refresh_secret must differ"))
	}
	if c.Auth.AccessTTL <= 0 || c.Auth.RefreshTTL <= 0 {
		errs = append(errs, errors.New("auth token lifetimes must be positive"))
	}

	switch c.Storage.Driver {
	case StoragePostgres, StorageMemory:
	default:
		errs = append(errs, fmt.Errorf("unknown storage.driver %q", c.Storage.Driver))
	}

	switch c.Events.Driver {
	case EventsNoop, EventsNATS, EventsKafka:
	default:
		errs = append(errs, fmt.Errorf("unknown events.driver %q", c.Events.Driver))
	}
	if c.Events.Driver == EventsKafka && len(c.Events.Kafka.Brokers) == 0 {
		errs = append(errs, errors.New("events.kafka.brokers is required for the kafka driver"))
	}

	return errors.Join(errs...)
}

// Addr is the listen address for the HTTP server
func (s ServerConfig) Addr() string {
	return ":" + s.Port
}
