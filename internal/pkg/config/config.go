package config

import (
	"fmt"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/samirrijal/geoflex/internal/pkg/flexpolyline"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Log       LogConfig       `mapstructure:"log"`
	Database  DatabaseConfig  `mapstructure:"database"`
	NATS      NATSConfig      `mapstructure:"nats"`
	Valkey    ValkeyConfig    `mapstructure:"valkey"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
	Temporal  TemporalConfig  `mapstructure:"temporal"`
	HERE      HEREConfig      `mapstructure:"here"`
	Polyline  PolylineConfig  `mapstructure:"polyline"`
}

type ServerConfig struct {
	Port         int `mapstructure:"port"`
	ReadTimeout  int `mapstructure:"read_timeout"`
	WriteTimeout int `mapstructure:"write_timeout"`
	// BodyLimit caps request bodies in bytes; encode requests carry whole
	// coordinate arrays.
	BodyLimit int `mapstructure:"body_limit"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	SSLMode  string `mapstructure:"sslmode"`
}

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		url.QueryEscape(d.User), url.QueryEscape(d.Password), d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

type NATSConfig struct {
	URL string `mapstructure:"url"`
	// Durable is the consumer name used by the archiver.
	Durable string `mapstructure:"durable"`
}

type ValkeyConfig struct {
	Addr string `mapstructure:"addr"`
}

type TelemetryConfig struct {
	ServiceName string `mapstructure:"service_name"`
	TempoAddr   string `mapstructure:"tempo_addr"`
	Enabled     bool   `mapstructure:"enabled"`
}

type TemporalConfig struct {
	HostPort  string `mapstructure:"host_port"`
	Namespace string `mapstructure:"namespace"`
	TaskQueue string `mapstructure:"task_queue"`
}

// HEREConfig points at the HERE REST APIs whose responses carry encoded
// geometry.
type HEREConfig struct {
	APIKey        string        `mapstructure:"api_key"`
	RoutingURL    string        `mapstructure:"routing_url"`
	IsolineURL    string        `mapstructure:"isoline_url"`
	IntermodalURL string        `mapstructure:"intermodal_url"`
	Timeout       time.Duration `mapstructure:"timeout"`
}

type PolylineConfig struct {
	DefaultPrecision int           `mapstructure:"default_precision"`
	CacheTTL         time.Duration `mapstructure:"cache_ttl"`
	// MaxPoints bounds encode requests and decoded output served over HTTP.
	MaxPoints int `mapstructure:"max_points"`
}

// Load reads configuration from file and environment variables.
func Load(service string) (*Config, error) {
	v := viper.New()
	setDefaults(v, service)

	// Config file (optional)
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./configs")
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	// Environment variables: GEOFLEX_HERE_API_KEY → here.api_key
	v.SetEnvPrefix("GEOFLEX")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper, service string) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 10)
	v.SetDefault("server.write_timeout", 10)
	v.SetDefault("server.body_limit", 4*1024*1024)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "geoflex")
	v.SetDefault("database.password", "")
	v.SetDefault("database.dbname", "geoflex")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("nats.url", "nats://localhost:4222")
	v.SetDefault("nats.durable", "geoflex-archiver")
	v.SetDefault("valkey.addr", "localhost:6379")
	v.SetDefault("telemetry.service_name", service)
	v.SetDefault("telemetry.tempo_addr", "tempo:4317")
	v.SetDefault("telemetry.enabled", true)
	v.SetDefault("temporal.host_port", "localhost:7233")
	v.SetDefault("temporal.namespace", "default")
	v.SetDefault("temporal.task_queue", "geometry-archive")
	v.SetDefault("here.api_key", "")
	v.SetDefault("here.routing_url", "https://router.hereapi.com/v8/routes")
	v.SetDefault("here.isoline_url", "https://isoline.router.hereapi.com/v8/isolines")
	v.SetDefault("here.intermodal_url", "https://intermodal.router.hereapi.com/v8/routes")
	v.SetDefault("here.timeout", 10*time.Second)
	v.SetDefault("polyline.default_precision", flexpolyline.DefaultPrecision)
	v.SetDefault("polyline.cache_ttl", 10*time.Minute)
	v.SetDefault("polyline.max_points", 100_000)
}

// Validate checks that required configuration fields are present and sane.
func (c *Config) Validate() error {
	var errs []string

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Sprintf("server.port must be 1-65535, got %d", c.Server.Port))
	}
	if c.Server.ReadTimeout <= 0 {
		errs = append(errs, "server.read_timeout must be positive")
	}
	if c.Server.WriteTimeout <= 0 {
		errs = append(errs, "server.write_timeout must be positive")
	}
	if c.Server.BodyLimit <= 0 {
		errs = append(errs, "server.body_limit must be positive")
	}
	switch strings.ToLower(c.Log.Format) {
	case "json", "text":
	default:
		errs = append(errs, fmt.Sprintf("log.format must be json or text, got %q", c.Log.Format))
	}
	if c.Database.Host == "" {
		errs = append(errs, "database.host is required")
	}
	if c.Database.Port <= 0 || c.Database.Port > 65535 {
		errs = append(errs, fmt.Sprintf("database.port must be 1-65535, got %d", c.Database.Port))
	}
	if c.Database.User == "" {
		errs = append(errs, "database.user is required")
	}
	if c.Database.DBName == "" {
		errs = append(errs, "database.dbname is required")
	}
	if c.NATS.URL == "" {
		errs = append(errs, "nats.url is required")
	}
	if c.Valkey.Addr == "" {
		errs = append(errs, "valkey.addr is required")
	}
	if c.Temporal.HostPort == "" {
		errs = append(errs, "temporal.host_port is required")
	}
	if c.Temporal.TaskQueue == "" {
		errs = append(errs, "temporal.task_queue is required")
	}
	for key, raw := range map[string]string{
		"here.routing_url":    c.HERE.RoutingURL,
		"here.isoline_url":    c.HERE.IsolineURL,
		"here.intermodal_url": c.HERE.IntermodalURL,
	} {
		if u, err := url.Parse(raw); err != nil || u.Scheme == "" || u.Host == "" {
			errs = append(errs, fmt.Sprintf("%s must be an absolute URL, got %q", key, raw))
		}
	}
	if c.HERE.Timeout <= 0 {
		errs = append(errs, "here.timeout must be positive")
	}
	if c.Polyline.DefaultPrecision < 0 || c.Polyline.DefaultPrecision > flexpolyline.MaxPrecision {
		errs = append(errs, fmt.Sprintf("polyline.default_precision must be 0-%d, got %d",
			flexpolyline.MaxPrecision, c.Polyline.DefaultPrecision))
	}
	if c.Polyline.CacheTTL < 0 {
		errs = append(errs, "polyline.cache_ttl must not be negative")
	}
	if c.Polyline.MaxPoints <= 0 {
		errs = append(errs, "polyline.max_points must be positive")
	}

	if len(errs) > 0 {
		sort.Strings(errs)
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}
