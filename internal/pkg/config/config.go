package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/ribbitnetwork/frogmap/internal/core/domain"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Log       LogConfig       `mapstructure:"log"`
	Database  DatabaseConfig  `mapstructure:"database"`
	NATS      NATSConfig      `mapstructure:"nats"`
	Valkey    ValkeyConfig    `mapstructure:"valkey"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
	Dashboard DashboardConfig `mapstructure:"dashboard"`
	Ingest    IngestConfig    `mapstructure:"ingest"`
}

type ServerConfig struct {
	Port         int    `mapstructure:"port"`
	ReadTimeout  int    `mapstructure:"read_timeout"`
	WriteTimeout int    `mapstructure:"write_timeout"`
	AllowOrigins string `mapstructure:"allow_origins"`
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
	MaxConns int32  `mapstructure:"max_conns"`
}

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

type NATSConfig struct {
	URL string `mapstructure:"url"`
}

type ValkeyConfig struct {
	Addr string `mapstructure:"addr"`
}

type TelemetryConfig struct {
	ServiceName string `mapstructure:"service_name"`
	TempoAddr   string `mapstructure:"tempo_addr"`
	Enabled     bool   `mapstructure:"enabled"`
}

// DashboardConfig controls what the dashboard shows and how often it refreshes.
type DashboardConfig struct {
	Title           string          `mapstructure:"title"`
	RefreshSeconds  int             `mapstructure:"refresh_seconds"`
	DefaultDuration string          `mapstructure:"default_duration"`
	MapStyle        domain.MapStyle `mapstructure:"map"`
}

// RefreshInterval is the refresh period as a time.Duration.
func (d DashboardConfig) RefreshInterval() time.Duration {
	return time.Duration(d.RefreshSeconds) * time.Second
}

// IngestConfig bounds the reading write rate.
type IngestConfig struct {
	RatePerSecond float64 `mapstructure:"rate_per_second"`
}

// Load reads configuration from file and environment variables.
func Load(service string) (*Config, error) {
	v := viper.New()

	style := domain.DefaultMapStyle()

	// Defaults
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 10)
	v.SetDefault("server.write_timeout", 30)
	v.SetDefault("server.allow_origins", "http://localhost:3000, http://localhost:8050, https://*.ribbitnetwork.org")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "ribbit")
	v.SetDefault("database.password", "")
	v.SetDefault("database.dbname", "ribbit")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_conns", 20)
	v.SetDefault("nats.url", "nats://localhost:4222")
	v.SetDefault("valkey.addr", "localhost:6379")
	v.SetDefault("telemetry.service_name", service)
	v.SetDefault("telemetry.tempo_addr", "tempo:4317")
	v.SetDefault("telemetry.enabled", false)
	v.SetDefault("dashboard.title", "Ribbit Network")
	v.SetDefault("dashboard.refresh_seconds", 60)
	v.SetDefault("dashboard.default_duration", string(domain.DefaultDuration))
	v.SetDefault("dashboard.map.color_prop", style.ColorProp)
	v.SetDefault("dashboard.map.min", style.Min)
	v.SetDefault("dashboard.map.max", style.Max)
	v.SetDefault("dashboard.map.color_scale", style.ColorScale)
	v.SetDefault("dashboard.map.unit", style.Unit)
	v.SetDefault("dashboard.map.circle.fill_opacity", style.Circle.FillOpacity)
	v.SetDefault("dashboard.map.circle.stroke", style.Circle.Stroke)
	v.SetDefault("dashboard.map.circle.radius", style.Circle.Radius)
	v.SetDefault("dashboard.map.cluster", style.Cluster)
	v.SetDefault("dashboard.map.cluster_radius", style.ClusterRadius)
	v.SetDefault("dashboard.map.zoom_to_bounds_on_click", style.ZoomToBoundsOnClick)
	v.SetDefault("ingest.rate_per_second", 200)

	// Config file (optional)
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./configs")
	_ = v.ReadInConfig() // OK if missing

	// Environment variables: RIBBIT_DATABASE_HOST → database.host
	v.SetEnvPrefix("RIBBIT")
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

// Validate checks that required configuration fields are present and sane.
func (c *Config) Validate() error {
	var errs []string

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Sprintf("server.port must be 1-65535, got %d", c.Server.Port))
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
	if c.Server.ReadTimeout <= 0 {
		errs = append(errs, "server.read_timeout must be positive")
	}
	if c.Server.WriteTimeout <= 0 {
		errs = append(errs, "server.write_timeout must be positive")
	}
	if c.Dashboard.RefreshSeconds <= 0 {
		errs = append(errs, "dashboard.refresh_seconds must be positive")
	}
	if _, _, err := domain.ParseDuration(c.Dashboard.DefaultDuration); err != nil {
		errs = append(errs, fmt.Sprintf("dashboard.default_duration %q is not one of 10m, 30m, 1h, 24h, 7d, 30d", c.Dashboard.DefaultDuration))
	}
	if c.Dashboard.MapStyle.Max <= c.Dashboard.MapStyle.Min {
		errs = append(errs, "dashboard.map.max must be greater than dashboard.map.min")
	}
	if len(c.Dashboard.MapStyle.ColorScale) < 2 {
		errs = append(errs, "dashboard.map.color_scale needs at least two colors")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}
