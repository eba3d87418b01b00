package config

import (
	"strings"
	"testing"

	"github.com/ribbitnetwork/frogmap/internal/core/domain"
)

func validConfig() Config {
	return Config{
		Server:   ServerConfig{Port: 8080, ReadTimeout: 10, WriteTimeout: 30},
		Database: DatabaseConfig{Host: "localhost", Port: 5432, User: "ribbit", DBName: "ribbit", SSLMode: "disable"},
		NATS:     NATSConfig{URL: "nats://localhost:4222"},
		Valkey:   ValkeyConfig{Addr: "localhost:6379"},
		Dashboard: DashboardConfig{
			RefreshSeconds:  60,
			DefaultDuration: "24h",
			MapStyle:        domain.DefaultMapStyle(),
		},
	}
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("frogmap-test")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Dashboard.RefreshInterval().Seconds() != 60 {
		t.Errorf("expected 60s refresh, got %s", cfg.Dashboard.RefreshInterval())
	}
	if cfg.Dashboard.MapStyle.ColorProp != "co2" {
		t.Errorf("expected co2 color prop, got %q", cfg.Dashboard.MapStyle.ColorProp)
	}
	if cfg.Dashboard.MapStyle.ClusterRadius != 100 {
		t.Errorf("expected cluster radius 100, got %d", cfg.Dashboard.MapStyle.ClusterRadius)
	}
	if cfg.Telemetry.ServiceName != "frogmap-test" {
		t.Errorf("expected service name frogmap-test, got %q", cfg.Telemetry.ServiceName)
	}
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("RIBBIT_SERVER_PORT", "9090")
	t.Setenv("RIBBIT_DASHBOARD_REFRESH_SECONDS", "15")

	cfg, err := Load("frogmap-test")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("expected port 9090, got %d", cfg.Server.Port)
	}
	if cfg.Dashboard.RefreshSeconds != 15 {
		t.Errorf("expected refresh 15, got %d", cfg.Dashboard.RefreshSeconds)
	}
}

func TestValidate_OK(t *testing.T) {
	cfg := validConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_Errors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"bad port", func(c *Config) { c.Server.Port = 0 }, "server.port"},
		{"missing db host", func(c *Config) { c.Database.Host = "" }, "database.host"},
		{"zero refresh", func(c *Config) { c.Dashboard.RefreshSeconds = 0 }, "dashboard.refresh_seconds"},
		{"bad duration", func(c *Config) { c.Dashboard.DefaultDuration = "2w" }, "dashboard.default_duration"},
		{"inverted domain", func(c *Config) { c.Dashboard.MapStyle.Min = 700 }, "dashboard.map.max"},
		{"one color", func(c *Config) { c.Dashboard.MapStyle.ColorScale = []string{"green"} }, "dashboard.map.color_scale"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("expected error mentioning %q, got %v", tt.want, err)
			}
		})
	}
}

func TestDSN(t *testing.T) {
	d := DatabaseConfig{User: "u", Password: "p", Host: "h", Port: 5433, DBName: "db", SSLMode: "require"}
	want := "postgres://u:p@h:5433/db?sslmode=require"
	if got := d.DSN(); got != want {
		t.Errorf("expected %s, got %s", want, got)
	}
}
