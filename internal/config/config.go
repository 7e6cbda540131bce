// Package config loads the YAML application configuration.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"tablebay/internal/booking"
)

// Config represents the application configuration
type Config struct {
	Server struct {
		Port        int `yaml:"port"`
		MetricsPort int `yaml:"metrics_port"`
	} `yaml:"server"`

	Database struct {
		Driver string `yaml:"driver"`
		DSN    string `yaml:"dsn"`
	} `yaml:"database"`

	Redis struct {
		Addr         string `yaml:"addr"`
		CartTTLHours int    `yaml:"cart_ttl_hours"`
	} `yaml:"redis"`

	Kafka struct {
		Brokers []string `yaml:"brokers"`
		Topic   string   `yaml:"topic"`
	} `yaml:"kafka"`

	Auth struct {
		JWTSecret       string `yaml:"jwt_secret"`
		TokenTTLMinutes int    `yaml:"token_ttl_minutes"`
		AdminUsername   string `yaml:"admin_username"`
		AdminPassword   string `yaml:"admin_password"`
	} `yaml:"auth"`

	Booking booking.CapacityConfig `yaml:"booking"`

	Checkout struct {
		TimeoutSeconds int `yaml:"timeout_seconds"`
	} `yaml:"checkout"`
}

// Load reads and parses the configuration file, filling defaults for
// anything the file leaves out.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// Default returns the configuration used when no file overrides it.
func Default() *Config {
	cfg := &Config{}
	cfg.Server.Port = 8080
	cfg.Server.MetricsPort = 9090
	cfg.Database.Driver = "sqlite3"
	cfg.Database.DSN = "tablebay.db"
	cfg.Redis.CartTTLHours = 72
	cfg.Kafka.Topic = "tablebay.events"
	cfg.Auth.TokenTTLMinutes = 60
	cfg.Booking = booking.DefaultCapacity
	cfg.Checkout.TimeoutSeconds = 10
	return cfg
}
