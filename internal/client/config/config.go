// Package config loads runtime configuration for the Conecta client.
//
// Sources, later ones override earlier ones:
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. A .env file in the working directory plus CONECTA_* environment variables.
//  3. Optional JSON file selected with -c/-config (or CONECTA_CONFIG).
//  4. Command-line flags.
//
// JSON example; durations may be strings like "3s" or integer nanoseconds:
//
//	{
//	  "database_path": "conecta.db",
//	  "remote_mode": "grpc",
//	  "remote_endpoint": "127.0.0.1:50051",
//	  "anon_key": "eyJ...",
//	  "remote_timeout": "3s",
//	  "online_check_interval": "10s"
//	}
package config

import (
	"fmt"
	"strings"
	"time"
)

const (
	RemoteOff      = "off"
	RemotePostgres = "postgres"
	RemoteGRPC     = "grpc"
)

// Config holds runtime settings for the Conecta client.
type Config struct {
	DatabasePath        string
	RemoteMode          string
	RemoteDSN           string
	RemoteEndpoint      string
	AnonKey             string
	RemoteTimeout       time.Duration
	OnlineCheckInterval time.Duration
	ReportDir           string
	LogLevel            string
}

// LoadDefaults populates c with defaults: local only, no backend.
func (c *Config) LoadDefaults() {
	c.DatabasePath = "conecta.db"
	c.RemoteMode = RemoteOff
	c.RemoteTimeout = 3 * time.Second
	c.OnlineCheckInterval = 10 * time.Second
	c.ReportDir = "."
	c.LogLevel = "info"
}

// LoadConfig constructs a Config from defaults, environment, JSON and flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}

func (c *Config) Validate() error {
	switch c.RemoteMode {
	case RemoteOff, RemotePostgres, RemoteGRPC:
	default:
		return fmt.Errorf("unknown remote mode %q", c.RemoteMode)
	}
	if c.RemoteTimeout <= 0 {
		return fmt.Errorf("remote timeout must be positive")
	}
	if c.OnlineCheckInterval <= 0 {
		return fmt.Errorf("online check interval must be positive")
	}
	return nil
}

// RemoteConfigured reports whether enough is set to build a backend client.
// Empty values and "YOUR_..." placeholders count as unset.
func (c *Config) RemoteConfigured() bool {
	switch c.RemoteMode {
	case RemotePostgres:
		return isSet(c.RemoteDSN)
	case RemoteGRPC:
		return isSet(c.RemoteEndpoint) && isSet(c.AnonKey)
	default:
		return false
	}
}

func isSet(v string) bool {
	v = strings.TrimSpace(v)
	return v != "" && !strings.HasPrefix(strings.ToUpper(v), "YOUR_")
}
