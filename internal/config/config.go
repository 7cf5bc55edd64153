// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Poolhouse Contributors

// Package config loads server configuration: compiled-in defaults,
// overridden by an optional YAML file, overridden by command-line flags.
package config

import (
	"os"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/samber/oops"
	"github.com/spf13/pflag"
)

// Server configures the REST listener.
type Server struct {
	// Addr is the host:port the API listens on.
	Addr string `koanf:"addr" json:"addr"`

	// CORSOrigins are glob patterns for allowed CORS origins.
	CORSOrigins []string `koanf:"cors_origins" json:"cors_origins,omitempty"`
}

// Database configures the document store connection.
type Database struct {
	// URL is the PostgreSQL connection string. Falls back to the
	// DATABASE_URL environment variable when empty.
	URL string `koanf:"url" json:"url"`
}

// Auth configures session issuance.
type Auth struct {
	// SessionTTL bounds session lifetime. Zero means sessions live until
	// replaced or revoked, matching the classic behaviour.
	SessionTTL time.Duration `koanf:"session_ttl" json:"session_ttl,omitempty"`
}

// Observability configures the metrics and health listener.
type Observability struct {
	// Addr is the host:port for /metrics and health probes. Empty
	// disables the listener.
	Addr string `koanf:"addr" json:"addr,omitempty"`
}

// Logging configures structured log output.
type Logging struct {
	// Format is "json" or "text".
	Format string `koanf:"format" json:"format,omitempty"`

	// Level is debug, info, warn, or error.
	Level string `koanf:"level" json:"level,omitempty"`
}

// Config is the full server configuration.
type Config struct {
	Server        Server        `koanf:"server" json:"server"`
	Database      Database      `koanf:"database" json:"database"`
	Auth          Auth          `koanf:"auth" json:"auth"`
	Observability Observability `koanf:"observability" json:"observability"`
	Logging       Logging       `koanf:"logging" json:"logging"`
}

// Default returns the compiled-in configuration.
func Default() Config {
	return Config{
		Server: Server{
			Addr:        ":3000",
			CORSOrigins: []string{"*"},
		},
		Observability: Observability{
			Addr: "127.0.0.1:9100",
		},
		Logging: Logging{
			Format: "json",
			Level:  "info",
		},
	}
}

// Load builds the configuration from defaults, then the YAML file at
// path (if non-empty), then the given flag set (if non-nil). Flag names
// mirror koanf keys, e.g. --server.addr.
func Load(path string, flags *pflag.FlagSet) (Config, error) {
	cfg := Default()

	k := koanf.New(".")

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return Config{}, oops.Code("CONFIG_FILE_FAILED").
				With("path", path).
				Wrap(err)
		}
	}

	if flags != nil {
		if err := k.Load(posflag.Provider(flags, ".", k), nil); err != nil {
			return Config{}, oops.Code("CONFIG_FLAGS_FAILED").Wrap(err)
		}
	}

	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, oops.Code("CONFIG_INVALID").Wrap(err)
	}

	if cfg.Database.URL == "" {
		cfg.Database.URL = os.Getenv("DATABASE_URL")
	}

	return cfg, nil
}

// RegisterFlags declares the flags Load understands on the given set.
func RegisterFlags(flags *pflag.FlagSet) {
	def := Default()
	flags.String("server.addr", def.Server.Addr, "API listen address")
	flags.StringSlice("server.cors_origins", def.Server.CORSOrigins, "allowed CORS origin globs")
	flags.String("database.url", "", "PostgreSQL connection string")
	flags.Duration("auth.session_ttl", 0, "session lifetime, 0 for no expiry")
	flags.String("observability.addr", def.Observability.Addr, "metrics/health listen address")
	flags.String("logging.format", def.Logging.Format, "log format: json or text")
	flags.String("logging.level", def.Logging.Level, "log level: debug, info, warn, error")
}
