// Package config centralizes runtime configuration for FarmProof. It
// layers a config file and FARMPROOF_* environment variables over
// defaults via viper, so development runs with no file at all and
// deployments override only what they need.
package config

import (
	"strings"

	"github.com/spf13/viper"
)

// Config holds configurable options for the FarmProof service.
type Config struct {
	Port             int    // HTTP listen port
	BackingDriver    string // file | sqlite | memory
	BackingPath      string // Snapshot file or database path; empty uses the driver default
	DocsDir          string // Directory of operator .adoc documents
	HeartbeatSeconds int    // SSE keep-alive interval
	LogBuffer        int    // In-memory activity log capacity
	RelayURL         string // Base URL of the authoritative server, for relay-connected clients
	OracleInterval   int    // Seconds between oraclefeed readings
}

// Load reads configuration from path, falling back to defaults when the
// file is missing or unparseable so development runs with minimal
// friction. Environment variables named FARMPROOF_<KEY> override both.
func Load(path string) *Config {
	v := viper.New()
	v.SetDefault("port", 3001)
	v.SetDefault("backing_driver", "file")
	v.SetDefault("backing_path", "")
	v.SetDefault("docs_dir", "docs")
	v.SetDefault("heartbeat_seconds", 25)
	v.SetDefault("log_buffer", 200)
	v.SetDefault("relay_url", "http://localhost:3001")
	v.SetDefault("oracle_interval", 300)

	v.SetEnvPrefix("FARMPROOF")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		// Missing or malformed file: run on defaults.
		_ = v.ReadInConfig()
	}

	return &Config{
		Port:             v.GetInt("port"),
		BackingDriver:    v.GetString("backing_driver"),
		BackingPath:      v.GetString("backing_path"),
		DocsDir:          v.GetString("docs_dir"),
		HeartbeatSeconds: v.GetInt("heartbeat_seconds"),
		LogBuffer:        v.GetInt("log_buffer"),
		RelayURL:         v.GetString("relay_url"),
		OracleInterval:   v.GetInt("oracle_interval"),
	}
}
