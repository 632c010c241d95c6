package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config defines hub configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	DB        DBConfig        `yaml:"db"`
	Log       LogConfig       `yaml:"log"`
	Backend   BackendConfig   `yaml:"backend"`
	Session   SessionConfig   `yaml:"session"`
	Handoff   HandoffConfig   `yaml:"handoff"`
	Transport TransportConfig `yaml:"transport"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

type DBConfig struct {
	Path string `yaml:"path"`
}

type LogConfig struct {
	Level string `yaml:"level"`
	// Path, when set, sends logs to a size-capped file.
	Path string `yaml:"path"`
}

// BackendConfig points at the collaborator services.
type BackendConfig struct {
	APIBase     string `yaml:"api_base"`
	TrafficBase string `yaml:"traffic_base"`
	ProxyBase   string `yaml:"proxy_base"`
	PDFBase     string `yaml:"pdf_base"`
	// Protocol is "traffic" or "legacy".
	Protocol string `yaml:"protocol"`
	// Timeout bounds each call. Zero means no timeout.
	Timeout time.Duration `yaml:"timeout"`
}

type SessionConfig struct {
	Secret            string        `yaml:"secret"`
	TokenTTL          time.Duration `yaml:"token_ttl"`
	InactivityTimeout time.Duration `yaml:"inactivity_timeout"`
	SecureCookie      bool          `yaml:"secure_cookie"`
}

type HandoffConfig struct {
	Email string `yaml:"email"`
}

type TransportConfig struct {
	// Mode is "stdio" or "http" for the MCP server.
	Mode string `yaml:"mode"`
	// PIN signs the stdio MCP server in as a hub user.
	PIN string `yaml:"pin"`
}

// Default returns the configuration used when nothing is set.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		DB: DBConfig{
			Path: "dothub.db",
		},
		Log: LogConfig{
			Level: "info",
		},
		Backend: BackendConfig{
			APIBase:     "https://dot-remote-api.up.railway.app",
			TrafficBase: "https://dot-traffic.up.railway.app",
			ProxyBase:   "https://dot-proxy.up.railway.app",
			Protocol:    "traffic",
		},
		Session: SessionConfig{
			TokenTTL:          7 * 24 * time.Hour,
			InactivityTimeout: 15 * time.Minute,
		},
		Handoff: HandoffConfig{
			Email: "michael@hunch.co.nz",
		},
		Transport: TransportConfig{
			Mode: "stdio",
		},
	}
}

// Load reads configuration from an optional YAML file and environment variables.
func Load() (Config, error) {
	cfg := Default()

	if path := os.Getenv("DOTHUB_CONFIG_PATH"); path != "" {
		if err := loadFromFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	text := map[string]*string{
		"DOTHUB_SERVER_HOST":    &cfg.Server.Host,
		"DOTHUB_DB_PATH":        &cfg.DB.Path,
		"DOTHUB_LOG_LEVEL":      &cfg.Log.Level,
		"DOTHUB_LOG_PATH":       &cfg.Log.Path,
		"DOTHUB_API_BASE":       &cfg.Backend.APIBase,
		"DOTHUB_TRAFFIC_BASE":   &cfg.Backend.TrafficBase,
		"DOTHUB_PROXY_BASE":     &cfg.Backend.ProxyBase,
		"DOTHUB_PDF_BASE":       &cfg.Backend.PDFBase,
		"DOTHUB_PROTOCOL":       &cfg.Backend.Protocol,
		"DOTHUB_SESSION_SECRET": &cfg.Session.Secret,
		"DOTHUB_HANDOFF_EMAIL":  &cfg.Handoff.Email,
		"DOTHUB_TRANSPORT":      &cfg.Transport.Mode,
		"DOTHUB_MCP_PIN":        &cfg.Transport.PIN,
	}
	for key, dst := range text {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}

	if portStr := os.Getenv("DOTHUB_SERVER_PORT"); portStr != "" {
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return Config{}, fmt.Errorf("invalid DOTHUB_SERVER_PORT: %w", err)
		}
		cfg.Server.Port = port
	}

	durations := map[string]*time.Duration{
		"DOTHUB_BACKEND_TIMEOUT":    &cfg.Backend.Timeout,
		"DOTHUB_TOKEN_TTL":          &cfg.Session.TokenTTL,
		"DOTHUB_INACTIVITY_TIMEOUT": &cfg.Session.InactivityTimeout,
	}
	for key, dst := range durations {
		v := os.Getenv(key)
		if v == "" {
			continue
		}
		d, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid %s: %w", key, err)
		}
		*dst = d
	}

	if v := os.Getenv("DOTHUB_SECURE_COOKIE"); v != "" {
		secure, err := strconv.ParseBool(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid DOTHUB_SECURE_COOKIE: %w", err)
		}
		cfg.Session.SecureCookie = secure
	}

	return cfg, nil
}

func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}
