package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// FileName is the optional settings file looked up in the config directory.
const FileName = "confighelper.toml"

const mib = 1024 * 1024

type Config struct {
	Port      int    // PORT (default 9485)
	StaticDir string // STATIC_DIR (default "/var/www/olivetin-config-helper")
	LogLevel  string // LOG_LEVEL (default "info")
	LogFormat string // LOG_FORMAT (default "text"; "json" also accepted)

	MaxRequestBytes int64 // MAX_REQUEST_SIZE_MB (default 10)
	MaxYAMLBytes    int64 // MAX_YAML_SIZE_MB (default 5)

	ReadTimeout     time.Duration // READ_TIMEOUT (default 15s)
	WriteTimeout    time.Duration // WRITE_TIMEOUT (default 15s)
	IdleTimeout     time.Duration // IDLE_TIMEOUT (default 60s)
	ShutdownTimeout time.Duration // SHUTDOWN_TIMEOUT (default 10s)

	NATSURL  string // NATS_URL (optional, empty = no conversion events)
	GRPCAddr string // GRPC_ADDR (optional, empty = no gRPC health endpoint)

	ConfigDir string // --configdir flag or CONFIG_DIR
}

// fileSettings mirrors Config for confighelper.toml. Zero values mean unset.
type fileSettings struct {
	Port             int    `toml:"port"`
	StaticDir        string `toml:"static_dir"`
	LogLevel         string `toml:"log_level"`
	LogFormat        string `toml:"log_format"`
	MaxRequestSizeMB int64  `toml:"max_request_size_mb"`
	MaxYAMLSizeMB    int64  `toml:"max_yaml_size_mb"`
	ReadTimeout      string `toml:"read_timeout"`
	WriteTimeout     string `toml:"write_timeout"`
	IdleTimeout      string `toml:"idle_timeout"`
	ShutdownTimeout  string `toml:"shutdown_timeout"`
	NATSURL          string `toml:"nats_url"`
	GRPCAddr         string `toml:"grpc_addr"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Port:            9485,
		StaticDir:       "/var/www/olivetin-config-helper",
		LogLevel:        "info",
		LogFormat:       "text",
		MaxRequestBytes: 10 * mib,
		MaxYAMLBytes:    5 * mib,
		ReadTimeout:     15 * time.Second,
		WriteTimeout:    15 * time.Second,
		IdleTimeout:     60 * time.Second,
		ShutdownTimeout: 10 * time.Second,
	}
}

// Load resolves settings from defaults, then confighelper.toml in configDir
// (or CONFIG_DIR when configDir is empty), then the environment.
// A missing settings file is not an error.
func Load(configDir string) (*Config, error) {
	c := Default()
	if configDir == "" {
		configDir = os.Getenv("CONFIG_DIR")
	}
	c.ConfigDir = configDir

	if configDir != "" {
		if err := c.loadFile(filepath.Join(configDir, FileName)); err != nil {
			return nil, err
		}
	}
	if err := c.loadEnv(); err != nil {
		return nil, err
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Addr is the HTTP listen address.
func (c *Config) Addr() string {
	return ":" + strconv.Itoa(c.Port)
}

func (c *Config) loadFile(path string) error {
	var fs fileSettings
	if _, err := toml.DecodeFile(path, &fs); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("reading %s: %w", path, err)
	}

	if fs.Port != 0 {
		c.Port = fs.Port
	}
	setString(&c.StaticDir, fs.StaticDir)
	setString(&c.LogLevel, fs.LogLevel)
	setString(&c.LogFormat, fs.LogFormat)
	setString(&c.NATSURL, fs.NATSURL)
	setString(&c.GRPCAddr, fs.GRPCAddr)
	if fs.MaxRequestSizeMB != 0 {
		c.MaxRequestBytes = fs.MaxRequestSizeMB * mib
	}
	if fs.MaxYAMLSizeMB != 0 {
		c.MaxYAMLBytes = fs.MaxYAMLSizeMB * mib
	}

	for _, d := range []struct {
		key string
		raw string
		dst *time.Duration
	}{
		{"read_timeout", fs.ReadTimeout, &c.ReadTimeout},
		{"write_timeout", fs.WriteTimeout, &c.WriteTimeout},
		{"idle_timeout", fs.IdleTimeout, &c.IdleTimeout},
		{"shutdown_timeout", fs.ShutdownTimeout, &c.ShutdownTimeout},
	} {
		if d.raw == "" {
			continue
		}
		v, err := time.ParseDuration(d.raw)
		if err != nil {
			return fmt.Errorf("%s: %s: %w", path, d.key, err)
		}
		*d.dst = v
	}
	return nil
}

func (c *Config) loadEnv() error {
	if v := os.Getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("PORT: %w", err)
		}
		c.Port = port
	}
	setString(&c.StaticDir, os.Getenv("STATIC_DIR"))
	setString(&c.LogLevel, os.Getenv("LOG_LEVEL"))
	setString(&c.LogFormat, os.Getenv("LOG_FORMAT"))
	setString(&c.NATSURL, os.Getenv("NATS_URL"))
	setString(&c.GRPCAddr, os.Getenv("GRPC_ADDR"))

	for _, s := range []struct {
		key string
		dst *int64
	}{
		{"MAX_REQUEST_SIZE_MB", &c.MaxRequestBytes},
		{"MAX_YAML_SIZE_MB", &c.MaxYAMLBytes},
	} {
		v := os.Getenv(s.key)
		if v == "" {
			continue
		}
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("%s: %w", s.key, err)
		}
		*s.dst = n * mib
	}

	for _, d := range []struct {
		key string
		dst *time.Duration
	}{
		{"READ_TIMEOUT", &c.ReadTimeout},
		{"WRITE_TIMEOUT", &c.WriteTimeout},
		{"IDLE_TIMEOUT", &c.IdleTimeout},
		{"SHUTDOWN_TIMEOUT", &c.ShutdownTimeout},
	} {
		v := os.Getenv(d.key)
		if v == "" {
			continue
		}
		dur, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%s: %w", d.key, err)
		}
		*d.dst = dur
	}
	return nil
}

func (c *Config) validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("port %d out of range", c.Port)
	}
	if c.MaxRequestBytes <= 0 {
		return fmt.Errorf("MAX_REQUEST_SIZE_MB must be positive")
	}
	if c.MaxYAMLBytes <= 0 {
		return fmt.Errorf("MAX_YAML_SIZE_MB must be positive")
	}
	if c.MaxYAMLBytes > c.MaxRequestBytes {
		return fmt.Errorf("MAX_YAML_SIZE_MB (%d) exceeds MAX_REQUEST_SIZE_MB (%d)", c.MaxYAMLBytes/mib, c.MaxRequestBytes/mib)
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("LOG_FORMAT: unknown format %q (must be text or json)", c.LogFormat)
	}
	return nil
}

// SlogLevel maps LogLevel to a slog.Level. Besides the slog names it accepts
// "trace" (debug), "warning" (warn), and "fatal"/"panic" (error).
func (c *Config) SlogLevel() (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(c.LogLevel)) {
	case "trace", "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error", "fatal", "panic":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("unknown log level %q", c.LogLevel)
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
