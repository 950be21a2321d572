package config

import (
	"encoding/json"
	"log/slog"
	"net"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/vango-dev/freedux/internal/errors"
)

const (
	// ConfigFileName is the name of the configuration file.
	ConfigFileName = "freedux.json"

	// DefaultName is the store name used when none is configured.
	DefaultName = "default"

	// DefaultInspectorAddr is the default inspector listen address.
	DefaultInspectorAddr = "localhost:7070"

	// DefaultMaxRate is the default inspector broadcast rate per second.
	DefaultMaxRate = 10.0

	// DefaultNamespace is the default prometheus namespace.
	DefaultNamespace = "freedux"

	// DefaultLogLevel is the default log level.
	DefaultLogLevel = "info"
)

// Config represents freedux.json.
type Config struct {
	// Name is the store name reported in logs, metrics and the inspector.
	Name string `json:"name,omitempty"`

	// Inspector contains inspector server configuration.
	Inspector InspectorConfig `json:"inspector,omitempty"`

	// Metrics contains prometheus configuration.
	Metrics MetricsConfig `json:"metrics,omitempty"`

	// Log contains logging configuration.
	Log LogConfig `json:"log,omitempty"`

	// S3 configures access to s3:// state documents.
	S3 S3Config `json:"s3,omitempty"`

	// configPath stores the path where the config was loaded from.
	configPath string
}

// InspectorConfig contains inspector settings.
type InspectorConfig struct {
	// Addr is the host:port to listen on.
	Addr string `json:"addr,omitempty"`

	// MaxRate caps websocket broadcasts per second.
	MaxRate float64 `json:"maxRate,omitempty"`
}

// MetricsConfig contains prometheus settings.
type MetricsConfig struct {
	// Namespace prefixes all metric names.
	Namespace string `json:"namespace,omitempty"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	// Level is one of debug, info, warn or error.
	Level string `json:"level,omitempty"`
}

// S3Config contains object storage settings.
type S3Config struct {
	// Region defaults to $AWS_REGION, then us-east-1.
	Region string `json:"region,omitempty"`

	// Endpoint selects an S3-compatible server (e.g. "http://localhost:9000").
	Endpoint string `json:"endpoint,omitempty"`
}

// New creates a new Config with default values.
func New() *Config {
	return &Config{
		Name: DefaultName,
		Inspector: InspectorConfig{
			Addr:    DefaultInspectorAddr,
			MaxRate: DefaultMaxRate,
		},
		Metrics: MetricsConfig{
			Namespace: DefaultNamespace,
		},
		Log: LogConfig{
			Level: DefaultLogLevel,
		},
	}
}

// Load reads freedux.json from dir.
func Load(dir string) (*Config, error) {
	return LoadFile(filepath.Join(dir, ConfigFileName))
}

// LoadOrDefault reads freedux.json from dir, returning defaults when the
// file does not exist.
func LoadOrDefault(dir string) (*Config, error) {
	path := filepath.Join(dir, ConfigFileName)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return New(), nil
	}
	return LoadFile(path)
}

// LoadFile reads configuration from the specified file path.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New(errors.CodeConfig).
				WithDetail("No " + ConfigFileName + " found in " + filepath.Dir(path)).
				WithSuggestion("Create " + ConfigFileName + " or run without a config file")
		}
		return nil, errors.New(errors.CodeConfig).Wrap(err)
	}

	cfg := New()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, errors.New(errors.CodeConfig).
			WithDetail("Failed to parse " + ConfigFileName + ": " + err.Error()).
			WithSuggestion("Check that " + ConfigFileName + " is valid JSON")
	}

	cfg.configPath = path
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// SaveTo writes the configuration to the specified path.
func (c *Config) SaveTo(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return errors.New(errors.CodeConfig).Wrap(err)
	}
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.New(errors.CodeConfig).Wrap(err)
	}

	c.configPath = path
	return nil
}

// Path returns the path where the config was loaded from.
func (c *Config) Path() string {
	return c.configPath
}

// applyDefaults fills in default values for empty fields.
func (c *Config) applyDefaults() {
	if c.Name == "" {
		c.Name = DefaultName
	}
	if c.Inspector.Addr == "" {
		c.Inspector.Addr = DefaultInspectorAddr
	}
	if c.Inspector.MaxRate == 0 {
		c.Inspector.MaxRate = DefaultMaxRate
	}
	if c.Metrics.Namespace == "" {
		c.Metrics.Namespace = DefaultNamespace
	}
	if c.Log.Level == "" {
		c.Log.Level = DefaultLogLevel
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if _, port, err := net.SplitHostPort(c.Inspector.Addr); err != nil {
		return errors.New(errors.CodeConfig).
			WithDetail("inspector.addr must be host:port, got " + strconv.Quote(c.Inspector.Addr))
	} else if n, err := strconv.Atoi(port); err != nil || n < 0 || n > 65535 {
		return errors.New(errors.CodeConfig).
			WithDetail("inspector.addr port must be between 0 and 65535")
	}

	if c.Inspector.MaxRate < 0 {
		return errors.New(errors.CodeConfig).
			WithDetail("inspector.maxRate must not be negative")
	}

	for _, r := range c.Metrics.Namespace {
		if !(r == '_' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9') {
			return errors.New(errors.CodeConfig).
				WithDetail("metrics.namespace may only contain letters, digits and underscores")
		}
	}

	if c.S3.Endpoint != "" {
		if u, err := url.Parse(c.S3.Endpoint); err != nil || u.Scheme == "" || u.Host == "" {
			return errors.New(errors.CodeConfig).
				WithDetail("s3.endpoint must be an absolute URL, got " + strconv.Quote(c.S3.Endpoint))
		}
	}

	if _, err := c.LogLevel(); err != nil {
		return err
	}
	return nil
}

// LogLevel returns Log.Level as a slog level.
func (c *Config) LogLevel() (slog.Level, error) {
	switch strings.ToLower(c.Log.Level) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, errors.New(errors.CodeConfig).
		WithDetail("log.level must be debug, info, warn or error, got " + strconv.Quote(c.Log.Level))
}
