// Package config loads and persists the CLI's per-user configuration:
// named service profiles (endpoint, region, credentials) plus the
// ambient logging/metrics settings, as YAML under $S3GATE_HOME (default
// ~/.s3gate).
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Service is one named S3-compatible endpoint profile.
type Service struct {
	Name      string `yaml:"name"`
	Region    string `yaml:"region"`
	AccessType string `yaml:"access_type"` // "path" or "virtual-hosted"
	Endpoint  string `yaml:"endpoint,omitempty"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
}

// MetricsConfig holds the Prometheus exposition server settings.
type MetricsConfig struct {
	Port int    `yaml:"port"`
	Path string `yaml:"path"`
}

// LoggingConfig holds the leveled logger settings.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// Config is the full on-disk configuration file.
type Config struct {
	ActiveService string        `yaml:"active_service"`
	Services      []Service     `yaml:"services"`
	ChunkSize     ByteSize      `yaml:"chunk_size,omitempty"`
	Metrics       MetricsConfig `yaml:"metrics"`
	Logging       LoggingConfig `yaml:"logging"`
}

// ByteSize is a size expressible as a bare integer or a human-readable
// string like "64KB" in YAML.
type ByteSize int64

// UnmarshalYAML accepts either an integer or a human-readable string.
func (bs *ByteSize) UnmarshalYAML(value *yaml.Node) error {
	var intVal int64
	if err := value.Decode(&intVal); err == nil {
		*bs = ByteSize(intVal)
		return nil
	}

	var strVal string
	if err := value.Decode(&strVal); err != nil {
		return fmt.Errorf("chunk_size must be a number or string like '64KB': %w", err)
	}
	size, err := parseByteSize(strVal)
	if err != nil {
		return err
	}
	*bs = ByteSize(size)
	return nil
}

// Int64 returns the size in bytes.
func (bs ByteSize) Int64() int64 { return int64(bs) }

// String renders the size in the largest whole unit it divides evenly into.
func (bs ByteSize) String() string {
	bytes := int64(bs)
	const (
		KB = 1024
		MB = 1024 * KB
		GB = 1024 * MB
	)
	switch {
	case bytes >= GB && bytes%GB == 0:
		return fmt.Sprintf("%dGB", bytes/GB)
	case bytes >= MB && bytes%MB == 0:
		return fmt.Sprintf("%dMB", bytes/MB)
	case bytes >= KB && bytes%KB == 0:
		return fmt.Sprintf("%dKB", bytes/KB)
	default:
		return fmt.Sprintf("%dB", bytes)
	}
}

func parseByteSize(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty size string")
	}

	var numStr, unitStr string
	for i, c := range s {
		if c >= '0' && c <= '9' || c == '.' {
			continue
		}
		numStr = s[:i]
		unitStr = s[i:]
		break
	}
	if unitStr == "" {
		numStr = s
		unitStr = "B"
	}

	num, err := strconv.ParseFloat(strings.TrimSpace(numStr), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid number in size %q: %w", s, err)
	}

	unitStr = strings.TrimSpace(strings.ToUpper(unitStr))
	var multiplier int64
	switch unitStr {
	case "B", "":
		multiplier = 1
	case "KB", "K":
		multiplier = 1024
	case "MB", "M":
		multiplier = 1024 * 1024
	case "GB", "G":
		multiplier = 1024 * 1024 * 1024
	default:
		return 0, fmt.Errorf("unknown size unit %q (supported: B, KB, MB, GB)", unitStr)
	}
	return int64(num * float64(multiplier)), nil
}

// HomeDir returns the config directory, creating it if necessary.
// $S3GATE_HOME overrides the default of ~/.s3gate.
func HomeDir() (string, error) {
	var dir string
	if envDir := os.Getenv("S3GATE_HOME"); envDir != "" {
		dir = envDir
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("config: resolving home directory: %w", err)
		}
		dir = filepath.Join(home, ".s3gate")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("config: creating config directory: %w", err)
	}
	return dir, nil
}

// Load reads and parses the configuration file at path, expanding
// environment variable references (e.g. access keys sourced from
// $AWS_SECRET_ACCESS_KEY) before parsing. A missing file is not an
// error; it yields a zero-value Config with defaults applied.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg := &Config{}
			applyDefaults(cfg)
			return cfg, nil
		}
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}

	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}
	applyDefaults(&cfg)
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Metrics.Port == 0 {
		cfg.Metrics.Port = 8080
	}
	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = "/metrics"
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.ChunkSize == 0 {
		cfg.ChunkSize = 64000
	}
}

// Save writes cfg to path as YAML.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("config: marshaling: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("config: writing %s: %w", path, err)
	}
	return nil
}

// FindService looks up a named service profile.
func (c *Config) FindService(name string) (Service, bool) {
	for _, s := range c.Services {
		if s.Name == name {
			return s, true
		}
	}
	return Service{}, false
}

// AddService appends a new service profile, failing if the name is
// already taken.
func (c *Config) AddService(s Service) error {
	if _, exists := c.FindService(s.Name); exists {
		return fmt.Errorf("config: service %q already exists", s.Name)
	}
	c.Services = append(c.Services, s)
	return nil
}

// UpdateService replaces an existing service profile by name.
func (c *Config) UpdateService(s Service) error {
	for i, existing := range c.Services {
		if existing.Name == s.Name {
			c.Services[i] = s
			return nil
		}
	}
	return fmt.Errorf("config: service %q does not exist", s.Name)
}
