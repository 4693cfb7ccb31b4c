package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"sigs.k8s.io/yaml"
)

const (
	appName = "statelog"

	// DefaultPendingTTL bounds how long an abandoned pending entry survives
	// in the cache store before it is reclaimed.
	DefaultPendingTTL = 24 * time.Hour
)

type Config struct {
	Database *DbConfig  `json:"database,omitempty"`
	KV       *KvConfig  `json:"kv,omitempty"`
	Service  *SvcConfig `json:"service,omitempty"`
}

type DbConfig struct {
	Type     string `json:"type,omitempty"`
	Hostname string `json:"hostname,omitempty"`
	Port     uint   `json:"port,omitempty"`
	Name     string `json:"name,omitempty"`
	User     string `json:"user,omitempty"`
	Password string `json:"password,omitempty"`
}

type KvConfig struct {
	Hostname string `json:"hostname,omitempty"`
	Port     uint   `json:"port,omitempty"`
	Password string `json:"password,omitempty"`
	DB       int    `json:"db,omitempty"`
	// PendingTTLSeconds is the cache expiry applied to staged log entries.
	// Zero means DefaultPendingTTL.
	PendingTTLSeconds int `json:"pendingTtlSeconds,omitempty"`
}

type SvcConfig struct {
	LogLevel string `json:"logLevel,omitempty"`
}

func (c *KvConfig) PendingTTL() time.Duration {
	if c == nil || c.PendingTTLSeconds <= 0 {
		return DefaultPendingTTL
	}
	return time.Duration(c.PendingTTLSeconds) * time.Second
}

func ConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, "."+appName)
}

func ConfigFile() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}

func NewDefault() *Config {
	c := &Config{
		Database: &DbConfig{
			Type:     "pgsql",
			Hostname: "localhost",
			Port:     5432,
			Name:     "statelog",
			User:     "admin",
			Password: "adminpass",
		},
		KV: &KvConfig{
			Hostname: "localhost",
			Port:     6379,
		},
		Service: &SvcConfig{
			LogLevel: "info",
		},
	}
	return c
}

func NewFromFile(cfgFile string) (*Config, error) {
	cfg, err := Load(cfgFile)
	if err != nil {
		return nil, err
	}
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func LoadOrGenerate(cfgFile string) (*Config, error) {
	if _, err := os.Stat(cfgFile); os.IsNotExist(err) {
		if err := os.MkdirAll(filepath.Dir(cfgFile), os.FileMode(0755)); err != nil {
			return nil, fmt.Errorf("creating directory for config file: %v", err)
		}
		if err := Save(NewDefault(), cfgFile); err != nil {
			return nil, err
		}
	}
	return NewFromFile(cfgFile)
}

func Load(cfgFile string) (*Config, error) {
	contents, err := os.ReadFile(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %v", err)
	}
	c := &Config{}
	if err := yaml.Unmarshal(contents, c); err != nil {
		return nil, fmt.Errorf("decoding config: %v", err)
	}
	return c, nil
}

func Save(cfg *Config, cfgFile string) error {
	contents, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encoding config: %v", err)
	}
	if err := os.WriteFile(cfgFile, contents, 0600); err != nil {
		return fmt.Errorf("writing config file: %v", err)
	}
	return nil
}

func Validate(cfg *Config) error {
	if cfg.Database != nil {
		switch cfg.Database.Type {
		case "", "pgsql", "sqlite":
		default:
			return fmt.Errorf("unsupported database type %q", cfg.Database.Type)
		}
	}
	return nil
}

func (cfg *Config) String() string {
	redacted := *cfg
	if cfg.Database != nil {
		db := *cfg.Database
		if db.Password != "" {
			db.Password = "[REDACTED]"
		}
		redacted.Database = &db
	}
	if cfg.KV != nil {
		kv := *cfg.KV
		if kv.Password != "" {
			kv.Password = "[REDACTED]"
		}
		redacted.KV = &kv
	}
	contents, err := json.Marshal(&redacted)
	if err != nil {
		return "<error>"
	}
	return string(contents)
}
