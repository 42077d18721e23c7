// Package config holds the settings of the tensorann command, read from a
// YAML file and overridden by flags.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/hupe1980/tensorann/index"
)

type LocalConfig struct {
	Root string `yaml:"root"`
}

type S3Config struct {
	Bucket       string `yaml:"bucket"`
	Prefix       string `yaml:"prefix,omitempty"`
	Region       string `yaml:"region,omitempty"`
	Endpoint     string `yaml:"endpoint,omitempty"`
	UsePathStyle bool   `yaml:"use_path_style,omitempty"`
	CommitTable  string `yaml:"commit_table,omitempty"`
}

type MinioConfig struct {
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"access_key,omitempty"`
	SecretKey string `yaml:"secret_key,omitempty"`
	Secure    bool   `yaml:"secure,omitempty"`
	Region    string `yaml:"region,omitempty"`
	Bucket    string `yaml:"bucket"`
	Prefix    string `yaml:"prefix,omitempty"`
}

// CacheConfig enables a block cache in front of remote stores.
type CacheConfig struct {
	Blocks    int   `yaml:"blocks"`
	BlockSize int64 `yaml:"block_size"`
}

type StoreConfig struct {
	Backend string      `yaml:"backend"`
	Local   LocalConfig `yaml:"local"`
	S3      S3Config    `yaml:"s3,omitempty"`
	Minio   MinioConfig `yaml:"minio,omitempty"`
	Cache   CacheConfig `yaml:"cache"`

	// IOLimitBytesPerSec throttles dataset transfers. 0 means unlimited.
	IOLimitBytesPerSec int64 `yaml:"io_limit_bytes_per_sec,omitempty"`
}

type IndexConfig struct {
	Kind  string  `yaml:"kind"`
	Alpha float64 `yaml:"alpha"`
	Beta  float64 `yaml:"beta"`
	// Theta 0 derives it from alpha and beta.
	Theta float64 `yaml:"theta,omitempty"`
	Fast  bool    `yaml:"fast,omitempty"`
	// Seed 0 draws fresh directions on every run.
	Seed    uint64 `yaml:"seed,omitempty"`
	Workers int    `yaml:"workers,omitempty"`
	// MemoryLimitBytes caps the working set of concurrent builds. 0 means unlimited.
	MemoryLimitBytes int64 `yaml:"memory_limit_bytes,omitempty"`
}

type DatasetConfig struct {
	N           int     `yaml:"n"`
	D           int     `yaml:"d"`
	Sigma       float64 `yaml:"sigma"`
	Normalize   bool    `yaml:"normalize"`
	Compression string  `yaml:"compression"`
	// Seed 0 draws a fresh dataset.
	Seed uint64 `yaml:"seed,omitempty"`
}

type LogConfig struct {
	Level string `yaml:"level"`
	JSON  bool   `yaml:"json,omitempty"`
}

type Config struct {
	Store   StoreConfig   `yaml:"store"`
	Index   IndexConfig   `yaml:"index"`
	Dataset DatasetConfig `yaml:"dataset"`
	Log     LogConfig     `yaml:"log"`
}

// Default returns the settings used when no file is given.
func Default() *Config {
	return &Config{
		Store: StoreConfig{
			Backend: "local",
			Local:   LocalConfig{Root: "data"},
			Cache:   CacheConfig{BlockSize: 64 * 1024},
		},
		Index: IndexConfig{
			Kind:  "tensor",
			Alpha: 0.9,
			Beta:  0.55,
		},
		Dataset: DatasetConfig{
			N:           1000,
			D:           100,
			Sigma:       1,
			Normalize:   true,
			Compression: "none",
		},
		Log: LogConfig{Level: "warn"},
	}
}

// Load reads path over the defaults. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// Save writes cfg to path, creating parent directories.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("write config: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Params returns the index parameters, deriving theta when unset.
func (c *Config) Params() index.Params {
	if c.Index.Theta > 0 {
		return index.Params{Alpha: c.Index.Alpha, Beta: c.Index.Beta, Theta: c.Index.Theta}
	}
	return index.NewParams(c.Index.Alpha, c.Index.Beta)
}

// LogLevel parses Log.Level.
func (c *Config) LogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(c.Log.Level))); err != nil {
		return 0, fmt.Errorf("log level %q: %w", c.Log.Level, err)
	}
	return level, nil
}

// Validate checks the settings that flags cannot fix later.
func (c *Config) Validate() error {
	switch c.Store.Backend {
	case "local", "memory":
	case "s3":
		if c.Store.S3.Bucket == "" {
			return errors.New("store.s3.bucket is required")
		}
	case "minio":
		if c.Store.Minio.Endpoint == "" || c.Store.Minio.Bucket == "" {
			return errors.New("store.minio.endpoint and store.minio.bucket are required")
		}
	default:
		return fmt.Errorf("unknown store backend %q", c.Store.Backend)
	}
	if c.Dataset.N <= 0 || c.Dataset.D <= 0 {
		return fmt.Errorf("dataset size must be positive, got n=%d d=%d", c.Dataset.N, c.Dataset.D)
	}
	if _, err := c.LogLevel(); err != nil {
		return err
	}
	return c.Params().Validate()
}
