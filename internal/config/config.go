// Package config loads the client configuration from a YAML file.
package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultPort is the port the analyzer firmware listens on.
const DefaultPort = 5000

type Config struct {
	Device DeviceConfig `yaml:"device"`
	Poll   PollConfig   `yaml:"poll"`
}

type DeviceConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

type PollConfig struct {
	Interval       time.Duration `yaml:"interval"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
}

func defaultConfig() *Config {
	return &Config{
		Device: DeviceConfig{
			Host: "127.0.0.1",
			Port: DefaultPort,
		},
		Poll: PollConfig{
			Interval:       time.Second,
			RequestTimeout: 10 * time.Second,
		},
	}
}

// Load reads the config file at path, applying defaults for unset fields.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := defaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadOrDefault is Load, except a missing file yields the defaults instead
// of an error. A file that exists but fails to parse is still an error.
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := Load(path)
	if os.IsNotExist(err) {
		return defaultConfig(), nil
	}
	return cfg, err
}
