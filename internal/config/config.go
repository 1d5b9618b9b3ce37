package config

import (
	"errors"
	"io/fs"
	"os"
	"regexp"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the huepair configuration file
type Config struct {
	Bridge    BridgeConfig    `yaml:"bridge"`
	Discovery DiscoveryConfig `yaml:"discovery"`
	Pairing   PairingConfig   `yaml:"pairing"`
	Log       LogConfig       `yaml:"log"`
}

// BridgeConfig contains where credentials live and how long bridge calls may take
type BridgeConfig struct {
	StateFile string   `yaml:"state_file"`
	Timeout   Duration `yaml:"timeout"` // HTTP timeout for bridge and discovery requests
}

// DiscoveryConfig contains bridge discovery settings
type DiscoveryConfig struct {
	URL                  string   `yaml:"url"`
	SSDP                 bool     `yaml:"ssdp"`         // Search the LAN when the discovery service finds nothing
	SSDPTimeout          Duration `yaml:"ssdp_timeout"` // How long to collect SSDP answers
	MaxSelectionAttempts int      `yaml:"max_selection_attempts"`
}

// PairingConfig contains link button handshake settings
type PairingConfig struct {
	DeviceType string   `yaml:"device_type"`
	Attempts   int      `yaml:"attempts"`
	Interval   Duration `yaml:"interval"`
}

// LogConfig contains logging settings
type LogConfig struct {
	Level  string `yaml:"level"`
	File   string `yaml:"file"` // Optional file receiving a copy of the log
	Colors bool   `yaml:"colors"`
	JSON   bool   `yaml:"json"`
}

// Duration is a wrapper around time.Duration for YAML unmarshalling
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler for Duration
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

// Duration returns the underlying time.Duration
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

// Default returns the configuration used when no file is present
func Default() *Config {
	cfg := &Config{Log: LogConfig{Colors: true}}
	cfg.applyDefaults()
	return cfg
}

// Load reads and parses the configuration file. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return nil, err
	}

	expanded := expandEnvVars(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Bridge.StateFile == "" {
		c.Bridge.StateFile = "config.json"
	}
	if c.Bridge.Timeout == 0 {
		c.Bridge.Timeout = Duration(10 * time.Second)
	}

	if c.Discovery.URL == "" {
		c.Discovery.URL = "https://discovery.meethue.com/"
	}
	if c.Discovery.SSDPTimeout == 0 {
		c.Discovery.SSDPTimeout = Duration(3 * time.Second)
	}
	if c.Discovery.MaxSelectionAttempts <= 0 {
		c.Discovery.MaxSelectionAttempts = 3
	}

	if c.Pairing.DeviceType == "" {
		c.Pairing.DeviceType = "AutoHue#mydevice"
	}
	if c.Pairing.Attempts <= 0 {
		c.Pairing.Attempts = 30
	}
	if c.Pairing.Interval == 0 {
		c.Pairing.Interval = Duration(time.Second)
	}

	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}

var envPattern = regexp.MustCompile(`\$\{([^}:]+)(?::([^}]*))?\}`)

// expandEnvVars expands environment variables in the format ${VAR} or ${VAR:default}
func expandEnvVars(input string) string {
	return envPattern.ReplaceAllStringFunc(input, func(match string) string {
		parts := envPattern.FindStringSubmatch(match)
		if len(parts) < 2 {
			return match
		}
		if val := os.Getenv(parts[1]); val != "" {
			return val
		}
		if len(parts) >= 3 {
			return parts[2]
		}
		return ""
	})
}
