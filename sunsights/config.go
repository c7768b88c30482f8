package sunsights

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/sunsightshq/sunsights-cli/sunsights/fileutils"
)

// ClientConfig is the optional config file shared by the cmd tools
// (<user config dir>/sunsights/config.yaml). Flags and environment override
// whatever it sets.
type ClientConfig struct {
	BaseURL        string        `yaml:"base_url"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
	PollInterval   time.Duration `yaml:"poll_interval"`
	TokenPath      string        `yaml:"token_path"`
	OpenAIModel    string        `yaml:"openai_model"`
}

// UnmarshalYAML decodes durations from strings like "30s" or "2m", which
// yaml cannot do for time.Duration directly.
func (c *ClientConfig) UnmarshalYAML(value *yaml.Node) error {
	var raw struct {
		BaseURL        string `yaml:"base_url"`
		RequestTimeout string `yaml:"request_timeout"`
		PollInterval   string `yaml:"poll_interval"`
		TokenPath      string `yaml:"token_path"`
		OpenAIModel    string `yaml:"openai_model"`
	}
	if err := value.Decode(&raw); err != nil {
		return err
	}
	if raw.BaseURL != "" {
		c.BaseURL = raw.BaseURL
	}
	if raw.TokenPath != "" {
		c.TokenPath = raw.TokenPath
	}
	if raw.OpenAIModel != "" {
		c.OpenAIModel = raw.OpenAIModel
	}
	if raw.RequestTimeout != "" {
		d, err := time.ParseDuration(raw.RequestTimeout)
		if err != nil {
			return fmt.Errorf("request_timeout: %w", err)
		}
		c.RequestTimeout = d
	}
	if raw.PollInterval != "" {
		d, err := time.ParseDuration(raw.PollInterval)
		if err != nil {
			return fmt.Errorf("poll_interval: %w", err)
		}
		c.PollInterval = d
	}
	return nil
}

// DefaultClientConfig matches the backend's development defaults.
func DefaultClientConfig() ClientConfig {
	return ClientConfig{
		BaseURL:        "http://localhost:5000",
		RequestTimeout: defaultTimeout,
		PollInterval:   DefaultPollInterval,
		OpenAIModel:    "gpt-5-mini",
	}
}

// DefaultConfigPath is <user config dir>/sunsights/config.yaml.
func DefaultConfigPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve config dir: %w", err)
	}
	return filepath.Join(dir, "sunsights", "config.yaml"), nil
}

// LoadClientConfig reads path, layering it over the defaults. A missing file
// is not an error; the defaults are returned. An empty path uses
// DefaultConfigPath.
func LoadClientConfig(path string) (ClientConfig, error) {
	cfg := DefaultClientConfig()
	if path == "" {
		var err error
		path, err = DefaultConfigPath()
		if err != nil {
			return cfg, err
		}
	}

	if !fileutils.FileExists(path) {
		return cfg, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultClientConfig().BaseURL
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = defaultTimeout
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = DefaultPollInterval
	}
	return cfg, nil
}
