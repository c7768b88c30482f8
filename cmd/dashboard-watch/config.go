package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/sunsightshq/sunsights-cli/sunsights"
)

type Config struct {
	Range    string
	Interval time.Duration
	Once     bool

	BaseURL    string
	ConfigPath string
	TokenPath  string
}

func (c Config) Validate() error {
	switch c.Range {
	case sunsights.Range24h, sunsights.Range7d, sunsights.Range30d, sunsights.Range90d:
	default:
		return fmt.Errorf("unknown -range %q (use 24h, 7d, 30d or 90d)", c.Range)
	}
	if c.Interval < 0 {
		return errors.New("interval must be >= 0")
	}
	return nil
}

func defaultConfig() Config {
	return Config{
		Range: sunsights.Range7d,
	}
}
