package main

import (
	"errors"
	"strings"

	"github.com/sunsightshq/sunsights-cli/sunsights"
)

type Config struct {
	FilePath string
	Priority string
	Page     int
	OutPath  string
	Pretty   bool

	BaseURL    string
	ConfigPath string
	TokenPath  string
}

func (c Config) Validate() error {
	if c.FilePath == "" {
		return errors.New("missing -file")
	}
	if c.Page < 1 {
		return errors.New("page must be >= 1")
	}
	switch strings.ToLower(strings.TrimSpace(c.Priority)) {
	case "", strings.ToLower(sunsights.FilterAll), "high", "medium", "low":
	default:
		return errors.New("priority must be All, High, Medium or Low")
	}
	return nil
}

func defaultConfig() Config {
	return Config{
		Priority: sunsights.FilterAll,
		Page:     1,
	}
}
