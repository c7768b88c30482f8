package main

import "errors"

type Config struct {
	Text    string
	Offline bool
	Model   string
	APIKey  string

	BaseURL    string
	ConfigPath string
	TokenPath  string
}

func (c Config) Validate() error {
	if !c.Offline && c.APIKey != "" {
		return errors.New("-api-key only applies with -offline")
	}
	return nil
}

func defaultConfig() Config {
	return Config{}
}
