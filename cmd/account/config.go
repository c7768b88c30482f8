package main

import (
	"errors"
	"fmt"
	"strings"
)

var accountActions = map[string]struct{}{
	"login":           {},
	"register":        {},
	"whoami":          {},
	"logout":          {},
	"forgot-password": {},
	"reset-password":  {},
}

type Config struct {
	Action     string
	Email      string
	Password   string
	Name       string
	ResetToken string

	BaseURL    string
	ConfigPath string
	TokenPath  string
}

func (c Config) Validate() error {
	action := strings.ToLower(strings.TrimSpace(c.Action))
	if action == "" {
		return errors.New("missing -action")
	}
	if _, ok := accountActions[action]; !ok {
		return fmt.Errorf("unknown -action %q", c.Action)
	}
	switch action {
	case "login":
		if c.Email == "" || c.Password == "" {
			return errors.New("login requires -email and -password")
		}
	case "register":
		if c.Email == "" || c.Password == "" || c.Name == "" {
			return errors.New("register requires -email, -password and -name")
		}
	case "forgot-password":
		if c.Email == "" {
			return errors.New("forgot-password requires -email")
		}
	case "reset-password":
		if c.ResetToken == "" || c.Password == "" {
			return errors.New("reset-password requires -reset-token and -password")
		}
	}
	return nil
}

func defaultConfig() Config {
	return Config{}
}
