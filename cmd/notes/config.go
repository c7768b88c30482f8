package main

import (
	"errors"
	"fmt"
	"strings"
)

var noteActions = map[string]struct{}{
	"list":        {},
	"create":      {},
	"update":      {},
	"delete":      {},
	"profile":     {},
	"set-profile": {},
}

type Config struct {
	Action  string
	NoteID  int
	Content string
	Name    string
	Bio     string

	BaseURL    string
	ConfigPath string
	TokenPath  string
}

func (c Config) Validate() error {
	action := strings.ToLower(strings.TrimSpace(c.Action))
	if action == "" {
		return errors.New("missing -action")
	}
	if _, ok := noteActions[action]; !ok {
		return fmt.Errorf("unknown -action %q", c.Action)
	}
	switch action {
	case "create":
		if strings.TrimSpace(c.Content) == "" {
			return errors.New("create requires -content")
		}
	case "update":
		if c.NoteID <= 0 {
			return errors.New("update requires -id")
		}
		if strings.TrimSpace(c.Content) == "" {
			return errors.New("update requires -content")
		}
	case "delete":
		if c.NoteID <= 0 {
			return errors.New("delete requires -id")
		}
	case "set-profile":
		if c.Name == "" && c.Bio == "" {
			return errors.New("set-profile requires -name or -bio")
		}
	}
	return nil
}

func defaultConfig() Config {
	return Config{
		Action: "list",
	}
}
