package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/sunsightshq/sunsights-cli/sunsights"
)

func main() {
	cfg, err := parseFlags(flag.CommandLine, os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(2)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client, err := newClient(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(2)
	}

	if err := run(ctx, client, cfg); err != nil {
		fmt.Fprintln(os.Stderr, sunsights.UserMessage(err, err.Error()))
		os.Exit(1)
	}
}

func newClient(cfg Config) (*sunsights.Client, error) {
	fileCfg, err := sunsights.LoadClientConfig(cfg.ConfigPath)
	if err != nil {
		return nil, err
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = fileCfg.BaseURL
	}
	tokenPath := cfg.TokenPath
	if tokenPath == "" {
		tokenPath = fileCfg.TokenPath
	}
	store, err := sunsights.NewFileTokenStore(tokenPath)
	if err != nil {
		return nil, err
	}
	return sunsights.NewClient(baseURL,
		sunsights.WithTokenStore(store),
		sunsights.WithTimeout(fileCfg.RequestTimeout),
	)
}

func run(ctx context.Context, client *sunsights.Client, cfg Config) error {
	switch strings.ToLower(strings.TrimSpace(cfg.Action)) {
	case "login":
		sess, err := client.Login(ctx, cfg.Email, cfg.Password)
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "logged_in=true email=%s\n", sess.User.Email)
	case "register":
		sess, err := client.Register(ctx, cfg.Email, cfg.Password, cfg.Name)
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "registered=true email=%s\n", sess.User.Email)
	case "whoami":
		user, err := client.CurrentUser(ctx)
		if errors.Is(err, sunsights.ErrNotAuthenticated) {
			return errors.New("not logged in")
		}
		if errors.Is(err, sunsights.ErrSessionExpired) {
			return errors.New("session expired, log in again")
		}
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "email=%s name=%s\n", user.Email, user.Name)
	case "logout":
		if err := client.Logout(); err != nil {
			return err
		}
		fmt.Fprintln(os.Stdout, "logged_out=true")
	case "forgot-password":
		if err := client.ForgotPassword(ctx, cfg.Email); err != nil {
			return err
		}
		// Uniform answer whether or not the address exists.
		fmt.Fprintln(os.Stdout, "recovery_requested=true check_email=true")
	case "reset-password":
		if err := client.ResetPassword(ctx, cfg.ResetToken, cfg.Password); err != nil {
			return err
		}
		fmt.Fprintln(os.Stdout, "password_reset=true")
	}
	return nil
}

func parseFlags(fs *flag.FlagSet, args []string) (Config, error) {
	cfg := defaultConfig()
	fs.SetOutput(os.Stderr)
	fs.StringVar(&cfg.Action, "action", cfg.Action, "Account action: login, register, whoami, logout, forgot-password or reset-password")
	fs.StringVar(&cfg.Email, "email", "", "Account email")
	fs.StringVar(&cfg.Password, "password", "", "Account password (or the new password for reset-password)")
	fs.StringVar(&cfg.Name, "name", "", "Display name (register)")
	fs.StringVar(&cfg.ResetToken, "reset-token", "", "Recovery token from the reset email")
	fs.StringVar(&cfg.BaseURL, "base-url", "", "Backend base URL (default: config file, then http://localhost:5000)")
	fs.StringVar(&cfg.ConfigPath, "config", "", "Path to config.yaml (default: <user config dir>/sunsights/config.yaml)")
	fs.StringVar(&cfg.TokenPath, "token-path", "", "Path to the persisted token file")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
