package main

import (
	"context"
	"flag"
	"fmt"
	"io"
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

	if err := run(ctx, os.Stdout, client, cfg); err != nil {
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

func run(ctx context.Context, out io.Writer, client *sunsights.Client, cfg Config) error {
	switch strings.ToLower(strings.TrimSpace(cfg.Action)) {
	case "list":
		notes, err := client.ListNotes(ctx)
		if err != nil {
			return err
		}
		for _, n := range notes {
			fmt.Fprintf(out, "id=%d created=%s content=%q\n", n.ID, n.CreatedAt, n.Content)
		}
		fmt.Fprintf(out, "notes=%d\n", len(notes))
	case "create":
		n, err := client.CreateNote(ctx, cfg.Content)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "created=true id=%d\n", n.ID)
	case "update":
		if err := client.UpdateNote(ctx, cfg.NoteID, cfg.Content); err != nil {
			return err
		}
		fmt.Fprintf(out, "updated=true id=%d\n", cfg.NoteID)
	case "delete":
		if err := client.DeleteNote(ctx, cfg.NoteID); err != nil {
			return err
		}
		fmt.Fprintf(out, "deleted=true id=%d\n", cfg.NoteID)
	case "profile":
		p, err := client.GetProfile(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "email=%s name=%s bio=%q joined=%s\n", p.Email, p.Name, p.Bio, p.JoinedAt)
	case "set-profile":
		p, err := client.GetProfile(ctx)
		if err != nil {
			return err
		}
		if cfg.Name != "" {
			p.Name = cfg.Name
		}
		if cfg.Bio != "" {
			p.Bio = cfg.Bio
		}
		if err := client.UpdateProfile(ctx, p); err != nil {
			return err
		}
		fmt.Fprintln(out, "profile_updated=true")
	}
	return nil
}

func parseFlags(fs *flag.FlagSet, args []string) (Config, error) {
	cfg := defaultConfig()
	fs.SetOutput(os.Stderr)
	fs.StringVar(&cfg.Action, "action", cfg.Action, "Action: list, create, update, delete, profile or set-profile")
	fs.IntVar(&cfg.NoteID, "id", 0, "Note id (update, delete)")
	fs.StringVar(&cfg.Content, "content", "", "Note content (create, update)")
	fs.StringVar(&cfg.Name, "name", "", "Display name (set-profile)")
	fs.StringVar(&cfg.Bio, "bio", "", "Profile bio (set-profile)")
	fs.StringVar(&cfg.BaseURL, "base-url", "", "Backend base URL (default: config file, then http://localhost:5000)")
	fs.StringVar(&cfg.ConfigPath, "config", "", "Path to config.yaml (default: <user config dir>/sunsights/config.yaml)")
	fs.StringVar(&cfg.TokenPath, "token-path", "", "Path to the persisted token file")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
