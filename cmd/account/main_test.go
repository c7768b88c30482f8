package main

import (
	"context"
	"flag"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sunsightshq/sunsights-cli/sunsights"
)

func TestParseFlags_Overrides(t *testing.T) {
	t.Parallel()

	fs := flag.NewFlagSet("account", flag.ContinueOnError)
	cfg, err := parseFlags(fs, []string{
		"-action", "login",
		"-email", "a@b.com",
		"-password", "secret",
		"-base-url", "http://localhost:9999",
		"-token-path", "/tmp/token",
	})
	if err != nil {
		t.Fatalf("parseFlags: %v", err)
	}
	if cfg.Action != "login" {
		t.Fatalf("Action=%q", cfg.Action)
	}
	if cfg.Email != "a@b.com" || cfg.Password != "secret" {
		t.Fatalf("Email=%q Password=%q", cfg.Email, cfg.Password)
	}
	if cfg.BaseURL != "http://localhost:9999" {
		t.Fatalf("BaseURL=%q", cfg.BaseURL)
	}
	if cfg.TokenPath != "/tmp/token" {
		t.Fatalf("TokenPath=%q", cfg.TokenPath)
	}
}

func TestConfigValidate(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{name: "missing action", cfg: Config{}, wantErr: true},
		{name: "unknown action", cfg: Config{Action: "explode"}, wantErr: true},
		{name: "login ok", cfg: Config{Action: "login", Email: "a@b.com", Password: "p"}, wantErr: false},
		{name: "login missing password", cfg: Config{Action: "login", Email: "a@b.com"}, wantErr: true},
		{name: "register missing name", cfg: Config{Action: "register", Email: "a@b.com", Password: "p"}, wantErr: true},
		{name: "register ok", cfg: Config{Action: "register", Email: "a@b.com", Password: "p", Name: "Ada"}, wantErr: false},
		{name: "whoami ok", cfg: Config{Action: "whoami"}, wantErr: false},
		{name: "logout ok", cfg: Config{Action: "logout"}, wantErr: false},
		{name: "forgot needs email", cfg: Config{Action: "forgot-password"}, wantErr: true},
		{name: "reset needs token", cfg: Config{Action: "reset-password", Password: "p"}, wantErr: true},
		{name: "reset ok", cfg: Config{Action: "reset-password", ResetToken: "tok", Password: "p"}, wantErr: false},
		{name: "case insensitive", cfg: Config{Action: "WHOAMI"}, wantErr: false},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			err := tc.cfg.Validate()
			if (err != nil) != tc.wantErr {
				t.Fatalf("Validate=%v wantErr=%v", err, tc.wantErr)
			}
		})
	}
}

func TestRun_LoginPersistsToken(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/auth/login" {
			t.Errorf("path=%s", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{"token":"tok-1","user":{"email":"a@b.com"}}`))
	}))
	t.Cleanup(srv.Close)

	store := &sunsights.MemoryTokenStore{}
	client, err := sunsights.NewClient(srv.URL, sunsights.WithTokenStore(store))
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	cfg := Config{Action: "login", Email: "a@b.com", Password: "secret"}
	if err := run(context.Background(), client, cfg); err != nil {
		t.Fatalf("run: %v", err)
	}
	tok, _ := store.Token()
	if tok != "tok-1" {
		t.Fatalf("token=%q, want tok-1", tok)
	}
}

func TestRun_LogoutClearsToken(t *testing.T) {
	t.Parallel()

	store := &sunsights.MemoryTokenStore{}
	_ = store.Save("tok")
	client, err := sunsights.NewClient("http://localhost:1", sunsights.WithTokenStore(store))
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	if err := run(context.Background(), client, Config{Action: "logout"}); err != nil {
		t.Fatalf("run: %v", err)
	}
	tok, _ := store.Token()
	if tok != "" {
		t.Fatalf("token=%q after logout", tok)
	}
}
