package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

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

	fileCfg, err := sunsights.LoadClientConfig(cfg.ConfigPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(2)
	}
	interval := cfg.Interval
	if interval <= 0 {
		interval = fileCfg.PollInterval
	}

	client, err := newClient(cfg, fileCfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(2)
	}

	poller := sunsights.NewPoller(client, cfg.Range, interval)
	go poller.Start(ctx)

	for {
		select {
		case <-poller.Updates():
			printCycle(os.Stdout, os.Stderr, poller, cfg.Range)
			if cfg.Once {
				poller.Stop()
				<-poller.Done()
				if _, ok := poller.Snapshot(); !ok {
					os.Exit(1)
				}
				return
			}
		case <-ctx.Done():
			fmt.Fprintln(os.Stderr, "stopping")
			poller.Stop()
			<-poller.Done()
			return
		}
	}
}

func newClient(cfg Config, fileCfg sunsights.ClientConfig) (*sunsights.Client, error) {
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

// printCycle writes one refresh outcome: the headline stats and activity feed
// on success, or the last error on stderr with the previous numbers kept on
// screen.
func printCycle(out, errw io.Writer, p *sunsights.Poller, timeRange string) {
	if err := p.Err(); err != nil {
		fmt.Fprintln(errw, sunsights.UserMessage(err, "Error refreshing dashboard."))
	}
	snap, ok := p.Snapshot()
	if !ok {
		fmt.Fprintln(errw, "no data yet")
		return
	}

	now := time.Now()
	fmt.Fprintf(out, "range=%s total_analyses=%d average_sentiment=%.1f response_rate=%.1f last_updated=%s\n",
		timeRange, snap.Summary.TotalAnalyses, snap.Summary.AverageSentiment,
		snap.Summary.ResponseRate, p.LastUpdated().Format("15:04:05"))
	for _, ev := range snap.Activity {
		fmt.Fprintf(out, "activity type=%s title=%q when=%q\n",
			ev.Type, ev.Title, sunsights.HumanizeTimestamp(ev.Time, now))
	}
}

func parseFlags(fs *flag.FlagSet, args []string) (Config, error) {
	cfg := defaultConfig()
	fs.SetOutput(os.Stderr)
	fs.StringVar(&cfg.Range, "range", cfg.Range, "Analytics time range: 24h, 7d, 30d or 90d")
	fs.DurationVar(&cfg.Interval, "interval", 0, "Refresh interval (default: config file, then 60s)")
	fs.BoolVar(&cfg.Once, "once", false, "Fetch one snapshot and exit")
	fs.StringVar(&cfg.BaseURL, "base-url", "", "Backend base URL (default: config file, then http://localhost:5000)")
	fs.StringVar(&cfg.ConfigPath, "config", "", "Path to config.yaml (default: <user config dir>/sunsights/config.yaml)")
	fs.StringVar(&cfg.TokenPath, "token-path", "", "Path to the persisted token file")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
