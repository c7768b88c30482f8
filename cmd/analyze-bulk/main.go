package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/sunsightshq/sunsights-cli/sunsights"
	"github.com/sunsightshq/sunsights-cli/sunsights/fileutils"
)

// invalidExampleMaxChars matches the backend's own cap on the invalid-row
// samples it reports.
const invalidExampleMaxChars = 100

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
	if err := sunsights.ValidateUploadFile(cfg.FilePath); err != nil {
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

	fmt.Fprintf(os.Stderr, "uploading %s\n", cfg.FilePath)
	summary, err := client.AnalyzeFile(ctx, cfg.FilePath)
	if err != nil {
		var nvc *sunsights.NoValidCommentsError
		if errors.As(err, &nvc) {
			fmt.Fprintln(os.Stderr, nvc.Error())
			if nvc.Details != "" {
				fmt.Fprintf(os.Stderr, "details: %s\n", nvc.Details)
			}
			for _, ex := range nvc.InvalidExamples {
				fmt.Fprintf(os.Stderr, "invalid_example=%s\n", fileutils.Truncate(ex, invalidExampleMaxChars))
			}
			os.Exit(1)
		}
		fmt.Fprintln(os.Stderr, sunsights.UserMessage(err, "Error analyzing file. Please try again."))
		os.Exit(1)
	}

	if cfg.OutPath != "" {
		if err := fileutils.WriteJSONFileAtomic(cfg.OutPath, summary, cfg.Pretty); err != nil {
			fmt.Fprintln(os.Stderr, err.Error())
			os.Exit(1)
		}
		fmt.Fprintf(os.Stderr, "summary written to %s\n", cfg.OutPath)
	}

	printSummary(os.Stdout, summary, cfg.Priority, cfg.Page)
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

func printSummary(w io.Writer, s sunsights.BulkAnalysisSummary, priority string, page int) {
	fmt.Fprintf(w, "total=%d valid=%d invalid=%d average_sentiment=%d high=%d medium=%d low=%d\n",
		s.TotalComments, s.ValidComments, s.InvalidComments, s.AverageSentiment,
		s.PriorityDistribution.High, s.PriorityDistribution.Medium, s.PriorityDistribution.Low)
	if s.PlaceholderSamples {
		fmt.Fprintln(w, "sample_rows=placeholder")
	}
	for _, ex := range s.InvalidExamples {
		fmt.Fprintf(w, "invalid_example=%s\n", fileutils.Truncate(ex, invalidExampleMaxChars))
	}

	pager := sunsights.NewResultPager(s.SampleResults)
	pager.SetFilter(priority)
	pager.SetPage(page)
	fmt.Fprintf(w, "filter=%s page=%d/%d rows=%d\n",
		pager.Filter(), pager.Page(), pager.TotalPages(), pager.FilteredCount())
	for _, r := range pager.Rows() {
		fmt.Fprintf(w, "text=%q sentiment=%s score=%.0f emotion=%s priority=%s\n",
			r.Text, r.Sentiment, r.SentimentScore, r.Emotion, r.Priority)
	}
}

func parseFlags(fs *flag.FlagSet, args []string) (Config, error) {
	cfg := defaultConfig()
	fs.SetOutput(os.Stderr)
	fs.StringVar(&cfg.FilePath, "file", "", "CSV or Excel file of comments to analyze")
	fs.StringVar(&cfg.Priority, "priority", cfg.Priority, "Priority filter for sample rows: All, High, Medium or Low")
	fs.IntVar(&cfg.Page, "page", cfg.Page, "1-based page of sample rows to print (5 per page)")
	fs.StringVar(&cfg.OutPath, "out", "", "Optional path to write the normalized summary JSON")
	fs.BoolVar(&cfg.Pretty, "pretty", false, "Pretty-print the -out summary JSON")
	fs.StringVar(&cfg.BaseURL, "base-url", "", "Backend base URL (default: config file, then http://localhost:5000)")
	fs.StringVar(&cfg.ConfigPath, "config", "", "Path to config.yaml (default: <user config dir>/sunsights/config.yaml)")
	fs.StringVar(&cfg.TokenPath, "token-path", "", "Path to the persisted token file")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	if cfg.FilePath != "" {
		cfg.FilePath = filepath.Clean(cfg.FilePath)
	}
	if cfg.OutPath != "" {
		cfg.OutPath = filepath.Clean(cfg.OutPath)
	}
	return cfg, nil
}
