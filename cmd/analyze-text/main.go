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

	text := cfg.Text
	if text == "" {
		b, err := io.ReadAll(os.Stdin)
		if err != nil {
			fmt.Fprintln(os.Stderr, fmt.Errorf("read stdin: %w", err).Error())
			os.Exit(2)
		}
		text = string(b)
	}
	if strings.TrimSpace(text) == "" {
		fmt.Fprintln(os.Stderr, "no text to analyze (pass -text or pipe stdin)")
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fileCfg, err := sunsights.LoadClientConfig(cfg.ConfigPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(2)
	}

	var result sunsights.AnalysisResult
	if cfg.Offline {
		model := cfg.Model
		if model == "" {
			model = fileCfg.OpenAIModel
		}
		apiKey := cfg.APIKey
		if apiKey == "" {
			apiKey = os.Getenv("OPENAI_API_KEY")
		}
		if apiKey == "" {
			fmt.Fprintln(os.Stderr, "missing OPENAI_API_KEY (or pass -api-key)")
			os.Exit(2)
		}
		analyzer, err := sunsights.NewOfflineAnalyzer(apiKey, model)
		if err != nil {
			fmt.Fprintln(os.Stderr, err.Error())
			os.Exit(2)
		}
		result, err = analyzer.Analyze(ctx, text)
		if err != nil {
			fmt.Fprintln(os.Stderr, err.Error())
			os.Exit(1)
		}
	} else {
		client, err := backendClient(cfg, fileCfg)
		if err != nil {
			fmt.Fprintln(os.Stderr, err.Error())
			os.Exit(2)
		}
		result, err = client.AnalyzeText(ctx, text)
		if err != nil {
			fmt.Fprintln(os.Stderr, sunsights.UserMessage(err, "Error analyzing text. Please try again."))
			os.Exit(1)
		}
	}

	printResult(os.Stdout, result)
}

func backendClient(cfg Config, fileCfg sunsights.ClientConfig) (*sunsights.Client, error) {
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

func printResult(w io.Writer, r sunsights.AnalysisResult) {
	fmt.Fprintf(w, "sentiment=%s score=%.0f emotion=%s priority=%s\n",
		r.Sentiment, r.SentimentScore, r.Emotion, r.Priority)
	for _, s := range r.Insights {
		fmt.Fprintf(w, "insight=%s\n", s)
	}
}

func parseFlags(fs *flag.FlagSet, args []string) (Config, error) {
	cfg := defaultConfig()
	fs.SetOutput(os.Stderr)
	fs.StringVar(&cfg.Text, "text", "", "Text to analyze (default: read stdin)")
	fs.BoolVar(&cfg.Offline, "offline", false, "Classify locally via the OpenAI API instead of the backend")
	fs.StringVar(&cfg.Model, "model", "", "OpenAI model for -offline (default: config file, then gpt-5-mini)")
	fs.StringVar(&cfg.APIKey, "api-key", "", "OpenAI API key for -offline (overrides OPENAI_API_KEY env var)")
	fs.StringVar(&cfg.BaseURL, "base-url", "", "Backend base URL (default: config file, then http://localhost:5000)")
	fs.StringVar(&cfg.ConfigPath, "config", "", "Path to config.yaml (default: <user config dir>/sunsights/config.yaml)")
	fs.StringVar(&cfg.TokenPath, "token-path", "", "Path to the persisted token file")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
