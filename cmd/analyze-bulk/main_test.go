package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sunsightshq/sunsights-cli/sunsights"
	"github.com/sunsightshq/sunsights-cli/sunsights/fileutils"
)

func TestParseFlags_Overrides(t *testing.T) {
	t.Parallel()

	fs := flag.NewFlagSet("analyze-bulk", flag.ContinueOnError)
	cfg, err := parseFlags(fs, []string{
		"-file", "data/comments.csv",
		"-priority", "High",
		"-page", "2",
	})
	if err != nil {
		t.Fatalf("parseFlags: %v", err)
	}
	if cfg.FilePath != "data/comments.csv" {
		t.Fatalf("FilePath=%q", cfg.FilePath)
	}
	if cfg.Priority != "High" {
		t.Fatalf("Priority=%q", cfg.Priority)
	}
	if cfg.Page != 2 {
		t.Fatalf("Page=%d", cfg.Page)
	}
}

func TestParseFlags_Defaults(t *testing.T) {
	t.Parallel()

	fs := flag.NewFlagSet("analyze-bulk", flag.ContinueOnError)
	cfg, err := parseFlags(fs, []string{"-file", "c.csv"})
	if err != nil {
		t.Fatalf("parseFlags: %v", err)
	}
	if cfg.Priority != sunsights.FilterAll {
		t.Fatalf("Priority=%q", cfg.Priority)
	}
	if cfg.Page != 1 {
		t.Fatalf("Page=%d", cfg.Page)
	}
}

func TestConfigValidate(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{name: "ok", cfg: Config{FilePath: "c.csv", Priority: "All", Page: 1}},
		{name: "missing file", cfg: Config{Priority: "All", Page: 1}, wantErr: true},
		{name: "zero page", cfg: Config{FilePath: "c.csv", Priority: "All"}, wantErr: true},
		{name: "lowercase priority", cfg: Config{FilePath: "c.csv", Priority: "high", Page: 1}},
		{name: "empty priority", cfg: Config{FilePath: "c.csv", Page: 1}},
		{name: "bad priority", cfg: Config{FilePath: "c.csv", Priority: "urgent", Page: 1}, wantErr: true},
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

func TestPrintSummary(t *testing.T) {
	t.Parallel()

	s := sunsights.BulkAnalysisSummary{
		TotalComments:        7,
		ValidComments:        6,
		InvalidComments:      1,
		AverageSentiment:     72,
		PriorityDistribution: sunsights.PriorityDistribution{High: 1, Medium: 2, Low: 3},
		SampleResults: []sunsights.AnalysisResult{
			{Text: "love it", Sentiment: sunsights.SentimentPositive, SentimentScore: 95, Emotion: "joy", Priority: sunsights.PriorityLow},
			{Text: "refund now", Sentiment: sunsights.SentimentNegative, SentimentScore: 8, Emotion: "anger", Priority: sunsights.PriorityHigh},
		},
		InvalidExamples: []string{"12345"},
	}

	var buf bytes.Buffer
	printSummary(&buf, s, "High", 1)
	out := buf.String()

	if !strings.Contains(out, "total=7 valid=6 invalid=1 average_sentiment=72 high=1 medium=2 low=3") {
		t.Fatalf("summary line missing: %q", out)
	}
	if !strings.Contains(out, "invalid_example=12345") {
		t.Fatalf("invalid example missing: %q", out)
	}
	if !strings.Contains(out, "filter=High page=1/1 rows=1") {
		t.Fatalf("pager line missing: %q", out)
	}
	if !strings.Contains(out, `text="refund now"`) {
		t.Fatalf("filtered row missing: %q", out)
	}
	if strings.Contains(out, `text="love it"`) {
		t.Fatalf("unfiltered row leaked: %q", out)
	}
	if strings.Contains(out, "sample_rows=placeholder") {
		t.Fatalf("placeholder marker on real rows: %q", out)
	}
}

func TestPrintSummary_TruncatesLongInvalidExamples(t *testing.T) {
	t.Parallel()

	long := strings.Repeat("x", 150)
	s := sunsights.BulkAnalysisSummary{InvalidExamples: []string{long}}

	var buf bytes.Buffer
	printSummary(&buf, s, "All", 1)

	want := "invalid_example=" + strings.Repeat("x", 100) + "…"
	if !strings.Contains(buf.String(), want) {
		t.Fatalf("truncated example missing: %q", buf.String())
	}
	if strings.Contains(buf.String(), long) {
		t.Fatalf("untruncated example leaked: %q", buf.String())
	}
}

func TestParseFlags_OutPath(t *testing.T) {
	t.Parallel()

	fs := flag.NewFlagSet("analyze-bulk", flag.ContinueOnError)
	cfg, err := parseFlags(fs, []string{"-file", "c.csv", "-out", "report/./summary.json", "-pretty"})
	if err != nil {
		t.Fatalf("parseFlags: %v", err)
	}
	if cfg.OutPath != filepath.Join("report", "summary.json") {
		t.Fatalf("OutPath=%q", cfg.OutPath)
	}
	if !cfg.Pretty {
		t.Fatalf("Pretty=false")
	}
}

func TestWriteSummaryJSON(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "summary.json")
	s := sunsights.BulkAnalysisSummary{TotalComments: 3, AverageSentiment: 60}
	if err := fileutils.WriteJSONFileAtomic(path, s, false); err != nil {
		t.Fatalf("write: %v", err)
	}

	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var got sunsights.BulkAnalysisSummary
	if err := json.Unmarshal(b, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got.TotalComments != 3 || got.AverageSentiment != 60 {
		t.Fatalf("got=%+v", got)
	}
}

func TestPrintSummary_PlaceholderMarker(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	printSummary(&buf, sunsights.BulkAnalysisSummary{PlaceholderSamples: true}, "All", 1)
	if !strings.Contains(buf.String(), "sample_rows=placeholder") {
		t.Fatalf("placeholder marker missing: %q", buf.String())
	}
}
