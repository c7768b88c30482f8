package sunsights

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

const (
	// bulkTimeout bounds the upload call specifically; it is distinct from
	// the client-wide default.
	bulkTimeout = 60 * time.Second

	// attachSettleDelay is a short pause before dispatch so the multipart
	// payload is fully attached before transmission. Works around a platform
	// timing quirk; not a protocol requirement.
	attachSettleDelay = 200 * time.Millisecond
)

// Accepted upload content types: CSV, legacy Excel binary, modern Excel XML.
var allowedUploadTypes = map[string]struct{}{
	"text/csv":                 {},
	"application/vnd.ms-excel": {},
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet": {},
}

var uploadTypeByExt = map[string]string{
	".csv":  "text/csv",
	".xls":  "application/vnd.ms-excel",
	".xlsx": "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
}

// ErrUnsupportedFileType rejects anything that is not CSV or Excel.
var ErrUnsupportedFileType = errors.New("please upload a CSV or Excel file")

// ValidateUploadType checks a filename (and optional declared content type)
// against the upload allow-list. Both manual selection and drag-drop paths
// go through here.
func ValidateUploadType(filename, contentType string) error {
	if contentType != "" {
		if _, ok := allowedUploadTypes[strings.ToLower(strings.TrimSpace(contentType))]; !ok {
			return ErrUnsupportedFileType
		}
		return nil
	}
	ext := strings.ToLower(filepath.Ext(filename))
	if _, ok := uploadTypeByExt[ext]; !ok {
		return ErrUnsupportedFileType
	}
	return nil
}

// ValidateUploadFile checks that path names an existing regular file of an
// accepted type.
func ValidateUploadFile(path string) error {
	if err := ValidateUploadType(path, ""); err != nil {
		return err
	}
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("stat upload: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("upload %s is a directory", path)
	}
	return nil
}

// AnalyzeFile uploads the file at path for bulk analysis and returns the
// normalized summary. The raw backend payload is loosely shaped; callers
// only ever see the stable BulkAnalysisSummary. A backend rejection for a
// file with no analyzable rows comes back as *NoValidCommentsError.
func (c *Client) AnalyzeFile(ctx context.Context, path string) (BulkAnalysisSummary, error) {
	if err := ValidateUploadFile(path); err != nil {
		return BulkAnalysisSummary{}, err
	}

	f, err := os.Open(path)
	if err != nil {
		return BulkAnalysisSummary{}, fmt.Errorf("open upload: %w", err)
	}
	defer func() { _ = f.Close() }()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", filepath.Base(path))
	if err != nil {
		return BulkAnalysisSummary{}, fmt.Errorf("build multipart: %w", err)
	}
	if _, err := io.Copy(part, f); err != nil {
		return BulkAnalysisSummary{}, fmt.Errorf("read upload: %w", err)
	}
	if err := mw.Close(); err != nil {
		return BulkAnalysisSummary{}, fmt.Errorf("build multipart: %w", err)
	}

	select {
	case <-time.After(attachSettleDelay):
	case <-ctx.Done():
		return BulkAnalysisSummary{}, ctx.Err()
	}

	opCtx, cancel := context.WithTimeout(ctx, bulkTimeout)
	defer cancel()

	req, err := c.newRequest(opCtx, http.MethodPost, "/api/analytics/analyze-bulk", nil, &buf)
	if err != nil {
		return BulkAnalysisSummary{}, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	raw, err := c.do(req)
	if err != nil {
		return BulkAnalysisSummary{}, classifyBulkError(err)
	}
	return normalizeBulkPayload(raw)
}

// classifyBulkError picks out the specific "no valid comments" 400 so the
// caller can show a more precise message and the unanalyzable examples.
func classifyBulkError(err error) error {
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusBadRequest {
		return err
	}
	if !strings.Contains(strings.ToLower(apiErr.ErrorField), noValidCommentsMarker) {
		return err
	}
	var body struct {
		Details         string   `json:"details"`
		InvalidExamples []string `json:"invalid_examples"`
	}
	_ = json.Unmarshal(apiErr.Body, &body)
	return &NoValidCommentsError{
		Details:         body.Details,
		InvalidExamples: body.InvalidExamples,
	}
}

// flexInt accepts JSON numbers and numeric strings.
type flexInt int

func (n *flexInt) UnmarshalJSON(b []byte) error {
	s := strings.Trim(strings.TrimSpace(string(b)), `"`)
	s = strings.TrimSuffix(s, "%")
	if s == "" || s == "null" {
		*n = 0
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("parse number %q: %w", s, err)
	}
	*n = flexInt(f + 0.5)
	return nil
}

// rawBulkPayload tolerates both backend spellings of the bulk response: the
// flat snake_case shape and the camelCase shape with a nested summary.
type rawBulkPayload struct {
	TotalComments   flexInt `json:"total_comments"`
	TotalAnalyzed   flexInt `json:"totalAnalyzed"`
	ValidComments   flexInt `json:"valid_comments"`
	InvalidComments flexInt `json:"invalid_comments"`

	AverageSentiment *flexInt `json:"average_sentiment"`

	PriorityDistribution *rawPriorityDistribution `json:"priority_distribution"`

	Summary *struct {
		AverageSentiment     *flexInt                 `json:"averageSentiment"`
		PriorityDistribution *rawPriorityDistribution `json:"priorityDistribution"`
		PositiveCount        flexInt                  `json:"positive_count"`
		NegativeCount        flexInt                  `json:"negative_count"`
	} `json:"summary"`

	SampleResults []rawAnalysis `json:"sample_results"`
	Results       []rawAnalysis `json:"results"`

	InvalidExamples []string `json:"invalid_examples"`
}

// rawPriorityDistribution accepts both lowercase and capitalized tier keys.
type rawPriorityDistribution struct {
	High   flexInt `json:"high"`
	HighC  flexInt `json:"High"`
	Medium flexInt `json:"medium"`
	MedC   flexInt `json:"Medium"`
	Low    flexInt `json:"low"`
	LowC   flexInt `json:"Low"`
}

func (d *rawPriorityDistribution) normalize() PriorityDistribution {
	if d == nil {
		return PriorityDistribution{}
	}
	pick := func(a, b flexInt) int {
		if a != 0 {
			return int(a)
		}
		return int(b)
	}
	return PriorityDistribution{
		High:   pick(d.High, d.HighC),
		Medium: pick(d.Medium, d.MedC),
		Low:    pick(d.Low, d.LowC),
	}
}

// placeholderSampleResults is the fixed illustrative set shown when a
// successful run returns zero sample rows. Presentation fallback, not data;
// BulkAnalysisSummary.PlaceholderSamples marks its use.
func placeholderSampleResults() []AnalysisResult {
	return []AnalysisResult{
		{
			Text:           "Great product, I love it!",
			Sentiment:      SentimentPositive,
			SentimentScore: 95,
			Emotion:        "joy",
			Priority:       PriorityLow,
			Insights:       []string{},
		},
		{
			Text:           "I would like a refund immediately.",
			Sentiment:      SentimentNegative,
			SentimentScore: 10,
			Emotion:        "anger",
			Priority:       PriorityHigh,
			Insights:       []string{},
		},
		{
			Text:           "The product is okay but could be better.",
			Sentiment:      SentimentNegative,
			SentimentScore: 40,
			Emotion:        "disappointment",
			Priority:       PriorityMedium,
			Insights:       []string{},
		},
	}
}

// normalizeBulkPayload maps whichever raw shape the backend produced onto
// the stable summary. Default rules: missing counts are 0, a missing average
// falls back to the nested summary and then to a positive/negative-count
// derivation, missing sample rows become the placeholder set.
func normalizeBulkPayload(raw []byte) (BulkAnalysisSummary, error) {
	var p rawBulkPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return BulkAnalysisSummary{}, fmt.Errorf("decode bulk response: %w", ErrInvalidResponse)
	}

	out := BulkAnalysisSummary{
		TotalComments:   int(p.TotalComments),
		ValidComments:   int(p.ValidComments),
		InvalidComments: int(p.InvalidComments),
		InvalidExamples: p.InvalidExamples,
	}
	if out.TotalComments == 0 {
		out.TotalComments = int(p.TotalAnalyzed)
	}

	switch {
	case p.AverageSentiment != nil:
		out.AverageSentiment = int(*p.AverageSentiment)
	case p.Summary != nil && p.Summary.AverageSentiment != nil:
		out.AverageSentiment = int(*p.Summary.AverageSentiment)
	case p.Summary != nil && (p.Summary.PositiveCount != 0 || p.Summary.NegativeCount != 0):
		pos, neg := float64(p.Summary.PositiveCount), float64(p.Summary.NegativeCount)
		out.AverageSentiment = int(100*pos/(pos+neg) + 0.5)
	}

	if p.PriorityDistribution != nil {
		out.PriorityDistribution = p.PriorityDistribution.normalize()
	} else if p.Summary != nil {
		out.PriorityDistribution = p.Summary.PriorityDistribution.normalize()
	}

	rows := p.SampleResults
	if len(rows) == 0 {
		rows = p.Results
	}
	for _, r := range rows {
		out.SampleResults = append(out.SampleResults, normalizeAnalysisResult(r))
	}
	if len(out.SampleResults) == 0 {
		out.SampleResults = placeholderSampleResults()
		out.PlaceholderSamples = true
	}
	return out, nil
}
