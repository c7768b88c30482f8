package sunsights

import (
	"context"
	"errors"
	"strings"
)

// rawAnalysis tolerates the field spellings seen across backend versions.
type rawAnalysis struct {
	Text           string   `json:"text"`
	Sentiment      string   `json:"sentiment"`
	SentimentScore *float64 `json:"sentiment_score"`
	Score          *float64 `json:"score"`
	Emotion        string   `json:"emotion"`
	Priority       string   `json:"priority"`
	Insights       []string `json:"insights"`
}

type analyzeResponse struct {
	// The backend has returned the result at top level, nested under
	// "analysis", and nested under "result", depending on version.
	Analysis *rawAnalysis `json:"analysis"`
	Result   *rawAnalysis `json:"result"`
	rawAnalysis

	Suggestions         []string `json:"suggestions"`
	ResponseSuggestions []string `json:"response_suggestions"`
}

// AnalyzeText submits one text for analysis. Empty or whitespace-only input
// is rejected before any network call. Whatever nesting the backend uses,
// the caller gets the same normalized AnalysisResult.
func (c *Client) AnalyzeText(ctx context.Context, text string) (AnalysisResult, error) {
	if strings.TrimSpace(text) == "" {
		return AnalysisResult{}, errors.New("text must not be empty")
	}

	body := map[string]string{"text": text}
	var resp analyzeResponse
	if err := c.postJSON(ctx, "/api/analytics/analyze", body, &resp); err != nil {
		return AnalysisResult{}, err
	}
	return normalizeAnalyzeResponse(resp, text)
}

func normalizeAnalyzeResponse(resp analyzeResponse, text string) (AnalysisResult, error) {
	raw := resp.rawAnalysis
	switch {
	case resp.Analysis != nil:
		raw = *resp.Analysis
	case resp.Result != nil:
		raw = *resp.Result
	}
	if raw.Sentiment == "" && raw.Emotion == "" && raw.SentimentScore == nil && raw.Score == nil {
		return AnalysisResult{}, ErrInvalidResponse
	}

	res := normalizeAnalysisResult(raw)
	if res.Text == "" {
		res.Text = text
	}
	if len(res.Insights) == 0 {
		if len(resp.Suggestions) > 0 {
			res.Insights = dedupeStrings(resp.Suggestions)
		} else if len(resp.ResponseSuggestions) > 0 {
			res.Insights = dedupeStrings(resp.ResponseSuggestions)
		}
	}
	return res, nil
}

// normalizeAnalysisResult applies the default rules: the UI side must never
// observe a missing required field.
func normalizeAnalysisResult(raw rawAnalysis) AnalysisResult {
	res := AnalysisResult{
		Text:      strings.TrimSpace(raw.Text),
		Sentiment: normalizeSentiment(raw.Sentiment),
		Emotion:   normalizeEmotion(raw.Emotion),
		Priority:  normalizePriority(raw.Priority),
		Insights:  dedupeStrings(raw.Insights),
	}
	if res.Insights == nil {
		res.Insights = []string{}
	}

	score := 0.0
	if raw.SentimentScore != nil {
		score = *raw.SentimentScore
	} else if raw.Score != nil {
		score = *raw.Score
	}
	res.SentimentScore = normalizeScore(score)
	return res
}

// normalizeScore maps onto the 0-100 scale. Model confidences arrive in
// [0,1]; already-scaled values pass through, everything else is clamped.
func normalizeScore(score float64) float64 {
	if score < 0 {
		return 0
	}
	if score <= 1 {
		return score * 100
	}
	if score > 100 {
		return 100
	}
	return score
}

func normalizeSentiment(s string) Sentiment {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case string(SentimentPositive):
		return SentimentPositive
	case string(SentimentNegative):
		return SentimentNegative
	case string(SentimentMixed):
		return SentimentMixed
	default:
		return SentimentNeutral
	}
}

func normalizePriority(s string) Priority {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "high":
		return PriorityHigh
	case "low":
		return PriorityLow
	default:
		return PriorityMedium
	}
}

func normalizeEmotion(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return "neutral"
	}
	return s
}

func dedupeStrings(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		key := strings.ToLower(s)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, s)
	}
	return out
}
