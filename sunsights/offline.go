package sunsights

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/responses"

	"github.com/sunsightshq/sunsights-cli/sunsights/fileutils"
	"github.com/sunsightshq/sunsights-cli/sunsights/provider"
)

// OfflineAnalyzer classifies text without the Sunsights backend, using the
// OpenAI structured-outputs API. The backend derives priority from sentiment
// score and emotion; the offline path applies the same rule locally so both
// paths produce comparable results.
type OfflineAnalyzer struct {
	client *openai.Client
	model  string
}

// NewOfflineAnalyzer requires an API key and a model name.
func NewOfflineAnalyzer(apiKey, model string) (*OfflineAnalyzer, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("offline analyzer: api key is empty")
	}
	if strings.TrimSpace(model) == "" {
		return nil, errors.New("offline analyzer: model is empty")
	}
	client := openai.NewClient(option.WithAPIKey(apiKey))
	return &OfflineAnalyzer{client: &client, model: model}, nil
}

// offlineClassification is the model-produced classification for one text.
type offlineClassification struct {
	// Sentiment is POSITIVE or NEGATIVE, mirroring the binary model the
	// backend runs.
	Sentiment string `json:"sentiment"`

	// Score is the classifier confidence in [0,1] for the chosen sentiment.
	Score float64 `json:"score"`

	// Emotion is one of joy, sadness, anger, fear, surprise, love, neutral.
	Emotion string `json:"emotion"`

	// Insights are up to three short response suggestions for the author.
	Insights []string `json:"insights"`
}

var offlineSchema = provider.GenerateSchema[offlineClassification]()

const offlineInstructions = `You are a sentiment and emotion classifier for short customer comments.
Classify the user's text and answer in JSON only.

Rules:
- sentiment: "POSITIVE" or "NEGATIVE" (pick the dominant tone).
- score: your confidence in the chosen sentiment, between 0 and 1.
- emotion: exactly one of joy, sadness, anger, fear, surprise, love, neutral.
- insights: up to three short suggestions for responding to the comment.`

// Analyze classifies text and returns the same normalized AnalysisResult the
// backend path yields.
func (a *OfflineAnalyzer) Analyze(ctx context.Context, text string) (AnalysisResult, error) {
	if strings.TrimSpace(text) == "" {
		return AnalysisResult{}, errors.New("text must not be empty")
	}

	format := responses.ResponseFormatTextConfigUnionParam{
		OfJSONSchema: &responses.ResponseFormatTextJSONSchemaConfigParam{
			Name:        "SentimentClassification",
			Schema:      offlineSchema,
			Strict:      openai.Bool(true),
			Description: openai.String("Sentiment classification JSON"),
			Type:        "json_schema",
		},
	}

	params := responses.ResponseNewParams{
		Model:           a.model,
		MaxOutputTokens: openai.Int(400),
		Instructions:    openai.String(offlineInstructions),
		Input: responses.ResponseNewParamsInputUnion{
			OfInputItemList: []responses.ResponseInputItemUnionParam{
				responses.ResponseInputItemParamOfMessage(text, responses.EasyInputMessageRoleUser),
			},
		},
		Text: responses.ResponseTextConfigParam{
			Format: format,
		},
	}

	resp, err := provider.CallWithRetry(ctx, a.client, params)
	if err != nil {
		return AnalysisResult{}, fmt.Errorf("offline classify: %w", err)
	}

	var out offlineClassification
	if err := fileutils.DecodeModelJSON(resp.OutputText(), &out); err != nil {
		return AnalysisResult{}, fmt.Errorf("unmarshal classification: %w", err)
	}
	return finishOfflineResult(text, out), nil
}

func finishOfflineResult(text string, out offlineClassification) AnalysisResult {
	sentiment := normalizeSentiment(out.Sentiment)
	emotion := normalizeEmotion(out.Emotion)

	// Fold the binary confidence onto the positive-sentiment axis before
	// deriving priority, the same transform the backend applies.
	axisScore := out.Score
	if sentiment != SentimentPositive {
		axisScore = 1 - out.Score
	}

	res := AnalysisResult{
		Text:           text,
		Sentiment:      sentiment,
		SentimentScore: normalizeScore(axisScore),
		Emotion:        emotion,
		Priority:       PriorityFor(axisScore, emotion),
		Insights:       dedupeStrings(out.Insights),
	}
	if res.Insights == nil {
		res.Insights = []string{}
	}
	return res
}

// PriorityFor derives the urgency tier from a positive-axis sentiment score
// in [0,1] and an emotion label, matching the backend's rule: very negative
// sentiment or a distressed emotion escalates.
func PriorityFor(sentimentScore float64, emotion string) Priority {
	emotion = strings.ToLower(strings.TrimSpace(emotion))
	distressed := emotion == "anger" || emotion == "sadness"

	switch {
	case sentimentScore < 0.3:
		return PriorityHigh
	case distressed && sentimentScore < 0.5:
		return PriorityHigh
	case sentimentScore < 0.4 || distressed:
		return PriorityMedium
	default:
		return PriorityLow
	}
}
