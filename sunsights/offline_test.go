package sunsights

import (
	"reflect"
	"testing"
)

func TestNewOfflineAnalyzer_Validation(t *testing.T) {
	t.Parallel()

	if _, err := NewOfflineAnalyzer("", "gpt-5-mini"); err == nil {
		t.Fatalf("empty api key accepted")
	}
	if _, err := NewOfflineAnalyzer("sk-test", " "); err == nil {
		t.Fatalf("blank model accepted")
	}
	if _, err := NewOfflineAnalyzer("sk-test", "gpt-5-mini"); err != nil {
		t.Fatalf("NewOfflineAnalyzer: %v", err)
	}
}

func TestPriorityFor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		score   float64
		emotion string
		want    Priority
	}{
		{"very negative", 0.1, "neutral", PriorityHigh},
		{"boundary below high", 0.29, "joy", PriorityHigh},
		{"anger below half", 0.45, "anger", PriorityHigh},
		{"sadness below half", 0.45, "sadness", PriorityHigh},
		{"low score alone", 0.35, "neutral", PriorityMedium},
		{"anger with ok score", 0.8, "anger", PriorityMedium},
		{"sadness with ok score", 0.6, "Sadness", PriorityMedium},
		{"fear is not escalated", 0.6, "fear", PriorityLow},
		{"happy", 0.9, "joy", PriorityLow},
		{"exactly 0.4 neutral", 0.4, "neutral", PriorityLow},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := PriorityFor(tc.score, tc.emotion); got != tc.want {
				t.Fatalf("PriorityFor(%v, %q)=%s, want %s", tc.score, tc.emotion, got, tc.want)
			}
		})
	}
}

func TestFinishOfflineResult_FoldsNegativeAxis(t *testing.T) {
	t.Parallel()

	// A confident NEGATIVE classification lands near 0 on the positive axis.
	got := finishOfflineResult("I want a refund.", offlineClassification{
		Sentiment: "NEGATIVE",
		Score:     0.75,
		Emotion:   "anger",
		Insights:  []string{"Apologize", "Apologize", "Offer a refund"},
	})
	if got.Sentiment != SentimentNegative {
		t.Fatalf("Sentiment=%s", got.Sentiment)
	}
	if got.SentimentScore != 25 {
		t.Fatalf("SentimentScore=%v, want 25", got.SentimentScore)
	}
	if got.Priority != PriorityHigh {
		t.Fatalf("Priority=%s, want High", got.Priority)
	}
	if !reflect.DeepEqual(got.Insights, []string{"Apologize", "Offer a refund"}) {
		t.Fatalf("Insights=%v, want deduped", got.Insights)
	}
}

func TestFinishOfflineResult_PositiveKeepsScore(t *testing.T) {
	t.Parallel()

	got := finishOfflineResult("Love it!", offlineClassification{
		Sentiment: "positive",
		Score:     0.75,
		Emotion:   "joy",
	})
	if got.Sentiment != SentimentPositive {
		t.Fatalf("Sentiment=%s", got.Sentiment)
	}
	if got.SentimentScore != 75 {
		t.Fatalf("SentimentScore=%v, want 75", got.SentimentScore)
	}
	if got.Priority != PriorityLow {
		t.Fatalf("Priority=%s, want Low", got.Priority)
	}
	if got.Insights == nil {
		t.Fatalf("Insights is nil, want empty slice")
	}
}
