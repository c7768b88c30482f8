package sunsights

// Sentiment is the backend-assigned overall tone classification.
type Sentiment string

const (
	SentimentPositive Sentiment = "POSITIVE"
	SentimentNegative Sentiment = "NEGATIVE"
	SentimentNeutral  Sentiment = "NEUTRAL"
	SentimentMixed    Sentiment = "MIXED"
)

// Priority is the urgency tier the backend derives from sentiment and emotion.
type Priority string

const (
	PriorityHigh   Priority = "High"
	PriorityMedium Priority = "Medium"
	PriorityLow    Priority = "Low"
)

// User is the account identity returned by the auth endpoints.
type User struct {
	ID    int    `json:"id,omitempty"`
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

// Session pairs a bearer token with the user it authenticates.
type Session struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// AnalysisResult is the normalized per-text classification. Required fields are
// always populated: absent sentiment defaults to NEUTRAL, absent emotion to
// "neutral", absent priority to Medium, absent score to 0.
type AnalysisResult struct {
	Text string `json:"text"`

	Sentiment Sentiment `json:"sentiment"`

	// SentimentScore is on a 0-100 scale. Backends that report a 0-1
	// confidence are rescaled during normalization.
	SentimentScore float64 `json:"sentiment_score"`

	Emotion  string   `json:"emotion"`
	Priority Priority `json:"priority"`

	// Insights are optional response suggestions attached by the backend.
	Insights []string `json:"insights,omitempty"`
}

// PriorityDistribution counts results per urgency tier.
type PriorityDistribution struct {
	High   int `json:"high"`
	Medium int `json:"medium"`
	Low    int `json:"low"`
}

// BulkAnalysisSummary is the stable client-side shape of a bulk run. The raw
// backend payload is looser (see normalizeBulkPayload); this struct is what
// callers and the results pager consume.
type BulkAnalysisSummary struct {
	TotalComments   int `json:"total_comments"`
	ValidComments   int `json:"valid_comments"`
	InvalidComments int `json:"invalid_comments"`

	// AverageSentiment is on a 0-100 scale.
	AverageSentiment int `json:"average_sentiment"`

	PriorityDistribution PriorityDistribution `json:"priority_distribution"`

	SampleResults []AnalysisResult `json:"sample_results"`

	// PlaceholderSamples is set when the backend returned zero sample rows
	// and SampleResults holds the fixed illustrative set instead of real data.
	PlaceholderSamples bool `json:"placeholder_samples,omitempty"`

	InvalidExamples []string `json:"invalid_examples,omitempty"`
}

// ChartDataset is one labeled series in a chart payload.
type ChartDataset struct {
	Label string    `json:"label,omitempty"`
	Data  []float64 `json:"data"`
}

// ChartSeries is the chart-shaped payload the analytics endpoints return
// (labels plus one or more datasets). Presentation-only attributes the
// backend attaches (colors, fill hints) are dropped during decoding.
type ChartSeries struct {
	Labels   []string       `json:"labels"`
	Datasets []ChartDataset `json:"datasets"`
}

// ActivityEvent is one row of the recent-activity feed.
type ActivityEvent struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Time        string `json:"time"`
	Type        string `json:"type"`
}

// SummaryStats are the headline numbers for a time range. Absent backend
// fields are zeroed during aggregation so views never null-check.
type SummaryStats struct {
	TotalAnalyses    int     `json:"totalAnalyses"`
	AverageSentiment float64 `json:"averageSentiment"`
	ResponseRate     float64 `json:"responseRate"`
	ResponseTime     float64 `json:"responseTime"`
	LastAnalysisTime string  `json:"lastAnalysisTime,omitempty"`
}

// AnalyticsSnapshot is the aggregated analytics view model for one time range
// at one point in time. It is refreshed wholesale; there are no partial updates.
type AnalyticsSnapshot struct {
	Sentiment ChartSeries     `json:"sentiment"`
	Emotions  ChartSeries     `json:"emotions"`
	Priority  ChartSeries     `json:"priority"`
	Activity  []ActivityEvent `json:"activity"`
	Summary   SummaryStats    `json:"summary"`
}

// EmptySnapshot returns a zeroed snapshot with non-nil slices, the fallback
// shape when no aggregation has ever succeeded.
func EmptySnapshot() AnalyticsSnapshot {
	return AnalyticsSnapshot{
		Sentiment: ChartSeries{Labels: []string{}, Datasets: []ChartDataset{}},
		Emotions:  ChartSeries{Labels: []string{}, Datasets: []ChartDataset{}},
		Priority:  ChartSeries{Labels: []string{}, Datasets: []ChartDataset{}},
		Activity:  []ActivityEvent{},
	}
}

// Profile is the extended account record behind GET/PUT /api/profile.
type Profile struct {
	Email     string `json:"email"`
	Name      string `json:"name,omitempty"`
	Bio       string `json:"bio,omitempty"`
	AvatarURL string `json:"avatar_url,omitempty"`
	JoinedAt  string `json:"joined_at,omitempty"`
}

// Note is one user note from the notes CRUD endpoints.
type Note struct {
	ID        int    `json:"id"`
	Content   string `json:"content"`
	CreatedAt string `json:"created_at,omitempty"`
	UpdatedAt string `json:"updated_at,omitempty"`
}
