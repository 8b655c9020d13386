package model

// Risk levels reported by pattern analysis.
const (
	RiskLevelLow      = "low"
	RiskLevelModerate = "moderate"
	RiskLevelHigh     = "high"
	RiskLevelUnknown  = "unknown"
)

// PatternAnalysis is the reply of the pattern-analysis endpoint.
type PatternAnalysis struct {
	Analysis        string   `json:"analysis"`
	RiskLevel       string   `json:"riskLevel"`
	Recommendations []string `json:"recommendations"`
	Insights        string   `json:"insights,omitempty"`
}

// EventSummary is the aggregate handed to the gateway for analysis.
type EventSummary struct {
	TotalEvents      int                 `json:"totalEvents"`
	FallDetections   int                 `json:"fallDetections"`
	ManualAlerts     int                 `json:"manualAlerts"`
	NormalActivities int                 `json:"normalActivities"`
	RecentEvents     []EventSummaryEntry `json:"recentEvents"`
}

type EventSummaryEntry struct {
	Type       string   `json:"type"`
	Confidence *float64 `json:"confidence"`
	Timestamp  string   `json:"timestamp"`
}
