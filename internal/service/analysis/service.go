package analysis

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/rs/zerolog"

	"github.com/vertiguard/vertiguard-api/internal/aiclient"
	"github.com/vertiguard/vertiguard-api/internal/model"
	"github.com/vertiguard/vertiguard-api/internal/repository"
	"github.com/vertiguard/vertiguard-api/pkg/errors"
)

const (
	analysisWindow = 50
	recentEvents   = 10

	// Analysis is an expensive external call over slow-moving data, so
	// replies are cached per user for a short period.
	cacheTTL = 5 * time.Minute
)

const systemPrompt = `You are a safety analysis AI for VertiGuard, a fall detection system. Analyze user event data and provide personalized safety recommendations. Be concise, actionable, and empathetic.

Your analysis should include:
1. Pattern identification (time of day, frequency, trends)
2. Risk assessment (low/moderate/high)
3. 3-5 specific, actionable safety recommendations
4. Positive reinforcement for good safety habits

Format your response as JSON with these fields:
{
  "analysis": "2-3 sentence summary of patterns",
  "riskLevel": "low|moderate|high",
  "recommendations": ["rec1", "rec2", "rec3"],
  "insights": "Additional helpful insights"
}`

// Service produces the fall-pattern analysis shown on the dashboard.
type Service interface {
	AnalyzePatterns(ctx context.Context, auth model.AuthContext) (*model.PatternAnalysis, error)
}

type service struct {
	eventRepo repository.EventRepository
	ai        aiclient.Client
	cache     *cache.Cache
	logger    *zerolog.Logger
}

func NewService(eventRepo repository.EventRepository, ai aiclient.Client, logger *zerolog.Logger) Service {
	return &service{
		eventRepo: eventRepo,
		ai:        ai,
		cache:     cache.New(cacheTTL, 10*time.Minute),
		logger:    logger,
	}
}

func (s *service) AnalyzePatterns(ctx context.Context, auth model.AuthContext) (*model.PatternAnalysis, error) {
	cacheKey := auth.UserID.String()
	if cached, ok := s.cache.Get(cacheKey); ok {
		return cached.(*model.PatternAnalysis), nil
	}

	events, err := s.eventRepo.ListByUser(ctx, auth.UserID, analysisWindow)
	if err != nil {
		return nil, errors.Persistence("load event history", err)
	}

	if len(events) == 0 {
		return emptyHistoryAnalysis(), nil
	}

	summary := summarize(events)

	payload, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return nil, errors.Internal(err)
	}

	reply, err := s.ai.Complete(ctx, []aiclient.Message{
		{Role: "system", Content: systemPrompt},
		{Role: "user", Content: fmt.Sprintf("Analyze this safety data and provide recommendations:\n%s", payload)},
	})
	if err != nil {
		return nil, errors.ClassificationUnavailable(err)
	}

	analysis, ok := parseReply(reply)
	if !ok {
		analysis = fallbackAnalysis(reply, summary)
		s.logger.Warn().Msg("analysis reply unparseable, used count-based fallback")
	}

	s.cache.Set(cacheKey, analysis, cache.DefaultExpiration)
	return analysis, nil
}

func summarize(events []*model.Event) *model.EventSummary {
	summary := &model.EventSummary{TotalEvents: len(events)}
	for _, e := range events {
		switch e.EventType {
		case model.EventTypeFallDetected:
			summary.FallDetections++
		case model.EventTypeManualAlert:
			summary.ManualAlerts++
		case model.EventTypeNormalActivity:
			summary.NormalActivities++
		}
	}

	n := len(events)
	if n > recentEvents {
		n = recentEvents
	}
	for _, e := range events[:n] {
		summary.RecentEvents = append(summary.RecentEvents, model.EventSummaryEntry{
			Type:       e.EventType,
			Confidence: e.ConfidenceScore,
			Timestamp:  e.CreatedAt.Format(time.RFC3339),
		})
	}
	return summary
}

// parseReply accepts either bare JSON or JSON wrapped in a markdown
// code fence, which models are fond of.
func parseReply(reply string) (*model.PatternAnalysis, bool) {
	text := reply
	if idx := strings.Index(text, "```"); idx >= 0 {
		text = text[idx+3:]
		text = strings.TrimPrefix(text, "json")
		if end := strings.Index(text, "```"); end >= 0 {
			text = text[:end]
		}
	}

	var analysis model.PatternAnalysis
	if err := json.Unmarshal([]byte(strings.TrimSpace(text)), &analysis); err != nil {
		return nil, false
	}
	if analysis.Analysis == "" {
		return nil, false
	}
	return &analysis, true
}

func fallbackAnalysis(reply string, summary *model.EventSummary) *model.PatternAnalysis {
	riskLevel := model.RiskLevelLow
	if summary.FallDetections > 5 {
		riskLevel = model.RiskLevelHigh
	} else if summary.FallDetections > 0 {
		riskLevel = model.RiskLevelModerate
	}

	return &model.PatternAnalysis{
		Analysis:  reply,
		RiskLevel: riskLevel,
		Recommendations: []string{
			"Continue monitoring your activity regularly",
			"Review your fall detection history weekly",
			"Keep emergency contacts up to date",
		},
		Insights: "Unable to parse detailed insights",
	}
}

func emptyHistoryAnalysis() *model.PatternAnalysis {
	return &model.PatternAnalysis{
		Analysis:  "No events recorded yet. Start monitoring to build your safety profile.",
		RiskLevel: model.RiskLevelUnknown,
		Recommendations: []string{
			"Begin regular monitoring sessions to establish a baseline",
			"Configure emergency contacts for safety",
			"Consider scheduling monitoring during high-risk activities",
		},
	}
}
