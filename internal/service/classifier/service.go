package classifier

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/rs/zerolog"

	"github.com/vertiguard/vertiguard-api/internal/aiclient"
	"github.com/vertiguard/vertiguard-api/internal/model"
	"github.com/vertiguard/vertiguard-api/pkg/errors"
)

const (
	// fallAccelThreshold is the max acceleration magnitude (g-equivalent
	// units) above which the fallback heuristic classifies a fall.
	fallAccelThreshold = 2.5

	fallbackFallConfidence   = 0.85
	fallbackNormalConfidence = 0.90
)

const systemPrompt = `You are a fall detection AI analyzing accelerometer and gyroscope sensor data.
Analyze the data and determine if it indicates a fall or normal activity.

A fall typically shows:
- High acceleration magnitude (>2.5g combined)
- Sudden changes in gyroscope readings
- Sharp spikes followed by reduced movement

Respond with a JSON object containing:
{
  "status": "Fall Detected" or "Normal Activity",
  "confidence": <number between 0 and 1>,
  "reasoning": "<brief explanation>"
}`

// Service is the classifier proxy: it summarizes a sensor window,
// forwards the summary to the external gateway and normalizes the free
// text reply into a ClassificationResult. Stateless and safe to call
// repeatedly.
type Service interface {
	Classify(ctx context.Context, window model.SensorWindow) (*model.ClassificationResult, error)
}

type service struct {
	ai     aiclient.Client
	logger *zerolog.Logger
}

func NewService(ai aiclient.Client, logger *zerolog.Logger) Service {
	return &service{ai: ai, logger: logger}
}

func (s *service) Classify(ctx context.Context, window model.SensorWindow) (*model.ClassificationResult, error) {
	summary, err := Summarize(window)
	if err != nil {
		return nil, errors.InvalidInput("invalid sensor data format", err)
	}

	s.logger.Debug().
		Int("samples", summary.Samples).
		Float64("max_accel_magnitude", summary.MaxAccelMagnitude).
		Msg("classifying sensor window")

	reply, err := s.ai.Complete(ctx, []aiclient.Message{
		{Role: "system", Content: systemPrompt},
		{Role: "user", Content: userPrompt(summary)},
	})
	if err != nil {
		return nil, errors.ClassificationUnavailable(err)
	}

	result, ok := parseReply(reply)
	if !ok {
		result = heuristic(reply, summary)
		s.logger.Warn().
			Str("status", result.Status).
			Msg("gateway reply unparseable, used threshold fallback")
	}

	result.Confidence = clamp01(result.Confidence)
	return result, nil
}

// Summarize reduces a window to the derived statistics sent to the
// gateway. It fails fast on malformed input before any network call.
func Summarize(window model.SensorWindow) (*model.WindowSummary, error) {
	if len(window) == 0 {
		return nil, fmt.Errorf("sensor window is empty")
	}

	summary := &model.WindowSummary{Samples: len(window)}
	for i, row := range window {
		if len(row) != model.SensorAxes {
			return nil, fmt.Errorf("sample %d has %d axes, want %d", i, len(row), model.SensorAxes)
		}

		summary.AvgAccelX += row[0]
		summary.AvgAccelY += row[1]
		summary.AvgAccelZ += row[2]
		summary.AvgGyroX += row[3]
		summary.AvgGyroY += row[4]
		summary.AvgGyroZ += row[5]

		accelMag := math.Sqrt(row[0]*row[0] + row[1]*row[1] + row[2]*row[2])
		if accelMag > summary.MaxAccelMagnitude {
			summary.MaxAccelMagnitude = accelMag
		}
		gyroMag := math.Sqrt(row[3]*row[3] + row[4]*row[4] + row[5]*row[5])
		if gyroMag > summary.MaxGyroMagnitude {
			summary.MaxGyroMagnitude = gyroMag
		}
	}

	n := float64(summary.Samples)
	summary.AvgAccelX /= n
	summary.AvgAccelY /= n
	summary.AvgAccelZ /= n
	summary.AvgGyroX /= n
	summary.AvgGyroY /= n
	summary.AvgGyroZ /= n

	return summary, nil
}

func userPrompt(s *model.WindowSummary) string {
	return fmt.Sprintf(`Analyze this sensor data:
Samples: %d
Average Acceleration (x,y,z): %.2f, %.2f, %.2f
Average Gyroscope (x,y,z): %.2f, %.2f, %.2f
Max Acceleration Magnitude: %.2f
Max Gyroscope Magnitude: %.2f

Is this a fall or normal activity?`,
		s.Samples,
		s.AvgAccelX, s.AvgAccelY, s.AvgAccelZ,
		s.AvgGyroX, s.AvgGyroY, s.AvgGyroZ,
		s.MaxAccelMagnitude, s.MaxGyroMagnitude,
	)
}

// parseReply searches the reply for the first {...} span and attempts
// to parse it. A reply whose status is not a known label counts as
// unparseable so it cannot smuggle arbitrary event types into the feed.
func parseReply(reply string) (*model.ClassificationResult, bool) {
	start := strings.Index(reply, "{")
	end := strings.LastIndex(reply, "}")
	if start < 0 || end <= start {
		return nil, false
	}

	var parsed struct {
		Status     string  `json:"status"`
		Confidence float64 `json:"confidence"`
		Reasoning  string  `json:"reasoning"`
	}
	if err := json.Unmarshal([]byte(reply[start:end+1]), &parsed); err != nil {
		return nil, false
	}
	if parsed.Status != model.EventTypeFallDetected && parsed.Status != model.EventTypeNormalActivity {
		return nil, false
	}

	return &model.ClassificationResult{
		Status:     parsed.Status,
		Confidence: parsed.Confidence,
		Source:     model.SourceModel,
		Reasoning:  parsed.Reasoning,
	}, true
}

// heuristic is the deterministic fallback: a fall if the raw reply
// mentions one or the measured peak acceleration crossed the threshold.
func heuristic(reply string, summary *model.WindowSummary) *model.ClassificationResult {
	isFall := strings.Contains(strings.ToLower(reply), "fall detected") ||
		summary.MaxAccelMagnitude > fallAccelThreshold

	result := &model.ClassificationResult{
		Source:    model.SourceHeuristic,
		Reasoning: "Analysis based on sensor thresholds",
	}
	if isFall {
		result.Status = model.EventTypeFallDetected
		result.Confidence = fallbackFallConfidence
	} else {
		result.Status = model.EventTypeNormalActivity
		result.Confidence = fallbackNormalConfidence
	}
	return result
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
