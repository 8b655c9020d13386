package classifier

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vertiguard/vertiguard-api/internal/aiclient"
	"github.com/vertiguard/vertiguard-api/internal/config"
	"github.com/vertiguard/vertiguard-api/internal/model"
	"github.com/vertiguard/vertiguard-api/pkg/errors"
)

type fakeGateway struct {
	reply string
	err   error
	calls int
}

func (f *fakeGateway) Complete(ctx context.Context, messages []aiclient.Message) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return f.reply, nil
}

func testLogger() *zerolog.Logger {
	l := zerolog.Nop()
	return &l
}

func quietWindow(samples int) model.SensorWindow {
	window := make(model.SensorWindow, samples)
	for i := range window {
		window[i] = []float64{0.1, 0.9, 0.05, 0.01, 0.02, 0.01}
	}
	return window
}

func TestSummarize(t *testing.T) {
	window := model.SensorWindow{
		{1, 2, 3, 0.1, 0.2, 0.3},
		{3, 2, 1, 0.3, 0.2, 0.1},
	}

	summary, err := Summarize(window)
	require.NoError(t, err)

	assert.Equal(t, 2, summary.Samples)
	assert.InDelta(t, 2.0, summary.AvgAccelX, 1e-9)
	assert.InDelta(t, 2.0, summary.AvgAccelY, 1e-9)
	assert.InDelta(t, 2.0, summary.AvgAccelZ, 1e-9)
	assert.InDelta(t, 0.2, summary.AvgGyroX, 1e-9)
	assert.InDelta(t, 0.2, summary.AvgGyroZ, 1e-9)
	// Both rows have the same magnitude, sqrt(1+4+9).
	assert.InDelta(t, 3.7416573867739413, summary.MaxAccelMagnitude, 1e-9)
	assert.InDelta(t, 0.3741657386773941, summary.MaxGyroMagnitude, 1e-9)
}

func TestSummarizeRejectsMalformedWindows(t *testing.T) {
	_, err := Summarize(model.SensorWindow{})
	assert.Error(t, err)

	_, err = Summarize(model.SensorWindow{{1, 2, 3}})
	assert.Error(t, err)
}

func TestClassifyInvalidWindow(t *testing.T) {
	gateway := &fakeGateway{reply: "unused"}
	svc := NewService(gateway, testLogger())

	_, err := svc.Classify(context.Background(), model.SensorWindow{{1, 2}})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrInvalidInput))
	assert.Zero(t, gateway.calls, "no gateway call on malformed input")
}

func TestClassifyGatewayFailure(t *testing.T) {
	gateway := &fakeGateway{err: fmt.Errorf("connection refused")}
	svc := NewService(gateway, testLogger())

	_, err := svc.Classify(context.Background(), quietWindow(10))
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrClassificationUnavailable))
}

func TestClassifyGateway500AbortsCycle(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "internal error", http.StatusInternalServerError)
	}))
	defer srv.Close()

	ai := aiclient.New(config.AIConfig{BaseURL: srv.URL, Model: "test"}, testLogger())
	svc := NewService(ai, testLogger())

	_, err := svc.Classify(context.Background(), quietWindow(10))
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrClassificationUnavailable),
		"a failing gateway never yields a substitute classification")
}

func TestClassifyParsesEmbeddedJSON(t *testing.T) {
	gateway := &fakeGateway{
		reply: `Sure! Here is my assessment:
{"status": "Fall Detected", "confidence": 0.93, "reasoning": "sharp spike"}
Stay safe.`,
	}
	svc := NewService(gateway, testLogger())

	result, err := svc.Classify(context.Background(), quietWindow(10))
	require.NoError(t, err)

	assert.Equal(t, model.EventTypeFallDetected, result.Status)
	assert.InDelta(t, 0.93, result.Confidence, 1e-9)
	assert.Equal(t, model.SourceModel, result.Source)
	assert.Equal(t, "sharp spike", result.Reasoning)
	assert.True(t, result.IsFall())
}

func TestClassifyClampsConfidence(t *testing.T) {
	gateway := &fakeGateway{reply: `{"status": "Normal Activity", "confidence": 1.7}`}
	svc := NewService(gateway, testLogger())

	result, err := svc.Classify(context.Background(), quietWindow(10))
	require.NoError(t, err)
	assert.Equal(t, 1.0, result.Confidence)
}

func TestClassifyUnknownStatusFallsBack(t *testing.T) {
	// A parseable object with an unrecognized status must not leak an
	// arbitrary event type; the quiet window makes the fallback normal.
	gateway := &fakeGateway{reply: `{"status": "Cartwheel", "confidence": 0.99}`}
	svc := NewService(gateway, testLogger())

	result, err := svc.Classify(context.Background(), quietWindow(10))
	require.NoError(t, err)

	assert.Equal(t, model.EventTypeNormalActivity, result.Status)
	assert.Equal(t, model.SourceHeuristic, result.Source)
	assert.Equal(t, fallbackNormalConfidence, result.Confidence)
}

func TestClassifyFallbackByKeyword(t *testing.T) {
	gateway := &fakeGateway{reply: "Based on the readings, a FALL DETECTED situation is likely."}
	svc := NewService(gateway, testLogger())

	result, err := svc.Classify(context.Background(), quietWindow(10))
	require.NoError(t, err)

	assert.Equal(t, model.EventTypeFallDetected, result.Status)
	assert.Equal(t, model.SourceHeuristic, result.Source)
	assert.Equal(t, fallbackFallConfidence, result.Confidence)
}

func TestClassifyFallbackByThreshold(t *testing.T) {
	// Unparseable reply plus a window whose peak acceleration exceeds
	// the threshold: deterministic fall at the fallback confidence.
	window := quietWindow(10)
	window = append(window, []float64{3.1, 8.2, 3.9, 7.1, 6.3, 7.4})

	gateway := &fakeGateway{reply: "I cannot help with that."}
	svc := NewService(gateway, testLogger())

	result, err := svc.Classify(context.Background(), window)
	require.NoError(t, err)

	assert.Equal(t, model.EventTypeFallDetected, result.Status)
	assert.Equal(t, fallbackFallConfidence, result.Confidence)
	assert.Equal(t, model.SourceHeuristic, result.Source)
}
