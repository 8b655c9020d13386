package monitor

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/vertiguard/vertiguard-api/internal/model"
	"github.com/vertiguard/vertiguard-api/internal/service/classifier"
	"github.com/vertiguard/vertiguard-api/internal/service/event"
	"github.com/vertiguard/vertiguard-api/internal/service/notifier"
)

// Result is what one monitoring cycle (or manual alert) hands back to
// the dashboard: the durable event, how it was classified, what the
// fan-out achieved and the resulting session status.
type Result struct {
	Event          *model.Event                `json:"event"`
	Classification *model.ClassificationResult `json:"classification,omitempty"`
	Notification   *model.NotifyResult         `json:"notification,omitempty"`
	Status         Status                      `json:"status"`
}

// Service orchestrates the monitoring cycle: classify, persist, fan
// out, update status. Classification and persistence failures abort
// the cycle; notifier failures never do, because the event row is
// already durable by then.
type Service interface {
	RunCycle(ctx context.Context, auth model.AuthContext, window model.SensorWindow) (*Result, error)
	ManualAlert(ctx context.Context, auth model.AuthContext) (*Result, error)
	Status(auth model.AuthContext) Status
}

type service struct {
	classifier classifier.Service
	events     event.Service
	notifier   notifier.Service
	statuses   *statusTracker
	logger     *zerolog.Logger
}

func NewService(
	classifierSvc classifier.Service,
	eventSvc event.Service,
	notifierSvc notifier.Service,
	logger *zerolog.Logger,
) Service {
	return &service{
		classifier: classifierSvc,
		events:     eventSvc,
		notifier:   notifierSvc,
		statuses:   newStatusTracker(),
		logger:     logger,
	}
}

func (s *service) RunCycle(ctx context.Context, auth model.AuthContext, window model.SensorWindow) (*Result, error) {
	classification, err := s.classifier.Classify(ctx, window)
	if err != nil {
		// Nothing is persisted on a failed classification; the status
		// stays whatever it was.
		return nil, err
	}

	confidence := classification.Confidence
	recorded, err := s.events.Record(ctx, auth, classification.Status, &confidence)
	if err != nil {
		return nil, err
	}

	result := &Result{
		Event:          recorded,
		Classification: classification,
	}

	if model.AlertWorthy(recorded.EventType) {
		result.Notification = s.fanOut(ctx, auth, recorded)
	}

	result.Status = s.statuses.apply(auth.UserID, recorded.EventType)
	return result, nil
}

func (s *service) ManualAlert(ctx context.Context, auth model.AuthContext) (*Result, error) {
	recorded, err := s.events.Record(ctx, auth, model.EventTypeManualAlert, nil)
	if err != nil {
		return nil, err
	}

	result := &Result{
		Event:        recorded,
		Notification: s.fanOut(ctx, auth, recorded),
	}
	result.Status = s.statuses.apply(auth.UserID, recorded.EventType)
	return result, nil
}

func (s *service) Status(auth model.AuthContext) Status {
	return s.statuses.get(auth.UserID)
}

// fanOut invokes the notifier best-effort. Its outcome only shapes the
// summary shown to the user, never the committed event.
func (s *service) fanOut(ctx context.Context, auth model.AuthContext, recorded *model.Event) *model.NotifyResult {
	result, err := s.notifier.Notify(ctx, auth, recorded.EventType, recorded.ID)
	if err != nil {
		s.logger.Error().Err(err).
			Str("event_id", recorded.ID.String()).
			Msg("alert fan-out failed")
		return nil
	}
	return result
}
