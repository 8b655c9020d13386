package event

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/vertiguard/vertiguard-api/internal/model"
	"github.com/vertiguard/vertiguard-api/internal/repository"
	"github.com/vertiguard/vertiguard-api/pkg/errors"
	"github.com/vertiguard/vertiguard-api/pkg/messaging"
)

// Service is the Event Store surface: append events, read them back
// newest-first, and subscribe to inserts for one owner. The change feed
// is a broker channel per user, so the dashboard can refresh without a
// vendor live-query.
type Service interface {
	Record(ctx context.Context, auth model.AuthContext, eventType string, confidence *float64) (*model.Event, error)
	Get(ctx context.Context, auth model.AuthContext, id uuid.UUID) (*model.Event, error)
	List(ctx context.Context, auth model.AuthContext, limit int) ([]*model.Event, error)
	Subscribe(ctx context.Context, auth model.AuthContext) (<-chan []byte, error)
}

type service struct {
	repo   repository.EventRepository
	broker messaging.Broker
	logger *zerolog.Logger
}

func NewService(repo repository.EventRepository, broker messaging.Broker, logger *zerolog.Logger) Service {
	return &service{repo: repo, broker: broker, logger: logger}
}

// ChannelFor names the broker channel carrying inserts for one user.
func ChannelFor(userID uuid.UUID) string {
	return fmt.Sprintf("events:%s", userID)
}

func (s *service) Record(ctx context.Context, auth model.AuthContext, eventType string, confidence *float64) (*model.Event, error) {
	if !model.ValidEventType(eventType) {
		return nil, errors.InvalidInput(fmt.Sprintf("unknown event type %q", eventType), nil)
	}

	event := &model.Event{
		Base:            model.Base{ID: uuid.New()},
		UserID:          auth.UserID,
		EventType:       eventType,
		ConfidenceScore: confidence,
	}

	if err := s.repo.Create(ctx, event); err != nil {
		return nil, errors.Persistence("record event", err)
	}

	// The event row is durable at this point; a publish failure only
	// delays the feed refresh.
	if err := s.broker.Publish(ctx, ChannelFor(auth.UserID), event); err != nil {
		s.logger.Warn().Err(err).
			Str("event_id", event.ID.String()).
			Msg("failed to publish event insert")
	}

	return event, nil
}

func (s *service) Get(ctx context.Context, auth model.AuthContext, id uuid.UUID) (*model.Event, error) {
	event, err := s.repo.Get(ctx, auth.UserID, id)
	if err != nil {
		return nil, errors.NotFound("event", err)
	}
	return event, nil
}

func (s *service) List(ctx context.Context, auth model.AuthContext, limit int) ([]*model.Event, error) {
	events, err := s.repo.ListByUser(ctx, auth.UserID, limit)
	if err != nil {
		return nil, errors.Persistence("list events", err)
	}
	return events, nil
}

func (s *service) Subscribe(ctx context.Context, auth model.AuthContext) (<-chan []byte, error) {
	return s.broker.Subscribe(ctx, ChannelFor(auth.UserID))
}
