package notifier

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/vertiguard/vertiguard-api/internal/model"
	"github.com/vertiguard/vertiguard-api/internal/repository"
	"github.com/vertiguard/vertiguard-api/pkg/errors"
)

// Service performs the alert fan-out: one best-effort delivery pass
// over all of the user's emergency contacts. Deliveries to distinct
// contacts run concurrently and independently; the result is only
// available once every attempt settles. There is no retry, no queue
// and no idempotency: a second call for the same event resends to
// everyone.
type Service interface {
	Notify(ctx context.Context, auth model.AuthContext, eventType string, eventID uuid.UUID) (*model.NotifyResult, error)
}

type service struct {
	contactRepo repository.ContactRepository
	userRepo    repository.UserRepository
	notifRepo   repository.NotificationRepository
	sender      Sender
	logger      *zerolog.Logger
}

func NewService(
	contactRepo repository.ContactRepository,
	userRepo repository.UserRepository,
	notifRepo repository.NotificationRepository,
	sender Sender,
	logger *zerolog.Logger,
) Service {
	return &service{
		contactRepo: contactRepo,
		userRepo:    userRepo,
		notifRepo:   notifRepo,
		sender:      sender,
		logger:      logger,
	}
}

func (s *service) Notify(ctx context.Context, auth model.AuthContext, eventType string, eventID uuid.UUID) (*model.NotifyResult, error) {
	contacts, err := s.contactRepo.ListByUser(ctx, auth.UserID)
	if err != nil {
		return nil, errors.Persistence("load emergency contacts", err)
	}

	if len(contacts) == 0 {
		s.logger.Info().
			Str("user_id", auth.UserID.String()).
			Msg("no emergency contacts configured")
		return &model.NotifyResult{Delivered: 0, Total: 0, NoContacts: true}, nil
	}

	userName := s.resolveUserName(ctx, auth)
	sentAt := time.Now()

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		delivered int
	)

	for _, contact := range contacts {
		wg.Add(1)
		go func(contact *model.EmergencyContact) {
			defer wg.Done()

			attempt := &model.NotificationAttempt{
				ID:        uuid.New(),
				EventID:   eventID,
				ContactID: contact.ID,
				Channel:   s.sender.Channel(),
				SentAt:    sentAt,
				Message:   alertMessage(contact.Name, userName, eventType, sentAt),
			}

			if s.deliver(contact, attempt, "VertiGuard Alert: "+eventType) {
				mu.Lock()
				delivered++
				mu.Unlock()
			}

			// Attempt rows are a log; a failed write never changes the
			// fan-out outcome.
			if err := s.notifRepo.CreateAttempt(ctx, attempt); err != nil {
				s.logger.Warn().Err(err).
					Str("contact_id", contact.ID.String()).
					Msg("failed to record notification attempt")
			}
		}(contact)
	}
	wg.Wait()

	result := &model.NotifyResult{Delivered: delivered, Total: len(contacts)}
	s.logger.Info().
		Str("user_id", auth.UserID.String()).
		Str("event_id", eventID.String()).
		Str("event_type", eventType).
		Int("delivered", result.Delivered).
		Int("total", result.Total).
		Msg("alert fan-out complete")
	return result, nil
}

func (s *service) deliver(contact *model.EmergencyContact, attempt *model.NotificationAttempt, subject string) bool {
	address, ok := s.sender.Address(contact)
	if !ok {
		attempt.Status = model.AttemptStatusFailed
		s.logger.Warn().
			Str("contact_id", contact.ID.String()).
			Str("channel", attempt.Channel).
			Msg("contact has no usable delivery address")
		return false
	}

	if err := s.sender.Send(address, subject, attempt.Message); err != nil {
		attempt.Status = model.AttemptStatusFailed
		s.logger.Error().Err(err).
			Str("contact_id", contact.ID.String()).
			Msg("notification delivery failed")
		return false
	}

	if s.sender.Channel() == "sms" {
		attempt.Status = model.AttemptStatusSimulated
	} else {
		attempt.Status = model.AttemptStatusSent
	}
	return true
}

// resolveUserName falls back from display name to account email to a
// generic label, so alert messages always name somebody.
func (s *service) resolveUserName(ctx context.Context, auth model.AuthContext) string {
	user, err := s.userRepo.Get(ctx, auth.UserID)
	if err == nil {
		return user.NotifyName()
	}
	s.logger.Warn().Err(err).Msg("failed to load user profile for alert templating")
	if auth.Email != "" {
		return auth.Email
	}
	return "A VertiGuard user"
}

func alertMessage(contactName, userName, eventType string, at time.Time) string {
	return fmt.Sprintf(
		"Hi %s. ALERT: %s has triggered a %s alert at %s. Please check on them immediately.",
		contactName, userName, eventType, at.Format(time.RFC1123),
	)
}
