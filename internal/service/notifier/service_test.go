package notifier

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vertiguard/vertiguard-api/internal/model"
	"github.com/vertiguard/vertiguard-api/pkg/errors"
)

type fakeContactRepo struct {
	contacts []*model.EmergencyContact
	err      error
}

func (f *fakeContactRepo) Create(ctx context.Context, contact *model.EmergencyContact) error {
	f.contacts = append(f.contacts, contact)
	return nil
}

func (f *fakeContactRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]*model.EmergencyContact, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.contacts, nil
}

func (f *fakeContactRepo) Delete(ctx context.Context, userID, id uuid.UUID) error {
	return nil
}

type fakeUserRepo struct {
	user *model.User
	err  error
}

func (f *fakeUserRepo) Create(ctx context.Context, user *model.User) error { return nil }

func (f *fakeUserRepo) Get(ctx context.Context, id uuid.UUID) (*model.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.user == nil {
		return nil, fmt.Errorf("user not found")
	}
	return f.user, nil
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return f.user, nil
}

func (f *fakeUserRepo) UpdateLastLogin(ctx context.Context, id uuid.UUID) error { return nil }

type fakeNotifRepo struct {
	mu       sync.Mutex
	attempts []*model.NotificationAttempt
	err      error
}

func (f *fakeNotifRepo) CreateAttempt(ctx context.Context, attempt *model.NotificationAttempt) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.attempts = append(f.attempts, attempt)
	return nil
}

func (f *fakeNotifRepo) byStatus(status model.AttemptStatus) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, a := range f.attempts {
		if a.Status == status {
			n++
		}
	}
	return n
}

// fakeSender delivers over email addresses and fails sends addressed to
// anything listed in failFor.
type fakeSender struct {
	mu      sync.Mutex
	sent    []string
	failFor map[string]bool
}

func (f *fakeSender) Channel() string { return "email" }

func (f *fakeSender) Address(contact *model.EmergencyContact) (string, bool) {
	if contact.Email == nil || *contact.Email == "" {
		return "", false
	}
	return *contact.Email, true
}

func (f *fakeSender) Send(to, subject, body string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failFor[to] {
		return fmt.Errorf("smtp 550")
	}
	f.sent = append(f.sent, to)
	return nil
}

func testLogger() *zerolog.Logger {
	l := zerolog.Nop()
	return &l
}

func strPtr(s string) *string { return &s }

func contactWithEmail(name, email string) *model.EmergencyContact {
	return &model.EmergencyContact{
		Base:  model.Base{ID: uuid.New()},
		Name:  name,
		Email: strPtr(email),
	}
}

func newTestService(contacts *fakeContactRepo, users *fakeUserRepo, attempts *fakeNotifRepo, sender Sender) Service {
	return NewService(contacts, users, attempts, sender, testLogger())
}

func testAuth() model.AuthContext {
	return model.AuthContext{UserID: uuid.New(), Email: "casey@example.com"}
}

func TestNotifyNoContacts(t *testing.T) {
	svc := newTestService(&fakeContactRepo{}, &fakeUserRepo{}, &fakeNotifRepo{}, &fakeSender{})

	result, err := svc.Notify(context.Background(), testAuth(), model.EventTypeFallDetected, uuid.New())
	require.NoError(t, err)

	assert.Equal(t, 0, result.Delivered)
	assert.Equal(t, 0, result.Total)
	assert.True(t, result.NoContacts)
}

func TestNotifyContactListFailure(t *testing.T) {
	contacts := &fakeContactRepo{err: fmt.Errorf("connection reset")}
	svc := newTestService(contacts, &fakeUserRepo{}, &fakeNotifRepo{}, &fakeSender{})

	_, err := svc.Notify(context.Background(), testAuth(), model.EventTypeFallDetected, uuid.New())
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrPersistence))
}

func TestNotifyDeliversToAllContacts(t *testing.T) {
	contacts := &fakeContactRepo{contacts: []*model.EmergencyContact{
		contactWithEmail("Jamie", "jamie@example.com"),
		contactWithEmail("Morgan", "morgan@example.com"),
	}}
	attempts := &fakeNotifRepo{}
	sender := &fakeSender{}
	svc := newTestService(contacts, &fakeUserRepo{}, attempts, sender)

	result, err := svc.Notify(context.Background(), testAuth(), model.EventTypeFallDetected, uuid.New())
	require.NoError(t, err)

	assert.Equal(t, 2, result.Delivered)
	assert.Equal(t, 2, result.Total)
	assert.False(t, result.NoContacts)
	assert.Len(t, sender.sent, 2)
	assert.Equal(t, 2, attempts.byStatus(model.AttemptStatusSent))
}

func TestNotifyPartialFailure(t *testing.T) {
	contacts := &fakeContactRepo{contacts: []*model.EmergencyContact{
		contactWithEmail("Jamie", "jamie@example.com"),
		contactWithEmail("Morgan", "morgan@example.com"),
		{Base: model.Base{ID: uuid.New()}, Name: "NoAddress"},
	}}
	attempts := &fakeNotifRepo{}
	sender := &fakeSender{failFor: map[string]bool{"morgan@example.com": true}}
	svc := newTestService(contacts, &fakeUserRepo{}, attempts, sender)

	result, err := svc.Notify(context.Background(), testAuth(), model.EventTypeManualAlert, uuid.New())
	require.NoError(t, err, "partial failure is reported as a ratio, not an error")

	assert.Equal(t, 1, result.Delivered)
	assert.Equal(t, 3, result.Total)
	assert.Equal(t, 1, attempts.byStatus(model.AttemptStatusSent))
	assert.Equal(t, 2, attempts.byStatus(model.AttemptStatusFailed))
}

func TestNotifyResendsOnSecondCall(t *testing.T) {
	contacts := &fakeContactRepo{contacts: []*model.EmergencyContact{
		contactWithEmail("Jamie", "jamie@example.com"),
	}}
	sender := &fakeSender{}
	svc := newTestService(contacts, &fakeUserRepo{}, &fakeNotifRepo{}, sender)

	auth := testAuth()
	eventID := uuid.New()
	_, err := svc.Notify(context.Background(), auth, model.EventTypeFallDetected, eventID)
	require.NoError(t, err)
	_, err = svc.Notify(context.Background(), auth, model.EventTypeFallDetected, eventID)
	require.NoError(t, err)

	assert.Len(t, sender.sent, 2, "no idempotency: every call resends")
}

func TestNotifyAttemptWriteFailureDoesNotGateOutcome(t *testing.T) {
	contacts := &fakeContactRepo{contacts: []*model.EmergencyContact{
		contactWithEmail("Jamie", "jamie@example.com"),
	}}
	attempts := &fakeNotifRepo{err: fmt.Errorf("disk full")}
	svc := newTestService(contacts, &fakeUserRepo{}, attempts, &fakeSender{})

	result, err := svc.Notify(context.Background(), testAuth(), model.EventTypeFallDetected, uuid.New())
	require.NoError(t, err)
	assert.Equal(t, 1, result.Delivered)
}

func TestNotifyMessageUsesDisplayName(t *testing.T) {
	display := "Casey"
	users := &fakeUserRepo{user: &model.User{
		Email:       "casey@example.com",
		DisplayName: &display,
	}}
	contacts := &fakeContactRepo{contacts: []*model.EmergencyContact{
		contactWithEmail("Jamie", "jamie@example.com"),
	}}
	attempts := &fakeNotifRepo{}
	svc := newTestService(contacts, users, attempts, &fakeSender{})

	_, err := svc.Notify(context.Background(), testAuth(), model.EventTypeFallDetected, uuid.New())
	require.NoError(t, err)

	require.Len(t, attempts.attempts, 1)
	msg := attempts.attempts[0].Message
	assert.Contains(t, msg, "Hi Jamie")
	assert.Contains(t, msg, "Casey has triggered")
	assert.Contains(t, msg, model.EventTypeFallDetected)
}

func TestNotifyFallsBackToEmailWhenProfileLookupFails(t *testing.T) {
	users := &fakeUserRepo{err: fmt.Errorf("not found")}
	contacts := &fakeContactRepo{contacts: []*model.EmergencyContact{
		contactWithEmail("Jamie", "jamie@example.com"),
	}}
	attempts := &fakeNotifRepo{}
	svc := newTestService(contacts, users, attempts, &fakeSender{})

	_, err := svc.Notify(context.Background(), testAuth(), model.EventTypeManualAlert, uuid.New())
	require.NoError(t, err)

	require.Len(t, attempts.attempts, 1)
	assert.Contains(t, attempts.attempts[0].Message, "casey@example.com has triggered")
}
