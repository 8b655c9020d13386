package contact

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vertiguard/vertiguard-api/internal/model"
	"github.com/vertiguard/vertiguard-api/pkg/errors"
)

type fakeRepo struct {
	contacts  []*model.EmergencyContact
	createErr error
	deleteErr error
}

func (f *fakeRepo) Create(ctx context.Context, contact *model.EmergencyContact) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.contacts = append(f.contacts, contact)
	return nil
}

func (f *fakeRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]*model.EmergencyContact, error) {
	return f.contacts, nil
}

func (f *fakeRepo) Delete(ctx context.Context, userID, id uuid.UUID) error {
	return f.deleteErr
}

func testLogger() *zerolog.Logger {
	l := zerolog.Nop()
	return &l
}

func testAuth() model.AuthContext {
	return model.AuthContext{UserID: uuid.New()}
}

func TestCreateContact(t *testing.T) {
	repo := &fakeRepo{}
	svc := NewService(repo, testLogger())
	auth := testAuth()

	contact, err := svc.Create(context.Background(), auth, &model.CreateContactRequest{
		Name:  "Jamie",
		Phone: "+1 (555) 123-4567",
		Email: "jamie@example.com",
	})
	require.NoError(t, err)

	assert.Equal(t, auth.UserID, contact.UserID)
	assert.Equal(t, "Jamie", contact.Name)
	require.NotNil(t, contact.Phone)
	assert.Equal(t, "+1 (555) 123-4567", *contact.Phone)
	require.NotNil(t, contact.Email)
	assert.Equal(t, "jamie@example.com", *contact.Email)
	assert.Len(t, repo.contacts, 1)
}

func TestCreateContactValidation(t *testing.T) {
	svc := NewService(&fakeRepo{}, testLogger())
	auth := testAuth()

	tests := []struct {
		name string
		req  *model.CreateContactRequest
	}{
		{"missing name", &model.CreateContactRequest{Phone: "+1 555 123 4567"}},
		{"no phone or email", &model.CreateContactRequest{Name: "Jamie"}},
		{"phone too short", &model.CreateContactRequest{Name: "Jamie", Phone: "12345"}},
		{"phone with letters", &model.CreateContactRequest{Name: "Jamie", Phone: "555-CALL-NOW1"}},
		{"bad email", &model.CreateContactRequest{Name: "Jamie", Email: "not-an-email"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), auth, tt.req)
			require.Error(t, err)
			assert.True(t, errors.Is(err, errors.ErrInvalidInput))
		})
	}
}

func TestCreateContactPhoneOnly(t *testing.T) {
	svc := NewService(&fakeRepo{}, testLogger())

	contact, err := svc.Create(context.Background(), testAuth(), &model.CreateContactRequest{
		Name:  "Morgan",
		Phone: "0123456789",
	})
	require.NoError(t, err)
	assert.Nil(t, contact.Email)
	require.NotNil(t, contact.Phone)
}

func TestCreateContactEmailOnly(t *testing.T) {
	svc := NewService(&fakeRepo{}, testLogger())

	contact, err := svc.Create(context.Background(), testAuth(), &model.CreateContactRequest{
		Name:  "Morgan",
		Email: "morgan@example.com",
	})
	require.NoError(t, err)
	assert.Nil(t, contact.Phone)
}

func TestCreateContactPersistenceFailure(t *testing.T) {
	repo := &fakeRepo{createErr: fmt.Errorf("connection reset")}
	svc := NewService(repo, testLogger())

	_, err := svc.Create(context.Background(), testAuth(), &model.CreateContactRequest{
		Name:  "Jamie",
		Email: "jamie@example.com",
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrPersistence))
}

func TestDeleteMissingContact(t *testing.T) {
	repo := &fakeRepo{deleteErr: fmt.Errorf("contact not found for user")}
	svc := NewService(repo, testLogger())

	err := svc.Delete(context.Background(), testAuth(), uuid.New())
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrNotFound))
}
