package postgres

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vertiguard/vertiguard-api/internal/model"
)

func TestContactCreate(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewContactRepository(db)

	phone := "+1 555 123 4567"
	contact := &model.EmergencyContact{
		Base:   model.Base{ID: uuid.New()},
		UserID: uuid.New(),
		Name:   "Jamie",
		Phone:  &phone,
	}

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO emergency_contacts")).
		WithArgs(contact.ID, contact.UserID, contact.Name, contact.Phone, contact.Email, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Create(context.Background(), contact)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestContactListByUser(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewContactRepository(db)
	userID := uuid.New()

	rows := sqlmock.NewRows([]string{"id", "user_id", "name", "phone", "email", "created_at"}).
		AddRow(uuid.New(), userID, "Jamie", "+1 555 123 4567", nil, time.Now()).
		AddRow(uuid.New(), userID, "Morgan", nil, "morgan@example.com", time.Now())

	mock.ExpectQuery(regexp.QuoteMeta("FROM emergency_contacts")).
		WithArgs(userID).
		WillReturnRows(rows)

	contacts, err := repo.ListByUser(context.Background(), userID)
	require.NoError(t, err)
	require.Len(t, contacts, 2)
	assert.Equal(t, "Jamie", contacts[0].Name)
	assert.Nil(t, contacts[0].Email)
	require.NotNil(t, contacts[1].Email)
	assert.Equal(t, "morgan@example.com", *contacts[1].Email)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestContactDelete(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewContactRepository(db)

	userID := uuid.New()
	contactID := uuid.New()

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM emergency_contacts WHERE id = $1 AND user_id = $2")).
		WithArgs(contactID, userID).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Delete(context.Background(), userID, contactID)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestContactDeleteWrongOwner(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewContactRepository(db)

	// The row exists but belongs to someone else: zero rows affected
	// must surface as an error, not silent success.
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM emergency_contacts")).
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Delete(context.Background(), uuid.New(), uuid.New())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
	assert.NoError(t, mock.ExpectationsWereMet())
}
