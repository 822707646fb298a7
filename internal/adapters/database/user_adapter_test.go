package database

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vendorshub/backend/internal/domain/entities"
	apperrors "github.com/vendorshub/backend/pkg/errors"
)

var userRowColumns = []string{"id", "name", "email", "password_hash", "role", "created_at"}

func TestUserAdapter_CreateAndLookup(t *testing.T) {
	client, mock := setupMockDB(t)
	adapter := NewUserAdapter(client)
	now := time.Now().UTC()

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO "users"`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta(`FROM "users" WHERE ("email" = 'asha@example.com')`)).
		WillReturnRows(sqlmock.NewRows(userRowColumns).
			AddRow("u1", "Asha", "asha@example.com", "hash", "customer", now))

	err := adapter.Create(context.Background(), &entities.User{
		ID: "u1", Name: "Asha", Email: "asha@example.com", PasswordHash: "hash", Role: entities.RoleCustomer, CreatedAt: now,
	})
	require.NoError(t, err)

	user, err := adapter.GetByEmail(context.Background(), "asha@example.com")
	require.NoError(t, err)
	assert.Equal(t, entities.RoleCustomer, user.Role)
	assert.Equal(t, "hash", user.PasswordHash)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserAdapter_Create_DuplicateEmail(t *testing.T) {
	client, mock := setupMockDB(t)
	adapter := NewUserAdapter(client)

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO "users"`)).
		WillReturnError(&pq.Error{Code: "23505"})

	err := adapter.Create(context.Background(), &entities.User{ID: "u2", Email: "dup@example.com"})
	assert.True(t, apperrors.Is(err, apperrors.ErrorTypeConflict))
}

func TestUserAdapter_GetByIDs(t *testing.T) {
	client, mock := setupMockDB(t)
	adapter := NewUserAdapter(client)
	now := time.Now().UTC()

	mock.ExpectQuery(regexp.QuoteMeta(`WHERE ("id" IN ('u1', 'u2'))`)).
		WillReturnRows(sqlmock.NewRows(userRowColumns).
			AddRow("u2", "Ravi", "ravi@example.com", "h", "customer", now).
			AddRow("u1", "Asha", "asha@example.com", "h", "customer", now))

	users, err := adapter.GetByIDs(context.Background(), []string{"u1", "u2"})
	require.NoError(t, err)
	assert.Len(t, users, 2)

	empty, err := adapter.GetByIDs(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
	assert.NoError(t, mock.ExpectationsWereMet())
}
