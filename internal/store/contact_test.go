package store

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/folioweb/siteserver/types"
	"github.com/stretchr/testify/require"
)

func TestContactRepositoryCreate(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewContactRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO contacts")).
		WithArgs("dave@example.com", "0123456789", "hello there").
		WillReturnResult(sqlmock.NewResult(1, 1))

	err := repo.Create(context.Background(), types.ContactMessage{
		Email:   "dave@example.com",
		Phone:   "0123456789",
		Message: "hello there",
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestContactRepositoryCreateError(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewContactRepository(db)

	boom := errors.New("connection refused")
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO contacts")).
		WillReturnError(boom)

	err := repo.Create(context.Background(), types.ContactMessage{
		Email:   "dave@example.com",
		Phone:   "0123456789",
		Message: "hello there",
	})
	require.ErrorIs(t, err, boom)
}
