package repositories

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dosada05/tournament-registry/models"
)

func newUserRepo(t *testing.T) (UserRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewPostgresUserRepository(db), mock
}

func TestUserGetByID(t *testing.T) {
	repo, mock := newUserRepo(t)

	mock.ExpectQuery(q("FROM users WHERE user_id = $1")).
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "username", "password_hash", "role"}).
			AddRow(1, "alice", "$2a$10$hash", "ROLE_USER"))

	u, err := repo.GetByID(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, &models.User{ID: 1, Username: "alice", PasswordHash: "$2a$10$hash", Role: models.RoleUser}, u)
}

func TestUserGetByIDNotFound(t *testing.T) {
	repo, mock := newUserRepo(t)

	mock.ExpectQuery(q("FROM users WHERE user_id = $1")).
		WithArgs(9).
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "username", "password_hash", "role"}))

	_, err := repo.GetByID(context.Background(), 9)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestGetUsernamesDeduplicatesIDs(t *testing.T) {
	repo, mock := newUserRepo(t)

	mock.ExpectQuery(q("SELECT user_id, username FROM users WHERE user_id = ANY($1)")).
		WithArgs("{2,1,3}").
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "username"}).
			AddRow(1, "alice").
			AddRow(2, "bob"))

	got, err := repo.GetUsernames(context.Background(), []int{2, 1, 2, 3, 1})
	require.NoError(t, err)
	assert.Equal(t, map[int]string{1: "alice", 2: "bob"}, got)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetUsernamesNoIDs(t *testing.T) {
	repo, mock := newUserRepo(t)

	got, err := repo.GetUsernames(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, got)
	require.NoError(t, mock.ExpectationsWereMet())
}
