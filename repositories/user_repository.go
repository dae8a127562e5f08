package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dosada05/tournament-registry/models"
	"github.com/lib/pq"
)

var ErrUserNotFound = errors.New("user not found")

// UserLookup resolves organizer names for tournament reads.
type UserLookup interface {
	// GetUsernames resolves many ids in one round trip. Unknown ids are absent from the result.
	GetUsernames(ctx context.Context, ids []int) (map[int]string, error)
}

type UserRepository interface {
	UserLookup
	GetByID(ctx context.Context, id int) (*models.User, error)
}

type postgresUserRepository struct {
	db *sql.DB
}

func NewPostgresUserRepository(db *sql.DB) UserRepository {
	return &postgresUserRepository{db: db}
}

func (r *postgresUserRepository) GetByID(ctx context.Context, id int) (*models.User, error) {
	query := `
		SELECT user_id, username, password_hash, role
		FROM users
		WHERE user_id = $1`

	user := &models.User{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&user.ID,
		&user.Username,
		&user.PasswordHash,
		&user.Role,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to scan user %d: %w", id, err)
	}
	return user, nil
}

func (r *postgresUserRepository) GetUsernames(ctx context.Context, ids []int) (map[int]string, error) {
	usernames := make(map[int]string, len(ids))
	if len(ids) == 0 {
		return usernames, nil
	}

	// Дубликаты убираем до запроса, чтобы массив был минимальным.
	seen := make(map[int]struct{}, len(ids))
	unique := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, int64(id))
	}

	query := `SELECT user_id, username FROM users WHERE user_id = ANY($1)`
	rows, err := r.db.QueryContext(ctx, query, pq.Array(unique))
	if err != nil {
		return nil, fmt.Errorf("failed to query usernames: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			id       int
			username string
		)
		if err := rows.Scan(&id, &username); err != nil {
			return nil, fmt.Errorf("failed to scan username: %w", err)
		}
		usernames[id] = username
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error during username rows iteration: %w", err)
	}
	return usernames, nil
}
