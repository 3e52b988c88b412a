package store

import (
	"context"
	"database/sql"
	"errors"

	"github.com/folioweb/siteserver/types"
)

// UserRepository handles persistence for users.
type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (types.User, error) {
	const query = `
		SELECT username, email, password, phone, role
		FROM users
		WHERE username = $1`
	var user types.User
	err := r.db.QueryRowContext(ctx, query, username).Scan(
		&user.Username,
		&user.Email,
		&user.PasswordHash,
		&user.Phone,
		&user.Role,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.User{}, ErrNotFound
		}
		return types.User{}, err
	}
	return user, nil
}

func (r *UserRepository) GetProfileByUsername(ctx context.Context, username string) (types.Profile, error) {
	const query = `
		SELECT username, email, phone
		FROM users
		WHERE username = $1`
	var profile types.Profile
	err := r.db.QueryRowContext(ctx, query, username).Scan(
		&profile.Username,
		&profile.Email,
		&profile.Phone,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Profile{}, ErrNotFound
		}
		return types.Profile{}, err
	}
	return profile, nil
}

// SearchUsernames returns usernames containing term, alphabetically.
func (r *UserRepository) SearchUsernames(ctx context.Context, term string) ([]string, error) {
	const query = `
		SELECT username
		FROM users
		WHERE username LIKE '%' || $1 || '%'
		ORDER BY username`
	rows, err := r.db.QueryContext(ctx, query, term)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	usernames := make([]string, 0)
	for rows.Next() {
		var username string
		if err := rows.Scan(&username); err != nil {
			return nil, err
		}
		usernames = append(usernames, username)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return usernames, nil
}

func (r *UserRepository) Create(ctx context.Context, user types.User) error {
	const query = `
		INSERT INTO users (username, email, password, phone, role)
		VALUES ($1, $2, $3, $4, $5)`
	_, err := r.db.ExecContext(
		ctx,
		query,
		user.Username,
		user.Email,
		user.PasswordHash,
		user.Phone,
		user.Role,
	)
	return err
}
