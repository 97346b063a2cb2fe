package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/camisetaria/backend/internal/models"
	"github.com/camisetaria/backend/internal/storage"
)

const userColumns = "id, name, email, role, active, last_login_at, password_hash, created_at"

// CreateUser inserts a new user row.
func (s *Store) CreateUser(ctx context.Context, user models.User) (models.User, error) {
	const query = `
		INSERT INTO users (name, email, role, password_hash)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + userColumns
	row := s.pool.QueryRow(ctx, query, user.Name, user.Email, user.Role, user.PasswordHash)
	created, err := scanUser(row)
	if err != nil {
		return models.User{}, mapError(err)
	}
	return created, nil
}

// FindByEmail fetches a user by email regardless of active status. This is
// the only read that surfaces the password hash; it exists for login.
func (s *Store) FindByEmail(ctx context.Context, email string) (models.User, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return scanUser(s.pool.QueryRow(ctx, query, email))
}

// FindActiveByID fetches an active user by id. Inactive users are invisible
// here so they can never pass authentication.
func (s *Store) FindActiveByID(ctx context.Context, id int64) (models.User, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE id = $1 AND active = true`
	return scanUser(s.pool.QueryRow(ctx, query, id))
}

// ListUsers returns every user, newest first.
func (s *Store) ListUsers(ctx context.Context) ([]models.User, error) {
	const query = `SELECT ` + userColumns + ` FROM users ORDER BY created_at DESC`
	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := []models.User{}
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

// TouchLastLogin stamps the user's last successful authentication.
func (s *Store) TouchLastLogin(ctx context.Context, id int64) error {
	const query = `UPDATE users SET last_login_at = CURRENT_TIMESTAMP, updated_at = CURRENT_TIMESTAMP WHERE id = $1`
	_, err := s.pool.Exec(ctx, query, id)
	return err
}

// ToggleActive flips the user's active flag and returns the updated row.
func (s *Store) ToggleActive(ctx context.Context, id int64) (models.User, error) {
	const query = `
		UPDATE users
		SET active = NOT active, updated_at = CURRENT_TIMESTAMP
		WHERE id = $1
		RETURNING ` + userColumns
	return scanUser(s.pool.QueryRow(ctx, query, id))
}

// EnsureAdmin seeds an administrator account if the email is not taken yet.
// Called once at startup; a no-op when the row already exists.
func (s *Store) EnsureAdmin(ctx context.Context, name, email, passwordHash string) error {
	const query = `
		INSERT INTO users (name, email, role, password_hash)
		VALUES ($1, $2, 'ADMIN', $3)
		ON CONFLICT (email) DO NOTHING`
	_, err := s.pool.Exec(ctx, query, name, email, passwordHash)
	return err
}

func scanUser(row pgx.Row) (models.User, error) {
	var user models.User
	err := row.Scan(&user.ID, &user.Name, &user.Email, &user.Role, &user.Active,
		&user.LastLoginAt, &user.PasswordHash, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.User{}, storage.ErrNotFound
		}
		return models.User{}, err
	}
	return user, nil
}
