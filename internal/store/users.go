package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// User is a row in the users table. PasswordHash never leaves the API layer.
type User struct {
	ID           string
	Username     string
	Email        string
	PasswordHash string
	FirstName    string
	LastName     string
	AvatarURL    string
	Status       string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type CreateUserParams struct {
	Username     string
	Email        string
	PasswordHash string
	FirstName    string
	LastName     string
}

const userColumns = `id, username, email, password_hash, first_name, last_name, avatar_url, status, created_at, updated_at`

func scanUser(row interface{ Scan(...any) error }) (User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.FirstName,
		&u.LastName, &u.AvatarURL, &u.Status, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}

// CreateUser inserts a new user and returns the stored row. The id is
// assigned here, never by callers.
func (q *Queries) CreateUser(ctx context.Context, arg CreateUserParams) (User, error) {
	id := uuid.NewString()
	now := time.Now().UTC()
	_, err := q.db.ExecContext(ctx, `
		INSERT INTO users (id, username, email, password_hash, first_name, last_name, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		id, arg.Username, arg.Email, arg.PasswordHash, arg.FirstName, arg.LastName, now, now,
	)
	if err != nil {
		return User{}, fmt.Errorf("failed to create user: %w", err)
	}
	return q.GetUserByID(ctx, id)
}

// GetUserByID fetches one user.
func (q *Queries) GetUserByID(ctx context.Context, id string) (User, error) {
	row := q.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id)
	u, err := scanUser(row)
	if err != nil {
		return User{}, notFound(err)
	}
	return u, nil
}

// GetUserByLogin fetches a user by username or email.
func (q *Queries) GetUserByLogin(ctx context.Context, login string) (User, error) {
	row := q.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE username = ? OR email = ?`, login, login)
	u, err := scanUser(row)
	if err != nil {
		return User{}, notFound(err)
	}
	return u, nil
}

type SearchUsersParams struct {
	Query         string
	ExcludeUserID string
	Limit         int
}

// SearchUsers finds users whose username or name matches the query,
// excluding the caller.
func (q *Queries) SearchUsers(ctx context.Context, arg SearchUsersParams) ([]User, error) {
	limit := arg.Limit
	if limit <= 0 {
		limit = 20
	}
	pattern := "%" + strings.ToLower(arg.Query) + "%"
	rows, err := q.db.QueryContext(ctx, `
		SELECT `+userColumns+` FROM users
		WHERE id != ?
		  AND (LOWER(username) LIKE ? OR LOWER(first_name) LIKE ? OR LOWER(last_name) LIKE ?)
		ORDER BY username
		LIMIT ?`,
		arg.ExcludeUserID, pattern, pattern, pattern, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to search users: %w", err)
	}
	defer rows.Close()

	var users []User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

type UpdateUserProfileParams struct {
	ID        string
	FirstName string
	LastName  string
	AvatarURL string
}

// UpdateUserProfile updates the mutable profile fields.
func (q *Queries) UpdateUserProfile(ctx context.Context, arg UpdateUserProfileParams) (User, error) {
	_, err := q.db.ExecContext(ctx, `
		UPDATE users SET first_name = ?, last_name = ?, avatar_url = ?, updated_at = ?
		WHERE id = ?`,
		arg.FirstName, arg.LastName, arg.AvatarURL, time.Now().UTC(), arg.ID,
	)
	if err != nil {
		return User{}, fmt.Errorf("failed to update profile: %w", err)
	}
	return q.GetUserByID(ctx, arg.ID)
}

// UpdateUserStatus records the user's presence status ("online"/"offline").
func (q *Queries) UpdateUserStatus(ctx context.Context, id, status string) error {
	_, err := q.db.ExecContext(ctx,
		`UPDATE users SET status = ?, updated_at = ? WHERE id = ?`,
		status, time.Now().UTC(), id,
	)
	if err != nil {
		return fmt.Errorf("failed to update user status: %w", err)
	}
	return nil
}
