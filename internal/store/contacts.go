package store

import (
	"context"
	"fmt"
	"time"
)

type AddContactParams struct {
	UserID    string
	ContactID string
}

// AddContact records a one-way contact link. Returns false when the link
// already existed.
func (q *Queries) AddContact(ctx context.Context, arg AddContactParams) (bool, error) {
	res, err := q.db.ExecContext(ctx, `
		INSERT OR IGNORE INTO user_contacts (user_id, contact_id, created_at)
		VALUES (?, ?, ?)`,
		arg.UserID, arg.ContactID, time.Now().UTC(),
	)
	if err != nil {
		return false, fmt.Errorf("failed to add contact: %w", err)
	}
	inserted, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return inserted > 0, nil
}

type RemoveContactParams struct {
	UserID    string
	ContactID string
}

// RemoveContact drops a contact link. Removing an absent contact is a no-op.
func (q *Queries) RemoveContact(ctx context.Context, arg RemoveContactParams) error {
	_, err := q.db.ExecContext(ctx,
		`DELETE FROM user_contacts WHERE user_id = ? AND contact_id = ?`,
		arg.UserID, arg.ContactID,
	)
	if err != nil {
		return fmt.Errorf("failed to remove contact: %w", err)
	}
	return nil
}

// ListContacts returns the profiles of a user's contacts, ordered by
// username.
func (q *Queries) ListContacts(ctx context.Context, userID string) ([]User, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT u.id, u.username, u.email, u.password_hash, u.first_name, u.last_name,
		       u.avatar_url, u.status, u.created_at, u.updated_at
		FROM users u
		JOIN user_contacts c ON c.contact_id = u.id
		WHERE c.user_id = ?
		ORDER BY u.username`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list contacts: %w", err)
	}
	defer rows.Close()

	var out []User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}
