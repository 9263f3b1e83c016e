package repository // repository for user shadow records

import (
	"context"
	"database/sql"
	"errors"

	"github.com/showtix/showtix/internal/model"
)

// UserRepo persists shadow copies of accounts owned by the external
// identity provider.  Rows are written only by the provider's webhook
// relay; the rest of the system reads them for display purposes.
type UserRepo struct {
	db *sql.DB
}

// NewUserRepo constructs a UserRepo with the given DB handle.
func NewUserRepo(db *sql.DB) *UserRepo {
	return &UserRepo{db: db}
}

// Upsert inserts a user row or refreshes its mutable fields when the id
// already exists.  Webhook deliveries are unordered and may repeat, so
// both user.created and user.updated map onto this one statement.
func (r *UserRepo) Upsert(ctx context.Context, u *model.User) error {
	const q = `INSERT INTO users (id, name, email, image) VALUES (?, ?, ?, ?)
               ON DUPLICATE KEY UPDATE name = VALUES(name), email = VALUES(email), image = VALUES(image)`
	_, err := r.db.ExecContext(ctx, q, u.ID, u.Name, u.Email, u.Image)
	return err
}

// Delete removes a user shadow row.  Deleting an unknown id is not an
// error; the provider may relay deletions for users never seen here.
func (r *UserRepo) Delete(ctx context.Context, id string) error {
	const q = `DELETE FROM users WHERE id = ?`
	_, err := r.db.ExecContext(ctx, q, id)
	return err
}

// GetByID retrieves a user shadow record.  It returns ErrUserNotFound
// when no row matches.
func (r *UserRepo) GetByID(ctx context.Context, id string) (*model.User, error) {
	const q = `SELECT id, name, email, image FROM users WHERE id = ?`
	var u model.User
	err := r.db.QueryRowContext(ctx, q, id).Scan(&u.ID, &u.Name, &u.Email, &u.Image)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

// Count returns the number of user shadow rows.
func (r *UserRepo) Count(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&n)
	return n, err
}
