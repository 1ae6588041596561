// Package users implements the user directory: lookup by username or email,
// insert, and last-login tracking. It stores bcrypt credential hashes;
// password verification helpers live here, token issuance does not.
package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrNotFound is returned when no user matches the lookup key.
	ErrNotFound = errors.New("users: not found")
	// ErrExists is returned when an insert collides with an existing
	// username or email.
	ErrExists = errors.New("users: username or email already taken")
)

// User is one directory entry.
type User struct {
	ID           string
	Username     string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
	LastLogin    *time.Time
}

// Directory is the SQLite-backed user directory.
type Directory struct {
	db *sql.DB
}

// NewDirectory creates a Directory backed by the given database connection.
// The caller must ensure the users table exists (migration 0002_users.sql).
func NewDirectory(db *sql.DB) *Directory {
	return &Directory{db: db}
}

// Insert stores a new user. A missing ID is filled with a fresh UUID.
// Returns ErrExists when username or email is already taken.
func (d *Directory) Insert(ctx context.Context, u *User) error {
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC()
	}

	_, err := d.db.ExecContext(ctx,
		`INSERT INTO users (id, username, email, password_hash, created_at, last_login)
		 VALUES (?, ?, ?, ?, ?, NULL)`,
		u.ID, u.Username, u.Email, u.PasswordHash, u.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return ErrExists
		}
		return fmt.Errorf("users: insert: %w", err)
	}
	return nil
}

// ByUsername returns the user with the given username, or ErrNotFound.
func (d *Directory) ByUsername(ctx context.Context, username string) (*User, error) {
	return d.lookup(ctx, "username", username)
}

// ByEmail returns the user with the given email, or ErrNotFound.
func (d *Directory) ByEmail(ctx context.Context, email string) (*User, error) {
	return d.lookup(ctx, "email", email)
}

// UpdateLastLogin records a login timestamp for the user.
func (d *Directory) UpdateLastLogin(ctx context.Context, id string, at time.Time) error {
	res, err := d.db.ExecContext(ctx,
		`UPDATE users SET last_login = ? WHERE id = ?`,
		at.UTC().Format(time.RFC3339Nano), id,
	)
	if err != nil {
		return fmt.Errorf("users: update last login: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("users: update last login: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (d *Directory) lookup(ctx context.Context, column, value string) (*User, error) {
	// column is one of the fixed names above, never caller input.
	query := fmt.Sprintf(
		`SELECT id, username, email, password_hash, created_at, last_login
		 FROM users WHERE %s = ?`, column)

	var (
		u          User
		createdStr string
		loginStr   sql.NullString
	)
	err := d.db.QueryRowContext(ctx, query, value).
		Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &createdStr, &loginStr)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("users: lookup by %s: %w", column, err)
	}

	t, err := time.Parse(time.RFC3339Nano, createdStr)
	if err != nil {
		return nil, fmt.Errorf("users: parse created_at: %w", err)
	}
	u.CreatedAt = t

	if loginStr.Valid && loginStr.String != "" {
		lt, err := time.Parse(time.RFC3339Nano, loginStr.String)
		if err != nil {
			return nil, fmt.Errorf("users: parse last_login: %w", err)
		}
		u.LastLogin = &lt
	}

	return &u, nil
}
