// Package identity is the adapter to the external identity provider. The core
// trusts externally issued identities verbatim; nothing here manages accounts,
// passwords, or OTP verification.
package identity

import (
	"context"
	"database/sql"
	"errors"
)

// ErrUnknownUser is returned when no account matches the lookup. Callers on
// user-facing paths must not forward this distinction to the requester.
var ErrUnknownUser = errors.New("unknown user")

// Directory resolves user identities. The enumeration-safe password-reset flow
// is its only in-core consumer.
type Directory interface {
	// LookupByEmail returns the user ID registered under an email address, or
	// ErrUnknownUser when there is none.
	LookupByEmail(ctx context.Context, email string) (string, error)
}

// SQLDirectory reads the identity provider's users table. It is a thin
// read-only view; account mutation stays with the provider.
type SQLDirectory struct {
	db *sql.DB
}

func NewSQLDirectory(db *sql.DB) *SQLDirectory {
	return &SQLDirectory{db: db}
}

var _ Directory = (*SQLDirectory)(nil)

func (d *SQLDirectory) LookupByEmail(ctx context.Context, email string) (string, error) {
	const q = `SELECT id FROM users WHERE email = $1`
	var id string
	if err := d.db.QueryRowContext(ctx, q, email).Scan(&id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrUnknownUser
		}
		return "", err
	}
	return id, nil
}
