package repository

import (
	"context"
	"errors"

	"docvault/internal/model"
)

// ErrNotConsumed is returned by Consume when the conditional update matched no
// row: the token is unknown, expired, or out of views. Callers classify the
// exact cause with a follow-up read.
var ErrNotConsumed = errors.New("access link not consumable")

// AccessLinkRepository defines data access for access links.
type AccessLinkRepository interface {
	// Create inserts a new access link with current_views = 0.
	Create(ctx context.Context, link *model.AccessLink) (*model.AccessLink, error)

	// FindByID returns a link by its ID.
	FindByID(ctx context.Context, id string) (*model.AccessLink, error)

	// FindByToken returns a link by its opaque token.
	FindByToken(ctx context.Context, token string) (*model.AccessLink, error)

	// Consume atomically increments current_views by one, but only while the
	// link is neither expired nor out of views. The read-check-increment-write
	// happens in a single conditional UPDATE so two concurrent holders of the
	// same token can never both pass a one-view-left gate. Returns the updated
	// row, or ErrNotConsumed when the guard rejected the increment.
	Consume(ctx context.Context, token string) (*model.AccessLink, error)

	// ListByCreator returns a paginated list of links created by a user, newest first.
	ListByCreator(ctx context.Context, creatorID string, pq PageQuery) (*PageResult[model.AccessLink], error)

	// ListByDocument returns all links of one document, newest first.
	ListByDocument(ctx context.Context, documentID string) ([]model.AccessLink, error)

	// Delete removes a link by ID.
	Delete(ctx context.Context, id string) error
}
