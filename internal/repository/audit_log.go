package repository

import (
	"context"

	"docvault/internal/model"
)

// AuditLogRepository defines data access for the append-only audit ledger.
// Rows are inserted and bulk-deleted, never updated.
type AuditLogRepository interface {
	// Insert appends one entry and returns the stored row.
	Insert(ctx context.Context, entry *model.AuditLog) (*model.AuditLog, error)

	// ListByDocument returns a page of entries for a document, newest first.
	ListByDocument(ctx context.Context, documentID string, pq PageQuery) (*PageResult[model.AuditLog], error)

	// ListByUser returns a page of entries recorded for an actor, newest first.
	ListByUser(ctx context.Context, userID string, pq PageQuery) (*PageResult[model.AuditLog], error)

	// DeleteByDocument bulk-deletes all entries of a document and returns the
	// number of rows removed. Only the document delete flow calls this.
	DeleteByDocument(ctx context.Context, documentID string) (int64, error)
}
