package repository

import (
	"context"

	"docvault/internal/model"
)

// DocumentRepository defines data access for documents using SQL queries only.
// No business logic here, strictly persistence operations.
type DocumentRepository interface {
	// Create inserts a new document record and returns the stored row.
	Create(ctx context.Context, doc *model.Document) (*model.Document, error)

	// FindByID returns a document by its ID.
	FindByID(ctx context.Context, id string) (*model.Document, error)

	// ListByOwner returns a paginated list of the owner's documents, newest first.
	ListByOwner(ctx context.Context, ownerID string, pq PageQuery) (*PageResult[model.Document], error)

	// UpdateMetadata overwrites the mutable metadata fields (filename,
	// description) of a document and bumps updated_at. Content, hash, and
	// encryption fields are never touched.
	UpdateMetadata(ctx context.Context, id, filename, description string) (*model.Document, error)

	// DeleteCascade removes the document row together with all of its access
	// links and audit log entries in a single transaction, so no orphan stays
	// queryable. Returns the number of audit entries purged.
	DeleteCascade(ctx context.Context, id string) (purgedLogs int64, err error)
}
