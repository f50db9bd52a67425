package postgres

import (
	"context"
	"database/sql"
	"errors"

	"docvault/internal/model"
	"docvault/internal/repository"
)

// AccessLinkPostgres is a PostgreSQL implementation of repository.AccessLinkRepository.
type AccessLinkPostgres struct {
	db *sql.DB
}

// NewAccessLinkPostgres creates a new AccessLinkPostgres repository.
func NewAccessLinkPostgres(db *sql.DB) *AccessLinkPostgres {
	return &AccessLinkPostgres{db: db}
}

var _ repository.AccessLinkRepository = (*AccessLinkPostgres)(nil)

const accessLinkColumns = `id, token, document_id, created_by, expires_at, max_views, current_views, created_at`

func scanAccessLink(row interface{ Scan(...any) error }) (*model.AccessLink, error) {
	var l model.AccessLink
	var expiresAt sql.NullTime
	if err := row.Scan(
		&l.ID,
		&l.Token,
		&l.DocumentID,
		&l.CreatedBy,
		&expiresAt,
		&l.MaxViews,
		&l.CurrentViews,
		&l.CreatedAt,
	); err != nil {
		return nil, err
	}
	if expiresAt.Valid {
		t := expiresAt.Time
		l.ExpiresAt = &t
	}
	return &l, nil
}

// Create inserts a new access link row and returns the stored record.
func (r *AccessLinkPostgres) Create(ctx context.Context, link *model.AccessLink) (*model.AccessLink, error) {
	const q = `
		INSERT INTO access_links (id, token, document_id, created_by, expires_at, max_views, current_views, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ` + accessLinkColumns
	var expiresAt sql.NullTime
	if link.ExpiresAt != nil {
		expiresAt = sql.NullTime{Time: *link.ExpiresAt, Valid: true}
	}
	row := r.db.QueryRowContext(ctx, q,
		link.ID,
		link.Token,
		link.DocumentID,
		link.CreatedBy,
		expiresAt,
		link.MaxViews,
		link.CurrentViews,
		link.CreatedAt,
	)
	return scanAccessLink(row)
}

// FindByID fetches a single link by its ID.
func (r *AccessLinkPostgres) FindByID(ctx context.Context, id string) (*model.AccessLink, error) {
	const q = `
		SELECT ` + accessLinkColumns + `
		FROM access_links
		WHERE id = $1
	`
	return scanAccessLink(r.db.QueryRowContext(ctx, q, id))
}

// FindByToken fetches a single link by its opaque token.
func (r *AccessLinkPostgres) FindByToken(ctx context.Context, token string) (*model.AccessLink, error) {
	const q = `
		SELECT ` + accessLinkColumns + `
		FROM access_links
		WHERE token = $1
	`
	return scanAccessLink(r.db.QueryRowContext(ctx, q, token))
}

// Consume bumps current_views in a single conditional UPDATE. The WHERE guard
// is the whole concurrency story: the database serializes the increment per
// row, so at most max_views updates can ever match.
func (r *AccessLinkPostgres) Consume(ctx context.Context, token string) (*model.AccessLink, error) {
	const q = `
		UPDATE access_links
		SET current_views = current_views + 1
		WHERE token = $1
		  AND (expires_at IS NULL OR expires_at > now())
		  AND (max_views = 0 OR current_views < max_views)
		RETURNING ` + accessLinkColumns
	link, err := scanAccessLink(r.db.QueryRowContext(ctx, q, token))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotConsumed
	}
	return link, err
}

// ListByCreator returns links created by a user using LIMIT/OFFSET pagination and a total count.
func (r *AccessLinkPostgres) ListByCreator(ctx context.Context, creatorID string, pq repository.PageQuery) (*repository.PageResult[model.AccessLink], error) {
	const qCount = `SELECT COUNT(*) FROM access_links WHERE created_by = $1`
	var total int
	if err := r.db.QueryRowContext(ctx, qCount, creatorID).Scan(&total); err != nil {
		return nil, err
	}

	const qList = `
		SELECT ` + accessLinkColumns + `
		FROM access_links
		WHERE created_by = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.db.QueryContext(ctx, qList, creatorID, pq.Limit, pq.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.AccessLink, 0)
	for rows.Next() {
		l, err := scanAccessLink(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &repository.PageResult[model.AccessLink]{Items: items, Total: total}, nil
}

// ListByDocument returns every link pointing at one document, newest first.
func (r *AccessLinkPostgres) ListByDocument(ctx context.Context, documentID string) ([]model.AccessLink, error) {
	const q = `
		SELECT ` + accessLinkColumns + `
		FROM access_links
		WHERE document_id = $1
		ORDER BY created_at DESC, id DESC
	`
	rows, err := r.db.QueryContext(ctx, q, documentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.AccessLink, 0)
	for rows.Next() {
		l, err := scanAccessLink(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// Delete removes a link by ID. It does not return an error if the row does not exist.
func (r *AccessLinkPostgres) Delete(ctx context.Context, id string) error {
	const q = `DELETE FROM access_links WHERE id = $1`
	_, err := r.db.ExecContext(ctx, q, id)
	return err
}
