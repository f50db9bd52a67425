package postgres

import (
	"context"
	"database/sql"

	"docvault/internal/model"
	"docvault/internal/repository"
)

// AuditLogPostgres is a PostgreSQL implementation of repository.AuditLogRepository.
// The table is append-only; there is deliberately no UPDATE statement here.
type AuditLogPostgres struct {
	db *sql.DB
}

// NewAuditLogPostgres creates a new AuditLogPostgres repository.
func NewAuditLogPostgres(db *sql.DB) *AuditLogPostgres {
	return &AuditLogPostgres{db: db}
}

var _ repository.AuditLogRepository = (*AuditLogPostgres)(nil)

const auditLogColumns = `id, action, user_id, access_link_id, document_id, ip_address, user_agent, timestamp`

func scanAuditLog(row interface{ Scan(...any) error }) (*model.AuditLog, error) {
	var e model.AuditLog
	var userID, linkID, ip, agent sql.NullString
	if err := row.Scan(
		&e.ID,
		&e.Action,
		&userID,
		&linkID,
		&e.DocumentID,
		&ip,
		&agent,
		&e.Timestamp,
	); err != nil {
		return nil, err
	}
	e.UserID = userID.String
	e.AccessLinkID = linkID.String
	e.IPAddress = ip.String
	e.UserAgent = agent.String
	return &e, nil
}

// Insert appends one ledger entry and returns the stored record.
func (r *AuditLogPostgres) Insert(ctx context.Context, entry *model.AuditLog) (*model.AuditLog, error) {
	const q = `
		INSERT INTO audit_logs (id, action, user_id, access_link_id, document_id, ip_address, user_agent, timestamp)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ` + auditLogColumns
	row := r.db.QueryRowContext(ctx, q,
		entry.ID,
		entry.Action,
		nullIfEmpty(entry.UserID),
		nullIfEmpty(entry.AccessLinkID),
		entry.DocumentID,
		nullIfEmpty(entry.IPAddress),
		nullIfEmpty(entry.UserAgent),
		entry.Timestamp,
	)
	return scanAuditLog(row)
}

// ListByDocument returns a page of entries for one document, newest first.
func (r *AuditLogPostgres) ListByDocument(ctx context.Context, documentID string, pq repository.PageQuery) (*repository.PageResult[model.AuditLog], error) {
	return r.list(ctx, `document_id`, documentID, pq)
}

// ListByUser returns a page of entries recorded for one actor, newest first.
func (r *AuditLogPostgres) ListByUser(ctx context.Context, userID string, pq repository.PageQuery) (*repository.PageResult[model.AuditLog], error) {
	return r.list(ctx, `user_id`, userID, pq)
}

func (r *AuditLogPostgres) list(ctx context.Context, column, value string, pq repository.PageQuery) (*repository.PageResult[model.AuditLog], error) {
	// column is one of two compile-time constants, never caller input.
	qCount := `SELECT COUNT(*) FROM audit_logs WHERE ` + column + ` = $1`
	var total int
	if err := r.db.QueryRowContext(ctx, qCount, value).Scan(&total); err != nil {
		return nil, err
	}

	qList := `
		SELECT ` + auditLogColumns + `
		FROM audit_logs
		WHERE ` + column + ` = $1
		ORDER BY timestamp DESC, id DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.db.QueryContext(ctx, qList, value, pq.Limit, pq.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.AuditLog, 0)
	for rows.Next() {
		e, err := scanAuditLog(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &repository.PageResult[model.AuditLog]{Items: items, Total: total}, nil
}

// DeleteByDocument bulk-deletes all entries of one document.
func (r *AuditLogPostgres) DeleteByDocument(ctx context.Context, documentID string) (int64, error) {
	const q = `DELETE FROM audit_logs WHERE document_id = $1`
	res, err := r.db.ExecContext(ctx, q, documentID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
