package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"

	"docvault/internal/model"
	"docvault/internal/repository"
)

var logCols = []string{"id", "action", "user_id", "access_link_id", "document_id", "ip_address", "user_agent", "timestamp"}

func TestAuditLogPostgres_Insert(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewAuditLogPostgres(db)
	ctx := context.Background()

	now := time.Now().UTC()
	entry := &model.AuditLog{
		ID:         "log-id",
		Action:     model.ActionUpload,
		UserID:     "user-1",
		DocumentID: "doc-id",
		IPAddress:  "10.0.0.1",
		UserAgent:  "curl/8.0",
		Timestamp:  now,
	}

	rows := sqlmock.NewRows(logCols).
		AddRow(entry.ID, string(entry.Action), entry.UserID, nil, entry.DocumentID, entry.IPAddress, entry.UserAgent, now)

	mock.ExpectQuery("INSERT INTO audit_logs").
		WillReturnRows(rows)

	stored, err := repo.Insert(ctx, entry)

	assert.NoError(t, err)
	assert.Equal(t, model.ActionUpload, stored.Action)
	assert.Empty(t, stored.AccessLinkID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAuditLogPostgres_ListByDocument(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewAuditLogPostgres(db)
	ctx := context.Background()

	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM audit_logs WHERE document_id").
		WithArgs("doc-id").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))

	rows := sqlmock.NewRows(logCols).
		AddRow("l1", "DOWNLOAD", "user-1", nil, "doc-id", nil, nil, time.Now()).
		AddRow("l2", "UPLOAD", "user-1", nil, "doc-id", nil, nil, time.Now().Add(-time.Hour))

	mock.ExpectQuery("SELECT (.+) FROM audit_logs(.+)ORDER BY timestamp DESC").
		WithArgs("doc-id", 50, 0).
		WillReturnRows(rows)

	res, err := repo.ListByDocument(ctx, "doc-id", repository.PageQuery{Limit: 50, Offset: 0})

	assert.NoError(t, err)
	assert.Equal(t, 2, res.Total)
	assert.Len(t, res.Items, 2)
	assert.Equal(t, model.ActionDownload, res.Items[0].Action)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAuditLogPostgres_ListByUser(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewAuditLogPostgres(db)
	ctx := context.Background()

	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM audit_logs WHERE user_id").
		WithArgs("user-1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	rows := sqlmock.NewRows(logCols).
		AddRow("l1", "SHARE", "user-1", "link-1", "doc-id", "10.0.0.1", "curl/8.0", time.Now())

	mock.ExpectQuery("SELECT (.+) FROM audit_logs(.+)ORDER BY timestamp DESC").
		WithArgs("user-1", 50, 0).
		WillReturnRows(rows)

	res, err := repo.ListByUser(ctx, "user-1", repository.PageQuery{Limit: 50, Offset: 0})

	assert.NoError(t, err)
	assert.Equal(t, 1, res.Total)
	assert.Equal(t, "link-1", res.Items[0].AccessLinkID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAuditLogPostgres_DeleteByDocument(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewAuditLogPostgres(db)

	mock.ExpectExec("DELETE FROM audit_logs WHERE document_id").
		WithArgs("doc-id").
		WillReturnResult(sqlmock.NewResult(0, 3))

	n, err := repo.DeleteByDocument(context.Background(), "doc-id")

	assert.NoError(t, err)
	assert.Equal(t, int64(3), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}
