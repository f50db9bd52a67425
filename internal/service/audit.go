package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"docvault/internal/model"
	"docvault/internal/repository"
)

// AuditService is the read/write surface of the append-only audit ledger.
// Appends never carry business logic; only infrastructure failure is returned.
// Bulk purge lives in the document delete transaction, not here.
type AuditService interface {
	// Record appends one entry. The entry ID and timestamp are assigned here.
	Record(ctx context.Context, action model.AuditAction, userID, accessLinkID, documentID string, client model.ClientInfo) error

	// ByDocument returns the ledger page for a document; the requester must
	// own the document.
	ByDocument(ctx context.Context, documentID, requesterID string, page, limit int) (*Page[model.AuditLog], error)

	// ByActor returns the entries recorded for the requester's own identity.
	ByActor(ctx context.Context, requesterID string, page, limit int) (*Page[model.AuditLog], error)
}

const defaultAuditPageLimit = 50

type auditService struct {
	repo    repository.AuditLogRepository
	docRepo repository.DocumentRepository
}

// NewAuditService constructs a new AuditService.
func NewAuditService(repo repository.AuditLogRepository, docRepo repository.DocumentRepository) AuditService {
	return &auditService{repo: repo, docRepo: docRepo}
}

func (s *auditService) Record(ctx context.Context, action model.AuditAction, userID, accessLinkID, documentID string, client model.ClientInfo) error {
	entry := &model.AuditLog{
		ID:           uuid.New().String(),
		Action:       action,
		UserID:       userID,
		AccessLinkID: accessLinkID,
		DocumentID:   documentID,
		IPAddress:    client.IPAddress,
		UserAgent:    client.UserAgent,
		Timestamp:    time.Now().UTC(),
	}
	if _, err := s.repo.Insert(ctx, entry); err != nil {
		return fmt.Errorf("append audit entry: %w", err)
	}
	return nil
}

func (s *auditService) ByDocument(ctx context.Context, documentID, requesterID string, page, limit int) (*Page[model.AuditLog], error) {
	if documentID == "" {
		return nil, ErrIDRequired
	}
	doc, err := s.docRepo.FindByID(ctx, documentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if doc.OwnerID != requesterID {
		return nil, ErrPermissionDenied
	}

	page, limit, offset := normalizePage(page, limit, defaultAuditPageLimit)
	res, err := s.repo.ListByDocument(ctx, documentID, repository.PageQuery{Limit: limit, Offset: offset})
	if err != nil {
		return nil, err
	}
	return &Page[model.AuditLog]{Data: res.Items, Meta: newPageMeta(res.Total, page, limit)}, nil
}

func (s *auditService) ByActor(ctx context.Context, requesterID string, page, limit int) (*Page[model.AuditLog], error) {
	if requesterID == "" {
		return nil, ErrIDRequired
	}
	page, limit, offset := normalizePage(page, limit, defaultAuditPageLimit)
	res, err := s.repo.ListByUser(ctx, requesterID, repository.PageQuery{Limit: limit, Offset: offset})
	if err != nil {
		return nil, err
	}
	return &Page[model.AuditLog]{Data: res.Items, Meta: newPageMeta(res.Total, page, limit)}, nil
}
