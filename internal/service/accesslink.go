package service

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"docvault/internal/model"
	"docvault/internal/repository"
)

// tokenBytes is the entropy of a link token; hex-encoded it yields a 48
// character bearer credential.
const tokenBytes = 24

// defaultLinkTTL is applied when the creator does not pick an expiry.
const defaultLinkTTL = 30 * 24 * time.Hour

// IssueLinkInput are the creator-chosen parameters of a new access link.
// MaxViews == 0 means unlimited.
type IssueLinkInput struct {
	DocumentID string
	ExpiresAt  *time.Time
	MaxViews   int
}

// LinkWithURL decorates a persisted link with the shareable URL.
type LinkWithURL struct {
	model.AccessLink
	AccessURL string `json:"access_url"`
}

// ConsumeResult identifies what a successfully consumed token grants access to.
type ConsumeResult struct {
	DocumentID   string `json:"document_id"`
	AccessLinkID string `json:"access_link_id"`
}

// AccessLinkService manages the access-link lifecycle: issuance, atomic
// consumption, revocation, and listing. A link moves from active to
// exhausted, expired, or revoked and never back.
type AccessLinkService interface {
	// Issue creates a link for a document the creator owns and records a
	// SHARE audit entry.
	Issue(ctx context.Context, in IssueLinkInput, creatorID string, client model.ClientInfo) (*LinkWithURL, error)

	// Consume validates a token and burns exactly one view before returning
	// success, then records a VIEW audit entry. Fails with ErrNotFound,
	// ErrLinkExpired, or ErrLinkExhausted.
	Consume(ctx context.Context, token string, client model.ClientInfo) (*ConsumeResult, error)

	// Get returns one link; the requester must be its creator.
	Get(ctx context.Context, id, requesterID string) (*LinkWithURL, error)

	// Revoke deletes a link; the requester must be its creator.
	Revoke(ctx context.Context, id, requesterID string) error

	// ListByCreator pages through the requester's own links.
	ListByCreator(ctx context.Context, creatorID string, page, limit int) (*Page[LinkWithURL], error)

	// ListByDocument returns all links of a document the requester owns.
	ListByDocument(ctx context.Context, documentID, requesterID string) ([]LinkWithURL, error)
}

const defaultLinkPageLimit = 10

type accessLinkService struct {
	repo    repository.AccessLinkRepository
	docRepo repository.DocumentRepository
	audit   AuditService
	baseURL string
}

// NewAccessLinkService constructs a new AccessLinkService. baseURL is the
// public prefix of generated access URLs.
func NewAccessLinkService(repo repository.AccessLinkRepository, docRepo repository.DocumentRepository, audit AuditService, baseURL string) AccessLinkService {
	return &accessLinkService{repo: repo, docRepo: docRepo, audit: audit, baseURL: baseURL}
}

func (s *accessLinkService) Issue(ctx context.Context, in IssueLinkInput, creatorID string, client model.ClientInfo) (*LinkWithURL, error) {
	if in.DocumentID == "" {
		return nil, ErrIDRequired
	}
	doc, err := s.docRepo.FindByID(ctx, in.DocumentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if doc.OwnerID != creatorID {
		return nil, ErrPermissionDenied
	}

	token, err := newToken()
	if err != nil {
		return nil, err
	}

	expiresAt := in.ExpiresAt
	if expiresAt == nil {
		t := time.Now().UTC().Add(defaultLinkTTL)
		expiresAt = &t
	}

	link := &model.AccessLink{
		ID:           uuid.New().String(),
		Token:        token,
		DocumentID:   doc.ID,
		CreatedBy:    creatorID,
		ExpiresAt:    expiresAt,
		MaxViews:     in.MaxViews,
		CurrentViews: 0,
		CreatedAt:    time.Now().UTC(),
	}
	stored, err := s.repo.Create(ctx, link)
	if err != nil {
		return nil, fmt.Errorf("create access link: %w", err)
	}

	if err := s.audit.Record(ctx, model.ActionShare, creatorID, stored.ID, doc.ID, client); err != nil {
		return nil, err
	}
	return s.withURL(stored), nil
}

func (s *accessLinkService) Consume(ctx context.Context, token string, client model.ClientInfo) (*ConsumeResult, error) {
	if token == "" {
		return nil, ErrNotFound
	}

	link, err := s.repo.Consume(ctx, token)
	if err != nil {
		if errors.Is(err, repository.ErrNotConsumed) {
			return nil, s.classifyRejection(ctx, token)
		}
		return nil, err
	}

	if err := s.audit.Record(ctx, model.ActionView, "", link.ID, link.DocumentID, client); err != nil {
		return nil, err
	}
	return &ConsumeResult{DocumentID: link.DocumentID, AccessLinkID: link.ID}, nil
}

// classifyRejection turns a rejected conditional update into the precise
// lifecycle error. The quota was already protected by the update itself, so
// this read is only for error reporting.
func (s *accessLinkService) classifyRejection(ctx context.Context, token string) error {
	link, err := s.repo.FindByToken(ctx, token)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}
	if link.ExpiresAt != nil && time.Now().After(*link.ExpiresAt) {
		return ErrLinkExpired
	}
	return ErrLinkExhausted
}

func (s *accessLinkService) Get(ctx context.Context, id, requesterID string) (*LinkWithURL, error) {
	link, err := s.findOwned(ctx, id, requesterID)
	if err != nil {
		return nil, err
	}
	return s.withURL(link), nil
}

func (s *accessLinkService) Revoke(ctx context.Context, id, requesterID string) error {
	if _, err := s.findOwned(ctx, id, requesterID); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

func (s *accessLinkService) ListByCreator(ctx context.Context, creatorID string, page, limit int) (*Page[LinkWithURL], error) {
	page, limit, offset := normalizePage(page, limit, defaultLinkPageLimit)
	res, err := s.repo.ListByCreator(ctx, creatorID, repository.PageQuery{Limit: limit, Offset: offset})
	if err != nil {
		return nil, err
	}
	items := make([]LinkWithURL, 0, len(res.Items))
	for i := range res.Items {
		items = append(items, *s.withURL(&res.Items[i]))
	}
	return &Page[LinkWithURL]{Data: items, Meta: newPageMeta(res.Total, page, limit)}, nil
}

func (s *accessLinkService) ListByDocument(ctx context.Context, documentID, requesterID string) ([]LinkWithURL, error) {
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

	links, err := s.repo.ListByDocument(ctx, documentID)
	if err != nil {
		return nil, err
	}
	items := make([]LinkWithURL, 0, len(links))
	for i := range links {
		items = append(items, *s.withURL(&links[i]))
	}
	return items, nil
}

func (s *accessLinkService) findOwned(ctx context.Context, id, requesterID string) (*model.AccessLink, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	link, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if link.CreatedBy != requesterID {
		return nil, ErrPermissionDenied
	}
	return link, nil
}

func (s *accessLinkService) withURL(link *model.AccessLink) *LinkWithURL {
	return &LinkWithURL{AccessLink: *link, AccessURL: s.baseURL + "/access/" + link.Token}
}

func newToken() (string, error) {
	buf := make([]byte, tokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
