package service

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"docvault/internal/crypto"
	"docvault/internal/model"
	"docvault/internal/repository"
	"docvault/internal/storage"
)

// UploadInput carries caller-chosen metadata of a new document. Encrypt nil
// means encrypt (at-rest encryption is opt-out, not opt-in).
type UploadInput struct {
	Filename    string
	Description string
	ContentType string
	Size        int64
	Encrypt     *bool
}

// UpdateInput patches the mutable metadata fields. Nil fields keep their
// current value; content, hash, and encryption fields are immutable.
type UpdateInput struct {
	Filename    *string
	Description *string
}

// Requester identifies who is asking for a download: an authenticated owner,
// or the holder of an access link that was already consumed for this request.
type Requester struct {
	UserID       string
	AccessLinkID string
}

// DownloadResult is the decrypted payload with its original presentation metadata.
type DownloadResult struct {
	Content     []byte
	Filename    string
	ContentType string
}

// DocumentService is the orchestrator tying crypto, blob storage, persistence,
// and the audit ledger together; every state-changing operation ends with an
// audit append.
type DocumentService interface {
	// Upload hashes the plaintext, seals it unless opted out, writes the blob
	// under a random storage key, persists the row, and records UPLOAD.
	// Storage is compensated (blob deleted) when the row insert fails.
	Upload(ctx context.Context, r io.Reader, in UploadInput, ownerID string, client model.ClientInfo) (*model.Document, error)

	// Get returns a document's metadata; the requester must be the owner.
	Get(ctx context.Context, id, requesterID string) (*model.Document, error)

	// ListByOwner pages through the requester's own documents, newest first.
	ListByOwner(ctx context.Context, ownerID string, page, limit int) (*Page[model.Document], error)

	// Download returns the plaintext payload. The owner path checks ownership;
	// the link path trusts a prior successful token consumption whose document
	// matches. Decryption failure is permanent and surfaced, never retried.
	Download(ctx context.Context, id string, req Requester, client model.ClientInfo) (*DownloadResult, error)

	// Update patches filename/description only and records UPDATE; owner-only.
	Update(ctx context.Context, id string, patch UpdateInput, requesterID string, client model.ClientInfo) (*model.Document, error)

	// Remove deletes the blob, then purges audit entries and access links
	// together with the document row in one transaction, then records DELETE
	// so the deletion itself stays on the ledger; owner-only.
	Remove(ctx context.Context, id, requesterID string, client model.ClientInfo) error
}

const defaultDocumentPageLimit = 10

type documentService struct {
	store  storage.Storage
	repo   repository.DocumentRepository
	audit  AuditService
	engine *crypto.Engine
}

// NewDocumentService constructs a new DocumentService.
func NewDocumentService(store storage.Storage, repo repository.DocumentRepository, audit AuditService, engine *crypto.Engine) DocumentService {
	return &documentService{store: store, repo: repo, audit: audit, engine: engine}
}

func (s *documentService) Upload(ctx context.Context, r io.Reader, in UploadInput, ownerID string, client model.ClientInfo) (*model.Document, error) {
	if r == nil {
		return nil, ErrReaderNil
	}
	if ownerID == "" {
		return nil, ErrIDRequired
	}

	payload, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read payload: %w", err)
	}

	// The hash always covers the plaintext; it is never recomputed after this
	// point.
	contentHash := crypto.Digest(payload)

	encrypt := in.Encrypt == nil || *in.Encrypt
	stored := payload
	ivHex := ""
	if encrypt {
		ciphertext, iv, err := s.engine.Seal(payload)
		if err != nil {
			return nil, fmt.Errorf("seal payload: %w", err)
		}
		stored = ciphertext
		ivHex = hex.EncodeToString(iv)
	}

	// Storage keys derive from a fresh random identifier plus the original
	// extension; the original filename never reaches the blob store path.
	key := filepath.ToSlash(filepath.Join("documents", uuid.New().String()+filepath.Ext(in.Filename)))

	_, err = s.store.Put(ctx, key, bytes.NewReader(stored), storage.PutObjectOptions{
		Size:        int64(len(stored)),
		ContentType: in.ContentType,
		Metadata: map[string]string{
			"original-filename": in.Filename,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("upload to storage: %w", err)
	}

	now := time.Now().UTC()
	doc := &model.Document{
		ID:           uuid.New().String(),
		Filename:     in.Filename,
		Description:  in.Description,
		ContentType:  in.ContentType,
		Size:         int64(len(payload)),
		StoragePath:  key,
		ContentHash:  contentHash,
		IsEncrypted:  encrypt,
		EncryptionIV: ivHex,
		OwnerID:      ownerID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	saved, err := s.repo.Create(ctx, doc)
	if err != nil {
		// Compensate: the blob must not outlive a failed row insert.
		if delErr := s.store.Delete(ctx, key); delErr != nil {
			return nil, fmt.Errorf("db save failed: %v; rollback delete failed: %v", err, delErr)
		}
		return nil, fmt.Errorf("db save failed: %w", err)
	}

	if err := s.audit.Record(ctx, model.ActionUpload, ownerID, "", saved.ID, client); err != nil {
		return nil, err
	}
	return saved, nil
}

func (s *documentService) Get(ctx context.Context, id, requesterID string) (*model.Document, error) {
	return s.findOwned(ctx, id, requesterID)
}

func (s *documentService) ListByOwner(ctx context.Context, ownerID string, page, limit int) (*Page[model.Document], error) {
	if ownerID == "" {
		return nil, ErrIDRequired
	}
	page, limit, offset := normalizePage(page, limit, defaultDocumentPageLimit)
	res, err := s.repo.ListByOwner(ctx, ownerID, repository.PageQuery{Limit: limit, Offset: offset})
	if err != nil {
		return nil, err
	}
	return &Page[model.Document]{Data: res.Items, Meta: newPageMeta(res.Total, page, limit)}, nil
}

func (s *documentService) Download(ctx context.Context, id string, req Requester, client model.ClientInfo) (*DownloadResult, error) {
	var doc *model.Document
	var err error

	switch {
	case req.UserID != "":
		doc, err = s.findOwned(ctx, id, req.UserID)
	case req.AccessLinkID != "":
		// Token validation and the view consumption already happened; only the
		// document lookup remains.
		doc, err = s.find(ctx, id)
	default:
		return nil, ErrPermissionDenied
	}
	if err != nil {
		return nil, err
	}

	obj, _, err := s.store.Get(ctx, doc.StoragePath)
	if err != nil {
		return nil, fmt.Errorf("fetch from storage: %w", err)
	}
	defer obj.Close()

	content, err := io.ReadAll(obj)
	if err != nil {
		return nil, fmt.Errorf("read from storage: %w", err)
	}

	if doc.IsEncrypted {
		iv, err := hex.DecodeString(doc.EncryptionIV)
		if err != nil {
			return nil, fmt.Errorf("decode iv: %w", crypto.ErrInvalidIV)
		}
		content, err = s.engine.Open(content, iv)
		if err != nil {
			// Ciphertext corruption is not a transient condition.
			return nil, err
		}
	}

	if err := s.audit.Record(ctx, model.ActionDownload, req.UserID, req.AccessLinkID, doc.ID, client); err != nil {
		return nil, err
	}
	return &DownloadResult{
		Content:     content,
		Filename:    doc.Filename,
		ContentType: doc.ContentType,
	}, nil
}

func (s *documentService) Update(ctx context.Context, id string, patch UpdateInput, requesterID string, client model.ClientInfo) (*model.Document, error) {
	doc, err := s.findOwned(ctx, id, requesterID)
	if err != nil {
		return nil, err
	}

	filename := doc.Filename
	if patch.Filename != nil {
		filename = *patch.Filename
	}
	description := doc.Description
	if patch.Description != nil {
		description = *patch.Description
	}

	updated, err := s.repo.UpdateMetadata(ctx, doc.ID, filename, description)
	if err != nil {
		return nil, fmt.Errorf("update document: %w", err)
	}

	if err := s.audit.Record(ctx, model.ActionUpdate, requesterID, "", doc.ID, client); err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *documentService) Remove(ctx context.Context, id, requesterID string, client model.ClientInfo) error {
	doc, err := s.findOwned(ctx, id, requesterID)
	if err != nil {
		return err
	}

	if err := s.store.Delete(ctx, doc.StoragePath); err != nil {
		return fmt.Errorf("delete from storage: %w", err)
	}

	if _, err := s.repo.DeleteCascade(ctx, doc.ID); err != nil {
		return fmt.Errorf("delete document: %w", err)
	}

	// Recorded after the purge so the deletion itself survives on the ledger.
	return s.audit.Record(ctx, model.ActionDelete, requesterID, "", doc.ID, client)
}

func (s *documentService) find(ctx context.Context, id string) (*model.Document, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	doc, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return doc, nil
}

func (s *documentService) findOwned(ctx context.Context, id, requesterID string) (*model.Document, error) {
	doc, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if doc.OwnerID != requesterID {
		return nil, ErrPermissionDenied
	}
	return doc, nil
}
