package mocks

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"

	"docvault/internal/model"
	"docvault/internal/service"
)

type MockDocumentService struct {
	mock.Mock
}

func (m *MockDocumentService) Upload(ctx context.Context, r io.Reader, in service.UploadInput, ownerID string, client model.ClientInfo) (*model.Document, error) {
	args := m.Called(ctx, r, in, ownerID, client)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Document), args.Error(1)
}

func (m *MockDocumentService) Get(ctx context.Context, id, requesterID string) (*model.Document, error) {
	args := m.Called(ctx, id, requesterID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Document), args.Error(1)
}

func (m *MockDocumentService) ListByOwner(ctx context.Context, ownerID string, page, limit int) (*service.Page[model.Document], error) {
	args := m.Called(ctx, ownerID, page, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Page[model.Document]), args.Error(1)
}

func (m *MockDocumentService) Download(ctx context.Context, id string, req service.Requester, client model.ClientInfo) (*service.DownloadResult, error) {
	args := m.Called(ctx, id, req, client)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.DownloadResult), args.Error(1)
}

func (m *MockDocumentService) Update(ctx context.Context, id string, patch service.UpdateInput, requesterID string, client model.ClientInfo) (*model.Document, error) {
	args := m.Called(ctx, id, patch, requesterID, client)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Document), args.Error(1)
}

func (m *MockDocumentService) Remove(ctx context.Context, id, requesterID string, client model.ClientInfo) error {
	args := m.Called(ctx, id, requesterID, client)
	return args.Error(0)
}
