package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"docvault/internal/model"
	"docvault/internal/service"
)

type MockAuditService struct {
	mock.Mock
}

func (m *MockAuditService) Record(ctx context.Context, action model.AuditAction, userID, accessLinkID, documentID string, client model.ClientInfo) error {
	args := m.Called(ctx, action, userID, accessLinkID, documentID, client)
	return args.Error(0)
}

func (m *MockAuditService) ByDocument(ctx context.Context, documentID, requesterID string, page, limit int) (*service.Page[model.AuditLog], error) {
	args := m.Called(ctx, documentID, requesterID, page, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Page[model.AuditLog]), args.Error(1)
}

func (m *MockAuditService) ByActor(ctx context.Context, requesterID string, page, limit int) (*service.Page[model.AuditLog], error) {
	args := m.Called(ctx, requesterID, page, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Page[model.AuditLog]), args.Error(1)
}
