package service

import (
	"context"

	"github.com/stretchr/testify/mock"

	"docvault/internal/model"
)

// mockAudit lives in-package because AuditService returns service types; a
// mock in internal/service/mocks would cycle back into this package.
type mockAudit struct {
	mock.Mock
}

func (m *mockAudit) Record(ctx context.Context, action model.AuditAction, userID, accessLinkID, documentID string, client model.ClientInfo) error {
	args := m.Called(ctx, action, userID, accessLinkID, documentID, client)
	return args.Error(0)
}

func (m *mockAudit) ByDocument(ctx context.Context, documentID, requesterID string, page, limit int) (*Page[model.AuditLog], error) {
	args := m.Called(ctx, documentID, requesterID, page, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Page[model.AuditLog]), args.Error(1)
}

func (m *mockAudit) ByActor(ctx context.Context, requesterID string, page, limit int) (*Page[model.AuditLog], error) {
	args := m.Called(ctx, requesterID, page, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Page[model.AuditLog]), args.Error(1)
}
