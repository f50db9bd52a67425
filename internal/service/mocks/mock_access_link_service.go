package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"docvault/internal/model"
	"docvault/internal/service"
)

type MockAccessLinkService struct {
	mock.Mock
}

func (m *MockAccessLinkService) Issue(ctx context.Context, in service.IssueLinkInput, creatorID string, client model.ClientInfo) (*service.LinkWithURL, error) {
	args := m.Called(ctx, in, creatorID, client)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.LinkWithURL), args.Error(1)
}

func (m *MockAccessLinkService) Consume(ctx context.Context, token string, client model.ClientInfo) (*service.ConsumeResult, error) {
	args := m.Called(ctx, token, client)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ConsumeResult), args.Error(1)
}

func (m *MockAccessLinkService) Get(ctx context.Context, id, requesterID string) (*service.LinkWithURL, error) {
	args := m.Called(ctx, id, requesterID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.LinkWithURL), args.Error(1)
}

func (m *MockAccessLinkService) Revoke(ctx context.Context, id, requesterID string) error {
	args := m.Called(ctx, id, requesterID)
	return args.Error(0)
}

func (m *MockAccessLinkService) ListByCreator(ctx context.Context, creatorID string, page, limit int) (*service.Page[service.LinkWithURL], error) {
	args := m.Called(ctx, creatorID, page, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Page[service.LinkWithURL]), args.Error(1)
}

func (m *MockAccessLinkService) ListByDocument(ctx context.Context, documentID, requesterID string) ([]service.LinkWithURL, error) {
	args := m.Called(ctx, documentID, requesterID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]service.LinkWithURL), args.Error(1)
}
