package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"docvault/internal/model"
	"docvault/internal/repository"
)

type MockAccessLinkRepository struct {
	mock.Mock
}

func (m *MockAccessLinkRepository) Create(ctx context.Context, link *model.AccessLink) (*model.AccessLink, error) {
	args := m.Called(ctx, link)
	if f, ok := args.Get(0).(func(context.Context, *model.AccessLink) *model.AccessLink); ok {
		return f(ctx, link), args.Error(1)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.AccessLink), args.Error(1)
}

func (m *MockAccessLinkRepository) FindByID(ctx context.Context, id string) (*model.AccessLink, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.AccessLink), args.Error(1)
}

func (m *MockAccessLinkRepository) FindByToken(ctx context.Context, token string) (*model.AccessLink, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.AccessLink), args.Error(1)
}

func (m *MockAccessLinkRepository) Consume(ctx context.Context, token string) (*model.AccessLink, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.AccessLink), args.Error(1)
}

func (m *MockAccessLinkRepository) ListByCreator(ctx context.Context, creatorID string, pq repository.PageQuery) (*repository.PageResult[model.AccessLink], error) {
	args := m.Called(ctx, creatorID, pq)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.PageResult[model.AccessLink]), args.Error(1)
}

func (m *MockAccessLinkRepository) ListByDocument(ctx context.Context, documentID string) ([]model.AccessLink, error) {
	args := m.Called(ctx, documentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.AccessLink), args.Error(1)
}

func (m *MockAccessLinkRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
