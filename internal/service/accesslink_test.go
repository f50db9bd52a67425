package service

import (
	"context"
	"database/sql"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"docvault/internal/model"
	"docvault/internal/repository"
	repoMocks "docvault/internal/repository/mocks"
)

const testBaseURL = "https://vault.example.com"

func TestAccessLinkService_Issue(t *testing.T) {
	ctx := context.Background()
	doc := &model.Document{ID: "doc-1", OwnerID: "owner-1"}

	t.Run("happy path", func(t *testing.T) {
		mLinks := new(repoMocks.MockAccessLinkRepository)
		mDocs := new(repoMocks.MockDocumentRepository)
		mAudit := new(mockAudit)
		svc := NewAccessLinkService(mLinks, mDocs, mAudit, testBaseURL)

		mDocs.On("FindByID", ctx, "doc-1").Return(doc, nil)
		mLinks.On("Create", ctx, mock.MatchedBy(func(l *model.AccessLink) bool {
			return l.DocumentID == "doc-1" &&
				l.CreatedBy == "owner-1" &&
				l.CurrentViews == 0 &&
				l.MaxViews == 3 &&
				len(l.Token) == 48 && // 24 random bytes, hex-encoded
				l.ExpiresAt != nil // default expiry applied
		})).Return(func(ctx context.Context, l *model.AccessLink) *model.AccessLink {
			return l
		}, nil)
		mAudit.On("Record", ctx, model.ActionShare, "owner-1", mock.Anything, "doc-1", testClient).Return(nil)

		link, err := svc.Issue(ctx, IssueLinkInput{DocumentID: "doc-1", MaxViews: 3}, "owner-1", testClient)

		require.NoError(t, err)
		assert.Equal(t, testBaseURL+"/access/"+link.Token, link.AccessURL)
		assert.WithinDuration(t, time.Now().Add(30*24*time.Hour), *link.ExpiresAt, time.Minute)
		mAudit.AssertExpectations(t)
	})

	t.Run("explicit expiry preserved", func(t *testing.T) {
		mLinks := new(repoMocks.MockAccessLinkRepository)
		mDocs := new(repoMocks.MockDocumentRepository)
		mAudit := new(mockAudit)
		svc := NewAccessLinkService(mLinks, mDocs, mAudit, testBaseURL)

		expires := time.Now().UTC().Add(time.Hour)
		mDocs.On("FindByID", ctx, "doc-1").Return(doc, nil)
		mLinks.On("Create", ctx, mock.MatchedBy(func(l *model.AccessLink) bool {
			return l.ExpiresAt != nil && l.ExpiresAt.Equal(expires)
		})).Return(func(ctx context.Context, l *model.AccessLink) *model.AccessLink {
			return l
		}, nil)
		mAudit.On("Record", ctx, model.ActionShare, "owner-1", mock.Anything, "doc-1", testClient).Return(nil)

		_, err := svc.Issue(ctx, IssueLinkInput{DocumentID: "doc-1", ExpiresAt: &expires}, "owner-1", testClient)
		require.NoError(t, err)
	})

	t.Run("non-owner denied", func(t *testing.T) {
		mDocs := new(repoMocks.MockDocumentRepository)
		svc := NewAccessLinkService(nil, mDocs, nil, testBaseURL)

		mDocs.On("FindByID", ctx, "doc-1").Return(doc, nil)

		_, err := svc.Issue(ctx, IssueLinkInput{DocumentID: "doc-1"}, "intruder", testClient)
		assert.ErrorIs(t, err, ErrPermissionDenied)
	})

	t.Run("unknown document", func(t *testing.T) {
		mDocs := new(repoMocks.MockDocumentRepository)
		svc := NewAccessLinkService(nil, mDocs, nil, testBaseURL)

		mDocs.On("FindByID", ctx, "ghost").Return(nil, sql.ErrNoRows)

		_, err := svc.Issue(ctx, IssueLinkInput{DocumentID: "ghost"}, "owner-1", testClient)
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestAccessLinkService_Consume(t *testing.T) {
	ctx := context.Background()

	t.Run("success burns one view and records VIEW", func(t *testing.T) {
		mLinks := new(repoMocks.MockAccessLinkRepository)
		mAudit := new(mockAudit)
		svc := NewAccessLinkService(mLinks, nil, mAudit, testBaseURL)

		mLinks.On("Consume", ctx, "tok").Return(&model.AccessLink{
			ID: "link-1", Token: "tok", DocumentID: "doc-1", MaxViews: 1, CurrentViews: 1,
		}, nil)
		mAudit.On("Record", ctx, model.ActionView, "", "link-1", "doc-1", testClient).Return(nil)

		res, err := svc.Consume(ctx, "tok", testClient)

		require.NoError(t, err)
		assert.Equal(t, "doc-1", res.DocumentID)
		assert.Equal(t, "link-1", res.AccessLinkID)
		mAudit.AssertExpectations(t)
	})

	t.Run("unknown token", func(t *testing.T) {
		mLinks := new(repoMocks.MockAccessLinkRepository)
		svc := NewAccessLinkService(mLinks, nil, nil, testBaseURL)

		mLinks.On("Consume", ctx, "ghost").Return(nil, repository.ErrNotConsumed)
		mLinks.On("FindByToken", ctx, "ghost").Return(nil, sql.ErrNoRows)

		_, err := svc.Consume(ctx, "ghost", testClient)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("expired beats remaining quota", func(t *testing.T) {
		mLinks := new(repoMocks.MockAccessLinkRepository)
		svc := NewAccessLinkService(mLinks, nil, nil, testBaseURL)

		past := time.Now().Add(-time.Hour)
		mLinks.On("Consume", ctx, "tok").Return(nil, repository.ErrNotConsumed)
		mLinks.On("FindByToken", ctx, "tok").Return(&model.AccessLink{
			ID: "link-1", Token: "tok", ExpiresAt: &past, MaxViews: 5, CurrentViews: 0,
		}, nil)

		_, err := svc.Consume(ctx, "tok", testClient)
		assert.ErrorIs(t, err, ErrLinkExpired)
	})

	t.Run("quota exhausted", func(t *testing.T) {
		mLinks := new(repoMocks.MockAccessLinkRepository)
		svc := NewAccessLinkService(mLinks, nil, nil, testBaseURL)

		mLinks.On("Consume", ctx, "tok").Return(nil, repository.ErrNotConsumed)
		mLinks.On("FindByToken", ctx, "tok").Return(&model.AccessLink{
			ID: "link-1", Token: "tok", MaxViews: 1, CurrentViews: 1,
		}, nil)

		_, err := svc.Consume(ctx, "tok", testClient)
		assert.ErrorIs(t, err, ErrLinkExhausted)
	})
}

// fakeLinkRepo reproduces the database's per-row serialization so the quota
// property can be exercised under real goroutine concurrency.
type fakeLinkRepo struct {
	repoMocks.MockAccessLinkRepository

	mu   sync.Mutex
	link model.AccessLink
}

func (f *fakeLinkRepo) Consume(ctx context.Context, token string) (*model.AccessLink, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	l := &f.link
	if token != l.Token {
		return nil, repository.ErrNotConsumed
	}
	if l.ExpiresAt != nil && time.Now().After(*l.ExpiresAt) {
		return nil, repository.ErrNotConsumed
	}
	if l.MaxViews > 0 && l.CurrentViews >= l.MaxViews {
		return nil, repository.ErrNotConsumed
	}
	l.CurrentViews++
	cp := *l
	return &cp, nil
}

func (f *fakeLinkRepo) FindByToken(ctx context.Context, token string) (*model.AccessLink, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if token != f.link.Token {
		return nil, sql.ErrNoRows
	}
	cp := f.link
	return &cp, nil
}

func TestAccessLinkService_Consume_ConcurrentQuota(t *testing.T) {
	ctx := context.Background()
	const maxViews = 5
	const racers = 32

	repo := &fakeLinkRepo{link: model.AccessLink{
		ID: "link-1", Token: "tok", DocumentID: "doc-1", MaxViews: maxViews,
	}}
	mAudit := new(mockAudit)
	mAudit.On("Record", mock.Anything, model.ActionView, "", "link-1", "doc-1", mock.Anything).Return(nil)
	svc := NewAccessLinkService(repo, nil, mAudit, testBaseURL)

	var wg sync.WaitGroup
	results := make(chan error, racers)
	for i := 0; i < racers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Consume(ctx, "tok", model.ClientInfo{})
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	var succeeded, exhausted int
	for err := range results {
		switch {
		case err == nil:
			succeeded++
		case assert.ErrorIs(t, err, ErrLinkExhausted):
			exhausted++
		}
	}

	// Exactly maxViews racers pass; the counter never overshoots.
	assert.Equal(t, maxViews, succeeded)
	assert.Equal(t, racers-maxViews, exhausted)
	assert.Equal(t, maxViews, repo.link.CurrentViews)
}

func TestAccessLinkService_Revoke(t *testing.T) {
	ctx := context.Background()
	link := &model.AccessLink{ID: "link-1", CreatedBy: "owner-1"}

	t.Run("creator revokes", func(t *testing.T) {
		mLinks := new(repoMocks.MockAccessLinkRepository)
		svc := NewAccessLinkService(mLinks, nil, nil, testBaseURL)

		mLinks.On("FindByID", ctx, "link-1").Return(link, nil)
		mLinks.On("Delete", ctx, "link-1").Return(nil)

		assert.NoError(t, svc.Revoke(ctx, "link-1", "owner-1"))
		mLinks.AssertExpectations(t)
	})

	t.Run("non-creator denied", func(t *testing.T) {
		mLinks := new(repoMocks.MockAccessLinkRepository)
		svc := NewAccessLinkService(mLinks, nil, nil, testBaseURL)

		mLinks.On("FindByID", ctx, "link-1").Return(link, nil)

		err := svc.Revoke(ctx, "link-1", "intruder")
		assert.ErrorIs(t, err, ErrPermissionDenied)
		mLinks.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})

	t.Run("unknown link", func(t *testing.T) {
		mLinks := new(repoMocks.MockAccessLinkRepository)
		svc := NewAccessLinkService(mLinks, nil, nil, testBaseURL)

		mLinks.On("FindByID", ctx, "ghost").Return(nil, sql.ErrNoRows)

		assert.ErrorIs(t, svc.Revoke(ctx, "ghost", "owner-1"), ErrNotFound)
	})
}

func TestAccessLinkService_ListByDocument(t *testing.T) {
	ctx := context.Background()
	doc := &model.Document{ID: "doc-1", OwnerID: "owner-1"}

	t.Run("owner lists with URLs", func(t *testing.T) {
		mLinks := new(repoMocks.MockAccessLinkRepository)
		mDocs := new(repoMocks.MockDocumentRepository)
		svc := NewAccessLinkService(mLinks, mDocs, nil, testBaseURL)

		mDocs.On("FindByID", ctx, "doc-1").Return(doc, nil)
		mLinks.On("ListByDocument", ctx, "doc-1").Return([]model.AccessLink{
			{ID: "l1", Token: "tok1"},
			{ID: "l2", Token: "tok2"},
		}, nil)

		links, err := svc.ListByDocument(ctx, "doc-1", "owner-1")

		require.NoError(t, err)
		require.Len(t, links, 2)
		assert.Equal(t, testBaseURL+"/access/tok1", links[0].AccessURL)
	})

	t.Run("non-owner denied", func(t *testing.T) {
		mDocs := new(repoMocks.MockDocumentRepository)
		svc := NewAccessLinkService(nil, mDocs, nil, testBaseURL)

		mDocs.On("FindByID", ctx, "doc-1").Return(doc, nil)

		_, err := svc.ListByDocument(ctx, "doc-1", "intruder")
		assert.ErrorIs(t, err, ErrPermissionDenied)
	})
}

func TestAccessLinkService_ListByCreator(t *testing.T) {
	ctx := context.Background()
	mLinks := new(repoMocks.MockAccessLinkRepository)
	svc := NewAccessLinkService(mLinks, nil, nil, testBaseURL)

	mLinks.On("ListByCreator", ctx, "owner-1", repository.PageQuery{Limit: 10, Offset: 0}).
		Return(&repository.PageResult[model.AccessLink]{
			Items: []model.AccessLink{{ID: "l1", Token: "tok1"}},
			Total: 1,
		}, nil)

	page, err := svc.ListByCreator(ctx, "owner-1", 1, 10)

	require.NoError(t, err)
	assert.Equal(t, PageMeta{Total: 1, Page: 1, Limit: 10, Pages: 1}, page.Meta)
	assert.Equal(t, testBaseURL+"/access/tok1", page.Data[0].AccessURL)
}
