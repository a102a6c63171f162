package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/bookmark-site/bookmark-site/internal/db"
	"github.com/bookmark-site/bookmark-site/internal/repository"
)

type mockBookmarkStore struct {
	CreateForOwnerFunc func(ctx context.Context, ownerID uint64, title, url string, capacity int) (*db.Bookmark, error)
	ByIDFunc           func(ctx context.Context, id uint64) (*db.Bookmark, error)
	ListPageFunc       func(ctx context.Context, ownerID uint64, page, pageSize int) ([]db.Bookmark, int64, error)
	UpdateFunc         func(ctx context.Context, id uint64, title, url string) error
	DeleteForOwnerFunc func(ctx context.Context, bookmark *db.Bookmark) error
	SearchFunc         func(ctx context.Context, ownerID uint64, query string) ([]db.Bookmark, error)
}

func (m *mockBookmarkStore) CreateForOwner(ctx context.Context, ownerID uint64, title, url string, capacity int) (*db.Bookmark, error) {
	return m.CreateForOwnerFunc(ctx, ownerID, title, url, capacity)
}

func (m *mockBookmarkStore) ByID(ctx context.Context, id uint64) (*db.Bookmark, error) {
	return m.ByIDFunc(ctx, id)
}

func (m *mockBookmarkStore) ListPage(ctx context.Context, ownerID uint64, page, pageSize int) ([]db.Bookmark, int64, error) {
	return m.ListPageFunc(ctx, ownerID, page, pageSize)
}

func (m *mockBookmarkStore) Update(ctx context.Context, id uint64, title, url string) error {
	return m.UpdateFunc(ctx, id, title, url)
}

func (m *mockBookmarkStore) DeleteForOwner(ctx context.Context, bookmark *db.Bookmark) error {
	return m.DeleteForOwnerFunc(ctx, bookmark)
}

func (m *mockBookmarkStore) Search(ctx context.Context, ownerID uint64, query string) ([]db.Bookmark, error) {
	return m.SearchFunc(ctx, ownerID, query)
}

func newTestBookmarks(store BookmarkStore) *Bookmarks {
	return NewBookmarks(store, zap.NewNop().Sugar())
}

func TestAddValidation(t *testing.T) {
	called := false
	svc := newTestBookmarks(&mockBookmarkStore{
		CreateForOwnerFunc: func(ctx context.Context, ownerID uint64, title, url string, capacity int) (*db.Bookmark, error) {
			called = true
			return nil, nil
		},
	})

	_, err := svc.Add(context.Background(), 1, "", "https://go.dev")
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.Add(context.Background(), 1, "Go", "")
	assert.ErrorIs(t, err, ErrValidation)

	assert.False(t, called)
}

func TestAddSuccess(t *testing.T) {
	svc := newTestBookmarks(&mockBookmarkStore{
		CreateForOwnerFunc: func(ctx context.Context, ownerID uint64, title, url string, capacity int) (*db.Bookmark, error) {
			assert.Equal(t, uint64(1), ownerID)
			assert.Equal(t, MaxBookmarksPerUser, capacity)
			return &db.Bookmark{Model: db.Model{ID: 10}, Title: title, URL: url, UserID: ownerID}, nil
		},
	})

	bookmark, err := svc.Add(context.Background(), 1, "Go blog", "https://go.dev/blog")
	assert.Nil(t, err)
	assert.Equal(t, uint64(10), bookmark.ID)
}

func TestAddAtCapacity(t *testing.T) {
	svc := newTestBookmarks(&mockBookmarkStore{
		CreateForOwnerFunc: func(ctx context.Context, ownerID uint64, title, url string, capacity int) (*db.Bookmark, error) {
			return nil, repository.ErrAtCapacity
		},
	})

	_, err := svc.Add(context.Background(), 1, "One too many", "https://example.com")
	assert.ErrorIs(t, err, ErrCapacityExceeded)
}

func TestEditNotFound(t *testing.T) {
	svc := newTestBookmarks(&mockBookmarkStore{
		ByIDFunc: func(ctx context.Context, id uint64) (*db.Bookmark, error) {
			return nil, repository.ErrNotFound
		},
	})

	err := svc.Edit(context.Background(), 1, 404, "title", "https://example.com")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestEditNotOwner(t *testing.T) {
	updated := false
	svc := newTestBookmarks(&mockBookmarkStore{
		ByIDFunc: func(ctx context.Context, id uint64) (*db.Bookmark, error) {
			return &db.Bookmark{Model: db.Model{ID: id}, UserID: 2}, nil
		},
		UpdateFunc: func(ctx context.Context, id uint64, title, url string) error {
			updated = true
			return nil
		},
	})

	err := svc.Edit(context.Background(), 1, 5, "title", "https://example.com")
	assert.ErrorIs(t, err, ErrNotOwner)
	assert.False(t, updated, "bookmark must be unchanged")
}

func TestEditSuccess(t *testing.T) {
	svc := newTestBookmarks(&mockBookmarkStore{
		ByIDFunc: func(ctx context.Context, id uint64) (*db.Bookmark, error) {
			return &db.Bookmark{Model: db.Model{ID: id}, UserID: 1}, nil
		},
		UpdateFunc: func(ctx context.Context, id uint64, title, url string) error {
			assert.Equal(t, uint64(5), id)
			assert.Equal(t, "New title", title)
			assert.Equal(t, "https://new.example.com", url)
			return nil
		},
	})

	err := svc.Edit(context.Background(), 1, 5, "New title", "https://new.example.com")
	assert.Nil(t, err)
}

func TestRemoveNotOwner(t *testing.T) {
	deleted := false
	svc := newTestBookmarks(&mockBookmarkStore{
		ByIDFunc: func(ctx context.Context, id uint64) (*db.Bookmark, error) {
			return &db.Bookmark{Model: db.Model{ID: id}, UserID: 2}, nil
		},
		DeleteForOwnerFunc: func(ctx context.Context, bookmark *db.Bookmark) error {
			deleted = true
			return nil
		},
	})

	err := svc.Remove(context.Background(), 1, 5)
	assert.ErrorIs(t, err, ErrNotOwner)
	assert.False(t, deleted)
}

func TestRemoveSuccess(t *testing.T) {
	svc := newTestBookmarks(&mockBookmarkStore{
		ByIDFunc: func(ctx context.Context, id uint64) (*db.Bookmark, error) {
			return &db.Bookmark{Model: db.Model{ID: id}, UserID: 1}, nil
		},
		DeleteForOwnerFunc: func(ctx context.Context, bookmark *db.Bookmark) error {
			assert.Equal(t, uint64(5), bookmark.ID)
			return nil
		},
	})

	err := svc.Remove(context.Background(), 1, 5)
	assert.Nil(t, err)
}

func TestGetNotOwner(t *testing.T) {
	svc := newTestBookmarks(&mockBookmarkStore{
		ByIDFunc: func(ctx context.Context, id uint64) (*db.Bookmark, error) {
			return &db.Bookmark{Model: db.Model{ID: id}, UserID: 2}, nil
		},
	})

	_, err := svc.Get(context.Background(), 1, 5)
	assert.ErrorIs(t, err, ErrNotOwner)
}

func TestListPagePagination(t *testing.T) {
	// 7 bookmarks at page size 3: pages hold 3, 3, 1, 0 items
	all := make([]db.Bookmark, 7)
	for i := range all {
		all[i] = db.Bookmark{Model: db.Model{ID: uint64(7 - i)}, UserID: 1}
	}

	svc := newTestBookmarks(&mockBookmarkStore{
		ListPageFunc: func(ctx context.Context, ownerID uint64, page, pageSize int) ([]db.Bookmark, int64, error) {
			assert.Equal(t, PageSize, pageSize)
			skip := (page - 1) * pageSize
			if skip >= len(all) {
				return nil, int64(len(all)), nil
			}
			end := skip + pageSize
			if end > len(all) {
				end = len(all)
			}
			return all[skip:end], int64(len(all)), nil
		},
	})

	ctx := context.Background()
	for _, tc := range []struct {
		page      int
		wantItems int
	}{
		{1, 3},
		{2, 3},
		{3, 1},
		{4, 0},
	} {
		result, err := svc.ListPage(ctx, 1, tc.page)
		assert.Nil(t, err)
		assert.Len(t, result.Bookmarks, tc.wantItems, "page %d", tc.page)
		assert.Equal(t, 3, result.TotalPages)
		assert.Equal(t, int64(7), result.Total)
	}

	// most recent first on page 1
	result, err := svc.ListPage(ctx, 1, 1)
	assert.Nil(t, err)
	assert.Equal(t, uint64(7), result.Bookmarks[0].ID)
}

func TestListPageDefaultsToFirst(t *testing.T) {
	svc := newTestBookmarks(&mockBookmarkStore{
		ListPageFunc: func(ctx context.Context, ownerID uint64, page, pageSize int) ([]db.Bookmark, int64, error) {
			assert.Equal(t, 1, page)
			return nil, 0, nil
		},
	})

	result, err := svc.ListPage(context.Background(), 1, 0)
	assert.Nil(t, err)
	assert.Equal(t, 1, result.Page)
	assert.Equal(t, 0, result.TotalPages)
}

func TestSearchDelegates(t *testing.T) {
	svc := newTestBookmarks(&mockBookmarkStore{
		SearchFunc: func(ctx context.Context, ownerID uint64, query string) ([]db.Bookmark, error) {
			assert.Equal(t, uint64(1), ownerID)
			assert.Equal(t, "git", query)
			return []db.Bookmark{{Model: db.Model{ID: 2}, Title: "GitHub", URL: "https://github.com", UserID: 1}}, nil
		},
	})

	bookmarks, err := svc.Search(context.Background(), 1, "git")
	assert.Nil(t, err)
	assert.Len(t, bookmarks, 1)
}
