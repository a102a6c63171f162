package service

import (
	"context"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/bookmark-site/bookmark-site/internal/db"
	"github.com/bookmark-site/bookmark-site/internal/repository"
)

const (
	// MaxBookmarksPerUser caps how many bookmarks one account may hold.
	MaxBookmarksPerUser = 5

	// PageSize is the fixed page size of the bookmark listing.
	PageSize = 3
)

// BookmarkStore is the persistence needed by Bookmarks. CreateForOwner
// and DeleteForOwner keep the owner's denormalized id list and the
// bookmark rows consistent within one transaction.
type BookmarkStore interface {
	CreateForOwner(ctx context.Context, ownerID uint64, title, url string, capacity int) (*db.Bookmark, error)
	ByID(ctx context.Context, id uint64) (*db.Bookmark, error)
	ListPage(ctx context.Context, ownerID uint64, page, pageSize int) ([]db.Bookmark, int64, error)
	Update(ctx context.Context, id uint64, title, url string) error
	DeleteForOwner(ctx context.Context, bookmark *db.Bookmark) error
	Search(ctx context.Context, ownerID uint64, query string) ([]db.Bookmark, error)
}

type PagedResult struct {
	Bookmarks  []db.Bookmark
	Page       int
	PageSize   int
	Total      int64
	TotalPages int
}

// Bookmarks holds the business rules: the per-user cap and the
// owner-only guard on every mutation.
type Bookmarks struct {
	store  BookmarkStore
	logger *zap.SugaredLogger
}

func NewBookmarks(store BookmarkStore, l *zap.SugaredLogger) *Bookmarks {
	return &Bookmarks{
		store:  store,
		logger: l,
	}
}

func (s *Bookmarks) Add(ctx context.Context, ownerID uint64, title, url string) (*db.Bookmark, error) {
	if title == "" || url == "" {
		return nil, ErrValidation
	}

	bookmark, err := s.store.CreateForOwner(ctx, ownerID, title, url, MaxBookmarksPerUser)
	if err != nil {
		if errors.Is(err, repository.ErrAtCapacity) {
			return nil, ErrCapacityExceeded
		}
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, errors.Wrap(err, "create bookmark")
	}
	return bookmark, nil
}

// Get loads a bookmark for its owner; used by the edit form.
func (s *Bookmarks) Get(ctx context.Context, requesterID, bookmarkID uint64) (*db.Bookmark, error) {
	bookmark, err := s.load(ctx, bookmarkID)
	if err != nil {
		return nil, err
	}
	if !s.authorize(bookmark, requesterID) {
		return nil, ErrNotOwner
	}
	return bookmark, nil
}

func (s *Bookmarks) Edit(ctx context.Context, requesterID, bookmarkID uint64, title, url string) error {
	if title == "" || url == "" {
		return ErrValidation
	}

	bookmark, err := s.load(ctx, bookmarkID)
	if err != nil {
		return err
	}
	if !s.authorize(bookmark, requesterID) {
		return ErrNotOwner
	}

	if err := s.store.Update(ctx, bookmark.ID, title, url); err != nil {
		return errors.Wrap(err, "update bookmark")
	}
	return nil
}

func (s *Bookmarks) Remove(ctx context.Context, requesterID, bookmarkID uint64) error {
	bookmark, err := s.load(ctx, bookmarkID)
	if err != nil {
		return err
	}
	if !s.authorize(bookmark, requesterID) {
		return ErrNotOwner
	}

	if err := s.store.DeleteForOwner(ctx, bookmark); err != nil {
		return errors.Wrap(err, "delete bookmark")
	}
	return nil
}

func (s *Bookmarks) ListPage(ctx context.Context, ownerID uint64, page int) (*PagedResult, error) {
	if page < 1 {
		page = 1
	}

	bookmarks, total, err := s.store.ListPage(ctx, ownerID, page, PageSize)
	if err != nil {
		return nil, errors.Wrap(err, "list bookmarks")
	}

	totalPages := int((total + PageSize - 1) / PageSize)
	return &PagedResult{
		Bookmarks:  bookmarks,
		Page:       page,
		PageSize:   PageSize,
		Total:      total,
		TotalPages: totalPages,
	}, nil
}

func (s *Bookmarks) Search(ctx context.Context, ownerID uint64, query string) ([]db.Bookmark, error) {
	bookmarks, err := s.store.Search(ctx, ownerID, query)
	if err != nil {
		return nil, errors.Wrap(err, "search bookmarks")
	}
	return bookmarks, nil
}

func (s *Bookmarks) load(ctx context.Context, bookmarkID uint64) (*db.Bookmark, error) {
	bookmark, err := s.store.ByID(ctx, bookmarkID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, errors.Wrap(err, "load bookmark")
	}
	return bookmark, nil
}

func (s *Bookmarks) authorize(bookmark *db.Bookmark, requesterID uint64) bool {
	return bookmark.UserID == requesterID
}
