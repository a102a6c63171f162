package repository

import (
	"context"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/bookmark-site/bookmark-site/internal/db"
)

type BookmarkRepository struct {
	db *gorm.DB
}

func NewBookmarkRepository(gormDB *gorm.DB) *BookmarkRepository {
	return &BookmarkRepository{db: gormDB}
}

// CreateForOwner inserts the bookmark and appends its id to the owner's
// denormalized list in a single transaction. The owner row is locked
// first, so concurrent creates for the same owner cannot race past the
// capacity check.
func (r *BookmarkRepository) CreateForOwner(ctx context.Context, ownerID uint64, title, url string, capacity int) (*db.Bookmark, error) {
	bookmark := db.Bookmark{
		Title:  title,
		URL:    url,
		UserID: ownerID,
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		owner := db.User{}
		res := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&owner, ownerID)
		if res.Error != nil {
			if errors.Is(res.Error, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return errors.Wrap(res.Error, "lock owner")
		}

		if len(owner.BookmarkIDs) >= capacity {
			return ErrAtCapacity
		}

		if res := tx.Create(&bookmark); res.Error != nil {
			return errors.Wrap(res.Error, "create bookmark")
		}

		owner.BookmarkIDs = append(owner.BookmarkIDs, int64(bookmark.ID))
		res = tx.Model(&owner).Update("bookmark_ids", owner.BookmarkIDs)
		if res.Error != nil {
			return errors.Wrap(res.Error, "update owner bookmark ids")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &bookmark, nil
}

func (r *BookmarkRepository) ByID(ctx context.Context, id uint64) (*db.Bookmark, error) {
	bookmark := db.Bookmark{}
	res := r.db.WithContext(ctx).First(&bookmark, id)
	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, res.Error
	}
	return &bookmark, nil
}

// ListPage returns one page of the owner's bookmarks, newest first,
// along with the total count. page is 1-indexed; a page past the end
// yields an empty slice.
func (r *BookmarkRepository) ListPage(ctx context.Context, ownerID uint64, page, pageSize int) ([]db.Bookmark, int64, error) {
	countSQL, countArgs, err := squirrel.
		Select("COUNT(*)").From("bookmarks").
		Where(squirrel.Eq{"user_id": ownerID}).
		ToSql()
	if err != nil {
		return nil, 0, errors.Wrap(err, "build count sql")
	}

	var total int64
	res := r.db.WithContext(ctx).Raw(countSQL, countArgs...).Scan(&total)
	if res.Error != nil {
		return nil, 0, errors.Wrap(res.Error, "count bookmarks")
	}

	skip := (page - 1) * pageSize
	listSQL, listArgs, err := squirrel.
		Select("id", "title", "url", "user_id", "created_at").From("bookmarks").
		Where(squirrel.Eq{"user_id": ownerID}).
		OrderBy("created_at DESC").
		Limit(uint64(pageSize)).
		Offset(uint64(skip)).
		ToSql()
	if err != nil {
		return nil, 0, errors.Wrap(err, "build list sql")
	}

	bookmarks := make([]db.Bookmark, 0)
	res = r.db.WithContext(ctx).Raw(listSQL, listArgs...).Scan(&bookmarks)
	if res.Error != nil {
		return nil, 0, errors.Wrap(res.Error, "scan bookmarks")
	}

	return bookmarks, total, nil
}

// Update overwrites title and url only; id and owner are immutable.
func (r *BookmarkRepository) Update(ctx context.Context, id uint64, title, url string) error {
	res := r.db.WithContext(ctx).
		Model(&db.Bookmark{Model: db.Model{ID: id}}).
		Updates(map[string]interface{}{"title": title, "url": url})
	if res.Error != nil {
		return res.Error
	}
	return nil
}

// DeleteForOwner removes the bookmark row and its id from the owner's
// denormalized list in a single transaction.
func (r *BookmarkRepository) DeleteForOwner(ctx context.Context, bookmark *db.Bookmark) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		owner := db.User{}
		res := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&owner, bookmark.UserID)
		if res.Error != nil {
			if errors.Is(res.Error, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return errors.Wrap(res.Error, "lock owner")
		}

		kept := owner.BookmarkIDs[:0]
		for _, id := range owner.BookmarkIDs {
			if id != int64(bookmark.ID) {
				kept = append(kept, id)
			}
		}
		owner.BookmarkIDs = kept

		res = tx.Model(&owner).Update("bookmark_ids", owner.BookmarkIDs)
		if res.Error != nil {
			return errors.Wrap(res.Error, "update owner bookmark ids")
		}

		res = tx.Delete(&db.Bookmark{}, bookmark.ID)
		if res.Error != nil {
			return errors.Wrap(res.Error, "delete bookmark")
		}
		return nil
	})
}

// Search matches the query as a literal, case-insensitive substring of
// title or url. The pattern is escaped, never compiled from user input.
func (r *BookmarkRepository) Search(ctx context.Context, ownerID uint64, query string) ([]db.Bookmark, error) {
	pattern := "%" + escapeLike(query) + "%"
	searchSQL, args, err := squirrel.
		Select("id", "title", "url", "user_id", "created_at").From("bookmarks").
		Where(squirrel.And{
			squirrel.Eq{"user_id": ownerID},
			squirrel.Or{
				squirrel.ILike{"title": pattern},
				squirrel.ILike{"url": pattern},
			},
		}).
		OrderBy("created_at DESC").
		ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "build search sql")
	}

	bookmarks := make([]db.Bookmark, 0)
	res := r.db.WithContext(ctx).Raw(searchSQL, args...).Scan(&bookmarks)
	if res.Error != nil {
		return nil, errors.Wrap(res.Error, "scan bookmarks")
	}

	return bookmarks, nil
}

func escapeLike(s string) string {
	replacer := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return replacer.Replace(s)
}
