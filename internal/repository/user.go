package repository

import (
	"context"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/bookmark-site/bookmark-site/internal/db"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(gormDB *gorm.DB) *UserRepository {
	return &UserRepository{db: gormDB}
}

func (r *UserRepository) Create(ctx context.Context, username, passwordHash string) (*db.User, error) {
	user := db.User{
		Username:     username,
		PasswordHash: passwordHash,
	}
	res := r.db.WithContext(ctx).Create(&user)
	if res.Error != nil {
		return nil, res.Error
	}
	return &user, nil
}

func (r *UserRepository) ByUsername(ctx context.Context, username string) (*db.User, error) {
	user := db.User{}
	res := r.db.WithContext(ctx).Where("username = ?", username).First(&user)
	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, res.Error
	}
	return &user, nil
}

func (r *UserRepository) ByID(ctx context.Context, id uint64) (*db.User, error) {
	user := db.User{}
	res := r.db.WithContext(ctx).First(&user, id)
	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, res.Error
	}
	return &user, nil
}
