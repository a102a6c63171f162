package service

import (
	"go.uber.org/fx"

	"github.com/bookmark-site/bookmark-site/internal/repository"
)

var (
	Module = fx.Provide(
		func(r *repository.UserRepository) UserStore { return r },
		func(r *repository.BookmarkRepository) BookmarkStore { return r },
		NewAuth,
		NewBookmarks,
	)
)
