package transport

import (
	"go.uber.org/fx"

	"github.com/bookmark-site/bookmark-site/internal/service"
)

var (
	Module = fx.Provide(
		func(a *service.Auth) Auth { return a },
		func(b *service.Bookmarks) Bookmarks { return b },
		NewHTTPServer,
	)
)
