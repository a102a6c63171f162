package main

import (
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/bookmark-site/bookmark-site/internal/config"
	"github.com/bookmark-site/bookmark-site/internal/db"
	"github.com/bookmark-site/bookmark-site/internal/repository"
	"github.com/bookmark-site/bookmark-site/internal/service"
	"github.com/bookmark-site/bookmark-site/internal/session"
	"github.com/bookmark-site/bookmark-site/internal/transport"
)

func main() {
	app := fx.New(
		fx.Provide(
			func() (*zap.SugaredLogger, error) {
				l, err := zap.NewProduction()
				if err != nil {
					return nil, err
				}
				return l.Sugar(), nil
			},
		),
		config.Module,
		db.Module,
		session.Module,
		repository.Module,
		service.Module,
		transport.Module,
		fx.Invoke(func(server *transport.HTTPServer) {}),
	)

	app.Run()
}
