package di

import (
	"go.uber.org/fx"

	"github.com/pointsmall/pointsmall/internal/adapter/wechat"
	"github.com/pointsmall/pointsmall/internal/app"
	"github.com/pointsmall/pointsmall/internal/config"
	"github.com/pointsmall/pointsmall/internal/logger"
	"github.com/pointsmall/pointsmall/internal/pkg/auth"
	"github.com/pointsmall/pointsmall/internal/server/http/router"
	"github.com/pointsmall/pointsmall/internal/storage/postgres"
	"github.com/pointsmall/pointsmall/internal/usecase"
)

func Module(opts ...fx.Option) fx.Option {
	modules := []fx.Option{
		config.Module,
		logger.Module,
		auth.Module,
		postgres.Module,
		wechat.Module,
		usecase.Module,
		router.Module,
		app.Module,
	}
	modules = append(modules, opts...)
	return fx.Options(modules...)
}
