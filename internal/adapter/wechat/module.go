package wechat

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/pointsmall/pointsmall/internal/config"
)

// Module exposes the WeChat identity resolver to the fx graph.
var Module = fx.Provide(newClient)

type clientParams struct {
	fx.In

	Config *config.Config
	Logger *slog.Logger
}

func newClient(p clientParams) (Resolver, error) {
	return NewHTTPClient(p.Config.WechatAPIBase, p.Config.WechatAppID, p.Config.WechatSecret, p.Logger)
}
