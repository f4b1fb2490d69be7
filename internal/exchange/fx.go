package exchange

import (
	"github.com/alldenims/pricequote/internal/exchange/service"
	"go.uber.org/fx"
)

var Module = fx.Module("exchange.service",
	fx.Provide(service.New),
	fx.Provide(service.NewRefresher),
	fx.Invoke(service.RunRefresher),
)
