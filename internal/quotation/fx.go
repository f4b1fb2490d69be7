package quotation

import (
	"github.com/alldenims/pricequote/internal/quotation/repository"
	"github.com/alldenims/pricequote/internal/quotation/service"
	"go.uber.org/fx"
)

var Module = fx.Module("quotation.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
