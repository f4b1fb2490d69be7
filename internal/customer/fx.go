package customer

import (
	"github.com/alldenims/pricequote/internal/customer/repository"
	"github.com/alldenims/pricequote/internal/customer/service"
	"go.uber.org/fx"
)

var Module = fx.Module("customer.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
