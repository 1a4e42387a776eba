package customer

import (
	"github.com/telvoralabs/telvora/internal/customer/repository"
	"github.com/telvoralabs/telvora/internal/customer/service"
	"go.uber.org/fx"
)

var Module = fx.Module("customer.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
