package billing

import (
	"github.com/telvoralabs/telvora/internal/billing/repository"
	"github.com/telvoralabs/telvora/internal/billing/service"
	"go.uber.org/fx"
)

var Module = fx.Module("billing.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
