package subscription

import (
	"github.com/telvoralabs/telvora/internal/subscription/repository"
	"github.com/telvoralabs/telvora/internal/subscription/service"
	"go.uber.org/fx"
)

var Module = fx.Module("subscription.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
