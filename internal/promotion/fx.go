package promotion

import (
	"github.com/telvoralabs/telvora/internal/promotion/repository"
	"github.com/telvoralabs/telvora/internal/promotion/service"
	"go.uber.org/fx"
)

var Module = fx.Module("promotion.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
