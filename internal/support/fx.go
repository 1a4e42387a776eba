package support

import (
	"github.com/telvoralabs/telvora/internal/support/repository"
	"github.com/telvoralabs/telvora/internal/support/service"
	"go.uber.org/fx"
)

var Module = fx.Module("support.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
