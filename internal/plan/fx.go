package plan

import (
	"github.com/telvoralabs/telvora/internal/plan/repository"
	"github.com/telvoralabs/telvora/internal/plan/service"
	"go.uber.org/fx"
)

var Module = fx.Module("plan.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
