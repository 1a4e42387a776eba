package ledger

import (
	"github.com/telvoralabs/telvora/internal/ledger/repository"
	"github.com/telvoralabs/telvora/internal/ledger/service"
	"go.uber.org/fx"
)

var Module = fx.Module("ledger.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
