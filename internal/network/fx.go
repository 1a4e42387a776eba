package network

import (
	"github.com/telvoralabs/telvora/internal/network/repository"
	"github.com/telvoralabs/telvora/internal/network/service"
	"go.uber.org/fx"
)

var Module = fx.Module("network.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
