package usage

import (
	"github.com/telvoralabs/telvora/internal/usage/repository"
	"github.com/telvoralabs/telvora/internal/usage/service"
	"github.com/telvoralabs/telvora/internal/usage/snapshot"
	"go.uber.org/fx"
)

var Module = fx.Module("usage.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
	fx.Provide(snapshot.New),
)

// SnapshotWorkerModule starts the periodic snapshot refresh. Only the
// serve command composes it.
var SnapshotWorkerModule = fx.Module("usage.snapshot.worker",
	fx.Invoke(snapshot.NewWorker),
)
