package main

import (
	"context"
	"fmt"
	"os"

	"github.com/bwmarrin/snowflake"
	"github.com/spf13/cobra"
	"github.com/telvoralabs/telvora/internal/clock"
	"github.com/telvoralabs/telvora/internal/config"
	"github.com/telvoralabs/telvora/internal/migration"
	"github.com/telvoralabs/telvora/internal/observability"
	"github.com/telvoralabs/telvora/internal/seed"
	"github.com/telvoralabs/telvora/internal/server"
	"github.com/telvoralabs/telvora/internal/usage"
	"github.com/telvoralabs/telvora/internal/usage/snapshot"
	"github.com/telvoralabs/telvora/pkg/db"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

func main() {
	root := &cobra.Command{
		Use:          "telvora",
		Short:        "Telvora subscriber billing and usage platform",
		SilenceUsage: true,
	}

	root.AddCommand(serveCmd(), migrateCmd(), seedCmd(), snapshotCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run migrations and start the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			app := fx.New(
				fx.Provide(RegisterSnowflake),
				server.Module,
				migration.Module,
				usage.SnapshotWorkerModule,
			)
			app.Run()
			return nil
		},
	}
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOnce(
				coreModules(),
				migration.Module,
			)
		},
	}
}

func seedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Load the sample dataset and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOnce(
				coreModules(),
				fx.Invoke(func(conn *gorm.DB) error {
					return seed.EnsureSampleData(conn)
				}),
			)
		},
	}
}

func snapshotCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "snapshot",
		Short: "Append one usage snapshot generation and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOnce(
				coreModules(),
				fx.Provide(snapshot.New),
				fx.Invoke(func(lc fx.Lifecycle, refresher *snapshot.Refresher) {
					lc.Append(fx.Hook{
						OnStart: func(ctx context.Context) error {
							plans, err := refresher.RunOnce(ctx)
							if err != nil {
								return err
							}
							fmt.Printf("snapshotted %d plans\n", plans)
							return nil
						},
					})
				}),
			)
		},
	}
}

func coreModules() fx.Option {
	return fx.Options(
		config.Module,
		observability.Module,
		clock.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
	)
}

// runOnce starts an fx app, lets the OnStart hooks do their work and
// shuts it back down.
func runOnce(opts ...fx.Option) error {
	app := fx.New(opts...)

	ctx := context.Background()
	if err := app.Start(ctx); err != nil {
		return err
	}
	return app.Stop(ctx)
}

func RegisterSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	return node
}
