package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/tradeledger/internal/attachment"
	"github.com/smallbiznis/tradeledger/internal/audit"
	"github.com/smallbiznis/tradeledger/internal/clock"
	"github.com/smallbiznis/tradeledger/internal/config"
	"github.com/smallbiznis/tradeledger/internal/expense"
	"github.com/smallbiznis/tradeledger/internal/logger"
	"github.com/smallbiznis/tradeledger/internal/migration"
	"github.com/smallbiznis/tradeledger/internal/observability"
	"github.com/smallbiznis/tradeledger/internal/reporting"
	"github.com/smallbiznis/tradeledger/internal/seed"
	"github.com/smallbiznis/tradeledger/internal/server"
	"github.com/smallbiznis/tradeledger/internal/tax"
	"github.com/smallbiznis/tradeledger/pkg/db"
	"github.com/smallbiznis/tradeledger/pkg/telemetry"
	"github.com/urfave/cli/v2"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func main() {
	flags := []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Usage:   "optional config file (yaml, json or toml)",
			EnvVars: []string{"CONFIG_FILE"},
		},
		&cli.Int64Flag{
			Name:    "node-id",
			Usage:   "snowflake node id for generated identifiers",
			EnvVars: []string{"NODE_ID"},
			Value:   1,
		},
	}

	app := &cli.App{
		Name:  "tradeledger",
		Usage: "GST and TDS expense invoice ledger",
		Flags: flags,
		Commands: []*cli.Command{
			{
				Name:  "serve",
				Usage: "run migrations and start the HTTP API",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "http-addr",
						EnvVars: []string{"HTTP_ADDR"},
					},
				},
				Action: serve,
			},
			{
				Name:   "migrate",
				Usage:  "apply database migrations and exit",
				Action: migrate,
			},
			{
				Name:   "seed",
				Usage:  "insert the default expense types that are missing",
				Action: seedTypes,
			},
		},
		DefaultCommand: "serve",
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func exportFlags(c *cli.Context) {
	if v := c.String("config"); v != "" {
		_ = os.Setenv("CONFIG_FILE", v)
	}
	if c.IsSet("http-addr") {
		_ = os.Setenv("HTTP_ADDR", c.String("http-addr"))
	}
}

func core(c *cli.Context) fx.Option {
	nodeID := c.Int64("node-id")
	return fx.Options(
		config.Module,
		logger.Module,
		clock.Module,
		observability.Module,
		fx.Provide(func() (*snowflake.Node, error) {
			return snowflake.NewNode(nodeID)
		}),
		db.Module,
	)
}

func serve(c *cli.Context) error {
	exportFlags(c)

	app := fx.New(
		core(c),
		telemetry.Module,
		migration.Module,

		tax.Module,
		audit.Module,
		attachment.Module,
		expense.Module,
		reporting.Module,

		server.Module,
	)
	app.Run()
	return app.Err()
}

func migrate(c *cli.Context) error {
	exportFlags(c)
	return runOnce(c, fx.Options(
		core(c),
		migration.Module,
	))
}

func seedTypes(c *cli.Context) error {
	exportFlags(c)
	return runOnce(c, fx.Options(
		core(c),
		fx.Invoke(func(conn *gorm.DB, cfg config.Config, node *snowflake.Node, clk clock.Clock, log *zap.Logger) error {
			if err := migration.Run(conn, cfg.DBType); err != nil {
				return err
			}
			created, err := seed.EnsureExpenseTypes(conn, node, clk)
			if err != nil {
				return err
			}
			log.Info("expense types seeded", zap.Int("created", created))
			return nil
		}),
	))
}

// runOnce builds the graph, runs its invokes and shuts it down.
func runOnce(c *cli.Context, opts fx.Option) error {
	app := fx.New(opts, fx.NopLogger)
	if err := app.Err(); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(c.Context, 30*time.Second)
	defer cancel()
	if err := app.Start(ctx); err != nil {
		return err
	}
	return app.Stop(ctx)
}
