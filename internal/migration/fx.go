package migration

import (
	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/tradeledger/internal/clock"
	"github.com/smallbiznis/tradeledger/internal/config"
	"github.com/smallbiznis/tradeledger/internal/seed"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config, node *snowflake.Node, c clock.Clock, log *zap.Logger) error {
		if err := Run(conn, cfg.DBType); err != nil {
			return err
		}
		if !cfg.SeedExpenseTypes {
			return nil
		}

		created, err := seed.EnsureExpenseTypes(conn, node, c)
		if err != nil {
			return err
		}
		if created > 0 {
			log.Info("seeded expense types", zap.Int("count", created))
		}
		return nil
	}),
)
