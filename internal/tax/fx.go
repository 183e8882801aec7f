package tax

import (
	"github.com/smallbiznis/tradeledger/internal/tax/repository"
	"github.com/smallbiznis/tradeledger/internal/tax/service"
	"go.uber.org/fx"
)

var Module = fx.Module("tax.service",
	fx.Provide(repository.NewRepository),
	fx.Provide(service.NewLookup),
	fx.Provide(service.NewService),
)
