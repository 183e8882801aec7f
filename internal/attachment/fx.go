package attachment

import (
	"github.com/smallbiznis/tradeledger/internal/attachment/repository"
	"github.com/smallbiznis/tradeledger/internal/attachment/service"
	"github.com/smallbiznis/tradeledger/internal/attachment/store"
	"go.uber.org/fx"
)

var Module = fx.Module("attachment.service",
	fx.Provide(repository.Provide),
	fx.Provide(store.Provide),
	fx.Provide(service.NewService),
)
