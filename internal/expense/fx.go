package expense

import (
	"github.com/smallbiznis/tradeledger/internal/expense/repository"
	"github.com/smallbiznis/tradeledger/internal/expense/service"
	"go.uber.org/fx"
)

var Module = fx.Module("expense.service",
	fx.Provide(repository.NewRepository),
	fx.Provide(service.NewService),
)
