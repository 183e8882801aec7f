package audit

import (
	auditdomain "github.com/smallbiznis/tradeledger/internal/audit/domain"
	"github.com/smallbiznis/tradeledger/internal/audit/repository"
	"github.com/smallbiznis/tradeledger/internal/audit/service"
	"go.uber.org/fx"
)

var Module = fx.Module("audit.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.NewService),
	fx.Provide(func(s auditdomain.Service) auditdomain.Recorder { return s }),
)
