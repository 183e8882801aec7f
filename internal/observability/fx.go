package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/smallbiznis/tradeledger/internal/config"
	"github.com/smallbiznis/tradeledger/internal/observability/metrics"
	"go.uber.org/fx"
)

var Module = fx.Module("observability",
	fx.Provide(provideMetrics),
)

func provideMetrics(cfg config.Config) (*metrics.Metrics, error) {
	if !cfg.MetricsEnabled {
		return nil, nil
	}
	return metrics.New(prometheus.DefaultRegisterer)
}
