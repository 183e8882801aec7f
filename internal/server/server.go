package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	attachmentdomain "github.com/smallbiznis/tradeledger/internal/attachment/domain"
	"github.com/smallbiznis/tradeledger/internal/config"
	expensedomain "github.com/smallbiznis/tradeledger/internal/expense/domain"
	obslogger "github.com/smallbiznis/tradeledger/internal/observability/logger"
	obsmetrics "github.com/smallbiznis/tradeledger/internal/observability/metrics"
	obstracing "github.com/smallbiznis/tradeledger/internal/observability/tracing"
	reportingdomain "github.com/smallbiznis/tradeledger/internal/reporting/domain"
	taxdomain "github.com/smallbiznis/tradeledger/internal/tax/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("http.server",
	fx.Provide(NewEngine),
	fx.Provide(NewServer),
	fx.Invoke(run),
)

type EngineParams struct {
	fx.In

	Cfg     config.Config
	Log     *zap.Logger
	Metrics *obsmetrics.Metrics `optional:"true"`
}

func NewEngine(p EngineParams) *gin.Engine {
	if p.Cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(corsMiddleware(p.Cfg))
	r.Use(obslogger.GinMiddleware(obslogger.MiddlewareConfig{
		Log:             p.Log.Named("http"),
		Debug:           !p.Cfg.IsProduction(),
		ErrorClassifier: classifyErrorForLog,
	}))
	r.Use(obstracing.GinMiddleware())
	r.Use(obsmetrics.GinMiddleware(p.Metrics))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if p.Metrics != nil {
		r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}

	return r
}

func run(lc fx.Lifecycle, cfg config.Config, log *zap.Logger, s *Server) {
	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           s.Engine(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			ln, err := net.Listen("tcp", srv.Addr)
			if err != nil {
				return err
			}
			log.Info("http server listening", zap.String("addr", ln.Addr().String()))
			go func() {
				if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Error("http server stopped", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine        *gin.Engine
	cfg           config.Config
	log           *zap.Logger
	expenseSvc    expensedomain.Service
	taxSvc        taxdomain.Service
	attachmentSvc attachmentdomain.Service
	reportSvc     reportingdomain.Service
}

type ServerParams struct {
	fx.In

	Gin           *gin.Engine
	Cfg           config.Config
	Log           *zap.Logger
	ExpenseSvc    expensedomain.Service
	TaxSvc        taxdomain.Service
	AttachmentSvc attachmentdomain.Service
	ReportSvc     reportingdomain.Service
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:        p.Gin,
		cfg:           p.Cfg,
		log:           p.Log.Named("http.server"),
		expenseSvc:    p.ExpenseSvc,
		taxSvc:        p.TaxSvc,
		attachmentSvc: p.AttachmentSvc,
		reportSvc:     p.ReportSvc,
	}

	svc.registerAPIRoutes()
	svc.registerFallback()

	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerAPIRoutes() {
	api := s.engine.Group("/api/v1")

	// -------- Expense Invoices --------
	api.POST("/expense-invoices", s.CreateExpenseInvoice)
	api.POST("/expense-invoices/preview", s.PreviewExpenseInvoice)
	api.GET("/expense-invoices", s.ListExpenseInvoices)
	api.GET("/expense-invoices/:id", s.GetExpenseInvoice)
	api.PUT("/expense-invoices/:id", s.UpdateExpenseInvoice)
	api.DELETE("/expense-invoices/:id", s.DeleteExpenseInvoice)
	api.POST("/expense-invoices/:id/lines", s.AddExpenseLine)
	api.POST("/expense-invoices/:id/combine", s.CombineExpenseLines)
	api.GET("/expense-invoices/:id/audit-logs", s.ListExpenseAuditLogs)

	// -------- Expense Lines --------
	api.PATCH("/expense-lines/:id", s.UpdateExpenseLine)
	api.DELETE("/expense-lines/:id", s.DeleteExpenseLine)
	api.POST("/expense-lines/:id/attachments", s.AttachExpenseFile)
	api.GET("/expense-lines/:id/attachments", s.ListExpenseAttachments)

	// -------- Expense Types --------
	api.GET("/expense-types", s.ListExpenseTypes)
	api.POST("/expense-types", s.CreateExpenseType)
	api.GET("/expense-types/:id", s.GetExpenseType)
	api.PATCH("/expense-types/:id", s.UpdateExpenseType)
	api.POST("/expense-types/:id/deactivate", s.DeactivateExpenseType)
	api.DELETE("/expense-types/:id", s.DeleteExpenseType)

	// -------- Reports --------
	reports := api.Group("/reports/expenses")
	reports.GET("/by-type", s.ReportByExpenseType)
	reports.GET("/by-provider", s.ReportByServiceProvider)
	reports.GET("/by-shipment", s.ReportByShipment)
	reports.GET("/by-month", s.ReportByMonth)
	reports.GET("/gst-summary", s.ReportGSTSummary)
}

func (s *Server) registerFallback() {
	s.engine.NoRoute(func(c *gin.Context) {
		AbortWithError(c, ErrNotFound)
	})
}
