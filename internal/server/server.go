package server

import (
	"context"
	"net/http"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/wgesler/rentall-billing/internal/config"
	"github.com/wgesler/rentall-billing/internal/costcode"
	costcodedomain "github.com/wgesler/rentall-billing/internal/costcode/domain"
	"github.com/wgesler/rentall-billing/internal/credit"
	creditdomain "github.com/wgesler/rentall-billing/internal/credit/domain"
	"github.com/wgesler/rentall-billing/internal/generation"
	generationservice "github.com/wgesler/rentall-billing/internal/generation/service"
	"github.com/wgesler/rentall-billing/internal/invoice"
	invoicedomain "github.com/wgesler/rentall-billing/internal/invoice/domain"
	"github.com/wgesler/rentall-billing/internal/ledger"
	ledgerservice "github.com/wgesler/rentall-billing/internal/ledger/service"
	"github.com/wgesler/rentall-billing/internal/metrics"
	"github.com/wgesler/rentall-billing/internal/reservation"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("http.server",
	metrics.Module,
	ledger.Module,
	costcode.Module,
	invoice.Module,
	reservation.Module,
	credit.Module,
	generation.Module,
	fx.Provide(NewEngine),
	fx.Provide(NewServer),
	fx.Invoke(registerRoutes),
	fx.Invoke(run),
)

type ServerParams struct {
	fx.In

	Log         *zap.Logger
	Config      config.Config
	Sessions    *ledgerservice.Factory
	InvoiceSvc  invoicedomain.Service
	CostCodeSvc costcodedomain.Service
	CreditSvc   creditdomain.Service
	Consumer    *generationservice.Consumer
	Metrics     *metrics.Metrics `optional:"true"`
}

type Server struct {
	log           *zap.Logger
	defaultOffice snowflake.ID
	sessions      *ledgerservice.Factory
	invoiceSvc    invoicedomain.Service
	costcodeSvc   costcodedomain.Service
	creditSvc     creditdomain.Service
	consumer      *generationservice.Consumer
	metrics       *metrics.Metrics
}

func NewServer(p ServerParams) *Server {
	return &Server{
		log:           p.Log.Named("http.server"),
		defaultOffice: snowflake.ID(p.Config.DefaultOfficeID),
		sessions:      p.Sessions,
		invoiceSvc:    p.InvoiceSvc,
		costcodeSvc:   p.CostCodeSvc,
		creditSvc:     p.CreditSvc,
		consumer:      p.Consumer,
		metrics:       p.Metrics,
	}
}

func NewEngine(log *zap.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestLogger(log))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func registerRoutes(r *gin.Engine, s *Server) {
	api := r.Group("/api")

	api.GET("/invoices", s.ListInvoices)
	api.GET("/invoices/:id", s.GetInvoice)
	api.POST("/invoices", s.SaveInvoice)
	api.POST("/invoices/generate", s.GenerateLedgerLines)
	api.DELETE("/invoices/:id", s.DeleteInvoice)

	api.GET("/costcodes", s.ListCostCodes)
	api.GET("/reservations/candidates", s.ListCreditCandidates)
}

func requestLogger(log *zap.Logger) gin.HandlerFunc {
	log = log.Named("http.access")
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("elapsed", time.Since(start)),
		)
	}
}

func run(lc fx.Lifecycle, r *gin.Engine, cfg config.Config, log *zap.Logger) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info("starting http server",
				zap.String("app", cfg.AppName),
				zap.String("version", cfg.AppVersion),
				zap.String("environment", cfg.Environment),
				zap.String("addr", cfg.HTTPAddr),
			)
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Error("http server stopped", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}
