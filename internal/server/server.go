package server

import (
	"context"
	"net/http"
	"time"

	"github.com/alldenims/pricequote/internal/brackets"
	"github.com/alldenims/pricequote/internal/config"
	"github.com/alldenims/pricequote/internal/customer"
	customerdomain "github.com/alldenims/pricequote/internal/customer/domain"
	"github.com/alldenims/pricequote/internal/exchange"
	exchangedomain "github.com/alldenims/pricequote/internal/exchange/domain"
	"github.com/alldenims/pricequote/internal/migration"
	obslogger "github.com/alldenims/pricequote/internal/observability/logger"
	"github.com/alldenims/pricequote/internal/providers/pdf"
	"github.com/alldenims/pricequote/internal/quotation"
	quotationdomain "github.com/alldenims/pricequote/internal/quotation/domain"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("http.server",
	brackets.Module,
	customer.Module,
	exchange.Module,
	pdf.Module,
	quotation.Module,
	migration.Module,
	fx.Provide(NewEngine),
	fx.Provide(NewServer),
	fx.Invoke(registerRoutes),
	fx.Invoke(run),
)

func NewEngine(cfg config.Config, log *zap.Logger) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obslogger.GinMiddleware(log))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

type Server struct {
	engine       *gin.Engine
	cfg          config.Config
	log          *zap.Logger
	customerSvc  customerdomain.Service
	quotationSvc quotationdomain.Service
	exchangeSvc  exchangedomain.Service
}

type ServerParams struct {
	fx.In

	Gin          *gin.Engine
	Cfg          config.Config
	Log          *zap.Logger
	CustomerSvc  customerdomain.Service
	QuotationSvc quotationdomain.Service
	ExchangeSvc  exchangedomain.Service
}

func NewServer(p ServerParams) *Server {
	return &Server{
		engine:       p.Gin,
		cfg:          p.Cfg,
		log:          p.Log.Named("server"),
		customerSvc:  p.CustomerSvc,
		quotationSvc: p.QuotationSvc,
		exchangeSvc:  p.ExchangeSvc,
	}
}

func registerRoutes(s *Server) {
	v1 := s.engine.Group("/v1")

	customers := v1.Group("/customers")
	customers.POST("", s.CreateCustomer)
	customers.GET("", s.ListCustomers)
	customers.GET("/:id", s.GetCustomerByID)
	customers.PUT("/:id", s.UpdateCustomer)
	customers.DELETE("/:id", s.DeleteCustomer)

	prices := v1.Group("/prices")
	prices.POST("/calculate", s.CalculatePrices)
	prices.GET("/history", s.PriceHistory)
	prices.POST("/offer", s.DownloadOffer)

	rates := v1.Group("/exchange")
	rates.GET("/rates", s.GetExchangeRates)
	rates.POST("/rates/refresh", s.RefreshExchangeRates)
}

func run(lc fx.Lifecycle, r *gin.Engine, cfg config.Config) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					panic(err)
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
