// Package server exposes the engine over a thin HTTP surface. Callers
// translate these JSON payloads to their own representations;
// authentication and tenant routing live in front of this service.
package server

import (
	"context"
	"net/http"

	"github.com/contaflow/tributo/internal/config"
	form29domain "github.com/contaflow/tributo/internal/form29/domain"
	summarydomain "github.com/contaflow/tributo/internal/summary/domain"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type ServerParam struct {
	fx.In

	Log        *zap.Logger
	Form29Svc  form29domain.Service
	Calculator summarydomain.Calculator
}

type Server struct {
	log        *zap.Logger
	form29Svc  form29domain.Service
	calculator summarydomain.Calculator
}

func NewServer(p ServerParam) *Server {
	return &Server{
		log:        p.Log.Named("server"),
		form29Svc:  p.Form29Svc,
		calculator: p.Calculator,
	}
}

func NewEngine() *gin.Engine {
	engine := gin.New()
	engine.Use(gin.Recovery())
	return engine
}

func (s *Server) RegisterRoutes(engine *gin.Engine) {
	engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := engine.Group("/v1")
	v1.GET("/companies/:id/summary/:year/:month", s.GetSummary)
	v1.GET("/companies/:id/form29/:year/:month", s.GetDraft)
	v1.POST("/companies/:id/form29/:year/:month", s.GenerateDraft)
	v1.POST("/form29/:id/validate", s.ValidateDraft)
	v1.POST("/form29/:id/confirm", s.ConfirmDraft)
	v1.POST("/form29/:id/cancel", s.CancelDraft)
}

func RunHTTP(lc fx.Lifecycle, engine *gin.Engine, cfg config.Config, log *zap.Logger) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: engine,
	}

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go func() {
				log.Info("http server listening", zap.String("addr", cfg.HTTPAddr))
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Error("http server failed", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return srv.Shutdown(ctx)
		},
	})
}

var Module = fx.Module("http.server",
	fx.Provide(NewEngine),
	fx.Provide(NewServer),
	fx.Invoke(func(s *Server, engine *gin.Engine) {
		s.RegisterRoutes(engine)
	}),
	fx.Invoke(RunHTTP),
)
