package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"
	"go.uber.org/zap"

	authdomain "github.com/fiscalbr/classtrib/internal/auth/domain"
	"github.com/fiscalbr/classtrib/internal/auth/token"
	"github.com/fiscalbr/classtrib/internal/config"
	"github.com/fiscalbr/classtrib/internal/importer"
	ncmdomain "github.com/fiscalbr/classtrib/internal/ncm/domain"
	"github.com/fiscalbr/classtrib/internal/ratelimit"
	referencedomain "github.com/fiscalbr/classtrib/internal/reference/domain"
	reportdomain "github.com/fiscalbr/classtrib/internal/report/domain"
)

var Module = fx.Module("server",
	fx.Provide(NewMetrics),
	fx.Provide(NewEngine),
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(log *zap.Logger, metrics *Metrics) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestID())
	r.Use(RequestLogger(log.Named("http")))
	r.Use(metrics.Middleware())
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	return r
}

type Server struct {
	engine    *gin.Engine
	cfg       config.Config
	authsvc   authdomain.Service
	tokens    *token.Manager
	ncmSvc    ncmdomain.Service
	reportSvc reportdomain.Service
	refSvc    referencedomain.Service
	extractor *importer.Extractor
	metrics   *Metrics
	limiter   *ratelimit.ReportLimiter
}

type ServerParams struct {
	fx.In

	Gin       *gin.Engine
	Cfg       config.Config
	Authsvc   authdomain.Service
	Tokens    *token.Manager
	NcmSvc    ncmdomain.Service
	ReportSvc reportdomain.Service
	RefSvc    referencedomain.Service
	Extractor *importer.Extractor
	Metrics   *Metrics
	Limiter   *ratelimit.ReportLimiter `optional:"true"`
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:    p.Gin,
		cfg:       p.Cfg,
		authsvc:   p.Authsvc,
		tokens:    p.Tokens,
		ncmSvc:    p.NcmSvc,
		reportSvc: p.ReportSvc,
		refSvc:    p.RefSvc,
		extractor: p.Extractor,
		metrics:   p.Metrics,
		limiter:   p.Limiter,
	}

	svc.registerAuthRoutes()
	svc.registerAPIRoutes()
	svc.registerAdminRoutes()

	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerAuthRoutes() {
	auth := s.engine.Group("/auth")

	auth.POST("/login", s.Login)
	auth.GET("/me", s.AuthRequired(), s.Me)
}

func (s *Server) registerAPIRoutes() {
	api := s.engine.Group("/api", s.ResolveUser())

	api.GET("/relatorio", s.GenerateReport)

	api.GET("/ncm", s.SearchNcm)
	api.GET("/ncm/:codigo", s.GetNcm)
	api.POST("/ncm/lote", s.LookupBatch)

	api.GET("/capitulos", s.ListChapters)
	api.GET("/posicoes", s.ListPositions)
	api.GET("/subposicoes", s.ListSubpositions)
}

func (s *Server) registerAdminRoutes() {
	admin := s.engine.Group("/api/admin", s.AuthRequired(), s.AdminRequired())

	admin.GET("/users", s.ListUsers)
	admin.POST("/users", s.CreateUser)
	admin.PATCH("/users/:id", s.UpdateUser)
	admin.DELETE("/users/:id", s.DeleteUser)
}

func run(lc fx.Lifecycle, r *gin.Engine, cfg config.Config, log *zap.Logger) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info("http server listening", zap.String("addr", cfg.HTTPAddr))
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
