// README: API gateway; builds the gin engine, middleware and routes.
package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"tripbudget/internal/config"
	"tripbudget/internal/http/handlers"
	"tripbudget/internal/http/middleware"
	"tripbudget/internal/modules/budget"
)

type ServerDeps struct {
	Budget       *budget.Service
	Logger       *zap.Logger
	DeployTarget string
	StaticDir    string
	MaxBodyBytes int64
}

type Server struct {
	budget       *budget.Service
	logger       *zap.Logger
	deployTarget string
	staticDir    string
	maxBodyBytes int64
}

func NewServer(deps ServerDeps) *Server {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		budget:       deps.Budget,
		logger:       logger,
		deployTarget: deps.DeployTarget,
		staticDir:    deps.StaticDir,
		maxBodyBytes: deps.MaxBodyBytes,
	}
}

func (s *Server) Routes() http.Handler {
	r := gin.New()
	r.Use(middleware.Recovery(s.logger), middleware.Logging(s.logger), middleware.CORS())

	budgetHandler := handlers.NewBudgetHandler(s.budget, s.logger, s.maxBodyBytes)
	r.Any("/api/ai", budgetHandler.Draft)

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})

	if s.deployTarget == config.TargetServer && s.staticDir != "" {
		r.NoRoute(gin.WrapH(http.FileServer(http.Dir(s.staticDir))))
	}
	return r
}
