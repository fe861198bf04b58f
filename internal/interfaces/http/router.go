// Package http wires the gin engine: middleware, handlers, and routes.
package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"skillswap/internal/application/community/usecases"
	"skillswap/internal/infrastructure/auth"
	infraconfig "skillswap/internal/infrastructure/config"
	"skillswap/internal/infrastructure/repository"
	communityhandler "skillswap/internal/interfaces/http/handlers/community"
	"skillswap/internal/interfaces/http/middleware"
	"skillswap/internal/shared/db"
	"skillswap/internal/shared/logger"
)

// Router owns the gin engine and its wiring.
type Router struct {
	engine *gin.Engine
	logger logger.Interface
}

// NewRouter builds the engine with all middleware and routes registered.
// notifier delivers post-commit events; pass the redis hub in production and
// a stub in tests.
func NewRouter(cfg *infraconfig.Config, gormDB *gorm.DB, notifier usecases.NotificationSender, log logger.Interface) *Router {
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(middleware.Recovery())
	engine.Use(middleware.Logger(log))
	engine.Use(middleware.ErrorHandler())
	engine.Use(middleware.CORS(cfg.Server.AllowedOrigins))

	communityRepo := repository.NewCommunityRepository(gormDB, log)
	membershipRepo := repository.NewMembershipRepository(gormDB, log)
	ledger := repository.NewCreditLedger(gormDB, log)
	txManager := db.NewTransactionManager(gormDB)

	handler := communityhandler.NewHandler(
		usecases.NewCreateCommunityUseCase(communityRepo, log),
		usecases.NewJoinCommunityUseCase(communityRepo, membershipRepo, ledger, txManager, notifier, log),
		usecases.NewLeaveCommunityUseCase(communityRepo, membershipRepo, txManager, notifier, log),
		usecases.NewListCommunitiesUseCase(communityRepo),
		usecases.NewListMembershipsUseCase(membershipRepo),
	)

	jwtService := auth.NewJWTService(cfg.Auth.JWT.Secret, cfg.Auth.JWT.Issuer)
	authMiddleware := middleware.NewAuthMiddleware(jwtService, log)

	engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := engine.Group("/api")
	{
		api.GET("/communities", handler.ListCommunities)

		authed := api.Group("")
		authed.Use(authMiddleware.RequireAuth())
		{
			authed.POST("/communities", handler.CreateCommunity)
			authed.POST("/communities/:id/join", handler.Join)
			authed.POST("/communities/:id/leave", handler.Leave)
			authed.GET("/memberships", handler.ListMyMemberships)
		}
	}

	return &Router{
		engine: engine,
		logger: log,
	}
}

// Engine exposes the underlying gin engine for serving and tests.
func (r *Router) Engine() *gin.Engine {
	return r.engine
}
