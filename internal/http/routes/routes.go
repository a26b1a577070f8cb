package routes

import (
	"net/http"

	"github.com/cropcheckai/cropcheck/internal/config"
	"github.com/cropcheckai/cropcheck/internal/http/handlers"
	"github.com/cropcheckai/cropcheck/internal/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type Router struct {
	caseHandler *handlers.CaseHandler
	redisClient *redis.Client
	config      *config.Config
	logger      *zap.Logger
}

func NewRouter(
	caseHandler *handlers.CaseHandler,
	redisClient *redis.Client,
	config *config.Config,
	logger *zap.Logger,
) *Router {
	return &Router{
		caseHandler: caseHandler,
		redisClient: redisClient,
		config:      config,
		logger:      logger,
	}
}

func (r *Router) SetupRoutes() *gin.Engine {
	router := gin.New()

	router.Use(middleware.Logger(r.logger))
	router.Use(middleware.ErrorHandler(r.logger))
	router.Use(middleware.CORS())
	router.Use(middleware.SecurityHeaders())

	// API version 1
	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", r.caseHandler.HealthCheck)
		v1.GET("/jobs/:id", r.caseHandler.GetJob)

		// Every case endpoint ends in a hosted-service call, so the
		// free-tier guard covers the whole group.
		cases := v1.Group("/cases")
		cases.Use(middleware.RateLimit(
			r.redisClient,
			r.config.RateLimit.RequestsPerWindow,
			r.config.RateLimit.Window,
			r.logger,
		))
		{
			cases.POST("/detect", r.caseHandler.Detect)
			cases.POST("/detect/async", r.caseHandler.DetectAsync)
			cases.POST("/clarify", r.caseHandler.Clarify)
			cases.POST("/conclude", r.caseHandler.Conclude)
		}
	}

	router.GET("/", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{
			"status":  "OK",
			"message": "CropCheck analysis service is running",
		})
	})

	return router
}
