package routes

import (
	"context"
	"fmt"

	_ "carwash_payouts/docs"
	"carwash_payouts/internal/adapter/http/dto/request"
	"carwash_payouts/internal/adapter/http/middleware"
	"carwash_payouts/internal/config"
	"carwash_payouts/internal/infrastructure/metrics"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Run wires the configured backend and serves until the listener fails.
func Run(cfg config.Config) error {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	h, err := buildHandlers(context.Background(), cfg)
	if err != nil {
		return fmt.Errorf("wire handlers: %w", err)
	}

	router, err := NewRouter(h, cfg)
	if err != nil {
		return err
	}

	logrus.WithFields(logrus.Fields{
		"port":    cfg.Port,
		"backend": cfg.StoreBackend,
	}).Info("[app][routes] listening")
	return router.Run(":" + cfg.Port)
}

// NewRouter builds the engine with middleware and every route registered.
func NewRouter(h Handlers, cfg config.Config) (*gin.Engine, error) {
	if err := request.RegisterValidations(); err != nil {
		return nil, fmt.Errorf("register validations: %w", err)
	}

	router := gin.New()
	setMiddlewares(router, cfg)

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	v1 := router.Group("/v1")
	addPingRoutes(v1)
	addPayoutRoutes(v1, h, middleware.NewPerMinuteRateLimiter(cfg.Payout.RequestRatePerMinute))
	return router, nil
}

func setMiddlewares(router *gin.Engine, cfg config.Config) {
	router.Use(gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		logrus.WithField("panic", recovered).Error("[app][routes] recovered from panic")
		c.AbortWithStatus(500)
	}))
	router.Use(requestLogger())
	router.Use(metrics.Middleware())
	router.Use(middleware.Identity())
	router.Use(middleware.Timeout(cfg.RequestTimeout))
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		logrus.WithFields(logrus.Fields{
			"method": c.Request.Method,
			"path":   c.Request.URL.Path,
			"status": c.Writer.Status(),
			"ip":     c.ClientIP(),
		}).Debug("[app][http] request")
	}
}
