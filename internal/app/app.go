package app

import (
	"context"
	"net/http"

	"go-leave/internal/middleware"
	"go-leave/internal/shared/config"
	"go-leave/internal/shared/connection"
	"go-leave/internal/shared/logger"
	"go-leave/internal/shared/metrics"
	"go-leave/internal/shared/response"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// BuildApp connects the stores, migrates the schema and returns the HTTP router
// together with a cleanup that releases the connections.
func BuildApp(ctx context.Context, cfg *config.Config, log *zap.Logger) (*gin.Engine, func(), error) {
	gormDB, err := connection.ConnectGORMWithRetry(cfg.Database)
	if err != nil {
		return nil, nil, err
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		return nil, nil, err
	}
	log.Info("database connection established")

	rdb, err := connection.ConnectRedisWithRetry(cfg.Redis)
	if err != nil {
		sqlDB.Close()
		return nil, nil, err
	}
	log.Info("redis connection established")

	cleanup := func() {
		if err := rdb.Close(); err != nil {
			log.Warn("close redis failed", zap.Error(err))
		}
		if err := sqlDB.Close(); err != nil {
			log.Warn("close database failed", zap.Error(err))
		}
	}

	if err := Migrate(ctx, gormDB, log); err != nil {
		cleanup()
		return nil, nil, err
	}

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	m := metrics.New()
	router := newRouter(cfg, log, m)

	if err := registerModules(router, cfg, sqlDB, gormDB, rdb, m, log); err != nil {
		cleanup()
		return nil, nil, err
	}

	return router, cleanup, nil
}

func newRouter(cfg *config.Config, log *zap.Logger, m *metrics.Metrics) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(logger.GinMiddleware(log))
	router.Use(middleware.Metrics(m))

	corsCfg := cors.DefaultConfig()
	corsCfg.AllowHeaders = append(corsCfg.AllowHeaders, "Authorization", middleware.HeaderRequestID, middleware.HeaderIdempotencyKey)
	if len(cfg.CORS.AllowedOrigins) > 0 {
		corsCfg.AllowOrigins = cfg.CORS.AllowedOrigins
	} else {
		corsCfg.AllowAllOrigins = true
	}
	router.Use(cors.New(corsCfg))

	router.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{"status": "ok"}, nil)
	})
	router.GET("/metrics", gin.WrapH(m.Handler()))

	return router
}
