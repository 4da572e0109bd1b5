package bootstrap

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/atelier-hq/atelier/internal/app"
	"github.com/atelier-hq/atelier/internal/engine/conf"
	"github.com/atelier-hq/atelier/pkg/cache"
	"github.com/atelier-hq/atelier/pkg/database"
	"github.com/atelier-hq/atelier/pkg/log"
)

// InitAppFunc init app function type
type InitAppFunc func(appConf conf.AppConfig, logger *zap.Logger, db database.IDatabase, redisClient *redis.Client, redisCache cache.ICache) (*app.App, func(), error)

// Bootstrap init app, return App instance and cleanup function
func Bootstrap(configFile string, initApp InitAppFunc) (*app.App, func(), conf.AppConfig, error) {
	// load config
	appConf := conf.NewConf(configFile)

	// init logger
	logger, err := log.NewLog(&appConf.Log)
	if err != nil {
		return nil, nil, appConf, err
	}

	// init Redis and database
	redisClient, err := cache.NewRedis(appConf.Redis)
	if err != nil {
		return nil, nil, appConf, err
	}
	dbClient, err := database.NewDatabase(appConf.Database)
	if err != nil {
		return nil, nil, appConf, err
	}

	db := database.NewGormDB(dbClient)
	redisCache := cache.NewRedisCache(redisClient)

	// Wire build App
	application, cleanup, err := initApp(appConf, logger, db, redisClient, redisCache)
	if err != nil {
		return nil, nil, appConf, err
	}

	return application, cleanup, appConf, nil
}

// Run start app and wait for exit signal, then gracefully shutdown
func Run(application *app.App, cleanup func()) {
	logger := application.Logger
	appConf := application.AppConf

	// start janitor
	if application.Janitor != nil {
		application.Janitor.Start()
	}

	// set signal listener (graceful shutdown)
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	// start HTTP server (async)
	go func() {
		addr := fmt.Sprintf("%s:%d", appConf.Http.Host, appConf.Http.Port)
		logger.Sugar().Infow("HTTP listener started", "address", addr)
		if err := application.HttpApp.Listen(addr); err != nil {
			logger.Sugar().Errorw("HTTP listener failed", "address", addr, "error", err)
		}
	}()

	// wait for exit signal
	sig := <-quit
	logger.Sugar().Infof("Received signal: %v, shutting down gracefully...", sig)

	shutdownTimeout := time.Duration(appConf.Http.ShutdownTimeout) * time.Second
	if shutdownTimeout <= 0 {
		shutdownTimeout = 30 * time.Second
	}
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()
	if err := application.HttpApp.ShutdownWithContext(shutdownCtx); err != nil {
		logger.Sugar().Errorf("HTTP server shutdown error: %v", err)
	} else {
		logger.Info("HTTP server shut down gracefully")
	}

	cleanup()

	logger.Info("Server shutdown complete")
}
