package app

import (
	"github.com/gofiber/fiber/v2"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/atelier-hq/atelier/internal/engine/conf"
	"github.com/atelier-hq/atelier/internal/engine/router"
	"github.com/atelier-hq/atelier/internal/engine/service"
)

type App struct {
	HttpApp *fiber.App
	Janitor *cron.Cron
	Logger  *zap.Logger
	AppConf conf.AppConfig
}

func NewApp(
	rt *router.Router,
	logger *zap.Logger,
	janitor *cron.Cron,
	services *service.Services,
	appConf conf.AppConfig,
) (*App, func(), error) {
	httpApp := rt.Router()

	cleanup := func() {
		if janitor != nil {
			logger.Info("Stopping janitor...")
			<-janitor.Stop().Done()
		}
		// 审计缓冲里的事件落库后再退出
		logger.Info("Flushing audit log buffer...")
		services.Audit.Close()
	}

	app := &App{
		HttpApp: httpApp,
		Janitor: janitor,
		Logger:  logger,
		AppConf: appConf,
	}
	return app, cleanup, nil
}
