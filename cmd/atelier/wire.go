//go:build wireinject
// +build wireinject

package main

import (
	"github.com/google/wire"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/atelier-hq/atelier/internal/app"
	"github.com/atelier-hq/atelier/internal/engine/conf"
	"github.com/atelier-hq/atelier/internal/engine/repo"
	"github.com/atelier-hq/atelier/internal/engine/router"
	"github.com/atelier-hq/atelier/internal/engine/service"
	"github.com/atelier-hq/atelier/pkg/cache"
	"github.com/atelier-hq/atelier/pkg/database"
)

func initApp(appConf conf.AppConfig, logger *zap.Logger, db database.IDatabase, redisClient *redis.Client, redisCache cache.ICache) (*app.App, func(), error) {
	panic(wire.Build(
		// 配置层
		provideHttpConfig,
		provideInviteBaseURL,
		provideLimiter,
		provideMailer,
		// 仓储层
		repo.ProviderSet,
		// 服务层
		service.ProviderSet,
		// 路由层
		router.ProviderSet,
		// 应用层
		app.NewJanitorCron,
		app.NewApp,
	))
}
