package main

import (
	"github.com/atelier-hq/atelier/internal/engine/conf"
	"github.com/atelier-hq/atelier/internal/engine/constant"
	"github.com/atelier-hq/atelier/internal/pkg/mailer"
	"github.com/atelier-hq/atelier/pkg/cache"
	httpx "github.com/atelier-hq/atelier/pkg/http"
	"github.com/atelier-hq/atelier/pkg/ratelimit"
)

func provideHttpConfig(appConf conf.AppConfig) *httpx.Http {
	return &appConf.Http
}

func provideInviteBaseURL(appConf conf.AppConfig) string {
	return appConf.Http.Invite.BaseURL
}

// provideLimiter 邀请限流器, 按邀请人固定窗口计数
func provideLimiter(redisCache cache.ICache) ratelimit.ILimiter {
	return ratelimit.NewRedisLimiter(redisCache, nil, constant.InviteRateKey)
}

func provideMailer(appConf conf.AppConfig) mailer.IMailer {
	if appConf.Smtp.Enabled {
		return mailer.NewSmtpMailer(&appConf.Smtp)
	}
	return mailer.NewNoopMailer()
}
