package app

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/atelier-hq/atelier/internal/engine/conf"
	"github.com/atelier-hq/atelier/internal/engine/service"
	"github.com/atelier-hq/atelier/pkg/log"
)

// NewJanitorCron 注册后台清理任务: 定期清除过期已久且从未被接受的邀请
// 过期未满保留期的邀请保留, 读取方还要用它们计算 EXPIRED 状态
func NewJanitorCron(appConf conf.AppConfig, invitation *service.InvitationService) (*cron.Cron, error) {
	c := cron.New()
	_, err := c.AddFunc(appConf.Janitor.Cron, func() {
		cutoff := time.Now().AddDate(0, 0, -appConf.Janitor.RetainDays)
		if _, err := invitation.PurgeExpired(cutoff); err != nil {
			log.Errorw("janitor run failed", "error", err)
		}
	})
	if err != nil {
		return nil, fmt.Errorf("invalid janitor cron %q: %w", appConf.Janitor.Cron, err)
	}
	return c, nil
}
