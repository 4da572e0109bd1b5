package conf

import (
	"fmt"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"

	"github.com/atelier-hq/atelier/internal/pkg/mailer"
	"github.com/atelier-hq/atelier/pkg/cache"
	"github.com/atelier-hq/atelier/pkg/database"
	"github.com/atelier-hq/atelier/pkg/http"
	"github.com/atelier-hq/atelier/pkg/log"
)

/**
 * @file: conf.go
 * @description: application configuration
 */

type AppConfig struct {
	Log      log.LogConfig
	Http     http.Http
	Database database.Database
	Redis    cache.Redis
	Smtp     mailer.Smtp
	Janitor  Janitor
}

// Janitor 后台清理任务配置
type Janitor struct {
	// Cron 清理任务的 cron 表达式, 默认每天 03:30
	Cron string
	// RetainDays 过期邀请保留天数, 过期超过该天数的未接受邀请会被清除
	RetainDays int
}

var (
	cfg  AppConfig
	once sync.Once
)

func NewConf(confDir string) AppConfig {
	once.Do(func() {
		var err error
		cfg, err = LoadConfigFile(confDir)
		if err != nil {
			panic(fmt.Sprintf("load conf file error: %s", err))
		}
	})
	return cfg
}

// LoadConfigFile load conf file
func LoadConfigFile(confDir string) (AppConfig, error) {

	config := viper.New()
	config.SetConfigFile(confDir)
	config.AddConfigPath("./conf.d")
	config.SetConfigName("config")
	config.SetConfigType("toml")
	if err := config.ReadInConfig(); err != nil {
		return cfg, fmt.Errorf("failed to read configuration file: %v", err)
	}

	config.WatchConfig()
	config.OnConfigChange(func(e fsnotify.Event) {
		log.Infof("The configuration changes, re-analyze the configuration file: %s", e.Name)
		if err := config.Unmarshal(&cfg); err != nil {
			log.Errorf("failed to unmarshal configuration file: %v", err)
		}
	})
	if err := config.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("failed to unmarshal configuration file: %v", err)
	}

	if cfg.Janitor.Cron == "" {
		cfg.Janitor.Cron = "30 3 * * *"
	}
	if cfg.Janitor.RetainDays <= 0 {
		cfg.Janitor.RetainDays = 30
	}

	return cfg, nil
}
