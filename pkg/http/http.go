package http

import (
	"time"
)

/**
 * @file: http.go
 * @description: http server configuration
 */

type Http struct {
	Host            string
	Port            int
	Mode            string
	ContextPath     string
	PProf           bool
	ExposeMetrics   bool
	AccessLog       bool
	ReadTimeout     int
	WriteTimeout    int
	IdleTimeout     int
	ShutdownTimeout int
	TLS             TLS
	Auth            Auth
	Invite          Invite
}

type TLS struct {
	CertFile string
	KeyFile  string
}

type Auth struct {
	SecretKey      string
	AccessExpire   time.Duration
	RefreshExpire  time.Duration
	RedisKeyPrefix string
}

// Invite 邀请链接配置
type Invite struct {
	BaseURL string // 邀请链接前缀, e.g. https://app.atelier.dev
}
