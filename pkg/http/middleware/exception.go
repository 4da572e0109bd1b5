package middleware

import (
	"runtime/debug"

	"github.com/atelier-hq/atelier/pkg/http"
	"github.com/atelier-hq/atelier/pkg/log"
	"github.com/gofiber/fiber/v2"
)

// ExceptionMiddleware 捕获 handler panic, 转成统一的 500 响应
func ExceptionMiddleware(c *fiber.Ctx) error {
	defer func() {
		if r := recover(); r != nil {
			log.Errorw("panic recovered", "path", c.Path(), "error", r)
			_ = http.WithRepErrMsg(c, http.InternalError.Code, panicMessage(r), c.Path())
		}
	}()

	return c.Next()
}

// panicMessage 只把预期内的业务错误透给客户端, 其余一律脱敏为服务器错误
func panicMessage(r any) string {
	switch v := r.(type) {
	case http.ResponseErr:
		if msg, ok := v.ErrMsg.(string); ok {
			return msg
		}
	case string:
		return v
	case error:
		log.Errorf("panic: %v\n%s", v, debug.Stack())
	}
	return http.InternalError.Msg
}
