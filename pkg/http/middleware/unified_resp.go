package middleware

import (
	"github.com/atelier-hq/atelier/internal/engine/constant"
	httpx "github.com/atelier-hq/atelier/pkg/http"
	"github.com/gofiber/fiber/v2"
)

// UnifiedResponseMiddleware 统一响应中间件, handler 通过
// c.Locals(constant.DETAIL, v) 或 c.Locals(constant.OPERATION, v) 设置结果
func UnifiedResponseMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := c.Next(); err != nil {
			return err
		}

		status := c.Response().StatusCode()
		if status != fiber.StatusOK {
			return httpx.WithRepErrMsg(c, httpx.Failed.Code, httpx.Failed.Msg, c.Path())
		}

		if detail := c.Locals(constant.DETAIL); detail != nil {
			return httpx.WithRepJSON(c, detail)
		}
		if c.Locals(constant.OPERATION) != nil {
			return httpx.WithRepNotDetail(c)
		}
		return nil
	}
}
