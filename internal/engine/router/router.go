package router

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/pprof"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/atelier-hq/atelier/internal/engine/constant"
	"github.com/atelier-hq/atelier/internal/engine/model"
	"github.com/atelier-hq/atelier/internal/engine/service"
	httpx "github.com/atelier-hq/atelier/pkg/http"
	"github.com/atelier-hq/atelier/pkg/http/jwt"
	"github.com/atelier-hq/atelier/pkg/http/middleware"
	"github.com/atelier-hq/atelier/pkg/version"
)

/**
 * @file: router.go
 * @description: setup router
 */

type Router struct {
	Http     *httpx.Http
	Redis    *redis.Client
	Services *service.Services
}

func NewRouter(httpConf *httpx.Http, rdb *redis.Client, services *service.Services) *Router {
	return &Router{
		Http:     httpConf,
		Redis:    rdb,
		Services: services,
	}
}

func (rt *Router) Router() *fiber.App {

	app := fiber.New(fiber.Config{
		AppName:               "atelier",
		DisableStartupMessage: rt.Http.Mode == "release",
	})

	app.Use(middleware.CorsMiddleware())
	app.Use(middleware.ExceptionMiddleware)
	app.Use(middleware.UnifiedResponseMiddleware())

	if rt.Http.AccessLog {
		app.Use(logger.New())
	}

	if rt.Http.PProf {
		app.Use(pprof.New())
	}

	if rt.Http.ExposeMetrics {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})

	app.Get("/version", func(c *fiber.Ctx) error {
		return c.JSON(version.GetVersion())
	})

	api := app.Group(rt.Http.ContextPath)
	rt.routerGroup(api)

	return app
}

func (rt *Router) routerGroup(r fiber.Router) {

	auth := middleware.AuthorizationMiddleware(rt.Http.Auth.SecretKey, *rt.Redis)

	rt.authRouter(r, auth)
	rt.workspaceRouter(r, auth)
	rt.memberRouter(r, auth)
	rt.invitationRouter(r, auth)
	rt.auditRouter(r, auth)
}

// currentUser 从认证中间件写入的 claims 中取调用者身份
func currentUser(c *fiber.Ctx) (*model.CurrentUser, error) {
	claims, ok := c.Locals(constant.ClaimsKey).(*jwt.AuthClaims)
	if !ok || claims == nil {
		return nil, fiber.ErrUnauthorized
	}
	return &model.CurrentUser{UserId: claims.UserId, Email: claims.Email}, nil
}
