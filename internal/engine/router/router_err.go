package router

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/atelier-hq/atelier/internal/engine/core"
	"github.com/atelier-hq/atelier/pkg/http"
)

// repErr 把服务层错误类别映射为响应码, 未知错误一律按内部错误处理
func repErr(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, core.ErrUnauthorized):
		return http.WithRepErrMsg(c, http.Unauthorized.Code, err.Error(), c.Path())
	case errors.Is(err, core.ErrNoWorkspaceAccess):
		return http.WithRepErrMsg(c, http.NoWorkspaceAccess.Code, err.Error(), c.Path())
	case errors.Is(err, core.ErrForbidden):
		return http.WithRepErrMsg(c, http.Forbidden.Code, err.Error(), c.Path())
	case errors.Is(err, core.ErrNotFound):
		return http.WithRepErrMsg(c, http.NotFound.Code, err.Error(), c.Path())
	case errors.Is(err, core.ErrConflict):
		return http.WithRepErrMsg(c, http.Conflict.Code, err.Error(), c.Path())
	case errors.Is(err, core.ErrExpired):
		return http.WithRepErrMsg(c, http.InvitationExpired.Code, err.Error(), c.Path())
	case errors.Is(err, core.ErrEmailMismatch):
		return http.WithRepErrMsg(c, http.InvitationEmailMismatch.Code, err.Error(), c.Path())
	case errors.Is(err, core.ErrInvalid):
		return http.WithRepErrMsg(c, http.BadRequest.Code, err.Error(), c.Path())
	default:
		return http.WithRepErrMsg(c, http.InternalError.Code, err.Error(), c.Path())
	}
}
