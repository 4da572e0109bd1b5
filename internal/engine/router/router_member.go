package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/atelier-hq/atelier/internal/engine/constant"
	"github.com/atelier-hq/atelier/internal/engine/model"
	"github.com/atelier-hq/atelier/pkg/http"
)

func (rt *Router) memberRouter(r fiber.Router, auth fiber.Handler) {
	memberGroup := r.Group("/workspaces/:workspaceId/members")
	{
		memberGroup.Get("/", auth, rt.listMembers)
		memberGroup.Put("/:userId/role", auth, rt.updateMemberRole)
		memberGroup.Put("/:userId/deactivate", auth, rt.deactivateMember)
		memberGroup.Delete("/:userId", auth, rt.removeMember)
		memberGroup.Post("/leave", auth, rt.leaveWorkspace)
	}
}

func (rt *Router) listMembers(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return http.WithRepErrMsg(c, http.Unauthorized.Code, http.Unauthorized.Msg, c.Path())
	}
	workspaceId := c.Params("workspaceId")
	if workspaceId == "" {
		return http.WithRepErrMsg(c, http.WorkspaceIdIsEmpty.Code, http.WorkspaceIdIsEmpty.Msg, c.Path())
	}

	resp, err := rt.Services.Member.ListMembers(c.Context(), user, workspaceId)
	if err != nil {
		return repErr(c, err)
	}
	c.Locals(constant.DETAIL, resp)
	return nil
}

func (rt *Router) updateMemberRole(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return http.WithRepErrMsg(c, http.Unauthorized.Code, http.Unauthorized.Msg, c.Path())
	}
	workspaceId := c.Params("workspaceId")
	targetUserId := c.Params("userId")
	if workspaceId == "" {
		return http.WithRepErrMsg(c, http.WorkspaceIdIsEmpty.Code, http.WorkspaceIdIsEmpty.Msg, c.Path())
	}
	if targetUserId == "" {
		return http.WithRepErrMsg(c, http.UserIdIsEmpty.Code, http.UserIdIsEmpty.Msg, c.Path())
	}

	var req model.UpdateMemberRoleReq
	if err := c.BodyParser(&req); err != nil {
		return http.WithRepErrMsg(c, http.RequestParameterParsingFailed.Code, http.RequestParameterParsingFailed.Msg, c.Path())
	}

	if err := rt.Services.Member.UpdateMemberRole(c.Context(), user, workspaceId, targetUserId, &req); err != nil {
		return repErr(c, err)
	}
	c.Locals(constant.OPERATION, "update member role")
	return nil
}

func (rt *Router) deactivateMember(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return http.WithRepErrMsg(c, http.Unauthorized.Code, http.Unauthorized.Msg, c.Path())
	}
	workspaceId := c.Params("workspaceId")
	targetUserId := c.Params("userId")
	if workspaceId == "" {
		return http.WithRepErrMsg(c, http.WorkspaceIdIsEmpty.Code, http.WorkspaceIdIsEmpty.Msg, c.Path())
	}
	if targetUserId == "" {
		return http.WithRepErrMsg(c, http.UserIdIsEmpty.Code, http.UserIdIsEmpty.Msg, c.Path())
	}

	if err := rt.Services.Member.DeactivateMember(c.Context(), user, workspaceId, targetUserId); err != nil {
		return repErr(c, err)
	}
	c.Locals(constant.OPERATION, "deactivate member")
	return nil
}

func (rt *Router) removeMember(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return http.WithRepErrMsg(c, http.Unauthorized.Code, http.Unauthorized.Msg, c.Path())
	}
	workspaceId := c.Params("workspaceId")
	targetUserId := c.Params("userId")
	if workspaceId == "" {
		return http.WithRepErrMsg(c, http.WorkspaceIdIsEmpty.Code, http.WorkspaceIdIsEmpty.Msg, c.Path())
	}
	if targetUserId == "" {
		return http.WithRepErrMsg(c, http.UserIdIsEmpty.Code, http.UserIdIsEmpty.Msg, c.Path())
	}

	if err := rt.Services.Member.RemoveMember(c.Context(), user, workspaceId, targetUserId); err != nil {
		return repErr(c, err)
	}
	c.Locals(constant.OPERATION, "remove member")
	return nil
}

func (rt *Router) leaveWorkspace(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return http.WithRepErrMsg(c, http.Unauthorized.Code, http.Unauthorized.Msg, c.Path())
	}
	workspaceId := c.Params("workspaceId")
	if workspaceId == "" {
		return http.WithRepErrMsg(c, http.WorkspaceIdIsEmpty.Code, http.WorkspaceIdIsEmpty.Msg, c.Path())
	}

	if err := rt.Services.Member.LeaveWorkspace(c.Context(), user, workspaceId); err != nil {
		return repErr(c, err)
	}
	c.Locals(constant.OPERATION, "leave workspace")
	return nil
}
