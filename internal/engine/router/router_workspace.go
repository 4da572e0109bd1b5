package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/atelier-hq/atelier/internal/engine/constant"
	"github.com/atelier-hq/atelier/internal/engine/model"
	"github.com/atelier-hq/atelier/pkg/http"
)

func (rt *Router) workspaceRouter(r fiber.Router, auth fiber.Handler) {
	wsGroup := r.Group("/workspaces")
	{
		wsGroup.Get("/", auth, rt.listWorkspaces)                 // GET /workspaces - list caller's workspaces
		wsGroup.Post("/", auth, rt.createWorkspace)               // POST /workspaces - create workspace
		wsGroup.Get("/current", auth, rt.currentWorkspace)        // GET /workspaces/current - resolve current workspace
		wsGroup.Get("/:workspaceId", auth, rt.getWorkspace)       // GET /workspaces/:workspaceId - workspace details
		wsGroup.Delete("/:workspaceId", auth, rt.deleteWorkspace) // DELETE /workspaces/:workspaceId - owner only
		wsGroup.Post("/:workspaceId/switch", auth, rt.switchWorkspace)
	}
}

func (rt *Router) listWorkspaces(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return http.WithRepErrMsg(c, http.Unauthorized.Code, http.Unauthorized.Msg, c.Path())
	}
	resp, err := rt.Services.Workspace.ListWorkspaces(user)
	if err != nil {
		return repErr(c, err)
	}
	c.Locals(constant.DETAIL, resp)
	return nil
}

func (rt *Router) createWorkspace(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return http.WithRepErrMsg(c, http.Unauthorized.Code, http.Unauthorized.Msg, c.Path())
	}
	var req model.CreateWorkspaceReq
	if err := c.BodyParser(&req); err != nil {
		return http.WithRepErrMsg(c, http.RequestParameterParsingFailed.Code, http.RequestParameterParsingFailed.Msg, c.Path())
	}

	resp, err := rt.Services.Workspace.CreateWorkspace(c.Context(), user, &req)
	if err != nil {
		return repErr(c, err)
	}
	c.Locals(constant.DETAIL, resp)
	c.Locals(constant.OPERATION, "create workspace")
	return nil
}

// currentWorkspace 解析调用者的当前工作区上下文
func (rt *Router) currentWorkspace(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return http.WithRepErrMsg(c, http.Unauthorized.Code, http.Unauthorized.Msg, c.Path())
	}
	wc, err := rt.Services.Resolver.Resolve(c.Context(), user.UserId)
	if err != nil {
		return repErr(c, err)
	}
	c.Locals(constant.DETAIL, wc)
	return nil
}

func (rt *Router) getWorkspace(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return http.WithRepErrMsg(c, http.Unauthorized.Code, http.Unauthorized.Msg, c.Path())
	}
	workspaceId := c.Params("workspaceId")
	if workspaceId == "" {
		return http.WithRepErrMsg(c, http.WorkspaceIdIsEmpty.Code, http.WorkspaceIdIsEmpty.Msg, c.Path())
	}

	resp, err := rt.Services.Workspace.GetWorkspace(c.Context(), user, workspaceId)
	if err != nil {
		return repErr(c, err)
	}
	c.Locals(constant.DETAIL, resp)
	return nil
}

func (rt *Router) deleteWorkspace(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return http.WithRepErrMsg(c, http.Unauthorized.Code, http.Unauthorized.Msg, c.Path())
	}
	workspaceId := c.Params("workspaceId")
	if workspaceId == "" {
		return http.WithRepErrMsg(c, http.WorkspaceIdIsEmpty.Code, http.WorkspaceIdIsEmpty.Msg, c.Path())
	}

	if err := rt.Services.Workspace.DeleteWorkspace(c.Context(), user, workspaceId); err != nil {
		return repErr(c, err)
	}
	c.Locals(constant.OPERATION, "delete workspace")
	return nil
}

func (rt *Router) switchWorkspace(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return http.WithRepErrMsg(c, http.Unauthorized.Code, http.Unauthorized.Msg, c.Path())
	}
	workspaceId := c.Params("workspaceId")
	if workspaceId == "" {
		return http.WithRepErrMsg(c, http.WorkspaceIdIsEmpty.Code, http.WorkspaceIdIsEmpty.Msg, c.Path())
	}

	wc, err := rt.Services.Workspace.SwitchWorkspace(c.Context(), user, workspaceId)
	if err != nil {
		return repErr(c, err)
	}
	c.Locals(constant.DETAIL, wc)
	c.Locals(constant.OPERATION, "switch workspace")
	return nil
}
