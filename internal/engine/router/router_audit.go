package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/atelier-hq/atelier/internal/engine/constant"
	"github.com/atelier-hq/atelier/internal/engine/model"
	"github.com/atelier-hq/atelier/pkg/http"
)

func (rt *Router) auditRouter(r fiber.Router, auth fiber.Handler) {
	auditGroup := r.Group("/workspaces/:workspaceId/audit")
	{
		auditGroup.Get("/", auth, rt.listAuditLogs)
	}
}

func (rt *Router) listAuditLogs(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return http.WithRepErrMsg(c, http.Unauthorized.Code, http.Unauthorized.Msg, c.Path())
	}
	workspaceId := c.Params("workspaceId")
	if workspaceId == "" {
		return http.WithRepErrMsg(c, http.WorkspaceIdIsEmpty.Code, http.WorkspaceIdIsEmpty.Msg, c.Path())
	}

	// 有效角色按工作区回查, 再查权限表
	wc, err := rt.Services.Resolver.ResolveIn(c.Context(), user.UserId, workspaceId)
	if err != nil {
		return repErr(c, err)
	}

	req := &model.AuditLogQueryReq{
		WorkspaceId: workspaceId,
		EntityType:  c.Query("entityType"),
		EntityId:    c.Query("entityId"),
		Action:      c.Query("action"),
		ActorUserId: c.Query("actorUserId"),
		Page:        c.QueryInt("page", 1),
		PageSize:    c.QueryInt("pageSize", 20),
	}

	logs, total, err := rt.Services.Audit.List(wc.Role, req)
	if err != nil {
		return repErr(c, err)
	}
	c.Locals(constant.DETAIL, map[string]interface{}{
		"logs":     logs,
		"total":    total,
		"page":     req.Page,
		"pageSize": req.PageSize,
	})
	return nil
}
