package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/atelier-hq/atelier/internal/engine/constant"
	"github.com/atelier-hq/atelier/internal/engine/model"
	"github.com/atelier-hq/atelier/pkg/http"
)

func (rt *Router) invitationRouter(r fiber.Router, auth fiber.Handler) {
	invGroup := r.Group("/workspaces/:workspaceId/invitations")
	{
		invGroup.Get("/", auth, rt.listInvitations)
		invGroup.Post("/", auth, rt.createInvitation)
		invGroup.Post("/:invitationId/resend", auth, rt.resendInvitation)
		invGroup.Delete("/:invitationId", auth, rt.revokeInvitation)
	}

	// 接受邀请走登录后的身份, 不挂在工作区路径下: 接受前调用者还不是成员
	r.Post("/invitations/accept", auth, rt.acceptInvitation)
}

func (rt *Router) listInvitations(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return http.WithRepErrMsg(c, http.Unauthorized.Code, http.Unauthorized.Msg, c.Path())
	}
	workspaceId := c.Params("workspaceId")
	if workspaceId == "" {
		return http.WithRepErrMsg(c, http.WorkspaceIdIsEmpty.Code, http.WorkspaceIdIsEmpty.Msg, c.Path())
	}

	resp, err := rt.Services.Invitation.ListInvitations(c.Context(), user, workspaceId)
	if err != nil {
		return repErr(c, err)
	}
	c.Locals(constant.DETAIL, resp)
	return nil
}

func (rt *Router) createInvitation(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return http.WithRepErrMsg(c, http.Unauthorized.Code, http.Unauthorized.Msg, c.Path())
	}
	workspaceId := c.Params("workspaceId")
	if workspaceId == "" {
		return http.WithRepErrMsg(c, http.WorkspaceIdIsEmpty.Code, http.WorkspaceIdIsEmpty.Msg, c.Path())
	}

	var req model.CreateInvitationReq
	if err := c.BodyParser(&req); err != nil {
		return http.WithRepErrMsg(c, http.RequestParameterParsingFailed.Code, http.RequestParameterParsingFailed.Msg, c.Path())
	}
	req.WorkspaceId = workspaceId

	resp, err := rt.Services.Invitation.CreateInvitation(c.Context(), user, &req)
	if err != nil {
		return repErr(c, err)
	}
	c.Locals(constant.DETAIL, resp)
	c.Locals(constant.OPERATION, "create invitation")
	return nil
}

func (rt *Router) acceptInvitation(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return http.WithRepErrMsg(c, http.Unauthorized.Code, http.Unauthorized.Msg, c.Path())
	}

	var req model.AcceptInvitationReq
	if err := c.BodyParser(&req); err != nil {
		return http.WithRepErrMsg(c, http.RequestParameterParsingFailed.Code, http.RequestParameterParsingFailed.Msg, c.Path())
	}

	wc, err := rt.Services.Invitation.AcceptInvitation(c.Context(), user, &req)
	if err != nil {
		return repErr(c, err)
	}
	c.Locals(constant.DETAIL, wc)
	c.Locals(constant.OPERATION, "accept invitation")
	return nil
}

func (rt *Router) resendInvitation(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return http.WithRepErrMsg(c, http.Unauthorized.Code, http.Unauthorized.Msg, c.Path())
	}
	workspaceId := c.Params("workspaceId")
	invitationId := c.Params("invitationId")
	if workspaceId == "" {
		return http.WithRepErrMsg(c, http.WorkspaceIdIsEmpty.Code, http.WorkspaceIdIsEmpty.Msg, c.Path())
	}
	if invitationId == "" {
		return http.WithRepErrMsg(c, http.InvitationIdIsEmpty.Code, http.InvitationIdIsEmpty.Msg, c.Path())
	}

	resp, err := rt.Services.Invitation.ResendInvitation(c.Context(), user, workspaceId, invitationId)
	if err != nil {
		return repErr(c, err)
	}
	c.Locals(constant.DETAIL, resp)
	c.Locals(constant.OPERATION, "resend invitation")
	return nil
}

func (rt *Router) revokeInvitation(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return http.WithRepErrMsg(c, http.Unauthorized.Code, http.Unauthorized.Msg, c.Path())
	}
	workspaceId := c.Params("workspaceId")
	invitationId := c.Params("invitationId")
	if workspaceId == "" {
		return http.WithRepErrMsg(c, http.WorkspaceIdIsEmpty.Code, http.WorkspaceIdIsEmpty.Msg, c.Path())
	}
	if invitationId == "" {
		return http.WithRepErrMsg(c, http.InvitationIdIsEmpty.Code, http.InvitationIdIsEmpty.Msg, c.Path())
	}

	if err := rt.Services.Invitation.RevokeInvitation(c.Context(), user, workspaceId, invitationId); err != nil {
		return repErr(c, err)
	}
	c.Locals(constant.OPERATION, "revoke invitation")
	return nil
}
