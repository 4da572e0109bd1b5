package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/atelier-hq/atelier/internal/engine/constant"
	"github.com/atelier-hq/atelier/internal/engine/model"
	"github.com/atelier-hq/atelier/pkg/http"
)

func (rt *Router) authRouter(r fiber.Router, auth fiber.Handler) {
	userGroup := r.Group("/user")
	{
		// not auth
		userGroup.Post("/register", rt.register)
		userGroup.Post("/login", rt.login)

		// auth
		userGroup.Post("/logout", auth, rt.logout)
		userGroup.Get("/refresh", auth, rt.refresh)
		userGroup.Get("/getUserInfo", auth, rt.getUserInfo)
	}
}

func (rt *Router) register(c *fiber.Ctx) error {
	var req model.RegisterReq
	if err := c.BodyParser(&req); err != nil {
		return http.WithRepErrMsg(c, http.RequestParameterParsingFailed.Code, http.RequestParameterParsingFailed.Msg, c.Path())
	}
	if req.Email == "" || req.Password == "" {
		return http.WithRepErrMsg(c, http.UsernameArePasswordIsRequired.Code, http.UsernameArePasswordIsRequired.Msg, c.Path())
	}

	if err := rt.Services.User.Register(&req); err != nil {
		return repErr(c, err)
	}
	c.Locals(constant.OPERATION, "register")
	return nil
}

func (rt *Router) login(c *fiber.Ctx) error {
	var req model.LoginReq
	if err := c.BodyParser(&req); err != nil {
		return http.WithRepErrMsg(c, http.RequestParameterParsingFailed.Code, http.RequestParameterParsingFailed.Msg, c.Path())
	}
	if req.Email == "" || req.Password == "" {
		return http.WithRepErrMsg(c, http.UsernameArePasswordIsRequired.Code, http.UsernameArePasswordIsRequired.Msg, c.Path())
	}

	resp, err := rt.Services.User.Login(c.Context(), &req, rt.Http.Auth)
	if err != nil {
		return repErr(c, err)
	}
	c.Locals(constant.DETAIL, resp)
	return nil
}

func (rt *Router) logout(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return http.WithRepErrMsg(c, http.Unauthorized.Code, http.Unauthorized.Msg, c.Path())
	}
	if err := rt.Services.User.Logout(c.Context(), user.UserId); err != nil {
		return repErr(c, err)
	}
	c.Locals(constant.OPERATION, "logout")
	return nil
}

func (rt *Router) refresh(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return http.WithRepErrMsg(c, http.Unauthorized.Code, http.Unauthorized.Msg, c.Path())
	}
	rToken := c.Query("refreshToken")
	if rToken == "" {
		return http.WithRepErrMsg(c, http.TokenBeEmpty.Code, http.TokenBeEmpty.Msg, c.Path())
	}

	token, err := rt.Services.User.RefreshToken(c.Context(), &rt.Http.Auth, user.UserId, user.Email, rToken)
	if err != nil {
		return repErr(c, err)
	}
	c.Locals(constant.DETAIL, token)
	return nil
}

func (rt *Router) getUserInfo(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return http.WithRepErrMsg(c, http.Unauthorized.Code, http.Unauthorized.Msg, c.Path())
	}
	info, err := rt.Services.User.GetUserInfo(user.UserId)
	if err != nil {
		return repErr(c, err)
	}
	c.Locals(constant.DETAIL, info)
	return nil
}
