// Copyright 2025 Atelier Team
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/atelier-hq/atelier/internal/engine/constant"
	"github.com/atelier-hq/atelier/internal/engine/core"
	"github.com/atelier-hq/atelier/internal/engine/model"
	"github.com/atelier-hq/atelier/internal/engine/repo"
	"github.com/atelier-hq/atelier/pkg/cache"
	"github.com/atelier-hq/atelier/pkg/http"
	"github.com/atelier-hq/atelier/pkg/http/jwt"
	"github.com/atelier-hq/atelier/pkg/id"
	"github.com/atelier-hq/atelier/pkg/log"
)

// UserService 用户服务: 注册、登录、登出
type UserService struct {
	cache    cache.ICache
	userRepo repo.IUserRepository
	resolver *ResolverService
	audit    *AuditService
}

func NewUserService(
	cache cache.ICache,
	userRepo repo.IUserRepository,
	resolver *ResolverService,
	audit *AuditService,
) *UserService {
	return &UserService{
		cache:    cache,
		userRepo: userRepo,
		resolver: resolver,
		audit:    audit,
	}
}

// Register 注册用户, 邮箱全局唯一且统一小写存储
func (s *UserService) Register(register *model.RegisterReq) error {
	// 1. 参数校验
	email := strings.ToLower(strings.TrimSpace(register.Email))
	if _, err := mail.ParseAddress(email); err != nil {
		return fmt.Errorf("email %q: %w", register.Email, core.ErrInvalid)
	}
	if register.Username == "" || register.Password == "" {
		return fmt.Errorf("username and password are required: %w", core.ErrInvalid)
	}

	// 2. 邮箱查重
	exists, err := s.userRepo.CheckEmailExists(email)
	if err != nil {
		log.Errorw("failed to check email", "email", email, "error", err)
		return err
	}
	if exists {
		return fmt.Errorf("email %s already registered: %w", email, core.ErrConflict)
	}

	// 3. 密码散列后落库
	hashed, err := bcrypt.GenerateFromPassword([]byte(register.Password), bcrypt.DefaultCost)
	if err != nil {
		log.Errorw("failed to hash password", "error", err)
		return err
	}
	u := &model.User{
		UserId:    id.GetUUIDWithoutDashes(),
		Username:  register.Username,
		Password:  string(hashed),
		Email:     email,
		IsEnabled: 1,
	}
	if err := s.userRepo.CreateUser(u); err != nil {
		log.Errorw("failed to create user", "email", email, "error", err)
		return err
	}
	return nil
}

// Login 登录: 校验口令, 签发令牌, 建立会话, 顺带解析当前工作区
func (s *UserService) Login(ctx context.Context, login *model.LoginReq, auth http.Auth) (*model.LoginResp, error) {
	// 1. 按邮箱取用户
	u, err := s.userRepo.GetUserByEmail(login.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("user %s: %w", login.Email, core.ErrUnauthorized)
		}
		log.Errorw("failed to get user", "email", login.Email, "error", err)
		return nil, err
	}
	if u.IsEnabled == 0 {
		return nil, fmt.Errorf("user %s is disabled: %w", login.Email, core.ErrForbidden)
	}

	// 2. 校验口令
	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(login.Password)); err != nil {
		return nil, fmt.Errorf("incorrect password for %s: %w", login.Email, core.ErrUnauthorized)
	}

	// 3. 签发令牌并建立会话
	aToken, rToken, err := jwt.GenToken(u.UserId, u.Email, []byte(auth.SecretKey), auth.AccessExpire, auth.RefreshExpire)
	if err != nil {
		log.Errorw("failed to generate tokens", "userId", u.UserId, "error", err)
		return nil, err
	}
	sessionKey := constant.UserSessionKey + u.UserId
	if err := s.cache.Set(ctx, sessionKey, u.UserId, auth.RefreshExpire*time.Minute).Err(); err != nil {
		log.Errorw("failed to create session", "userId", u.UserId, "error", err)
		return nil, err
	}

	// 4. 解析当前工作区, 用户可以没有任何工作区
	workspaceId := ""
	if wc, err := s.resolver.Resolve(ctx, u.UserId); err == nil {
		workspaceId = wc.WorkspaceId
	} else if !errors.Is(err, core.ErrNoWorkspaceAccess) {
		log.Warnw("failed to resolve workspace on login", "userId", u.UserId, "error", err)
	}

	s.audit.Record(&model.AuditLog{
		ActorUserId: u.UserId,
		ActorEmail:  u.Email,
		Action:      model.AuditActionLogin,
		EntityType:  model.AuditEntityUser,
		EntityId:    u.UserId,
	})

	return &model.LoginResp{
		UserInfo: model.UserInfo{
			UserId:   u.UserId,
			Username: u.Username,
			Avatar:   u.Avatar,
			Email:    u.Email,
		},
		Token: map[string]string{
			"accessToken":  aToken,
			"refreshToken": rToken,
		},
		WorkspaceId: workspaceId,
	}, nil
}

// Logout 登出: 删除会话并清除工作区提示, 下次登录重新解析
func (s *UserService) Logout(ctx context.Context, userId string) error {
	if err := s.cache.Del(ctx, constant.UserSessionKey+userId).Err(); err != nil {
		log.Errorw("failed to delete session", "userId", userId, "error", err)
		return err
	}
	s.resolver.ClearHint(ctx, userId)
	return nil
}

// RefreshToken 用 refresh token 换新令牌对
func (s *UserService) RefreshToken(ctx context.Context, auth *http.Auth, userId, email, rToken string) (map[string]string, error) {
	exists, err := s.cache.Exists(ctx, constant.UserSessionKey+userId).Result()
	if err != nil {
		log.Errorw("failed to check session", "userId", userId, "error", err)
		return nil, err
	}
	if exists == 0 {
		return nil, fmt.Errorf("session for user %s not found: %w", userId, core.ErrUnauthorized)
	}
	return jwt.RefreshToken(auth, userId, email, rToken)
}

// GetUserInfo 获取用户信息
func (s *UserService) GetUserInfo(userId string) (*model.UserInfo, error) {
	u, err := s.userRepo.GetUserByUserId(userId)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("user %s: %w", userId, core.ErrNotFound)
		}
		return nil, err
	}
	return &model.UserInfo{
		UserId:   u.UserId,
		Username: u.Username,
		Avatar:   u.Avatar,
		Email:    u.Email,
	}, nil
}
