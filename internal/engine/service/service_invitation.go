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

	"gorm.io/gorm"

	"github.com/atelier-hq/atelier/internal/engine/authz"
	"github.com/atelier-hq/atelier/internal/engine/core"
	"github.com/atelier-hq/atelier/internal/engine/model"
	"github.com/atelier-hq/atelier/internal/engine/repo"
	"github.com/atelier-hq/atelier/internal/pkg/mailer"
	"github.com/atelier-hq/atelier/pkg/id"
	"github.com/atelier-hq/atelier/pkg/log"
	"github.com/atelier-hq/atelier/pkg/ratelimit"
)

const (
	inviteExpireDays = 7
	inviteTokenBytes = 32
)

// InvitationService 邀请服务
// 令牌一次性, 凭令牌+邮箱接受; 状态不落库, 过期与否读取时按 expires_at 计算
type InvitationService struct {
	invitationRepo repo.IInvitationRepository
	memberRepo     repo.IMemberRepository
	workspaceRepo  repo.IWorkspaceRepository
	userRepo       repo.IUserRepository
	resolver       *ResolverService
	audit          *AuditService
	limiter        ratelimit.ILimiter
	mailer         mailer.IMailer
	inviteBaseURL  string
}

func NewInvitationService(
	invitationRepo repo.IInvitationRepository,
	memberRepo repo.IMemberRepository,
	workspaceRepo repo.IWorkspaceRepository,
	userRepo repo.IUserRepository,
	resolver *ResolverService,
	audit *AuditService,
	limiter ratelimit.ILimiter,
	m mailer.IMailer,
	inviteBaseURL string,
) *InvitationService {
	return &InvitationService{
		invitationRepo: invitationRepo,
		memberRepo:     memberRepo,
		workspaceRepo:  workspaceRepo,
		userRepo:       userRepo,
		resolver:       resolver,
		audit:          audit,
		limiter:        limiter,
		mailer:         m,
		inviteBaseURL:  inviteBaseURL,
	}
}

// CreateInvitation 创建邀请
func (s *InvitationService) CreateInvitation(ctx context.Context, user *model.CurrentUser, req *model.CreateInvitationReq) (*model.InvitationResp, error) {
	// 1. 参数校验
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, fmt.Errorf("email %q: %w", req.Email, core.ErrInvalid)
	}
	role, err := authz.ParseRole(req.Role)
	if err != nil {
		return nil, fmt.Errorf("role %q: %w", req.Role, core.ErrInvalid)
	}

	// 2. 调用者必须是工作区有效成员且有 users.invite 权限, 且不能授出高于自身的角色
	wc, err := s.resolver.ResolveIn(ctx, user.UserId, req.WorkspaceId)
	if err != nil {
		return nil, err
	}
	if !authz.Allowed(wc.Role, authz.ResourceUsers, authz.ActionInvite) {
		return nil, fmt.Errorf("role %s cannot invite users: %w", wc.Role, core.ErrForbidden)
	}
	if !authz.AtLeast(wc.Role, role) {
		return nil, fmt.Errorf("role %s cannot grant role %s: %w", wc.Role, role, core.ErrForbidden)
	}

	// 3. 按邀请人限流, 限流器失败放行
	allowed, err := s.limiter.Allow(ctx, user.UserId)
	if err != nil {
		log.Warnw("invite rate limiter degraded", "userId", user.UserId, "error", err)
	}
	if !allowed {
		return nil, fmt.Errorf("too many invitations from user %s: %w", user.UserId, core.ErrConflict)
	}

	// 4. 目标不能已是有效成员, 也不能已有待接受邀请
	isMember, err := s.memberRepo.CheckActiveMemberByEmail(req.WorkspaceId, email)
	if err != nil {
		log.Errorw("failed to check member by email", "workspaceId", req.WorkspaceId, "error", err)
		return nil, err
	}
	if isMember {
		return nil, fmt.Errorf("%s is already a member of workspace %s: %w", email, req.WorkspaceId, core.ErrConflict)
	}
	now := time.Now()
	if _, err := s.invitationRepo.GetPendingByEmail(req.WorkspaceId, email, now); err == nil {
		return nil, fmt.Errorf("pending invitation for %s already exists: %w", email, core.ErrConflict)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	// 5. 生成一次性令牌并落库
	token, err := id.GetSecureToken(inviteTokenBytes)
	if err != nil {
		log.Errorw("failed to generate invitation token", "error", err)
		return nil, err
	}
	inv := &model.WorkspaceInvitation{
		InvitationId: id.GetUUIDWithoutDashes(),
		WorkspaceId:  req.WorkspaceId,
		Email:        email,
		Role:         role,
		Token:        token,
		InvitedBy:    user.UserId,
		ExpiresAt:    now.Add(inviteExpireDays * 24 * time.Hour),
	}
	if err := s.invitationRepo.CreateInvitation(inv); err != nil {
		log.Errorw("failed to create invitation", "workspaceId", req.WorkspaceId, "error", err)
		return nil, err
	}

	// 6. 异步发邮件, 失败只记日志, 邀请已生效
	s.sendInvitationMail(inv, user)

	s.audit.Record(&model.AuditLog{
		WorkspaceId: req.WorkspaceId,
		ActorUserId: user.UserId,
		ActorEmail:  user.Email,
		ActorRole:   wc.Role.String(),
		Action:      model.AuditActionInvitationCreate,
		EntityType:  model.AuditEntityInvitation,
		EntityId:    inv.InvitationId,
		Description: fmt.Sprintf("invited %s as %s", email, role),
	})
	return model.ToInvitationResp(inv), nil
}

// AcceptInvitation 接受邀请, 令牌单次有效, 并发接受只有一个成功
func (s *InvitationService) AcceptInvitation(ctx context.Context, user *model.CurrentUser, req *model.AcceptInvitationReq) (*model.WorkspaceContext, error) {
	if req.Token == "" {
		return nil, fmt.Errorf("token is required: %w", core.ErrInvalid)
	}

	// 1. 按令牌查找, 不存在与格式错误同样返回 Invalid, 不泄露令牌是否存在过
	inv, err := s.invitationRepo.GetByToken(req.Token)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("invitation token: %w", core.ErrInvalid)
		}
		log.Errorw("failed to get invitation by token", "error", err)
		return nil, err
	}

	// 2. 状态读取时计算
	now := time.Now()
	if inv.AcceptedAt != nil {
		return nil, fmt.Errorf("invitation %s already accepted: %w", inv.InvitationId, core.ErrConflict)
	}
	if inv.Expired(now) {
		return nil, fmt.Errorf("invitation %s: %w", inv.InvitationId, core.ErrExpired)
	}

	// 3. 邮箱必须与受邀邮箱一致, 不区分大小写
	if !strings.EqualFold(user.Email, inv.Email) {
		return nil, fmt.Errorf("invitation was issued to a different email: %w", core.ErrEmailMismatch)
	}

	// 4. 标记接受 + 写成员, 单个事务; 0 行受影响说明并发下已被接受
	member := &model.WorkspaceMember{
		WorkspaceId: inv.WorkspaceId,
		UserId:      user.UserId,
		Role:        inv.Role,
		IsActive:    true,
		InvitedBy:   inv.InvitedBy,
	}
	if err := s.invitationRepo.AcceptInvitation(inv.InvitationId, member, now); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("invitation %s already accepted: %w", inv.InvitationId, core.ErrConflict)
		}
		log.Errorw("failed to accept invitation", "invitationId", inv.InvitationId, "error", err)
		return nil, err
	}

	// 5. 新加入的工作区即当前工作区
	s.resolver.SetHint(ctx, user.UserId, inv.WorkspaceId)

	s.audit.Record(&model.AuditLog{
		WorkspaceId: inv.WorkspaceId,
		ActorUserId: user.UserId,
		ActorEmail:  user.Email,
		ActorRole:   inv.Role.String(),
		Action:      model.AuditActionInvitationAccept,
		EntityType:  model.AuditEntityInvitation,
		EntityId:    inv.InvitationId,
		Description: fmt.Sprintf("joined as %s", inv.Role),
	})
	return &model.WorkspaceContext{WorkspaceId: inv.WorkspaceId, Role: inv.Role}, nil
}

// RevokeInvitation 撤销邀请, 受邀人本人可拒绝, 其他调用者需要 users.invite 权限, 已接受的不可撤销
func (s *InvitationService) RevokeInvitation(ctx context.Context, user *model.CurrentUser, workspaceId, invitationId string) error {
	inv, err := s.getWorkspaceInvitation(workspaceId, invitationId)
	if err != nil {
		return err
	}

	// 1. 受邀人本人拒绝无需工作区成员身份
	actorRole := ""
	if !strings.EqualFold(user.Email, inv.Email) {
		wc, err := s.resolver.ResolveIn(ctx, user.UserId, workspaceId)
		if err != nil {
			return err
		}
		if !authz.Allowed(wc.Role, authz.ResourceUsers, authz.ActionInvite) {
			return fmt.Errorf("role %s cannot revoke invitations: %w", wc.Role, core.ErrForbidden)
		}
		actorRole = wc.Role.String()
	}

	// 2. 已接受的邀请不可撤销
	if inv.AcceptedAt != nil {
		return fmt.Errorf("invitation %s already accepted: %w", invitationId, core.ErrConflict)
	}

	if err := s.invitationRepo.DeleteInvitation(invitationId); err != nil {
		log.Errorw("failed to revoke invitation", "invitationId", invitationId, "error", err)
		return err
	}

	s.audit.Record(&model.AuditLog{
		WorkspaceId: workspaceId,
		ActorUserId: user.UserId,
		ActorEmail:  user.Email,
		ActorRole:   actorRole,
		Action:      model.AuditActionInvitationRevoke,
		EntityType:  model.AuditEntityInvitation,
		EntityId:    invitationId,
		Description: fmt.Sprintf("invitation for %s revoked", inv.Email),
	})
	return nil
}

// ResendInvitation 重发邀请: 轮换令牌, 重置有效期, 再次发信
func (s *InvitationService) ResendInvitation(ctx context.Context, user *model.CurrentUser, workspaceId, invitationId string) (*model.InvitationResp, error) {
	wc, err := s.resolver.ResolveIn(ctx, user.UserId, workspaceId)
	if err != nil {
		return nil, err
	}
	if !authz.Allowed(wc.Role, authz.ResourceUsers, authz.ActionInvite) {
		return nil, fmt.Errorf("role %s cannot resend invitations: %w", wc.Role, core.ErrForbidden)
	}

	inv, err := s.getWorkspaceInvitation(workspaceId, invitationId)
	if err != nil {
		return nil, err
	}
	if inv.AcceptedAt != nil {
		return nil, fmt.Errorf("invitation %s already accepted: %w", invitationId, core.ErrConflict)
	}

	allowed, err := s.limiter.Allow(ctx, user.UserId)
	if err != nil {
		log.Warnw("invite rate limiter degraded", "userId", user.UserId, "error", err)
	}
	if !allowed {
		return nil, fmt.Errorf("too many invitations from user %s: %w", user.UserId, core.ErrConflict)
	}

	token, err := id.GetSecureToken(inviteTokenBytes)
	if err != nil {
		log.Errorw("failed to generate invitation token", "error", err)
		return nil, err
	}
	inv.Token = token
	inv.ExpiresAt = time.Now().Add(inviteExpireDays * 24 * time.Hour)
	if err := s.invitationRepo.UpdateExpiry(invitationId, token, inv.ExpiresAt); err != nil {
		// 并发下检查后被接受, 轮换未生效
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("invitation %s already accepted: %w", invitationId, core.ErrConflict)
		}
		log.Errorw("failed to update invitation expiry", "invitationId", invitationId, "error", err)
		return nil, err
	}

	s.sendInvitationMail(inv, user)

	s.audit.Record(&model.AuditLog{
		WorkspaceId: workspaceId,
		ActorUserId: user.UserId,
		ActorEmail:  user.Email,
		ActorRole:   wc.Role.String(),
		Action:      model.AuditActionInvitationResend,
		EntityType:  model.AuditEntityInvitation,
		EntityId:    invitationId,
		Description: fmt.Sprintf("invitation for %s resent", inv.Email),
	})
	return model.ToInvitationResp(inv), nil
}

// ListInvitations 列出工作区邀请, 需要 users.invite 权限
func (s *InvitationService) ListInvitations(ctx context.Context, user *model.CurrentUser, workspaceId string) ([]*model.InvitationResp, error) {
	wc, err := s.resolver.ResolveIn(ctx, user.UserId, workspaceId)
	if err != nil {
		return nil, err
	}
	if !authz.Allowed(wc.Role, authz.ResourceUsers, authz.ActionInvite) {
		return nil, fmt.Errorf("role %s cannot list invitations: %w", wc.Role, core.ErrForbidden)
	}

	invs, err := s.invitationRepo.ListByWorkspace(workspaceId)
	if err != nil {
		log.Errorw("failed to list invitations", "workspaceId", workspaceId, "error", err)
		return nil, err
	}
	resp := make([]*model.InvitationResp, 0, len(invs))
	for i := range invs {
		resp = append(resp, model.ToInvitationResp(&invs[i]))
	}
	return resp, nil
}

// PurgeExpired 清理过期 cutoff 之前且未被接受的邀请, 由定时任务调用
func (s *InvitationService) PurgeExpired(cutoff time.Time) (int64, error) {
	purged, err := s.invitationRepo.PurgeExpiredBefore(cutoff)
	if err != nil {
		log.Errorw("failed to purge expired invitations", "cutoff", cutoff, "error", err)
		return 0, err
	}
	if purged > 0 {
		log.Infow("purged expired invitations", "count", purged, "cutoff", cutoff)
	}
	return purged, nil
}

func (s *InvitationService) getWorkspaceInvitation(workspaceId, invitationId string) (*model.WorkspaceInvitation, error) {
	inv, err := s.invitationRepo.GetByInvitationId(invitationId)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("invitation %s: %w", invitationId, core.ErrNotFound)
		}
		return nil, err
	}
	// 邀请必须属于请求的工作区, 跨工作区一律视为不存在
	if inv.WorkspaceId != workspaceId {
		return nil, fmt.Errorf("invitation %s: %w", invitationId, core.ErrNotFound)
	}
	return inv, nil
}

// sendInvitationMail 异步发送邀请邮件, 尽力而为
func (s *InvitationService) sendInvitationMail(inv *model.WorkspaceInvitation, inviter *model.CurrentUser) {
	workspaceName := inv.WorkspaceId
	if w, err := s.workspaceRepo.GetWorkspaceById(inv.WorkspaceId); err == nil {
		workspaceName = w.Name
	}
	inviterName := inviter.Email
	if u, err := s.userRepo.GetUserByUserId(inviter.UserId); err == nil && u.Username != "" {
		inviterName = u.Username
	}

	msg := &mailer.Invitation{
		To:            inv.Email,
		WorkspaceName: workspaceName,
		InviterName:   inviterName,
		InviterEmail:  inviter.Email,
		Role:          inv.Role.String(),
		AcceptURL:     fmt.Sprintf("%s/signup?token=%s", strings.TrimRight(s.inviteBaseURL, "/"), inv.Token),
		ExpireDays:    inviteExpireDays,
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := s.mailer.SendInvitation(ctx, msg); err != nil {
			log.Warnw("failed to send invitation email",
				"invitationId", inv.InvitationId, "to", inv.Email, "error", err)
		}
	}()
}
