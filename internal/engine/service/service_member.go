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

	"gorm.io/gorm"

	"github.com/atelier-hq/atelier/internal/engine/authz"
	"github.com/atelier-hq/atelier/internal/engine/core"
	"github.com/atelier-hq/atelier/internal/engine/model"
	"github.com/atelier-hq/atelier/internal/engine/repo"
	"github.com/atelier-hq/atelier/pkg/log"
)

// MemberService 工作区成员服务
// 所有写操作都先按工作区回查调用者的有效角色, 请求里声称的角色一律不信
type MemberService struct {
	memberRepo    repo.IMemberRepository
	workspaceRepo repo.IWorkspaceRepository
	resolver      *ResolverService
	audit         *AuditService
}

func NewMemberService(
	memberRepo repo.IMemberRepository,
	workspaceRepo repo.IWorkspaceRepository,
	resolver *ResolverService,
	audit *AuditService,
) *MemberService {
	return &MemberService{
		memberRepo:    memberRepo,
		workspaceRepo: workspaceRepo,
		resolver:      resolver,
		audit:         audit,
	}
}

// ListMembers 列出工作区成员, 仅限有效成员
func (s *MemberService) ListMembers(ctx context.Context, user *model.CurrentUser, workspaceId string) ([]*model.MemberResp, error) {
	wc, err := s.resolver.ResolveIn(ctx, user.UserId, workspaceId)
	if err != nil {
		return nil, err
	}
	if !authz.Allowed(wc.Role, authz.ResourceUsers, authz.ActionView) {
		return nil, fmt.Errorf("role %s cannot view members: %w", wc.Role, core.ErrForbidden)
	}

	members, err := s.memberRepo.ListMembers(workspaceId)
	if err != nil {
		log.Errorw("failed to list members", "workspaceId", workspaceId, "error", err)
		return nil, err
	}
	resp := make([]*model.MemberResp, 0, len(members))
	for i := range members {
		resp = append(resp, model.ToMemberResp(&members[i]))
	}
	return resp, nil
}

// UpdateMemberRole 更新成员角色
// 所有者的成员关系不可变更, 只有显式的所有权转移才能动它
func (s *MemberService) UpdateMemberRole(ctx context.Context, user *model.CurrentUser, workspaceId, targetUserId string, req *model.UpdateMemberRoleReq) error {
	// 1. 角色合法性
	newRole, err := authz.ParseRole(req.Role)
	if err != nil {
		return fmt.Errorf("role %q: %w", req.Role, core.ErrInvalid)
	}

	// 2. 调用者必须在同一工作区且有 manage_roles 权限
	wc, err := s.resolver.ResolveIn(ctx, user.UserId, workspaceId)
	if err != nil {
		return err
	}
	if !authz.Allowed(wc.Role, authz.ResourceUsers, authz.ActionManageRoles) {
		return fmt.Errorf("role %s cannot manage roles: %w", wc.Role, core.ErrForbidden)
	}

	// 3. 目标成员存在且不是所有者
	target, err := s.memberRepo.GetMember(workspaceId, targetUserId)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("member %s: %w", targetUserId, core.ErrNotFound)
		}
		return err
	}
	if err := s.ensureNotOwner(workspaceId, targetUserId); err != nil {
		return err
	}

	if target.Role == newRole {
		return nil
	}
	if err := s.memberRepo.UpdateMemberRole(workspaceId, targetUserId, newRole); err != nil {
		log.Errorw("failed to update member role",
			"workspaceId", workspaceId, "userId", targetUserId, "error", err)
		return err
	}

	s.audit.Record(&model.AuditLog{
		WorkspaceId: workspaceId,
		ActorUserId: user.UserId,
		ActorEmail:  user.Email,
		ActorRole:   wc.Role.String(),
		Action:      model.AuditActionMemberUpdateRole,
		EntityType:  model.AuditEntityMember,
		EntityId:    targetUserId,
		Description: fmt.Sprintf("role changed from %s to %s", target.Role, newRole),
	})
	return nil
}

// DeactivateMember 停用成员, 保留记录, 可经新邀请回归
func (s *MemberService) DeactivateMember(ctx context.Context, user *model.CurrentUser, workspaceId, targetUserId string) error {
	wc, err := s.authorizeRemove(ctx, user, workspaceId, targetUserId)
	if err != nil {
		return err
	}

	if err := s.memberRepo.SetMemberActive(workspaceId, targetUserId, false); err != nil {
		log.Errorw("failed to deactivate member",
			"workspaceId", workspaceId, "userId", targetUserId, "error", err)
		return err
	}
	s.resolver.ClearHint(ctx, targetUserId)

	s.audit.Record(&model.AuditLog{
		WorkspaceId: workspaceId,
		ActorUserId: user.UserId,
		ActorEmail:  user.Email,
		ActorRole:   wc.Role.String(),
		Action:      model.AuditActionMemberDeactivate,
		EntityType:  model.AuditEntityMember,
		EntityId:    targetUserId,
	})
	return nil
}

// RemoveMember 移除成员记录
func (s *MemberService) RemoveMember(ctx context.Context, user *model.CurrentUser, workspaceId, targetUserId string) error {
	wc, err := s.authorizeRemove(ctx, user, workspaceId, targetUserId)
	if err != nil {
		return err
	}

	if err := s.memberRepo.RemoveMember(workspaceId, targetUserId); err != nil {
		log.Errorw("failed to remove member",
			"workspaceId", workspaceId, "userId", targetUserId, "error", err)
		return err
	}
	s.resolver.ClearHint(ctx, targetUserId)

	s.audit.Record(&model.AuditLog{
		WorkspaceId: workspaceId,
		ActorUserId: user.UserId,
		ActorEmail:  user.Email,
		ActorRole:   wc.Role.String(),
		Action:      model.AuditActionMemberRemove,
		EntityType:  model.AuditEntityMember,
		EntityId:    targetUserId,
	})
	return nil
}

// LeaveWorkspace 成员主动退出, 所有者不能退出自己的工作区
func (s *MemberService) LeaveWorkspace(ctx context.Context, user *model.CurrentUser, workspaceId string) error {
	wc, err := s.resolver.ResolveIn(ctx, user.UserId, workspaceId)
	if err != nil {
		return err
	}
	if err := s.ensureNotOwner(workspaceId, user.UserId); err != nil {
		return err
	}

	if err := s.memberRepo.RemoveMember(workspaceId, user.UserId); err != nil {
		log.Errorw("failed to leave workspace",
			"workspaceId", workspaceId, "userId", user.UserId, "error", err)
		return err
	}
	s.resolver.ClearHint(ctx, user.UserId)

	s.audit.Record(&model.AuditLog{
		WorkspaceId: workspaceId,
		ActorUserId: user.UserId,
		ActorEmail:  user.Email,
		ActorRole:   wc.Role.String(),
		Action:      model.AuditActionMemberLeave,
		EntityType:  model.AuditEntityMember,
		EntityId:    user.UserId,
	})
	return nil
}

// authorizeRemove 校验停用/移除操作: 权限、目标存在、非所有者、非本人
func (s *MemberService) authorizeRemove(ctx context.Context, user *model.CurrentUser, workspaceId, targetUserId string) (*model.WorkspaceContext, error) {
	wc, err := s.resolver.ResolveIn(ctx, user.UserId, workspaceId)
	if err != nil {
		return nil, err
	}
	if !authz.Allowed(wc.Role, authz.ResourceUsers, authz.ActionRemove) {
		return nil, fmt.Errorf("role %s cannot remove members: %w", wc.Role, core.ErrForbidden)
	}
	if targetUserId == user.UserId {
		return nil, fmt.Errorf("cannot remove yourself, leave the workspace instead: %w", core.ErrInvalid)
	}

	target, err := s.memberRepo.GetMember(workspaceId, targetUserId)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("member %s: %w", targetUserId, core.ErrNotFound)
		}
		return nil, err
	}
	if !authz.AtLeast(wc.Role, target.Role) {
		return nil, fmt.Errorf("role %s cannot act on member with role %s: %w", wc.Role, target.Role, core.ErrForbidden)
	}
	if err := s.ensureNotOwner(workspaceId, targetUserId); err != nil {
		return nil, err
	}
	return wc, nil
}

// ensureNotOwner 所有者的成员关系受保护: 不可改角色、不可停用、不可移除、不可退出
func (s *MemberService) ensureNotOwner(workspaceId, userId string) error {
	w, err := s.workspaceRepo.GetWorkspaceById(workspaceId)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("workspace %s: %w", workspaceId, core.ErrNotFound)
		}
		return err
	}
	if w.OwnerUserId == userId {
		return fmt.Errorf("owner membership of workspace %s is protected: %w", workspaceId, core.ErrForbidden)
	}
	return nil
}
