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
	"regexp"
	"strings"

	"gorm.io/gorm"

	"github.com/atelier-hq/atelier/internal/engine/authz"
	"github.com/atelier-hq/atelier/internal/engine/core"
	"github.com/atelier-hq/atelier/internal/engine/model"
	"github.com/atelier-hq/atelier/internal/engine/repo"
	"github.com/atelier-hq/atelier/pkg/id"
	"github.com/atelier-hq/atelier/pkg/log"
)

var slugPattern = regexp.MustCompile(`[^a-z0-9]+`)

// WorkspaceService 工作区服务
type WorkspaceService struct {
	workspaceRepo repo.IWorkspaceRepository
	memberRepo    repo.IMemberRepository
	resolver      *ResolverService
	audit         *AuditService
}

func NewWorkspaceService(
	workspaceRepo repo.IWorkspaceRepository,
	memberRepo repo.IMemberRepository,
	resolver *ResolverService,
	audit *AuditService,
) *WorkspaceService {
	return &WorkspaceService{
		workspaceRepo: workspaceRepo,
		memberRepo:    memberRepo,
		resolver:      resolver,
		audit:         audit,
	}
}

// CreateWorkspace 创建工作区, 创建者成为所有者并以 ADMIN 角色写入成员表
func (s *WorkspaceService) CreateWorkspace(ctx context.Context, user *model.CurrentUser, req *model.CreateWorkspaceReq) (*model.WorkspaceResp, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("workspace name is required: %w", core.ErrInvalid)
	}

	// 1. 生成 slug, 冲突时追加短后缀
	slug := slugify(name)
	exists, err := s.workspaceRepo.CheckSlugExists(slug)
	if err != nil {
		log.Errorw("failed to check slug", "slug", slug, "error", err)
		return nil, err
	}
	if exists {
		slug = fmt.Sprintf("%s-%s", slug, strings.ToLower(id.ShortId()))
	}

	// 2. 工作区与所有者成员同一事务写入
	w := &model.Workspace{
		WorkspaceId: id.GetUUIDWithoutDashes(),
		Name:        name,
		Slug:        slug,
		OwnerUserId: user.UserId,
		IsActive:    true,
	}
	owner := &model.WorkspaceMember{
		WorkspaceId: w.WorkspaceId,
		UserId:      user.UserId,
		Role:        authz.RoleAdmin,
		IsActive:    true,
	}
	if err := s.workspaceRepo.CreateWorkspaceWithOwner(w, owner); err != nil {
		log.Errorw("failed to create workspace", "name", name, "error", err)
		return nil, err
	}

	// 3. 新工作区即当前工作区
	s.resolver.SetHint(ctx, user.UserId, w.WorkspaceId)

	s.audit.Record(&model.AuditLog{
		WorkspaceId: w.WorkspaceId,
		ActorUserId: user.UserId,
		ActorEmail:  user.Email,
		ActorRole:   authz.RoleAdmin.String(),
		Action:      model.AuditActionWorkspaceCreate,
		EntityType:  model.AuditEntityWorkspace,
		EntityId:    w.WorkspaceId,
		Description: fmt.Sprintf("workspace %q created", name),
	})
	return model.ToWorkspaceResp(w), nil
}

// ListWorkspaces 列出用户的有效工作区
func (s *WorkspaceService) ListWorkspaces(user *model.CurrentUser) ([]*model.WorkspaceResp, error) {
	workspaces, err := s.workspaceRepo.ListWorkspacesByUserId(user.UserId)
	if err != nil {
		log.Errorw("failed to list workspaces", "userId", user.UserId, "error", err)
		return nil, err
	}
	resp := make([]*model.WorkspaceResp, 0, len(workspaces))
	for _, w := range workspaces {
		resp = append(resp, model.ToWorkspaceResp(w))
	}
	return resp, nil
}

// GetWorkspace 获取工作区详情, 仅限有效成员
func (s *WorkspaceService) GetWorkspace(ctx context.Context, user *model.CurrentUser, workspaceId string) (*model.WorkspaceResp, error) {
	if _, err := s.resolver.ResolveIn(ctx, user.UserId, workspaceId); err != nil {
		return nil, err
	}
	w, err := s.workspaceRepo.GetWorkspaceById(workspaceId)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("workspace %s: %w", workspaceId, core.ErrNotFound)
		}
		return nil, err
	}
	return model.ToWorkspaceResp(w), nil
}

// DeleteWorkspace 删除工作区, 仅所有者可删, 级联删除成员与邀请
func (s *WorkspaceService) DeleteWorkspace(ctx context.Context, user *model.CurrentUser, workspaceId string) error {
	w, err := s.workspaceRepo.GetWorkspaceById(workspaceId)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("workspace %s: %w", workspaceId, core.ErrNotFound)
		}
		log.Errorw("failed to get workspace", "workspaceId", workspaceId, "error", err)
		return err
	}
	if w.OwnerUserId != user.UserId {
		return fmt.Errorf("only the owner can delete workspace %s: %w", workspaceId, core.ErrForbidden)
	}

	members, err := s.memberRepo.ListMembers(workspaceId)
	if err != nil {
		log.Errorw("failed to list members before delete", "workspaceId", workspaceId, "error", err)
		return err
	}

	if err := s.workspaceRepo.DeleteWorkspaceCascade(workspaceId); err != nil {
		log.Errorw("failed to delete workspace", "workspaceId", workspaceId, "error", err)
		return err
	}

	// 成员的提示可能还指向已删工作区, 逐个清掉, 漏清由解析回查兜底
	for i := range members {
		s.resolver.ClearHint(ctx, members[i].UserId)
	}

	s.audit.Record(&model.AuditLog{
		WorkspaceId: workspaceId,
		ActorUserId: user.UserId,
		ActorEmail:  user.Email,
		ActorRole:   authz.RoleAdmin.String(),
		Action:      model.AuditActionWorkspaceDelete,
		EntityType:  model.AuditEntityWorkspace,
		EntityId:    workspaceId,
		Description: fmt.Sprintf("workspace %q deleted", w.Name),
	})
	return nil
}

// SwitchWorkspace 切换当前工作区, 目标必须是调用者的有效工作区
func (s *WorkspaceService) SwitchWorkspace(ctx context.Context, user *model.CurrentUser, workspaceId string) (*model.WorkspaceContext, error) {
	wc, err := s.resolver.ResolveIn(ctx, user.UserId, workspaceId)
	if err != nil {
		return nil, err
	}
	s.resolver.SetHint(ctx, user.UserId, workspaceId)

	s.audit.Record(&model.AuditLog{
		WorkspaceId: workspaceId,
		ActorUserId: user.UserId,
		ActorEmail:  user.Email,
		ActorRole:   wc.Role.String(),
		Action:      model.AuditActionWorkspaceSwitch,
		EntityType:  model.AuditEntityWorkspace,
		EntityId:    workspaceId,
	})
	return wc, nil
}

// slugify 名称转 slug: 小写, 非字母数字折叠为连字符
func slugify(name string) string {
	s := slugPattern.ReplaceAllString(strings.ToLower(name), "-")
	s = strings.Trim(s, "-")
	if s == "" {
		s = strings.ToLower(id.ShortId())
	}
	return s
}
