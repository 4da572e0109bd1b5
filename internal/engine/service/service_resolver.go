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
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/atelier-hq/atelier/internal/engine/constant"
	"github.com/atelier-hq/atelier/internal/engine/core"
	"github.com/atelier-hq/atelier/internal/engine/model"
	"github.com/atelier-hq/atelier/internal/engine/repo"
	"github.com/atelier-hq/atelier/pkg/cache"
	"github.com/atelier-hq/atelier/pkg/log"
)

const hintTTL = 30 * 24 * time.Hour

// ResolverService 工作区解析服务
// 缓存里的 hint 只是性能提示, 永远不可信: 命中后必须回查成员表,
// 失效(成员被移除/停用/工作区删除)则回退全量解析并回写
type ResolverService struct {
	cache         cache.ICache
	memberRepo    repo.IMemberRepository
	workspaceRepo repo.IWorkspaceRepository
}

func NewResolverService(
	cache cache.ICache,
	memberRepo repo.IMemberRepository,
	workspaceRepo repo.IWorkspaceRepository,
) *ResolverService {
	return &ResolverService{
		cache:         cache,
		memberRepo:    memberRepo,
		workspaceRepo: workspaceRepo,
	}
}

// Resolve 解析用户的当前工作区上下文
// 1. 读 hint 缓存, 命中则回查成员表验证
// 2. hint 失效或未命中, 取用户最早加入的有效工作区
// 3. 回写 hint; 无任何有效成员关系返回 ErrNoWorkspaceAccess
func (s *ResolverService) Resolve(ctx context.Context, userId string) (*model.WorkspaceContext, error) {
	hintKey := constant.WorkspaceHintKey + userId

	// 1. fast path: hint 命中且成员关系仍有效
	hinted, err := s.cache.Get(ctx, hintKey).Result()
	if err != nil && err != redis.Nil {
		log.Warnw("failed to read workspace hint", "userId", userId, "error", err)
	}
	if hinted != "" {
		m, err := s.memberRepo.GetActiveMember(hinted, userId)
		if err == nil {
			return &model.WorkspaceContext{WorkspaceId: m.WorkspaceId, Role: m.Role}, nil
		}
	}

	// 2. slow path: 全量解析, 取最早加入的有效工作区
	memberships, err := s.memberRepo.ListUserMemberships(userId, true)
	if err != nil {
		log.Errorw("failed to list user memberships", "userId", userId, "error", err)
		return nil, err
	}
	if len(memberships) == 0 {
		s.ClearHint(ctx, userId)
		return nil, fmt.Errorf("user %s has no active workspace: %w", userId, core.ErrNoWorkspaceAccess)
	}

	// 3. 回写 hint
	m := memberships[0]
	s.SetHint(ctx, userId, m.WorkspaceId)
	return &model.WorkspaceContext{WorkspaceId: m.WorkspaceId, Role: m.Role}, nil
}

// ResolveIn 解析用户在指定工作区内的上下文, 非有效成员返回 ErrNoWorkspaceAccess
func (s *ResolverService) ResolveIn(ctx context.Context, userId, workspaceId string) (*model.WorkspaceContext, error) {
	m, err := s.memberRepo.GetActiveMember(workspaceId, userId)
	if err != nil {
		return nil, fmt.Errorf("user %s is not an active member of workspace %s: %w",
			userId, workspaceId, core.ErrNoWorkspaceAccess)
	}
	return &model.WorkspaceContext{WorkspaceId: m.WorkspaceId, Role: m.Role}, nil
}

// SetHint 回写工作区提示, 写失败只记日志
func (s *ResolverService) SetHint(ctx context.Context, userId, workspaceId string) {
	if err := s.cache.Set(ctx, constant.WorkspaceHintKey+userId, workspaceId, hintTTL).Err(); err != nil {
		log.Warnw("failed to set workspace hint", "userId", userId, "error", err)
	}
}

// ClearHint 清理工作区提示
func (s *ResolverService) ClearHint(ctx context.Context, userId string) {
	if err := s.cache.Del(ctx, constant.WorkspaceHintKey+userId).Err(); err != nil {
		log.Warnw("failed to clear workspace hint", "userId", userId, "error", err)
	}
}
