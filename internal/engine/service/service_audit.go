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
	"fmt"
	"sync"

	"github.com/atelier-hq/atelier/internal/engine/authz"
	"github.com/atelier-hq/atelier/internal/engine/core"
	"github.com/atelier-hq/atelier/internal/engine/model"
	"github.com/atelier-hq/atelier/internal/engine/repo"
	"github.com/atelier-hq/atelier/pkg/id"
	"github.com/atelier-hq/atelier/pkg/log"
)

// AuditService 审计日志服务
// 写入走缓冲通道异步落库, 尽力而为: 通道满或落库失败只记日志, 不阻断业务
type AuditService struct {
	auditRepo repo.IAuditLogRepository

	entries chan *model.AuditLog
	wg      sync.WaitGroup
	once    sync.Once
	done    chan struct{}
}

func NewAuditService(auditRepo repo.IAuditLogRepository) *AuditService {
	s := &AuditService{
		auditRepo: auditRepo,
		entries:   make(chan *model.AuditLog, 1024),
		done:      make(chan struct{}),
	}
	s.wg.Add(1)
	go s.drain()
	return s
}

func (s *AuditService) drain() {
	defer s.wg.Done()
	for entry := range s.entries {
		if err := s.auditRepo.Append(entry); err != nil {
			log.Errorw("failed to append audit log",
				"action", entry.Action, "entityId", entry.EntityId, "error", err)
		}
	}
}

// Record 记录审计事件, 非阻塞
func (s *AuditService) Record(entry *model.AuditLog) {
	if entry.LogId == "" {
		entry.LogId = id.GetUUIDWithoutDashes()
	}
	select {
	case s.entries <- entry:
	default:
		log.Warnw("audit buffer full, entry dropped", "action", entry.Action, "entityId", entry.EntityId)
	}
}

// Close 停止接收并等待缓冲内的事件全部落库
func (s *AuditService) Close() {
	s.once.Do(func() {
		close(s.entries)
		close(s.done)
	})
	s.wg.Wait()
}

// List 查询工作区审计日志, 仅限工作区内有 audit.view 权限的角色
func (s *AuditService) List(callerRole authz.Role, req *model.AuditLogQueryReq) ([]model.AuditLog, int64, error) {
	if !authz.Allowed(callerRole, authz.ResourceAudit, authz.ActionView) {
		return nil, 0, fmt.Errorf("role %s cannot view audit log: %w", callerRole, core.ErrForbidden)
	}
	if req.WorkspaceId == "" {
		return nil, 0, fmt.Errorf("workspace id is required: %w", core.ErrInvalid)
	}

	logs, total, err := s.auditRepo.ListByWorkspace(req.WorkspaceId, req)
	if err != nil {
		log.Errorw("failed to list audit logs", "workspaceId", req.WorkspaceId, "error", err)
		return nil, 0, err
	}
	return logs, total, nil
}
