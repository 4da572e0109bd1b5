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

package repo

import (
	"github.com/atelier-hq/atelier/internal/engine/model"
	"github.com/atelier-hq/atelier/pkg/database"
)

type IAuditLogRepository interface {
	Append(entry *model.AuditLog) error
	ListByWorkspace(workspaceId string, req *model.AuditLogQueryReq) ([]model.AuditLog, int64, error)
}

type AuditLogRepo struct {
	database.IDatabase
}

func NewAuditLogRepo(db database.IDatabase) IAuditLogRepository {
	return &AuditLogRepo{IDatabase: db}
}

// Append 追加审计记录, 只写不改
func (r *AuditLogRepo) Append(entry *model.AuditLog) error {
	return r.Database().Create(entry).Error
}

// ListByWorkspace 按工作区分页查询审计记录, 时间倒序
func (r *AuditLogRepo) ListByWorkspace(workspaceId string, req *model.AuditLogQueryReq) ([]model.AuditLog, int64, error) {
	db := r.Database().Model(&model.AuditLog{}).Where("workspace_id = ?", workspaceId)
	if req.Action != "" {
		db = db.Where("action = ?", req.Action)
	}
	if req.EntityType != "" {
		db = db.Where("entity_type = ?", req.EntityType)
	}
	if req.EntityId != "" {
		db = db.Where("entity_id = ?", req.EntityId)
	}
	if req.ActorUserId != "" {
		db = db.Where("actor_user_id = ?", req.ActorUserId)
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page := req.Page
	if page < 1 {
		page = 1
	}
	size := req.PageSize
	if size < 1 || size > 200 {
		size = 20
	}

	var logs []model.AuditLog
	err := db.Order("created_at DESC").
		Offset((page - 1) * size).
		Limit(size).
		Find(&logs).Error
	return logs, total, err
}
