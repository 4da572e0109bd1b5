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
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type IWorkspaceRepository interface {
	CreateWorkspaceWithOwner(w *model.Workspace, owner *model.WorkspaceMember) error
	GetWorkspaceById(workspaceId string) (*model.Workspace, error)
	GetWorkspaceBySlug(slug string) (*model.Workspace, error)
	ListWorkspacesByUserId(userId string) ([]*model.Workspace, error)
	CheckSlugExists(slug string) (bool, error)
	DeleteWorkspaceCascade(workspaceId string) error
}

type WorkspaceRepo struct {
	database.IDatabase
}

func NewWorkspaceRepo(db database.IDatabase) IWorkspaceRepository {
	return &WorkspaceRepo{IDatabase: db}
}

// CreateWorkspaceWithOwner 创建工作区并写入所有者成员, 同一事务
func (r *WorkspaceRepo) CreateWorkspaceWithOwner(w *model.Workspace, owner *model.WorkspaceMember) error {
	return r.Database().Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(w).Error; err != nil {
			return err
		}
		return tx.Create(owner).Error
	})
}

// GetWorkspaceById 根据工作区ID获取工作区
func (r *WorkspaceRepo) GetWorkspaceById(workspaceId string) (*model.Workspace, error) {
	var w model.Workspace
	err := r.Database().Where("workspace_id = ?", workspaceId).First(&w).Error
	if err != nil {
		return nil, err
	}
	return &w, nil
}

// GetWorkspaceBySlug 根据 slug 获取工作区
func (r *WorkspaceRepo) GetWorkspaceBySlug(slug string) (*model.Workspace, error) {
	var w model.Workspace
	err := r.Database().Where("slug = ?", slug).First(&w).Error
	if err != nil {
		return nil, err
	}
	return &w, nil
}

// ListWorkspacesByUserId 获取用户有有效成员关系的所有工作区, 按成员创建时间升序
func (r *WorkspaceRepo) ListWorkspacesByUserId(userId string) ([]*model.Workspace, error) {
	var workspaces []*model.Workspace
	err := r.Database().Table("t_workspace w").
		Select("w.id", "w.workspace_id", "w.name", "w.slug", "w.owner_user_id", "w.is_active", "w.created_at", "w.updated_at").
		Joins("JOIN t_workspace_member m ON w.workspace_id = m.workspace_id").
		Where("m.user_id = ? AND m.is_active = ? AND w.is_active = ?", userId, true, true).
		Order("m.created_at ASC").
		Find(&workspaces).Error
	return workspaces, err
}

// CheckSlugExists 检查 slug 是否已被占用
func (r *WorkspaceRepo) CheckSlugExists(slug string) (bool, error) {
	var count int64
	err := r.Database().Model(&model.Workspace{}).
		Where("slug = ?", slug).
		Count(&count).Error
	return count > 0, err
}

// DeleteWorkspaceCascade 删除工作区并级联删除成员和邀请, 同一事务
// 事务内先锁定工作区行, 与并发的成员/邀请写入串行化, 避免删除过程中复活数据
func (r *WorkspaceRepo) DeleteWorkspaceCascade(workspaceId string) error {
	return r.Database().Transaction(func(tx *gorm.DB) error {
		var w model.Workspace
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("workspace_id = ?", workspaceId).First(&w).Error; err != nil {
			return err
		}
		if err := tx.Where("workspace_id = ?", workspaceId).
			Delete(&model.WorkspaceMember{}).Error; err != nil {
			return err
		}
		if err := tx.Where("workspace_id = ?", workspaceId).
			Delete(&model.WorkspaceInvitation{}).Error; err != nil {
			return err
		}
		return tx.Where("workspace_id = ?", workspaceId).
			Delete(&model.Workspace{}).Error
	})
}
