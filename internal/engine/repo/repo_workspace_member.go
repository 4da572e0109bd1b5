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
	"github.com/atelier-hq/atelier/internal/engine/authz"
	"github.com/atelier-hq/atelier/internal/engine/model"
	"github.com/atelier-hq/atelier/pkg/database"
)

type IMemberRepository interface {
	AddMember(m *model.WorkspaceMember) error
	GetMember(workspaceId, userId string) (*model.WorkspaceMember, error)
	GetActiveMember(workspaceId, userId string) (*model.WorkspaceMember, error)
	ListMembers(workspaceId string) ([]model.WorkspaceMember, error)
	ListUserMemberships(userId string, activeOnly bool) ([]model.WorkspaceMember, error)
	CheckActiveMemberByEmail(workspaceId, email string) (bool, error)
	UpdateMemberRole(workspaceId, userId string, role authz.Role) error
	SetMemberActive(workspaceId, userId string, active bool) error
	RemoveMember(workspaceId, userId string) error
}

type MemberRepo struct {
	database.IDatabase
}

func NewMemberRepo(db database.IDatabase) IMemberRepository {
	return &MemberRepo{IDatabase: db}
}

// AddMember 添加工作区成员, (workspace_id, user_id) 唯一约束由数据库保证
func (r *MemberRepo) AddMember(m *model.WorkspaceMember) error {
	return r.Database().Create(m).Error
}

// GetMember 获取工作区成员
func (r *MemberRepo) GetMember(workspaceId, userId string) (*model.WorkspaceMember, error) {
	var m model.WorkspaceMember
	err := r.Database().
		Where("workspace_id = ? AND user_id = ?", workspaceId, userId).
		First(&m).Error
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// GetActiveMember 获取有效的工作区成员, 同时要求工作区本身有效
func (r *MemberRepo) GetActiveMember(workspaceId, userId string) (*model.WorkspaceMember, error) {
	var m model.WorkspaceMember
	err := r.Database().Table("t_workspace_member m").
		Select("m.id", "m.workspace_id", "m.user_id", "m.role", "m.is_active", "m.invited_by", "m.created_at", "m.updated_at").
		Joins("JOIN t_workspace w ON w.workspace_id = m.workspace_id").
		Where("m.workspace_id = ? AND m.user_id = ? AND m.is_active = ? AND w.is_active = ?",
			workspaceId, userId, true, true).
		First(&m).Error
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// ListMembers 列出工作区全部成员
func (r *MemberRepo) ListMembers(workspaceId string) ([]model.WorkspaceMember, error) {
	var members []model.WorkspaceMember
	err := r.Database().
		Where("workspace_id = ?", workspaceId).
		Order("created_at ASC").
		Find(&members).Error
	return members, err
}

// ListUserMemberships 列出用户的成员关系, 按创建时间升序(最早的在前, 保证解析稳定)
// activeOnly 为 true 时仅返回成员与工作区均有效的记录
func (r *MemberRepo) ListUserMemberships(userId string, activeOnly bool) ([]model.WorkspaceMember, error) {
	var members []model.WorkspaceMember
	db := r.Database().Table("t_workspace_member m").
		Select("m.id", "m.workspace_id", "m.user_id", "m.role", "m.is_active", "m.invited_by", "m.created_at", "m.updated_at").
		Joins("JOIN t_workspace w ON w.workspace_id = m.workspace_id").
		Where("m.user_id = ?", userId)
	if activeOnly {
		db = db.Where("m.is_active = ? AND w.is_active = ?", true, true)
	}
	err := db.Order("m.created_at ASC").Find(&members).Error
	return members, err
}

// CheckActiveMemberByEmail 检查邮箱对应的用户是否已是工作区有效成员
func (r *MemberRepo) CheckActiveMemberByEmail(workspaceId, email string) (bool, error) {
	var count int64
	err := r.Database().Table("t_workspace_member m").
		Joins("JOIN t_user u ON u.user_id = m.user_id").
		Where("m.workspace_id = ? AND m.is_active = ? AND u.email = ?", workspaceId, true, email).
		Count(&count).Error
	return count > 0, err
}

// UpdateMemberRole 更新成员角色
func (r *MemberRepo) UpdateMemberRole(workspaceId, userId string, role authz.Role) error {
	return r.Database().Model(&model.WorkspaceMember{}).
		Where("workspace_id = ? AND user_id = ?", workspaceId, userId).
		Update("role", role).Error
}

// SetMemberActive 启用/停用成员
func (r *MemberRepo) SetMemberActive(workspaceId, userId string, active bool) error {
	return r.Database().Model(&model.WorkspaceMember{}).
		Where("workspace_id = ? AND user_id = ?", workspaceId, userId).
		Update("is_active", active).Error
}

// RemoveMember 移除工作区成员
func (r *MemberRepo) RemoveMember(workspaceId, userId string) error {
	return r.Database().
		Where("workspace_id = ? AND user_id = ?", workspaceId, userId).
		Delete(&model.WorkspaceMember{}).Error
}
