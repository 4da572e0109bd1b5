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
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/atelier-hq/atelier/internal/engine/model"
	"github.com/atelier-hq/atelier/pkg/database"
)

type IInvitationRepository interface {
	CreateInvitation(inv *model.WorkspaceInvitation) error
	GetByInvitationId(invitationId string) (*model.WorkspaceInvitation, error)
	GetByToken(token string) (*model.WorkspaceInvitation, error)
	GetPendingByEmail(workspaceId, email string, now time.Time) (*model.WorkspaceInvitation, error)
	ListByWorkspace(workspaceId string) ([]model.WorkspaceInvitation, error)
	AcceptInvitation(invitationId string, member *model.WorkspaceMember, now time.Time) error
	UpdateExpiry(invitationId, token string, expiresAt time.Time) error
	DeleteInvitation(invitationId string) error
	PurgeExpiredBefore(cutoff time.Time) (int64, error)
}

type InvitationRepo struct {
	database.IDatabase
}

func NewInvitationRepo(db database.IDatabase) IInvitationRepository {
	return &InvitationRepo{IDatabase: db}
}

// CreateInvitation 创建邀请, token 唯一约束由数据库保证
func (r *InvitationRepo) CreateInvitation(inv *model.WorkspaceInvitation) error {
	return r.Database().Create(inv).Error
}

// GetByInvitationId 按邀请 ID 查询
func (r *InvitationRepo) GetByInvitationId(invitationId string) (*model.WorkspaceInvitation, error) {
	var inv model.WorkspaceInvitation
	err := r.Database().Where("invitation_id = ?", invitationId).First(&inv).Error
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

// GetByToken 按令牌查询, 令牌仅在接受链路中出现
func (r *InvitationRepo) GetByToken(token string) (*model.WorkspaceInvitation, error) {
	var inv model.WorkspaceInvitation
	err := r.Database().Where("token = ?", token).First(&inv).Error
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

// GetPendingByEmail 查询工作区内该邮箱的待接受邀请(未接受且未过期)
func (r *InvitationRepo) GetPendingByEmail(workspaceId, email string, now time.Time) (*model.WorkspaceInvitation, error) {
	var inv model.WorkspaceInvitation
	err := r.Database().
		Where("workspace_id = ? AND email = ? AND accepted_at IS NULL AND expires_at > ?",
			workspaceId, email, now).
		First(&inv).Error
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

// ListByWorkspace 列出工作区全部邀请, 状态由读取方按当前时间计算
func (r *InvitationRepo) ListByWorkspace(workspaceId string) ([]model.WorkspaceInvitation, error) {
	var invs []model.WorkspaceInvitation
	err := r.Database().
		Where("workspace_id = ?", workspaceId).
		Order("created_at DESC").
		Find(&invs).Error
	return invs, err
}

// AcceptInvitation 在单个事务中标记邀请已接受并写入成员关系
// 只有 accepted_at 仍为空的邀请才会被标记, 并发重复接受只有一个能成功
func (r *InvitationRepo) AcceptInvitation(invitationId string, member *model.WorkspaceMember, now time.Time) error {
	return r.Database().Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.WorkspaceInvitation{}).
			Where("invitation_id = ? AND accepted_at IS NULL AND expires_at > ?", invitationId, now).
			Update("accepted_at", now)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		var existing model.WorkspaceMember
		err := tx.Where("workspace_id = ? AND user_id = ?", member.WorkspaceId, member.UserId).
			First(&existing).Error
		if err == nil {
			// 曾被停用的成员通过新邀请回归, 恢复有效并采用新角色
			return tx.Model(&model.WorkspaceMember{}).
				Where("workspace_id = ? AND user_id = ?", member.WorkspaceId, member.UserId).
				Updates(map[string]interface{}{
					"is_active":  true,
					"role":       member.Role,
					"invited_by": member.InvitedBy,
				}).Error
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		return tx.Create(member).Error
	})
}

// UpdateExpiry 重发邀请时轮换令牌并延长有效期
func (r *InvitationRepo) UpdateExpiry(invitationId, token string, expiresAt time.Time) error {
	res := r.Database().Model(&model.WorkspaceInvitation{}).
		Where("invitation_id = ? AND accepted_at IS NULL", invitationId).
		Updates(map[string]interface{}{
			"token":      token,
			"expires_at": expiresAt,
		})
	if res.Error != nil {
		return res.Error
	}
	// 0 行受影响说明邀请在检查后已被接受
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DeleteInvitation 撤销邀请
func (r *InvitationRepo) DeleteInvitation(invitationId string) error {
	return r.Database().
		Where("invitation_id = ?", invitationId).
		Delete(&model.WorkspaceInvitation{}).Error
}

// PurgeExpiredBefore 清理早于 cutoff 过期且从未被接受的邀请, 返回删除条数
func (r *InvitationRepo) PurgeExpiredBefore(cutoff time.Time) (int64, error) {
	res := r.Database().
		Where("accepted_at IS NULL AND expires_at < ?", cutoff).
		Delete(&model.WorkspaceInvitation{})
	return res.RowsAffected, res.Error
}
