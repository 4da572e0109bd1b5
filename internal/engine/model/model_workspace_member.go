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

package model

import "github.com/atelier-hq/atelier/internal/engine/authz"

// WorkspaceMember 工作区成员表
// (workspace_id, user_id) 唯一约束由存储层保证, 应用层检查只是快路径
type WorkspaceMember struct {
	BaseModel
	WorkspaceId string     `gorm:"column:workspace_id;uniqueIndex:uk_workspace_user" json:"workspaceId"` // 工作区ID
	UserId      string     `gorm:"column:user_id;uniqueIndex:uk_workspace_user;index" json:"userId"`     // 用户ID
	Role        authz.Role `gorm:"column:role" json:"role"`                                              // 角色
	IsActive    bool       `gorm:"column:is_active;default:true" json:"isActive"`                        // 是否有效
	InvitedBy   string     `gorm:"column:invited_by" json:"invitedBy"`                                   // 邀请人用户ID, 直接创建时为空
}

func (WorkspaceMember) TableName() string {
	return "t_workspace_member"
}

type UpdateMemberRoleReq struct {
	Role string `json:"role"`
}

type MemberResp struct {
	WorkspaceId string     `json:"workspaceId"`
	UserId      string     `json:"userId"`
	Role        authz.Role `json:"role"`
	IsActive    bool       `json:"isActive"`
}

func ToMemberResp(m *WorkspaceMember) *MemberResp {
	return &MemberResp{
		WorkspaceId: m.WorkspaceId,
		UserId:      m.UserId,
		Role:        m.Role,
		IsActive:    m.IsActive,
	}
}
