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

import (
	"time"

	"github.com/atelier-hq/atelier/internal/engine/authz"
)

// WorkspaceInvitation 工作区邀请表
// 状态不落库: 过期与否在读取时按 expires_at 计算, 不要持久化 PENDING/EXPIRED
type WorkspaceInvitation struct {
	BaseModel
	InvitationId string     `gorm:"column:invitation_id;uniqueIndex" json:"invitationId"` // 邀请唯一标识
	WorkspaceId  string     `gorm:"column:workspace_id;index" json:"workspaceId"`         // 工作区ID
	Email        string     `gorm:"column:email;index" json:"email"`                      // 被邀请人邮箱(小写)
	Role         authz.Role `gorm:"column:role" json:"role"`                              // 受邀角色
	Token        string     `gorm:"column:token;uniqueIndex" json:"-"`                    // 邀请令牌, 全局唯一, 一次性
	InvitedBy    string     `gorm:"column:invited_by" json:"invitedBy"`                   // 邀请人用户ID
	ExpiresAt    time.Time  `gorm:"column:expires_at" json:"expiresAt"`                   // 过期时间
	AcceptedAt   *time.Time `gorm:"column:accepted_at" json:"acceptedAt"`                 // 接受时间, 未接受为 NULL
}

func (WorkspaceInvitation) TableName() string {
	return "t_workspace_invitation"
}

// Pending 邀请是否仍待接受(未接受且未过期), 读取时计算
func (i *WorkspaceInvitation) Pending(now time.Time) bool {
	return i.AcceptedAt == nil && now.Before(i.ExpiresAt)
}

// Expired 邀请是否已过期(未接受且已过 expires_at), 读取时计算
func (i *WorkspaceInvitation) Expired(now time.Time) bool {
	return i.AcceptedAt == nil && !now.Before(i.ExpiresAt)
}

type CreateInvitationReq struct {
	WorkspaceId string `json:"workspaceId"`
	Email       string `json:"email"`
	Role        string `json:"role"`
}

// AcceptInvitationReq 接受人邮箱取自登录态, 请求只带令牌
type AcceptInvitationReq struct {
	Token string `json:"token"`
}

type InvitationResp struct {
	InvitationId string     `json:"invitationId"`
	WorkspaceId  string     `json:"workspaceId"`
	Email        string     `json:"email"`
	Role         authz.Role `json:"role"`
	InvitedBy    string     `json:"invitedBy"`
	ExpiresAt    time.Time  `json:"expiresAt"`
	AcceptedAt   *time.Time `json:"acceptedAt,omitempty"`
}

func ToInvitationResp(i *WorkspaceInvitation) *InvitationResp {
	return &InvitationResp{
		InvitationId: i.InvitationId,
		WorkspaceId:  i.WorkspaceId,
		Email:        i.Email,
		Role:         i.Role,
		InvitedBy:    i.InvitedBy,
		ExpiresAt:    i.ExpiresAt,
		AcceptedAt:   i.AcceptedAt,
	}
}
