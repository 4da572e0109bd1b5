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

	"gorm.io/datatypes"
)

// AuditLog 审计日志表, 只追加, 创建后不更新不删除
// actor 字段是操作时刻的快照, 不是活引用
type AuditLog struct {
	ID          uint64         `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	LogId       string         `gorm:"column:log_id;uniqueIndex" json:"logId"`
	WorkspaceId string         `gorm:"column:workspace_id;index" json:"workspaceId,omitempty"` // 为空表示与工作区无关(如登录)
	ActorUserId string         `gorm:"column:actor_user_id" json:"actorUserId,omitempty"`
	ActorEmail  string         `gorm:"column:actor_email" json:"actorEmail,omitempty"`
	ActorRole   string         `gorm:"column:actor_role" json:"actorRole,omitempty"` // 操作时刻的角色快照
	Action      string         `gorm:"column:action" json:"action"`
	EntityType  string         `gorm:"column:entity_type" json:"entityType"`
	EntityId    string         `gorm:"column:entity_id;index" json:"entityId"`
	Description string         `gorm:"column:description" json:"description"`
	Metadata    datatypes.JSON `gorm:"column:metadata;type:json" json:"metadata,omitempty"`
	Ip          string         `gorm:"column:ip" json:"ip,omitempty"`
	UserAgent   string         `gorm:"column:user_agent" json:"userAgent,omitempty"`
	CreatedAt   time.Time      `gorm:"column:created_at;autoCreateTime" json:"createdAt"` // 服务端时间
}

func (AuditLog) TableName() string {
	return "t_audit_log"
}

// 审计动作
const (
	AuditActionLogin            = "user.login"
	AuditActionWorkspaceCreate  = "workspace.create"
	AuditActionWorkspaceDelete  = "workspace.delete"
	AuditActionWorkspaceSwitch  = "workspace.switch"
	AuditActionInvitationCreate = "invitation.create"
	AuditActionInvitationAccept = "invitation.accept"
	AuditActionInvitationRevoke = "invitation.revoke"
	AuditActionInvitationResend = "invitation.resend"
	AuditActionMemberAdd        = "member.add"
	AuditActionMemberUpdateRole = "member.update_role"
	AuditActionMemberDeactivate = "member.deactivate"
	AuditActionMemberRemove     = "member.remove"
	AuditActionMemberLeave      = "member.leave"
)

// 审计实体类型
const (
	AuditEntityWorkspace  = "workspace"
	AuditEntityMember     = "member"
	AuditEntityInvitation = "invitation"
	AuditEntityUser       = "user"
)

type AuditLogQueryReq struct {
	WorkspaceId string `query:"workspaceId"`
	EntityType  string `query:"entityType"`
	EntityId    string `query:"entityId"`
	Action      string `query:"action"`
	ActorUserId string `query:"actorUserId"`
	Page        int    `query:"page"`
	PageSize    int    `query:"pageSize"`
}
