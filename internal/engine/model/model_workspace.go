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

// Workspace 工作区表, 租户边界
type Workspace struct {
	BaseModel
	WorkspaceId string `gorm:"column:workspace_id;uniqueIndex" json:"workspaceId"` // 工作区唯一标识
	Name        string `gorm:"column:name" json:"name"`                            // 工作区名称
	Slug        string `gorm:"column:slug;uniqueIndex" json:"slug"`                // 可读短标识, 全局唯一
	OwnerUserId string `gorm:"column:owner_user_id" json:"ownerUserId"`            // 所有者用户ID, 仅显式转移可变更
	IsActive    bool   `gorm:"column:is_active;default:true" json:"isActive"`      // 是否有效
}

func (Workspace) TableName() string {
	return "t_workspace"
}

type CreateWorkspaceReq struct {
	Name string `json:"name"`
}

type WorkspaceResp struct {
	WorkspaceId string `json:"workspaceId"`
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	OwnerUserId string `json:"ownerUserId"`
	IsActive    bool   `json:"isActive"`
}

func ToWorkspaceResp(w *Workspace) *WorkspaceResp {
	return &WorkspaceResp{
		WorkspaceId: w.WorkspaceId,
		Name:        w.Name,
		Slug:        w.Slug,
		OwnerUserId: w.OwnerUserId,
		IsActive:    w.IsActive,
	}
}

// WorkspaceContext 请求解析出的工作区上下文: 工作区 + 调用者在其中的有效角色
type WorkspaceContext struct {
	WorkspaceId string     `json:"workspaceId"`
	Role        authz.Role `json:"role"`
}
