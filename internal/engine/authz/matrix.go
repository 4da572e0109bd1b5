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

package authz

// ResourceKind 资源类型
type ResourceKind string

const (
	ResourceWorkspaces ResourceKind = "workspaces"
	ResourceProjects   ResourceKind = "projects"
	ResourceInvoices   ResourceKind = "invoices"
	ResourceTasks      ResourceKind = "tasks"
	ResourceChat       ResourceKind = "chat"
	ResourceFiles      ResourceKind = "files"
	ResourceUsers      ResourceKind = "users"
	ResourceAudit      ResourceKind = "audit"
)

// 权限点
const (
	ActionView        = "view"
	ActionCreate      = "create"
	ActionUpdate      = "update"
	ActionDelete      = "delete"
	ActionSend        = "send"
	ActionUpload      = "upload"
	ActionInvite      = "invite"
	ActionManageRoles = "manage_roles"
	ActionRemove      = "remove"
)

type actionSet map[string]struct{}

func actions(names ...string) actionSet {
	s := make(actionSet, len(names))
	for _, n := range names {
		s[n] = struct{}{}
	}
	return s
}

// permissionMatrix 静态权限表: 角色 -> 资源 -> 允许的动作集合
// 默认拒绝: 表中不存在即 false。进程级常量, 只读, 并发安全。
// 注意 DESIGNER 与 MARKETER 序数相同但授权不同(文件删除 vs 账单查看)。
var permissionMatrix = map[Role]map[ResourceKind]actionSet{
	RoleAdmin: {
		ResourceWorkspaces: actions(ActionView, ActionUpdate, ActionDelete),
		ResourceProjects:   actions(ActionView, ActionCreate, ActionUpdate, ActionDelete),
		ResourceInvoices:   actions(ActionView, ActionCreate, ActionUpdate, ActionDelete, ActionSend),
		ResourceTasks:      actions(ActionView, ActionCreate, ActionUpdate, ActionDelete),
		ResourceChat:       actions(ActionView, ActionSend),
		ResourceFiles:      actions(ActionView, ActionUpload, ActionDelete),
		ResourceUsers:      actions(ActionView, ActionInvite, ActionManageRoles, ActionRemove),
		ResourceAudit:      actions(ActionView),
	},
	RoleDeveloper: {
		ResourceWorkspaces: actions(ActionView),
		ResourceProjects:   actions(ActionView, ActionCreate, ActionUpdate),
		ResourceTasks:      actions(ActionView, ActionCreate, ActionUpdate, ActionDelete),
		ResourceChat:       actions(ActionView, ActionSend),
		ResourceFiles:      actions(ActionView, ActionUpload),
		ResourceUsers:      actions(ActionView, ActionInvite),
	},
	RoleDesigner: {
		ResourceWorkspaces: actions(ActionView),
		ResourceProjects:   actions(ActionView, ActionUpdate),
		ResourceTasks:      actions(ActionView, ActionCreate, ActionUpdate),
		ResourceChat:       actions(ActionView, ActionSend),
		ResourceFiles:      actions(ActionView, ActionUpload, ActionDelete),
		ResourceUsers:      actions(ActionView),
	},
	RoleMarketer: {
		ResourceWorkspaces: actions(ActionView),
		ResourceProjects:   actions(ActionView),
		ResourceInvoices:   actions(ActionView),
		ResourceTasks:      actions(ActionView, ActionCreate, ActionUpdate),
		ResourceChat:       actions(ActionView, ActionSend),
		ResourceFiles:      actions(ActionView, ActionUpload),
		ResourceUsers:      actions(ActionView),
	},
	RoleClient: {
		ResourceWorkspaces: actions(ActionView),
		ResourceProjects:   actions(ActionView),
		ResourceInvoices:   actions(ActionView),
		ResourceChat:       actions(ActionView, ActionSend),
		ResourceFiles:      actions(ActionView),
	},
}

// Allowed 查询权限表: role 是否允许对 resource 执行 action
// 无副作用, 无错误返回, 缺失一律视为拒绝
func Allowed(role Role, resource ResourceKind, action string) bool {
	resources, ok := permissionMatrix[role]
	if !ok {
		return false
	}
	acts, ok := resources[resource]
	if !ok {
		return false
	}
	_, ok = acts[action]
	return ok
}
