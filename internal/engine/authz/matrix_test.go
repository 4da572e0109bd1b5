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

import "testing"

func TestAllowed(t *testing.T) {
	tests := []struct {
		name     string
		role     Role
		resource ResourceKind
		action   string
		want     bool
	}{
		{"admin manage roles", RoleAdmin, ResourceUsers, ActionManageRoles, true},
		{"admin delete workspace", RoleAdmin, ResourceWorkspaces, ActionDelete, true},
		{"admin view audit", RoleAdmin, ResourceAudit, ActionView, true},
		{"developer invite", RoleDeveloper, ResourceUsers, ActionInvite, true},
		{"developer manage roles denied", RoleDeveloper, ResourceUsers, ActionManageRoles, false},
		{"developer delete project denied", RoleDeveloper, ResourceProjects, ActionDelete, false},
		{"designer delete file", RoleDesigner, ResourceFiles, ActionDelete, true},
		{"designer view invoices denied", RoleDesigner, ResourceInvoices, ActionView, false},
		{"marketer view invoices", RoleMarketer, ResourceInvoices, ActionView, true},
		{"marketer delete file denied", RoleMarketer, ResourceFiles, ActionDelete, false},
		{"marketer manage roles denied", RoleMarketer, ResourceUsers, ActionManageRoles, false},
		{"client send chat", RoleClient, ResourceChat, ActionSend, true},
		{"client upload file denied", RoleClient, ResourceFiles, ActionUpload, false},
		{"client view tasks denied", RoleClient, ResourceTasks, ActionView, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Allowed(tt.role, tt.resource, tt.action); got != tt.want {
				t.Errorf("Allowed(%s, %s, %s) = %v, want %v", tt.role, tt.resource, tt.action, got, tt.want)
			}
		})
	}
}

// 默认拒绝: 表中不存在的任意组合一律 false
func TestAllowed_DefaultDeny(t *testing.T) {
	tests := []struct {
		role     Role
		resource ResourceKind
		action   string
	}{
		{Role("OWNER"), ResourceProjects, ActionView},
		{RoleAdmin, ResourceKind("pipelines"), ActionView},
		{RoleAdmin, ResourceProjects, "approve"},
		{Role(""), ResourceKind(""), ""},
		{RoleClient, ResourceUsers, ActionInvite},
	}

	for _, tt := range tests {
		if Allowed(tt.role, tt.resource, tt.action) {
			t.Errorf("Allowed(%q, %q, %q) = true, want false", tt.role, tt.resource, tt.action)
		}
	}
}

// DESIGNER 与 MARKETER 序数相同, 但权限表授权不同
func TestDesignerMarketerDivergence(t *testing.T) {
	if RoleDesigner.Rank() != RoleMarketer.Rank() {
		t.Fatal("designer and marketer must share the same rank")
	}
	if !Allowed(RoleDesigner, ResourceFiles, ActionDelete) {
		t.Error("designer should be able to delete files")
	}
	if Allowed(RoleMarketer, ResourceFiles, ActionDelete) {
		t.Error("marketer should not be able to delete files")
	}
	if !Allowed(RoleMarketer, ResourceInvoices, ActionView) {
		t.Error("marketer should be able to view invoices")
	}
	if Allowed(RoleDesigner, ResourceInvoices, ActionView) {
		t.Error("designer should not be able to view invoices")
	}
}
