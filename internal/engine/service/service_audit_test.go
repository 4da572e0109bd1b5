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

package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atelier-hq/atelier/internal/engine/authz"
	"github.com/atelier-hq/atelier/internal/engine/core"
	"github.com/atelier-hq/atelier/internal/engine/model"
)

func TestAuditRecordAndList(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser(t, "owner", "owner@example.com")
	env.seedWorkspace(t, "ws1", "owner", nil)

	owner := &model.CurrentUser{UserId: "owner", Email: "owner@example.com"}
	_, err := env.invitation.CreateInvitation(context.Background(), owner, &model.CreateInvitationReq{
		WorkspaceId: "ws1", Email: "a@example.com", Role: "CLIENT",
	})
	require.NoError(t, err)

	// 缓冲事件落库后再查
	env.audit.Close()

	logs, total, err := env.audit.List(authz.RoleAdmin, &model.AuditLogQueryReq{
		WorkspaceId: "ws1",
		Action:      model.AuditActionInvitationCreate,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, logs, 1)
	assert.Equal(t, "owner", logs[0].ActorUserId)
	assert.Equal(t, model.AuditEntityInvitation, logs[0].EntityType)
	assert.NotEmpty(t, logs[0].LogId)
}

func TestAuditList_Permission(t *testing.T) {
	env := newTestEnv(t)

	// audit.view 只开给 ADMIN
	for _, role := range []authz.Role{authz.RoleDeveloper, authz.RoleDesigner, authz.RoleMarketer, authz.RoleClient} {
		_, _, err := env.audit.List(role, &model.AuditLogQueryReq{WorkspaceId: "ws1"})
		assert.ErrorIs(t, err, core.ErrForbidden, "role %s", role)
	}

	_, _, err := env.audit.List(authz.RoleAdmin, &model.AuditLogQueryReq{WorkspaceId: "ws1"})
	assert.NoError(t, err)
}

func TestAuditRecord_BestEffort(t *testing.T) {
	env := newTestEnv(t)

	// 大量写入不阻塞调用方, 即使超出缓冲也只是丢弃
	for i := 0; i < 5000; i++ {
		env.audit.Record(&model.AuditLog{
			WorkspaceId: "ws1",
			Action:      model.AuditActionWorkspaceSwitch,
			EntityType:  model.AuditEntityWorkspace,
			EntityId:    "ws1",
		})
	}
	env.audit.Close()

	_, total, err := env.audit.List(authz.RoleAdmin, &model.AuditLogQueryReq{WorkspaceId: "ws1"})
	require.NoError(t, err)
	assert.Greater(t, total, int64(0))
}

func TestAuditRecord_AppendFailureNotSurfaced(t *testing.T) {
	auditRepo := &fakeAuditRepo{s: &fakeStore{}, appendErr: errors.New("db down")}
	audit := NewAuditService(auditRepo)

	// 落库失败只记日志, 调用方不感知
	audit.Record(&model.AuditLog{
		WorkspaceId: "ws1",
		Action:      model.AuditActionWorkspaceSwitch,
		EntityType:  model.AuditEntityWorkspace,
		EntityId:    "ws1",
	})
	audit.Close()

	_, total, err := audit.List(authz.RoleAdmin, &model.AuditLogQueryReq{WorkspaceId: "ws1"})
	require.NoError(t, err)
	assert.Equal(t, int64(0), total)
}
