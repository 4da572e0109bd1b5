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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/atelier-hq/atelier/internal/engine/authz"
	"github.com/atelier-hq/atelier/internal/engine/core"
	"github.com/atelier-hq/atelier/internal/engine/model"
)

func TestCreateInvitation_RolePermission(t *testing.T) {
	tests := []struct {
		name    string
		role    authz.Role
		wantErr error
	}{
		{"admin can invite", authz.RoleAdmin, nil},
		{"developer can invite", authz.RoleDeveloper, nil},
		{"designer cannot invite", authz.RoleDesigner, core.ErrForbidden},
		{"marketer cannot invite", authz.RoleMarketer, core.ErrForbidden},
		{"client cannot invite", authz.RoleClient, core.ErrForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			env.seedUser(t, "owner", "owner@example.com")
			env.seedUser(t, "caller", "caller@example.com")
			env.seedWorkspace(t, "ws1", "owner", map[string]authz.Role{"caller": tt.role})

			caller := &model.CurrentUser{UserId: "caller", Email: "caller@example.com"}
			_, err := env.invitation.CreateInvitation(context.Background(), caller, &model.CreateInvitationReq{
				WorkspaceId: "ws1",
				Email:       "newbie@example.com",
				Role:        "CLIENT",
			})
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestCreateInvitation_CannotGrantAboveOwnRank(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser(t, "owner", "owner@example.com")
	env.seedUser(t, "dev", "dev@example.com")
	env.seedWorkspace(t, "ws1", "owner", map[string]authz.Role{"dev": authz.RoleDeveloper})

	dev := &model.CurrentUser{UserId: "dev", Email: "dev@example.com"}
	_, err := env.invitation.CreateInvitation(context.Background(), dev, &model.CreateInvitationReq{
		WorkspaceId: "ws1",
		Email:       "boss@example.com",
		Role:        "ADMIN",
	})
	assert.ErrorIs(t, err, core.ErrForbidden)
}

func TestCreateInvitation_NonMember(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser(t, "owner", "owner@example.com")
	env.seedUser(t, "outsider", "outsider@example.com")
	env.seedWorkspace(t, "ws1", "owner", nil)

	outsider := &model.CurrentUser{UserId: "outsider", Email: "outsider@example.com"}
	_, err := env.invitation.CreateInvitation(context.Background(), outsider, &model.CreateInvitationReq{
		WorkspaceId: "ws1",
		Email:       "x@example.com",
		Role:        "CLIENT",
	})
	assert.ErrorIs(t, err, core.ErrNoWorkspaceAccess)
}

func TestCreateInvitation_Conflicts(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser(t, "owner", "owner@example.com")
	env.seedUser(t, "member", "member@example.com")
	env.seedWorkspace(t, "ws1", "owner", map[string]authz.Role{"member": authz.RoleClient})

	owner := &model.CurrentUser{UserId: "owner", Email: "owner@example.com"}

	// 已是有效成员
	_, err := env.invitation.CreateInvitation(context.Background(), owner, &model.CreateInvitationReq{
		WorkspaceId: "ws1", Email: "Member@Example.com", Role: "CLIENT",
	})
	assert.ErrorIs(t, err, core.ErrConflict)

	// 已有待接受邀请
	_, err = env.invitation.CreateInvitation(context.Background(), owner, &model.CreateInvitationReq{
		WorkspaceId: "ws1", Email: "new@example.com", Role: "CLIENT",
	})
	require.NoError(t, err)
	_, err = env.invitation.CreateInvitation(context.Background(), owner, &model.CreateInvitationReq{
		WorkspaceId: "ws1", Email: "new@example.com", Role: "DESIGNER",
	})
	assert.ErrorIs(t, err, core.ErrConflict)

	// 非法邮箱和角色
	_, err = env.invitation.CreateInvitation(context.Background(), owner, &model.CreateInvitationReq{
		WorkspaceId: "ws1", Email: "not-an-email", Role: "CLIENT",
	})
	assert.ErrorIs(t, err, core.ErrInvalid)
	_, err = env.invitation.CreateInvitation(context.Background(), owner, &model.CreateInvitationReq{
		WorkspaceId: "ws1", Email: "ok@example.com", Role: "SUPERUSER",
	})
	assert.ErrorIs(t, err, core.ErrInvalid)
}

func TestAcceptInvitation(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser(t, "owner", "owner@example.com")
	env.seedUser(t, "newbie", "newbie@example.com")
	env.seedWorkspace(t, "ws1", "owner", nil)

	owner := &model.CurrentUser{UserId: "owner", Email: "owner@example.com"}
	resp, err := env.invitation.CreateInvitation(context.Background(), owner, &model.CreateInvitationReq{
		WorkspaceId: "ws1", Email: "newbie@example.com", Role: "DESIGNER",
	})
	require.NoError(t, err)

	inv, err := env.invitationRepo.GetByInvitationId(resp.InvitationId)
	require.NoError(t, err)

	// 邮箱比较不区分大小写
	newbie := &model.CurrentUser{UserId: "newbie", Email: "Newbie@Example.COM"}
	wc, err := env.invitation.AcceptInvitation(context.Background(), newbie, &model.AcceptInvitationReq{Token: inv.Token})
	require.NoError(t, err)
	assert.Equal(t, "ws1", wc.WorkspaceId)
	assert.Equal(t, authz.RoleDesigner, wc.Role)

	// 成员已写入, 当前工作区已指向新工作区
	m, err := env.memberRepo.GetActiveMember("ws1", "newbie")
	require.NoError(t, err)
	assert.Equal(t, authz.RoleDesigner, m.Role)
	resolved, err := env.resolver.Resolve(context.Background(), "newbie")
	require.NoError(t, err)
	assert.Equal(t, "ws1", resolved.WorkspaceId)

	// 令牌一次性: 再接受一次只能得到 Conflict
	_, err = env.invitation.AcceptInvitation(context.Background(), newbie, &model.AcceptInvitationReq{Token: inv.Token})
	assert.ErrorIs(t, err, core.ErrConflict)
}

func TestAcceptInvitation_Failures(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser(t, "owner", "owner@example.com")
	env.seedUser(t, "other", "other@example.com")
	env.seedWorkspace(t, "ws1", "owner", nil)

	owner := &model.CurrentUser{UserId: "owner", Email: "owner@example.com"}
	resp, err := env.invitation.CreateInvitation(context.Background(), owner, &model.CreateInvitationReq{
		WorkspaceId: "ws1", Email: "invitee@example.com", Role: "CLIENT",
	})
	require.NoError(t, err)
	inv, err := env.invitationRepo.GetByInvitationId(resp.InvitationId)
	require.NoError(t, err)

	// 未知令牌
	other := &model.CurrentUser{UserId: "other", Email: "other@example.com"}
	_, err = env.invitation.AcceptInvitation(context.Background(), other, &model.AcceptInvitationReq{Token: "bogus"})
	assert.ErrorIs(t, err, core.ErrInvalid)

	// 邮箱不匹配
	_, err = env.invitation.AcceptInvitation(context.Background(), other, &model.AcceptInvitationReq{Token: inv.Token})
	assert.ErrorIs(t, err, core.ErrEmailMismatch)

	// 过期
	inv.ExpiresAt = time.Now().Add(-time.Hour)
	invitee := &model.CurrentUser{UserId: "invitee", Email: "invitee@example.com"}
	_, err = env.invitation.AcceptInvitation(context.Background(), invitee, &model.AcceptInvitationReq{Token: inv.Token})
	assert.ErrorIs(t, err, core.ErrExpired)
}

func TestCreateInvitation_AfterExpiry(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser(t, "owner", "owner@example.com")
	env.seedWorkspace(t, "ws1", "owner", nil)
	owner := &model.CurrentUser{UserId: "owner", Email: "owner@example.com"}

	resp, err := env.invitation.CreateInvitation(context.Background(), owner, &model.CreateInvitationReq{
		WorkspaceId: "ws1", Email: "late@example.com", Role: "DEVELOPER",
	})
	require.NoError(t, err)
	inv, err := env.invitationRepo.GetByInvitationId(resp.InvitationId)
	require.NoError(t, err)

	// 过了有效期再接受被拒
	inv.ExpiresAt = time.Now().AddDate(0, 0, -1)
	late := &model.CurrentUser{UserId: "late", Email: "late@example.com"}
	_, err = env.invitation.AcceptInvitation(context.Background(), late, &model.AcceptInvitationReq{Token: inv.Token})
	assert.ErrorIs(t, err, core.ErrExpired)

	// 过期邀请不算待接受, 同邮箱可以重新邀请
	again, err := env.invitation.CreateInvitation(context.Background(), owner, &model.CreateInvitationReq{
		WorkspaceId: "ws1", Email: "late@example.com", Role: "DEVELOPER",
	})
	require.NoError(t, err)
	assert.NotEqual(t, resp.InvitationId, again.InvitationId)
}

func TestAcceptInvitation_ReactivatesMember(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser(t, "owner", "owner@example.com")
	env.seedUser(t, "back", "back@example.com")
	env.seedWorkspace(t, "ws1", "owner", map[string]authz.Role{"back": authz.RoleDeveloper})

	// 停用后重新邀请
	require.NoError(t, env.memberRepo.SetMemberActive("ws1", "back", false))

	owner := &model.CurrentUser{UserId: "owner", Email: "owner@example.com"}
	resp, err := env.invitation.CreateInvitation(context.Background(), owner, &model.CreateInvitationReq{
		WorkspaceId: "ws1", Email: "back@example.com", Role: "MARKETER",
	})
	require.NoError(t, err)
	inv, err := env.invitationRepo.GetByInvitationId(resp.InvitationId)
	require.NoError(t, err)

	back := &model.CurrentUser{UserId: "back", Email: "back@example.com"}
	wc, err := env.invitation.AcceptInvitation(context.Background(), back, &model.AcceptInvitationReq{Token: inv.Token})
	require.NoError(t, err)
	assert.Equal(t, authz.RoleMarketer, wc.Role)

	m, err := env.memberRepo.GetActiveMember("ws1", "back")
	require.NoError(t, err)
	assert.True(t, m.IsActive)
	assert.Equal(t, authz.RoleMarketer, m.Role)
}

func TestRevokeAndResendInvitation(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser(t, "owner", "owner@example.com")
	env.seedWorkspace(t, "ws1", "owner", nil)
	owner := &model.CurrentUser{UserId: "owner", Email: "owner@example.com"}

	resp, err := env.invitation.CreateInvitation(context.Background(), owner, &model.CreateInvitationReq{
		WorkspaceId: "ws1", Email: "a@example.com", Role: "CLIENT",
	})
	require.NoError(t, err)
	before, err := env.invitationRepo.GetByInvitationId(resp.InvitationId)
	require.NoError(t, err)
	oldToken := before.Token

	// 重发轮换令牌并延长有效期
	_, err = env.invitation.ResendInvitation(context.Background(), owner, "ws1", resp.InvitationId)
	require.NoError(t, err)
	after, err := env.invitationRepo.GetByInvitationId(resp.InvitationId)
	require.NoError(t, err)
	assert.NotEqual(t, oldToken, after.Token)

	// 撤销
	require.NoError(t, env.invitation.RevokeInvitation(context.Background(), owner, "ws1", resp.InvitationId))
	err = env.invitation.RevokeInvitation(context.Background(), owner, "ws1", resp.InvitationId)
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestResendInvitation_AcceptedConcurrently(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser(t, "owner", "owner@example.com")
	env.seedWorkspace(t, "ws1", "owner", nil)
	owner := &model.CurrentUser{UserId: "owner", Email: "owner@example.com"}

	resp, err := env.invitation.CreateInvitation(context.Background(), owner, &model.CreateInvitationReq{
		WorkspaceId: "ws1", Email: "slow@example.com", Role: "CLIENT",
	})
	require.NoError(t, err)

	// 轮换落库时 0 行受影响: 邀请在检查后被接受, 应报冲突而不是假成功
	env.invitationRepo.(*fakeInvitationRepo).updateExpiryErr = gorm.ErrRecordNotFound
	_, err = env.invitation.ResendInvitation(context.Background(), owner, "ws1", resp.InvitationId)
	assert.ErrorIs(t, err, core.ErrConflict)
}

func TestRevokeInvitation_InviteeDeclines(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser(t, "owner", "owner@example.com")
	env.seedUser(t, "guest", "guest@example.com")
	env.seedWorkspace(t, "ws1", "owner", nil)
	owner := &model.CurrentUser{UserId: "owner", Email: "owner@example.com"}

	resp, err := env.invitation.CreateInvitation(context.Background(), owner, &model.CreateInvitationReq{
		WorkspaceId: "ws1", Email: "guest@example.com", Role: "CLIENT",
	})
	require.NoError(t, err)

	// 非受邀人且非成员不能撤销
	stranger := &model.CurrentUser{UserId: "other", Email: "other@example.com"}
	err = env.invitation.RevokeInvitation(context.Background(), stranger, "ws1", resp.InvitationId)
	assert.ErrorIs(t, err, core.ErrNoWorkspaceAccess)

	// 受邀人本人可以拒绝, 无需成员身份
	guest := &model.CurrentUser{UserId: "guest", Email: "Guest@Example.com"}
	require.NoError(t, env.invitation.RevokeInvitation(context.Background(), guest, "ws1", resp.InvitationId))
	_, err = env.invitationRepo.GetByInvitationId(resp.InvitationId)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRevokeInvitation_WrongWorkspace(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser(t, "owner", "owner@example.com")
	env.seedWorkspace(t, "ws1", "owner", nil)
	env.seedWorkspace(t, "ws2", "owner", nil)
	owner := &model.CurrentUser{UserId: "owner", Email: "owner@example.com"}

	resp, err := env.invitation.CreateInvitation(context.Background(), owner, &model.CreateInvitationReq{
		WorkspaceId: "ws1", Email: "a@example.com", Role: "CLIENT",
	})
	require.NoError(t, err)

	// 跨工作区引用一律按不存在处理
	err = env.invitation.RevokeInvitation(context.Background(), owner, "ws2", resp.InvitationId)
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestPurgeExpired(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser(t, "owner", "owner@example.com")
	env.seedWorkspace(t, "ws1", "owner", nil)
	owner := &model.CurrentUser{UserId: "owner", Email: "owner@example.com"}

	resp, err := env.invitation.CreateInvitation(context.Background(), owner, &model.CreateInvitationReq{
		WorkspaceId: "ws1", Email: "old@example.com", Role: "CLIENT",
	})
	require.NoError(t, err)
	inv, err := env.invitationRepo.GetByInvitationId(resp.InvitationId)
	require.NoError(t, err)
	inv.ExpiresAt = time.Now().AddDate(0, 0, -40)

	purged, err := env.invitation.PurgeExpired(time.Now().AddDate(0, 0, -30))
	require.NoError(t, err)
	assert.Equal(t, int64(1), purged)

	_, err = env.invitationRepo.GetByInvitationId(resp.InvitationId)
	assert.Error(t, err)
}
