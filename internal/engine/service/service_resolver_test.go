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

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atelier-hq/atelier/internal/engine/authz"
	"github.com/atelier-hq/atelier/internal/engine/constant"
	"github.com/atelier-hq/atelier/internal/engine/core"
)

func TestResolve_NoWorkspace(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.resolver.Resolve(context.Background(), "nobody")
	assert.ErrorIs(t, err, core.ErrNoWorkspaceAccess)
}

func TestResolve_OldestMembershipWins(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser(t, "u1", "u1@example.com")
	env.seedWorkspace(t, "ws-first", "u1", nil)
	env.seedWorkspace(t, "ws-owner2", "other", nil)
	require.NoError(t, env.memberRepo.AddMember(newMember("ws-owner2", "u1", authz.RoleClient)))

	wc, err := env.resolver.Resolve(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, "ws-first", wc.WorkspaceId)
	assert.Equal(t, authz.RoleAdmin, wc.Role)
}

func TestResolve_HintFastPath(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser(t, "u1", "u1@example.com")
	env.seedWorkspace(t, "ws-a", "u1", nil)
	env.seedWorkspace(t, "ws-b", "other", nil)
	require.NoError(t, env.memberRepo.AddMember(newMember("ws-b", "u1", authz.RoleDesigner)))

	// 显式切换到 ws-b 后解析应返回 ws-b
	env.resolver.SetHint(context.Background(), "u1", "ws-b")
	wc, err := env.resolver.Resolve(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, "ws-b", wc.WorkspaceId)
	assert.Equal(t, authz.RoleDesigner, wc.Role)
}

func TestResolve_StaleHintFallsBack(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser(t, "u1", "u1@example.com")
	env.seedWorkspace(t, "ws-a", "u1", nil)
	env.seedWorkspace(t, "ws-b", "other", nil)
	require.NoError(t, env.memberRepo.AddMember(newMember("ws-b", "u1", authz.RoleDesigner)))

	// hint 指向 ws-b, 随后成员被移除: hint 不可信, 必须回退
	env.resolver.SetHint(context.Background(), "u1", "ws-b")
	require.NoError(t, env.memberRepo.RemoveMember("ws-b", "u1"))

	wc, err := env.resolver.Resolve(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, "ws-a", wc.WorkspaceId)

	// 回退后 hint 已被回写
	hinted, err := env.cache.Get(context.Background(), constant.WorkspaceHintKey+"u1").Result()
	require.NoError(t, err)
	assert.Equal(t, "ws-a", hinted)
}

func TestResolve_HintNeverGrantsAccess(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser(t, "u1", "u1@example.com")
	env.seedWorkspace(t, "ws-other", "other", nil)

	// 伪造 hint 指向非成员工作区, 解析不会放行
	env.resolver.SetHint(context.Background(), "u1", "ws-other")
	_, err := env.resolver.Resolve(context.Background(), "u1")
	assert.ErrorIs(t, err, core.ErrNoWorkspaceAccess)
}

func TestResolveIn(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser(t, "u1", "u1@example.com")
	env.seedWorkspace(t, "ws-a", "u1", nil)
	env.seedWorkspace(t, "ws-b", "other", nil)

	wc, err := env.resolver.ResolveIn(context.Background(), "u1", "ws-a")
	require.NoError(t, err)
	assert.Equal(t, authz.RoleAdmin, wc.Role)

	_, err = env.resolver.ResolveIn(context.Background(), "u1", "ws-b")
	assert.ErrorIs(t, err, core.ErrNoWorkspaceAccess)
}
