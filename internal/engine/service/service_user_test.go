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

	"github.com/atelier-hq/atelier/internal/engine/constant"
	"github.com/atelier-hq/atelier/internal/engine/core"
	"github.com/atelier-hq/atelier/internal/engine/model"
	"github.com/atelier-hq/atelier/pkg/http"
)

var testAuth = http.Auth{
	SecretKey:     "test-secret",
	AccessExpire:  120,
	RefreshExpire: 10080,
}

func TestRegisterAndLogin(t *testing.T) {
	env := newTestEnv(t)

	require.NoError(t, env.user.Register(&model.RegisterReq{
		Username: "nina",
		Email:    "Nina@Example.com",
		Password: "s3cret!",
	}))

	// 邮箱唯一
	err := env.user.Register(&model.RegisterReq{
		Username: "other",
		Email:    "nina@example.com",
		Password: "x",
	})
	assert.ErrorIs(t, err, core.ErrConflict)

	// 登录邮箱不区分大小写
	resp, err := env.user.Login(context.Background(), &model.LoginReq{
		Email:    "nina@EXAMPLE.com",
		Password: "s3cret!",
	}, testAuth)
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token["accessToken"])
	assert.NotEmpty(t, resp.Token["refreshToken"])
	assert.Equal(t, "nina", resp.UserInfo.Username)
	// 没有任何工作区
	assert.Empty(t, resp.WorkspaceId)

	// 会话已写入
	exists, err := env.cache.Exists(context.Background(), constant.UserSessionKey+resp.UserInfo.UserId).Result()
	require.NoError(t, err)
	assert.Equal(t, int64(1), exists)
}

func TestLogin_Failures(t *testing.T) {
	env := newTestEnv(t)
	require.NoError(t, env.user.Register(&model.RegisterReq{
		Username: "nina", Email: "nina@example.com", Password: "s3cret!",
	}))

	_, err := env.user.Login(context.Background(), &model.LoginReq{
		Email: "nina@example.com", Password: "wrong",
	}, testAuth)
	assert.ErrorIs(t, err, core.ErrUnauthorized)

	_, err = env.user.Login(context.Background(), &model.LoginReq{
		Email: "ghost@example.com", Password: "s3cret!",
	}, testAuth)
	assert.ErrorIs(t, err, core.ErrUnauthorized)
}

func TestLogin_ResolvesWorkspace(t *testing.T) {
	env := newTestEnv(t)
	require.NoError(t, env.user.Register(&model.RegisterReq{
		Username: "nina", Email: "nina@example.com", Password: "s3cret!",
	}))
	u, err := env.userRepo.GetUserByEmail("nina@example.com")
	require.NoError(t, err)
	env.seedWorkspace(t, "ws1", u.UserId, nil)

	resp, err := env.user.Login(context.Background(), &model.LoginReq{
		Email: "nina@example.com", Password: "s3cret!",
	}, testAuth)
	require.NoError(t, err)
	assert.Equal(t, "ws1", resp.WorkspaceId)
}

func TestLogout(t *testing.T) {
	env := newTestEnv(t)
	require.NoError(t, env.user.Register(&model.RegisterReq{
		Username: "nina", Email: "nina@example.com", Password: "s3cret!",
	}))
	resp, err := env.user.Login(context.Background(), &model.LoginReq{
		Email: "nina@example.com", Password: "s3cret!",
	}, testAuth)
	require.NoError(t, err)

	userId := resp.UserInfo.UserId
	require.NoError(t, env.user.Logout(context.Background(), userId))
	exists, err := env.cache.Exists(context.Background(), constant.UserSessionKey+userId).Result()
	require.NoError(t, err)
	assert.Equal(t, int64(0), exists)

	// 会话没了, 刷新令牌也拒绝
	_, err = env.user.RefreshToken(context.Background(), &testAuth, userId, "nina@example.com", resp.Token["refreshToken"])
	assert.ErrorIs(t, err, core.ErrUnauthorized)
}
