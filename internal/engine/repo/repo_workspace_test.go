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

package repo

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/atelier-hq/atelier/internal/engine/authz"
	"github.com/atelier-hq/atelier/internal/engine/model"
)

func TestCreateWorkspaceWithOwner_SingleTransaction(t *testing.T) {
	db, mock := newMockDB(t)
	r := NewWorkspaceRepo(db)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `t_workspace`").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO `t_workspace_member`").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	w := &model.Workspace{WorkspaceId: "ws1", Name: "Studio", Slug: "studio", OwnerUserId: "u1", IsActive: true}
	owner := &model.WorkspaceMember{WorkspaceId: "ws1", UserId: "u1", Role: authz.RoleAdmin, IsActive: true}
	require.NoError(t, r.CreateWorkspaceWithOwner(w, owner))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateWorkspaceWithOwner_RollbackOnMemberFailure(t *testing.T) {
	db, mock := newMockDB(t)
	r := NewWorkspaceRepo(db)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `t_workspace`").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO `t_workspace_member`").
		WillReturnError(gorm.ErrInvalidData)
	mock.ExpectRollback()

	w := &model.Workspace{WorkspaceId: "ws1", Name: "Studio", Slug: "studio", OwnerUserId: "u1", IsActive: true}
	owner := &model.WorkspaceMember{WorkspaceId: "ws1", UserId: "u1", Role: authz.RoleAdmin, IsActive: true}
	assert.Error(t, r.CreateWorkspaceWithOwner(w, owner))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteWorkspaceCascade(t *testing.T) {
	db, mock := newMockDB(t)
	r := NewWorkspaceRepo(db)

	rows := sqlmock.NewRows([]string{"id", "workspace_id", "name", "slug", "owner_user_id", "is_active"}).
		AddRow(1, "ws1", "Studio", "studio", "u1", true)

	// 先锁工作区行, 再按成员、邀请、工作区的顺序删除
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT \\* FROM `t_workspace`.*FOR UPDATE").
		WillReturnRows(rows)
	mock.ExpectExec("DELETE FROM `t_workspace_member`").
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec("DELETE FROM `t_workspace_invitation`").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("DELETE FROM `t_workspace`").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, r.DeleteWorkspaceCascade("ws1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteWorkspaceCascade_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	r := NewWorkspaceRepo(db)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT \\* FROM `t_workspace`.*FOR UPDATE").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectRollback()

	err := r.DeleteWorkspaceCascade("ghost")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
