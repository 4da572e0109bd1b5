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
	"strings"

	"github.com/atelier-hq/atelier/internal/engine/model"
	"github.com/atelier-hq/atelier/pkg/database"
)

type IUserRepository interface {
	CreateUser(u *model.User) error
	GetUserByUserId(userId string) (*model.User, error)
	GetUserByEmail(email string) (*model.User, error)
	CheckEmailExists(email string) (bool, error)
}

type UserRepo struct {
	database.IDatabase
}

func NewUserRepo(db database.IDatabase) IUserRepository {
	return &UserRepo{IDatabase: db}
}

// CreateUser 创建用户
func (r *UserRepo) CreateUser(u *model.User) error {
	return r.Database().Create(u).Error
}

// GetUserByUserId 根据用户ID获取用户
func (r *UserRepo) GetUserByUserId(userId string) (*model.User, error) {
	var u model.User
	err := r.Database().Where("user_id = ?", userId).First(&u).Error
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// GetUserByEmail 根据邮箱获取用户, 邮箱不区分大小写
func (r *UserRepo) GetUserByEmail(email string) (*model.User, error) {
	var u model.User
	err := r.Database().Where("email = ?", strings.ToLower(email)).First(&u).Error
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// CheckEmailExists 检查邮箱是否已注册
func (r *UserRepo) CheckEmailExists(email string) (bool, error) {
	var count int64
	err := r.Database().Model(&model.User{}).
		Where("email = ?", strings.ToLower(email)).
		Count(&count).Error
	return count > 0, err
}
