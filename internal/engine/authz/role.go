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

import "fmt"

// Role 工作区角色
type Role string

const (
	RoleAdmin     Role = "ADMIN"     // 管理员(最高权限)
	RoleDeveloper Role = "DEVELOPER" // 开发
	RoleDesigner  Role = "DESIGNER"  // 设计
	RoleMarketer  Role = "MARKETER"  // 市场
	RoleClient    Role = "CLIENT"    // 客户(只读为主)
)

// roleRanks 角色序数表, DESIGNER 与 MARKETER 同级
var roleRanks = map[Role]int{
	RoleAdmin:     5,
	RoleDeveloper: 4,
	RoleDesigner:  3,
	RoleMarketer:  3,
	RoleClient:    1,
}

// ParseRole 解析角色字符串, 未知角色返回错误
func ParseRole(s string) (Role, error) {
	r := Role(s)
	if _, ok := roleRanks[r]; !ok {
		return "", fmt.Errorf("invalid role: %q", s)
	}
	return r, nil
}

// Valid 判断角色是否合法
func (r Role) Valid() bool {
	_, ok := roleRanks[r]
	return ok
}

// Rank 返回角色序数, 未知角色为 0
func (r Role) Rank() int {
	return roleRanks[r]
}

func (r Role) String() string {
	return string(r)
}
