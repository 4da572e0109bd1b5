package model

/**
 * @file: model_user.go
 * @description: user model
 */

type User struct {
	BaseModel
	UserId    string `gorm:"column:user_id" json:"userId"`
	Username  string `gorm:"column:username" json:"username"`
	Password  string `gorm:"column:password" json:"-"`
	Email     string `gorm:"column:email;uniqueIndex" json:"email"`
	Avatar    string `gorm:"column:avatar" json:"avatar"`
	IsEnabled int    `gorm:"column:is_enabled;default:1" json:"isEnabled"` // 0: disabled, 1: enabled
}

func (User) TableName() string {
	return "t_user"
}

type RegisterReq struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResp struct {
	UserInfo UserInfo          `json:"userInfo"`
	Token    map[string]string `json:"token"`
	// WorkspaceId 登录后解析出的当前工作区, 可能为空(用户无任何工作区)
	WorkspaceId string `json:"workspaceId,omitempty"`
}

type UserInfo struct {
	UserId   string `json:"userId"`
	Username string `json:"username"`
	Avatar   string `json:"avatar"`
	Email    string `json:"email"`
}

// CurrentUser 请求层传入的身份, 角色不可信, 有效角色必须按工作区回查成员表
type CurrentUser struct {
	UserId string
	Email  string
}
