package core

import "errors"

// 统一错误类别, service 层用 %w 包装, router 层用 errors.Is 映射响应码
var (
	// ErrUnauthorized 无身份
	ErrUnauthorized = errors.New("unauthorized")
	// ErrForbidden 身份已知但权限不足
	ErrForbidden = errors.New("forbidden")
	// ErrNotFound 工作区/邀请/成员不存在
	ErrNotFound = errors.New("not found")
	// ErrConflict 重复邀请、重复成员、令牌已使用
	ErrConflict = errors.New("conflict")
	// ErrExpired 邀请已过期
	ErrExpired = errors.New("expired")
	// ErrInvalid 令牌/邮箱/角色格式非法
	ErrInvalid = errors.New("invalid")
	// ErrEmailMismatch 接受邀请时提交的邮箱与邀请邮箱不一致
	ErrEmailMismatch = errors.New("email mismatch")
	// ErrNoWorkspaceAccess 用户没有任何有效工作区成员关系
	ErrNoWorkspaceAccess = errors.New("no workspace access")
)
