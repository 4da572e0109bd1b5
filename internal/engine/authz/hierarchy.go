package authz

// AtLeast 基于角色序数的粗粒度检查: userRole 是否不低于 requiredRole
//
// 与 Allowed 的资源级权限表是两套独立模型, 二者并不总是一致:
// DESIGNER 与 MARKETER 序数相同, 但权限表授权不同。
// 仅在"是否足够高级"即可回答的场景使用本函数, 其余场景用 Allowed。
func AtLeast(userRole, requiredRole Role) bool {
	if !userRole.Valid() || !requiredRole.Valid() {
		return false
	}
	return userRole.Rank() >= requiredRole.Rank()
}
