package repo

import "github.com/google/wire"

// ProviderSet 提供仓储层依赖
var ProviderSet = wire.NewSet(
	NewUserRepo,
	NewWorkspaceRepo,
	NewMemberRepo,
	NewInvitationRepo,
	NewAuditLogRepo,
)
