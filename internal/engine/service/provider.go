package service

import "github.com/google/wire"

// Services 聚合 engine 的全部服务, 供路由层使用
type Services struct {
	User       *UserService
	Workspace  *WorkspaceService
	Member     *MemberService
	Invitation *InvitationService
	Resolver   *ResolverService
	Audit      *AuditService
}

func NewServices(
	user *UserService,
	workspace *WorkspaceService,
	member *MemberService,
	invitation *InvitationService,
	resolver *ResolverService,
	audit *AuditService,
) *Services {
	return &Services{
		User:       user,
		Workspace:  workspace,
		Member:     member,
		Invitation: invitation,
		Resolver:   resolver,
		Audit:      audit,
	}
}

// ProviderSet 提供服务层依赖
var ProviderSet = wire.NewSet(
	NewUserService,
	NewWorkspaceService,
	NewMemberService,
	NewInvitationService,
	NewResolverService,
	NewAuditService,
	NewServices,
)
