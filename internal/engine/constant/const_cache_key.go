package constant

// Redis key 前缀
const (
	// UserSessionKey 登录会话, 值为用户信息快照
	UserSessionKey = "atelier:session:"

	// WorkspaceHintKey 用户最近使用的工作区提示, 仅作性能缓存, 读取后必须回查成员表
	WorkspaceHintKey = "atelier:ws:hint:"

	// InviteRateKey 邀请发送限流计数
	InviteRateKey = "atelier:invite:rate"
)
