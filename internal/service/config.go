// Package service 实现业务逻辑层
package service

// ServiceConfig 服务层配置
type ServiceConfig struct {
	Note     NoteServiceConfig     // 笔记相关配置
	Revision RevisionServiceConfig // 修订版本相关配置
}

// NoteServiceConfig 笔记服务配置
type NoteServiceConfig struct {
	// ForbiddenAliases 保留别名列表，不允许作为笔记别名使用
	ForbiddenAliases []string
	// MaxContentLength 笔记内容最大长度（按字符计），0 表示不限制
	MaxContentLength int64
}

// RevisionServiceConfig 修订版本服务配置
type RevisionServiceConfig struct {
	// FoldSweepInterval 后台折叠扫描周期（cron 表达式或时长字符串）
	FoldSweepInterval string
}
