package code

// 通用状态码
var (
	Success = NewSuss(200, lang{
		en:    "Success",
		zh_cn: "成功",
	})
	ErrorInvalidParams = NewError(400, lang{
		en:    "Invalid request parameters",
		zh_cn: "请求参数错误",
	})
	ErrorNotUserAuthToken = NewError(401, lang{
		en:    "Missing user auth token",
		zh_cn: "缺少用户认证令牌",
	})
	ErrorInvalidUserAuthToken = NewError(402, lang{
		en:    "Invalid or expired user auth token",
		zh_cn: "用户认证令牌无效或已过期",
	})
	ErrorNotFound = NewError(404, lang{
		en:    "Resource not found",
		zh_cn: "资源不存在",
	})
	ErrorTooManyRequests = NewError(429, lang{
		en:    "Too many requests",
		zh_cn: "请求过于频繁",
	})
	ErrorServerInternal = NewError(500, lang{
		en:    "Internal server error",
		zh_cn: "服务器内部错误",
	})
	ErrorDBQuery = NewError(501, lang{
		en:    "Database query error",
		zh_cn: "数据库查询错误",
	})
	ErrorRequestTimeout = NewError(504, lang{
		en:    "Request timeout",
		zh_cn: "请求超时",
	})
)

// 笔记与修订状态码
var (
	ErrorNoteNotFound = NewError(60001, lang{
		en:    "Note not found",
		zh_cn: "笔记不存在",
	})
	ErrorForbiddenNoteAlias = NewError(60002, lang{
		en:    "Note alias is forbidden",
		zh_cn: "笔记别名被禁止使用",
	})
	ErrorNoteAliasExists = NewError(60003, lang{
		en:    "Note alias already exists",
		zh_cn: "笔记别名已存在",
	})
	ErrorRevisionNotFound = NewError(61001, lang{
		en:    "Revision not found",
		zh_cn: "修订版本不存在",
	})
	ErrorRevisionFold = NewError(61002, lang{
		en:    "Failed to fold edits into a revision",
		zh_cn: "编辑折叠为修订版本失败",
	})
	ErrorEditAuthorNotFound = NewError(61003, lang{
		en:    "Edit author not found",
		zh_cn: "编辑作者不存在",
	})
	ErrorHistoryEntryNotFound = NewError(62001, lang{
		en:    "History entry not found",
		zh_cn: "历史记录不存在",
	})
	ErrorHistoryImport = NewError(62002, lang{
		en:    "Failed to import history entries",
		zh_cn: "历史记录导入失败",
	})
	ErrorUserNotFound = NewError(63001, lang{
		en:    "User not found",
		zh_cn: "用户不存在",
	})
)
