package middleware

import (
	"github.com/haierkeys/note-revision-service/pkg/app"

	"github.com/gin-gonic/gin"
)

// OptionalUserAuthToken 可选的用户 Token 认证中间件
// 携带合法 Token 时注入用户信息，未携带或解析失败时按匿名访客放行
func OptionalUserAuthToken(secretKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var token string

		if s, exist := c.GetQuery("authorization"); exist {
			token = s
		} else if s := c.GetHeader("authorization"); len(s) != 0 {
			token = s
		} else if s := c.GetHeader("Authorization"); len(s) != 0 {
			token = s
		} else if s, exist := c.GetQuery("token"); exist {
			token = s
		} else if s = c.GetHeader("token"); len(s) != 0 {
			token = s
		}

		if token != "" {
			if user, err := app.ParseTokenWithKey(token, secretKey); err == nil {
				c.Set("user_token", user)
			}
		}

		c.Next()
	}
}
