package middleware

import (
	"github.com/gin-gonic/gin"
)

// AppInfoWithConfig 把应用名称与版本写入请求上下文
func AppInfoWithConfig(name string, version string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("app_name", name)
		c.Set("app_version", version)

		c.Next()
	}
}
