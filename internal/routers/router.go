// Package routers 组装 HTTP 路由与中间件
package routers

import (
	"time"

	"github.com/haierkeys/note-revision-service/internal/app"
	"github.com/haierkeys/note-revision-service/internal/middleware"
	"github.com/haierkeys/note-revision-service/internal/routers/api_router"
	"github.com/haierkeys/note-revision-service/pkg/limiter"

	"github.com/gin-gonic/gin"
	ut "github.com/go-playground/universal-translator"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var routeLimiters = limiter.NewRouteLimiter().AddBuckets(
	limiter.BucketRule{
		Key:          "/api/me/history",
		FillInterval: time.Second,
		Capacity:     10,
		Quantum:      10,
	},
	limiter.BucketRule{
		Key:          "/api/note/revision/fold",
		FillInterval: time.Second,
		Capacity:     5,
		Quantum:      5,
	},
)

// NewRouter 创建公开 API 路由
func NewRouter(appContainer *app.App, uni *ut.UniversalTranslator) *gin.Engine {

	cfg := appContainer.Config()

	httpMetrics := middleware.NewHTTPMetrics(appContainer.Metrics)

	r := gin.New()

	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(appContainer.Registry, promhttp.HandlerOpts{})))

	api := r.Group("/api")
	{
		api.Use(middleware.AppInfoWithConfig(app.Name, appContainer.Version().Version))
		if cfg.Tracer.Enabled {
			api.Use(middleware.TraceMiddleware(cfg.Tracer.Header))
		}
		api.Use(middleware.RateLimiter(routeLimiters))
		api.Use(middleware.ContextTimeout(time.Duration(cfg.App.DefaultContextTimeout) * time.Second))
		api.Use(middleware.Cors())
		api.Use(middleware.LangWithTranslator(uni))
		api.Use(middleware.AccessLog(appContainer.Logger()))
		api.Use(middleware.RecoveryWithLogger(appContainer.Logger()))
		api.Use(httpMetrics.Handler())

		// 创建 Handlers（注入 App Container）
		noteHandler := api_router.NewNoteHandler(appContainer)
		revisionHandler := api_router.NewRevisionHandler(appContainer)
		historyHandler := api_router.NewHistoryHandler(appContainer)
		healthHandler := api_router.NewHealthHandler(appContainer)

		// 健康检查（无需认证）
		api.GET("/health", healthHandler.Check)

		// 笔记与修订接口：匿名访客可用，携带 Token 则归属到用户
		optionalAuth := middleware.OptionalUserAuthToken(cfg.Security.AuthTokenKey)
		note := api.Group("/note", optionalAuth)
		{
			note.GET("", noteHandler.Get)
			note.POST("", noteHandler.Create)
			note.DELETE("", noteHandler.Delete)
			note.POST("/edit", noteHandler.Edit)
			note.POST("/rename", noteHandler.Rename)

			note.GET("/revisions", revisionHandler.List)
			note.DELETE("/revisions", revisionHandler.Purge)
			note.GET("/revision", revisionHandler.Get)
			note.GET("/revision/latest", revisionHandler.Latest)
			note.GET("/revision/first", revisionHandler.First)
			note.POST("/revision/fold", revisionHandler.Fold)
		}

		// 用户历史记录接口：必须携带有效 Token
		me := api.Group("/me", middleware.UserAuthTokenWithConfig(cfg.Security.AuthTokenKey))
		{
			me.GET("/history", historyHandler.List)
			me.POST("/history", historyHandler.Import)
			me.DELETE("/history", historyHandler.DeleteAll)
			me.POST("/history/entry", historyHandler.Touch)
			me.PUT("/history/entry", historyHandler.Update)
			me.DELETE("/history/entry", historyHandler.Delete)
		}
	}

	r.Use(middleware.Cors())
	r.NoRoute(middleware.NoFound())

	return r
}
