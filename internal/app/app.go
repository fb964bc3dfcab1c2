// Package app 提供应用容器，封装所有依赖和服务
package app

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/haierkeys/note-revision-service/internal/dao"
	"github.com/haierkeys/note-revision-service/internal/domain"
	"github.com/haierkeys/note-revision-service/internal/service"
	pkgapp "github.com/haierkeys/note-revision-service/pkg/app"
	"github.com/haierkeys/note-revision-service/pkg/workerpool"
	"github.com/haierkeys/note-revision-service/pkg/writequeue"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// App 应用容器，封装所有依赖和服务
type App struct {
	// 基础设施（注入的依赖）
	config *AppConfig
	logger *zap.Logger
	DB     *gorm.DB
	Dao    *dao.Dao

	// 并发控制组件
	workerPool    *workerpool.Pool
	writeQueueMgr *writequeue.Manager

	// Repository 层
	NoteRepo     domain.NoteRepository
	UserRepo     domain.UserRepository
	RevisionRepo domain.RevisionRepository
	EditRepo     domain.EditRepository
	AuthorRepo   domain.AuthorRepository
	HistoryRepo  domain.HistoryRepository

	// Service 层
	NoteService       service.NoteService
	RevisionService   service.RevisionService
	HistoryService    service.HistoryService
	AuthorshipService service.AuthorshipService

	// 基础设施组件
	TokenManager pkgapp.TokenManager
	Metrics      prometheus.Registerer
	Registry     *prometheus.Registry

	// 关闭控制
	shutdownCh chan struct{}
	wg         sync.WaitGroup

	// StartTime 服务启动时间
	StartTime time.Time
}

// NewApp 创建应用容器实例
// 初始化所有依赖并进行依赖注入
// cfg: 应用配置（必须）
// logger: zap 日志器（必须）
// db: 数据库连接（必须）
func NewApp(cfg *AppConfig, logger *zap.Logger, db *gorm.DB) (*App, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if db == nil {
		return nil, fmt.Errorf("database is required")
	}

	a := &App{
		config:     cfg,
		logger:     logger,
		DB:         db,
		shutdownCh: make(chan struct{}),
		StartTime:  time.Now(),
	}

	// 初始化 Worker Pool
	wpConfig := cfg.GetWorkerPoolConfig()
	a.workerPool = workerpool.New(&wpConfig, logger)

	// 初始化 Write Queue Manager
	wqConfig := cfg.GetWriteQueueConfig()
	a.writeQueueMgr = writequeue.New(&wqConfig, logger)

	// 初始化 DAO
	a.Dao = dao.New(db, a.writeQueueMgr, logger)

	// 初始化 TokenManager
	a.TokenManager = pkgapp.NewTokenManager(pkgapp.TokenConfig{
		SecretKey: cfg.Security.AuthTokenKey,
		Issuer:    "note-revision-service",
		Expiry:    cfg.GetTokenExpiry(),
	})

	// 初始化 Prometheus 注册表
	a.Registry = prometheus.NewRegistry()
	a.Metrics = a.Registry

	// 初始化 Repository 层
	a.NoteRepo = dao.NewNoteRepository(a.Dao)
	a.UserRepo = dao.NewUserRepository(a.Dao)
	a.RevisionRepo = dao.NewRevisionRepository(a.Dao)
	a.EditRepo = dao.NewEditRepository(a.Dao)
	a.AuthorRepo = dao.NewAuthorRepository(a.Dao)
	a.HistoryRepo = dao.NewHistoryRepository(a.Dao)

	// 创建 ServiceConfig（从 AppConfig 提取 Service 层需要的配置）
	svcConfig := &service.ServiceConfig{
		Note: service.NoteServiceConfig{
			ForbiddenAliases: cfg.Note.ForbiddenAliases,
			MaxContentLength: cfg.Note.MaxContentLength,
		},
		Revision: service.RevisionServiceConfig{
			FoldSweepInterval: cfg.Note.FoldSweepInterval,
		},
	}

	// 初始化 Service 层（依赖注入）
	a.AuthorshipService = service.NewAuthorshipService(a.AuthorRepo)
	a.NoteService = service.NewNoteService(a.Dao, a.NoteRepo, a.AuthorshipService, svcConfig, logger)
	a.RevisionService = service.NewRevisionService(a.Dao, a.NoteRepo, a.RevisionRepo, a.EditRepo, a.AuthorshipService, logger)
	a.HistoryService = service.NewHistoryService(a.HistoryRepo, a.NoteRepo, svcConfig, logger)

	logger.Info("App container initialized successfully",
		zap.Int("workerPoolMaxWorkers", wpConfig.MaxWorkers),
		zap.Int("writeQueueCapacity", wqConfig.QueueCapacity))

	return a, nil
}

// Close 释放应用容器持有的资源
func (a *App) Close() error {
	close(a.shutdownCh)
	a.wg.Wait()

	if a.writeQueueMgr != nil {
		a.writeQueueMgr.Close()
	}
	if a.workerPool != nil {
		a.workerPool.Close(10 * time.Second)
	}

	if a.DB != nil {
		sqlDB, err := a.DB.DB()
		if err != nil {
			return fmt.Errorf("failed to get sql.DB: %w", err)
		}
		if err := sqlDB.Close(); err != nil {
			return fmt.Errorf("failed to close database: %w", err)
		}
		a.logger.Info("Database connection closed")
	}
	return nil
}

// Config 获取应用配置
func (a *App) Config() *AppConfig {
	return a.config
}

// Logger 获取日志器
func (a *App) Logger() *zap.Logger {
	return a.logger
}

// SubmitTask 提交任务到 Worker Pool
// 池已满或已关闭时返回错误
func (a *App) SubmitTask(ctx context.Context, task func(context.Context) error) error {
	return a.workerPool.Submit(ctx, task)
}

// Version 获取版本信息
func (a *App) Version() pkgapp.VersionInfo {
	return pkgapp.VersionInfo{
		Version:   Version,
		GitTag:    GitTag,
		BuildTime: BuildTime,
	}
}
