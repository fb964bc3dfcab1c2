package task

import (
	"context"

	"github.com/haierkeys/note-revision-service/internal/app"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Manager 任务管理器，负责创建和调度所有后台任务
// 任务本体通过 Worker Pool 异步执行，cron 只负责触发
type Manager struct {
	cron   *cron.Cron
	app    *app.App
	logger *zap.Logger
}

// NewManager 创建任务管理器
func NewManager(a *app.App) *Manager {
	return &Manager{
		cron:   cron.New(),
		app:    a,
		logger: a.Logger(),
	}
}

// RegisterTasks 注册所有任务
func (m *Manager) RegisterTasks() {
	cfg := m.app.Config()

	m.addTask(NewFoldSweepTask(m.app.RevisionService, cfg.GetFoldSweepInterval()))

	// 保留上限未配置时不注册保留任务
	if cfg.Note.RetentionMaxRevisions > 0 {
		m.addTask(NewRetentionTask(m.app.RevisionService,
			cfg.Note.RetentionMaxRevisions, cfg.GetRetentionSweepInterval()))
	} else {
		m.logger.Info("revision retention task is disabled (retention-max-revisions not configured)")
	}
}

// addTask 注册单个任务到 cron 调度器
func (m *Manager) addTask(t Task) {
	if t.Interval() <= 0 {
		m.logger.Warn("task skipped, invalid interval", zap.String("name", t.Name()))
		return
	}

	job := func() {
		// 触发即返回，任务本体进 Worker Pool
		err := m.app.SubmitTask(context.Background(), func(ctx context.Context) error {
			m.logger.Info("task running", zap.String("name", t.Name()))
			return t.Run(ctx)
		})
		if err != nil {
			m.logger.Error("task submit failed", zap.String("name", t.Name()), zap.Error(err))
		}
	}

	m.cron.Schedule(cron.Every(t.Interval()), cron.FuncJob(job))
	m.logger.Info("task registered",
		zap.String("name", t.Name()),
		zap.Duration("interval", t.Interval()))

	if t.IsStartupRun() {
		job()
	}
}

// Start 启动调度器
func (m *Manager) Start() {
	m.cron.Start()
}

// Stop 停止调度器，返回的 context 在运行中的触发全部结束后完成
func (m *Manager) Stop() context.Context {
	return m.cron.Stop()
}
