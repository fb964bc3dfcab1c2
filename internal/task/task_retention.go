package task

import (
	"context"
	"time"

	"github.com/haierkeys/note-revision-service/internal/service"
)

// RetentionTask 周期性清理修订版本数量超限的笔记
// 补丁链相对前一版本构建，不能只删中间版本，超限时整链收敛到最新版本
type RetentionTask struct {
	revisionService service.RevisionService
	maxRevisions    int64
	interval        time.Duration
}

// NewRetentionTask 创建修订保留任务
func NewRetentionTask(revisionService service.RevisionService, maxRevisions int64, interval time.Duration) *RetentionTask {
	return &RetentionTask{
		revisionService: revisionService,
		maxRevisions:    maxRevisions,
		interval:        interval,
	}
}

// Name 返回任务名称
func (t *RetentionTask) Name() string {
	return "RevisionRetention"
}

// Interval 返回执行间隔
func (t *RetentionTask) Interval() time.Duration {
	return t.interval
}

// IsStartupRun 返回 false，保留清理不需要启动时执行
func (t *RetentionTask) IsStartupRun() bool {
	return false
}

// Run 执行一轮保留清理
func (t *RetentionTask) Run(ctx context.Context) error {
	_, err := t.revisionService.SweepRetention(ctx, t.maxRevisions)
	return err
}
