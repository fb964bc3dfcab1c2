package task

import (
	"context"
	"time"

	"github.com/haierkeys/note-revision-service/internal/service"
)

// FoldSweepTask 周期性折叠所有存在未折叠编辑记录的笔记
type FoldSweepTask struct {
	revisionService service.RevisionService
	interval        time.Duration
}

// NewFoldSweepTask 创建折叠扫描任务
func NewFoldSweepTask(revisionService service.RevisionService, interval time.Duration) *FoldSweepTask {
	return &FoldSweepTask{
		revisionService: revisionService,
		interval:        interval,
	}
}

// Name 返回任务名称
func (t *FoldSweepTask) Name() string {
	return "RevisionFoldSweep"
}

// Interval 返回执行间隔
func (t *FoldSweepTask) Interval() time.Duration {
	return t.interval
}

// IsStartupRun 启动时立即执行一次，认领服务重启前遗留的编辑记录
func (t *FoldSweepTask) IsStartupRun() bool {
	return true
}

// Run 执行一轮折叠扫描
func (t *FoldSweepTask) Run(ctx context.Context) error {
	_, err := t.revisionService.FoldAllPending(ctx)
	return err
}
