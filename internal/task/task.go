// Package task 后台定时任务
package task

import (
	"context"
	"time"
)

// Task 定义任务接口
type Task interface {
	// Name 任务名称
	Name() string
	// Run 执行任务
	Run(ctx context.Context) error
	// Interval 执行间隔，小于等于 0 的任务不会被调度
	Interval() time.Duration
	// IsStartupRun 是否在启动时立即执行一次
	IsStartupRun() bool
}
