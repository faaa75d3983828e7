// Package queue 把保存后的归档请求投递到 Asynq 队列，由 worker 异步写入数据库。
package queue

import (
	"context"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"github.com/sirupsen/logrus"

	"github.com/flxzt/pxtogether/internal/tasks"
)

// Enqueuer 是 *asynq.Client 中归档器用到的部分。
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

const defaultMaxRetry = 5

// AsynqArchiver 实现 service.Archiver。
type AsynqArchiver struct {
	client   Enqueuer
	maxRetry int
	timeout  time.Duration
}

// NewAsynqArchiver 创建归档器
func NewAsynqArchiver(client Enqueuer) *AsynqArchiver {
	if client == nil {
		panic("AsynqArchiver requires a non-nil Enqueuer")
	}
	return &AsynqArchiver{client: client, maxRetry: defaultMaxRetry, timeout: 30 * time.Second}
}

// Archive 投递一个归档任务。
func (a *AsynqArchiver) Archive(ctx context.Context, name string, data []byte, savedAt time.Time) error {
	payload, err := tasks.NewGridArchiveTask(name, data, savedAt)
	if err != nil {
		return fmt.Errorf("failed to build archive task: %w", err)
	}
	task := asynq.NewTask(tasks.TypeGridArchive, payload)
	info, err := a.client.EnqueueContext(ctx, task,
		asynq.Queue(tasks.ArchiveQueue),
		asynq.MaxRetry(a.maxRetry),
		asynq.Timeout(a.timeout),
	)
	if err != nil {
		return fmt.Errorf("failed to enqueue archive task: %w", err)
	}
	logrus.WithFields(logrus.Fields{
		"file":    name,
		"task_id": info.ID,
		"queue":   info.Queue,
	}).Debug("Archive task enqueued")
	return nil
}
