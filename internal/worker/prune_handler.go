package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"github.com/sirupsen/logrus"

	"github.com/flxzt/pxtogether/internal/repository"
	"github.com/flxzt/pxtogether/internal/tasks"
)

// PruneHandler 处理周期性的归档清理任务
type PruneHandler struct {
	archiveRepo repository.ArchiveRepository
	now         func() time.Time
}

// NewPruneHandler 创建 Handler 实例
func NewPruneHandler(archiveRepo repository.ArchiveRepository) *PruneHandler {
	if archiveRepo == nil {
		panic("ArchiveRepository cannot be nil for PruneHandler")
	}
	return &PruneHandler{archiveRepo: archiveRepo, now: time.Now}
}

// ProcessTask 实现 asynq.Handler 接口
func (h *PruneHandler) ProcessTask(ctx context.Context, t *asynq.Task) error {
	logCtx := logrus.WithField("task_type", t.Type())

	payload, err := tasks.ParseArchivePrunePayload(t.Payload())
	if err != nil {
		logCtx.WithError(err).Error("Failed to unmarshal task payload")
		return fmt.Errorf("failed to unmarshal payload: %v: %w", err, asynq.SkipRetry)
	}

	cutoff := h.now().Add(-payload.Retention())
	deleted, err := h.archiveRepo.PruneArchives(ctx, cutoff)
	if err != nil {
		logCtx.WithError(err).Error("Failed to prune archives")
		return fmt.Errorf("failed to prune archives: %w", err)
	}

	logCtx.WithFields(logrus.Fields{
		"cutoff":  cutoff.UTC(),
		"deleted": deleted,
	}).Info("Archive prune task processed")
	return nil
}
