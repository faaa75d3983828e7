package worker

import (
	"context"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/sirupsen/logrus"

	"github.com/flxzt/pxtogether/internal/domain"
	"github.com/flxzt/pxtogether/internal/repository"
	"github.com/flxzt/pxtogether/internal/tasks"
)

// ArchiveHandler 处理网格归档任务
type ArchiveHandler struct {
	archiveRepo repository.ArchiveRepository
}

// NewArchiveHandler 创建 Handler 实例
func NewArchiveHandler(archiveRepo repository.ArchiveRepository) *ArchiveHandler {
	if archiveRepo == nil {
		panic("ArchiveRepository cannot be nil for ArchiveHandler")
	}
	return &ArchiveHandler{archiveRepo: archiveRepo}
}

// ProcessTask 实现 asynq.Handler 接口
func (h *ArchiveHandler) ProcessTask(ctx context.Context, t *asynq.Task) error {
	taskID := ""
	if rw := t.ResultWriter(); rw != nil {
		taskID = rw.TaskID()
	}
	currentRetry, _ := asynq.GetRetryCount(ctx)
	maxRetry, _ := asynq.GetMaxRetry(ctx)

	logCtx := logrus.WithFields(logrus.Fields{
		"task_id":   taskID,
		"task_type": t.Type(),
		"queue":     tasks.ArchiveQueue,
		"retry":     currentRetry,
		"max_retry": maxRetry,
	})
	logCtx.Debug("Processing grid archive task...")

	payload, err := tasks.ParseGridArchivePayload(t.Payload())
	if err != nil {
		logCtx.WithError(err).Error("Failed to unmarshal task payload")
		// payload 损坏，重试也没有意义
		return fmt.Errorf("failed to unmarshal payload: %v: %w", err, asynq.SkipRetry)
	}
	logCtx = logCtx.WithField("name", payload.Name)

	archive := &domain.Archive{
		Name:    payload.Name,
		Data:    payload.Data,
		Size:    len(payload.Data),
		SavedAt: payload.SavedAt,
	}
	if err := h.archiveRepo.SaveArchive(ctx, archive); err != nil {
		logCtx.WithError(err).Error("Failed to save grid archive")
		return fmt.Errorf("failed to archive grid %s: %w", payload.Name, err)
	}

	logCtx.WithField("size", archive.Size).Info("Grid archive task processed successfully")
	return nil
}
