package repository

import (
	"context"
	"time"

	"github.com/flxzt/pxtogether/internal/domain"
)

// ArchiveRepository 定义了保存历史归档的持久化操作。
type ArchiveRepository interface {
	// SaveArchive 写入一条新的归档记录。
	SaveArchive(ctx context.Context, archive *domain.Archive) error

	// ListArchives 按保存时间倒序返回某个文件名的归档，最多 limit 条。
	// limit <= 0 时使用默认值。
	ListArchives(ctx context.Context, name string, limit int) ([]domain.Archive, error)

	// PruneArchives 删除 before 之前保存的全部归档，返回删除的条数。
	PruneArchives(ctx context.Context, before time.Time) (int64, error)
}
