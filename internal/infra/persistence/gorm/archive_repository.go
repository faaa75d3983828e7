package gormpersistence

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/flxzt/pxtogether/internal/domain"
)

const defaultArchiveLimit = 20

// GormArchiveRepository 是 ArchiveRepository 接口的 GORM 实现
type GormArchiveRepository struct {
	db *gorm.DB
}

// NewGormArchiveRepository 创建 GormArchiveRepository 实例
func NewGormArchiveRepository(db *gorm.DB) *GormArchiveRepository {
	if db == nil {
		panic("database connection cannot be nil for GormArchiveRepository")
	}
	return &GormArchiveRepository{db: db}
}

// SaveArchive 插入一条新的归档记录（只写不改，所以使用 Create）
func (r *GormArchiveRepository) SaveArchive(ctx context.Context, archive *domain.Archive) error {
	if archive.Size == 0 {
		archive.Size = len(archive.Data)
	}
	if err := r.db.WithContext(ctx).Create(archive).Error; err != nil {
		return fmt.Errorf("gorm: failed to save archive (name %s, saved_at %s): %w", archive.Name, archive.SavedAt, err)
	}
	return nil
}

// ListArchives 按保存时间倒序获取归档
func (r *GormArchiveRepository) ListArchives(ctx context.Context, name string, limit int) ([]domain.Archive, error) {
	if limit <= 0 {
		limit = defaultArchiveLimit
	}
	var archives []domain.Archive
	err := r.db.WithContext(ctx).
		Where("name = ?", name).
		Order("saved_at DESC").
		Limit(limit).
		Find(&archives).Error
	if err != nil {
		return nil, fmt.Errorf("gorm: list archives for '%s': %w", name, err)
	}
	return archives, nil
}

// PruneArchives 删除过期的归档
func (r *GormArchiveRepository) PruneArchives(ctx context.Context, before time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("saved_at < ?", before).
		Delete(&domain.Archive{})
	if result.Error != nil {
		return 0, fmt.Errorf("gorm: prune archives before %s: %w", before, result.Error)
	}
	return result.RowsAffected, nil
}
