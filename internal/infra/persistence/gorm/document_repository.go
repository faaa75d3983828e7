package gormpersistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-sql-driver/mysql"
	"gorm.io/gorm"

	"github.com/flxzt/pxtogether/internal/domain"
	"github.com/flxzt/pxtogether/internal/repository"
)

// GormDocumentRepository 是 GridStore 接口的 GORM 实现，每个名称对应 documents 表中的一行
type GormDocumentRepository struct {
	db *gorm.DB
}

// NewGormDocumentRepository 创建 GormDocumentRepository 实例
func NewGormDocumentRepository(db *gorm.DB) *GormDocumentRepository {
	if db == nil {
		panic("database connection cannot be nil for GormDocumentRepository")
	}
	return &GormDocumentRepository{db: db}
}

// Open 实现根据名称读取网格数据
func (r *GormDocumentRepository) Open(ctx context.Context, name string) ([]byte, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: empty name", repository.ErrInvalidName)
	}
	var doc domain.Document
	err := r.db.WithContext(ctx).Where("name = ?", name).First(&doc).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrGridNotFound
		}
		return nil, fmt.Errorf("gorm: find document '%s': %w", name, err)
	}
	return doc.Data, nil
}

// Save 实现保存网格数据。先尝试插入，名称冲突 (MySQL 1062) 时改为更新已有记录。
// 单条 INSERT/UPDATE 语句要么整体成功要么不生效，不会留下写了一半的数据。
func (r *GormDocumentRepository) Save(ctx context.Context, name string, data []byte) error {
	if name == "" {
		return fmt.Errorf("%w: empty name", repository.ErrInvalidName)
	}
	doc := &domain.Document{Name: name, Data: data}
	err := r.db.WithContext(ctx).Create(doc).Error
	if err == nil {
		return nil
	}

	var mysqlErr *mysql.MySQLError
	if !errors.As(err, &mysqlErr) || mysqlErr.Number != 1062 {
		return fmt.Errorf("gorm: create document '%s': %w", name, err)
	}

	result := r.db.WithContext(ctx).Model(&domain.Document{}).
		Where("name = ?", name).
		Update("data", data)
	if result.Error != nil {
		return fmt.Errorf("gorm: update document '%s': %w", name, result.Error)
	}
	if result.RowsAffected == 0 {
		// 记录在插入和更新之间被删除
		return fmt.Errorf("gorm: update document '%s': %w", name, repository.ErrGridNotFound)
	}
	return nil
}

// List 实现按名称排序列出所有文档
func (r *GormDocumentRepository) List(ctx context.Context) ([]string, error) {
	var names []string
	err := r.db.WithContext(ctx).Model(&domain.Document{}).Order("name ASC").Pluck("name", &names).Error
	if err != nil {
		return nil, fmt.Errorf("gorm: list documents: %w", err)
	}
	return names, nil
}
