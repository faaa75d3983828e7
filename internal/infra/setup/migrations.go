package setup

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/flxzt/pxtogether/internal/domain"
)

// MigrateDB 使用传入的 GORM DB 实例完成所有表的迁移。
func MigrateDB(db *gorm.DB) error {
	if db == nil {
		return fmt.Errorf("cannot migrate database with nil DB connection")
	}

	// documents 表的 name 需要唯一索引，使用自定义 SQL 固定长度为 191 (utf8mb4 索引上限)
	if err := migrateDocumentsTable(db); err != nil {
		return fmt.Errorf("failed to migrate documents table: %w", err)
	}

	if err := db.AutoMigrate(&domain.Archive{}); err != nil {
		logrus.Errorf("Failed to auto-migrate archives table: %v", err)
		return fmt.Errorf("failed to auto-migrate tables: %w", err)
	}

	logrus.Info("Database migration completed successfully")
	return nil
}

// migrateDocumentsTable 不存在时创建 documents 表，存在时交给 AutoMigrate 补齐列和索引
func migrateDocumentsTable(db *gorm.DB) error {
	if db.Migrator().HasTable(&domain.Document{}) {
		if err := db.AutoMigrate(&domain.Document{}); err != nil {
			logrus.Errorf("Failed to auto-migrate documents table: %v", err)
			return fmt.Errorf("failed to migrate document indexes: %w", err)
		}
		logrus.Info("Documents table schema checked/updated successfully")
		return nil
	}

	sql := `
	CREATE TABLE documents (
		id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		name VARCHAR(191) NOT NULL,
		data LONGBLOB NOT NULL,
		created_at DATETIME(3),
		updated_at DATETIME(3),
		UNIQUE INDEX idx_documents_name (name)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_general_ci;
	`
	if err := db.Exec(sql).Error; err != nil {
		logrus.Errorf("Failed to create documents table: %v", err)
		return fmt.Errorf("failed to create documents table: %w", err)
	}
	logrus.Info("Documents table created successfully")
	return nil
}
