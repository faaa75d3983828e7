package domain

import "time"

// Document 是保存在数据库中的一个网格文件，按名称唯一。
type Document struct {
	ID        uint      `gorm:"primaryKey"`                    // 主键
	Name      string    `gorm:"uniqueIndex;size:191;not null"` // 文件名，例如 "grid.json"
	Data      []byte    `gorm:"type:longblob;not null"`        // 编码后的网格数据
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

// Archive 是某次保存的历史归档，由后台任务写入，只增不改。
type Archive struct {
	ID        uint      `gorm:"primaryKey"`
	Name      string    `gorm:"index;size:191;not null"` // 对应的文件名
	Data      []byte    `gorm:"type:longblob;not null"`  // 保存时的网格数据
	Size      int       `gorm:"not null"`                // 数据字节数
	SavedAt   time.Time `gorm:"index;not null"`          // 编辑器发起保存的时间
	CreatedAt time.Time `gorm:"autoCreateTime;index"`
}
