package tasks

import (
	"encoding/json"
	"fmt"
	"time"
)

// 定义任务类型常量
const (
	TypeGridArchive  = "grid:archive"  // 保存成功后把网格数据归档到数据库
	TypeArchivePrune = "archive:prune" // 周期性清理过期归档
)

// ArchiveQueue 是归档任务使用的队列，优先级最低
const ArchiveQueue = "low"

// GridArchivePayload 定义了归档任务的数据结构
type GridArchivePayload struct {
	Name    string    `json:"name"`
	Data    []byte    `json:"data"`
	SavedAt time.Time `json:"saved_at"`
}

// NewGridArchiveTask 创建归档任务的 payload
func NewGridArchiveTask(name string, data []byte, savedAt time.Time) ([]byte, error) {
	if name == "" {
		return nil, fmt.Errorf("archive task requires a name")
	}
	payload := GridArchivePayload{
		Name:    name,
		Data:    data,
		SavedAt: savedAt.UTC(),
	}
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return payloadBytes, nil
}

// ParseGridArchivePayload 解析归档任务的 payload
func ParseGridArchivePayload(b []byte) (GridArchivePayload, error) {
	var payload GridArchivePayload
	if err := json.Unmarshal(b, &payload); err != nil {
		return payload, err
	}
	if payload.Name == "" {
		return payload, fmt.Errorf("archive payload has no name")
	}
	return payload, nil
}

// ArchivePrunePayload 定义了清理任务的数据结构
type ArchivePrunePayload struct {
	RetentionHours int `json:"retention_hours"`
}

// NewArchivePruneTask 创建清理任务的 payload
func NewArchivePruneTask(retention time.Duration) ([]byte, error) {
	hours := int(retention / time.Hour)
	if hours <= 0 {
		return nil, fmt.Errorf("archive retention must be at least one hour, got %s", retention)
	}
	return json.Marshal(ArchivePrunePayload{RetentionHours: hours})
}

// ParseArchivePrunePayload 解析清理任务的 payload
func ParseArchivePrunePayload(b []byte) (ArchivePrunePayload, error) {
	var payload ArchivePrunePayload
	if err := json.Unmarshal(b, &payload); err != nil {
		return payload, err
	}
	if payload.RetentionHours <= 0 {
		return payload, fmt.Errorf("invalid retention %d", payload.RetentionHours)
	}
	return payload, nil
}

// Retention 返回保留时长
func (p ArchivePrunePayload) Retention() time.Duration {
	return time.Duration(p.RetentionHours) * time.Hour
}
