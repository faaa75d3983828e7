package repository

import "errors"

// 通用的存储库错误
var (
	// ErrNotFound 表示请求的记录未找到
	ErrNotFound = errors.New("repository: record not found")
	// ErrInvalidName 表示文件名为空或试图跳出存储根目录
	ErrInvalidName = errors.New("repository: invalid name")
)

// 特定资源的错误 (基于通用错误)
var (
	ErrGridNotFound = ErrNotFound
)
