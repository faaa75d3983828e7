package domain

import "errors"

var (
	// ErrInvalidDimensions 表示网格的行数或列数不是正数（调用方的编程错误）
	ErrInvalidDimensions = errors.New("domain: grid dimensions must be positive")
	// ErrOutOfBounds 表示访问了网格范围之外的格子
	ErrOutOfBounds = errors.New("domain: cell out of bounds")
	// ErrDecodeFailure 表示载入的数据无法解析为网格
	ErrDecodeFailure = errors.New("domain: failed to decode grid")
	// ErrEncodeFailure 表示网格无法序列化
	ErrEncodeFailure = errors.New("domain: failed to encode grid")
)
