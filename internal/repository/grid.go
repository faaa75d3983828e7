package repository

import "context"

// GridStore 是载入/保存网格文件的字节交换能力。
// 存储层不解析数据内容，只按名称存取不透明的字节。
type GridStore interface {
	// Open 读取指定名称的数据。
	// 如果不存在，应返回 ErrGridNotFound。
	Open(ctx context.Context, name string) ([]byte, error)

	// Save 写入指定名称的数据。
	// 只有在全部写入成功后目标才会被替换，失败时原有数据保持不变。
	Save(ctx context.Context, name string, data []byte) error

	// List 返回已保存的所有名称，按字典序排列。
	List(ctx context.Context) ([]string, error)
}
