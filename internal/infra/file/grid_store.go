// Package filestore 是 GridStore 的本地文件系统实现。
package filestore

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/flxzt/pxtogether/internal/repository"

	"github.com/sirupsen/logrus"
)

const tempPattern = ".px-*.tmp"

// FileGridStore 把网格文件保存在 root 目录下。
type FileGridStore struct {
	root string
}

// NewFileGridStore 创建 FileGridStore 实例，root 以 "~" 开头时展开为用户主目录。
func NewFileGridStore(root string) (*FileGridStore, error) {
	if root == "" {
		root = "."
	}
	if root == "~" || strings.HasPrefix(root, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("file: resolve home directory: %w", err)
		}
		root = filepath.Join(home, strings.TrimPrefix(root, "~"))
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("file: create store root %s: %w", root, err)
	}
	return &FileGridStore{root: root}, nil
}

// Root 返回存储根目录。
func (s *FileGridStore) Root() string { return s.root }

// path 把名称解析为 root 下的路径，拒绝绝对路径和 ".."。
func (s *FileGridStore) path(name string) (string, error) {
	clean := filepath.Clean(filepath.FromSlash(name))
	if name == "" || clean == "." || filepath.IsAbs(clean) ||
		clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %q", repository.ErrInvalidName, name)
	}
	return filepath.Join(s.root, clean), nil
}

// Open 读取文件内容。
func (s *FileGridStore) Open(ctx context.Context, name string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	p, err := s.path(name)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(p)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, repository.ErrGridNotFound
		}
		return nil, fmt.Errorf("file: read %s: %w", p, err)
	}
	return data, nil
}

// Save 先写入同目录下的临时文件，成功后再重命名为目标文件。
// 写入失败时目标文件保持原样，也不会留下临时文件。
func (s *FileGridStore) Save(ctx context.Context, name string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p, err := s.path(name)
	if err != nil {
		return err
	}
	dir := filepath.Dir(p)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("file: create directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, tempPattern)
	if err != nil {
		return fmt.Errorf("file: create temp file in %s: %w", dir, err)
	}
	tmpName := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			if rmErr := os.Remove(tmpName); rmErr != nil && !errors.Is(rmErr, fs.ErrNotExist) {
				logrus.WithError(rmErr).WithField("path", tmpName).Warn("file: failed to remove temp file")
			}
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("file: write %s: %w", tmpName, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("file: sync %s: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("file: close %s: %w", tmpName, err)
	}
	if err := os.Rename(tmpName, p); err != nil {
		return fmt.Errorf("file: rename %s to %s: %w", tmpName, p, err)
	}
	committed = true
	return nil
}

// List 返回 root 下所有文件的相对名称（不含临时文件）。
func (s *FileGridStore) List(ctx context.Context) ([]string, error) {
	var names []string
	err := filepath.WalkDir(s.root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if matched, _ := filepath.Match(tempPattern, d.Name()); matched {
			return nil
		}
		rel, err := filepath.Rel(s.root, p)
		if err != nil {
			return err
		}
		names = append(names, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("file: list %s: %w", s.root, err)
	}
	sort.Strings(names)
	return names, nil
}
