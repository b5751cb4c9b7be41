package settings

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/pelletier/go-toml/v2"
)

// DefaultStoreFile 是相对于 XDG 配置目录的设置文件路径。
const DefaultStoreFile = "breakline/settings.toml"

// Store 负责在磁盘上读写 TOML 格式的断开参数。
type Store struct {
	path string
}

// NewStore 使用指定路径；path 为空时定位到 XDG 配置目录。
func NewStore(path string) (*Store, error) {
	if path == "" {
		p, err := xdg.ConfigFile(DefaultStoreFile)
		if err != nil {
			return nil, fmt.Errorf("获取设置文件路径失败: %w", err)
		}
		path = p
	}
	return &Store{path: path}, nil
}

// Path 返回设置文件路径。
func (s *Store) Path() string { return s.path }

// Load 读取设置文件；文件不存在时返回默认配置。
// 读入的值会经过 setter 归一化，手工修改的文件也不会产生越界配置。
func (s *Store) Load() (*Settings, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return New(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("读取设置文件 %s 失败: %w", s.path, err)
	}

	v := New().Snapshot()
	if err := toml.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("解析设置文件 %s 失败: %w", s.path, err)
	}
	return FromValues(v), nil
}

// Save 写入当前配置快照。
func (s *Store) Save(cfg *Settings) error {
	data, err := toml.Marshal(cfg.Snapshot())
	if err != nil {
		return fmt.Errorf("序列化设置失败: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o750); err != nil {
		return fmt.Errorf("创建设置目录失败: %w", err)
	}

	var sb strings.Builder
	sb.WriteString("# breakline 断开参数\n")
	sb.WriteString("# style: 0 矩形, 1 结构; symbols: 1-3; range: 10-90\n\n")
	sb.Write(data)
	if err := os.WriteFile(s.path, []byte(sb.String()), 0o644); err != nil {
		return fmt.Errorf("写入设置文件 %s 失败: %w", s.path, err)
	}
	return nil
}
