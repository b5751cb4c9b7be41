package sheet

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// WriteDebugJSON 将图纸模型（含已应用的断开）输出为 JSON，便于核对断开位置。
func WriteDebugJSON(res *Result, path string) error {
	if res == nil {
		return nil
	}
	for _, sh := range res.Sheets {
		sh.mu.Lock()
		defer sh.mu.Unlock()
	}
	data, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return fmt.Errorf("序列化调试 JSON 失败: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("创建调试目录失败: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}
