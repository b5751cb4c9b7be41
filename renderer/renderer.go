package renderer

import "github.com/ByLCY/breakline/sheet"

// Renderer 将图纸模型输出为预览文件，例如 PDF。
// Render 返回生成的二进制数据以及可能的错误。
type Renderer interface {
	Render(result *sheet.Result) ([]byte, error)
}
