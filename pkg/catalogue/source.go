package catalogue

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// AssetSource 按引用提供素材原始字节
type AssetSource interface {
	Open(ref string) ([]byte, error)
}

// DirSource 从本地目录读取素材
type DirSource struct {
	Dir string
}

// NewDirSource 创建目录素材源
func NewDirSource(dir string) *DirSource {
	return &DirSource{Dir: dir}
}

// Open 读取 Dir/ref
func (d *DirSource) Open(ref string) ([]byte, error) {
	data, err := os.ReadFile(filepath.Join(d.Dir, ref))
	if err != nil {
		return nil, fmt.Errorf("读取素材 %s 失败: %w", ref, err)
	}
	return data, nil
}

// ItemRef 物品图片引用
func ItemRef(slug string) string {
	return slug + ".png"
}

// ItemSetRefName 套装图片引用
func ItemSetRefName(slug string) string {
	return "itemset-" + slug + ".png"
}

// MapSource 内存素材源，键为引用名
type MapSource map[string][]byte

// Open 返回引用对应的字节，不存在时返回 fs.ErrNotExist
func (m MapSource) Open(ref string) ([]byte, error) {
	data, ok := m[ref]
	if !ok {
		return nil, fmt.Errorf("读取素材 %s 失败: %w", ref, fs.ErrNotExist)
	}
	return data, nil
}
