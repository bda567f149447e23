// Package catalogue 负责构建只读的物品图鉴索引
//
// 每个物品在启动时构建一次：读取素材、背景透明化、可选裁剪、
// 按比例最近邻缩放、转换为匹配所需的表示并提取掩码。构建完成后不再修改。
package catalogue

import (
	"encoding/json"
	"fmt"
	"os"
)

// Record 物品数据库中的一条记录
type Record struct {
	Slug   string      `json:"slug"`
	Name   string      `json:"name"`
	Desc   string      `json:"desc"`
	ImgURL string      `json:"imgUrl,omitempty"`
	Ratio  *float64    `json:"ratio,omitempty"`
	Set    *ItemSetRef `json:"itemSet,omitempty"`
}

// ItemSetRef 物品所属套装
type ItemSetRef struct {
	Slug string `json:"slug"`
	URL  string `json:"url,omitempty"`
}

// LoadRecords 按顺序读取并合并多个物品数据库文件
func LoadRecords(paths ...string) ([]Record, error) {
	var records []Record
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("读取物品数据库失败: %w", err)
		}
		var batch []Record
		if err := json.Unmarshal(data, &batch); err != nil {
			return nil, fmt.Errorf("解析物品数据库 %s 失败: %w", path, err)
		}
		records = append(records, batch...)
	}
	return records, nil
}
