package catalogue

import "fmt"

// AssetDecodeError 素材无法读取或解码，图鉴构建因此中止
type AssetDecodeError struct {
	Slug string
	Ref  string
	Err  error
}

func (e *AssetDecodeError) Error() string {
	return fmt.Sprintf("物品 %s 的素材 %s 无法使用: %v", e.Slug, e.Ref, e.Err)
}

func (e *AssetDecodeError) Unwrap() error {
	return e.Err
}
