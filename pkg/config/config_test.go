package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/zoeyai/itemscope/pkg/match"
	"github.com/zoeyai/itemscope/pkg/vision"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Threshold != 0.8 {
		t.Errorf("默认 Threshold 应为 0.8, 实际为 %v", cfg.Threshold)
	}
	if cfg.PixelSensibility != 10 {
		t.Errorf("默认 PixelSensibility 应为 10, 实际为 %d", cfg.PixelSensibility)
	}
	if cfg.OriginalWidth != 1920 {
		t.Errorf("默认 OriginalWidth 应为 1920, 实际为 %d", cfg.OriginalWidth)
	}
	if cfg.UseSIFT || cfg.AlwaysFullscreen || !cfg.KeepLastRegion {
		t.Errorf("默认开关错误: %+v", cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("默认配置应通过校验: %v", err)
	}

	t.Logf("默认配置: %+v", cfg)
}

func TestValidateClamps(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Threshold = 1.5
	cfg.PixelSensibility = -3
	cfg.SizeRatio = 0
	cfg.SmallSizeRatio = -1
	cfg.MaxResults = -2
	cfg.TriggerKey = ""
	cfg.Mode = "EDGE"

	if err := cfg.Validate(); err != nil {
		t.Fatalf("校验失败: %v", err)
	}
	if cfg.Threshold != 0.8 || cfg.PixelSensibility != 10 || cfg.SizeRatio != 1 ||
		cfg.SmallSizeRatio != 0.5 || cfg.MaxResults != 0 || cfg.TriggerKey != "rctrl" {
		t.Errorf("越界值未修正: %+v", cfg)
	}
	if cfg.Mode != "edge" {
		t.Errorf("模式应规范化为 edge, 实际 %s", cfg.Mode)
	}
}

func TestValidateErrors(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Mode = "sepia"
	if err := cfg.Validate(); err == nil {
		t.Error("未知模式应返回错误")
	}

	cfg = DefaultConfig()
	cfg.OriginalWidth = 0
	if err := cfg.Validate(); err == nil {
		t.Error("original_width 为 0 应返回错误")
	}
}

func TestProjections(t *testing.T) {
	cfg := DefaultConfig()
	cfg.UseSIFT = true
	cfg.Mode = "rgb"
	cfg.AlwaysFullscreen = true
	cfg.MaxResults = 3
	if err := cfg.Validate(); err != nil {
		t.Fatal(err)
	}

	rc := cfg.ResolverConfig()
	if rc.TriggerKey != "rctrl" || rc.PixelSensibility != 10 || !rc.AlwaysFullscreen || !rc.KeepLastRegion {
		t.Errorf("ResolverConfig 错误: %+v", rc)
	}

	ec := cfg.EngineConfig()
	if ec.Strategy != match.StrategyFeature || ec.Mode != vision.ModeRGB || ec.Threshold != 0.8 || ec.MaxResults != 3 {
		t.Errorf("EngineConfig 错误: %+v", ec)
	}

	if sc := cfg.ScalingConfig(); sc.OriginalWidth != 1920 {
		t.Errorf("ScalingConfig 错误: %+v", sc)
	}

	cc := cfg.CatalogueConfig()
	if cc.Mode != vision.ModeRGB || cc.SizeRatio != 1 || cc.SmallSizeRatio != 0.5 || cc.TrimToAlpha {
		t.Errorf("CatalogueConfig 错误: %+v", cc)
	}

	cfg.UseSIFT = false
	if cfg.EngineConfig().Strategy != match.StrategyTemplate {
		t.Error("关闭 use_sift 时应使用模板策略")
	}
}

func TestManagerSaveAndLoad(t *testing.T) {
	// 使用临时目录
	tempDir := t.TempDir()
	manager := NewManagerWithDir(tempDir)

	// 检查初始状态
	if manager.Exists() {
		t.Error("初始时配置文件不应存在")
	}

	cfg := DefaultConfig()
	cfg.Threshold = 0.9
	cfg.UseSIFT = true
	cfg.ItemDB = []string{"a.db", "b.db"}

	if err := manager.Save(cfg); err != nil {
		t.Fatalf("保存配置失败: %v", err)
	}
	if !manager.Exists() {
		t.Error("保存后配置文件应存在")
	}

	loaded, err := manager.Load()
	if err != nil {
		t.Fatalf("加载配置失败: %v", err)
	}
	if loaded.Threshold != 0.9 || !loaded.UseSIFT || len(loaded.ItemDB) != 2 || loaded.ItemDB[1] != "b.db" {
		t.Errorf("加载结果与保存不一致: %+v", loaded)
	}

	if err := manager.Clear(); err != nil {
		t.Fatalf("清除配置失败: %v", err)
	}
	if manager.Exists() {
		t.Error("清除后配置文件不应存在")
	}
}

func TestManagerLoadMissing(t *testing.T) {
	manager := NewManagerWithDir(filepath.Join(t.TempDir(), "nope"))
	cfg, err := manager.Load()
	if err != nil {
		t.Fatalf("缺失文件不应报错: %v", err)
	}
	if cfg.Threshold != DefaultConfig().Threshold {
		t.Error("缺失文件时应返回默认配置")
	}
}

func TestManagerYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "itemscope.yaml")
	content := []byte("threshold: 0.7\nuse_sift: true\nmode: edge\nitem_db:\n  - neondb/items.db\n  - neondb/weapons.db\n")
	if err := os.WriteFile(path, content, 0644); err != nil {
		t.Fatal(err)
	}

	manager := NewManagerWithFile(path)
	cfg, err := manager.Load()
	if err != nil {
		t.Fatalf("加载 YAML 失败: %v", err)
	}
	if cfg.Threshold != 0.7 || !cfg.UseSIFT || cfg.Mode != "edge" || len(cfg.ItemDB) != 2 {
		t.Errorf("YAML 解析错误: %+v", cfg)
	}
	// 未出现的字段保持默认值
	if cfg.OriginalWidth != 1920 || cfg.PixelSensibility != 10 {
		t.Errorf("未设置字段应保持默认: %+v", cfg)
	}

	cfg.MaxResults = 4
	if err := manager.Save(cfg); err != nil {
		t.Fatalf("保存 YAML 失败: %v", err)
	}
	again, err := manager.Load()
	if err != nil || again.MaxResults != 4 {
		t.Errorf("YAML 保存后重新加载失败: %v %+v", err, again)
	}
}

func TestManagerInvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err := NewManagerWithFile(path).Load()
	if err == nil {
		t.Error("无效 JSON 应返回错误")
	}
	if cfg == nil || cfg.Threshold != 0.8 {
		t.Error("解析失败时应返回默认配置")
	}
}
