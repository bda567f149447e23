// Package config 提供识别配置的加载、保存与校验
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/zoeyai/itemscope/pkg/catalogue"
	"github.com/zoeyai/itemscope/pkg/match"
	"github.com/zoeyai/itemscope/pkg/region"
	"github.com/zoeyai/itemscope/pkg/vision"
)

// Config 运行配置
// Validate 之后视为只读，各组件只通过投影方法拿到自己需要的字段
type Config struct {
	// Threshold 模板匹配最低置信度
	Threshold float64 `json:"threshold" yaml:"threshold"`
	// PixelSensibility 区分点按与拖拽的像素阈值
	PixelSensibility int `json:"pixel_sensibility" yaml:"pixel_sensibility"`
	// UseSIFT 是否使用特征点匹配
	UseSIFT bool `json:"use_sift" yaml:"use_sift"`
	// TrimToAlpha 是否按不透明区域裁剪物品图
	TrimToAlpha bool `json:"trim_to_alpha" yaml:"trim_to_alpha"`
	// SizeRatio 物品图默认缩放比例
	SizeRatio float64 `json:"size_ratio" yaml:"size_ratio"`
	// SmallSizeRatio 预览图相对缩放比例
	SmallSizeRatio float64 `json:"small_size_ratio" yaml:"small_size_ratio"`
	// OriginalWidth 图鉴素材的制作分辨率宽度
	OriginalWidth int `json:"original_width" yaml:"original_width"`
	// AlwaysFullscreen 始终截取全部显示器
	AlwaysFullscreen bool `json:"always_fullscreen" yaml:"always_fullscreen"`
	// KeepLastRegion 点按时复用上一次区域
	KeepLastRegion bool `json:"keep_last_region" yaml:"keep_last_region"`

	// Mode 图像表示: rgb / gray / edge
	Mode string `json:"mode" yaml:"mode"`
	// TriggerKey 触发键名称
	TriggerKey string `json:"trigger_key" yaml:"trigger_key"`
	// CaptureBackend 截图后端: robotgo / screenshot
	CaptureBackend string `json:"capture_backend" yaml:"capture_backend"`
	// MaxResults 结果数量上限，0 表示不限
	MaxResults int `json:"max_results" yaml:"max_results"`

	// ItemDB 物品数据库文件（按顺序合并）
	ItemDB []string `json:"item_db" yaml:"item_db"`
	// ImageDir 物品图片目录
	ImageDir string `json:"image_dir" yaml:"image_dir"`

	// 日志与输出
	LogLevel   string `json:"log_level" yaml:"log_level"`
	LogFile    string `json:"log_file" yaml:"log_file"`
	ReportPath string `json:"report_path" yaml:"report_path"`
	// CaptureDir 非空时保存每次截图，便于用 -image 离线复现
	CaptureDir string `json:"capture_dir" yaml:"capture_dir"`
}

// DefaultConfig 默认配置
func DefaultConfig() *Config {
	return &Config{
		Threshold:        0.8,
		PixelSensibility: 10,
		UseSIFT:          false,
		TrimToAlpha:      false,
		SizeRatio:        1.0,
		SmallSizeRatio:   0.5,
		OriginalWidth:    1920,
		AlwaysFullscreen: false,
		KeepLastRegion:   true,
		Mode:             string(vision.ModeGray),
		TriggerKey:       "rctrl",
		CaptureBackend:   "robotgo",
		MaxResults:       0,
		ItemDB:           []string{"neondb/items.db"},
		ImageDir:         "neondb/wiki/images",
		LogLevel:         "INFO",
	}
}

// Validate 将越界值修正到安全范围
func (c *Config) Validate() error {
	if c.Threshold < 0 || c.Threshold > 1 {
		c.Threshold = 0.8
	}
	if c.PixelSensibility < 0 {
		c.PixelSensibility = 10
	}
	if c.SizeRatio <= 0 {
		c.SizeRatio = 1.0
	}
	if c.SmallSizeRatio <= 0 {
		c.SmallSizeRatio = 0.5
	}
	if c.MaxResults < 0 {
		c.MaxResults = 0
	}
	if c.TriggerKey == "" {
		c.TriggerKey = "rctrl"
	}
	if c.CaptureBackend == "" {
		c.CaptureBackend = "robotgo"
	}

	mode, err := vision.ParseMode(c.Mode)
	if err != nil {
		return err
	}
	c.Mode = string(mode)

	if c.OriginalWidth <= 0 {
		return fmt.Errorf("original_width 必须大于 0: %d", c.OriginalWidth)
	}
	return nil
}

// ResolverConfig 区域解析器所需配置
func (c *Config) ResolverConfig() region.Config {
	return region.Config{
		TriggerKey:       c.TriggerKey,
		PixelSensibility: c.PixelSensibility,
		KeepLastRegion:   c.KeepLastRegion,
		AlwaysFullscreen: c.AlwaysFullscreen,
	}
}

// EngineConfig 匹配引擎所需配置
func (c *Config) EngineConfig() match.Config {
	strategy := match.StrategyTemplate
	if c.UseSIFT {
		strategy = match.StrategyFeature
	}
	return match.Config{
		Strategy:   strategy,
		Mode:       vision.NormalizationMode(c.Mode),
		Threshold:  c.Threshold,
		MaxResults: c.MaxResults,
	}
}

// ScalingConfig 缩放适配器所需配置
func (c *Config) ScalingConfig() vision.ScalingConfig {
	return vision.ScalingConfig{OriginalWidth: c.OriginalWidth}
}

// CatalogueConfig 图鉴构建所需配置
func (c *Config) CatalogueConfig() catalogue.Config {
	return catalogue.Config{
		Mode:           vision.NormalizationMode(c.Mode),
		TrimToAlpha:    c.TrimToAlpha,
		SizeRatio:      c.SizeRatio,
		SmallSizeRatio: c.SmallSizeRatio,
	}
}

// Manager 配置管理器
type Manager struct {
	configDir  string
	configFile string
	mu         sync.RWMutex
}

// NewManager 创建配置管理器，配置位于 ~/.itemscope/config.json
func NewManager() *Manager {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = "."
	}
	return NewManagerWithDir(filepath.Join(homeDir, ".itemscope"))
}

// NewManagerWithDir 使用指定目录创建配置管理器
func NewManagerWithDir(configDir string) *Manager {
	return &Manager{
		configDir:  configDir,
		configFile: filepath.Join(configDir, "config.json"),
	}
}

// NewManagerWithFile 使用指定配置文件创建配置管理器（支持 .json/.yaml/.yml）
func NewManagerWithFile(path string) *Manager {
	return &Manager{
		configDir:  filepath.Dir(path),
		configFile: path,
	}
}

// Load 加载配置，文件不存在时返回默认配置
func (m *Manager) Load() (*Config, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	cfg := DefaultConfig()
	data, err := os.ReadFile(m.configFile)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("读取配置文件失败: %w", err)
	}

	if m.isYAML() {
		err = yaml.Unmarshal(data, cfg)
	} else {
		err = json.Unmarshal(data, cfg)
	}
	if err != nil {
		return DefaultConfig(), fmt.Errorf("解析配置文件失败: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("配置校验失败: %w", err)
	}
	return cfg, nil
}

// Save 保存配置
func (m *Manager) Save(cfg *Config) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := os.MkdirAll(m.configDir, 0755); err != nil {
		return fmt.Errorf("创建配置目录失败: %w", err)
	}

	var (
		data []byte
		err  error
	)
	if m.isYAML() {
		data, err = yaml.Marshal(cfg)
	} else {
		data, err = json.MarshalIndent(cfg, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("序列化配置失败: %w", err)
	}

	if err := os.WriteFile(m.configFile, data, 0644); err != nil {
		return fmt.Errorf("写入配置文件失败: %w", err)
	}
	return nil
}

// Clear 清除配置
func (m *Manager) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, err := os.Stat(m.configFile); os.IsNotExist(err) {
		return nil
	}
	return os.Remove(m.configFile)
}

// Exists 检查配置文件是否存在
func (m *Manager) Exists() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	_, err := os.Stat(m.configFile)
	return err == nil
}

// GetConfigFile 获取配置文件路径
func (m *Manager) GetConfigFile() string {
	return m.configFile
}

func (m *Manager) isYAML() bool {
	ext := strings.ToLower(filepath.Ext(m.configFile))
	return ext == ".yaml" || ext == ".yml"
}

// 全局配置管理器
var defaultManager = NewManager()

// GetDefaultManager 获取默认配置管理器
func GetDefaultManager() *Manager {
	return defaultManager
}

// Load 使用默认管理器加载配置
func Load() (*Config, error) {
	return defaultManager.Load()
}

// Save 使用默认管理器保存配置
func Save(cfg *Config) error {
	return defaultManager.Save(cfg)
}
