package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/zoeyai/itemscope/internal/logger"
	"github.com/zoeyai/itemscope/pkg/auto/input"
	"github.com/zoeyai/itemscope/pkg/auto/screen"
	"github.com/zoeyai/itemscope/pkg/catalogue"
	"github.com/zoeyai/itemscope/pkg/config"
	"github.com/zoeyai/itemscope/pkg/match"
	"github.com/zoeyai/itemscope/pkg/permissions"
	"github.com/zoeyai/itemscope/pkg/pipeline"
	"github.com/zoeyai/itemscope/pkg/region"
	"github.com/zoeyai/itemscope/pkg/report"
	"github.com/zoeyai/itemscope/pkg/vision"
)

// 版本信息 (可通过 ldflags 注入)
var (
	Version   = "1.0.0"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	// 命令行参数
	var (
		configPath  = flag.String("config", "", "配置文件路径 (.json/.yaml)")
		imagePath   = flag.String("image", "", "离线识别已保存的截图后退出")
		imageWidth  = flag.Int("image-width", 0, "离线截图所在显示器的宽度 (默认取图片宽度)")
		threshold   = flag.Float64("threshold", 0, "模板匹配最低置信度")
		useSIFT     = flag.Bool("sift", false, "使用特征点匹配")
		mode        = flag.String("mode", "", "图像表示: rgb / gray / edge")
		backend     = flag.String("backend", "", "截图后端: robotgo / screenshot")
		reportPath  = flag.String("report", "", "结果图输出路径 (.png)")
		captureDir  = flag.String("capture-dir", "", "保存每次截图的目录")
		logLevel    = flag.String("log-level", "", "日志级别: DEBUG / INFO / WARN / ERROR")
		saveConfig  = flag.Bool("save", false, "保存配置到本地")
		showVersion = flag.Bool("version", false, "显示版本信息")
		showHelp    = flag.Bool("help", false, "显示帮助信息")
	)

	flag.Parse()

	if *showVersion {
		printVersion()
		return
	}

	manager := config.GetDefaultManager()
	if *configPath != "" {
		manager = config.NewManagerWithFile(*configPath)
	}

	if *showHelp {
		printHelp(manager)
		return
	}

	cfg, err := manager.Load()
	if err != nil {
		fmt.Printf("[WARN] 加载配置失败: %v\n", err)
	}

	// 命令行参数优先级高于配置文件
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "threshold":
			cfg.Threshold = *threshold
		case "sift":
			cfg.UseSIFT = *useSIFT
		case "mode":
			cfg.Mode = *mode
		case "backend":
			cfg.CaptureBackend = *backend
		case "report":
			cfg.ReportPath = *reportPath
		case "capture-dir":
			cfg.CaptureDir = *captureDir
		case "log-level":
			cfg.LogLevel = *logLevel
		}
	})
	if err := cfg.Validate(); err != nil {
		fmt.Printf("[ERROR] 配置无效: %v\n", err)
		os.Exit(1)
	}

	if err := setupLogging(cfg); err != nil {
		fmt.Printf("[WARN] 日志文件不可用: %v\n", err)
	}
	defer logger.Default().Close()

	if *saveConfig {
		if err := manager.Save(cfg); err != nil {
			logger.Warn("保存配置失败: %v", err)
		} else {
			logger.Info("配置已保存到 %s", manager.GetConfigFile())
		}
	}

	fmt.Println("========================================")
	fmt.Printf("  ItemScope v%s\n", Version)
	fmt.Println("========================================")

	if err := run(cfg, *imagePath, *imageWidth); err != nil {
		logger.Error("%v", err)
		os.Exit(1)
	}
	logger.Info("已退出")
}

func run(cfg *config.Config, imagePath string, imageWidth int) error {
	logger.Info("Reading DB...")
	records, err := catalogue.LoadRecords(cfg.ItemDB...)
	if err != nil {
		return err
	}
	index, err := catalogue.Build(records, catalogue.NewDirSource(cfg.ImageDir), cfg.CatalogueConfig())
	if err != nil {
		return fmt.Errorf("构建图鉴失败: %w", err)
	}
	defer index.Close()

	engine, err := match.NewEngine(cfg.EngineConfig(), index)
	if err != nil {
		return err
	}
	defer engine.Close()

	scaler, err := vision.NewScalingAdapter(cfg.ScalingConfig())
	if err != nil {
		return err
	}

	presenter := newPresenter(cfg)
	presenter.ShowMessage(pipeline.MessageReady)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var opts []pipeline.Option
	if cfg.CaptureDir != "" {
		opts = append(opts, pipeline.WithCaptureDir(cfg.CaptureDir))
	}

	// 离线模式：把截图当作一整块显示器识别一次
	if imagePath != "" {
		capturer, err := screen.LoadImageCapturer(imagePath, imageWidth)
		if err != nil {
			return err
		}
		runner := pipeline.NewRunner(capturer, scaler, engine, presenter, opts...)
		_, err = runner.Run(ctx, capturer.Bounds())
		return err
	}

	checkPermissions()

	capturer, err := screen.New(cfg.CaptureBackend)
	if err != nil {
		return err
	}
	runner := pipeline.NewRunner(capturer, scaler, engine, presenter, opts...)
	monitors, err := runner.Monitors()
	if err != nil {
		return err
	}
	for _, m := range monitors {
		logger.Debug("显示器 %d: %s", m.Index, m.Bounds())
	}

	source, err := input.NewHookSource(cfg.TriggerKey)
	if err != nil {
		return err
	}
	resolver := region.NewResolver(cfg.ResolverConfig(), monitors)

	logger.Info("按住 %s 拖拽选择区域，点按复用上次区域，Ctrl+C 退出", cfg.TriggerKey)
	return pipeline.NewListener(source, resolver, runner).Run(ctx)
}

// newPresenter 控制台输出，配置了 report_path 时同时输出结果图
func newPresenter(cfg *config.Config) pipeline.Presenter {
	strategy := cfg.EngineConfig().Strategy
	presenters := report.Multi{report.NewConsolePresenter(os.Stdout, strategy)}
	if cfg.ReportPath != "" {
		opts := report.DefaultSheetOptions()
		opts.Strategy = strategy
		presenters = append(presenters, report.NewSheetPresenter(cfg.ReportPath, opts))
	}
	return presenters
}

func setupLogging(cfg *config.Config) error {
	l := logger.Default()
	l.SetLevel(logger.ParseLevel(cfg.LogLevel))
	if cfg.LogFile != "" {
		return l.SetFile(true, cfg.LogFile)
	}
	return nil
}

// checkPermissions 检查键鼠监听与截图权限
func checkPermissions() {
	status := permissions.Check()
	logger.Debug("辅助功能权限: %v, 屏幕录制权限: %v", status.Accessibility, status.ScreenRecording)
	if status.AllGranted() {
		return
	}

	logger.Warn("%s", permissions.Instructions(status))
	if !status.Accessibility {
		permissions.RequestAccessibility()
	}
	permissions.OpenSettings(status)
}

// printVersion 打印版本信息
func printVersion() {
	fmt.Printf("ItemScope v%s\n", Version)
	fmt.Printf("Build Time: %s\n", BuildTime)
	fmt.Printf("Git Commit: %s\n", GitCommit)
}

// printHelp 打印帮助信息
func printHelp(manager *config.Manager) {
	fmt.Println("ItemScope - 屏幕物品识别工具")
	fmt.Println()
	fmt.Println("用法:")
	fmt.Println("  itemscope [选项]")
	fmt.Println()
	fmt.Println("选项:")
	flag.PrintDefaults()
	fmt.Println()
	fmt.Println("示例:")
	fmt.Println("  # 监听触发键，拖拽选择区域后识别")
	fmt.Println("  itemscope")
	fmt.Println()
	fmt.Println("  # 使用特征点匹配并输出结果图")
	fmt.Println("  itemscope -sift -report results.png")
	fmt.Println()
	fmt.Println("  # 离线识别 2560 宽显示器上保存的截图")
	fmt.Println("  itemscope -image neondb/captures/pause.png -image-width 2560")
	fmt.Println()
	fmt.Printf("配置文件位置: %s\n", manager.GetConfigFile())
}
