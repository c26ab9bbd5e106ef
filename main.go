package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/emoji-hub/emoji-hub/internal/cache"
	"github.com/emoji-hub/emoji-hub/internal/cdn"
	"github.com/emoji-hub/emoji-hub/internal/config"
	"github.com/emoji-hub/emoji-hub/internal/logging"
	"github.com/emoji-hub/emoji-hub/internal/server"
	"github.com/emoji-hub/emoji-hub/internal/server/routes"
	"github.com/emoji-hub/emoji-hub/internal/version"
)

// cliOptions 汇总 CLI 标志解析后的结果，便于在测试中注入。
type cliOptions struct {
	configPath  string
	checkOnly   bool
	showVersion bool
}

var (
	stdOut io.Writer = os.Stdout
	stdErr io.Writer = os.Stderr
)

func main() {
	opts, err := parseCLIFlags(os.Args[1:])
	if err != nil {
		fmt.Fprintln(stdErr, err.Error())
		os.Exit(2)
	}
	os.Exit(run(opts))
}

// run 根据解析到的 CLI 选项执行业务流程，并返回退出码，方便测试。
func run(opts cliOptions) int {
	if opts.showVersion {
		printVersion()
		return 0
	}

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		fmt.Fprintf(stdErr, "加载配置失败: %v\n", err)
		return 1
	}

	logger, err := logging.InitLogger(cfg.Global)
	if err != nil {
		fmt.Fprintf(stdErr, "初始化日志失败: %v\n", err)
		return 1
	}

	if opts.checkOnly {
		fields := logging.BaseFields("check_config", opts.configPath)
		fields["cache_mode"] = cfg.Global.CacheMode()
		fields["emoji_size"] = cfg.Global.EmojiSize
		fields["result"] = "ok"
		logger.WithFields(fields).Info("配置校验通过")
		return 0
	}

	// CLI 启动遵循“配置 → CDN 客户端 → 缓存管理器 → Bootstrap → Fiber server”
	// 顺序，保证所有请求共享同一份去重集合与根目录解析结果。
	httpClient := cdn.NewClient(cfg.Global.UpstreamTimeout.DurationValue())
	fetcher := cdn.NewFetcher(httpClient, cfg.Global.CDNBaseURL)

	manager, err := cache.NewManager(cache.Options{
		RootOverride: cfg.Global.CacheDirectory,
		Size:         cfg.Global.EmojiSize,
		Fetcher:      fetcher,
		Logger:       logger,
	})
	if err != nil {
		fmt.Fprintf(stdErr, "初始化缓存管理器失败: %v\n", err)
		return 1
	}

	recognized := manager.Bootstrap()

	fields := logging.BaseFields("startup", opts.configPath)
	fields["cache_root"] = manager.Root()
	fields["recognized"] = recognized
	fields["emoji_size"] = cfg.Global.EmojiSize
	fields["listen_port"] = cfg.Global.ListenPort
	fields["version"] = version.Full()
	logger.WithFields(fields).Info("缓存引导完成")

	if err := startHTTPServer(cfg, manager, logger); err != nil {
		fmt.Fprintf(stdErr, "HTTP 服务启动失败: %v\n", err)
		return 1
	}
	return 0
}

// parseCLIFlags 解析 CLI 参数，并结合环境变量计算最终的配置路径。
func parseCLIFlags(args []string) (cliOptions, error) {
	fs := flag.NewFlagSet("emoji-hub", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var (
		configFlag string
		checkOnly  bool
		showVer    bool
	)

	fs.StringVar(&configFlag, "config", "", "配置文件路径（默认 ./config.toml，可被 EMOJI_HUB_CONFIG 覆盖）")
	fs.BoolVar(&checkOnly, "check-config", false, "仅校验配置后退出")
	fs.BoolVar(&showVer, "version", false, "显示版本信息")

	if err := fs.Parse(args); err != nil {
		return cliOptions{}, fmt.Errorf("解析参数失败: %w", err)
	}

	path := os.Getenv("EMOJI_HUB_CONFIG")
	if configFlag != "" {
		path = configFlag
	}
	if path == "" {
		path = "config.toml"
	}

	return cliOptions{
		configPath:  path,
		checkOnly:   checkOnly,
		showVersion: showVer,
	}, nil
}

func startHTTPServer(cfg *config.Config, manager *cache.Manager, logger *logrus.Logger) error {
	port := cfg.Global.ListenPort
	app, err := server.NewApp(server.AppOptions{
		Logger:     logger,
		Manager:    manager,
		ListenPort: port,
	})
	if err != nil {
		return err
	}
	routes.RegisterEmojiRoutes(app, manager, logger)

	logger.WithFields(logrus.Fields{
		"action": "listen",
		"port":   port,
	}).Info("Fiber 服务启动")

	return app.Listen(fmt.Sprintf(":%d", port))
}
