package main

import (
	"flag"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/osman-haider/SmartXBot/browser"
	"github.com/osman-haider/SmartXBot/configs"
	"github.com/osman-haider/SmartXBot/cookies"
	"github.com/osman-haider/SmartXBot/replygen"
	"github.com/osman-haider/SmartXBot/server"
	"github.com/osman-haider/SmartXBot/store"
)

func main() {
	var (
		headless  bool
		binPath   string // 浏览器二进制文件路径
		port      string
		stdioMode bool // 是否使用 STDIO 模式
	)
	flag.BoolVar(&headless, "headless", true, "是否无头模式")
	flag.StringVar(&binPath, "bin", "", "浏览器二进制文件路径")
	flag.StringVar(&port, "port", ":8000", "端口")
	flag.BoolVar(&stdioMode, "stdio", false, "使用 STDIO 模式（用于 MCP 客户端）")
	flag.Parse()

	if len(binPath) == 0 {
		binPath = os.Getenv("ROD_BROWSER_BIN")
	}

	cfg := configs.Load()
	cfg.ApplyLogLevel()

	configs.InitHeadless(headless)
	configs.SetBinPath(binPath)

	st, err := store.New(cfg.DBPath())
	if err != nil {
		logrus.Fatalf("failed to open store: %v", err)
	}
	defer st.Close()

	generator := replygen.NewGenerator(
		replygen.NewOllamaClient(cfg.OllamaURL, cfg.OllamaModel),
		cfg.ReplyEmail,
	)
	backendServer := server.New(st, generator, cfg.KeywordsFile)

	manager := browser.NewManager(configs.IsHeadless(), configs.GetBinPath(), cookies.GetCookiesFilePath())
	defer manager.CloseBrowser()

	appServer := NewAppServer(NewBotService(cfg, manager), backendServer)

	// 根据模式选择启动方式
	if stdioMode {
		// STDIO 模式：只运行 MCP 服务器，回复服务需单独启动
		logrus.Info("starting MCP server over stdio")
		if err := appServer.StartSTDIO(); err != nil {
			logrus.Errorf("failed to run STDIO server: %v", err)
		}
		return
	}

	if err := appServer.Start(port); err != nil {
		logrus.Errorf("failed to run server: %v", err)
	}
}
