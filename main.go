package main

import (
	"flag"
	"log"

	"github.com/decker502/flagecs/pkg/app"
	"github.com/decker502/flagecs/pkg/config"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/quasilyte/gdata/v2"
)

func main() {
	verbose := flag.Bool("verbose", false, "启用详细日志输出")
	configPath := flag.String("config", "", "游戏配置文件路径（为空时使用内置的 data/game.yaml）")
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		log.Fatalf("配置加载失败: %v", err)
	}

	// 设置存储失败不是致命错误，设置只保存在内存中
	storage, err := gdata.Open(gdata.Config{AppName: "flagecs"})
	if err != nil {
		log.Printf("[Main] 设置存储不可用: %v", err)
		storage = nil
	}

	gameApp, err := app.NewApp(app.Config{
		Verbose: *verbose,
		Game:    cfg,
		Storage: storage,
	})
	if err != nil {
		log.Fatalf("沙盒初始化失败: %v", err)
	}

	ebiten.SetWindowSize(cfg.Window.Width, cfg.Window.Height)
	ebiten.SetWindowTitle(cfg.Window.Title)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetFullscreen(gameApp.Settings().GetSettings().Fullscreen)

	runErr := ebiten.RunGame(gameApp)
	if err := gameApp.Close(); err != nil {
		log.Printf("[Main] 保存设置失败: %v", err)
	}
	if runErr != nil {
		log.Fatal(runErr)
	}
}

// loadConfig 读取 -config 指定的文件，未指定时解析内置配置
func loadConfig(path string) (*config.GameConfig, error) {
	if path != "" {
		return config.LoadGameConfig(path)
	}
	return config.ParseGameConfig(defaultConfigYAML)
}
