// Package app 提供沙盒应用的核心包装器
//
// 该包把配置、物理、输入、场景和帧循环组装成一个 ebiten.Game，
// main 包只负责解析命令行参数并调用 NewApp()。
//
// 帧循环：TPS 与显示帧率同步，Update 每个显示帧执行一次；
// 逻辑系统由 FixedStepper 以固定步长驱动，渲染系统每帧在 Draw 中执行一次。
package app

import (
	"errors"
	"fmt"
	"image/color"
	"io"
	"log"
	"time"

	"github.com/decker502/flagecs/pkg/config"
	"github.com/decker502/flagecs/pkg/game"
	"github.com/decker502/flagecs/pkg/input"
	"github.com/decker502/flagecs/pkg/physics"
	"github.com/decker502/flagecs/pkg/render"
	"github.com/decker502/flagecs/pkg/scenes"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/quasilyte/gdata/v2"
)

// 调试快捷键
const (
	keyToggleColliders = ebiten.KeyF1
	keyToggleHUD       = ebiten.KeyF2
	keyZoomIn          = ebiten.KeyEqual
	keyZoomOut         = ebiten.KeyMinus
	keyFullscreen      = ebiten.KeyF11
)

// zoomFactor 每次按键的缩放倍率
const zoomFactor = 1.25

// spriteTextureSize 共享精灵贴图的边长（像素）
const spriteTextureSize = 16

// Config 定义应用启动配置
type Config struct {
	// Verbose 启用详细日志输出
	Verbose bool

	// Game 已加载的游戏配置，为 nil 时使用默认配置
	Game *config.GameConfig

	// Storage 设置持久化存储，可为 nil（降级模式，设置只保存在内存中）
	Storage *gdata.Manager

	// 以下字段用于测试注入，为 nil 时使用真实实现

	// World 物理协作者
	World physics.World
	// Input 动作输入来源
	Input input.Source
	// Now 帧计时时钟
	Now func() time.Time
	// KeyJustPressed 调试快捷键检测
	KeyJustPressed func(ebiten.Key) bool
}

// App 是沙盒应用的核心包装器，实现 ebiten.Game 接口
type App struct {
	cfg      *config.GameConfig
	game     *game.Game
	stepper  *game.FixedStepper
	renderer *render.ScreenRenderer
	settings *game.SettingsManager

	now            func() time.Time
	lastFrame      time.Time
	keyJustPressed func(ebiten.Key) bool

	verbose bool
}

// NewApp 创建并初始化沙盒应用
//
// 场景搭建失败（例如实体容量不足）直接返回错误，调用方应终止程序。
func NewApp(cfg Config) (*App, error) {
	// 配置日志输出
	if !cfg.Verbose {
		log.SetOutput(io.Discard)
		log.SetFlags(0)
	}

	gameCfg := cfg.Game
	if gameCfg == nil {
		gameCfg = config.DefaultGameConfig()
	}
	if err := gameCfg.Validate(); err != nil {
		return nil, fmt.Errorf("配置无效: %w", err)
	}

	world := cfg.World
	if world == nil {
		world = physics.NewCPWorld(gameCfg.Physics.Iterations)
	}
	src := cfg.Input
	if src == nil {
		src = input.NewKeyboardSource(gameCfg.Keys)
	}

	g, err := game.NewGame(gameCfg, world, src)
	if err != nil {
		return nil, fmt.Errorf("游戏初始化失败: %w", err)
	}
	if err := scenes.BuildSandbox(g, scenes.NewSpriteTexture(spriteTextureSize)); err != nil {
		return nil, fmt.Errorf("场景搭建失败: %w", err)
	}

	stepper, err := game.NewFixedStepper(gameCfg.Loop.FixedStep, gameCfg.Loop.MaxStepsPerFrame)
	if err != nil {
		return nil, fmt.Errorf("帧循环初始化失败: %w", err)
	}

	settings := game.NewSettingsManager(cfg.Storage)
	g.Camera().Zoom = gameCfg.Camera.Zoom * settings.GetSettings().Zoom
	g.Camera().SetViewport(gameCfg.Window.Width, gameCfg.Window.Height)

	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	keyJustPressed := cfg.KeyJustPressed
	if keyJustPressed == nil {
		keyJustPressed = inpututil.IsKeyJustPressed
	}

	// Update 每个显示帧执行一次，固定步长由 FixedStepper 保证
	ebiten.SetTPS(ebiten.SyncWithFPS)

	stats := g.Stats()
	log.Printf("[App] 初始化完成: %d/%d 个实体, 固定步长 %.4fs", stats.Entities, stats.Capacity, gameCfg.Loop.FixedStep)

	return &App{
		cfg:            gameCfg,
		game:           g,
		stepper:        stepper,
		renderer:       render.NewScreenRenderer(g.Camera()),
		settings:       settings,
		now:            now,
		keyJustPressed: keyJustPressed,
		verbose:        cfg.Verbose,
	}, nil
}

// Update 更新游戏逻辑
// 每个显示帧调用一次；逻辑系统可能执行零次或多次
func (a *App) Update() error {
	now := a.now()
	var delta float64
	if !a.lastFrame.IsZero() {
		delta = now.Sub(a.lastFrame).Seconds()
	}
	a.lastFrame = now

	if err := a.game.CaptureInput(); err != nil {
		if errors.Is(err, game.ErrQuit) {
			// 设置在 RunGame 返回后由 main 统一保存
			return ebiten.Termination
		}
		return err
	}

	a.handleDebugKeys()

	if _, err := a.stepper.Advance(delta, a.game.RunLogicSystems); err != nil {
		return err
	}
	return nil
}

// handleDebugKeys 处理调试快捷键，设置变化立即写入内存
func (a *App) handleDebugKeys() {
	settings := a.settings.GetSettings()

	if a.keyJustPressed(keyToggleColliders) {
		a.settings.ToggleColliders()
		log.Printf("[App] 碰撞体边框: %v", settings.ShowColliders)
	}
	if a.keyJustPressed(keyToggleHUD) {
		a.settings.ToggleHUD()
	}
	if a.keyJustPressed(keyZoomIn) {
		a.setZoom(settings.Zoom * zoomFactor)
	}
	if a.keyJustPressed(keyZoomOut) {
		a.setZoom(settings.Zoom / zoomFactor)
	}
	if a.keyJustPressed(keyFullscreen) {
		fullscreen := !settings.Fullscreen
		a.settings.SetFullscreen(fullscreen)
		ebiten.SetFullscreen(fullscreen)
		log.Printf("[App] 全屏: %v", fullscreen)
	}
}

func (a *App) setZoom(zoom float64) {
	a.settings.SetZoom(zoom)
	a.game.Camera().Zoom = a.cfg.Camera.Zoom * a.settings.GetSettings().Zoom
	log.Printf("[App] 镜头缩放: %.2f", a.settings.GetSettings().Zoom)
}

// Draw 绘制游戏画面
// 每帧调用一次
func (a *App) Draw(screen *ebiten.Image) {
	screen.Fill(color.Black)

	settings := a.settings.GetSettings()
	a.renderer.Begin(screen)
	a.game.RunRenderingSystems(a.renderer, settings.ShowColliders)

	if settings.ShowHUD {
		ebitenutil.DebugPrint(screen, a.hudText())
	}
}

// hudText 左上角调试信息
func (a *App) hudText() string {
	stats := a.game.Stats()
	return fmt.Sprintf(
		"FPS: %.1f  TPS: %.1f\n"+
			"Entities: %d/%d  Sprites: %d  Fixed: %d\n"+
			"Steps: %d (last frame %d)  Dropped: %.3fs\n"+
			"Zoom: %.2f\n"+
			"[WASD] move  [F1] colliders  [F2] HUD  [=/-] zoom  [F11] fullscreen  [Esc] quit",
		ebiten.ActualFPS(), ebiten.ActualTPS(),
		stats.Entities, stats.Capacity, stats.Sprites, stats.Fixed,
		a.stepper.TotalSteps(), a.stepper.LastFrameSteps(), a.stepper.DroppedTime(),
		a.settings.GetSettings().Zoom,
	)
}

// DrawFinalScreen 实现 FinalScreenDrawer 接口
// 用于控制全屏时的缩放和 letterbox 颜色
func (a *App) DrawFinalScreen(screen ebiten.FinalScreen, offscreen *ebiten.Image, geoM ebiten.GeoM) {
	screen.Fill(color.Black)
	op := &ebiten.DrawImageOptions{}
	op.GeoM = geoM
	op.Filter = ebiten.FilterLinear
	screen.DrawImage(offscreen, op)
}

// Layout 返回游戏的逻辑屏幕尺寸
// 此尺寸独立于实际窗口大小，Ebitengine 会自动处理缩放
func (a *App) Layout(outsideWidth, outsideHeight int) (int, int) {
	return a.cfg.Window.Width, a.cfg.Window.Height
}

// Close 持久化用户设置
// 由 main 在 RunGame 返回后调用一次，覆盖退出动作和直接关闭窗口两种情况
func (a *App) Close() error {
	return a.settings.Save()
}

// Game 返回游戏实例
func (a *App) Game() *game.Game {
	return a.game
}

// Stepper 返回固定步长累加器
func (a *App) Stepper() *game.FixedStepper {
	return a.stepper
}

// Settings 返回设置管理器
func (a *App) Settings() *game.SettingsManager {
	return a.settings
}

// IsVerbose 返回是否启用了详细日志
func (a *App) IsVerbose() bool {
	return a.verbose
}
