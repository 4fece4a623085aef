package config

import (
	"fmt"
	"os"

	"github.com/decker502/flagecs/pkg/input"
	"github.com/jakecoffman/cp"
	"gopkg.in/yaml.v3"
)

// GameConfig 沙盒游戏配置
//
// 配置文件位置: data/game.yaml（编译时嵌入），可通过 -config 参数覆盖。
// 未出现在文件中的字段保留 DefaultGameConfig 的默认值。
type GameConfig struct {
	// Window 窗口设置
	Window WindowConfig `yaml:"window"`

	// ECS 实体注册表与组件容器容量
	ECS ECSConfig `yaml:"ecs"`

	// Loop 固定时间步循环设置
	Loop LoopConfig `yaml:"loop"`

	// Physics 物理世界设置
	Physics PhysicsConfig `yaml:"physics"`

	// Player 玩家移动参数
	Player PlayerConfig `yaml:"player"`

	// Camera 镜头设置
	Camera CameraConfig `yaml:"camera"`

	// Keys 动作到按键的绑定，按键名使用 ebiten 的按键名称（如 "Escape"、"D"）
	Keys input.Bindings `yaml:"keys"`
}

// WindowConfig 窗口设置
type WindowConfig struct {
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	Title  string `yaml:"title"`
}

// ECSConfig 容量设置
type ECSConfig struct {
	// MaxEntities 实体上限，注册表和稠密容器按此预分配
	MaxEntities int `yaml:"maxEntities"`

	// TextureHint 稀疏贴图存储的预期数量
	TextureHint int `yaml:"textureHint"`
}

// LoopConfig 固定时间步设置
type LoopConfig struct {
	// FixedStep 逻辑步长（秒）
	FixedStep float64 `yaml:"fixedStep"`

	// MaxStepsPerFrame 单帧最多执行的逻辑步数，超出的累积时间会被丢弃
	MaxStepsPerFrame int `yaml:"maxStepsPerFrame"`
}

// PhysicsConfig 物理设置
type PhysicsConfig struct {
	// Gravity 重力（y 轴向下为正）
	Gravity cp.Vector `yaml:"gravity"`

	// Iterations 求解器迭代次数，0 表示使用默认值
	Iterations int `yaml:"iterations"`
}

// PlayerConfig 玩家移动参数
type PlayerConfig struct {
	// Speed 每秒施加的速度增量
	Speed float64 `yaml:"speed"`

	// JumpVelocity 跳跃时直接设置的竖直速度（向上为负）
	JumpVelocity float64 `yaml:"jumpVelocity"`

	// InputDeadzone 方向向量长度低于此值时视为无输入
	InputDeadzone float64 `yaml:"inputDeadzone"`
}

// CameraConfig 镜头设置
type CameraConfig struct {
	Target cp.Vector `yaml:"target"`
	Zoom   float64   `yaml:"zoom"`

	// FollowRate 跟随速度，x 轴使用两倍速率
	FollowRate float64 `yaml:"followRate"`
}

// DefaultGameConfig 返回默认配置
func DefaultGameConfig() *GameConfig {
	return &GameConfig{
		Window: WindowConfig{
			Width:  1280,
			Height: 720,
			Title:  "flagecs sandbox",
		},
		ECS: ECSConfig{
			MaxEntities: 2048,
			TextureHint: 1600,
		},
		Loop: LoopConfig{
			FixedStep:        1.0 / 60.0,
			MaxStepsPerFrame: 8,
		},
		Physics: PhysicsConfig{
			Gravity:    cp.Vector{X: 0, Y: 569.1337},
			Iterations: 10,
		},
		Player: PlayerConfig{
			Speed:         1000,
			JumpVelocity:  -800,
			InputDeadzone: 0.1,
		},
		Camera: CameraConfig{
			Target:     cp.Vector{X: 500, Y: 500},
			Zoom:       1,
			FollowRate: 5,
		},
		Keys: input.DefaultBindings(),
	}
}

// LoadGameConfig 从文件加载配置
//
// 参数:
//   - path: 配置文件路径（如 "data/game.yaml"）
//
// 返回:
//   - *GameConfig: 合并默认值并通过校验的配置
//   - error: 读取、解析或校验失败时返回错误
func LoadGameConfig(path string) (*GameConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read game config: %w", err)
	}
	return ParseGameConfig(data)
}

// ParseGameConfig 解析 YAML 配置数据，缺省字段使用默认值
func ParseGameConfig(data []byte) (*GameConfig, error) {
	cfg := DefaultGameConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse game config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid game config: %w", err)
	}

	return cfg, nil
}

// Validate 验证配置的合理性
func (c *GameConfig) Validate() error {
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("window size must be positive, got %dx%d", c.Window.Width, c.Window.Height)
	}
	if c.ECS.MaxEntities <= 0 {
		return fmt.Errorf("ecs.maxEntities must be positive, got %d", c.ECS.MaxEntities)
	}
	if c.ECS.TextureHint < 0 {
		return fmt.Errorf("ecs.textureHint must not be negative, got %d", c.ECS.TextureHint)
	}
	if c.Loop.FixedStep <= 0 {
		return fmt.Errorf("loop.fixedStep must be positive, got %v", c.Loop.FixedStep)
	}
	if c.Loop.MaxStepsPerFrame < 1 {
		return fmt.Errorf("loop.maxStepsPerFrame must be at least 1, got %d", c.Loop.MaxStepsPerFrame)
	}
	if c.Physics.Iterations < 0 {
		return fmt.Errorf("physics.iterations must not be negative, got %d", c.Physics.Iterations)
	}
	if c.Player.InputDeadzone < 0 {
		return fmt.Errorf("player.inputDeadzone must not be negative, got %v", c.Player.InputDeadzone)
	}
	if c.Camera.Zoom <= 0 {
		return fmt.Errorf("camera.zoom must be positive, got %v", c.Camera.Zoom)
	}
	if err := c.Keys.Validate(); err != nil {
		return fmt.Errorf("keys: %w", err)
	}
	return nil
}
