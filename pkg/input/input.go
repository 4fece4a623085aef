// Package input 提供按动作查询的输入协作者
//
// 游戏逻辑只依赖 Source 接口和固定的 Action 枚举，
// 具体按键由配置中的绑定表决定。
package input

import (
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// Action 输入动作
type Action string

const (
	// ActionQuit 立即退出
	ActionQuit Action = "quit"
	// ActionMoveRight 向右移动
	ActionMoveRight Action = "move_right"
	// ActionMoveLeft 向左移动
	ActionMoveLeft Action = "move_left"
	// ActionMoveUp 跳跃（按下瞬间施加一次冲量，而不是持续移动）
	ActionMoveUp Action = "move_up"
	// ActionMoveDown 向下加速
	ActionMoveDown Action = "move_down"
)

// AllActions 返回所有动作，顺序固定
func AllActions() []Action {
	return []Action{ActionQuit, ActionMoveRight, ActionMoveLeft, ActionMoveUp, ActionMoveDown}
}

// Source 输入协作者
type Source interface {
	// IsDown 动作对应的按键当前是否按下
	IsDown(action Action) bool
	// IsJustPressed 动作对应的按键是否在本帧刚刚按下
	IsJustPressed(action Action) bool
}

// Bindings 动作到按键的绑定表
type Bindings map[Action]ebiten.Key

// DefaultBindings 返回默认绑定：Esc 退出，WASD 移动
func DefaultBindings() Bindings {
	return Bindings{
		ActionQuit:      ebiten.KeyEscape,
		ActionMoveRight: ebiten.KeyD,
		ActionMoveLeft:  ebiten.KeyA,
		ActionMoveUp:    ebiten.KeyW,
		ActionMoveDown:  ebiten.KeyS,
	}
}

// Validate 检查每个动作都有绑定
func (b Bindings) Validate() error {
	for _, a := range AllActions() {
		if _, ok := b[a]; !ok {
			return fmt.Errorf("action %q has no key binding", a)
		}
	}
	for a := range b {
		if !isKnownAction(a) {
			return fmt.Errorf("unknown action %q in key bindings", a)
		}
	}
	return nil
}

func isKnownAction(a Action) bool {
	for _, known := range AllActions() {
		if a == known {
			return true
		}
	}
	return false
}

// KeyboardSource 基于 ebiten 键盘状态的 Source 实现
type KeyboardSource struct {
	bindings Bindings
}

// NewKeyboardSource 创建键盘输入源
func NewKeyboardSource(bindings Bindings) *KeyboardSource {
	return &KeyboardSource{bindings: bindings}
}

// IsDown 实现 Source
func (s *KeyboardSource) IsDown(action Action) bool {
	key, ok := s.bindings[action]
	return ok && ebiten.IsKeyPressed(key)
}

// IsJustPressed 实现 Source
func (s *KeyboardSource) IsJustPressed(action Action) bool {
	key, ok := s.bindings[action]
	return ok && inpututil.IsKeyJustPressed(key)
}

// StaticSource 是固定状态的 Source，用于无窗口运行和测试
type StaticSource struct {
	Down        map[Action]bool
	JustPressed map[Action]bool
}

// IsDown 实现 Source
func (s *StaticSource) IsDown(action Action) bool {
	return s.Down[action]
}

// IsJustPressed 实现 Source
func (s *StaticSource) IsJustPressed(action Action) bool {
	return s.JustPressed[action]
}
