package components

import (
	"image/color"

	"github.com/decker502/flagecs/pkg/physics"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/jakecoffman/cp"
)

// TextureComponent 实体的贴图、绘制尺寸和着色
// 使用稀疏存储；沙盒中几乎所有实体都有贴图，Game 按 ECS.TextureHint 预分配
type TextureComponent struct {
	Image *ebiten.Image
	// Size 世界坐标下的绘制宽高
	Size  cp.Vector
	Color color.RGBA
}

// RigidbodyComponent 保存物理协作者返回的刚体句柄
type RigidbodyComponent struct {
	Handle physics.BodyHandle
}

// ColliderComponent 保存物理协作者返回的碰撞体句柄
type ColliderComponent struct {
	Handle physics.ColliderHandle
}

// PlayerComponent 玩家标记组件，无字段
type PlayerComponent struct{}

// FixedColliderComponent 固定碰撞体标记组件，无字段
// 与 ColliderComponent 同时存在，表示碰撞体挂在静态刚体上
type FixedColliderComponent struct{}
