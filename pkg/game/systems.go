package game

import (
	"image/color"
	"log"

	"github.com/decker502/flagecs/pkg/components"
	"github.com/decker502/flagecs/pkg/ecs"
	"github.com/decker502/flagecs/pkg/input"
	"github.com/decker502/flagecs/pkg/render"
	"github.com/jakecoffman/cp"
)

// 各系统使用的查询
const (
	playerQuery        ecs.Query = components.Player | components.Rigidbody
	spriteQuery        ecs.Query = components.Rigidbody | components.Texture
	fixedColliderQuery ecs.Query = components.FixedCollider | components.Collider
)

// colliderOutlineColor 固定碰撞体调试边框颜色
var colliderOutlineColor = color.RGBA{R: 255, A: 255}

// CaptureInput 每个显示帧调用一次，锁存本帧刚按下的动作
//
// 返回:
//   - error: 玩家触发退出时返回 ErrQuit
func (g *Game) CaptureInput() error {
	if g.input.IsJustPressed(input.ActionQuit) {
		log.Printf("[Game] 收到退出指令")
		return ErrQuit
	}
	if g.input.IsJustPressed(input.ActionMoveUp) {
		g.jumpLatched = true
	}
	return nil
}

// PlayerMovementSystem 将玩家输入转换为速度增量，并让镜头跟随玩家
//
// 方向向量归一化后乘以 速度 * dt 叠加到当前线速度；
// 跳跃直接把竖直速度设置为 JumpVelocity。
func (g *Game) PlayerMovementSystem(dt float64) {
	var dir cp.Vector
	if g.input.IsDown(input.ActionMoveRight) {
		dir.X += 1
	}
	if g.input.IsDown(input.ActionMoveLeft) {
		dir.X -= 1
	}
	if g.input.IsDown(input.ActionMoveDown) {
		dir.Y += 1
	}

	force := cp.Vector{}
	if dir.Length() > g.cfg.Player.InputDeadzone {
		force = dir.Normalize().Mult(g.cfg.Player.Speed * dt)
	}

	jump := g.jumpLatched
	g.jumpLatched = false

	for e := range g.registry.Query(playerQuery) {
		rb := g.rigidbodies.MustGet(e)

		v, ok := g.world.LinearVelocity(rb.Handle)
		if !ok {
			log.Printf("[PlayerMovementSystem] 实体 %v 的刚体句柄 %d 无效", e, rb.Handle)
			continue
		}

		vy := v.Y
		if jump {
			vy = g.cfg.Player.JumpVelocity
		}
		g.world.SetLinearVelocity(rb.Handle, cp.Vector{X: v.X + force.X, Y: vy + force.Y})

		if pose, ok := g.world.Pose(rb.Handle); ok {
			g.camera.Follow(pose.Translation, dt, g.cfg.Camera.FollowRate)
		}
	}
}

// PhysicsSystem 以固定步长推进物理模拟
func (g *Game) PhysicsSystem(dt float64) {
	g.world.Step(g.gravity, dt)
}

// RunLogicSystems 执行一个固定步长的全部逻辑系统
// 签名与 FixedStepper.Advance 的回调一致
func (g *Game) RunLogicSystems(dt float64) error {
	g.PlayerMovementSystem(dt)
	g.PhysicsSystem(dt)
	return nil
}

// RenderSpritesSystem 按刚体位姿绘制所有带贴图的实体
func (g *Game) RenderSpritesSystem(r render.Renderer) {
	for e := range g.registry.Query(spriteQuery) {
		tex := g.textures.MustGet(e)
		rb := g.rigidbodies.MustGet(e)

		pose, ok := g.world.Pose(rb.Handle)
		if !ok {
			continue
		}
		r.DrawSprite(tex.Image, pose.Translation, tex.Size.Mult(0.5), tex.Color, pose.Rotation)
	}
}

// RenderFixedCollidersSystem 绘制固定碰撞体的包围盒边框
func (g *Game) RenderFixedCollidersSystem(r render.Renderer) {
	for e := range g.registry.Query(fixedColliderQuery) {
		col := g.colliders.MustGet(e)

		bounds, ok := g.world.ColliderBounds(col.Handle)
		if !ok {
			continue
		}
		r.DrawRectOutline(bounds.Center(), bounds.Extents(), colliderOutlineColor)
	}
}

// RunRenderingSystems 每个显示帧执行一次全部渲染系统
func (g *Game) RunRenderingSystems(r render.Renderer, showColliders bool) {
	if showColliders {
		g.RenderFixedCollidersSystem(r)
	}
	g.RenderSpritesSystem(r)
}
