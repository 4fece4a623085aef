// Package scenes 负责组装场景：创建实体并挂载组件
package scenes

import (
	"fmt"
	"image/color"
	"log"

	"github.com/decker502/flagecs/pkg/components"
	"github.com/decker502/flagecs/pkg/game"
	"github.com/decker502/flagecs/pkg/physics"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/jakecoffman/cp"
)

// 小球网格
const (
	BallColumns = 50
	BallRows    = 30

	ballRadius      = 5.0
	ballRestitution = 0.8
	ballMass        = 1.0
	ballSpacing     = 10.0
	ballColumnShift = 30
)

// SandboxEntityCount 沙盒场景创建的实体总数：两块地面、小球网格、玩家
const SandboxEntityCount = 2 + BallColumns*BallRows + 1

var (
	ballColor   = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	playerColor = color.RGBA{R: 125, G: 72, B: 252, A: 255}
)

// groundPlatform 固定地面平台
type groundPlatform struct {
	halfWidth, halfHeight float64
	x, y                  float64
}

var sandboxGrounds = []groundPlatform{
	{halfWidth: 800, halfHeight: 10, x: 500, y: 700},
	{halfWidth: 100, halfHeight: 10, x: 500, y: 500},
}

// NewSpriteTexture 创建纯白的方形贴图，颜色由绘制时的 tint 决定
func NewSpriteTexture(size int) *ebiten.Image {
	img := ebiten.NewImage(size, size)
	img.Fill(color.White)
	return img
}

// BuildSandbox 在 g 中搭建沙盒场景
//
// 场景包含：
//   - 两块固定地面
//   - 50x30 的动态小球网格
//   - 一个玩家角色
//
// 任何实体创建失败都会中止搭建并返回错误，调用方应视为致命错误。
func BuildSandbox(g *game.Game, texture *ebiten.Image) error {
	for _, ground := range sandboxGrounds {
		e, err := g.NewEntity("Ground")
		if err != nil {
			return fmt.Errorf("build ground: %w", err)
		}
		collider := physics.Cuboid(ground.halfWidth, ground.halfHeight).WithTranslation(ground.x, ground.y)
		if err := g.AddFixedCollider(e, collider); err != nil {
			return fmt.Errorf("build ground: %w", err)
		}
	}

	for i := 0; i < BallColumns; i++ {
		for j := 0; j < BallRows; j++ {
			if err := addBall(g, texture, i, j); err != nil {
				return err
			}
		}
	}

	if err := addPlayer(g, texture); err != nil {
		return err
	}

	log.Printf("[Scenes] 沙盒场景搭建完成: %d 个实体", g.Registry().Len())
	return nil
}

func addBall(g *game.Game, texture *ebiten.Image, i, j int) error {
	e, err := g.NewEntity("Ball")
	if err != nil {
		return fmt.Errorf("build ball (%d, %d): %w", i, j, err)
	}

	if err := g.AddTexture(e, components.TextureComponent{
		Image: texture,
		Size:  cp.Vector{X: 10, Y: 10},
		Color: ballColor,
	}); err != nil {
		return fmt.Errorf("build ball (%d, %d): %w", i, j, err)
	}

	x := float64(i+ballColumnShift) * ballSpacing
	y := float64(j) * ballSpacing
	body := physics.DynamicBody().WithPosition(x, y)
	collider := physics.Ball(ballRadius).WithRestitution(ballRestitution).WithMass(ballMass)
	if err := g.AddPhysics(e, body, collider); err != nil {
		return fmt.Errorf("build ball (%d, %d): %w", i, j, err)
	}
	return nil
}

func addPlayer(g *game.Game, texture *ebiten.Image) error {
	e, err := g.NewEntity("Player")
	if err != nil {
		return fmt.Errorf("build player: %w", err)
	}

	if err := g.AddTexture(e, components.TextureComponent{
		Image: texture,
		Size:  cp.Vector{X: 20, Y: 40},
		Color: playerColor,
	}); err != nil {
		return fmt.Errorf("build player: %w", err)
	}

	body := physics.DynamicBody().
		WithPosition(500, 200).
		WithLinearDamping(0.99).
		WithLockedRotation()
	collider := physics.RoundCuboid(10, 20, 3).
		WithRestitution(1).
		WithFriction(0.9)
	if err := g.AddPhysics(e, body, collider); err != nil {
		return fmt.Errorf("build player: %w", err)
	}

	if err := g.AddPlayer(e); err != nil {
		return fmt.Errorf("build player: %w", err)
	}
	return nil
}
