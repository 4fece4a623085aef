package scenes

import (
	"errors"
	"testing"

	"github.com/decker502/flagecs/pkg/components"
	"github.com/decker502/flagecs/pkg/config"
	"github.com/decker502/flagecs/pkg/ecs"
	"github.com/decker502/flagecs/pkg/game"
	"github.com/decker502/flagecs/pkg/input"
	"github.com/decker502/flagecs/pkg/physics"
)

func newSandboxGame(t *testing.T, maxEntities int) (*game.Game, *physics.CPWorld) {
	t.Helper()
	cfg := config.DefaultGameConfig()
	cfg.ECS.MaxEntities = maxEntities
	world := physics.NewCPWorld(cfg.Physics.Iterations)
	g, err := game.NewGame(cfg, world, &input.StaticSource{})
	if err != nil {
		t.Fatalf("NewGame() error: %v", err)
	}
	return g, world
}

func TestBuildSandbox(t *testing.T) {
	g, world := newSandboxGame(t, config.DefaultGameConfig().ECS.MaxEntities)

	if err := BuildSandbox(g, NewSpriteTexture(10)); err != nil {
		t.Fatalf("BuildSandbox() error: %v", err)
	}

	r := g.Registry()
	tests := []struct {
		name  string
		query ecs.Query
		want  int
	}{
		{"all entities", ecs.Empty(), SandboxEntityCount},
		{"sprites", components.Rigidbody | components.Texture, BallColumns*BallRows + 1},
		{"fixed colliders", components.FixedCollider | components.Collider, 2},
		{"players", components.Player | components.Rigidbody, 1},
		{"bodies", components.Rigidbody | components.Collider, SandboxEntityCount},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := r.Count(tt.query); got != tt.want {
				t.Errorf("Count(%s) = %d, want %d", components.Describe(tt.query), got, tt.want)
			}
		})
	}

	if world.BodyCount() != SandboxEntityCount {
		t.Errorf("physics world has %d bodies, want %d", world.BodyCount(), SandboxEntityCount)
	}
}

func TestBuildSandboxPlayer(t *testing.T) {
	g, world := newSandboxGame(t, config.DefaultGameConfig().ECS.MaxEntities)
	if err := BuildSandbox(g, NewSpriteTexture(10)); err != nil {
		t.Fatalf("BuildSandbox() error: %v", err)
	}

	players := g.Registry().Collect(components.Player)
	if len(players) != 1 {
		t.Fatalf("found %d players, want 1", len(players))
	}
	player := players[0]

	if label := g.Registry().Label(player); label != "Player" {
		t.Errorf("player label = %q", label)
	}
	tex, ok := g.Texture(player)
	if !ok || tex.Color != playerColor || tex.Size.X != 20 || tex.Size.Y != 40 {
		t.Errorf("player texture = %+v, %v", tex, ok)
	}

	rb, _ := g.Rigidbody(player)
	pose, ok := world.Pose(rb.Handle)
	if !ok || pose.Translation.X != 500 || pose.Translation.Y != 200 {
		t.Errorf("player pose = %+v, %v, want (500, 200)", pose, ok)
	}
}

func TestBuildSandboxCapacityExceeded(t *testing.T) {
	g, _ := newSandboxGame(t, 100)

	err := BuildSandbox(g, NewSpriteTexture(10))
	if !errors.Is(err, ecs.ErrCapacityExceeded) {
		t.Errorf("BuildSandbox() = %v, want ErrCapacityExceeded", err)
	}
}

// TestSandboxSettles 小球在重力作用下下落，玩家不会穿过地面且保持直立
func TestSandboxSettles(t *testing.T) {
	g, world := newSandboxGame(t, config.DefaultGameConfig().ECS.MaxEntities)
	if err := BuildSandbox(g, NewSpriteTexture(10)); err != nil {
		t.Fatalf("BuildSandbox() error: %v", err)
	}

	// 查询按槽位顺序返回，第一个精灵是左上角的小球 (300, 0)
	corner := g.Registry().Collect(components.Rigidbody | components.Texture)[0]
	cornerBody, _ := g.Rigidbody(corner)
	player := g.Registry().Collect(components.Player)[0]
	playerBody, _ := g.Rigidbody(player)

	dt := g.Config().Loop.FixedStep
	for i := 0; i < 120; i++ {
		if err := g.RunLogicSystems(dt); err != nil {
			t.Fatalf("RunLogicSystems() error: %v", err)
		}
	}

	ball, _ := world.Pose(cornerBody.Handle)
	if ball.Translation.Y <= 0 {
		t.Errorf("corner ball y = %v, should have fallen", ball.Translation.Y)
	}
	// 下层地面顶面 y = 690
	if ball.Translation.Y > 690 {
		t.Errorf("corner ball y = %v, fell through the ground", ball.Translation.Y)
	}

	end, _ := world.Pose(playerBody.Handle)
	if end.Translation.Y > 690 {
		t.Errorf("player y = %v, fell through the ground", end.Translation.Y)
	}
	if end.Rotation != 0 {
		t.Errorf("player rotation = %v, want locked at 0", end.Rotation)
	}
}
