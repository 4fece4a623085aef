package game

import (
	"errors"
	"fmt"
	"log"

	"github.com/decker502/flagecs/pkg/components"
	"github.com/decker502/flagecs/pkg/config"
	"github.com/decker502/flagecs/pkg/ecs"
	"github.com/decker502/flagecs/pkg/input"
	"github.com/decker502/flagecs/pkg/physics"
	"github.com/decker502/flagecs/pkg/render"
	"github.com/jakecoffman/cp"
)

// ErrQuit 玩家触发了退出动作
var ErrQuit = errors.New("game: quit requested")

// Game 沙盒游戏的状态聚合
//
// Game 独占实体注册表、全部组件容器以及物理/输入/镜头协作者，
// 只在单线程帧循环中使用。通过 NewGame 显式构造，没有全局单例。
type Game struct {
	cfg *config.GameConfig

	// ECS
	registry       *ecs.Registry
	textures       *ecs.Sparse[components.TextureComponent]
	rigidbodies    *ecs.Dense[components.RigidbodyComponent]
	colliders      *ecs.Dense[components.ColliderComponent]
	fixedColliders *ecs.Dense[components.FixedColliderComponent]
	players        *ecs.Dense[components.PlayerComponent]

	// 协作者
	world  physics.World
	input  input.Source
	camera *render.Camera

	gravity cp.Vector

	// 帧间锁存的输入：一帧内可能执行零次逻辑步，刚按下的动作不能丢失
	jumpLatched bool
}

// NewGame 创建游戏实例
//
// 参数:
//   - cfg: 已校验的配置（容量、重力、玩家参数、镜头）
//   - world: 物理协作者
//   - src: 输入协作者
//
// 返回:
//   - *Game: 游戏实例
//   - error: 配置无效时返回错误
func NewGame(cfg *config.GameConfig, world physics.World, src input.Source) (*Game, error) {
	if cfg == nil {
		return nil, errors.New("game: nil config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("game: %w", err)
	}
	if world == nil || src == nil {
		return nil, errors.New("game: physics world and input source are required")
	}

	capacity := cfg.ECS.MaxEntities
	return &Game{
		cfg:            cfg,
		registry:       ecs.NewRegistry(capacity),
		textures:       ecs.NewSparse[components.TextureComponent](cfg.ECS.TextureHint),
		rigidbodies:    ecs.NewDense[components.RigidbodyComponent](capacity),
		colliders:      ecs.NewDense[components.ColliderComponent](capacity),
		fixedColliders: ecs.NewDense[components.FixedColliderComponent](capacity),
		players:        ecs.NewDense[components.PlayerComponent](capacity),
		world:          world,
		input:          src,
		camera:         render.NewCamera(cfg.Camera.Target, cfg.Camera.Zoom),
		gravity:        cfg.Physics.Gravity,
	}, nil
}

// Registry 返回实体注册表（只读用途：查询与诊断）
func (g *Game) Registry() *ecs.Registry {
	return g.registry
}

// Camera 返回镜头
func (g *Game) Camera() *render.Camera {
	return g.camera
}

// Config 返回配置
func (g *Game) Config() *config.GameConfig {
	return g.cfg
}

// NewEntity 创建带调试标签的实体
// 容量耗尽返回 ecs.ErrCapacityExceeded，场景搭建阶段应视为致命错误
func (g *Game) NewEntity(label string) (ecs.Entity, error) {
	e, err := g.registry.Create(label)
	if err != nil {
		log.Printf("[Game] 创建实体 %q 失败: %v", label, err)
		return ecs.Entity{}, err
	}
	return e, nil
}

// AddTexture 挂载贴图组件
func (g *Game) AddTexture(e ecs.Entity, tex components.TextureComponent) error {
	return ecs.Attach(g.registry, g.textures, components.Texture, e, tex)
}

// AddPlayer 挂载玩家标记组件
func (g *Game) AddPlayer(e ecs.Entity) error {
	return ecs.Attach(g.registry, g.players, components.Player, e, components.PlayerComponent{})
}

// AddPhysics 在物理协作者中创建刚体和碰撞体，并把句柄作为组件挂载
//
// 刚体与碰撞体两个组件要么同时挂载，要么都不挂载：
// 协作者创建失败时实体保持原样，挂载失败时回收已创建的物理对象。
func (g *Game) AddPhysics(e ecs.Entity, body physics.BodyDesc, collider physics.ColliderDesc) error {
	if !g.registry.IsAlive(e) {
		return fmt.Errorf("add physics to %v: %w", e, ecs.ErrEntityNotFound)
	}
	if g.rigidbodies.Has(e) {
		return fmt.Errorf("add physics to %v (%s): entity already has a rigidbody", e, g.registry.Label(e))
	}

	bodyHandle, colliderHandle, err := g.world.CreateBody(body, collider)
	if err != nil {
		return fmt.Errorf("add physics to %v (%s): %w", e, g.registry.Label(e), err)
	}

	if err := ecs.Attach(g.registry, g.rigidbodies, components.Rigidbody, e,
		components.RigidbodyComponent{Handle: bodyHandle}); err != nil {
		g.world.RemoveBody(bodyHandle, colliderHandle)
		return err
	}
	if err := ecs.Attach(g.registry, g.colliders, components.Collider, e,
		components.ColliderComponent{Handle: colliderHandle}); err != nil {
		_ = ecs.Detach(g.registry, g.rigidbodies, components.Rigidbody, e)
		g.world.RemoveBody(bodyHandle, colliderHandle)
		return err
	}
	return nil
}

// AddFixedCollider 以静态刚体挂载碰撞体，并打上 FixedCollider 标记
// collider.Translation 即碰撞体的世界坐标
func (g *Game) AddFixedCollider(e ecs.Entity, collider physics.ColliderDesc) error {
	if err := g.AddPhysics(e, physics.FixedBody(), collider); err != nil {
		return err
	}
	return ecs.Attach(g.registry, g.fixedColliders, components.FixedCollider, e, components.FixedColliderComponent{})
}

// RemoveEntity 删除实体并级联清理
//
// 依次移除物理对象、卸载所有组件，最后使句柄失效。
// 删除后该实体不会出现在任何查询结果中，容器中也不会残留旧数据。
func (g *Game) RemoveEntity(e ecs.Entity) error {
	flags, ok := g.registry.Flags(e)
	if !ok {
		return fmt.Errorf("remove %v: %w", e, ecs.ErrEntityNotFound)
	}
	label := g.registry.Label(e)

	if flags.Contains(components.Rigidbody) || flags.Contains(components.Collider) {
		rb, _ := g.rigidbodies.Get(e)
		col, _ := g.colliders.Get(e)
		g.world.RemoveBody(rb.Handle, col.Handle)
	}

	var errs []error
	errs = append(errs,
		ecs.Detach(g.registry, g.textures, components.Texture, e),
		ecs.Detach(g.registry, g.rigidbodies, components.Rigidbody, e),
		ecs.Detach(g.registry, g.colliders, components.Collider, e),
		ecs.Detach(g.registry, g.fixedColliders, components.FixedCollider, e),
		ecs.Detach(g.registry, g.players, components.Player, e),
		g.registry.Remove(e),
	)
	if err := errors.Join(errs...); err != nil {
		return err
	}

	log.Printf("[Game] 删除实体 %v (%s), 组件: %s", e, label, components.Describe(flags))
	return nil
}

// Texture 读取贴图组件（带检查）
func (g *Game) Texture(e ecs.Entity) (components.TextureComponent, bool) {
	return g.textures.Get(e)
}

// Rigidbody 读取刚体组件（带检查）
func (g *Game) Rigidbody(e ecs.Entity) (components.RigidbodyComponent, bool) {
	return g.rigidbodies.Get(e)
}

// Collider 读取碰撞体组件（带检查）
func (g *Game) Collider(e ecs.Entity) (components.ColliderComponent, bool) {
	return g.colliders.Get(e)
}

// IsPlayer 判断实体是否为玩家
func (g *Game) IsPlayer(e ecs.Entity) bool {
	return g.players.Has(e)
}

// Stats 运行时统计，用于调试信息显示
type Stats struct {
	Entities int
	Capacity int
	Sprites  int
	Bodies   int
	Fixed    int
	Players  int
}

// Stats 返回当前统计
func (g *Game) Stats() Stats {
	return Stats{
		Entities: g.registry.Len(),
		Capacity: g.registry.Capacity(),
		Sprites:  g.registry.Count(spriteQuery),
		Bodies:   g.rigidbodies.Len(),
		Fixed:    g.fixedColliders.Len(),
		Players:  g.players.Len(),
	}
}
