package game

import (
	"errors"
	"image/color"
	"testing"

	"github.com/decker502/flagecs/pkg/components"
	"github.com/decker502/flagecs/pkg/config"
	"github.com/decker502/flagecs/pkg/ecs"
	"github.com/decker502/flagecs/pkg/input"
	"github.com/decker502/flagecs/pkg/physics"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/jakecoffman/cp"
)

// fakeBody 是 fakeWorld 中的一个刚体
type fakeBody struct {
	desc     physics.BodyDesc
	collider physics.ColliderDesc
	pose     physics.Pose
	velocity cp.Vector
}

// fakeWorld 是记录调用的 physics.World 实现，运动学只做显式欧拉积分
type fakeWorld struct {
	bodies    map[physics.BodyHandle]*fakeBody
	colliders map[physics.ColliderHandle]physics.BodyHandle
	next      uint32

	steps      int
	stepDeltas []float64
	lastG      cp.Vector
	failCreate bool
}

func newFakeWorld() *fakeWorld {
	return &fakeWorld{
		bodies:    make(map[physics.BodyHandle]*fakeBody),
		colliders: make(map[physics.ColliderHandle]physics.BodyHandle),
	}
}

func (w *fakeWorld) CreateBody(desc physics.BodyDesc, collider physics.ColliderDesc) (physics.BodyHandle, physics.ColliderHandle, error) {
	if w.failCreate {
		return 0, 0, errors.New("fake: create failed")
	}
	w.next++
	bh := physics.BodyHandle(w.next)
	ch := physics.ColliderHandle(w.next)
	w.bodies[bh] = &fakeBody{
		desc:     desc,
		collider: collider,
		pose:     physics.Pose{Translation: desc.Position.Add(collider.Translation), Rotation: desc.Rotation},
	}
	w.colliders[ch] = bh
	return bh, ch, nil
}

func (w *fakeWorld) RemoveBody(body physics.BodyHandle, collider physics.ColliderHandle) {
	delete(w.bodies, body)
	delete(w.colliders, collider)
}

func (w *fakeWorld) Step(gravity cp.Vector, dt float64) {
	w.steps++
	w.stepDeltas = append(w.stepDeltas, dt)
	w.lastG = gravity
	for _, b := range w.bodies {
		if b.desc.Kind == physics.BodyFixed {
			continue
		}
		b.pose.Translation = b.pose.Translation.Add(b.velocity.Mult(dt))
	}
}

func (w *fakeWorld) Pose(body physics.BodyHandle) (physics.Pose, bool) {
	b, ok := w.bodies[body]
	if !ok {
		return physics.Pose{}, false
	}
	return b.pose, true
}

func (w *fakeWorld) LinearVelocity(body physics.BodyHandle) (cp.Vector, bool) {
	b, ok := w.bodies[body]
	if !ok {
		return cp.Vector{}, false
	}
	return b.velocity, true
}

func (w *fakeWorld) SetLinearVelocity(body physics.BodyHandle, v cp.Vector) bool {
	b, ok := w.bodies[body]
	if !ok {
		return false
	}
	b.velocity = v
	return true
}

func (w *fakeWorld) ColliderBounds(collider physics.ColliderHandle) (physics.AABB, bool) {
	bh, ok := w.colliders[collider]
	if !ok {
		return physics.AABB{}, false
	}
	b := w.bodies[bh]
	half := b.collider.HalfExtents
	if b.collider.Shape == physics.ShapeBall {
		half = cp.Vector{X: b.collider.Radius, Y: b.collider.Radius}
	}
	return physics.AABB{
		Min: b.pose.Translation.Sub(half),
		Max: b.pose.Translation.Add(half),
	}, true
}

// spriteCall 记录一次精灵绘制
type spriteCall struct {
	img      *ebiten.Image
	pos      cp.Vector
	halfSize cp.Vector
	tint     color.RGBA
	rotation float64
}

// rectCall 记录一次矩形边框绘制
type rectCall struct {
	center  cp.Vector
	extents cp.Vector
}

// fakeRenderer 记录所有绘制调用
type fakeRenderer struct {
	sprites []spriteCall
	rects   []rectCall
}

func (r *fakeRenderer) DrawSprite(img *ebiten.Image, pos, halfSize cp.Vector, tint color.RGBA, rotation float64) {
	r.sprites = append(r.sprites, spriteCall{img: img, pos: pos, halfSize: halfSize, tint: tint, rotation: rotation})
}

func (r *fakeRenderer) DrawRectOutline(center, extents cp.Vector, _ color.RGBA) {
	r.rects = append(r.rects, rectCall{center: center, extents: extents})
}

// newTestGame 创建使用 fake 协作者的游戏实例
func newTestGame(t *testing.T, maxEntities int) (*Game, *fakeWorld, *input.StaticSource) {
	t.Helper()

	cfg := config.DefaultGameConfig()
	cfg.ECS.MaxEntities = maxEntities
	world := newFakeWorld()
	src := &input.StaticSource{
		Down:        map[input.Action]bool{},
		JustPressed: map[input.Action]bool{},
	}

	g, err := NewGame(cfg, world, src)
	if err != nil {
		t.Fatalf("NewGame() error: %v", err)
	}
	return g, world, src
}

// containerHas 返回实体在每个组件容器中的存在情况，按组件标志索引
func containerHas(g *Game, e ecs.Entity) map[ecs.BitSet]bool {
	return map[ecs.BitSet]bool{
		components.Texture:       g.textures.Has(e),
		components.Rigidbody:     g.rigidbodies.Has(e),
		components.Collider:      g.colliders.Has(e),
		components.FixedCollider: g.fixedColliders.Has(e),
		components.Player:        g.players.Has(e),
	}
}

// assertFlagInvariant 检查 "标志已设置 ⟺ 容器有值"
func assertFlagInvariant(t *testing.T, g *Game) {
	t.Helper()
	for e, flags := range g.registry.Entities() {
		has := containerHas(g, e)
		for f := range components.EveryComponent() {
			if flags.Contains(f) != has[f] {
				t.Errorf("entity %v (%s): flag %s = %v but container presence = %v",
					e, g.registry.Label(e), components.FlagName(f), flags.Contains(f), has[f])
			}
		}
	}
}
