package physics

import (
	"fmt"

	"github.com/jakecoffman/cp"
)

// CPWorld 是基于 Chipmunk2D（jakecoffman/cp）的 World 实现
//
// 句柄到 cp 对象的映射保存在本结构中，cp 对象的指针不会泄漏给 ECS。
type CPWorld struct {
	space     *cp.Space
	bodies    map[BodyHandle]*cp.Body
	colliders map[ColliderHandle]*cp.Shape

	nextBody     BodyHandle
	nextCollider ColliderHandle
}

// NewCPWorld 创建物理世界
//
// 参数:
//   - iterations: 约束求解迭代次数，<= 0 时使用 cp 默认值
func NewCPWorld(iterations int) *CPWorld {
	space := cp.NewSpace()
	if iterations > 0 {
		space.Iterations = uint(iterations)
	}
	return &CPWorld{
		space:     space,
		bodies:    make(map[BodyHandle]*cp.Body),
		colliders: make(map[ColliderHandle]*cp.Shape),
	}
}

// CreateBody 实现 World
func (w *CPWorld) CreateBody(desc BodyDesc, collider ColliderDesc) (BodyHandle, ColliderHandle, error) {
	if err := validateCollider(collider); err != nil {
		return 0, 0, err
	}

	var body *cp.Body
	switch desc.Kind {
	case BodyFixed:
		body = cp.NewStaticBody()
		// 固定碰撞体直接以碰撞体偏移作为世界坐标
		body.SetPosition(desc.Position.Add(collider.Translation))
		body.SetAngle(desc.Rotation + collider.Rotation)
	case BodyDynamic:
		mass := collider.ResolvedMass()
		moment := cp.INFINITY
		if !desc.LockRotation {
			moment = momentFor(collider, mass)
		}
		body = cp.NewBody(mass, moment)
		body.SetPosition(desc.Position.Add(collider.Translation))
		body.SetAngle(desc.Rotation + collider.Rotation)
		if desc.LinearDamping > 0 {
			damping := desc.LinearDamping
			body.SetVelocityUpdateFunc(func(b *cp.Body, gravity cp.Vector, spaceDamping, dt float64) {
				cp.BodyUpdateVelocity(b, gravity, spaceDamping/(1+dt*damping), dt)
			})
		}
		if desc.LockRotation {
			// cp.INFINITY 是有限值，接触冲量和穿透修正仍会留下极小的角速度，
			// 积分后恢复角度保证锁定是精确的
			body.SetPositionUpdateFunc(func(b *cp.Body, dt float64) {
				angle := b.Angle()
				b.SetAngularVelocity(0)
				cp.BodyUpdatePosition(b, dt)
				b.SetAngle(angle)
			})
		}
	default:
		return 0, 0, fmt.Errorf("physics: unknown body kind %d", desc.Kind)
	}

	w.space.AddBody(body)
	shape := w.space.AddShape(newShape(body, collider))
	shape.SetElasticity(collider.Restitution)
	shape.SetFriction(collider.Friction)

	w.nextBody++
	w.nextCollider++
	w.bodies[w.nextBody] = body
	w.colliders[w.nextCollider] = shape

	return w.nextBody, w.nextCollider, nil
}

// RemoveBody 实现 World
func (w *CPWorld) RemoveBody(bodyHandle BodyHandle, colliderHandle ColliderHandle) {
	if shape, ok := w.colliders[colliderHandle]; ok {
		w.space.RemoveShape(shape)
		delete(w.colliders, colliderHandle)
	}
	if body, ok := w.bodies[bodyHandle]; ok {
		w.space.RemoveBody(body)
		delete(w.bodies, bodyHandle)
	}
}

// Step 实现 World
func (w *CPWorld) Step(gravity cp.Vector, dt float64) {
	w.space.SetGravity(gravity)
	w.space.Step(dt)
}

// Pose 实现 World
func (w *CPWorld) Pose(handle BodyHandle) (Pose, bool) {
	body, ok := w.bodies[handle]
	if !ok {
		return Pose{}, false
	}
	return Pose{Translation: body.Position(), Rotation: body.Angle()}, true
}

// LinearVelocity 实现 World
func (w *CPWorld) LinearVelocity(handle BodyHandle) (cp.Vector, bool) {
	body, ok := w.bodies[handle]
	if !ok {
		return cp.Vector{}, false
	}
	return body.Velocity(), true
}

// SetLinearVelocity 实现 World
func (w *CPWorld) SetLinearVelocity(handle BodyHandle, v cp.Vector) bool {
	body, ok := w.bodies[handle]
	if !ok {
		return false
	}
	body.SetVelocityVector(v)
	body.Activate()
	return true
}

// ColliderBounds 实现 World
func (w *CPWorld) ColliderBounds(handle ColliderHandle) (AABB, bool) {
	shape, ok := w.colliders[handle]
	if !ok {
		return AABB{}, false
	}
	bb := shape.BB()
	return AABB{
		Min: cp.Vector{X: bb.L, Y: bb.B},
		Max: cp.Vector{X: bb.R, Y: bb.T},
	}, true
}

// BodyCount 返回当前刚体数量
func (w *CPWorld) BodyCount() int {
	return len(w.bodies)
}

func validateCollider(d ColliderDesc) error {
	switch d.Shape {
	case ShapeBall:
		if d.Radius <= 0 {
			return fmt.Errorf("physics: ball radius must be positive, got %v", d.Radius)
		}
	case ShapeCuboid, ShapeRoundCuboid:
		if d.HalfExtents.X <= 0 || d.HalfExtents.Y <= 0 {
			return fmt.Errorf("physics: cuboid half extents must be positive, got %v", d.HalfExtents)
		}
		if d.BorderRadius < 0 {
			return fmt.Errorf("physics: border radius must not be negative, got %v", d.BorderRadius)
		}
	default:
		return fmt.Errorf("physics: unknown shape kind %d", d.Shape)
	}
	return nil
}

func newShape(body *cp.Body, d ColliderDesc) *cp.Shape {
	switch d.Shape {
	case ShapeBall:
		return cp.NewCircle(body, d.Radius, cp.Vector{})
	case ShapeRoundCuboid:
		return cp.NewBox(body, 2*d.HalfExtents.X, 2*d.HalfExtents.Y, d.BorderRadius)
	default:
		return cp.NewBox(body, 2*d.HalfExtents.X, 2*d.HalfExtents.Y, 0)
	}
}

func momentFor(d ColliderDesc, mass float64) float64 {
	switch d.Shape {
	case ShapeBall:
		return cp.MomentForCircle(mass, 0, d.Radius, cp.Vector{})
	default:
		w := 2 * (d.HalfExtents.X + d.BorderRadius)
		h := 2 * (d.HalfExtents.Y + d.BorderRadius)
		return cp.MomentForBox(mass, w, h)
	}
}
