// Package physics 定义物理协作者接口及其描述符
//
// ECS 只保存物理引擎返回的不透明句柄，刚体/碰撞体的模拟全部委托给 World 实现。
// 默认实现 CPWorld 基于 Chipmunk2D 的 Go 移植（github.com/jakecoffman/cp）。
package physics

import (
	"math"

	"github.com/jakecoffman/cp"
)

// BodyHandle 是刚体的不透明句柄，0 为无效值
type BodyHandle uint32

// ColliderHandle 是碰撞体的不透明句柄，0 为无效值
type ColliderHandle uint32

// BodyKind 刚体类型
type BodyKind int

const (
	// BodyDynamic 受力和重力影响的动态刚体
	BodyDynamic BodyKind = iota
	// BodyFixed 固定不动的静态刚体（地面、平台）
	BodyFixed
)

// String 返回刚体类型名称
func (k BodyKind) String() string {
	switch k {
	case BodyDynamic:
		return "dynamic"
	case BodyFixed:
		return "fixed"
	default:
		return "unknown"
	}
}

// ShapeKind 碰撞体形状
type ShapeKind int

const (
	// ShapeBall 圆形
	ShapeBall ShapeKind = iota
	// ShapeCuboid 矩形（以半宽半高描述）
	ShapeCuboid
	// ShapeRoundCuboid 圆角矩形
	ShapeRoundCuboid
)

// BodyDesc 刚体描述符
type BodyDesc struct {
	Kind     BodyKind
	Position cp.Vector
	// Rotation 初始角度（弧度）
	Rotation float64
	// LinearDamping 线性阻尼系数，每步速度乘以 1/(1+dt*LinearDamping)
	LinearDamping float64
	// LockRotation 锁定旋转（转动惯量视为无穷大）
	LockRotation bool
}

// ColliderDesc 碰撞体描述符
type ColliderDesc struct {
	Shape ShapeKind
	// Radius 圆形半径
	Radius float64
	// HalfExtents 矩形半宽、半高
	HalfExtents cp.Vector
	// BorderRadius 圆角矩形的圆角半径
	BorderRadius float64
	// Translation 碰撞体相对刚体的偏移；固定碰撞体用它表示世界坐标
	Translation cp.Vector
	Rotation    float64
	// Mass 显式质量；为 0 时按 Density * 面积计算
	Mass        float64
	Density     float64
	Restitution float64
	Friction    float64
}

// DefaultDensity 未指定质量与密度时使用的密度
const DefaultDensity = 1.0

// DynamicBody 返回动态刚体描述符
func DynamicBody() BodyDesc {
	return BodyDesc{Kind: BodyDynamic}
}

// FixedBody 返回静态刚体描述符
func FixedBody() BodyDesc {
	return BodyDesc{Kind: BodyFixed}
}

// WithPosition 设置初始位置
func (d BodyDesc) WithPosition(x, y float64) BodyDesc {
	d.Position = cp.Vector{X: x, Y: y}
	return d
}

// WithLinearDamping 设置线性阻尼
func (d BodyDesc) WithLinearDamping(damping float64) BodyDesc {
	d.LinearDamping = damping
	return d
}

// WithLockedRotation 锁定旋转
func (d BodyDesc) WithLockedRotation() BodyDesc {
	d.LockRotation = true
	return d
}

// Ball 返回圆形碰撞体描述符
func Ball(radius float64) ColliderDesc {
	return ColliderDesc{Shape: ShapeBall, Radius: radius, Density: DefaultDensity, Friction: 0.5}
}

// Cuboid 返回矩形碰撞体描述符
func Cuboid(halfWidth, halfHeight float64) ColliderDesc {
	return ColliderDesc{
		Shape:       ShapeCuboid,
		HalfExtents: cp.Vector{X: halfWidth, Y: halfHeight},
		Density:     DefaultDensity,
		Friction:    0.5,
	}
}

// RoundCuboid 返回圆角矩形碰撞体描述符
func RoundCuboid(halfWidth, halfHeight, borderRadius float64) ColliderDesc {
	d := Cuboid(halfWidth, halfHeight)
	d.Shape = ShapeRoundCuboid
	d.BorderRadius = borderRadius
	return d
}

// WithTranslation 设置偏移
func (d ColliderDesc) WithTranslation(x, y float64) ColliderDesc {
	d.Translation = cp.Vector{X: x, Y: y}
	return d
}

// WithRotation 设置角度
func (d ColliderDesc) WithRotation(angle float64) ColliderDesc {
	d.Rotation = angle
	return d
}

// WithMass 设置显式质量
func (d ColliderDesc) WithMass(mass float64) ColliderDesc {
	d.Mass = mass
	return d
}

// WithRestitution 设置弹性系数
func (d ColliderDesc) WithRestitution(restitution float64) ColliderDesc {
	d.Restitution = restitution
	return d
}

// WithFriction 设置摩擦系数
func (d ColliderDesc) WithFriction(friction float64) ColliderDesc {
	d.Friction = friction
	return d
}

// Area 返回碰撞体面积，用于按密度推算质量
func (d ColliderDesc) Area() float64 {
	switch d.Shape {
	case ShapeBall:
		return cp.AreaForCircle(0, d.Radius)
	case ShapeRoundCuboid:
		w := 2 * d.HalfExtents.X
		h := 2 * d.HalfExtents.Y
		r := d.BorderRadius
		// 外扩 r 的圆角矩形
		return (w+2*r)*(h+2*r) - (4-math.Pi)*r*r
	default:
		return 4 * d.HalfExtents.X * d.HalfExtents.Y
	}
}

// ResolvedMass 返回最终质量：显式质量优先，否则密度 * 面积
func (d ColliderDesc) ResolvedMass() float64 {
	if d.Mass > 0 {
		return d.Mass
	}
	density := d.Density
	if density <= 0 {
		density = DefaultDensity
	}
	return density * d.Area()
}

// Pose 刚体的当前位姿
type Pose struct {
	Translation cp.Vector
	// Rotation 角度（弧度）
	Rotation float64
}

// AABB 轴对齐包围盒
type AABB struct {
	Min cp.Vector
	Max cp.Vector
}

// Center 返回包围盒中心
func (b AABB) Center() cp.Vector {
	return b.Min.Add(b.Max).Mult(0.5)
}

// Extents 返回包围盒的完整宽高
func (b AABB) Extents() cp.Vector {
	return b.Max.Sub(b.Min)
}

// World 是物理协作者
//
// 句柄由 World 分配并由 ECS 作为组件值保存。
// 对未知句柄的查询返回 false，而不是 panic。
type World interface {
	// CreateBody 创建刚体并挂载一个碰撞体
	CreateBody(body BodyDesc, collider ColliderDesc) (BodyHandle, ColliderHandle, error)
	// RemoveBody 移除刚体及其碰撞体，未知句柄无操作
	RemoveBody(body BodyHandle, collider ColliderHandle)
	// Step 以固定时间步推进模拟
	Step(gravity cp.Vector, dt float64)
	// Pose 返回刚体当前位姿
	Pose(body BodyHandle) (Pose, bool)
	// LinearVelocity 返回刚体线速度
	LinearVelocity(body BodyHandle) (cp.Vector, bool)
	// SetLinearVelocity 覆盖刚体线速度并唤醒刚体
	SetLinearVelocity(body BodyHandle, v cp.Vector) bool
	// ColliderBounds 返回碰撞体的世界坐标包围盒
	ColliderBounds(collider ColliderHandle) (AABB, bool)
}
