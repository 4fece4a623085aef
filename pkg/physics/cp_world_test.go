package physics

import (
	"math"
	"testing"

	"github.com/jakecoffman/cp"
)

const testDt = 1.0 / 60.0

func TestCPWorldDynamicBodyFalls(t *testing.T) {
	w := NewCPWorld(0)
	body, _, err := w.CreateBody(DynamicBody().WithPosition(100, 100), Ball(5).WithMass(1))
	if err != nil {
		t.Fatalf("CreateBody() error: %v", err)
	}

	gravity := cp.Vector{X: 0, Y: 500}
	for i := 0; i < 30; i++ {
		w.Step(gravity, testDt)
	}

	pose, ok := w.Pose(body)
	if !ok {
		t.Fatal("Pose() should find the body")
	}
	// y 轴向下，重力为正，物体应向下移动
	if pose.Translation.Y <= 100 {
		t.Errorf("body should fall, y = %v", pose.Translation.Y)
	}
	if math.Abs(pose.Translation.X-100) > 1e-6 {
		t.Errorf("body should not drift horizontally, x = %v", pose.Translation.X)
	}
}

func TestCPWorldFixedBodyStaysPut(t *testing.T) {
	w := NewCPWorld(0)
	body, collider, err := w.CreateBody(FixedBody(), Cuboid(100, 10).WithTranslation(500, 700))
	if err != nil {
		t.Fatalf("CreateBody() error: %v", err)
	}

	for i := 0; i < 10; i++ {
		w.Step(cp.Vector{Y: 500}, testDt)
	}

	pose, _ := w.Pose(body)
	if pose.Translation.X != 500 || pose.Translation.Y != 700 {
		t.Errorf("fixed body moved to %v", pose.Translation)
	}

	bounds, ok := w.ColliderBounds(collider)
	if !ok {
		t.Fatal("ColliderBounds() should find the collider")
	}
	center := bounds.Center()
	extents := bounds.Extents()
	if math.Abs(center.X-500) > 1e-6 || math.Abs(center.Y-700) > 1e-6 {
		t.Errorf("bounds center = %v, want (500, 700)", center)
	}
	if math.Abs(extents.X-200) > 1e-6 || math.Abs(extents.Y-20) > 1e-6 {
		t.Errorf("bounds extents = %v, want (200, 20)", extents)
	}
}

func TestCPWorldBallRestsOnGround(t *testing.T) {
	w := NewCPWorld(0)
	_, _, _ = w.CreateBody(FixedBody(), Cuboid(200, 10).WithTranslation(0, 100))
	ball, _, _ := w.CreateBody(DynamicBody().WithPosition(0, 50), Ball(5).WithMass(1))

	for i := 0; i < 240; i++ {
		w.Step(cp.Vector{Y: 500}, testDt)
	}

	pose, _ := w.Pose(ball)
	// 地面上表面 y = 90，球半径 5
	if pose.Translation.Y > 90 {
		t.Errorf("ball fell through the ground, y = %v", pose.Translation.Y)
	}
}

func TestCPWorldSetLinearVelocity(t *testing.T) {
	w := NewCPWorld(0)
	body, _, _ := w.CreateBody(DynamicBody(), Ball(5))

	if !w.SetLinearVelocity(body, cp.Vector{X: 30, Y: -10}) {
		t.Fatal("SetLinearVelocity() should accept a live handle")
	}
	v, ok := w.LinearVelocity(body)
	if !ok || v.X != 30 || v.Y != -10 {
		t.Errorf("LinearVelocity() = %v, %v", v, ok)
	}
}

func TestCPWorldLinearDamping(t *testing.T) {
	w := NewCPWorld(0)
	damped, _, _ := w.CreateBody(DynamicBody().WithLinearDamping(0.99), Ball(5))
	free, _, _ := w.CreateBody(DynamicBody().WithPosition(1000, 0), Ball(5))

	w.SetLinearVelocity(damped, cp.Vector{X: 100})
	w.SetLinearVelocity(free, cp.Vector{X: 100})
	for i := 0; i < 60; i++ {
		w.Step(cp.Vector{}, testDt)
	}

	vd, _ := w.LinearVelocity(damped)
	vf, _ := w.LinearVelocity(free)
	if vd.X >= vf.X {
		t.Errorf("damped velocity %v should be below undamped %v", vd.X, vf.X)
	}
	if vd.X <= 0 {
		t.Errorf("damping should not reverse direction, got %v", vd.X)
	}
}

func TestCPWorldLockedRotation(t *testing.T) {
	w := NewCPWorld(0)
	_, _, _ = w.CreateBody(FixedBody(), Cuboid(200, 10).WithTranslation(0, 100).WithRotation(0.3))
	body, _, _ := w.CreateBody(DynamicBody().WithPosition(0, 40).WithLockedRotation(), RoundCuboid(10, 20, 3))

	for i := 0; i < 120; i++ {
		w.Step(cp.Vector{Y: 500}, testDt)
	}

	pose, _ := w.Pose(body)
	if pose.Rotation != 0 {
		t.Errorf("locked body rotated to %v", pose.Rotation)
	}
}

// TestCPWorldLockedRotationKeepsInitialAngle 偏心撞击下锁定刚体保持初始角度
func TestCPWorldLockedRotationKeepsInitialAngle(t *testing.T) {
	w := NewCPWorld(0)
	_, _, _ = w.CreateBody(FixedBody(), Cuboid(400, 10).WithTranslation(0, 100))
	locked, _, _ := w.CreateBody(DynamicBody().WithPosition(0, 60).WithLockedRotation(), RoundCuboid(10, 20, 3).WithRotation(0.5))

	// 一排小球砸在锁定刚体的边缘
	for i := 0; i < 10; i++ {
		ball, _, _ := w.CreateBody(DynamicBody().WithPosition(float64(i*4-6), float64(-20*i)), Ball(5).WithRestitution(0.8))
		w.SetLinearVelocity(ball, cp.Vector{X: 30, Y: 200})
	}

	for i := 0; i < 600; i++ {
		w.Step(cp.Vector{Y: 569.1337}, testDt)
	}

	pose, _ := w.Pose(locked)
	if pose.Rotation != 0.5 {
		t.Errorf("locked body rotation = %v, want 0.5", pose.Rotation)
	}
}

func TestCPWorldRemoveBody(t *testing.T) {
	w := NewCPWorld(0)
	body, collider, _ := w.CreateBody(DynamicBody(), Ball(5))
	w.RemoveBody(body, collider)

	if _, ok := w.Pose(body); ok {
		t.Error("Pose() should fail after RemoveBody()")
	}
	if _, ok := w.ColliderBounds(collider); ok {
		t.Error("ColliderBounds() should fail after RemoveBody()")
	}
	if w.SetLinearVelocity(body, cp.Vector{X: 1}) {
		t.Error("SetLinearVelocity() should fail after RemoveBody()")
	}
	if w.BodyCount() != 0 {
		t.Errorf("BodyCount() = %d, want 0", w.BodyCount())
	}

	// 重复删除无操作
	w.RemoveBody(body, collider)
}

func TestCPWorldRejectsInvalidCollider(t *testing.T) {
	tests := []struct {
		name     string
		collider ColliderDesc
	}{
		{"zero radius", Ball(0)},
		{"negative extents", Cuboid(-1, 5)},
		{"negative border", RoundCuboid(5, 5, -1)},
		{"unknown shape", ColliderDesc{Shape: ShapeKind(42)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := NewCPWorld(0)
			if _, _, err := w.CreateBody(DynamicBody(), tt.collider); err == nil {
				t.Error("CreateBody() should reject invalid collider")
			}
			if w.BodyCount() != 0 {
				t.Error("failed CreateBody() must not leave a body behind")
			}
		})
	}
}

func TestColliderDescResolvedMass(t *testing.T) {
	if m := Ball(5).WithMass(1).ResolvedMass(); m != 1 {
		t.Errorf("explicit mass = %v, want 1", m)
	}
	if m := Cuboid(10, 20).ResolvedMass(); m != 800 {
		t.Errorf("density mass = %v, want 800", m)
	}
	want := math.Pi * 25
	if m := Ball(5).ResolvedMass(); math.Abs(m-want) > 1e-9 {
		t.Errorf("ball mass = %v, want %v", m, want)
	}
}
