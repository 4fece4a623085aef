package ecs

import (
	"errors"
	"fmt"
	"iter"
)

var (
	// ErrCapacityExceeded 实体数量达到注册表容量上限
	ErrCapacityExceeded = errors.New("ecs: entity capacity exceeded")
	// ErrEntityNotFound 实体句柄已失效或从未创建
	ErrEntityNotFound = errors.New("ecs: entity not found")
	// ErrComponentMissing 快速访问路径的前置条件被违反
	ErrComponentMissing = errors.New("ecs: component missing")
)

// Entity 是不透明的分代实体句柄
//
// index 指向注册表中的槽位，generation 在槽位被回收时递增，
// 因此已删除实体的旧句柄永远不会访问到复用槽位上的新实体。
// 零值 Entity 永远不是存活实体（generation 从 1 开始）。
type Entity struct {
	index      uint32
	generation uint32
}

// Index 返回实体的槽位下标（用于稠密存储寻址）
func (e Entity) Index() int {
	return int(e.index)
}

// Generation 返回实体的代数
func (e Entity) Generation() uint32 {
	return e.generation
}

// IsZero 判断是否为零值句柄
func (e Entity) IsZero() bool {
	return e.generation == 0
}

// String 输出形如 "3v2" 的调试表示
func (e Entity) String() string {
	return fmt.Sprintf("%dv%d", e.index, e.generation)
}

// slot 是注册表的一个槽位
type slot struct {
	flags      BitSet
	generation uint32
	alive      bool
}

// Registry 是固定容量的实体注册表
//
// 所有底层数组在创建时按容量一次性分配，之后不会增长，内存占用可预测。
// 注册表只在单线程帧循环中使用，不做任何加锁。
type Registry struct {
	slots []slot
	// labels 是 实体 -> 调试标签 的旁路表，仅用于诊断
	labels []string
	// free 是可复用槽位下标的栈
	free []uint32
	// next 是尚未使用过的最小槽位下标
	next  uint32
	alive int
}

// NewRegistry 创建容量为 capacity 的注册表
func NewRegistry(capacity int) *Registry {
	if capacity <= 0 {
		panic(fmt.Sprintf("ecs: registry capacity must be positive, got %d", capacity))
	}
	return &Registry{
		slots:  make([]slot, capacity),
		labels: make([]string, capacity),
		free:   make([]uint32, 0, capacity),
	}
}

// Capacity 返回注册表容量
func (r *Registry) Capacity() int {
	return len(r.slots)
}

// Len 返回存活实体数量
func (r *Registry) Len() int {
	return r.alive
}

// Create 创建一个标志为空的新实体，并记录调试标签
//
// 容量耗尽时返回 ErrCapacityExceeded，注册表不会动态扩容。
func (r *Registry) Create(label string) (Entity, error) {
	var idx uint32
	switch {
	case len(r.free) > 0:
		idx = r.free[len(r.free)-1]
		r.free = r.free[:len(r.free)-1]
	case int(r.next) < len(r.slots):
		idx = r.next
		r.next++
	default:
		return Entity{}, fmt.Errorf("create %q (capacity %d): %w", label, len(r.slots), ErrCapacityExceeded)
	}

	s := &r.slots[idx]
	s.generation++
	if s.generation == 0 {
		// 回绕后跳过 0，保证零值句柄永不存活
		s.generation = 1
	}
	s.flags = Empty()
	s.alive = true
	r.labels[idx] = label
	r.alive++

	return Entity{index: idx, generation: s.generation}, nil
}

// Remove 使实体失效，槽位进入空闲栈等待复用
//
// Remove 不会清理组件容器中的数据；需要级联清理时使用 game.Game.RemoveEntity。
func (r *Registry) Remove(e Entity) error {
	s, ok := r.lookup(e)
	if !ok {
		return fmt.Errorf("remove %v: %w", e, ErrEntityNotFound)
	}
	s.alive = false
	s.flags = Empty()
	r.labels[e.index] = ""
	r.free = append(r.free, e.index)
	r.alive--
	return nil
}

// IsAlive 判断句柄是否指向存活实体
func (r *Registry) IsAlive(e Entity) bool {
	_, ok := r.lookup(e)
	return ok
}

// Flags 返回实体当前的组件标志
func (r *Registry) Flags(e Entity) (BitSet, bool) {
	s, ok := r.lookup(e)
	if !ok {
		return Empty(), false
	}
	return s.flags, true
}

// AddFlag 为实体设置标志
func (r *Registry) AddFlag(e Entity, flag BitSet) error {
	s, ok := r.lookup(e)
	if !ok {
		return fmt.Errorf("add flag %v to %v: %w", flag, e, ErrEntityNotFound)
	}
	s.flags.Include(flag)
	return nil
}

// RemoveFlag 清除实体的标志
func (r *Registry) RemoveFlag(e Entity, flag BitSet) error {
	s, ok := r.lookup(e)
	if !ok {
		return fmt.Errorf("remove flag %v from %v: %w", flag, e, ErrEntityNotFound)
	}
	s.flags.Exclude(flag)
	return nil
}

// Label 返回实体的调试标签，失效实体返回空字符串
func (r *Registry) Label(e Entity) string {
	if !r.IsAlive(e) {
		return ""
	}
	return r.labels[e.index]
}

// Entities 按槽位顺序遍历所有存活实体及其标志
func (r *Registry) Entities() iter.Seq2[Entity, BitSet] {
	return func(yield func(Entity, BitSet) bool) {
		for i := uint32(0); i < r.next; i++ {
			s := &r.slots[i]
			if !s.alive {
				continue
			}
			if !yield(Entity{index: i, generation: s.generation}, s.flags) {
				return
			}
		}
	}
}

func (r *Registry) lookup(e Entity) (*slot, bool) {
	if e.generation == 0 || int(e.index) >= len(r.slots) {
		return nil, false
	}
	s := &r.slots[e.index]
	if !s.alive || s.generation != e.generation {
		return nil, false
	}
	return s, true
}
