package ecs

import (
	"fmt"
	"iter"
)

// Container 是单一组件种类的存储
//
// 每种组件独立选择稠密或稀疏实现。容器本身不维护标志位，
// 与注册表标志的配对由 Attach / Detach 保证。
type Container[T any] interface {
	// Insert 为实体存储组件，覆盖旧值
	Insert(e Entity, value T)
	// Get 是带检查的访问路径，不存在时返回 false
	Get(e Entity) (T, bool)
	// MustGet 是热循环使用的快速路径
	// 前置条件：调用方已通过 Query 过滤，保证实体持有该组件。
	// 违反前置条件会 panic（ErrComponentMissing），而不是读取到过期数据。
	MustGet(e Entity) T
	// Has 判断实体是否持有该组件
	Has(e Entity) bool
	// Remove 删除实体的组件，不存在时无操作
	Remove(e Entity)
	// Len 返回已存储的组件数量
	Len() int
	// All 按容器的自然顺序遍历（稠密：槽位顺序；稀疏：无序）
	All() iter.Seq2[Entity, T]
}

// Dense 是按实体槽位直接寻址的稠密存储
//
// 底层数组按注册表容量一次性分配：O(1) 访问、无哈希，
// 代价是 (容量 - 已占用) 的空间浪费。适合大多数实体都拥有的组件。
type Dense[T any] struct {
	values []T
	// owners 记录每个槽位当前值所属的实体句柄（含代数），
	// 槽位被复用后旧句柄不会再命中
	owners []Entity
	count  int
}

// NewDense 创建容量为 capacity 的稠密存储，capacity 应与注册表容量一致
func NewDense[T any](capacity int) *Dense[T] {
	return &Dense[T]{
		values: make([]T, capacity),
		owners: make([]Entity, capacity),
	}
}

// Insert 实现 Container
func (d *Dense[T]) Insert(e Entity, value T) {
	idx := e.Index()
	if idx >= len(d.values) {
		panic(fmt.Sprintf("ecs: dense storage index %d out of capacity %d", idx, len(d.values)))
	}
	if d.owners[idx] != e {
		if d.owners[idx].IsZero() {
			d.count++
		}
		d.owners[idx] = e
	}
	d.values[idx] = value
}

// Get 实现 Container
func (d *Dense[T]) Get(e Entity) (T, bool) {
	if !d.Has(e) {
		var zero T
		return zero, false
	}
	return d.values[e.Index()], true
}

// MustGet 实现 Container
func (d *Dense[T]) MustGet(e Entity) T {
	if !d.Has(e) {
		panic(fmt.Errorf("dense get %v: %w", e, ErrComponentMissing))
	}
	return d.values[e.Index()]
}

// Has 实现 Container
func (d *Dense[T]) Has(e Entity) bool {
	idx := e.Index()
	return !e.IsZero() && idx < len(d.owners) && d.owners[idx] == e
}

// Remove 实现 Container
func (d *Dense[T]) Remove(e Entity) {
	if !d.Has(e) {
		return
	}
	var zero T
	idx := e.Index()
	d.values[idx] = zero
	d.owners[idx] = Entity{}
	d.count--
}

// Len 实现 Container
func (d *Dense[T]) Len() int {
	return d.count
}

// All 实现 Container，按槽位顺序遍历
func (d *Dense[T]) All() iter.Seq2[Entity, T] {
	return func(yield func(Entity, T) bool) {
		for i, owner := range d.owners {
			if owner.IsZero() {
				continue
			}
			if !yield(owner, d.values[i]) {
				return
			}
		}
	}
}

// Sparse 是基于哈希表的稀疏存储
//
// 内存占用与已挂载的组件数量成正比，访问需要一次哈希。
// 适合只有少数实体拥有的组件。
type Sparse[T any] struct {
	values map[Entity]T
}

// NewSparse 创建稀疏存储，sizeHint 为预期的组件数量
func NewSparse[T any](sizeHint int) *Sparse[T] {
	return &Sparse[T]{
		values: make(map[Entity]T, sizeHint),
	}
}

// Insert 实现 Container
func (s *Sparse[T]) Insert(e Entity, value T) {
	s.values[e] = value
}

// Get 实现 Container
func (s *Sparse[T]) Get(e Entity) (T, bool) {
	v, ok := s.values[e]
	return v, ok
}

// MustGet 实现 Container
func (s *Sparse[T]) MustGet(e Entity) T {
	v, ok := s.values[e]
	if !ok {
		panic(fmt.Errorf("sparse get %v: %w", e, ErrComponentMissing))
	}
	return v
}

// Has 实现 Container
func (s *Sparse[T]) Has(e Entity) bool {
	_, ok := s.values[e]
	return ok
}

// Remove 实现 Container
func (s *Sparse[T]) Remove(e Entity) {
	delete(s.values, e)
}

// Len 实现 Container
func (s *Sparse[T]) Len() int {
	return len(s.values)
}

// All 实现 Container，顺序不确定
func (s *Sparse[T]) All() iter.Seq2[Entity, T] {
	return func(yield func(Entity, T) bool) {
		for e, v := range s.values {
			if !yield(e, v) {
				return
			}
		}
	}
}

// Attach 在一次操作中完成"写入容器 + 设置标志"
//
// 先校验实体存活，再同时修改两侧，保证
// "标志位已设置 ⟺ 容器中存在该实体的值" 这一不变式。
func Attach[T any](r *Registry, c Container[T], flag BitSet, e Entity, value T) error {
	if !r.IsAlive(e) {
		return fmt.Errorf("attach %v to %v: %w", flag, e, ErrEntityNotFound)
	}
	c.Insert(e, value)
	return r.AddFlag(e, flag)
}

// Detach 是 Attach 的逆操作：删除容器中的值并清除标志
func Detach[T any](r *Registry, c Container[T], flag BitSet, e Entity) error {
	if !r.IsAlive(e) {
		return fmt.Errorf("detach %v from %v: %w", flag, e, ErrEntityNotFound)
	}
	c.Remove(e)
	return r.RemoveFlag(e, flag)
}
