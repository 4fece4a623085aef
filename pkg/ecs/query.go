package ecs

import "iter"

// Query 返回所有满足 q ⊆ flags(e) 的存活实体的惰性序列
//
// 每次调用都是对全部槽位的一次 O(N) 线性扫描，按槽位顺序产出。
// 不按标志组合建立索引（没有 archetype 表），各系统每帧重新扫描；
// 在几千个实体以内的规模下，连续内存上的线性扫描足够快。
//
// 遍历过程中不要创建或删除实体。
func (r *Registry) Query(q Query) iter.Seq[Entity] {
	return func(yield func(Entity) bool) {
		for i := uint32(0); i < r.next; i++ {
			s := &r.slots[i]
			if !s.alive || !q.IsSubsetOf(s.flags) {
				continue
			}
			if !yield(Entity{index: i, generation: s.generation}) {
				return
			}
		}
	}
}

// Count 返回匹配 q 的实体数量
func (r *Registry) Count(q Query) int {
	n := 0
	for range r.Query(q) {
		n++
	}
	return n
}

// Collect 将查询结果收集为切片（测试和诊断使用，帧循环中应直接遍历 Query）
func (r *Registry) Collect(q Query) []Entity {
	result := make([]Entity, 0)
	for e := range r.Query(q) {
		result = append(result, e)
	}
	return result
}
