// Package ecs 提供一个固定容量、固定组件模式的最小实体组件系统
//
// 组成部分:
//   - BitSet: 组件标志位集合，查询的基础
//   - Registry: 分代实体句柄分配器，维护实体 -> 标志位映射
//   - Dense / Sparse: 按组件种类选择的存储容器
//   - Query: 基于子集判断的线性扫描查询
package ecs

import (
	"math/bits"
	"strconv"
	"strings"
)

// MaxFlags 是 BitSet 能容纳的组件标志数量上限
// 选择 64 位宽度，为组件种类的增长预留空间（避免窄整数静默溢出）
const MaxFlags = 64

// BitSet 是固定宽度的组件标志位集合
// 每个组件种类占用一个位，值语义，所有操作 O(1) 且不分配内存
type BitSet uint64

// Query 表示"必需的组件标志"，实体标志是其超集时即匹配
type Query = BitSet

// Empty 返回空集合
func Empty() BitSet {
	return 0
}

// NewBitSet 将若干标志合并为一个集合
func NewBitSet(flags ...BitSet) BitSet {
	var b BitSet
	for _, f := range flags {
		b |= f
	}
	return b
}

// Flag 返回第 i 位对应的单个标志
// i 超出 [0, MaxFlags) 时 panic，这属于编程错误
func Flag(i int) BitSet {
	if i < 0 || i >= MaxFlags {
		panic("ecs: flag index out of range: " + strconv.Itoa(i))
	}
	return BitSet(1) << uint(i)
}

// With 返回包含 flag 的新集合，不修改接收者
func (b BitSet) With(flag BitSet) BitSet {
	return b | flag
}

// Union 返回两个集合的并集
func (b BitSet) Union(other BitSet) BitSet {
	return b | other
}

// Include 原地加入 flag
func (b *BitSet) Include(flag BitSet) {
	*b |= flag
}

// Exclude 原地移除 flag
func (b *BitSet) Exclude(flag BitSet) {
	*b &^= flag
}

// Contains 当 flag 的所有位都已设置时返回 true
func (b BitSet) Contains(flag BitSet) bool {
	return b&flag == flag
}

// IsSubsetOf 当接收者中设置的每一位在 other 中也设置时返回 true
// 这是查询引擎的基础原语
func (b BitSet) IsSubsetOf(other BitSet) bool {
	return other&b == b
}

// IsEmpty 判断集合是否为空
func (b BitSet) IsEmpty() bool {
	return b == 0
}

// Count 返回已设置的标志数量
func (b BitSet) Count() int {
	return bits.OnesCount64(uint64(b))
}

// String 以二进制形式输出，便于日志诊断
func (b BitSet) String() string {
	var sb strings.Builder
	sb.WriteString("0b")
	sb.WriteString(strconv.FormatUint(uint64(b), 2))
	return sb.String()
}
