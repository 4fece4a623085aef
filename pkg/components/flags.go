// Package components 定义沙盒场景的组件种类及其标志位
//
// 组件模式是固定的：每种组件对应一个标志位和一个独立的存储容器。
package components

import (
	"iter"
	"strings"

	"github.com/decker502/flagecs/pkg/ecs"
)

// 组件标志
const (
	Texture       ecs.BitSet = 1 << 0
	Rigidbody     ecs.BitSet = 1 << 1
	Collider      ecs.BitSet = 1 << 2
	FixedCollider ecs.BitSet = 1 << 3
	Player        ecs.BitSet = 1 << 4
)

// NumComponents 组件种类数量
const NumComponents = 5

// 组件种类超过 BitSet 宽度时编译失败
var _ [ecs.MaxFlags - NumComponents]struct{}

var flagNames = [NumComponents]string{
	"TEXTURE",
	"RIGIDBODY",
	"COLLIDER",
	"FIXED_COLLIDER",
	"PLAYER",
}

// EveryComponent 依次产出每个组件标志
func EveryComponent() iter.Seq[ecs.BitSet] {
	return func(yield func(ecs.BitSet) bool) {
		for i := 0; i < NumComponents; i++ {
			if !yield(ecs.Flag(i)) {
				return
			}
		}
	}
}

// FlagName 返回单个标志的名称
func FlagName(flag ecs.BitSet) string {
	for i := 0; i < NumComponents; i++ {
		if flag == ecs.Flag(i) {
			return flagNames[i]
		}
	}
	return "UNKNOWN"
}

// Describe 以 "RIGIDBODY|COLLIDER" 形式描述标志集合
func Describe(flags ecs.BitSet) string {
	var names []string
	for f := range EveryComponent() {
		if flags.Contains(f) {
			names = append(names, FlagName(f))
		}
	}
	if len(names) == 0 {
		return "NONE"
	}
	return strings.Join(names, "|")
}
