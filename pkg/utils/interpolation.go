package utils

import "github.com/jakecoffman/cp"

// Lerp 线性插值
// 在 a 和 b 之间根据 t 插值
// t=0 返回 a，t=1 返回 b；t 不做截断，超出 [0,1] 时外推
func Lerp(a, b, t float64) float64 {
	return (1-t)*a + t*b
}

// Clamp01 将 t 截断到 [0, 1]
func Clamp01(t float64) float64 {
	switch {
	case t < 0:
		return 0
	case t > 1:
		return 1
	default:
		return t
	}
}

// LerpVector 对二维向量逐分量插值，x、y 可使用不同的插值系数
func LerpVector(a, b cp.Vector, tx, ty float64) cp.Vector {
	return cp.Vector{X: Lerp(a.X, b.X, tx), Y: Lerp(a.Y, b.Y, ty)}
}
