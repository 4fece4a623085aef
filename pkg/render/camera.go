// Package render 提供渲染协作者：镜头变换与精灵/调试框绘制
package render

import (
	"github.com/decker502/flagecs/pkg/utils"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/jakecoffman/cp"
)

// Camera 二维镜头
//
// Target 是屏幕中心对准的世界坐标，Zoom 为缩放倍数。
// 世界坐标与屏幕坐标的 y 轴方向一致（向下为正）。
type Camera struct {
	Target cp.Vector
	Zoom   float64

	// 视口尺寸（像素）
	ViewportWidth  float64
	ViewportHeight float64
}

// NewCamera 创建镜头
func NewCamera(target cp.Vector, zoom float64) *Camera {
	return &Camera{Target: target, Zoom: zoom}
}

// SetViewport 更新视口尺寸，由 Layout 每帧调用
func (c *Camera) SetViewport(width, height int) {
	c.ViewportWidth = float64(width)
	c.ViewportHeight = float64(height)
}

// WorldToScreen 将世界坐标转换为屏幕坐标
func (c *Camera) WorldToScreen(p cp.Vector) cp.Vector {
	return p.Sub(c.Target).Mult(c.Zoom).Add(c.viewportCenter())
}

// ScreenToWorld 将屏幕坐标转换为世界坐标
func (c *Camera) ScreenToWorld(p cp.Vector) cp.Vector {
	return p.Sub(c.viewportCenter()).Mult(1 / c.Zoom).Add(c.Target)
}

// Apply 将世界到屏幕的变换追加到 geoM 之后
func (c *Camera) Apply(geoM *ebiten.GeoM) {
	center := c.viewportCenter()
	geoM.Translate(-c.Target.X, -c.Target.Y)
	geoM.Scale(c.Zoom, c.Zoom)
	geoM.Translate(center.X, center.Y)
}

// Follow 平滑地把镜头移向 pos
// x 轴的插值系数是 y 轴的两倍，水平方向跟得更紧
func (c *Camera) Follow(pos cp.Vector, dt, rate float64) {
	t := dt * rate
	c.Target = utils.LerpVector(c.Target, pos, utils.Clamp01(t*2), utils.Clamp01(t))
}

func (c *Camera) viewportCenter() cp.Vector {
	return cp.Vector{X: c.ViewportWidth / 2, Y: c.ViewportHeight / 2}
}
