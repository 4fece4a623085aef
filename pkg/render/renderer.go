package render

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/jakecoffman/cp"
)

// Renderer 渲染协作者
type Renderer interface {
	// DrawSprite 以 pos 为中心绘制贴图，halfSize 为世界坐标下的半宽半高
	DrawSprite(img *ebiten.Image, pos, halfSize cp.Vector, tint color.RGBA, rotation float64)
	// DrawRectOutline 绘制以 center 为中心、完整宽高为 extents 的矩形边框
	DrawRectOutline(center, extents cp.Vector, clr color.RGBA)
}

// ScreenRenderer 在 ebiten 屏幕上绘制的 Renderer 实现
type ScreenRenderer struct {
	screen *ebiten.Image
	camera *Camera
	// StrokeWidth 调试框线宽（像素）
	StrokeWidth float32
}

// NewScreenRenderer 创建屏幕渲染器
func NewScreenRenderer(camera *Camera) *ScreenRenderer {
	return &ScreenRenderer{camera: camera, StrokeWidth: 1}
}

// Begin 设置本帧的绘制目标
func (r *ScreenRenderer) Begin(screen *ebiten.Image) {
	r.screen = screen
}

// DrawSprite 实现 Renderer
func (r *ScreenRenderer) DrawSprite(img *ebiten.Image, pos, halfSize cp.Vector, tint color.RGBA, rotation float64) {
	if r.screen == nil || img == nil {
		return
	}
	bounds := img.Bounds()
	w, h := float64(bounds.Dx()), float64(bounds.Dy())
	if w == 0 || h == 0 {
		return
	}

	op := &ebiten.DrawImageOptions{}
	// 以贴图中心为原点缩放到目标尺寸，再旋转、平移到世界坐标
	op.GeoM.Translate(-w/2, -h/2)
	op.GeoM.Scale(2*halfSize.X/w, 2*halfSize.Y/h)
	op.GeoM.Rotate(rotation)
	op.GeoM.Translate(pos.X, pos.Y)
	r.camera.Apply(&op.GeoM)
	op.ColorScale.ScaleWithColor(tint)
	op.Filter = ebiten.FilterLinear

	r.screen.DrawImage(img, op)
}

// DrawRectOutline 实现 Renderer
func (r *ScreenRenderer) DrawRectOutline(center, extents cp.Vector, clr color.RGBA) {
	if r.screen == nil {
		return
	}
	topLeft := r.camera.WorldToScreen(center.Sub(extents.Mult(0.5)))
	size := extents.Mult(r.camera.Zoom)
	vector.StrokeRect(r.screen,
		float32(topLeft.X), float32(topLeft.Y),
		float32(size.X), float32(size.Y),
		r.StrokeWidth, clr, false)
}
