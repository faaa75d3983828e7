package domain

import (
	"image/color"
	"math"
)

// PixelColor 是一个非预乘的 RGBA 颜色，每个分量取值 0.0–1.0。
type PixelColor struct {
	R float32 `json:"r"`
	G float32 `json:"g"`
	B float32 `json:"b"`
	A float32 `json:"a"`
}

var (
	// Transparent 是像素的默认颜色。
	Transparent = PixelColor{}
	// DefaultBrush 是编辑器启动时的画笔颜色。
	DefaultBrush = PixelColor{R: 0, G: 1, B: 1, A: 1}
)

// RGBA 实现 color.Color，返回预乘后的 16 位分量。
func (c PixelColor) RGBA() (r, g, b, a uint32) {
	return color.NRGBA64{
		R: channel16(c.R),
		G: channel16(c.G),
		B: channel16(c.B),
		A: channel16(c.A),
	}.RGBA()
}

// Valid 检查每个分量都是 0..1 范围内的有限值。
func (c PixelColor) Valid() bool {
	for _, v := range [...]float32{c.R, c.G, c.B, c.A} {
		f := float64(v)
		if math.IsNaN(f) || f < 0 || f > 1 {
			return false
		}
	}
	return true
}

// ColorFrom 将任意 color.Color 转换为 PixelColor。
func ColorFrom(c color.Color) PixelColor {
	n := color.NRGBA64Model.Convert(c).(color.NRGBA64)
	return PixelColor{
		R: float32(n.R) / 0xffff,
		G: float32(n.G) / 0xffff,
		B: float32(n.B) / 0xffff,
		A: float32(n.A) / 0xffff,
	}
}

// Clamp01 将分量限制在 0..1 之间。
func Clamp01(v float32) float32 {
	if v < 0 || math.IsNaN(float64(v)) {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func channel16(v float32) uint16 {
	return uint16(math.Round(float64(Clamp01(v)) * 0xffff))
}

// Pixel 是画布上的一个格子。值类型，按值比较。
type Pixel struct {
	Color PixelColor `json:"color"`
}

// NewPixel 用给定颜色构造像素。
func NewPixel(c PixelColor) Pixel {
	return Pixel{Color: c}
}
