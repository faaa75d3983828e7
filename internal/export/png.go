// Package export 把当前网格渲染为图片文件。
package export

import (
	"bytes"
	"fmt"
	"image"
	"image/png"

	xdraw "golang.org/x/image/draw"

	"github.com/flxzt/pxtogether/internal/domain"
)

// Source 是渲染所需的只读视图。
type Source interface {
	Rows() int
	Columns() int
	Each(fn func(column, row int, p domain.Pixel))
}

// Image 把网格画成每格 scale x scale 像素的图片，x 轴为列，y 轴为行。
func Image(src Source, scale int) (*image.NRGBA, error) {
	if scale <= 0 {
		return nil, fmt.Errorf("export: scale must be positive, got %d", scale)
	}
	cells := image.NewNRGBA(image.Rect(0, 0, src.Columns(), src.Rows()))
	src.Each(func(column, row int, p domain.Pixel) {
		cells.Set(column, row, p.Color)
	})
	if scale == 1 {
		return cells, nil
	}
	dst := image.NewNRGBA(image.Rect(0, 0, src.Columns()*scale, src.Rows()*scale))
	xdraw.NearestNeighbor.Scale(dst, dst.Bounds(), cells, cells.Bounds(), xdraw.Src, nil)
	return dst, nil
}

// PNG 渲染并编码为 PNG。
func PNG(src Source, scale int) ([]byte, error) {
	img, err := Image(src, scale)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("export: encode png: %w", err)
	}
	return buf.Bytes(), nil
}
