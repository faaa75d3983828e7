package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// gridFile 是保存到文件的 JSON 结构: {"pixels": [[{"color": {...}}]]}，外层为列，内层为行。
type gridFile struct {
	Pixels [][]Pixel `json:"pixels"`
}

// EncodeGrid 将网格序列化为 JSON。
func EncodeGrid(g *Grid) ([]byte, error) {
	if g == nil {
		return nil, fmt.Errorf("%w: nil grid", ErrEncodeFailure)
	}
	file := gridFile{Pixels: make([][]Pixel, g.columns)}
	for c, col := range g.cells {
		file.Pixels[c] = make([]Pixel, len(col))
		for r, p := range col {
			file.Pixels[c][r] = *p
		}
	}
	data, err := json.Marshal(file)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEncodeFailure, err)
	}
	return data, nil
}

// DecodeGrid 将 JSON 解析为新的网格。
// 缺少 pixels/color/r/g/b/a 键（键名区分大小写）、格子为 null、空网格、
// 列长度不一致或颜色分量不在 0..1 之间都视为解析失败。
func DecodeGrid(data []byte) (*Grid, error) {
	top, err := decodeObject(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecodeFailure, err)
	}
	rawPixels, err := requireKey(top, "pixels")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecodeFailure, err)
	}
	var pixels [][]json.RawMessage
	if err := json.Unmarshal(rawPixels, &pixels); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecodeFailure, err)
	}
	columns := len(pixels)
	if columns == 0 {
		return nil, fmt.Errorf("%w: grid has no columns", ErrDecodeFailure)
	}
	rows := len(pixels[0])
	if rows == 0 {
		return nil, fmt.Errorf("%w: grid has no rows", ErrDecodeFailure)
	}

	g, err := NewGrid(rows, columns)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecodeFailure, err)
	}
	for c, col := range pixels {
		if len(col) != rows {
			return nil, fmt.Errorf("%w: column %d has %d rows, want %d", ErrDecodeFailure, c, len(col), rows)
		}
		for r, raw := range col {
			p, err := decodePixel(raw)
			if err != nil {
				return nil, fmt.Errorf("%w: cell (%d,%d): %v", ErrDecodeFailure, c, r, err)
			}
			if !p.Color.Valid() {
				return nil, fmt.Errorf("%w: invalid color at (%d,%d)", ErrDecodeFailure, c, r)
			}
			if p == (Pixel{}) {
				continue
			}
			g.cells[c][r] = &p
		}
	}
	return g, nil
}

func decodePixel(raw json.RawMessage) (Pixel, error) {
	cell, err := decodeObject(raw)
	if err != nil {
		return Pixel{}, err
	}
	rawColor, err := requireKey(cell, "color")
	if err != nil {
		return Pixel{}, err
	}
	channels, err := decodeObject(rawColor)
	if err != nil {
		return Pixel{}, fmt.Errorf("color: %v", err)
	}
	var p Pixel
	for _, ch := range [...]struct {
		key string
		dst *float32
	}{{"r", &p.Color.R}, {"g", &p.Color.G}, {"b", &p.Color.B}, {"a", &p.Color.A}} {
		v, err := requireKey(channels, ch.key)
		if err != nil {
			return Pixel{}, fmt.Errorf("color: %v", err)
		}
		if err := json.Unmarshal(v, ch.dst); err != nil {
			return Pixel{}, fmt.Errorf("color.%s: %v", ch.key, err)
		}
	}
	return p, nil
}

// decodeObject 解析一个 JSON 对象，null 和非对象都是错误。
func decodeObject(raw []byte) (map[string]json.RawMessage, error) {
	if isNull(raw) {
		return nil, fmt.Errorf("unexpected null")
	}
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil {
		return nil, err
	}
	return obj, nil
}

// requireKey 按精确键名取值，缺失或为 null 都是错误。
func requireKey(obj map[string]json.RawMessage, key string) (json.RawMessage, error) {
	v, ok := obj[key]
	if !ok || isNull(v) {
		return nil, fmt.Errorf("missing %q", key)
	}
	return v, nil
}

func isNull(raw []byte) bool {
	return string(bytes.TrimSpace(raw)) == "null"
}
