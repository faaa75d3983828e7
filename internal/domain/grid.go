package domain

import "fmt"

// Grid 是一张固定尺寸的像素画布。
// cells 按 [column][row] 索引，每个格子保存一个不可变 Pixel 的指针，
// 因此克隆整张网格只复制指针，而不复制像素数据。
type Grid struct {
	rows    int
	columns int
	cells   [][]*Pixel
}

// NewGrid 创建一张全透明的网格，所有格子共享同一个默认像素实例。
func NewGrid(rows, columns int) (*Grid, error) {
	if rows <= 0 || columns <= 0 {
		return nil, fmt.Errorf("%w: rows=%d columns=%d", ErrInvalidDimensions, rows, columns)
	}
	blank := &Pixel{}
	cells := make([][]*Pixel, columns)
	for c := range cells {
		col := make([]*Pixel, rows)
		for r := range col {
			col[r] = blank
		}
		cells[c] = col
	}
	return &Grid{rows: rows, columns: columns, cells: cells}, nil
}

// MustNewGrid 与 NewGrid 相同，但尺寸非法时 panic。
func MustNewGrid(rows, columns int) *Grid {
	g, err := NewGrid(rows, columns)
	if err != nil {
		panic(err)
	}
	return g
}

func (g *Grid) Rows() int    { return g.rows }
func (g *Grid) Columns() int { return g.columns }

// Contains 判断 (column, row) 是否在网格范围内。
func (g *Grid) Contains(column, row int) bool {
	return column >= 0 && column < g.columns && row >= 0 && row < g.rows
}

// Get 读取一个格子，越界时返回 ErrOutOfBounds。
func (g *Grid) Get(column, row int) (Pixel, error) {
	if !g.Contains(column, row) {
		return Pixel{}, fmt.Errorf("%w: (%d,%d) in %dx%d grid", ErrOutOfBounds, column, row, g.columns, g.rows)
	}
	return *g.cells[column][row], nil
}

// At 读取一个格子，越界时 panic。调用方需先通过坐标映射校验。
func (g *Grid) At(column, row int) Pixel {
	p, err := g.Get(column, row)
	if err != nil {
		panic(err)
	}
	return p
}

// Set 替换一个格子引用的像素。其他格子以及共享这些像素的克隆都不受影响。
func (g *Grid) Set(column, row int, p Pixel) error {
	if !g.Contains(column, row) {
		return fmt.Errorf("%w: (%d,%d) in %dx%d grid", ErrOutOfBounds, column, row, g.columns, g.rows)
	}
	g.cells[column][row] = &p
	return nil
}

// Clone 复制外层的列/行结构和格子引用，像素本身仍然共享。
func (g *Grid) Clone() *Grid {
	cells := make([][]*Pixel, g.columns)
	for c, col := range g.cells {
		cells[c] = append([]*Pixel(nil), col...)
	}
	return &Grid{rows: g.rows, columns: g.columns, cells: cells}
}

// Reset 把所有格子恢复为透明。
func (g *Grid) Reset() {
	blank := &Pixel{}
	for _, col := range g.cells {
		for r := range col {
			col[r] = blank
		}
	}
}

// Each 按列优先顺序只读遍历所有格子。
func (g *Grid) Each(fn func(column, row int, p Pixel)) {
	for c, col := range g.cells {
		for r, p := range col {
			fn(c, r, *p)
		}
	}
}

// Equal 按值比较两张网格（仅用于测试与诊断，不用于变更检测）。
func (g *Grid) Equal(other *Grid) bool {
	if other == nil || g.rows != other.rows || g.columns != other.columns {
		return false
	}
	for c := range g.cells {
		for r := range g.cells[c] {
			if *g.cells[c][r] != *other.cells[c][r] {
				return false
			}
		}
	}
	return true
}

// sharesCell 判断两张网格在同一位置是否引用同一个像素实例。
func (g *Grid) sharesCell(other *Grid, column, row int) bool {
	return g.cells[column][row] == other.cells[column][row]
}
