package editor

import (
	"fmt"
	"math"

	"github.com/flxzt/pxtogether/internal/domain"
	"github.com/flxzt/pxtogether/internal/shared"
)

const (
	DefaultRows     = 16
	DefaultColumns  = 16
	DefaultCellSize = 40
)

// Point 是网格局部坐标系中的一个位置。
type Point struct {
	X, Y float32
}

// Size 是宽高。
type Size struct {
	Width, Height float32
}

// State 是编辑器的全部可变状态。current 是唯一可写的槽位，
// 历史中的条目都是 current 过去取值的只读快照，它们可能与 current 共享同一实例。
type State struct {
	rows     int
	columns  int
	cellSize Size
	current  shared.Rc[domain.Grid]
	history  History
	brush    domain.PixelColor
}

// NewState 创建一个 rows x columns 的空白编辑器状态。
func NewState(rows, columns int, cellSize Size) (*State, error) {
	if cellSize.Width <= 0 || cellSize.Height <= 0 {
		return nil, fmt.Errorf("%w: cell size %vx%v", domain.ErrInvalidDimensions, cellSize.Width, cellSize.Height)
	}
	grid, err := domain.NewGrid(rows, columns)
	if err != nil {
		return nil, err
	}
	return &State{
		rows:     rows,
		columns:  columns,
		cellSize: cellSize,
		current:  shared.New(grid),
		brush:    domain.DefaultBrush,
	}, nil
}

// DefaultState 返回 16x16、每格 40x40 的初始状态。
func DefaultState() *State {
	s, err := NewState(DefaultRows, DefaultColumns, Size{Width: DefaultCellSize, Height: DefaultCellSize})
	if err != nil {
		panic(err)
	}
	return s
}

func (s *State) Rows() int                { return s.rows }
func (s *State) Columns() int             { return s.columns }
func (s *State) CellSize() Size           { return s.cellSize }
func (s *State) Brush() domain.PixelColor { return s.brush }

// SetBrush 设置画笔颜色，分量会被限制在 0..1。
func (s *State) SetBrush(c domain.PixelColor) {
	s.brush = domain.PixelColor{
		R: domain.Clamp01(c.R),
		G: domain.Clamp01(c.G),
		B: domain.Clamp01(c.B),
		A: domain.Clamp01(c.A),
	}
}

func (s *State) SetRed(v float32)   { s.brush.R = domain.Clamp01(v) }
func (s *State) SetGreen(v float32) { s.brush.G = domain.Clamp01(v) }
func (s *State) SetBlue(v float32)  { s.brush.B = domain.Clamp01(v) }

// Record 把当前网格保存到历史中。
func (s *State) Record() bool {
	return s.history.Record(s.current)
}

// Undo 撤销到上一条记录，见 History.Undo。
func (s *State) Undo() bool {
	return s.history.Undo(&s.current)
}

// ClearHistory 清空历史，不影响当前网格。
func (s *State) ClearHistory() {
	s.history.Clear()
}

// History 返回历史的只读访问。
func (s *State) History() *History {
	return &s.history
}

// PutPixel 把一个格子写成 p。record 为 true 时先记录历史（每个手势只在开始时记录一次）。
// 每次写入都会检查当前网格是否被历史共享，共享时先克隆，确保快照不被修改。
func (s *State) PutPixel(p domain.Pixel, column, row int, record bool) error {
	if !s.current.Get().Contains(column, row) {
		return fmt.Errorf("%w: (%d,%d)", domain.ErrOutOfBounds, column, row)
	}
	if record {
		s.Record()
	}
	grid := shared.MakeMut(&s.current, (*domain.Grid).Clone)
	return grid.Set(column, row, p)
}

// ClearCanvas 记录历史后把当前网格恢复为全透明。
func (s *State) ClearCanvas() {
	s.Record()
	shared.MakeMut(&s.current, (*domain.Grid).Clone).Reset()
}

// ReplaceGrid 用载入的网格替换当前网格并清空历史。网格尺寸随之改变。
func (s *State) ReplaceGrid(g *domain.Grid) error {
	if g == nil {
		return fmt.Errorf("%w: nil grid", domain.ErrInvalidDimensions)
	}
	s.current.Release()
	s.current = shared.New(g)
	s.rows, s.columns = g.Rows(), g.Columns()
	s.ClearHistory()
	return nil
}

// GridSize 返回网格的像素尺寸，包含 1 个单位的边框。
func (s *State) GridSize() Size {
	return Size{
		Width:  float32(s.columns)*s.cellSize.Width + 1,
		Height: float32(s.rows)*s.cellSize.Height + 1,
	}
}

// PosOnGrid 把网格坐标系中的位置映射为 (column, row)。位置不在网格矩形内时 ok 为 false。
func (s *State) PosOnGrid(pos Point) (column, row int, ok bool) {
	size := s.GridSize()
	if !(pos.X >= 0 && pos.X <= size.Width && pos.Y >= 0 && pos.Y <= size.Height) {
		return 0, 0, false
	}
	column = clampIndex(math.Floor(float64(pos.X/s.cellSize.Width)), s.columns)
	row = clampIndex(math.Floor(float64(pos.Y/s.cellSize.Height)), s.rows)
	return column, row, true
}

func clampIndex(v float64, n int) int {
	if v < 0 {
		return 0
	}
	if v > float64(n-1) {
		return n - 1
	}
	return int(v)
}

// Each 只读遍历当前网格，供渲染使用。
func (s *State) Each(fn func(column, row int, p domain.Pixel)) {
	s.current.Get().Each(fn)
}

// Pixel 读取当前网格的一个格子。
func (s *State) Pixel(column, row int) (domain.Pixel, error) {
	return s.current.Get().Get(column, row)
}

// Snapshot 返回当前网格的一个独立副本，修改它不会影响编辑器。
func (s *State) Snapshot() *domain.Grid {
	return s.current.Get().Clone()
}
