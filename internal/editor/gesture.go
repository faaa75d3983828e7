package editor

import "github.com/flxzt/pxtogether/internal/domain"

// GestureState 是一次指针手势所处的状态。
type GestureState int

const (
	Idle GestureState = iota
	Drawing
	Erasing
)

func (g GestureState) String() string {
	switch g {
	case Drawing:
		return "drawing"
	case Erasing:
		return "erasing"
	default:
		return "idle"
	}
}

// PointerKind 区分按下、移动和抬起。
type PointerKind int

const (
	PointerDown PointerKind = iota
	PointerMove
	PointerUp
)

// Button 是指针按键。
type Button int

const (
	ButtonNone Button = iota
	ButtonPrimary
	ButtonSecondary
)

// PointerEvent 是宿主事件循环传入的一个指针事件，Position 位于网格局部坐标系。
type PointerEvent struct {
	Kind     PointerKind
	Button   Button
	Position Point
}

// Mutation 是对一个格子的写入请求。Record 为 true 表示写入前要先记录历史。
type Mutation struct {
	Pixel  domain.Pixel
	Column int
	Row    int
	Record bool
}

// Apply 把写入请求应用到编辑器状态。
func (m Mutation) Apply(s *State) error {
	return s.PutPixel(m.Pixel, m.Column, m.Row, m.Record)
}

// Gesture 是交互状态机：按下主键开始绘制，按下副键开始擦除，
// 移动时沿途写格子，抬起任一按键回到空闲。只有按下时的那次写入会记录历史，
// 所以一次撤销对应一整笔，而不是一个像素。
type Gesture struct {
	state GestureState
}

// State 返回当前手势状态。
func (g *Gesture) State() GestureState { return g.state }

// Reset 把状态机恢复为空闲。
func (g *Gesture) Reset() { g.state = Idle }

// Handle 处理一个指针事件，返回需要执行的写入（如果有）。
// 不在网格内的事件会被忽略，状态保持不变。
func (g *Gesture) Handle(s *State, ev PointerEvent) (Mutation, bool) {
	switch ev.Kind {
	case PointerDown:
		next, color, ok := pressTarget(s, ev.Button)
		if !ok {
			return Mutation{}, false
		}
		column, row, inside := s.PosOnGrid(ev.Position)
		if !inside {
			return Mutation{}, false
		}
		g.state = next
		return Mutation{Pixel: domain.NewPixel(color), Column: column, Row: row, Record: true}, true

	case PointerMove:
		var color domain.PixelColor
		switch g.state {
		case Drawing:
			color = s.Brush()
		case Erasing:
			color = domain.Transparent
		default:
			return Mutation{}, false
		}
		column, row, inside := s.PosOnGrid(ev.Position)
		if !inside {
			return Mutation{}, false
		}
		return Mutation{Pixel: domain.NewPixel(color), Column: column, Row: row}, true

	case PointerUp:
		if ev.Button != ButtonPrimary && ev.Button != ButtonSecondary {
			return Mutation{}, false
		}
		if g.state == Drawing || g.state == Erasing {
			g.state = Idle
		}
	}
	return Mutation{}, false
}

func pressTarget(s *State, b Button) (GestureState, domain.PixelColor, bool) {
	switch b {
	case ButtonPrimary:
		return Drawing, s.Brush(), true
	case ButtonSecondary:
		return Erasing, domain.Transparent, true
	}
	return Idle, domain.PixelColor{}, false
}
