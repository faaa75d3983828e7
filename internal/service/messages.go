package service

import (
	"context"

	"github.com/flxzt/pxtogether/internal/domain"
	"github.com/flxzt/pxtogether/internal/editor"
)

// DefaultFileName 是未指定名称时保存和载入使用的文件名
const DefaultFileName = "grid.json"

// Message 是编辑器事件循环处理的一个输入。
type Message interface {
	message()
}

// Command 是 Update 返回的后续异步请求，在事件循环之外执行，
// 结果作为新的 Message 送回事件循环。
type Command func(ctx context.Context) Message

// Channel 是画笔颜色的一个分量。
type Channel int

const (
	Red Channel = iota
	Green
	Blue
)

type (
	// NoneMsg 不做任何事
	NoneMsg struct{}
	// PointerMsg 把指针事件交给交互状态机
	PointerMsg struct{ Event editor.PointerEvent }
	// PutPixelMsg 直接写一个格子
	PutPixelMsg struct {
		Pixel       domain.Pixel
		Column, Row int
		Record      bool
	}
	// RecordMsg 把当前状态保存到历史
	RecordMsg struct{}
	// UndoMsg 撤销一步
	UndoMsg struct{}
	// ClearMsg 记录后清空画布
	ClearMsg struct{}
	// ChangeColorMsg 修改画笔的一个颜色分量
	ChangeColorMsg struct {
		Channel Channel
		Value   float32
	}
	// SetBrushMsg 设置整个画笔颜色
	SetBrushMsg struct{ Color domain.PixelColor }
	// OpenFileMsg 请求载入一个文件
	OpenFileMsg struct{ Name string }
	// OpenFileDataMsg 携带载入到的字节
	OpenFileDataMsg struct {
		Name string
		Data []byte
	}
	// SaveFileMsg 请求保存当前网格
	SaveFileMsg struct{ Name string }
	// ExportMsg 请求把当前网格导出为 PNG
	ExportMsg struct{ Name string }
	// SaveResultMsg 报告一次保存或导出的结果
	SaveResultMsg struct {
		Name string
		Err  error
	}
)

func (NoneMsg) message()         {}
func (PointerMsg) message()      {}
func (PutPixelMsg) message()     {}
func (RecordMsg) message()       {}
func (UndoMsg) message()         {}
func (ClearMsg) message()        {}
func (ChangeColorMsg) message()  {}
func (SetBrushMsg) message()     {}
func (OpenFileMsg) message()     {}
func (OpenFileDataMsg) message() {}
func (SaveFileMsg) message()     {}
func (ExportMsg) message()       {}
func (SaveResultMsg) message()   {}
