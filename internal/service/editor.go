package service

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/flxzt/pxtogether/internal/domain"
	"github.com/flxzt/pxtogether/internal/editor"
	"github.com/flxzt/pxtogether/internal/export"
	"github.com/flxzt/pxtogether/internal/repository"
)

// Archiver 在保存成功后为文件留存一份历史归档。
type Archiver interface {
	Archive(ctx context.Context, name string, data []byte, savedAt time.Time) error
}

// EditorService 持有编辑器状态并按顺序处理消息。
// Update 只能在一个 goroutine 中调用，异步的部分由返回的 Command 完成。
type EditorService struct {
	state    *editor.State
	gesture  editor.Gesture
	store    repository.GridStore
	archiver Archiver
	now      func() time.Time
}

// NewEditorService 创建 EditorService。archiver 可以为 nil，表示不归档。
func NewEditorService(state *editor.State, store repository.GridStore, archiver Archiver) *EditorService {
	if state == nil {
		state = editor.DefaultState()
	}
	if store == nil {
		panic("EditorService requires a non-nil GridStore")
	}
	return &EditorService{
		state:    state,
		store:    store,
		archiver: archiver,
		now:      time.Now,
	}
}

// State 返回编辑器状态，只应在调用 Update 的 goroutine 中读取。
func (s *EditorService) State() *editor.State { return s.state }

// Gesture 返回当前的手势状态。
func (s *EditorService) Gesture() editor.GestureState { return s.gesture.State() }

// Update 处理一条消息，返回需要异步执行的后续命令（可能为 nil）。
func (s *EditorService) Update(ctx context.Context, msg Message) Command {
	switch m := msg.(type) {
	case nil, NoneMsg:
		return nil

	case PointerMsg:
		if mut, ok := s.gesture.Handle(s.state, m.Event); ok {
			s.apply(mut)
		}

	case PutPixelMsg:
		s.apply(editor.Mutation{Pixel: m.Pixel, Column: m.Column, Row: m.Row, Record: m.Record})

	case RecordMsg:
		s.state.Record()

	case UndoMsg:
		s.state.Undo()

	case ClearMsg:
		s.state.ClearCanvas()

	case ChangeColorMsg:
		switch m.Channel {
		case Red:
			s.state.SetRed(m.Value)
		case Green:
			s.state.SetGreen(m.Value)
		case Blue:
			s.state.SetBlue(m.Value)
		default:
			logrus.WithField("channel", m.Channel).Warn("Unknown color channel")
		}

	case SetBrushMsg:
		s.state.SetBrush(m.Color)

	case OpenFileMsg:
		return s.openFile(fileName(m.Name, DefaultFileName))

	case OpenFileDataMsg:
		s.loadData(m.Name, m.Data)

	case SaveFileMsg:
		name := fileName(m.Name, DefaultFileName)
		data, err := domain.EncodeGrid(s.state.Snapshot())
		if err != nil {
			logrus.WithField("file", name).WithError(err).Error("Encoding grid failed")
			return nil
		}
		return s.saveFile(name, data, true)

	case ExportMsg:
		name := fileName(m.Name, exportName(DefaultFileName))
		data, err := export.PNG(s.state, int(s.state.CellSize().Width))
		if err != nil {
			logrus.WithField("file", name).WithError(err).Error("Exporting grid failed")
			return nil
		}
		return s.saveFile(name, data, false)

	case SaveResultMsg:
		logCtx := logrus.WithField("file", m.Name)
		if m.Err != nil {
			logCtx.WithError(m.Err).Error("Saving file failed")
		} else {
			logCtx.Info("File saved")
		}

	default:
		logrus.WithField("message", fmt.Sprintf("%T", msg)).Warn("Unhandled message")
	}
	return nil
}

func (s *EditorService) apply(mut editor.Mutation) {
	if err := mut.Apply(s.state); err != nil {
		logrus.WithFields(logrus.Fields{
			"column": mut.Column,
			"row":    mut.Row,
		}).WithError(err).Warn("Failed to put pixel")
	}
}

func (s *EditorService) openFile(name string) Command {
	store := s.store
	return func(ctx context.Context) Message {
		logCtx := logrus.WithField("file", name)
		data, err := store.Open(ctx, name)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				logCtx.Warn("File not found")
				return NoneMsg{}
			}
			logCtx.WithError(fmt.Errorf("%w: %v", ErrReadFailure, err)).Error("Opening file failed")
			return NoneMsg{}
		}
		return OpenFileDataMsg{Name: name, Data: data}
	}
}

// loadData 解析载入的字节。解析失败时保持当前状态不变。
func (s *EditorService) loadData(name string, data []byte) {
	logCtx := logrus.WithField("file", name)
	grid, err := domain.DecodeGrid(data)
	if err != nil {
		logCtx.WithError(err).Error("Reading file failed")
		return
	}
	if err := s.state.ReplaceGrid(grid); err != nil {
		logCtx.WithError(err).Error("Replacing grid failed")
		return
	}
	s.gesture.Reset()
	logCtx.WithFields(logrus.Fields{
		"rows":    grid.Rows(),
		"columns": grid.Columns(),
	}).Info("File loaded")
}

func (s *EditorService) saveFile(name string, data []byte, archive bool) Command {
	store, archiver, now := s.store, s.archiver, s.now
	return func(ctx context.Context) Message {
		if err := store.Save(ctx, name, data); err != nil {
			return SaveResultMsg{Name: name, Err: fmt.Errorf("%w: %v", ErrWriteFailure, err)}
		}
		if archive && archiver != nil {
			if err := archiver.Archive(ctx, name, data, now()); err != nil {
				logrus.WithField("file", name).WithError(err).Warn("Failed to archive saved file")
			}
		}
		return SaveResultMsg{Name: name}
	}
}

func fileName(name, fallback string) string {
	if name = strings.TrimSpace(name); name == "" {
		return fallback
	}
	return name
}

func exportName(name string) string {
	return strings.TrimSuffix(name, path.Ext(name)) + ".png"
}
