// Package hub 运行编辑器的事件循环：消息按到达顺序在单个 goroutine 中处理，
// Update 返回的命令在独立的 goroutine 中执行，结果再送回循环。
package hub

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/flxzt/pxtogether/internal/service"
)

// ErrLoopStopped 表示事件循环已经退出
var ErrLoopStopped = errors.New("hub: loop stopped")

// Updater 是事件循环驱动的状态机，由 *service.EditorService 实现。
type Updater interface {
	Update(ctx context.Context, msg service.Message) service.Command
}

// loopMessage 是内部通道中传递的条目，msg 和 inspect 只有一个非空
type loopMessage struct {
	msg     service.Message
	inspect func()
	done    chan struct{}
}

// Loop 串行化所有对编辑器状态的访问
type Loop struct {
	messageChan chan loopMessage
	updater     Updater
	pending     sync.WaitGroup
	stopped     chan struct{}
	stopOnce    sync.Once
}

// NewLoop 创建事件循环，buffer 是内部通道的容量
func NewLoop(updater Updater, buffer int) *Loop {
	if updater == nil {
		panic("Updater cannot be nil for Loop")
	}
	if buffer <= 0 {
		buffer = 64
	}
	return &Loop{
		messageChan: make(chan loopMessage, buffer),
		updater:     updater,
		stopped:     make(chan struct{}),
	}
}

// Run 处理消息直到 ctx 被取消。应该在一个单独的 goroutine 中运行。
func (l *Loop) Run(ctx context.Context) {
	log := logrus.WithField("component", "hub")
	log.Debug("Loop is running...")
	defer l.stop()

	for {
		select {
		case <-ctx.Done():
			log.Debug("Loop is shutting down...")
			return
		case item := <-l.messageChan:
			if item.inspect != nil {
				item.inspect()
				close(item.done)
				continue
			}
			l.handle(ctx, item.msg)
		}
	}
}

func (l *Loop) handle(ctx context.Context, msg service.Message) {
	defer l.pending.Done()

	cmd := l.updater.Update(ctx, msg)
	if cmd == nil {
		return
	}
	l.pending.Add(1)
	go func() {
		defer l.pending.Done()
		defer func() {
			if r := recover(); r != nil {
				logrus.WithField("message", fmt.Sprintf("%T", msg)).Errorf("Command panicked: %v", r)
			}
		}()
		result := cmd(ctx)
		if result == nil {
			return
		}
		if _, none := result.(service.NoneMsg); none {
			return
		}
		if err := l.Send(result); err != nil {
			logrus.WithField("message", fmt.Sprintf("%T", result)).WithError(err).Warn("Dropped command result")
		}
	}()
}

// Send 把消息放入循环。循环已经退出时返回 ErrLoopStopped。
func (l *Loop) Send(msg service.Message) error {
	select {
	case <-l.stopped:
		return ErrLoopStopped
	default:
	}
	l.pending.Add(1)
	select {
	case l.messageChan <- loopMessage{msg: msg}:
		return nil
	case <-l.stopped:
		l.pending.Done()
		return ErrLoopStopped
	}
}

// Inspect 在循环的 goroutine 中执行 fn 并等待它返回，fn 中可以安全读取编辑器状态。
func (l *Loop) Inspect(fn func()) error {
	select {
	case <-l.stopped:
		return ErrLoopStopped
	default:
	}
	done := make(chan struct{})
	select {
	case l.messageChan <- loopMessage{inspect: fn, done: done}:
	case <-l.stopped:
		return ErrLoopStopped
	}
	select {
	case <-done:
		return nil
	case <-l.stopped:
		return ErrLoopStopped
	}
}

// Drain 等待所有已发送的消息以及它们产生的命令处理完毕。
func (l *Loop) Drain() error {
	idle := make(chan struct{})
	go func() {
		l.pending.Wait()
		close(idle)
	}()
	select {
	case <-idle:
		return nil
	case <-l.stopped:
		return ErrLoopStopped
	}
}

// Done 在循环退出后关闭
func (l *Loop) Done() <-chan struct{} { return l.stopped }

func (l *Loop) stop() {
	l.stopOnce.Do(func() { close(l.stopped) })
}
