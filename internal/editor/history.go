// Package editor 实现像素编辑器的状态引擎：当前网格、撤销历史以及
// 把指针事件转换为网格修改的交互状态机。
package editor

import (
	"github.com/flxzt/pxtogether/internal/domain"
	"github.com/flxzt/pxtogether/internal/shared"

	"github.com/sirupsen/logrus"
)

// History 是网格快照的线性历史。
//
// 撤销采用 emacs 风格的重做：Undo 会先把当前网格追加到历史末尾再回退，
// 因此被撤销的状态不会丢失。要重做，先调用 Record 把游标重置到末尾，
// 再调用 Undo，就会先回到最近一次被撤销的状态。
//
// 历史中的网格都是只读快照，任何修改都必须先克隆。
type History struct {
	entries []shared.Rc[domain.Grid]
	// cursor 是上一次撤销消费的条目下标，仅在 undoing 为 true 时有效
	cursor  int
	undoing bool
}

// Record 保存当前状态。如果最后一条记录与 current 是同一个实例，则什么都不做。
// 返回是否追加了新条目。
func (h *History) Record(current shared.Rc[domain.Grid]) bool {
	h.undoing = false

	if n := len(h.entries); n > 0 && h.entries[n-1].Same(current) {
		logrus.Debug("state has not changed, no need to record")
		return false
	}
	h.entries = append(h.entries, current.Clone())
	return true
}

// Undo 回退到上一条记录。*current 被移入历史末尾，随后指向被恢复的快照。
// 没有可撤销的记录时返回 false 且不做任何修改。
func (h *History) Undo(current *shared.Rc[domain.Grid]) bool {
	index := len(h.entries)
	if h.undoing {
		index = h.cursor
	}
	if index == 0 {
		logrus.Debug("no history, can't undo")
		return false
	}

	prev := h.entries[index-1].Clone()
	h.entries = append(h.entries, *current)
	*current = prev
	h.cursor = index - 1
	h.undoing = true
	return true
}

// Clear 清空所有记录并释放它们持有的网格。
func (h *History) Clear() {
	for i := range h.entries {
		h.entries[i].Release()
	}
	h.entries = nil
	h.cursor, h.undoing = 0, false
}

// Len 返回历史条目数。
func (h *History) Len() int { return len(h.entries) }

// Cursor 返回游标位置；ok 为 false 表示不在撤销链中。
func (h *History) Cursor() (index int, ok bool) {
	return h.cursor, h.undoing
}

// Entry 返回第 i 条快照的只读视图。
func (h *History) Entry(i int) *domain.Grid {
	return h.entries[i].Get()
}
