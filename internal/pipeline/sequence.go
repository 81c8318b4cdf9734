// Package pipeline содержит логику редактора воронки: вставку действий из
// библиотеки, перестановку действий внутри этапа и между этапами, удаление
// действий и перестановку самих этапов. Все операции чистые: входные срезы
// не изменяются, результат всегда новый срез.
package pipeline

import (
	"errors"
	"strings"

	"github.com/google/uuid"
)

var (
	ErrIndexOutOfRange   = errors.New("index out of range")
	ErrStageNotFound     = errors.New("stage not found")
	ErrItemNotFound      = errors.New("dragged item not found")
	ErrUnknownDragSource = errors.New("unknown drag source")
	ErrEmptyActionID     = errors.New("action id is required")
)

// AppendIndex - индекс вставки в конец последовательности
const AppendIndex = -1

const compoundSeparator = "_"

// CompoundID собирает ссылку "<actionID>_<suffix>"
func CompoundID(actionID, suffix string) string {
	return actionID + compoundSeparator + suffix
}

// ActionIDOf возвращает идентификатор действия из библиотеки для ссылки.
// Для составной ссылки "send-email_<uuid>" это "send-email", простая ссылка
// возвращается как есть.
func ActionIDOf(ref string) string {
	i := strings.LastIndex(ref, compoundSeparator)
	if i <= 0 {
		return ref
	}
	if _, err := uuid.Parse(ref[i+1:]); err != nil {
		return ref
	}
	return ref[:i]
}

// Insert вставляет ref в позицию index (AppendIndex - в конец)
func Insert(seq []string, ref string, index int) ([]string, error) {
	return insertAt(seq, ref, index)
}

// Remove удаляет элемент по индексу. Удаление единственного элемента
// возвращает пустой (не nil) срез.
func Remove(seq []string, index int) ([]string, error) {
	if index < 0 || index >= len(seq) {
		return nil, ErrIndexOutOfRange
	}
	return removeAt(seq, index), nil
}

// Drop переносит элемент from в промежуток gap той же последовательности.
// gap - позиция вставки в исходной последовательности (0..len, AppendIndex
// - в конец). Бросок на собственную позицию (gap == from или gap == from+1)
// ничего не меняет, второе значение в этом случае false.
func Drop(seq []string, from, gap int) ([]string, bool, error) {
	return dropWithin(seq, from, gap)
}

// Move переставляет элемент так, чтобы он оказался на позиции to:
// ["a","b","c"], 0 -> 2 дает ["b","c","a"].
func Move(seq []string, from, to int) ([]string, error) {
	if to < 0 || to >= len(seq) {
		return nil, ErrIndexOutOfRange
	}
	out, _, err := dropWithin(seq, from, gapForTarget(from, to))
	return out, err
}

func gapForTarget(from, to int) int {
	if to > from {
		return to + 1
	}
	return to
}

func dropWithin[T any](seq []T, from, gap int) ([]T, bool, error) {
	n := len(seq)
	if from < 0 || from >= n {
		return nil, false, ErrIndexOutOfRange
	}
	if gap == AppendIndex {
		gap = n
	}
	if gap < 0 || gap > n {
		return nil, false, ErrIndexOutOfRange
	}
	if gap == from || gap == from+1 {
		return clone(seq), false, nil
	}

	item := seq[from]
	out := removeAt(seq, from)
	if from < gap {
		gap--
	}
	out, err := insertAt(out, item, gap)
	if err != nil {
		return nil, false, err
	}
	return out, true, nil
}

func insertAt[T any](seq []T, item T, index int) ([]T, error) {
	if index == AppendIndex {
		index = len(seq)
	}
	if index < 0 || index > len(seq) {
		return nil, ErrIndexOutOfRange
	}
	out := make([]T, 0, len(seq)+1)
	out = append(out, seq[:index]...)
	out = append(out, item)
	out = append(out, seq[index:]...)
	return out, nil
}

func removeAt[T any](seq []T, index int) []T {
	out := make([]T, 0, len(seq)-1)
	out = append(out, seq[:index]...)
	return append(out, seq[index+1:]...)
}

func clone[T any](seq []T) []T {
	out := make([]T, len(seq))
	copy(out, seq)
	return out
}
