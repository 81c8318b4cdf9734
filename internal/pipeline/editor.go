package pipeline

import (
	"github.com/google/uuid"
)

// Stage - этап в том виде, в котором его видит редактор
type Stage struct {
	ID       string
	Position int
	Actions  []string
}

// Position - место элемента: этап и индекс в его последовательности
type Position struct {
	StageID string
	Index   int
}

type DragSource string

const (
	SourceLibrary  DragSource = "library"
	SourceSequence DragSource = "sequence"
)

// DragState - состояние перетаскивания. Для SourceLibrary DraggedItemID -
// идентификатор действия библиотеки, для SourceSequence - ссылка внутри
// этапа. Origin уточняет исходную позицию, если ссылка встречается
// несколько раз.
type DragState struct {
	DraggedItemID string
	DragSource    DragSource
	Origin        *Position
	DropTarget    Position
}

// Result - итог операции над доской
type Result struct {
	Stages []Stage
	// Changed - этапы, последовательности которых изменились
	Changed []string
	// InsertedRef - новая составная ссылка при вставке из библиотеки
	InsertedRef string
}

type Editor struct {
	newSuffix func() string
}

func NewEditor() *Editor {
	return &Editor{newSuffix: uuid.NewString}
}

// NewEditorWithSuffix нужен для детерминированных ссылок в тестах
func NewEditorWithSuffix(gen func() string) *Editor {
	return &Editor{newSuffix: gen}
}

// InsertFromLibrary вставляет действие actionID с новой составной ссылкой
func (e *Editor) InsertFromLibrary(seq []string, actionID string, index int) ([]string, string, error) {
	if actionID == "" {
		return nil, "", ErrEmptyActionID
	}
	ref := CompoundID(actionID, e.newSuffix())
	out, err := insertAt(seq, ref, index)
	if err != nil {
		return nil, "", err
	}
	return out, ref, nil
}

// InsertAction вставляет действие из библиотеки в этап доски
func (e *Editor) InsertAction(stages []Stage, actionID string, target Position) (Result, error) {
	out := cloneStages(stages)
	ti := stageIndex(out, target.StageID)
	if ti < 0 {
		return Result{}, ErrStageNotFound
	}

	seq, ref, err := e.InsertFromLibrary(out[ti].Actions, actionID, target.Index)
	if err != nil {
		return Result{}, err
	}
	out[ti].Actions = seq
	return Result{Stages: out, Changed: []string{target.StageID}, InsertedRef: ref}, nil
}

// MoveAction переносит действие из source в промежуток target.Index этапа
// target.StageID. Внутри одного этапа индекс вставки корректируется после
// удаления, бросок на свою позицию ничего не меняет.
func (e *Editor) MoveAction(stages []Stage, source, target Position) (Result, error) {
	out := cloneStages(stages)
	si := stageIndex(out, source.StageID)
	ti := stageIndex(out, target.StageID)
	if si < 0 || ti < 0 {
		return Result{}, ErrStageNotFound
	}

	if si == ti {
		seq, changed, err := dropWithin(out[si].Actions, source.Index, target.Index)
		if err != nil {
			return Result{}, err
		}
		out[si].Actions = seq
		if !changed {
			return Result{Stages: out}, nil
		}
		return Result{Stages: out, Changed: []string{source.StageID}}, nil
	}

	src := out[si].Actions
	if source.Index < 0 || source.Index >= len(src) {
		return Result{}, ErrIndexOutOfRange
	}
	ref := src[source.Index]
	dst, err := insertAt(out[ti].Actions, ref, target.Index)
	if err != nil {
		return Result{}, err
	}
	out[si].Actions = removeAt(src, source.Index)
	out[ti].Actions = dst
	return Result{Stages: out, Changed: []string{source.StageID, target.StageID}}, nil
}

// RemoveAction удаляет действие по индексу
func (e *Editor) RemoveAction(stages []Stage, at Position) (Result, error) {
	out := cloneStages(stages)
	i := stageIndex(out, at.StageID)
	if i < 0 {
		return Result{}, ErrStageNotFound
	}
	seq, err := Remove(out[i].Actions, at.Index)
	if err != nil {
		return Result{}, err
	}
	out[i].Actions = seq
	return Result{Stages: out, Changed: []string{at.StageID}}, nil
}

// MoveStage ставит этап from на позицию to и перенумеровывает позиции.
// Changed содержит все этапы, чья позиция изменилась.
func (e *Editor) MoveStage(stages []Stage, from, to int) (Result, error) {
	if to < 0 || to >= len(stages) {
		return Result{}, ErrIndexOutOfRange
	}
	return e.DropStage(stages, from, gapForTarget(from, to))
}

// DropStage - перенос этапа в промежуток gap, как Drop для действий
func (e *Editor) DropStage(stages []Stage, from, gap int) (Result, error) {
	ordered, _, err := dropWithin(cloneStages(stages), from, gap)
	if err != nil {
		return Result{}, err
	}

	var changed []string
	for i := range ordered {
		if ordered[i].Position != i {
			ordered[i].Position = i
			changed = append(changed, ordered[i].ID)
		}
	}
	return Result{Stages: ordered, Changed: changed}, nil
}

// Drop применяет состояние перетаскивания к доске
func (e *Editor) Drop(stages []Stage, state DragState) (Result, error) {
	switch state.DragSource {
	case SourceLibrary:
		return e.InsertAction(stages, state.DraggedItemID, state.DropTarget)
	case SourceSequence:
		origin, err := locate(stages, state)
		if err != nil {
			return Result{}, err
		}
		return e.MoveAction(stages, origin, state.DropTarget)
	default:
		return Result{}, ErrUnknownDragSource
	}
}

func locate(stages []Stage, state DragState) (Position, error) {
	if state.Origin != nil {
		i := stageIndex(stages, state.Origin.StageID)
		if i < 0 {
			return Position{}, ErrStageNotFound
		}
		seq := stages[i].Actions
		if state.Origin.Index < 0 || state.Origin.Index >= len(seq) {
			return Position{}, ErrIndexOutOfRange
		}
		if seq[state.Origin.Index] != state.DraggedItemID {
			return Position{}, ErrItemNotFound
		}
		return *state.Origin, nil
	}

	for _, st := range stages {
		for i, ref := range st.Actions {
			if ref == state.DraggedItemID {
				return Position{StageID: st.ID, Index: i}, nil
			}
		}
	}
	return Position{}, ErrItemNotFound
}

func stageIndex(stages []Stage, id string) int {
	for i := range stages {
		if stages[i].ID == id {
			return i
		}
	}
	return -1
}

func cloneStages(stages []Stage) []Stage {
	out := make([]Stage, len(stages))
	for i, st := range stages {
		out[i] = Stage{ID: st.ID, Position: st.Position, Actions: clone(st.Actions)}
	}
	return out
}
