package domain

// Gesture is a single drag-and-drop interaction: the dragged task id and the
// id it was dropped on. OverID is either a column (status) id or another task
// id within a column.
type Gesture struct {
	ActiveID string `json:"activeId"`
	OverID   string `json:"overId"`
}

// MoveRequest is the persistence request produced by a reconciled gesture.
type MoveRequest struct {
	TaskID   string
	Status   Status
	Position int64
}

// Board is the transient, locally owned projection of the task list. Drag
// gestures mutate it immediately; persistence confirms or fails afterwards.
// Tasks whose persisted state is unknown after a failed move are tracked in
// the stale set rather than silently diverging.
type Board struct {
	Columns Columns
	stale   map[string]struct{}
}

// NewBoard projects tasks into a fresh board. Tasks with a status outside the
// taxonomy are dropped from every column and returned to the caller.
func NewBoard(tasks []Task) (*Board, []Task) {
	cols, unknown := GroupTasks(tasks)
	return &Board{Columns: cols, stale: make(map[string]struct{})}, unknown
}

// ApplyDrag reconciles a gesture against the board, mutating the columns in
// place, and returns the move to persist. The boolean is false for no-op
// gestures: an unknown active id, an unresolvable drop target, or a task
// dropped on itself.
//
// The moved task is stamped with the destination status and the supplied
// position, which is expected to come from NextPosition.
func (b *Board) ApplyDrag(g Gesture, position int64) (MoveRequest, bool) {
	source, ok := FindColumn(b.Columns, g.ActiveID)
	if !ok {
		return MoveRequest{}, false
	}

	dest, ok := b.resolveDestination(g.OverID)
	if !ok {
		return MoveRequest{}, false
	}

	if source == dest && g.ActiveID == g.OverID {
		return MoveRequest{}, false
	}

	sourceTasks := b.Columns[source]
	fromIndex := -1
	for i, t := range sourceTasks {
		if t.ID == g.ActiveID {
			fromIndex = i
			break
		}
	}
	if fromIndex == -1 {
		return MoveRequest{}, false
	}

	moved := sourceTasks[fromIndex]
	sourceTasks = append(sourceTasks[:fromIndex], sourceTasks[fromIndex+1:]...)
	b.Columns[source] = sourceTasks

	destTasks := b.Columns[dest]
	insertIndex := len(destTasks)
	for i, t := range destTasks {
		if t.ID == g.OverID {
			insertIndex = i
			break
		}
	}

	moved.Status = dest
	moved.Position = position

	destTasks = append(destTasks, Task{})
	copy(destTasks[insertIndex+1:], destTasks[insertIndex:])
	destTasks[insertIndex] = moved
	b.Columns[dest] = destTasks

	return MoveRequest{TaskID: moved.ID, Status: dest, Position: position}, true
}

// resolveDestination maps a drop target id to a column: a taxonomy id wins
// directly, otherwise the column containing that task id.
func (b *Board) resolveDestination(overID string) (Status, bool) {
	if ValidStatus(Status(overID)) {
		return Status(overID), true
	}
	return FindColumn(b.Columns, overID)
}

// MarkStale records that taskID's persisted state may differ from the board
// after a failed move.
func (b *Board) MarkStale(taskID string) {
	b.stale[taskID] = struct{}{}
}

// StaleTasks lists task ids flagged by MarkStale, in taxonomy/column order.
func (b *Board) StaleTasks() []string {
	if len(b.stale) == 0 {
		return nil
	}
	var ids []string
	for _, t := range b.Columns.Flatten() {
		if _, ok := b.stale[t.ID]; ok {
			ids = append(ids, t.ID)
		}
	}
	// Stale tasks no longer on the board (deleted remotely) still count.
	for id := range b.stale {
		if _, ok := FindColumn(b.Columns, id); !ok {
			ids = append(ids, id)
		}
	}
	return ids
}

// Resync replaces the board with a fresh projection of tasks and clears all
// stale flags. It returns tasks outside the taxonomy, as NewBoard does.
func (b *Board) Resync(tasks []Task) []Task {
	cols, unknown := GroupTasks(tasks)
	b.Columns = cols
	b.stale = make(map[string]struct{})
	return unknown
}
