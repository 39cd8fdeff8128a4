package domain

import "sort"

// Columns maps each taxonomy status to its ordered task list. Every taxonomy
// id is present as a key, possibly with an empty slice.
type Columns map[Status][]Task

// GroupTasks partitions a flat task list into per-status columns, each sorted
// by position descending (ties broken by id so projection is deterministic).
// Tasks whose status is outside the taxonomy are returned separately so the
// caller can surface the data-integrity problem instead of silently losing
// them.
func GroupTasks(tasks []Task) (Columns, []Task) {
	cols := make(Columns, len(TaskStatuses))
	for _, s := range TaskStatuses {
		cols[s.ID] = []Task{}
	}

	var unknown []Task
	for _, t := range tasks {
		if _, ok := cols[t.Status]; !ok {
			unknown = append(unknown, t)
			continue
		}
		cols[t.Status] = append(cols[t.Status], t)
	}

	for id := range cols {
		col := cols[id]
		sort.SliceStable(col, func(i, j int) bool {
			if col[i].Position != col[j].Position {
				return col[i].Position > col[j].Position
			}
			return col[i].ID < col[j].ID
		})
	}
	return cols, unknown
}

// FindColumn returns the status of the column currently holding taskID.
func FindColumn(cols Columns, taskID string) (Status, bool) {
	for _, s := range TaskStatuses {
		for _, t := range cols[s.ID] {
			if t.ID == taskID {
				return s.ID, true
			}
		}
	}
	return "", false
}

// Flatten concatenates all columns back into a single slice, taxonomy order
// first and column order within.
func (c Columns) Flatten() []Task {
	var out []Task
	for _, s := range TaskStatuses {
		out = append(out, c[s.ID]...)
	}
	return out
}
