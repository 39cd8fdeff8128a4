package domain

import (
	"testing"
)

func TestGroupTasksRoundTrip(t *testing.T) {
	tasks := []Task{
		{ID: "t1", Status: StatusBacklog, Position: 100},
		{ID: "t2", Status: StatusInProgress, Position: 300},
		{ID: "t3", Status: StatusBacklog, Position: 200},
		{ID: "t4", Status: StatusDone, Position: 50},
		{ID: "t5", Status: StatusBlocked, Position: 10},
	}

	cols, unknown := GroupTasks(tasks)
	if len(unknown) != 0 {
		t.Fatalf("unexpected unknown tasks: %#v", unknown)
	}

	flat := cols.Flatten()
	if len(flat) != len(tasks) {
		t.Fatalf("expected %d tasks after flatten, got %d", len(tasks), len(flat))
	}
	seen := map[string]bool{}
	for _, task := range flat {
		if seen[task.ID] {
			t.Fatalf("duplicate task %s after projection", task.ID)
		}
		seen[task.ID] = true
	}
	for _, task := range tasks {
		if !seen[task.ID] {
			t.Fatalf("task %s lost in projection", task.ID)
		}
	}
}

func TestGroupTasksEveryColumnPresent(t *testing.T) {
	cols, _ := GroupTasks(nil)
	if len(cols) != len(TaskStatuses) {
		t.Fatalf("expected %d columns, got %d", len(TaskStatuses), len(cols))
	}
	for _, s := range TaskStatuses {
		tasks, ok := cols[s.ID]
		if !ok {
			t.Fatalf("column %s missing", s.ID)
		}
		if len(tasks) != 0 {
			t.Fatalf("expected empty column %s, got %d tasks", s.ID, len(tasks))
		}
	}
}

func TestGroupTasksOrdersByPositionDescending(t *testing.T) {
	tasks := []Task{
		{ID: "a", Status: StatusOnDeck, Position: 10},
		{ID: "b", Status: StatusOnDeck, Position: 30},
		{ID: "c", Status: StatusOnDeck, Position: 20},
	}
	cols, _ := GroupTasks(tasks)

	col := cols[StatusOnDeck]
	for i := 1; i < len(col); i++ {
		if col[i-1].Position < col[i].Position {
			t.Fatalf("column not sorted descending at %d: %#v", i, col)
		}
	}
	if col[0].ID != "b" || col[1].ID != "c" || col[2].ID != "a" {
		t.Fatalf("unexpected order: %s %s %s", col[0].ID, col[1].ID, col[2].ID)
	}
}

func TestGroupTasksSurfacesUnknownStatus(t *testing.T) {
	tasks := []Task{
		{ID: "ok", Status: StatusBacklog, Position: 1},
		{ID: "bad", Status: Status("archived"), Position: 2},
	}
	cols, unknown := GroupTasks(tasks)

	if len(unknown) != 1 || unknown[0].ID != "bad" {
		t.Fatalf("expected task 'bad' surfaced as unknown, got %#v", unknown)
	}
	if len(cols.Flatten()) != 1 {
		t.Fatalf("unknown-status task leaked into a column: %#v", cols)
	}
}

func TestFindColumn(t *testing.T) {
	cols, _ := GroupTasks([]Task{
		{ID: "t1", Status: StatusBlocked, Position: 5},
	})

	status, ok := FindColumn(cols, "t1")
	if !ok || status != StatusBlocked {
		t.Fatalf("expected t1 in blocked, got %s ok=%v", status, ok)
	}
	if _, ok := FindColumn(cols, "missing"); ok {
		t.Fatal("expected missing id to not resolve")
	}
}

func TestStatusLabelFallsBackToRawID(t *testing.T) {
	if got := StatusLabel(StatusAwaitingReview); got != "Awaiting Review" {
		t.Fatalf("unexpected label: %s", got)
	}
	if got := StatusLabel(Status("mystery")); got != "mystery" {
		t.Fatalf("expected raw id fallback, got %s", got)
	}
}
