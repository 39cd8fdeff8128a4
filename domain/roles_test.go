package domain

import "testing"

func TestCapabilities(t *testing.T) {
	writes := []Operation{OpMoveTask, OpCreateTask, OpUpdateTask, OpDeleteTask}

	for _, role := range []Role{RoleAdmin, RoleWorker} {
		if !Can(role, OpViewBoard) {
			t.Fatalf("%s cannot view board", role)
		}
		for _, op := range writes {
			if !Can(role, op) {
				t.Fatalf("%s cannot %s", role, op)
			}
		}
	}

	if !Can(RoleClient, OpViewBoard) {
		t.Fatal("client cannot view board")
	}
	for _, op := range writes {
		if Can(RoleClient, op) {
			t.Fatalf("client allowed to %s", op)
		}
	}
}

func TestUnknownRoleDeniedEverything(t *testing.T) {
	for _, op := range []Operation{OpViewBoard, OpMoveTask, OpCreateTask, OpUpdateTask, OpDeleteTask} {
		if Can(Role("superuser"), op) {
			t.Fatalf("unknown role allowed to %s", op)
		}
	}
}
