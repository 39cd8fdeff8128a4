package domain

import (
	"context"
	"errors"
)

type recordedUpdate struct {
	projectID string
	taskID    string
	patch     TaskPatch
}

type fakeStore struct {
	tasks map[string]Task

	getErr    error
	insertErr error
	updateErr error
	deleteErr error

	getCalls    int
	inserts     []Task
	updates     []recordedUpdate
	deletes     []string
	historyRows []StatusHistoryEntry
	historyErr  error
}

func (f *fakeStore) GetTask(ctx context.Context, taskID string) (*Task, error) {
	f.getCalls++
	if f.getErr != nil {
		return nil, f.getErr
	}
	t, ok := f.tasks[taskID]
	if !ok {
		return nil, nil
	}
	return &t, nil
}

func (f *fakeStore) InsertTask(ctx context.Context, t Task) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	if f.tasks == nil {
		f.tasks = map[string]Task{}
	}
	if _, exists := f.tasks[t.ID]; exists {
		return errors.New("task already exists")
	}
	f.tasks[t.ID] = t
	f.inserts = append(f.inserts, t)
	return nil
}

func (f *fakeStore) UpdateTask(ctx context.Context, projectID, taskID string, patch TaskPatch) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	f.updates = append(f.updates, recordedUpdate{projectID: projectID, taskID: taskID, patch: patch})
	t, ok := f.tasks[taskID]
	if !ok {
		return ErrNotFound
	}
	if patch.Status != nil {
		t.Status = *patch.Status
	}
	if patch.Position != nil {
		t.Position = *patch.Position
	}
	if patch.Title != nil {
		t.Title = *patch.Title
	}
	if patch.Description != nil {
		t.Description = *patch.Description
	}
	if patch.AssigneeID != nil {
		t.AssigneeID = *patch.AssigneeID
	}
	if patch.ReviewerID != nil {
		t.ReviewerID = *patch.ReviewerID
	}
	if patch.DueDate != nil {
		t.DueDate = *patch.DueDate
	}
	if patch.StartDate != nil {
		t.StartDate = *patch.StartDate
	}
	f.tasks[taskID] = t
	return nil
}

func (f *fakeStore) DeleteTask(ctx context.Context, projectID, taskID string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	if _, ok := f.tasks[taskID]; !ok {
		return ErrNotFound
	}
	delete(f.tasks, taskID)
	f.deletes = append(f.deletes, taskID)
	return nil
}

func (f *fakeStore) InsertStatusHistory(ctx context.Context, e StatusHistoryEntry) error {
	if f.historyErr != nil {
		return f.historyErr
	}
	f.historyRows = append(f.historyRows, e)
	return nil
}

// recordingAppender captures history entries handed to services.
type recordingAppender struct {
	entries []StatusHistoryEntry
}

func (r *recordingAppender) Append(e StatusHistoryEntry) {
	r.entries = append(r.entries, e)
}
