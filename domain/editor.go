package domain

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// CreateTaskInput is the create form payload. Empty optional strings mean
// "not set"; they are stored as cleared values.
type CreateTaskInput struct {
	Title       string `json:"title"`
	ProjectID   string `json:"projectId"`
	Status      Status `json:"status,omitempty"`
	AssigneeID  string `json:"assigneeId,omitempty"`
	ReviewerID  string `json:"reviewerId,omitempty"`
	DueDate     string `json:"dueDate,omitempty"`
	StartDate   string `json:"startDate,omitempty"`
	Description string `json:"description,omitempty"`
}

// EditorService is the task detail editor: create, partial update and delete
// for a single task. All three operations are staff-gated.
type EditorService struct {
	store   TaskStore
	history HistoryAppender
}

func NewEditorService(store TaskStore, history HistoryAppender) EditorService {
	return EditorService{store: store, history: history}
}

const dateLayout = "2006-01-02"

func validDate(field, value string) error {
	if value == "" {
		return nil
	}
	if _, err := time.Parse(dateLayout, value); err != nil {
		return ValidationError{Field: field, Message: "expected YYYY-MM-DD"}
	}
	return nil
}

// Create validates the payload and inserts a new task. Status defaults to
// backlog and the position is stamped from the monotonic source, so the task
// sorts to the top of its column.
func (s EditorService) Create(ctx context.Context, actor Profile, in CreateTaskInput) (Task, error) {
	if !Can(actor.Role, OpCreateTask) {
		return Task{}, ErrForbidden
	}
	if len([]rune(in.Title)) < 2 {
		return Task{}, ValidationError{Field: "title", Message: "task title must be at least 2 characters"}
	}
	if in.ProjectID == "" {
		return Task{}, ValidationError{Field: "projectId", Message: "select a project"}
	}
	status := in.Status
	if status == "" {
		status = StatusBacklog
	}
	if !ValidStatus(status) {
		return Task{}, ValidationError{Field: "status", Message: fmt.Sprintf("unknown status %q", status)}
	}
	if err := validDate("dueDate", in.DueDate); err != nil {
		return Task{}, err
	}
	if err := validDate("startDate", in.StartDate); err != nil {
		return Task{}, err
	}

	t := Task{
		ID:          uuid.NewString(),
		Title:       in.Title,
		Description: in.Description,
		Status:      status,
		ProjectID:   in.ProjectID,
		AssigneeID:  in.AssigneeID,
		ReviewerID:  in.ReviewerID,
		DueDate:     in.DueDate,
		StartDate:   in.StartDate,
		Position:    NextPosition(),
		CreatedBy:   actor.ID,
	}
	if err := s.store.InsertTask(ctx, t); err != nil {
		return Task{}, fmt.Errorf("create task: %w", err)
	}
	return t, nil
}

// Update applies a presence-based partial patch: nil fields stay untouched,
// empty-string fields clear the stored value. Position is owned by board
// moves and cannot be set here. A status change goes through the same
// history-append path as a board move.
func (s EditorService) Update(ctx context.Context, actor Profile, taskID string, patch TaskPatch) error {
	if !Can(actor.Role, OpUpdateTask) {
		return ErrForbidden
	}
	if taskID == "" {
		return ValidationError{Field: "taskId", Message: "missing task id"}
	}
	if patch.Position != nil {
		return ValidationError{Field: "position", Message: "position is set by board moves only"}
	}
	if patch.Empty() {
		return ValidationError{Field: "patch", Message: "update had no fields"}
	}
	if patch.Title != nil && len([]rune(*patch.Title)) < 2 {
		return ValidationError{Field: "title", Message: "task title must be at least 2 characters"}
	}
	if patch.Status != nil && !ValidStatus(*patch.Status) {
		return ValidationError{Field: "status", Message: fmt.Sprintf("unknown status %q", *patch.Status)}
	}
	if patch.DueDate != nil {
		if err := validDate("dueDate", *patch.DueDate); err != nil {
			return err
		}
	}
	if patch.StartDate != nil {
		if err := validDate("startDate", *patch.StartDate); err != nil {
			return err
		}
	}

	stored, err := s.store.GetTask(ctx, taskID)
	if err != nil {
		return fmt.Errorf("fetch task before update: %w", err)
	}
	if stored == nil {
		return ErrNotFound
	}

	if err := s.store.UpdateTask(ctx, stored.ProjectID, taskID, patch); err != nil {
		return fmt.Errorf("update task: %w", err)
	}

	if patch.Status != nil && *patch.Status != stored.Status {
		s.history.Append(StatusHistoryEntry{
			TaskID:         taskID,
			PreviousStatus: stored.Status,
			NewStatus:      *patch.Status,
			ChangedBy:      actor.ID,
			ChangedAt:      time.Now().UTC(),
		})
	}
	return nil
}

// Delete permanently removes the task. Unknown ids fail with ErrNotFound and
// cause no store mutation.
func (s EditorService) Delete(ctx context.Context, actor Profile, taskID string) error {
	if !Can(actor.Role, OpDeleteTask) {
		return ErrForbidden
	}
	if taskID == "" {
		return ValidationError{Field: "taskId", Message: "missing task id"}
	}

	stored, err := s.store.GetTask(ctx, taskID)
	if err != nil {
		return fmt.Errorf("fetch task before delete: %w", err)
	}
	if stored == nil {
		return ErrNotFound
	}
	if err := s.store.DeleteTask(ctx, stored.ProjectID, taskID); err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	return nil
}
