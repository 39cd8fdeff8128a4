package domain

import (
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
)

// TaskStore defines the remote table operations the board services need.
type TaskStore interface {
	// GetTask returns nil, nil when the id references no stored task.
	GetTask(ctx context.Context, taskID string) (*Task, error)
	InsertTask(ctx context.Context, t Task) error
	UpdateTask(ctx context.Context, projectID, taskID string, patch TaskPatch) error
	DeleteTask(ctx context.Context, projectID, taskID string) error
}

// HistoryStore persists append-only status-history rows.
type HistoryStore interface {
	InsertStatusHistory(ctx context.Context, e StatusHistoryEntry) error
}

// HistoryAppender records a status transition. Appends are best-effort
// auditing: implementations log failures and never report them back, so a
// failed append cannot fail or roll back the move that produced it.
type HistoryAppender interface {
	Append(e StatusHistoryEntry)
}

const historyAppendTimeout = 15 * time.Second

type syncHistoryAppender struct {
	store HistoryStore
}

// NewSyncHistoryAppender writes history rows inline on the caller's
// goroutine. Failures are logged and swallowed.
func NewSyncHistoryAppender(store HistoryStore) HistoryAppender {
	return syncHistoryAppender{store: store}
}

func (a syncHistoryAppender) Append(e StatusHistoryEntry) {
	ctx, cancel := context.WithTimeout(context.Background(), historyAppendTimeout)
	defer cancel()
	if err := a.store.InsertStatusHistory(ctx, e); err != nil {
		log.WithFields(log.Fields{
			"task":       e.TaskID,
			"new_status": e.NewStatus,
		}).WithError(err).Error("status history append failed")
	}
}

// MoveService is the move persistence gateway: it writes status/position
// changes for a single task and appends an audit row when the status actually
// changed.
type MoveService struct {
	store   TaskStore
	history HistoryAppender
}

func NewMoveService(store TaskStore, history HistoryAppender) MoveService {
	return MoveService{store: store, history: history}
}

// Move persists a status/position change attributed to actor. The task write
// is the source of truth: if the lookup or the write fails, the whole call
// fails. History is appended only on an actual status change, after the
// primary write succeeded.
func (s MoveService) Move(ctx context.Context, actor Profile, taskID string, status Status, position int64) error {
	if !Can(actor.Role, OpMoveTask) {
		return ErrForbidden
	}
	if taskID == "" {
		return ValidationError{Field: "taskId", Message: "missing task id"}
	}
	if !ValidStatus(status) {
		return ValidationError{Field: "status", Message: fmt.Sprintf("unknown status %q", status)}
	}

	stored, err := s.store.GetTask(ctx, taskID)
	if err != nil {
		return fmt.Errorf("fetch task before move: %w", err)
	}
	if stored == nil {
		return ErrNotFound
	}

	patch := TaskPatch{Status: &status, Position: &position}
	if err := s.store.UpdateTask(ctx, stored.ProjectID, taskID, patch); err != nil {
		return fmt.Errorf("move task: %w", err)
	}

	if stored.Status != status {
		s.history.Append(StatusHistoryEntry{
			TaskID:         taskID,
			PreviousStatus: stored.Status,
			NewStatus:      status,
			ChangedBy:      actor.ID,
			ChangedAt:      time.Now().UTC(),
		})
	}
	return nil
}
