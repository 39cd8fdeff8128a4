package domain

import "time"

// Task represents a single board item.
type Task struct {
	ID            string `json:"id"`
	Title         string `json:"title"`
	Description   string `json:"description,omitempty"`
	Status        Status `json:"status"`
	ProjectID     string `json:"projectId"`
	AssigneeID    string `json:"assigneeId,omitempty"`
	ReviewerID    string `json:"reviewerId,omitempty"`
	DueDate       string `json:"dueDate,omitempty"`
	StartDate     string `json:"startDate,omitempty"`
	Position      int64  `json:"position"`
	CreatedBy     string `json:"createdBy,omitempty"`
	LoggedMinutes int    `json:"loggedMinutes,omitempty"`
}

// TaskPatch carries a partial update. A nil field leaves the stored value
// untouched; a pointer to the empty string clears an optional field. Position
// rides along so a board move is a plain {Status, Position} patch.
type TaskPatch struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Status      *Status `json:"status,omitempty"`
	AssigneeID  *string `json:"assigneeId,omitempty"`
	ReviewerID  *string `json:"reviewerId,omitempty"`
	DueDate     *string `json:"dueDate,omitempty"`
	StartDate   *string `json:"startDate,omitempty"`
	Position    *int64  `json:"position,omitempty"`
}

// Empty reports whether the patch carries no fields at all.
func (p TaskPatch) Empty() bool {
	return p.Title == nil && p.Description == nil && p.Status == nil &&
		p.AssigneeID == nil && p.ReviewerID == nil &&
		p.DueDate == nil && p.StartDate == nil && p.Position == nil
}

// StatusHistoryEntry is one append-only audit row for a status transition.
// PreviousStatus is empty when the stored status could not be read.
type StatusHistoryEntry struct {
	TaskID         string    `json:"taskId"`
	PreviousStatus Status    `json:"previousStatus,omitempty"`
	NewStatus      Status    `json:"newStatus"`
	ChangedBy      string    `json:"changedBy"`
	ChangedAt      time.Time `json:"changedAt"`
}
