package storage

import (
	"github.com/Azure/azure-sdk-for-go/sdk/data/aztables"

	"unify-api/domain"
)

// entity carries the base table keys.
type entity struct {
	PartitionKey string `json:"PartitionKey"`
	RowKey       string `json:"RowKey"`
}

const (
	edmInt64    = "Edm.Int64"
	edmDateTime = "Edm.DateTime"
)

// taskEntity is a row of the tasks table. Partition key is the project id,
// row key is the task id. Position exceeds int32 range (wall-clock millis)
// and must be annotated as Edm.Int64.
type taskEntity struct {
	entity
	Title        string `json:"Title"`
	Description  string `json:"Description,omitempty"`
	Status       string `json:"Status"`
	AssigneeID   string `json:"AssigneeID,omitempty"`
	ReviewerID   string `json:"ReviewerID,omitempty"`
	DueDate      string `json:"DueDate,omitempty"`
	StartDate    string `json:"StartDate,omitempty"`
	Position     int64  `json:"Position,string"`
	PositionType string `json:"Position@odata.type"`
	CreatedBy    string `json:"CreatedBy,omitempty"`
	// LoggedMinutes is written by the time-entry aggregation pipeline, not by
	// this service; it rides along so board reads can surface it.
	LoggedMinutes int `json:"LoggedMinutes,omitempty"`
}

// taskUpdate carries a partial merge for a task row. Only non-nil fields are
// serialized and touch stored properties.
type taskUpdate struct {
	entity
	Title        *string `json:"Title,omitempty"`
	Description  *string `json:"Description,omitempty"`
	Status       *string `json:"Status,omitempty"`
	AssigneeID   *string `json:"AssigneeID,omitempty"`
	ReviewerID   *string `json:"ReviewerID,omitempty"`
	DueDate      *string `json:"DueDate,omitempty"`
	StartDate    *string `json:"StartDate,omitempty"`
	Position     *int64  `json:"Position,omitempty,string"`
	PositionType *string `json:"Position@odata.type,omitempty"`
}

// historyEntity is a row of the status history table. Partition key is the
// task id; row keys are unique per append and never rewritten.
type historyEntity struct {
	entity
	PreviousStatus string               `json:"PreviousStatus,omitempty"`
	NewStatus      string               `json:"NewStatus"`
	ChangedBy      string               `json:"ChangedBy"`
	ChangedAt      aztables.EDMDateTime `json:"ChangedAt"`
	ChangedAtType  string               `json:"ChangedAt@odata.type"`
}

func newTaskEntity(t domain.Task) taskEntity {
	return taskEntity{
		entity:        entity{PartitionKey: t.ProjectID, RowKey: t.ID},
		Title:         t.Title,
		Description:   t.Description,
		Status:        string(t.Status),
		AssigneeID:    t.AssigneeID,
		ReviewerID:    t.ReviewerID,
		DueDate:       t.DueDate,
		StartDate:     t.StartDate,
		Position:      t.Position,
		PositionType:  edmInt64,
		CreatedBy:     t.CreatedBy,
		LoggedMinutes: t.LoggedMinutes,
	}
}

func (e taskEntity) toTask() domain.Task {
	return domain.Task{
		ID:            e.RowKey,
		Title:         e.Title,
		Description:   e.Description,
		Status:        domain.Status(e.Status),
		ProjectID:     e.PartitionKey,
		AssigneeID:    e.AssigneeID,
		ReviewerID:    e.ReviewerID,
		DueDate:       e.DueDate,
		StartDate:     e.StartDate,
		Position:      e.Position,
		CreatedBy:     e.CreatedBy,
		LoggedMinutes: e.LoggedMinutes,
	}
}

func newTaskUpdate(projectID, taskID string, patch domain.TaskPatch) taskUpdate {
	upd := taskUpdate{entity: entity{PartitionKey: projectID, RowKey: taskID}}
	upd.Title = patch.Title
	upd.Description = patch.Description
	if patch.Status != nil {
		s := string(*patch.Status)
		upd.Status = &s
	}
	upd.AssigneeID = patch.AssigneeID
	upd.ReviewerID = patch.ReviewerID
	upd.DueDate = patch.DueDate
	upd.StartDate = patch.StartDate
	if patch.Position != nil {
		upd.Position = patch.Position
		t := edmInt64
		upd.PositionType = &t
	}
	return upd
}

func newHistoryEntity(rowKey string, e domain.StatusHistoryEntry) historyEntity {
	return historyEntity{
		entity:         entity{PartitionKey: e.TaskID, RowKey: rowKey},
		PreviousStatus: string(e.PreviousStatus),
		NewStatus:      string(e.NewStatus),
		ChangedBy:      e.ChangedBy,
		ChangedAt:      aztables.EDMDateTime(e.ChangedAt.UTC()),
		ChangedAtType:  edmDateTime,
	}
}
