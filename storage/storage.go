package storage

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
	"github.com/Azure/azure-sdk-for-go/sdk/data/aztables"
	"github.com/google/uuid"

	"unify-api/domain"
)

// Store provides access to the remote tasks and status-history tables.
type Store struct {
	taskTable    *aztables.Client
	historyTable *aztables.Client
}

// New creates a Store instance from the given connection string.
func New(connStr, tasksTable, historyTable string) (*Store, error) {
	clientOptions := aztables.ClientOptions{
		ClientOptions: azcore.ClientOptions{
			Retry: policy.RetryOptions{
				MaxRetries:    3,
				TryTimeout:    time.Minute * 3,
				RetryDelay:    time.Second * 1,
				MaxRetryDelay: time.Second * 15,
				StatusCodes:   []int{408, 429, 500, 502, 503, 504},
			},
		},
	}
	svc, err := aztables.NewServiceClientFromConnectionString(connStr, &clientOptions)
	if err != nil {
		return nil, err
	}
	return &Store{
		taskTable:    svc.NewClient(tasksTable),
		historyTable: svc.NewClient(historyTable),
	}, nil
}

// quoteFilter escapes a value for use inside an OData filter string literal.
func quoteFilter(v string) string {
	return strings.ReplaceAll(v, "'", "''")
}

// FetchTasks retrieves all tasks for the provided project.
func (s *Store) FetchTasks(ctx context.Context, projectID string) ([]domain.Task, error) {
	filter := "PartitionKey eq '" + quoteFilter(projectID) + "'"
	pager := s.taskTable.NewListEntitiesPager(&aztables.ListEntitiesOptions{Filter: &filter})
	tasks := []domain.Task{}
	for pager.More() {
		resp, err := pager.NextPage(ctx)
		if err != nil {
			return nil, err
		}
		for _, raw := range resp.Entities {
			var ent taskEntity
			if err := json.Unmarshal(raw, &ent); err != nil {
				return nil, err
			}
			tasks = append(tasks, ent.toTask())
		}
	}
	return tasks, nil
}

// GetTask looks a task up by id alone. Task ids are unique across projects,
// so this is a row-key filter over the table; the result is nil, nil when no
// row matches.
func (s *Store) GetTask(ctx context.Context, taskID string) (*domain.Task, error) {
	filter := "RowKey eq '" + quoteFilter(taskID) + "'"
	top := int32(1)
	pager := s.taskTable.NewListEntitiesPager(&aztables.ListEntitiesOptions{Filter: &filter, Top: &top})
	for pager.More() {
		resp, err := pager.NextPage(ctx)
		if err != nil {
			return nil, err
		}
		if len(resp.Entities) == 0 {
			continue
		}
		var ent taskEntity
		if err := json.Unmarshal(resp.Entities[0], &ent); err != nil {
			return nil, err
		}
		t := ent.toTask()
		return &t, nil
	}
	return nil, nil
}

// InsertTask adds a new task row.
func (s *Store) InsertTask(ctx context.Context, t domain.Task) error {
	payload, err := json.Marshal(newTaskEntity(t))
	if err == nil {
		_, err = s.taskTable.AddEntity(ctx, payload, nil)
	}
	return err
}

// UpdateTask merges the patch into an existing task row. Absent patch fields
// never touch stored properties.
func (s *Store) UpdateTask(ctx context.Context, projectID, taskID string, patch domain.TaskPatch) error {
	payload, err := json.Marshal(newTaskUpdate(projectID, taskID, patch))
	if err != nil {
		return err
	}
	et := azcore.ETagAny
	_, err = s.taskTable.UpdateEntity(ctx, payload, &aztables.UpdateEntityOptions{
		IfMatch:    &et,
		UpdateMode: aztables.UpdateModeMerge,
	})
	return mapNotFound(err)
}

// DeleteTask permanently removes a task row.
func (s *Store) DeleteTask(ctx context.Context, projectID, taskID string) error {
	_, err := s.taskTable.DeleteEntity(ctx, projectID, taskID, nil)
	return mapNotFound(err)
}

// InsertStatusHistory appends one audit row. Rows are append-only; the row
// key is a fresh uuid so concurrent appends for one task never collide.
func (s *Store) InsertStatusHistory(ctx context.Context, e domain.StatusHistoryEntry) error {
	payload, err := json.Marshal(newHistoryEntity(uuid.NewString(), e))
	if err == nil {
		_, err = s.historyTable.AddEntity(ctx, payload, nil)
	}
	return err
}

func mapNotFound(err error) error {
	var respErr *azcore.ResponseError
	if errors.As(err, &respErr) && respErr.StatusCode == 404 {
		return domain.ErrNotFound
	}
	return err
}
