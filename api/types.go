package api

import (
	"context"

	"unify-api/domain"
)

// Storage abstracts persistence for handlers.
type Storage interface {
	domain.TaskStore
	domain.HistoryStore
	FetchTasks(ctx context.Context, projectID string) ([]domain.Task, error)
}

// Authenticator is implemented by types able to resolve acting profiles from
// Authorization headers.
type Authenticator interface {
	ProfileFromAuthHeader(string) (domain.Profile, error)
}
