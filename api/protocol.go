package api

import "unify-api/domain"

const requestMaxSize = 64 * 1024 // 64 KiB

// moveErrorMessage mirrors the board banner shown when a move write fails:
// the optimistic state is kept, the caller is told to resync.
const moveErrorMessage = "unable to save the new order; refresh to resync"

// actionResponse is the structured result of every write endpoint.
type actionResponse struct {
	Status  string       `json:"status"`
	Message string       `json:"message,omitempty"`
	Field   string       `json:"field,omitempty"`
	Task    *domain.Task `json:"task,omitempty"`
}

// boardColumn is one rendered column: taxonomy entry plus its ordered tasks.
type boardColumn struct {
	ID    domain.Status `json:"id"`
	Label string        `json:"label"`
	Count int           `json:"count"`
	Tasks []domain.Task `json:"tasks"`
}

type boardResponse struct {
	Columns []boardColumn `json:"columns"`
}

// dragRequest is the raw board gesture as reported by the UI.
type dragRequest struct {
	ProjectID string `json:"projectId"`
	ActiveID  string `json:"activeId"`
	OverID    string `json:"overId"`
}

type dragResponse struct {
	Status       string        `json:"status"`
	Moved        bool          `json:"moved"`
	Message      string        `json:"message,omitempty"`
	Columns      []boardColumn `json:"columns,omitempty"`
	StaleTaskIDs []string      `json:"staleTaskIds,omitempty"`
}

// taskMoveRequest is the direct gateway surface: explicit status and
// position for one task. Position is optional; when absent a fresh monotonic
// value is stamped.
type taskMoveRequest struct {
	Status   domain.Status `json:"status"`
	Position *int64        `json:"position,omitempty"`
}
