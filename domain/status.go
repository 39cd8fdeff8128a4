package domain

// Status identifies one board column.
type Status string

const (
	StatusBacklog        Status = "backlog"
	StatusOnDeck         Status = "on_deck"
	StatusInProgress     Status = "in_progress"
	StatusBlocked        Status = "blocked"
	StatusAwaitingReview Status = "awaiting_review"
	StatusDone           Status = "done"
)

// StatusInfo pairs a status id with its display label.
type StatusInfo struct {
	ID    Status `json:"id"`
	Label string `json:"label"`
}

// TaskStatuses is the fixed, ordered set of board columns. Order here is the
// order columns are rendered in; changing the list changes the board's shape.
var TaskStatuses = []StatusInfo{
	{ID: StatusBacklog, Label: "Backlog"},
	{ID: StatusOnDeck, Label: "On Deck"},
	{ID: StatusInProgress, Label: "In Progress"},
	{ID: StatusBlocked, Label: "Blocked"},
	{ID: StatusAwaitingReview, Label: "Awaiting Review"},
	{ID: StatusDone, Label: "Done"},
}

// ValidStatus reports whether id is a member of the taxonomy.
func ValidStatus(id Status) bool {
	for _, s := range TaskStatuses {
		if s.ID == id {
			return true
		}
	}
	return false
}

// StatusLabel returns the display label for id, falling back to the raw id
// when it is not a taxonomy member.
func StatusLabel(id Status) string {
	for _, s := range TaskStatuses {
		if s.ID == id {
			return s.Label
		}
	}
	return string(id)
}
