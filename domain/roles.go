package domain

// Role is the acting user's role as reported by the auth provider.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleWorker Role = "worker"
	RoleClient Role = "client"
)

// Profile identifies the acting user on every mutating call.
type Profile struct {
	ID   string
	Role Role
}

// Operation names a capability checked against the actor's role.
type Operation string

const (
	OpViewBoard  Operation = "view_board"
	OpMoveTask   Operation = "move_task"
	OpCreateTask Operation = "create_task"
	OpUpdateTask Operation = "update_task"
	OpDeleteTask Operation = "delete_task"
)

// capabilities is the single allow table consulted by every entry point.
// Clients are read-only in this subsystem.
var capabilities = map[Role]map[Operation]bool{
	RoleAdmin: {
		OpViewBoard:  true,
		OpMoveTask:   true,
		OpCreateTask: true,
		OpUpdateTask: true,
		OpDeleteTask: true,
	},
	RoleWorker: {
		OpViewBoard:  true,
		OpMoveTask:   true,
		OpCreateTask: true,
		OpUpdateTask: true,
		OpDeleteTask: true,
	},
	RoleClient: {
		OpViewBoard: true,
	},
}

// Can reports whether role may perform op. Unknown roles are denied everything.
func Can(role Role, op Operation) bool {
	return capabilities[role][op]
}
