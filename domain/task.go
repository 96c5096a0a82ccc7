package domain

import "time"

// DefaultPriority is assumed whenever a task is created without an explicit
// priority. List output omits the priority marker at this value.
const DefaultPriority = 5

// Status is the board column a task lives in.
type Status string

const (
	StatusTodo       Status = "todo"
	StatusInProgress Status = "in_progress"
	StatusDone       Status = "done"
)

// Statuses holds all valid statuses in board column order.
var Statuses = []Status{StatusTodo, StatusInProgress, StatusDone}

// Valid reports whether s is one of the three known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusTodo, StatusInProgress, StatusDone:
		return true
	}
	return false
}

// Display returns the human readable column name.
func (s Status) Display() string {
	switch s {
	case StatusTodo:
		return "To Do"
	case StatusInProgress:
		return "In Progress"
	case StatusDone:
		return "Done"
	}
	return string(s)
}

// Task represents a single board item in the active sprint.
type Task struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Assignee    string    `json:"assignee"`
	Priority    int       `json:"priority"`
	Status      Status    `json:"status"`
	Blocker     string    `json:"blocker,omitempty"`
	SprintID    int64     `json:"sprint_id"`
	CreatedAt   time.Time `json:"created_at"`
}

// Blocked reports whether the task carries a blocker note. A blocker is
// independent of status; a done task can still be marked blocked.
func (t Task) Blocked() bool { return t.Blocker != "" }

// NewTask carries the fields needed to create a task. The store assigns the
// ID, sprint reference and creation timestamp.
type NewTask struct {
	Title       string
	Description string
	Assignee    string
	Priority    int
	Status      Status
	Blocker     string
}
