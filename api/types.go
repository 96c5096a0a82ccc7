package api

import (
	"context"

	"sprintboard-api/domain"
)

// Storage abstracts persistence for handlers. Every operation acts on the
// single active sprint.
type Storage interface {
	ActiveSprint(ctx context.Context) (domain.Sprint, error)
	AddTask(ctx context.Context, nt domain.NewTask) (domain.Task, error)
	UpdateStatus(ctx context.Context, id int64, status domain.Status) (domain.Task, error)
	DeleteTask(ctx context.Context, id int64) (domain.Task, error)
	ListTasks(ctx context.Context, filter *domain.Status) ([]domain.Task, error)
	GetStats(ctx context.Context) (domain.Stats, error)
	Ping(ctx context.Context) error
}

// Interpreter routes free-text chat messages onto board operations and
// returns user-facing text.
type Interpreter interface {
	Interpret(ctx context.Context, message string) string
}

// Deduper prevents reprocessing of duplicate mutating requests.
type Deduper interface {
	// Add records the idempotency key and returns true if it was newly added.
	Add(ctx context.Context, scope, key string) (bool, error)
	// Remove deletes a previously added key, used when downstream processing
	// fails so the client may retry.
	Remove(ctx context.Context, scope, key string) error
}
