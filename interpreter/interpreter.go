package interpreter

import (
	"context"
	"errors"
	"fmt"

	log "github.com/sirupsen/logrus"

	"sprintboard-api/domain"
)

// TaskStore is the slice of the store the interpreter needs. Every operation
// acts on the single active sprint and fails with domain.ErrNoActiveSprint
// when none is active.
type TaskStore interface {
	ActiveSprint(ctx context.Context) (domain.Sprint, error)
	AddTask(ctx context.Context, nt domain.NewTask) (domain.Task, error)
	UpdateStatus(ctx context.Context, id int64, status domain.Status) (domain.Task, error)
	DeleteTask(ctx context.Context, id int64) (domain.Task, error)
	ListTasks(ctx context.Context, filter *domain.Status) ([]domain.Task, error)
	GetStats(ctx context.Context) (domain.Stats, error)
}

// Generator produces free-form text for messages with no actionable intent.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

const (
	msgDeleteNeedsID     = "Please specify a task ID to delete (e.g. 'delete task 3')"
	msgUpdateNeedsEntity = "Please specify a task ID and a status (todo, in progress, or done)"
	msgBackendDown       = "❌ Error: the assistant is unavailable right now. Please try again."
)

// Interpreter turns free-text chat messages into task store operations and
// human readable responses. It holds no mutable state of its own; every
// message is handled start to finish against the store.
type Interpreter struct {
	store    TaskStore
	gen      Generator
	logger   *log.Logger
	commands []command
}

// New builds an interpreter with its static command table.
func New(store TaskStore, gen Generator, logger *log.Logger) *Interpreter {
	in := &Interpreter{store: store, gen: gen, logger: logger}
	in.commands = in.commandTable()
	return in
}

// Interpret routes one chat message. It always returns user-facing text:
// store failures, missing entities and backend errors are all converted to
// messages rather than surfaced as errors.
func (in *Interpreter) Interpret(ctx context.Context, message string) string {
	intent := Classify(message)
	in.logger.WithFields(log.Fields{"intent": string(intent)}).Debug("chat message classified")

	for _, cmd := range in.commands {
		if cmd.intent == intent {
			return cmd.run(ctx, message)
		}
	}
	return in.fallback(ctx, message)
}

func (in *Interpreter) getStats(ctx context.Context, _ string) string {
	stats, err := in.store.GetStats(ctx)
	if err != nil {
		return in.storeErrorText("getting statistics", err)
	}
	return formatStats(stats)
}

func (in *Interpreter) listTasks(ctx context.Context, message string) string {
	sprint, err := in.store.ActiveSprint(ctx)
	if err != nil {
		return in.storeErrorText("getting tasks", err)
	}
	var filter *domain.Status
	if status, ok := extractStatus(message); ok {
		filter = &status
	}
	tasks, err := in.store.ListTasks(ctx, filter)
	if err != nil {
		return in.storeErrorText("getting tasks", err)
	}
	return formatTaskList(sprint.Name, tasks, filter)
}

func (in *Interpreter) addTask(ctx context.Context, message string) string {
	title, assignee := extractTitleAndAssignee(message)
	priority := extractPriority(message)
	task, err := in.store.AddTask(ctx, domain.NewTask{
		Title:    title,
		Assignee: assignee,
		Priority: priority,
		Status:   domain.StatusTodo,
	})
	if err != nil {
		return in.storeErrorText("adding task", err)
	}
	return formatAdded(task)
}

func (in *Interpreter) deleteTask(ctx context.Context, message string) string {
	id, ok := extractTaskID(message)
	if !ok {
		return msgDeleteNeedsID
	}
	task, err := in.store.DeleteTask(ctx, id)
	if err != nil {
		return in.taskErrorText("deleting task", id, err)
	}
	return formatDeleted(task)
}

func (in *Interpreter) updateStatus(ctx context.Context, message string) string {
	id, ok := extractTaskID(message)
	if !ok {
		return msgUpdateNeedsEntity
	}
	status, ok := extractStatus(message)
	if !ok {
		return msgUpdateNeedsEntity
	}
	task, err := in.store.UpdateStatus(ctx, id, status)
	if err != nil {
		return in.taskErrorText("updating task", id, err)
	}
	return formatMoved(task)
}

func (in *Interpreter) taskErrorText(action string, id int64, err error) string {
	if errors.Is(err, domain.ErrTaskNotFound) {
		return fmt.Sprintf("❌ Error: Task with ID %d not found", id)
	}
	return in.storeErrorText(action, err)
}

func (in *Interpreter) storeErrorText(action string, err error) string {
	if errors.Is(err, domain.ErrNoActiveSprint) {
		return "❌ Error: No active sprint found"
	}
	in.logger.WithError(err).WithField("action", action).Error("store call failed")
	return fmt.Sprintf("❌ Error %s: %v", action, err)
}
