package interpreter

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	log "github.com/sirupsen/logrus"

	"sprintboard-api/domain"
)

type mockStore struct {
	sprint domain.Sprint
	tasks  []domain.Task
	stats  domain.Stats
	err    error

	addCalls    int
	updateCalls int
	deleteCalls int
	listCalls   int
	statsCalls  int

	lastNewTask domain.NewTask
	lastID      int64
	lastStatus  domain.Status
	lastFilter  *domain.Status
}

func (m *mockStore) ActiveSprint(ctx context.Context) (domain.Sprint, error) {
	if m.err != nil {
		return domain.Sprint{}, m.err
	}
	return m.sprint, nil
}

func (m *mockStore) AddTask(ctx context.Context, nt domain.NewTask) (domain.Task, error) {
	m.addCalls++
	m.lastNewTask = nt
	if m.err != nil {
		return domain.Task{}, m.err
	}
	return domain.Task{ID: 101, Title: nt.Title, Assignee: nt.Assignee, Priority: nt.Priority, Status: nt.Status}, nil
}

func (m *mockStore) UpdateStatus(ctx context.Context, id int64, status domain.Status) (domain.Task, error) {
	m.updateCalls++
	m.lastID = id
	m.lastStatus = status
	if m.err != nil {
		return domain.Task{}, m.err
	}
	return domain.Task{ID: id, Title: "some task", Status: status}, nil
}

func (m *mockStore) DeleteTask(ctx context.Context, id int64) (domain.Task, error) {
	m.deleteCalls++
	m.lastID = id
	if m.err != nil {
		return domain.Task{}, m.err
	}
	return domain.Task{ID: id, Title: "some task"}, nil
}

func (m *mockStore) ListTasks(ctx context.Context, filter *domain.Status) ([]domain.Task, error) {
	m.listCalls++
	m.lastFilter = filter
	if m.err != nil {
		return nil, m.err
	}
	if filter == nil {
		return m.tasks, nil
	}
	var out []domain.Task
	for _, t := range m.tasks {
		if t.Status == *filter {
			out = append(out, t)
		}
	}
	return out, nil
}

func (m *mockStore) GetStats(ctx context.Context) (domain.Stats, error) {
	m.statsCalls++
	if m.err != nil {
		return domain.Stats{}, m.err
	}
	return m.stats, nil
}

type mockGenerator struct {
	calls      int
	lastPrompt string
	reply      string
	err        error
}

func (g *mockGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	g.calls++
	g.lastPrompt = prompt
	if g.err != nil {
		return "", g.err
	}
	return g.reply, nil
}

func newTestInterpreter(store *mockStore, gen *mockGenerator) *Interpreter {
	logger := log.New()
	logger.SetOutput(io.Discard)
	return New(store, gen, logger)
}

func TestInterpretStatsInvokedExactlyOnce(t *testing.T) {
	// Messages carrying a stats keyword always route to get_stats, even
	// when "task" or "show" also appear.
	for _, msg := range []string{
		"stats",
		"show task summary",
		"what's our progress on tasks?",
	} {
		store := &mockStore{stats: domain.Stats{SprintName: "S", Done: 1, Total: 4}}
		in := newTestInterpreter(store, &mockGenerator{})
		out := in.Interpret(context.Background(), msg)
		if store.statsCalls != 1 {
			t.Errorf("Interpret(%q): GetStats called %d times, want 1", msg, store.statsCalls)
		}
		if !strings.Contains(out, "25.0%") {
			t.Errorf("Interpret(%q) = %q, expected completion rate", msg, out)
		}
	}
}

func TestInterpretListIdempotent(t *testing.T) {
	store := &mockStore{
		sprint: domain.Sprint{ID: 1, Name: "Sprint 1"},
		tasks: []domain.Task{
			{ID: 1, Title: "A", Status: domain.StatusTodo, Priority: 5},
			{ID: 2, Title: "B", Status: domain.StatusDone, Priority: 5},
		},
	}
	in := newTestInterpreter(store, &mockGenerator{})

	first := in.Interpret(context.Background(), "list tasks")
	second := in.Interpret(context.Background(), "list tasks")
	if first != second {
		t.Errorf("list output not idempotent:\n%q\n%q", first, second)
	}
	if store.listCalls != 2 {
		t.Errorf("ListTasks called %d times, want 2", store.listCalls)
	}
}

func TestInterpretListWithStatusFilter(t *testing.T) {
	store := &mockStore{
		sprint: domain.Sprint{ID: 1, Name: "Sprint 1"},
		tasks:  []domain.Task{{ID: 1, Title: "WIP", Status: domain.StatusInProgress, Priority: 5}},
	}
	in := newTestInterpreter(store, &mockGenerator{})

	out := in.Interpret(context.Background(), "show doing tasks")
	if store.lastFilter == nil || *store.lastFilter != domain.StatusInProgress {
		t.Fatalf("expected in_progress filter, got %v", store.lastFilter)
	}
	if !strings.Contains(out, "WIP") {
		t.Errorf("output missing task: %q", out)
	}
}

func TestInterpretAddTaskRoundTrip(t *testing.T) {
	store := &mockStore{sprint: domain.Sprint{ID: 1, Name: "Sprint 1"}}
	in := newTestInterpreter(store, &mockGenerator{})

	out := in.Interpret(context.Background(), "add task Design Review for Maria priority 7")
	if store.addCalls != 1 {
		t.Fatalf("AddTask called %d times, want 1", store.addCalls)
	}
	nt := store.lastNewTask
	if nt.Title != "Design Review" || nt.Assignee != "Maria" || nt.Priority != 7 || nt.Status != domain.StatusTodo {
		t.Errorf("AddTask arguments = %+v", nt)
	}
	if !strings.Contains(out, "Design Review") || !strings.Contains(out, "Maria") {
		t.Errorf("confirmation = %q", out)
	}
}

func TestInterpretDeleteWithoutIDAsksForClarification(t *testing.T) {
	store := &mockStore{sprint: domain.Sprint{ID: 1}}
	in := newTestInterpreter(store, &mockGenerator{})

	out := in.Interpret(context.Background(), "delete task")
	if out != msgDeleteNeedsID {
		t.Errorf("clarification = %q, want %q", out, msgDeleteNeedsID)
	}
	if store.deleteCalls != 0 {
		t.Errorf("DeleteTask called %d times, want 0", store.deleteCalls)
	}
}

func TestInterpretUpdateMissingEntities(t *testing.T) {
	store := &mockStore{sprint: domain.Sprint{ID: 1}}
	in := newTestInterpreter(store, &mockGenerator{})

	for _, msg := range []string{"move task to the board", "move task 4"} {
		out := in.Interpret(context.Background(), msg)
		if out != msgUpdateNeedsEntity {
			t.Errorf("Interpret(%q) = %q, want clarification", msg, out)
		}
	}
	if store.updateCalls != 0 {
		t.Errorf("UpdateStatus called %d times, want 0", store.updateCalls)
	}
}

func TestInterpretUpdateNotFound(t *testing.T) {
	store := &mockStore{err: domain.ErrTaskNotFound}
	in := newTestInterpreter(store, &mockGenerator{})

	out := in.Interpret(context.Background(), "move task 42 to done")
	if store.updateCalls != 1 || store.lastID != 42 || store.lastStatus != domain.StatusDone {
		t.Fatalf("update call = (%d, %d, %q)", store.updateCalls, store.lastID, store.lastStatus)
	}
	if !strings.Contains(out, "Task with ID 42 not found") {
		t.Errorf("output = %q", out)
	}
}

func TestInterpretNoActiveSprint(t *testing.T) {
	store := &mockStore{err: domain.ErrNoActiveSprint}
	in := newTestInterpreter(store, &mockGenerator{})

	for _, msg := range []string{"list tasks", "add task X", "sprint stats"} {
		out := in.Interpret(context.Background(), msg)
		if out != "❌ Error: No active sprint found" {
			t.Errorf("Interpret(%q) = %q", msg, out)
		}
	}
}

func TestInterpretFallback(t *testing.T) {
	store := &mockStore{}
	gen := &mockGenerator{reply: "Try breaking that story into smaller tasks."}
	in := newTestInterpreter(store, gen)

	out := in.Interpret(context.Background(), "what should the team focus on?")
	if gen.calls != 1 {
		t.Fatalf("Generate called %d times, want 1", gen.calls)
	}
	if out != gen.reply {
		t.Errorf("fallback reply = %q, want passthrough", out)
	}
	if !strings.Contains(gen.lastPrompt, "what should the team focus on?") {
		t.Errorf("prompt does not embed message: %q", gen.lastPrompt)
	}
	for _, op := range []string{"add_task", "update_task_status", "delete_task", "get_tasks", "get_task_stats"} {
		if !strings.Contains(gen.lastPrompt, op) {
			t.Errorf("prompt missing operation %q", op)
		}
	}
	if store.addCalls+store.updateCalls+store.deleteCalls+store.listCalls+store.statsCalls != 0 {
		t.Error("fallback must not touch the store")
	}
}

func TestInterpretFallbackBackendError(t *testing.T) {
	gen := &mockGenerator{err: errors.New("rate limited")}
	in := newTestInterpreter(&mockStore{}, gen)

	out := in.Interpret(context.Background(), "hello")
	if out != msgBackendDown {
		t.Errorf("backend error reply = %q", out)
	}
}

func TestInterpretStoreFailureSurfacesAsText(t *testing.T) {
	store := &mockStore{err: errors.New("disk I/O error")}
	in := newTestInterpreter(store, &mockGenerator{})

	out := in.Interpret(context.Background(), "delete task 7")
	if !strings.Contains(out, "❌ Error deleting task") || !strings.Contains(out, "disk I/O error") {
		t.Errorf("output = %q", out)
	}
}
