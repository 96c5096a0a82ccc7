package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"sprintboard-api/domain"
)

// createdAtLayout is fixed-width so lexicographic ordering in SQL matches
// chronological ordering.
const createdAtLayout = "2006-01-02T15:04:05.000000000Z"

const schema = `
CREATE TABLE IF NOT EXISTS sprints (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL,
	start_date TEXT,
	end_date TEXT,
	is_active BOOLEAN DEFAULT 0
);
CREATE TABLE IF NOT EXISTS tasks (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	title TEXT NOT NULL,
	description TEXT,
	assignee TEXT NOT NULL,
	priority INTEGER NOT NULL,
	status TEXT NOT NULL DEFAULT 'todo',
	blocker TEXT,
	sprint_id INTEGER,
	created_at TEXT NOT NULL,
	FOREIGN KEY (sprint_id) REFERENCES sprints (id)
);
`

// Storage persists sprints and tasks in SQLite.
type Storage struct {
	db *sql.DB
}

// New opens the SQLite database at path and bootstraps the schema.
func New(path string) (*Storage, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// The driver serializes writes per connection; a single connection
	// avoids SQLITE_BUSY under concurrent handlers.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("bootstrap schema: %w", err)
	}
	return &Storage{db: db}, nil
}

// Close releases the underlying database handle.
func (s *Storage) Close() error { return s.db.Close() }

// Ping verifies the database is reachable.
func (s *Storage) Ping(ctx context.Context) error { return s.db.PingContext(ctx) }

// SeedDemoData resets the board to a sample sprint with a handful of tasks.
// Intended for local development only; it wipes existing data.
func (s *Storage) SeedDemoData(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM tasks`); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM sprints`); err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx,
		`INSERT INTO sprints (name, start_date, end_date, is_active) VALUES (?, ?, ?, 1)`,
		"Sprint 1 - Q4 Planning", "2024-09-16", "2024-09-30")
	if err != nil {
		return err
	}
	sprintID, err := res.LastInsertId()
	if err != nil {
		return err
	}

	samples := []struct {
		title, description, assignee string
		priority                     int
		status                       domain.Status
		blocker                      string
	}{
		{"User Authentication System", "Implement JWT-based login and registration system with password hashing", "John", 8, domain.StatusInProgress, ""},
		{"Database Migration Script", "Create migration scripts for production database schema updates", "Sarah", 5, domain.StatusTodo, ""},
		{"API Documentation", "Complete OpenAPI spec and generate interactive docs", "Mike", 3, domain.StatusTodo, "Waiting on API finalization"},
		{"Payment Integration", "Integrate Stripe payment processing for subscriptions", "Alice", 9, domain.StatusInProgress, ""},
		{"User Dashboard", "Build responsive dashboard with charts and analytics", "Bob", 6, domain.StatusDone, ""},
		{"Email Notifications", "Set up automated email notifications for key events", "Carol", 4, domain.StatusTodo, "Waiting on email service approval"},
	}
	now := time.Now().UTC()
	for i, sample := range samples {
		createdAt := now.Add(time.Duration(i) * time.Millisecond)
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO tasks (title, description, assignee, priority, status, blocker, sprint_id, created_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			sample.title, sample.description, sample.assignee, sample.priority,
			string(sample.status), nullIfEmpty(sample.blocker), sprintID,
			createdAt.Format(createdAtLayout)); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// ActiveSprint returns the single sprint marked active.
func (s *Storage) ActiveSprint(ctx context.Context) (domain.Sprint, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, COALESCE(start_date, ''), COALESCE(end_date, '') FROM sprints WHERE is_active = 1 LIMIT 1`)
	var sp domain.Sprint
	if err := row.Scan(&sp.ID, &sp.Name, &sp.StartDate, &sp.EndDate); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Sprint{}, domain.ErrNoActiveSprint
		}
		return domain.Sprint{}, fmt.Errorf("query active sprint: %w", err)
	}
	sp.Active = true
	return sp, nil
}

// AddTask inserts a task into the active sprint and returns it with its
// store-assigned ID.
func (s *Storage) AddTask(ctx context.Context, nt domain.NewTask) (domain.Task, error) {
	sp, err := s.ActiveSprint(ctx)
	if err != nil {
		return domain.Task{}, err
	}
	status := nt.Status
	if status == "" {
		status = domain.StatusTodo
	}
	if !status.Valid() {
		return domain.Task{}, fmt.Errorf("invalid status %q", status)
	}
	priority := nt.Priority
	if priority == 0 {
		priority = domain.DefaultPriority
	}
	createdAt := time.Now().UTC()
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO tasks (title, description, assignee, priority, status, blocker, sprint_id, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		nt.Title, nt.Description, nt.Assignee, priority, string(status),
		nullIfEmpty(nt.Blocker), sp.ID, createdAt.Format(createdAtLayout))
	if err != nil {
		return domain.Task{}, fmt.Errorf("insert task: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return domain.Task{}, err
	}
	return domain.Task{
		ID:          id,
		Title:       nt.Title,
		Description: nt.Description,
		Assignee:    nt.Assignee,
		Priority:    priority,
		Status:      status,
		Blocker:     nt.Blocker,
		SprintID:    sp.ID,
		CreatedAt:   createdAt,
	}, nil
}

// UpdateStatus moves the task to the given status and returns the updated
// task. The status must already be validated by the caller's extractor; an
// unknown value is rejected here as a final guard. The write is a single
// RETURNING statement so a task deleted by a concurrent request surfaces as
// ErrTaskNotFound rather than a phantom success.
func (s *Storage) UpdateStatus(ctx context.Context, id int64, status domain.Status) (domain.Task, error) {
	if !status.Valid() {
		return domain.Task{}, fmt.Errorf("invalid status %q", status)
	}
	sp, err := s.ActiveSprint(ctx)
	if err != nil {
		return domain.Task{}, err
	}
	row := s.db.QueryRowContext(ctx,
		`UPDATE tasks SET status = ? WHERE id = ? AND sprint_id = ?
		 RETURNING id, title, COALESCE(description, ''), assignee, priority, status, COALESCE(blocker, ''), sprint_id, created_at`,
		string(status), id, sp.ID)
	task, err := scanTask(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Task{}, domain.ErrTaskNotFound
	}
	if err != nil {
		return domain.Task{}, fmt.Errorf("update task %d: %w", id, err)
	}
	return task, nil
}

// DeleteTask removes the task and returns its last known state.
func (s *Storage) DeleteTask(ctx context.Context, id int64) (domain.Task, error) {
	sp, err := s.ActiveSprint(ctx)
	if err != nil {
		return domain.Task{}, err
	}
	row := s.db.QueryRowContext(ctx,
		`DELETE FROM tasks WHERE id = ? AND sprint_id = ?
		 RETURNING id, title, COALESCE(description, ''), assignee, priority, status, COALESCE(blocker, ''), sprint_id, created_at`,
		id, sp.ID)
	task, err := scanTask(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Task{}, domain.ErrTaskNotFound
	}
	if err != nil {
		return domain.Task{}, fmt.Errorf("delete task %d: %w", id, err)
	}
	return task, nil
}

// ListTasks returns the active sprint's tasks, optionally filtered by status,
// ordered by priority descending then creation time ascending.
func (s *Storage) ListTasks(ctx context.Context, filter *domain.Status) ([]domain.Task, error) {
	sp, err := s.ActiveSprint(ctx)
	if err != nil {
		return nil, err
	}
	query := `SELECT id, title, COALESCE(description, ''), assignee, priority, status, COALESCE(blocker, ''), sprint_id, created_at
		FROM tasks WHERE sprint_id = ?`
	args := []any{sp.ID}
	if filter != nil {
		query += ` AND status = ?`
		args = append(args, string(*filter))
	}
	query += ` ORDER BY priority DESC, created_at ASC, id ASC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	tasks := []domain.Task{}
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}
	return tasks, rows.Err()
}

// GetStats summarizes the active sprint by status and blocker presence.
func (s *Storage) GetStats(ctx context.Context) (domain.Stats, error) {
	sp, err := s.ActiveSprint(ctx)
	if err != nil {
		return domain.Stats{}, err
	}
	stats := domain.Stats{SprintName: sp.Name}

	rows, err := s.db.QueryContext(ctx,
		`SELECT status, COUNT(*) FROM tasks WHERE sprint_id = ? GROUP BY status`, sp.ID)
	if err != nil {
		return domain.Stats{}, fmt.Errorf("count tasks: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return domain.Stats{}, err
		}
		switch domain.Status(status) {
		case domain.StatusTodo:
			stats.Todo = count
		case domain.StatusInProgress:
			stats.InProgress = count
		case domain.StatusDone:
			stats.Done = count
		}
		stats.Total += count
	}
	if err := rows.Err(); err != nil {
		return domain.Stats{}, err
	}

	row := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM tasks WHERE sprint_id = ? AND blocker IS NOT NULL AND blocker != ''`, sp.ID)
	if err := row.Scan(&stats.Blocked); err != nil {
		return domain.Stats{}, fmt.Errorf("count blocked tasks: %w", err)
	}
	return stats, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTask(row scanner) (domain.Task, error) {
	var task domain.Task
	var status, createdAt string
	if err := row.Scan(&task.ID, &task.Title, &task.Description, &task.Assignee,
		&task.Priority, &status, &task.Blocker, &task.SprintID, &createdAt); err != nil {
		return domain.Task{}, err
	}
	task.Status = domain.Status(status)
	ts, err := time.Parse(createdAtLayout, createdAt)
	if err != nil {
		return domain.Task{}, fmt.Errorf("parse created_at for task %d: %w", task.ID, err)
	}
	task.CreatedAt = ts
	return task, nil
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}
