package api

import "sprintboard-api/domain"

const (
	chatMaxBodySize = 16 * 1024 // 16 KiB
	taskMaxBodySize = 64 * 1024 // 64 KiB
)

// idempotencyKeyHeader carries a client-chosen key for mutating endpoints;
// the server assigns one when absent.
const idempotencyKeyHeader = "Idempotency-Key"

type boardColumns struct {
	Todo       []domain.Task `json:"todo"`
	InProgress []domain.Task `json:"in_progress"`
	Done       []domain.Task `json:"done"`
}

// GET /board response body
type boardResponse struct {
	Sprint  domain.Sprint `json:"sprint"`
	Columns boardColumns  `json:"columns"`
}

// POST /add-task request body; pointers distinguish absent required fields
// from zero values.
type addTaskRequest struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Assignee    *string `json:"assignee"`
	Priority    *int    `json:"priority"`
	Status      string  `json:"status"`
	Blocker     string  `json:"blocker"`
}

// POST /update-task-status request body
type updateTaskStatusRequest struct {
	TaskID *int64 `json:"task_id"`
	Status string `json:"status"`
}

type updateTaskStatusResponse struct {
	Success   bool          `json:"success"`
	TaskID    int64         `json:"task_id"`
	NewStatus domain.Status `json:"new_status"`
}

type deleteTaskResponse struct {
	Success       bool  `json:"success"`
	DeletedTaskID int64 `json:"deleted_task_id"`
}

// POST /chat request and response bodies
type chatRequest struct {
	Message string `json:"message"`
}

type chatResponse struct {
	Response string `json:"response"`
}

type errorResponse struct {
	Error string `json:"error"`
}
