package api

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	log "github.com/sirupsen/logrus"

	"sprintboard-api/domain"
)

// Register wires up all API routes on the provided Echo instance. The
// deduper may be nil, in which case mutating requests are not deduplicated.
func Register(e *echo.Echo, store Storage, interp Interpreter, deduper Deduper, logger *log.Logger) {
	e.GET("/board", getBoard(store))
	e.POST("/add-task", postAddTask(store, deduper))
	e.POST("/update-task-status", postUpdateTaskStatus(store, deduper))
	e.DELETE("/delete-task/:id", deleteTask(store, deduper))
	e.POST("/chat", postChat(interp, deduper, logger))
	e.GET("/healthz", healthz(store))
}

func healthz(store Storage) echo.HandlerFunc {
	return func(c echo.Context) error {
		if err := store.Ping(c.Request().Context()); err != nil {
			return c.JSON(http.StatusServiceUnavailable, errorResponse{Error: err.Error()})
		}
		return c.NoContent(http.StatusOK)
	}
}

func getBoard(store Storage) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		sprint, err := store.ActiveSprint(ctx)
		if err != nil {
			if errors.Is(err, domain.ErrNoActiveSprint) {
				return c.JSON(http.StatusNotFound, errorResponse{Error: "No active sprint found"})
			}
			c.Logger().Error(err)
			return c.JSON(http.StatusInternalServerError, errorResponse{Error: err.Error()})
		}
		tasks, err := store.ListTasks(ctx, nil)
		if err != nil {
			c.Logger().Error(err)
			return c.JSON(http.StatusInternalServerError, errorResponse{Error: err.Error()})
		}

		columns := boardColumns{
			Todo:       []domain.Task{},
			InProgress: []domain.Task{},
			Done:       []domain.Task{},
		}
		for _, t := range tasks {
			switch t.Status {
			case domain.StatusTodo:
				columns.Todo = append(columns.Todo, t)
			case domain.StatusInProgress:
				columns.InProgress = append(columns.InProgress, t)
			case domain.StatusDone:
				columns.Done = append(columns.Done, t)
			}
		}
		return c.JSON(http.StatusOK, boardResponse{Sprint: sprint, Columns: columns})
	}
}

func postAddTask(store Storage, deduper Deduper) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		var req addTaskRequest
		dec := sonic.ConfigStd.NewDecoder(io.LimitReader(c.Request().Body, taskMaxBodySize))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid body"})
		}
		if req.Title == "" || req.Assignee == nil || req.Priority == nil {
			return c.JSON(http.StatusBadRequest, errorResponse{Error: "Missing required fields: title, assignee, priority"})
		}
		status := domain.Status(req.Status)
		if req.Status == "" {
			status = domain.StatusTodo
		}
		if !status.Valid() {
			return c.JSON(http.StatusBadRequest, errorResponse{Error: "Invalid status. Must be: todo, in_progress, or done"})
		}

		key, fresh, err := claimIdempotencyKey(c, deduper, "add-task")
		if err != nil {
			c.Logger().Error(err)
			return c.JSON(http.StatusInternalServerError, errorResponse{Error: "idempotency check failed"})
		}
		if !fresh {
			return c.JSON(http.StatusConflict, errorResponse{Error: "duplicate request"})
		}

		task, err := store.AddTask(ctx, domain.NewTask{
			Title:       req.Title,
			Description: req.Description,
			Assignee:    *req.Assignee,
			Priority:    *req.Priority,
			Status:      status,
			Blocker:     req.Blocker,
		})
		if err != nil {
			releaseIdempotencyKey(c, deduper, "add-task", key)
			if errors.Is(err, domain.ErrNoActiveSprint) {
				return c.JSON(http.StatusBadRequest, errorResponse{Error: "No active sprint found"})
			}
			c.Logger().Error(err)
			return c.JSON(http.StatusInternalServerError, errorResponse{Error: err.Error()})
		}
		return c.JSON(http.StatusCreated, task)
	}
}

func postUpdateTaskStatus(store Storage, deduper Deduper) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		var req updateTaskStatusRequest
		dec := sonic.ConfigStd.NewDecoder(io.LimitReader(c.Request().Body, taskMaxBodySize))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid body"})
		}
		if req.TaskID == nil || req.Status == "" {
			return c.JSON(http.StatusBadRequest, errorResponse{Error: "Missing required fields: task_id, status"})
		}
		status := domain.Status(req.Status)
		if !status.Valid() {
			return c.JSON(http.StatusBadRequest, errorResponse{Error: "Invalid status. Must be: todo, in_progress, or done"})
		}

		key, fresh, err := claimIdempotencyKey(c, deduper, "update-task-status")
		if err != nil {
			c.Logger().Error(err)
			return c.JSON(http.StatusInternalServerError, errorResponse{Error: "idempotency check failed"})
		}
		if !fresh {
			return c.JSON(http.StatusConflict, errorResponse{Error: "duplicate request"})
		}

		task, err := store.UpdateStatus(ctx, *req.TaskID, status)
		if err != nil {
			releaseIdempotencyKey(c, deduper, "update-task-status", key)
			if errors.Is(err, domain.ErrTaskNotFound) {
				return c.JSON(http.StatusNotFound, errorResponse{Error: "Task not found"})
			}
			if errors.Is(err, domain.ErrNoActiveSprint) {
				return c.JSON(http.StatusBadRequest, errorResponse{Error: "No active sprint found"})
			}
			c.Logger().Error(err)
			return c.JSON(http.StatusInternalServerError, errorResponse{Error: err.Error()})
		}
		return c.JSON(http.StatusOK, updateTaskStatusResponse{Success: true, TaskID: task.ID, NewStatus: task.Status})
	}
}

func deleteTask(store Storage, deduper Deduper) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		id, err := strconv.ParseInt(c.Param("id"), 10, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid task id"})
		}

		key, fresh, err := claimIdempotencyKey(c, deduper, "delete-task")
		if err != nil {
			c.Logger().Error(err)
			return c.JSON(http.StatusInternalServerError, errorResponse{Error: "idempotency check failed"})
		}
		if !fresh {
			return c.JSON(http.StatusConflict, errorResponse{Error: "duplicate request"})
		}

		task, err := store.DeleteTask(ctx, id)
		if err != nil {
			releaseIdempotencyKey(c, deduper, "delete-task", key)
			if errors.Is(err, domain.ErrTaskNotFound) {
				return c.JSON(http.StatusNotFound, errorResponse{Error: "Task not found"})
			}
			if errors.Is(err, domain.ErrNoActiveSprint) {
				return c.JSON(http.StatusBadRequest, errorResponse{Error: "No active sprint found"})
			}
			c.Logger().Error(err)
			return c.JSON(http.StatusInternalServerError, errorResponse{Error: err.Error()})
		}
		return c.JSON(http.StatusOK, deleteTaskResponse{Success: true, DeletedTaskID: task.ID})
	}
}

func postChat(interp Interpreter, deduper Deduper, logger *log.Logger) echo.HandlerFunc {
	return func(c echo.Context) (err error) {
		ctx := c.Request().Context()
		metrics := newChatRequestMetrics(logger)
		defer func() {
			metrics.Log(c.Response().Status, err)
		}()

		decodeStart := time.Now()
		var req chatRequest
		dec := sonic.ConfigStd.NewDecoder(io.LimitReader(c.Request().Body, chatMaxBodySize))
		dec.DisallowUnknownFields()
		if decodeErr := dec.Decode(&req); decodeErr != nil {
			metrics.SetErrorStage("decode")
			err = c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid body"})
			return err
		}
		metrics.ObserveDecode(time.Since(decodeStart))

		if strings.TrimSpace(req.Message) == "" {
			metrics.SetErrorStage("empty_message")
			err = c.JSON(http.StatusBadRequest, errorResponse{Error: "Missing required field: message"})
			return err
		}
		metrics.SetMessageChars(len(req.Message))

		_, fresh, dedupeErr := claimIdempotencyKey(c, deduper, "chat")
		if dedupeErr != nil {
			metrics.SetErrorStage("dedupe")
			c.Logger().Error(dedupeErr)
			err = c.JSON(http.StatusInternalServerError, errorResponse{Error: "idempotency check failed"})
			return err
		}
		if !fresh {
			metrics.SetErrorStage("duplicate")
			err = c.JSON(http.StatusConflict, errorResponse{Error: "duplicate message"})
			return err
		}

		interpretStart := time.Now()
		reply := interp.Interpret(ctx, req.Message)
		metrics.ObserveInterpret(time.Since(interpretStart))
		metrics.SetReplyChars(len(reply))

		err = c.JSON(http.StatusOK, chatResponse{Response: reply})
		return err
	}
}

// claimIdempotencyKey records the request's idempotency key. Requests
// without the header get a server-assigned key and are always fresh.
func claimIdempotencyKey(c echo.Context, deduper Deduper, scope string) (string, bool, error) {
	if deduper == nil {
		return "", true, nil
	}
	key := c.Request().Header.Get(idempotencyKeyHeader)
	if key == "" {
		key = uuid.NewString()
	}
	fresh, err := deduper.Add(c.Request().Context(), scope, key)
	if err != nil {
		return "", false, err
	}
	return key, fresh, nil
}

// releaseIdempotencyKey frees a claimed key after a downstream failure so
// the client may retry with the same key.
func releaseIdempotencyKey(c echo.Context, deduper Deduper, scope, key string) {
	if deduper == nil || key == "" {
		return
	}
	if err := deduper.Remove(c.Request().Context(), scope, key); err != nil {
		c.Logger().Errorf("release idempotency key: %v", err)
	}
}
