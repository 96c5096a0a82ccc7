package domain

import "errors"

var (
	// ErrTaskNotFound is returned when a task ID does not exist in the
	// active sprint, including when another request deleted it concurrently.
	ErrTaskNotFound = errors.New("task not found")

	// ErrNoActiveSprint is returned by every store operation when no sprint
	// is marked active.
	ErrNoActiveSprint = errors.New("no active sprint found")
)
