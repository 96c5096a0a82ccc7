package interpreter

import "context"

// command binds an intent to its handler along with the name and description
// surfaced in the fallback prompt. The table is declared statically when the
// interpreter is built; there is no runtime discovery.
type command struct {
	intent      Intent
	name        string
	description string
	run         func(ctx context.Context, message string) string
}

func (in *Interpreter) commandTable() []command {
	return []command{
		{IntentAddTask, "add_task", "Add a new task to the current sprint", in.addTask},
		{IntentUpdateStatus, "update_task_status", "Update the status of an existing task", in.updateStatus},
		{IntentDeleteTask, "delete_task", "Delete a task by its ID", in.deleteTask},
		{IntentListTasks, "get_tasks", "Get all tasks or filter by status", in.listTasks},
		{IntentGetStats, "get_task_stats", "Get task statistics and summary", in.getStats},
	}
}
