package interpreter

import "strings"

// Intent is the classified user goal for one message.
type Intent string

const (
	IntentListTasks    Intent = "list_tasks"
	IntentAddTask      Intent = "add_task"
	IntentDeleteTask   Intent = "delete_task"
	IntentUpdateStatus Intent = "update_status"
	IntentGetStats     Intent = "get_stats"
	IntentNone         Intent = "none"
)

// classifierRules is evaluated top-down and the first matching rule wins.
// The order is load-bearing: a message containing both "progress" and
// "show task" classifies as get_stats because the stats rule is checked
// first. All checks are case-insensitive substring tests.
var classifierRules = []struct {
	intent Intent
	match  func(m string) bool
}{
	{IntentGetStats, func(m string) bool {
		return containsAny(m, "stats", "statistics", "summary", "progress", "overview")
	}},
	{IntentListTasks, func(m string) bool {
		return containsAny(m, "show", "list", "get", "display") && strings.Contains(m, "task")
	}},
	{IntentAddTask, func(m string) bool {
		return containsAny(m, "add", "create", "new") && strings.Contains(m, "task")
	}},
	{IntentDeleteTask, func(m string) bool {
		return containsAny(m, "delete", "remove") && strings.Contains(m, "task")
	}},
	{IntentUpdateStatus, func(m string) bool {
		return containsAny(m, "move", "update", "change") && strings.Contains(m, "task")
	}},
}

// Classify maps a raw message onto an intent.
func Classify(message string) Intent {
	m := strings.ToLower(message)
	for _, rule := range classifierRules {
		if rule.match(m) {
			return rule.intent
		}
	}
	return IntentNone
}

func containsAny(m string, keywords ...string) bool {
	for _, kw := range keywords {
		if strings.Contains(m, kw) {
			return true
		}
	}
	return false
}
