package interpreter

import (
	"fmt"
	"strings"

	"sprintboard-api/domain"
)

func statusEmoji(s domain.Status) string {
	switch s {
	case domain.StatusTodo:
		return "📝"
	case domain.StatusInProgress:
		return "🔄"
	case domain.StatusDone:
		return "✅"
	}
	return "•"
}

func formatAdded(t domain.Task) string {
	assignee := t.Assignee
	if assignee == "" {
		assignee = "Unassigned"
	}
	return fmt.Sprintf("✅ Successfully added task '%s' with ID %d assigned to %s", t.Title, t.ID, assignee)
}

func formatMoved(t domain.Task) string {
	return fmt.Sprintf("✅ Successfully moved task '%s' (ID %d) to %s", t.Title, t.ID, t.Status.Display())
}

func formatDeleted(t domain.Task) string {
	return fmt.Sprintf("🗑️ Successfully deleted task '%s' (ID %d)", t.Title, t.ID)
}

// formatTaskList renders a listing. Without a filter, tasks are grouped into
// the fixed column order; with a filter, each entry additionally carries its
// description.
func formatTaskList(sprintName string, tasks []domain.Task, filter *domain.Status) string {
	if len(tasks) == 0 {
		if filter != nil {
			return fmt.Sprintf("📋 No tasks found in sprint '%s' with status '%s'", sprintName, *filter)
		}
		return fmt.Sprintf("📋 No tasks found in sprint '%s'", sprintName)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "📋 **%s** (%d tasks)\n\n", sprintName, len(tasks))

	if filter == nil {
		for _, status := range domain.Statuses {
			group := tasksWithStatus(tasks, status)
			if len(group) == 0 {
				continue
			}
			fmt.Fprintf(&b, "**%s %s:**\n", statusEmoji(status), status.Display())
			for _, t := range group {
				b.WriteString("  • ")
				writeTaskLine(&b, t)
				b.WriteByte('\n')
			}
			b.WriteByte('\n')
		}
	} else {
		fmt.Fprintf(&b, "**%s %s:**\n", statusEmoji(*filter), filter.Display())
		for _, t := range tasks {
			b.WriteString("• ")
			writeTaskLine(&b, t)
			if t.Description != "" {
				fmt.Fprintf(&b, "\n  📄 %s", t.Description)
			}
			b.WriteByte('\n')
		}
	}
	return strings.TrimSpace(b.String())
}

func writeTaskLine(b *strings.Builder, t domain.Task) {
	fmt.Fprintf(b, "#%d: %s", t.ID, t.Title)
	if t.Assignee != "" {
		fmt.Fprintf(b, " (%s)", t.Assignee)
	}
	if t.Priority != domain.DefaultPriority {
		fmt.Fprintf(b, " [P%d]", t.Priority)
	}
	if t.Blocker != "" {
		fmt.Fprintf(b, " 🚫 %s", t.Blocker)
	}
}

func tasksWithStatus(tasks []domain.Task, status domain.Status) []domain.Task {
	var out []domain.Task
	for _, t := range tasks {
		if t.Status == status {
			out = append(out, t)
		}
	}
	return out
}

func formatStats(st domain.Stats) string {
	if st.Total == 0 {
		return fmt.Sprintf("📊 **%s**: No tasks yet!", st.SprintName)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "📊 **Sprint Statistics: %s**\n\n", st.SprintName)
	fmt.Fprintf(&b, "📝 To Do: %d\n", st.Todo)
	fmt.Fprintf(&b, "🔄 In Progress: %d\n", st.InProgress)
	fmt.Fprintf(&b, "✅ Done: %d\n", st.Done)
	fmt.Fprintf(&b, "🚫 Blocked: %d\n\n", st.Blocked)
	fmt.Fprintf(&b, "📈 **Progress: %.1f%%** (%d/%d completed)", st.CompletionRate(), st.Done, st.Total)
	return b.String()
}
