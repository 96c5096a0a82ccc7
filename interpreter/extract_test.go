package interpreter

import (
	"testing"

	"sprintboard-api/domain"
)

func TestExtractTaskID(t *testing.T) {
	cases := []struct {
		text  string
		want  int64
		found bool
	}{
		{"delete task 3", 3, true},
		{"move Task 42 to done", 42, true},
		{"remove #17", 17, true},
		{"update id 8 please", 8, true},
		{"finish 99 now", 99, true},
		{"delete task", 0, false},
		{"no numbers here", 0, false},
		// "task N" outranks "#N" regardless of position in the text.
		{"show #7 task 3", 3, true},
		// "#N" outranks a bare "id N".
		{"#5 has id 6", 5, true},
	}
	for _, tc := range cases {
		got, found := extractTaskID(tc.text)
		if found != tc.found || got != tc.want {
			t.Errorf("extractTaskID(%q) = (%d, %v), want (%d, %v)", tc.text, got, found, tc.want, tc.found)
		}
	}
}

func TestExtractStatus(t *testing.T) {
	cases := []struct {
		text  string
		want  domain.Status
		found bool
	}{
		{"move it to todo", domain.StatusTodo, true},
		{"back to the backlog", domain.StatusTodo, true},
		{"put it to do later", domain.StatusTodo, true},
		{"mark as in progress", domain.StatusInProgress, true},
		{"I'm working on it", domain.StatusInProgress, true},
		{"started this morning", domain.StatusInProgress, true},
		{"show doing tasks", domain.StatusInProgress, true},
		{"it's done", domain.StatusDone, true},
		{"finally completed", domain.StatusDone, true},
		{"finished the thing", domain.StatusDone, true},
		{"move task 4", "", false},
		{"", "", false},
		// Tie-break: todo set is declared first and wins.
		{"move the done task back to todo", domain.StatusTodo, true},
		{"doing, not done", domain.StatusInProgress, true},
		// Word boundaries: "to done"/"to doing" are not "to do" hits.
		{"move task 42 to done", domain.StatusDone, true},
		{"change task 2 to doing", domain.StatusInProgress, true},
	}
	for _, tc := range cases {
		got, found := extractStatus(tc.text)
		if found != tc.found || got != tc.want {
			t.Errorf("extractStatus(%q) = (%q, %v), want (%q, %v)", tc.text, got, found, tc.want, tc.found)
		}
	}
}

func TestExtractPriority(t *testing.T) {
	cases := []struct {
		text string
		want int
	}{
		{"add task something", 5},
		{"add task x priority 7", 7},
		{"add task x p 2", 2},
		{"high priority task", 8},
		{"a low effort one", 3},
		// Left-to-right scan: whichever qualifies first wins.
		{"high priority 9 task", 8},
		{"priority 9 but feels high", 9},
		{"p 1 low", 1},
		{"low p 10", 3},
		// A failed parse after "priority" does not stop the scan.
		{"priority next week, low energy", 3},
		{"priority urgent", 5},
	}
	for _, tc := range cases {
		if got := extractPriority(tc.text); got != tc.want {
			t.Errorf("extractPriority(%q) = %d, want %d", tc.text, got, tc.want)
		}
	}
}

func TestExtractTitleAndAssignee(t *testing.T) {
	cases := []struct {
		text         string
		wantTitle    string
		wantAssignee string
	}{
		{"add task Design Review for Maria priority 7", "Design Review", "Maria"},
		{"create task Fix login bug", "Fix login bug", ""},
		{"add new task Ship release notes", "Ship release notes", ""},
		{"new task Update docs for Bob.", "Update docs", "Bob"},
		{"task Polish UI p 2", "Polish UI", ""},
		{"please do something", "New Task", ""},
		{"add task", "New Task", ""},
		{"add task for Carol", "New Task", "Carol"},
	}
	for _, tc := range cases {
		title, assignee := extractTitleAndAssignee(tc.text)
		if title != tc.wantTitle || assignee != tc.wantAssignee {
			t.Errorf("extractTitleAndAssignee(%q) = (%q, %q), want (%q, %q)",
				tc.text, title, assignee, tc.wantTitle, tc.wantAssignee)
		}
	}
}

func BenchmarkExtractTitleAndAssignee(b *testing.B) {
	for i := 0; i < b.N; i++ {
		extractTitleAndAssignee("add task Design Review for Maria priority 7")
	}
}
