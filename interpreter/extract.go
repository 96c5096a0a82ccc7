package interpreter

import (
	"regexp"
	"strconv"
	"strings"

	"sprintboard-api/domain"
)

// taskIDPatterns are tried in precedence order; the first pattern matching
// anywhere in the message supplies the ID, so "show #7 task 3" yields 3.
var taskIDPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)task\s+(\d+)`),
	regexp.MustCompile(`#(\d+)`),
	regexp.MustCompile(`(?i)\bid\s+(\d+)`),
	regexp.MustCompile(`\b(\d+)\b`),
}

func extractTaskID(text string) (int64, bool) {
	for _, re := range taskIDPatterns {
		m := re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		id, err := strconv.ParseInt(m[1], 10, 64)
		if err != nil {
			continue
		}
		return id, true
	}
	return 0, false
}

// statusPatterns are tested in declaration order; when a message matches
// several sets, the earliest declared set wins. The tie-break is policy,
// not accident: "move the done task back to todo" resolves to todo.
// Keywords match on word boundaries, so "to done" is done and "to doing"
// is in_progress; neither is a "to do" hit.
var statusPatterns = []struct {
	status domain.Status
	re     *regexp.Regexp
}{
	{domain.StatusTodo, regexp.MustCompile(`\b(todo|to do|backlog)\b`)},
	{domain.StatusInProgress, regexp.MustCompile(`\b(progress|doing|working|started)\b`)},
	{domain.StatusDone, regexp.MustCompile(`\b(done|completed|finished|complete)\b`)},
}

func extractStatus(text string) (domain.Status, bool) {
	m := strings.ToLower(text)
	for _, set := range statusPatterns {
		if set.re.MatchString(m) {
			return set.status, true
		}
	}
	return "", false
}

// extractPriority scans tokens left to right and honors whichever qualifies
// first: an explicit "priority N" / "p N" pair, or the bare words "high" (8)
// and "low" (3). An explicit pair whose following token fails to parse does
// not stop the scan. Defaults to 5.
func extractPriority(text string) int {
	tokens := strings.Fields(strings.ToLower(text))
	for i, tok := range tokens {
		switch tok {
		case "priority", "p":
			if i+1 < len(tokens) {
				if n, err := strconv.Atoi(tokens[i+1]); err == nil {
					return n
				}
			}
		case "high":
			return 8
		case "low":
			return 3
		}
	}
	return domain.DefaultPriority
}

// extractTitleAndAssignee derives the title span and assignee for add_task.
// The title begins after the first trigger word (add/create/new/task);
// consecutive trigger words all belong to the command, so "add new task Fix
// login" titles the task "Fix login". The span ends before the first of
// for/priority/p. The token after a "for" anywhere in the message becomes
// the assignee, minus trailing punctuation.
func extractTitleAndAssignee(text string) (title, assignee string) {
	tokens := strings.Fields(text)

	start := -1
	for i, tok := range tokens {
		if isTitleTrigger(tok) {
			start = i + 1
			for start < len(tokens) && isTitleTrigger(tokens[start]) {
				start++
			}
			break
		}
	}
	if start < 0 {
		return "New Task", ""
	}

	end := len(tokens)
	for i := start; i < len(tokens); i++ {
		if isTitleBoundary(tokens[i]) {
			end = i
			break
		}
	}
	title = strings.Join(tokens[start:end], " ")
	if title == "" {
		title = "New Task"
	}

	for i, tok := range tokens {
		if strings.EqualFold(tok, "for") && i+1 < len(tokens) {
			assignee = strings.TrimRight(tokens[i+1], ".,!?;:")
			break
		}
	}
	return title, assignee
}

func isTitleTrigger(tok string) bool {
	switch strings.ToLower(tok) {
	case "add", "create", "new", "task":
		return true
	}
	return false
}

func isTitleBoundary(tok string) bool {
	switch strings.ToLower(tok) {
	case "for", "priority", "p":
		return true
	}
	return false
}
