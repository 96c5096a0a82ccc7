package domain

// Stats summarizes the active sprint by status.
type Stats struct {
	SprintName string `json:"sprint_name"`
	Todo       int    `json:"todo"`
	InProgress int    `json:"in_progress"`
	Done       int    `json:"done"`
	Blocked    int    `json:"blocked"`
	Total      int    `json:"total"`
}

// CompletionRate returns the percentage of tasks that are done. A sprint
// with no tasks has a rate of zero.
func (s Stats) CompletionRate() float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(s.Done) / float64(s.Total) * 100
}
