package domain

// Sprint is a time-boxed container of tasks. Exactly one sprint is active at
// a time; every store operation resolves it internally.
type Sprint struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Active    bool   `json:"is_active,omitempty"`
}
