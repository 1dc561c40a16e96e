package domain

import "time"

// CuratedEntry is one leaderboard row.
type CuratedEntry struct {
	Model   string   `json:"model" toml:"model"`
	Size    string   `json:"size" toml:"size"`
	MTBench *float64 `json:"mt_bench,omitempty" toml:"mt_bench"`
	MMLU    *float64 `json:"mmlu,omitempty" toml:"mmlu"`
	Source  string   `json:"source" toml:"source"`
	Date    string   `json:"date" toml:"date"`
	Link    string   `json:"link" toml:"link"`
	Notes   string   `json:"notes,omitempty" toml:"notes"`
	Aliases []string `json:"aliases,omitempty" toml:"aliases"`
}

// PrimaryScore returns the MT-Bench score, or 0 when unknown.
func (e CuratedEntry) PrimaryScore() float64 {
	if e.MTBench == nil {
		return 0
	}
	return *e.MTBench
}

// RefreshStatus describes the outcome of a curated table refresh.
type RefreshStatus struct {
	Cached    bool      `json:"cached,omitempty"`
	Success   bool      `json:"success,omitempty"`
	Error     string    `json:"error,omitempty"`
	UpdatedAt time.Time `json:"updatedAt,omitempty"`
	Count     int       `json:"count"`
}
