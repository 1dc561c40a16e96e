package domain

import "time"

// Paper is one arXiv feed entry.
type Paper struct {
	Title     string   `json:"title"`
	Summary   string   `json:"summary"`
	Published string   `json:"published"`
	Authors   []string `json:"authors"`
	Link      string   `json:"link"`
	PDF       string   `json:"pdf"`
}

// HubModel is a model record from the Hugging Face hub.
type HubModel struct {
	ID           string `json:"id"`
	ModelID      string `json:"modelId"`
	PipelineTag  string `json:"pipeline_tag"`
	Downloads    int64  `json:"downloads"`
	Likes        int64  `json:"likes"`
	LastModified string `json:"lastModified"`
	Private      bool   `json:"private"`
	Quality      int64  `json:"quality,omitempty"`
}

// DisplayID prefers modelId over id.
func (m HubModel) DisplayID() string {
	if m.ModelID != "" {
		return m.ModelID
	}
	return m.ID
}

// Dataset is a dataset record from the Hugging Face hub.
type Dataset struct {
	ID           string   `json:"id"`
	Tags         []string `json:"tags"`
	Downloads    int64    `json:"downloads"`
	Likes        int64    `json:"likes"`
	LastModified string   `json:"lastModified"`
}

// WebResult is one organic web search hit.
type WebResult struct {
	Title   string `json:"title"`
	Link    string `json:"link"`
	Snippet string `json:"snippet"`
}

// Repository is a trending code repository.
type Repository struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Stars       int64  `json:"stars"`
	Language    string `json:"language"`
	URL         string `json:"url"`
	Updated     string `json:"updated"`
}

// LeaderboardPaper is a paper entry from Papers With Code.
type LeaderboardPaper struct {
	Title    string `json:"title"`
	Abstract string `json:"abstract"`
	Stars    int64  `json:"stars"`
	URL      string `json:"url"`
	Date     string `json:"date"`
}

// CategoryActivity summarizes recent submissions in one arXiv category.
type CategoryActivity struct {
	Category    string `json:"category"`
	RecentCount int    `json:"recentCount"`
	Activity    string `json:"activity"`
}

// TrendReport aggregates the research trend sources.
type TrendReport struct {
	Repositories []Repository       `json:"repositories"`
	Papers       []LeaderboardPaper `json:"papers"`
	Categories   []CategoryActivity `json:"categories"`
	GeneratedAt  time.Time          `json:"generatedAt"`
}

// Empty reports whether no source contributed data.
func (r TrendReport) Empty() bool {
	return len(r.Repositories) == 0 && len(r.Papers) == 0 && len(r.Categories) == 0
}
