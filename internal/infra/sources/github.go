package sources

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/karimmaktouf/QUANTUM-MIND/internal/domain"
)

const (
	SourceGitHub         = "github"
	DefaultGitHubBaseURL = "https://api.github.com"
	trendingQuery        = "machine learning OR deep learning OR artificial intelligence"
)

type githubRepository struct {
	FullName        string `json:"full_name"`
	Description     string `json:"description"`
	StargazersCount int64  `json:"stargazers_count"`
	Language        string `json:"language"`
	HTMLURL         string `json:"html_url"`
	UpdatedAt       string `json:"updated_at"`
}

// GitHub lists the most starred AI repositories.
type GitHub struct {
	base
}

func NewGitHub(opts Options) *GitHub {
	return &GitHub{base: newBase(SourceGitHub, DefaultGitHubBaseURL, opts)}
}

// TrendingRepositories returns the top AI/ML repositories by stars.
func (g *GitHub) TrendingRepositories(ctx context.Context, limit int) ([]domain.Repository, error) {
	params := url.Values{}
	params.Set("q", trendingQuery)
	params.Set("sort", "stars")
	params.Set("order", "desc")
	params.Set("per_page", strconv.Itoa(limit))
	header := http.Header{}
	header.Set("Accept", "application/vnd.github.v3+json")

	var payload struct {
		Items []githubRepository `json:"items"`
	}
	if err := g.getJSON(ctx, "/search/repositories", params, header, &payload); err != nil {
		g.observe(0, err)
		return nil, err
	}

	repos := make([]domain.Repository, 0, len(payload.Items))
	for _, item := range payload.Items {
		if len(repos) == limit {
			break
		}
		language := item.Language
		if language == "" {
			language = "N/A"
		}
		repos = append(repos, domain.Repository{
			Name:        item.FullName,
			Description: truncate(item.Description, 150),
			Stars:       item.StargazersCount,
			Language:    language,
			URL:         item.HTMLURL,
			Updated:     truncate(item.UpdatedAt, 10),
		})
	}
	g.observe(len(repos), nil)
	return repos, nil
}
