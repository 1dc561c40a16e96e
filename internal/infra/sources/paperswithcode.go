package sources

import (
	"context"
	"net/url"

	"github.com/karimmaktouf/QUANTUM-MIND/internal/domain"
)

const (
	SourcePapersWithCode         = "paperswithcode"
	DefaultPapersWithCodeBaseURL = "https://paperswithcode.com"
)

type pwcPaper struct {
	Title     string `json:"title"`
	Abstract  string `json:"abstract"`
	Stars     int64  `json:"stars"`
	URLAbs    string `json:"url_abs"`
	Published string `json:"published"`
}

// PapersWithCode lists the most starred papers.
type PapersWithCode struct {
	base
}

func NewPapersWithCode(opts Options) *PapersWithCode {
	return &PapersWithCode{base: newBase(SourcePapersWithCode, DefaultPapersWithCodeBaseURL, opts)}
}

// TopPapers returns up to limit papers ordered by stars.
func (p *PapersWithCode) TopPapers(ctx context.Context, limit int) ([]domain.LeaderboardPaper, error) {
	params := url.Values{}
	params.Set("ordering", "-stars")
	params.Set("page", "1")

	var payload struct {
		Results []pwcPaper `json:"results"`
	}
	if err := p.getJSON(ctx, "/api/v1/papers/", params, nil, &payload); err != nil {
		p.observe(0, err)
		return nil, err
	}

	papers := make([]domain.LeaderboardPaper, 0, limit)
	for _, item := range payload.Results {
		if len(papers) == limit {
			break
		}
		papers = append(papers, domain.LeaderboardPaper{
			Title:    item.Title,
			Abstract: truncate(item.Abstract, 200),
			Stars:    item.Stars,
			URL:      item.URLAbs,
			Date:     item.Published,
		})
	}
	p.observe(len(papers), nil)
	return papers, nil
}
