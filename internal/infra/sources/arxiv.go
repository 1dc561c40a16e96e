package sources

import (
	"context"
	"encoding/xml"
	"net/url"
	"strconv"
	"strings"

	"github.com/karimmaktouf/QUANTUM-MIND/internal/domain"
)

const (
	SourceArxiv         = "arxiv"
	DefaultArxivBaseURL = "https://export.arxiv.org"
	arxivQueryPath      = "/api/query"
)

type atomFeed struct {
	Entries []atomEntry `xml:"http://www.w3.org/2005/Atom entry"`
}

type atomEntry struct {
	ID        string       `xml:"http://www.w3.org/2005/Atom id"`
	Title     string       `xml:"http://www.w3.org/2005/Atom title"`
	Summary   string       `xml:"http://www.w3.org/2005/Atom summary"`
	Published string       `xml:"http://www.w3.org/2005/Atom published"`
	Authors   []atomAuthor `xml:"http://www.w3.org/2005/Atom author"`
	Links     []atomLink   `xml:"http://www.w3.org/2005/Atom link"`
}

type atomAuthor struct {
	Name string `xml:"http://www.w3.org/2005/Atom name"`
}

type atomLink struct {
	Href  string `xml:"href,attr"`
	Title string `xml:"title,attr"`
	Type  string `xml:"type,attr"`
}

// Arxiv queries the arXiv Atom API.
type Arxiv struct {
	base
}

func NewArxiv(opts Options) *Arxiv {
	return &Arxiv{base: newBase(SourceArxiv, DefaultArxivBaseURL, opts)}
}

// Search returns at most limit entries matching searchQuery, newest first.
func (a *Arxiv) Search(ctx context.Context, searchQuery string, limit int) ([]domain.Paper, error) {
	if limit <= 0 {
		return nil, nil
	}
	papers, err := a.search(ctx, searchQuery, limit)
	a.observe(len(papers), err)
	return papers, err
}

// CountRecent returns how many of the latest limit submissions a category reports.
func (a *Arxiv) CountRecent(ctx context.Context, category string, limit int) (int, error) {
	papers, err := a.search(ctx, "cat:"+category, limit)
	a.observe(len(papers), err)
	return len(papers), err
}

func (a *Arxiv) search(ctx context.Context, searchQuery string, limit int) ([]domain.Paper, error) {
	params := url.Values{}
	params.Set("search_query", searchQuery)
	params.Set("start", "0")
	params.Set("max_results", strconv.Itoa(limit))
	params.Set("sortBy", "submittedDate")
	params.Set("sortOrder", "descending")

	body, err := a.get(ctx, arxivQueryPath, params, nil)
	if err != nil {
		return nil, err
	}
	var feed atomFeed
	if err := xml.Unmarshal(body, &feed); err != nil {
		return nil, domain.RemoteError(a.source, "decode", err)
	}

	papers := make([]domain.Paper, 0, len(feed.Entries))
	for _, entry := range feed.Entries {
		papers = append(papers, entry.paper())
	}
	return papers, nil
}

func (e atomEntry) paper() domain.Paper {
	link := strings.TrimSpace(e.ID)
	authors := make([]string, 0, len(e.Authors))
	for _, author := range e.Authors {
		if name := strings.TrimSpace(author.Name); name != "" {
			authors = append(authors, name)
		}
	}
	pdf := ""
	for _, l := range e.Links {
		if l.Title == "pdf" || l.Type == "application/pdf" {
			pdf = l.Href
			break
		}
	}
	if pdf == "" {
		pdf = link
	}
	return domain.Paper{
		Title:     strings.TrimSpace(e.Title),
		Summary:   strings.TrimSpace(e.Summary),
		Published: truncate(strings.TrimSpace(e.Published), 10),
		Authors:   authors,
		Link:      link,
		PDF:       pdf,
	}
}
