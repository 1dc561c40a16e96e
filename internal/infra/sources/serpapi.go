package sources

import (
	"context"
	"net/url"

	"github.com/karimmaktouf/QUANTUM-MIND/internal/domain"
)

const (
	SourceSerpAPI         = "serpapi"
	DefaultSerpAPIBaseURL = "https://serpapi.com"
	maxWebResults         = 3
)

// SerpAPI runs Google searches through serpapi.com.
type SerpAPI struct {
	base
	apiKey string
}

func NewSerpAPI(opts Options, apiKey string) *SerpAPI {
	return &SerpAPI{base: newBase(SourceSerpAPI, DefaultSerpAPIBaseURL, opts), apiKey: apiKey}
}

// Search returns up to three organic results for query.
func (s *SerpAPI) Search(ctx context.Context, query string) ([]domain.WebResult, error) {
	if s.apiKey == "" {
		return nil, domain.E(domain.CodeConfigurationMissing, "serpapi search", "", domain.ErrMissingCredential)
	}
	params := url.Values{}
	params.Set("engine", "google")
	params.Set("q", query)
	params.Set("hl", "fr")
	params.Set("api_key", s.apiKey)

	var payload struct {
		OrganicResults []domain.WebResult `json:"organic_results"`
	}
	err := s.getJSON(ctx, "/search.json", params, nil, &payload)
	results := payload.OrganicResults
	if len(results) > maxWebResults {
		results = results[:maxWebResults]
	}
	s.observe(len(results), err)
	if err != nil {
		return nil, err
	}
	return results, nil
}
