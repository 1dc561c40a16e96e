package tools

import (
	"context"

	"github.com/karimmaktouf/QUANTUM-MIND/internal/domain"
)

// WebSearch returns the top organic results for the raw query.
func (t *Toolbox) WebSearch(ctx context.Context, query string) ([]domain.WebResult, error) {
	if t.web == nil {
		return nil, domain.E(domain.CodeConfigurationMissing, "web search", "", domain.ErrMissingCredential)
	}
	return t.web.Search(ctx, query)
}
