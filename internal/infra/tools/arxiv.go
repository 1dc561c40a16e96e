package tools

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/karimmaktouf/QUANTUM-MIND/internal/domain"
	"github.com/karimmaktouf/QUANTUM-MIND/internal/infra/terms"
)

const lookupCategory = "cat:cs.AI"

// ArxivLookup searches recent cs.AI papers, dropping trailing terms until the
// feed answers. When nothing comes back it returns a single advisory entry.
func (t *Toolbox) ArxivLookup(ctx context.Context, query string) ([]domain.Paper, error) {
	if t.arxiv == nil || t.maxArxiv <= 0 {
		return nil, nil
	}
	composed := terms.ArxivTerms(query)
	result := t.backoff(ctx, lookupCategory, composed, t.maxArxiv)
	if len(result.Items) > 0 {
		return result.Items, nil
	}
	return []domain.Paper{arxivFallback()}, nil
}

// ArxivDigest searches the digest categories and keeps at most three papers.
func (t *Toolbox) ArxivDigest(ctx context.Context, query string) ([]domain.Paper, error) {
	if t.arxiv == nil {
		return nil, nil
	}
	limit := max(1, min(t.maxArxiv, domain.MaxDigestResults))
	composed := terms.ArxivTerms(query)
	result := t.backoff(ctx, terms.CategoryClause(t.categories), composed, limit)
	if len(result.Items) > domain.MaxDigestResults {
		return result.Items[:domain.MaxDigestResults], nil
	}
	return result.Items, nil
}

func (t *Toolbox) backoff(ctx context.Context, categoryClause string, composed []string, limit int) terms.BackoffResult[domain.Paper] {
	result := terms.Backoff(ctx, composed, func(ctx context.Context, attempt []string) ([]domain.Paper, error) {
		return t.arxiv.Search(ctx, terms.ArxivClause(categoryClause, attempt), limit)
	})
	t.logger.Debug("arxiv backoff",
		zap.String("terms", strings.Join(composed, " ")),
		zap.String("matched", strings.Join(result.Terms, " ")),
		zap.Int("attempts", result.Attempts),
		zap.Int("results", len(result.Items)),
	)
	return result
}

func arxivFallback() domain.Paper {
	return domain.Paper{
		Title:   "Aucune publication arXiv récupérée automatiquement",
		Summary: "Aucune publication n'a pu être récupérée automatiquement. Pensez à relancer la recherche plus tard sur arXiv.",
	}
}
