package tools

import (
	"context"

	"github.com/sourcegraph/conc/pool"
	"go.uber.org/zap"

	"github.com/karimmaktouf/QUANTUM-MIND/internal/domain"
)

const (
	trendRepositories   = 5
	trendPapers         = 3
	trendCategories     = 3
	trendCategorySample = 2
)

var trendCategoryOrder = []string{"cs.AI", "cs.LG", "cs.CL", "cs.CV", "stat.ML"}

// ResearchTrends gathers repositories, ranked papers and category activity.
// Sub-fetches run concurrently; a failing source only leaves its section empty.
func (t *Toolbox) ResearchTrends(ctx context.Context, _ string) (domain.TrendReport, error) {
	report := domain.TrendReport{GeneratedAt: t.now()}
	categories := make([]*domain.CategoryActivity, trendCategories)

	p := pool.New().WithMaxGoroutines(2 + trendCategories)
	if t.repositories != nil {
		p.Go(func() {
			repos, err := t.repositories.TrendingRepositories(ctx, trendRepositories)
			if err != nil {
				t.logger.Debug("trending repositories failed", zap.Error(err))
				return
			}
			report.Repositories = repos
		})
	}
	if t.paperRankings != nil {
		p.Go(func() {
			papers, err := t.paperRankings.TopPapers(ctx, trendPapers)
			if err != nil {
				t.logger.Debug("ranked papers failed", zap.Error(err))
				return
			}
			report.Papers = papers
		})
	}
	if t.arxiv != nil {
		for i, category := range trendCategoryOrder[:trendCategories] {
			p.Go(func() {
				count, err := t.arxiv.CountRecent(ctx, category, trendCategorySample)
				if err != nil {
					t.logger.Debug("category activity failed", zap.String("category", category), zap.Error(err))
					return
				}
				if count == 0 {
					return
				}
				activity := "📊"
				if count >= 2 {
					activity = "🔥"
				}
				categories[i] = &domain.CategoryActivity{Category: category, RecentCount: count, Activity: activity}
			})
		}
	}
	p.Wait()

	for _, activity := range categories {
		if activity != nil {
			report.Categories = append(report.Categories, *activity)
		}
	}
	return report, ctx.Err()
}
