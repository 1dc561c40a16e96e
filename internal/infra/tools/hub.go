package tools

import (
	"context"
	"sort"

	"go.uber.org/zap"

	"github.com/karimmaktouf/QUANTUM-MIND/internal/domain"
	"github.com/karimmaktouf/QUANTUM-MIND/internal/infra/cache"
	"github.com/karimmaktouf/QUANTUM-MIND/internal/infra/terms"
)

const (
	hubFetchLimit     = 5
	hubResultLimit    = 3
	datasetFetchLimit = 3
)

// HuggingFace searches models, retrying once with the two longest terms when
// the composed query finds nothing usable.
func (t *Toolbox) HuggingFace(ctx context.Context, query string) ([]domain.HubModel, error) {
	if t.hub == nil {
		return nil, nil
	}
	composed := terms.HuggingFaceTerms(query)
	models, err := t.fetchModels(ctx, composed)
	if len(models) > 0 {
		return models, nil
	}
	narrowed, ok := terms.Narrow(composed)
	if !ok {
		return nil, err
	}
	t.logger.Debug("hugging face fallback terms", zap.String("terms", narrowed), zap.String("query", query))
	return t.fetchModels(ctx, narrowed)
}

func (t *Toolbox) fetchModels(ctx context.Context, composed string) ([]domain.HubModel, error) {
	return cache.Fetch(ctx, t.cache, cache.NamespaceHuggingFace, composed, func(ctx context.Context) ([]domain.HubModel, error) {
		models, err := t.hub.Models(ctx, composed, hubFetchLimit)
		if err != nil {
			return nil, err
		}
		return rankModels(models), nil
	})
}

// rankModels keeps models with at least 10 downloads or one like, ordered by
// a popularity score.
func rankModels(models []domain.HubModel) []domain.HubModel {
	quality := make([]domain.HubModel, 0, len(models))
	for _, model := range models {
		if model.Downloads < 10 && model.Likes < 1 {
			continue
		}
		model.Quality = model.Downloads*10 + model.Likes*100
		quality = append(quality, model)
	}
	sort.SliceStable(quality, func(i, j int) bool { return quality[i].Quality > quality[j].Quality })
	if len(quality) > hubResultLimit {
		quality = quality[:hubResultLimit]
	}
	return quality
}

// Benchmarks searches benchmark datasets with the same single narrowing retry.
func (t *Toolbox) Benchmarks(ctx context.Context, query string) ([]domain.Dataset, error) {
	if t.hub == nil {
		return nil, nil
	}
	composed := terms.BenchmarkTerms(query)
	datasets, err := t.fetchDatasets(ctx, composed)
	if len(datasets) > 0 {
		return datasets, nil
	}
	narrowed, ok := terms.Narrow(composed)
	if !ok {
		return nil, err
	}
	t.logger.Debug("benchmark fallback terms", zap.String("terms", narrowed), zap.String("query", query))
	return t.fetchDatasets(ctx, narrowed)
}

func (t *Toolbox) fetchDatasets(ctx context.Context, composed string) ([]domain.Dataset, error) {
	return cache.Fetch(ctx, t.cache, cache.NamespaceBenchmarks, composed, func(ctx context.Context) ([]domain.Dataset, error) {
		datasets, err := t.hub.Datasets(ctx, composed, datasetFetchLimit)
		if len(datasets) > datasetFetchLimit {
			datasets = datasets[:datasetFetchLimit]
		}
		return datasets, err
	})
}
