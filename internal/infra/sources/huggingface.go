package sources

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/karimmaktouf/QUANTUM-MIND/internal/domain"
)

const (
	SourceHuggingFace         = "huggingface"
	SourceHuggingFaceDatasets = "huggingface_datasets"
	DefaultHuggingFaceBaseURL = "https://huggingface.co"
)

// HuggingFace searches the hub for models and datasets.
type HuggingFace struct {
	models   base
	datasets base
	token    string
}

func NewHuggingFace(opts Options, token string) *HuggingFace {
	return &HuggingFace{
		models:   newBase(SourceHuggingFace, DefaultHuggingFaceBaseURL, opts),
		datasets: newBase(SourceHuggingFaceDatasets, DefaultHuggingFaceBaseURL, opts),
		token:    token,
	}
}

// Models returns models matching terms sorted by downloads.
func (h *HuggingFace) Models(ctx context.Context, terms string, limit int) ([]domain.HubModel, error) {
	var models []domain.HubModel
	err := h.models.getJSON(ctx, "/api/models", searchParams(terms, limit), h.authHeader(), &models)
	h.models.observe(len(models), err)
	return models, err
}

// Datasets returns datasets matching terms sorted by downloads.
func (h *HuggingFace) Datasets(ctx context.Context, terms string, limit int) ([]domain.Dataset, error) {
	var datasets []domain.Dataset
	err := h.datasets.getJSON(ctx, "/api/datasets", searchParams(terms, limit), nil, &datasets)
	h.datasets.observe(len(datasets), err)
	return datasets, err
}

func (h *HuggingFace) authHeader() http.Header {
	if h.token == "" {
		return nil
	}
	header := http.Header{}
	header.Set("Authorization", "Bearer "+h.token)
	return header
}

func searchParams(terms string, limit int) url.Values {
	params := url.Values{}
	params.Set("search", terms)
	params.Set("sort", "downloads")
	params.Set("direction", "-1")
	params.Set("limit", strconv.Itoa(limit))
	return params
}
