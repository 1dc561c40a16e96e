package format

import (
	"strconv"
	"strings"

	"github.com/karimmaktouf/QUANTUM-MIND/internal/domain"
)

var officialDatasetOrgs = []string{"openai", "google", "meta", "bigscience", "eleutherai"}

const datasetNote = "\n\n💡 Privilégier datasets officiels (✅) ou très utilisés (🟢) pour benchmarks fiables"

// HuggingFaceModels renders hub models with popularity tiers and relevance stars.
func HuggingFaceModels(models []domain.HubModel) string {
	if len(models) == 0 {
		return ""
	}
	blocks := make([]string, 0, len(models))
	for idx, model := range models {
		id := orDefault(model.DisplayID(), "Modèle inconnu")
		relevance := ""
		if idx < 3 {
			relevance = strings.Repeat("⭐", 3-idx)
		}

		var details []string
		if model.PipelineTag != "" {
			details = append(details, "📌 "+model.PipelineTag)
		}
		if model.Downloads != 0 {
			details = append(details, "⬇️ "+Thousands(model.Downloads)+" téléchargements")
		}
		if model.Likes != 0 {
			details = append(details, "❤️ "+strconv.FormatInt(model.Likes, 10)+" likes")
		}
		if model.Quality > 0 {
			details = append(details, "📊 Score: "+Thousands(model.Quality))
		}
		if model.Private {
			details = append(details, "🔒 privé")
		}
		if updated := prefix(model.LastModified, 10); updated != "" {
			details = append(details, "🔄 MAJ "+updated)
		}
		detailLine := "Infos indisponibles"
		if len(details) > 0 {
			detailLine = strings.Join(details, " • ")
		}

		blocks = append(blocks,
			"- "+relevance+" ["+modelTier(model)+"] "+id+"\n  "+detailLine+"\n  🔗 https://huggingface.co/"+id)
	}
	return strings.Join(blocks, "\n")
}

// BenchmarkDatasets renders benchmark datasets with provenance badges.
func BenchmarkDatasets(datasets []domain.Dataset) string {
	if len(datasets) == 0 {
		return ""
	}
	blocks := make([]string, 0, len(datasets))
	for _, dataset := range datasets {
		id := orDefault(dataset.ID, "Dataset")
		details := []string{datasetTier(id, dataset.Downloads)}
		if tasks := tagValues(dataset.Tags, "task:", 2); len(tasks) > 0 {
			details = append(details, "📋 "+strings.Join(tasks, ", "))
		}
		if modalities := tagValues(dataset.Tags, "modality:", 1); len(modalities) > 0 {
			details = append(details, "🎯 "+strings.Join(modalities, ", "))
		}
		if dataset.Downloads != 0 {
			details = append(details, "⬇️ "+Thousands(dataset.Downloads)+" téléchargements")
		}
		if dataset.Likes != 0 {
			details = append(details, "❤️ "+strconv.FormatInt(dataset.Likes, 10)+" likes")
		}
		if updated := prefix(dataset.LastModified, 10); updated != "" {
			details = append(details, "🔄 MAJ "+updated)
		}
		blocks = append(blocks,
			"- ["+id+"](https://huggingface.co/datasets/"+id+")\n  "+strings.Join(details, " • "))
	}
	return strings.Join(blocks, "\n") + datasetNote
}

func modelTier(model domain.HubModel) string {
	switch {
	case model.Downloads >= 10000 && model.Likes >= 50:
		return "🟢 Très populaire"
	case model.Downloads >= 1000 && model.Likes >= 10:
		return "🟡 Populaire"
	case model.Downloads >= 100 || model.Likes >= 5:
		return "🟡 En émergence"
	default:
		return "⚪ Nouveau"
	}
}

func datasetTier(id string, downloads int64) string {
	for _, org := range officialDatasetOrgs {
		if strings.Contains(id, org) {
			return "✅ Officiel"
		}
	}
	switch {
	case downloads >= 10000:
		return "🟢 Très utilisé"
	case downloads >= 1000:
		return "🟡 Populaire"
	default:
		return "⚪ Standard"
	}
}

func tagValues(tags []string, tagPrefix string, limit int) []string {
	var out []string
	for _, tag := range tags {
		if len(out) == limit {
			break
		}
		if strings.HasPrefix(tag, tagPrefix) {
			out = append(out, strings.TrimPrefix(tag, tagPrefix))
		}
	}
	return out
}
