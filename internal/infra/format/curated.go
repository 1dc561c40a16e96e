package format

import (
	"strings"

	"github.com/karimmaktouf/QUANTUM-MIND/internal/domain"
)

const (
	curatedHeader = "| Modèle | Taille | MT-Bench | MMLU | Source |\n| --- | --- | --- | --- | --- |"
	curatedFooter = "\n\nScores consolidés entre le snapshot LMSYS (API) et la liste organisée; " +
		"vérifiez la source pour les mises à jour quotidiennes."
)

// CuratedTable renders leaderboard entries as a markdown table followed by notes.
func CuratedTable(entries []domain.CuratedEntry) string {
	if len(entries) == 0 {
		return ""
	}
	rows := []string{curatedHeader}
	var notes []string
	for _, entry := range entries {
		model := orDefault(entry.Model, "Modèle")
		source := orDefault(entry.Source, "LMSYS")
		if entry.Date != "" {
			source += " (" + entry.Date + ")"
		}
		if entry.Link != "" {
			source = "[" + source + "](" + entry.Link + ")"
		}
		rows = append(rows, "| "+model+" | "+orDefault(entry.Size, "N/A")+" | "+
			Score(entry.MTBench)+" | "+Score(entry.MMLU)+" | "+source+" |")
		if entry.Notes != "" {
			notes = append(notes, "- "+model+" : "+entry.Notes)
		}
	}
	table := strings.Join(rows, "\n")
	if len(notes) > 0 {
		table += "\n\n" + strings.Join(notes, "\n")
	}
	return table + curatedFooter
}
