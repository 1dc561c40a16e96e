package format

import (
	"strings"

	"github.com/karimmaktouf/QUANTUM-MIND/internal/domain"
)

const webNote = "\n\n💡 Conseil : Privilégier sources académiques (🎓) et officielles (🏛️)"

// WebResults renders organic search hits tagged by source kind.
func WebResults(results []domain.WebResult) string {
	if len(results) == 0 {
		return ""
	}
	blocks := make([]string, 0, len(results))
	for _, result := range results {
		title := orDefault(result.Title, "Résultat")
		icon := sourceIcon(result.Link)
		if result.Link != "" {
			blocks = append(blocks, "- "+icon+"["+title+"]("+result.Link+")\n  "+result.Snippet)
			continue
		}
		blocks = append(blocks, "- "+icon+title+"\n  "+result.Snippet)
	}
	return strings.Join(blocks, "\n") + webNote
}

func sourceIcon(link string) string {
	switch {
	case link == "":
		return ""
	case strings.Contains(link, "wikipedia.org"):
		return "📖 "
	case strings.Contains(link, "github.com"), strings.Contains(link, "arxiv.org"), strings.Contains(link, "scholar.google"):
		return "🎓 "
	case strings.Contains(link, ".edu"), strings.Contains(link, ".gov"):
		return "🏛️ "
	default:
		return ""
	}
}
