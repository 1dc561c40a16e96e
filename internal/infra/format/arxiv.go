package format

import (
	"strings"
	"time"

	"github.com/karimmaktouf/QUANTUM-MIND/internal/domain"
)

const arxivSuggestions = "\n\n💡 **Suggestions** :\n" +
	"• Vérifier les citations sur Google Scholar\n" +
	"• Consulter le code source si disponible sur GitHub\n" +
	"• Comparer avec versions peer-reviewed (conf/journal)"

const preprintWarning = "⚠️ Preprint non peer-reviewed - Vérifier citations avant utilisation"

// ArxivLookup renders paper search results with freshness and impact hints.
func ArxivLookup(papers []domain.Paper, now time.Time) string {
	if len(papers) == 0 {
		return ""
	}
	blocks := make([]string, 0, len(papers))
	for _, paper := range papers {
		title := orDefault(paper.Title, "Titre indisponible")
		published := orDefault(paper.Published, "Date inconnue")

		freshness, impact := "", ""
		if days, ok := AgeInDays(paper.Published, now); ok {
			freshness = freshnessIcon(days)
			impact = impactLabel(days)
		}

		summary := Clip(Collapse(paper.Summary), 280, 277)
		pdfNote := "⚠️ PDF non disponible"
		if paper.PDF != "" {
			pdfNote = "📄 [PDF direct](" + paper.PDF + ")"
		}

		var b strings.Builder
		b.WriteString(titleLine(freshness, title, paper.Link, published))
		b.WriteString("\n  👥 ")
		b.WriteString(orDefault(joinAuthors(paper.Authors, 3), "Non renseigné"))
		b.WriteString(" | ")
		b.WriteString(impact)
		b.WriteString("\n  📝 TL;DR : ")
		b.WriteString(orDefault(summary, "Résumé non disponible"))
		b.WriteString("\n  ")
		b.WriteString(pdfNote)
		b.WriteString("\n  ")
		b.WriteString(preprintWarning)
		blocks = append(blocks, b.String())
	}
	return strings.Join(blocks, "\n") + arxivSuggestions
}

// ArxivDigest renders a compact digest with TL;DR, authors and keywords.
func ArxivDigest(papers []domain.Paper) string {
	if len(papers) == 0 {
		return ""
	}
	blocks := make([]string, 0, len(papers))
	for _, paper := range papers {
		title := orDefault(paper.Title, "Titre indisponible")
		published := orDefault(paper.Published, "Date inconnue")

		parts := []string{
			titleLine("", title, paper.Link, published),
			"  TL;DR : " + TLDR(paper.Summary, 2),
			"  Auteurs : " + orDefault(joinAuthors(paper.Authors, 2), "Auteurs non renseignés"),
		}
		if keywords := Keywords(paper.Summary, 3); len(keywords) > 0 {
			parts = append(parts, "  Mots-clés : "+strings.Join(keywords, ", "))
		}
		if paper.PDF != "" {
			parts = append(parts, "  PDF : "+paper.PDF)
		}
		blocks = append(blocks, strings.Join(parts, "\n"))
	}
	return strings.Join(blocks, "\n")
}

func titleLine(icon, title, link, published string) string {
	if link != "" {
		return "- " + icon + "[" + title + "](" + link + ") (" + published + ")"
	}
	return "- " + icon + title + " (" + published + ")"
}

func freshnessIcon(days int) string {
	switch {
	case days <= 7:
		return "🆕 "
	case days <= 30:
		return "📅 "
	case days > 365:
		return "📚 "
	default:
		return ""
	}
}

func impactLabel(days int) string {
	switch {
	case days <= 30:
		return "🔥 Très récent"
	case days <= 90:
		return "📈 Récent"
	case days <= 365:
		return "📊 Cette année"
	default:
		return ""
	}
}
