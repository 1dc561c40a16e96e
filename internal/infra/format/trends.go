package format

import (
	"fmt"
	"strings"

	"github.com/karimmaktouf/QUANTUM-MIND/internal/domain"
)

var categoryNames = map[string]string{
	"cs.AI":   "Intelligence Artificielle",
	"cs.LG":   "Machine Learning",
	"cs.CL":   "NLP/Linguistique",
	"cs.CV":   "Computer Vision",
	"stat.ML": "ML Statistiques",
}

// ResearchTrends renders the multi-source trend report.
func ResearchTrends(report domain.TrendReport) string {
	if report.Empty() {
		return ""
	}
	var b strings.Builder

	if len(report.Repositories) > 0 {
		b.WriteString("### 🌟 Repositories GitHub Populaires\n")
		for idx, repo := range report.Repositories {
			if idx == 5 {
				break
			}
			fmt.Fprintf(&b, "%d. %s [%s](%s) (%s ⭐)\n   💡 %s\n   🔧 %s | 🔄 MAJ %s\n",
				idx+1, starIcon(repo.Stars), repo.Name, repo.URL, Thousands(repo.Stars),
				prefix(orDefault(repo.Description, "Pas de description"), 100),
				orDefault(repo.Language, "N/A"), repo.Updated)
		}
	}

	if len(report.Papers) > 0 {
		b.WriteString("\n### 🏆 Papers State-of-the-Art (Papers With Code)\n")
		for idx, paper := range report.Papers {
			if idx == 3 {
				break
			}
			fmt.Fprintf(&b, "%d. 📄 [%s](%s)\n   ⭐ %d stars | 📅 %s\n   📝 %s...\n",
				idx+1, paper.Title, paper.URL, paper.Stars, orDefault(paper.Date, "N/A"),
				prefix(orDefault(paper.Abstract, "Pas de résumé"), 150))
		}
	}

	if len(report.Categories) > 0 {
		b.WriteString("\n### 🔥 Catégories arXiv Actives\n")
		for _, topic := range report.Categories {
			name, ok := categoryNames[topic.Category]
			if !ok {
				name = topic.Category
			}
			fmt.Fprintf(&b, "• %s **%s** - %s (%d publications récentes)\n",
				orDefault(topic.Activity, "📊"), topic.Category, name, topic.RecentCount)
		}
	}

	fmt.Fprintf(&b, "\n\n💡 **Insights** :\n"+
		"• %d repos GitHub analysés\n"+
		"• %d papers SOTA identifiés\n"+
		"• %d catégories arXiv actives\n"+
		"• Analyse effectuée à %s\n\n"+
		"⚡ **Action recommandée** : Explorer les repos 🔥 pour code production-ready, "+
		"lire papers 🏆 pour SOTA, surveiller catégories actives pour veille.",
		len(report.Repositories), len(report.Papers), len(report.Categories),
		report.GeneratedAt.Format("15:04:05"))
	return b.String()
}

func starIcon(stars int64) string {
	switch {
	case stars > 50000:
		return "🔥"
	case stars > 10000:
		return "⭐"
	default:
		return "✨"
	}
}
