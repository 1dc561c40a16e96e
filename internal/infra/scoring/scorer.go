// Package scoring computes keyword relevance of a normalized query for one tool.
package scoring

import (
	"sort"
	"strings"

	"github.com/karimmaktouf/QUANTUM-MIND/internal/domain"
	"github.com/karimmaktouf/QUANTUM-MIND/internal/infra/normalize"
)

var (
	academicIndicators = domain.NewKeywordSet("paper", "article", "publication", "research", "conference", "preprint")
	industryIndicators = domain.NewKeywordSet("model", "checkpoint", "deployment", "production", "api")
)

// Result is the relevance of a query for one tool.
type Result struct {
	Score  int
	Strong []string
	Weak   []string
}

// Score applies keyword hits, domain bonuses, token overlap and the length trigger, in that order.
func Score(desc domain.ToolDescriptor, normalized string, tokens normalize.Tokens) Result {
	strong := make(map[string]struct{})
	for keyword := range desc.StrongKeywords {
		if strings.Contains(normalized, keyword) {
			strong[keyword] = struct{}{}
		}
	}
	weak := make(map[string]struct{})
	for keyword := range desc.WeakKeywords {
		if _, dup := strong[keyword]; dup {
			continue
		}
		if strings.Contains(normalized, keyword) {
			weak[keyword] = struct{}{}
		}
	}

	score := len(strong)*desc.StrongWeight + len(weak)*desc.WeakWeight
	score += domainBonus(desc.Name, normalized)

	if score < desc.MinScore && len(desc.TokenOverlap) > 0 {
		overlaps := 0
		for token := range tokens {
			if !desc.TokenOverlap.Has(token) {
				continue
			}
			if _, seen := weak[token]; !seen {
				weak[token] = struct{}{}
			}
			overlaps++
		}
		score += overlaps
	}

	if score < desc.MinScore && desc.MinLengthTrigger > 0 && len(normalized) >= desc.MinLengthTrigger {
		score = desc.MinScore
	}

	return Result{
		Score:  score,
		Strong: sortedKeys(strong),
		Weak:   sortedKeys(weak),
	}
}

func domainBonus(tool domain.ToolName, normalized string) int {
	switch tool {
	case domain.ToolArxivLookup:
		if academicIndicators.ContainedIn(normalized) {
			return 1
		}
	case domain.ToolHuggingFace:
		if industryIndicators.ContainedIn(normalized) {
			return 1
		}
	}
	return 0
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for key := range set {
		out = append(out, key)
	}
	sort.Strings(out)
	return out
}
