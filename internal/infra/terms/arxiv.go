// Package terms derives bounded remote search terms from free-text queries.
package terms

import (
	"strings"
	"unicode"
)

const (
	maxArxivTerms = 6
)

// FallbackArxivTerms is used when a query yields no usable token.
var FallbackArxivTerms = []string{"artificial", "intelligence"}

var arxivStopwords = setOf(
	"les", "des", "aux", "sur", "pour", "dans", "avec", "une", "un", "le", "la",
	"derniers", "dernieres", "dernier", "derniere", "quels", "quelles", "quel", "quelle",
	"donne", "donnez", "donner", "montre", "montrer", "liste", "lister", "sont",
	"est", "and", "the", "of", "in", "to", "for", "on", "with", "at", "by", "from",
)

var arxivExpansions = map[string][]string{
	"intelligence":  {"artificial", "intelligence"},
	"artificielle":  {"artificial", "intelligence"},
	"artificielles": {"artificial", "intelligence"},
	"ia":            {"artificial", "intelligence"},
	"ai":            {"artificial", "intelligence"},
	"machine":       {"machine", "learning"},
	"apprentissage": {"machine", "learning"},
	"learning":      {"machine", "learning"},
	"profond":       {"deep", "learning"},
	"profonds":      {"deep", "learning"},
	"rag":           {"retrieval", "augmented", "generation"},
	"retrievers":    {"retriever"},
	"llm":           {"large", "language", "model"},
	"llms":          {"large", "language", "model"},
	"transformers":  {"transformer"},
	"attention":     {"attention", "mechanism"},
	"diffusion":     {"diffusion", "model"},
	"gan":           {"generative", "adversarial"},
	"reinforcement": {"reinforcement", "learning"},
	"embeddings":    {"embedding"},
	"finetuning":    {"fine", "tuning"},
	"pretraining":   {"pre", "training"},
	"pfe":           {"internship"},
	"stage":         {"internship"},
}

// ArxivTerms lowercases the query, strips punctuation, drops tokens of two
// characters or fewer and stopwords, then expands synonyms. The result is
// deduplicated in first-seen order and capped at six terms.
func ArxivTerms(query string) []string {
	tokens := strings.Fields(stripPunctuation(strings.ToLower(query), false))

	out := make([]string, 0, maxArxivTerms)
	seen := make(map[string]struct{})
	for _, token := range tokens {
		if len([]rune(token)) <= 2 {
			continue
		}
		if _, stop := arxivStopwords[token]; stop {
			continue
		}
		mapped, ok := arxivExpansions[token]
		if !ok {
			mapped = []string{token}
		}
		for _, term := range mapped {
			if term == "" || isDigits(term) {
				continue
			}
			if _, stop := arxivStopwords[term]; stop {
				continue
			}
			if _, dup := seen[term]; dup {
				continue
			}
			seen[term] = struct{}{}
			out = append(out, term)
		}
	}
	if len(out) == 0 {
		return append([]string(nil), FallbackArxivTerms...)
	}
	if len(out) > maxArxivTerms {
		out = out[:maxArxivTerms]
	}
	return out
}

// CategoryClause joins categories into an arXiv OR filter.
func CategoryClause(categories []string) string {
	parts := make([]string, 0, len(categories))
	for _, category := range categories {
		category = strings.TrimSpace(category)
		if category == "" {
			continue
		}
		parts = append(parts, "cat:"+category)
	}
	return strings.Join(parts, " OR ")
}

// ArxivClause composes "(categories) AND (all:"t1" AND all:"t2")".
func ArxivClause(categoryClause string, terms []string) string {
	clause := categoryClause
	if !strings.HasPrefix(clause, "(") {
		clause = "(" + clause + ")"
	}
	if len(terms) == 0 {
		return clause
	}
	quoted := make([]string, len(terms))
	for i, term := range terms {
		quoted[i] = `all:"` + term + `"`
	}
	return clause + " AND (" + strings.Join(quoted, " AND ") + ")"
}

// stripPunctuation replaces every rune that is not a letter, digit, underscore
// or whitespace with a space. keepHyphen preserves '-'.
func stripPunctuation(text string, keepHyphen bool) string {
	return strings.Map(func(r rune) rune {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r), r == '_', unicode.IsSpace(r):
			return r
		case keepHyphen && r == '-':
			return r
		default:
			return ' '
		}
	}, text)
}

func isDigits(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return s != ""
}

func setOf(values ...string) map[string]struct{} {
	out := make(map[string]struct{}, len(values))
	for _, value := range values {
		out[value] = struct{}{}
	}
	return out
}
