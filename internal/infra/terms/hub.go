package terms

import (
	"sort"
	"strings"

	"github.com/karimmaktouf/QUANTUM-MIND/internal/infra/normalize"
)

const (
	maxHubTerms       = 6
	maxBenchmarkTerms = 5
)

// FallbackBenchmarkTerms is used when a benchmark query yields no usable token.
const FallbackBenchmarkTerms = "ai benchmark"

var hubStopwords = setOf(
	"les", "des", "aux", "sur", "entre", "avec", "pour", "dans", "une", "un", "le", "la",
	"derniers", "dernieres", "dernier", "derniere", "quelles", "quels", "quoi",
	"comment", "peux", "peut", "donner", "donne", "donnez", "moi", "tu", "toi", "cherche",
	"chercheur", "chercher", "chercheurs", "modeles", "modele", "model",
	"models", "huggingface", "hugging", "face", "recherches",
)

var hubAllowedShort = setOf("ia", "ai", "nlp", "ml", "cv")

var hubFallback = []string{"machine", "learning", "language", "model"}

var hubDomainTerms = []string{"language", "model"}

var benchmarkStopwords = setOf(
	"les", "des", "aux", "sur", "entre", "avec", "pour", "dans", "une", "un", "le", "la",
	"quel", "quelle", "quels", "quelles", "donne", "donnez", "donner", "liste", "montre",
	"state", "art", "etat", "valeurs", "scores", "score", "recents", "recentes", "dernier",
)

// HuggingFaceTerms folds diacritics, turns hyphens into spaces and drops
// stopwords and short tokens outside the acronym allow-list. The canonical
// domain terms are appended when absent; the result holds at most six terms.
func HuggingFaceTerms(query string) string {
	folded := strings.ReplaceAll(normalize.Text(query), "-", " ")
	tokens := strings.Fields(stripPunctuation(folded, true))

	filtered := make([]string, 0, maxHubTerms)
	seen := make(map[string]struct{})
	for _, token := range tokens {
		if len(token) <= 1 {
			continue
		}
		if _, stop := hubStopwords[token]; stop {
			continue
		}
		if _, allowed := hubAllowedShort[token]; len(token) <= 2 && !allowed {
			continue
		}
		if _, dup := seen[token]; dup {
			continue
		}
		seen[token] = struct{}{}
		filtered = append(filtered, token)
	}
	if len(filtered) == 0 {
		filtered = append(filtered, hubFallback...)
	} else {
		for _, term := range hubDomainTerms {
			if _, ok := seen[term]; !ok {
				filtered = append(filtered, term)
			}
		}
	}
	if len(filtered) > maxHubTerms {
		filtered = filtered[:maxHubTerms]
	}
	return strings.Join(filtered, " ")
}

// BenchmarkTerms keeps evaluation vocabulary of three characters or more and
// caps the result at five terms.
func BenchmarkTerms(query string) string {
	tokens := strings.Fields(stripPunctuation(normalize.Text(query), true))

	filtered := make([]string, 0, maxBenchmarkTerms)
	seen := make(map[string]struct{})
	for _, token := range tokens {
		if len(token) <= 2 {
			continue
		}
		if _, stop := benchmarkStopwords[token]; stop {
			continue
		}
		if _, dup := seen[token]; dup {
			continue
		}
		seen[token] = struct{}{}
		filtered = append(filtered, token)
	}
	if len(filtered) == 0 {
		return FallbackBenchmarkTerms
	}
	if len(filtered) > maxBenchmarkTerms {
		filtered = filtered[:maxBenchmarkTerms]
	}
	return strings.Join(filtered, " ")
}

// LongestTokens returns the n longest space-separated tokens of terms, longest
// first. Ties keep their original order.
func LongestTokens(terms string, n int) string {
	tokens := strings.Fields(terms)
	sort.SliceStable(tokens, func(i, j int) bool { return len(tokens[i]) > len(tokens[j]) })
	if len(tokens) > n {
		tokens = tokens[:n]
	}
	return strings.Join(tokens, " ")
}

// Narrow returns the single-retry terms for an empty hub or dataset result.
// ok is false when no different, shorter query exists.
func Narrow(terms string) (string, bool) {
	if len(strings.Fields(terms)) <= 1 {
		return "", false
	}
	narrowed := LongestTokens(terms, 2)
	if narrowed == "" || narrowed == terms {
		return "", false
	}
	return narrowed, true
}
