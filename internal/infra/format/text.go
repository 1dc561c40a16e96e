// Package format renders tool results as the French markdown blocks injected
// into the generator context.
package format

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/clipperhouse/uax29/sentences"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const ellipsis = "…"

var (
	whitespace      = regexp.MustCompile(`\s+`)
	nonAlphanumeric = regexp.MustCompile(`[^a-zA-Z0-9\s]`)
	numberPrinter   = message.NewPrinter(language.English)
)

var keywordStopwords = map[string]struct{}{
	"the": {}, "and": {}, "with": {}, "that": {}, "from": {}, "this": {}, "arxiv": {},
	"paper": {}, "study": {}, "approach": {}, "model": {}, "data": {}, "method": {},
	"for": {}, "using": {}, "into": {}, "onto": {}, "results": {}, "based": {},
	"analysis": {}, "show": {}, "shows": {}, "novel": {}, "present": {},
	"framework": {}, "task": {}, "new": {},
}

// Collapse replaces whitespace runs with one space and trims the ends.
func Collapse(text string) string {
	return strings.TrimSpace(whitespace.ReplaceAllString(text, " "))
}

// Clip cuts text to limit runes, keeping keep runes plus an ellipsis when it
// is longer.
func Clip(text string, limit, keep int) string {
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:keep]) + ellipsis
}

// Thousands formats n with comma grouping.
func Thousands(n int64) string {
	return numberPrinter.Sprintf("%d", n)
}

// TLDR keeps the first maxSentences sentences of an abstract.
func TLDR(summary string, maxSentences int) string {
	clean := Collapse(summary)
	if clean == "" {
		return "Résumé indisponible"
	}

	var extracted []string
	scanner := sentences.NewScanner(strings.NewReader(clean))
	for scanner.Scan() && len(extracted) < maxSentences {
		if sentence := strings.TrimSpace(scanner.Text()); sentence != "" {
			extracted = append(extracted, sentence)
		}
	}
	if len(extracted) == 0 {
		return Clip(clean, 180, 180)
	}
	return Clip(strings.Join(extracted, " "), 220, 217)
}

// Keywords ranks the most frequent non-stopword tokens of four letters or more.
// Ties keep first-seen order.
func Keywords(text string, limit int) []string {
	cleaned := nonAlphanumeric.ReplaceAllString(strings.ToLower(text), " ")
	counts := make(map[string]int)
	var order []string
	for _, token := range strings.Fields(cleaned) {
		if len(token) < 4 {
			continue
		}
		if _, stop := keywordStopwords[token]; stop {
			continue
		}
		if counts[token] == 0 {
			order = append(order, token)
		}
		counts[token]++
	}
	sort.SliceStable(order, func(i, j int) bool { return counts[order[i]] > counts[order[j]] })
	if len(order) > limit {
		order = order[:limit]
	}
	return order
}

// AgeInDays parses a YYYY-MM-DD prefix and returns whole days elapsed.
func AgeInDays(published string, now time.Time) (int, bool) {
	if len(published) < 10 {
		return 0, false
	}
	date, err := time.ParseInLocation("2006-01-02", published[:10], now.Location())
	if err != nil {
		return 0, false
	}
	hours := now.Sub(date).Hours()
	days := int(hours / 24)
	if hours < 0 && float64(days)*24 != hours {
		days--
	}
	return days, true
}

// Score renders an optional benchmark score, N/A when unknown.
func Score(value *float64) string {
	if value == nil {
		return "N/A"
	}
	if *value == float64(int64(*value)) {
		return strconv.FormatFloat(*value, 'f', 1, 64)
	}
	return strconv.FormatFloat(*value, 'f', -1, 64)
}

func joinAuthors(authors []string, shown int) string {
	if len(authors) <= shown {
		return strings.Join(authors, ", ")
	}
	return strings.Join(authors[:shown], ", ") + " et " + strconv.Itoa(len(authors)-shown) + " autres"
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}

func prefix(text string, n int) string {
	runes := []rune(text)
	if len(runes) <= n {
		return text
	}
	return string(runes[:n])
}
