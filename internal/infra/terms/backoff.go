package terms

import (
	"context"
	"strings"
)

// Attempt queries a remote source with the given terms.
type Attempt[T any] func(ctx context.Context, terms []string) ([]T, error)

// BackoffResult reports the outcome of a Backoff run.
type BackoffResult[T any] struct {
	Items    []T
	Terms    []string
	Attempts int
}

// Backoff runs attempt with the full term list, then drops the last term
// after every empty answer until results arrive or the empty list has been
// tried. Each combination is attempted at most once. Errors count as empty.
func Backoff[T any](ctx context.Context, terms []string, attempt Attempt[T]) BackoffResult[T] {
	current := append([]string(nil), terms...)
	tried := make(map[string]struct{}, len(terms)+1)
	var result BackoffResult[T]

	for {
		key := strings.Join(current, "\x00")
		if _, seen := tried[key]; seen {
			break
		}
		tried[key] = struct{}{}
		if ctx.Err() != nil {
			break
		}

		result.Attempts++
		items, err := attempt(ctx, current)
		if err == nil && len(items) > 0 {
			result.Items = items
			result.Terms = current
			return result
		}
		if len(current) == 0 {
			break
		}
		current = current[:len(current)-1]
	}
	result.Terms = current
	return result
}
