// Package filter holds the item predicates used to derive result subsets.
package filter

import (
	"strings"

	"github.com/kailas-cloud/searchstub/internal/domain/item"
)

// Predicate reports whether an item belongs to a subset.
type Predicate func(item.Item) bool

// MatchesKeyword reports whether the title ends with keyword. An empty keyword matches everything.
func MatchesKeyword(it item.Item, keyword string) bool {
	return keyword == "" || strings.HasSuffix(it.Title(), keyword)
}

// MatchesType reports whether the item is of type t.
func MatchesType(it item.Item, t item.ContentType) bool {
	return it.Type() == t
}

// MatchesAnySubject reports whether the item carries any of the named subjects.
// An empty name set applies no filter.
func MatchesAnySubject(it item.Item, names []string) bool {
	if len(names) == 0 {
		return true
	}
	for _, n := range names {
		if it.HasSubject(n) {
			return true
		}
	}
	return false
}

// Keyword returns a predicate for MatchesKeyword.
func Keyword(keyword string) Predicate {
	return func(it item.Item) bool { return MatchesKeyword(it, keyword) }
}

// Type returns a predicate for MatchesType.
func Type(t item.ContentType) Predicate {
	return func(it item.Item) bool { return MatchesType(it, t) }
}

// AnySubject returns a predicate for MatchesAnySubject.
func AnySubject(names []string) Predicate {
	return func(it item.Item) bool { return MatchesAnySubject(it, names) }
}

// Apply returns the items matching every predicate, in their original order.
// The input slice is never modified and the result never aliases it.
func Apply(items []item.Item, preds ...Predicate) []item.Item {
	out := make([]item.Item, 0, len(items))
next:
	for _, it := range items {
		for _, p := range preds {
			if !p(it) {
				continue next
			}
		}
		out = append(out, it)
	}
	return out
}
