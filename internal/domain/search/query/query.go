// Package query enumerates the query combinations a search UI can issue.
package query

import (
	"slices"
	"strings"

	"github.com/kailas-cloud/searchstub/internal/domain/subject"
)

// Group is a subject filter selection (value object). Members keep history order.
type Group struct {
	members []subject.Subject
	key     string
}

// NewGroup creates a group from subjects. Duplicate names collapse to the first occurrence.
func NewGroup(members ...subject.Subject) Group {
	seen := make(map[string]struct{}, len(members))
	kept := make([]subject.Subject, 0, len(members))
	for _, m := range members {
		if _, ok := seen[m.Name()]; ok {
			continue
		}
		seen[m.Name()] = struct{}{}
		kept = append(kept, m)
	}

	names := subject.Names(kept)
	slices.Sort(names)
	return Group{members: kept, key: strings.Join(names, "\x1f")}
}

// Key identifies the member set; two groups with the same members share a key regardless of order.
func (g Group) Key() string { return g.key }

// Members returns the subjects in insertion order.
func (g Group) Members() []subject.Subject {
	return append([]subject.Subject(nil), g.members...)
}

// Names returns member names in insertion order.
func (g Group) Names() []string { return subject.Names(g.members) }

// IDs returns member identifiers in insertion order.
func (g Group) IDs() []string { return subject.IDs(g.members) }

// IsEmpty reports whether the group applies no subject filter.
func (g Group) IsEmpty() bool { return len(g.members) == 0 }

// Len returns the number of members.
func (g Group) Len() int { return len(g.members) }

// GroupSet is an insertion-ordered set of groups deduplicated by Key.
type GroupSet struct {
	groups []Group
	index  map[string]struct{}
}

// NewGroupSet creates an empty set.
func NewGroupSet() *GroupSet {
	return &GroupSet{index: make(map[string]struct{})}
}

// Add inserts g unless an equal group is present. Reports whether g was added.
func (s *GroupSet) Add(g Group) bool {
	if _, ok := s.index[g.Key()]; ok {
		return false
	}
	s.index[g.Key()] = struct{}{}
	s.groups = append(s.groups, g)
	return true
}

// Contains reports whether an equal group is present.
func (s *GroupSet) Contains(g Group) bool {
	_, ok := s.index[g.Key()]
	return ok
}

// Len returns the number of distinct groups.
func (s *GroupSet) Len() int { return len(s.groups) }

// Groups returns the groups in insertion order.
func (s *GroupSet) Groups() []Group {
	return append([]Group(nil), s.groups...)
}

// Groups derives the selections for a subject history: no filter, every subject,
// then each subject on its own.
func Groups(history []subject.Subject) []Group {
	set := NewGroupSet()
	set.Add(NewGroup())
	set.Add(NewGroup(history...))
	for _, s := range history {
		set.Add(NewGroup(s))
	}
	return set.Groups()
}

// KeywordVariants returns the browse entry point ("") and the typed keyword.
func KeywordVariants(keyword string) []string {
	if keyword == "" {
		return []string{""}
	}
	return []string{"", keyword}
}

// Combination is one keyword variant paired with one subject selection.
type Combination struct {
	Keyword string
	Group   Group
}

// Combinations returns KeywordVariants × Groups, keyword-major.
func Combinations(keyword string, history []subject.Subject) []Combination {
	groups := Groups(history)
	variants := KeywordVariants(keyword)

	out := make([]Combination, 0, len(variants)*len(groups))
	for _, kw := range variants {
		for _, g := range groups {
			out = append(out, Combination{Keyword: kw, Group: g})
		}
	}
	return out
}
