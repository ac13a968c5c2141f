// Package search computes what the mirrored search API returns for one query.
package search

import (
	"github.com/kailas-cloud/searchstub/internal/domain/item"
	"github.com/kailas-cloud/searchstub/internal/domain/search/facet"
	"github.com/kailas-cloud/searchstub/internal/domain/search/filter"
	"github.com/kailas-cloud/searchstub/internal/domain/subject"
)

// Query is a keyword plus an optional any-of subject selection.
type Query struct {
	Keyword  string
	Subjects []string
}

// Result is the unpaginated answer to a Query.
type Result struct {
	// Total counts items passing both the keyword and the subject filter.
	Total int
	// Items are the matches, newest first.
	Items []item.Item
	// Facets are computed over keyword matches only.
	Facets facet.Facets
}

// Service runs queries against a corpus.
type Service struct {
	corpus Corpus
}

// New creates a search service over c.
func New(c Corpus) *Service {
	return &Service{corpus: c}
}

// Search filters by keyword, then by subjects, and aggregates facets over the keyword matches.
// history fixes which subjects appear in the subject facet, and in which order.
func (s *Service) Search(q Query, history []subject.Subject) Result {
	withKeyword := filter.Apply(s.corpus.Items(), filter.Keyword(q.Keyword))
	matched := filter.Apply(withKeyword, filter.AnySubject(q.Subjects))

	return Result{
		Total:  len(matched),
		Items:  matched,
		Facets: facet.Aggregate(withKeyword, s.corpus, history),
	}
}
