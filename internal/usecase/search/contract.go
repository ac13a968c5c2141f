package search

import (
	"github.com/kailas-cloud/searchstub/internal/domain/item"
	"github.com/kailas-cloud/searchstub/internal/domain/search/facet"
)

// Corpus is the read side of a scenario corpus.
type Corpus interface {
	facet.Postings
	Items() []item.Item
}
