// Package corpus holds the ordered collection of synthetic items a scenario builds up.
package corpus

import (
	"fmt"
	"time"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/kailas-cloud/searchstub/internal/domain"
	"github.com/kailas-cloud/searchstub/internal/domain/item"
	"github.com/kailas-cloud/searchstub/internal/domain/subject"
)

// Corpus is an append-only, newest-first item collection with facet postings.
// Items are never removed. Not safe for concurrent use.
type Corpus struct {
	items     []item.Item // newest first
	byType    [item.NumTypes]*roaring.Bitmap
	bySubject map[string]*roaring.Bitmap
	meta      item.Metadata
}

// New creates an empty corpus whose items carry metadata dated at published.
func New(published time.Time) *Corpus {
	c := &Corpus{
		bySubject: make(map[string]*roaring.Bitmap),
		meta:      item.DefaultMetadata(published),
	}
	for i := range c.byType {
		c.byType[i] = roaring.New()
	}
	return c
}

// AddItems creates count items about keyword, tagged with subj when non-nil,
// and places them ahead of all existing items. Sequence numbers continue from the current size.
func (c *Corpus) AddItems(count int, keyword string, subj *subject.Subject) error {
	if count <= 0 {
		return domain.NewInvalidArgument("count", fmt.Sprintf("must be positive, got %d", count))
	}

	var subjects []subject.Subject
	if subj != nil {
		subjects = []subject.Subject{*subj}
	}

	first := len(c.items) + 1
	added := make([]item.Item, 0, count)
	for seq := first + count - 1; seq >= first; seq-- {
		it, err := item.New(seq, keyword, item.DefaultType, subjects, c.meta)
		if err != nil {
			return fmt.Errorf("create item %d: %w", seq, err)
		}
		added = append(added, it)
		c.index(it)
	}

	c.items = append(added, c.items...)
	return nil
}

func (c *Corpus) index(it item.Item) {
	seq := uint32(it.Sequence()) //nolint:gosec // sequences are positive and dense
	c.byType[it.Type()].Add(seq)
	for _, s := range it.Subjects() {
		bm, ok := c.bySubject[s.Name()]
		if !ok {
			bm = roaring.New()
			c.bySubject[s.Name()] = bm
		}
		bm.Add(seq)
	}
}

// Len returns the number of items.
func (c *Corpus) Len() int { return len(c.items) }

// Items returns a copy of all items, newest first.
func (c *Corpus) Items() []item.Item {
	return append([]item.Item(nil), c.items...)
}

// Get returns the item with the given zero-padded identifier.
func (c *Corpus) Get(id string) (item.Item, error) {
	for _, it := range c.items {
		if it.ID() == id {
			return it, nil
		}
	}
	return item.Item{}, fmt.Errorf("item %s: %w", id, domain.ErrNotFound)
}

// TypePosting returns the sequences of items of type t. The bitmap must not be modified.
func (c *Corpus) TypePosting(t item.ContentType) *roaring.Bitmap {
	if !t.IsValid() {
		return roaring.New()
	}
	return c.byType[t]
}

// SubjectPosting returns the sequences of items tagged with name. The bitmap must not be modified.
func (c *Corpus) SubjectPosting(name string) *roaring.Bitmap {
	if bm, ok := c.bySubject[name]; ok {
		return bm
	}
	return roaring.New()
}
