// Package facet computes per-type and per-subject result counts.
//
// Counts are always taken over the keyword-matched set, independent of any subject
// selection, so a client can show what each other facet value would yield.
package facet

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/kailas-cloud/searchstub/internal/domain/item"
	"github.com/kailas-cloud/searchstub/internal/domain/subject"
)

// Postings exposes the corpus inverted index used for counting.
type Postings interface {
	TypePosting(t item.ContentType) *roaring.Bitmap
	SubjectPosting(name string) *roaring.Bitmap
}

// TypeCounts is an exhaustive count per taxonomy value.
type TypeCounts [item.NumTypes]int

// Get returns the count for t.
func (c TypeCounts) Get(t item.ContentType) int {
	if !t.IsValid() {
		return 0
	}
	return c[t]
}

// Total returns the sum over all types.
func (c TypeCounts) Total() int {
	n := 0
	for _, v := range c {
		n += v
	}
	return n
}

// MarshalJSON emits every type, zeros included, in taxonomy order.
func (c TypeCounts) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, v := range c {
		if i > 0 {
			buf.WriteByte(',')
		}
		fmt.Fprintf(&buf, "%q:%d", item.ContentType(i).String(), v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads counts keyed by type name. Unknown names are rejected.
func (c *TypeCounts) UnmarshalJSON(b []byte) error {
	var raw map[string]int
	if err := json.Unmarshal(b, &raw); err != nil {
		return fmt.Errorf("decode type counts: %w", err)
	}
	var out TypeCounts
	for name, v := range raw {
		t, err := item.ParseType(name)
		if err != nil {
			return err
		}
		out[t] = v
	}
	*c = out
	return nil
}

// SubjectCount is the number of matched items tagged with one subject.
type SubjectCount struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Results int    `json:"results"`
}

// Facets bundles both facet dimensions.
type Facets struct {
	Types    TypeCounts
	Subjects []SubjectCount
}

// Aggregate counts the keyword-matched items per type and per subject of history.
// Subjects are reported in history order.
func Aggregate(matched []item.Item, postings Postings, history []subject.Subject) Facets {
	set := roaring.New()
	for _, it := range matched {
		set.Add(uint32(it.Sequence())) //nolint:gosec // sequences are positive
	}

	return Facets{
		Types:    typeCounts(set, postings),
		Subjects: subjectCounts(set, postings, history),
	}
}

func typeCounts(set *roaring.Bitmap, postings Postings) TypeCounts {
	var out TypeCounts
	for _, t := range item.AllTypes() {
		out[t] = int(set.AndCardinality(postings.TypePosting(t))) //nolint:gosec // bounded by corpus size
	}
	return out
}

func subjectCounts(set *roaring.Bitmap, postings Postings, history []subject.Subject) []SubjectCount {
	out := make([]SubjectCount, len(history))
	for i, s := range history {
		out[i] = SubjectCount{
			ID:      s.ID(),
			Name:    s.Name(),
			Results: int(set.AndCardinality(postings.SubjectPosting(s.Name()))), //nolint:gosec // bounded
		}
	}
	return out
}
