// Package item defines the synthetic content item served in search results.
package item

import (
	"fmt"
	"time"

	"github.com/kailas-cloud/searchstub/internal/domain"
	"github.com/kailas-cloud/searchstub/internal/domain/subject"
)

// IDWidth is the zero-padded width of an item identifier.
const IDWidth = 5

// DateFormat is the wire format of item dates.
const DateFormat = "2006-01-02T15:04:05Z"

// Metadata is passthrough data copied verbatim into payloads.
// It never takes part in filtering or aggregation.
type Metadata struct {
	Status     string
	Stage      string
	Version    int
	DOIPrefix  string
	Volume     int
	Published  string
	License    string
	Holder     string
	Statement  string
	AuthorLine string
}

// DefaultMetadata returns the metadata shared by every enumerated item.
func DefaultMetadata(published time.Time) Metadata {
	return Metadata{
		Status:     "poa",
		Stage:      "published",
		Version:    1,
		DOIPrefix:  "10.7554/eLife.",
		Volume:     5,
		Published:  published.UTC().Format(DateFormat),
		License:    "CC-BY-4.0",
		Holder:     "Author et al",
		Statement:  "Creative Commons Attribution License.",
		AuthorLine: "Foo Bar",
	}
}

// PreviewMetadata returns the metadata of the fixed item used by the reading step.
func PreviewMetadata(published time.Time) Metadata {
	return Metadata{
		Status:    "poa",
		Stage:     "published",
		Version:   1,
		DOIPrefix: "10.7554/eLife.",
		Volume:    1,
		Published: published.UTC().Format(DateFormat),
		License:   "CC0-1.0",
		Statement: "Copyright statement.",
	}
}

// Item is one synthetic search result (immutable value object).
type Item struct {
	sequence    int
	title       string
	contentType ContentType
	subjects    []subject.Subject
	meta        Metadata
}

// New validates and creates an enumerated item titled after the keyword.
func New(sequence int, keyword string, t ContentType, subjects []subject.Subject, meta Metadata) (Item, error) {
	if sequence <= 0 {
		return Item{}, domain.NewInvalidArgument("sequence", fmt.Sprintf("must be positive, got %d", sequence))
	}
	if !t.IsValid() {
		return Item{}, domain.NewInvalidArgument("type", t.String()+" is not in the taxonomy")
	}
	return Reconstruct(sequence, Title(sequence, keyword), t, subjects, meta), nil
}

// Reconstruct creates an Item with an explicit title and no validation.
func Reconstruct(sequence int, title string, t ContentType, subjects []subject.Subject, meta Metadata) Item {
	return Item{
		sequence:    sequence,
		title:       title,
		contentType: t,
		subjects:    append([]subject.Subject(nil), subjects...),
		meta:        meta,
	}
}

// FormatID renders a sequence number as a zero-padded identifier.
func FormatID(sequence int) string {
	return fmt.Sprintf("%0*d", IDWidth, sequence)
}

// Title builds the title of an enumerated item. The keyword suffix is what keyword filters match.
func Title(sequence int, keyword string) string {
	return fmt.Sprintf("Item %s title: %s", FormatID(sequence), keyword)
}

// Sequence returns the ordering key.
func (i Item) Sequence() int { return i.sequence }

// ID returns the zero-padded external identifier.
func (i Item) ID() string { return FormatID(i.sequence) }

// Title returns the item title.
func (i Item) Title() string { return i.title }

// Type returns the content type.
func (i Item) Type() ContentType { return i.contentType }

// Subjects returns a copy of the subject tags.
func (i Item) Subjects() []subject.Subject {
	return append([]subject.Subject(nil), i.subjects...)
}

// Metadata returns the passthrough metadata.
func (i Item) Metadata() Metadata { return i.meta }

// DOI returns the item DOI.
func (i Item) DOI() string { return i.meta.DOIPrefix + i.ID() }

// ElocationID returns the electronic location identifier.
func (i Item) ElocationID() string { return "e" + i.ID() }

// HasSubject reports whether the item is tagged with the named subject.
func (i Item) HasSubject(name string) bool {
	for _, s := range i.subjects {
		if s.Name() == name {
			return true
		}
	}
	return false
}
