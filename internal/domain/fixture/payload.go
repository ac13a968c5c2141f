package fixture

import (
	"github.com/kailas-cloud/searchstub/internal/domain/item"
	"github.com/kailas-cloud/searchstub/internal/domain/search/facet"
	"github.com/kailas-cloud/searchstub/internal/domain/subject"
)

// SubjectRef is a subject as embedded in an item payload.
type SubjectRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Copyright is the licensing block of an item payload.
type Copyright struct {
	License   string `json:"license"`
	Holder    string `json:"holder,omitempty"`
	Statement string `json:"statement"`
}

// ItemPayload is the wire form of a content item.
type ItemPayload struct {
	Status      string           `json:"status"`
	Stage       string           `json:"stage"`
	ID          string           `json:"id"`
	Version     int              `json:"version"`
	Type        item.ContentType `json:"type"`
	DOI         string           `json:"doi"`
	Title       string           `json:"title"`
	Published   string           `json:"published"`
	VersionDate string           `json:"versionDate"`
	StatusDate  string           `json:"statusDate"`
	Volume      int              `json:"volume"`
	ElocationID string           `json:"elocationId"`
	Copyright   Copyright        `json:"copyright"`
	AuthorLine  string           `json:"authorLine,omitempty"`
	Subjects    []SubjectRef     `json:"subjects,omitempty"`
}

// SearchPayload is the body of a search response.
type SearchPayload struct {
	Total    int                  `json:"total"`
	Items    []ItemPayload        `json:"items"`
	Subjects []facet.SubjectCount `json:"subjects"`
	Types    facet.TypeCounts     `json:"types"`
}

// HistoryPayload is the body of a version history response.
type HistoryPayload struct {
	Versions []ItemPayload `json:"versions"`
}

// NewItemPayload maps an item to its wire form.
func NewItemPayload(it item.Item) ItemPayload {
	m := it.Metadata()
	return ItemPayload{
		Status:      m.Status,
		Stage:       m.Stage,
		ID:          it.ID(),
		Version:     m.Version,
		Type:        it.Type(),
		DOI:         it.DOI(),
		Title:       it.Title(),
		Published:   m.Published,
		VersionDate: m.Published,
		StatusDate:  m.Published,
		Volume:      m.Volume,
		ElocationID: it.ElocationID(),
		Copyright: Copyright{
			License:   m.License,
			Holder:    m.Holder,
			Statement: m.Statement,
		},
		AuthorLine: m.AuthorLine,
		Subjects:   subjectRefs(it.Subjects()),
	}
}

// NewItemPayloads maps items in order. The result is never nil.
func NewItemPayloads(items []item.Item) []ItemPayload {
	out := make([]ItemPayload, len(items))
	for i, it := range items {
		out[i] = NewItemPayload(it)
	}
	return out
}

// NewSearchPayload assembles a search body from a page of items and facets.
func NewSearchPayload(total int, pageItems []item.Item, f facet.Facets) SearchPayload {
	subjects := f.Subjects
	if subjects == nil {
		subjects = []facet.SubjectCount{}
	}
	return SearchPayload{
		Total:    total,
		Items:    NewItemPayloads(pageItems),
		Subjects: subjects,
		Types:    f.Types,
	}
}

func subjectRefs(subjects []subject.Subject) []SubjectRef {
	if len(subjects) == 0 {
		return nil
	}
	out := make([]SubjectRef, len(subjects))
	for i, s := range subjects {
		out[i] = SubjectRef{ID: s.ID(), Name: s.Name()}
	}
	return out
}
