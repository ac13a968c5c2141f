package searchstub

import (
	"github.com/kailas-cloud/searchstub/internal/domain/fixture"
	"github.com/kailas-cloud/searchstub/internal/domain/item"
	"github.com/kailas-cloud/searchstub/internal/domain/subject"
	"github.com/kailas-cloud/searchstub/internal/usecase/search"
)

// Media types of the mirrored API.
const (
	MediaTypeSearch         = fixture.MediaTypeSearch
	MediaTypeArticlePoA     = fixture.MediaTypeArticlePoA
	MediaTypeArticleVoR     = fixture.MediaTypeArticleVoR
	MediaTypeArticleHistory = fixture.MediaTypeArticleHistory
)

// Request identifies an API call: method, URL and the accepted media types in order.
type Request struct {
	Method string
	URL    string
	Accept []string
}

// Fixture is a registered request and its canned response.
type Fixture struct {
	Request     Request
	Status      int
	ContentType string
	Body        []byte
}

// Item is a synthetic content item.
type Item struct {
	ID       string
	Title    string
	Type     string
	Subjects []string
}

// SubjectCount is the number of matching items tagged with a subject.
type SubjectCount struct {
	ID      string
	Name    string
	Results int
}

// SearchResult is the unpaginated answer the registered fixtures encode for one query.
type SearchResult struct {
	Total    int
	Items    []Item
	Subjects []SubjectCount
	// Types has an entry for every content type, zero counts included.
	Types map[string]int
}

// SubjectID returns the identifier the mirrored API uses for a subject name.
func SubjectID(name string) string {
	return subject.Identify(name)
}

func requestToDomain(r Request) fixture.Request {
	return fixture.Request{Method: r.Method, URL: r.URL, Accept: r.Accept}
}

func fixtureFromDomain(f fixture.Fixture) Fixture {
	return Fixture{
		Request:     Request{Method: f.Request.Method, URL: f.Request.URL, Accept: f.Request.Accept},
		Status:      f.Response.Status,
		ContentType: f.Response.ContentType,
		Body:        f.Response.Body,
	}
}

func resultFromDomain(r search.Result) SearchResult {
	out := SearchResult{
		Total:    r.Total,
		Items:    make([]Item, len(r.Items)),
		Subjects: make([]SubjectCount, len(r.Facets.Subjects)),
		Types:    make(map[string]int, item.NumTypes),
	}
	for i, it := range r.Items {
		out.Items[i] = Item{
			ID:       it.ID(),
			Title:    it.Title(),
			Type:     it.Type().String(),
			Subjects: subject.Names(it.Subjects()),
		}
	}
	for i, sc := range r.Facets.Subjects {
		out.Subjects[i] = SubjectCount{ID: sc.ID, Name: sc.Name, Results: sc.Results}
	}
	for _, t := range item.AllTypes() {
		out.Types[t.String()] = r.Facets.Types.Get(t)
	}
	return out
}
