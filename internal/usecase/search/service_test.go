package search

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/kailas-cloud/searchstub/internal/domain/corpus"
	"github.com/kailas-cloud/searchstub/internal/domain/item"
	"github.com/kailas-cloud/searchstub/internal/domain/subject"
)

func newCorpus(t *testing.T) (*corpus.Corpus, []subject.Subject) {
	t.Helper()
	c := corpus.New(time.Date(2010, 1, 1, 0, 0, 0, 0, time.UTC))
	bio, _ := subject.New("Biophysics")
	neuro, _ := subject.New("Neuroscience")
	steps := []struct {
		n   int
		kw  string
		sub *subject.Subject
	}{
		{3, "cell", &bio},
		{2, "cell", nil},
		{2, "cell", &neuro},
		{1, "brain", &neuro},
	}
	for _, s := range steps {
		if err := c.AddItems(s.n, s.kw, s.sub); err != nil {
			t.Fatalf("AddItems: %v", err)
		}
	}
	return c, []subject.Subject{bio, neuro}
}

func itemIDs(items []item.Item) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.ID()
	}
	return out
}

func TestSearch_TotalUsesSubjectFilter(t *testing.T) {
	c, hist := newCorpus(t)
	svc := New(c)

	tests := []struct {
		name     string
		q        Query
		wantIDs  []string
		wantBio  int
		wantNeur int
	}{
		{
			"keyword only", Query{Keyword: "cell"},
			[]string{"00007", "00006", "00005", "00004", "00003", "00002", "00001"}, 3, 2,
		},
		{
			"keyword + Biophysics", Query{Keyword: "cell", Subjects: []string{"Biophysics"}},
			[]string{"00003", "00002", "00001"}, 3, 2,
		},
		{
			"keyword + both", Query{Keyword: "cell", Subjects: []string{"Biophysics", "Neuroscience"}},
			[]string{"00007", "00006", "00003", "00002", "00001"}, 3, 2,
		},
		{
			"browse Neuroscience", Query{Subjects: []string{"Neuroscience"}},
			[]string{"00008", "00007", "00006"}, 3, 3,
		},
		{
			"no match", Query{Keyword: "liver"},
			[]string{}, 0, 0,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := svc.Search(tt.q, hist)
			if r.Total != len(tt.wantIDs) {
				t.Errorf("Total = %d, want %d", r.Total, len(tt.wantIDs))
			}
			if diff := cmp.Diff(tt.wantIDs, itemIDs(r.Items)); diff != "" {
				t.Errorf("items (-want +got):\n%s", diff)
			}
			if r.Facets.Subjects[0].Results != tt.wantBio || r.Facets.Subjects[1].Results != tt.wantNeur {
				t.Errorf("subject facets = %+v", r.Facets.Subjects)
			}
		})
	}
}

func TestSearch_FacetsIgnoreSubjectSelection(t *testing.T) {
	c, hist := newCorpus(t)
	svc := New(c)

	base := svc.Search(Query{Keyword: "cell"}, hist).Facets
	for _, subs := range [][]string{{"Biophysics"}, {"Neuroscience"}, {"Biophysics", "Neuroscience"}} {
		got := svc.Search(Query{Keyword: "cell", Subjects: subs}, hist).Facets
		if diff := cmp.Diff(base, got); diff != "" {
			t.Errorf("facets changed under %v (-want +got):\n%s", subs, diff)
		}
	}
}
