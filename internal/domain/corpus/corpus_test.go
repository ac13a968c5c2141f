package corpus

import (
	"errors"
	"testing"
	"time"

	"github.com/kailas-cloud/searchstub/internal/domain"
	"github.com/kailas-cloud/searchstub/internal/domain/item"
	"github.com/kailas-cloud/searchstub/internal/domain/subject"
)

var testDate = time.Date(2010, 1, 1, 0, 0, 0, 0, time.UTC)

func ids(items []item.Item) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.ID()
	}
	return out
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestAddItems_NewestFirst(t *testing.T) {
	c := New(testDate)
	bio, _ := subject.New("Biophysics")

	if err := c.AddItems(3, "cell", &bio); err != nil {
		t.Fatalf("AddItems: %v", err)
	}
	if err := c.AddItems(2, "cell", nil); err != nil {
		t.Fatalf("AddItems: %v", err)
	}

	if c.Len() != 5 {
		t.Fatalf("Len() = %d, want 5", c.Len())
	}
	got := ids(c.Items())
	want := []string{"00005", "00004", "00003", "00002", "00001"}
	if !equalStrings(got, want) {
		t.Errorf("order = %v, want %v", got, want)
	}

	items := c.Items()
	for _, it := range items[:2] {
		if len(it.Subjects()) != 0 {
			t.Errorf("item %s should be untagged", it.ID())
		}
	}
	for _, it := range items[2:] {
		if !it.HasSubject("Biophysics") {
			t.Errorf("item %s should be tagged Biophysics", it.ID())
		}
	}
}

func TestAddItems_SequenceContinues(t *testing.T) {
	c := New(testDate)
	_ = c.AddItems(1, "a", nil)
	_ = c.AddItems(1, "b", nil)
	_ = c.AddItems(1, "c", nil)

	items := c.Items()
	if items[0].Title() != "Item 00003 title: c" {
		t.Errorf("newest title = %q", items[0].Title())
	}
	if items[2].Title() != "Item 00001 title: a" {
		t.Errorf("oldest title = %q", items[2].Title())
	}
}

func TestAddItems_InvalidCount(t *testing.T) {
	c := New(testDate)
	for _, n := range []int{0, -3} {
		err := c.AddItems(n, "x", nil)
		if !errors.Is(err, domain.ErrInvalidArgument) {
			t.Errorf("count %d: expected ErrInvalidArgument, got %v", n, err)
		}
	}
	if c.Len() != 0 {
		t.Errorf("rejected call mutated corpus: Len() = %d", c.Len())
	}
}

func TestItems_ReturnsCopy(t *testing.T) {
	c := New(testDate)
	_ = c.AddItems(2, "x", nil)
	items := c.Items()
	items[0] = item.Item{}
	if c.Items()[0].ID() != "00002" {
		t.Error("Items() leaks internal slice")
	}
}

func TestGet(t *testing.T) {
	c := New(testDate)
	_ = c.AddItems(2, "x", nil)

	it, err := c.Get("00001")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if it.Title() != "Item 00001 title: x" {
		t.Errorf("Title() = %q", it.Title())
	}
	if _, err := c.Get("00009"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestPostings(t *testing.T) {
	c := New(testDate)
	bio, _ := subject.New("Biophysics")
	_ = c.AddItems(3, "cell", &bio)
	_ = c.AddItems(2, "cell", nil)

	if got := c.TypePosting(item.ResearchArticle).GetCardinality(); got != 5 {
		t.Errorf("research-article posting = %d, want 5", got)
	}
	if got := c.TypePosting(item.Editorial).GetCardinality(); got != 0 {
		t.Errorf("editorial posting = %d, want 0", got)
	}
	bm := c.SubjectPosting("Biophysics")
	if bm.GetCardinality() != 3 || !bm.Contains(1) || !bm.Contains(3) || bm.Contains(4) {
		t.Errorf("Biophysics posting = %v", bm.ToArray())
	}
	if c.SubjectPosting("Unknown").GetCardinality() != 0 {
		t.Error("unknown subject posting should be empty")
	}
	if c.TypePosting(item.ContentType(99)).GetCardinality() != 0 {
		t.Error("invalid type posting should be empty")
	}
}
