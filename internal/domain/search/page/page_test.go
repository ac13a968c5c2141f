package page

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/kailas-cloud/searchstub/internal/domain"
)

func seq(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = n - i
	}
	return out
}

func TestChunk(t *testing.T) {
	tests := []struct {
		name  string
		n     int
		size  int
		sizes []int
	}{
		{"empty", 0, ListingSize, []int{0}},
		{"single", 1, ListingSize, []int{1}},
		{"exact page", 6, ListingSize, []int{6}},
		{"one over", 7, ListingSize, []int{6, 1}},
		{"many", 20, ListingSize, []int{6, 6, 6, 2}},
		{"preview size", 3, PreviewSize, []int{1, 1, 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items := seq(tt.n)
			pages, err := Chunk(items, tt.size)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			got := make([]int, len(pages))
			var concat []int
			for i, p := range pages {
				got[i] = len(p)
				concat = append(concat, p...)
			}
			if diff := cmp.Diff(tt.sizes, got); diff != "" {
				t.Errorf("page sizes (-want +got):\n%s", diff)
			}
			if tt.n > 0 {
				if diff := cmp.Diff(items, concat); diff != "" {
					t.Errorf("concatenation differs from input (-want +got):\n%s", diff)
				}
			}
		})
	}
}

func TestChunk_EmptyPageIsNonNil(t *testing.T) {
	pages, _ := Chunk([]string(nil), ListingSize)
	if len(pages) != 1 || pages[0] == nil {
		t.Errorf("expected one empty non-nil page, got %#v", pages)
	}
}

func TestChunk_InvalidSize(t *testing.T) {
	for _, size := range []int{0, -6} {
		_, err := Chunk(seq(3), size)
		if !errors.Is(err, domain.ErrInvalidArgument) {
			t.Errorf("size %d: expected ErrInvalidArgument, got %v", size, err)
		}
	}
}

func TestChunk_DoesNotAlias(t *testing.T) {
	items := seq(7)
	pages, _ := Chunk(items, ListingSize)
	pages[0][0] = -1
	if items[0] != 7 {
		t.Error("page aliases input slice")
	}
}

func TestPreview(t *testing.T) {
	if got := Preview(seq(3)); len(got) != 1 || got[0] != 3 {
		t.Errorf("Preview = %v, want [3]", got)
	}
	got := Preview([]int{})
	if got == nil || len(got) != 0 {
		t.Errorf("Preview(empty) = %#v, want empty non-nil", got)
	}
}
