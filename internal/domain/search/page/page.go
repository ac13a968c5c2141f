// Package page splits ordered result subsets into fixed-size pages.
package page

import (
	"fmt"

	"github.com/kailas-cloud/searchstub/internal/domain"
)

// Page sizes requested by the search UI.
const (
	// ListingSize is the page size of the full result listing.
	ListingSize = 6
	// PreviewSize is the page size of the first-result preview call.
	PreviewSize = 1
)

// Chunk splits items into consecutive pages of at most size items.
// An empty input yields exactly one empty page so page 1 always exists.
func Chunk[T any](items []T, size int) ([][]T, error) {
	if size <= 0 {
		return nil, domain.NewInvalidArgument("page size", fmt.Sprintf("must be positive, got %d", size))
	}
	if len(items) == 0 {
		return [][]T{{}}, nil
	}

	pages := make([][]T, 0, (len(items)+size-1)/size)
	for start := 0; start < len(items); start += size {
		end := min(start+size, len(items))
		pages = append(pages, append([]T(nil), items[start:end]...))
	}
	return pages, nil
}

// Preview returns the first item alone, or an empty page when there are none.
func Preview[T any](items []T) []T {
	if len(items) == 0 {
		return []T{}
	}
	return []T{items[0]}
}
