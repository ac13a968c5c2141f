// Package subject holds the topical tag (MSA) attached to synthetic content.
package subject

import (
	"crypto/md5" //nolint:gosec // content-derived identifier, not a security boundary
	"encoding/hex"

	"github.com/kailas-cloud/searchstub/internal/domain"
)

// IDLength is the length of an identifier produced by Identify.
const IDLength = md5.Size * 2

// Identify maps a subject name to its stable external identifier (hex MD5 of the name).
func Identify(name string) string {
	sum := md5.Sum([]byte(name)) //nolint:gosec // see import
	return hex.EncodeToString(sum[:])
}

// Subject is a named topical tag with its derived identifier (value object).
type Subject struct {
	id   string
	name string
}

// New validates the name and derives the identifier.
func New(name string) (Subject, error) {
	if name == "" {
		return Subject{}, domain.NewInvalidArgument("subject", "name is required")
	}
	return Subject{id: Identify(name), name: name}, nil
}

// Reconstruct creates a Subject without validation (storage hydration).
func Reconstruct(id, name string) Subject {
	return Subject{id: id, name: name}
}

// ID returns the hashed identifier.
func (s Subject) ID() string { return s.id }

// Name returns the display name.
func (s Subject) Name() string { return s.name }

// Names returns the display names of subjects, preserving order.
func Names(subjects []Subject) []string {
	out := make([]string, len(subjects))
	for i, s := range subjects {
		out[i] = s.name
	}
	return out
}

// IDs returns the identifiers of subjects, preserving order.
func IDs(subjects []Subject) []string {
	out := make([]string, len(subjects))
	for i, s := range subjects {
		out[i] = s.id
	}
	return out
}
