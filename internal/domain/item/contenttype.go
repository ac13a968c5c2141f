package item

import "fmt"

// ContentType is one value of the closed content type taxonomy.
type ContentType int

// Taxonomy values, in the order the search API reports them.
const (
	Correction ContentType = iota
	Editorial
	Feature
	Insight
	ResearchAdvance
	ResearchArticle
	ResearchExchange
	Retraction
	RegisteredReport
	ReplicationStudy
	ShortReport
	ToolsResources
	BlogArticle
	Collection
	Event
	Interview
	LabsExperiment
	PodcastEpisode

	// NumTypes is the size of the taxonomy.
	NumTypes int = iota
)

// DefaultType is the type given to every synthetic item.
const DefaultType = ResearchArticle

var typeNames = [NumTypes]string{
	Correction:       "correction",
	Editorial:        "editorial",
	Feature:          "feature",
	Insight:          "insight",
	ResearchAdvance:  "research-advance",
	ResearchArticle:  "research-article",
	ResearchExchange: "research-exchange",
	Retraction:       "retraction",
	RegisteredReport: "registered-report",
	ReplicationStudy: "replication-study",
	ShortReport:      "short-report",
	ToolsResources:   "tools-resources",
	BlogArticle:      "blog-article",
	Collection:       "collection",
	Event:            "event",
	Interview:        "interview",
	LabsExperiment:   "labs-experiment",
	PodcastEpisode:   "podcast-episode",
}

// AllTypes returns the full taxonomy in API order.
func AllTypes() []ContentType {
	out := make([]ContentType, NumTypes)
	for i := range out {
		out[i] = ContentType(i)
	}
	return out
}

// IsValid reports whether t belongs to the taxonomy.
func (t ContentType) IsValid() bool {
	return t >= 0 && int(t) < NumTypes
}

// String returns the wire name of the type.
func (t ContentType) String() string {
	if !t.IsValid() {
		return fmt.Sprintf("ContentType(%d)", int(t))
	}
	return typeNames[t]
}

// ParseType resolves a wire name to a ContentType.
func ParseType(s string) (ContentType, error) {
	for i, n := range typeNames {
		if n == s {
			return ContentType(i), nil
		}
	}
	return 0, fmt.Errorf("unknown content type %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (t ContentType) MarshalText() ([]byte, error) {
	if !t.IsValid() {
		return nil, fmt.Errorf("invalid content type %d", int(t))
	}
	return []byte(typeNames[t]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *ContentType) UnmarshalText(b []byte) error {
	v, err := ParseType(string(b))
	if err != nil {
		return err
	}
	*t = v
	return nil
}
