package scenario

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/kailas-cloud/searchstub/internal/domain"
)

// Plan is a scripted sequence of scenario steps, usually read from YAML:
//
//	steps:
//	  - items: {count: 3, keyword: cell, subject: Biophysics}
//	  - items: {count: 2, keyword: cell}
//	  - reading: {subjects: [Biophysics, Neuroscience]}
type Plan struct {
	Steps []Step `yaml:"steps"`
}

// Step holds exactly one of the supported step kinds.
type Step struct {
	Items   *ItemsStep   `yaml:"items,omitempty"`
	Reading *ReadingStep `yaml:"reading,omitempty"`
}

// ItemsStep is "count items about keyword [with subject]".
type ItemsStep struct {
	Count   int    `yaml:"count"`
	Keyword string `yaml:"keyword"`
	Subject string `yaml:"subject,omitempty"`
}

// ReadingStep is "reading an item with subjects".
type ReadingStep struct {
	Subjects []string `yaml:"subjects"`
}

// ParsePlan decodes and validates a YAML plan.
func ParsePlan(data []byte) (Plan, error) {
	var p Plan
	if err := yaml.Unmarshal(data, &p); err != nil {
		return Plan{}, fmt.Errorf("parse plan: %w", err)
	}
	if err := p.Validate(); err != nil {
		return Plan{}, err
	}
	return p, nil
}

// LoadPlan reads a plan file.
func LoadPlan(path string) (Plan, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return Plan{}, fmt.Errorf("read plan %s: %w", path, err)
	}
	return ParsePlan(data)
}

// Validate checks that every step sets exactly one kind.
func (p Plan) Validate() error {
	for i, st := range p.Steps {
		switch {
		case st.Items != nil && st.Reading != nil:
			return domain.NewInvalidArgument(fmt.Sprintf("steps[%d]", i), "sets both items and reading")
		case st.Items == nil && st.Reading == nil:
			return domain.NewInvalidArgument(fmt.Sprintf("steps[%d]", i), "is empty")
		case st.Items != nil && st.Items.Count <= 0:
			return domain.NewInvalidArgument(fmt.Sprintf("steps[%d].items.count", i),
				fmt.Sprintf("must be positive, got %d", st.Items.Count))
		}
	}
	return nil
}

// Apply runs every step of p in order and returns the number of fixtures registered.
func (s *Session) Apply(ctx context.Context, p Plan) (int, error) {
	total := 0
	for i, st := range p.Steps {
		var n int
		switch {
		case st.Items != nil:
			fs, err := s.AddItems(ctx, st.Items.Count, st.Items.Keyword, st.Items.Subject)
			if err != nil {
				return total, fmt.Errorf("step %d: %w", i, err)
			}
			n = len(fs)
		case st.Reading != nil:
			fs, err := s.ReadItem(ctx, st.Reading.Subjects)
			if err != nil {
				return total, fmt.Errorf("step %d: %w", i, err)
			}
			n = len(fs)
		}
		total += n
	}
	return total, nil
}
