package scenario

import (
	"fmt"
	"time"

	"github.com/kailas-cloud/searchstub/internal/domain"
	"github.com/kailas-cloud/searchstub/internal/domain/corpus"
	"github.com/kailas-cloud/searchstub/internal/domain/subject"
)

// State is the accumulated state of one scenario: corpus, active keyword and
// subject history. It only grows.
type State struct {
	corpus  *corpus.Corpus
	keyword string
	history []subject.Subject
}

// NewState creates an empty scenario state.
func NewState(published time.Time) *State {
	return &State{corpus: corpus.New(published)}
}

// AddItems adds count items about keyword, optionally tagged with subjectName,
// and records the subject in the history.
func (s *State) AddItems(count int, keyword, subjectName string) error {
	var subj *subject.Subject
	if subjectName != "" {
		v, err := subject.New(subjectName)
		if err != nil {
			return err
		}
		subj = &v
	}

	if err := s.corpus.AddItems(count, keyword, subj); err != nil {
		return fmt.Errorf("add items: %w", err)
	}

	s.keyword = keyword
	if subj != nil && !s.hasSubject(subj.Name()) {
		s.history = append(s.history, *subj)
	}
	return nil
}

// Corpus returns the owned corpus.
func (s *State) Corpus() *corpus.Corpus { return s.corpus }

// Keyword returns the keyword of the latest step.
func (s *State) Keyword() string { return s.keyword }

// History returns the distinct subjects seen so far, in insertion order.
func (s *State) History() []subject.Subject {
	return append([]subject.Subject(nil), s.history...)
}

// Subject looks up a subject of the history by name.
func (s *State) Subject(name string) (subject.Subject, error) {
	for _, h := range s.history {
		if h.Name() == name {
			return h, nil
		}
	}
	return subject.Subject{}, domain.NewInvalidArgument("subject", fmt.Sprintf("%q is not in the scenario history", name))
}

func (s *State) hasSubject(name string) bool {
	_, err := s.Subject(name)
	return err == nil
}
