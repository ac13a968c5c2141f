// Package scenario turns scenario steps into registered search API fixtures.
package scenario

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/searchstub/internal/domain/fixture"
	"github.com/kailas-cloud/searchstub/internal/domain/item"
	"github.com/kailas-cloud/searchstub/internal/domain/search/page"
	"github.com/kailas-cloud/searchstub/internal/domain/search/query"
	"github.com/kailas-cloud/searchstub/internal/domain/subject"
	"github.com/kailas-cloud/searchstub/internal/usecase/search"
)

// Fixed identity of the item served by the reading step.
const (
	PreviewItemSequence = 1
	PreviewItemTitle    = "Item title"
)

// Options tune fixture rendering. The zero value is not usable; start from DefaultOptions.
type Options struct {
	// BaseURL is the origin of the mirrored API.
	BaseURL string
	// Published dates every synthetic item.
	Published time.Time
	// ListingSize is the per-page size of the full listing.
	ListingSize int
}

// DefaultOptions returns the options matching the public search API.
func DefaultOptions() Options {
	return Options{
		BaseURL:     "http://api.elifesciences.org",
		Published:   time.Date(2010, 1, 1, 0, 0, 0, 0, time.UTC),
		ListingSize: page.ListingSize,
	}
}

// Session owns one scenario state and registers the fixtures each step implies.
// A Session is driven by a single caller; it is not safe for concurrent use.
type Session struct {
	state     *State
	search    *search.Service
	registrar Registrar
	opts      Options
	logger    *zap.Logger
}

// NewSession creates a session with an empty corpus. logger may be nil.
func NewSession(registrar Registrar, opts Options, logger *zap.Logger) *Session {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.ListingSize <= 0 {
		opts.ListingSize = page.ListingSize
	}
	state := NewState(opts.Published)
	return &Session{
		state:     state,
		search:    search.New(state.Corpus()),
		registrar: registrar,
		opts:      opts,
		logger:    logger,
	}
}

// State exposes the accumulated scenario state.
func (s *Session) State() *State { return s.state }

// AddItems runs the step "count items about keyword [with subject]" and registers a
// fixture for every query combination the UI can reach. Returns fixtures in registration order.
func (s *Session) AddItems(ctx context.Context, count int, keyword, subjectName string) ([]fixture.Fixture, error) {
	if err := s.state.AddItems(count, keyword, subjectName); err != nil {
		return nil, err
	}

	fixtures, err := s.Assemble(s.state.Keyword())
	if err != nil {
		return nil, err
	}
	if err := s.registerAll(ctx, fixtures); err != nil {
		return nil, err
	}

	s.logger.Debug("scenario items added",
		zap.Int("count", count),
		zap.String("keyword", keyword),
		zap.String("subject", subjectName),
		zap.Int("corpus_size", s.state.Corpus().Len()),
		zap.Int("fixtures", len(fixtures)),
	)
	return fixtures, nil
}

// Assemble computes, without registering, the fixtures for every combination of keyword
// variant and subject group over the current state.
func (s *Session) Assemble(keyword string) ([]fixture.Fixture, error) {
	history := s.state.History()
	var out []fixture.Fixture

	for _, c := range query.Combinations(keyword, history) {
		res := s.search.Search(search.Query{Keyword: c.Keyword, Subjects: c.Group.Names()}, history)
		ids := c.Group.IDs()

		preview, err := s.searchFixture(c.Keyword, 1, page.PreviewSize, ids, res, page.Preview(res.Items))
		if err != nil {
			return nil, err
		}
		out = append(out, preview)

		pages, err := page.Chunk(res.Items, s.opts.ListingSize)
		if err != nil {
			return nil, fmt.Errorf("paginate: %w", err)
		}
		for i, p := range pages {
			f, err := s.searchFixture(c.Keyword, i+1, s.opts.ListingSize, ids, res, p)
			if err != nil {
				return nil, err
			}
			out = append(out, f)
		}
	}
	return out, nil
}

func (s *Session) searchFixture(
	keyword string, pageNum, perPage int, subjectIDs []string, res search.Result, items []item.Item,
) (fixture.Fixture, error) {
	resp, err := fixture.NewJSONResponse(fixture.MediaTypeSearch, fixture.NewSearchPayload(res.Total, items, res.Facets))
	if err != nil {
		return fixture.Fixture{}, fmt.Errorf("search page %d: %w", pageNum, err)
	}
	return fixture.Fixture{
		Request:  fixture.SearchRequest(s.opts.BaseURL, keyword, pageNum, perPage, subjectIDs),
		Response: resp,
	}, nil
}

// Results returns what the search API holds for keyword narrowed by subjects,
// for asserting against what the system under test renders. Subjects must be in the history.
func (s *Session) Results(keyword string, subjectNames ...string) (search.Result, error) {
	for _, n := range subjectNames {
		if _, err := s.state.Subject(n); err != nil {
			return search.Result{}, err
		}
	}
	return s.search.Search(search.Query{Keyword: keyword, Subjects: subjectNames}, s.state.History()), nil
}

// ReadItem runs the step "reading an item with subjects": it registers the fixed preview item
// and its version history. This item is separate from the enumerated corpus.
func (s *Session) ReadItem(ctx context.Context, subjectNames []string) ([]fixture.Fixture, error) {
	subjects := make([]subject.Subject, 0, len(subjectNames))
	for _, n := range subjectNames {
		subj, err := subject.New(n)
		if err != nil {
			return nil, err
		}
		subjects = append(subjects, subj)
	}

	it := item.Reconstruct(PreviewItemSequence, PreviewItemTitle, item.DefaultType, subjects,
		item.PreviewMetadata(s.opts.Published))
	payload := fixture.NewItemPayload(it)

	itemResp, err := fixture.NewJSONResponse(fixture.MediaTypeArticlePoA, payload)
	if err != nil {
		return nil, fmt.Errorf("item payload: %w", err)
	}
	historyResp, err := fixture.NewJSONResponse(fixture.MediaTypeArticleHistory,
		fixture.HistoryPayload{Versions: []fixture.ItemPayload{payload}})
	if err != nil {
		return nil, fmt.Errorf("history payload: %w", err)
	}

	fixtures := []fixture.Fixture{
		{Request: fixture.ItemRequest(s.opts.BaseURL, it.ID()), Response: itemResp},
		{Request: fixture.HistoryRequest(s.opts.BaseURL, it.ID()), Response: historyResp},
	}
	if err := s.registerAll(ctx, fixtures); err != nil {
		return nil, err
	}

	s.logger.Debug("scenario item read", zap.String("id", it.ID()), zap.Strings("subjects", subjectNames))
	return fixtures, nil
}

func (s *Session) registerAll(ctx context.Context, fixtures []fixture.Fixture) error {
	for _, f := range fixtures {
		if err := s.registrar.Register(ctx, f); err != nil {
			return fmt.Errorf("register %s: %w", f.Request.URL, err)
		}
	}
	return nil
}
