// Package testutil provides test doubles for the depot data layer.
package testutil

import (
	"context"
	"strings"
	"sync"

	"github.com/scidepot/depot/sparql"
)

// FakeStore is a scripted Store implementation. Queries are answered by
// the first stub whose fragment occurs in the query text; unstubbed
// queries return no rows. All executed query and update texts are recorded
// for assertions.
type FakeStore struct {
	mu       sync.Mutex
	queries  []string
	updates  []string
	stubs    []stub
	queryErr error
	update   func(query string) (string, error)
	down     bool
}

type stub struct {
	fragment string
	rows     []sparql.Row
	err      error
}

// NewFakeStore returns an empty scripted store.
func NewFakeStore() *FakeStore {
	return &FakeStore{}
}

// StubQuery answers queries containing fragment with the given rows. Stubs
// match in registration order; later stubs for the same fragment shadow
// nothing.
func (s *FakeStore) StubQuery(fragment string, rows ...sparql.Row) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stubs = append(s.stubs, stub{fragment: fragment, rows: rows})
}

// StubQueryError answers queries containing fragment with an error.
func (s *FakeStore) StubQueryError(fragment string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stubs = append(s.stubs, stub{fragment: fragment, err: err})
}

// FailQueries makes every query fail with err until called with nil.
func (s *FakeStore) FailQueries(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queryErr = err
	s.down = err != nil
}

// FailUpdates makes every update fail with err until called with nil.
func (s *FakeStore) FailUpdates(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err == nil {
		s.update = nil
		return
	}
	s.update = func(string) (string, error) {
		return "", err
	}
}

// Query records the query and answers it from the stubs.
func (s *FakeStore) Query(_ context.Context, query string) ([]sparql.Row, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.queries = append(s.queries, query)
	if s.queryErr != nil {
		return nil, s.queryErr
	}
	for _, st := range s.stubs {
		if strings.Contains(query, st.fragment) {
			return st.rows, st.err
		}
	}
	return []sparql.Row{}, nil
}

// Update records the mutation and reports success with a store-style
// status message.
func (s *FakeStore) Update(_ context.Context, query string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.updates = append(s.updates, query)
	if s.update != nil {
		return s.update(query)
	}
	return "Insert into <graph>, 1 (or less) triples -- done", nil
}

// IsUp reports scripted connectivity.
func (s *FakeStore) IsUp() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.down
}

// Queries returns a copy of all executed query texts.
func (s *FakeStore) Queries() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.queries...)
}

// Updates returns a copy of all executed mutation texts.
func (s *FakeStore) Updates() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.updates...)
}

// UpdatesMatching returns the executed mutations containing fragment.
func (s *FakeStore) UpdatesMatching(fragment string) []string {
	var matched []string
	for _, update := range s.Updates() {
		if strings.Contains(update, fragment) {
			matched = append(matched, update)
		}
	}
	return matched
}

// QueriesMatching returns the executed queries containing fragment.
func (s *FakeStore) QueriesMatching(fragment string) []string {
	var matched []string
	for _, query := range s.Queries() {
		if strings.Contains(query, fragment) {
			matched = append(matched, query)
		}
	}
	return matched
}
