package testutil

import (
	"context"
	"fmt"
	"sync"

	"scryfallprices/internal/fetcher"
	"scryfallprices/internal/prices"
	"scryfallprices/internal/resolve"
)

// MockSource is a mock implementation of prices.Source for testing
type MockSource struct {
	LookupFunc func(ctx context.Context, name string) (prices.Record, error)

	mu    sync.Mutex
	calls []string
}

// Lookup implements the prices.Source interface
func (m *MockSource) Lookup(ctx context.Context, name string) (prices.Record, error) {
	m.mu.Lock()
	m.calls = append(m.calls, name)
	m.mu.Unlock()

	if m.LookupFunc != nil {
		return m.LookupFunc(ctx, name)
	}
	return prices.Record{}, nil
}

// Calls returns the names looked up so far, in order
func (m *MockSource) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.calls...)
}

// NewStaticSource returns a source that serves records from a fixed map and
// answers 404 for anything else
func NewStaticSource(records map[string]prices.Record) *MockSource {
	return &MockSource{
		LookupFunc: func(ctx context.Context, name string) (prices.Record, error) {
			record, ok := records[name]
			if !ok {
				return nil, fetcher.ClassifyHTTPError(404, fmt.Sprintf("no card named %q", name))
			}
			return record, nil
		},
	}
}

// Str returns a pointer to s, for building prices.Record literals
func Str(s string) *string {
	return &s
}

// Record builds a price record from alternating field/value pairs.
// An empty value is stored as null.
func Record(pairs ...string) prices.Record {
	r := prices.Record{}
	for i := 0; i+1 < len(pairs); i += 2 {
		if pairs[i+1] == "" {
			r[pairs[i]] = nil
			continue
		}
		r[pairs[i]] = Str(pairs[i+1])
	}
	return r
}

// ScriptedResolver answers resolve requests from a fixed list of outcomes
type ScriptedResolver struct {
	Steps []ResolveStep

	calls []string
}

// ResolveStep is one scripted answer
type ResolveStep struct {
	Price float64
	Err   error
}

// Resolve implements resolve.Resolver
func (s *ScriptedResolver) Resolve(ctx context.Context, card, field string) (float64, error) {
	s.calls = append(s.calls, card)
	if len(s.calls) > len(s.Steps) {
		return 0, resolve.ErrSkipped
	}
	step := s.Steps[len(s.calls)-1]
	return step.Price, step.Err
}

// Calls returns the cards the resolver was asked about, in order
func (s *ScriptedResolver) Calls() []string {
	return append([]string(nil), s.calls...)
}
