// Package memory provides in-process driven adapters that are never persisted.
package memory

import (
	"context"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/ericfisherdev/formpanel/internal/domain/model"
	"github.com/ericfisherdev/formpanel/internal/domain/port/driven"
)

var _ driven.ViewStateStore = (*ViewStateStore)(nil)

// ViewStateStore keeps the view state of the most recently active visitors.
// When capacity is reached the least recently used visitor is evicted and
// falls back to the default state on the next request.
type ViewStateStore struct {
	cache *lru.Cache[string, model.ViewState]
}

// NewViewStateStore creates a store holding at most capacity visitors.
func NewViewStateStore(capacity int) (*ViewStateStore, error) {
	cache, err := lru.New[string, model.ViewState](capacity)
	if err != nil {
		return nil, fmt.Errorf("create view state cache: %w", err)
	}
	return &ViewStateStore{cache: cache}, nil
}

// Load implements driven.ViewStateStore.
func (s *ViewStateStore) Load(_ context.Context, visitorID string) (model.ViewState, bool) {
	return s.cache.Get(visitorID)
}

// Save implements driven.ViewStateStore.
func (s *ViewStateStore) Save(_ context.Context, visitorID string, state model.ViewState) {
	s.cache.Add(visitorID, state)
}

// Len returns the number of visitors currently held.
func (s *ViewStateStore) Len() int {
	return s.cache.Len()
}
