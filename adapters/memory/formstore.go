// Package memory provides in-memory implementations of storage ports,
// used for tests and for running without a database file.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/artpar/formdesk/domain/form"
	"github.com/artpar/formdesk/ports"
)

// FormStore is an in-memory implementation of ports.FormStore.
type FormStore struct {
	mu    sync.RWMutex
	forms map[string]form.Form
}

// NewFormStore creates a new in-memory form store.
func NewFormStore() *FormStore {
	return &FormStore{forms: make(map[string]form.Form)}
}

// Create stores a new form.
func (s *FormStore) Create(ctx context.Context, f form.Form) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.forms[f.ID] = f
	return nil
}

// Get retrieves a form by ID.
func (s *FormStore) Get(ctx context.Context, id string) (form.Form, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	f, ok := s.forms[id]
	if !ok {
		return form.Form{}, ports.ErrNotFound
	}
	return f, nil
}

// List returns forms matching the filter, newest first.
func (s *FormStore) List(ctx context.Context, filter ports.FormFilter) ([]form.Form, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var matched []form.Form
	for _, f := range s.forms {
		if filter.Status != "" && f.Status != filter.Status {
			continue
		}
		matched = append(matched, f)
	}

	sort.Slice(matched, func(i, j int) bool {
		if matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].ID > matched[j].ID
		}
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	if filter.Offset >= len(matched) {
		return nil, nil
	}
	matched = matched[filter.Offset:]
	if filter.Limit > 0 && filter.Limit < len(matched) {
		matched = matched[:filter.Limit]
	}
	return matched, nil
}

// Count returns the number of forms with the given status (all when empty).
func (s *FormStore) Count(ctx context.Context, status form.Status) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if status == "" {
		return int64(len(s.forms)), nil
	}
	var n int64
	for _, f := range s.forms {
		if f.Status == status {
			n++
		}
	}
	return n, nil
}

// Update overwrites an existing form.
func (s *FormStore) Update(ctx context.Context, f form.Form) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.forms[f.ID]; !ok {
		return ports.ErrNotFound
	}
	s.forms[f.ID] = f
	return nil
}

// Delete removes a form.
func (s *FormStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.forms[id]; !ok {
		return ports.ErrNotFound
	}
	delete(s.forms, id)
	return nil
}

var _ ports.FormStore = (*FormStore)(nil)
