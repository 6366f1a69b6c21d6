// Package computation persists computation records.
package computation

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"

	"sentencer/internal/sentencing/models"
	"sentencer/pkg/platform/sentinel"
)

// InMemory is a process-local store used in tests and when no database is
// configured.
type InMemory struct {
	mu      sync.RWMutex
	records map[uuid.UUID]*models.Computation
}

func NewInMemory() *InMemory {
	return &InMemory{records: make(map[uuid.UUID]*models.Computation)}
}

func (s *InMemory) Save(_ context.Context, c *models.Computation) error {
	if c == nil {
		return fmt.Errorf("computation is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *c
	s.records[c.ID] = &cp
	return nil
}

func (s *InMemory) FindByID(_ context.Context, id uuid.UUID) (*models.Computation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.records[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (s *InMemory) ListRecent(_ context.Context, limit int) ([]*models.Computation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all := make([]*models.Computation, 0, len(s.records))
	for _, c := range s.records {
		cp := *c
		all = append(all, &cp)
	}
	sort.Slice(all, func(i, j int) bool {
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})
	if limit > 0 && len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}
