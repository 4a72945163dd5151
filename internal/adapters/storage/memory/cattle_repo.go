package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"ranch-pregcheck/internal/domain/cattle"
)

type cattleRepo struct {
	mu   sync.RWMutex
	byID map[string]cattle.Cow
}

func NewCattleRepo() cattle.Repository {
	return &cattleRepo{
		byID: make(map[string]cattle.Cow),
	}
}

func (r *cattleRepo) Create(ctx context.Context, c cattle.Cow) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(c.ID) == "" {
		return errors.New("cow id required")
	}
	if _, exists := r.byID[c.ID]; exists {
		return errors.New("cow already exists")
	}
	r.byID[c.ID] = c
	return nil
}

func (r *cattleRepo) Update(ctx context.Context, c cattle.Cow) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[c.ID]; !exists {
		return cattle.ErrNotFound
	}
	r.byID[c.ID] = c
	return nil
}

func (r *cattleRepo) GetByID(ctx context.Context, id string) (cattle.Cow, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.byID[id]
	if !ok {
		return cattle.Cow{}, cattle.ErrNotFound
	}
	return c, nil
}

func (r *cattleRepo) ListByEarTag(ctx context.Context, earTagID string) ([]cattle.Cow, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]cattle.Cow, 0)
	for _, c := range r.byID {
		if c.EarTagID == earTagID {
			out = append(out, c)
		}
	}
	sortCows(out)
	return out, nil
}

func (r *cattleRepo) ListByEarTagAndYear(ctx context.Context, earTagID string, birthYear int) ([]cattle.Cow, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]cattle.Cow, 0)
	for _, c := range r.byID {
		if c.EarTagID == earTagID && c.BirthYear != nil && *c.BirthYear == birthYear {
			out = append(out, c)
		}
	}
	sortCows(out)
	return out, nil
}

func (r *cattleRepo) GetByRFID(ctx context.Context, rfid string) (cattle.Cow, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, c := range r.byID {
		if c.RFID != "" && c.RFID == rfid {
			return c, nil
		}
	}
	return cattle.Cow{}, cattle.ErrNotFound
}

// Orden estable por created_at asc (solo para consistencia en dev)
func sortCows(out []cattle.Cow) {
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
}
