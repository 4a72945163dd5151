package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"ranch-pregcheck/internal/domain/pregchecks"
)

type pregChecksRepo struct {
	mu   sync.RWMutex
	byID map[string]pregchecks.PregCheck
}

func NewPregChecksRepo() pregchecks.Repository {
	return &pregChecksRepo{
		byID: make(map[string]pregchecks.PregCheck),
	}
}

func (r *pregChecksRepo) Create(ctx context.Context, p pregchecks.PregCheck) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(p.ID) == "" {
		return errors.New("pregcheck id required")
	}
	if _, exists := r.byID[p.ID]; exists {
		return errors.New("pregcheck already exists")
	}
	r.byID[p.ID] = p
	return nil
}

func (r *pregChecksRepo) Update(ctx context.Context, p pregchecks.PregCheck) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[p.ID]; !exists {
		return pregchecks.ErrNotFound
	}
	r.byID[p.ID] = p
	return nil
}

func (r *pregChecksRepo) GetByID(ctx context.Context, id string) (pregchecks.PregCheck, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.byID[id]
	if !ok {
		return pregchecks.PregCheck{}, pregchecks.ErrNotFound
	}
	return p, nil
}

func (r *pregChecksRepo) ListBySeason(ctx context.Context, season int, limit int) ([]pregchecks.PregCheck, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]pregchecks.PregCheck, 0)
	for _, p := range r.byID {
		if p.BreedingSeason == season {
			out = append(out, p)
		}
	}
	sortChecks(out)

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *pregChecksRepo) ListByCows(ctx context.Context, cowIDs []string) ([]pregchecks.PregCheck, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make(map[string]struct{}, len(cowIDs))
	for _, id := range cowIDs {
		ids[id] = struct{}{}
	}

	out := make([]pregchecks.PregCheck, 0)
	for _, p := range r.byID {
		if _, ok := ids[p.CowID]; ok {
			out = append(out, p)
		}
	}
	sortChecks(out)
	return out, nil
}

func (r *pregChecksRepo) CountByCowAndSeason(ctx context.Context, cowID string, season int) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n := 0
	for _, p := range r.byID {
		if p.CowID == cowID && p.BreedingSeason == season {
			n++
		}
	}
	return n, nil
}

func (r *pregChecksRepo) LastCreated(ctx context.Context) (pregchecks.PregCheck, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var last pregchecks.PregCheck
	found := false
	for _, p := range r.byID {
		if !found || p.CreatedAt.After(last.CreatedAt) {
			last = p
			found = true
		}
	}
	if !found {
		return pregchecks.PregCheck{}, pregchecks.ErrNotFound
	}
	return last, nil
}

func (r *pregChecksRepo) LatestSeason(ctx context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	latest := 0
	for _, p := range r.byID {
		if p.BreedingSeason > latest {
			latest = p.BreedingSeason
		}
	}
	if latest == 0 {
		return 0, pregchecks.ErrNotFound
	}
	return latest, nil
}

func (r *pregChecksRepo) ListAll(ctx context.Context) ([]pregchecks.PregCheck, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]pregchecks.PregCheck, 0, len(r.byID))
	for _, p := range r.byID {
		out = append(out, p)
	}
	sortChecks(out)
	return out, nil
}

// Orden del listado: check_date desc, luego created_at desc. Chequeos sin
// fecha van al final.
func sortChecks(out []pregchecks.PregCheck) {
	sort.Slice(out, func(i, j int) bool {
		di, dj := checkDate(out[i]), checkDate(out[j])
		if !di.Equal(dj) {
			return di.After(dj)
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
}

func checkDate(p pregchecks.PregCheck) time.Time {
	if p.CheckDate == nil {
		return time.Time{}
	}
	return *p.CheckDate
}
