package memory

import (
	"context"
	"sync"

	"ranch-pregcheck/internal/domain/seasons"
)

type seasonsRepo struct {
	mu   sync.RWMutex
	year int
	set  bool
}

func NewSeasonsRepo() seasons.Repository {
	return &seasonsRepo{}
}

func (r *seasonsRepo) Get(ctx context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if !r.set {
		return 0, seasons.ErrNotSet
	}
	return r.year, nil
}

func (r *seasonsRepo) Set(ctx context.Context, year int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.year = year
	r.set = true
	return nil
}
