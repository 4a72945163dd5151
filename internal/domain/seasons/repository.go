package seasons

import (
	"context"
	"errors"
)

// ErrNotSet indica que nunca se configuró una temporada.
var ErrNotSet = errors.New("breeding season not set")

// Repository guarda el único valor de temporada actual del servidor.
type Repository interface {
	Get(ctx context.Context) (int, error)
	Set(ctx context.Context, year int) error
}
