package pregchecks

import "context"

type Repository interface {
	Create(ctx context.Context, p PregCheck) error
	Update(ctx context.Context, p PregCheck) error
	GetByID(ctx context.Context, id string) (PregCheck, error)

	// ListBySeason devuelve los chequeos de una temporada ordenados por
	// check_date desc y luego created_at desc. limit <= 0 => sin límite.
	ListBySeason(ctx context.Context, season int, limit int) ([]PregCheck, error)

	ListByCows(ctx context.Context, cowIDs []string) ([]PregCheck, error)
	CountByCowAndSeason(ctx context.Context, cowID string, season int) (int, error)

	// LastCreated devuelve el último chequeo registrado (para arrastrar la
	// fecha de tacto dentro de la misma jornada). ErrNotFound si no hay.
	LastCreated(ctx context.Context) (PregCheck, error)

	// LatestSeason devuelve la temporada del chequeo más reciente.
	LatestSeason(ctx context.Context) (int, error)

	ListAll(ctx context.Context) ([]PregCheck, error)
}
