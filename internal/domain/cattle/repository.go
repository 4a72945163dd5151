package cattle

import "context"

type Repository interface {
	Create(ctx context.Context, c Cow) error
	Update(ctx context.Context, c Cow) error
	GetByID(ctx context.Context, id string) (Cow, error)

	// ListByEarTag devuelve todas las vacas con esa caravana (puede haber
	// varias, distinguidas por año de nacimiento).
	ListByEarTag(ctx context.Context, earTagID string) ([]Cow, error)
	ListByEarTagAndYear(ctx context.Context, earTagID string, birthYear int) ([]Cow, error)

	// GetByRFID devuelve la vaca con ese RFID (único en el dataset).
	GetByRFID(ctx context.Context, rfid string) (Cow, error)
}
