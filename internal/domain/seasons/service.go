package seasons

import (
	"context"
	"errors"
	"time"
)

// Límites razonables para un año de servicio, heredados de la herramienta
// de configuración original.
const (
	MinYear = 1900
	MaxYear = 2100
)

var ErrOutOfRange = errors.New("breeding season must be between 1900 and 2100")

// Service es dueño de la temporada de servicio actual: un único entero del
// lado del servidor. La página solo cachea el valor para mostrarlo.
type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
		now:  time.Now,
	}
}

// Current devuelve la temporada configurada. Si nadie la configuró todavía,
// cae al año calendario corriente.
func (s *Service) Current(ctx context.Context) (int, error) {
	year, err := s.repo.Get(ctx)
	if errors.Is(err, ErrNotSet) {
		return s.now().Year(), nil
	}
	if err != nil {
		return 0, err
	}
	return year, nil
}

func (s *Service) Set(ctx context.Context, year int) error {
	if year < MinYear || year > MaxYear {
		return ErrOutOfRange
	}
	return s.repo.Set(ctx, year)
}
