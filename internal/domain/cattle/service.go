package cattle

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")

	// ErrConflictingIDs: la caravana y el RFID apuntan a vacas distintas.
	ErrConflictingIDs = errors.New("conflicting rfid and ear tag, make sure each id is correct")

	// ErrAmbiguousMatch: más de una vaca coincide y no alcanza la info para elegir.
	ErrAmbiguousMatch = errors.New("more than one cow matches this information")
)

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

// MatchQuery son los criterios de búsqueda de identidad.
// Semántica: (caravana AND año) OR caravana OR rfid.
type MatchQuery struct {
	EarTagID  string
	RFID      string
	BirthYear *int
}

func (q MatchQuery) empty() bool {
	return strings.TrimSpace(q.EarTagID) == "" && strings.TrimSpace(q.RFID) == ""
}

// Match devuelve las vacas asociadas a la caravana (+ año si viene) o al
// RFID. Si ambos identificadores vienen y matchean vacas distintas, es un
// conflicto: el usuario cargó mal alguno de los dos.
func (s *Service) Match(ctx context.Context, q MatchQuery) ([]Cow, error) {
	earTag := strings.TrimSpace(q.EarTagID)
	rfid := strings.TrimSpace(q.RFID)

	if q.empty() {
		return nil, nil
	}

	var out []Cow
	seen := map[string]struct{}{}

	add := func(cows ...Cow) {
		for _, c := range cows {
			if _, ok := seen[c.ID]; ok {
				continue
			}
			seen[c.ID] = struct{}{}
			out = append(out, c)
		}
	}

	if earTag != "" && q.BirthYear != nil {
		cows, err := s.repo.ListByEarTagAndYear(ctx, earTag, *q.BirthYear)
		if err != nil {
			return nil, err
		}
		add(cows...)
	} else if earTag != "" {
		cows, err := s.repo.ListByEarTag(ctx, earTag)
		if err != nil {
			return nil, err
		}
		add(cows...)
	}

	if rfid != "" {
		c, err := s.repo.GetByRFID(ctx, rfid)
		switch {
		case err == nil:
			// Conflicto: el RFID matchea una vaca cuya caravana no es la buscada.
			if earTag != "" && c.EarTagID != earTag {
				if len(out) > 0 {
					return nil, ErrConflictingIDs
				}
			}
			add(c)
		case errors.Is(err, ErrNotFound):
			// rfid sin match no es error; puede ser animal nuevo
		default:
			return nil, err
		}
	}

	return out, nil
}

// ExistsResult es la respuesta del chequeo de existencia por caravana.
type ExistsResult struct {
	Exists          bool
	MultipleMatches bool
	Cow             *Cow // solo cuando hay exactamente un match
}

// Exists resuelve el chequeo que la página usa antes de abrir el
// formulario de alta/edición de vaca.
func (s *Service) Exists(ctx context.Context, earTagID string) (ExistsResult, error) {
	earTagID = strings.TrimSpace(earTagID)
	if earTagID == "" {
		return ExistsResult{}, ErrInvalidInput
	}

	cows, err := s.repo.ListByEarTag(ctx, earTagID)
	if err != nil {
		return ExistsResult{}, err
	}

	res := ExistsResult{Exists: len(cows) > 0, MultipleMatches: len(cows) > 1}
	if len(cows) == 1 {
		c := cows[0]
		res.Cow = &c
	}
	return res, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Cow, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Cow{}, ErrInvalidInput
	}
	return s.repo.GetByID(ctx, id)
}

type UpsertInput struct {
	EarTagID  string
	RFID      string
	BirthYear string // "" o YYYY; viene como texto del formulario
	Comments  string
}

func parseBirthYear(s string) (*int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	y, err := strconv.Atoi(s)
	if err != nil {
		return nil, ErrInvalidInput
	}
	return &y, nil
}

// Create da de alta una vaca nueva.
func (s *Service) Create(ctx context.Context, in UpsertInput) (Cow, error) {
	earTag := strings.TrimSpace(in.EarTagID)
	if earTag == "" {
		return Cow{}, ErrInvalidInput
	}
	by, err := parseBirthYear(in.BirthYear)
	if err != nil {
		return Cow{}, err
	}

	now := s.now()
	c := Cow{
		ID:        uuid.NewString(),
		EarTagID:  earTag,
		BirthYear: by,
		RFID:      strings.TrimSpace(in.RFID),
		Comments:  strings.TrimSpace(in.Comments),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Create(ctx, c); err != nil {
		return Cow{}, err
	}
	return c, nil
}

// CreateOrUpdate resuelve la vaca por identificadores y la actualiza, o la
// crea si no existe. Con más de un match posible no adivina: ErrAmbiguousMatch.
func (s *Service) CreateOrUpdate(ctx context.Context, in UpsertInput) (Cow, error) {
	earTag := strings.TrimSpace(in.EarTagID)
	rfid := strings.TrimSpace(in.RFID)
	by, err := parseBirthYear(in.BirthYear)
	if err != nil {
		return Cow{}, err
	}

	var cows []Cow
	if earTag != "" {
		cows, err = s.repo.ListByEarTag(ctx, earTag)
		if err != nil {
			return Cow{}, err
		}
		if len(cows) > 1 && by != nil {
			cows, err = s.repo.ListByEarTagAndYear(ctx, earTag, *by)
			if err != nil {
				return Cow{}, err
			}
		}
	}
	if rfid != "" {
		c, err := s.repo.GetByRFID(ctx, rfid)
		if err == nil {
			cows = []Cow{c}
		} else if !errors.Is(err, ErrNotFound) {
			return Cow{}, err
		}
	}

	switch {
	case len(cows) > 1:
		return Cow{}, ErrAmbiguousMatch
	case len(cows) == 1:
		c := cows[0]
		if by != nil {
			c.BirthYear = by
		}
		if rfid != "" {
			c.RFID = rfid
		}
		c.UpdatedAt = s.now()
		if err := s.repo.Update(ctx, c); err != nil {
			return Cow{}, err
		}
		return c, nil
	default:
		return s.Create(ctx, in)
	}
}

// GetOrCreate se usa en el import masivo: busca por (caravana, año) y crea
// si falta; si existe y el RFID del archivo difiere, lo actualiza.
// Devuelve (vaca, creada, actualizada).
func (s *Service) GetOrCreate(ctx context.Context, in UpsertInput) (Cow, bool, bool, error) {
	earTag := strings.TrimSpace(in.EarTagID)
	if earTag == "" {
		return Cow{}, false, false, ErrInvalidInput
	}
	by, err := parseBirthYear(in.BirthYear)
	if err != nil {
		return Cow{}, false, false, err
	}

	var cows []Cow
	if by != nil {
		cows, err = s.repo.ListByEarTagAndYear(ctx, earTag, *by)
	} else {
		cows, err = s.repo.ListByEarTag(ctx, earTag)
	}
	if err != nil {
		return Cow{}, false, false, err
	}

	if len(cows) == 0 {
		c, err := s.Create(ctx, in)
		if err != nil {
			return Cow{}, false, false, err
		}
		return c, true, false, nil
	}

	c := cows[0]
	rfid := strings.TrimSpace(in.RFID)
	if rfid != "" && c.RFID != rfid {
		c.RFID = rfid
		c.UpdatedAt = s.now()
		if err := s.repo.Update(ctx, c); err != nil {
			return Cow{}, false, false, err
		}
		return c, false, true, nil
	}

	return c, false, false, nil
}
