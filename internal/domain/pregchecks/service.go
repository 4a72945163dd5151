package pregchecks

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"ranch-pregcheck/internal/domain/cattle"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")

	// Invariante de identidad del formulario: algún identificador o la
	// marca explícita de "sin identificador", nunca ambas cosas.
	ErrMissingIdentifier  = errors.New("an ear tag, an RFID, or the no-identifier flag is required")
	ErrIdentifierWithNoID = errors.New("cannot combine an identifier with the no-identifier flag")

	ErrNoMatchingCow = errors.New("no cow found for the given identifiers")
)

type Service struct {
	repo Repository
	cows *cattle.Service
	now  func() time.Time
}

func NewService(repo Repository, cows *cattle.Service) *Service {
	return &Service{
		repo: repo,
		cows: cows,
		now:  time.Now,
	}
}

type CreateInput struct {
	EarTagID  string
	RFID      string
	BirthYear string // "" o YYYY
	NoID      bool

	BreedingSeason int
	CheckDate      *time.Time
	IsPregnant     *bool
	Recheck        bool
	ShouldSell     bool
	Comments       string
}

// Create registra un chequeo nuevo. La regla de identidad se valida acá de
// forma autoritativa; la capa de página la chequea antes solo como cortesía.
func (s *Service) Create(ctx context.Context, in CreateInput) (Record, error) {
	earTag := strings.TrimSpace(in.EarTagID)
	rfid := strings.TrimSpace(in.RFID)
	hasID := earTag != "" || rfid != ""

	if !hasID && !in.NoID {
		return Record{}, ErrMissingIdentifier
	}
	if hasID && in.NoID {
		return Record{}, ErrIdentifierWithNoID
	}
	if in.BreedingSeason <= 0 {
		return Record{}, ErrInvalidInput
	}

	var cowID string
	if hasID {
		c, err := s.resolveCow(ctx, earTag, rfid, in.BirthYear)
		if err != nil {
			return Record{}, err
		}
		cowID = c.ID
	}

	now := s.now()
	p := PregCheck{
		ID:             uuid.NewString(),
		CowID:          cowID,
		BreedingSeason: in.BreedingSeason,
		CheckDate:      in.CheckDate,
		IsPregnant:     in.IsPregnant,
		Recheck:        in.Recheck,
		ShouldSell:     in.ShouldSell,
		Comments:       strings.TrimSpace(in.Comments),
		CreatedAt:      now,
		LastModified:   now,
	}

	if err := s.repo.Create(ctx, p); err != nil {
		return Record{}, err
	}
	return s.annotate(ctx, p), nil
}

func (s *Service) resolveCow(ctx context.Context, earTag, rfid, birthYear string) (cattle.Cow, error) {
	var by *int
	if y := strings.TrimSpace(birthYear); y != "" {
		n, err := strconv.Atoi(y)
		if err != nil {
			return cattle.Cow{}, ErrInvalidInput
		}
		by = &n
	}

	cows, err := s.cows.Match(ctx, cattle.MatchQuery{
		EarTagID:  earTag,
		RFID:      rfid,
		BirthYear: by,
	})
	if err != nil {
		return cattle.Cow{}, err
	}
	switch len(cows) {
	case 0:
		return cattle.Cow{}, ErrNoMatchingCow
	case 1:
		return cows[0], nil
	default:
		return cattle.Cow{}, cattle.ErrAmbiguousMatch
	}
}

type EditInput struct {
	EarTagID  string
	BirthYear string

	BreedingSeason int
	CheckDate      *time.Time
	IsPregnant     *bool
	Recheck        bool
	ShouldSell     bool
	Comments       string
}

// Edit actualiza un chequeo existente. Si viene caravana (y año), la vaca
// tiene que existir: un chequeo nunca se borra, pero sí puede reasignarse
// al animal correcto.
func (s *Service) Edit(ctx context.Context, id string, in EditInput) (Record, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Record{}, ErrInvalidInput
	}

	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Record{}, err
	}

	if earTag := strings.TrimSpace(in.EarTagID); earTag != "" {
		c, err := s.resolveCow(ctx, earTag, "", in.BirthYear)
		if err != nil {
			return Record{}, err
		}
		p.CowID = c.ID
	}

	if in.BreedingSeason > 0 {
		p.BreedingSeason = in.BreedingSeason
	}
	p.CheckDate = in.CheckDate
	p.IsPregnant = in.IsPregnant
	p.Recheck = in.Recheck
	p.ShouldSell = in.ShouldSell
	p.Comments = strings.TrimSpace(in.Comments)
	p.LastModified = s.now()

	if err := s.repo.Update(ctx, p); err != nil {
		return Record{}, err
	}
	return s.annotate(ctx, p), nil
}

func (s *Service) Detail(ctx context.Context, id string) (Record, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Record{}, ErrInvalidInput
	}
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Record{}, err
	}
	return s.annotate(ctx, p), nil
}

// Previous devuelve los últimos chequeos de la temporada indicada, para el
// panel de entradas previas. limit <= 0 usa el default de la página (5).
func (s *Service) Previous(ctx context.Context, season, limit int) ([]Record, error) {
	if limit <= 0 {
		limit = 5
	}
	checks, err := s.repo.ListBySeason(ctx, season, limit)
	if err != nil {
		return nil, err
	}
	return s.annotateAll(ctx, checks), nil
}

func (s *Service) BySeason(ctx context.Context, season int) ([]Record, error) {
	checks, err := s.repo.ListBySeason(ctx, season, 0)
	if err != nil {
		return nil, err
	}
	return s.annotateAll(ctx, checks), nil
}

func (s *Service) All(ctx context.Context) ([]Record, error) {
	checks, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	return s.annotateAll(ctx, checks), nil
}

// Stats calcula el resumen de temporada con la misma aritmética de la
// fuente original: las re-palpaciones preñadas se descuentan de las vacías
// de primera pasada porque son el mismo animal contado dos veces.
func (s *Service) Stats(ctx context.Context, season int) (SummaryStats, error) {
	checks, err := s.repo.ListBySeason(ctx, season, 0)
	if err != nil {
		return SummaryStats{}, err
	}

	var totalPregnant, rawOpen, pregRechecks, openRechecks int
	for _, p := range checks {
		if p.IsPregnant == nil {
			continue
		}
		if *p.IsPregnant {
			totalPregnant++
			if p.Recheck {
				pregRechecks++
			}
		} else {
			rawOpen++
			if p.Recheck {
				openRechecks++
			}
		}
	}

	firstPassPregnant := totalPregnant - pregRechecks
	firstPassOpen := rawOpen - openRechecks
	totalOpen := firstPassOpen - pregRechecks
	totalCount := totalOpen + totalPregnant

	rate := 0.0
	if totalCount > 0 {
		rate = float64(totalPregnant) / float64(totalCount) * 100
	}

	return SummaryStats{
		FirstCheckPregnant:  firstPassPregnant,
		RecheckPregnant:     pregRechecks,
		TotalPregnant:       totalPregnant,
		FirstCheckOpen:      firstPassOpen,
		LessRecheckPregnant: pregRechecks,
		TotalOpen:           totalOpen,
		TotalCount:          totalCount,
		PregnancyRate:       rate,
	}, nil
}

func (s *Service) annotate(ctx context.Context, p PregCheck) Record {
	rec := Record{PregCheck: p}
	if p.CowID == "" {
		return rec
	}
	c, err := s.cows.GetByID(ctx, p.CowID)
	if err != nil {
		// tolera chequeos huérfanos (vaca borrada a mano en la base)
		return rec
	}
	rec.EarTagID = c.EarTagID
	rec.RFID = c.RFID
	rec.AnimalBirthYear = c.BirthYear
	return rec
}

func (s *Service) annotateAll(ctx context.Context, checks []PregCheck) []Record {
	out := make([]Record, 0, len(checks))
	for _, p := range checks {
		out = append(out, s.annotate(ctx, p))
	}
	return out
}
