package pregchecks

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"time"

	"ranch-pregcheck/internal/domain/cattle"
)

// SearchInput son los criterios de la página de búsqueda. La palabra clave
// "all" en caravana o RFID lista la temporada actual completa.
type SearchInput struct {
	EarTagID  string
	RFID      string
	BirthYear string
}

// FormDefaults son los valores con los que la página precarga el
// formulario de alta según el resultado de la búsqueda.
type FormDefaults struct {
	EarTagID       string     `json:"ear_tag_id"`
	RFID           string     `json:"rfid"`
	BirthYear      *int       `json:"birth_year"`
	BreedingSeason int        `json:"breeding_season"`
	Recheck        bool       `json:"recheck"`
	CheckDate      *time.Time `json:"check_date,omitempty"`
}

type SearchResult struct {
	Records []Record

	AnimalExists       bool
	MultipleMatches    bool
	DistinctBirthYears []int
	Cow                *cattle.Cow

	AllPregChecks bool
	LatestSeason  int
	Defaults      FormDefaults
}

// Search replica la vista de listado original: matchea el animal, junta sus
// chequeos y arma los defaults del formulario (temporada actual, recheck si
// el animal ya tiene un chequeo esta temporada, fecha arrastrada si el
// último chequeo se registró hoy).
func (s *Service) Search(ctx context.Context, currentSeason int, in SearchInput) (SearchResult, error) {
	earTag := strings.TrimSpace(in.EarTagID)
	rfid := strings.TrimSpace(in.RFID)

	res := SearchResult{
		AllPregChecks: strings.EqualFold(earTag, "all") || strings.EqualFold(rfid, "all"),
		Defaults:      FormDefaults{BreedingSeason: currentSeason},
	}

	if latest, err := s.repo.LatestSeason(ctx); err == nil {
		res.LatestSeason = latest
	}

	if res.AllPregChecks {
		recs, err := s.BySeason(ctx, currentSeason)
		if err != nil {
			return SearchResult{}, err
		}
		res.Records = recs
		return res, nil
	}

	if earTag == "" && rfid == "" {
		return res, nil
	}

	var by *int
	if y := strings.TrimSpace(in.BirthYear); y != "" {
		n, err := strconv.Atoi(y)
		if err != nil {
			return SearchResult{}, ErrInvalidInput
		}
		by = &n
		res.Defaults.BirthYear = by
	}

	cows, err := s.cows.Match(ctx, cattle.MatchQuery{EarTagID: earTag, RFID: rfid, BirthYear: by})
	if err != nil {
		return SearchResult{}, err
	}

	res.AnimalExists = len(cows) > 0
	res.MultipleMatches = len(cows) > 1

	years := map[int]struct{}{}
	ids := make([]string, 0, len(cows))
	for _, c := range cows {
		ids = append(ids, c.ID)
		if c.HasBirthYear() {
			years[*c.BirthYear] = struct{}{}
		}
	}
	for y := range years {
		res.DistinctBirthYears = append(res.DistinctBirthYears, y)
	}
	sort.Ints(res.DistinctBirthYears)

	if len(cows) == 1 {
		c := cows[0]
		res.Cow = &c
		res.Defaults.EarTagID = c.EarTagID
		res.Defaults.RFID = c.RFID
		res.Defaults.BirthYear = c.BirthYear

		// Recheck por defecto si el animal ya fue palpado esta temporada.
		n, err := s.repo.CountByCowAndSeason(ctx, c.ID, currentSeason)
		if err == nil && n > 0 {
			res.Defaults.Recheck = true
		}

		// Arrastrar la fecha de tacto solo dentro de la misma jornada.
		if last, err := s.repo.LastCreated(ctx); err == nil {
			if sameDay(last.CreatedAt, s.now()) {
				res.Defaults.CheckDate = last.CheckDate
			}
		}
	}

	if len(cows) > 0 {
		checks, err := s.repo.ListByCows(ctx, ids)
		if err != nil {
			return SearchResult{}, err
		}
		res.Records = s.annotateAll(ctx, checks)
	}

	return res, nil
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.UTC().Date()
	by, bm, bd := b.UTC().Date()
	return ay == by && am == bm && ad == bd
}
