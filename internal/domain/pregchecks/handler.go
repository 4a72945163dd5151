package pregchecks

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"ranch-pregcheck/internal/domain/cattle"
	"ranch-pregcheck/internal/domain/seasons"

	"github.com/go-chi/chi/v5"
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Las rutas de temporada actual viven bajo /pregchecks/, por eso el módulo
// recibe también el service de seasons (igual que pets recibe grants).
func RegisterRoutes(r chi.Router, svc *Service, seasonsSvc *seasons.Service) {
	r.Route("/pregchecks", func(pr chi.Router) {
		// Página de búsqueda / listado
		pr.Get("/", searchPregChecksHandler(svc, seasonsSvc))

		pr.Get("/previous-pregchecks/", previousPregChecksHandler(svc, seasonsSvc))
		pr.Get("/summary-stats/", summaryStatsHandler(svc))
		pr.Get("/list/{breedingSeason}", listBySeasonHandler(svc))

		pr.Post("/create/", createPregCheckHandler(svc))

		pr.Get("/current-breeding-season/", currentSeasonHandler(seasonsSvc))
		pr.Post("/current-breeding-season/", updateSeasonHandler(seasonsSvc))

		pr.Get("/{pregCheckID}/", pregCheckDetailHandler(svc))
		pr.Post("/{pregCheckID}/edit/", editPregCheckHandler(svc))
	})
}

type pregCheckResponse struct {
	ID              string    `json:"id"`
	EarTagID        string    `json:"ear_tag_id"`
	RFID            string    `json:"rfid,omitempty"`
	AnimalBirthYear *int      `json:"animal_birth_year"`
	BreedingSeason  int       `json:"breeding_season"`
	CheckDate       *string   `json:"check_date"` // YYYY-MM-DD
	IsPregnant      *bool     `json:"is_pregnant"`
	Recheck         bool      `json:"recheck"`
	ShouldSell      bool      `json:"should_sell"`
	Comments        string    `json:"comments,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	LastModified    time.Time `json:"last_modified"`
}

type previousPregChecksResponse struct {
	PregChecks []pregCheckResponse `json:"pregchecks"`
}

type searchResponse struct {
	Records            []pregCheckResponse `json:"records"`
	AnimalExists       bool                `json:"animal_exists"`
	MultipleMatches    bool                `json:"multiple_matches"`
	DistinctBirthYears []int               `json:"distinct_birth_years,omitempty"`
	Cow                *cowSummary         `json:"cow,omitempty"`
	AllPregChecks      bool                `json:"all_pregchecks"`
	LatestSeason       int                 `json:"latest_season,omitempty"`
	Defaults           FormDefaults        `json:"defaults"`
}

type cowSummary struct {
	ID        string `json:"id"`
	EarTagID  string `json:"ear_tag_id"`
	RFID      string `json:"rfid,omitempty"`
	BirthYear *int   `json:"birth_year"`
}

type seasonResponse struct {
	BreedingSeason int `json:"breeding_season"`
}

type seasonUpdateRequest struct {
	BreedingSeason int `json:"breeding_season"`
}

// searchPregChecksHandler godoc
// @Summary Buscar chequeos por caravana o RFID
// @Description Devuelve los chequeos del animal que matchea, más los defaults con los que la página precarga el formulario de alta. La palabra clave "all" lista la temporada actual completa.
// @Tags pregchecks
// @Produce json
// @Param search_ear_tag_id query string false "Caravana"
// @Param search_rfid query string false "RFID (EID)"
// @Param search_birth_year query string false "Año de nacimiento"
// @Success 200 {object} searchResponse
// @Router /pregchecks/ [get]
func searchPregChecksHandler(svc *Service, seasonsSvc *seasons.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		in := SearchInput{
			EarTagID:  q.Get("search_ear_tag_id"),
			RFID:      q.Get("search_rfid"),
			BirthYear: q.Get("search_birth_year"),
		}

		season, err := seasonsSvc.Current(r.Context())
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		res, err := svc.Search(r.Context(), season, in)
		if err != nil {
			writeServiceError(w, err)
			return
		}

		out := searchResponse{
			Records:            toPregCheckResponses(res.Records),
			AnimalExists:       res.AnimalExists,
			MultipleMatches:    res.MultipleMatches,
			DistinctBirthYears: res.DistinctBirthYears,
			AllPregChecks:      res.AllPregChecks,
			LatestSeason:       res.LatestSeason,
			Defaults:           res.Defaults,
		}
		if res.Cow != nil {
			out.Cow = &cowSummary{
				ID:        res.Cow.ID,
				EarTagID:  res.Cow.EarTagID,
				RFID:      res.Cow.RFID,
				BirthYear: res.Cow.BirthYear,
			}
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// previousPregChecksHandler godoc
// @Summary Últimos chequeos de la temporada actual
// @Tags pregchecks
// @Produce json
// @Param limit query int false "Cantidad máxima (default 5)"
// @Success 200 {object} previousPregChecksResponse
// @Router /pregchecks/previous-pregchecks/ [get]
func previousPregChecksHandler(svc *Service, seasonsSvc *seasons.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := 0
		if raw := r.URL.Query().Get("limit"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil || n < 0 {
				http.Error(w, "limit must be a non-negative integer", http.StatusBadRequest)
				return
			}
			limit = n
		}

		season, err := seasonsSvc.Current(r.Context())
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		recs, err := svc.Previous(r.Context(), season, limit)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, previousPregChecksResponse{PregChecks: toPregCheckResponses(recs)})
	}
}

// summaryStatsHandler godoc
// @Summary Resumen de preñez de una temporada
// @Tags pregchecks
// @Produce json
// @Param stats_breeding_season query string true "Temporada (YYYY)"
// @Success 200 {object} SummaryStats
// @Failure 400 {string} string "stats_breeding_season parameter is required"
// @Router /pregchecks/summary-stats/ [get]
func summaryStatsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		raw := strings.TrimSpace(r.URL.Query().Get("stats_breeding_season"))
		if raw == "" {
			writeJSON(w, http.StatusBadRequest, map[string]string{
				"error": "stats_breeding_season parameter is required",
			})
			return
		}
		season, err := strconv.Atoi(raw)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{
				"error": "stats_breeding_season must be a year",
			})
			return
		}

		stats, err := svc.Stats(r.Context(), season)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, stats)
	}
}

func listBySeasonHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		season, err := strconv.Atoi(chi.URLParam(r, "breedingSeason"))
		if err != nil {
			http.Error(w, "breeding season must be a year", http.StatusBadRequest)
			return
		}

		recs, err := svc.BySeason(r.Context(), season)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, previousPregChecksResponse{PregChecks: toPregCheckResponses(recs)})
	}
}

// createPregCheckHandler godoc
// @Summary Registrar un chequeo de preñez
// @Description Acepta el formulario multipart de la página. La regla de identidad (caravana/RFID o marca de "sin identificador", nunca ambas) se valida acá de forma autoritativa.
// @Tags pregchecks
// @Accept mpfd
// @Produce json
// @Success 200 {object} pregCheckResponse
// @Failure 400 {object} map[string]string
// @Router /pregchecks/create/ [post]
func createPregCheckHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		form, err := parsePregCheckForm(r)
		if err != nil {
			http.Error(w, "invalid form", http.StatusBadRequest)
			return
		}
		if err := form.Validate(); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"errors": err.Error()})
			return
		}

		in, err := form.toCreateInput()
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"errors": "check_date must be YYYY-MM-DD"})
			return
		}

		rec, err := svc.Create(r.Context(), in)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toPregCheckResponse(rec))
	}
}

func pregCheckDetailHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rec, err := svc.Detail(r.Context(), chi.URLParam(r, "pregCheckID"))
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toPregCheckResponse(rec))
	}
}

// editPregCheckHandler godoc
// @Summary Editar un chequeo existente
// @Description Si viene caravana (y año) reasigna el chequeo a esa vaca; si no existe, devuelve error. Un chequeo nunca se borra por esta vía.
// @Tags pregchecks
// @Accept mpfd
// @Produce json
// @Success 200 {object} map[string]bool
// @Failure 400 {object} map[string]string
// @Router /pregchecks/{pregCheckID}/edit/ [post]
func editPregCheckHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		form, err := parseEditForm(r)
		if err != nil {
			http.Error(w, "invalid form", http.StatusBadRequest)
			return
		}
		if err := form.Validate(); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"errors": err.Error()})
			return
		}

		in, err := form.toEditInput()
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"errors": "check_date must be YYYY-MM-DD"})
			return
		}

		if _, err := svc.Edit(r.Context(), chi.URLParam(r, "pregCheckID"), in); err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]bool{"success": true})
	}
}

// currentSeasonHandler godoc
// @Summary Temporada de servicio actual
// @Tags seasons
// @Produce json
// @Success 200 {object} seasonResponse
// @Router /pregchecks/current-breeding-season/ [get]
func currentSeasonHandler(seasonsSvc *seasons.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		season, err := seasonsSvc.Current(r.Context())
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, seasonResponse{BreedingSeason: season})
	}
}

// updateSeasonHandler godoc
// @Summary Cambiar la temporada de servicio actual
// @Tags seasons
// @Accept json
// @Produce json
// @Param request body seasonUpdateRequest true "Temporada nueva"
// @Success 200 {object} map[string]string
// @Failure 400 {object} map[string]string
// @Router /pregchecks/current-breeding-season/ [post]
func updateSeasonHandler(seasonsSvc *seasons.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req seasonUpdateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{
				"status":  "error",
				"message": "invalid json",
			})
			return
		}

		if err := seasonsSvc.Set(r.Context(), req.BreedingSeason); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{
				"status":  "error",
				"message": err.Error(),
			})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "success"})
	}
}

func toPregCheckResponse(rec Record) pregCheckResponse {
	var cd *string
	if rec.CheckDate != nil {
		s := rec.CheckDate.Format("2006-01-02")
		cd = &s
	}
	return pregCheckResponse{
		ID:              rec.ID,
		EarTagID:        rec.EarTagID,
		RFID:            rec.RFID,
		AnimalBirthYear: rec.AnimalBirthYear,
		BreedingSeason:  rec.BreedingSeason,
		CheckDate:       cd,
		IsPregnant:      rec.IsPregnant,
		Recheck:         rec.Recheck,
		ShouldSell:      rec.ShouldSell,
		Comments:        rec.Comments,
		CreatedAt:       rec.CreatedAt,
		LastModified:    rec.LastModified,
	}
}

func toPregCheckResponses(recs []Record) []pregCheckResponse {
	out := make([]pregCheckResponse, 0, len(recs))
	for _, rec := range recs {
		out = append(out, toPregCheckResponse(rec))
	}
	return out
}

func writeServiceError(w http.ResponseWriter, err error) {
	var verrs validation.Errors
	switch {
	case errors.Is(err, ErrMissingIdentifier),
		errors.Is(err, ErrIdentifierWithNoID),
		errors.Is(err, ErrNoMatchingCow),
		errors.Is(err, cattle.ErrAmbiguousMatch),
		errors.Is(err, cattle.ErrConflictingIDs):
		writeJSON(w, http.StatusBadRequest, map[string]string{"errors": err.Error()})
	case errors.As(err, &verrs):
		writeJSON(w, http.StatusBadRequest, map[string]string{"errors": verrs.Error()})
	case errors.Is(err, ErrInvalidInput):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrNotFound):
		http.Error(w, "pregcheck not found", http.StatusNotFound)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

// writeJSON está duplicado intencionalmente en handlers de distintos módulos
// (cattle/pregchecks) para evitar crear paquetes/helpers compartidos
// demasiado pronto.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
