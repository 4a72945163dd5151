package cattle

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	// La página consulta esto antes de decidir si muestra el formulario de
	// alta o el de edición.
	r.Get("/cow/exists", cowExistsHandler(svc))

	r.Route("/cows", func(cr chi.Router) {
		cr.Post("/create/", createCowHandler(svc))
		cr.Post("/update/", createUpdateCowHandler(svc))
	})
}

type existsResponse struct {
	Exists          bool   `json:"exists"`
	MultipleMatches bool   `json:"multiple_matches,omitempty"`
	RFID            string `json:"rfid,omitempty"`
	BirthYear       *int   `json:"birth_year,omitempty"`
}

type cowResponse struct {
	ID        string `json:"id"`
	EarTagID  string `json:"ear_tag_id"`
	BirthYear *int   `json:"birth_year"`
	RFID      string `json:"rfid"`
	Comments  string `json:"comments,omitempty"`
}

// cowExistsHandler godoc
// @Summary Chequear existencia de vaca por caravana
// @Description Devuelve si existe una vaca con esa caravana. Con un único match incluye rfid y birth_year para precargar el formulario de edición.
// @Tags cows
// @Produce json
// @Param ear_tag_id query string true "Caravana (ear tag)"
// @Success 200 {object} existsResponse
// @Failure 400 {string} string "ear_tag_id parameter is required"
// @Router /cow/exists [get]
func cowExistsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		earTag := strings.TrimSpace(r.URL.Query().Get("ear_tag_id"))
		if earTag == "" {
			writeJSON(w, http.StatusBadRequest, map[string]string{
				"error": "ear_tag_id parameter is required",
			})
			return
		}

		res, err := svc.Exists(r.Context(), earTag)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		resp := existsResponse{
			Exists:          res.Exists,
			MultipleMatches: res.MultipleMatches,
		}
		if res.Cow != nil {
			resp.RFID = res.Cow.RFID
			resp.BirthYear = res.Cow.BirthYear
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func createCowHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		in, err := parseUpsertForm(r)
		if err != nil {
			http.Error(w, "invalid form", http.StatusBadRequest)
			return
		}

		c, err := svc.Create(r.Context(), in)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toCowResponse(c))
	}
}

func createUpdateCowHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		in, err := parseUpsertForm(r)
		if err != nil {
			http.Error(w, "invalid form", http.StatusBadRequest)
			return
		}

		c, err := svc.CreateOrUpdate(r.Context(), in)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toCowResponse(c))
	}
}

func parseUpsertForm(r *http.Request) (UpsertInput, error) {
	// Los formularios de la página viajan como multipart; urlencoded
	// también se acepta para no complicar los tests manuales con curl.
	if err := r.ParseMultipartForm(1 << 20); err != nil {
		if err := r.ParseForm(); err != nil {
			return UpsertInput{}, err
		}
	}
	return UpsertInput{
		EarTagID:  r.FormValue("ear_tag_id"),
		RFID:      r.FormValue("rfid"),
		BirthYear: r.FormValue("birth_year"),
		Comments:  r.FormValue("comments"),
	}, nil
}

func toCowResponse(c Cow) cowResponse {
	return cowResponse{
		ID:        c.ID,
		EarTagID:  c.EarTagID,
		BirthYear: c.BirthYear,
		RFID:      c.RFID,
		Comments:  c.Comments,
	}
}

func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrAmbiguousMatch), errors.Is(err, ErrConflictingIDs):
		writeJSON(w, http.StatusBadRequest, map[string]string{"errors": err.Error()})
	case errors.Is(err, ErrNotFound):
		http.Error(w, "cow not found", http.StatusNotFound)
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
