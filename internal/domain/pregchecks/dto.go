package pregchecks

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

// pregCheckForm es el formulario multipart tal como lo manda la página,
// campos de texto incluidos los checkboxes ("on"/"true").
type pregCheckForm struct {
	EarTagID       string
	RFID           string
	BirthYear      string
	NoID           string
	BreedingSeason string
	CheckDate      string
	IsPregnant     string
	Recheck        string
	ShouldSell     string
	Comments       string
}

func parsePregCheckForm(r *http.Request) (pregCheckForm, error) {
	if err := r.ParseMultipartForm(1 << 20); err != nil {
		if err := r.ParseForm(); err != nil {
			return pregCheckForm{}, err
		}
	}
	return pregCheckForm{
		EarTagID:       r.FormValue("pregcheck_ear_tag_id"),
		RFID:           r.FormValue("pregcheck_rfid"),
		BirthYear:      r.FormValue("birth_year"),
		NoID:           r.FormValue("no_id"),
		BreedingSeason: r.FormValue("breeding_season"),
		CheckDate:      r.FormValue("check_date"),
		IsPregnant:     r.FormValue("is_pregnant"),
		Recheck:        r.FormValue("recheck"),
		ShouldSell:     r.FormValue("should_sell"),
		Comments:       r.FormValue("comments"),
	}, nil
}

// editForm usa los nombres de campo del formulario de edición (sin el
// prefijo pregcheck_, igual que la fuente original).
func parseEditForm(r *http.Request) (pregCheckForm, error) {
	if err := r.ParseMultipartForm(1 << 20); err != nil {
		if err := r.ParseForm(); err != nil {
			return pregCheckForm{}, err
		}
	}
	return pregCheckForm{
		EarTagID:       r.FormValue("ear_tag_id"),
		BirthYear:      r.FormValue("birth_year"),
		BreedingSeason: r.FormValue("breeding_season"),
		CheckDate:      r.FormValue("check_date"),
		IsPregnant:     r.FormValue("is_pregnant"),
		Recheck:        r.FormValue("recheck"),
		ShouldSell:     r.FormValue("should_sell"),
		Comments:       r.FormValue("comments"),
	}, nil
}

// Validate chequea formato de campos; la regla de identidad (caravana/RFID
// vs no_id) la valida el service porque necesita contexto de negocio.
func (f pregCheckForm) Validate() error {
	return validation.ValidateStruct(&f,
		validation.Field(&f.BreedingSeason,
			validation.Required,
			validation.Length(4, 4),
			is.Digit,
		),
		validation.Field(&f.BirthYear,
			validation.When(f.BirthYear != "", validation.Length(4, 4), is.Digit),
		),
		validation.Field(&f.CheckDate,
			validation.When(f.CheckDate != "", validation.Date("2006-01-02")),
		),
		validation.Field(&f.IsPregnant,
			validation.When(f.IsPregnant != "", validation.In("true", "True", "false", "False")),
		),
	)
}

func (f pregCheckForm) toCreateInput() (CreateInput, error) {
	season, _ := strconv.Atoi(f.BreedingSeason)

	cd, err := parseDate(f.CheckDate)
	if err != nil {
		return CreateInput{}, err
	}

	return CreateInput{
		EarTagID:       f.EarTagID,
		RFID:           f.RFID,
		BirthYear:      f.BirthYear,
		NoID:           formBool(f.NoID),
		BreedingSeason: season,
		CheckDate:      cd,
		IsPregnant:     formBoolPtr(f.IsPregnant),
		Recheck:        formBool(f.Recheck),
		ShouldSell:     formBool(f.ShouldSell),
		Comments:       f.Comments,
	}, nil
}

func (f pregCheckForm) toEditInput() (EditInput, error) {
	season, _ := strconv.Atoi(f.BreedingSeason)

	cd, err := parseDate(f.CheckDate)
	if err != nil {
		return EditInput{}, err
	}

	return EditInput{
		EarTagID:       f.EarTagID,
		BirthYear:      f.BirthYear,
		BreedingSeason: season,
		CheckDate:      cd,
		IsPregnant:     formBoolPtr(f.IsPregnant),
		Recheck:        formBool(f.Recheck),
		ShouldSell:     formBool(f.ShouldSell),
		Comments:       f.Comments,
	}, nil
}

func parseDate(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func formBool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "on", "true", "1":
		return true
	default:
		return false
	}
}

func formBoolPtr(s string) *bool {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return nil
	}
	b := s == "true" || s == "on" || s == "1"
	return &b
}
