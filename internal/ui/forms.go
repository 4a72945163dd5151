package ui

import (
	"errors"
	"strconv"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

// Validación de cortesía, antes de tocar la red. El server aplica las
// mismas reglas de forma autoritativa; acá solo evitamos requests que van
// a fallar seguro y mostramos el error al lado del campo.
var (
	ErrMissingIdentifier  = errors.New("enter an ear tag or an RFID, or mark the animal as having no identifier")
	ErrIdentifierWithNoID = errors.New("an identifier and the no-identifier mark cannot be combined")
	ErrInvalidSeason      = errors.New("breeding season must be a 4-digit year")
)

// PregCheckForm es el formulario de alta tal como lo completa el usuario.
type PregCheckForm struct {
	EarTagID  string
	RFID      string
	BirthYear string
	NoID      bool

	BreedingSeason string
	CheckDate      string // YYYY-MM-DD
	IsPregnant     string // "true" / "false" / ""
	Recheck        bool
	ShouldSell     bool
	Comments       string
}

// Validate aplica la regla de identidad y los formatos de campo. Si
// devuelve error, no se manda ningún request.
func (f PregCheckForm) Validate() error {
	hasID := strings.TrimSpace(f.EarTagID) != "" || strings.TrimSpace(f.RFID) != ""

	if !hasID && !f.NoID {
		return ErrMissingIdentifier
	}
	if hasID && f.NoID {
		return ErrIdentifierWithNoID
	}

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
	)
}

// Fields arma el payload multipart con los nombres de campo que espera el
// server.
func (f PregCheckForm) Fields() map[string]string {
	fields := map[string]string{
		"pregcheck_ear_tag_id": f.EarTagID,
		"pregcheck_rfid":       f.RFID,
		"birth_year":           f.BirthYear,
		"breeding_season":      f.BreedingSeason,
		"check_date":           f.CheckDate,
		"is_pregnant":          f.IsPregnant,
		"comments":             f.Comments,
	}
	if f.NoID {
		fields["no_id"] = "true"
	}
	if f.Recheck {
		fields["recheck"] = "true"
	}
	if f.ShouldSell {
		fields["should_sell"] = "true"
	}
	return fields
}

// EditForm es el overlay de edición, precargado desde el detalle del server.
type EditForm struct {
	ID string

	EarTagID       string
	BirthYear      string
	BreedingSeason string
	CheckDate      string
	IsPregnant     string
	Recheck        bool
	ShouldSell     bool
	Comments       string
}

func (f EditForm) Validate() error {
	return validation.ValidateStruct(&f,
		validation.Field(&f.BreedingSeason,
			validation.Required,
			validation.Length(4, 4),
			is.Digit,
		),
		validation.Field(&f.CheckDate,
			validation.When(f.CheckDate != "", validation.Date("2006-01-02")),
		),
	)
}

func (f EditForm) Fields() map[string]string {
	fields := map[string]string{
		"ear_tag_id":      f.EarTagID,
		"birth_year":      f.BirthYear,
		"breeding_season": f.BreedingSeason,
		"check_date":      f.CheckDate,
		"is_pregnant":     f.IsPregnant,
		"comments":        f.Comments,
	}
	if f.Recheck {
		fields["recheck"] = "true"
	}
	if f.ShouldSell {
		fields["should_sell"] = "true"
	}
	return fields
}

// editFormFromEntry precarga el overlay desde el detalle que devuelve el
// server, campo por campo.
func editFormFromEntry(e PregCheckEntry) EditForm {
	f := EditForm{
		ID:             e.ID,
		EarTagID:       e.EarTagID,
		BreedingSeason: strconv.Itoa(e.BreedingSeason),
		Recheck:        e.Recheck,
		ShouldSell:     e.ShouldSell,
		Comments:       e.Comments,
	}
	if e.AnimalBirthYear != nil {
		f.BirthYear = strconv.Itoa(*e.AnimalBirthYear)
	}
	if e.CheckDate != nil {
		f.CheckDate = *e.CheckDate
	}
	if e.IsPregnant != nil {
		if *e.IsPregnant {
			f.IsPregnant = "true"
		} else {
			f.IsPregnant = "false"
		}
	}
	return f
}

// ValidateSeason exige exactamente 4 caracteres numéricos (la regla de la
// página para el input de temporada de stats).
func ValidateSeason(s string) error {
	if len(s) != 4 {
		return ErrInvalidSeason
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return ErrInvalidSeason
		}
	}
	return nil
}
