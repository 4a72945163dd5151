package cattle

import "time"

// Cow representa un animal registrado en el rancho.
// Identificación: caravana (ear tag) + año de nacimiento, o RFID.
// Unicidad: (EarTagID, BirthYear) juntos; RFID solo cuando está presente.
type Cow struct {
	ID string

	EarTagID  string
	BirthYear *int
	RFID      string // la fuente original lo llama "eid"

	Comments string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// HasBirthYear indica si el año de nacimiento está cargado (es opcional).
func (c Cow) HasBirthYear() bool {
	return c.BirthYear != nil
}
