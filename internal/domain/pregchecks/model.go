package pregchecks

import "time"

// PregCheck es un evento de tacto (chequeo de preñez) de una vaca en una
// temporada de servicio. CowID puede estar vacío: el chequeo se registró
// explícitamente "sin identificador".
type PregCheck struct {
	ID    string
	CowID string

	BreedingSeason int
	CheckDate      *time.Time // solo fecha
	IsPregnant     *bool
	Recheck        bool
	ShouldSell     bool
	Comments       string

	CreatedAt    time.Time
	LastModified time.Time
}

// Record es un PregCheck anotado con los datos de identidad del animal,
// tal como lo consume el panel de entradas previas.
type Record struct {
	PregCheck

	EarTagID        string
	RFID            string
	AnimalBirthYear *int
}

// SummaryStats replica la aritmética de resumen de temporada de la fuente
// original, campo por campo.
type SummaryStats struct {
	FirstCheckPregnant  int     `json:"first_check_pregnant"`
	RecheckPregnant     int     `json:"recheck_pregnant"`
	TotalPregnant       int     `json:"total_pregnant"`
	FirstCheckOpen      int     `json:"first_check_open"`
	LessRecheckPregnant int     `json:"less_recheck_pregnant"`
	TotalOpen           int     `json:"total_open"`
	TotalCount          int     `json:"total_count"`
	PregnancyRate       float64 `json:"pregnancy_rate"`
}
