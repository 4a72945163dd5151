// Package ui es la capa de interacción de la página del shell: un cliente
// tipado contra el server local más el estado de vista (paneles, overlays,
// formularios) que el shell de escritorio dibuja.
package ui

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"ranch-pregcheck/internal/platform/httpclient"
)

const csrfCookieName = "csrftoken"

// ServerClient habla con el server local. El jar de cookies conserva el
// token CSRF; cada llamada mutante lo devuelve como header.
type ServerClient struct {
	http *httpclient.Client
}

func NewServerClient(baseURL string, timeout time.Duration) (*ServerClient, error) {
	c, err := httpclient.NewWithJar(baseURL, timeout)
	if err != nil {
		return nil, err
	}
	return &ServerClient{http: c}, nil
}

// Bootstrap hace un GET inicial para que el server emita la cookie CSRF
// antes del primer POST.
func (c *ServerClient) Bootstrap(ctx context.Context) error {
	var out struct {
		BreedingSeason int `json:"breeding_season"`
	}
	return c.http.DoJSON(ctx, http.MethodGet, "/pregchecks/current-breeding-season/", nil, nil, &out)
}

func (c *ServerClient) csrfHeader() map[string]string {
	token := c.http.CookieValue(csrfCookieName)
	if token == "" {
		return nil
	}
	return map[string]string{"X-CSRF-Token": token}
}

// PregCheckEntry es la fila que devuelve el server para cada chequeo.
type PregCheckEntry struct {
	ID              string  `json:"id"`
	EarTagID        string  `json:"ear_tag_id"`
	RFID            string  `json:"rfid,omitempty"`
	AnimalBirthYear *int    `json:"animal_birth_year"`
	BreedingSeason  int     `json:"breeding_season"`
	CheckDate       *string `json:"check_date"`
	IsPregnant      *bool   `json:"is_pregnant"`
	Recheck         bool    `json:"recheck"`
	ShouldSell      bool    `json:"should_sell"`
	Comments        string  `json:"comments,omitempty"`
}

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

type CowExistsResult struct {
	Exists          bool   `json:"exists"`
	MultipleMatches bool   `json:"multiple_matches"`
	RFID            string `json:"rfid"`
	BirthYear       *int   `json:"birth_year"`
}

func (c *ServerClient) PreviousPregChecks(ctx context.Context, limit int) ([]PregCheckEntry, error) {
	path := "/pregchecks/previous-pregchecks/"
	if limit > 0 {
		path += "?limit=" + strconv.Itoa(limit)
	}

	var out struct {
		PregChecks []PregCheckEntry `json:"pregchecks"`
	}
	if err := c.http.DoJSON(ctx, http.MethodGet, path, nil, nil, &out); err != nil {
		return nil, err
	}
	return out.PregChecks, nil
}

func (c *ServerClient) SummaryStats(ctx context.Context, season string) (SummaryStats, error) {
	var out SummaryStats
	err := c.http.DoJSON(ctx, http.MethodGet,
		"/pregchecks/summary-stats/?stats_breeding_season="+season, nil, nil, &out)
	return out, err
}

func (c *ServerClient) CreatePregCheck(ctx context.Context, fields map[string]string) error {
	return c.http.DoForm(ctx, http.MethodPost, "/pregchecks/create/", c.csrfHeader(), fields, nil)
}

func (c *ServerClient) PregCheck(ctx context.Context, id string) (PregCheckEntry, error) {
	var out PregCheckEntry
	err := c.http.DoJSON(ctx, http.MethodGet, "/pregchecks/"+id+"/", nil, nil, &out)
	return out, err
}

func (c *ServerClient) EditPregCheck(ctx context.Context, id string, fields map[string]string) error {
	return c.http.DoForm(ctx, http.MethodPost, "/pregchecks/"+id+"/edit/", c.csrfHeader(), fields, nil)
}

func (c *ServerClient) CurrentSeason(ctx context.Context) (int, error) {
	var out struct {
		BreedingSeason int `json:"breeding_season"`
	}
	err := c.http.DoJSON(ctx, http.MethodGet, "/pregchecks/current-breeding-season/", nil, nil, &out)
	return out.BreedingSeason, err
}

func (c *ServerClient) SetSeason(ctx context.Context, year int) error {
	in := map[string]int{"breeding_season": year}
	return c.http.DoJSON(ctx, http.MethodPost, "/pregchecks/current-breeding-season/", c.csrfHeader(), in, nil)
}

func (c *ServerClient) CowExists(ctx context.Context, earTagID string) (CowExistsResult, error) {
	var out CowExistsResult
	err := c.http.DoJSON(ctx, http.MethodGet, "/cow/exists?ear_tag_id="+url.QueryEscape(earTagID), nil, nil, &out)
	return out, err
}

func (c *ServerClient) CreateCow(ctx context.Context, fields map[string]string) error {
	return c.http.DoForm(ctx, http.MethodPost, "/cows/create/", c.csrfHeader(), fields, nil)
}

func (c *ServerClient) UpdateCow(ctx context.Context, fields map[string]string) error {
	return c.http.DoForm(ctx, http.MethodPost, "/cows/update/", c.csrfHeader(), fields, nil)
}
