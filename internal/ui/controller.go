package ui

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"ranch-pregcheck/internal/platform/logger"
)

const listingPath = "/pregchecks/"

// Options controla el comportamiento de la capa de página.
type Options struct {
	// NavigateDelay es la pausa entre el alta exitosa y la navegación al
	// listado. Default 2000ms.
	NavigateDelay time.Duration

	// PreviousLimit es cuántas entradas trae el panel de previas.
	PreviousLimit int

	// Schedule difiere una función; inyectable para tests. Default
	// time.AfterFunc.
	Schedule func(d time.Duration, fn func())

	// Navigate mueve la superficie visible a otra URL.
	Navigate func(url string)

	Log logger.Logger
}

// UpdateCowViewModel es el formulario de edición de vaca, precargado de
// forma declarativa desde la respuesta del chequeo de existencia.
type UpdateCowViewModel struct {
	Exists          bool
	MultipleMatches bool
	EarTagID        string
	RFID            string
	BirthYear       string
}

// Controller mantiene el estado de vista de la página y habla con el
// server a través del cliente tipado. Los errores se manejan donde
// ocurren: nada de acá tira abajo la capa.
type Controller struct {
	client *ServerClient
	opts   Options

	mu         sync.Mutex
	submitting bool

	EntriesPanel Panel
	StatsPanel   Panel
	Overlays     Overlays

	Edit      EditForm
	UpdateCow UpdateCowViewModel

	// Indicadores que la página muestra inline.
	InlineError  string
	SeasonError  string
	SuccessShown bool
	StatsText    string
	NoticeText   string

	CurrentSeason   string
	SecondarySeason string
}

func NewController(client *ServerClient, opts Options) *Controller {
	if opts.NavigateDelay <= 0 {
		opts.NavigateDelay = 2000 * time.Millisecond
	}
	if opts.PreviousLimit <= 0 {
		opts.PreviousLimit = 5
	}
	if opts.Schedule == nil {
		opts.Schedule = func(d time.Duration, fn func()) { time.AfterFunc(d, fn) }
	}
	if opts.Navigate == nil {
		opts.Navigate = func(string) {}
	}
	if opts.Log == nil {
		opts.Log = logger.NewFromEnv()
	}
	return &Controller{
		client:       client,
		opts:         opts,
		EntriesPanel: Panel{Title: "Previous Entries", Open: true},
		StatsPanel:   Panel{Title: "Summary Stats", Open: true},
	}
}

// SubmitPregCheck valida y manda el alta. Si la validación falla no sale
// ningún request. El guard evita dobles submits mientras hay uno en vuelo.
func (c *Controller) SubmitPregCheck(ctx context.Context, form PregCheckForm) error {
	if err := form.Validate(); err != nil {
		c.InlineError = err.Error()
		return err
	}

	c.mu.Lock()
	if c.submitting {
		c.mu.Unlock()
		return nil
	}
	c.submitting = true
	c.mu.Unlock()

	c.InlineError = ""

	if err := c.client.CreatePregCheck(ctx, form.Fields()); err != nil {
		c.InlineError = err.Error()
		c.mu.Lock()
		c.submitting = false
		c.mu.Unlock()
		return err
	}

	// Éxito: refrescar ambos paneles (el orden no importa), indicador
	// transitorio y navegación diferida al listado.
	if err := c.RefreshEntries(ctx); err != nil {
		c.opts.Log.Warn("refresh entries", map[string]any{"error": err.Error()})
	}
	if c.CurrentSeason != "" {
		if err := c.RefreshStats(ctx, c.CurrentSeason); err != nil {
			c.opts.Log.Warn("refresh stats", map[string]any{"error": err.Error()})
		}
	}

	c.SuccessShown = true
	c.opts.Schedule(c.opts.NavigateDelay, func() {
		c.opts.Navigate(listingPath)
	})
	return nil
}

// RefreshEntries rellena el panel de entradas previas.
func (c *Controller) RefreshEntries(ctx context.Context) error {
	entries, err := c.client.PreviousPregChecks(ctx, c.opts.PreviousLimit)
	if err != nil {
		return err
	}

	rows := make([]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, renderEntry(e))
	}
	c.EntriesPanel.Content = rows
	return nil
}

// RefreshStats valida la temporada (4 dígitos exactos) antes de pedir
// nada; con input inválido muestra el mensaje y no hay fetch.
func (c *Controller) RefreshStats(ctx context.Context, season string) error {
	if err := ValidateSeason(season); err != nil {
		c.SeasonError = err.Error()
		return err
	}
	c.SeasonError = ""

	stats, err := c.client.SummaryStats(ctx, season)
	if err != nil {
		return err
	}

	c.StatsText = FormatRate(stats.PregnancyRate)
	c.StatsPanel.Content = []string{
		fmt.Sprintf("First check pregnant: %d", stats.FirstCheckPregnant),
		fmt.Sprintf("Recheck pregnant: %d", stats.RecheckPregnant),
		fmt.Sprintf("Total pregnant: %d", stats.TotalPregnant),
		fmt.Sprintf("First check open: %d", stats.FirstCheckOpen),
		fmt.Sprintf("Total open: %d", stats.TotalOpen),
		fmt.Sprintf("Total: %d", stats.TotalCount),
		fmt.Sprintf("Pregnancy rate: %s", c.StatsText),
	}
	return nil
}

// FormatRate renderiza el porcentaje a 2 decimales ("80.00%").
func FormatRate(rate float64) string {
	return fmt.Sprintf("%.2f%%", rate)
}

// CheckCow consulta existencia por caravana y arma el view-model: si
// existe abre el overlay de edición precargado, si no el aviso con la
// opción de alta.
func (c *Controller) CheckCow(ctx context.Context, earTagID string) error {
	res, err := c.client.CowExists(ctx, earTagID)
	if err != nil {
		c.opts.Log.Warn("cow exists check", map[string]any{"error": err.Error()})
		return err
	}

	if !res.Exists {
		c.UpdateCow = UpdateCowViewModel{EarTagID: earTagID}
		c.NoticeText = fmt.Sprintf("Cow %s does not exist", earTagID)
		c.Overlays.NoAnimal.Show()
		return nil
	}

	vm := UpdateCowViewModel{
		Exists:          true,
		MultipleMatches: res.MultipleMatches,
		EarTagID:        earTagID,
		RFID:            res.RFID,
	}
	if res.BirthYear != nil {
		vm.BirthYear = strconv.Itoa(*res.BirthYear)
	}
	c.UpdateCow = vm
	c.Overlays.EditCow.Show()
	return nil
}

// OpenEdit trae el chequeo y abre el overlay de edición con los campos
// poblados.
func (c *Controller) OpenEdit(ctx context.Context, id string) error {
	entry, err := c.client.PregCheck(ctx, id)
	if err != nil {
		c.opts.Log.Warn("fetch pregcheck", map[string]any{"id": id, "error": err.Error()})
		return err
	}

	c.Edit = editFormFromEntry(entry)
	c.Overlays.PregCheckEdit.Show()
	return nil
}

// SubmitEdit manda la edición. Éxito cierra el overlay y recarga la
// página; un error del server se loguea y el overlay queda abierto.
func (c *Controller) SubmitEdit(ctx context.Context) error {
	if err := c.Edit.Validate(); err != nil {
		c.InlineError = err.Error()
		return err
	}

	if err := c.client.EditPregCheck(ctx, c.Edit.ID, c.Edit.Fields()); err != nil {
		c.opts.Log.Warn("edit pregcheck", map[string]any{"id": c.Edit.ID, "error": err.Error()})
		return err
	}

	c.Overlays.PregCheckEdit.Hide()
	c.opts.Navigate(listingPath)
	return nil
}

// ChangeSeason postea la temporada nueva cuando el input llega a 4
// caracteres válidos. Éxito la espeja en el campo secundario y refresca
// stats; la falla solo se loguea.
func (c *Controller) ChangeSeason(ctx context.Context, input string) error {
	if err := ValidateSeason(input); err != nil {
		c.SeasonError = err.Error()
		return err
	}

	year, _ := strconv.Atoi(input)
	if err := c.client.SetSeason(ctx, year); err != nil {
		c.opts.Log.Warn("set season", map[string]any{"error": err.Error()})
		return err
	}

	c.CurrentSeason = input
	c.SecondarySeason = input
	if err := c.RefreshStats(ctx, input); err != nil {
		c.opts.Log.Warn("refresh stats", map[string]any{"error": err.Error()})
	}
	return nil
}

func renderEntry(e PregCheckEntry) string {
	tag := e.EarTagID
	if tag == "" {
		tag = "(no id)"
	}

	status := "?"
	if e.IsPregnant != nil {
		if *e.IsPregnant {
			status = "pregnant"
		} else {
			status = "open"
		}
	}
	if e.Recheck {
		status += " (recheck)"
	}

	date := ""
	if e.CheckDate != nil {
		date = " " + *e.CheckDate
	}
	return fmt.Sprintf("%s %s%s", tag, status, date)
}
