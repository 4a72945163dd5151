package ui

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"ranch-pregcheck/internal/router"
)

type scheduled struct {
	delay time.Duration
	fn    func()
}

type pageSpies struct {
	scheduled []scheduled
	navigated []string
}

// newTestPage levanta el server real (backend en memoria) y un controller
// con Schedule y Navigate espiados, con temporada y una vaca ya cargadas.
func newTestPage(t *testing.T) (*Controller, *ServerClient, *pageSpies) {
	t.Helper()
	ctx := context.Background()

	srv := httptest.NewServer(router.NewRouter(router.Options{}))
	t.Cleanup(srv.Close)

	client, err := NewServerClient(srv.URL, 5*time.Second)
	if err != nil {
		t.Fatal(err)
	}
	if err := client.Bootstrap(ctx); err != nil {
		t.Fatalf("bootstrap: %v", err)
	}
	if err := client.SetSeason(ctx, 2025); err != nil {
		t.Fatalf("set season: %v", err)
	}
	if err := client.CreateCow(ctx, map[string]string{
		"ear_tag_id": "A123",
		"birth_year": "2020",
	}); err != nil {
		t.Fatalf("create cow: %v", err)
	}

	spies := &pageSpies{}
	ctrl := NewController(client, Options{
		NavigateDelay: 1500 * time.Millisecond,
		Schedule: func(d time.Duration, fn func()) {
			spies.scheduled = append(spies.scheduled, scheduled{delay: d, fn: fn})
		},
		Navigate: func(url string) {
			spies.navigated = append(spies.navigated, url)
		},
	})
	ctrl.CurrentSeason = "2025"
	return ctrl, client, spies
}

// newCountingClient apunta el cliente a un server que solo cuenta hits,
// para asegurar que los caminos inválidos no mandan ningún request.
func newCountingClient(t *testing.T) (*ServerClient, *atomic.Int64) {
	t.Helper()
	var hits atomic.Int64

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte("{}"))
	}))
	t.Cleanup(srv.Close)

	client, err := NewServerClient(srv.URL, time.Second)
	if err != nil {
		t.Fatal(err)
	}
	return client, &hits
}

func TestNewController_Defaults(t *testing.T) {
	client, _ := newCountingClient(t)
	ctrl := NewController(client, Options{})

	// la pausa entre el alta exitosa y la navegación al listado
	if ctrl.opts.NavigateDelay != 2000*time.Millisecond {
		t.Fatalf("default navigate delay = %v, want 2s", ctrl.opts.NavigateDelay)
	}
	if ctrl.opts.PreviousLimit != 5 {
		t.Fatalf("default previous limit = %d, want 5", ctrl.opts.PreviousLimit)
	}
	if ctrl.opts.Schedule == nil || ctrl.opts.Navigate == nil {
		t.Fatal("scheduler and navigate must have defaults")
	}
	if !ctrl.EntriesPanel.Open || !ctrl.StatsPanel.Open {
		t.Fatal("panels start open")
	}
}

func TestSubmitPregCheck_SuccessNavigatesAfterDelay(t *testing.T) {
	ctrl, _, spies := newTestPage(t)
	ctx := context.Background()

	err := ctrl.SubmitPregCheck(ctx, PregCheckForm{
		EarTagID:       "A123",
		BreedingSeason: "2025",
		CheckDate:      "2025-08-15",
		IsPregnant:     "true",
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	// 1. indicador transitorio y navegación diferida con la pausa
	// configurada
	if !ctrl.SuccessShown {
		t.Fatal("success indicator should be shown")
	}
	if len(spies.scheduled) != 1 {
		t.Fatalf("expected 1 scheduled navigation, got %d", len(spies.scheduled))
	}
	if spies.scheduled[0].delay != 1500*time.Millisecond {
		t.Fatalf("delay = %v, want 1.5s", spies.scheduled[0].delay)
	}

	// 2. al disparar el timer navega al listado
	spies.scheduled[0].fn()
	if len(spies.navigated) != 1 || spies.navigated[0] != "/pregchecks/" {
		t.Fatalf("navigated = %v, want [/pregchecks/]", spies.navigated)
	}

	// 3. el panel de previas quedó refrescado con la entrada nueva
	if len(ctrl.EntriesPanel.Content) != 1 {
		t.Fatalf("entries panel rows = %v", ctrl.EntriesPanel.Content)
	}
	if !strings.Contains(ctrl.EntriesPanel.Content[0], "A123") {
		t.Errorf("entry row %q should mention the ear tag", ctrl.EntriesPanel.Content[0])
	}
}

func TestSubmitPregCheck_InvalidFormSendsNothing(t *testing.T) {
	client, hits := newCountingClient(t)
	spies := &pageSpies{}
	ctrl := NewController(client, Options{
		Schedule: func(d time.Duration, fn func()) {
			spies.scheduled = append(spies.scheduled, scheduled{delay: d, fn: fn})
		},
	})

	err := ctrl.SubmitPregCheck(context.Background(), PregCheckForm{BreedingSeason: "2025"})
	if !errors.Is(err, ErrMissingIdentifier) {
		t.Fatalf("got %v, want ErrMissingIdentifier", err)
	}
	if ctrl.InlineError == "" {
		t.Error("inline error should be shown next to the form")
	}

	// identificador combinado con la marca no-id: tampoco viaja nada
	err = ctrl.SubmitPregCheck(context.Background(), PregCheckForm{
		EarTagID: "A123", NoID: true, BreedingSeason: "2025",
	})
	if !errors.Is(err, ErrIdentifierWithNoID) {
		t.Fatalf("got %v, want ErrIdentifierWithNoID", err)
	}
	if hits.Load() != 0 {
		t.Fatalf("invalid form must not hit the server, got %d requests", hits.Load())
	}
	if len(spies.scheduled) != 0 {
		t.Fatal("no navigation should be scheduled on validation failure")
	}
}

func TestSubmitPregCheck_ServerErrorReenablesForm(t *testing.T) {
	ctrl, _, spies := newTestPage(t)
	ctx := context.Background()

	// la caravana no matchea ninguna vaca: el server rechaza el alta
	err := ctrl.SubmitPregCheck(ctx, PregCheckForm{
		EarTagID:       "ZZZ9",
		BreedingSeason: "2025",
	})
	if err == nil {
		t.Fatal("expected a server-side rejection")
	}
	if ctrl.SuccessShown {
		t.Error("failure must not show the success indicator")
	}
	if len(spies.scheduled) != 0 {
		t.Error("failure must not schedule navigation")
	}

	// el guard se libera: un submit válido posterior entra
	if err := ctrl.SubmitPregCheck(ctx, PregCheckForm{NoID: true, BreedingSeason: "2025"}); err != nil {
		t.Fatalf("follow-up submit should succeed, got %v", err)
	}
	if !ctrl.SuccessShown {
		t.Fatal("follow-up submit should show success")
	}
}

func TestRefreshStats_FormatsRate(t *testing.T) {
	ctrl, client, _ := newTestPage(t)
	ctx := context.Background()

	// 4 preñadas y 1 vacía en la temporada: 80%
	for i := 0; i < 4; i++ {
		if err := client.CreatePregCheck(ctx, PregCheckForm{
			NoID: true, BreedingSeason: "2025", IsPregnant: "true",
		}.Fields()); err != nil {
			t.Fatal(err)
		}
	}
	if err := client.CreatePregCheck(ctx, PregCheckForm{
		NoID: true, BreedingSeason: "2025", IsPregnant: "false",
	}.Fields()); err != nil {
		t.Fatal(err)
	}

	if err := ctrl.RefreshStats(ctx, "2025"); err != nil {
		t.Fatalf("refresh stats: %v", err)
	}
	if ctrl.StatsText != "80.00%" {
		t.Fatalf("stats text = %q, want 80.00%%", ctrl.StatsText)
	}

	var rateRow string
	for _, row := range ctrl.StatsPanel.Content {
		if strings.HasPrefix(row, "Pregnancy rate:") {
			rateRow = row
		}
	}
	if !strings.Contains(rateRow, "80.00%") {
		t.Errorf("rate row = %q", rateRow)
	}
}

func TestRefreshStats_InvalidSeasonNoFetch(t *testing.T) {
	client, hits := newCountingClient(t)
	ctrl := NewController(client, Options{})

	err := ctrl.RefreshStats(context.Background(), "20a5")
	if !errors.Is(err, ErrInvalidSeason) {
		t.Fatalf("got %v, want ErrInvalidSeason", err)
	}
	if ctrl.SeasonError == "" {
		t.Error("season error should be shown")
	}
	if hits.Load() != 0 {
		t.Fatalf("invalid season must not hit the server, got %d requests", hits.Load())
	}
}

func TestCheckCow_OpensMatchingOverlay(t *testing.T) {
	ctrl, _, _ := newTestPage(t)
	ctx := context.Background()

	// 1. la vaca existe: overlay de edición con el view-model precargado
	if err := ctrl.CheckCow(ctx, "A123"); err != nil {
		t.Fatal(err)
	}
	if !ctrl.Overlays.EditCow.Visible {
		t.Fatal("edit-cow overlay should open for an existing cow")
	}
	if !ctrl.UpdateCow.Exists || ctrl.UpdateCow.EarTagID != "A123" || ctrl.UpdateCow.BirthYear != "2020" {
		t.Fatalf("view-model = %+v", ctrl.UpdateCow)
	}

	// 2. no existe: aviso con la opción de alta
	ctrl.Overlays.EditCow.Hide()
	if err := ctrl.CheckCow(ctx, "B999"); err != nil {
		t.Fatal(err)
	}
	if ctrl.Overlays.EditCow.Visible {
		t.Error("edit-cow overlay should stay hidden for a missing cow")
	}
	if !ctrl.Overlays.NoAnimal.Visible {
		t.Fatal("no-animal overlay should open for a missing cow")
	}
	if !strings.Contains(ctrl.NoticeText, "B999") {
		t.Errorf("notice %q should name the ear tag", ctrl.NoticeText)
	}
	if ctrl.UpdateCow.Exists || ctrl.UpdateCow.EarTagID != "B999" {
		t.Fatalf("view-model = %+v", ctrl.UpdateCow)
	}
}

func TestOpenEditAndSubmitEdit(t *testing.T) {
	ctrl, client, spies := newTestPage(t)
	ctx := context.Background()

	if err := client.CreatePregCheck(ctx, PregCheckForm{
		EarTagID: "A123", BreedingSeason: "2025", IsPregnant: "true",
	}.Fields()); err != nil {
		t.Fatal(err)
	}
	entries, err := client.PreviousPregChecks(ctx, 5)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}

	// 1. abrir el overlay precarga el formulario
	if err := ctrl.OpenEdit(ctx, entries[0].ID); err != nil {
		t.Fatal(err)
	}
	if !ctrl.Overlays.PregCheckEdit.Visible {
		t.Fatal("edit overlay should be visible")
	}
	if ctrl.Edit.ID != entries[0].ID || ctrl.Edit.EarTagID != "A123" {
		t.Fatalf("prefilled form = %+v", ctrl.Edit)
	}

	// 2. guardar cierra el overlay y recarga la página
	ctrl.Edit.Comments = "sell in fall"
	if err := ctrl.SubmitEdit(ctx); err != nil {
		t.Fatalf("submit edit: %v", err)
	}
	if ctrl.Overlays.PregCheckEdit.Visible {
		t.Fatal("edit overlay should close on success")
	}
	if len(spies.navigated) != 1 || spies.navigated[0] != "/pregchecks/" {
		t.Fatalf("navigated = %v", spies.navigated)
	}

	// 3. el cambio quedó persistido
	updated, err := client.PregCheck(ctx, entries[0].ID)
	if err != nil {
		t.Fatal(err)
	}
	if updated.Comments != "sell in fall" {
		t.Fatalf("comments = %q", updated.Comments)
	}
}

func TestChangeSeason_MirrorsBothInputs(t *testing.T) {
	ctrl, client, _ := newTestPage(t)
	ctx := context.Background()

	if err := ctrl.ChangeSeason(ctx, "2026"); err != nil {
		t.Fatal(err)
	}
	if ctrl.CurrentSeason != "2026" || ctrl.SecondarySeason != "2026" {
		t.Fatalf("season mirrors = %q / %q", ctrl.CurrentSeason, ctrl.SecondarySeason)
	}
	year, err := client.CurrentSeason(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if year != 2026 {
		t.Fatalf("server season = %d, want 2026", year)
	}

	// input incompleto: error inline y nada viaja al server
	if err := ctrl.ChangeSeason(ctx, "26"); !errors.Is(err, ErrInvalidSeason) {
		t.Fatalf("got %v, want ErrInvalidSeason", err)
	}
	if ctrl.SeasonError == "" {
		t.Error("season error should be shown")
	}
}
