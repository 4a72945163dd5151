package ui

import "testing"

func TestPanelToggleAndGlyph(t *testing.T) {
	p := Panel{Title: "Previous Entries", Open: true}

	if p.Glyph() != "▼" {
		t.Fatalf("open glyph = %q, want ▼", p.Glyph())
	}

	p.Toggle()
	if p.Open {
		t.Fatal("panel should be closed after toggle")
	}
	if p.Glyph() != "▲" {
		t.Fatalf("closed glyph = %q, want ▲", p.Glyph())
	}

	p.Toggle()
	if !p.Open || p.Glyph() != "▼" {
		t.Fatal("second toggle should reopen the panel")
	}
}

func TestOverlayHide_IdempotentAcrossPaths(t *testing.T) {
	// cerrar por botón, por cancelar o por backdrop deja lo mismo:
	// oculto, y repetir no cambia nada
	var o Overlay
	o.Show()
	if !o.Visible {
		t.Fatal("Show should make the overlay visible")
	}

	o.Hide()
	o.Hide()
	if o.Visible {
		t.Fatal("Hide must be idempotent")
	}

	o.Show()
	o.HideFromBackdrop("modal", "modal")
	if o.Visible {
		t.Fatal("backdrop click on the container must hide")
	}
	o.HideFromBackdrop("modal", "modal")
	if o.Visible {
		t.Fatal("repeated backdrop hide must stay hidden")
	}
}

func TestOverlayHideFromBackdrop_IgnoresContentClicks(t *testing.T) {
	var o Overlay
	o.Show()

	o.HideFromBackdrop("save-button", "modal")
	if !o.Visible {
		t.Fatal("click inside the dialog must not close it")
	}
}

func TestOverlaysAreIndependent(t *testing.T) {
	var all Overlays
	all.EditCow.Show()
	all.PregCheckEdit.Show()

	all.EditCow.Hide()
	if all.EditCow.Visible {
		t.Fatal("edit-cow should be hidden")
	}
	if !all.PregCheckEdit.Visible {
		t.Fatal("hiding one overlay must not touch another")
	}
}

func TestCloseNotice_HidesBothNoticeOverlays(t *testing.T) {
	var all Overlays
	all.NoAnimal.Show()
	all.Message.Show()
	all.EditCow.Show()

	all.CloseNotice()

	if all.NoAnimal.Visible || all.Message.Visible {
		t.Fatal("CloseNotice must hide both notice overlays")
	}
	if !all.EditCow.Visible {
		t.Fatal("CloseNotice must not touch the edit overlay")
	}
}
