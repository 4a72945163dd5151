package maintenance_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	mem "ranch-pregcheck/internal/adapters/storage/memory"
	"ranch-pregcheck/internal/domain/cattle"
	"ranch-pregcheck/internal/domain/maintenance"
	"ranch-pregcheck/internal/domain/pregchecks"
)

var header = []any{
	"ear_tag_id", "birth_year", "eid", "breeding_season",
	"check_date", "comments", "is_pregnant", "recheck",
}

func buildSheet(t *testing.T, rows ...[]any) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetRow("Sheet1", "A1", &header); err != nil {
		t.Fatal(err)
	}
	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow("Sheet1", cell, &row); err != nil {
			t.Fatal(err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatal(err)
	}
	return buf
}

func newImporter() (*maintenance.Importer, pregchecks.Repository) {
	checksRepo := mem.NewPregChecksRepo()
	cowsSvc := cattle.NewService(mem.NewCattleRepo())
	return maintenance.NewImporter(cowsSvc, checksRepo), checksRepo
}

func TestImport_CreatesCowsAndPregChecks(t *testing.T) {
	imp, checksRepo := newImporter()

	buf := buildSheet(t,
		[]any{"A123", "2020", "982001", "2025", "2025-08-15", "good", "true", "false"},
		[]any{"B456", "2021", "982002", "2025", "2025-08-15", "", "false", "true"},
		// mismo animal otra temporada: vaca existente, chequeo nuevo
		[]any{"A123", "2020", "982001", "2024", "2024-08-10", "", "true", "false"},
	)

	res, err := imp.Import(context.Background(), buf, false)
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Errors) != 0 {
		t.Fatalf("unexpected errors: %v", res.Errors)
	}
	if res.CowsCreated != 2 || res.PregChecksCreated != 3 {
		t.Fatalf("cows_created=%d pregchecks_created=%d, want 2/3", res.CowsCreated, res.PregChecksCreated)
	}

	all, err := checksRepo.ListAll(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 stored pregchecks, got %d", len(all))
	}
}

func TestImport_UpdatesRFIDWhenChanged(t *testing.T) {
	imp, _ := newImporter()
	ctx := context.Background()

	first := buildSheet(t,
		[]any{"A123", "2020", "982001", "2024", "2024-08-10", "", "true", "false"},
	)
	if _, err := imp.Import(ctx, first, false); err != nil {
		t.Fatal(err)
	}

	second := buildSheet(t,
		[]any{"A123", "2020", "982999", "2025", "2025-08-15", "", "true", "false"},
	)
	res, err := imp.Import(ctx, second, false)
	if err != nil {
		t.Fatal(err)
	}
	if res.CowsCreated != 0 || res.CowsUpdated != 1 {
		t.Fatalf("cows_created=%d cows_updated=%d, want 0/1", res.CowsCreated, res.CowsUpdated)
	}
}

func TestImport_RejectsDuplicateRowsWithRowNumbers(t *testing.T) {
	imp, checksRepo := newImporter()

	// filas 2 y 4 duplican (caravana, año, fecha); fila 3 es distinta
	buf := buildSheet(t,
		[]any{"A123", "2020", "", "2025", "2025-08-15", "", "true", "false"},
		[]any{"B456", "2021", "", "2025", "2025-08-15", "", "false", "false"},
		[]any{"A123", "2020", "", "2025", "2025-08-15", "", "false", "true"},
	)

	res, err := imp.Import(context.Background(), buf, false)
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Errors) != 1 {
		t.Fatalf("expected 1 duplicate error, got %v", res.Errors)
	}
	if !strings.Contains(res.Errors[0], "rows 2 and 4") {
		t.Fatalf("error should name spreadsheet rows, got %q", res.Errors[0])
	}

	// cualquier error aborta: no entra nada
	all, _ := checksRepo.ListAll(context.Background())
	if len(all) != 0 {
		t.Fatalf("expected nothing imported, got %d", len(all))
	}
}

func TestImport_RejectsDuplicateEID(t *testing.T) {
	imp, _ := newImporter()

	buf := buildSheet(t,
		[]any{"A123", "2020", "982001", "2025", "2025-08-15", "", "true", "false"},
		[]any{"B456", "2021", "982001", "2025", "2025-08-15", "", "false", "false"},
	)

	res, err := imp.Import(context.Background(), buf, false)
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Errors) != 1 || !strings.Contains(res.Errors[0], "duplicate eid") {
		t.Fatalf("expected duplicate eid error, got %v", res.Errors)
	}
}

func TestImport_MissingColumns(t *testing.T) {
	imp, _ := newImporter()

	f := excelize.NewFile()
	defer f.Close()
	short := []any{"ear_tag_id", "birth_year"}
	if err := f.SetSheetRow("Sheet1", "A1", &short); err != nil {
		t.Fatal(err)
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatal(err)
	}

	if _, err := imp.Import(context.Background(), buf, false); !errors.Is(err, maintenance.ErrMissingColumns) {
		t.Fatalf("got %v, want ErrMissingColumns", err)
	}
}

func TestImport_DryRunTouchesNothing(t *testing.T) {
	imp, checksRepo := newImporter()

	buf := buildSheet(t,
		[]any{"A123", "2020", "982001", "2025", "2025-08-15", "", "true", "false"},
	)

	res, err := imp.Import(context.Background(), buf, true)
	if err != nil {
		t.Fatal(err)
	}
	if !res.DryRun || res.PregChecksCreated != 1 {
		t.Fatalf("unexpected dry run result: %+v", res)
	}

	all, _ := checksRepo.ListAll(context.Background())
	if len(all) != 0 {
		t.Fatalf("dry run must not persist, got %d pregchecks", len(all))
	}
}

func TestImport_RowErrorsCollectRowNumbers(t *testing.T) {
	imp, _ := newImporter()

	buf := buildSheet(t,
		[]any{"A123", "veinte", "", "2025", "2025-08-15", "", "true", "false"},
		[]any{"B456", "2021", "", "", "2025-08-15", "", "maybe", "false"},
	)

	res, err := imp.Import(context.Background(), buf, false)
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Errors) != 3 {
		t.Fatalf("expected 3 row errors, got %v", res.Errors)
	}
	for _, e := range res.Errors[:1] {
		if !strings.Contains(e, "row 2") {
			t.Errorf("expected row number in %q", e)
		}
	}
}
