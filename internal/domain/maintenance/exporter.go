package maintenance

import (
	"context"
	"fmt"
	"io"

	"ranch-pregcheck/internal/domain/pregchecks"

	"github.com/xuri/excelize/v2"
)

const exportSheet = "pregchecks"

// Exporter arma la planilla xlsx con todos los chequeos, en el mismo
// formato de columnas que consume el import (el círculo cierra: exportar y
// volver a importar da el mismo dataset).
type Exporter struct {
	checks *pregchecks.Service
}

func NewExporter(checks *pregchecks.Service) *Exporter {
	return &Exporter{checks: checks}
}

func (e *Exporter) Export(ctx context.Context, w io.Writer) error {
	recs, err := e.checks.All(ctx)
	if err != nil {
		return err
	}

	f := excelize.NewFile()
	defer f.Close()

	idx, err := f.NewSheet(exportSheet)
	if err != nil {
		return err
	}
	f.SetActiveSheet(idx)
	// excelize siempre crea "Sheet1"; la sacamos para que quede solo la nuestra
	_ = f.DeleteSheet("Sheet1")

	header := []any{
		"ear_tag_id", "birth_year", "eid", "breeding_season",
		"check_date", "comments", "is_pregnant", "recheck",
	}
	if err := f.SetSheetRow(exportSheet, "A1", &header); err != nil {
		return err
	}

	for i, rec := range recs {
		row := []any{
			rec.EarTagID,
			intPtrCell(rec.AnimalBirthYear),
			rec.RFID,
			rec.BreedingSeason,
			dateCell(rec),
			rec.Comments,
			boolPtrCell(rec.IsPregnant),
			rec.Recheck,
		}
		cell := fmt.Sprintf("A%d", i+2)
		if err := f.SetSheetRow(exportSheet, cell, &row); err != nil {
			return err
		}
	}

	return f.Write(w)
}

func intPtrCell(n *int) any {
	if n == nil {
		return ""
	}
	return *n
}

func boolPtrCell(b *bool) any {
	if b == nil {
		return ""
	}
	return *b
}

func dateCell(rec pregchecks.Record) any {
	if rec.CheckDate == nil {
		return ""
	}
	return rec.CheckDate.Format("2006-01-02")
}
