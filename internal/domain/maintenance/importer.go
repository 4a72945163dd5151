package maintenance

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"ranch-pregcheck/internal/domain/cattle"
	"ranch-pregcheck/internal/domain/pregchecks"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
)

// Columnas obligatorias de la planilla, con los nombres del formato de
// exportación. "eid" es el RFID.
var requiredColumns = []string{
	"ear_tag_id",
	"birth_year",
	"eid",
	"breeding_season",
	"check_date",
	"comments",
	"is_pregnant",
	"recheck",
}

var ErrMissingColumns = errors.New("spreadsheet is missing required columns")

// Importer carga una planilla xlsx completa: get-or-create de cada vaca
// (refrescando el RFID si cambió) y alta de su chequeo. Cualquier error de
// fila aborta el import: o entra todo, o no entra nada.
type Importer struct {
	cows   *cattle.Service
	checks pregchecks.Repository
	now    func() time.Time
}

func NewImporter(cows *cattle.Service, checks pregchecks.Repository) *Importer {
	return &Importer{
		cows:   cows,
		checks: checks,
		now:    time.Now,
	}
}

type ImportResult struct {
	DryRun            bool     `json:"dry_run"`
	RowsRead          int      `json:"rows_read"`
	CowsCreated       int      `json:"cows_created"`
	CowsUpdated       int      `json:"cows_updated"`
	PregChecksCreated int      `json:"pregchecks_created"`
	Errors            []string `json:"errors,omitempty"`
	Summary           string   `json:"summary"`
}

type importRow struct {
	rowNum int // número de fila de la planilla (1 = encabezado)

	earTagID       string
	birthYear      string
	rfid           string
	breedingSeason int
	checkDate      *time.Time
	comments       string
	isPregnant     *bool
	recheck        bool
}

// Import procesa la planilla. Con dryRun solo valida y reporta qué haría.
func (im *Importer) Import(ctx context.Context, src io.Reader, dryRun bool) (ImportResult, error) {
	f, err := excelize.OpenReader(src)
	if err != nil {
		return ImportResult{}, fmt.Errorf("open spreadsheet: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return ImportResult{}, ErrMissingColumns
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return ImportResult{}, fmt.Errorf("read sheet: %w", err)
	}
	if len(rows) == 0 {
		return ImportResult{}, ErrMissingColumns
	}

	cols, err := mapColumns(rows[0])
	if err != nil {
		return ImportResult{}, err
	}

	res := ImportResult{DryRun: dryRun}
	var parsed []importRow

	for i, raw := range rows[1:] {
		rowNum := i + 2 // filas de planilla, contando el encabezado
		if rowEmpty(raw) {
			continue
		}
		res.RowsRead++

		row, errs := parseRow(rowNum, raw, cols)
		if len(errs) > 0 {
			res.Errors = append(res.Errors, errs...)
			continue
		}
		parsed = append(parsed, row)
	}

	res.Errors = append(res.Errors, findDuplicates(parsed)...)

	if len(res.Errors) > 0 {
		res.Summary = fmt.Sprintf("import aborted: %d error(s), nothing was imported", len(res.Errors))
		return res, nil
	}

	// Segunda pasada: sin dry run, aplicar fila por fila.
	for _, row := range parsed {
		if dryRun {
			res.PregChecksCreated++
			continue
		}

		cow, created, updated, err := im.cows.GetOrCreate(ctx, cattle.UpsertInput{
			EarTagID:  row.earTagID,
			RFID:      row.rfid,
			BirthYear: row.birthYear,
		})
		if err != nil {
			res.Errors = append(res.Errors, fmt.Sprintf("row %d: %v", row.rowNum, err))
			res.Summary = fmt.Sprintf("import aborted at row %d: %v", row.rowNum, err)
			return res, nil
		}
		if created {
			res.CowsCreated++
		}
		if updated {
			res.CowsUpdated++
		}

		now := im.now()
		err = im.checks.Create(ctx, pregchecks.PregCheck{
			ID:             uuid.NewString(),
			CowID:          cow.ID,
			BreedingSeason: row.breedingSeason,
			CheckDate:      row.checkDate,
			IsPregnant:     row.isPregnant,
			Recheck:        row.recheck,
			Comments:       row.comments,
			CreatedAt:      now,
			LastModified:   now,
		})
		if err != nil {
			res.Errors = append(res.Errors, fmt.Sprintf("row %d: %v", row.rowNum, err))
			res.Summary = fmt.Sprintf("import aborted at row %d: %v", row.rowNum, err)
			return res, nil
		}
		res.PregChecksCreated++
	}

	if dryRun {
		res.Summary = fmt.Sprintf("dry run: %d pregcheck(s) would be imported", res.PregChecksCreated)
	} else {
		res.Summary = fmt.Sprintf(
			"imported %d pregcheck(s); %d cow(s) created, %d cow(s) updated",
			res.PregChecksCreated, res.CowsCreated, res.CowsUpdated,
		)
	}
	return res, nil
}

func mapColumns(header []string) (map[string]int, error) {
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}

	var missing []string
	for _, name := range requiredColumns {
		if _, ok := cols[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumns, strings.Join(missing, ", "))
	}
	return cols, nil
}

func parseRow(rowNum int, raw []string, cols map[string]int) (importRow, []string) {
	cell := func(name string) string {
		i := cols[name]
		if i >= len(raw) {
			return ""
		}
		return strings.TrimSpace(raw[i])
	}

	row := importRow{
		rowNum:    rowNum,
		earTagID:  cell("ear_tag_id"),
		birthYear: cell("birth_year"),
		rfid:      cell("eid"),
		comments:  cell("comments"),
	}

	var errs []string

	if row.earTagID == "" && row.rfid == "" {
		errs = append(errs, fmt.Sprintf("row %d: ear_tag_id or eid is required", rowNum))
	}
	if row.earTagID == "" && row.rfid != "" {
		// el alta de vaca necesita caravana; un RFID suelto no alcanza
		errs = append(errs, fmt.Sprintf("row %d: ear_tag_id is required", rowNum))
	}

	if y := row.birthYear; y != "" {
		if _, err := strconv.Atoi(y); err != nil {
			errs = append(errs, fmt.Sprintf("row %d: birth_year %q is not a year", rowNum, y))
		}
	}

	season := cell("breeding_season")
	if season == "" {
		errs = append(errs, fmt.Sprintf("row %d: breeding_season is required", rowNum))
	} else if n, err := strconv.Atoi(season); err != nil {
		errs = append(errs, fmt.Sprintf("row %d: breeding_season %q is not a year", rowNum, season))
	} else {
		row.breedingSeason = n
	}

	if cd := cell("check_date"); cd != "" {
		t, err := parseSheetDate(cd)
		if err != nil {
			errs = append(errs, fmt.Sprintf("row %d: check_date %q is not a date", rowNum, cd))
		} else {
			row.checkDate = &t
		}
	}

	if ip := cell("is_pregnant"); ip != "" {
		b, err := parseSheetBool(ip)
		if err != nil {
			errs = append(errs, fmt.Sprintf("row %d: is_pregnant %q is not a boolean", rowNum, ip))
		} else {
			row.isPregnant = &b
		}
	}

	if rc := cell("recheck"); rc != "" {
		b, err := parseSheetBool(rc)
		if err != nil {
			errs = append(errs, fmt.Sprintf("row %d: recheck %q is not a boolean", rowNum, rc))
		} else {
			row.recheck = b
		}
	}

	return row, errs
}

// findDuplicates rechaza duplicados dentro del archivo: misma (caravana,
// año, fecha de tacto) o mismo (eid, fecha de tacto), reportando los
// números de fila de la planilla.
func findDuplicates(rows []importRow) []string {
	var errs []string

	byTag := map[string]int{}
	byRFID := map[string]int{}

	for _, row := range rows {
		date := ""
		if row.checkDate != nil {
			date = row.checkDate.Format("2006-01-02")
		}

		if row.earTagID != "" {
			key := row.earTagID + "|" + row.birthYear + "|" + date
			if first, ok := byTag[key]; ok {
				errs = append(errs, fmt.Sprintf(
					"rows %d and %d: duplicate ear_tag_id %s with the same birth_year and check_date",
					first, row.rowNum, row.earTagID,
				))
				continue
			}
			byTag[key] = row.rowNum
		}

		if row.rfid != "" {
			key := row.rfid + "|" + date
			if first, ok := byRFID[key]; ok {
				errs = append(errs, fmt.Sprintf(
					"rows %d and %d: duplicate eid %s with the same check_date",
					first, row.rowNum, row.rfid,
				))
				continue
			}
			byRFID[key] = row.rowNum
		}
	}

	return errs
}

func rowEmpty(raw []string) bool {
	for _, v := range raw {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

var sheetDateLayouts = []string{
	"2006-01-02",
	"01-02-06",
	"1/2/06",
	"01/02/2006",
	"2006/01/02",
}

func parseSheetDate(s string) (time.Time, error) {
	for _, layout := range sheetDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}

func parseSheetBool(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "true", "yes", "1", "pregnant":
		return true, nil
	case "false", "no", "0", "open":
		return false, nil
	default:
		return false, fmt.Errorf("unrecognized boolean %q", s)
	}
}
