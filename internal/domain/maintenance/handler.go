package maintenance

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

const maxUploadSize = 64 << 20 // planillas y bases chicas de escritorio

func RegisterRoutes(r chi.Router, svc *Service, imp *Importer, exp *Exporter) {
	r.Route("/database", func(dr chi.Router) {
		dr.Get("/info", databaseInfoHandler(svc))
		dr.Post("/backup", backupHandler(svc))
		dr.Post("/upload", uploadHandler(svc))
		dr.Post("/import", importHandler(imp))
		dr.Get("/export", exportHandler(exp))
	})
}

// databaseInfoHandler godoc
// @Summary Info del archivo de base de datos
// @Tags database
// @Produce json
// @Success 200 {object} DatabaseInfo
// @Router /database/info [get]
func databaseInfoHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		info, err := svc.Info(r.Context())
		if err != nil {
			if errors.Is(err, ErrNoDatabase) {
				writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, info)
	}
}

// backupHandler godoc
// @Summary Respaldar la base de datos
// @Tags database
// @Produce json
// @Success 200 {object} map[string]any
// @Router /database/backup [post]
func backupHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res, err := svc.Backup(r.Context())
		if err != nil {
			if errors.Is(err, ErrNoDatabase) {
				writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"success":     true,
			"backup_name": res.BackupName,
			"backup_path": res.BackupPath,
		})
	}
}

// uploadHandler godoc
// @Summary Reemplazar la base de datos por un archivo subido
// @Description Valida que el archivo sea una base sqlite legible, respalda la actual y la reemplaza. Si el reemplazo falla, restaura el respaldo.
// @Tags database
// @Accept mpfd
// @Produce json
// @Success 200 {object} map[string]any
// @Failure 400 {object} map[string]string
// @Router /database/upload [post]
func uploadHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(maxUploadSize); err != nil {
			http.Error(w, "invalid form", http.StatusBadRequest)
			return
		}

		file, header, err := r.FormFile("database_file")
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "database_file is required"})
			return
		}
		defer file.Close()

		if err := svc.Replace(r.Context(), file, header.Filename); err != nil {
			if errors.Is(err, ErrInvalidDatabase) {
				writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"success": true})
	}
}

// importHandler godoc
// @Summary Importar chequeos desde una planilla xlsx
// @Description Valida toda la planilla antes de tocar nada: columnas obligatorias, tipos por fila y duplicados dentro del archivo (con números de fila). Con dry_run solo reporta.
// @Tags database
// @Accept mpfd
// @Produce json
// @Success 200 {object} ImportResult
// @Failure 400 {object} map[string]string
// @Router /database/import [post]
func importHandler(imp *Importer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(maxUploadSize); err != nil {
			http.Error(w, "invalid form", http.StatusBadRequest)
			return
		}

		file, _, err := r.FormFile("file")
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "file is required"})
			return
		}
		defer file.Close()

		dryRun := r.FormValue("dry_run") == "true" || r.FormValue("dry_run") == "on"

		res, err := imp.Import(r.Context(), file, dryRun)
		if err != nil {
			if errors.Is(err, ErrMissingColumns) {
				writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
				return
			}
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}

		status := http.StatusOK
		if len(res.Errors) > 0 {
			status = http.StatusBadRequest
		}
		writeJSON(w, status, res)
	}
}

// exportHandler godoc
// @Summary Exportar todos los chequeos como xlsx
// @Tags database
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success 200 {file} binary
// @Router /database/export [get]
func exportHandler(exp *Exporter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// al buffer primero: si excelize falla a mitad de camino todavía
		// podemos responder un error limpio
		var buf bytes.Buffer
		if err := exp.Export(r.Context(), &buf); err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		name := fmt.Sprintf("pregchecks_export_%s.xlsx", time.Now().Format("20060102"))
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Header().Set("Content-Disposition", `attachment; filename="`+name+`"`)
		_, _ = w.Write(buf.Bytes())
	}
}

// writeJSON está duplicado intencionalmente en handlers de distintos módulos
// (ver cattle/pregchecks).
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
