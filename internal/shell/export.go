package shell

import (
	"context"
	"fmt"
	"mime"
	"net/http"
	"os"

	"ranch-pregcheck/internal/platform/httpclient"
	"ranch-pregcheck/internal/ports/display"
)

const exportPath = "/database/export"

// SaveExport baja la planilla de pregchecks del server y la guarda donde
// el usuario elija en el diálogo del shell. Devuelve la ruta escrita, o
// "" si el usuario canceló el diálogo.
func SaveExport(ctx context.Context, client *httpclient.Client, dialogs display.Dialogs) (string, error) {
	data, hdr, err := client.Download(ctx, exportPath, nil)
	if err != nil {
		return "", fmt.Errorf("download export: %w", err)
	}

	path, err := dialogs.SaveFile(ctx, exportFilename(hdr))
	if err != nil {
		return "", err
	}
	if path == "" {
		return "", nil
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write export: %w", err)
	}
	return path, nil
}

// exportFilename saca el nombre sugerido del Content-Disposition que
// manda el server; sin header usable cae a un nombre fijo.
func exportFilename(hdr http.Header) string {
	if _, params, err := mime.ParseMediaType(hdr.Get("Content-Disposition")); err == nil {
		if name := params["filename"]; name != "" {
			return name
		}
	}
	return "pregchecks_export.xlsx"
}
