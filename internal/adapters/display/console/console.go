// Package console es la implementación headless del display: loguea en vez
// de abrir ventanas. Sirve para correr el shell en dev y en tests; el
// empaquetado de escritorio enchufa acá su webview nativo.
package console

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"ranch-pregcheck/internal/platform/logger"
)

type Display struct {
	log logger.Logger

	// DownloadsDir es donde SaveFile propone guardar sin diálogo nativo.
	DownloadsDir string
}

func New(log logger.Logger) *Display {
	return &Display{log: log}
}

func (d *Display) Navigate(ctx context.Context, url string) error {
	d.log.Info("navigate", map[string]any{"url": url})
	return nil
}

func (d *Display) SetStatus(ctx context.Context, text string) {
	d.log.Info("status", map[string]any{"text": text})
}

// SaveFile pregunta por stdin la ruta destino; enter acepta la sugerida.
func (d *Display) SaveFile(ctx context.Context, suggestedName string) (string, error) {
	dir := d.DownloadsDir
	if dir == "" {
		dir = "."
	}
	suggested := filepath.Join(dir, suggestedName)

	fmt.Printf("save file [%s]: ", suggested)
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return suggested, nil
	}

	line = strings.TrimSpace(line)
	if line == "" {
		return suggested, nil
	}
	return line, nil
}
