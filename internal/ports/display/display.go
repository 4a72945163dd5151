package display

import "context"

// Surface es la superficie visible del shell de escritorio: la ventana
// que muestra la página. El shell navega acá cuando el server está listo.
type Surface interface {
	Navigate(ctx context.Context, url string) error
	SetStatus(ctx context.Context, text string)
}

// Dialogs son los diálogos nativos del shell. SaveFile devuelve la ruta
// elegida o "" si el usuario canceló.
type Dialogs interface {
	SaveFile(ctx context.Context, suggestedName string) (string, error)
}
