package ui

// Panel es una sección colapsable con el glifo indicador en el header.
type Panel struct {
	Title   string
	Open    bool
	Content []string // filas renderizadas
}

// Toggle invierte la visibilidad; el glifo acompaña.
func (p *Panel) Toggle() {
	p.Open = !p.Open
}

// Glyph devuelve el indicador del header: ▼ abierto, ▲ cerrado.
func (p *Panel) Glyph() string {
	if p.Open {
		return "▼"
	}
	return "▲"
}

// Overlay es un diálogo modal de la página. Ocultarlo es idempotente sin
// importar por dónde se cierre.
type Overlay struct {
	Visible bool
}

func (o *Overlay) Show() {
	o.Visible = true
}

func (o *Overlay) Hide() {
	o.Visible = false
}

// HideFromBackdrop oculta solo cuando el click cayó en el fondo del
// overlay y no en su contenido (target == container).
func (o *Overlay) HideFromBackdrop(target, container string) {
	if target == container {
		o.Visible = false
	}
}

// Overlays son los cinco diálogos de la página. no-animal y message
// comparten el handler de cierre pero son overlays independientes: cerrar
// uno cierra los dos sin mezclar su contenido.
type Overlays struct {
	EditCow       Overlay
	CreateCow     Overlay
	PregCheckEdit Overlay
	NoAnimal      Overlay
	Message       Overlay
}

// CloseNotice es el handler compartido de los overlays de aviso.
func (o *Overlays) CloseNotice() {
	o.NoAnimal.Hide()
	o.Message.Hide()
}
