package tui

import (
	"strings"

	"github.com/charmbracelet/glamour"
)

// markdownRenderer envuelve glamour para las respuestas del asistente.
type markdownRenderer struct {
	glamour *glamour.TermRenderer
	width   int
}

func newMarkdownRenderer(width int) (*markdownRenderer, error) {
	gr, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil, err
	}
	return &markdownRenderer{glamour: gr, width: width}, nil
}

// SetWidth reconstruye el renderer con el nuevo ancho de línea.
func (r *markdownRenderer) SetWidth(width int) {
	if width == r.width || width <= 0 {
		return
	}
	gr, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return
	}
	r.glamour = gr
	r.width = width
}

// Render devuelve el markdown formateado, o el texto plano si falla.
func (r *markdownRenderer) Render(content string) string {
	out, err := r.glamour.Render(content)
	if err != nil {
		return content
	}
	return strings.Trim(out, "\n")
}
