package render

import "strings"

// El orden importa: & primero para no re-escapar las entidades generadas.
var escaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#39;",
)

// EscapeText convierte texto arbitrario en texto seguro para markup.
// Debe aplicarse a todo texto de usuario o del backend antes de insertarlo
// en una página: títulos, contenido de mensajes y texto de error.
func EscapeText(s string) string {
	return escaper.Replace(s)
}

// MessageBubble arma el markup de una burbuja de mensaje ya escapada.
func MessageBubble(role, content string) string {
	var b strings.Builder
	b.WriteString(`<div class="bubble `)
	b.WriteString(EscapeText(role))
	b.WriteString(`">`)
	b.WriteString(EscapeText(content))
	b.WriteString(`</div>`)
	return b.String()
}

// ChatRow arma el markup de una fila del listado de chats.
func ChatRow(id, title string, active bool) string {
	var b strings.Builder
	b.WriteString(`<li class="chat-row`)
	if active {
		b.WriteString(` active`)
	}
	b.WriteString(`" data-id="`)
	b.WriteString(EscapeText(id))
	b.WriteString(`">`)
	b.WriteString(EscapeText(title))
	b.WriteString(`</li>`)
	return b.String()
}
