package chatui

import "strings"

// ChatRoot es la ruta raíz de la vista de chats, sin chat activo.
const ChatRoot = "/c/"

// ChatRoute construye la ruta de un chat concreto.
func ChatRoute(id string) string {
	return ChatRoot + id
}

// ParseRoute extrae el id de chat de una ruta. Devuelve vacío para la raíz,
// rutas ajenas o rutas con segmentos de más.
func ParseRoute(route string) (id string, ok bool) {
	if !strings.HasPrefix(route, ChatRoot) {
		return "", false
	}
	rest := strings.Trim(strings.TrimPrefix(route, ChatRoot), "/")
	if rest == "" || strings.Contains(rest, "/") {
		return "", false
	}
	return rest, true
}
