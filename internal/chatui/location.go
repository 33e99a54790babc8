package chatui

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

// Location persiste la ruta actual para restaurarla en la próxima sesión.
type Location interface {
	Current() string
	Set(route string) error
}

// FileLocation guarda la ruta en un archivo del directorio de configuración.
type FileLocation struct {
	path  string
	route string
}

// NewFileLocation carga la ruta persistida, o la raíz si no hay nada guardado.
func NewFileLocation(path string) (*FileLocation, error) {
	loc := &FileLocation{path: path, route: ChatRoot}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return loc, nil
		}
		return nil, errors.Wrap(err, "reading location file")
	}
	if route := strings.TrimSpace(string(data)); route != "" {
		loc.route = route
	}
	return loc, nil
}

// DefaultFileLocation usa el directorio de configuración del usuario.
func DefaultFileLocation() (*FileLocation, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return nil, errors.Wrap(err, "resolving user config dir")
	}
	path := filepath.Join(dir, "gemma-chat", "location")
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, errors.Wrap(err, "creating config dir")
	}
	return NewFileLocation(path)
}

// Current devuelve la última ruta conocida.
func (l *FileLocation) Current() string {
	return l.route
}

// Set persiste la nueva ruta.
func (l *FileLocation) Set(route string) error {
	l.route = route
	if err := os.WriteFile(l.path, []byte(route+"\n"), 0o600); err != nil {
		return errors.Wrap(err, "writing location file")
	}
	return nil
}

// MemoryLocation mantiene la ruta solo en memoria. Útil en tests y
// para sesiones efímeras.
type MemoryLocation struct {
	route string
}

func NewMemoryLocation() *MemoryLocation {
	return &MemoryLocation{route: ChatRoot}
}

func (l *MemoryLocation) Current() string {
	return l.route
}

func (l *MemoryLocation) Set(route string) error {
	l.route = route
	return nil
}
