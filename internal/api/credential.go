package api

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// Credential modela las dos vías de autenticación como un solo valor:
// la cookie de sesión (vía principal) y el idToken bearer (respaldo).
// Ambas se expiran y se limpian juntas por el mismo camino.
type Credential struct {
	IDToken   string `json:"id_token,omitempty"`
	SessionID string `json:"session_id,omitempty"`
}

// Empty indica que no hay ninguna credencial almacenada.
func (c Credential) Empty() bool {
	return c.IDToken == "" && c.SessionID == ""
}

// CredentialStore persiste la credencial en el directorio de configuración.
type CredentialStore struct {
	path string
}

func NewCredentialStore(path string) *CredentialStore {
	return &CredentialStore{path: path}
}

// DefaultCredentialStore usa ~/.config/gemma-chat/credentials.json.
func DefaultCredentialStore() (*CredentialStore, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return nil, errors.Wrap(err, "resolving config dir")
	}
	return NewCredentialStore(filepath.Join(dir, "gemma-chat", "credentials.json")), nil
}

// Load devuelve la credencial guardada; sin archivo devuelve una vacía.
func (s *CredentialStore) Load() (Credential, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return Credential{}, nil
	}
	if err != nil {
		return Credential{}, errors.Wrap(err, "reading credentials")
	}
	var cred Credential
	if err := json.Unmarshal(data, &cred); err != nil {
		return Credential{}, errors.Wrap(err, "unmarshaling credentials")
	}
	return cred, nil
}

// Save persiste la credencial con permisos restrictivos.
func (s *CredentialStore) Save(cred Credential) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return errors.Wrap(err, "creating config dir")
	}
	data, err := json.MarshalIndent(cred, "", "  ")
	if err != nil {
		return errors.Wrap(err, "marshaling credentials")
	}
	return errors.Wrap(os.WriteFile(s.path, data, 0o600), "writing credentials")
}

// Clear elimina la credencial; que no exista no es error.
func (s *CredentialStore) Clear() error {
	err := os.Remove(s.path)
	if err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, "removing credentials")
	}
	return nil
}
