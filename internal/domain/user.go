package domain

// Identity es la identidad emitida por el proveedor externo.
type Identity struct {
	UID   string `json:"uid"`
	Email string `json:"email,omitempty"`
}
