package domain

import "time"

// SessionCookieName es la cookie con que viaja la sesión de servidor;
// la comparten el backend y el adaptador de transporte del cliente.
const SessionCookieName = "gemma_session"

// Session es la sesión de servidor respaldada por cookie.
type Session struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Email     string    `json:"email,omitempty"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

// Expired indica si la sesión ya venció.
func (s Session) Expired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}
