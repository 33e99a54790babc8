package chatui

import "gemma-chat/internal/domain"

// Kind distingue el origen de una burbuja en el hilo.
type Kind string

const (
	BubbleUser      Kind = "user"
	BubbleAssistant Kind = "assistant"
	BubbleError     Kind = "error"
)

// Status refleja el ciclo de vida de un mensaje del usuario.
type Status string

const (
	StatusPending Status = "pending"
	StatusSent    Status = "sent"
	StatusFailed  Status = "failed"
)

// Bubble es una entrada renderizable del hilo de conversación.
type Bubble struct {
	Kind    Kind
	Content string
	Status  Status
}

// State es el estado completo de la interfaz, listo para renderizar.
type State struct {
	Identity     domain.Identity
	Chats        []domain.Chat
	ActiveChatID string
	Thread       []Bubble
	Typing       bool
	ListError    string
	ThreadError  string
}

// Clone devuelve una copia profunda para que las vistas capturen instantáneas.
func (s State) Clone() State {
	out := s
	if s.Chats != nil {
		out.Chats = make([]domain.Chat, len(s.Chats))
		copy(out.Chats, s.Chats)
	}
	if s.Thread != nil {
		out.Thread = make([]Bubble, len(s.Thread))
		copy(out.Thread, s.Thread)
	}
	return out
}

// ActiveChat busca el chat activo en la lista cargada.
func (s State) ActiveChat() (domain.Chat, bool) {
	for _, chat := range s.Chats {
		if chat.ID == s.ActiveChatID {
			return chat, true
		}
	}
	return domain.Chat{}, false
}
