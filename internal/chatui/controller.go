package chatui

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"gemma-chat/internal/api"
	"gemma-chat/internal/domain"
)

// Mensajes que se muestran cuando una operación no produce resultado.
const (
	listErrorText   = "Could not load chats"
	threadErrorText = "Could not load this chat"
	sendErrorText   = "Message failed to send"
	createErrorText = "Could not create chat"
	deleteErrorText = "Could not delete chat"
)

var (
	// ErrEmptyMessage se devuelve al intentar enviar un mensaje vacío.
	ErrEmptyMessage = errors.New("empty message")
	// ErrNoActiveChat se devuelve al enviar sin un chat abierto.
	ErrNoActiveChat = errors.New("no active chat")
	// ErrBusy se devuelve si el chat activo ya tiene un envío en curso.
	ErrBusy = errors.New("send already in flight")
	// ErrNoCredential se devuelve al arrancar sin credenciales guardadas.
	ErrNoCredential = errors.New("no stored credential")
)

// Backend es la superficie del servidor que el controlador consume.
type Backend interface {
	HasCredential() bool
	Me(ctx context.Context) (domain.Identity, error)
	ListChats(ctx context.Context) ([]domain.Chat, error)
	CreateChat(ctx context.Context, title string) (domain.Chat, error)
	GetChat(ctx context.Context, id string) (domain.Chat, error)
	DeleteChat(ctx context.Context, id string) error
	SendMessage(ctx context.Context, id, text string) (string, error)
}

// View recibe instantáneas del estado cada vez que algo observable cambia.
type View interface {
	Render(state State)
}

// Confirmer pide confirmación al usuario antes de una acción destructiva.
type Confirmer interface {
	Confirm(prompt string) bool
}

// Controller orquesta la lista de chats, el hilo activo y los envíos.
// Todas las operaciones son seguras para llamar desde goroutines.
type Controller struct {
	backend   Backend
	view      View
	location  Location
	confirmer Confirmer
	logger    *zap.Logger

	mu       sync.Mutex
	state    State
	inflight map[string]bool
}

func NewController(backend Backend, view View, location Location, confirmer Confirmer, logger *zap.Logger) *Controller {
	return &Controller{
		backend:   backend,
		view:      view,
		location:  location,
		confirmer: confirmer,
		logger:    logger,
		inflight:  make(map[string]bool),
	}
}

// render publica una copia del estado. Se llama con el mutex tomado.
func (c *Controller) render() {
	c.view.Render(c.state.Clone())
}

// State devuelve una instantánea del estado actual.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Clone()
}

// Start valida la credencial guardada, carga la lista y restaura la ruta.
// routeOverride permite abrir un chat concreto desde la línea de comandos.
func (c *Controller) Start(ctx context.Context, routeOverride string) error {
	if !c.backend.HasCredential() {
		return ErrNoCredential
	}
	identity, err := c.backend.Me(ctx)
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.state.Identity = identity
	c.mu.Unlock()

	if err := c.RefreshList(ctx); err != nil {
		return err
	}

	route := routeOverride
	if route == "" {
		route = c.location.Current()
	}
	if id, ok := ParseRoute(route); ok {
		return c.OpenChat(ctx, id)
	}
	if err := c.location.Set(ChatRoot); err != nil {
		c.logger.Warn("No se pudo persistir la ruta", zap.Error(err))
	}
	c.mu.Lock()
	c.render()
	c.mu.Unlock()
	return nil
}

// RefreshList sincroniza la barra lateral. Si el servidor no responde se
// conserva la lista anterior y se marca el error.
func (c *Controller) RefreshList(ctx context.Context) error {
	chats, err := c.backend.ListChats(ctx)
	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		if errors.Is(err, api.ErrUnauthenticated) {
			return err
		}
		c.state.ListError = listErrorText
		c.render()
		return nil
	}
	c.state.ListError = ""
	c.state.Chats = chats
	c.render()
	return nil
}

// CreateChat crea un chat con título por defecto y lo abre.
func (c *Controller) CreateChat(ctx context.Context) error {
	chat, err := c.backend.CreateChat(ctx, "")
	if err != nil {
		if errors.Is(err, api.ErrUnauthenticated) {
			return err
		}
		c.mu.Lock()
		c.state.ListError = createErrorText
		c.render()
		c.mu.Unlock()
		return nil
	}
	if err := c.RefreshList(ctx); err != nil {
		return err
	}
	return c.OpenChat(ctx, chat.ID)
}

// OpenChat marca el chat como activo de inmediato y carga su hilo.
// Si la carga falla, el chat sigue activo y el error queda en el hilo.
func (c *Controller) OpenChat(ctx context.Context, id string) error {
	c.mu.Lock()
	c.state.ActiveChatID = id
	c.state.Thread = nil
	c.state.ThreadError = ""
	c.render()
	c.mu.Unlock()

	if err := c.location.Set(ChatRoute(id)); err != nil {
		c.logger.Warn("No se pudo persistir la ruta", zap.Error(err))
	}

	chat, err := c.backend.GetChat(ctx, id)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state.ActiveChatID != id {
		return nil // el usuario ya navegó a otro chat
	}
	if err != nil {
		if errors.Is(err, api.ErrUnauthenticated) {
			return err
		}
		c.state.ThreadError = threadErrorText
		c.render()
		return nil
	}
	thread := make([]Bubble, 0, len(chat.Messages))
	for _, msg := range chat.Messages {
		bubble := Bubble{Content: msg.Content}
		switch msg.Role {
		case domain.RoleUser:
			bubble.Kind = BubbleUser
			bubble.Status = StatusSent
		default:
			bubble.Kind = BubbleAssistant
		}
		thread = append(thread, bubble)
	}
	c.state.Thread = thread
	c.render()
	return nil
}

// DeleteChat pide confirmación y borra. Un fallo del backend deja todo el
// estado intacto, solo se marca el error; el chat sigue abierto y en la lista.
func (c *Controller) DeleteChat(ctx context.Context, id string) error {
	c.mu.Lock()
	if id == "" {
		id = c.state.ActiveChatID
	}
	if id == "" {
		c.mu.Unlock()
		return ErrNoActiveChat
	}
	if c.inflight[id] {
		c.mu.Unlock()
		return ErrBusy
	}
	c.inflight[id] = true
	title := id
	for _, chat := range c.state.Chats {
		if chat.ID == id {
			title = chat.Title
			break
		}
	}
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		delete(c.inflight, id)
		c.mu.Unlock()
	}()

	if !c.confirmer.Confirm(fmt.Sprintf("Delete %q?", title)) {
		return nil
	}

	if err := c.backend.DeleteChat(ctx, id); err != nil {
		if errors.Is(err, api.ErrUnauthenticated) {
			return err
		}
		c.logger.Debug("El borrado no respondió", zap.Error(err))
		c.mu.Lock()
		c.state.ListError = deleteErrorText
		c.render()
		c.mu.Unlock()
		return nil
	}

	c.mu.Lock()
	if c.state.ActiveChatID == id {
		c.state.ActiveChatID = ""
		c.state.Thread = nil
		c.state.ThreadError = ""
		c.mu.Unlock()
		if err := c.location.Set(ChatRoot); err != nil {
			c.logger.Warn("No se pudo persistir la ruta", zap.Error(err))
		}
	} else {
		c.mu.Unlock()
	}
	return c.RefreshList(ctx)
}

// SendMessage añade el mensaje del usuario de forma optimista, muestra el
// indicador de escritura y aplica el resultado sin reordenar el hilo.
func (c *Controller) SendMessage(ctx context.Context, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return ErrEmptyMessage
	}

	c.mu.Lock()
	chatID := c.state.ActiveChatID
	if chatID == "" {
		c.mu.Unlock()
		return ErrNoActiveChat
	}
	if c.inflight[chatID] {
		c.mu.Unlock()
		return ErrBusy
	}
	c.inflight[chatID] = true
	c.state.Thread = append(c.state.Thread, Bubble{Kind: BubbleUser, Content: text, Status: StatusPending})
	idx := len(c.state.Thread) - 1
	c.render()
	c.state.Typing = true
	c.render()
	c.mu.Unlock()

	reply, err := c.backend.SendMessage(ctx, chatID, text)

	c.mu.Lock()
	c.state.Typing = false
	delete(c.inflight, chatID)
	// Si el usuario navegó a otro chat el hilo ya no es el nuestro.
	stale := c.state.ActiveChatID != chatID || idx >= len(c.state.Thread)
	if err != nil {
		if !stale {
			c.state.Thread[idx].Status = StatusFailed
			c.state.Thread = append(c.state.Thread, Bubble{Kind: BubbleError, Content: sendErrorText})
		}
		c.render()
		c.mu.Unlock()
		if errors.Is(err, api.ErrUnauthenticated) {
			return err
		}
		return nil
	}
	if !stale {
		c.state.Thread[idx].Status = StatusSent
		c.state.Thread = append(c.state.Thread, Bubble{Kind: BubbleAssistant, Content: reply})
	}
	c.render()
	c.mu.Unlock()

	// El primer intercambio puede retitular el chat en el servidor.
	if err := c.RefreshList(ctx); err != nil {
		return err
	}
	c.mu.Lock()
	c.render()
	c.mu.Unlock()
	return nil
}
