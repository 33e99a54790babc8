package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"gemma-chat/internal/render"
	"gemma-chat/internal/service"
)

// PageHandler sirve las páginas HTML: landing y transcripción de chat.
type PageHandler struct {
	logger *zap.Logger
	auth   *service.AuthService
	chats  *service.ChatService
}

func NewPageHandler(logger *zap.Logger, auth *service.AuthService, chats *service.ChatService) *PageHandler {
	return &PageHandler{
		logger: logger,
		auth:   auth,
		chats:  chats,
	}
}

const pageShell = `<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>Gemma Chat</title></head>
<body>
%BODY%
</body>
</html>`

func (h *PageHandler) renderPage(c *gin.Context, status int, body string) {
	page := strings.Replace(pageShell, "%BODY%", body, 1)
	c.Data(status, "text/html; charset=utf-8", []byte(page))
}

// Landing maneja GET /.
func (h *PageHandler) Landing(c *gin.Context) {
	h.renderPage(c, http.StatusOK, `<h1>Gemma Chat</h1><p>Sign in with your identity provider and open <a href="/c/">your chats</a>.</p>`)
}

// ChatPage maneja GET /c/ y GET /c/:id. Con sesión válida rinde la lista de
// chats y, si hay id, la transcripción; todo texto pasa por el escape.
func (h *PageHandler) ChatPage(c *gin.Context) {
	identity, ok := identityFromRequest(c, h.auth)
	if !ok {
		h.renderPage(c, http.StatusOK, `<h1>Gemma Chat</h1><p class="unauthenticated">Not signed in.</p>`)
		return
	}

	activeID := c.Param("id")

	var b strings.Builder
	b.WriteString(`<h1>Gemma Chat</h1>`)

	chats, err := h.chats.List(c.Request.Context(), identity.UID)
	if err != nil {
		h.logger.Error("list chats for page failed", zap.Error(err))
		b.WriteString(`<p class="error">Could not load chats.</p>`)
		h.renderPage(c, http.StatusOK, b.String())
		return
	}

	b.WriteString(`<ul class="chat-list">`)
	if len(chats) == 0 {
		b.WriteString(`<li class="placeholder">No chats yet</li>`)
	}
	for _, chat := range chats {
		b.WriteString(render.ChatRow(chat.ID, chat.Title, chat.ID == activeID))
	}
	b.WriteString(`</ul>`)

	if activeID != "" {
		chat, err := h.chats.Get(c.Request.Context(), identity.UID, activeID)
		if err != nil {
			b.WriteString(`<p class="error">` + render.EscapeText("Could not load chat.") + `</p>`)
		} else {
			b.WriteString(`<h2>` + render.EscapeText(chat.Title) + `</h2><div class="thread">`)
			for _, msg := range chat.Messages {
				b.WriteString(render.MessageBubble(msg.Role, msg.Content))
			}
			b.WriteString(`</div>`)
		}
	}

	h.renderPage(c, http.StatusOK, b.String())
}
