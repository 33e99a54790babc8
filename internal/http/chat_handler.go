package http

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"gemma-chat/internal/domain"
	"gemma-chat/internal/repository"
	"gemma-chat/internal/service"
)

// ChatHandler mantiene dependencias para los endpoints de chats y mensajes.
type ChatHandler struct {
	logger *zap.Logger
	chats  *service.ChatService
}

func NewChatHandler(logger *zap.Logger, chats *service.ChatService) *ChatHandler {
	return &ChatHandler{
		logger: logger,
		chats:  chats,
	}
}

type chatSummary struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
}

// ListChats maneja GET /api/chats.
func (h *ChatHandler) ListChats(c *gin.Context) {
	identity, _ := GetIdentity(c)

	chats, err := h.chats.List(c.Request.Context(), identity.UID)
	if err != nil {
		h.logger.Error("list chats failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list chats"})
		return
	}

	summaries := make([]chatSummary, 0, len(chats))
	for _, chat := range chats {
		summaries = append(summaries, chatSummary{ID: chat.ID, Title: chat.Title, CreatedAt: chat.CreatedAt})
	}
	c.JSON(http.StatusOK, summaries)
}

// CreateChat maneja POST /api/chats.
func (h *ChatHandler) CreateChat(c *gin.Context) {
	identity, _ := GetIdentity(c)

	// El body es opcional; sin título se usa el título por defecto.
	var req struct {
		Title string `json:"title"`
	}
	_ = c.ShouldBindJSON(&req)

	chat, err := h.chats.Create(c.Request.Context(), identity.UID, req.Title)
	if err != nil {
		h.logger.Error("create chat failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create chat"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": chat.ID, "title": chat.Title})
}

// GetChat maneja GET /api/chats/:id.
func (h *ChatHandler) GetChat(c *gin.Context) {
	identity, _ := GetIdentity(c)

	chat, err := h.chats.Get(c.Request.Context(), identity.UID, c.Param("id"))
	if errors.Is(err, repository.ErrChatNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
		return
	}
	if err != nil {
		h.logger.Error("get chat failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not get chat"})
		return
	}

	messages := chat.Messages
	if messages == nil {
		messages = []domain.Message{}
	}
	c.JSON(http.StatusOK, gin.H{
		"id":         chat.ID,
		"title":      chat.Title,
		"created_at": chat.CreatedAt,
		"messages":   messages,
	})
}

// DeleteChat maneja DELETE /api/chats/:id.
func (h *ChatHandler) DeleteChat(c *gin.Context) {
	identity, _ := GetIdentity(c)

	err := h.chats.Delete(c.Request.Context(), identity.UID, c.Param("id"))
	if errors.Is(err, repository.ErrChatNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
		return
	}
	if err != nil {
		h.logger.Error("delete chat failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not delete chat"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Deleted"})
}

// SendMessage maneja POST /api/chats/:id/messages.
func (h *ChatHandler) SendMessage(c *gin.Context) {
	identity, _ := GetIdentity(c)

	var req struct {
		Message string `json:"message"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Empty message"})
		return
	}
	text := strings.TrimSpace(req.Message)

	reply, err := h.chats.SendMessage(c.Request.Context(), identity.UID, c.Param("id"), text)
	switch {
	case errors.Is(err, service.ErrEmptyMessage):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Empty message"})
		return
	case errors.Is(err, repository.ErrChatNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
		return
	case err != nil:
		h.logger.Error("send message failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not generate reply"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": text, "assistant": reply.Content})
}
