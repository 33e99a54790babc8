package http

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"gemma-chat/internal/service"
)

// NewRouter configura el router de Gin con middlewares y rutas.
func NewRouter(
	logger *zap.Logger,
	authSvc *service.AuthService,
	authH *AuthHandler,
	chatH *ChatHandler,
	pageH *PageHandler,
) *gin.Engine {
	r := gin.New()

	r.Use(zapLoggerMiddleware(logger), gin.Recovery())

	// Páginas.
	r.GET("/", pageH.Landing)
	r.GET("/c/", pageH.ChatPage)
	r.GET("/c/:id", pageH.ChatPage)

	// Autenticación.
	auth := r.Group("/api/auth")
	auth.POST("/login", authH.Login)
	auth.POST("/logout", authH.Logout)
	auth.GET("/me", SessionAuthMiddleware(authSvc), authH.Me)

	// Chats, siempre detrás del middleware de sesión.
	chats := r.Group("/api/chats", SessionAuthMiddleware(authSvc))
	chats.GET("", chatH.ListChats)
	chats.POST("", chatH.CreateChat)
	chats.GET("/:id", chatH.GetChat)
	chats.DELETE("/:id", chatH.DeleteChat)
	chats.POST("/:id/messages", chatH.SendMessage)

	return r
}

// zapLoggerMiddleware crea un middleware simple de logging con zap.
func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)
		logger.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", latency),
			zap.String("client_ip", c.ClientIP()),
		)
	}
}
