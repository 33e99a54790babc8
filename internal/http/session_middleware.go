package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"gemma-chat/internal/domain"
	"gemma-chat/internal/service"
)

const (
	// SessionCookieName es la cookie de sesión que emite el backend.
	SessionCookieName = domain.SessionCookieName

	identityKey = "auth_identity"
)

// SessionAuthMiddleware autentica con la cookie de sesión y, como respaldo,
// con un idToken bearer. Ambos canales desembocan en el mismo 401.
func SessionAuthMiddleware(authSvc *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if authSvc == nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "auth not configured"})
			c.Abort()
			return
		}

		if identity, ok := identityFromRequest(c, authSvc); ok {
			c.Set(identityKey, identity)
			c.Next()
			return
		}

		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
		c.Abort()
	}
}

func identityFromRequest(c *gin.Context, authSvc *service.AuthService) (domain.Identity, bool) {
	if cookie, err := c.Cookie(SessionCookieName); err == nil && cookie != "" {
		if session, err := authSvc.ValidateSession(cookie); err == nil {
			return domain.Identity{UID: session.UserID, Email: session.Email}, true
		}
	}

	header := strings.TrimSpace(c.GetHeader("Authorization"))
	if header == "" || !strings.HasPrefix(strings.ToLower(header), "bearer ") {
		return domain.Identity{}, false
	}
	token := strings.TrimSpace(header[len("Bearer "):])
	identity, err := authSvc.VerifyIDToken(token)
	if err != nil {
		return domain.Identity{}, false
	}
	return identity, true
}

// GetIdentity obtiene la identidad autenticada desde el contexto.
func GetIdentity(c *gin.Context) (domain.Identity, bool) {
	val, ok := c.Get(identityKey)
	if !ok {
		return domain.Identity{}, false
	}
	identity, ok := val.(domain.Identity)
	return identity, ok
}
