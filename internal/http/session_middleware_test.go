package http

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"gemma-chat/internal/domain"
	"gemma-chat/internal/service"
)

func signIDToken(t *testing.T, secret, uid, email string) string {
	t.Helper()
	now := time.Now().UTC()
	claims := service.Claims{
		UserID: uid,
		Email:  email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   uid,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign id token: %v", err)
	}
	return token
}

func protectedRouter(authSvc *service.AuthService) *gin.Engine {
	r := gin.New()
	r.GET("/protected", SessionAuthMiddleware(authSvc), func(c *gin.Context) {
		identity, ok := GetIdentity(c)
		if !ok || identity.UID == "" {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.JSON(http.StatusOK, gin.H{"uid": identity.UID})
	})
	return r
}

func TestSessionAuthMiddleware_AllowsValidCookie(t *testing.T) {
	gin.SetMode(gin.TestMode)
	authSvc := service.NewAuthService("secret", time.Hour, service.NewMemorySessionStore())
	session, err := authSvc.CreateSession(domain.Identity{UID: "u1"})
	if err != nil {
		t.Fatalf("create session: %v", err)
	}

	r := protectedRouter(authSvc)
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: session.ID})
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestSessionAuthMiddleware_FallsBackToBearerToken(t *testing.T) {
	gin.SetMode(gin.TestMode)
	authSvc := service.NewAuthService("secret", time.Hour, service.NewMemorySessionStore())

	r := protectedRouter(authSvc)
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+signIDToken(t, "secret", "u1", "user@example.com"))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestSessionAuthMiddleware_RejectsMissingCredentials(t *testing.T) {
	gin.SetMode(gin.TestMode)
	authSvc := service.NewAuthService("secret", time.Hour, service.NewMemorySessionStore())

	r := protectedRouter(authSvc)
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestSessionAuthMiddleware_RejectsStaleCookieAndBadToken(t *testing.T) {
	gin.SetMode(gin.TestMode)
	authSvc := service.NewAuthService("secret", time.Hour, service.NewMemorySessionStore())

	r := protectedRouter(authSvc)
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "no-such-session"})
	req.Header.Set("Authorization", "Bearer "+signIDToken(t, "wrong-secret", "u1", ""))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}
