package service

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"gemma-chat/internal/domain"
)

// AuthService verifica idTokens del proveedor de identidad y administra las
// sesiones de servidor que respaldan la cookie.
type AuthService struct {
	secret     []byte
	sessionTTL time.Duration
	store      SessionStore
}

type Claims struct {
	UserID string `json:"uid"`
	Email  string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

var (
	ErrTokenInvalid   = errors.New("id token invalid")
	ErrTokenExpired   = errors.New("id token expired")
	ErrSessionInvalid = errors.New("session invalid")
)

func NewAuthService(secret string, sessionTTL time.Duration, store SessionStore) *AuthService {
	if sessionTTL <= 0 {
		sessionTTL = 7 * 24 * time.Hour
	}
	if store == nil {
		store = NewMemorySessionStore()
	}
	return &AuthService{
		secret:     []byte(secret),
		sessionTTL: sessionTTL,
		store:      store,
	}
}

// VerifyIDToken valida el idToken emitido por el proveedor y devuelve la
// identidad contenida en sus claims.
func (s *AuthService) VerifyIDToken(idToken string) (domain.Identity, error) {
	if len(s.secret) == 0 {
		return domain.Identity{}, ErrTokenInvalid
	}
	if strings.TrimSpace(idToken) == "" {
		return domain.Identity{}, ErrTokenInvalid
	}

	var claims Claims
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	_, err := parser.ParseWithClaims(idToken, &claims, func(_ *jwt.Token) (any, error) {
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return domain.Identity{}, ErrTokenExpired
		}
		return domain.Identity{}, ErrTokenInvalid
	}

	uid := strings.TrimSpace(claims.UserID)
	if uid == "" {
		uid = strings.TrimSpace(claims.Subject)
	}
	if uid == "" {
		return domain.Identity{}, ErrTokenInvalid
	}
	return domain.Identity{UID: uid, Email: claims.Email}, nil
}

// CreateSession emite una sesión nueva para la identidad dada.
func (s *AuthService) CreateSession(identity domain.Identity) (domain.Session, error) {
	now := time.Now().UTC()
	session := domain.Session{
		ID:        uuid.NewString(),
		UserID:    identity.UID,
		Email:     identity.Email,
		ExpiresAt: now.Add(s.sessionTTL),
		CreatedAt: now,
	}
	if err := s.store.Put(session, s.sessionTTL); err != nil {
		return domain.Session{}, err
	}
	return session, nil
}

// ValidateSession resuelve un id de sesión a su identidad.
func (s *AuthService) ValidateSession(id string) (domain.Session, error) {
	if strings.TrimSpace(id) == "" {
		return domain.Session{}, ErrSessionInvalid
	}
	session, ok, err := s.store.Get(id)
	if err != nil {
		return domain.Session{}, err
	}
	if !ok {
		return domain.Session{}, ErrSessionInvalid
	}
	return session, nil
}

// RevokeSession invalida una sesión; revocar una inexistente no es error.
func (s *AuthService) RevokeSession(id string) error {
	if strings.TrimSpace(id) == "" {
		return nil
	}
	return s.store.Delete(id)
}

// SessionTTL expone el TTL configurado, usado para el max-age de la cookie.
func (s *AuthService) SessionTTL() time.Duration {
	return s.sessionTTL
}
