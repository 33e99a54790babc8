package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"gemma-chat/internal/domain"
)

var (
	// ErrNoResult es la señal uniforme de fallo del adaptador: respuesta
	// no exitosa, error de red o body malformado. Quien llama decide cómo
	// degradar; el adaptador nunca reintenta.
	ErrNoResult = errors.New("no result")

	// ErrUnauthenticated indica que el backend rechazó la credencial. El
	// adaptador ya limpió el estado local y disparó la transición dura.
	ErrUnauthenticated = errors.New("unauthenticated")
)

// Client es el único camino permitido hacia el backend. Adjunta la cookie de
// sesión ambiente y, si existe, el idToken como credencial de respaldo.
type Client struct {
	baseURL           *url.URL
	httpClient        *http.Client
	creds             *CredentialStore
	current           Credential
	onUnauthenticated func()
	logger            *zap.Logger
}

func NewClient(baseURL string, creds *CredentialStore, logger *zap.Logger) (*Client, error) {
	parsed, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, errors.Wrap(err, "parsing base url")
	}
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, errors.Wrap(err, "creating cookie jar")
	}

	client := &Client{
		baseURL: parsed,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
			Jar:     jar,
		},
		creds:  creds,
		logger: logger,
	}

	cred, err := creds.Load()
	if err != nil {
		return nil, err
	}
	client.current = cred
	if cred.SessionID != "" {
		jar.SetCookies(parsed, []*http.Cookie{{Name: domain.SessionCookieName, Value: cred.SessionID}})
	}
	return client, nil
}

// SetOnUnauthenticated registra el hook de la transición a no-autenticado.
func (c *Client) SetOnUnauthenticated(fn func()) {
	c.onUnauthenticated = fn
}

// HasCredential indica si hay alguna credencial local almacenada.
func (c *Client) HasCredential() bool {
	return !c.current.Empty()
}

// Login canjea el idToken por una cookie de sesión y persiste ambos.
func (c *Client) Login(ctx context.Context, idToken string) (domain.Identity, error) {
	var identity domain.Identity
	payload := map[string]string{"idToken": idToken}
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", payload, &identity); err != nil {
		return domain.Identity{}, err
	}

	cred := Credential{IDToken: idToken}
	for _, cookie := range c.httpClient.Jar.Cookies(c.baseURL) {
		if cookie.Name == domain.SessionCookieName {
			cred.SessionID = cookie.Value
		}
	}
	c.current = cred
	if err := c.creds.Save(cred); err != nil {
		return domain.Identity{}, err
	}
	return identity, nil
}

// Logout revoca la sesión en el backend y limpia la credencial local.
func (c *Client) Logout(ctx context.Context) error {
	err := c.do(ctx, http.MethodPost, "/api/auth/logout", nil, nil)
	if clearErr := c.clearCredential(); clearErr != nil {
		return clearErr
	}
	if errors.Is(err, ErrUnauthenticated) {
		return nil
	}
	return err
}

// Me valida la credencial contra el backend.
func (c *Client) Me(ctx context.Context) (domain.Identity, error) {
	var identity domain.Identity
	if err := c.do(ctx, http.MethodGet, "/api/auth/me", nil, &identity); err != nil {
		return domain.Identity{}, err
	}
	return identity, nil
}

type chatSummary struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
}

// ListChats devuelve los chats del usuario, más recientes primero.
func (c *Client) ListChats(ctx context.Context) ([]domain.Chat, error) {
	var summaries []chatSummary
	if err := c.do(ctx, http.MethodGet, "/api/chats", nil, &summaries); err != nil {
		return nil, err
	}
	chats := make([]domain.Chat, 0, len(summaries))
	for _, s := range summaries {
		chats = append(chats, domain.Chat{ID: s.ID, Title: s.Title, CreatedAt: s.CreatedAt})
	}
	return chats, nil
}

// CreateChat crea un chat nuevo en el backend.
func (c *Client) CreateChat(ctx context.Context, title string) (domain.Chat, error) {
	var created domain.Chat
	payload := map[string]string{"title": title}
	if err := c.do(ctx, http.MethodPost, "/api/chats", payload, &created); err != nil {
		return domain.Chat{}, err
	}
	return created, nil
}

// GetChat devuelve el chat con su historial completo.
func (c *Client) GetChat(ctx context.Context, id string) (domain.Chat, error) {
	var chat domain.Chat
	if err := c.do(ctx, http.MethodGet, "/api/chats/"+url.PathEscape(id), nil, &chat); err != nil {
		return domain.Chat{}, err
	}
	return chat, nil
}

// DeleteChat elimina el chat en el backend.
func (c *Client) DeleteChat(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/chats/"+url.PathEscape(id), nil, nil)
}

// SendMessage envía el texto y devuelve la respuesta del asistente.
func (c *Client) SendMessage(ctx context.Context, id, text string) (string, error) {
	var resp struct {
		Assistant string `json:"assistant"`
	}
	payload := map[string]string{"message": text}
	if err := c.do(ctx, http.MethodPost, "/api/chats/"+url.PathEscape(id)+"/messages", payload, &resp); err != nil {
		return "", err
	}
	return resp.Assistant, nil
}

// do ejecuta la llamada con las credenciales adjuntas. Todo fallo que no sea
// de autenticación se reduce a ErrNoResult; un 401 limpia el estado local y
// dispara el hook de no-autenticado, sin reintentos.
func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body *bytes.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			c.logger.Debug("marshal request failed", zap.Error(err), zap.String("path", path))
			return ErrNoResult
		}
		body = bytes.NewReader(payload)
	} else {
		body = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL.String()+path, body)
	if err != nil {
		c.logger.Debug("create request failed", zap.Error(err), zap.String("path", path))
		return ErrNoResult
	}
	req.Header.Set("Content-Type", "application/json")
	if c.current.IDToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.current.IDToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Debug("request failed", zap.Error(err), zap.String("path", path))
		return ErrNoResult
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		c.logger.Info("session expired", zap.String("path", path))
		if err := c.clearCredential(); err != nil {
			c.logger.Warn("clearing credentials failed", zap.Error(err))
		}
		if c.onUnauthenticated != nil {
			c.onUnauthenticated()
		}
		return ErrUnauthenticated
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Debug("non-success response",
			zap.Int("status", resp.StatusCode),
			zap.String("path", path),
		)
		return ErrNoResult
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			c.logger.Debug("decode response failed", zap.Error(err), zap.String("path", path))
			return ErrNoResult
		}
	}
	return nil
}

func (c *Client) clearCredential() error {
	c.current = Credential{}
	if jar, err := cookiejar.New(nil); err == nil {
		c.httpClient.Jar = jar
	}
	return c.creds.Clear()
}
