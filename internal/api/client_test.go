package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"go.uber.org/zap"

	"gemma-chat/internal/domain"
)

func newTestClient(t *testing.T, serverURL string, cred Credential) (*Client, *CredentialStore) {
	t.Helper()
	store := NewCredentialStore(filepath.Join(t.TempDir(), "credentials.json"))
	if !cred.Empty() {
		if err := store.Save(cred); err != nil {
			t.Fatalf("save credential: %v", err)
		}
	}
	client, err := NewClient(serverURL, store, zap.NewNop())
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return client, store
}

func TestClient_AttachesBearerAndSessionCookie(t *testing.T) {
	var gotAuth, gotCookie string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		if cookie, err := r.Cookie(domain.SessionCookieName); err == nil {
			gotCookie = cookie.Value
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"uid":"u1"}`))
	}))
	defer server.Close()

	client, _ := newTestClient(t, server.URL, Credential{IDToken: "token-123", SessionID: "sess-456"})
	identity, err := client.Me(context.Background())
	if err != nil {
		t.Fatalf("me: %v", err)
	}
	if identity.UID != "u1" {
		t.Fatalf("unexpected identity: %+v", identity)
	}
	if gotAuth != "Bearer token-123" {
		t.Fatalf("expected bearer header, got %q", gotAuth)
	}
	if gotCookie != "sess-456" {
		t.Fatalf("expected session cookie, got %q", gotCookie)
	}
}

func TestClient_NonSuccessIsNoResult(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"error":"boom"}`, http.StatusInternalServerError)
	}))
	defer server.Close()

	client, _ := newTestClient(t, server.URL, Credential{IDToken: "t"})
	if _, err := client.ListChats(context.Background()); !errors.Is(err, ErrNoResult) {
		t.Fatalf("expected ErrNoResult, got %v", err)
	}
}

func TestClient_MalformedBodyIsNoResult(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{not json`))
	}))
	defer server.Close()

	client, _ := newTestClient(t, server.URL, Credential{IDToken: "t"})
	if _, err := client.GetChat(context.Background(), "abc"); !errors.Is(err, ErrNoResult) {
		t.Fatalf("expected ErrNoResult, got %v", err)
	}
}

func TestClient_TransportFailureIsNoResult(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	serverURL := server.URL
	server.Close() // el puerto queda muerto

	client, _ := newTestClient(t, serverURL, Credential{IDToken: "t"})
	if _, err := client.ListChats(context.Background()); !errors.Is(err, ErrNoResult) {
		t.Fatalf("expected ErrNoResult, got %v", err)
	}
}

func TestClient_UnauthorizedClearsStateAndFiresHook(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"error":"unauthenticated"}`, http.StatusUnauthorized)
	}))
	defer server.Close()

	client, store := newTestClient(t, server.URL, Credential{IDToken: "t", SessionID: "s"})
	fired := 0
	client.SetOnUnauthenticated(func() { fired++ })

	if _, err := client.Me(context.Background()); !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
	if fired != 1 {
		t.Fatalf("expected hook fired once, got %d", fired)
	}
	if client.HasCredential() {
		t.Fatal("expected in-memory credential cleared")
	}
	cred, err := store.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !cred.Empty() {
		t.Fatalf("expected stored credential cleared, got %+v", cred)
	}

	// Repetir la transición es idempotente.
	if _, err := client.Me(context.Background()); !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
	if fired != 2 {
		t.Fatalf("expected hook fired twice, got %d", fired)
	}
}

func TestClient_LoginPersistsCredential(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/auth/login" {
			http.NotFound(w, r)
			return
		}
		http.SetCookie(w, &http.Cookie{Name: domain.SessionCookieName, Value: "fresh-session", Path: "/"})
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"uid":"u1","email":"user@example.com"}`))
	}))
	defer server.Close()

	client, store := newTestClient(t, server.URL, Credential{})
	identity, err := client.Login(context.Background(), "fresh-token")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if identity.UID != "u1" {
		t.Fatalf("unexpected identity: %+v", identity)
	}

	cred, err := store.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cred.IDToken != "fresh-token" || cred.SessionID != "fresh-session" {
		t.Fatalf("unexpected stored credential: %+v", cred)
	}
	if !client.HasCredential() {
		t.Fatal("expected credential present")
	}
}

func TestCredentialStore_LoadMissingIsEmpty(t *testing.T) {
	store := NewCredentialStore(filepath.Join(t.TempDir(), "credentials.json"))
	cred, err := store.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !cred.Empty() {
		t.Fatalf("expected empty credential, got %+v", cred)
	}
	if err := store.Clear(); err != nil {
		t.Fatalf("clear on missing file: %v", err)
	}
}
