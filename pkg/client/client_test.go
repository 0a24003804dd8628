package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestClient_RegisterStoresToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/auth/register" {
			t.Errorf("path = %q", r.URL.Path)
		}
		var body map[string]string
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode body: %v", err)
		}
		if body["email"] != "maria@example.com" {
			t.Errorf("email = %q", body["email"])
		}
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]any{
			"user":  map[string]string{"id": "u-1", "username": "maria"},
			"token": "jwt-abc",
		})
	}))
	defer srv.Close()

	c := New(srv.URL + "/api/")
	u, err := c.Register(context.Background(), "maria", "maria@example.com", "secret123", "")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if u == nil || u.ID != "u-1" {
		t.Fatalf("user = %+v", u)
	}
	if c.Token() != "jwt-abc" {
		t.Fatalf("token not stored: %q", c.Token())
	}
}

func TestClient_LoginSendsBearerAfterwards(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/auth/login":
			json.NewEncoder(w).Encode(map[string]any{
				"user":  map[string]string{"id": "u-1"},
				"token": "jwt-xyz",
			})
		case "/api/auth/me":
			if got := r.Header.Get("Authorization"); got != "Bearer jwt-xyz" {
				t.Errorf("Authorization = %q", got)
			}
			json.NewEncoder(w).Encode(map[string]string{
				"id": "u-1", "email": "maria@example.com",
			})
		default:
			t.Errorf("unexpected path %q", r.URL.Path)
		}
	}))
	defer srv.Close()

	c := New(srv.URL + "/api")
	if _, err := c.Login(context.Background(), "maria@example.com", "secret123"); err != nil {
		t.Fatalf("Login: %v", err)
	}
	u, err := c.Me(context.Background())
	if err != nil {
		t.Fatalf("Me: %v", err)
	}
	if u.Email != "maria@example.com" {
		t.Fatalf("user = %+v", u)
	}
}

func TestClient_ErrorEnvelopeDecoded(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{
			"request_id": "req-1",
			"code":       "invalid_credentials",
			"message":    "invalid credentials",
		})
	}))
	defer srv.Close()

	c := New(srv.URL + "/api")
	_, err := c.Login(context.Background(), "ghost@example.com", "nope")

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %T: %v", err, err)
	}
	if apiErr.Status != http.StatusBadRequest || apiErr.Code != "invalid_credentials" {
		t.Fatalf("unexpected error: %+v", apiErr)
	}
	if c.Token() != "" {
		t.Fatalf("token should stay empty after failed login")
	}
}

func TestClient_UndecodableErrorBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gateway exploded", http.StatusBadGateway)
	}))
	defer srv.Close()

	c := New(srv.URL)
	_, err := c.Ask(context.Background(), "", "hello")

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %v", err)
	}
	if apiErr.Status != http.StatusBadGateway || apiErr.Code != "unknown" {
		t.Fatalf("unexpected error: %+v", apiErr)
	}
}

func TestClient_AskOmitsEmptyUserID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		json.NewDecoder(r.Body).Decode(&body)
		if _, present := body["userId"]; present {
			t.Errorf("userId sent for anonymous ask: %v", body)
		}
		json.NewEncoder(w).Encode(map[string]string{"reply": "hi there"})
	}))
	defer srv.Close()

	c := New(srv.URL + "/api")
	reply, err := c.Ask(context.Background(), "", "hello")
	if err != nil {
		t.Fatalf("Ask: %v", err)
	}
	if reply != "hi there" {
		t.Fatalf("reply = %q", reply)
	}
}

func TestClient_LogoutDropsTokenEvenOnFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := New(srv.URL + "/api")
	c.SetToken("jwt-old")
	if err := c.Logout(context.Background()); err == nil {
		t.Fatalf("expected error from failing logout")
	}
	if c.Token() != "" {
		t.Fatalf("token kept after logout: %q", c.Token())
	}
}
