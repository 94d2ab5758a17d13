package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

type serverResponse struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	OwnerID  string `json:"ownerId"`
	Members  []struct {
		ID       string `json:"id"`
		Username string `json:"username"`
	} `json:"members"`
	Channels []struct {
		ID   string `json:"id"`
		Name string `json:"name"`
		Type string `json:"type"`
	} `json:"channels"`
}

func decodeServer(t *testing.T, w *httptest.ResponseRecorder) serverResponse {
	t.Helper()
	var resp struct {
		Server serverResponse `json:"server"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to decode server response: %v", err)
	}
	return resp.Server
}

// createServerViaAPI drives the create endpoint and returns the new
// server's ID.
func createServerViaAPI(t *testing.T, router *gin.Engine, cookie *http.Cookie, name string) string {
	t.Helper()
	w := performRequest(router, http.MethodPost, "/api/servers", CreateServerRequest{Name: name}, cookie)
	if w.Code != http.StatusCreated {
		t.Fatalf("Failed to create server: status %d, body %s", w.Code, w.Body.String())
	}
	server := decodeServer(t, w)
	if server.ID == "" {
		t.Fatalf("Expected server ID in response")
	}
	return server.ID
}

func TestServerHandlers_CreateAndGet(t *testing.T) {
	router, _ := setupRouter(t)
	alice := registerUser(t, router, "alice")
	mallory := registerUser(t, router, "mallory")

	w := performRequest(router, http.MethodPost, "/api/servers", CreateServerRequest{Name: "gaming"}, alice)
	if w.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d: %s", w.Code, w.Body.String())
	}
	server := decodeServer(t, w)
	if server.Name != "gaming" {
		t.Errorf("Expected name 'gaming', got '%s'", server.Name)
	}
	if len(server.Members) != 1 || server.Members[0].Username != "alice" {
		t.Errorf("Expected the owner as sole member")
	}

	// Members can fetch it.
	w = performRequest(router, http.MethodGet, "/api/servers/"+server.ID, nil, alice)
	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}

	// Non-members cannot.
	w = performRequest(router, http.MethodGet, "/api/servers/"+server.ID, nil, mallory)
	if w.Code != http.StatusForbidden {
		t.Errorf("Expected status 403 for non-member, got %d", w.Code)
	}

	w = performRequest(router, http.MethodGet, "/api/servers/missing", nil, alice)
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status 404 for unknown server, got %d", w.Code)
	}

	// Blank name is rejected.
	w = performRequest(router, http.MethodPost, "/api/servers", map[string]string{"name": ""}, alice)
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400 for blank name, got %d", w.Code)
	}
}

func TestServerHandlers_GetServers(t *testing.T) {
	router, _ := setupRouter(t)
	alice := registerUser(t, router, "alice")
	bob := registerUser(t, router, "bob")

	createServerViaAPI(t, router, alice, "first")
	createServerViaAPI(t, router, alice, "second")

	w := performRequest(router, http.MethodGet, "/api/servers", nil, alice)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	var resp struct {
		Servers []serverResponse `json:"servers"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if len(resp.Servers) != 2 {
		t.Errorf("Expected 2 servers, got %d", len(resp.Servers))
	}

	w = performRequest(router, http.MethodGet, "/api/servers", nil, bob)
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if len(resp.Servers) != 0 {
		t.Errorf("Expected no servers for bob, got %d", len(resp.Servers))
	}
}

func TestServerHandlers_AddChannel(t *testing.T) {
	router, _ := setupRouter(t)
	alice := registerUser(t, router, "alice")
	mallory := registerUser(t, router, "mallory")
	serverID := createServerViaAPI(t, router, alice, "gaming")

	tests := []struct {
		name           string
		cookie         *http.Cookie
		body           AddChannelRequest
		expectedStatus int
	}{
		{
			name:           "owner adds text channel",
			cookie:         alice,
			body:           AddChannelRequest{Name: "general", Type: "text"},
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "owner adds voice channel",
			cookie:         alice,
			body:           AddChannelRequest{Name: "lounge", Type: "voice"},
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "invalid channel type",
			cookie:         alice,
			body:           AddChannelRequest{Name: "random", Type: "video"},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "non-owner",
			cookie:         mallory,
			body:           AddChannelRequest{Name: "random", Type: "text"},
			expectedStatus: http.StatusForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := performRequest(router, http.MethodPost, "/api/servers/"+serverID+"/channels", tt.body, tt.cookie)
			if w.Code != tt.expectedStatus {
				t.Errorf("Expected status %d, got %d: %s", tt.expectedStatus, w.Code, w.Body.String())
			}
		})
	}

	w := performRequest(router, http.MethodGet, "/api/servers/"+serverID, nil, alice)
	server := decodeServer(t, w)
	if len(server.Channels) != 2 {
		t.Errorf("Expected 2 channels, got %d", len(server.Channels))
	}
}

func TestServerHandlers_Invite(t *testing.T) {
	router, _ := setupRouter(t)
	alice := registerUser(t, router, "alice")
	registerUser(t, router, "bob")
	serverID := createServerViaAPI(t, router, alice, "gaming")

	w := performRequest(router, http.MethodPost, "/api/servers/"+serverID+"/invite", InviteRequest{Email: "bob@example.com"}, alice)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	// Re-inviting while pending conflicts.
	w = performRequest(router, http.MethodPost, "/api/servers/"+serverID+"/invite", InviteRequest{Email: "bob@example.com"}, alice)
	if w.Code != http.StatusConflict {
		t.Errorf("Expected status 409 for duplicate invite, got %d", w.Code)
	}

	// Inviting an existing member conflicts.
	w = performRequest(router, http.MethodPost, "/api/servers/"+serverID+"/invite", InviteRequest{Email: "alice@example.com"}, alice)
	if w.Code != http.StatusConflict {
		t.Errorf("Expected status 409 for existing member, got %d", w.Code)
	}

	w = performRequest(router, http.MethodPost, "/api/servers/missing/invite", InviteRequest{Email: "bob@example.com"}, alice)
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status 404 for unknown server, got %d", w.Code)
	}
}

func TestServerHandlers_DeleteServer(t *testing.T) {
	router, _ := setupRouter(t)
	alice := registerUser(t, router, "alice")
	mallory := registerUser(t, router, "mallory")
	serverID := createServerViaAPI(t, router, alice, "gaming")

	w := performRequest(router, http.MethodDelete, "/api/servers/"+serverID, nil, mallory)
	if w.Code != http.StatusForbidden {
		t.Errorf("Expected status 403 for non-owner, got %d", w.Code)
	}

	w = performRequest(router, http.MethodDelete, "/api/servers/"+serverID, nil, alice)
	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	w = performRequest(router, http.MethodGet, "/api/servers/"+serverID, nil, alice)
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status 404 after delete, got %d", w.Code)
	}
}
