// ABOUTME: JSON API handlers for the admin surface
// ABOUTME: Login, product CRUD, and conversation history endpoints

package gateway

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/zapvendedor/zap-gateway/internal/auth"
	"github.com/zapvendedor/zap-gateway/internal/catalog"
)

// LoginRequest is the JSON request body for POST /api/login.
type LoginRequest struct {
	Secret string `json:"secret"`
}

// LoginResponse is the JSON response for a successful login.
type LoginResponse struct {
	Token string `json:"token"`
}

// ConversationResponse is one entry in GET /api/conversations.
type ConversationResponse struct {
	PhoneNumber   string `json:"phone_number"`
	MessageCount  int    `json:"message_count"`
	LastMessageAt string `json:"last_message_at"`
}

// MessageResponse is one entry in GET /api/conversations/{phone}.
type MessageResponse struct {
	ID        string `json:"id"`
	Role      string `json:"role"`
	Content   string `json:"content"`
	CreatedAt string `json:"created_at"`
}

// registerAPIRoutes mounts the JSON API. Login stays unprotected; the
// remaining routes go through the JWT middleware when configured.
func (g *Gateway) registerAPIRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/api/login", g.handleLogin)

	protect := g.authMiddleware()
	mux.Handle("/api/products", protect(http.HandlerFunc(g.handleProducts)))
	mux.Handle("/api/products/", protect(http.HandlerFunc(g.handleProductByID)))
	mux.Handle("/api/conversations", protect(http.HandlerFunc(g.handleConversations)))
	mux.Handle("/api/conversations/", protect(http.HandlerFunc(g.handleConversationHistory)))
}

// handleLogin handles POST /api/login. A correct admin secret mints a
// session JWT.
func (g *Gateway) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	if g.config.Auth.JWTSecret == "" || g.config.Auth.AdminSecretHash == "" {
		g.sendJSONError(w, http.StatusNotImplemented, "login is not configured")
		return
	}

	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		g.sendJSONError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Secret == "" {
		g.sendJSONError(w, http.StatusBadRequest, "secret is required")
		return
	}

	if err := auth.CheckSecret(g.config.Auth.AdminSecretHash, req.Secret); err != nil {
		if errors.Is(err, auth.ErrWrongSecret) {
			g.sendJSONError(w, http.StatusUnauthorized, "wrong secret")
			return
		}
		g.logger.Error("failed to check admin secret", "error", err)
		g.sendJSONError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	verifier := auth.NewJWTVerifier([]byte(g.config.Auth.JWTSecret))
	token, err := verifier.Generate(auth.AdminSubject, auth.DefaultTokenTTL)
	if err != nil {
		g.logger.Error("failed to mint token", "error", err)
		g.sendJSONError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	g.writeJSON(w, http.StatusOK, LoginResponse{Token: token})
}

// handleProducts handles GET (list) and POST (create) on /api/products.
func (g *Gateway) handleProducts(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		products, err := g.store.ListAll(r.Context())
		if err != nil {
			g.logger.Error("failed to list products", "error", err)
			g.sendJSONError(w, http.StatusInternalServerError, "internal server error")
			return
		}
		g.writeJSON(w, http.StatusOK, products)

	case http.MethodPost:
		var p catalog.Product
		if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
			g.sendJSONError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		if p.Name == "" {
			g.sendJSONError(w, http.StatusBadRequest, "name is required")
			return
		}
		if err := g.store.Add(r.Context(), &p); err != nil {
			g.logger.Error("failed to add product", "error", err)
			g.sendJSONError(w, http.StatusInternalServerError, "internal server error")
			return
		}
		g.writeJSON(w, http.StatusCreated, &p)

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// handleProductByID handles GET, PUT, and DELETE on /api/products/{id}.
func (g *Gateway) handleProductByID(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/api/products/")
	if id == "" || strings.Contains(id, "/") {
		g.sendJSONError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	switch r.Method {
	case http.MethodGet:
		p, err := g.store.GetByID(r.Context(), id)
		if errors.Is(err, catalog.ErrNotFound) {
			g.sendJSONError(w, http.StatusNotFound, "product not found")
			return
		}
		if err != nil {
			g.logger.Error("failed to get product", "error", err, "id", id)
			g.sendJSONError(w, http.StatusInternalServerError, "internal server error")
			return
		}
		g.writeJSON(w, http.StatusOK, p)

	case http.MethodPut:
		var p catalog.Product
		if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
			g.sendJSONError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		p.ID = id
		err := g.store.Update(r.Context(), &p)
		if errors.Is(err, catalog.ErrNotFound) {
			g.sendJSONError(w, http.StatusNotFound, "product not found")
			return
		}
		if err != nil {
			g.logger.Error("failed to update product", "error", err, "id", id)
			g.sendJSONError(w, http.StatusInternalServerError, "internal server error")
			return
		}
		g.writeJSON(w, http.StatusOK, &p)

	case http.MethodDelete:
		err := g.store.Delete(r.Context(), id)
		if errors.Is(err, catalog.ErrNotFound) {
			g.sendJSONError(w, http.StatusNotFound, "product not found")
			return
		}
		if err != nil {
			g.logger.Error("failed to delete product", "error", err, "id", id)
			g.sendJSONError(w, http.StatusInternalServerError, "internal server error")
			return
		}
		w.WriteHeader(http.StatusNoContent)

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// handleConversations handles GET /api/conversations.
func (g *Gateway) handleConversations(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	conversations, err := g.store.ListConversations(r.Context())
	if err != nil {
		g.logger.Error("failed to list conversations", "error", err)
		g.sendJSONError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	response := make([]ConversationResponse, len(conversations))
	for i, c := range conversations {
		response[i] = ConversationResponse{
			PhoneNumber:   c.PhoneNumber,
			MessageCount:  c.MessageCount,
			LastMessageAt: c.LastMessageAt.Format(time.RFC3339),
		}
	}
	g.writeJSON(w, http.StatusOK, response)
}

// handleConversationHistory handles GET /api/conversations/{phone}.
func (g *Gateway) handleConversationHistory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	phone := strings.TrimPrefix(r.URL.Path, "/api/conversations/")
	if phone == "" || strings.Contains(phone, "/") {
		g.sendJSONError(w, http.StatusBadRequest, "invalid phone number")
		return
	}

	messages, err := g.store.History(r.Context(), phone, 0)
	if err != nil {
		g.logger.Error("failed to load history", "error", err, "phone_number", phone)
		g.sendJSONError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	response := make([]MessageResponse, len(messages))
	for i, m := range messages {
		response[i] = MessageResponse{
			ID:        m.ID,
			Role:      m.Role,
			Content:   m.Content,
			CreatedAt: m.CreatedAt.Format(time.RFC3339),
		}
	}
	g.writeJSON(w, http.StatusOK, response)
}

// writeJSON writes a JSON response with the given status.
func (g *Gateway) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		g.logger.Error("failed to encode response", "error", err)
	}
}

// sendJSONError writes a JSON error response.
func (g *Gateway) sendJSONError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}
