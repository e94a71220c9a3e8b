// ABOUTME: Server-rendered admin pages for browsing conversations and products.
// ABOUTME: Read-only HTML views on top of the store; mutations go through the JSON API.

package webadmin

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/zapvendedor/zap-gateway/internal/store"
)

// historyPageLimit caps how many messages a conversation page renders.
const historyPageLimit = 200

// Admin serves the HTML admin pages.
type Admin struct {
	store  store.Store
	logger *slog.Logger
}

// NewAdmin creates the admin page handler.
func NewAdmin(st store.Store, logger *slog.Logger) *Admin {
	return &Admin{
		store:  st,
		logger: logger.With("component", "webadmin"),
	}
}

// Register mounts the admin pages on the given mux.
func (a *Admin) Register(mux *http.ServeMux) {
	mux.HandleFunc("/admin", a.handleConversations)
	mux.HandleFunc("/admin/", a.handleConversations)
	mux.HandleFunc("/admin/conversations/", a.handleConversationDetail)
	mux.HandleFunc("/admin/products", a.handleProducts)
}

// handleConversations handles GET /admin, listing all conversations.
func (a *Admin) handleConversations(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if r.URL.Path != "/admin" && r.URL.Path != "/admin/" {
		http.NotFound(w, r)
		return
	}

	conversations, err := a.store.ListConversations(r.Context())
	if err != nil {
		a.logger.Error("failed to list conversations", "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	a.renderConversationsPage(w, conversations)
}

// handleConversationDetail handles GET /admin/conversations/{phone},
// rendering the message history with assistant markdown converted to HTML.
func (a *Admin) handleConversationDetail(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	phone := strings.TrimPrefix(r.URL.Path, "/admin/conversations/")
	if phone == "" || strings.Contains(phone, "/") {
		http.NotFound(w, r)
		return
	}

	messages, err := a.store.History(r.Context(), phone, historyPageLimit)
	if err != nil {
		a.logger.Error("failed to load history", "error", err, "phone_number", phone)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	a.renderConversationPage(w, phone, messages)
}

// handleProducts handles GET /admin/products, listing the catalog.
func (a *Admin) handleProducts(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	products, err := a.store.ListAll(r.Context())
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		a.logger.Error("failed to list products", "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	a.renderProductsPage(w, products)
}
