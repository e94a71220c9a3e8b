// ABOUTME: Template rendering functions for the admin pages
// ABOUTME: Loads templates from the embedded filesystem and renders them

package webadmin

import (
	"bytes"
	"html/template"
	"net/http"

	"github.com/yuin/goldmark"

	"github.com/zapvendedor/zap-gateway/internal/catalog"
	"github.com/zapvendedor/zap-gateway/internal/store"
)

// Template data types
type conversationsData struct {
	Title         string
	Conversations []*store.Conversation
}

type messageItem struct {
	Role      string
	Content   template.HTML
	CreatedAt string
}

type conversationData struct {
	Title       string
	PhoneNumber string
	Messages    []messageItem
}

type productsData struct {
	Title    string
	Products []*catalog.Product
}

// renderConversationsPage renders the conversation list page
func (a *Admin) renderConversationsPage(w http.ResponseWriter, conversations []*store.Conversation) {
	tmpl := template.Must(template.ParseFS(templateFS, "templates/base.html", "templates/conversations.html"))

	data := conversationsData{
		Title:         "Conversations",
		Conversations: conversations,
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := tmpl.Execute(w, data); err != nil {
		a.logger.Error("failed to render conversations page", "error", err)
	}
}

// renderConversationPage renders a single conversation's message history
func (a *Admin) renderConversationPage(w http.ResponseWriter, phoneNumber string, messages []*store.Message) {
	tmpl := template.Must(template.ParseFS(templateFS, "templates/base.html", "templates/conversation.html"))

	items := make([]messageItem, len(messages))
	for i, msg := range messages {
		items[i] = messageItem{
			Role:      msg.Role,
			Content:   a.renderContent(msg),
			CreatedAt: msg.CreatedAt.Format("2006-01-02 15:04:05"),
		}
	}

	data := conversationData{
		Title:       "Conversation " + phoneNumber,
		PhoneNumber: phoneNumber,
		Messages:    items,
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := tmpl.Execute(w, data); err != nil {
		a.logger.Error("failed to render conversation page", "error", err)
	}
}

// renderContent converts message content for display. Assistant replies
// are markdown and get converted to HTML; user messages are shown as
// escaped plain text.
func (a *Admin) renderContent(msg *store.Message) template.HTML {
	if msg.Role != store.RoleAssistant {
		return template.HTML(template.HTMLEscapeString(msg.Content))
	}

	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(msg.Content), &buf); err != nil {
		a.logger.Error("failed to convert markdown", "error", err)
		return template.HTML(template.HTMLEscapeString(msg.Content))
	}
	return template.HTML(buf.String())
}

// renderProductsPage renders the product catalog table
func (a *Admin) renderProductsPage(w http.ResponseWriter, products []*catalog.Product) {
	tmpl := template.Must(template.ParseFS(templateFS, "templates/base.html", "templates/products.html"))

	data := productsData{
		Title:    "Products",
		Products: products,
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := tmpl.Execute(w, data); err != nil {
		a.logger.Error("failed to render products page", "error", err)
	}
}
