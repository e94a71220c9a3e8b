// ABOUTME: Store interface and data types for zap-gateway persistence.
// ABOUTME: Conversation messages are append-only; products implement the catalog contract.

package store

import (
	"context"
	"errors"
	"time"

	"github.com/zapvendedor/zap-gateway/internal/catalog"
)

// ErrNotFound is returned when a requested entity does not exist.
var ErrNotFound = errors.New("not found")

// Message roles as stored and as sent to the model backend.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one conversation entry for a phone number.
type Message struct {
	ID          string
	PhoneNumber string
	Role        string // "user" or "assistant"
	Content     string
	CreatedAt   time.Time
}

// Conversation summarizes the message log for one phone number.
type Conversation struct {
	PhoneNumber   string
	MessageCount  int
	LastMessageAt time.Time
}

// Store defines conversation persistence. The full message log is kept here;
// the orchestrator's 10-entry window is an in-memory concern on top of it.
type Store interface {
	SaveMessage(ctx context.Context, msg *Message) error
	History(ctx context.Context, phoneNumber string, limit int) ([]*Message, error)
	ListConversations(ctx context.Context) ([]*Conversation, error)

	// The product catalog lives in the same database.
	catalog.Catalog

	Close() error
}
