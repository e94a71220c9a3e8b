// ABOUTME: Conversation orchestrator: bounded per-user history, tool-augmented prompts.
// ABOUTME: Tool context is best-effort; a turn always completes with exactly one reply.

package chat

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/zapvendedor/zap-gateway/internal/capabilities"
	"github.com/zapvendedor/zap-gateway/internal/mcp"
	"github.com/zapvendedor/zap-gateway/internal/ollama"
	"github.com/zapvendedor/zap-gateway/internal/store"
)

// HistoryLimit is the sliding-window size per phone number. After every turn
// the in-memory history holds at most this many entries, oldest evicted first.
const HistoryLimit = 10

// maxContextProducts caps how many search hits are rendered into the prompt.
const maxContextProducts = 3

// FallbackReply is the fixed reply when the model backend fails. The turn
// still completes; the user is never shown a raw error.
const FallbackReply = "I'm sorry, I'm having trouble processing your request right now. Please try again later."

// DefaultSystemPrompt is the assistant persona used when the config does not
// override it.
const DefaultSystemPrompt = `You are a helpful sales assistant for an electronics store.
Your name is ZapVendedor. You help customers find products like phones, laptops, and accessories.
Be friendly, concise, and helpful. If you don't know something, say so.
Always try to recommend relevant products based on the customer's needs.`

// Backend is the model collaborator.
type Backend interface {
	Chat(ctx context.Context, messages []ollama.Message) (string, error)
}

// ToolInvoker is the slice of the mcp client the orchestrator needs.
type ToolInvoker interface {
	ExecuteTool(ctx context.Context, serverName, toolName string, params mcp.Params) (any, error)
}

// HistoryStore persists completed turns. Persistence is best-effort; failures
// are logged and never fail the turn.
type HistoryStore interface {
	SaveMessage(ctx context.Context, msg *store.Message) error
}

// Entry is one in-memory history item.
type Entry struct {
	Role    string
	Content string
}

// Options configures an Orchestrator beyond its collaborators.
type Options struct {
	SystemPrompt string        // defaults to DefaultSystemPrompt
	ToolTimeout  time.Duration // bounds the tool-context step, defaults to 5s
}

// Orchestrator handles one chat turn per inbound message. Turns for the same
// phone number serialize on a per-session lock so history appends stay ordered.
type Orchestrator struct {
	backend Backend
	tools   ToolInvoker  // nil disables the tool-context step
	persist HistoryStore // nil disables persistence
	logger  *slog.Logger

	systemPrompt string
	toolTimeout  time.Duration

	mu       sync.Mutex
	sessions map[string]*session
}

// session is the bounded dialogue history for one phone number.
type session struct {
	mu      sync.Mutex
	entries []Entry
}

// New creates an Orchestrator. tools and persist may be nil.
func New(backend Backend, tools ToolInvoker, persist HistoryStore, logger *slog.Logger, opts Options) *Orchestrator {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.SystemPrompt == "" {
		opts.SystemPrompt = DefaultSystemPrompt
	}
	if opts.ToolTimeout <= 0 {
		opts.ToolTimeout = 5 * time.Second
	}
	return &Orchestrator{
		backend:      backend,
		tools:        tools,
		persist:      persist,
		logger:       logger.With("component", "chat"),
		systemPrompt: opts.SystemPrompt,
		toolTimeout:  opts.ToolTimeout,
		sessions:     make(map[string]*session),
	}
}

// Reply runs one turn for the phone number and returns the assistant's reply.
// A reply is always produced: tool failures fall back to an empty context and
// backend failures fall back to the fixed apology.
func (o *Orchestrator) Reply(ctx context.Context, phoneNumber, text string) string {
	sess := o.session(phoneNumber)
	sess.mu.Lock()
	defer sess.mu.Unlock()

	sess.entries = append(sess.entries, Entry{Role: store.RoleUser, Content: text})

	productContext := o.productContext(ctx, text)

	messages := make([]ollama.Message, 0, len(sess.entries)+1)
	messages = append(messages, ollama.Message{
		Role:    "system",
		Content: o.systemPrompt + productContext,
	})
	for _, e := range sess.entries {
		messages = append(messages, ollama.Message{Role: e.Role, Content: e.Content})
	}

	reply, err := o.backend.Chat(ctx, messages)
	if err != nil {
		o.logger.Error("model backend failed, using fallback reply",
			"phone", phoneNumber,
			"error", err,
		)
		reply = FallbackReply
	}

	sess.entries = append(sess.entries, Entry{Role: store.RoleAssistant, Content: reply})
	if excess := len(sess.entries) - HistoryLimit; excess > 0 {
		sess.entries = sess.entries[excess:]
	}

	o.persistTurn(phoneNumber, text, reply)
	return reply
}

// History returns a copy of the current in-memory window for a phone number.
func (o *Orchestrator) History(phoneNumber string) []Entry {
	sess := o.session(phoneNumber)
	sess.mu.Lock()
	defer sess.mu.Unlock()
	out := make([]Entry, len(sess.entries))
	copy(out, sess.entries)
	return out
}

// session returns the existing session for the phone number, creating it
// lazily on first message.
func (o *Orchestrator) session(phoneNumber string) *session {
	o.mu.Lock()
	defer o.mu.Unlock()
	sess, ok := o.sessions[phoneNumber]
	if !ok {
		sess = &session{}
		o.sessions[phoneNumber] = sess
	}
	return sess
}

// productContext searches the catalog with the raw message and renders the
// top hits as a prompt block. Every failure path returns the empty string;
// this step never fails the turn.
func (o *Orchestrator) productContext(ctx context.Context, text string) string {
	if o.tools == nil {
		return ""
	}

	ctx, cancel := context.WithTimeout(ctx, o.toolTimeout)
	defer cancel()

	result, err := o.tools.ExecuteTool(ctx,
		capabilities.DatabaseServerName,
		capabilities.ToolSearchProducts,
		mcp.Params{"query": text},
	)
	if err != nil {
		o.logger.Warn("product search unavailable, continuing without context", "error", err)
		return ""
	}

	list, ok := result.(capabilities.ProductList)
	if !ok || list.Count == 0 {
		return ""
	}

	products := list.Products
	if len(products) > maxContextProducts {
		products = products[:maxContextProducts]
	}

	// Rendered in catalog order so the block is deterministic for a
	// given search result.
	var b strings.Builder
	b.WriteString("\n\nRelevant products from our catalog:\n")
	for _, p := range products {
		fmt.Fprintf(&b, "- %s (%s) - $%.2f: %s\n", p.Name, p.Brand, p.Price, p.Description)
	}
	return b.String()
}

// persistTurn writes the user message and reply to the store, if configured.
// Uses a detached timeout context so a cancelled request still gets recorded.
func (o *Orchestrator) persistTurn(phoneNumber, text, reply string) {
	if o.persist == nil {
		return
	}

	saveCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	for _, msg := range []*store.Message{
		{PhoneNumber: phoneNumber, Role: store.RoleUser, Content: text},
		{PhoneNumber: phoneNumber, Role: store.RoleAssistant, Content: reply},
	} {
		if err := o.persist.SaveMessage(saveCtx, msg); err != nil {
			o.logger.Error("failed to persist message",
				"phone", phoneNumber,
				"role", msg.Role,
				"error", err,
			)
		}
	}
}
