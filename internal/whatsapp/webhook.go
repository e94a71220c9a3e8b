// ABOUTME: Webhook handler for inbound WhatsApp Cloud API events.
// ABOUTME: Handles subscription verification and text message delivery.

package whatsapp

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/zapvendedor/zap-gateway/internal/dedupe"
)

// Processor handles an inbound text message and returns the reply to
// send back to the user.
type Processor interface {
	Reply(ctx context.Context, phoneNumber, text string) string
}

// Sender delivers an outbound text message. *Client implements it.
type Sender interface {
	SendText(ctx context.Context, phoneNumber, text string) error
}

// webhookPayload mirrors the Cloud API webhook envelope for the
// messages field. Unrelated fields are ignored.
type webhookPayload struct {
	Object string `json:"object"`
	Entry  []struct {
		Changes []struct {
			Field string `json:"field"`
			Value struct {
				Contacts []struct {
					WaID string `json:"wa_id"`
				} `json:"contacts"`
				Messages []inboundMessage `json:"messages"`
			} `json:"value"`
		} `json:"changes"`
	} `json:"entry"`
}

// inboundMessage is a single message within a webhook delivery.
type inboundMessage struct {
	ID   string `json:"id"`
	From string `json:"from"`
	Type string `json:"type"`
	Text struct {
		Body string `json:"body"`
	} `json:"text"`
}

// Webhook receives WhatsApp Cloud API callbacks, deduplicates
// redeliveries, and hands text messages to the Processor. Replies go
// back out through the Sender.
type Webhook struct {
	verifyToken string
	processor   Processor
	sender      Sender
	seen        *dedupe.Cache
	logger      *slog.Logger
}

// NewWebhook creates a webhook handler. The verify token must match the
// one configured in the Meta app dashboard.
func NewWebhook(verifyToken string, processor Processor, sender Sender, logger *slog.Logger) *Webhook {
	return &Webhook{
		verifyToken: verifyToken,
		processor:   processor,
		sender:      sender,
		seen:        dedupe.New(dedupe.DefaultTTL, dedupe.DefaultMaxEntries),
		logger:      logger.With("component", "whatsapp-webhook"),
	}
}

// Close releases the dedupe cache.
func (h *Webhook) Close() {
	h.seen.Close()
}

// ServeHTTP routes webhook requests by HTTP method.
func (h *Webhook) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.handleVerify(w, r)
	case http.MethodPost:
		h.handleEvent(w, r)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// handleVerify handles the Cloud API subscription handshake. Meta sends
// hub.mode, hub.verify_token, and hub.challenge as query parameters and
// expects the raw challenge echoed back on success.
func (h *Webhook) handleVerify(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	mode := q.Get("hub.mode")
	token := q.Get("hub.verify_token")
	challenge := q.Get("hub.challenge")

	if mode == "" || token == "" {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	if mode != "subscribe" || token != h.verifyToken {
		w.WriteHeader(http.StatusForbidden)
		return
	}

	h.logger.Info("webhook verified")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(challenge))
}

// handleEvent handles an inbound webhook delivery. It always responds
// 200 for recognized WhatsApp events, even when processing fails, so
// Meta does not retry a message we already handled.
func (h *Webhook) handleEvent(w http.ResponseWriter, r *http.Request) {
	var payload webhookPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	if payload.Object != "whatsapp_business_account" {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	for _, entry := range payload.Entry {
		for _, change := range entry.Changes {
			if change.Field != "messages" {
				continue
			}
			for _, msg := range change.Value.Messages {
				if msg.Type != "text" {
					h.logger.Debug("ignoring non-text message", "type", msg.Type, "id", msg.ID)
					continue
				}

				phone := msg.From
				if phone == "" && len(change.Value.Contacts) > 0 {
					phone = change.Value.Contacts[0].WaID
				}
				if phone == "" {
					h.logger.Warn("message without sender", "id", msg.ID)
					continue
				}

				if msg.ID != "" && h.seen.Seen(msg.ID) {
					h.logger.Debug("dropping redelivered message", "id", msg.ID)
					continue
				}

				h.process(r.Context(), phone, msg.Text.Body)
			}
		}
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

// process runs one message through the assistant and sends the reply.
func (h *Webhook) process(ctx context.Context, phoneNumber, text string) {
	reply := h.processor.Reply(ctx, phoneNumber, text)

	if err := h.sender.SendText(ctx, phoneNumber, reply); err != nil {
		h.logger.Error("failed to send reply", "error", err, "phone_number", phoneNumber)
	}
}
