// ABOUTME: Package documentation for the whatsapp package
// ABOUTME: Describes the Cloud API client and webhook handler

// Package whatsapp integrates zap-gateway with the WhatsApp Cloud API.
//
// Client sends outbound text messages through the Graph API messages
// endpoint. Webhook receives inbound events: it answers the Meta
// subscription handshake on GET and processes text messages on POST,
// deduplicating redeliveries by message ID before handing each message
// to a Processor and sending the reply back through a Sender.
package whatsapp
