// ABOUTME: Package documentation for the gateway package
// ABOUTME: Describes startup wiring and the HTTP surface

// Package gateway assembles the zap-gateway server.
//
// New wires the SQLite store, the database and web capability servers
// (started at boot; a failure there aborts startup), the Ollama-backed
// chat orchestrator, the WhatsApp webhook, the admin JSON API, and the
// HTML admin pages onto one HTTP server. Run serves until the context
// is canceled, then shuts everything down gracefully.
package gateway
