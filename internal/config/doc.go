// ABOUTME: Package documentation for the config package
// ABOUTME: Describes the YAML configuration surface of zap-gateway

// Package config loads and validates zap-gateway configuration from
// YAML files.
//
// Configuration files support ${VAR_NAME} environment variable
// expansion and Go duration strings for timeout fields. Load applies
// defaults for the Ollama backend (local URL, two minute request
// timeout) and rejects configs that are missing the HTTP listen
// address, the database path, or the model name. WhatsApp credentials
// are only required when the WhatsApp frontend is enabled.
package config
