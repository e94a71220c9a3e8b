// Package dedupe provides a TTL cache over WhatsApp message IDs so
// redelivered webhook payloads are processed exactly once.
package dedupe
