// ABOUTME: Package documentation for the webadmin package
// ABOUTME: Describes the read-only HTML admin pages

// Package webadmin serves HTML pages for inspecting the assistant's
// state: the conversation list, per-number message history, and the
// product catalog. Assistant replies are markdown and are rendered to
// HTML; user messages are escaped verbatim. The pages are read-only;
// product mutations go through the authenticated JSON API.
package webadmin
