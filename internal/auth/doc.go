// ABOUTME: Package documentation for the auth package
// ABOUTME: Describes admin login and JWT-based API authentication

// Package auth secures the zap-gateway admin API.
//
// Operators log in with a shared admin secret; the config stores only
// its bcrypt hash. A successful login mints an HS256 JWT whose subject
// is "admin", and Middleware verifies that token on every admin API
// request, placing the subject in the request context.
package auth
