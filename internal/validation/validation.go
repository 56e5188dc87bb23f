// Package validation binds admitted JSON payloads into typed request structs
// and validates them.
//
// It uses the `validator` library to enforce rules (like required fields or
// max lengths) defined in struct tags and converts validation errors into
// field errors the client can understand.
package validation
