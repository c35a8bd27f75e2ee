// Package utils provides general-purpose helper utilities
// used across different parts of the application.
// Includes tools for working with context, type-safe keys, hashing,
// HTTP client initialization, and id generation.
package utils

import (
	"context"
)

// contextKey is a private type for context keys.
// Using a dedicated type instead of a plain string prevents key collisions
// with other packages that may use string-based keys in the context.
type contextKey string

// String returns the string representation of the context key.
// Implements the fmt.Stringer interface.
func (c contextKey) String() string {
	return string(c)
}

// OriginCtxKey is the key used to store the writer origin in the context.
// Every fragment appended to the update log is tagged with the origin found
// in the context it was written with.
var OriginCtxKey = contextKey("origin")

// WithOrigin returns a copy of ctx carrying origin.
//
//	ctx = utils.WithOrigin(ctx, "reconciler")
func WithOrigin(ctx context.Context, origin string) context.Context {
	return context.WithValue(ctx, OriginCtxKey, origin)
}

// OriginFromContext retrieves the writer origin from the context.
//
// Returns the origin and an ok flag:
//   - ok == true  — value is found and is a non-empty string
//   - ok == false — value is missing or has an unexpected type
func OriginFromContext(ctx context.Context) (string, bool) {
	origin, ok := ctx.Value(OriginCtxKey).(string)
	return origin, ok && origin != ""
}
