package adapter

import "errors"

// Transport-agnostic failure classes returned by [RemoteBackend]
// implementations. Callers match them with [errors.Is].
var (
	// ErrTransientNetwork means the remote could not be reached or answered
	// with a temporary failure (5xx, 429, 408). The operation may be retried.
	ErrTransientNetwork = errors.New("transient network error")

	// ErrUnreachable is returned together with [ErrTransientNetwork] when no
	// response was received at all (refused connection, DNS, timeout).
	ErrUnreachable = errors.New("remote unreachable")

	// ErrConflictRejected means the remote refused the pushed version.
	ErrConflictRejected = errors.New("remote rejected version")

	// ErrValidation means the remote refused a malformed entity or blob.
	ErrValidation = errors.New("remote validation failed")

	// ErrUnauthorized means the bearer token is missing, expired or lacks
	// access to the entity.
	ErrUnauthorized = errors.New("client unauthorized")

	// ErrNotFound means the remote does not know the entity.
	ErrNotFound = errors.New("remote entity not found")
)
