// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package adapter provides transport-layer abstractions for communicating with
// the remote note backend.
//
// The primary abstraction is [RemoteBackend], which decouples the sync engine
// from the underlying protocol. The package ships an HTTP/REST implementation
// ([NewHTTPRemoteBackend]); adaptertest provides an in-memory server speaking
// the same protocol.
//
// Error values defined in errors.go are mapped from HTTP status codes by
// mapHTTPError so that callers can use [errors.Is] for transport-agnostic error
// handling (e.g. [ErrConflictRejected] for 409, [ErrTransientNetwork] for 5xx).
package adapter

import (
	"context"

	"github.com/MKhiriev/notesync/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/remote_backend_mock.go -package=mock

// RemoteBackend is the remote side of reconciliation.
type RemoteBackend interface {
	// SetToken stores the bearer token attached to every request.
	SetToken(token string)

	// ListChanges returns entities changed since cursor. An empty cursor
	// means "from the beginning".
	ListChanges(ctx context.Context, cursor string) (models.ChangeSet, error)

	// PushEntity uploads metadata plus the binary update of one entity and
	// returns its remote id and new version tag.
	PushEntity(ctx context.Context, req models.PushRequest) (models.PushResult, error)

	// DeleteEntity deletes an entity by remote id. Deleting an entity the
	// remote no longer knows succeeds.
	DeleteEntity(ctx context.Context, entityType models.EntityType, remoteID string) error

	// UploadBlob stores a binary attachment and returns its content key.
	UploadBlob(ctx context.Context, blob []byte, contentType string) (string, error)
}
