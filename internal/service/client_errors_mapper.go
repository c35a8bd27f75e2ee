// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"errors"

	"github.com/MKhiriev/notesync/internal/adapter"
	"github.com/MKhiriev/notesync/internal/crdt"
	"github.com/MKhiriev/notesync/internal/crypto"
	"github.com/MKhiriev/notesync/internal/store"
	"github.com/MKhiriev/notesync/models"
)

// ClassifyError maps err to the code stored in the sync error log.
func ClassifyError(err error) models.SyncErrorCode {
	switch {
	case err == nil:
		return models.CodeUnknown
	case errors.Is(err, adapter.ErrTransientNetwork):
		return models.CodeTransientNetwork
	case errors.Is(err, adapter.ErrConflictRejected), errors.Is(err, ErrLocalEditsDiscarded):
		return models.CodeConflictRejected
	case errors.Is(err, adapter.ErrValidation),
		errors.Is(err, crdt.ErrMalformedUpdate),
		errors.Is(err, crypto.ErrMalformedHeader),
		errors.Is(err, crypto.ErrDecrypt),
		errors.Is(err, crypto.ErrNoPassphrase),
		errors.Is(err, ErrInvalidEntityType),
		errors.Is(err, ErrEmptyBlob):
		return models.CodeValidation
	case errors.Is(err, store.ErrStorage), errors.Is(err, store.ErrNotFound):
		return models.CodeStorage
	default:
		return models.CodeUnknown
	}
}

// isCycleLevel reports whether err means the remote as a whole is out of
// reach, so that the rest of the cycle is pointless.
func isCycleLevel(err error) bool {
	return errors.Is(err, adapter.ErrUnreachable) || errors.Is(err, adapter.ErrUnauthorized)
}

// isRetryable reports whether a cycle-level failure should arm the retry
// timer. An unauthorized client waits for a new token instead.
func isRetryable(err error) bool {
	return errors.Is(err, adapter.ErrTransientNetwork)
}
