// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package client implements the notesync client process runtime.
//
// It wires the reconciliation engine and the background sync workers into a
// single process lifecycle bound to a context.
package client
