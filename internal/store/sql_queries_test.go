// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/notesync/models"
)

func Test_buildGetPendingQuery(t *testing.T) {
	tests := []struct {
		name       string
		entityType *models.EntityType
		wantArgs   []any
		wantParts  []string
	}{
		{
			name:      "all types",
			wantArgs:  []any{"pending"},
			wantParts: []string{"from sync_records", "sync_status = ?", "order by updated_at, local_id"},
		},
		{
			name:       "notes only",
			entityType: func() *models.EntityType { e := models.EntityNote; return &e }(),
			wantArgs:   []any{"pending", "note"},
			wantParts:  []string{"sync_status = ?", "entity_type = ?"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			query, args, err := buildGetPendingQuery(tt.entityType)
			require.NoError(t, err)

			q := strings.ToLower(query)
			for _, part := range tt.wantParts {
				assert.Contains(t, q, part)
			}
			assert.Equal(t, tt.wantArgs, args)

			// SQLite placeholders, never $N
			assert.NotContains(t, query, "$1")
		})
	}
}

func Test_buildCountPendingQuery(t *testing.T) {
	query, args, err := buildCountPendingQuery()
	require.NoError(t, err)

	q := strings.ToLower(query)
	assert.Contains(t, q, "select entity_type, count(*)")
	assert.Contains(t, q, "group by entity_type")
	assert.Equal(t, []any{"pending"}, args)
}

func Test_buildReadyForRetryQuery(t *testing.T) {
	now := time.UnixMilli(1_700_000_000_000)

	query, args, err := buildReadyForRetryQuery(now)
	require.NoError(t, err)

	q := strings.ToLower(query)
	assert.Contains(t, q, "status in (?,?)")
	assert.Contains(t, q, "next_retry_at is null")
	assert.Contains(t, q, "next_retry_at <= ?")
	assert.Contains(t, q, "order by created_at, id")
	assert.Equal(t, []any{"pending", "failed", int64(1_700_000_000_000)}, args)
}
