// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/MKhiriev/notesync/models"
)

const (
	appendDocUpdate = `
		INSERT INTO doc_updates (id, doc_id, data, origin, created_at)
		VALUES (?, ?, ?, ?, ?);`

	loadDocUpdates = `
		SELECT seq, id, doc_id, data, origin, created_at
		FROM doc_updates
		WHERE doc_id = ?
		ORDER BY seq;`

	countDocUpdates = `SELECT COUNT(*) FROM doc_updates WHERE doc_id = ?;`

	deleteDocUpdatesUpTo = `DELETE FROM doc_updates WHERE doc_id = ? AND seq <= ?;`

	deleteDocUpdates = `DELETE FROM doc_updates WHERE doc_id = ?;`
)

const (
	syncRecordColumns = `local_id, entity_type, remote_id, version_tag, sync_status, content_hash, encrypted_key_header, updated_at`

	upsertSyncRecord = `
		INSERT INTO sync_records (
			local_id,
			entity_type,
			remote_id,
			version_tag,
			sync_status,
			content_hash,
			encrypted_key_header,
			updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (local_id) DO UPDATE SET
			entity_type          = excluded.entity_type,
			remote_id            = excluded.remote_id,
			version_tag          = excluded.version_tag,
			sync_status          = excluded.sync_status,
			content_hash         = excluded.content_hash,
			encrypted_key_header = excluded.encrypted_key_header,
			updated_at           = excluded.updated_at;`

	getSyncRecordByLocalID = `SELECT ` + syncRecordColumns + ` FROM sync_records WHERE local_id = ?;`

	getSyncRecordByRemoteID = `SELECT ` + syncRecordColumns + ` FROM sync_records WHERE remote_id = ?;`

	markSyncRecordSynced = `
		UPDATE sync_records SET
			remote_id            = ?,
			version_tag          = ?,
			content_hash         = ?,
			encrypted_key_header = COALESCE(?, encrypted_key_header),
			sync_status          = 'synced',
			updated_at           = ?
		WHERE local_id = ?;`

	updateSyncRecordStatus = `UPDATE sync_records SET sync_status = ?, updated_at = ? WHERE local_id = ?;`

	deleteSyncRecord = `DELETE FROM sync_records WHERE local_id = ?;`

	// INSERT OR IGNORE keeps the migration idempotent.
	createMissingSyncRecords = `
		INSERT OR IGNORE INTO sync_records (local_id, entity_type, sync_status, updated_at)
		SELECT id, type, 'pending', ?
		FROM entities
		WHERE deleted = 0;`
)

const (
	imageUploadColumns = `id, parent_doc_id, blob, content_type, status, retry_count, next_retry_at, created_at`

	enqueueImageUpload = `
		INSERT INTO pending_image_uploads (` + imageUploadColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?);`

	getImageUpload = `SELECT ` + imageUploadColumns + ` FROM pending_image_uploads WHERE id = ?;`

	claimImageUpload = `
		UPDATE pending_image_uploads
		SET status = 'uploading'
		WHERE id = ? AND status IN ('pending', 'failed');`

	failImageUpload = `
		UPDATE pending_image_uploads
		SET status = 'failed', retry_count = ?, next_retry_at = ?
		WHERE id = ?;`

	deleteImageUpload = `DELETE FROM pending_image_uploads WHERE id = ?;`

	deleteImageUploadsForDoc = `DELETE FROM pending_image_uploads WHERE parent_doc_id = ?;`

	resetUploadingImageUploads = `UPDATE pending_image_uploads SET status = 'pending' WHERE status = 'uploading';`

	countImageUploads = `SELECT COUNT(*) FROM pending_image_uploads;`
)

const (
	syncErrorColumns = `id, entity_id, entity_type, operation, message, code, retry_count, next_retry_at, resolved_at, created_at`

	recordSyncError = `
		INSERT INTO sync_errors (
			entity_id,
			entity_type,
			operation,
			message,
			code,
			retry_count,
			next_retry_at,
			created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?);`

	resolveSyncErrors = `
		UPDATE sync_errors SET resolved_at = ?
		WHERE entity_id = ? AND resolved_at IS NULL;`

	sweepSyncErrors = `DELETE FROM sync_errors WHERE resolved_at IS NOT NULL AND resolved_at < ?;`

	countUnresolvedSyncErrors = `SELECT COUNT(*) FROM sync_errors WHERE resolved_at IS NULL;`

	countUnresolvedSyncErrorsForEntity = `
		SELECT COUNT(*) FROM sync_errors
		WHERE entity_id = ? AND operation = ? AND resolved_at IS NULL;`

	lastUnresolvedSyncError = `
		SELECT ` + syncErrorColumns + ` FROM sync_errors
		WHERE resolved_at IS NULL
		ORDER BY id DESC
		LIMIT 1;`

	listUnresolvedSyncErrors = `
		SELECT ` + syncErrorColumns + ` FROM sync_errors
		WHERE resolved_at IS NULL
		ORDER BY id;`
)

const (
	getAppState = `SELECT value FROM app_state WHERE key = ?;`

	setAppState = `
		INSERT INTO app_state (key, value) VALUES (?, ?)
		ON CONFLICT (key) DO UPDATE SET value = excluded.value;`
)

const (
	entityColumns = `id, type, parent_id, deleted, created_at, updated_at`

	createEntity = `INSERT INTO entities (` + entityColumns + `) VALUES (?, ?, ?, ?, ?, ?);`

	getEntity = `SELECT ` + entityColumns + ` FROM entities WHERE id = ?;`

	listEntities = `SELECT ` + entityColumns + ` FROM entities ORDER BY created_at, id;`

	setEntityDeleted = `UPDATE entities SET deleted = 1, updated_at = ? WHERE id = ?;`

	setEntityParent = `UPDATE entities SET parent_id = ?, updated_at = ? WHERE id = ?;`

	touchEntity = `UPDATE entities SET updated_at = ? WHERE id = ?;`

	purgeEntity = `DELETE FROM entities WHERE id = ?;`
)

// psql is the statement builder for dynamic queries; SQLite takes ? placeholders.
var psql = sq.StatementBuilder.PlaceholderFormat(sq.Question)

// buildGetPendingQuery selects pending sync records, optionally narrowed to
// one entity type.
func buildGetPendingQuery(entityType *models.EntityType) (string, []any, error) {
	q := psql.
		Select(syncRecordColumns).
		From(new(models.SyncRecord).TableName()).
		Where(sq.Eq{"sync_status": string(models.StatusPending)}).
		OrderBy("updated_at", "local_id")

	if entityType != nil {
		q = q.Where(sq.Eq{"entity_type": string(*entityType)})
	}

	return q.ToSql()
}

// buildCountPendingQuery counts pending sync records per entity type.
func buildCountPendingQuery() (string, []any, error) {
	return psql.
		Select("entity_type", "COUNT(*)").
		From(new(models.SyncRecord).TableName()).
		Where(sq.Eq{"sync_status": string(models.StatusPending)}).
		GroupBy("entity_type").
		ToSql()
}

// buildReadyForRetryQuery selects uploads that may be attempted at now.
func buildReadyForRetryQuery(now time.Time) (string, []any, error) {
	return psql.
		Select(imageUploadColumns).
		From(new(models.PendingImageUpload).TableName()).
		Where(sq.Eq{"status": []string{string(models.UploadPending), string(models.UploadFailed)}}).
		Where(sq.Or{
			sq.Eq{"next_retry_at": nil},
			sq.LtOrEq{"next_retry_at": toMillis(now)},
		}).
		OrderBy("created_at", "id").
		ToSql()
}
