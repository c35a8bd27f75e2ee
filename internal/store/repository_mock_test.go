package store

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/notesync/internal/logger"
	"github.com/MKhiriev/notesync/models"
)

func newMockDB(t *testing.T) (*DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	return &DB{DB: sqlDB, logger: logger.Nop(), errorClassificator: NewSQLiteErrorClassifier()}, mock
}

func TestUpdateLogRepository_Append_SetsSeq(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUpdateLogRepository(db)

	mock.ExpectExec("INSERT INTO doc_updates").
		WithArgs("id-1", "doc", []byte("data"), "editor", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(42, 1))

	u := &models.DocUpdate{ID: "id-1", DocID: "doc", Data: []byte("data"), Origin: "editor", CreatedAt: time.Now()}
	require.NoError(t, repo.Append(context.Background(), u))
	assert.Equal(t, int64(42), u.Seq)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateLogRepository_Append_Errors(t *testing.T) {
	t.Run("exec error", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectExec("INSERT INTO doc_updates").WillReturnError(errors.New("disk I/O error"))

		err := NewUpdateLogRepository(db).Append(context.Background(), &models.DocUpdate{ID: "a", DocID: "d"})
		assert.ErrorIs(t, err, ErrExecutingStatement)
		assert.ErrorIs(t, err, ErrStorage)
	})

	t.Run("no rows affected", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectExec("INSERT INTO doc_updates").WillReturnResult(sqlmock.NewResult(0, 0))

		err := NewUpdateLogRepository(db).Append(context.Background(), &models.DocUpdate{ID: "a", DocID: "d"})
		assert.ErrorIs(t, err, ErrUpdateNotSaved)
	})
}

func TestUpdateLogRepository_Replace_UsesOneTransaction(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUpdateLogRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM doc_updates").WithArgs("doc", int64(7)).WillReturnResult(sqlmock.NewResult(0, 7))
	mock.ExpectExec("INSERT INTO doc_updates").WillReturnResult(sqlmock.NewResult(8, 1))
	mock.ExpectCommit()

	snap := &models.DocUpdate{ID: "snap", DocID: "doc", Data: []byte("s"), Origin: "compaction", CreatedAt: time.Now()}
	require.NoError(t, repo.Replace(context.Background(), "doc", 7, snap))
	assert.Equal(t, int64(8), snap.Seq)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateLogRepository_Replace_RollsBackOnInsertError(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM doc_updates").WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec("INSERT INTO doc_updates").WillReturnError(errors.New("constraint failed"))
	mock.ExpectRollback()

	err := NewUpdateLogRepository(db).Replace(context.Background(), "doc", 3, &models.DocUpdate{ID: "s", DocID: "doc"})
	assert.ErrorIs(t, err, ErrExecutingStatement)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWithTx_RetriesBusyDatabase(t *testing.T) {
	db, mock := newMockDB(t)

	busy := sqlite3.Error{Code: sqlite3.ErrBusy}
	mock.ExpectBegin()
	mock.ExpectExec("UPDATE sync_records").WillReturnError(busy)
	mock.ExpectRollback()
	mock.ExpectBegin()
	mock.ExpectExec("UPDATE sync_records").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	repo := NewSyncRecordRepository(db)
	err := db.WithTx(context.Background(), func(ctx context.Context) error {
		return repo.UpdateStatus(ctx, "n1", models.StatusPending, time.Now())
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSyncRecordRepository_GetByLocalID_NotFound(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectQuery("SELECT .* FROM sync_records WHERE local_id").
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	_, err := NewSyncRecordRepository(db).GetByLocalID(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrSyncRecordNotFound)
}

func TestSyncRecordRepository_GetPending_ScansNullableColumns(t *testing.T) {
	db, mock := newMockDB(t)

	rows := sqlmock.NewRows([]string{"local_id", "entity_type", "remote_id", "version_tag", "sync_status", "content_hash", "encrypted_key_header", "updated_at"}).
		AddRow("n1", "note", nil, nil, "pending", nil, nil, int64(1000)).
		AddRow("n2", "note", "r2", "v2", "pending", "h2", "k2", int64(2000))
	mock.ExpectQuery("SELECT .* FROM sync_records").WithArgs("pending").WillReturnRows(rows)

	got, err := NewSyncRecordRepository(db).GetPending(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Nil(t, got[0].RemoteID)
	assert.Nil(t, got[0].ContentHash)
	assert.Equal(t, "r2", *got[1].RemoteID)
	assert.Equal(t, "k2", *got[1].EncryptedKeyHeader)
	assert.Equal(t, time.UnixMilli(2000).UTC(), got[1].UpdatedAt)
}

func TestSQLiteErrorClassifier_Classify(t *testing.T) {
	c := NewSQLiteErrorClassifier()

	tests := []struct {
		name string
		err  error
		want ErrorClassification
	}{
		{name: "nil", err: nil, want: NonRetryable},
		{name: "busy", err: sqlite3.Error{Code: sqlite3.ErrBusy}, want: Retryable},
		{name: "locked wrapped", err: errors.Join(errors.New("ctx"), sqlite3.Error{Code: sqlite3.ErrLocked}), want: Retryable},
		{name: "constraint", err: sqlite3.Error{Code: sqlite3.ErrConstraint}, want: NonRetryable},
		{name: "other", err: errors.New("boom"), want: NonRetryable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, c.Classify(tt.err))
		})
	}
}
