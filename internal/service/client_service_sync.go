// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/MKhiriev/notesync/internal/adapter"
	"github.com/MKhiriev/notesync/internal/broadcast"
	"github.com/MKhiriev/notesync/internal/config"
	"github.com/MKhiriev/notesync/internal/crdt"
	"github.com/MKhiriev/notesync/internal/crypto"
	"github.com/MKhiriev/notesync/internal/logger"
	"github.com/MKhiriev/notesync/internal/store"
	"github.com/MKhiriev/notesync/internal/utils"
	"github.com/MKhiriev/notesync/models"
)

const (
	// OriginReconciler tags fragments written by the sync engine.
	OriginReconciler = "reconciler"

	originEngine = "engine"

	imageEntityType = "image"
)

// EngineDeps are the collaborators of the sync engine.
type EngineDeps struct {
	Storages   *store.ClientStorages
	Remote     adapter.RemoteBackend
	Hub        *broadcast.Hub
	Sealer     crypto.Sealer
	UpdateLog  UpdateLogService
	Records    SyncRecordService
	Images     ImageQueueService
	SyncErrors SyncErrorService
}

type pushOutcome int

const (
	outcomePushed pushOutcome = iota
	outcomeSkipped
	outcomeDeleted
)

type syncEngine struct {
	EngineDeps

	cfg     config.ClientSync
	replica string
	logger  *logger.Logger
	now     func() time.Time

	mu          sync.Mutex
	online      bool
	inFlight    bool
	lastAttempt time.Time
	lastError   string
	retryTimer  *time.Timer
	retryGen    uint64
	baseCtx     context.Context

	subMu   sync.Mutex
	subs    map[int]func(models.SyncProgress)
	nextSub int
}

// NewSyncEngine returns a [SyncEngine]. Fragments it writes are attributed to
// the replica deviceID+".sync" and tagged with [OriginReconciler]. The engine
// starts online.
func NewSyncEngine(deps EngineDeps, cfg config.ClientSync, deviceID string, logger *logger.Logger) SyncEngine {
	return &syncEngine{
		EngineDeps: deps,
		cfg:        cfg,
		replica:    deviceID + ".sync",
		logger:     logger,
		now:        timeNow,
		online:     true,
		baseCtx:    logger.WithContext(context.Background()),
		subs:       make(map[int]func(models.SyncProgress)),
	}
}

func (e *syncEngine) Start(ctx context.Context) error {
	ctx = e.logger.WithContext(ctx)

	e.mu.Lock()
	e.baseCtx = ctx
	e.mu.Unlock()

	reset, err := e.Images.Recover(ctx)
	if err != nil {
		return err
	}
	migrated, err := e.Records.MigrateMissing(ctx)
	if err != nil {
		return err
	}

	e.logger.Info().
		Str("func", "syncEngine.Start").
		Int64("uploads_reset", reset).
		Int64("records_created", migrated).
		Msg("sync engine started")
	return nil
}

func (e *syncEngine) Stop() {
	e.mu.Lock()
	e.stopRetryLocked()
	e.mu.Unlock()
}

func (e *syncEngine) Sync(ctx context.Context) (models.SyncResult, error) {
	e.mu.Lock()
	e.stopRetryLocked()
	reason := e.enterLocked(true)
	e.mu.Unlock()

	if reason != models.SkipNone {
		e.logger.Debug().
			Str("func", "syncEngine.Sync").
			Str("reason", string(reason)).
			Msg("sync request dropped")
		return models.SyncResult{Skipped: true, SkipReason: reason}, nil
	}

	return e.run(e.logger.WithContext(ctx))
}

func (e *syncEngine) SetOnline(online bool) {
	e.mu.Lock()
	wasOnline := e.online
	e.online = online
	if !online {
		e.stopRetryLocked()
	}
	ctx := e.baseCtx
	e.mu.Unlock()

	if online && !wasOnline {
		go func() { _, _ = e.Sync(ctx) }()
	}
}

func (e *syncEngine) Subscribe(fn func(models.SyncProgress)) func() {
	e.subMu.Lock()
	id := e.nextSub
	e.nextSub++
	e.subs[id] = fn
	e.subMu.Unlock()

	return func() {
		e.subMu.Lock()
		delete(e.subs, id)
		e.subMu.Unlock()
	}
}

func (e *syncEngine) Status(ctx context.Context) (models.SyncStatusSnapshot, error) {
	var st models.SyncStatusSnapshot

	counts, err := e.Records.CountPending(ctx)
	if err != nil {
		return st, err
	}
	st.Pending.Notes = counts[models.EntityNote]
	st.Pending.Folders = counts[models.EntityFolder]

	if st.Pending.Images, err = e.Images.Count(ctx); err != nil {
		return st, err
	}
	if st.UnresolvedErrors, err = e.SyncErrors.CountUnresolved(ctx); err != nil {
		return st, err
	}

	last, err := e.SyncErrors.LastUnresolved(ctx)
	if err != nil {
		return st, err
	}
	if last != nil {
		st.LastError = last.Message
	}

	raw, ok, err := e.Storages.AppState.Get(ctx, store.KeyLastSyncAt)
	if err != nil {
		return st, err
	}
	if ok {
		if ms, perr := strconv.ParseInt(raw, 10, 64); perr == nil {
			at := time.UnixMilli(ms).UTC()
			st.LastSyncAt = &at
		}
	}

	e.mu.Lock()
	st.Online = e.online
	st.Syncing = e.inFlight
	if e.lastError != "" {
		st.LastError = e.lastError
	}
	e.mu.Unlock()

	return st, nil
}

// enterLocked is the single-flight gate. It marks a cycle in flight and
// returns SkipNone, or returns why the request is dropped.
func (e *syncEngine) enterLocked(debounce bool) models.SkipReason {
	if !e.online {
		return models.SkipOffline
	}
	if e.inFlight {
		return models.SkipInFlight
	}

	now := e.now()
	if debounce && !e.lastAttempt.IsZero() && now.Sub(e.lastAttempt) < e.cfg.DebounceWindow {
		return models.SkipDebounced
	}

	e.inFlight = true
	e.lastAttempt = now
	return models.SkipNone
}

func (e *syncEngine) run(ctx context.Context) (res models.SyncResult, err error) {
	res.StartedAt = e.now()

	defer func() {
		res.FinishedAt = e.now()

		e.mu.Lock()
		e.inFlight = false
		if err != nil {
			e.lastError = err.Error()
			if isRetryable(err) && e.online {
				e.scheduleRetryLocked()
				res.RetryScheduled = true
			}
		} else {
			e.lastError = ""
		}
		e.mu.Unlock()

		if err != nil {
			e.report(models.SyncProgress{Phase: models.PhaseDone, Message: err.Error()})
			err = fmt.Errorf("%w: %w", ErrCycleAborted, err)
		}
	}()

	if err = e.pull(ctx, &res); err != nil {
		return res, err
	}
	if err = e.push(ctx, &res); err != nil {
		return res, err
	}
	if err = e.uploadImages(ctx, &res); err != nil {
		return res, err
	}

	if serr := e.Storages.AppState.Set(ctx, store.KeyLastSyncAt, strconv.FormatInt(e.now().UnixMilli(), 10)); serr != nil {
		logger.FromContext(ctx).Warn().Err(serr).Str("func", "syncEngine.run").Msg("failed to save last sync time")
	}

	e.report(models.SyncProgress{
		Phase:   models.PhaseDone,
		Current: res.Pulled + res.Pushed + res.Deleted + res.Uploaded,
		Total:   res.Pulled + res.Pushed + res.Deleted + res.Uploaded + len(res.Failures),
	})

	logger.FromContext(ctx).Info().
		Str("func", "syncEngine.run").
		Int("pulled", res.Pulled).
		Int("pushed", res.Pushed).
		Int("push_skipped", res.PushSkipped).
		Int("deleted", res.Deleted).
		Int("uploaded", res.Uploaded).
		Int("failures", len(res.Failures)).
		Msg("sync cycle finished")

	return res, nil
}

// scheduleRetryLocked arms the single retry timer, replacing an earlier one.
func (e *syncEngine) scheduleRetryLocked() {
	e.stopRetryLocked()

	gen := e.retryGen
	e.retryTimer = time.AfterFunc(e.cfg.RetryDelay, func() { e.retry(gen) })
}

func (e *syncEngine) stopRetryLocked() {
	e.retryGen++
	if e.retryTimer != nil {
		e.retryTimer.Stop()
		e.retryTimer = nil
	}
}

func (e *syncEngine) retry(gen uint64) {
	e.mu.Lock()
	if gen != e.retryGen {
		e.mu.Unlock()
		return
	}
	e.retryTimer = nil
	reason := e.enterLocked(false)
	ctx := e.baseCtx
	e.mu.Unlock()

	if reason != models.SkipNone {
		return
	}

	e.logger.Debug().Str("func", "syncEngine.retry").Msg("retrying aborted sync cycle")
	_, _ = e.run(ctx)
}

func (e *syncEngine) report(p models.SyncProgress) {
	e.subMu.Lock()
	fns := make([]func(models.SyncProgress), 0, len(e.subs))
	for _, fn := range e.subs {
		fns = append(fns, fn)
	}
	e.subMu.Unlock()

	for _, fn := range fns {
		fn(p)
	}
}

func (e *syncEngine) recordFailure(ctx context.Context, res *models.SyncResult, entityID, entityType string, op models.SyncOperation, cause error) {
	res.Failures = append(res.Failures, models.EntityFailure{
		EntityID:  entityID,
		Operation: op,
		Code:      ClassifyError(cause),
		Err:       cause,
	})

	if _, err := e.SyncErrors.Record(ctx, entityID, entityType, op, cause); err != nil {
		logger.FromContext(ctx).Err(err).
			Str("func", "syncEngine.recordFailure").
			Str("entity_id", entityID).
			Msg("failed to record sync error")
	}
}

func (e *syncEngine) resolve(ctx context.Context, entityID string) {
	if err := e.SyncErrors.ResolveForEntity(ctx, entityID); err != nil {
		logger.FromContext(ctx).Err(err).
			Str("func", "syncEngine.resolve").
			Str("entity_id", entityID).
			Msg("failed to resolve sync errors")
	}
}

// ── pull ──────────────────────────────────────────────────────────────────

func (e *syncEngine) pull(ctx context.Context, res *models.SyncResult) error {
	cursor, _, err := e.Storages.AppState.Get(ctx, store.KeyPullCursor)
	if err != nil {
		return err
	}

	changes, err := e.Remote.ListChanges(ctx, cursor)
	if err != nil {
		return err
	}

	holdCursor := false
	for _, re := range changes.Entities {
		applied, err := e.pullEntity(ctx, re)
		if err != nil {
			if isCycleLevel(err) {
				return err
			}
			// invalid entities are recorded once and skipped; anything
			// else is fetched again on the next cycle
			if ClassifyError(err) != models.CodeValidation {
				holdCursor = true
			}
			e.recordFailure(ctx, res, pulledEntityID(re), string(re.EntityType), models.OperationPull, err)
			continue
		}
		if applied {
			res.Pulled++
			if !re.Deleted {
				e.resolve(ctx, re.LocalID)
			}
		}
	}

	if !holdCursor && changes.Cursor != "" && changes.Cursor != cursor {
		if err = e.Storages.AppState.Set(ctx, store.KeyPullCursor, changes.Cursor); err != nil {
			return err
		}
	}

	e.report(models.SyncProgress{Phase: models.PhasePull, Current: res.Pulled, Total: len(changes.Entities)})
	return nil
}

// pulledEntityID names a remote entity in the error log. Entities without a
// local id are keyed by their remote id.
func pulledEntityID(re models.RemoteEntity) string {
	if re.LocalID != "" {
		return re.LocalID
	}
	return re.RemoteID
}

// purgeRemoteDeleted applies a remote delete. The delete wins over unpushed
// local edits; those are reported in the error log before the purge.
func (e *syncEngine) purgeRemoteDeleted(ctx context.Context, rec models.SyncRecord) error {
	if err := e.purge(ctx, rec.LocalID); err != nil {
		return err
	}
	e.resolve(ctx, rec.LocalID)

	if rec.SyncStatus != models.StatusPending {
		return nil
	}

	logger.FromContext(ctx).Warn().
		Str("func", "syncEngine.purgeRemoteDeleted").
		Str("local_id", rec.LocalID).
		Msg("remote delete discarded unpushed local edits")

	cause := fmt.Errorf("%w: %s", ErrLocalEditsDiscarded, rec.LocalID)
	if _, err := e.SyncErrors.Record(ctx, rec.LocalID, string(rec.EntityType), models.OperationPull, cause); err != nil {
		logger.FromContext(ctx).Err(err).
			Str("func", "syncEngine.purgeRemoteDeleted").
			Str("local_id", rec.LocalID).
			Msg("failed to record sync error")
	}
	return nil
}

func (e *syncEngine) pullEntity(ctx context.Context, re models.RemoteEntity) (bool, error) {
	localID := re.LocalID

	rec, err := e.Records.Get(ctx, localID)
	found := err == nil
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return false, err
	}
	if !found && re.RemoteID != "" {
		rec, err = e.Records.GetByRemoteID(ctx, re.RemoteID)
		if err == nil {
			found, localID = true, rec.LocalID
		} else if !errors.Is(err, store.ErrNotFound) {
			return false, err
		}
	}

	if found && rec.VersionTag != nil && *rec.VersionTag == re.VersionTag {
		return false, nil
	}

	if re.Deleted {
		if !found {
			return false, nil
		}
		return true, e.purgeRemoteDeleted(ctx, rec)
	}

	if localID == "" || !re.EntityType.Valid() {
		return false, fmt.Errorf("%w: remote entity %q has no local id or type %q", adapter.ErrValidation, re.RemoteID, re.EntityType)
	}

	fragment, err := e.Sealer.Open(re.Update, re.EncryptedKeyHeader)
	if err != nil {
		return false, err
	}
	if err = crdt.New("").Apply(fragment); err != nil {
		return false, err
	}

	header := re.EncryptedKeyHeader
	if header == nil && found {
		header = rec.EncryptedKeyHeader
	}

	err = e.Storages.Transactor.WithTx(utils.WithOrigin(ctx, OriginReconciler), func(ctx context.Context) error {
		now := e.now()
		entity, err := e.Storages.Entities.Get(ctx, localID)
		switch {
		case errors.Is(err, store.ErrEntityNotFound):
			entity = models.Entity{ID: localID, Type: re.EntityType, ParentID: re.ParentID, CreatedAt: now, UpdatedAt: now}
			if err = e.Storages.Entities.Create(ctx, entity); err != nil {
				return err
			}
		case err != nil:
			return err
		case !found || rec.SyncStatus == models.StatusSynced:
			// remote metadata wins unless a local change is waiting to be pushed
			if err = e.Storages.Entities.SetParent(ctx, localID, re.ParentID, now); err != nil {
				return err
			}
			entity.ParentID = re.ParentID
		}

		if _, err = e.UpdateLog.Append(ctx, localID, fragment); err != nil {
			return err
		}

		hash, err := e.localHash(ctx, entity)
		if err != nil {
			return err
		}

		remoteID, version, remoteHash := re.RemoteID, re.VersionTag, re.ContentHash
		next := models.SyncRecord{
			LocalID:            localID,
			EntityType:         entity.Type,
			RemoteID:           &remoteID,
			VersionTag:         &version,
			SyncStatus:         models.StatusPending,
			ContentHash:        &remoteHash,
			EncryptedKeyHeader: header,
		}
		if hash == re.ContentHash {
			next.SyncStatus = models.StatusSynced
		}
		return e.Records.Save(ctx, next)
	})
	if err != nil {
		return false, err
	}

	e.Hub.Publish(broadcast.Message{Kind: broadcast.KindUpdate, DocID: localID, Origin: OriginReconciler})
	return true, nil
}

// ── push ──────────────────────────────────────────────────────────────────

func (e *syncEngine) push(ctx context.Context, res *models.SyncResult) error {
	e.flushOpenDocuments(ctx)

	pending, err := e.Records.Pending(ctx, nil)
	if err != nil {
		return err
	}

	for _, rec := range pending {
		outcome, err := e.pushRecord(ctx, rec)
		if err != nil {
			if isCycleLevel(err) {
				return err
			}
			e.recordFailure(ctx, res, rec.LocalID, string(rec.EntityType), models.OperationPush, err)
			e.markFailedPush(ctx, rec.LocalID, err)
			continue
		}

		switch outcome {
		case outcomePushed:
			res.Pushed++
		case outcomeSkipped:
			res.PushSkipped++
		case outcomeDeleted:
			res.Deleted++
		}
		e.resolve(ctx, rec.LocalID)
	}

	e.report(models.SyncProgress{Phase: models.PhasePush, Current: res.Pushed + res.PushSkipped + res.Deleted, Total: len(pending)})
	return nil
}

func (e *syncEngine) markFailedPush(ctx context.Context, localID string, cause error) {
	var err error
	switch ClassifyError(cause) {
	case models.CodeConflictRejected:
		err = e.Records.MarkConflict(ctx, localID)
	case models.CodeValidation:
		err = e.Records.MarkError(ctx, localID)
	default:
		return
	}
	if err != nil {
		logger.FromContext(ctx).Err(err).
			Str("func", "syncEngine.markFailedPush").
			Str("local_id", localID).
			Msg("failed to update record status")
	}
}

func (e *syncEngine) pushRecord(ctx context.Context, rec models.SyncRecord) (pushOutcome, error) {
	entity, err := e.Storages.Entities.Get(ctx, rec.LocalID)
	if errors.Is(err, store.ErrEntityNotFound) {
		return outcomeDeleted, e.purge(ctx, rec.LocalID)
	}
	if err != nil {
		return 0, err
	}

	if entity.Deleted {
		if rec.RemoteID != nil {
			if err = e.Remote.DeleteEntity(ctx, entity.Type, *rec.RemoteID); err != nil {
				return 0, err
			}
		}
		return outcomeDeleted, e.purge(ctx, entity.ID)
	}

	doc, err := e.UpdateLog.Reconstruct(ctx, entity.ID, e.replica)
	if err != nil {
		return 0, err
	}
	hash, err := contentHash(entity, doc)
	if err != nil {
		return 0, err
	}

	if rec.RemoteID != nil && rec.VersionTag != nil && rec.ContentHash != nil && *rec.ContentHash == hash {
		return outcomeSkipped, e.Records.MarkSynced(ctx, rec.LocalID, models.PushResult{RemoteID: *rec.RemoteID, VersionTag: *rec.VersionTag}, hash, nil)
	}

	sealed, header, err := e.Sealer.Seal(doc.EncodeState(), rec.EncryptedKeyHeader)
	if err != nil {
		return 0, err
	}

	req := models.PushRequest{
		LocalID:            entity.ID,
		EntityType:         entity.Type,
		ParentID:           entity.ParentID,
		ContentHash:        hash,
		Update:             sealed,
		EncryptedKeyHeader: header,
	}
	if rec.RemoteID != nil {
		req.RemoteID = *rec.RemoteID
	}
	if rec.VersionTag != nil {
		req.BaseVersion = *rec.VersionTag
	}

	pushed, err := e.Remote.PushEntity(ctx, req)
	if err != nil {
		return 0, err
	}
	if err = e.Records.MarkSynced(ctx, entity.ID, pushed, hash, header); err != nil {
		return 0, err
	}

	// a local edit may have landed while the request was in flight
	if now, err := e.localHash(ctx, entity); err == nil && now != hash {
		if err = e.Records.MarkPending(ctx, entity.ID); err != nil {
			return outcomePushed, err
		}
	}

	return outcomePushed, nil
}

// flushOpenDocuments asks every open document to persist its edits and
// waits, bounded by FlushWaitTimeout, until all of them answered.
func (e *syncEngine) flushOpenDocuments(ctx context.Context) {
	e.Hub.Publish(broadcast.Message{Kind: broadcast.KindFlush, Origin: originEngine})

	if e.Hub.PendingFlushes() == 0 {
		return
	}

	ticker := time.NewTicker(e.cfg.FlushPollInterval)
	defer ticker.Stop()
	timeout := time.NewTimer(e.cfg.FlushWaitTimeout)
	defer timeout.Stop()

	for e.Hub.PendingFlushes() > 0 {
		select {
		case <-ticker.C:
		case <-timeout.C:
			logger.FromContext(ctx).Warn().
				Str("func", "syncEngine.flushOpenDocuments").
				Int64("pending", e.Hub.PendingFlushes()).
				Msg("gave up waiting for document flushes")
			return
		case <-ctx.Done():
			return
		}
	}
}

// ── images ────────────────────────────────────────────────────────────────

func (e *syncEngine) uploadImages(ctx context.Context, res *models.SyncResult) error {
	ready, err := e.Images.Ready(ctx, e.now())
	if err != nil {
		return err
	}

	for _, u := range ready {
		claimed, err := e.Images.Claim(ctx, u.ID)
		if err != nil {
			e.recordFailure(ctx, res, u.ID, imageEntityType, models.OperationUpload, err)
			continue
		}
		if !claimed {
			continue
		}

		key, err := e.Remote.UploadBlob(ctx, u.Blob, u.ContentType)
		if err == nil {
			err = e.attach(ctx, u, key)
		}
		if err != nil {
			res.UploadFailed++
			if _, ferr := e.Images.Fail(ctx, u, e.now()); ferr != nil {
				logger.FromContext(ctx).Err(ferr).
					Str("func", "syncEngine.uploadImages").
					Str("upload_id", u.ID).
					Msg("failed to reschedule upload")
			}
			if isCycleLevel(err) {
				return err
			}
			e.recordFailure(ctx, res, u.ID, imageEntityType, models.OperationUpload, err)
			continue
		}

		res.Uploaded++
		e.resolve(ctx, u.ID)
	}

	e.report(models.SyncProgress{Phase: models.PhaseImages, Current: res.Uploaded, Total: len(ready)})
	return nil
}

// attach points the owning document at the uploaded blob and removes the
// upload from the queue.
func (e *syncEngine) attach(ctx context.Context, u models.PendingImageUpload, key string) error {
	owned := true
	err := e.Storages.Transactor.WithTx(utils.WithOrigin(ctx, OriginReconciler), func(ctx context.Context) error {
		if _, err := e.Storages.Entities.Get(ctx, u.ParentDocID); errors.Is(err, store.ErrEntityNotFound) {
			owned = false
			return e.Images.Complete(ctx, u.ID)
		} else if err != nil {
			return err
		}

		doc, err := e.UpdateLog.Reconstruct(ctx, u.ParentDocID, e.replica)
		if err != nil {
			return err
		}
		if _, err = e.UpdateLog.Append(ctx, u.ParentDocID, doc.SetAttachment(u.ID, key)); err != nil {
			return err
		}
		if err = e.Records.MarkPending(ctx, u.ParentDocID); err != nil {
			return err
		}
		return e.Images.Complete(ctx, u.ID)
	})
	if err != nil {
		return err
	}

	if owned {
		e.Hub.Publish(broadcast.Message{Kind: broadcast.KindUpdate, DocID: u.ParentDocID, Origin: OriginReconciler})
	}
	return nil
}

// ── helpers ───────────────────────────────────────────────────────────────

// purge removes every local trace of an entity after its deletion was
// confirmed.
func (e *syncEngine) purge(ctx context.Context, localID string) error {
	err := e.Storages.Transactor.WithTx(ctx, func(ctx context.Context) error {
		if err := e.Storages.Entities.Purge(ctx, localID); err != nil && !errors.Is(err, store.ErrNotFound) {
			return err
		}
		if err := e.UpdateLog.Delete(ctx, localID); err != nil {
			return err
		}
		if err := e.Images.DropForDoc(ctx, localID); err != nil {
			return err
		}
		return e.Records.Remove(ctx, localID)
	})
	if err != nil {
		return fmt.Errorf("purge %s: %w", localID, err)
	}

	e.Hub.Publish(broadcast.Message{Kind: broadcast.KindUpdate, DocID: localID, Origin: OriginReconciler})
	return nil
}

func (e *syncEngine) localHash(ctx context.Context, entity models.Entity) (string, error) {
	doc, err := e.UpdateLog.Reconstruct(ctx, entity.ID, e.replica)
	if err != nil {
		return "", err
	}
	return contentHash(entity, doc)
}

func contentHash(entity models.Entity, doc *crdt.Doc) (string, error) {
	return utils.ContentHash(models.HashableEntity{
		Type:     entity.Type,
		ParentID: entity.ParentID,
		Deleted:  entity.Deleted,
		Content:  doc.Content(),
	})
}
