package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync/atomic"

	"github.com/MKhiriev/notesync/internal/broadcast"
	"github.com/MKhiriev/notesync/internal/crdt"
	"github.com/MKhiriev/notesync/internal/logger"
	"github.com/MKhiriev/notesync/internal/store"
	"github.com/MKhiriev/notesync/internal/utils"
	"github.com/MKhiriev/notesync/models"
)

type entityService struct {
	deps    sessionDeps
	replica string
	ids     *utils.UUIDGenerator

	sessions atomic.Int64
}

// NewEntityService returns an [EntityService] whose documents are edited as
// replica. Every opened session gets its own replica id derived from it.
func NewEntityService(storages *store.ClientStorages, updateLog UpdateLogService, records SyncRecordService, images ImageQueueService, hub *broadcast.Hub, replica string, logger *logger.Logger) EntityService {
	return &entityService{
		deps: sessionDeps{
			tx:        storages.Transactor,
			updateLog: updateLog,
			records:   records,
			entities:  storages.Entities,
			images:    images,
			hub:       hub,
			logger:    logger,
		},
		replica: replica,
		ids:     utils.NewUUIDGenerator(),
	}
}

func (s *entityService) CreateNote(ctx context.Context, parentID *string, title string) (models.Entity, error) {
	return s.create(ctx, models.EntityNote, parentID, title)
}

func (s *entityService) CreateFolder(ctx context.Context, parentID *string, name string) (models.Entity, error) {
	return s.create(ctx, models.EntityFolder, parentID, name)
}

func (s *entityService) create(ctx context.Context, entityType models.EntityType, parentID *string, title string) (models.Entity, error) {
	if err := s.checkParent(ctx, parentID); err != nil {
		return models.Entity{}, err
	}

	now := timeNow()
	e := models.Entity{
		ID:        s.ids.Generate(),
		Type:      entityType,
		ParentID:  parentID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	fragment := crdt.New(s.replica).SetField(FieldTitle, title)

	err := s.deps.tx.WithTx(utils.WithOrigin(ctx, s.replica), func(ctx context.Context) error {
		if err := s.deps.entities.Create(ctx, e); err != nil {
			return err
		}
		if err := s.deps.records.Track(ctx, e.ID, e.Type); err != nil {
			return err
		}
		_, err := s.deps.updateLog.Append(ctx, e.ID, fragment)
		return err
	})
	if err != nil {
		logger.FromContext(ctx).Err(err).
			Str("func", "entityService.create").
			Str("entity_type", string(entityType)).
			Msg("failed to create entity")
		return models.Entity{}, fmt.Errorf("create %s: %w", entityType, err)
	}

	return e, nil
}

func (s *entityService) Get(ctx context.Context, id string) (models.Entity, error) {
	return s.deps.entities.Get(ctx, id)
}

func (s *entityService) List(ctx context.Context) ([]models.Entity, error) {
	return s.deps.entities.List(ctx)
}

func (s *entityService) Move(ctx context.Context, id string, parentID *string) error {
	if parentID != nil && *parentID == id {
		return fmt.Errorf("%w: entity cannot contain itself", ErrParentNotFolder)
	}
	if err := s.checkParent(ctx, parentID); err != nil {
		return err
	}

	err := s.deps.tx.WithTx(ctx, func(ctx context.Context) error {
		e, err := s.deps.entities.Get(ctx, id)
		if err != nil {
			return err
		}
		if e.Deleted {
			return ErrEntityDeleted
		}
		if err = s.deps.entities.SetParent(ctx, id, parentID, timeNow()); err != nil {
			return err
		}
		return s.deps.records.MarkPending(ctx, id)
	})
	if err != nil {
		return fmt.Errorf("move %s: %w", id, err)
	}

	s.deps.hub.Publish(broadcast.Message{Kind: broadcast.KindUpdate, DocID: id, Origin: s.replica})
	return nil
}

func (s *entityService) Delete(ctx context.Context, id string) error {
	err := s.deps.tx.WithTx(ctx, func(ctx context.Context) error {
		if err := s.deps.entities.SetDeleted(ctx, id, timeNow()); err != nil {
			return err
		}
		return s.deps.records.MarkPending(ctx, id)
	})
	if err != nil {
		return fmt.Errorf("delete %s: %w", id, err)
	}

	s.deps.hub.Publish(broadcast.Message{Kind: broadcast.KindUpdate, DocID: id, Origin: s.replica})
	return nil
}

func (s *entityService) Open(ctx context.Context, id string) (*DocumentSession, error) {
	e, err := s.deps.entities.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", id, err)
	}
	if e.Deleted {
		return nil, fmt.Errorf("open %s: %w", id, ErrEntityDeleted)
	}

	n := s.sessions.Add(1)
	sessionID := "session/" + strconv.FormatInt(n, 10)
	replica := s.replica + "/" + strconv.FormatInt(n, 10)

	return openDocumentSession(ctx, s.deps, sessionID, replica, e)
}

func (s *entityService) checkParent(ctx context.Context, parentID *string) error {
	if parentID == nil {
		return nil
	}

	parent, err := s.deps.entities.Get(ctx, *parentID)
	if errors.Is(err, store.ErrEntityNotFound) {
		return fmt.Errorf("%w: %s does not exist", ErrParentNotFolder, *parentID)
	}
	if err != nil {
		return err
	}
	if parent.Type != models.EntityFolder || parent.Deleted {
		return fmt.Errorf("%w: %s", ErrParentNotFolder, *parentID)
	}
	return nil
}
