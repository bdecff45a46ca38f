// Package store implements the keyed entity store: JSON-encoded domain
// entities persisted per (feature, owner) scope with newest-first ordering.
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/rythu-saathi/backend/internal/svcerr"
)

var (
	// ErrNotFound indicates the requested entity does not exist in its scope.
	ErrNotFound = errors.New("store: entity not found")

	errMissingDatabase = errors.New("database handle is required")
	errMissingFeature  = errors.New("feature name is required")
	errMissingOwner    = errors.New("owner identifier is required")
	errMissingEntityID = errors.New("entity identifier is required")

	noOpLogger = zap.NewNop()
)

const (
	opStoreNew    = "store.new"
	opLoad        = "store.load"
	opGet         = "store.get"
	opInsert      = "store.insert"
	opUpdate      = "store.update"
	opDelete      = "store.delete"
	opReplaceAll  = "store.replace_all"
	opTrimOldest  = "store.trim_oldest"
	opCountUnread = "store.count"
)

// Config describes the dependencies of the keyed store.
type Config struct {
	Database *gorm.DB
	Clock    func() time.Time
	Logger   *zap.Logger
}

// Store performs raw record access for every feature collection.
type Store struct {
	db     *gorm.DB
	clock  func() time.Time
	logger *zap.Logger
}

// New constructs the keyed store.
func New(cfg Config) (*Store, error) {
	if cfg.Database == nil {
		return nil, svcerr.New(opStoreNew, "missing_database", errMissingDatabase)
	}
	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}
	logger := cfg.Logger
	if logger == nil {
		logger = noOpLogger
	}
	return &Store{db: cfg.Database, clock: clock, logger: logger}, nil
}

// Load returns every record in the scope, newest first.
func (s *Store) Load(ctx context.Context, feature, owner string) ([]Record, error) {
	if err := validateScope(feature, owner); err != nil {
		return nil, svcerr.New(opLoad, "invalid_scope", err)
	}

	var records []Record
	err := s.db.WithContext(ctx).
		Where("feature = ? AND owner_id = ?", feature, owner).
		Order("position DESC").
		Find(&records).Error
	if err != nil {
		s.logError(opLoad, "query_failed", err, feature, owner)
		return nil, svcerr.Storage(opLoad, "query_failed", err)
	}
	return records, nil
}

// Get returns a single record or ErrNotFound.
func (s *Store) Get(ctx context.Context, feature, owner, entityID string) (Record, error) {
	if err := validateScope(feature, owner); err != nil {
		return Record{}, svcerr.New(opGet, "invalid_scope", err)
	}
	if entityID == "" {
		return Record{}, svcerr.New(opGet, "invalid_entity_id", errMissingEntityID)
	}

	var record Record
	err := s.db.WithContext(ctx).
		Where("feature = ? AND owner_id = ? AND entity_id = ?", feature, owner, entityID).
		Take(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Record{}, ErrNotFound
	}
	if err != nil {
		s.logError(opGet, "query_failed", err, feature, owner)
		return Record{}, svcerr.Storage(opGet, "query_failed", err)
	}
	return record, nil
}

// Insert appends a new record at the head of the scope and returns it.
func (s *Store) Insert(ctx context.Context, feature, owner, entityID, payloadJSON string) (Record, error) {
	if err := validateScope(feature, owner); err != nil {
		return Record{}, svcerr.New(opInsert, "invalid_scope", err)
	}
	if entityID == "" {
		return Record{}, svcerr.New(opInsert, "invalid_entity_id", errMissingEntityID)
	}

	now := s.clock().UTC().Unix()
	record := Record{
		Feature:          feature,
		OwnerID:          owner,
		EntityID:         entityID,
		PayloadJSON:      payloadJSON,
		CreatedAtSeconds: now,
		UpdatedAtSeconds: now,
	}

	txErr := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		next, err := nextPosition(tx, feature, owner)
		if err != nil {
			return err
		}
		record.Position = next
		return tx.Create(&record).Error
	})
	if txErr != nil {
		s.logError(opInsert, "insert_failed", txErr, feature, owner)
		return Record{}, svcerr.Storage(opInsert, "insert_failed", txErr)
	}
	return record, nil
}

// Update rewrites the payload of an existing record and bumps its update time.
func (s *Store) Update(ctx context.Context, feature, owner, entityID, payloadJSON string) (Record, error) {
	if err := validateScope(feature, owner); err != nil {
		return Record{}, svcerr.New(opUpdate, "invalid_scope", err)
	}

	record, err := s.Get(ctx, feature, owner, entityID)
	if err != nil {
		return Record{}, err
	}

	record.PayloadJSON = payloadJSON
	record.UpdatedAtSeconds = s.clock().UTC().Unix()
	if err := s.db.WithContext(ctx).Save(&record).Error; err != nil {
		s.logError(opUpdate, "save_failed", err, feature, owner)
		return Record{}, svcerr.Storage(opUpdate, "save_failed", err)
	}
	return record, nil
}

// Delete removes a single record. Deleting an absent record is not an error.
func (s *Store) Delete(ctx context.Context, feature, owner, entityID string) error {
	if err := validateScope(feature, owner); err != nil {
		return svcerr.New(opDelete, "invalid_scope", err)
	}
	if entityID == "" {
		return svcerr.New(opDelete, "invalid_entity_id", errMissingEntityID)
	}

	err := s.db.WithContext(ctx).
		Where("feature = ? AND owner_id = ? AND entity_id = ?", feature, owner, entityID).
		Delete(&Record{}).Error
	if err != nil {
		s.logError(opDelete, "delete_failed", err, feature, owner)
		return svcerr.Storage(opDelete, "delete_failed", err)
	}
	return nil
}

// DeleteAll clears the whole scope.
func (s *Store) DeleteAll(ctx context.Context, feature, owner string) error {
	if err := validateScope(feature, owner); err != nil {
		return svcerr.New(opDelete, "invalid_scope", err)
	}

	err := s.db.WithContext(ctx).
		Where("feature = ? AND owner_id = ?", feature, owner).
		Delete(&Record{}).Error
	if err != nil {
		s.logError(opDelete, "delete_failed", err, feature, owner)
		return svcerr.Storage(opDelete, "delete_failed", err)
	}
	return nil
}

// Payload pairs an entity id with its JSON encoding for bulk writes.
type Payload struct {
	EntityID    string
	PayloadJSON string
}

// ReplaceAll rewrites the scope wholesale. Entities are supplied newest first
// and keep that ordering on the next Load.
func (s *Store) ReplaceAll(ctx context.Context, feature, owner string, entities []Payload) error {
	if err := validateScope(feature, owner); err != nil {
		return svcerr.New(opReplaceAll, "invalid_scope", err)
	}

	now := s.clock().UTC().Unix()
	txErr := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("feature = ? AND owner_id = ?", feature, owner).
			Delete(&Record{}).Error; err != nil {
			return err
		}
		// Insert oldest first so positions ascend toward the head element.
		for i := len(entities) - 1; i >= 0; i-- {
			record := Record{
				Feature:          feature,
				OwnerID:          owner,
				EntityID:         entities[i].EntityID,
				Position:         int64(len(entities) - i),
				PayloadJSON:      entities[i].PayloadJSON,
				CreatedAtSeconds: now,
				UpdatedAtSeconds: now,
			}
			if err := tx.Create(&record).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if txErr != nil {
		s.logError(opReplaceAll, "replace_failed", txErr, feature, owner)
		return svcerr.Storage(opReplaceAll, "replace_failed", txErr)
	}
	return nil
}

// TrimOldest drops records beyond keep, evicting the lowest positions first.
func (s *Store) TrimOldest(ctx context.Context, feature, owner string, keep int) error {
	if err := validateScope(feature, owner); err != nil {
		return svcerr.New(opTrimOldest, "invalid_scope", err)
	}
	if keep < 0 {
		keep = 0
	}

	txErr := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var total int64
		if err := tx.Model(&Record{}).
			Where("feature = ? AND owner_id = ?", feature, owner).
			Count(&total).Error; err != nil {
			return err
		}
		excess := total - int64(keep)
		if excess <= 0 {
			return nil
		}
		var victims []Record
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("feature = ? AND owner_id = ?", feature, owner).
			Order("position ASC").
			Limit(int(excess)).
			Find(&victims).Error; err != nil {
			return err
		}
		for _, victim := range victims {
			if err := tx.Where(
				"feature = ? AND owner_id = ? AND entity_id = ?",
				victim.Feature, victim.OwnerID, victim.EntityID,
			).Delete(&Record{}).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if txErr != nil {
		s.logError(opTrimOldest, "trim_failed", txErr, feature, owner)
		return svcerr.Storage(opTrimOldest, "trim_failed", txErr)
	}
	return nil
}

// Count returns the number of records in the scope.
func (s *Store) Count(ctx context.Context, feature, owner string) (int64, error) {
	if err := validateScope(feature, owner); err != nil {
		return 0, svcerr.New(opCountUnread, "invalid_scope", err)
	}

	var total int64
	err := s.db.WithContext(ctx).Model(&Record{}).
		Where("feature = ? AND owner_id = ?", feature, owner).
		Count(&total).Error
	if err != nil {
		s.logError(opCountUnread, "query_failed", err, feature, owner)
		return 0, svcerr.Storage(opCountUnread, "query_failed", err)
	}
	return total, nil
}

func nextPosition(tx *gorm.DB, feature, owner string) (int64, error) {
	var current *int64
	err := tx.Model(&Record{}).
		Where("feature = ? AND owner_id = ?", feature, owner).
		Select("MAX(position)").
		Scan(&current).Error
	if err != nil {
		return 0, err
	}
	if current == nil {
		return 1, nil
	}
	return *current + 1, nil
}

func validateScope(feature, owner string) error {
	if feature == "" {
		return errMissingFeature
	}
	if owner == "" {
		return fmt.Errorf("%s: %w", feature, errMissingOwner)
	}
	return nil
}

func (s *Store) logError(operation, reason string, err error, feature, owner string) {
	s.logger.Error("store error",
		zap.String("operation", operation),
		zap.String("reason", reason),
		zap.String("feature", feature),
		zap.String("owner_id", owner),
		zap.Error(err))
}
