package store

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/rythu-saathi/backend/internal/svcerr"
)

var (
	errMissingStore = errors.New("store is required")
	errMissingStamp = errors.New("stamp hook is required")
	errMissingIDFn  = errors.New("id hook is required")
)

const (
	opCollectionNew = "collection.new"
	opCollectionGet = "collection.get"
	opCollectionAdd = "collection.add"
	opCollectionUpd = "collection.update"
)

// CollectionConfig wires one typed feature collection onto the keyed store.
//
// Stamp assigns the freshly issued id and creation time onto a new entity;
// ID extracts the entity id back out. The two hooks keep the collection free
// of reflection while letting every feature own its record shape.
type CollectionConfig[T any] struct {
	Store   *Store
	Feature string
	// Cap trims the collection to the newest Cap entities after every Add.
	// Zero means unbounded.
	Cap int
	// SharedOwner pins every operation to a single scope, for collections
	// that are portal-wide rather than per-user (forum posts, listings).
	SharedOwner string
	Stamp       func(entity *T, id string, now time.Time)
	ID          func(entity T) string
	IDProvider  IDProvider
	Clock       func() time.Time
	Logger      *zap.Logger
}

// Collection is a typed repository over one feature's records.
type Collection[T any] struct {
	store       *Store
	feature     string
	cap         int
	sharedOwner string
	stamp       func(entity *T, id string, now time.Time)
	id          func(entity T) string
	ids         IDProvider
	clock       func() time.Time
	logger      *zap.Logger
}

// NewCollection validates the config and returns the typed repository.
func NewCollection[T any](cfg CollectionConfig[T]) (*Collection[T], error) {
	if cfg.Store == nil {
		return nil, svcerr.New(opCollectionNew, "missing_store", errMissingStore)
	}
	if cfg.Feature == "" {
		return nil, svcerr.New(opCollectionNew, "missing_feature", errMissingFeature)
	}
	if cfg.Stamp == nil {
		return nil, svcerr.New(opCollectionNew, "missing_stamp", errMissingStamp)
	}
	if cfg.ID == nil {
		return nil, svcerr.New(opCollectionNew, "missing_id", errMissingIDFn)
	}
	ids := cfg.IDProvider
	if ids == nil {
		ids = NewUUIDProvider()
	}
	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}
	logger := cfg.Logger
	if logger == nil {
		logger = noOpLogger
	}
	return &Collection[T]{
		store:       cfg.Store,
		feature:     cfg.Feature,
		cap:         cfg.Cap,
		sharedOwner: cfg.SharedOwner,
		stamp:       cfg.Stamp,
		id:          cfg.ID,
		ids:         ids,
		clock:       clock,
		logger:      logger,
	}, nil
}

// Feature exposes the feature name the collection is bound to.
func (c *Collection[T]) Feature() string {
	return c.feature
}

func (c *Collection[T]) scope(owner string) string {
	if c.sharedOwner != "" {
		return c.sharedOwner
	}
	return owner
}

// List returns the collection newest first. Records whose payload no longer
// decodes are skipped and logged rather than failing the whole read.
func (c *Collection[T]) List(ctx context.Context, owner string) ([]T, error) {
	records, err := c.store.Load(ctx, c.feature, c.scope(owner))
	if err != nil {
		return nil, err
	}

	entities := make([]T, 0, len(records))
	for _, record := range records {
		var entity T
		if err := json.Unmarshal([]byte(record.PayloadJSON), &entity); err != nil {
			c.logger.Warn("skipping undecodable record",
				zap.String("feature", c.feature),
				zap.String("entity_id", record.EntityID),
				zap.Error(err))
			continue
		}
		entities = append(entities, entity)
	}
	return entities, nil
}

// Get returns a single entity or ErrNotFound.
func (c *Collection[T]) Get(ctx context.Context, owner, entityID string) (T, error) {
	var entity T
	record, err := c.store.Get(ctx, c.feature, c.scope(owner), entityID)
	if err != nil {
		return entity, err
	}
	if err := json.Unmarshal([]byte(record.PayloadJSON), &entity); err != nil {
		return entity, svcerr.New(opCollectionGet, "decode_failed", err)
	}
	return entity, nil
}

// Add stamps the entity with a fresh id and timestamp, persists it at the
// head of the collection, applies the cap, and returns the stored entity.
func (c *Collection[T]) Add(ctx context.Context, owner string, entity T) (T, error) {
	var zero T
	entityID, err := c.ids.NewID()
	if err != nil {
		return zero, svcerr.New(opCollectionAdd, "id_generation_failed", err)
	}

	c.stamp(&entity, entityID, c.clock().UTC())
	payload, err := json.Marshal(entity)
	if err != nil {
		return zero, svcerr.New(opCollectionAdd, "encode_failed", err)
	}

	if _, err := c.store.Insert(ctx, c.feature, c.scope(owner), entityID, string(payload)); err != nil {
		return zero, err
	}

	if c.cap > 0 {
		if err := c.store.TrimOldest(ctx, c.feature, c.scope(owner), c.cap); err != nil {
			return zero, err
		}
	}
	return entity, nil
}

// Update loads the entity, applies mutate, and persists the result.
func (c *Collection[T]) Update(ctx context.Context, owner, entityID string, mutate func(*T) error) (T, error) {
	var zero T
	entity, err := c.Get(ctx, owner, entityID)
	if err != nil {
		return zero, err
	}

	if err := mutate(&entity); err != nil {
		return zero, svcerr.New(opCollectionUpd, "mutate_failed", err)
	}

	payload, err := json.Marshal(entity)
	if err != nil {
		return zero, svcerr.New(opCollectionUpd, "encode_failed", err)
	}
	if _, err := c.store.Update(ctx, c.feature, c.scope(owner), entityID, string(payload)); err != nil {
		return zero, err
	}
	return entity, nil
}

// Remove deletes one entity from the collection.
func (c *Collection[T]) Remove(ctx context.Context, owner, entityID string) error {
	return c.store.Delete(ctx, c.feature, c.scope(owner), entityID)
}

// Clear empties the collection.
func (c *Collection[T]) Clear(ctx context.Context, owner string) error {
	return c.store.DeleteAll(ctx, c.feature, c.scope(owner))
}

// Replace rewrites the collection wholesale, preserving the supplied
// newest-first ordering. Used by single-record features such as the weather
// snapshot, where every fetch overwrites the previous state.
func (c *Collection[T]) Replace(ctx context.Context, owner string, entities []T) error {
	payloads := make([]Payload, 0, len(entities))
	for _, entity := range entities {
		encoded, err := json.Marshal(entity)
		if err != nil {
			return svcerr.New(opCollectionUpd, "encode_failed", err)
		}
		payloads = append(payloads, Payload{
			EntityID:    c.id(entity),
			PayloadJSON: string(encoded),
		})
	}
	return c.store.ReplaceAll(ctx, c.feature, c.scope(owner), payloads)
}

// Count reports the collection size without decoding payloads.
func (c *Collection[T]) Count(ctx context.Context, owner string) (int64, error) {
	return c.store.Count(ctx, c.feature, c.scope(owner))
}
