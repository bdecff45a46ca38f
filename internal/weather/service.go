// Package weather fetches forecasts for a user's location, persisting the
// latest snapshot and degrading to deterministic mock data on failure.
package weather

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/rythu-saathi/backend/internal/store"
	"github.com/rythu-saathi/backend/internal/svcerr"
)

const featureWeather = "weather-snapshot"

var errMissingStore = errors.New("store is required")

const opServiceNew = "weather.service.new"

// ServiceConfig describes the dependencies of the weather service.
type ServiceConfig struct {
	Store      *store.Store
	Client     *Client
	Clock      func() time.Time
	IDProvider store.IDProvider
	Logger     *zap.Logger
}

// Service owns the per-user snapshot record and the upstream client.
type Service struct {
	snapshots *store.Collection[Snapshot]
	client    *Client
	clock     func() time.Time
	logger    *zap.Logger
}

// NewService constructs the weather service.
func NewService(cfg ServiceConfig) (*Service, error) {
	if cfg.Store == nil {
		return nil, svcerr.New(opServiceNew, "missing_store", errMissingStore)
	}
	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	snapshots, err := store.NewCollection(store.CollectionConfig[Snapshot]{
		Store:      cfg.Store,
		Feature:    featureWeather,
		Clock:      clock,
		IDProvider: cfg.IDProvider,
		Logger:     logger,
		Stamp: func(entity *Snapshot, id string, now time.Time) {
			entity.ID = id
		},
		ID: func(entity Snapshot) string { return entity.ID },
	})
	if err != nil {
		return nil, err
	}
	return &Service{snapshots: snapshots, client: cfg.Client, clock: clock, logger: logger}, nil
}

// Fetch retrieves the forecast for the location, derives farming advice from
// the conditions, and overwrites the user's stored snapshot. Any upstream
// failure substitutes the deterministic mock rather than surfacing an error.
func (s *Service) Fetch(ctx context.Context, userID, location, language string) (Snapshot, error) {
	var snapshot Snapshot
	if s.client != nil && s.client.Configured() {
		fetched, err := s.client.FetchByLocation(ctx, location, language)
		if err == nil {
			snapshot = fetched
		} else {
			s.logger.Warn("weather fetch failed, using fallback",
				zap.String("location", location),
				zap.Error(err))
			snapshot = MockSnapshot(language, s.clock().UTC())
		}
	} else {
		snapshot = MockSnapshot(language, s.clock().UTC())
	}

	snapshot.ID = "current"
	snapshot.FarmingAdvice = FarmingAlerts(snapshot, language)
	if err := s.snapshots.Replace(ctx, userID, []Snapshot{snapshot}); err != nil {
		return Snapshot{}, err
	}
	return snapshot, nil
}

// Cached returns the user's last stored snapshot, or ErrNotFound-wrapped
// store error if nothing was fetched yet.
func (s *Service) Cached(ctx context.Context, userID string) (Snapshot, error) {
	snapshots, err := s.snapshots.List(ctx, userID)
	if err != nil {
		return Snapshot{}, err
	}
	if len(snapshots) == 0 {
		return Snapshot{}, store.ErrNotFound
	}
	return snapshots[0], nil
}
