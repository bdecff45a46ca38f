// Package journal implements the garden journal, a per-user activity log.
package journal

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/rythu-saathi/backend/internal/store"
	"github.com/rythu-saathi/backend/internal/svcerr"
)

const featureJournal = "garden-journal"

// Mood grades how a garden session went.
type Mood string

const (
	MoodExcellent Mood = "excellent"
	MoodGood      Mood = "good"
	MoodFair      Mood = "fair"
	MoodPoor      Mood = "poor"
)

// Entry is one journal record.
type Entry struct {
	ID        string    `json:"id"`
	Date      string    `json:"date"`
	PlantName string    `json:"plantName"`
	Activity  string    `json:"activity"`
	Notes     string    `json:"notes"`
	Photos    []string  `json:"photos"`
	Weather   string    `json:"weather"`
	Mood      Mood      `json:"mood"`
	Tags      []string  `json:"tags"`
	CreatedAt time.Time `json:"createdAt"`
}

var (
	errMissingStore = errors.New("store is required")
	errMissingPlant = errors.New("plant name is required")
)

const (
	opServiceNew = "journal.service.new"
	opAdd        = "journal.add_entry"
)

// ServiceConfig describes the dependencies of the journal service.
type ServiceConfig struct {
	Store      *store.Store
	Clock      func() time.Time
	IDProvider store.IDProvider
	Logger     *zap.Logger
}

// Service owns the per-user journal collection.
type Service struct {
	entries *store.Collection[Entry]
}

// NewService constructs the journal service.
func NewService(cfg ServiceConfig) (*Service, error) {
	if cfg.Store == nil {
		return nil, svcerr.New(opServiceNew, "missing_store", errMissingStore)
	}
	entries, err := store.NewCollection(store.CollectionConfig[Entry]{
		Store:      cfg.Store,
		Feature:    featureJournal,
		Clock:      cfg.Clock,
		IDProvider: cfg.IDProvider,
		Logger:     cfg.Logger,
		Stamp: func(entity *Entry, id string, now time.Time) {
			entity.ID = id
			entity.CreatedAt = now
			if entity.Date == "" {
				entity.Date = now.Format("2006-01-02")
			}
		},
		ID: func(entity Entry) string { return entity.ID },
	})
	if err != nil {
		return nil, err
	}
	return &Service{entries: entries}, nil
}

// List returns the user's journal, newest first.
func (s *Service) List(ctx context.Context, userID string) ([]Entry, error) {
	return s.entries.List(ctx, userID)
}

// Add appends a new entry.
func (s *Service) Add(ctx context.Context, userID string, entry Entry) (Entry, error) {
	if strings.TrimSpace(entry.PlantName) == "" {
		return Entry{}, svcerr.New(opAdd, "missing_plant_name", errMissingPlant)
	}
	if entry.Photos == nil {
		entry.Photos = []string{}
	}
	if entry.Tags == nil {
		entry.Tags = []string{}
	}
	if entry.Mood == "" {
		entry.Mood = MoodGood
	}
	return s.entries.Add(ctx, userID, entry)
}

// Update applies a partial edit to an existing entry.
func (s *Service) Update(ctx context.Context, userID, entryID string, patch Entry) (Entry, error) {
	return s.entries.Update(ctx, userID, entryID, func(entry *Entry) error {
		if strings.TrimSpace(patch.PlantName) != "" {
			entry.PlantName = strings.TrimSpace(patch.PlantName)
		}
		if patch.Activity != "" {
			entry.Activity = patch.Activity
		}
		if patch.Notes != "" {
			entry.Notes = patch.Notes
		}
		if patch.Weather != "" {
			entry.Weather = patch.Weather
		}
		if patch.Mood != "" {
			entry.Mood = patch.Mood
		}
		if patch.Date != "" {
			entry.Date = patch.Date
		}
		if patch.Photos != nil {
			entry.Photos = patch.Photos
		}
		if patch.Tags != nil {
			entry.Tags = patch.Tags
		}
		return nil
	})
}

// Remove deletes one entry.
func (s *Service) Remove(ctx context.Context, userID, entryID string) error {
	return s.entries.Remove(ctx, userID, entryID)
}
