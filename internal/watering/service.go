// Package watering implements per-user watering schedules with due-date
// tracking and reminder notifications.
package watering

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/rythu-saathi/backend/internal/notify"
	"github.com/rythu-saathi/backend/internal/store"
	"github.com/rythu-saathi/backend/internal/svcerr"
)

const featureWatering = "watering-schedules"

// Schedule tracks one plant's watering cadence. Next dates are recomputed
// whenever a watering or fertilizing is recorded.
type Schedule struct {
	ID                  string    `json:"id"`
	PlantName           string    `json:"plantName"`
	PlantType           string    `json:"plantType"`
	FrequencyDays       int       `json:"frequencyDays"`
	LastWatered         time.Time `json:"lastWatered"`
	NextWatering        time.Time `json:"nextWatering"`
	Amount              string    `json:"amount"`
	Notes               string    `json:"notes"`
	IsActive            bool      `json:"isActive"`
	ReminderEnabled     bool      `json:"reminderEnabled"`
	FertilizeWithWater  bool      `json:"fertilizeWithWater"`
	FertilizerType      string    `json:"fertilizerType,omitempty"`
	FertilizerFreqWeeks int       `json:"fertilizerFrequencyWeeks,omitempty"`
	LastFertilized      time.Time `json:"lastFertilized,omitempty"`
	NextFertilizing     time.Time `json:"nextFertilizing,omitempty"`
	CreatedAt           time.Time `json:"createdAt"`
}

var (
	errMissingStore     = errors.New("store is required")
	errMissingPlant     = errors.New("plant name is required")
	errInvalidFrequency = errors.New("frequency must be at least one day")
)

const (
	opServiceNew = "watering.service.new"
	opAdd        = "watering.add_schedule"
	opDueCheck   = "watering.due_check"
)

// ServiceConfig describes the dependencies of the watering service.
type ServiceConfig struct {
	Store      *store.Store
	Notifier   *notify.Service
	Clock      func() time.Time
	IDProvider store.IDProvider
	Logger     *zap.Logger
}

// Service owns the per-user schedule collection.
type Service struct {
	schedules *store.Collection[Schedule]
	notifier  *notify.Service
	clock     func() time.Time
	logger    *zap.Logger
}

// NewService constructs the watering service.
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
	schedules, err := store.NewCollection(store.CollectionConfig[Schedule]{
		Store:      cfg.Store,
		Feature:    featureWatering,
		Clock:      clock,
		IDProvider: cfg.IDProvider,
		Logger:     logger,
		Stamp: func(entity *Schedule, id string, now time.Time) {
			entity.ID = id
			entity.CreatedAt = now
			if entity.LastWatered.IsZero() {
				entity.LastWatered = now
			}
			entity.NextWatering = entity.LastWatered.AddDate(0, 0, entity.FrequencyDays)
			if entity.FertilizeWithWater && entity.FertilizerFreqWeeks > 0 {
				if entity.LastFertilized.IsZero() {
					entity.LastFertilized = now
				}
				entity.NextFertilizing = entity.LastFertilized.AddDate(0, 0, 7*entity.FertilizerFreqWeeks)
			}
		},
		ID: func(entity Schedule) string { return entity.ID },
	})
	if err != nil {
		return nil, err
	}
	return &Service{schedules: schedules, notifier: cfg.Notifier, clock: clock, logger: logger}, nil
}

// List returns the user's schedules, newest first.
func (s *Service) List(ctx context.Context, userID string) ([]Schedule, error) {
	return s.schedules.List(ctx, userID)
}

// Add registers a new schedule and computes its first due dates.
func (s *Service) Add(ctx context.Context, userID string, schedule Schedule) (Schedule, error) {
	if strings.TrimSpace(schedule.PlantName) == "" {
		return Schedule{}, svcerr.New(opAdd, "missing_plant_name", errMissingPlant)
	}
	if schedule.FrequencyDays < 1 {
		return Schedule{}, svcerr.New(opAdd, "invalid_frequency", errInvalidFrequency)
	}
	return s.schedules.Add(ctx, userID, schedule)
}

// Update applies a partial edit and recomputes the next watering date.
func (s *Service) Update(ctx context.Context, userID, scheduleID string, patch Schedule) (Schedule, error) {
	return s.schedules.Update(ctx, userID, scheduleID, func(schedule *Schedule) error {
		if strings.TrimSpace(patch.PlantName) != "" {
			schedule.PlantName = strings.TrimSpace(patch.PlantName)
		}
		if patch.PlantType != "" {
			schedule.PlantType = patch.PlantType
		}
		if patch.FrequencyDays > 0 {
			schedule.FrequencyDays = patch.FrequencyDays
			schedule.NextWatering = schedule.LastWatered.AddDate(0, 0, patch.FrequencyDays)
		}
		if patch.Amount != "" {
			schedule.Amount = patch.Amount
		}
		if patch.Notes != "" {
			schedule.Notes = patch.Notes
		}
		schedule.IsActive = patch.IsActive
		schedule.ReminderEnabled = patch.ReminderEnabled
		return nil
	})
}

// MarkWatered records a watering now and rolls the next due date forward.
func (s *Service) MarkWatered(ctx context.Context, userID, scheduleID string) (Schedule, error) {
	now := s.clock().UTC()
	return s.schedules.Update(ctx, userID, scheduleID, func(schedule *Schedule) error {
		schedule.LastWatered = now
		schedule.NextWatering = now.AddDate(0, 0, schedule.FrequencyDays)
		if schedule.FertilizeWithWater && schedule.FertilizerFreqWeeks > 0 &&
			!schedule.NextFertilizing.After(now) {
			schedule.LastFertilized = now
			schedule.NextFertilizing = now.AddDate(0, 0, 7*schedule.FertilizerFreqWeeks)
		}
		return nil
	})
}

// Remove deletes one schedule.
func (s *Service) Remove(ctx context.Context, userID, scheduleID string) error {
	return s.schedules.Remove(ctx, userID, scheduleID)
}

// Due returns the active schedules whose next watering is at or before now.
func (s *Service) Due(ctx context.Context, userID string) ([]Schedule, error) {
	schedules, err := s.schedules.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	now := s.clock().UTC()
	due := make([]Schedule, 0)
	for _, schedule := range schedules {
		if schedule.IsActive && !schedule.NextWatering.After(now) {
			due = append(due, schedule)
		}
	}
	return due, nil
}

// NotifyDue publishes one reminder per due schedule with reminders enabled
// and returns how many were sent.
func (s *Service) NotifyDue(ctx context.Context, userID string) (int, error) {
	due, err := s.Due(ctx, userID)
	if err != nil {
		return 0, svcerr.New(opDueCheck, "list_failed", err)
	}
	sent := 0
	for _, schedule := range due {
		if !schedule.ReminderEnabled || s.notifier == nil {
			continue
		}
		_, err := s.notifier.Publish(ctx, userID, notify.Notification{
			Type:     notify.TypeWatering,
			Title:    "Watering Due",
			Message:  fmt.Sprintf("%s needs watering today.", schedule.PlantName),
			Priority: notify.PriorityMedium,
			Icon:     "💧",
		})
		if err != nil {
			s.logger.Warn("watering reminder failed",
				zap.String("schedule_id", schedule.ID),
				zap.Error(err))
			continue
		}
		sent++
	}
	return sent, nil
}
