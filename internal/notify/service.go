// Package notify implements the notification inbox: a persisted, capped,
// newest-first list per user plus an in-process relay for live delivery.
package notify

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/rythu-saathi/backend/internal/store"
	"github.com/rythu-saathi/backend/internal/svcerr"
)

const featureNotifications = "notifications"

var (
	errMissingStore = errors.New("store is required")

	noOpLogger = zap.NewNop()
)

const (
	opServiceNew  = "notify.service.new"
	opPublish     = "notify.publish"
	opMarkAllRead = "notify.mark_all_read"
)

// ServiceConfig describes the dependencies of the notification service.
type ServiceConfig struct {
	Store      *store.Store
	Relay      *Relay
	Clock      func() time.Time
	IDProvider store.IDProvider
	Logger     *zap.Logger
}

// Service persists inbox entries and bridges them onto the relay.
type Service struct {
	inbox  *store.Collection[Notification]
	relay  *Relay
	logger *zap.Logger
}

// NewService constructs the notification service.
func NewService(cfg ServiceConfig) (*Service, error) {
	if cfg.Store == nil {
		return nil, svcerr.New(opServiceNew, "missing_store", errMissingStore)
	}
	relay := cfg.Relay
	if relay == nil {
		relay = NewRelay()
	}
	logger := cfg.Logger
	if logger == nil {
		logger = noOpLogger
	}

	inbox, err := store.NewCollection(store.CollectionConfig[Notification]{
		Store:      cfg.Store,
		Feature:    featureNotifications,
		Cap:        InboxCap,
		Clock:      cfg.Clock,
		IDProvider: cfg.IDProvider,
		Logger:     logger,
		Stamp: func(entity *Notification, id string, now time.Time) {
			entity.ID = id
			entity.Timestamp = now
			entity.Read = false
		},
		ID: func(entity Notification) string { return entity.ID },
	})
	if err != nil {
		return nil, err
	}

	return &Service{inbox: inbox, relay: relay, logger: logger}, nil
}

// Relay exposes the fan-out for stream subscriptions.
func (s *Service) Relay() *Relay {
	return s.relay
}

// Publish persists the notification at the head of the user's inbox, trims
// to the cap, and fans it out to live subscribers.
func (s *Service) Publish(ctx context.Context, userID string, draft Notification) (Notification, error) {
	if draft.Priority == "" {
		draft.Priority = PriorityMedium
	}
	stored, err := s.inbox.Add(ctx, userID, draft)
	if err != nil {
		s.logger.Error("notification publish failed",
			zap.String("operation", opPublish),
			zap.String("user_id", userID),
			zap.Error(err))
		return Notification{}, err
	}
	s.relay.Publish(Message{UserID: userID, Notification: stored})
	return stored, nil
}

// List returns the inbox, newest first.
func (s *Service) List(ctx context.Context, userID string) ([]Notification, error) {
	return s.inbox.List(ctx, userID)
}

// UnreadCount reports how many inbox entries are unread.
func (s *Service) UnreadCount(ctx context.Context, userID string) (int, error) {
	notifications, err := s.inbox.List(ctx, userID)
	if err != nil {
		return 0, err
	}
	unread := 0
	for _, notification := range notifications {
		if !notification.Read {
			unread++
		}
	}
	return unread, nil
}

// MarkRead flags one entry read. Marking twice is a no-op.
func (s *Service) MarkRead(ctx context.Context, userID, notificationID string) (Notification, error) {
	return s.inbox.Update(ctx, userID, notificationID, func(notification *Notification) error {
		notification.Read = true
		return nil
	})
}

// MarkAllRead flags every entry read, preserving inbox order.
func (s *Service) MarkAllRead(ctx context.Context, userID string) error {
	notifications, err := s.inbox.List(ctx, userID)
	if err != nil {
		return err
	}
	for i := range notifications {
		notifications[i].Read = true
	}
	if err := s.inbox.Replace(ctx, userID, notifications); err != nil {
		return svcerr.New(opMarkAllRead, "replace_failed", err)
	}
	return nil
}

// Delete removes one entry from the inbox.
func (s *Service) Delete(ctx context.Context, userID, notificationID string) error {
	return s.inbox.Remove(ctx, userID, notificationID)
}

// ClearAll empties the inbox.
func (s *Service) ClearAll(ctx context.Context, userID string) error {
	return s.inbox.Clear(ctx, userID)
}
