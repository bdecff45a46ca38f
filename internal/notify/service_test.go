package notify

import (
	"context"
	"fmt"
	"testing"
	"time"

	sqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"github.com/rythu-saathi/backend/internal/store"
)

type sequenceIDGenerator struct {
	next int
}

func (g *sequenceIDGenerator) NewID() (string, error) {
	g.next++
	return fmt.Sprintf("id-%d", g.next), nil
}

func newTestService(t *testing.T) *Service {
	t.Helper()
	service, _ := newTestServiceWithStore(t)
	return service
}

func newTestServiceWithStore(t *testing.T) (*Service, *store.Store) {
	t.Helper()

	dsn := fmt.Sprintf("file:saathi_notify_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&store.Record{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	recordStore, err := store.New(store.Config{Database: db})
	if err != nil {
		t.Fatalf("failed to construct store: %v", err)
	}

	service, err := NewService(ServiceConfig{
		Store:      recordStore,
		IDProvider: &sequenceIDGenerator{},
	})
	if err != nil {
		t.Fatalf("failed to construct notify service: %v", err)
	}
	return service, recordStore
}

func TestPublishPersistsAndFansOut(t *testing.T) {
	service := newTestService(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stream, cleanup := service.Relay().Subscribe(ctx, "user-1")
	defer cleanup()

	stored, err := service.Publish(ctx, "user-1", Notification{
		Type:    TypeWeather,
		Title:   "Weather Alert",
		Message: "Rain expected",
	})
	if err != nil {
		t.Fatalf("unexpected publish error: %v", err)
	}
	if stored.ID == "" {
		t.Fatalf("expected stamped notification id")
	}
	if stored.Priority != PriorityMedium {
		t.Fatalf("expected default medium priority, got %s", stored.Priority)
	}
	if stored.Read {
		t.Fatalf("expected notification to start unread")
	}

	select {
	case message := <-stream:
		if message.Notification.ID != stored.ID {
			t.Fatalf("expected fan-out of stored notification")
		}
	case <-time.After(time.Second):
		t.Fatalf("expected live delivery")
	}

	notifications, err := service.List(ctx, "user-1")
	if err != nil {
		t.Fatalf("unexpected list error: %v", err)
	}
	if len(notifications) != 1 {
		t.Fatalf("expected 1 inbox entry, got %d", len(notifications))
	}
}

func TestInboxCapEvictsOldest(t *testing.T) {
	service := newTestService(t)
	ctx := context.Background()

	for i := 0; i < InboxCap+5; i++ {
		if _, err := service.Publish(ctx, "user-1", Notification{Title: fmt.Sprintf("n-%d", i)}); err != nil {
			t.Fatalf("unexpected publish error: %v", err)
		}
	}

	notifications, err := service.List(ctx, "user-1")
	if err != nil {
		t.Fatalf("unexpected list error: %v", err)
	}
	if len(notifications) != InboxCap {
		t.Fatalf("expected inbox capped at %d, got %d", InboxCap, len(notifications))
	}
	if notifications[0].Title != fmt.Sprintf("n-%d", InboxCap+4) {
		t.Fatalf("expected newest entry at the head, got %s", notifications[0].Title)
	}
}

func TestMarkReadIsIdempotent(t *testing.T) {
	service := newTestService(t)
	ctx := context.Background()

	stored, err := service.Publish(ctx, "user-1", Notification{Title: "n"})
	if err != nil {
		t.Fatalf("unexpected publish error: %v", err)
	}

	if _, err := service.MarkRead(ctx, "user-1", stored.ID); err != nil {
		t.Fatalf("unexpected mark read error: %v", err)
	}
	if _, err := service.MarkRead(ctx, "user-1", stored.ID); err != nil {
		t.Fatalf("expected second mark read to succeed: %v", err)
	}

	unread, err := service.UnreadCount(ctx, "user-1")
	if err != nil {
		t.Fatalf("unexpected unread count error: %v", err)
	}
	if unread != 0 {
		t.Fatalf("expected zero unread, got %d", unread)
	}
}

func TestMarkAllReadPreservesOrder(t *testing.T) {
	service := newTestService(t)
	ctx := context.Background()

	for _, title := range []string{"first", "second", "third"} {
		if _, err := service.Publish(ctx, "user-1", Notification{Title: title}); err != nil {
			t.Fatalf("unexpected publish error: %v", err)
		}
	}

	if err := service.MarkAllRead(ctx, "user-1"); err != nil {
		t.Fatalf("unexpected mark all read error: %v", err)
	}

	notifications, err := service.List(ctx, "user-1")
	if err != nil {
		t.Fatalf("unexpected list error: %v", err)
	}
	if len(notifications) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(notifications))
	}
	if notifications[0].Title != "third" {
		t.Fatalf("expected order preserved, got %s at head", notifications[0].Title)
	}
	for _, notification := range notifications {
		if !notification.Read {
			t.Fatalf("expected every entry read")
		}
	}
}

func TestClearAllEmptiesInbox(t *testing.T) {
	service := newTestService(t)
	ctx := context.Background()

	if _, err := service.Publish(ctx, "user-1", Notification{Title: "n"}); err != nil {
		t.Fatalf("unexpected publish error: %v", err)
	}
	if err := service.ClearAll(ctx, "user-1"); err != nil {
		t.Fatalf("unexpected clear error: %v", err)
	}

	notifications, err := service.List(ctx, "user-1")
	if err != nil {
		t.Fatalf("unexpected list error: %v", err)
	}
	if len(notifications) != 0 {
		t.Fatalf("expected empty inbox, got %d entries", len(notifications))
	}
}
