package journal

import (
	"context"
	"errors"
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

	dsn := fmt.Sprintf("file:saathi_journal_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
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
		Clock:      func() time.Time { return time.Date(2026, 8, 24, 8, 0, 0, 0, time.UTC) },
		IDProvider: &sequenceIDGenerator{},
	})
	if err != nil {
		t.Fatalf("failed to construct journal service: %v", err)
	}
	return service
}

func TestAddEntryAppliesDefaults(t *testing.T) {
	service := newTestService(t)

	entry, err := service.Add(context.Background(), "user-1", Entry{
		PlantName: "Tomato",
		Activity:  "watering",
	})
	if err != nil {
		t.Fatalf("unexpected add error: %v", err)
	}
	if entry.ID == "" {
		t.Fatalf("expected stamped id")
	}
	if entry.Date != "2026-08-24" {
		t.Fatalf("expected today's date default, got %s", entry.Date)
	}
	if entry.Mood != MoodGood {
		t.Fatalf("expected good mood default, got %s", entry.Mood)
	}
	if entry.Photos == nil || entry.Tags == nil {
		t.Fatalf("expected empty slices rather than nil")
	}
}

func TestAddEntryRequiresPlantName(t *testing.T) {
	service := newTestService(t)

	if _, err := service.Add(context.Background(), "user-1", Entry{Activity: "watering"}); err == nil {
		t.Fatalf("expected error for missing plant name")
	}
}

func TestListReturnsNewestFirstPerUser(t *testing.T) {
	service := newTestService(t)
	ctx := context.Background()

	for _, plant := range []string{"Tomato", "Chili"} {
		if _, err := service.Add(ctx, "user-1", Entry{PlantName: plant}); err != nil {
			t.Fatalf("unexpected add error: %v", err)
		}
	}
	if _, err := service.Add(ctx, "user-2", Entry{PlantName: "Rose"}); err != nil {
		t.Fatalf("unexpected add error: %v", err)
	}

	entries, err := service.List(ctx, "user-1")
	if err != nil {
		t.Fatalf("unexpected list error: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries for user-1, got %d", len(entries))
	}
	if entries[0].PlantName != "Chili" {
		t.Fatalf("expected newest first, got %s", entries[0].PlantName)
	}
}

func TestUpdateAppliesPartialPatch(t *testing.T) {
	service := newTestService(t)
	ctx := context.Background()

	entry, err := service.Add(ctx, "user-1", Entry{PlantName: "Tomato", Notes: "looking pale"})
	if err != nil {
		t.Fatalf("unexpected add error: %v", err)
	}

	updated, err := service.Update(ctx, "user-1", entry.ID, Entry{Mood: MoodPoor, Tags: []string{"pests"}})
	if err != nil {
		t.Fatalf("unexpected update error: %v", err)
	}
	if updated.Mood != MoodPoor {
		t.Fatalf("expected patched mood, got %s", updated.Mood)
	}
	if updated.PlantName != "Tomato" || updated.Notes != "looking pale" {
		t.Fatalf("expected untouched fields, got %#v", updated)
	}
	if len(updated.Tags) != 1 || updated.Tags[0] != "pests" {
		t.Fatalf("expected replaced tags, got %#v", updated.Tags)
	}
}

func TestRemoveDeletesEntry(t *testing.T) {
	service := newTestService(t)
	ctx := context.Background()

	entry, err := service.Add(ctx, "user-1", Entry{PlantName: "Tomato"})
	if err != nil {
		t.Fatalf("unexpected add error: %v", err)
	}
	if err := service.Remove(ctx, "user-1", entry.ID); err != nil {
		t.Fatalf("unexpected remove error: %v", err)
	}

	entries, err := service.List(ctx, "user-1")
	if err != nil {
		t.Fatalf("unexpected list error: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected empty journal, got %d entries", len(entries))
	}
}

func TestUpdateMissingEntryReturnsNotFound(t *testing.T) {
	service := newTestService(t)

	_, err := service.Update(context.Background(), "user-1", "ghost", Entry{Notes: "x"})
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected store.ErrNotFound, got %v", err)
	}
}
