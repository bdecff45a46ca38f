package assistant

import (
	"context"
	"encoding/base64"
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

	dsn := fmt.Sprintf("file:saathi_assistant_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
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
		t.Fatalf("failed to construct assistant service: %v", err)
	}
	return service
}

func TestChatWithoutModelUsesFallback(t *testing.T) {
	service := newTestService(t)
	ctx := context.Background()

	result, err := service.Chat(ctx, "user-1", ChatRequest{
		Prompt:   "How do I treat leaf curl?",
		Language: "en",
	})
	if err != nil {
		t.Fatalf("unexpected chat error: %v", err)
	}
	if !result.Fallback {
		t.Fatalf("expected fallback answer without a model")
	}
	if result.Answer == "" {
		t.Fatalf("expected non-empty fallback answer")
	}

	history, err := service.History(ctx, "user-1")
	if err != nil {
		t.Fatalf("unexpected history error: %v", err)
	}
	if len(history) != 1 {
		t.Fatalf("expected the exchange recorded, got %d entries", len(history))
	}
	if history[0].Kind != EntryKindText {
		t.Fatalf("expected text entry default, got %s", history[0].Kind)
	}
	if history[0].Question != "How do I treat leaf curl?" {
		t.Fatalf("unexpected recorded question %q", history[0].Question)
	}
}

func TestChatRejectsEmptyPrompt(t *testing.T) {
	service := newTestService(t)

	if _, err := service.Chat(context.Background(), "user-1", ChatRequest{Language: "en"}); err == nil {
		t.Fatalf("expected error for empty prompt")
	}
}

func TestChatFallbackIsLocalized(t *testing.T) {
	service := newTestService(t)
	ctx := context.Background()

	english, err := service.Chat(ctx, "user-1", ChatRequest{Prompt: "hello", Language: "en"})
	if err != nil {
		t.Fatalf("unexpected chat error: %v", err)
	}
	telugu, err := service.Chat(ctx, "user-1", ChatRequest{Prompt: "hello", Language: "te"})
	if err != nil {
		t.Fatalf("unexpected chat error: %v", err)
	}
	if english.Answer == telugu.Answer {
		t.Fatalf("expected localized fallback answers")
	}
}

func TestAnalyzeImageWithoutModelUsesTemplatedVerdict(t *testing.T) {
	service := newTestService(t)
	ctx := context.Background()

	image := base64.StdEncoding.EncodeToString([]byte("fake-image-bytes"))
	analysis, err := service.AnalyzeImage(ctx, "user-1", AnalyzeRequest{
		ImageBase64: image,
		Kind:        AnalysisCropDisease,
		Language:    "en",
	})
	if err != nil {
		t.Fatalf("unexpected analyze error: %v", err)
	}
	if !analysis.Fallback {
		t.Fatalf("expected fallback verdict without a model")
	}
	if len(analysis.Verdict) == 0 {
		t.Fatalf("expected templated verdict fields")
	}

	history, err := service.History(ctx, "user-1")
	if err != nil {
		t.Fatalf("unexpected history error: %v", err)
	}
	if len(history) != 1 || history[0].Kind != EntryKindImage {
		t.Fatalf("expected an image history entry, got %#v", history)
	}
}

func TestAnalyzeImageValidatesRequest(t *testing.T) {
	service := newTestService(t)
	ctx := context.Background()

	image := base64.StdEncoding.EncodeToString([]byte("fake"))
	if _, err := service.AnalyzeImage(ctx, "user-1", AnalyzeRequest{Kind: AnalysisCropDisease}); err == nil {
		t.Fatalf("expected error for missing image")
	}
	if _, err := service.AnalyzeImage(ctx, "user-1", AnalyzeRequest{ImageBase64: image, Kind: "palm-reading"}); err == nil {
		t.Fatalf("expected error for unknown analysis kind")
	}
	if _, err := service.AnalyzeImage(ctx, "user-1", AnalyzeRequest{ImageBase64: "not base64!!", Kind: AnalysisCropDisease}); err == nil {
		t.Fatalf("expected error for invalid base64")
	}
}

func TestClearHistoryEmptiesTheLog(t *testing.T) {
	service := newTestService(t)
	ctx := context.Background()

	if _, err := service.Chat(ctx, "user-1", ChatRequest{Prompt: "hello", Language: "en"}); err != nil {
		t.Fatalf("unexpected chat error: %v", err)
	}
	if err := service.ClearHistory(ctx, "user-1"); err != nil {
		t.Fatalf("unexpected clear error: %v", err)
	}

	history, err := service.History(ctx, "user-1")
	if err != nil {
		t.Fatalf("unexpected history error: %v", err)
	}
	if len(history) != 0 {
		t.Fatalf("expected empty history, got %d", len(history))
	}
}

func TestParseVerdictHandlesWrappedJSON(t *testing.T) {
	raw := "Here is the analysis:\n```json\n{\"disease\": \"leaf curl\", \"confidence\": 80}\n```"
	verdict, fallback := parseVerdict(raw, AnalysisCropDisease, "en")
	if fallback {
		t.Fatalf("expected parsed verdict, got fallback")
	}
	if verdict["disease"] != "leaf curl" {
		t.Fatalf("unexpected verdict %#v", verdict)
	}
}

func TestParseVerdictFallsBackOnProse(t *testing.T) {
	verdict, fallback := parseVerdict("The leaf looks healthy to me.", AnalysisCropDisease, "en")
	if !fallback {
		t.Fatalf("expected fallback for non-JSON reply")
	}
	if len(verdict) == 0 {
		t.Fatalf("expected templated verdict")
	}
}
