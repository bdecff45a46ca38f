package market

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func fixedClock() time.Time {
	return time.Date(2026, 8, 24, 8, 0, 0, 0, time.UTC)
}

func TestPricesFallsBackWithoutClient(t *testing.T) {
	service := NewService(ServiceConfig{Clock: fixedClock})

	board := service.Prices(context.Background(), "")
	if board.State != "Telangana" {
		t.Fatalf("expected Telangana default, got %s", board.State)
	}
	if board.Source != SourceFallback {
		t.Fatalf("expected fallback source, got %s", board.Source)
	}
	if len(board.Prices) != 8 {
		t.Fatalf("expected full fallback table, got %d rows", len(board.Prices))
	}
}

func TestPricesFallsBackWhenUpstreamFails(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer upstream.Close()

	client := NewClient(ClientConfig{APIKey: "test-key", BaseURL: upstream.URL})
	service := NewService(ServiceConfig{Client: client, Clock: fixedClock})

	board := service.Prices(context.Background(), "Telangana")
	if board.Source != SourceFallback {
		t.Fatalf("expected fallback source, got %s", board.Source)
	}
}

func TestPricesFallsBackOnEmptyBoard(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(resourceResponse{})
	}))
	defer upstream.Close()

	client := NewClient(ClientConfig{APIKey: "test-key", BaseURL: upstream.URL})
	service := NewService(ServiceConfig{Client: client, Clock: fixedClock})

	board := service.Prices(context.Background(), "Telangana")
	if board.Source != SourceFallback {
		t.Fatalf("expected fallback source for empty live board, got %s", board.Source)
	}
}

func TestFetchByStateParsesRecords(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("filters[state]"); got != "Telangana" {
			t.Errorf("expected state filter, got %q", got)
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"records": []map[string]string{
				{"state": "Telangana", "market": "Hyderabad", "commodity": "Rice", "modal_price": "2900"},
				{"state": "Telangana", "market": "Warangal", "commodity": "Cotton", "modal_price": "not-a-number"},
				{"state": "Telangana", "market": "Khammam", "commodity": "Chili", "modal_price": "0"},
			},
		})
	}))
	defer upstream.Close()

	client := NewClient(ClientConfig{APIKey: "test-key", BaseURL: upstream.URL, Clock: fixedClock})
	board, err := client.FetchByState(context.Background(), "Telangana")
	if err != nil {
		t.Fatalf("unexpected fetch error: %v", err)
	}
	if board.Source != SourceLive {
		t.Fatalf("expected live source, got %s", board.Source)
	}
	if len(board.Prices) != 1 {
		t.Fatalf("expected invalid rows skipped, got %d", len(board.Prices))
	}
	if board.Prices[0].PricePerQuintal != 2900 {
		t.Fatalf("unexpected modal price %d", board.Prices[0].PricePerQuintal)
	}
	if board.Prices[0].CommodityTelugu != "వరి" {
		t.Fatalf("expected telugu name lookup, got %s", board.Prices[0].CommodityTelugu)
	}
}

func TestFetchByStateRequiresKey(t *testing.T) {
	client := NewClient(ClientConfig{})
	if _, err := client.FetchByState(context.Background(), "Telangana"); err != ErrUnconfigured {
		t.Fatalf("expected ErrUnconfigured, got %v", err)
	}
}

func TestSummarizeCountsTrends(t *testing.T) {
	board := MockBoard("Telangana", fixedClock())

	summary := board.Summary
	if summary.Total != 8 {
		t.Fatalf("expected 8 rows, got %d", summary.Total)
	}
	if summary.Rising != 5 || summary.Fallen != 2 || summary.Stable != 1 {
		t.Fatalf("unexpected trend counts %#v", summary)
	}
	if summary.Rising+summary.Fallen+summary.Stable != summary.Total {
		t.Fatalf("expected trend counts to partition the board")
	}
}
