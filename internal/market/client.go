package market

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"github.com/rythu-saathi/backend/internal/svcerr"
)

// ErrUnconfigured indicates no API key is set; callers fall back to the
// local price table.
var ErrUnconfigured = errors.New("market: api key not configured")

const (
	opFetch = "market.fetch"

	// Current daily mandi price resource on data.gov.in.
	mandiResource = "9ef84268-d588-465a-a308-a864a43d0070"
)

// ClientConfig configures the mandi price client.
type ClientConfig struct {
	APIKey     string
	BaseURL    string
	HTTPClient *http.Client
	Clock      func() time.Time
	Limiter    *rate.Limiter
}

// Client fetches mandi prices from the open government data platform.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	clock      func() time.Time
	limiter    *rate.Limiter
}

// NewClient constructs the mandi price client.
func NewClient(cfg ClientConfig) *Client {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}
	limiter := cfg.Limiter
	if limiter == nil {
		limiter = rate.NewLimiter(rate.Limit(1), 3)
	}
	return &Client{
		apiKey:     cfg.APIKey,
		baseURL:    cfg.BaseURL,
		httpClient: httpClient,
		clock:      clock,
		limiter:    limiter,
	}
}

// Configured reports whether the client has an API key.
func (c *Client) Configured() bool {
	return c.apiKey != ""
}

type resourceResponse struct {
	Records []struct {
		State     string `json:"state"`
		Market    string `json:"market"`
		Commodity string `json:"commodity"`
		ModalRs   string `json:"modal_price"`
	} `json:"records"`
}

// FetchByState returns a live price board for the state.
func (c *Client) FetchByState(ctx context.Context, state string) (Board, error) {
	if !c.Configured() {
		return Board{}, ErrUnconfigured
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return Board{}, svcerr.New(opFetch, "rate_limit_wait", err)
	}

	endpoint := fmt.Sprintf("%s/%s?api-key=%s&format=json&limit=50&filters[state]=%s",
		c.baseURL, mandiResource, c.apiKey, url.QueryEscape(state))
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return Board{}, svcerr.New(opFetch, "request_build_failed", err)
	}
	response, err := c.httpClient.Do(request)
	if err != nil {
		return Board{}, svcerr.New(opFetch, "request_failed", err)
	}
	defer response.Body.Close()
	if response.StatusCode != http.StatusOK {
		return Board{}, svcerr.New(opFetch, "unexpected_status",
			fmt.Errorf("unexpected status %d", response.StatusCode))
	}

	var decoded resourceResponse
	if err := json.NewDecoder(response.Body).Decode(&decoded); err != nil {
		return Board{}, svcerr.New(opFetch, "decode_failed", err)
	}

	now := c.clock().UTC()
	prices := make([]Price, 0, len(decoded.Records))
	for _, record := range decoded.Records {
		modal, err := strconv.Atoi(record.ModalRs)
		if err != nil || modal <= 0 {
			continue
		}
		prices = append(prices, Price{
			Commodity:       record.Commodity,
			CommodityTelugu: teluguName(record.Commodity),
			Market:          record.Market,
			PricePerQuintal: modal,
			Unit:            "Quintal",
			Trend:           TrendStable,
			UpdatedAt:       now,
		})
	}

	return Board{
		State:     state,
		Prices:    prices,
		Summary:   Summarize(prices),
		Source:    SourceLive,
		FetchedAt: now,
	}, nil
}
