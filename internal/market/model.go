// Package market serves mandi commodity prices, either from the open
// government data API or from a deterministic local table when the API is
// unconfigured or unreachable.
package market

import "time"

// Trend marks the day-over-day price direction of a commodity.
type Trend string

const (
	TrendUp     Trend = "up"
	TrendDown   Trend = "down"
	TrendStable Trend = "stable"
)

// Price is one commodity quote at one market.
type Price struct {
	Commodity       string    `json:"commodity"`
	CommodityTelugu string    `json:"commodityTelugu"`
	Market          string    `json:"market"`
	PricePerQuintal int       `json:"price"`
	Unit            string    `json:"unit"`
	Trend           Trend     `json:"trend"`
	ChangePercent   float64   `json:"change"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// Summary aggregates a price board for quick display.
type Summary struct {
	Total  int `json:"total"`
	Rising int `json:"rising"`
	Fallen int `json:"fallen"`
	Stable int `json:"stable"`
}

// Board is the full price response for a state.
type Board struct {
	State     string    `json:"state"`
	Prices    []Price   `json:"prices"`
	Summary   Summary   `json:"summary"`
	Source    Source    `json:"source"`
	FetchedAt time.Time `json:"fetchedAt"`
}

// Source records where a board came from.
type Source string

const (
	SourceLive     Source = "live"
	SourceFallback Source = "fallback"
)

// Summarize counts trends across a set of prices.
func Summarize(prices []Price) Summary {
	summary := Summary{Total: len(prices)}
	for _, price := range prices {
		switch price.Trend {
		case TrendUp:
			summary.Rising++
		case TrendDown:
			summary.Fallen++
		default:
			summary.Stable++
		}
	}
	return summary
}
