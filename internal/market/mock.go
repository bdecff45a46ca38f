package market

import "time"

type mockRow struct {
	commodity string
	telugu    string
	market    string
	price     int
	trend     Trend
	change    float64
}

// Fixed Telangana price table used when the data API is unavailable.
var mockRows = []mockRow{
	{"Rice", "వరి", "Hyderabad", 2850, TrendUp, 2.5},
	{"Cotton", "పత్తి", "Warangal", 7200, TrendUp, 4.1},
	{"Maize", "మొక్కజొన్న", "Nizamabad", 2100, TrendDown, -1.2},
	{"Onion", "ఉల్లిపాయ", "Hyderabad", 3400, TrendUp, 8.3},
	{"Tomato", "టమాట", "Karimnagar", 2800, TrendDown, -5.6},
	{"Chili", "మిరపకాయ", "Khammam", 12500, TrendUp, 3.7},
	{"Turmeric", "పసుపు", "Nizamabad", 8900, TrendStable, 0.2},
	{"Groundnut", "వేరుశెనగ", "Warangal", 6300, TrendUp, 1.8},
}

func teluguName(commodity string) string {
	for _, row := range mockRows {
		if row.commodity == commodity {
			return row.telugu
		}
	}
	return ""
}

// MockBoard is the deterministic fallback price board.
func MockBoard(state string, now time.Time) Board {
	prices := make([]Price, 0, len(mockRows))
	for _, row := range mockRows {
		prices = append(prices, Price{
			Commodity:       row.commodity,
			CommodityTelugu: row.telugu,
			Market:          row.market,
			PricePerQuintal: row.price,
			Unit:            "Quintal",
			Trend:           row.trend,
			ChangePercent:   row.change,
			UpdatedAt:       now,
		})
	}
	return Board{
		State:     state,
		Prices:    prices,
		Summary:   Summarize(prices),
		Source:    SourceFallback,
		FetchedAt: now,
	}
}
