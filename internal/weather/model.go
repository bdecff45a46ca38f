package weather

import "time"

// Current is the present-conditions block of a snapshot.
type Current struct {
	Temperature  int    `json:"temperature"`
	Description  string `json:"description"`
	Humidity     int    `json:"humidity"`
	WindSpeedKmh int    `json:"windSpeed"`
	Pressure     int    `json:"pressure"`
	VisibilityKm int    `json:"visibility"`
	Icon         string `json:"icon"`
	FeelsLike    int    `json:"feelsLike"`
}

// ForecastDay is one day of the 7-day outlook.
type ForecastDay struct {
	Date          time.Time `json:"date"`
	Day           string    `json:"day"`
	High          int       `json:"high"`
	Low           int       `json:"low"`
	Description   string    `json:"description"`
	Icon          string    `json:"icon"`
	Humidity      int       `json:"humidity"`
	WindSpeedKmh  int       `json:"windSpeed"`
	Precipitation float64   `json:"precipitation"`
}

// Severity grades a weather alert.
type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// Alert is a severe-condition warning attached to a snapshot.
type Alert struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Severity    Severity  `json:"severity"`
	ValidUntil  time.Time `json:"validUntil"`
}

// Source records where a snapshot came from.
type Source string

const (
	// SourceLive marks data fetched from the weather API.
	SourceLive Source = "live"
	// SourceFallback marks the deterministic mock substituted on failure.
	SourceFallback Source = "fallback"
)

// Snapshot is the single per-user weather record, overwritten wholesale on
// every fetch.
type Snapshot struct {
	ID            string        `json:"id"`
	Location      string        `json:"location"`
	Current       Current       `json:"current"`
	Forecast      []ForecastDay `json:"forecast"`
	Alerts        []Alert       `json:"alerts"`
	FarmingAdvice []string      `json:"farmingAdvice"`
	Source        Source        `json:"source"`
	LastUpdated   time.Time     `json:"lastUpdated"`
}
