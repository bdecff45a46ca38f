package weather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"

	"github.com/rythu-saathi/backend/internal/svcerr"
)

var (
	// ErrUnconfigured indicates no API key is set; callers fall back to mock data.
	ErrUnconfigured = errors.New("weather: api key not configured")
	// ErrLocationNotFound indicates geocoding returned no match.
	ErrLocationNotFound = errors.New("weather: location not found")
)

const (
	opFetch = "weather.fetch"

	forecastDays = 7
)

// ClientConfig configures the weather API client.
type ClientConfig struct {
	APIKey     string
	BaseURL    string
	HTTPClient *http.Client
	Clock      func() time.Time
	// Limiter throttles outbound calls; nil gets a 1 req/s default.
	Limiter *rate.Limiter
}

// Client fetches current conditions and forecasts, geocoding by place name.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	clock      func() time.Time
	limiter    *rate.Limiter
}

// NewClient constructs the weather client.
func NewClient(cfg ClientConfig) *Client {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
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

type geocodeEntry struct {
	Name string  `json:"name"`
	Lat  float64 `json:"lat"`
	Lon  float64 `json:"lon"`
}

type conditionsResponse struct {
	Name string `json:"name"`
	Main struct {
		Temp      float64 `json:"temp"`
		FeelsLike float64 `json:"feels_like"`
		Humidity  int     `json:"humidity"`
		Pressure  int     `json:"pressure"`
	} `json:"main"`
	Weather []struct {
		ID          int    `json:"id"`
		Description string `json:"description"`
		Icon        string `json:"icon"`
	} `json:"weather"`
	Wind struct {
		Speed float64 `json:"speed"`
	} `json:"wind"`
	Visibility int `json:"visibility"`
}

type forecastResponse struct {
	List []struct {
		Dt   int64 `json:"dt"`
		Main struct {
			TempMax  float64 `json:"temp_max"`
			TempMin  float64 `json:"temp_min"`
			Humidity int     `json:"humidity"`
		} `json:"main"`
		Weather []struct {
			Description string `json:"description"`
			Icon        string `json:"icon"`
		} `json:"weather"`
		Wind struct {
			Speed float64 `json:"speed"`
		} `json:"wind"`
		Rain map[string]float64 `json:"rain"`
	} `json:"list"`
}

// FetchByLocation geocodes the place name and returns a live snapshot.
func (c *Client) FetchByLocation(ctx context.Context, location, language string) (Snapshot, error) {
	if !c.Configured() {
		return Snapshot{}, ErrUnconfigured
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return Snapshot{}, svcerr.New(opFetch, "rate_limit_wait", err)
	}

	var entries []geocodeEntry
	geocodeURL := fmt.Sprintf("%s/geo/1.0/direct?q=%s&limit=1&appid=%s",
		c.baseURL, url.QueryEscape(location), c.apiKey)
	if err := c.getJSON(ctx, geocodeURL, &entries); err != nil {
		return Snapshot{}, svcerr.New(opFetch, "geocode_failed", err)
	}
	if len(entries) == 0 {
		return Snapshot{}, ErrLocationNotFound
	}

	current, err := c.fetchCurrent(ctx, entries[0].Lat, entries[0].Lon, language)
	if err != nil {
		return Snapshot{}, svcerr.New(opFetch, "current_failed", err)
	}
	forecast, err := c.fetchForecast(ctx, entries[0].Lat, entries[0].Lon, language)
	if err != nil {
		return Snapshot{}, svcerr.New(opFetch, "forecast_failed", err)
	}

	return c.assemble(current, forecast, language), nil
}

func (c *Client) fetchCurrent(ctx context.Context, lat, lon float64, language string) (conditionsResponse, error) {
	var response conditionsResponse
	endpoint := fmt.Sprintf("%s/data/2.5/weather?lat=%f&lon=%f&appid=%s&units=metric&lang=%s",
		c.baseURL, lat, lon, c.apiKey, language)
	return response, c.getJSON(ctx, endpoint, &response)
}

func (c *Client) fetchForecast(ctx context.Context, lat, lon float64, language string) (forecastResponse, error) {
	var response forecastResponse
	endpoint := fmt.Sprintf("%s/data/2.5/forecast?lat=%f&lon=%f&appid=%s&units=metric&lang=%s",
		c.baseURL, lat, lon, c.apiKey, language)
	return response, c.getJSON(ctx, endpoint, &response)
}

func (c *Client) getJSON(ctx context.Context, endpoint string, target interface{}) error {
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	response, err := c.httpClient.Do(request)
	if err != nil {
		return err
	}
	defer response.Body.Close()
	if response.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d", response.StatusCode)
	}
	return json.NewDecoder(response.Body).Decode(target)
}

func (c *Client) assemble(current conditionsResponse, forecast forecastResponse, language string) Snapshot {
	now := c.clock().UTC()

	snapshot := Snapshot{
		Location:    current.Name,
		Source:      SourceLive,
		LastUpdated: now,
	}
	if len(current.Weather) > 0 {
		snapshot.Current.Description = current.Weather[0].Description
		snapshot.Current.Icon = current.Weather[0].Icon
	}
	snapshot.Current.Temperature = int(current.Main.Temp + 0.5)
	snapshot.Current.FeelsLike = int(current.Main.FeelsLike + 0.5)
	snapshot.Current.Humidity = current.Main.Humidity
	snapshot.Current.Pressure = current.Main.Pressure
	snapshot.Current.WindSpeedKmh = kmh(current.Wind.Speed)
	visibility := current.Visibility
	if visibility == 0 {
		visibility = 10000
	}
	snapshot.Current.VisibilityKm = visibility / 1000

	days := forecast.List
	if len(days) > forecastDays {
		days = days[:forecastDays]
	}
	snapshot.Forecast = make([]ForecastDay, 0, len(days))
	for i, item := range days {
		day := ForecastDay{
			Date:         time.Unix(item.Dt, 0).UTC(),
			Day:          dayLabel(time.Unix(item.Dt, 0).UTC(), i == 0, language),
			High:         int(item.Main.TempMax + 0.5),
			Low:          int(item.Main.TempMin + 0.5),
			Humidity:     item.Main.Humidity,
			WindSpeedKmh: kmh(item.Wind.Speed),
		}
		if len(item.Weather) > 0 {
			day.Description = item.Weather[0].Description
			day.Icon = item.Weather[0].Icon
		}
		if item.Rain != nil {
			day.Precipitation = item.Rain["3h"]
		}
		snapshot.Forecast = append(snapshot.Forecast, day)
	}

	snapshot.Alerts = severeAlerts(current, now, language)
	return snapshot
}

// severeAlerts derives high-severity warnings from raw conditions:
// thunderstorm condition codes (2xx) and extreme heat.
func severeAlerts(current conditionsResponse, now time.Time, language string) []Alert {
	alerts := []Alert{}
	telugu := language == "te"

	if len(current.Weather) > 0 && current.Weather[0].ID >= 200 && current.Weather[0].ID < 300 {
		alert := Alert{
			Title:       "Thunderstorm Alert",
			Description: "Thunderstorm expected. Postpone outdoor activities.",
			Severity:    SeverityHigh,
			ValidUntil:  now.Add(6 * time.Hour),
		}
		if telugu {
			alert.Title = "ఉరుములతో వర్షం"
			alert.Description = "ఉరుములతో వర్షం అవకాశం. ఆరుబయట పనులు వాయిదా వేయండి."
		}
		alerts = append(alerts, alert)
	}

	if current.Main.Temp > 40 {
		alert := Alert{
			Title:       "Heat Wave Alert",
			Description: "Extreme heat. Provide extra water to crops.",
			Severity:    SeverityHigh,
			ValidUntil:  now.Add(24 * time.Hour),
		}
		if telugu {
			alert.Title = "వేడిమి హెచ్చరిక"
			alert.Description = "అధిక వేడిమి. పంటలకు అదనపు నీరు ఇవ్వండి."
		}
		alerts = append(alerts, alert)
	}

	return alerts
}

func kmh(metersPerSecond float64) int {
	return int(metersPerSecond*3.6 + 0.5)
}

func dayLabel(date time.Time, today bool, language string) string {
	if today {
		if language == "te" {
			return "ఈరోజు"
		}
		return "Today"
	}
	return date.Weekday().String()
}
