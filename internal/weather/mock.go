package weather

import "time"

// MockSnapshot is the deterministic placeholder substituted when the weather
// API is unconfigured or failing. Values are fixed Hyderabad defaults so
// fallback output is stable across calls.
func MockSnapshot(language string, now time.Time) Snapshot {
	telugu := language == "te"

	location := "Hyderabad"
	description := "Partly cloudy"
	if telugu {
		location = "హైదరాబాద్"
		description = "పాక్షిక మేఘావృతం"
	}

	forecast := make([]ForecastDay, 0, forecastDays)
	for i := 0; i < forecastDays; i++ {
		date := now.AddDate(0, 0, i)
		forecast = append(forecast, ForecastDay{
			Date:          date,
			Day:           dayLabel(date, i == 0, language),
			High:          30 + i%4,
			Low:           22 + i%3,
			Description:   description,
			Icon:          "02d",
			Humidity:      60 + (i*5)%20,
			WindSpeedKmh:  10 + i%6,
			Precipitation: 0,
		})
	}

	return Snapshot{
		Location: location,
		Current: Current{
			Temperature:  28,
			Description:  description,
			Humidity:     65,
			WindSpeedKmh: 12,
			Pressure:     1013,
			VisibilityKm: 10,
			Icon:         "02d",
			FeelsLike:    31,
		},
		Forecast:    forecast,
		Alerts:      []Alert{},
		Source:      SourceFallback,
		LastUpdated: now,
	}
}
