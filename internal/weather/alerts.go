package weather

// Farming alert thresholds, from the portal's agronomy guidance.
const (
	heatThresholdC      = 35
	frostThresholdC     = 10
	windThresholdKmh    = 20
	humidityThresholdPc = 80
	rainThresholdMm     = 0.5
)

// FarmingAlerts derives actionable advice strings from a snapshot.
func FarmingAlerts(snapshot Snapshot, language string) []string {
	telugu := language == "te"
	alerts := []string{}

	if snapshot.Current.Temperature > heatThresholdC {
		if telugu {
			alerts = append(alerts, "అధిక వేడిమి - పంటలకు నీరు ఎక్కువగా ఇవ్వండి")
		} else {
			alerts = append(alerts, "High temperature - Increase watering for crops")
		}
	}

	if snapshot.Current.Temperature < frostThresholdC {
		if telugu {
			alerts = append(alerts, "చల్లని వాతావరణం - పంటలను రక్షించండి")
		} else {
			alerts = append(alerts, "Cold weather - Protect crops from frost")
		}
	}

	rainSoon := false
	for _, day := range snapshot.Forecast {
		if day.Precipitation > rainThresholdMm {
			rainSoon = true
			break
		}
	}
	if rainSoon {
		if telugu {
			alerts = append(alerts, "వర్షం అవకాశం - పురుగుమందు చల్లకండి")
		} else {
			alerts = append(alerts, "Rain expected - Avoid pesticide spraying")
		}
	}

	if snapshot.Current.WindSpeedKmh > windThresholdKmh {
		if telugu {
			alerts = append(alerts, "గాలి వేగం అధికం - పంట రక్షణ చర్యలు తీసుకోండి")
		} else {
			alerts = append(alerts, "High wind speed - Take crop protection measures")
		}
	}

	if snapshot.Current.Humidity > humidityThresholdPc {
		if telugu {
			alerts = append(alerts, "అధిక తేమ - ఫంగల్ వ్యాధుల కోసం గమనించండి")
		} else {
			alerts = append(alerts, "High humidity - Watch for fungal diseases")
		}
	}

	return alerts
}
