package intelligence

// TemperatureConfig bounds the ideal training temperature window, in Celsius.
type TemperatureConfig struct {
	IdealMinCelsius float64
	IdealMaxCelsius float64
	ExtremeColdC    float64
	ExtremeHotC     float64
}

// WeatherConditionsConfig scores non-temperature conditions.
type WeatherConditionsConfig struct {
	HighHumidityPercent  float64
	HighWindSpeedKPH     float64
	PrecipitationHeavyMM float64
}

// WeatherImpactConfig weighs how much a poor condition degrades a
// performance-impact score.
type WeatherImpactConfig struct {
	TemperaturePenaltyWeight float64
	HumidityPenaltyWeight    float64
	WindPenaltyWeight        float64
}

// WeatherAnalysisConfig is the full weather-impact configuration surface.
type WeatherAnalysisConfig struct {
	Temperature TemperatureConfig
	Conditions  WeatherConditionsConfig
	Impact      WeatherImpactConfig
}

func defaultWeatherAnalysisConfig() WeatherAnalysisConfig {
	return WeatherAnalysisConfig{
		Temperature: TemperatureConfig{
			IdealMinCelsius: 10.0,
			IdealMaxCelsius: 20.0,
			ExtremeColdC:    -5.0,
			ExtremeHotC:     32.0,
		},
		Conditions: WeatherConditionsConfig{
			HighHumidityPercent:  80.0,
			HighWindSpeedKPH:     30.0,
			PrecipitationHeavyMM: 10.0,
		},
		Impact: WeatherImpactConfig{
			TemperaturePenaltyWeight: 0.5,
			HumidityPenaltyWeight:    0.3,
			WindPenaltyWeight:        0.2,
		},
	}
}
